package scale_test

import (
	"fmt"

	"github.com/matzehuels/forecastviz/pkg/chart/scale"
	"github.com/matzehuels/forecastviz/pkg/series"
)

func ExampleNiceDomain() {
	actual := series.Series{series.Gap, 183.4, 190.2, series.Gap}
	predicted := series.Series{series.Gap, series.Gap, 197.5, 221.9}

	ext := scale.ExtentOfMany(actual, predicted)
	dom := scale.NiceDomain(ext, 5)
	fmt.Println("extent:", ext)
	fmt.Println("domain:", dom)
	fmt.Println("ticks:", scale.Ticks(dom, 6))
	// Output:
	// extent: [183.4 221.9]
	// domain: [180 230]
	// ticks: [180 190 200 210 220 230]
}

func ExampleLinear() {
	// Values grow upward, pixels grow downward.
	y := scale.NewLinear([2]float64{0, 100}, [2]float64{400, 0})
	fmt.Println(y.Map(0), y.Map(25), y.Map(100))
	// Output:
	// 400 300 0
}
