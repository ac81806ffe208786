package line_test

import (
	"fmt"

	"github.com/matzehuels/forecastviz/pkg/chart/line"
	"github.com/matzehuels/forecastviz/pkg/series"
)

func ExampleRuns() {
	// A gap at index 2 splits the series; the lone 9 cannot form a line.
	s := series.Series{1, 2, series.Gap, 4, 5, 6, series.Gap, 9}
	x := func(i int) float64 { return float64(i * 10) }
	y := func(v float64) float64 { return 100 - v }

	for _, run := range line.Runs(s, x, y) {
		fmt.Println(run)
	}
	fmt.Println("segments:", len(line.Segments(line.Runs(s, x, y))))
	// Output:
	// [{0 99} {10 98}]
	// [{30 96} {40 95} {50 94}]
	// segments: 3
}
