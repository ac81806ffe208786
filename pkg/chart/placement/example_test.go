package placement_test

import (
	"fmt"

	"github.com/matzehuels/forecastviz/pkg/chart/line"
	"github.com/matzehuels/forecastviz/pkg/chart/placement"
	"github.com/matzehuels/forecastviz/pkg/draw"
)

func ExamplePlace() {
	plot := draw.Rect{Left: 0, Top: 0, Right: 800, Bottom: 400}

	// One line hugging the top edge: the emptiest cells are on the bottom
	// row, and the bias tips the choice to the forecast half.
	segs := []line.Segment{{A: draw.Point{X: 0, Y: 0}, B: draw.Point{X: 800, Y: 0}}}

	r := placement.Place(segs, plot, 400, placement.DefaultOptions())
	fmt.Printf("left=%.0f top=%.0f side=%s\n", r.Left, r.Top, r.Side)
	// Output:
	// left=458 top=266 side=up
}
