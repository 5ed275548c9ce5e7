package mutate

import (
	"math"

	"zenflow/internal/model"
)

const (
	// ChildOffsetX is how far to the right of its parent a quick-entry child node lands.
	ChildOffsetX = 220.0
	// DefaultExpandRadius is the distance of AI-suggested children from their source node.
	DefaultExpandRadius = 220.0
)

// DefaultNodePosition is where an untargeted quick-entry node lands, before the view offset.
var DefaultNodePosition = model.Point{X: 500, Y: 300}

var childSlotOffsets = []float64{0, 50, -50, 100, -100}

// ArcLayout spreads n points over a 216 degree arc of the given radius around center.
// Point i sits at angle (i/n)*1.2*pi - 0.6*pi, measured from the downward axis.
func ArcLayout(center model.Point, n int, radius float64) []model.Point {
	if n <= 0 {
		return nil
	}
	out := make([]model.Point, 0, n)
	for i := 0; i < n; i++ {
		angle := float64(i)/float64(n)*math.Pi*1.2 - math.Pi*0.6
		out = append(out, model.Point{
			X: center.X + math.Sin(angle)*radius,
			Y: center.Y + math.Cos(angle)*radius,
		})
	}
	return out
}

// childPosition places the k-th quick-entry child of parent (k counts existing children).
func childPosition(parent model.Point, k int) model.Point {
	dy := childSlotOffsets[k%len(childSlotOffsets)]
	return model.Point{X: parent.X + ChildOffsetX, Y: parent.Y + dy}
}
