package floatutils

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r1"
)

func TestClip(t *testing.T) {
	unit := r1.Interval{Min: 0, Max: 1}
	clips := []struct{ value, want float64 }{
		{-0.5, 0},
		{0.25, 0.25},
		{3, 1},
		{math.Inf(1), 1},
	}

	for _, c := range clips {
		if got := ClipInterval(c.value, unit); got != c.want {
			t.Errorf("clip(%v): got %v, want %v", c.value, got, c.want)
		}
	}
}
