package random

import (
	"testing"

	ts "github.com/samuelfneumann/pokerl/timestep"
	"gonum.org/v1/gonum/mat"
)

func bounds(lower, upper float64) (mat.Vector, mat.Vector) {
	return mat.NewVecDense(1, []float64{lower}), mat.NewVecDense(1, []float64{upper})
}

func TestWithinBounds(t *testing.T) {
	lower, upper := bounds(0.25, 0.5)
	r, err := New(lower, upper, 0, 1)
	if err != nil {
		t.Fatal(err)
	}

	step := ts.New(ts.Mid, 0, 1, mat.NewVecDense(1, nil), 1)
	for i := 0; i < 1000; i++ {
		a := r.SelectAction(step).AtVec(0)
		if a < 0.25 || a >= 0.5 {
			t.Fatalf("action %v outside [0.25, 0.5)", a)
		}
	}
}

func TestRepeat(t *testing.T) {
	lower, upper := bounds(0, 1)
	r, err := New(lower, upper, 1, 1)
	if err != nil {
		t.Fatal(err)
	}

	first := ts.New(ts.First, 0, 1, mat.NewVecDense(1, nil), 0)
	mid := ts.New(ts.Mid, 0, 1, mat.NewVecDense(1, nil), 1)

	want := r.SelectAction(first).AtVec(0)
	for i := 0; i < 10; i++ {
		if got := r.SelectAction(mid).AtVec(0); got != want {
			t.Fatalf("repeated action: got %v, want %v", got, want)
		}
	}

	// Modifying a returned action must not change the next one
	a := r.SelectAction(mid)
	a.SetVec(0, -1)
	if got := r.SelectAction(mid).AtVec(0); got != want {
		t.Errorf("repeated action: got %v, want %v", got, want)
	}
}

func TestSeeded(t *testing.T) {
	lower, upper := bounds(0, 1)
	r1, _ := New(lower, upper, 0.5, 9)
	r2, _ := New(lower, upper, 0.5, 9)

	step := ts.New(ts.Mid, 0, 1, mat.NewVecDense(1, nil), 1)
	for i := 0; i < 100; i++ {
		if r1.SelectAction(step).AtVec(0) != r2.SelectAction(step).AtVec(0) {
			t.Fatalf("step %d: agents with equal seeds diverged", i)
		}
	}
}

func TestInvalid(t *testing.T) {
	lower, upper := bounds(1, 0)
	if _, err := New(lower, upper, 0, 1); err == nil {
		t.Errorf("expected an error for inverted bounds")
	}

	lower, upper = bounds(0, 1)
	if _, err := New(lower, upper, 2, 1); err == nil {
		t.Errorf("expected an error for invalid repeat probability")
	}
	if _, err := New(lower, mat.NewVecDense(2, nil), 0, 1); err == nil {
		t.Errorf("expected an error for mismatched bounds")
	}
}
