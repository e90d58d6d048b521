package environment

import (
	"testing"

	ts "github.com/samuelfneumann/pokerl/timestep"
	"gonum.org/v1/gonum/mat"
)

func TestStepLimit(t *testing.T) {
	limit := NewStepLimit(5)

	for i := 1; i <= 5; i++ {
		step := ts.New(ts.Mid, 0, 1, mat.NewVecDense(1, nil), i)
		ended := limit.End(&step)

		if want := i == 5; ended != want {
			t.Errorf("step %d: ended = %v, want %v", i, ended, want)
		}
		if ended && (!step.Last() || step.EndType() != ts.Timeout) {
			t.Errorf("step %d: expected Last/Timeout, got %v", i, step)
		}
	}
}

func TestEndersOrder(t *testing.T) {
	negative := NewFunctionEnder(func(v *mat.VecDense) bool {
		return v.AtVec(0) < 0
	}, ts.Fainted)
	enders := Enders{negative, NewStepLimit(1)}

	step := ts.New(ts.Mid, 0, 1, mat.NewVecDense(1, []float64{-1}), 1)
	if !enders.End(&step) {
		t.Fatalf("expected episode to end")
	}
	if step.EndType() != ts.Fainted {
		t.Errorf("endType: got %v, want %v", step.EndType(), ts.Fainted)
	}

	step = ts.New(ts.Mid, 0, 1, mat.NewVecDense(1, []float64{1}), 0)
	if enders.End(&step) {
		t.Errorf("episode should not have ended: %v", step)
	}
	if step.Last() {
		t.Errorf("step type should be unchanged")
	}
}

func TestSpecContains(t *testing.T) {
	s := NewSpec(mat.NewVecDense(2, nil), Observation,
		mat.NewVecDense(2, []float64{0, 0}),
		mat.NewVecDense(2, []float64{1, 1}), Continuous)

	if !s.Contains(mat.NewVecDense(2, []float64{0.5, 1})) {
		t.Errorf("expected vector within bounds")
	}
	if s.Contains(mat.NewVecDense(2, []float64{0.5, 1.5})) {
		t.Errorf("expected vector out of bounds")
	}
	if s.Contains(mat.NewVecDense(1, []float64{0.5})) {
		t.Errorf("expected length mismatch to be rejected")
	}
}
