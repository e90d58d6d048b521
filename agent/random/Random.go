// Package random implements an agent which selects actions uniformly
// at random. The agent does not learn.
package random

import (
	"fmt"

	"github.com/samuelfneumann/pokerl/agent"
	ts "github.com/samuelfneumann/pokerl/timestep"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Random selects actions uniformly from the bounds of an action
// space. With probability Repeat, the previous action is selected
// again instead, which lets the agent walk in straight lines.
type Random struct {
	repeat  distuv.Bernoulli
	uniform []distuv.Uniform
	last    *mat.VecDense
}

// New returns a new Random agent which selects actions within the
// bounds given. Bounds must be finite.
func New(lower, upper mat.Vector, repeat float64, seed uint64) (*Random,
	error) {
	if lower.Len() != upper.Len() {
		return nil, fmt.Errorf("new: lower bounds length %d must match upper "+
			"bounds length %d", lower.Len(), upper.Len())
	}
	if repeat < 0 || repeat > 1 {
		return nil, fmt.Errorf("new: repeat probability %v outside [0, 1]",
			repeat)
	}

	source := rand.NewSource(seed)
	uniform := make([]distuv.Uniform, lower.Len())
	for i := range uniform {
		if lower.AtVec(i) > upper.AtVec(i) {
			return nil, fmt.Errorf("new: lower bound %v exceeds upper "+
				"bound %v", lower.AtVec(i), upper.AtVec(i))
		}
		uniform[i] = distuv.Uniform{
			Min: lower.AtVec(i),
			Max: upper.AtVec(i),
			Src: source,
		}
	}

	return &Random{
		repeat:  distuv.Bernoulli{P: repeat, Src: source},
		uniform: uniform,
	}, nil
}

// SelectAction returns a random action
func (r *Random) SelectAction(t ts.TimeStep) *mat.VecDense {
	if r.last != nil && !t.First() && r.repeat.Rand() == 1 {
		return mat.VecDenseCopyOf(r.last)
	}

	action := make([]float64, len(r.uniform))
	for i := range r.uniform {
		action[i] = r.uniform[i].Rand()
	}
	r.last = mat.NewVecDense(len(action), action)
	return mat.VecDenseCopyOf(r.last)
}

// ObserveFirst forgets the previous action
func (r *Random) ObserveFirst(ts.TimeStep) error {
	r.last = nil
	return nil
}

// Observe is a no-op, the agent does not learn
func (r *Random) Observe(mat.Vector, ts.TimeStep) error { return nil }

// Step is a no-op, the agent does not learn
func (r *Random) Step() error { return nil }

// EndEpisode is a no-op
func (r *Random) EndEpisode() {}

var _ agent.Agent = (*Random)(nil)
