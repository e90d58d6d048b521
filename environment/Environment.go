// Package environment outlines the interfaces and structs needed to
// implement concrete environments
package environment

import (
	ts "github.com/samuelfneumann/pokerl/timestep"
	"gonum.org/v1/gonum/mat"
)

// Ender determines when an episode should end. If the episode should
// end, End() sets the StepType of the argument TimeStep to
// timestep.Last, records the EndType, and returns true.
type Ender interface {
	End(*ts.TimeStep) bool
}

// Environment implements a simulated environment. Environments start
// ready to use; Reset() is called between episodes.
type Environment interface {
	Reset() (ts.TimeStep, error)
	Step(action *mat.VecDense) (ts.TimeStep, bool, error)
	CurrentTimeStep() ts.TimeStep
	RewardSpec() Spec
	DiscountSpec() Spec
	ObservationSpec() Spec
	ActionSpec() Spec
}
