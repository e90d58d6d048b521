// Package experiment implements functionality for running an experiment
package experiment

import (
	"github.com/samuelfneumann/pokerl/experiment/trackers"
	ts "github.com/samuelfneumann/pokerl/timestep"
)

// Experiment outlines structs that can run experiments. Experiments
// send each TimeStep to Trackers, which cache the data they track in
// RAM. The Save() method then saves all tracked data to disk. This is
// usually performed after an experiment has been run. The Run() method
// runs episodes until the maximum timestep limit is reached, and the
// RunEpisode() method runs a single episode.
type Experiment interface {
	Run() error

	// RunEpisode returns whether the step limit has been reached
	RunEpisode() (bool, error)

	// Tracks current timestep by sending it to Trackers
	track(ts.TimeStep)

	// Save all tracked data to disk
	Save() error

	// Adds a new Tracker to the (possibly already running) experiment.
	// Useful if you want to track data only after a specified event.
	Register(t trackers.Tracker)
}
