package experiment

import (
	"fmt"
	"io"
	"log"

	"github.com/samuelfneumann/pokerl/agent"
	env "github.com/samuelfneumann/pokerl/environment"
	"github.com/samuelfneumann/pokerl/experiment/trackers"
	ts "github.com/samuelfneumann/pokerl/timestep"
	"github.com/samuelfneumann/pokerl/utils/progressbar"
)

// Online is an Experiment that runs an agent online only. No offline
// evaluation is performed.
type Online struct {
	env.Environment
	agent.Agent
	maxSteps     int
	currentSteps int
	episodes     int
	trackers     []trackers.Tracker

	// Verbose logs a summary line after every episode
	Verbose bool

	progress *progressbar.ManualProgressBar
}

// NewOnline creates and returns a new online experiment on a given
// environment with a given agent. The steps parameter determines how
// many timesteps the experiment is run for, and the t parameter
// is a slice of Trackers which determine what data is saved.
func NewOnline(e env.Environment, a agent.Agent, steps int,
	t ...trackers.Tracker) *Online {
	return &Online{
		Environment: e,
		Agent:       a,
		maxSteps:    steps,
		trackers:    t,
	}
}

// ShowProgress displays a progress bar of the given width on out as
// the experiment runs
func (o *Online) ShowProgress(out io.Writer, width int) {
	o.progress = progressbar.NewManualProgressBar(out, width, o.maxSteps)
}

// Register registers a Tracker with the Experiment so that data
// generated during the experiment can be tracked and saved
func (o *Online) Register(t trackers.Tracker) {
	o.trackers = append(o.trackers, t)
}

// Steps returns the number of steps taken so far
func (o *Online) Steps() int {
	return o.currentSteps
}

// Episodes returns the number of episodes started so far
func (o *Online) Episodes() int {
	return o.episodes
}

// RunEpisode runs a single episode of the experiment
func (o *Online) RunEpisode() (bool, error) {
	step, err := o.Environment.Reset()
	if err != nil {
		return true, fmt.Errorf("runEpisode: could not reset: %w", err)
	}
	o.episodes++

	if err := o.Agent.ObserveFirst(step); err != nil {
		return true, fmt.Errorf("runEpisode: could not observe first "+
			"step: %w", err)
	}
	o.track(step)

	var episodeReturn float64
	for !step.Last() && o.currentSteps < o.maxSteps {
		o.currentSteps++

		// Select action, step in environment
		action := o.Agent.SelectAction(step)
		step, _, err = o.Environment.Step(action)
		if err != nil {
			return true, fmt.Errorf("runEpisode: %w", err)
		}
		episodeReturn += step.Reward

		o.track(step)

		// Observe the timestep and step the agent
		if err := o.Agent.Observe(action, step); err != nil {
			return true, fmt.Errorf("runEpisode: could not observe: %w", err)
		}
		if err := o.Agent.Step(); err != nil {
			return true, fmt.Errorf("runEpisode: could not step agent: %w",
				err)
		}

		if o.progress != nil {
			o.progress.Increment(1)
		}
	}
	o.Agent.EndEpisode()

	if o.progress != nil {
		o.progress.Display()
	}
	if o.Verbose {
		log.Printf("episode %d: steps: %d, return: %.2f, ended: %v",
			o.episodes, step.Number, episodeReturn, step.EndType())
	}

	// Return whether or not the max timestep limit has been reached
	return o.currentSteps >= o.maxSteps, nil
}

// Run runs the entire experiment for all timesteps
func (o *Online) Run() error {
	if o.progress != nil {
		defer o.progress.Close()
	}

	for ended := false; !ended; {
		var err error
		if ended, err = o.RunEpisode(); err != nil {
			return fmt.Errorf("run: %w", err)
		}
	}
	return nil
}

// Save saves the data cached by the Trackers to disk
func (o *Online) Save() error {
	for _, t := range o.trackers {
		if err := t.Save(); err != nil {
			return fmt.Errorf("save: %w", err)
		}
	}
	return nil
}

// track tracks the current timestep by caching its data in each Tracker
func (o *Online) track(t ts.TimeStep) {
	for _, tracker := range o.trackers {
		tracker.Track(t)
	}
}
