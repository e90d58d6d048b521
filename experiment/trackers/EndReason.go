package trackers

import ts "github.com/samuelfneumann/pokerl/timestep"

// EndReason tracks and saves why each episode of an experiment ended
type EndReason struct {
	reasons  []ts.EndType
	filename string
}

// NewEndReason returns a new EndReason tracker which will save its data
// at the specified location filename
func NewEndReason(filename string) *EndReason {
	return &EndReason{filename: filename}
}

// Track caches the end type of the last timestep in each episode
func (e *EndReason) Track(t ts.TimeStep) {
	if t.Last() {
		e.reasons = append(e.reasons, t.EndType())
	}
}

// Counts returns the number of episodes which ended for each reason
func (e *EndReason) Counts() map[ts.EndType]int {
	return Count(e.reasons)
}

// Save saves the data tracked by the EndReason Tracker to disk
func (e *EndReason) Save() error {
	return save(e.filename, e.reasons)
}

// Count returns the number of occurrences of each end type
func Count(reasons []ts.EndType) map[ts.EndType]int {
	counts := make(map[ts.EndType]int)
	for _, r := range reasons {
		counts[r]++
	}
	return counts
}

// LoadEndReasons loads and returns the data saved by an EndReason
// Tracker
func LoadEndReasons(filename string) ([]ts.EndType, error) {
	var data []ts.EndType
	if err := load(filename, &data); err != nil {
		return nil, err
	}
	return data, nil
}
