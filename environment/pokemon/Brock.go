package pokemon

import (
	"fmt"

	env "github.com/samuelfneumann/pokerl/environment"
	ts "github.com/samuelfneumann/pokerl/timestep"
	"gonum.org/v1/gonum/mat"
)

// Task shapes rewards from Snapshot transitions and decides when
// episodes end
type Task interface {
	env.Ender

	// Begin starts a new episode from the starting snapshot
	Begin(start Snapshot)

	// GetReward returns the reward for pressing a button in game state
	// prev, resulting in game state next
	GetReward(prev, next Snapshot, pressed Button) float64
}

// Brock implements the task of earning the first gym badge. Rewards
// are the weighted sum of movement, location, battle, capture,
// experience, and Pokédex sub-scores. The reward is unbounded and is
// not normalized.
//
// The episode is done once the badge count increases. It is truncated
// when the party faints, when the agent flees a battle (if configured),
// when a battle stalls, when the agent stays in place for too long, or
// when the step limit is reached.
type Brock struct {
	config Config
	state  *EpisodeState
	last   Breakdown

	truncation env.Enders
}

// NewBrock returns a new Brock task
func NewBrock(c Config) (*Brock, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("newBrock: %w", err)
	}

	b := &Brock{
		config: c.Clone(),
		state:  NewEpisodeState(),
	}

	limits := b.config.Limits
	if limits.TruncateOnFaint {
		fainted := env.NewFunctionEnder(func(obs *mat.VecDense) bool {
			return obs.AtVec(PartyHPIndex) <= 0 &&
				obs.AtVec(PartyMaxHPIndex) > 0
		}, ts.Fainted)
		b.truncation = append(b.truncation, fainted)
	}

	fled := env.NewFunctionEnder(func(*mat.VecDense) bool {
		return b.config.Battle.FleeTruncates && b.state.fled
	}, ts.Fled)
	stalled := env.NewFunctionEnder(func(*mat.VecDense) bool {
		return b.state.Battle.NoAttack > limits.MaxNoAttack
	}, ts.Stalled)
	stagnated := env.NewFunctionEnder(func(*mat.VecDense) bool {
		return b.state.Stagnation > limits.MaxStagnation
	}, ts.Stagnated)

	b.truncation = append(b.truncation, fled, stalled, stagnated,
		env.NewStepLimit(limits.MaxSteps))

	return b, nil
}

// Begin clears the episode state
func (b *Brock) Begin(Snapshot) {
	b.state.Reset()
	b.last = Breakdown{}
}

// GetReward computes the reward of the transition from prev to next
// and advances the episode state
func (b *Brock) GetReward(prev, next Snapshot, pressed Button) float64 {
	b.state.Steps++
	b.state.fled = false

	b.last = Breakdown{
		Movement:   b.movementScore(prev, next),
		Location:   b.locationScore(prev, next),
		Battle:     b.battleScore(prev, next, pressed),
		Capture:    b.captureScore(prev, next),
		Experience: b.experienceScore(prev, next),
		Seen:       b.seenScore(prev, next),
	}

	if next.BadgeCount() > prev.BadgeCount() {
		b.state.goalReached = true
	}

	return b.last.Total(b.config.Weights)
}

// End determines whether the episode has ended. Reaching the goal takes
// precedence over every truncation condition.
func (b *Brock) End(t *ts.TimeStep) bool {
	if b.state.goalReached {
		t.StepType = ts.Last
		t.SetEnd(ts.TerminalStateReached)
		return true
	}
	return b.truncation.End(t)
}

// Breakdown returns the sub-scores of the most recent reward
func (b *Brock) Breakdown() Breakdown {
	return b.last
}

// State returns the episode state. It must not be modified.
func (b *Brock) State() *EpisodeState {
	return b.state
}

// Config returns a copy of the task configuration
func (b *Brock) Config() Config {
	return b.config.Clone()
}

func (b *Brock) String() string {
	s := b.state
	return fmt.Sprintf("Brock  |  Steps: %d  |  Tiles: %d  |  Maps: %d  |  "+
		"Battles: %d  |  Wins: %d", s.Steps, len(s.VisitedPositions),
		len(s.VisitedMaps), s.Battles, s.Wins)
}
