// Package pokemon implements reward shaping for an agent playing
// Pokémon Red through an emulator. The emulator is a collaborator which
// presses buttons and extracts Snapshots of the game state; this
// package turns consecutive Snapshots into rewards, observations, and
// episode endings.
//
// The reward logic is a two-mode state machine. While the player is
// exploring the overworld, rewards come from movement and map
// exploration; while in battle, rewards come from damaging and
// defeating the opponent. The mode is recomputed from every Snapshot.
package pokemon

import (
	"errors"
	"fmt"
	"math"

	env "github.com/samuelfneumann/pokerl/environment"
	ts "github.com/samuelfneumann/pokerl/timestep"
	"github.com/samuelfneumann/pokerl/utils/floatutils"
	"github.com/samuelfneumann/pokerl/utils/intutils"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
)

// ErrEpisodeEnded is returned by Step when the episode has ended and
// Reset has not yet been called
var ErrEpisodeEnded = errors.New("episode has ended")

// Observation feature indices
const (
	XIndex int = iota
	YIndex
	MapIndex
	PartyHPIndex
	PartyMaxHPIndex
	EnemyHPIndex
	EnemyMaxHPIndex
	InBattleIndex
	CaughtIndex
	SeenIndex
	BadgesIndex

	ObservationDims
)

const (
	ActionDims = 1

	MinAction float64 = 0.0
	MaxAction float64 = 1.0

	// maxBadges is the number of gym badges in the game
	maxBadges = 8
)

var actionBounds = r1.Interval{Min: MinAction, Max: MaxAction}

// Env implements the environment.Environment interface over an
// Emulator. Actions are 1-dimensional and continuous in [0, 1). Each
// action selects one of the configured buttons by uniform binning;
// actions outside [0, 1) are clipped and NaN actions select the first
// button.
//
// Observations consist of the player position, the aggregated party
// and enemy hit points, the battle flag, and the Pokédex and badge
// counters (see the *Index constants).
type Env struct {
	Task
	emulator Emulator
	buttons  []Button
	frames   int
	discount float64

	snapshot    Snapshot
	pressed     Button
	currentStep ts.TimeStep
}

// New returns a new Env running the Brock task configured by c on
// emulator e, as well as the first timestep of the environment
func New(e Emulator, c Config, discount float64) (*Env, ts.TimeStep, error) {
	task, err := NewBrock(c)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("new: %w", err)
	}
	return NewWithTask(e, task, c.Buttons, c.Frames, discount)
}

// NewWithTask returns a new Env running an arbitrary Task, as well as
// the first timestep of the environment
func NewWithTask(e Emulator, t Task, buttons []Button, frames int,
	discount float64) (*Env, ts.TimeStep, error) {
	if len(buttons) == 0 {
		return nil, ts.TimeStep{}, fmt.Errorf("newWithTask: no buttons")
	}

	pokemon := &Env{
		Task:     t,
		emulator: e,
		buttons:  append([]Button(nil), buttons...),
		frames:   frames,
		discount: discount,
	}

	step, err := pokemon.Reset()
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("newWithTask: %w", err)
	}
	return pokemon, step, nil
}

// Reset reloads the emulator's starting state and begins a new episode
func (p *Env) Reset() (ts.TimeStep, error) {
	start, err := p.emulator.LoadInitialState()
	if err != nil {
		return ts.TimeStep{}, fmt.Errorf("reset: could not load initial "+
			"state: %w", err)
	}
	if err := start.Validate(); err != nil {
		return ts.TimeStep{}, fmt.Errorf("reset: %w", err)
	}

	p.Begin(start)
	p.snapshot = start

	step := ts.New(ts.First, 0, p.discount, observe(start), 0)
	p.currentStep = step
	return step, nil
}

// Step presses the button selected by action a and returns the next
// timestep as well as whether the episode has ended. Whether the episode
// was done or truncated is reported by the timestep's Terminated and
// Truncated methods.
func (p *Env) Step(a *mat.VecDense) (ts.TimeStep, bool, error) {
	if p.currentStep.Last() {
		return ts.TimeStep{}, true, fmt.Errorf("step: %w", ErrEpisodeEnded)
	}
	if a.Len() != ActionDims {
		return ts.TimeStep{}, true, fmt.Errorf("step: actions should be "+
			"%d-dimensional, got %d", ActionDims, a.Len())
	}

	button := p.buttons[Discretize(a.AtVec(0), len(p.buttons))]
	if err := p.emulator.Press(button, p.frames); err != nil {
		return ts.TimeStep{}, true, fmt.Errorf("step: could not press "+
			"%v: %w", button, err)
	}

	next, err := p.emulator.Snapshot()
	if err != nil {
		return ts.TimeStep{}, true, fmt.Errorf("step: could not read "+
			"snapshot: %w", err)
	}
	if err := next.Validate(); err != nil {
		return ts.TimeStep{}, true, fmt.Errorf("step: %w", err)
	}

	reward := p.GetReward(p.snapshot, next, button)
	nextStep := ts.New(ts.Mid, reward, p.discount, observe(next),
		p.currentStep.Number+1)
	p.End(&nextStep)

	p.snapshot = next
	p.pressed = button
	p.currentStep = nextStep
	return nextStep, nextStep.Last(), nil
}

// Discretize maps an action in [0, 1) to one of n buttons by uniform
// binning
func Discretize(action float64, n int) int {
	if math.IsNaN(action) {
		return 0
	}
	action = floatutils.ClipInterval(action, actionBounds)
	return intutils.Clip(int(math.Floor(action*float64(n))), 0, n-1)
}

// CurrentTimeStep returns the current timestep in the environment
func (p *Env) CurrentTimeStep() ts.TimeStep {
	return p.currentStep
}

// Snapshot returns the most recent game snapshot
func (p *Env) Snapshot() Snapshot {
	return p.snapshot
}

// Pressed returns the button pressed on the most recent step
func (p *Env) Pressed() Button {
	return p.pressed
}

// ActionSpec returns the action specification of the environment
func (p *Env) ActionSpec() env.Spec {
	shape := mat.NewVecDense(ActionDims, nil)
	lowerBound := mat.NewVecDense(ActionDims, []float64{MinAction})
	upperBound := mat.NewVecDense(ActionDims, []float64{MaxAction})

	return env.NewSpec(shape, env.Action, lowerBound, upperBound,
		env.Continuous)
}

// ObservationSpec returns the observation specification of the
// environment
func (p *Env) ObservationSpec() env.Spec {
	inf := math.Inf(1)

	shape := mat.NewVecDense(ObservationDims, nil)
	lowerBound := mat.NewVecDense(ObservationDims, nil)
	upperBound := mat.NewVecDense(ObservationDims, []float64{
		XIndex:          255,
		YIndex:          255,
		MapIndex:        255,
		PartyHPIndex:    inf,
		PartyMaxHPIndex: inf,
		EnemyHPIndex:    inf,
		EnemyMaxHPIndex: inf,
		InBattleIndex:   1,
		CaughtIndex:     inf,
		SeenIndex:       inf,
		BadgesIndex:     maxBadges,
	})

	return env.NewSpec(shape, env.Observation, lowerBound, upperBound,
		env.Discrete)
}

// DiscountSpec returns the discounting specification of the environment
func (p *Env) DiscountSpec() env.Spec {
	shape := mat.NewVecDense(1, nil)
	bound := mat.NewVecDense(1, []float64{p.discount})

	return env.NewSpec(shape, env.Discount, bound, bound, env.Continuous)
}

// RewardSpec returns the reward specification of the environment.
// Rewards are unbounded.
func (p *Env) RewardSpec() env.Spec {
	shape := mat.NewVecDense(1, nil)
	lowerBound := mat.NewVecDense(1, []float64{math.Inf(-1)})
	upperBound := mat.NewVecDense(1, []float64{math.Inf(1)})

	return env.NewSpec(shape, env.Reward, lowerBound, upperBound,
		env.Continuous)
}

// String returns a string representation of the environment
func (p *Env) String() string {
	str := "Pokemon  |  At: %v  |  Mode: %v  |  Party HP: %d/%d  |  " +
		"Caught: %d  |  Badges: %d"
	s := p.snapshot
	return fmt.Sprintf(str, s.Position, ModeOf(s), s.PartyHP, s.PartyMaxHP,
		s.Caught, s.BadgeCount())
}

// observe projects a Snapshot onto an observation vector
func observe(s Snapshot) *mat.VecDense {
	var inBattle, enemyHP, enemyMaxHP float64
	if s.InBattle {
		inBattle = 1
		enemyHP = float64(s.EnemyHP)
		enemyMaxHP = float64(s.EnemyMaxHP)
	}

	return mat.NewVecDense(ObservationDims, []float64{
		XIndex:          float64(s.Position.X),
		YIndex:          float64(s.Position.Y),
		MapIndex:        float64(s.Position.Map),
		PartyHPIndex:    float64(s.PartyHP),
		PartyMaxHPIndex: float64(s.PartyMaxHP),
		EnemyHPIndex:    enemyHP,
		EnemyMaxHPIndex: enemyMaxHP,
		InBattleIndex:   inBattle,
		CaughtIndex:     float64(s.Caught),
		SeenIndex:       float64(s.Seen),
		BadgesIndex:     float64(s.BadgeCount()),
	})
}
