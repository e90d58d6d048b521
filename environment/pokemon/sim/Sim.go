// Package sim implements a small simulated overworld which satisfies
// the pokemon.Emulator interface. The simulator covers the path from
// Oak's Lab to the Pewter City gym: walls, tall grass with wild
// encounters, a battle menu, catching, experience, fainting, and a gym
// leader who grants the first badge.
//
// The simulator is seeded and deterministic given its seed and the
// sequence of button presses.
package sim

import (
	"fmt"
	"math"

	"github.com/samuelfneumann/pokerl/environment/pokemon"
	"github.com/samuelfneumann/pokerl/utils/intutils"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Config configures the simulator
type Config struct {
	Seed uint64 `yaml:"seed" json:"seed"`

	// EncounterRate is the probability of a wild encounter on each step
	// into tall grass
	EncounterRate float64 `yaml:"encounterRate" json:"encounterRate"`

	// CatchRate is the probability of catching a wild Pokémon at full
	// hp. The probability grows linearly to one as its hp drops to zero.
	CatchRate float64 `yaml:"catchRate" json:"catchRate"`

	// FleeRate is the probability of escaping a wild battle
	FleeRate float64 `yaml:"fleeRate" json:"fleeRate"`

	// StarterLevel is the level of the player's Pokémon at the start of
	// an episode
	StarterLevel int `yaml:"starterLevel" json:"starterLevel"`
}

// DefaultConfig returns the default simulator configuration
func DefaultConfig() Config {
	return Config{
		EncounterRate: 0.1,
		CatchRate:     0.3,
		FleeRate:      0.8,
		StarterLevel:  6,
	}
}

// Validate checks that the Config is usable
func (c Config) Validate() error {
	for _, p := range []float64{c.EncounterRate, c.CatchRate, c.FleeRate} {
		if math.IsNaN(p) || p < 0 || p > 1 {
			return fmt.Errorf("validate: probability %v outside [0, 1]", p)
		}
	}
	if c.StarterLevel <= 0 {
		return fmt.Errorf("validate: starter level must be positive, got %d",
			c.StarterLevel)
	}
	return nil
}

const (
	gymLeaderLevel = 12
	xpPerLevel     = 50

	// Wild Pokémon levels are drawn uniformly from [minWildLevel,
	// maxWildLevel]
	minWildLevel = 2
	maxWildLevel = 5
)

// opponent is the Pokémon the player is battling
type opponent struct {
	hp, maxHP int
	level     int
	leader    bool
}

// Sim is a simulated overworld. Sim is not safe for concurrent use.
type Sim struct {
	config Config
	areas  map[pokemon.MapID]area

	rng       distuv.Uniform
	damage    distuv.Normal
	wildLevel distuv.Uniform

	position pokemon.Position
	level    int
	xp       int
	hp       int
	caught   int
	seen     int
	badges   uint8

	inBattle bool
	enemy    opponent
	turn     int
	cursor   pokemon.MenuItem
}

// New returns a new simulator, positioned at the start of an episode
func New(c Config) (*Sim, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("new: %w", err)
	}

	source := rand.NewSource(c.Seed)
	s := &Sim{
		config:    c,
		areas:     world(),
		rng:       distuv.Uniform{Min: 0, Max: 1, Src: source},
		damage:    distuv.Normal{Mu: 0, Sigma: 1, Src: source},
		wildLevel: distuv.Uniform{Min: minWildLevel, Max: maxWildLevel + 1, Src: source},
	}
	s.restart()
	return s, nil
}

// LoadInitialState restores the starting state of an episode. The
// random number generator is not reseeded, so consecutive episodes
// differ.
func (s *Sim) LoadInitialState() (pokemon.Snapshot, error) {
	s.restart()
	return s.Snapshot()
}

func (s *Sim) restart() {
	s.position = Start
	s.level = s.config.StarterLevel
	s.xp = 0
	s.hp = s.maxHP()
	s.caught, s.seen = 1, 1
	s.badges = 0
	s.leaveBattle()
}

// Snapshot returns the current game state
func (s *Sim) Snapshot() (pokemon.Snapshot, error) {
	snap := pokemon.Snapshot{
		Position:   s.position,
		PartyHP:    s.hp,
		PartyMaxHP: s.maxHP(),
		InBattle:   s.inBattle,
		Caught:     s.caught,
		Seen:       s.seen,
		PartyXP:    s.xp,
		Badges:     s.badges,
	}
	if s.inBattle {
		snap.EnemyHP = s.enemy.hp
		snap.EnemyMaxHP = s.enemy.maxHP
		snap.Turn = s.turn
		snap.MenuCursor = s.cursor
	}
	return snap, nil
}

// Press holds button b for the given number of frames. The simulator
// advances by a single game action regardless of the number of frames.
func (s *Sim) Press(b pokemon.Button, frames int) error {
	if frames <= 0 {
		return fmt.Errorf("press: frames must be positive, got %d", frames)
	}
	if b < pokemon.Down || b > pokemon.Start {
		return fmt.Errorf("press: unknown button %v", b)
	}

	if s.inBattle {
		s.battle(b)
		return nil
	}

	switch b {
	case pokemon.Down:
		s.walk(0, 1)
	case pokemon.Up:
		s.walk(0, -1)
	case pokemon.Left:
		s.walk(-1, 0)
	case pokemon.Right:
		s.walk(1, 0)
	case pokemon.A:
		if s.position == Challenge && s.badges&1 == 0 {
			s.startBattle(opponent{
				maxHP:  opponentHP(gymLeaderLevel),
				level:  gymLeaderLevel,
				leader: true,
			})
		}
	}
	return nil
}

// walk moves the player by (dx, dy) if the destination is walkable
func (s *Sim) walk(dx, dy int) {
	current := s.areas[s.position.Map]
	x, y := s.position.X+dx, s.position.Y+dy

	if !current.inBounds(x, y) {
		switch {
		case y < 0 && current.hasNorth:
			next := s.areas[current.north]
			s.moveTo(pokemon.Position{Map: current.north, X: x,
				Y: next.height - 1})
		case y >= current.height && current.hasSouth:
			s.moveTo(pokemon.Position{Map: current.south, X: x, Y: 0})
		}
		return
	}
	s.moveTo(pokemon.Position{Map: s.position.Map, X: x, Y: y})
}

func (s *Sim) moveTo(p pokemon.Position) {
	a := s.areas[p.Map]
	if !a.inBounds(p.X, p.Y) || a.wall(p.X, p.Y) {
		return
	}

	if door, ok := a.doors[[2]int{p.X, p.Y}]; ok {
		s.position = door
		return
	}
	s.position = p

	if a.tallGrass(p.X, p.Y) && s.rng.Rand() < s.config.EncounterRate {
		level := int(s.wildLevel.Rand())
		s.seen++
		s.startBattle(opponent{maxHP: opponentHP(level), level: level})
	}
}

func (s *Sim) startBattle(o opponent) {
	o.hp = o.maxHP
	s.enemy = o
	s.inBattle = true
	s.turn = 0
	s.cursor = pokemon.Fight
}

func (s *Sim) leaveBattle() {
	s.inBattle = false
	s.enemy = opponent{}
	s.turn = 0
	s.cursor = pokemon.Fight
}

// battle advances the battle menu. Up and Down move the cursor, A
// selects the item under the cursor. Once either side has fainted, the
// next button press leaves the battle.
func (s *Sim) battle(b pokemon.Button) {
	if s.hp == 0 {
		s.blackout()
		return
	}
	if s.enemy.hp == 0 {
		if s.enemy.leader {
			s.badges |= 1
		}
		s.leaveBattle()
		return
	}

	switch b {
	case pokemon.Up:
		s.cursor = pokemon.MenuItem(intutils.Max(int(pokemon.Fight),
			int(s.cursor)-1))
		return
	case pokemon.Down:
		s.cursor = pokemon.MenuItem(intutils.Min(int(pokemon.Run),
			int(s.cursor)+1))
		return
	case pokemon.A:
	default:
		return
	}

	s.turn++
	switch s.cursor {
	case pokemon.Fight:
		s.enemy.hp = intutils.Max(0, s.enemy.hp-s.roll(s.attack(), 1))
		if s.enemy.hp == 0 {
			s.gainXP(s.enemy.level * 10)
			return
		}

	case pokemon.Bag:
		if s.throwBall() {
			s.caught++
			s.leaveBattle()
			return
		}

	case pokemon.Run:
		if !s.enemy.leader && s.rng.Rand() < s.config.FleeRate {
			s.leaveBattle()
			return
		}
	}

	// The opponent strikes back
	enemyAttack := float64(s.enemy.level)/2 + 1
	s.hp = intutils.Max(0, s.hp-s.roll(enemyAttack, 0))
}

// throwBall returns whether a thrown ball catches the opponent. The
// gym leader's Pokémon cannot be caught.
func (s *Sim) throwBall() bool {
	if s.enemy.leader {
		return false
	}
	missing := 1 - float64(s.enemy.hp)/float64(s.enemy.maxHP)
	p := s.config.CatchRate + (1-s.config.CatchRate)*missing
	return s.rng.Rand() < p
}

// blackout returns the player to the start with a healed party
func (s *Sim) blackout() {
	s.leaveBattle()
	s.position = Start
	s.hp = s.maxHP()
}

func (s *Sim) gainXP(xp int) {
	s.xp += xp
	for s.xp >= s.level*xpPerLevel {
		s.level++
		s.hp = intutils.Min(s.maxHP(), s.hp+2)
	}
}

// roll draws a damage value around mean, no lower than min
func (s *Sim) roll(mean float64, min int) int {
	s.damage.Mu = mean
	return intutils.Max(min, int(math.Round(s.damage.Rand())))
}

func (s *Sim) attack() float64 {
	return float64(s.level)
}

func (s *Sim) maxHP() int {
	return 15 + 2*s.level
}

func opponentHP(level int) int {
	return 8 + 3*level
}

// String returns a string representation of the simulator
func (s *Sim) String() string {
	if s.inBattle {
		return fmt.Sprintf("Sim  |  Battle  |  Enemy: %d/%d  |  Party: %d/%d",
			s.enemy.hp, s.enemy.maxHP, s.hp, s.maxHP())
	}
	return fmt.Sprintf("Sim  |  %v  |  Party: %d/%d  |  Badges: %d",
		s.position, s.hp, s.maxHP(), s.badges)
}
