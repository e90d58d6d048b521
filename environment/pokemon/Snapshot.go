package pokemon

import (
	"errors"
	"fmt"
	"math/bits"
)

// ErrMalformedSnapshot is returned when an emulator produces a Snapshot
// that violates its contract
var ErrMalformedSnapshot = errors.New("malformed snapshot")

// Position is a map-qualified overworld coordinate
type Position struct {
	Map MapID `yaml:"map" json:"map"`
	X   int   `yaml:"x" json:"x"`
	Y   int   `yaml:"y" json:"y"`
}

func (p Position) String() string {
	return fmt.Sprintf("%v(%d, %d)", p.Map, p.X, p.Y)
}

// Snapshot is one frame's worth of game state extracted by an Emulator.
// Enemy fields are only meaningful while InBattle is true.
type Snapshot struct {
	Position Position

	PartyHP    int
	PartyMaxHP int
	EnemyHP    int
	EnemyMaxHP int

	InBattle bool
	Turn     int

	Caught  int
	Seen    int
	PartyXP int
	Badges  uint8

	MenuCursor MenuItem
}

// MenuItem is an entry of the battle menu
type MenuItem int

const (
	Fight MenuItem = iota
	Bag
	Party
	Run
)

// BadgeCount returns the number of badges in the Badges bitmask
func (s Snapshot) BadgeCount() int {
	return bits.OnesCount8(s.Badges)
}

// Validate checks that the snapshot satisfies the emulator contract
func (s Snapshot) Validate() error {
	switch {
	case s.Position.X < 0 || s.Position.Y < 0:
		return fmt.Errorf("%w: negative coordinates %v", ErrMalformedSnapshot,
			s.Position)
	case s.PartyHP < 0 || s.PartyMaxHP < 0:
		return fmt.Errorf("%w: negative party hp %d/%d", ErrMalformedSnapshot,
			s.PartyHP, s.PartyMaxHP)
	case s.PartyHP > s.PartyMaxHP:
		return fmt.Errorf("%w: party hp %d exceeds max %d",
			ErrMalformedSnapshot, s.PartyHP, s.PartyMaxHP)
	case s.Caught < 0 || s.Seen < 0 || s.PartyXP < 0 || s.Turn < 0:
		return fmt.Errorf("%w: negative counter", ErrMalformedSnapshot)
	case s.Caught > s.Seen:
		return fmt.Errorf("%w: caught %d exceeds seen %d",
			ErrMalformedSnapshot, s.Caught, s.Seen)
	}

	if s.InBattle {
		if s.EnemyMaxHP <= 0 {
			return fmt.Errorf("%w: in battle without enemy max hp",
				ErrMalformedSnapshot)
		}
		if s.EnemyHP < 0 || s.EnemyHP > s.EnemyMaxHP {
			return fmt.Errorf("%w: enemy hp %d outside [0, %d]",
				ErrMalformedSnapshot, s.EnemyHP, s.EnemyMaxHP)
		}
	}
	return nil
}

// Mode is the state of the reward state machine, derived from a Snapshot
type Mode int

const (
	Exploring Mode = iota
	InBattle
)

func (m Mode) String() string {
	if m == InBattle {
		return "IN_BATTLE"
	}
	return "EXPLORING"
}

// ModeOf returns the mode a Snapshot puts the state machine in
func ModeOf(s Snapshot) Mode {
	if s.InBattle {
		return InBattle
	}
	return Exploring
}
