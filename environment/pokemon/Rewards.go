package pokemon

import (
	"fmt"

	"github.com/samuelfneumann/pokerl/utils/intutils"
)

// Breakdown holds the unweighted sub-scores of a single step
type Breakdown struct {
	Movement   float64
	Location   float64
	Battle     float64
	Capture    float64
	Experience float64
	Seen       float64
}

// Total returns the weighted sum of the sub-scores
func (b Breakdown) Total(w Weights) float64 {
	return b.Movement*w.Movement +
		b.Location*w.Location +
		b.Battle*w.Battle +
		b.Capture*w.Capture +
		b.Experience*w.Experience +
		b.Seen*w.Seen
}

func (b Breakdown) String() string {
	return fmt.Sprintf("movement: %.2f  |  location: %.2f  |  battle: %.2f"+
		"  |  capture: %.2f  |  experience: %.2f  |  seen: %.2f",
		b.Movement, b.Location, b.Battle, b.Capture, b.Experience, b.Seen)
}

// movementScore rewards walking onto new tiles and penalizes walking
// back over old ones or standing still. It is zero on any step which
// starts or ends in battle, though any change of position still resets
// the stagnation counter.
func (b *Brock) movementScore(prev, next Snapshot) float64 {
	c := b.config.Movement
	s := b.state

	moved := next.Position != prev.Position
	if moved {
		s.Stagnation = 0
	}
	if prev.InBattle || next.InBattle {
		return 0
	}

	if !moved {
		s.Stagnation++
		if s.Stagnation > c.StuckGrace {
			return -c.StuckPenalty * float64(intutils.Min(c.StuckCap,
				s.Stagnation))
		}
		return 0
	}
	reward := c.Step
	if s.Visited(next.Position) {
		reward += c.Revisit
	} else {
		reward += c.NewTile
	}
	s.visit(prev.Position)
	s.visit(next.Position)

	for _, tile := range c.Tiles {
		if tile.At == next.Position {
			reward += tile.Reward
		}
	}
	return reward + c.Maps[next.Position.Map]
}

// locationScore rewards entering maps for the first time and
// penalizes lingering on a single map. Map changes on steps which start
// or end in battle, such as a blackout, are tracked but not scored.
func (b *Brock) locationScore(prev, next Snapshot) float64 {
	c := b.config.Location
	s := b.state
	from, to := prev.Position.Map, next.Position.Map
	inBattle := prev.InBattle || next.InBattle

	if from != to {
		s.MapSteps = 0
		s.enter(from)

		bounced := s.hasLeftMap && s.LastLeftMap == to
		s.LastLeftMap, s.hasLeftMap = from, true

		if inBattle {
			return 0
		}
		if !s.VisitedMap(to) {
			s.enter(to)
			return c.NewMap
		}

		var reward float64
		if bounced {
			reward += c.BounceBack
		}
		if bonus, ok := c.RevisitBonus[to]; ok {
			return reward + bonus
		}
		return reward + c.Revisit
	}
	if inBattle {
		return 0
	}

	s.enter(to)
	s.MapSteps++

	reward := c.Stay + c.StayBonus[to]
	if s.MapSteps > c.StayGrace {
		reward -= c.StayPenalty + float64(intutils.Min(c.StayCap, s.MapSteps))
	}
	return reward
}

// battleScore implements the IN_BATTLE side of the state machine. The
// entry transition clears the battle progress; the exit transition
// settles the outcome of the battle.
func (b *Brock) battleScore(prev, next Snapshot, pressed Button) float64 {
	c := b.config.Battle
	s := b.state
	progress := &s.Battle

	switch {
	case ModeOf(prev) == Exploring && ModeOf(next) == InBattle:
		s.Battle = BattleProgress{EnemyHP: next.EnemyHP, Turn: next.Turn}
		s.Battles++
		return c.Encounter

	case ModeOf(prev) == InBattle && ModeOf(next) == Exploring:
		// Catching the opponent also ends the battle without a win
		if progress.Won || next.Caught > prev.Caught {
			return 0
		}
		s.Flees++
		s.fled = true
		return c.Flee

	case ModeOf(next) == Exploring:
		return 0
	}

	var reward float64
	switch pressed {
	case B:
		reward += c.Indecision
	case A:
		if prev.MenuCursor == Fight && next.EnemyHP < progress.EnemyHP {
			reward += c.Fight
		}
	}

	// A healthier enemy than before means a new opponent was sent out
	if next.EnemyHP > progress.EnemyHP {
		s.Battle = BattleProgress{EnemyHP: next.EnemyHP, Turn: next.Turn}
		return reward
	}

	if lost := progress.EnemyHP - next.EnemyHP; lost > 0 {
		reward += c.Damage * float64(lost) / float64(next.EnemyMaxHP)
		progress.NoAttack = 0
		progress.NoProgress = 0

		if next.EnemyHP == 0 && !progress.Won {
			progress.Won = true
			s.Wins++
			reward += c.Win
		}
	} else if !progress.Won {
		progress.NoAttack++
		if next.Turn <= progress.Turn {
			progress.NoProgress++
			reward += c.TurnStall
		} else {
			progress.NoProgress = 0
		}
	}

	progress.EnemyHP = next.EnemyHP
	progress.Turn = intutils.Max(progress.Turn, next.Turn)
	return reward
}

// captureScore rewards each newly caught Pokémon according to the
// capture schedule
func (b *Brock) captureScore(prev, next Snapshot) float64 {
	schedule := b.config.Capture.Schedule

	var reward float64
	for caught := prev.Caught + 1; caught <= next.Caught; caught++ {
		reward += schedule[intutils.Min(caught, len(schedule))-1]
		b.state.Catches++
	}
	return reward
}

func (b *Brock) experienceScore(prev, next Snapshot) float64 {
	gained := intutils.Max(0, next.PartyXP-prev.PartyXP)
	return b.config.Progress.Experience * float64(gained)
}

func (b *Brock) seenScore(prev, next Snapshot) float64 {
	seen := intutils.Max(0, next.Seen-prev.Seen)
	return b.config.Progress.Seen * float64(seen)
}
