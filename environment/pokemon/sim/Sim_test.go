package sim

import (
	"testing"

	"github.com/samuelfneumann/pokerl/environment/pokemon"
	"gonum.org/v1/gonum/mat"
)

var _ pokemon.Emulator = (*Sim)(nil)

func newSim(t *testing.T, c Config) *Sim {
	t.Helper()
	s, err := New(c)
	if err != nil {
		t.Fatalf("could not create simulator: %v", err)
	}
	return s
}

func press(t *testing.T, s *Sim, buttons ...pokemon.Button) pokemon.Snapshot {
	t.Helper()
	for _, b := range buttons {
		if err := s.Press(b, 24); err != nil {
			t.Fatalf("could not press %v: %v", b, err)
		}
	}
	snap, err := s.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	if err := snap.Validate(); err != nil {
		t.Fatalf("invalid snapshot: %v", err)
	}
	return snap
}

func actionFor(button int) *mat.VecDense {
	n := float64(len(pokemon.DefaultButtons))
	return mat.NewVecDense(1, []float64{(float64(button) + 0.5) / n})
}

func repeat(b pokemon.Button, n int) []pokemon.Button {
	out := make([]pokemon.Button, n)
	for i := range out {
		out[i] = b
	}
	return out
}

func TestLeaveLab(t *testing.T) {
	s := newSim(t, DefaultConfig())

	snap := press(t, s, repeat(pokemon.Down, 5)...)
	want := pokemon.Position{Map: pokemon.PalletTown, X: 12, Y: 12}
	if snap.Position != want {
		t.Errorf("position: got %v, want %v", snap.Position, want)
	}

	if snap := press(t, s, pokemon.Up); snap.Position.Map != pokemon.OaksLab {
		t.Errorf("expected to re-enter the lab, got %v", snap.Position)
	}
}

func TestWalls(t *testing.T) {
	s := newSim(t, DefaultConfig())

	// The back wall of the lab is two tiles above the start
	snap := press(t, s, repeat(pokemon.Up, 10)...)
	want := pokemon.Position{Map: pokemon.OaksLab, X: 5, Y: 2}
	if snap.Position != want {
		t.Errorf("position: got %v, want %v", snap.Position, want)
	}

	snap = press(t, s, repeat(pokemon.Right, 20)...)
	if snap.Position.X != 9 {
		t.Errorf("expected to stop at the east wall, got %v", snap.Position)
	}
}

func TestRouteToPallet(t *testing.T) {
	s := newSim(t, DefaultConfig())
	s.position = pokemon.Position{Map: pokemon.PalletTown, X: 11, Y: 1}

	snap := press(t, s, pokemon.Up, pokemon.Up)
	want := pokemon.Position{Map: pokemon.Route1, X: 11, Y: 35}
	if snap.Position != want {
		t.Errorf("position: got %v, want %v", snap.Position, want)
	}

	snap = press(t, s, pokemon.Down)
	want = pokemon.Position{Map: pokemon.PalletTown, X: 11, Y: 0}
	if snap.Position != want {
		t.Errorf("position: got %v, want %v", snap.Position, want)
	}
}

func TestDeterministic(t *testing.T) {
	c := DefaultConfig()
	c.Seed = 7
	c.EncounterRate = 0.5

	script := append(repeat(pokemon.Down, 5), repeat(pokemon.A, 30)...)
	run := func() []pokemon.Snapshot {
		s := newSim(t, c)
		s.position = pokemon.Position{Map: pokemon.Route1, X: 12, Y: 8}
		var out []pokemon.Snapshot
		for _, b := range script {
			out = append(out, press(t, s, b))
		}
		return out
	}

	first, second := run(), run()
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("step %d: %+v != %+v", i, first[i], second[i])
		}
	}
}

func TestWildBattle(t *testing.T) {
	c := DefaultConfig()
	c.EncounterRate = 1
	c.CatchRate = 1
	s := newSim(t, c)
	s.position = pokemon.Position{Map: pokemon.Route1, X: 12, Y: 9}

	snap := press(t, s, pokemon.Down)
	if !snap.InBattle {
		t.Fatalf("expected an encounter in tall grass")
	}
	if snap.Seen != 2 || snap.EnemyHP != snap.EnemyMaxHP {
		t.Errorf("unexpected encounter snapshot %+v", snap)
	}

	snap = press(t, s, pokemon.Down)
	if snap.MenuCursor != pokemon.Bag || snap.Turn != 0 {
		t.Errorf("cursor should move without taking a turn: %+v", snap)
	}

	snap = press(t, s, pokemon.A)
	if snap.InBattle || snap.Caught != 2 {
		t.Errorf("expected a catch, got %+v", snap)
	}
}

func TestRun(t *testing.T) {
	c := DefaultConfig()
	c.EncounterRate = 1
	c.FleeRate = 1
	s := newSim(t, c)
	s.position = pokemon.Position{Map: pokemon.Route1, X: 12, Y: 9}

	press(t, s, pokemon.Down)
	snap := press(t, s, repeat(pokemon.Down, 5)...)
	if snap.MenuCursor != pokemon.Run {
		t.Fatalf("cursor: got %v, want %v", snap.MenuCursor, pokemon.Run)
	}

	if snap := press(t, s, pokemon.A); snap.InBattle {
		t.Errorf("expected to escape the battle")
	}
}

func TestGymLeaderGrantsBadge(t *testing.T) {
	s := newSim(t, DefaultConfig())
	s.level = 60
	s.hp = s.maxHP()
	s.position = Challenge

	snap := press(t, s, pokemon.A)
	if !snap.InBattle || snap.EnemyMaxHP != opponentHP(gymLeaderLevel) {
		t.Fatalf("expected the gym battle, got %+v", snap)
	}

	// No escaping the gym leader
	press(t, s, repeat(pokemon.Down, 3)...)
	if snap := press(t, s, pokemon.A); !snap.InBattle {
		t.Fatalf("should not escape the gym leader")
	}
	press(t, s, repeat(pokemon.Up, 3)...)

	for i := 0; i < 20 && snap.EnemyHP > 0; i++ {
		snap = press(t, s, pokemon.A)
	}
	if snap.EnemyHP != 0 || snap.PartyXP == 0 {
		t.Fatalf("expected to defeat the gym leader, got %+v", snap)
	}
	if snap.BadgeCount() != 0 {
		t.Errorf("badge should be granted on leaving the battle")
	}

	snap = press(t, s, pokemon.A)
	if snap.InBattle || snap.BadgeCount() != 1 {
		t.Errorf("expected the first badge, got %+v", snap)
	}

	// The leader cannot be challenged twice
	if snap := press(t, s, pokemon.A); snap.InBattle {
		t.Errorf("gym leader should not battle after defeat")
	}
}

func TestBlackout(t *testing.T) {
	s := newSim(t, DefaultConfig())
	s.position = Challenge
	s.hp = 1

	press(t, s, pokemon.A)
	press(t, s, repeat(pokemon.Down, 2)...)

	var snap pokemon.Snapshot
	for i := 0; i < 50; i++ {
		snap = press(t, s, pokemon.A)
		if snap.PartyHP == 0 {
			break
		}
	}
	if snap.PartyHP != 0 || !snap.InBattle {
		t.Fatalf("expected the party to faint, got %+v", snap)
	}

	snap = press(t, s, pokemon.A)
	if snap.InBattle || snap.Position != Start || snap.PartyHP != snap.PartyMaxHP {
		t.Errorf("expected a blackout to the start, got %+v", snap)
	}
}

func TestPressErrors(t *testing.T) {
	s := newSim(t, DefaultConfig())
	if err := s.Press(pokemon.Down, 0); err == nil {
		t.Errorf("expected an error for zero frames")
	}
	if err := s.Press(pokemon.Button(99), 1); err == nil {
		t.Errorf("expected an error for an unknown button")
	}

	c := DefaultConfig()
	c.FleeRate = 2
	if _, err := New(c); err == nil {
		t.Errorf("expected an error for invalid flee rate")
	}
}

func TestEnvironmentOverSim(t *testing.T) {
	s := newSim(t, DefaultConfig())
	e, step, err := pokemon.New(s, pokemon.DefaultConfig(), 0.99)
	if err != nil {
		t.Fatal(err)
	}
	if !step.First() {
		t.Fatalf("expected first timestep")
	}

	// Button 0 is Down, which leads out of the lab
	for i := 0; i < 5; i++ {
		if step, _, err = e.Step(actionFor(0)); err != nil {
			t.Fatal(err)
		}
	}
	if e.Snapshot().Position.Map != pokemon.PalletTown {
		t.Errorf("expected to reach Pallet Town, got %v", e.Snapshot().Position)
	}
	if step.Reward <= 0 {
		t.Errorf("entering a new map should be rewarded, got %v", step.Reward)
	}
}
