package pokemon

import (
	"errors"
	"math"
	"testing"
)

func TestPresetsValid(t *testing.T) {
	names := Presets()
	if len(names) != 3 {
		t.Fatalf("presets: got %v", names)
	}

	for _, name := range names {
		c, err := Preset(name)
		if err != nil {
			t.Fatalf("preset %v: %v", name, err)
		}
		if err := c.Validate(); err != nil {
			t.Errorf("preset %v should be valid: %v", name, err)
		}
	}

	if _, err := Preset("misty"); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig for unknown preset, got %v", err)
	}
}

func TestPresetIsCopy(t *testing.T) {
	c, err := Preset(BrockPreset)
	if err != nil {
		t.Fatal(err)
	}
	c.Movement.Maps[Route1] = -100
	c.Capture.Schedule[0] = -100
	c.Buttons[0] = Start
	c.Movement.Tiles[0].Reward = -100

	fresh, err := Preset(BrockPreset)
	if err != nil {
		t.Fatal(err)
	}
	if fresh.Movement.Maps[Route1] != 8 {
		t.Errorf("preset map bonus was modified through a copy")
	}
	if fresh.Capture.Schedule[0] != 30 {
		t.Errorf("preset capture schedule was modified through a copy")
	}
	if fresh.Buttons[0] != Down {
		t.Errorf("preset buttons were modified through a copy")
	}
	if fresh.Movement.Tiles[0].Reward != 5 {
		t.Errorf("preset tiles were modified through a copy")
	}
}

func TestConfigValidate(t *testing.T) {
	cases := map[string]func(c *Config){
		"frames":      func(c *Config) { c.Frames = 0 },
		"no buttons":  func(c *Config) { c.Buttons = nil },
		"bad button":  func(c *Config) { c.Buttons = []Button{Button(42)} },
		"max steps":   func(c *Config) { c.Limits.MaxSteps = 0 },
		"stagnation":  func(c *Config) { c.Limits.MaxStagnation = -1 },
		"no attack":   func(c *Config) { c.Limits.MaxNoAttack = 0 },
		"new tile":    func(c *Config) { c.Movement.NewTile = c.Movement.Revisit },
		"stuck grace": func(c *Config) { c.Movement.StuckGrace = -1 },
		"new map":     func(c *Config) { c.Location.NewMap = 1 },
		"map bonus": func(c *Config) {
			c.Location.RevisitBonus[PewterCity] = c.Location.NewMap
		},
		"stay cap": func(c *Config) { c.Location.StayCap = -1 },
		"schedule": func(c *Config) { c.Capture.Schedule = nil },
		"weights":  func(c *Config) { c.Weights.Battle = math.NaN() },

		"stay penalty":  func(c *Config) { c.Location.StayPenalty = math.NaN() },
		"stuck penalty": func(c *Config) { c.Movement.StuckPenalty = math.Inf(1) },
		"damage":        func(c *Config) { c.Battle.Damage = math.NaN() },
		"flee":          func(c *Config) { c.Battle.Flee = math.Inf(-1) },
		"seen":          func(c *Config) { c.Progress.Seen = math.NaN() },
		"nan schedule": func(c *Config) {
			c.Capture.Schedule = []float64{1, math.NaN()}
		},
		"nan tile": func(c *Config) {
			c.Movement.Tiles = append(c.Movement.Tiles,
				TileBonus{At: Position{Route1, 1, 1}, Reward: math.NaN()})
		},
		"nan map bonus": func(c *Config) { c.Movement.Maps[Route1] = math.NaN() },
		"inf stay bonus": func(c *Config) {
			c.Location.StayBonus[Route1] = math.Inf(1)
		},
	}

	for name, modify := range cases {
		c := DefaultConfig()
		modify(&c)
		if err := c.Validate(); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("%v: expected ErrInvalidConfig, got %v", name, err)
		}
		if _, err := NewBrock(c); err == nil {
			t.Errorf("%v: NewBrock should reject invalid config", name)
		}
	}
}

func TestBrockOwnsConfig(t *testing.T) {
	c := DefaultConfig()
	b := newBrock(t, c)

	c.Location.StayBonus[Route1] = 1000
	if b.Config().Location.StayBonus[Route1] != 4 {
		t.Errorf("task config should not alias the caller's config")
	}
}
