package pokemon

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrInvalidConfig is returned when a Config cannot be used to shape
// rewards
var ErrInvalidConfig = errors.New("invalid config")

// Weights scale each sub-score before they are summed into the reward
type Weights struct {
	Movement   float64 `yaml:"movement" json:"movement"`
	Location   float64 `yaml:"location" json:"location"`
	Seen       float64 `yaml:"seen" json:"seen"`
	Capture    float64 `yaml:"capture" json:"capture"`
	Battle     float64 `yaml:"battle" json:"battle"`
	Experience float64 `yaml:"experience" json:"experience"`
}

// TileBonus is an extra reward for stepping onto a specific tile
type TileBonus struct {
	At     Position `yaml:"at" json:"at"`
	Reward float64  `yaml:"reward" json:"reward"`
}

// MovementConfig configures the movement sub-score
type MovementConfig struct {
	// Step is given for any change of position
	Step float64 `yaml:"step" json:"step"`

	// NewTile is added to Step for a position not yet visited this
	// episode, Revisit is added for a position already visited
	NewTile float64 `yaml:"newTile" json:"newTile"`
	Revisit float64 `yaml:"revisit" json:"revisit"`

	// Once the agent has been stationary for more than StuckGrace
	// steps it is penalized StuckPenalty * min(StuckCap, stagnation)
	StuckGrace   int     `yaml:"stuckGrace" json:"stuckGrace"`
	StuckPenalty float64 `yaml:"stuckPenalty" json:"stuckPenalty"`
	StuckCap     int     `yaml:"stuckCap" json:"stuckCap"`

	Tiles []TileBonus       `yaml:"tiles" json:"tiles"`
	Maps  map[MapID]float64 `yaml:"maps" json:"maps"`
}

// LocationConfig configures the location sub-score
type LocationConfig struct {
	NewMap  float64 `yaml:"newMap" json:"newMap"`
	Revisit float64 `yaml:"revisit" json:"revisit"`

	// BounceBack penalizes re-entering the map most recently left,
	// which would otherwise reset the stay counter for free
	BounceBack float64 `yaml:"bounceBack" json:"bounceBack"`

	Stay        float64 `yaml:"stay" json:"stay"`
	StayGrace   int     `yaml:"stayGrace" json:"stayGrace"`
	StayPenalty float64 `yaml:"stayPenalty" json:"stayPenalty"`
	StayCap     int     `yaml:"stayCap" json:"stayCap"`

	// RevisitBonus replaces Revisit for specific maps, StayBonus is
	// added to Stay for specific maps
	RevisitBonus map[MapID]float64 `yaml:"revisitBonus" json:"revisitBonus"`
	StayBonus    map[MapID]float64 `yaml:"stayBonus" json:"stayBonus"`
}

// BattleConfig configures the battle sub-score
type BattleConfig struct {
	Encounter float64 `yaml:"encounter" json:"encounter"`

	// Damage is the reward for depleting a full enemy hp bar; partial
	// damage is rewarded proportionally
	Damage    float64 `yaml:"damage" json:"damage"`
	Win       float64 `yaml:"win" json:"win"`
	TurnStall float64 `yaml:"turnStall" json:"turnStall"`

	Fight      float64 `yaml:"fight" json:"fight"`
	Indecision float64 `yaml:"indecision" json:"indecision"`

	Flee          float64 `yaml:"flee" json:"flee"`
	FleeTruncates bool    `yaml:"fleeTruncates" json:"fleeTruncates"`
}

// CaptureConfig configures the capture sub-score. Schedule[i] rewards
// raising the caught count to i+1; the last entry is used for all later
// catches.
type CaptureConfig struct {
	Schedule []float64 `yaml:"schedule" json:"schedule"`
}

// ProgressConfig scales rewards for experience and Pokédex seen counts
type ProgressConfig struct {
	Experience float64 `yaml:"experience" json:"experience"`
	Seen       float64 `yaml:"seen" json:"seen"`
}

// Limits bound the length of an episode
type Limits struct {
	MaxSteps        int  `yaml:"maxSteps" json:"maxSteps"`
	MaxStagnation   int  `yaml:"maxStagnation" json:"maxStagnation"`
	MaxNoAttack     int  `yaml:"maxNoAttack" json:"maxNoAttack"`
	TruncateOnFaint bool `yaml:"truncateOnFaint" json:"truncateOnFaint"`
}

// Config enumerates every tunable weight and threshold of the Brock
// task
type Config struct {
	Weights  Weights        `yaml:"weights" json:"weights"`
	Movement MovementConfig `yaml:"movement" json:"movement"`
	Location LocationConfig `yaml:"location" json:"location"`
	Battle   BattleConfig   `yaml:"battle" json:"battle"`
	Capture  CaptureConfig  `yaml:"capture" json:"capture"`
	Progress ProgressConfig `yaml:"progress" json:"progress"`
	Limits   Limits         `yaml:"limits" json:"limits"`

	// Frames is the number of frames each button is held for
	Frames  int      `yaml:"frames" json:"frames"`
	Buttons []Button `yaml:"buttons" json:"buttons"`
}

// Preset names
const (
	BrockPreset    = "brock"
	ExplorerPreset = "explorer"
	BattlerPreset  = "battler"
)

var presets = map[string]Config{
	BrockPreset:    brock(),
	ExplorerPreset: explorer(),
	BattlerPreset:  battler(),
}

// Preset returns a copy of the named preset configuration
func Preset(name string) (Config, error) {
	c, ok := presets[name]
	if !ok {
		return Config{}, fmt.Errorf("preset: %w: no such preset %q",
			ErrInvalidConfig, name)
	}
	return c.Clone(), nil
}

// Presets returns the names of all preset configurations
func Presets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultConfig returns the brock preset
func DefaultConfig() Config {
	return brock()
}

func brock() Config {
	return Config{
		Weights: Weights{
			Movement:   0.4,
			Location:   0.7,
			Seen:       0.5,
			Capture:    0.8,
			Battle:     1.0,
			Experience: 0.8,
		},
		Movement: MovementConfig{
			Step:         1,
			NewTile:      1,
			Revisit:      -5,
			StuckGrace:   5,
			StuckPenalty: 1,
			StuckCap:     5,
			Tiles: []TileBonus{
				{At: Position{PalletTown, 11, 0}, Reward: 5},
				{At: Position{PalletTown, 10, 0}, Reward: 2},
				{At: Position{PalletTown, 12, 0}, Reward: 2},
				{At: Position{PalletTown, 10, 1}, Reward: 2},
				{At: Position{PalletTown, 12, 1}, Reward: 2},
			},
			Maps: map[MapID]float64{Route1: 8},
		},
		Location: LocationConfig{
			NewMap:       30,
			Revisit:      2,
			BounceBack:   -2,
			Stay:         -1,
			StayGrace:    10,
			StayPenalty:  1,
			StayCap:      20,
			RevisitBonus: map[MapID]float64{Route1: 5},
			StayBonus:    map[MapID]float64{Route1: 4},
		},
		Battle: BattleConfig{
			Damage:    20,
			Win:       30,
			TurnStall: -1,
			Flee:      -5,
		},
		Capture: CaptureConfig{
			Schedule: []float64{30, 35, 20, 10},
		},
		Progress: ProgressConfig{
			Experience: 0.1,
			Seen:       1,
		},
		Limits: Limits{
			MaxSteps:        1000,
			MaxStagnation:   50,
			MaxNoAttack:     30,
			TruncateOnFaint: true,
		},
		Frames:  24,
		Buttons: append([]Button(nil), DefaultButtons...),
	}
}

func explorer() Config {
	c := brock()
	c.Weights.Movement = 1.0
	c.Weights.Location = 1.0
	c.Weights.Battle = 0.5
	c.Movement.NewTile = 2
	c.Location.NewMap = 100
	c.Limits.MaxStagnation = 30
	return c
}

func battler() Config {
	c := brock()
	c.Weights.Battle = 1.5
	c.Battle.Damage = 40
	c.Battle.Win = 100
	c.Battle.Fight = 2
	c.Battle.Indecision = -1
	c.Battle.Flee = -20
	c.Battle.FleeTruncates = true
	c.Limits.MaxNoAttack = 20
	return c
}

// Clone returns a deep copy of the Config
func (c Config) Clone() Config {
	out := c
	out.Movement.Tiles = append([]TileBonus(nil), c.Movement.Tiles...)
	out.Movement.Maps = cloneMap(c.Movement.Maps)
	out.Location.RevisitBonus = cloneMap(c.Location.RevisitBonus)
	out.Location.StayBonus = cloneMap(c.Location.StayBonus)
	out.Capture.Schedule = append([]float64(nil), c.Capture.Schedule...)
	out.Buttons = append([]Button(nil), c.Buttons...)
	return out
}

func cloneMap(m map[MapID]float64) map[MapID]float64 {
	if m == nil {
		return nil
	}
	out := make(map[MapID]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Validate checks that the Config is usable
func (c Config) Validate() error {
	if c.Frames <= 0 {
		return fmt.Errorf("validate: %w: frames must be positive, got %d",
			ErrInvalidConfig, c.Frames)
	}
	if len(c.Buttons) == 0 {
		return fmt.Errorf("validate: %w: no buttons", ErrInvalidConfig)
	}
	for _, b := range c.Buttons {
		if b < Down || b > Start {
			return fmt.Errorf("validate: %w: unknown button %v",
				ErrInvalidConfig, b)
		}
	}

	if err := c.checkFinite(); err != nil {
		return err
	}

	l := c.Limits
	if l.MaxSteps <= 0 || l.MaxStagnation <= 0 || l.MaxNoAttack <= 0 {
		return fmt.Errorf("validate: %w: limits must be positive: %+v",
			ErrInvalidConfig, l)
	}

	m := c.Movement
	if m.NewTile <= m.Revisit {
		return fmt.Errorf("validate: %w: new tile reward %v must exceed "+
			"revisit reward %v", ErrInvalidConfig, m.NewTile, m.Revisit)
	}
	if m.StuckGrace < 0 || m.StuckCap < 0 {
		return fmt.Errorf("validate: %w: negative stuck thresholds",
			ErrInvalidConfig)
	}

	loc := c.Location
	known := loc.Revisit
	for _, r := range loc.RevisitBonus {
		known = math.Max(known, r)
	}
	known += math.Max(0, loc.BounceBack)
	if loc.NewMap <= known {
		return fmt.Errorf("validate: %w: new map reward %v must exceed "+
			"known map reward %v", ErrInvalidConfig, loc.NewMap, known)
	}
	if loc.StayGrace < 0 || loc.StayCap < 0 {
		return fmt.Errorf("validate: %w: negative stay thresholds",
			ErrInvalidConfig)
	}

	if len(c.Capture.Schedule) == 0 {
		return fmt.Errorf("validate: %w: empty capture schedule",
			ErrInvalidConfig)
	}

	return nil
}

// checkFinite returns an error naming the first reward field of c which
// is NaN or infinite
func (c Config) checkFinite() error {
	w, m, loc, b := c.Weights, c.Movement, c.Location, c.Battle
	fields := map[string][]float64{
		"weights": {w.Movement, w.Location, w.Seen, w.Capture, w.Battle,
			w.Experience},
		"movement": {m.Step, m.NewTile, m.Revisit, m.StuckPenalty},
		"location": {loc.NewMap, loc.Revisit, loc.BounceBack, loc.Stay,
			loc.StayPenalty},
		"battle": {b.Encounter, b.Damage, b.Win, b.TurnStall, b.Fight,
			b.Indecision, b.Flee},
		"progress":         {c.Progress.Experience, c.Progress.Seen},
		"capture schedule": c.Capture.Schedule,
	}
	for _, tile := range m.Tiles {
		fields["tiles"] = append(fields["tiles"], tile.Reward)
	}
	for _, bonus := range []map[MapID]float64{m.Maps, loc.RevisitBonus,
		loc.StayBonus} {
		for _, v := range bonus {
			fields["map bonuses"] = append(fields["map bonuses"], v)
		}
	}

	for name, values := range fields {
		for _, v := range values {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("validate: %w: %v must be finite, got %v",
					ErrInvalidConfig, name, v)
			}
		}
	}
	return nil
}
