// Package envconfig provides configuration structs for configuring
// the Pokémon environment from preset reward configurations and YAML
// files. A configuration names a preset and may override any of the
// preset's fields:
//
//	preset: battler
//	discount: 0.99
//	seed: 42
//	emulator: sim
//	reward:
//	  battle:
//	    flee: -50
//	  limits:
//	    maxSteps: 2000
//
// Fields which are not given keep the value of the preset. Maps and
// lists which are given replace the preset's entirely, so an empty map
// clears the preset's bonuses.
package envconfig

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/samuelfneumann/pokerl/environment/pokemon"
	"github.com/samuelfneumann/pokerl/environment/pokemon/sim"
	ts "github.com/samuelfneumann/pokerl/timestep"
	"gopkg.in/yaml.v3"
)

// EmulatorName stores the name of emulators that can be configured with
// this package
type EmulatorName string

// Emulators available for configuration
const (
	Sim EmulatorName = "sim"
)

// Config implements a specific configuration of the Pokémon
// environment
type Config struct {
	Preset   string       `yaml:"preset" json:"preset"`
	Discount float64      `yaml:"discount" json:"discount"`
	Seed     uint64       `yaml:"seed" json:"seed"`
	Emulator EmulatorName `yaml:"emulator" json:"emulator"`

	Sim    sim.Config     `yaml:"sim" json:"sim"`
	Reward pokemon.Config `yaml:"reward" json:"reward"`
}

// Default returns the default configuration: the brock preset over the
// simulator
func Default() Config {
	c, err := withPreset(pokemon.BrockPreset)
	if err != nil {
		panic(fmt.Sprintf("default: %v", err))
	}
	return c
}

func withPreset(name string) (Config, error) {
	reward, err := pokemon.Preset(name)
	if err != nil {
		return Config{}, err
	}
	return Config{
		Preset:   name,
		Discount: 0.99,
		Emulator: Sim,
		Sim:      sim.DefaultConfig(),
		Reward:   reward,
	}, nil
}

// Load reads a YAML configuration file
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load: could not read config: %w", err)
	}

	c, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("load %v: %w", path, err)
	}
	return c, nil
}

// Parse decodes a YAML configuration. The preset named in the
// configuration is decoded first, and the remaining fields are decoded
// on top of it. Unknown fields are an error.
func Parse(data []byte) (Config, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Config{}, fmt.Errorf("parse: could not decode config: %w", err)
	}

	var header struct {
		Preset string `yaml:"preset"`
	}
	if len(doc.Content) > 0 {
		if err := doc.Content[0].Decode(&header); err != nil {
			return Config{}, fmt.Errorf("parse: could not decode preset: %w",
				err)
		}
	}
	if header.Preset == "" {
		header.Preset = pokemon.BrockPreset
	}

	c, err := withPreset(header.Preset)
	if err != nil {
		return Config{}, fmt.Errorf("parse: %w", err)
	}

	// yaml.v3 merges into non-nil maps, so given maps would otherwise
	// only add to the preset's entries
	reward := &c.Reward
	for _, m := range []struct {
		path  []string
		bonus *map[pokemon.MapID]float64
	}{
		{[]string{"reward", "movement", "maps"}, &reward.Movement.Maps},
		{[]string{"reward", "location", "revisitBonus"},
			&reward.Location.RevisitBonus},
		{[]string{"reward", "location", "stayBonus"},
			&reward.Location.StayBonus},
	} {
		if lookup(&doc, m.path...) != nil {
			*m.bonus = nil
		}
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse: could not decode config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return Config{}, fmt.Errorf("parse: %w", err)
	}
	return c, nil
}

// lookup returns the node at the given path of mapping keys, or nil if
// there is no such node
func lookup(n *yaml.Node, path ...string) *yaml.Node {
	if n.Kind == yaml.DocumentNode {
		if len(n.Content) == 0 {
			return nil
		}
		n = n.Content[0]
	}
	for _, key := range path {
		if n.Kind != yaml.MappingNode {
			return nil
		}
		var next *yaml.Node
		for i := 0; i+1 < len(n.Content); i += 2 {
			if n.Content[i].Value == key {
				next = n.Content[i+1]
				break
			}
		}
		if next == nil {
			return nil
		}
		n = next
	}
	return n
}

// Validate checks that the Config describes a usable environment
func (c Config) Validate() error {
	if c.Discount < 0 || c.Discount > 1 {
		return fmt.Errorf("validate: %w: discount %v outside [0, 1]",
			pokemon.ErrInvalidConfig, c.Discount)
	}
	if c.Emulator != Sim {
		return fmt.Errorf("validate: %w: no such emulator %q",
			pokemon.ErrInvalidConfig, c.Emulator)
	}
	if err := c.Sim.Validate(); err != nil {
		return fmt.Errorf("validate: %w: %v", pokemon.ErrInvalidConfig, err)
	}
	return c.Reward.Validate()
}

// Marshal encodes the Config as YAML
func (c Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}
	return data, nil
}

// Create returns the environment described by the Config running on
// emulator e, as well as the first timestep of the environment
func (c Config) Create(e pokemon.Emulator) (*pokemon.Env, ts.TimeStep, error) {
	if err := c.Validate(); err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("create: %w", err)
	}
	return pokemon.New(e, c.Reward, c.Discount)
}

// CreateSim returns the environment described by the Config running on
// a simulator seeded with the Config's seed
func (c Config) CreateSim() (*pokemon.Env, ts.TimeStep, error) {
	simConfig := c.Sim
	simConfig.Seed = c.Seed

	s, err := sim.New(simConfig)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("createSim: %w", err)
	}
	return c.Create(s)
}
