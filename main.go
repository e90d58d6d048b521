package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/samuelfneumann/pokerl/agent/random"
	"github.com/samuelfneumann/pokerl/environment/envconfig"
	"github.com/samuelfneumann/pokerl/environment/pokemon"
	"github.com/samuelfneumann/pokerl/experiment"
	"github.com/samuelfneumann/pokerl/experiment/trackers"
	ts "github.com/samuelfneumann/pokerl/timestep"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Width(16)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EEEEEE"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#5F5F87")).
			Padding(0, 1)
)

func main() {
	var (
		configPath = flag.String("config", "", "YAML environment config")
		preset     = flag.String("preset", "", "reward preset, one of: "+
			strings.Join(pokemon.Presets(), ", "))
		steps  = flag.Int("steps", 10_000, "total environment steps")
		seed   = flag.Uint64("seed", 0, "seed for the simulator and agent")
		repeat = flag.Float64("repeat", 0.5, "probability of repeating "+
			"the previous action")
		outDir   = flag.String("out", ".", "directory to save tracked data")
		verbose  = flag.Bool("verbose", false, "log every episode")
		progress = flag.Bool("progress", true, "display a progress bar")
		dump     = flag.Bool("dump", false, "print the resolved config and "+
			"exit")
	)
	flag.Parse()

	c, err := config(*configPath, *preset)
	if err != nil {
		log.Fatal(err)
	}
	if *seed != 0 {
		c.Seed = *seed
	}

	if *dump {
		data, err := c.Marshal()
		if err != nil {
			log.Fatal(err)
		}
		fmt.Print(string(data))
		return
	}

	e, _, err := c.CreateSim()
	if err != nil {
		log.Fatalf("could not create environment: %v", err)
	}
	log.Printf("created environment with preset %q and seed %d", c.Preset,
		c.Seed)

	a, err := random.New(e.ActionSpec().LowerBound, e.ActionSpec().UpperBound,
		*repeat, c.Seed)
	if err != nil {
		log.Fatalf("could not create agent: %v", err)
	}

	returns := trackers.NewReturn(filepath.Join(*outDir, "return.bin"))
	lengths := trackers.NewEpisodeLength(filepath.Join(*outDir, "length.bin"))
	reasons := trackers.NewEndReason(filepath.Join(*outDir, "reasons.bin"))

	exp := experiment.NewOnline(e, a, *steps, returns, lengths, reasons)
	exp.Verbose = *verbose
	if *progress {
		exp.ShowProgress(os.Stderr, 50)
	}

	if err := exp.Run(); err != nil {
		log.Fatalf("experiment failed: %v", err)
	}
	if err := exp.Save(); err != nil {
		log.Fatalf("could not save data: %v", err)
	}
	log.Printf("saved tracked data to %v", *outDir)

	fmt.Println(summary(c.Preset, exp.Steps(), returns.Data(), lengths.Data(),
		reasons.Counts()))
}

// config resolves the environment configuration from a file or a preset
func config(path, preset string) (envconfig.Config, error) {
	if path != "" {
		c, err := envconfig.Load(path)
		if err != nil {
			return envconfig.Config{}, err
		}
		if preset != "" && preset != c.Preset {
			return envconfig.Config{}, fmt.Errorf("preset %q conflicts with "+
				"preset %q of %v", preset, c.Preset, path)
		}
		return c, nil
	}

	if preset == "" {
		return envconfig.Default(), nil
	}
	return envconfig.Parse([]byte("preset: " + preset))
}

func summary(preset string, steps int, returns, lengths []float64,
	reasons map[ts.EndType]int) string {
	r := trackers.Summarize(returns)
	l := trackers.Summarize(lengths)

	rows := [][2]string{
		{"preset", preset},
		{"steps", fmt.Sprint(steps)},
		{"episodes", fmt.Sprint(r.Episodes)},
		{"mean return", fmt.Sprintf("%.2f", r.Mean)},
		{"return range", fmt.Sprintf("[%.2f, %.2f]", r.Min, r.Max)},
		{"mean length", fmt.Sprintf("%.1f", l.Mean)},
	}

	ends := make([]ts.EndType, 0, len(reasons))
	for end := range reasons {
		ends = append(ends, end)
	}
	sort.Slice(ends, func(i, j int) bool { return ends[i] < ends[j] })
	for _, end := range ends {
		rows = append(rows, [2]string{end.String(), fmt.Sprint(reasons[end])})
	}

	lines := []string{titleStyle.Render("Brock")}
	for _, row := range rows {
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top,
			labelStyle.Render(row[0]), valueStyle.Render(row[1])))
	}
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
