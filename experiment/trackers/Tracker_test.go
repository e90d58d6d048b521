package trackers

import (
	"path/filepath"
	"testing"

	ts "github.com/samuelfneumann/pokerl/timestep"
	"gonum.org/v1/gonum/mat"
)

// episode returns the timesteps of an episode with the given rewards,
// ending for reason end
func episode(rewards []float64, end ts.EndType) []ts.TimeStep {
	obs := mat.NewVecDense(1, nil)
	steps := []ts.TimeStep{ts.New(ts.First, 0, 1, obs, 0)}

	for i, r := range rewards {
		step := ts.New(ts.Mid, r, 1, obs, i+1)
		if i == len(rewards)-1 {
			step.StepType = ts.Last
			step.SetEnd(end)
		}
		steps = append(steps, step)
	}
	return steps
}

func trackAll(t Tracker, episodes ...[]ts.TimeStep) {
	for _, ep := range episodes {
		for _, step := range ep {
			t.Track(step)
		}
	}
}

func TestReturn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "return.bin")
	r := NewReturn(path)

	trackAll(r,
		episode([]float64{1, 2, 3}, ts.Timeout),
		episode([]float64{-1, -1}, ts.Stagnated),
	)
	// An unfinished episode is not recorded
	r.Track(ts.New(ts.First, 0, 1, mat.NewVecDense(1, nil), 0))
	r.Track(ts.New(ts.Mid, 10, 1, mat.NewVecDense(1, nil), 1))

	want := []float64{6, -2}
	if err := r.Save(); err != nil {
		t.Fatal(err)
	}
	data, err := LoadData(path)
	if err != nil {
		t.Fatal(err)
	}

	for _, got := range [][]float64{r.Data(), data} {
		if len(got) != len(want) {
			t.Fatalf("returns: got %v, want %v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("return %d: got %v, want %v", i, got[i], want[i])
			}
		}
	}
}

func TestReturnNonSequential(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("expected a panic on non-sequential timesteps")
		}
	}()

	r := NewReturn("")
	r.Track(ts.New(ts.First, 0, 1, mat.NewVecDense(1, nil), 0))
	r.Track(ts.New(ts.Mid, 0, 1, mat.NewVecDense(1, nil), 2))
}

func TestEpisodeLengthAndEndReason(t *testing.T) {
	dir := t.TempDir()
	lengths := NewEpisodeLength(filepath.Join(dir, "length.bin"))
	reasons := NewEndReason(filepath.Join(dir, "reasons.bin"))

	episodes := [][]ts.TimeStep{
		episode([]float64{1, 1, 1}, ts.Timeout),
		episode([]float64{1}, ts.TerminalStateReached),
		episode([]float64{1, 1}, ts.Timeout),
	}
	trackAll(lengths, episodes...)
	trackAll(reasons, episodes...)

	if got := lengths.Data(); len(got) != 3 || got[0] != 3 || got[1] != 1 {
		t.Errorf("lengths: got %v", got)
	}

	counts := reasons.Counts()
	if counts[ts.Timeout] != 2 || counts[ts.TerminalStateReached] != 1 {
		t.Errorf("counts: got %v", counts)
	}

	if err := reasons.Save(); err != nil {
		t.Fatal(err)
	}
	loaded, err := LoadEndReasons(filepath.Join(dir, "reasons.bin"))
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded) != 3 || loaded[1] != ts.TerminalStateReached {
		t.Errorf("loaded reasons: got %v", loaded)
	}

	if _, err := LoadData(filepath.Join(dir, "missing.bin")); err == nil {
		t.Errorf("expected an error loading a missing file")
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize([]float64{1, -3, 8})
	want := Summary{Episodes: 3, Mean: 2, Min: -3, Max: 8}
	if s != want {
		t.Errorf("summary: got %+v, want %+v", s, want)
	}

	if s := Summarize(nil); s != (Summary{}) {
		t.Errorf("empty summary: got %+v", s)
	}
}
