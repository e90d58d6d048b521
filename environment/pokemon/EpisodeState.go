package pokemon

// BattleProgress tracks the current battle. It is cleared whenever a
// battle starts.
type BattleProgress struct {
	EnemyHP int
	Turn    int

	// NoProgress counts consecutive steps on which the turn counter
	// did not advance, NoAttack counts consecutive steps on which the
	// enemy took no damage
	NoProgress int
	NoAttack   int

	Won bool
}

// EpisodeState is the mutable state of the Brock task. It is owned by
// a single task and reinitialized at the start of every episode.
type EpisodeState struct {
	VisitedPositions map[Position]struct{}
	VisitedMaps      map[MapID]struct{}

	Stagnation int
	MapSteps   int

	LastLeftMap MapID
	hasLeftMap  bool

	Battle BattleProgress
	Steps  int

	Battles int
	Wins    int
	Flees   int
	Catches int

	goalReached bool
	fled        bool
}

// NewEpisodeState returns an empty EpisodeState
func NewEpisodeState() *EpisodeState {
	s := &EpisodeState{}
	s.Reset()
	return s
}

// Reset clears the state for a new episode
func (s *EpisodeState) Reset() {
	*s = EpisodeState{
		VisitedPositions: make(map[Position]struct{}),
		VisitedMaps:      make(map[MapID]struct{}),
	}
}

// Visited returns whether p has been visited this episode
func (s *EpisodeState) Visited(p Position) bool {
	_, ok := s.VisitedPositions[p]
	return ok
}

// VisitedMap returns whether m has been entered this episode
func (s *EpisodeState) VisitedMap(m MapID) bool {
	_, ok := s.VisitedMaps[m]
	return ok
}

func (s *EpisodeState) visit(p Position) {
	s.VisitedPositions[p] = struct{}{}
}

func (s *EpisodeState) enter(m MapID) {
	s.VisitedMaps[m] = struct{}{}
}
