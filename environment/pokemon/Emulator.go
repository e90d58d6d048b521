package pokemon

import "fmt"

// Button is a Game Boy input
type Button int

const (
	Down Button = iota
	Left
	Right
	Up
	A
	B
	Start
)

func (b Button) String() string {
	switch b {
	case Down:
		return "Down"
	case Left:
		return "Left"
	case Right:
		return "Right"
	case Up:
		return "Up"
	case A:
		return "A"
	case B:
		return "B"
	case Start:
		return "Start"
	}
	return fmt.Sprintf("Button(%d)", int(b))
}

// DefaultButtons are the inputs available to the agent. Start is left
// out so that the agent cannot open the pause menu.
var DefaultButtons = []Button{Down, Left, Right, Up, A, B}

// Emulator is the collaborator which runs the game. Implementations
// read game memory and build Snapshots; the reward logic never touches
// raw memory.
//
// Emulator failures are fatal to the episode and are never retried,
// since frames are not idempotent.
type Emulator interface {
	// Press holds b for the given number of frames and then releases it
	Press(b Button, frames int) error

	// Snapshot reads the current game state
	Snapshot() (Snapshot, error)

	// LoadInitialState resets the game to its fixed starting save state
	LoadInitialState() (Snapshot, error)
}
