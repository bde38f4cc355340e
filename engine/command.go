package engine

import "fmt"

// Command is a discrete player input, decoded by the host before it reaches the engine.
type Command int

const (
	MoveLeft Command = iota
	MoveRight
	SoftDrop
	Rotate
)

func (c Command) String() string {
	switch c {
	case MoveLeft:
		return "MoveLeft"
	case MoveRight:
		return "MoveRight"
	case SoftDrop:
		return "SoftDrop"
	case Rotate:
		return "Rotate"
	default:
		return fmt.Sprintf("Command(%d)", int(c))
	}
}

// State is the engine's lifecycle state. GameOver is terminal until Reset.
type State int

const (
	Running State = iota
	GameOver
)

func (s State) String() string {
	if s == GameOver {
		return "GameOver"
	}
	return "Running"
}
