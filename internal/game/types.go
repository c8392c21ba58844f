package game

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidMode = errors.New("invalid game mode")
	ErrInvalidSide = errors.New("invalid paddle side")
)

// Side identifies a paddle. The bottom paddle belongs to Player 1.
type Side uint8

const (
	SideBottom Side = iota
	SideTop
)

func (s Side) String() string {
	switch s {
	case SideBottom:
		return "bottom"
	case SideTop:
		return "top"
	default:
		return "unknown"
	}
}

// Owner returns the player controlling this side's paddle.
func (s Side) Owner() Player {
	if s == SideTop {
		return Player2
	}
	return Player1
}

func (s Side) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Side) UnmarshalText(b []byte) error {
	v, err := ParseSide(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseSide accepts "bottom"/"top" and the player aliases "1"/"2".
func ParseSide(s string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bottom", "1", "player1":
		return SideBottom, nil
	case "top", "2", "player2":
		return SideTop, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidSide, s)
}

// Player identifies a competitor, or nobody.
type Player uint8

const (
	PlayerNone Player = iota
	Player1
	Player2
)

func (p Player) String() string {
	switch p {
	case Player1:
		return "Player 1"
	case Player2:
		return "Player 2"
	default:
		return ""
	}
}

func (p Player) MarshalText() ([]byte, error) {
	switch p {
	case Player1:
		return []byte("player1"), nil
	case Player2:
		return []byte("player2"), nil
	default:
		return []byte("none"), nil
	}
}

// Goal is the outcome of a physics step.
type Goal uint8

const (
	GoalNone   Goal = iota
	GoalTop         // puck crossed the top line, Player 1 scores
	GoalBottom      // puck crossed the bottom line, Player 2 scores
)

// Scorer returns the player credited with the goal.
func (g Goal) Scorer() Player {
	switch g {
	case GoalTop:
		return Player1
	case GoalBottom:
		return Player2
	default:
		return PlayerNone
	}
}

func (g Goal) String() string {
	switch g {
	case GoalTop:
		return "top"
	case GoalBottom:
		return "bottom"
	default:
		return "none"
	}
}

// Mode selects the win condition.
type Mode uint8

const (
	ModeNone Mode = iota
	ModeFirstTo10
	ModeTimed
)

func (m Mode) String() string {
	switch m {
	case ModeFirstTo10:
		return "first_to_10"
	case ModeTimed:
		return "timed"
	default:
		return "none"
	}
}

func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *Mode) UnmarshalText(b []byte) error {
	v, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// ParseMode accepts the wire names plus a few human spellings.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "first_to_10", "first-to-10", "firstto10":
		return ModeFirstTo10, nil
	case "timed", "time", "1_minute":
		return ModeTimed, nil
	}
	return ModeNone, fmt.Errorf("%w: %q", ErrInvalidMode, s)
}

// Phase is the match state machine's current state.
type Phase uint8

const (
	PhaseMenu Phase = iota
	PhaseRunning
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseMenu:
		return "menu"
	case PhaseRunning:
		return "running"
	case PhaseFinished:
		return "finished"
	default:
		return "unknown"
	}
}

func (p Phase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }
