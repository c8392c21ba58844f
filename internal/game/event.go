package game

import (
	"encoding/json"
	"time"
)

// EventType enum for journal classification
type EventType uint8

const (
	EventTypeUnknown    EventType = iota
	EventTypeMatchStart           // Mode selected, match running
	EventTypeGoal
	EventTypeClock // One second elapsed in a timed match
	EventTypeMatchEnd
	EventTypeRestart
)

// EventVersion for backwards compatibility of journal readers
const EventVersion uint8 = 1

// Event is a single journal entry
type Event struct {
	Version   uint8           `json:"version"`
	Type      EventType       `json:"type"`
	Timestamp int64           `json:"timestamp"` // Unix nano
	Sequence  uint64          `json:"sequence"`  // Monotonic sequence
	TickNum   uint64          `json:"tickNum"`   // Physics tick this occurred in
	MatchID   string          `json:"matchId"`
	Payload   json.RawMessage `json:"payload"`
}

// String returns human-readable event type
func (t EventType) String() string {
	switch t {
	case EventTypeMatchStart:
		return "match_start"
	case EventTypeGoal:
		return "goal"
	case EventTypeClock:
		return "clock"
	case EventTypeMatchEnd:
		return "match_end"
	case EventTypeRestart:
		return "restart"
	default:
		return "unknown"
	}
}

func (t EventType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// MatchStartPayload records the selected mode
type MatchStartPayload struct {
	Mode     Mode  `json:"mode"`
	TimeLeft int   `json:"timeLeft"`
	RNGSeed  int64 `json:"rngSeed"`
}

// GoalEvent describes a scored goal. It doubles as the journal payload and
// the OnGoal callback argument.
type GoalEvent struct {
	MatchID  string  `json:"matchId"`
	Goal     Goal    `json:"-"`
	Side     string  `json:"side"` // goal line crossed: "top" or "bottom"
	Scorer   Player  `json:"scorer"`
	Score1   int     `json:"score1"`
	Score2   int     `json:"score2"`
	Tick     uint64  `json:"tick"`
	Position Vector2 `json:"position"` // last puck position before the re-serve
}

// ClockPayload records the countdown after a timer tick
type ClockPayload struct {
	TimeLeft int `json:"timeLeft"`
}

// MatchEndPayload records the final result
type MatchEndPayload struct {
	Mode     Mode   `json:"mode"`
	Winner   Player `json:"winner"`
	Score1   int    `json:"score1"`
	Score2   int    `json:"score2"`
	TimeLeft int    `json:"timeLeft"`
}

// EncodePayload marshals a payload to JSON bytes
func EncodePayload(payload interface{}) []byte {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil
	}
	return data
}

// NewEvent creates a new event with the current timestamp
func NewEvent(eventType EventType, tickNum uint64, matchID string, payload interface{}) Event {
	return Event{
		Version:   EventVersion,
		Type:      eventType,
		Timestamp: time.Now().UnixNano(),
		TickNum:   tickNum,
		MatchID:   matchID,
		Payload:   EncodePayload(payload),
	}
}
