package entity

import "fmt"

type SessionState uint8

const (
	StateAwaitingPO        SessionState = 0
	StateAwaitingArrival   SessionState = 1
	StateAwaitingPlacement SessionState = 2
	// StateCompleted is an alias of StateAwaitingPO; it is never stored.
	StateCompleted SessionState = 3
)

var SessionStateMap = map[SessionState]string{
	StateAwaitingPO:        "awaiting_po",
	StateAwaitingArrival:   "awaiting_arrival",
	StateAwaitingPlacement: "awaiting_placement",
	StateCompleted:         "completed",
}

func (s SessionState) String() string {
	return SessionStateMap[s]
}

func (s SessionState) Value() uint8 {
	return uint8(s)
}

// Directive reports whether the state guides the operator through a task.
func (s SessionState) Directive() bool {
	return s == StateAwaitingArrival || s == StateAwaitingPlacement
}

func (s SessionState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *SessionState) UnmarshalText(text []byte) error {
	for state, name := range SessionStateMap {
		if name == string(text) {
			*s = state
			return nil
		}
	}
	return fmt.Errorf("unknown session state %q", text)
}
