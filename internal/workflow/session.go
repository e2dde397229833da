package workflow

import (
	"time"

	"github.com/raqeebanjum/seniordesignproject/internal/entity"
)

// Session is the conversation state of one operator.
//
// CurrentItem is set exactly when State is AwaitingArrival or
// AwaitingPlacement, and then equals the queue head. PendingPO is set only
// between hearing a PO number and its confirmation or rejection.
type Session struct {
	ID           string
	State        entity.SessionState
	PendingPO    *string
	CurrentPO    *string
	CurrentItem  *entity.Task
	Locale       entity.Locale
	Queue        TaskQueue
	LastActivity time.Time
	// Turn counts turns and resets. It only grows, so a prompt synthesized
	// for an older turn can be told apart from the latest one.
	Turn uint64
}

func NewSession(id string) *Session {
	return &Session{
		ID:           id,
		State:        entity.StateAwaitingPO,
		LastActivity: time.Now(),
	}
}

// Reset restores the initial state and empties the queue.
func (s *Session) Reset() {
	s.State = entity.StateAwaitingPO
	s.PendingPO = nil
	s.CurrentPO = nil
	s.CurrentItem = nil
	s.Locale = entity.LocaleEnglish
	s.Queue.Clear()
	s.LastActivity = time.Now()
}

// Snapshot is a read-only view of a session for diagnostics.
type Snapshot struct {
	SessionID   string              `json:"session_id"`
	State       entity.SessionState `json:"state"`
	PendingPO   *string             `json:"pending_po"`
	CurrentPO   *string             `json:"current_po"`
	CurrentItem *entity.Task        `json:"current_item"`
	Locale      string              `json:"locale"`
	Queue       []entity.Task       `json:"queue"`
}

func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		SessionID:   s.ID,
		State:       s.State,
		PendingPO:   cloneString(s.PendingPO),
		CurrentPO:   cloneString(s.CurrentPO),
		CurrentItem: cloneTask(s.CurrentItem),
		Locale:      s.Locale.String(),
		Queue:       s.Queue.Tasks(),
	}
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneTask(t *entity.Task) *entity.Task {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
