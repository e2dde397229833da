package workflow

import (
	"time"

	"github.com/raqeebanjum/seniordesignproject/internal/entity"
	"github.com/raqeebanjum/seniordesignproject/pkg/nlp"
)

type Catalog interface {
	Lookup(poID string) (entity.PurchaseOrder, bool)
}

type IntentClassifier interface {
	Classify(transcript string, locale entity.Locale, state entity.SessionState, pendingPO *string) nlp.Intent
}

// Machine advances a Session by one turn. It performs no I/O and keeps no
// state of its own, so one Machine serves every session.
type Machine struct {
	classifier IntentClassifier
	catalog    Catalog
	composer   *Composer
	now        func() time.Time
}

func NewMachine(classifier IntentClassifier, catalog Catalog) *Machine {
	return &Machine{
		classifier: classifier,
		catalog:    catalog,
		composer:   NewComposer(),
		now:        time.Now,
	}
}

// Step interprets one utterance against s, mutates s and its queue, and
// returns the prompt for the operator. It never fails: misses and
// unrecognized speech are reported in the result.
func (m *Machine) Step(s *Session, transcript string, locale entity.Locale) TurnResult {
	s.Locale = locale
	s.LastActivity = m.now()

	oldState := s.State
	intent := m.classifier.Classify(transcript, locale, s.State, s.PendingPO)

	var turn Context
	switch intent {
	case nlp.IntentNoSpeech:
		turn.PO = cloneString(s.PendingPO)
	case nlp.IntentNewPO:
		id := nlp.NormalizePO(transcript)
		s.PendingPO = &id
		s.State = entity.StateAwaitingPO
		turn.PO = cloneString(&id)
	case nlp.IntentConfirmation:
		m.confirm(s, &turn)
	case nlp.IntentRejection:
		turn.PO = cloneString(s.PendingPO)
		s.PendingPO = nil
		s.State = entity.StateAwaitingPO
	case nlp.IntentArrival:
		s.State = entity.StateAwaitingPlacement
	case nlp.IntentPlacement:
		m.place(s, &turn)
	case nlp.IntentUnrecognized:
		// re-prompt, nothing changes
	}

	if turn.PO == nil {
		turn.PO = cloneString(s.CurrentPO)
	}
	turn.Item = cloneTask(s.CurrentItem)

	return m.composer.Compose(intent, oldState, s.State, locale, turn)
}

func (m *Machine) confirm(s *Session, turn *Context) {
	id := *s.PendingPO
	s.PendingPO = nil
	turn.PO = &id

	po, ok := m.catalog.Lookup(id)
	if !ok {
		s.State = entity.StateAwaitingPO
		return
	}

	turn.Found = true
	turn.Order = &po
	turn.Completed = m.load(s, po)
}

func (m *Machine) place(s *Session, turn *Context) {
	turn.PO = cloneString(s.CurrentPO)
	if placed, ok := s.Queue.Dequeue(); ok {
		turn.Placed = &placed
	}
	turn.Completed = m.advance(s)
}

// load makes po the purchase order in progress. It reports true when po has
// nothing to place.
func (m *Machine) load(s *Session, po entity.PurchaseOrder) bool {
	s.Queue.EnqueueAll(po)
	id := po.ID
	s.CurrentPO = &id
	return m.advance(s)
}

// advance points the session at the queue head, or finishes the purchase
// order when the queue is empty. It reports true on finish.
func (m *Machine) advance(s *Session) bool {
	if head, ok := s.Queue.Peek(); ok {
		s.CurrentItem = &head
		s.State = entity.StateAwaitingArrival
		return false
	}

	s.CurrentPO = nil
	s.CurrentItem = nil
	s.State = entity.StateAwaitingPO
	return true
}

// ForceEnqueue loads poID into the session without a spoken confirmation.
func (m *Machine) ForceEnqueue(s *Session, poID string) (entity.PurchaseOrder, bool) {
	po, ok := m.catalog.Lookup(poID)
	if !ok {
		return entity.PurchaseOrder{}, false
	}

	s.PendingPO = nil
	s.LastActivity = m.now()
	m.load(s, po)
	return po, true
}

// ForceDequeue drops the queue head as if it had been placed.
func (m *Machine) ForceDequeue(s *Session) (entity.Task, bool) {
	task, ok := s.Queue.Dequeue()
	if !ok {
		return entity.Task{}, false
	}

	s.LastActivity = m.now()
	m.advance(s)
	return task, true
}
