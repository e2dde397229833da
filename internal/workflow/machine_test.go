package workflow

import (
	"testing"
	"time"

	"github.com/raqeebanjum/seniordesignproject/internal/entity"
	"github.com/raqeebanjum/seniordesignproject/pkg/catalog"
	"github.com/raqeebanjum/seniordesignproject/pkg/nlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

func newTestMachine() *Machine {
	m := NewMachine(nlp.NewClassifier(), catalog.New(
		entity.PurchaseOrder{ID: "PO100", Items: []entity.Item{
			{Name: "Widget", ItemNumber: "I1", BinLocation: "B1"},
			{Name: "Gadget", ItemNumber: "I2", BinLocation: "B2"},
		}},
		entity.PurchaseOrder{ID: "PO200", Items: []entity.Item{}},
		entity.PurchaseOrder{ID: "", Items: []entity.Item{
			{Name: "Ghost", ItemNumber: "I0", BinLocation: "B0"},
		}},
	))
	m.now = func() time.Time { return fixedNow }
	return m
}

func strPtr(s string) *string { return &s }

// assertInvariants checks that CurrentItem is set exactly in the directive
// states and mirrors the queue head.
func assertInvariants(t *testing.T, s *Session) {
	t.Helper()

	if !s.State.Directive() {
		assert.Nil(t, s.CurrentItem, "current item outside a directive state")
		return
	}
	require.NotNil(t, s.CurrentItem, "directive state without a current item")
	head, ok := s.Queue.Peek()
	require.True(t, ok)
	assert.Equal(t, head, *s.CurrentItem)
}

func TestMachineScenarioFullPurchaseOrder(t *testing.T) {
	t.Parallel()

	m := newTestMachine()
	s := NewSession("dock-1")

	res := m.Step(s, "PO100", entity.LocaleEnglish)
	assertInvariants(t, s)
	assert.Equal(t, nlp.IntentNewPO, res.Intent)
	assert.Equal(t, strPtr("PO100"), s.PendingPO)
	assert.True(t, res.ShowConfirmOptions)
	assert.Equal(t, strPtr("PO100"), res.PONumber)
	assert.Equal(t, entity.StateAwaitingPO, res.State)

	res = m.Step(s, "yes", entity.LocaleEnglish)
	assertInvariants(t, s)
	assert.Equal(t, nlp.IntentConfirmation, res.Intent)
	assert.True(t, res.POExists)
	assert.Equal(t, entity.StateAwaitingArrival, s.State)
	assert.Nil(t, s.PendingPO)
	assert.Equal(t, strPtr("PO100"), s.CurrentPO)
	require.NotNil(t, res.BinLocation)
	assert.Equal(t, "B1", *res.BinLocation)
	require.NotNil(t, res.Details)
	assert.Contains(t, *res.Details, "- Widget")
	require.NotNil(t, res.NextAction)
	assert.Equal(t, NextActionGoToNextBin, *res.NextAction)
	assert.False(t, res.ShowConfirmOptions)

	res = m.Step(s, "I'm there", entity.LocaleEnglish)
	assertInvariants(t, s)
	assert.Equal(t, entity.StateAwaitingPlacement, s.State)
	assert.Contains(t, res.Message, "Widget")
	assert.Equal(t, 2, s.Queue.Len())

	res = m.Step(s, "I've placed it", entity.LocaleEnglish)
	assertInvariants(t, s)
	assert.Equal(t, entity.StateAwaitingArrival, s.State)
	assert.Equal(t, "Gadget", s.CurrentItem.Name)
	require.NotNil(t, res.BinLocation)
	assert.Equal(t, "B2", *res.BinLocation)
	assert.Equal(t, NextActionGoToNextBin, *res.NextAction)

	res = m.Step(s, "I'm there", entity.LocaleEnglish)
	assertInvariants(t, s)
	assert.Equal(t, entity.StateAwaitingPlacement, s.State)
	assert.Contains(t, res.Message, "Gadget")

	res = m.Step(s, "I've placed it", entity.LocaleEnglish)
	assertInvariants(t, s)
	assert.Equal(t, entity.StateAwaitingPO, s.State)
	assert.Equal(t, 0, s.Queue.Len())
	assert.Nil(t, s.CurrentPO)
	assert.Nil(t, res.BinLocation)
	require.NotNil(t, res.NextAction)
	assert.Equal(t, NextActionCompleted, *res.NextAction)
	assert.Equal(t, strPtr("PO100"), res.PONumber)
}

func TestMachineScenarioUnknownPurchaseOrder(t *testing.T) {
	t.Parallel()

	m := newTestMachine()
	s := NewSession("dock-1")

	m.Step(s, "PO999", entity.LocaleEnglish)
	res := m.Step(s, "yes", entity.LocaleEnglish)

	assertInvariants(t, s)
	assert.False(t, res.POExists)
	assert.Equal(t, entity.StateAwaitingPO, s.State)
	assert.Nil(t, s.PendingPO)
	assert.Nil(t, res.BinLocation)
	assert.Nil(t, res.Details)
	assert.Equal(t, 0, s.Queue.Len())
	assert.Equal(t, render(msgNotFound, entity.LocaleEnglish, "PO999"), res.Message)
}

func TestMachineTransitions(t *testing.T) {
	t.Parallel()

	type setup func(m *Machine, s *Session)

	awaitingPO := func(m *Machine, s *Session) {}
	pending := func(id string) setup {
		return func(m *Machine, s *Session) { m.Step(s, id, entity.LocaleEnglish) }
	}
	arrival := func(m *Machine, s *Session) { m.ForceEnqueue(s, "PO100") }
	placement := func(m *Machine, s *Session) {
		m.ForceEnqueue(s, "PO100")
		m.Step(s, "I'm there", entity.LocaleEnglish)
	}
	lastPlacement := func(m *Machine, s *Session) {
		m.ForceEnqueue(s, "PO100")
		m.ForceDequeue(s)
		m.Step(s, "I'm there", entity.LocaleEnglish)
	}

	testCases := []struct {
		name       string
		setup      setup
		transcript string
		intent     nlp.Intent
		state      entity.SessionState
		pendingPO  *string
		currentPO  *string
		queueLen   int
	}{
		{"po heard", awaitingPO, "po 100", nlp.IntentNewPO, entity.StateAwaitingPO, strPtr("PO100"), nil, 0},
		{"po restated while pending", pending("PO999"), "PO100", nlp.IntentNewPO, entity.StateAwaitingPO, strPtr("PO100"), nil, 0},
		{"confirm found", pending("PO100"), "yeah", nlp.IntentConfirmation, entity.StateAwaitingArrival, nil, strPtr("PO100"), 2},
		{"confirm missing", pending("PO999"), "yes", nlp.IntentConfirmation, entity.StateAwaitingPO, nil, nil, 0},
		{"confirm empty po", pending("PO200"), "yes", nlp.IntentConfirmation, entity.StateAwaitingPO, nil, nil, 0},
		{"reject", pending("PO100"), "no that's wrong", nlp.IntentRejection, entity.StateAwaitingPO, nil, nil, 0},
		{"arrive", arrival, "okay I am here now", nlp.IntentArrival, entity.StateAwaitingPlacement, nil, strPtr("PO100"), 2},
		{"arrival unrecognized", arrival, "where is it", nlp.IntentUnrecognized, entity.StateAwaitingArrival, nil, strPtr("PO100"), 2},
		{"place with more left", placement, "done", nlp.IntentPlacement, entity.StateAwaitingArrival, nil, strPtr("PO100"), 1},
		{"place last item", lastPlacement, "placed", nlp.IntentPlacement, entity.StateAwaitingPO, nil, nil, 0},
		{"placement unrecognized", placement, "hold on", nlp.IntentUnrecognized, entity.StateAwaitingPlacement, nil, strPtr("PO100"), 2},
		{"no speech while pending", pending("PO100"), entity.NoSpeechTranscript, nlp.IntentNoSpeech, entity.StateAwaitingPO, strPtr("PO100"), nil, 0},
		{"canceled in placement", placement, entity.CanceledTranscript("timeout"), nlp.IntentNoSpeech, entity.StateAwaitingPlacement, nil, strPtr("PO100"), 2},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			m := newTestMachine()
			s := NewSession("dock-1")
			tc.setup(m, s)

			res := m.Step(s, tc.transcript, entity.LocaleEnglish)

			assert.Equal(t, tc.intent, res.Intent)
			assert.Equal(t, tc.state, s.State)
			assert.Equal(t, tc.state, res.State)
			assert.Equal(t, tc.pendingPO, s.PendingPO)
			assert.Equal(t, tc.currentPO, s.CurrentPO)
			assert.Equal(t, tc.queueLen, s.Queue.Len())
			assertInvariants(t, s)
		})
	}
}

func TestMachineEmptyPurchaseOrderCompletesImmediately(t *testing.T) {
	t.Parallel()

	m := newTestMachine()
	s := NewSession("dock-1")

	m.Step(s, "PO200", entity.LocaleEnglish)
	res := m.Step(s, "yes", entity.LocaleEnglish)

	assert.True(t, res.POExists)
	assert.Equal(t, entity.StateAwaitingPO, s.State)
	require.NotNil(t, res.NextAction)
	assert.Equal(t, NextActionCompleted, *res.NextAction)
	assert.Nil(t, res.BinLocation)
	assert.Equal(t, render(msgEmptyPO, entity.LocaleEnglish, "PO200"), res.Message)
}

func TestMachineDegeneratePurchaseOrderID(t *testing.T) {
	t.Parallel()

	m := newTestMachine()
	s := NewSession("dock-1")

	res := m.Step(s, "...!", entity.LocaleEnglish)
	assert.Equal(t, nlp.IntentNewPO, res.Intent)
	assert.Equal(t, strPtr(""), s.PendingPO)

	res = m.Step(s, "yes", entity.LocaleEnglish)
	assert.True(t, res.POExists)
	assert.Equal(t, entity.StateAwaitingArrival, s.State)
	assert.Equal(t, "Ghost", s.CurrentItem.Name)
}

func TestMachineNoSpeechEchoesPendingPO(t *testing.T) {
	t.Parallel()

	m := newTestMachine()
	s := NewSession("dock-1")

	m.Step(s, "PO100", entity.LocaleEnglish)
	res := m.Step(s, "No speech recognized", entity.LocaleSpanish)

	assert.Equal(t, render(msgNoSpeech, entity.LocaleSpanish), res.Message)
	assert.Equal(t, strPtr("PO100"), res.PONumber)
	assert.False(t, res.ShowConfirmOptions)
}

func TestMachineLocaleIsTakenFromEachTurn(t *testing.T) {
	t.Parallel()

	m := newTestMachine()
	s := NewSession("dock-1")

	res := m.Step(s, "PO100", entity.LocaleSpanish)
	assert.Equal(t, "es-US", res.DetectedLang)
	assert.Equal(t, render(msgConfirmPO, entity.LocaleSpanish, "PO100"), res.Message)

	res = m.Step(s, "yes", entity.LocaleSpanish)
	assert.Equal(t, nlp.IntentNewPO, res.Intent, "english confirmation is not heard in spanish")

	res = m.Step(s, "SI", entity.LocaleSpanish)
	assert.Equal(t, nlp.IntentConfirmation, res.Intent)
	assert.False(t, res.POExists, "YES was taken as the pending PO id")

	m.Step(s, "PO100", entity.LocaleEnglish)
	res = m.Step(s, "Sí", entity.LocaleSpanish)
	assert.Equal(t, nlp.IntentConfirmation, res.Intent)
	assert.True(t, res.POExists)
	assert.Equal(t, entity.LocaleSpanish, s.Locale)
	assert.Equal(t, fixedNow, s.LastActivity)
}

func TestMachineForceEnqueue(t *testing.T) {
	t.Parallel()

	m := newTestMachine()
	s := NewSession("dock-1")
	m.Step(s, "PO999", entity.LocaleEnglish)

	_, ok := m.ForceEnqueue(s, "PO404")
	assert.False(t, ok)
	assert.Equal(t, strPtr("PO999"), s.PendingPO, "a miss leaves the session alone")

	po, ok := m.ForceEnqueue(s, "PO100")
	require.True(t, ok)
	assert.Equal(t, "PO100", po.ID)
	assert.Nil(t, s.PendingPO)
	assert.Equal(t, entity.StateAwaitingArrival, s.State)
	assert.Equal(t, 2, s.Queue.Len())
	assertInvariants(t, s)
}

func TestMachineForceDequeue(t *testing.T) {
	t.Parallel()

	m := newTestMachine()
	s := NewSession("dock-1")

	_, ok := m.ForceDequeue(s)
	assert.False(t, ok)

	m.ForceEnqueue(s, "PO100")
	m.Step(s, "I'm there", entity.LocaleEnglish)

	task, ok := m.ForceDequeue(s)
	require.True(t, ok)
	assert.Equal(t, "Widget", task.Name)
	assert.Equal(t, entity.StateAwaitingArrival, s.State)
	assertInvariants(t, s)

	task, ok = m.ForceDequeue(s)
	require.True(t, ok)
	assert.Equal(t, "Gadget", task.Name)
	assert.Equal(t, entity.StateAwaitingPO, s.State)
	assert.Nil(t, s.CurrentPO)
	assertInvariants(t, s)
}

func TestSessionResetAndSnapshot(t *testing.T) {
	t.Parallel()

	m := newTestMachine()
	s := NewSession("dock-1")
	m.ForceEnqueue(s, "PO100")
	m.Step(s, "estoy aquí", entity.LocaleSpanish)

	snap := s.Snapshot()
	assert.Equal(t, "dock-1", snap.SessionID)
	assert.Equal(t, entity.StateAwaitingPlacement, snap.State)
	assert.Equal(t, "es", snap.Locale)
	assert.Len(t, snap.Queue, 2)

	s.Reset()

	assert.Equal(t, entity.StateAwaitingPO, s.State)
	assert.Nil(t, s.PendingPO)
	assert.Nil(t, s.CurrentPO)
	assert.Nil(t, s.CurrentItem)
	assert.Equal(t, 0, s.Queue.Len())
	assert.Len(t, snap.Queue, 2, "snapshots do not follow later mutations")
}
