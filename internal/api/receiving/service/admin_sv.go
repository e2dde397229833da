package receivingService

import (
	"errors"
	"time"

	"github.com/raqeebanjum/seniordesignproject/internal/api/receiving"
	receivingRepository "github.com/raqeebanjum/seniordesignproject/internal/api/receiving/repository"
	"github.com/raqeebanjum/seniordesignproject/internal/workflow"
	contextPkg "github.com/raqeebanjum/seniordesignproject/pkg/context"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

func (s *receivingService) InspectQueue(ctx context.Context, sessionID string) (*workflow.Snapshot, error) {
	var snapshot workflow.Snapshot
	err := s.repo.ViewSession(ctx, sessionID, func(session *workflow.Session) error {
		snapshot = session.Snapshot()
		return nil
	})
	if errors.Is(err, receivingRepository.ErrSessionNotFound) {
		return nil, receiving.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	return &snapshot, nil
}

func (s *receivingService) ForceEnqueue(ctx context.Context, sessionID, poNumber string) (*receiving.ForceEnqueueResponse, error) {
	var resp receiving.ForceEnqueueResponse
	err := s.repo.WithSession(ctx, sessionID, func(session *workflow.Session) error {
		po, ok := s.machine.ForceEnqueue(session, poNumber)
		if !ok {
			return receiving.ErrPurchaseOrderNotFound
		}

		resp = receiving.ForceEnqueueResponse{
			PONumber: po.ID,
			Queue:    session.Queue.Tasks(),
			State:    session.State.String(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"request_id": contextPkg.GetRequestID(ctx),
		"session_id": sessionID,
		"po_number":  poNumber,
		"tasks":      len(resp.Queue),
	}).Info("Purchase order force-enqueued")

	return &resp, nil
}

func (s *receivingService) ForceDequeue(ctx context.Context, sessionID string) (*receiving.ForceDequeueResponse, error) {
	var resp receiving.ForceDequeueResponse
	err := s.repo.WithSession(ctx, sessionID, func(session *workflow.Session) error {
		task, ok := s.machine.ForceDequeue(session)
		if !ok {
			return receiving.ErrQueueEmpty
		}

		resp = receiving.ForceDequeueResponse{
			Removed:   task,
			Remaining: session.Queue.Tasks(),
			State:     session.State.String(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"request_id": contextPkg.GetRequestID(ctx),
		"session_id": sessionID,
		"removed":    resp.Removed.Name,
	}).Info("Task force-dequeued")

	return &resp, nil
}

func (s *receivingService) CleanupIdleSessions(ctx context.Context) int {
	return s.repo.CleanupIdleSessions(ctx, time.Now().Add(-s.config.SessionIdleTTL))
}
