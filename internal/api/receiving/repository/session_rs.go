package receivingRepository

import (
	"errors"
	"time"

	"github.com/raqeebanjum/seniordesignproject/internal/workflow"
	contextPkg "github.com/raqeebanjum/seniordesignproject/pkg/context"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

var ErrSessionNotFound = errors.New("session not found")

// WithSession runs fn with exclusive access to the session, creating it on
// first use.
func (r *repository) WithSession(_ context.Context, sessionID string, fn func(s *workflow.Session) error) error {
	for {
		entry := r.entry(sessionID, true)
		entry.mu.Lock()

		// swept while we waited; take the fresh entry instead
		if entry.removed {
			entry.mu.Unlock()
			continue
		}

		err := fn(entry.session)
		entry.mu.Unlock()
		return err
	}
}

// ViewSession is WithSession for a session that must already exist.
func (r *repository) ViewSession(_ context.Context, sessionID string, fn func(s *workflow.Session) error) error {
	entry := r.entry(sessionID, false)
	if entry == nil {
		return ErrSessionNotFound
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.removed {
		return ErrSessionNotFound
	}
	return fn(entry.session)
}

// CleanupIdleSessions drops sessions with no activity since cutoff. Sessions
// in the middle of a turn are skipped.
func (r *repository) CleanupIdleSessions(ctx context.Context, cutoff time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, entry := range r.sessions {
		if !entry.mu.TryLock() {
			continue
		}
		if entry.session.LastActivity.Before(cutoff) {
			entry.removed = true
			delete(r.sessions, id)
			removed++
		}
		entry.mu.Unlock()
	}

	if removed > 0 {
		r.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"removed":    removed,
			"cutoff":     cutoff,
		}).Info("Cleaned up idle sessions")
	}

	return removed
}

func (r *repository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *repository) entry(sessionID string, create bool) *sessionEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.sessions[sessionID]
	if ok || !create {
		return entry
	}

	entry = &sessionEntry{session: workflow.NewSession(sessionID)}
	r.sessions[sessionID] = entry

	r.log.WithField("session_id", sessionID).Debug("Session created")
	return entry
}
