package receivingRepository

import (
	"sync"
	"time"

	"github.com/raqeebanjum/seniordesignproject/internal/workflow"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

// Repository keeps sessions in memory, one per session id. A caller holds a
// session's lock for the whole of fn, so turns on the same id never overlap
// while turns on different ids run in parallel.
type Repository interface {
	WithSession(ctx context.Context, sessionID string, fn func(s *workflow.Session) error) error
	ViewSession(ctx context.Context, sessionID string, fn func(s *workflow.Session) error) error
	CleanupIdleSessions(ctx context.Context, cutoff time.Time) int
	Count() int
}

type sessionEntry struct {
	mu      sync.Mutex
	session *workflow.Session
	removed bool
}

type repository struct {
	mu       sync.Mutex
	sessions map[string]*sessionEntry
	log      *logrus.Logger
}

func New(log *logrus.Logger) Repository {
	return &repository{
		sessions: make(map[string]*sessionEntry),
		log:      log,
	}
}
