package receivingService

import (
	"io"
	"os"
	"strconv"
	"time"

	"github.com/raqeebanjum/seniordesignproject/internal/api/receiving"
	receivingRepository "github.com/raqeebanjum/seniordesignproject/internal/api/receiving/repository"
	"github.com/raqeebanjum/seniordesignproject/internal/workflow"
	"github.com/raqeebanjum/seniordesignproject/pkg/redis"
	"github.com/raqeebanjum/seniordesignproject/pkg/speech"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

type IReceivingService interface {
	ProcessTurn(ctx context.Context, sessionID string, req receiving.TurnRequest) (*receiving.TurnResponse, error)
	ProcessAudio(ctx context.Context, sessionID string, audio io.Reader, filename string) (*receiving.TurnResponse, error)
	GetPromptAudio(ctx context.Context, sessionID string) ([]byte, error)
	Reset(ctx context.Context, sessionID string) error

	InspectQueue(ctx context.Context, sessionID string) (*workflow.Snapshot, error)
	ForceEnqueue(ctx context.Context, sessionID, poNumber string) (*receiving.ForceEnqueueResponse, error)
	ForceDequeue(ctx context.Context, sessionID string) (*receiving.ForceDequeueResponse, error)
	CleanupIdleSessions(ctx context.Context) int
}

type receivingService struct {
	log        *logrus.Logger
	repo       receivingRepository.Repository
	machine    *workflow.Machine
	speech     speech.ItfSpeech
	audioCache redis.IRedis
	config     *ReceivingConfig
}

type ReceivingConfig struct {
	AudioCacheTTL  time.Duration
	SessionIdleTTL time.Duration
	// AudioURL is where clients fetch the prompt audio of their last turn.
	AudioURL string
}

// ConfigFromEnv reads AUDIO_CACHE_TTL_MINUTES (default 10) and
// SESSION_IDLE_TTL_HOURS (default 24).
func ConfigFromEnv() *ReceivingConfig {
	return &ReceivingConfig{
		AudioCacheTTL:  time.Duration(envInt("AUDIO_CACHE_TTL_MINUTES", 10)) * time.Minute,
		SessionIdleTTL: time.Duration(envInt("SESSION_IDLE_TTL_HOURS", 24)) * time.Hour,
		AudioURL:       "/api/v1/receiving/audio",
	}
}

func envInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func New(
	log *logrus.Logger,
	repo receivingRepository.Repository,
	machine *workflow.Machine,
	speech speech.ItfSpeech,
	audioCache redis.IRedis,
	config *ReceivingConfig,
) IReceivingService {
	return &receivingService{
		log:        log,
		repo:       repo,
		machine:    machine,
		speech:     speech,
		audioCache: audioCache,
		config:     config,
	}
}
