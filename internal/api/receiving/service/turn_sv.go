package receivingService

import (
	"errors"
	"fmt"
	"io"

	"github.com/raqeebanjum/seniordesignproject/internal/api/receiving"
	receivingRepository "github.com/raqeebanjum/seniordesignproject/internal/api/receiving/repository"
	"github.com/raqeebanjum/seniordesignproject/internal/entity"
	"github.com/raqeebanjum/seniordesignproject/internal/workflow"
	contextPkg "github.com/raqeebanjum/seniordesignproject/pkg/context"
	"github.com/raqeebanjum/seniordesignproject/pkg/redis"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

func (s *receivingService) ProcessTurn(ctx context.Context, sessionID string, req receiving.TurnRequest) (*receiving.TurnResponse, error) {
	locale, ok := entity.ParseLocale(req.Locale)
	if req.Locale != "" && !ok {
		return nil, receiving.ErrInvalidLocale
	}

	return s.turn(ctx, sessionID, req.Transcript, locale, req.Speak)
}

// ProcessAudio recognizes the recording before the session is touched and
// synthesizes the prompt after it is released.
func (s *receivingService) ProcessAudio(ctx context.Context, sessionID string, audio io.Reader, filename string) (*receiving.TurnResponse, error) {
	recognition := s.speech.Recognize(ctx, audio, filename)

	s.log.WithFields(logrus.Fields{
		"request_id": contextPkg.GetRequestID(ctx),
		"session_id": sessionID,
		"transcript": recognition.Transcript,
		"locale":     recognition.Locale.String(),
	}).Debug("Speech recognized")

	return s.turn(ctx, sessionID, recognition.Transcript, recognition.Locale, true)
}

func (s *receivingService) turn(ctx context.Context, sessionID, transcript string, locale entity.Locale, speak bool) (*receiving.TurnResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	var (
		result workflow.TurnResult
		seq    uint64
	)
	err := s.repo.WithSession(ctx, sessionID, func(session *workflow.Session) error {
		result = s.machine.Step(session, transcript, locale)
		session.Turn++
		seq = session.Turn
		if speak {
			s.dropPrompt(ctx, sessionID)
		}
		return nil
	})
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"session_id": sessionID,
			"error":      err.Error(),
		}).Error("Failed to process turn")
		return nil, err
	}

	result.Transcript = transcript
	resp := &receiving.TurnResponse{TurnResult: result}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"session_id": sessionID,
		"intent":     result.Intent.String(),
		"state":      result.State.String(),
		"locale":     locale.String(),
	}).Info("Turn processed")

	if speak {
		s.speak(ctx, sessionID, seq, locale, resp)
	}

	return resp, nil
}

// dropPrompt removes the previous prompt so it is not replayed for the turn
// being processed. Callers hold the session lock.
func (s *receivingService) dropPrompt(ctx context.Context, sessionID string) {
	if err := s.audioCache.DeleteAudio(ctx, sessionID); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"session_id": sessionID,
			"error":      err.Error(),
		}).Warn("Failed to drop previous prompt audio")
	}
}

// speak synthesizes and caches the prompt of turn seq. Failures only cost the
// audio; the turn result stands. The cache write happens under the session
// lock and is skipped once a later turn or reset has run, so the cached
// prompt always belongs to the latest turn.
func (s *receivingService) speak(ctx context.Context, sessionID string, seq uint64, locale entity.Locale, resp *receiving.TurnResponse) {
	fields := logrus.Fields{
		"request_id": contextPkg.GetRequestID(ctx),
		"session_id": sessionID,
	}

	audio, err := s.speech.Synthesize(ctx, resp.Message, locale)
	if err != nil {
		fields["error"] = err.Error()
		s.log.WithFields(fields).Warn("Speech synthesis failed, returning text only")
		return
	}

	var stored bool
	err = s.repo.ViewSession(ctx, sessionID, func(session *workflow.Session) error {
		if session.Turn != seq {
			return nil
		}
		if err := s.audioCache.SetAudio(ctx, sessionID, audio, s.config.AudioCacheTTL); err != nil {
			return err
		}
		stored = true
		return nil
	})
	if err != nil && !errors.Is(err, receivingRepository.ErrSessionNotFound) {
		fields["error"] = err.Error()
		s.log.WithFields(fields).Warn("Failed to cache prompt audio")
		return
	}
	if !stored {
		fields["turn"] = seq
		s.log.WithFields(fields).Debug("Prompt superseded by a later turn, not cached")
		return
	}

	resp.AudioURL = s.config.AudioURL
}

func (s *receivingService) GetPromptAudio(ctx context.Context, sessionID string) ([]byte, error) {
	audio, err := s.audioCache.GetAudio(ctx, sessionID)
	if errors.Is(err, redis.ErrAudioNotFound) {
		return nil, receiving.ErrAudioNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get prompt audio: %w", err)
	}

	return audio, nil
}

func (s *receivingService) Reset(ctx context.Context, sessionID string) error {
	err := s.repo.WithSession(ctx, sessionID, func(session *workflow.Session) error {
		session.Reset()
		session.Turn++
		s.dropPrompt(ctx, sessionID)
		return nil
	})
	if err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{
		"request_id": contextPkg.GetRequestID(ctx),
		"session_id": sessionID,
	}).Info("Session reset")

	return nil
}
