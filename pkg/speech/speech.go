package speech

import (
	"context"
	"io"

	"github.com/raqeebanjum/seniordesignproject/internal/entity"
)

type Recognition struct {
	Transcript string
	Locale     entity.Locale
}

// ItfSpeech is the speech recognition and synthesis service. Recognize never
// fails: silence yields entity.NoSpeechTranscript and a failed call yields a
// canceled transcript, both of which the turn handles as no speech.
type ItfSpeech interface {
	Recognize(ctx context.Context, audio io.Reader, filename string) Recognition
	Synthesize(ctx context.Context, text string, locale entity.Locale) ([]byte, error)
}
