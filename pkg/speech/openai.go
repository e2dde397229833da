package speech

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/raqeebanjum/seniordesignproject/internal/entity"
	"github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
)

type Config struct {
	APIKey  string
	BaseURL string
	Model   openai.SpeechModel
	Voices  map[entity.Locale]openai.SpeechVoice
}

// ConfigFromEnv reads OPENAI_API_KEY, OPENAI_BASE_URL, SPEECH_TTS_MODEL,
// SPEECH_VOICE_EN and SPEECH_VOICE_ES.
func ConfigFromEnv() Config {
	cfg := Config{
		APIKey:  os.Getenv("OPENAI_API_KEY"),
		BaseURL: os.Getenv("OPENAI_BASE_URL"),
		Model:   openai.SpeechModel(os.Getenv("SPEECH_TTS_MODEL")),
		Voices: map[entity.Locale]openai.SpeechVoice{
			entity.LocaleEnglish: openai.SpeechVoice(os.Getenv("SPEECH_VOICE_EN")),
			entity.LocaleSpanish: openai.SpeechVoice(os.Getenv("SPEECH_VOICE_ES")),
		},
	}

	if cfg.Model == "" {
		cfg.Model = openai.TTSModel1
	}
	if cfg.Voices[entity.LocaleEnglish] == "" {
		cfg.Voices[entity.LocaleEnglish] = openai.VoiceNova
	}
	if cfg.Voices[entity.LocaleSpanish] == "" {
		cfg.Voices[entity.LocaleSpanish] = openai.VoiceAlloy
	}

	return cfg
}

type openAISpeech struct {
	client *openai.Client
	model  openai.SpeechModel
	voices map[entity.Locale]openai.SpeechVoice
	log    *logrus.Logger
}

func NewOpenAI(cfg Config, log *logrus.Logger) ItfSpeech {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &openAISpeech{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
		voices: cfg.Voices,
		log:    log,
	}
}

func (s *openAISpeech) Recognize(ctx context.Context, audio io.Reader, filename string) Recognition {
	resp, err := s.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: filename,
		Reader:   audio,
		Format:   openai.AudioResponseFormatVerboseJSON,
	})
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"filename": filename,
			"error":    err.Error(),
		}).Warn("Speech recognition canceled")
		return Recognition{Transcript: entity.CanceledTranscript(err.Error())}
	}

	locale, ok := entity.ParseLocale(resp.Language)
	if !ok {
		s.log.WithField("language", resp.Language).Debug("Unsupported language detected, using english")
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return Recognition{Transcript: entity.NoSpeechTranscript, Locale: locale}
	}

	return Recognition{Transcript: text, Locale: locale}
}

func (s *openAISpeech) Synthesize(ctx context.Context, text string, locale entity.Locale) ([]byte, error) {
	voice, ok := s.voices[locale]
	if !ok {
		voice = s.voices[entity.LocaleEnglish]
	}

	resp, err := s.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          s.model,
		Input:          text,
		Voice:          voice,
		ResponseFormat: openai.SpeechResponseFormatMp3,
	})
	if err != nil {
		return nil, fmt.Errorf("speech synthesis: %w", err)
	}
	defer resp.Close()

	audio, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("read synthesized audio: %w", err)
	}

	return audio, nil
}
