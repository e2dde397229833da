package entity

import "strings"

const (
	// NoSpeechTranscript is what recognition yields when the audio held no speech.
	NoSpeechTranscript = "No speech recognized"
	canceledPrefix     = "canceled:"
)

// CanceledTranscript builds the transcript reported for an aborted recognition.
func CanceledTranscript(reason string) string {
	return canceledPrefix + " " + reason
}

// IsNoSpeech reports whether transcript is one of the recognition sentinels.
func IsNoSpeech(transcript string) bool {
	t := strings.TrimSpace(transcript)
	if strings.EqualFold(t, NoSpeechTranscript) {
		return true
	}
	return strings.HasPrefix(strings.ToLower(t), canceledPrefix)
}
