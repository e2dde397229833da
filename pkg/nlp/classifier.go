package nlp

import (
	"strings"

	"github.com/raqeebanjum/seniordesignproject/internal/entity"
)

// DefaultConfirmationCutoff is the minimum similarity for a spoken word to
// count as a confirmation phrase.
const DefaultConfirmationCutoff = 0.6

type Classifier struct {
	cutoff float64
	folded map[entity.Locale]PhraseSet
}

func NewClassifier() *Classifier {
	c := &Classifier{
		cutoff: DefaultConfirmationCutoff,
		folded: make(map[entity.Locale]PhraseSet, len(entity.Locales)),
	}

	for _, locale := range entity.Locales {
		set := Phrases(locale)
		c.folded[locale] = PhraseSet{
			Arrival:   foldAll(set.Arrival),
			Placement: foldAll(set.Placement),
		}
	}

	return c
}

// Classify maps one recognized utterance to an intent given where the
// conversation stands. A pending PO takes precedence over the session state.
func (c *Classifier) Classify(transcript string, locale entity.Locale, state entity.SessionState, pendingPO *string) Intent {
	if entity.IsNoSpeech(transcript) {
		return IntentNoSpeech
	}

	if pendingPO != nil {
		switch {
		case c.IsConfirmation(transcript, locale):
			return IntentConfirmation
		case c.IsRejection(transcript, locale):
			return IntentRejection
		default:
			return IntentNewPO
		}
	}

	switch state {
	case entity.StateAwaitingArrival:
		if c.IsArrival(transcript, locale) {
			return IntentArrival
		}
		return IntentUnrecognized
	case entity.StateAwaitingPlacement:
		if c.IsPlacement(transcript, locale) {
			return IntentPlacement
		}
		return IntentUnrecognized
	default:
		return IntentNewPO
	}
}

// IsConfirmation reports whether any word of the transcript approximately
// matches one of the locale's confirmation phrases.
func (c *Classifier) IsConfirmation(transcript string, locale entity.Locale) bool {
	phrases := Phrases(locale).Confirmation
	for _, word := range strings.Fields(strings.ToLower(transcript)) {
		for _, phrase := range phrases {
			if similarity(phrase, word) >= c.cutoff {
				return true
			}
		}
	}
	return false
}

// IsRejection reports whether the transcript contains one of the locale's
// rejection phrases verbatim.
func (c *Classifier) IsRejection(transcript string, locale entity.Locale) bool {
	return containsAny(strings.ToLower(transcript), Phrases(locale).Rejection)
}

func (c *Classifier) IsArrival(transcript string, locale entity.Locale) bool {
	return containsAny(foldText(transcript), c.phrases(locale).Arrival)
}

func (c *Classifier) IsPlacement(transcript string, locale entity.Locale) bool {
	return containsAny(foldText(transcript), c.phrases(locale).Placement)
}

func (c *Classifier) phrases(locale entity.Locale) PhraseSet {
	if set, ok := c.folded[locale]; ok {
		return set
	}
	return c.folded[entity.LocaleEnglish]
}

func foldAll(phrases []string) []string {
	out := make([]string, 0, len(phrases))
	for _, p := range phrases {
		out = append(out, foldText(p))
	}
	return out
}
