package nlp

import "github.com/raqeebanjum/seniordesignproject/internal/entity"

var englishPhrases = PhraseSet{
	Confirmation: []string{"yes", "yeah", "yep", "yup", "sure", "confirm", "confirmed", "affirmative", "okay"},
	Rejection:    []string{"no", "nope", "wrong", "incorrect", "not right", "try again", "cancel"},
	Arrival: []string{
		"i'm there", "i am there", "im there", "i'm here", "i am here",
		"i'm at the bin", "at the bin", "arrived",
	},
	Placement: []string{
		"i've placed it", "i have placed it", "placed", "put it", "done", "finished",
	},
}

var spanishPhrases = PhraseSet{
	Confirmation: []string{"sí", "si", "claro", "confirmo", "confirmado", "afirmativo", "vale", "exacto"},
	Rejection:    []string{"no", "incorrecto", "equivocado", "otra vez", "cancelar", "nuevamente"},
	Arrival: []string{
		"estoy aquí", "estoy ahí", "ya estoy", "ya llegué", "llegué", "en el contenedor",
	},
	Placement: []string{
		"ya lo puse", "lo puse", "lo coloqué", "colocado", "listo", "terminé", "hecho",
	},
}

// Phrases returns the phrase set of a locale. Unknown values fall back to English.
func Phrases(locale entity.Locale) PhraseSet {
	switch locale {
	case entity.LocaleSpanish:
		return spanishPhrases
	default:
		return englishPhrases
	}
}
