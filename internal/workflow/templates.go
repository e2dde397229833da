package workflow

import (
	"fmt"

	"github.com/raqeebanjum/seniordesignproject/internal/entity"
)

type messageKey uint8

const (
	msgNoSpeech messageKey = iota
	msgConfirmPO
	msgRetry
	msgNotFound
	msgFound
	msgEmptyPO
	msgPlaceItem
	msgNextBin
	msgCompleted
	msgRepromptArrival
	msgRepromptPlacement
)

// Arguments keep the same order in every locale:
//
//	msgConfirmPO, msgNotFound, msgEmptyPO, msgCompleted: po
//	msgFound: po, bin, item name
//	msgPlaceItem: item name, item number, bin
//	msgNextBin, msgRepromptArrival: bin, item name
//	msgRepromptPlacement: item name, bin
var templates = map[messageKey]map[entity.Locale]string{
	msgNoSpeech: {
		entity.LocaleEnglish: "I couldn't hear anything. Please try again.",
		entity.LocaleSpanish: "No escuché nada. Por favor, inténtalo de nuevo.",
	},
	msgConfirmPO: {
		entity.LocaleEnglish: "I heard PO %s. Say yes to confirm or no to try again.",
		entity.LocaleSpanish: "¿Dijiste %s? Di sí para confirmar o no para intentarlo de nuevo.",
	},
	msgRetry: {
		entity.LocaleEnglish: "Let's try again. Please say the PO number.",
		entity.LocaleSpanish: "Intentémoslo de nuevo. Por favor, di el número de orden.",
	},
	msgNotFound: {
		entity.LocaleEnglish: "PO %s was not found. Please say the PO number again.",
		entity.LocaleSpanish: "No encontré la orden %s. Por favor, di el número de orden otra vez.",
	},
	msgFound: {
		entity.LocaleEnglish: "Found PO %s. Go to bin %s with %s and say I'm there when you arrive.",
		entity.LocaleSpanish: "Encontré la orden %s. Ve al contenedor %s con %s y di estoy aquí cuando llegues.",
	},
	msgEmptyPO: {
		entity.LocaleEnglish: "PO %s has no items to place. Please say the next PO number.",
		entity.LocaleSpanish: "La orden %s no tiene artículos para colocar. Por favor, di el siguiente número de orden.",
	},
	msgPlaceItem: {
		entity.LocaleEnglish: "Place %s, item number %s, in bin %s. Say I've placed it when you're done.",
		entity.LocaleSpanish: "Coloca %s, artículo número %s, en el contenedor %s. Di ya lo puse cuando termines.",
	},
	msgNextBin: {
		entity.LocaleEnglish: "Got it. Next, go to bin %s with %s and say I'm there when you arrive.",
		entity.LocaleSpanish: "Entendido. Ahora ve al contenedor %s con %s y di estoy aquí cuando llegues.",
	},
	msgCompleted: {
		entity.LocaleEnglish: "All items for PO %s have been placed. Say the next PO number when you're ready.",
		entity.LocaleSpanish: "Todos los artículos de la orden %s están colocados. Di el siguiente número de orden cuando quieras.",
	},
	msgRepromptArrival: {
		entity.LocaleEnglish: "Please go to bin %s with %s and say I'm there when you arrive.",
		entity.LocaleSpanish: "Por favor, ve al contenedor %s con %s y di estoy aquí cuando llegues.",
	},
	msgRepromptPlacement: {
		entity.LocaleEnglish: "Please place %s in bin %s and say I've placed it when you're done.",
		entity.LocaleSpanish: "Por favor, coloca %s en el contenedor %s y di ya lo puse cuando termines.",
	},
}

func render(key messageKey, locale entity.Locale, args ...any) string {
	byLocale := templates[key]
	tpl, ok := byLocale[locale]
	if !ok {
		tpl = byLocale[entity.LocaleEnglish]
	}
	return fmt.Sprintf(tpl, args...)
}
