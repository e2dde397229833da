package nlp

import "fmt"

type Intent uint8

const (
	IntentUnrecognized Intent = 0
	IntentConfirmation Intent = 1
	IntentRejection    Intent = 2
	IntentArrival      Intent = 3
	IntentPlacement    Intent = 4
	IntentNewPO        Intent = 5
	IntentNoSpeech     Intent = 6
)

var IntentMap = map[Intent]string{
	IntentUnrecognized: "unrecognized",
	IntentConfirmation: "confirmation",
	IntentRejection:    "rejection",
	IntentArrival:      "arrival",
	IntentPlacement:    "placement",
	IntentNewPO:        "new_po",
	IntentNoSpeech:     "no_speech",
}

func (i Intent) String() string {
	return IntentMap[i]
}

func (i Intent) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

// PhraseSet holds the trigger phrases of one locale. Phrases are lower case.
type PhraseSet struct {
	Confirmation []string
	Rejection    []string
	Arrival      []string
	Placement    []string
}

func (i *Intent) UnmarshalText(text []byte) error {
	for intent, name := range IntentMap {
		if name == string(text) {
			*i = intent
			return nil
		}
	}
	return fmt.Errorf("unknown intent %q", text)
}
