package workflow

import (
	"strings"

	"github.com/raqeebanjum/seniordesignproject/internal/entity"
	"github.com/raqeebanjum/seniordesignproject/pkg/nlp"
)

type NextAction string

const (
	NextActionGoToNextBin NextAction = "go_to_next_bin"
	NextActionCompleted   NextAction = "completed"
)

// TurnResult is what one turn hands back to the caller. Message is the text
// to speak; the remaining fields drive the operator's screen.
type TurnResult struct {
	Message            string              `json:"message"`
	PONumber           *string             `json:"po_number"`
	POExists           bool                `json:"po_exists"`
	Details            *string             `json:"details"`
	ShowConfirmOptions bool                `json:"show_confirm_options"`
	BinLocation        *string             `json:"bin_location"`
	NextAction         *NextAction         `json:"next_action"`
	DetectedLang       string              `json:"detected_lang"`
	State              entity.SessionState `json:"state"`
	Intent             nlp.Intent          `json:"intent"`
	Transcript         string              `json:"transcript,omitempty"`
}

// Context carries the values a prompt may refer to.
type Context struct {
	PO        *string
	Found     bool
	Order     *entity.PurchaseOrder
	Item      *entity.Task
	Placed    *entity.Task
	Completed bool
}

type Composer struct{}

func NewComposer() *Composer {
	return &Composer{}
}

func (c *Composer) Compose(intent nlp.Intent, oldState, newState entity.SessionState, locale entity.Locale, ctx Context) TurnResult {
	res := TurnResult{
		PONumber:     ctx.PO,
		DetectedLang: locale.Tag(),
		State:        newState,
		Intent:       intent,
	}

	po := deref(ctx.PO)
	if newState.Directive() && ctx.Item != nil {
		bin := ctx.Item.BinLocation
		res.BinLocation = &bin
	}

	switch intent {
	case nlp.IntentNoSpeech:
		res.Message = render(msgNoSpeech, locale)

	case nlp.IntentNewPO:
		res.Message = render(msgConfirmPO, locale, po)
		res.ShowConfirmOptions = true

	case nlp.IntentRejection:
		res.Message = render(msgRetry, locale)

	case nlp.IntentConfirmation:
		res.POExists = ctx.Found
		if !ctx.Found {
			res.Message = render(msgNotFound, locale, po)
			break
		}

		if ctx.Order != nil {
			details := FormatDetails(*ctx.Order)
			res.Details = &details
		}
		if ctx.Completed || ctx.Item == nil {
			res.Message = render(msgEmptyPO, locale, po)
			res.NextAction = nextAction(NextActionCompleted)
			break
		}
		res.Message = render(msgFound, locale, po, ctx.Item.BinLocation, ctx.Item.Name)
		res.NextAction = nextAction(NextActionGoToNextBin)

	case nlp.IntentArrival:
		if ctx.Item != nil {
			res.Message = render(msgPlaceItem, locale, ctx.Item.Name, ctx.Item.ItemNumber, ctx.Item.BinLocation)
		}

	case nlp.IntentPlacement:
		if ctx.Completed || ctx.Item == nil {
			res.Message = render(msgCompleted, locale, po)
			res.NextAction = nextAction(NextActionCompleted)
			break
		}
		res.Message = render(msgNextBin, locale, ctx.Item.BinLocation, ctx.Item.Name)
		res.NextAction = nextAction(NextActionGoToNextBin)

	case nlp.IntentUnrecognized:
		res.Message = c.reprompt(oldState, locale, ctx.Item)
	}

	return res
}

func (c *Composer) reprompt(state entity.SessionState, locale entity.Locale, item *entity.Task) string {
	if item == nil {
		return render(msgRetry, locale)
	}
	if state == entity.StateAwaitingPlacement {
		return render(msgRepromptPlacement, locale, item.Name, item.BinLocation)
	}
	return render(msgRepromptArrival, locale, item.BinLocation, item.Name)
}

// FormatDetails renders the item listing shown next to a confirmed purchase
// order. Labels stay in English because the operator screen parses them.
func FormatDetails(po entity.PurchaseOrder) string {
	var b strings.Builder
	b.WriteString("PO Number: " + po.ID + "\n\n")
	b.WriteString("Items:\n")
	for _, item := range po.Items {
		b.WriteString("- " + item.Name + "\n")
		b.WriteString("  Item Number: " + item.ItemNumber + "\n")
		b.WriteString("  Bin Location: " + item.BinLocation + "\n")
	}
	return b.String()
}

func nextAction(a NextAction) *NextAction {
	return &a
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
