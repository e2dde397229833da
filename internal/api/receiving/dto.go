package receiving

import (
	"github.com/raqeebanjum/seniordesignproject/internal/entity"
	"github.com/raqeebanjum/seniordesignproject/internal/workflow"
)

const (
	SessionHeader    = "X-Session-ID"
	DefaultSessionID = "default"
)

type TurnRequest struct {
	Transcript string `json:"transcript" validate:"required,max=500"`
	Locale     string `json:"locale" validate:"omitempty,max=16"`
	Speak      bool   `json:"speak"`
}

// TurnResponse is the turn result plus where to fetch its spoken prompt.
type TurnResponse struct {
	workflow.TurnResult
	AudioURL string `json:"audio_url,omitempty"`
}

type ForceEnqueueRequest struct {
	PONumber string `json:"po_number" validate:"max=64"`
}

type ForceEnqueueResponse struct {
	PONumber string        `json:"po_number"`
	Queue    []entity.Task `json:"queue"`
	State    string        `json:"state"`
}

type ForceDequeueResponse struct {
	Removed   entity.Task   `json:"removed"`
	Remaining []entity.Task `json:"remaining"`
	State     string        `json:"state"`
}

type ResetResponse struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}
