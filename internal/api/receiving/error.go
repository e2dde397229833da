package receiving

import "github.com/raqeebanjum/seniordesignproject/pkg/response"

var (
	ErrInvalidAudioFile      = response.NewError(400, "invalid audio file")
	ErrAudioFileTooLarge     = response.NewError(413, "audio file too large")
	ErrAudioNotFound         = response.NewError(404, "no prompt audio for this session")
	ErrPurchaseOrderNotFound = response.NewError(404, "purchase order not found")
	ErrQueueEmpty            = response.NewError(409, "task queue is empty")
	ErrInvalidLocale         = response.NewError(400, "unsupported locale")
	ErrSessionNotFound       = response.NewError(404, "session not found")
)
