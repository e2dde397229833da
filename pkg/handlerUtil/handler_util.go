package handlerUtil

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/raqeebanjum/seniordesignproject/internal/api/receiving"
	"github.com/raqeebanjum/seniordesignproject/pkg/log"
	"github.com/raqeebanjum/seniordesignproject/pkg/response"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

type ErrorHandler struct {
	logger *logrus.Logger
}

func New(logger *logrus.Logger) *ErrorHandler {
	return &ErrorHandler{
		logger: logger,
	}
}

// domainErrors gives each receiving error a stable code for clients.
var domainErrors = []struct {
	err  error
	code string
}{
	{receiving.ErrInvalidAudioFile, "INVALID_AUDIO_FILE"},
	{receiving.ErrAudioFileTooLarge, "AUDIO_FILE_TOO_LARGE"},
	{receiving.ErrAudioNotFound, "AUDIO_NOT_FOUND"},
	{receiving.ErrPurchaseOrderNotFound, "PO_NOT_FOUND"},
	{receiving.ErrQueueEmpty, "QUEUE_EMPTY"},
	{receiving.ErrInvalidLocale, "INVALID_LOCALE"},
	{receiving.ErrSessionNotFound, "SESSION_NOT_FOUND"},
}

func (h *ErrorHandler) Handle(c *fiber.Ctx, requestID string, err error, path string, operation string) error {
	fields := log.Fields{
		"request_id": requestID,
		"error":      err.Error(),
		"path":       path,
		"operation":  operation,
	}

	for _, d := range domainErrors {
		if errors.Is(err, d.err) {
			h.logger.WithFields(fields).Warn("Operation failed with receiving error")
			return c.Status(response.StatusCode(d.err)).JSON(ErrorResponse{
				Error: d.err.Error(),
				Code:  d.code,
			})
		}
	}

	var respErr *response.Error
	if errors.As(err, &respErr) {
		fields["code"] = respErr.Code
		h.logger.WithFields(fields).Warn("Operation failed with error response")
		return c.Status(respErr.Code).JSON(ErrorResponse{Error: err.Error()})
	}

	if errors.Is(err, context.DeadlineExceeded) {
		h.logger.WithFields(fields).Warn("Operation timed out")
		return h.HandleRequestTimeout(c)
	}

	traceID := log.ErrorWithTraceID(h.logger, fields, "Unexpected error")

	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
		Error:   "An unexpected error occurred",
		Details: "trace id " + traceID,
	})
}

func (h *ErrorHandler) HandleValidationError(c *fiber.Ctx, requestID string, err error, path string) error {
	h.logger.WithFields(log.Fields{
		"request_id": requestID,
		"error":      err.Error(),
		"path":       path,
	}).Warn("Validation failed")

	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Error: "Validation failed: " + err.Error(),
		Code:  "VALIDATION_ERROR",
	})
}

func (h *ErrorHandler) HandleRequestTimeout(c *fiber.Ctx) error {
	return c.Status(fiber.StatusRequestTimeout).JSON(ErrorResponse{
		Error: utils.StatusMessage(fiber.StatusRequestTimeout),
		Code:  "REQUEST_TIMEOUT",
	})
}

func (h *ErrorHandler) HandleUnauthorized(c *fiber.Ctx, requestID string, message string) error {
	h.logger.WithFields(log.Fields{
		"request_id": requestID,
		"path":       c.Path(),
		"message":    message,
	}).Warn("Unauthorized access")

	return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
		Error: message,
		Code:  "UNAUTHORIZED",
	})
}

func (h *ErrorHandler) HandleSuccess(c *fiber.Ctx, statusCode int, data interface{}) error {
	if data == nil {
		return c.SendStatus(statusCode)
	}
	return c.Status(statusCode).JSON(data)
}
