package receivingHandler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/raqeebanjum/seniordesignproject/internal/api/receiving"
	contextPkg "github.com/raqeebanjum/seniordesignproject/pkg/context"
	"github.com/raqeebanjum/seniordesignproject/pkg/handlerUtil"
	"github.com/raqeebanjum/seniordesignproject/pkg/log"
	"github.com/raqeebanjum/seniordesignproject/pkg/utils"
	"golang.org/x/net/context"
)

func (h *ReceivingHandler) ProcessTurn(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 30*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	var req receiving.TurnRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	resp, err := h.receivingService.ProcessTurn(c, sessionID(ctx), req)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "process_turn")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, resp)
	}
}

func (h *ReceivingHandler) UploadAudio(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 60*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	audioFile, err := ctx.FormFile("audio")
	if err != nil {
		return errHandler.HandleValidationError(ctx, requestID,
			errors.New("audio file is required"), ctx.Path())
	}

	if err := h.utils.ValidateAudioFile(audioFile); err != nil {
		if errors.Is(err, utils.ErrFileTooLarge) {
			return errHandler.Handle(ctx, requestID, receiving.ErrAudioFileTooLarge, ctx.Path(), "upload_audio")
		}
		return errHandler.Handle(ctx, requestID, receiving.ErrInvalidAudioFile, ctx.Path(), "upload_audio")
	}

	file, err := audioFile.Open()
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "upload_audio")
	}
	defer file.Close()

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"filename":   audioFile.Filename,
		"size":       audioFile.Size,
	}).Debug("Processing uploaded audio")

	resp, err := h.receivingService.ProcessAudio(c, sessionID(ctx), file, audioFile.Filename)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "upload_audio")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, resp)
	}
}

func (h *ReceivingHandler) GetPromptAudio(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	audio, err := h.receivingService.GetPromptAudio(c, sessionID(ctx))
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_prompt_audio")
	}

	ctx.Set(fiber.HeaderContentType, "audio/mpeg")
	ctx.Set(fiber.HeaderCacheControl, "no-store")
	return ctx.Status(fiber.StatusOK).Send(audio)
}

func (h *ReceivingHandler) Reset(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)
	id := sessionID(ctx)

	if err := h.receivingService.Reset(c, id); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "reset")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, receiving.ResetResponse{
		SessionID: id,
		Message:   "Session reset",
	})
}
