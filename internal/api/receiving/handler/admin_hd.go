package receivingHandler

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/raqeebanjum/seniordesignproject/internal/api/receiving"
	contextPkg "github.com/raqeebanjum/seniordesignproject/pkg/context"
	"github.com/raqeebanjum/seniordesignproject/pkg/handlerUtil"
	jwtPkg "github.com/raqeebanjum/seniordesignproject/pkg/jwt"
	"github.com/raqeebanjum/seniordesignproject/pkg/log"
	"golang.org/x/net/context"
)

func (h *ReceivingHandler) InspectQueue(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	snapshot, err := h.receivingService.InspectQueue(c, sessionID(ctx))
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "inspect_queue")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, snapshot)
}

func (h *ReceivingHandler) ForceEnqueue(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	operator, err := jwtPkg.GetOperator(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}

	var req receiving.ForceEnqueueRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}
	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	h.log.WithFields(log.Fields{
		"request_id":  requestID,
		"operator_id": operator.ID,
		"po_number":   req.PONumber,
	}).Info("Admin force-enqueue requested")

	resp, err := h.receivingService.ForceEnqueue(c, sessionID(ctx), strings.TrimSpace(req.PONumber))
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "force_enqueue")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, resp)
}

func (h *ReceivingHandler) ForceDequeue(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	operator, err := jwtPkg.GetOperator(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}

	h.log.WithFields(log.Fields{
		"request_id":  requestID,
		"operator_id": operator.ID,
	}).Info("Admin force-dequeue requested")

	resp, err := h.receivingService.ForceDequeue(c, sessionID(ctx))
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "force_dequeue")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, resp)
}
