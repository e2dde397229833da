package receivingHandler

import (
	"time"

	"github.com/gofiber/websocket/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/raqeebanjum/seniordesignproject/internal/api/receiving"
	"github.com/raqeebanjum/seniordesignproject/internal/middleware"
	contextPkg "github.com/raqeebanjum/seniordesignproject/pkg/context"
	"github.com/raqeebanjum/seniordesignproject/pkg/log"
	"github.com/raqeebanjum/seniordesignproject/pkg/response"
	"golang.org/x/net/context"
)

type wsError struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// handleTurnWebSocket takes one JSON turn request per text message and
// answers each with the turn response.
func (h *ReceivingHandler) handleTurnWebSocket(c *websocket.Conn) {
	id, _ := c.Locals(sessionLocal).(string)
	requestID, _ := c.Locals(middleware.RequestIDKey).(string)
	limitKey, _ := c.Locals(rateLimitLocal).(string)

	fields := log.Fields{"request_id": requestID, "session_id": id}
	h.log.WithFields(fields).Info("Turn websocket connected")
	defer h.log.WithFields(fields).Info("Turn websocket disconnected")

	for {
		if err := c.SetReadDeadline(time.Now().Add(5 * time.Minute)); err != nil {
			break
		}

		messageType, message, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.WithFields(fields).Warnf("Turn websocket error: %v", err)
			}
			break
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var reply interface{}
		if h.middleware.AllowTurn(limitKey) {
			reply = h.wsTurn(requestID, id, message)
		} else {
			reply = wsError{Error: "Too many requests", Code: "RATE_LIMITED"}
		}
		if err := c.SetWriteDeadline(time.Now().Add(10 * time.Second)); err != nil {
			break
		}
		if err := c.WriteJSON(reply); err != nil {
			h.log.WithFields(fields).Warnf("Error sending turn response: %v", err)
			break
		}
	}
}

func (h *ReceivingHandler) wsTurn(requestID, id string, message []byte) interface{} {
	var req receiving.TurnRequest
	if err := jsoniter.Unmarshal(message, &req); err != nil {
		return wsError{Error: "invalid turn request"}
	}
	if err := h.validator.Struct(req); err != nil {
		return wsError{Error: "Validation failed: " + err.Error()}
	}

	ctx, cancel := context.WithTimeout(contextPkg.WithRequestID(context.Background(), requestID), 30*time.Second)
	defer cancel()

	resp, err := h.receivingService.ProcessTurn(ctx, id, req)
	if err != nil {
		if response.StatusCode(err) >= 500 {
			h.log.WithFields(log.Fields{"request_id": requestID, "session_id": id, "error": err.Error()}).Error("Websocket turn failed")
		}
		return wsError{Error: err.Error()}
	}

	return resp
}
