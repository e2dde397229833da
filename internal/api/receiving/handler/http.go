package receivingHandler

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/raqeebanjum/seniordesignproject/internal/api/receiving"
	receivingService "github.com/raqeebanjum/seniordesignproject/internal/api/receiving/service"
	"github.com/raqeebanjum/seniordesignproject/internal/middleware"
	"github.com/raqeebanjum/seniordesignproject/pkg/utils"
	"github.com/sirupsen/logrus"
)

const (
	sessionLocal   = "session_id"
	rateLimitLocal = "rate_limit_key"
)

type ReceivingHandler struct {
	log              *logrus.Logger
	validator        *validator.Validate
	middleware       middleware.Middleware
	receivingService receivingService.IReceivingService
	utils            utils.IUtils
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	rs receivingService.IReceivingService,
	utils utils.IUtils,
) *ReceivingHandler {
	return &ReceivingHandler{
		log:              log,
		validator:        validate,
		middleware:       middleware,
		receivingService: rs,
		utils:            utils,
	}
}

func (h *ReceivingHandler) Start(srv fiber.Router) {
	wsMiddleware := func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			id := sessionID(c)
			c.Locals(sessionLocal, id)
			c.Locals(rateLimitLocal, middleware.RateLimitKey(c.IP(), id))
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}

	rcv := srv.Group("/receiving")

	// Operator turns
	rcv.Post("/turn", h.middleware.NewRateLimiter, h.ProcessTurn)
	rcv.Post("/upload", h.middleware.NewRateLimiter, h.UploadAudio)
	rcv.Get("/audio", h.GetPromptAudio)
	rcv.Post("/reset", h.Reset)
	rcv.Get("/queue", h.InspectQueue)

	rcv.Use("/ws", wsMiddleware)
	rcv.Get("/ws", websocket.New(h.handleTurnWebSocket))

	// Supervisor overrides
	admin := rcv.Group("/admin", h.middleware.NewTokenMiddleware)
	admin.Post("/queue", h.ForceEnqueue)
	admin.Delete("/queue/head", h.ForceDequeue)
}

// sessionID picks the session from the X-Session-ID header, then the
// session query parameter, so browser websockets can name one too.
func sessionID(c *fiber.Ctx) string {
	if id := strings.TrimSpace(c.Get(receiving.SessionHeader)); id != "" {
		return id
	}
	if id := strings.TrimSpace(c.Query("session")); id != "" {
		return id
	}
	return receiving.DefaultSessionID
}
