package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	jwtPkg "github.com/raqeebanjum/seniordesignproject/pkg/jwt"
	"github.com/sirupsen/logrus"
)

const (
	AccessTokenSecret = "JWT_ACCESS_TOKEN_SECRET"
)

// NewTokenMiddleware admits only bearer tokens whose role claim is admin.
func (m *middleware) NewTokenMiddleware(ctx *fiber.Ctx) error {
	fields := logrus.Fields{
		"request_id": m.GetRequestID(ctx),
		"path":       ctx.Path(),
		"client_ip":  ctx.IP(),
	}

	token, err := jwtPkg.VerifyTokenHeader(ctx, AccessTokenSecret)
	if err != nil {
		fields["error"] = err.Error()
		m.log.WithFields(fields).Warn("Token verification failed")
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized, access token invalid or expired",
			"code":  "UNAUTHORIZED",
		})
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		m.log.WithFields(fields).Warn("Invalid token claims")
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized, access token invalid or expired",
			"code":  "UNAUTHORIZED",
		})
	}

	operator, err := jwtPkg.OperatorFromClaims(claims)
	if err != nil {
		fields["error"] = err.Error()
		m.log.WithFields(fields).Warn("Token claims check")
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized, access token invalid or expired",
			"code":  "UNAUTHORIZED",
		})
	}

	if !operator.IsAdmin() {
		fields["operator_id"] = operator.ID
		m.log.WithFields(fields).Warn("Operator is not an admin")
		return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Admin role required",
			"code":  "FORBIDDEN",
		})
	}

	ctx.Locals(jwtPkg.OperatorLocal, operator)

	m.log.WithFields(fields).WithField("operator_id", operator.ID).Debug("Admin authenticated")
	return ctx.Next()
}
