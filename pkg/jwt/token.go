package jwtPkg

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/raqeebanjum/seniordesignproject/internal/entity"
	"github.com/sirupsen/logrus"
)

const OperatorLocal = "operator"

func Sign(Data map[string]interface{}, ExpiredAt time.Duration, secretEnvKey string) (string, int64, error) {
	expiredAt := time.Now().Add(ExpiredAt).Unix()

	JWTSecretKey := os.Getenv(secretEnvKey)
	if JWTSecretKey == "" {
		return "", 0, fmt.Errorf("%s not set", secretEnvKey)
	}

	claims := jwt.MapClaims{}
	claims["exp"] = expiredAt
	claims["authorization"] = true

	for i, v := range Data {
		claims[i] = v
	}

	logrus.WithField("claims", claims).Debug("Creating token with claims")

	to := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	accessToken, err := to.SignedString([]byte(JWTSecretKey))
	if err != nil {
		logrus.WithError(err).Error("Failed to sign token")
		return "", 0, err
	}

	return accessToken, expiredAt, nil
}

func VerifyTokenHeader(c *fiber.Ctx, secretEnvKey string) (*jwt.Token, error) {
	log := logrus.WithField("func", "VerifyTokenHeader")

	header := c.Get("Authorization")
	if header == "" {
		log.Error("Empty Authorization header")
		return nil, errors.New("empty Authorization header")
	}

	accessToken, found := strings.CutPrefix(header, "Bearer ")
	if !found {
		log.Error("Invalid Authorization format")
		return nil, errors.New("invalid Authorization format")
	}

	accessToken = strings.TrimSpace(accessToken)
	if accessToken == "" {
		log.Error("Empty token after Bearer")
		return nil, errors.New("empty token")
	}

	JWTSecretKey := os.Getenv(secretEnvKey)
	if JWTSecretKey == "" {
		log.Errorf("%s environment variable not set", secretEnvKey)
		return nil, errors.New("JWT secret not configured")
	}

	token, err := jwt.Parse(accessToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			log.WithField("method", token.Header["alg"]).Error("Unexpected signing method")
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(JWTSecretKey), nil
	})

	if err != nil {
		log.WithError(err).Warn("Failed to parse JWT token")
		return nil, err
	}

	log.Debug("Token successfully verified")
	return token, nil
}

// OperatorFromClaims reads the id, name and role claims of a verified token.
func OperatorFromClaims(claims jwt.MapClaims) (entity.Operator, error) {
	id, _ := claims["id"].(string)
	role, _ := claims["role"].(string)
	name, _ := claims["name"].(string)

	if id == "" || role == "" {
		return entity.Operator{}, errors.New("token claims are missing id or role")
	}

	return entity.Operator{ID: id, Name: name, Role: role}, nil
}

func GetOperator(c *fiber.Ctx) (entity.Operator, error) {
	operator, ok := c.Locals(OperatorLocal).(entity.Operator)
	if !ok {
		return entity.Operator{}, fiber.ErrUnauthorized
	}

	return operator, nil
}
