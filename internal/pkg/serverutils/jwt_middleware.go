package serverutils

import (
	"fmt"
	"strings"

	"interview-prep-be/pkg/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const ownerIDLocal = "user_id"

// NewJwtMiddleware validates the hosted provider's HS256 bearer token and stores the owner id.
// Websocket upgrades may pass the token as ?token= since browsers cannot set headers there.
func NewJwtMiddleware(secret string) fiber.Handler {
	key := []byte(secret)

	return func(ctx *fiber.Ctx) error {
		tokenStr := bearerToken(ctx)
		if tokenStr == "" {
			return &apperror.AuthenticationError{Reason: "missing bearer token"}
		}

		ownerID, err := ParseOwnerID(tokenStr, key)
		if err != nil {
			return err
		}

		ctx.Locals(ownerIDLocal, ownerID.String())
		return ctx.Next()
	}
}

func bearerToken(ctx *fiber.Ctx) string {
	authHeader := ctx.Get(fiber.HeaderAuthorization)
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	if strings.EqualFold(ctx.Get(fiber.HeaderUpgrade), "websocket") {
		return ctx.Query("token")
	}
	return ""
}

// ParseOwnerID reads the owner from the "sub" claim, falling back to "user_id".
func ParseOwnerID(tokenStr string, key []byte) (uuid.UUID, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return uuid.Nil, &apperror.AuthenticationError{Reason: "invalid token"}
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, &apperror.AuthenticationError{Reason: "invalid claims"}
	}

	for _, claim := range []string{"sub", "user_id"} {
		raw, ok := claims[claim].(string)
		if !ok || raw == "" {
			continue
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return uuid.Nil, &apperror.AuthenticationError{Reason: fmt.Sprintf("claim %s is not a valid id", claim)}
		}
		return id, nil
	}
	return uuid.Nil, &apperror.AuthenticationError{Reason: "token has no subject"}
}

// OwnerID returns the authenticated owner stored by the JWT middleware.
func OwnerID(ctx *fiber.Ctx) (uuid.UUID, error) {
	raw, ok := ctx.Locals(ownerIDLocal).(string)
	if !ok {
		return uuid.Nil, &apperror.AuthenticationError{Reason: "no authenticated owner"}
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, &apperror.AuthenticationError{Reason: "no authenticated owner"}
	}
	return id, nil
}

// ParamUUID parses a route parameter, reporting a ValidationError on malformed ids.
func ParamUUID(ctx *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params(name))
	if err != nil {
		return uuid.Nil, &apperror.ValidationError{Message: fmt.Sprintf("%s must be a valid UUID", name)}
	}
	return id, nil
}
