package auth

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v2"
	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
)

// Middleware verifies the bearer token and rejects revoked ones. Routes
// registered on the app before it stay public.
func Middleware(secret string, revoker Revoker, logger *zap.Logger) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:    []byte(secret),
		SigningMethod: "HS256",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
		},
		SuccessHandler: RejectRevoked(revoker, logger),
	})
}

// RejectRevoked stops requests whose token id has been revoked by logout.
func RejectRevoked(revoker Revoker, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenID, _, err := TokenFromCtx(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
		}
		revoked, err := revoker.IsRevoked(c.UserContext(), tokenID)
		if err != nil {
			logger.Error("revocation lookup failed", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "internal error"})
		}
		if revoked {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "token has been revoked"})
		}
		return c.Next()
	}
}

func claimsFromCtx(c *fiber.Ctx) (jwt.MapClaims, error) {
	u := c.Locals("user")
	if u == nil {
		return nil, fiber.ErrUnauthorized
	}
	tok, ok := u.(*jwt.Token)
	if !ok {
		return nil, fiber.ErrUnauthorized
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fiber.ErrUnauthorized
	}
	return claims, nil
}

// UserIDFromCtx extracts the user_id claim of the verified token stored in
// c.Locals("user").
func UserIDFromCtx(c *fiber.Ctx) (int, error) {
	claims, err := claimsFromCtx(c)
	if err != nil {
		return 0, err
	}
	raw, ok := claims["user_id"]
	if !ok {
		return 0, fiber.ErrUnauthorized
	}
	var id int
	switch v := raw.(type) {
	case float64:
		id = int(v)
	case int:
		id = v
	case int64:
		id = int(v)
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, fiber.ErrUnauthorized
		}
		id = n
	default:
		return 0, fiber.ErrUnauthorized
	}
	if id <= 0 {
		return 0, fiber.ErrUnauthorized
	}
	return id, nil
}

// TokenFromCtx returns the jti and expiry of the current token.
func TokenFromCtx(c *fiber.Ctx) (string, time.Time, error) {
	claims, err := claimsFromCtx(c)
	if err != nil {
		return "", time.Time{}, err
	}
	jti, _ := claims["jti"].(string)
	if jti == "" {
		return "", time.Time{}, fiber.ErrUnauthorized
	}
	var exp time.Time
	switch v := claims["exp"].(type) {
	case float64:
		exp = time.Unix(int64(v), 0)
	case int64:
		exp = time.Unix(v, 0)
	case int:
		exp = time.Unix(int64(v), 0)
	}
	return jti, exp, nil
}
