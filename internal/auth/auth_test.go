package auth

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

func makeProtectedApp(revoker Revoker) *fiber.App {
	app := fiber.New()
	app.Get("/public", func(c *fiber.Ctx) error { return c.SendString("public") })
	app.Use(Middleware(testSecret, revoker, zap.NewNop()))
	app.Get("/me", func(c *fiber.Ctx) error {
		id, err := UserIDFromCtx(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
		}
		return c.SendString(strconv.Itoa(id))
	})
	return app
}

func bearer(req *http.Request, token string) {
	req.Header.Set("Authorization", "Bearer "+token)
}

func TestIssuer_ClaimsRoundTrip(t *testing.T) {
	issuer := NewIssuer(testSecret, time.Hour)
	tok, err := issuer.Issue(7, "a@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, tok.ID)

	parsed, err := jwt.Parse(tok.Signed, func(*jwt.Token) (interface{}, error) { return []byte(testSecret), nil })
	require.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, float64(7), claims["user_id"])
	assert.Equal(t, tok.ID, claims["jti"])
	assert.Equal(t, float64(tok.ExpiresAt.Unix()), claims["exp"])
}

func TestIssuer_EmptySecret(t *testing.T) {
	_, err := NewIssuer("", time.Hour).Issue(1, "a@example.com")
	assert.ErrorIs(t, err, ErrEmptySecret)
}

func TestMiddleware_AcceptsThenRejectsRevoked(t *testing.T) {
	revoker := NewMemoryRevoker()
	app := makeProtectedApp(revoker)
	tok, err := NewIssuer(testSecret, time.Hour).Issue(42, "u@example.com")
	require.NoError(t, err)

	// public route is reachable without a token
	res, err := app.Test(httptest.NewRequest("GET", "/public", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)

	res, err = app.Test(httptest.NewRequest("GET", "/me", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)

	req := httptest.NewRequest("GET", "/me", nil)
	bearer(req, tok.Signed)
	res, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, res.StatusCode)
	body, _ := io.ReadAll(res.Body)
	assert.Equal(t, "42", string(body))

	require.NoError(t, revoker.Revoke(context.Background(), tok.ID, tok.ExpiresAt))

	req = httptest.NewRequest("GET", "/me", nil)
	bearer(req, tok.Signed)
	res, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
}

func TestMiddleware_RejectsForeignSignature(t *testing.T) {
	app := makeProtectedApp(NewMemoryRevoker())
	tok, err := NewIssuer("other-secret", time.Hour).Issue(42, "u@example.com")
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/me", nil)
	bearer(req, tok.Signed)
	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
}

func TestMiddleware_RejectsExpired(t *testing.T) {
	app := makeProtectedApp(NewMemoryRevoker())
	issuer := NewIssuer(testSecret, time.Minute)
	issuer.now = func() time.Time { return time.Now().Add(-time.Hour) }
	tok, err := issuer.Issue(42, "u@example.com")
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/me", nil)
	bearer(req, tok.Signed)
	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
}
