package user

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/wichananm65/sales-backend/internal/auth"
	"github.com/wichananm65/sales-backend/internal/validation"
	"go.uber.org/zap"
)

type Handler struct {
	service *Service
	issuer  *auth.Issuer
	revoker auth.Revoker
	logger  *zap.Logger
}

type loginRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func NewHandler(service *Service, issuer *auth.Issuer, revoker auth.Revoker, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{service: service, issuer: issuer, revoker: revoker, logger: logger}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Post("/login", h.login)
	app.Post("/register", h.register)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/logout", h.logout)
	// profile of the token owner; /user/:id is kept for existing clients
	app.Get("/profile", h.getProfile)
	app.Patch("/profile", h.updateProfile)
	app.Get("/user/:id", h.getProfile)
	app.Patch("/user/:id", h.updateProfile)
}

func (h *Handler) login(c *fiber.Ctx) error {
	payload := new(loginRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid request body"})
	}

	identifier := payload.Email
	if identifier == "" {
		identifier = payload.Username
	}
	user, err := h.service.Authenticate(c.UserContext(), identifier, payload.Password)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid credentials"})
	}

	token, err := h.issuer.Issue(user.ID, user.Email)
	if err != nil {
		h.logger.Error("token issue failed", zap.Int("user_id", user.ID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "failed to generate token"})
	}

	return c.JSON(fiber.Map{
		"token":   token.Signed,
		"user_id": user.ID,
	})
}

func (h *Handler) register(c *fiber.Ctx) error {
	payload := new(RegisterInput)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid request body"})
	}

	created, err := h.service.Register(c.UserContext(), *payload)
	if err != nil {
		if fields, ok := validation.As(err); ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid fields", "fields": fields})
		}
		switch {
		case errors.Is(err, ErrEmailExists):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "Email already exists"})
		case errors.Is(err, ErrUsernameExists):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "Username already exists"})
		default:
			h.logger.Error("register failed", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "could not register user"})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *Handler) logout(c *fiber.Ctx) error {
	tokenID, expiresAt, err := auth.TokenFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	if err := h.revoker.Revoke(c.UserContext(), tokenID, expiresAt); err != nil {
		h.logger.Error("token revoke failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "could not log out"})
	}
	return c.JSON(fiber.Map{"message": "User logged out successfully"})
}

// callerFor resolves the authenticated user and, on /user/:id, checks that
// the path names that same user.
func callerFor(c *fiber.Ctx) (int, error) {
	userID, err := auth.UserIDFromCtx(c)
	if err != nil {
		return 0, c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	if raw := c.Params("id"); raw != "" {
		pathID, err := strconv.Atoi(raw)
		if err != nil || pathID <= 0 {
			return 0, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid user id"})
		}
		if pathID != userID {
			return 0, c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "cannot access another user's profile"})
		}
	}
	return userID, nil
}

func (h *Handler) getProfile(c *fiber.Ctx) error {
	userID, err := callerFor(c)
	if userID == 0 {
		return err
	}

	profile, err := h.service.Profile(c.UserContext(), userID)
	if err != nil {
		return h.profileError(c, userID, err)
	}
	return c.JSON(profile)
}

func (h *Handler) updateProfile(c *fiber.Ctx) error {
	userID, err := callerFor(c)
	if userID == 0 {
		return err
	}

	var patch ProfilePatch
	if err := c.BodyParser(&patch); err != nil {
		if fields, ok := validation.FromDecode(err); ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid fields", "fields": fields})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid request body"})
	}

	profile, err := h.service.UpdateProfile(c.UserContext(), userID, patch)
	if err != nil {
		return h.profileError(c, userID, err)
	}
	return c.JSON(profile)
}

func (h *Handler) profileError(c *fiber.Ctx, userID int, err error) error {
	if fields, ok := validation.As(err); ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid fields", "fields": fields})
	}
	if errors.Is(err, ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "user " + strconv.Itoa(userID) + " not found"})
	}
	h.logger.Error("profile request failed", zap.Int("user_id", userID), zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "internal error"})
}
