package statistics

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/wichananm65/sales-backend/internal/auth"
	"go.uber.org/zap"
)

type Handler struct {
	service *Service
	logger  *zap.Logger
}

func NewHandler(s *Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{service: s, logger: logger}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/sales/statistics", h.getStatistics)
}

func (h *Handler) getStatistics(c *fiber.Ctx) error {
	userID, err := auth.UserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	snap, err := h.service.Snapshot(c.UserContext(), userID)
	if err != nil {
		if errors.Is(err, ErrDivisionUndefined) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"message": "no sales to compute statistics from"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": ErrLoad.Error()})
	}
	return c.JSON(snap)
}
