package sale

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
	logger  *zap.Logger
}

func NewHandler(s *Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{service: s, logger: logger}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/sales", h.listSales)
	app.Post("/sales", h.createSale)
	app.Put("/sales/:id", h.replaceSale)
	app.Patch("/sales/:id", h.patchSale)
	app.Delete("/sales/:id", h.deleteSale)
}

func (h *Handler) listSales(c *fiber.Ctx) error {
	userID, err := auth.UserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	sales, err := h.service.List(c.UserContext(), userID)
	if err != nil {
		h.logger.Error("list sales failed", zap.Int("user_id", userID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "internal error"})
	}
	return c.JSON(fiber.Map{"data": sales})
}

func (h *Handler) createSale(c *fiber.Ctx) error {
	userID, err := auth.UserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	var in Input
	if err := c.BodyParser(&in); err != nil {
		return bodyError(c, err)
	}

	created, err := h.service.Create(c.UserContext(), userID, in)
	if err != nil {
		return h.saleError(c, 0, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *Handler) replaceSale(c *fiber.Ctx) error {
	userID, id, ok := h.target(c)
	if !ok {
		return nil
	}
	var in Input
	if err := c.BodyParser(&in); err != nil {
		return bodyError(c, err)
	}

	updated, err := h.service.Replace(c.UserContext(), userID, id, in)
	if err != nil {
		return h.saleError(c, id, err)
	}
	return c.JSON(updated)
}

func (h *Handler) patchSale(c *fiber.Ctx) error {
	userID, id, ok := h.target(c)
	if !ok {
		return nil
	}
	var p Patch
	if err := c.BodyParser(&p); err != nil {
		return bodyError(c, err)
	}

	updated, err := h.service.PartialUpdate(c.UserContext(), userID, id, p)
	if err != nil {
		return h.saleError(c, id, err)
	}
	return c.JSON(updated)
}

func (h *Handler) deleteSale(c *fiber.Ctx) error {
	userID, id, ok := h.target(c)
	if !ok {
		return nil
	}
	if err := h.service.Delete(c.UserContext(), userID, id); err != nil {
		return h.saleError(c, id, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// target resolves the caller and the :id path parameter. When ok is false
// the error response has already been written.
func (h *Handler) target(c *fiber.Ctx) (userID, id int, ok bool) {
	userID, err := auth.UserIDFromCtx(c)
	if err != nil {
		_ = c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
		return 0, 0, false
	}
	id, err = strconv.Atoi(c.Params("id"))
	if err != nil || id <= 0 {
		_ = c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid sale id"})
		return 0, 0, false
	}
	return userID, id, true
}

// bodyError names the offending field when the body decoded into the wrong type.
func bodyError(c *fiber.Ctx, err error) error {
	if fields, ok := validation.FromDecode(err); ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid fields", "fields": fields})
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid request body"})
}

func (h *Handler) saleError(c *fiber.Ctx, id int, err error) error {
	if fields, ok := validation.As(err); ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid fields", "fields": fields})
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "sale " + strconv.Itoa(id) + " not found"})
	case errors.Is(err, ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "sale " + strconv.Itoa(id) + " belongs to another user"})
	case errors.Is(err, ErrCreate):
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": ErrCreate.Error()})
	case errors.Is(err, ErrUpdate):
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": ErrUpdate.Error()})
	case errors.Is(err, ErrDelete):
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": ErrDelete.Error()})
	default:
		h.logger.Error("sale request failed", zap.Int("sale_id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "internal error"})
	}
}
