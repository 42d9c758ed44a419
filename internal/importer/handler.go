package importer

import (
	"errors"
	"io"
	"mime/multipart"

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
	app.Post("/upload", h.upload)
}

func (h *Handler) upload(c *fiber.Ctx) error {
	userID, err := auth.UserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	fh, err := c.FormFile("csv")
	if err != nil {
		fh, err = c.FormFile("file")
	}
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "csv file is required"})
	}
	blob, err := readUpload(fh)
	if err != nil {
		h.logger.Error("read upload failed", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "could not read uploaded file"})
	}

	report, err := h.service.Import(c.UserContext(), userID, c.FormValue("email"), blob)
	if err != nil {
		switch {
		case errors.Is(err, ErrUserNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": err.Error()})
		case errors.Is(err, ErrForbidden):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": err.Error()})
		default:
			h.logger.Error("import failed", zap.Int("user_id", userID), zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "import failed"})
		}
	}
	return c.JSON(report)
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
