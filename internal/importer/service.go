package importer

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/wichananm65/sales-backend/internal/sale"
	"github.com/wichananm65/sales-backend/internal/user"
	"go.uber.org/zap"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrForbidden    = errors.New("cannot import sales for another user")
)

type UserLookup interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
}

type SaleStore interface {
	FindExact(ctx context.Context, s sale.Sale) (sale.Sale, error)
	Create(ctx context.Context, s sale.Sale) (sale.Sale, error)
}

// Report summarizes one upload.
type Report struct {
	Created    int        `json:"created"`
	Duplicates int        `json:"duplicates"`
	Failed     int        `json:"failed"`
	Errors     []RowError `json:"errors"`
}

type Service struct {
	users  UserLookup
	sales  SaleStore
	logger *zap.Logger
}

func NewService(users UserLookup, sales SaleStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{users: users, sales: sales, logger: logger}
}

// Import stores every valid line of blob for the user named by email, or
// for the caller when email is empty. Lines identical to an existing sale of
// that user are counted as duplicates and skipped. Bad lines are reported
// and do not stop the import.
func (s *Service) Import(ctx context.Context, caller int, email string, blob []byte) (Report, error) {
	target := caller
	if email = strings.TrimSpace(email); email != "" {
		u, err := s.users.GetByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, user.ErrNotFound) {
				return Report{}, fmt.Errorf("%w: %s", ErrUserNotFound, email)
			}
			return Report{}, fmt.Errorf("lookup user %s: %w", email, err)
		}
		target = u.ID
	}
	if target != caller {
		return Report{}, ErrForbidden
	}

	rows, rowErrs := Parse(blob)
	report := Report{Errors: rowErrs}

	for _, row := range rows {
		candidate := row.Sale
		candidate.UserID = target

		_, err := s.sales.FindExact(ctx, candidate)
		switch {
		case err == nil:
			report.Duplicates++
			continue
		case !errors.Is(err, sale.ErrNotFound):
			s.logger.Error("import lookup failed", zap.Int("line", row.Line), zap.Error(err))
			report.Errors = append(report.Errors, RowError{Line: row.Line, Message: "could not check for an existing sale"})
			continue
		}

		if _, err := s.sales.Create(ctx, candidate); err != nil {
			s.logger.Error("import insert failed", zap.Int("line", row.Line), zap.Error(err))
			report.Errors = append(report.Errors, RowError{Line: row.Line, Message: sale.ErrCreate.Error()})
			continue
		}
		report.Created++
	}

	sort.SliceStable(report.Errors, func(i, j int) bool {
		return report.Errors[i].Line < report.Errors[j].Line
	})
	report.Failed = len(report.Errors)
	s.logger.Info("sales import finished",
		zap.Int("user_id", target),
		zap.Int("created", report.Created),
		zap.Int("duplicates", report.Duplicates),
		zap.Int("failed", report.Failed),
	)
	return report, nil
}
