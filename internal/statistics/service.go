package statistics

import (
	"context"
	"errors"
	"fmt"

	"github.com/wichananm65/sales-backend/internal/sale"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var ErrLoad = errors.New("could not load sales")

// SaleLister is the read side of sale.Repository.
type SaleLister interface {
	ListByUser(ctx context.Context, userID int) ([]sale.Sale, error)
	ListAll(ctx context.Context) ([]sale.Sale, error)
}

type Service struct {
	sales  SaleLister
	logger *zap.Logger
}

func NewService(sales SaleLister, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{sales: sales, logger: logger}
}

// Snapshot loads the caller's sales and all sales concurrently and
// aggregates them.
func (s *Service) Snapshot(ctx context.Context, caller int) (Snapshot, error) {
	g, ctx := errgroup.WithContext(ctx)
	var userSales, allSales []sale.Sale

	g.Go(func() error {
		var err error
		userSales, err = s.sales.ListByUser(ctx, caller)
		if err != nil {
			return fmt.Errorf("list sales of user %d: %w", caller, err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		allSales, err = s.sales.ListAll(ctx)
		if err != nil {
			return fmt.Errorf("list all sales: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		s.logger.Error("statistics load failed", zap.Int("user_id", caller), zap.Error(err))
		return Snapshot{}, fmt.Errorf("%w: %w", ErrLoad, err)
	}

	return Compute(userSales, allSales)
}
