package sale

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Service applies ownership and validation rules on top of a Repository.
// Every operation takes the authenticated caller's id.
type Service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger}
}

// List returns the caller's sales ordered by id, never nil.
func (s *Service) List(ctx context.Context, caller int) ([]Sale, error) {
	sales, err := s.repo.ListByUser(ctx, caller)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	if sales == nil {
		sales = []Sale{}
	}
	return sales, nil
}

func (s *Service) Create(ctx context.Context, caller int, in Input) (Sale, error) {
	next, err := in.Validate()
	if err != nil {
		return Sale{}, err
	}
	next.UserID = caller

	created, err := s.repo.Create(ctx, next)
	if err != nil {
		s.logger.Error("create sale failed", zap.Int("user_id", caller), zap.Error(err))
		return Sale{}, fmt.Errorf("%w: %w", ErrCreate, err)
	}
	return created, nil
}

// Replace overwrites every mutable field of an existing sale.
func (s *Service) Replace(ctx context.Context, caller, id int, in Input) (Sale, error) {
	next, err := in.Validate()
	if err != nil {
		return Sale{}, err
	}
	current, err := s.owned(ctx, caller, id)
	if err != nil {
		return Sale{}, err
	}
	next.ID = current.ID
	next.UserID = current.UserID
	return s.update(ctx, next)
}

// PartialUpdate changes only the supplied fields.
func (s *Service) PartialUpdate(ctx context.Context, caller, id int, p Patch) (Sale, error) {
	if p.empty() {
		return p.apply(Sale{})
	}
	current, err := s.owned(ctx, caller, id)
	if err != nil {
		return Sale{}, err
	}
	next, err := p.apply(current)
	if err != nil {
		return Sale{}, err
	}
	return s.update(ctx, next)
}

func (s *Service) Delete(ctx context.Context, caller, id int) error {
	if _, err := s.owned(ctx, caller, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		s.logger.Error("delete sale failed", zap.Int("sale_id", id), zap.Error(err))
		return fmt.Errorf("%w: %w", ErrDelete, err)
	}
	return nil
}

// owned loads the sale and checks that caller owns it.
func (s *Service) owned(ctx context.Context, caller, id int) (Sale, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Sale{}, err
		}
		return Sale{}, fmt.Errorf("load sale %d: %w", id, err)
	}
	if current.UserID != caller {
		return Sale{}, ErrForbidden
	}
	return current, nil
}

func (s *Service) update(ctx context.Context, next Sale) (Sale, error) {
	updated, err := s.repo.Update(ctx, next)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Sale{}, err
		}
		s.logger.Error("update sale failed", zap.Int("sale_id", next.ID), zap.Error(err))
		return Sale{}, fmt.Errorf("%w: %w", ErrUpdate, err)
	}
	return updated, nil
}
