package sale

import (
	"context"
	"errors"
	"slices"
	"sync"
)

var (
	ErrNotFound  = errors.New("sale not found")
	ErrForbidden = errors.New("sale belongs to another user")
	ErrCreate    = errors.New("could not create sale")
	ErrUpdate    = errors.New("could not update sale")
	ErrDelete    = errors.New("could not delete sale")
)

type Repository interface {
	ListByUser(ctx context.Context, userID int) ([]Sale, error)
	ListAll(ctx context.Context) ([]Sale, error)
	GetByID(ctx context.Context, id int) (Sale, error)
	Create(ctx context.Context, s Sale) (Sale, error)
	// Update overwrites the mutable fields of the sale with s.ID owned by
	// s.UserID.
	Update(ctx context.Context, s Sale) (Sale, error)
	Delete(ctx context.Context, id int) error
	// FindExact returns the first sale of s.UserID whose date, product,
	// revenue and sales_number all equal s, or ErrNotFound.
	FindExact(ctx context.Context, s Sale) (Sale, error)
}

// InMemoryRepository keeps sales ordered by id.
type InMemoryRepository struct {
	mu     sync.RWMutex
	sales  []Sale
	nextID int
}

func NewInMemoryRepository(seed []Sale) *InMemoryRepository {
	repo := &InMemoryRepository{sales: slices.Clone(seed), nextID: 1}
	slices.SortFunc(repo.sales, func(a, b Sale) int { return a.ID - b.ID })
	for _, s := range repo.sales {
		if s.ID >= repo.nextID {
			repo.nextID = s.ID + 1
		}
	}
	return repo
}

func (r *InMemoryRepository) ListByUser(_ context.Context, userID int) ([]Sale, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Sale, 0)
	for _, s := range r.sales {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *InMemoryRepository) ListAll(_ context.Context) ([]Sale, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append(make([]Sale, 0, len(r.sales)), r.sales...), nil
}

func (r *InMemoryRepository) GetByID(_ context.Context, id int) (Sale, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.sales {
		if s.ID == id {
			return s, nil
		}
	}
	return Sale{}, ErrNotFound
}

func (r *InMemoryRepository) Create(_ context.Context, s Sale) (Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s.ID = r.nextID
	r.nextID++
	r.sales = append(r.sales, s)
	return s, nil
}

func (r *InMemoryRepository) Update(_ context.Context, s Sale) (Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, existing := range r.sales {
		if existing.ID == s.ID && existing.UserID == s.UserID {
			r.sales[i] = s
			return s, nil
		}
	}
	return Sale{}, ErrNotFound
}

func (r *InMemoryRepository) Delete(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, s := range r.sales {
		if s.ID == id {
			r.sales = slices.Delete(r.sales, i, i+1)
			return nil
		}
	}
	return ErrNotFound
}

func (r *InMemoryRepository) FindExact(_ context.Context, want Sale) (Sale, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.sales {
		if s.UserID == want.UserID &&
			s.Date == want.Date &&
			s.Product == want.Product &&
			s.Revenue == want.Revenue &&
			s.SalesNumber == want.SalesNumber {
			return s, nil
		}
	}
	return Sale{}, ErrNotFound
}
