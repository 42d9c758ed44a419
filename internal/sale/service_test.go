package sale

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wichananm65/sales-backend/internal/validation"
)

func ptr[T any](v T) *T { return &v }

func validInput(product string, revenue float64, qty int) Input {
	return Input{Date: ptr("2024-03-01"), Product: ptr(product), Revenue: ptr(revenue), SalesNumber: ptr(qty)}
}

func TestService_ListOnlyReturnsCallerSales(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRepository([]Sale{
		{ID: 1, UserID: 1, Date: "2024-01-01", Product: "a", Revenue: 10, SalesNumber: 1},
		{ID: 2, UserID: 2, Date: "2024-01-02", Product: "b", Revenue: 20, SalesNumber: 2},
		{ID: 3, UserID: 1, Date: "2024-01-03", Product: "c", Revenue: 30, SalesNumber: 3},
	})
	svc := NewService(repo, nil)

	sales, err := svc.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, sales, 2)
	for _, s := range sales {
		assert.Equal(t, 1, s.UserID)
	}
	assert.Equal(t, []int{1, 3}, []int{sales[0].ID, sales[1].ID})

	empty, err := svc.List(ctx, 99)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestService_CreateThenList(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewInMemoryRepository(nil), nil)

	created, err := svc.Create(ctx, 7, validInput("  Widget ", 12.3456, 3))
	require.NoError(t, err)
	assert.Equal(t, 7, created.UserID)
	assert.Equal(t, "Widget", created.Product)
	assert.Equal(t, 12.35, created.Revenue)

	sales, err := svc.List(ctx, 7)
	require.NoError(t, err)
	assert.Contains(t, sales, created)
}

func TestService_CreateValidation(t *testing.T) {
	svc := NewService(NewInMemoryRepository(nil), nil)

	_, err := svc.Create(context.Background(), 1, Input{
		Date:        ptr("03/01/2024"),
		Product:     ptr("   "),
		Revenue:     ptr(-1.0),
		SalesNumber: nil,
	})
	fields, ok := validation.As(err)
	require.True(t, ok, "expected field errors, got %v", err)
	assert.Len(t, fields, 4)
	for _, f := range []string{"date", "product", "revenue", "sales_number"} {
		assert.Contains(t, fields, f)
	}
}

func TestService_CreateRejectsValuesBeyondColumnLimits(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRepository(nil)
	svc := NewService(repo, nil)

	_, err := svc.Create(ctx, 1, validInput("Bulk", 1, math.MaxInt32+1))
	fields, ok := validation.As(err)
	require.True(t, ok, "expected field errors, got %v", err)
	assert.Contains(t, fields, "sales_number")

	_, err = svc.Create(ctx, 1, validInput("Yacht", 1e12, 1))
	fields, ok = validation.As(err)
	require.True(t, ok, "expected field errors, got %v", err)
	assert.Contains(t, fields, "revenue")

	// rounds up to the limit
	_, err = svc.Create(ctx, 1, validInput("Yacht", 999999999999.999, 1))
	_, ok = validation.As(err)
	assert.True(t, ok)

	largest, err := svc.Create(ctx, 1, validInput("Max", 999999999999.99, math.MaxInt32))
	require.NoError(t, err)
	assert.Equal(t, math.MaxInt32, largest.SalesNumber)

	all, _ := repo.ListAll(ctx)
	assert.Len(t, all, 1)
}

type failingRepo struct {
	*InMemoryRepository
	err error
}

func (f failingRepo) Create(context.Context, Sale) (Sale, error) { return Sale{}, f.err }

func TestService_CreateWrapsPersistenceFailure(t *testing.T) {
	cause := errors.New("connection reset")
	svc := NewService(failingRepo{InMemoryRepository: NewInMemoryRepository(nil), err: cause}, nil)

	_, err := svc.Create(context.Background(), 1, validInput("x", 1, 1))
	assert.ErrorIs(t, err, ErrCreate)
	assert.ErrorIs(t, err, cause)
}

func TestService_DeleteThenListExcludes(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewInMemoryRepository(nil), nil)

	created, err := svc.Create(ctx, 1, validInput("x", 5, 1))
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, 1, created.ID))

	sales, err := svc.List(ctx, 1)
	require.NoError(t, err)
	assert.NotContains(t, sales, created)

	assert.ErrorIs(t, svc.Delete(ctx, 1, created.ID), ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, 1, 12345), ErrNotFound)
}

func TestService_PartialUpdateKeepsOtherFields(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewInMemoryRepository(nil), nil)
	created, err := svc.Create(ctx, 1, validInput("Lamp", 40, 4))
	require.NoError(t, err)

	updated, err := svc.PartialUpdate(ctx, 1, created.ID, Patch{Revenue: ptr(99.5)})
	require.NoError(t, err)
	assert.Equal(t, 99.5, updated.Revenue)
	assert.Equal(t, created.Product, updated.Product)
	assert.Equal(t, created.Date, updated.Date)
	assert.Equal(t, created.SalesNumber, updated.SalesNumber)
	assert.Equal(t, created.UserID, updated.UserID)

	_, err = svc.PartialUpdate(ctx, 1, created.ID, Patch{})
	_, ok := validation.As(err)
	assert.True(t, ok)

	_, err = svc.PartialUpdate(ctx, 1, created.ID, Patch{SalesNumber: ptr(-3)})
	_, ok = validation.As(err)
	assert.True(t, ok)

	_, err = svc.PartialUpdate(ctx, 1, 404, Patch{Revenue: ptr(1.0)})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_ReplaceMissingIsNotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRepository(nil)
	svc := NewService(repo, nil)

	_, err := svc.Replace(ctx, 1, 5, validInput("x", 1, 1))
	assert.ErrorIs(t, err, ErrNotFound)

	all, _ := repo.ListAll(ctx)
	assert.Empty(t, all, "replace must not create a sale")
}

func TestService_OwnershipEnforced(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewInMemoryRepository(nil), nil)
	owned, err := svc.Create(ctx, 1, validInput("Mine", 10, 1))
	require.NoError(t, err)

	_, err = svc.Replace(ctx, 2, owned.ID, validInput("Theirs", 1, 1))
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = svc.PartialUpdate(ctx, 2, owned.ID, Patch{Product: ptr("Theirs")})
	assert.ErrorIs(t, err, ErrForbidden)
	assert.ErrorIs(t, svc.Delete(ctx, 2, owned.ID), ErrForbidden)

	sales, err := svc.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, owned, sales[0])
}

func TestService_ReplaceOverwritesAllFields(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewInMemoryRepository(nil), nil)
	created, err := svc.Create(ctx, 3, validInput("Old", 10, 1))
	require.NoError(t, err)

	in := Input{Date: ptr("2025-12-31"), Product: ptr("New"), Revenue: ptr(0.0), SalesNumber: ptr(0)}
	updated, err := svc.Replace(ctx, 3, created.ID, in)
	require.NoError(t, err)
	assert.Equal(t, Sale{ID: created.ID, UserID: 3, Date: "2025-12-31", Product: "New", Revenue: 0, SalesNumber: 0}, updated)
}
