package location

import (
	"context"
	"errors"
	"slices"
	"sync"
)

var ErrNotFound = errors.New("location not found")

// Repository reads the country/city reference list.
type Repository interface {
	ListCountries(ctx context.Context) ([]Country, error)
	// ListCities returns the cities whose parent is one of countryIDs.
	ListCities(ctx context.Context, countryIDs []int) ([]City, error)
	GetCountry(ctx context.Context, id int) (Country, error)
	GetCity(ctx context.Context, id int) (City, error)
}

// InMemoryRepository for tests
type InMemoryRepository struct {
	mu        sync.RWMutex
	countries []Country
	cities    []City
}

func NewInMemoryRepository(countries []Country, cities []City) *InMemoryRepository {
	return &InMemoryRepository{
		countries: slices.Clone(countries),
		cities:    slices.Clone(cities),
	}
}

func (r *InMemoryRepository) ListCountries(_ context.Context) ([]Country, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Country, 0, len(r.countries))
	for _, c := range r.countries {
		out = append(out, Country{ID: c.ID, Name: c.Name})
	}
	return out, nil
}

func (r *InMemoryRepository) ListCities(_ context.Context, countryIDs []int) ([]City, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]City, 0)
	for _, c := range r.cities {
		if slices.Contains(countryIDs, c.CountryID) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *InMemoryRepository) GetCountry(_ context.Context, id int) (Country, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.countries {
		if c.ID == id {
			return Country{ID: c.ID, Name: c.Name}, nil
		}
	}
	return Country{}, ErrNotFound
}

func (r *InMemoryRepository) GetCity(_ context.Context, id int) (City, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.cities {
		if c.ID == id {
			return c, nil
		}
	}
	return City{}, ErrNotFound
}
