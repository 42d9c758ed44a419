package location

import (
	"context"
	"fmt"
	"sort"
)

// Service provides the nested country listing.
type Service struct {
	repo Repository
}

func NewService(r Repository) *Service {
	return &Service{repo: r}
}

// Countries returns every country ordered by id, each with its cities
// ordered by id. A country without cities has an empty slice.
func (s *Service) Countries(ctx context.Context) ([]Country, error) {
	countries, err := s.repo.ListCountries(ctx)
	if err != nil {
		return nil, fmt.Errorf("list countries: %w", err)
	}
	if len(countries) == 0 {
		return []Country{}, nil
	}

	ids := make([]int, 0, len(countries))
	byID := make(map[int]int, len(countries))
	for i := range countries {
		countries[i].Cities = []City{}
		ids = append(ids, countries[i].ID)
		byID[countries[i].ID] = i
	}

	cities, err := s.repo.ListCities(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list cities: %w", err)
	}
	sort.Slice(cities, func(i, j int) bool { return cities[i].ID < cities[j].ID })
	for _, city := range cities {
		if i, ok := byID[city.CountryID]; ok {
			countries[i].Cities = append(countries[i].Cities, city)
		}
	}

	sort.Slice(countries, func(i, j int) bool { return countries[i].ID < countries[j].ID })
	return countries, nil
}
