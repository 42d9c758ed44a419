package location

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	listCountriesQuery = `SELECT id, name FROM country ORDER BY id`
	listCitiesQuery    = `SELECT id, name, country_id FROM city WHERE country_id = ANY($1) ORDER BY id`
	getCountryQuery    = `SELECT id, name FROM country WHERE id = $1`
	getCityQuery       = `SELECT id, name, country_id FROM city WHERE id = $1`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListCountries(ctx context.Context) ([]Country, error) {
	rows, err := r.db.QueryContext(ctx, listCountriesQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Country, 0)
	for rows.Next() {
		var c Country
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) ListCities(ctx context.Context, countryIDs []int) ([]City, error) {
	ids := make([]int64, 0, len(countryIDs))
	for _, id := range countryIDs {
		ids = append(ids, int64(id))
	}

	rows, err := r.db.QueryContext(ctx, listCitiesQuery, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]City, 0)
	for rows.Next() {
		var c City
		if err := rows.Scan(&c.ID, &c.Name, &c.CountryID); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) GetCountry(ctx context.Context, id int) (Country, error) {
	var c Country
	if err := r.db.QueryRowContext(ctx, getCountryQuery, id).Scan(&c.ID, &c.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Country{}, ErrNotFound
		}
		return Country{}, err
	}
	return c, nil
}

func (r *PostgresRepository) GetCity(ctx context.Context, id int) (City, error) {
	var c City
	if err := r.db.QueryRowContext(ctx, getCityQuery, id).Scan(&c.ID, &c.Name, &c.CountryID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return City{}, ErrNotFound
		}
		return City{}, err
	}
	return c, nil
}
