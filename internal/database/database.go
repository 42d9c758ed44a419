package database

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Open connects to Postgres through the pgx database/sql driver and pings it.
func Open(ctx context.Context, url string) (*sql.DB, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		username TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		first_name TEXT NOT NULL DEFAULT '',
		last_name TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS country (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE
	)`,
	// city points at its country by id only
	`CREATE TABLE IF NOT EXISTS city (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		country_id INT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS details (
		id SERIAL PRIMARY KEY,
		user_id INT NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
		gender TEXT NOT NULL DEFAULT '',
		age INT,
		country_id INT,
		city_id INT
	)`,
	`CREATE TABLE IF NOT EXISTS sales (
		id SERIAL PRIMARY KEY,
		user_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		date DATE NOT NULL,
		product TEXT NOT NULL,
		revenue NUMERIC(14,2) NOT NULL CHECK (revenue >= 0),
		sales_number INT NOT NULL CHECK (sales_number >= 0)
	)`,
	`CREATE INDEX IF NOT EXISTS sales_user_id_idx ON sales (user_id)`,
}

type seedCountry struct {
	name   string
	cities []string
}

var seedCountries = []seedCountry{
	{"Pakistan", []string{"Karachi", "Lahore", "Islamabad"}},
	{"Thailand", []string{"Bangkok", "Chiang Mai", "Phuket"}},
	{"Germany", []string{"Berlin", "Munich", "Hamburg"}},
	{"United States", []string{"New York", "Chicago", "San Francisco"}},
}

// Migrate creates missing tables and seeds the country/city reference list
// when the country table is empty.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}

	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM country`).Scan(&count); err != nil {
		return fmt.Errorf("count countries: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, s := range seedCountries {
		var countryID int
		if err := db.QueryRowContext(ctx, `INSERT INTO country (name) VALUES ($1) RETURNING id`, s.name).Scan(&countryID); err != nil {
			return fmt.Errorf("seed country %s: %w", s.name, err)
		}
		for _, city := range s.cities {
			if _, err := db.ExecContext(ctx, `INSERT INTO city (name, country_id) VALUES ($1, $2)`, city, countryID); err != nil {
				return fmt.Errorf("seed city %s: %w", city, err)
			}
		}
	}
	return nil
}
