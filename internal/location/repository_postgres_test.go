package location

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPostgresRepository_NestedListing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT id, name FROM country").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "Pakistan").AddRow(2, "Thailand"))
	mock.ExpectQuery("FROM city WHERE country_id = ANY").WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "country_id"}).
			AddRow(1, "Karachi", 1).
			AddRow(2, "Bangkok", 2).
			AddRow(3, "Lahore", 1))

	svc := NewService(NewPostgresRepository(db))
	countries, err := svc.Countries(context.Background())
	if err != nil {
		t.Fatalf("countries failed: %v", err)
	}
	if len(countries) != 2 || len(countries[0].Cities) != 2 || len(countries[1].Cities) != 1 {
		t.Fatalf("unexpected nesting %+v", countries)
	}
	if countries[0].Cities[1].Name != "Lahore" {
		t.Fatalf("expected Lahore second, got %+v", countries[0].Cities)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresRepository_NoCountriesSkipsCityQuery(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT id, name FROM country").WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

	countries, err := NewService(NewPostgresRepository(db)).Countries(context.Background())
	if err != nil {
		t.Fatalf("countries failed: %v", err)
	}
	if countries == nil || len(countries) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", countries)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresRepository_GetCity(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery("FROM city WHERE id = \\$1").WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "country_id"}).AddRow(5, "Phuket", 2))
	mock.ExpectQuery("FROM city WHERE id = \\$1").WithArgs(6).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "country_id"}))
	mock.ExpectQuery("FROM country WHERE id = \\$1").WithArgs(9).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

	city, err := repo.GetCity(context.Background(), 5)
	if err != nil || city.CountryID != 2 {
		t.Fatalf("unexpected city %+v err=%v", city, err)
	}
	if _, err := repo.GetCity(context.Background(), 6); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := repo.GetCountry(context.Background(), 9); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
