package sale

import (
	"context"
	"database/sql"
	"errors"
)

type PostgresRepository struct {
	db *sql.DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

const (
	saleColumns = `id, user_id, to_char(date, 'YYYY-MM-DD'), product, revenue::float8, sales_number`

	listByUserQuery = `SELECT ` + saleColumns + ` FROM sales WHERE user_id = $1 ORDER BY id`
	listAllQuery    = `SELECT ` + saleColumns + ` FROM sales ORDER BY id`
	getByIDQuery    = `SELECT ` + saleColumns + ` FROM sales WHERE id = $1`

	insertSaleQuery = `
		INSERT INTO sales (user_id, date, product, revenue, sales_number)
		VALUES ($1, $2::date, $3, $4, $5)
		RETURNING ` + saleColumns
	updateSaleQuery = `
		UPDATE sales
		SET date = $3::date, product = $4, revenue = $5, sales_number = $6
		WHERE id = $1 AND user_id = $2
		RETURNING ` + saleColumns
	deleteSaleQuery    = `DELETE FROM sales WHERE id = $1`
	findExactSaleQuery = `
		SELECT ` + saleColumns + ` FROM sales
		WHERE user_id = $1 AND date = $2::date AND product = $3 AND revenue = $4 AND sales_number = $5
		ORDER BY id
		LIMIT 1
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]Sale, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Sale, 0)
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID int) ([]Sale, error) {
	return r.list(ctx, listByUserQuery, userID)
}

func (r *PostgresRepository) ListAll(ctx context.Context) ([]Sale, error) {
	return r.list(ctx, listAllQuery)
}

func (r *PostgresRepository) one(ctx context.Context, query string, args ...any) (Sale, error) {
	s, err := scanSale(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Sale{}, ErrNotFound
		}
		return Sale{}, err
	}
	return s, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int) (Sale, error) {
	return r.one(ctx, getByIDQuery, id)
}

func (r *PostgresRepository) Create(ctx context.Context, s Sale) (Sale, error) {
	return r.one(ctx, insertSaleQuery, s.UserID, s.Date, s.Product, s.Revenue, s.SalesNumber)
}

func (r *PostgresRepository) Update(ctx context.Context, s Sale) (Sale, error) {
	return r.one(ctx, updateSaleQuery, s.ID, s.UserID, s.Date, s.Product, s.Revenue, s.SalesNumber)
}

func (r *PostgresRepository) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, deleteSaleQuery, id)
	if err != nil {
		return err
	}
	cnt, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if cnt == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) FindExact(ctx context.Context, s Sale) (Sale, error) {
	return r.one(ctx, findExactSaleQuery, s.UserID, s.Date, s.Product, s.Revenue, s.SalesNumber)
}

func scanSale(scanner rowScanner) (Sale, error) {
	var s Sale
	if err := scanner.Scan(&s.ID, &s.UserID, &s.Date, &s.Product, &s.Revenue, &s.SalesNumber); err != nil {
		return Sale{}, err
	}
	return s, nil
}
