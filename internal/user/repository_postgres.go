package user

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

type PostgresRepository struct {
	db *sql.DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

const uniqueViolation = "23505"

const (
	selectUserColumns = `SELECT id, email, username, password, first_name, last_name FROM users`

	getUserByIDQuery       = selectUserColumns + ` WHERE id = $1`
	getUserByEmailQuery    = selectUserColumns + ` WHERE lower(email) = lower($1)`
	getUserByUsernameQuery = selectUserColumns + ` WHERE username = $1`

	insertUserQuery = `
		INSERT INTO users (email, username, password, first_name, last_name)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	insertEmptyDetailQuery = `
		INSERT INTO details (user_id) VALUES ($1)
		ON CONFLICT (user_id) DO NOTHING
	`
	getProfileQuery = `
		SELECT u.id, u.username, u.first_name, u.last_name, u.email,
			COALESCE(d.gender, ''), d.age, d.country_id, COALESCE(co.name, ''), d.city_id, COALESCE(ci.name, '')
		FROM users u
		LEFT JOIN details d ON d.user_id = u.id
		LEFT JOIN country co ON co.id = d.country_id
		LEFT JOIN city ci ON ci.id = d.city_id
		WHERE u.id = $1
	`
	updateUserNamesQuery = `UPDATE users SET first_name = $1, last_name = $2 WHERE id = $3`
	upsertDetailQuery    = `
		INSERT INTO details (user_id, gender, age, country_id, city_id)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE
		SET gender = EXCLUDED.gender,
			age = EXCLUDED.age,
			country_id = EXCLUDED.country_id,
			city_id = EXCLUDED.city_id
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg any) (User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return user, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int) (User, error) {
	return r.getOne(ctx, getUserByIDQuery, id)
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (User, error) {
	return r.getOne(ctx, getUserByEmailQuery, email)
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (User, error) {
	return r.getOne(ctx, getUserByUsernameQuery, username)
}

func (r *PostgresRepository) Create(ctx context.Context, user User) (User, error) {
	var id int
	err := r.db.QueryRowContext(ctx, insertUserQuery,
		user.Email,
		user.Username,
		user.Password,
		user.FirstName,
		user.LastName,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			if pgErr.ConstraintName == "users_username_key" {
				return User{}, ErrUsernameExists
			}
			return User{}, ErrEmailExists
		}
		return User{}, err
	}

	if _, err := r.db.ExecContext(ctx, insertEmptyDetailQuery, id); err != nil {
		return User{}, err
	}

	user.ID = id
	return user, nil
}

func (r *PostgresRepository) GetProfile(ctx context.Context, id int) (Profile, error) {
	var (
		p         Profile
		age       sql.NullInt64
		countryID sql.NullInt64
		cityID    sql.NullInt64
	)
	err := r.db.QueryRowContext(ctx, getProfileQuery, id).Scan(
		&p.ID,
		&p.Username,
		&p.FirstName,
		&p.LastName,
		&p.Email,
		&p.Gender,
		&age,
		&countryID,
		&p.Country,
		&cityID,
		&p.City,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, err
	}

	p.Age = intPtr(age)
	p.CountryID = intPtr(countryID)
	p.CityID = intPtr(cityID)
	return p, nil
}

func (r *PostgresRepository) UpdateProfile(ctx context.Context, p Profile) (Profile, error) {
	result, err := r.db.ExecContext(ctx, updateUserNamesQuery, p.FirstName, p.LastName, p.ID)
	if err != nil {
		return Profile{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return Profile{}, err
	}
	if affected == 0 {
		return Profile{}, ErrNotFound
	}

	if _, err := r.db.ExecContext(ctx, upsertDetailQuery,
		p.ID,
		p.Gender,
		nullInt(p.Age),
		nullInt(p.CountryID),
		nullInt(p.CityID),
	); err != nil {
		return Profile{}, err
	}

	return r.GetProfile(ctx, p.ID)
}

func scanUser(scanner rowScanner) (User, error) {
	user := User{}
	if err := scanner.Scan(
		&user.ID,
		&user.Email,
		&user.Username,
		&user.Password,
		&user.FirstName,
		&user.LastName,
	); err != nil {
		return User{}, err
	}
	return user, nil
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}
