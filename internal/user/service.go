package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/wichananm65/sales-backend/internal/location"
	"github.com/wichananm65/sales-backend/internal/validation"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	maxAge          = 150
	minPasswordSize = 8
)

// Locations resolves the country and city a profile points at.
type Locations interface {
	GetCountry(ctx context.Context, id int) (location.Country, error)
	GetCity(ctx context.Context, id int) (location.City, error)
}

type Service struct {
	repo      Repository
	locations Locations
	logger    *zap.Logger
}

func NewService(repo Repository, locations Locations, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, locations: locations, logger: logger}
}

func (s *Service) GetByID(ctx context.Context, id int) (User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByEmail(ctx context.Context, email string) (User, error) {
	return s.repo.GetByEmail(ctx, strings.TrimSpace(email))
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Username = strings.TrimSpace(in.Username)

	fields := validation.Errors{}
	if in.Email == "" || !strings.Contains(in.Email, "@") {
		fields.Add("email", "a valid email is required")
	}
	if in.Username == "" {
		fields.Add("username", "is required")
	}
	if len(in.Password) < minPasswordSize {
		fields.Add("password", "must be at least 8 characters")
	}
	if err := fields.Err(); err != nil {
		return User{}, err
	}

	if _, err := s.repo.GetByEmail(ctx, in.Email); err == nil {
		return User{}, ErrEmailExists
	} else if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}
	if _, err := s.repo.GetByUsername(ctx, in.Username); err == nil {
		return User{}, ErrUsernameExists
	} else if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	created, err := s.repo.Create(ctx, User{
		Email:     in.Email,
		Username:  in.Username,
		Password:  string(hashed),
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
	})
	if err != nil {
		return User{}, err
	}
	s.logger.Info("user registered", zap.Int("user_id", created.ID))
	return created, nil
}

// Authenticate accepts either an email or a username as identifier.
func (s *Service) Authenticate(ctx context.Context, identifier, password string) (User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return User{}, ErrInvalidCredentials
	}

	var (
		user User
		err  error
	)
	if strings.Contains(identifier, "@") {
		user, err = s.repo.GetByEmail(ctx, identifier)
	} else {
		user, err = s.repo.GetByUsername(ctx, identifier)
	}
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Error("credential lookup failed", zap.Error(err))
		}
		return User{}, ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return User{}, ErrInvalidCredentials
	}
	return user, nil
}

func (s *Service) Profile(ctx context.Context, userID int) (Profile, error) {
	return s.repo.GetProfile(ctx, userID)
}

// UpdateProfile applies the supplied fields to the caller's own profile.
func (s *Service) UpdateProfile(ctx context.Context, userID int, patch ProfilePatch) (Profile, error) {
	fields := validation.Errors{}
	if patch.Age != nil && (*patch.Age < 0 || *patch.Age > maxAge) {
		fields.Add("age", "must be between 0 and 150")
	}
	if patch.CountryID != nil && *patch.CountryID <= 0 {
		fields.Add("country_id", "must be a positive id")
	}
	if patch.CityID != nil && *patch.CityID <= 0 {
		fields.Add("city_id", "must be a positive id")
	}
	if err := fields.Err(); err != nil {
		return Profile{}, err
	}

	current, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		return Profile{}, err
	}

	if patch.FirstName != nil {
		current.FirstName = strings.TrimSpace(*patch.FirstName)
	}
	if patch.LastName != nil {
		current.LastName = strings.TrimSpace(*patch.LastName)
	}
	if patch.Gender != nil {
		current.Gender = strings.TrimSpace(*patch.Gender)
	}
	if patch.Age != nil {
		current.Age = patch.Age
	}
	if patch.CountryID != nil {
		current.CountryID = patch.CountryID
	}
	if patch.CityID != nil {
		current.CityID = patch.CityID
	}
	if patch.CountryID != nil || patch.CityID != nil {
		if err := s.checkLocation(ctx, current.CountryID, current.CityID); err != nil {
			return Profile{}, err
		}
	}

	updated, err := s.repo.UpdateProfile(ctx, current)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Error("profile update failed", zap.Int("user_id", userID), zap.Error(err))
		}
		return Profile{}, err
	}
	return updated, nil
}

// checkLocation verifies that both ids exist and that the city lies in the
// country when both are set.
func (s *Service) checkLocation(ctx context.Context, countryID, cityID *int) error {
	fields := validation.Errors{}
	if countryID != nil {
		if _, err := s.locations.GetCountry(ctx, *countryID); err != nil {
			if !errors.Is(err, location.ErrNotFound) {
				return fmt.Errorf("look up country %d: %w", *countryID, err)
			}
			fields.Add("country_id", "unknown country")
		}
	}
	if cityID != nil {
		city, err := s.locations.GetCity(ctx, *cityID)
		switch {
		case errors.Is(err, location.ErrNotFound):
			fields.Add("city_id", "unknown city")
		case err != nil:
			return fmt.Errorf("look up city %d: %w", *cityID, err)
		case countryID != nil && city.CountryID != *countryID:
			fields.Add("city_id", "city is not in the selected country")
		}
	}
	return fields.Err()
}
