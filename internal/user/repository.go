package user

import (
	"context"
	"errors"
	"strings"
	"sync"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailExists        = errors.New("email already exists")
	ErrUsernameExists     = errors.New("username already exists")
)

type Repository interface {
	GetByID(ctx context.Context, id int) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	// Create stores the user together with an empty detail row.
	Create(ctx context.Context, user User) (User, error)
	GetProfile(ctx context.Context, id int) (Profile, error)
	UpdateProfile(ctx context.Context, profile Profile) (Profile, error)
}

type InMemoryRepository struct {
	mu      sync.RWMutex
	users   []User
	details map[int]Detail
	nextID  int
}

func NewInMemoryRepository(seed []User) *InMemoryRepository {
	repo := &InMemoryRepository{
		users:   make([]User, 0, len(seed)),
		details: make(map[int]Detail, len(seed)),
		nextID:  1,
	}

	maxID := 0
	for _, user := range seed {
		repo.users = append(repo.users, user)
		repo.details[user.ID] = Detail{UserID: user.ID}
		if user.ID > maxID {
			maxID = user.ID
		}
	}

	repo.nextID = maxID + 1
	return repo
}

func (r *InMemoryRepository) find(match func(User) bool) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if match(user) {
			return user, nil
		}
	}
	return User{}, ErrNotFound
}

func (r *InMemoryRepository) GetByID(_ context.Context, id int) (User, error) {
	return r.find(func(u User) bool { return u.ID == id })
}

func (r *InMemoryRepository) GetByEmail(_ context.Context, email string) (User, error) {
	return r.find(func(u User) bool { return strings.EqualFold(u.Email, email) })
}

func (r *InMemoryRepository) GetByUsername(_ context.Context, username string) (User, error) {
	return r.find(func(u User) bool { return u.Username == username })
}

func (r *InMemoryRepository) Create(_ context.Context, user User) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return User{}, ErrEmailExists
		}
		if existing.Username == user.Username {
			return User{}, ErrUsernameExists
		}
	}

	user.ID = r.nextID
	r.nextID++
	r.users = append(r.users, user)
	r.details[user.ID] = Detail{UserID: user.ID}
	return user, nil
}

func (r *InMemoryRepository) GetProfile(ctx context.Context, id int) (Profile, error) {
	user, err := r.GetByID(ctx, id)
	if err != nil {
		return Profile{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	d := r.details[id]
	return Profile{
		ID:        user.ID,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		Gender:    d.Gender,
		Age:       d.Age,
		CountryID: d.CountryID,
		CityID:    d.CityID,
	}, nil
}

func (r *InMemoryRepository) UpdateProfile(ctx context.Context, p Profile) (Profile, error) {
	r.mu.Lock()
	found := false
	for i, user := range r.users {
		if user.ID == p.ID {
			user.FirstName = p.FirstName
			user.LastName = p.LastName
			r.users[i] = user
			found = true
			break
		}
	}
	if found {
		r.details[p.ID] = Detail{UserID: p.ID, Gender: p.Gender, Age: p.Age, CountryID: p.CountryID, CityID: p.CityID}
	}
	r.mu.Unlock()

	if !found {
		return Profile{}, ErrNotFound
	}
	return r.GetProfile(ctx, p.ID)
}
