package services

import (
	"errors"
	"fmt"
)

type User struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Age       *int   `json:"age"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// UserUpdate lists the fields to change; nil fields are left as they are.
type UserUpdate struct {
	Name  *string
	Email *string
	Age   *int
}

func (u UserUpdate) empty() bool {
	return u.Name == nil && u.Email == nil && u.Age == nil
}

// UserStore keeps users in memory. Email addresses are unique.
type UserStore struct {
	users *table[User]
}

func NewUserStore() *UserStore {
	return &UserStore{users: newTable[User]()}
}

func (s *UserStore) Create(name, email string, age *int) (User, error) {
	if name == "" || email == "" {
		return User{}, fmt.Errorf("%w: name and email are required", ErrInvalid)
	}

	return s.users.insert(func(id int, users []User) (User, error) {
		if err := checkEmail(users, id, email); err != nil {
			return User{}, err
		}
		ts := timestamp()
		return User{
			ID:        id,
			Name:      name,
			Email:     email,
			Age:       age,
			CreatedAt: ts,
			UpdatedAt: ts,
		}, nil
	})
}

func (s *UserStore) Get(id int) (User, error) {
	u, ok := s.users.get(id)
	if !ok {
		return User{}, userNotFound(id)
	}
	return u, nil
}

// Update applies the non-nil fields of change. A change with no fields
// returns the user untouched.
func (s *UserStore) Update(id int, change UserUpdate) (User, error) {
	if change.Name != nil && *change.Name == "" {
		return User{}, fmt.Errorf("%w: name must not be empty", ErrInvalid)
	}
	if change.Email != nil && *change.Email == "" {
		return User{}, fmt.Errorf("%w: email must not be empty", ErrInvalid)
	}

	u, err := s.users.update(id, func(u User, users []User) (User, error) {
		if change.empty() {
			return u, nil
		}
		if change.Email != nil {
			if err := checkEmail(users, id, *change.Email); err != nil {
				return User{}, err
			}
			u.Email = *change.Email
		}
		if change.Name != nil {
			u.Name = *change.Name
		}
		if change.Age != nil {
			u.Age = change.Age
		}
		u.UpdatedAt = timestamp()
		return u, nil
	})
	if errors.Is(err, ErrNotFound) {
		return User{}, userNotFound(id)
	}
	return u, err
}

func (s *UserStore) Delete(id int) error {
	if !s.users.delete(id) {
		return userNotFound(id)
	}
	return nil
}

// List returns all users in creation order.
func (s *UserStore) List() []User {
	return s.users.list()
}

func checkEmail(users []User, id int, email string) error {
	for _, u := range users {
		if u.ID != id && u.Email == email {
			return fmt.Errorf("%w: user with email %s", ErrConflict, email)
		}
	}
	return nil
}

func userNotFound(id int) error {
	return fmt.Errorf("user with id %d: %w", id, ErrNotFound)
}

// Page returns one window of the user listing.
func (s *UserStore) Page(limit, offset int) Page[User] {
	return Paginate(s.users.list(), limit, offset)
}
