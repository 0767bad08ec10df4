// Package credentials persists the user registry and the current
// session record in a key-value store. Secrets live only in the
// registry; the session record is always the sanitized user shape.
package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/foxlist/internal/kvstore"
	"github.com/dmitrijs2005/foxlist/internal/models"
)

// Storage keys, unchanged since the first release so existing data
// stays readable.
const (
	sessionKey  = "@rotas_privadas:user"
	registryKey = "@rotas_privadas:users_db"
)

var (
	// ErrDuplicateEmail: registration with an email already present
	// in the registry.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrEmailInUse: profile update to an email held by a different
	// account.
	ErrEmailInUse = errors.New("email already in use")

	// ErrInvalidCredentials: no registry entry matches the supplied
	// email/secret pair.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNotFound: update or lookup of an absent user id.
	ErrNotFound = errors.New("user not found")
)

// UpdateFields are the optionally updated user fields. Nil means
// "leave unchanged" — the registry update merges, unlike the task
// store's wholesale rewrite.
type UpdateFields struct {
	Name     *string
	Email    *string
	Password *string
}

// Store holds registered users and the single current-session record.
type Store struct {
	kv     kvstore.Store
	hasher SecretHasher
}

// NewStore builds a Store over kv. A nil hasher defaults to
// PlainHasher, the historical storage format.
func NewStore(kv kvstore.Store, hasher SecretHasher) *Store {
	if hasher == nil {
		hasher = PlainHasher{}
	}
	return &Store{kv: kv, hasher: hasher}
}

// users loads the full registry; an absent key is an empty registry.
func (s *Store) users(ctx context.Context) ([]models.User, error) {
	data, err := s.kv.Get(ctx, registryKey)
	if err != nil {
		if errors.Is(err, kvstore.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("loading user registry: %w", err)
	}

	var users []models.User
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("parsing user registry: %w", err)
	}
	return users, nil
}

func (s *Store) saveUsers(ctx context.Context, users []models.User) error {
	data, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("encoding user registry: %w", err)
	}
	if err := s.kv.Set(ctx, registryKey, data); err != nil {
		return fmt.Errorf("saving user registry: %w", err)
	}
	return nil
}

// Register appends user to the registry. The secret passes through the
// configured hasher. Fails with ErrDuplicateEmail when the email is
// already present; the registry is left untouched.
func (s *Store) Register(ctx context.Context, user models.User) error {
	users, err := s.users(ctx)
	if err != nil {
		return err
	}

	for i := range users {
		if users[i].Email == user.Email {
			return ErrDuplicateEmail
		}
	}

	stored, err := s.hasher.Hash(user.Password)
	if err != nil {
		return fmt.Errorf("hashing secret: %w", err)
	}
	user.Password = stored

	return s.saveUsers(ctx, append(users, user))
}

// ValidateCredentials returns the sanitized user whose email and
// secret match, or ErrInvalidCredentials.
func (s *Store) ValidateCredentials(ctx context.Context, email, password string) (*models.User, error) {
	users, err := s.users(ctx)
	if err != nil {
		return nil, err
	}

	for i := range users {
		if users[i].Email != email {
			continue
		}
		if err := s.hasher.Compare(users[i].Password, password); err != nil {
			return nil, ErrInvalidCredentials
		}
		u := users[i].Sanitized()
		return &u, nil
	}
	return nil, ErrInvalidCredentials
}

// UpdateUser merges fields into the user with the given id, persists
// the registry and refreshes the session record with the updated,
// sanitized user. Fails with ErrNotFound for an absent id and
// ErrEmailInUse when the new email belongs to a different account.
func (s *Store) UpdateUser(ctx context.Context, id string, fields UpdateFields) (*models.User, error) {
	users, err := s.users(ctx)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i := range users {
		if users[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, ErrNotFound
	}

	if fields.Email != nil {
		for i := range users {
			if users[i].Email == *fields.Email && users[i].ID != id {
				return nil, ErrEmailInUse
			}
		}
		users[idx].Email = *fields.Email
	}
	if fields.Name != nil {
		users[idx].Name = *fields.Name
	}
	if fields.Password != nil {
		stored, err := s.hasher.Hash(*fields.Password)
		if err != nil {
			return nil, fmt.Errorf("hashing secret: %w", err)
		}
		users[idx].Password = stored
	}

	if err := s.saveUsers(ctx, users); err != nil {
		return nil, err
	}

	updated := users[idx].Sanitized()
	if err := s.SetSessionUser(ctx, updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteUser removes the user from the registry and clears the session
// record. Idempotent: deleting an absent id rewrites nothing but still
// clears the session, matching the historical behavior.
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	users, err := s.users(ctx)
	if err != nil {
		return err
	}

	kept := users[:0]
	for i := range users {
		if users[i].ID != id {
			kept = append(kept, users[i])
		}
	}

	if err := s.saveUsers(ctx, kept); err != nil {
		return err
	}
	return s.ClearSessionUser(ctx)
}

// SessionUser returns the current session record, or nil when no user
// is signed in.
func (s *Store) SessionUser(ctx context.Context) (*models.User, error) {
	data, err := s.kv.Get(ctx, sessionKey)
	if err != nil {
		if errors.Is(err, kvstore.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("loading session: %w", err)
	}

	var u models.User
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, fmt.Errorf("parsing session: %w", err)
	}
	return &u, nil
}

// SetSessionUser persists u as the current session record. The secret
// is stripped regardless of what the caller passes.
func (s *Store) SetSessionUser(ctx context.Context, u models.User) error {
	data, err := json.Marshal(u.Sanitized())
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	if err := s.kv.Set(ctx, sessionKey, data); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

// ClearSessionUser removes the session record. Idempotent.
func (s *Store) ClearSessionUser(ctx context.Context) error {
	if err := s.kv.Delete(ctx, sessionKey); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}

// ClearAll wipes both the registry and the session record. Debug/test
// helper.
func (s *Store) ClearAll(ctx context.Context) error {
	if err := s.kv.Delete(ctx, registryKey); err != nil {
		return fmt.Errorf("clearing registry: %w", err)
	}
	return s.ClearSessionUser(ctx)
}
