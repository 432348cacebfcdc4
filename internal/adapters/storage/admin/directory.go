package admin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	domain "ascend/internal/domain/admin"
)

// ErrNotFound is returned when no admin has the given email.
var ErrNotFound = errors.New("admin user not found")

// Directory is the fixed admin credential set held in memory.
// Password resets live only as long as the process.
type Directory struct {
	mu    sync.RWMutex
	users map[string]domain.User
}

// Compile-time check that *Directory satisfies Store.
var _ Store = (*Directory)(nil)

// NewDirectory builds a directory from validated users.
// PRE: every user has a normalized, unique email
// POST: Returns a directory keyed by email
func NewDirectory(users ...domain.User) *Directory {
	d := &Directory{users: make(map[string]domain.User, len(users))}
	for _, u := range users {
		d.users[domain.NormalizeEmail(u.Email)] = u
	}
	return d
}

// configEntry is one record of the ASCEND_ADMIN_USERS JSON array.
type configEntry struct {
	Email        string `json:"email"`
	Name         string `json:"name"`
	PasswordHash string `json:"password_hash"`
	Password     string `json:"password"`
	RecoveryCode string `json:"recovery_code"`
}

// ParseDirectory reads the admin set from JSON. Plaintext "password" entries are
// hashed at load and are meant for development only.
// PRE: raw is a JSON array (empty input yields an empty directory)
// POST: Returns a directory of validated users, or the first invalid entry's error
func ParseDirectory(raw []byte) (*Directory, error) {
	if len(raw) == 0 {
		return NewDirectory(), nil
	}
	var entries []configEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse admin users: %w", err)
	}
	users := make([]domain.User, 0, len(entries))
	seen := make(map[string]bool, len(entries))
	for i, e := range entries {
		u := domain.User{
			Email:        domain.NormalizeEmail(e.Email),
			Name:         e.Name,
			Role:         domain.RoleAdmin,
			PasswordHash: e.PasswordHash,
			RecoveryCode: e.RecoveryCode,
		}
		if u.PasswordHash == "" && e.Password != "" {
			hash, err := domain.HashPassword(e.Password)
			if err != nil {
				return nil, fmt.Errorf("admin user %d: %w", i, err)
			}
			u.PasswordHash = hash
		}
		if u.PasswordHash != "" && !domain.IsBcryptHash(u.PasswordHash) {
			return nil, fmt.Errorf("admin user %d: password_hash is not a bcrypt hash", i)
		}
		if err := u.Validate(); err != nil {
			return nil, fmt.Errorf("admin user %d: %w", i, err)
		}
		if seen[u.Email] {
			return nil, fmt.Errorf("admin user %d: duplicate email %s", i, u.Email)
		}
		seen[u.Email] = true
		users = append(users, u)
	}
	return NewDirectory(users...), nil
}

// GetByEmail looks up an admin by address.
// PRE: none
// POST: Returns the user or ErrNotFound
func (d *Directory) GetByEmail(_ context.Context, email string) (domain.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	u, ok := d.users[domain.NormalizeEmail(email)]
	if !ok {
		return domain.User{}, ErrNotFound
	}
	return u, nil
}

// Save replaces an existing admin record.
// PRE: u.Email belongs to the directory
// POST: Record replaced, or ErrNotFound when the email is unknown
func (d *Directory) Save(_ context.Context, u domain.User) error {
	key := domain.NormalizeEmail(u.Email)
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.users[key]; !ok {
		return ErrNotFound
	}
	d.users[key] = u
	return nil
}

// List returns every admin sorted by email.
func (d *Directory) List(_ context.Context) ([]domain.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]domain.User, 0, len(d.users))
	for _, u := range d.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

// Len returns the number of admins.
func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.users)
}
