package admin

import (
	"crypto/subtle"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// RoleAdmin is the only back-office role.
const RoleAdmin = "admin"

// MinPasswordLength is the minimum length for a new password.
const MinPasswordLength = 8

// Domain errors
var (
	ErrEmptyEmail       = errors.New("email cannot be empty")
	ErrInvalidEmail     = errors.New("email must contain '@'")
	ErrEmptyPassword    = errors.New("password cannot be empty")
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
	ErrWrongPassword    = errors.New("incorrect password")
	ErrWrongCode        = errors.New("recovery code does not match")
	ErrNoRecoveryCode   = errors.New("no recovery code configured for this account")
)

// User is one record of the fixed admin credential set.
type User struct {
	Email        string
	Name         string
	Role         string
	PasswordHash string
	RecoveryCode string
}

// NormalizeEmail trims and lowercases an address for directory lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Validate checks if the User has valid data.
// PRE: User struct is populated
// POST: Returns nil if valid, error otherwise
func (u User) Validate() error {
	if strings.TrimSpace(u.Email) == "" {
		return ErrEmptyEmail
	}
	if !strings.Contains(u.Email, "@") {
		return ErrInvalidEmail
	}
	if u.PasswordHash == "" {
		return ErrEmptyPassword
	}
	return nil
}

// CheckPassword compares a plaintext password against the stored bcrypt hash.
// PRE: PasswordHash is a bcrypt hash
// POST: Returns nil on match, ErrWrongPassword otherwise
func (u User) CheckPassword(password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return ErrWrongPassword
	}
	return nil
}

// SetPassword validates and hashes a new password.
// PRE: none
// POST: PasswordHash replaced on success; unchanged on error
func (u *User) SetPassword(password string) error {
	if password == "" {
		return ErrEmptyPassword
	}
	if len(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

// CheckRecoveryCode compares a code against the record in constant time.
// PRE: none
// POST: Returns nil on match
func (u User) CheckRecoveryCode(code string) error {
	if u.RecoveryCode == "" {
		return ErrNoRecoveryCode
	}
	if subtle.ConstantTimeCompare([]byte(strings.TrimSpace(code)), []byte(u.RecoveryCode)) != 1 {
		return ErrWrongCode
	}
	return nil
}

// HashPassword returns the bcrypt hash of password at the default cost.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// IsBcryptHash reports whether s looks like a bcrypt hash rather than plaintext.
func IsBcryptHash(s string) bool {
	_, err := bcrypt.Cost([]byte(s))
	return err == nil
}
