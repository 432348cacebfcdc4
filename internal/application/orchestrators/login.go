package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	"ascend/internal/domain/admin"
)

// AdminStoreForLogin defines the store interface needed by Login.
type AdminStoreForLogin interface {
	GetByEmail(ctx context.Context, email string) (admin.User, error)
}

// LoginInput carries input for the login orchestrator.
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult carries the result of a successful login.
type LoginResult struct {
	Email string
	Name  string
	Role  string
}

// LoginDeps holds dependencies for Login.
type LoginDeps struct {
	AdminStore AdminStoreForLogin
}

var ErrInvalidCredentials = errors.New("invalid email or password")

// ExecuteLogin validates credentials against the admin set and returns the identity for session creation.
// PRE: none
// POST: Returns the admin identity on success; ErrInvalidCredentials for any pair not in the set
func ExecuteLogin(ctx context.Context, input LoginInput, deps LoginDeps) (LoginResult, error) {
	email := admin.NormalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return LoginResult{}, ErrInvalidCredentials
	}

	user, err := deps.AdminStore.GetByEmail(ctx, email)
	if err != nil {
		slog.Info("auth_event", "event", "login_failed", "email", email, "reason", "not_found")
		return LoginResult{}, ErrInvalidCredentials
	}

	if err := user.CheckPassword(input.Password); err != nil {
		slog.Info("auth_event", "event", "login_failed", "email", email, "reason", "wrong_password")
		return LoginResult{}, ErrInvalidCredentials
	}

	slog.Info("auth_event", "event", "login_success", "email", email, "role", user.Role)

	return LoginResult{
		Email: user.Email,
		Name:  user.Name,
		Role:  user.Role,
	}, nil
}
