package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	"ascend/internal/domain/admin"
)

// AdminStoreForResetPassword defines the store interface needed by ResetPassword.
type AdminStoreForResetPassword interface {
	GetByEmail(ctx context.Context, email string) (admin.User, error)
	Save(ctx context.Context, u admin.User) error
}

// ResetPasswordInput carries input for the recovery-code reset.
type ResetPasswordInput struct {
	Email       string
	Code        string
	NewPassword string
}

// ResetPasswordDeps holds dependencies for ResetPassword.
type ResetPasswordDeps struct {
	AdminStore AdminStoreForResetPassword
}

var ErrInvalidRecoveryCode = errors.New("invalid email or recovery code")

// ExecuteResetPassword replaces an admin's password when the recovery code matches.
// PRE: none
// POST: Password updated in the directory, or an error with the record unchanged
// INVARIANT: An unknown email and a wrong code are indistinguishable to the caller
func ExecuteResetPassword(ctx context.Context, input ResetPasswordInput, deps ResetPasswordDeps) error {
	email := admin.NormalizeEmail(input.Email)
	if email == "" || input.Code == "" {
		return ErrInvalidRecoveryCode
	}

	user, err := deps.AdminStore.GetByEmail(ctx, email)
	if err != nil {
		slog.Info("auth_event", "event", "password_reset_failed", "email", email, "reason", "not_found")
		return ErrInvalidRecoveryCode
	}

	if err := user.CheckRecoveryCode(input.Code); err != nil {
		slog.Info("auth_event", "event", "password_reset_failed", "email", email, "reason", "wrong_code")
		return ErrInvalidRecoveryCode
	}

	// Validates length and hashes
	if err := user.SetPassword(input.NewPassword); err != nil {
		return err
	}

	if err := deps.AdminStore.Save(ctx, user); err != nil {
		return err
	}

	slog.Info("auth_event", "event", "password_reset", "email", email)
	return nil
}
