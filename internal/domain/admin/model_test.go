package admin_test

import (
	"errors"
	"testing"

	"ascend/internal/domain/admin"
)

// TestUser_Validate tests validation of User.
func TestUser_Validate(t *testing.T) {
	tests := []struct {
		name    string
		user    admin.User
		wantErr error
	}{
		{name: "valid", user: admin.User{Email: "ada@ascend.example", PasswordHash: "$2a$10$x"}},
		{name: "empty email", user: admin.User{Email: " ", PasswordHash: "$2a$10$x"}, wantErr: admin.ErrEmptyEmail},
		{name: "no at sign", user: admin.User{Email: "ada", PasswordHash: "$2a$10$x"}, wantErr: admin.ErrInvalidEmail},
		{name: "no hash", user: admin.User{Email: "ada@ascend.example"}, wantErr: admin.ErrEmptyPassword},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.user.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestUser_SetPassword verifies the hash replaces the old one and checks out.
func TestUser_SetPassword(t *testing.T) {
	u := admin.User{Email: "ada@ascend.example", PasswordHash: "old"}

	if err := u.SetPassword("short"); !errors.Is(err, admin.ErrPasswordTooShort) {
		t.Fatalf("SetPassword(short) = %v, want ErrPasswordTooShort", err)
	}
	if u.PasswordHash != "old" {
		t.Fatalf("hash changed on error")
	}
	if err := u.SetPassword(""); !errors.Is(err, admin.ErrEmptyPassword) {
		t.Fatalf("SetPassword(empty) = %v, want ErrEmptyPassword", err)
	}

	if err := u.SetPassword("correct-horse"); err != nil {
		t.Fatalf("SetPassword: %v", err)
	}
	if !admin.IsBcryptHash(u.PasswordHash) {
		t.Errorf("PasswordHash %q is not bcrypt", u.PasswordHash)
	}
	if err := u.CheckPassword("correct-horse"); err != nil {
		t.Errorf("CheckPassword(right) = %v", err)
	}
	if err := u.CheckPassword("battery-staple"); !errors.Is(err, admin.ErrWrongPassword) {
		t.Errorf("CheckPassword(wrong) = %v, want ErrWrongPassword", err)
	}
}

// TestUser_CheckRecoveryCode verifies codes are compared after trimming.
func TestUser_CheckRecoveryCode(t *testing.T) {
	u := admin.User{RecoveryCode: "kowhai-2030"}
	if err := u.CheckRecoveryCode(" kowhai-2030\n"); err != nil {
		t.Errorf("matching code = %v", err)
	}
	if err := u.CheckRecoveryCode("kowhai-2031"); !errors.Is(err, admin.ErrWrongCode) {
		t.Errorf("wrong code = %v, want ErrWrongCode", err)
	}
	if err := (admin.User{}).CheckRecoveryCode("anything"); !errors.Is(err, admin.ErrNoRecoveryCode) {
		t.Errorf("no code configured = %v, want ErrNoRecoveryCode", err)
	}
}

// TestIsBcryptHash verifies plaintext is not mistaken for a hash.
func TestIsBcryptHash(t *testing.T) {
	if admin.IsBcryptHash("correct-horse") {
		t.Error("plaintext reported as bcrypt")
	}
	if admin.NormalizeEmail("  Ada@Ascend.EXAMPLE ") != "ada@ascend.example" {
		t.Error("NormalizeEmail did not trim and lowercase")
	}
}
