package services

import (
	"context"
	"testing"

	"github.com/beaconhq/beacon/internal/pkg/logger"
	"github.com/beaconhq/beacon/internal/testutil"
)

func TestUserService_Register(t *testing.T) {
	repo := testutil.NewMockUserRepository()
	svc := NewUserService(repo, logger.NewNop())
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  bool
	}{
		{name: "valid registration", email: "oncall@example.com", password: "correct horse", wantErr: false},
		{name: "missing email", email: "", password: "correct horse", wantErr: true},
		{name: "short password", email: "short@example.com", password: "abc", wantErr: true},
		{name: "duplicate email", email: "oncall@example.com", password: "correct horse", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := svc.Register(ctx, tt.email, "oncall", tt.password)
			if (err != nil) != tt.wantErr {
				t.Errorf("Register() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr {
				if u.ID == 0 {
					t.Error("Register() did not set user ID")
				}
				if u.PasswordHash == tt.password {
					t.Error("Register() stored the plaintext password")
				}
			}
		})
	}
}

func TestUserService_Authenticate(t *testing.T) {
	repo := testutil.NewMockUserRepository()
	svc := NewUserService(repo, logger.NewNop())
	ctx := context.Background()

	if _, err := svc.Register(ctx, "oncall@example.com", "oncall", "correct horse"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if _, err := svc.Authenticate(ctx, "oncall@example.com", "correct horse"); err != nil {
		t.Errorf("Authenticate() with valid credentials error = %v", err)
	}

	if _, err := svc.Authenticate(ctx, "oncall@example.com", "wrong"); err == nil {
		t.Error("Authenticate() with wrong password expected error")
	}

	// Unknown emails get the same generic failure as bad passwords.
	if _, err := svc.Authenticate(ctx, "nobody@example.com", "correct horse"); err == nil {
		t.Error("Authenticate() with unknown email expected error")
	}
}
