package auth

import (
	"testing"
	"time"

	"promptdesk/internal/domain/models"
)

func TestTokenRoundTrip(t *testing.T) {
	manager := NewTokenManager("test-secret", time.Hour)
	user := &models.User{ID: "user-1", Role: models.RoleSuperAdmin}

	token, err := manager.Issue(user)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	subject, err := manager.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if subject != "user-1" {
		t.Errorf("subject = %q, want %q", subject, "user-1")
	}
}

func TestVerifyRejectsBadTokens(t *testing.T) {
	manager := NewTokenManager("test-secret", time.Hour)
	user := &models.User{ID: "user-1", Role: models.RoleUser}

	valid, err := manager.Issue(user)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	expired := NewTokenManager("test-secret", -time.Minute)
	expiredToken, err := expired.Issue(user)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"empty", ""},
		{"tampered", valid + "x"},
		{"expired", expiredToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := manager.Verify(tt.token); err == nil {
				t.Error("Verify() accepted an invalid token")
			}
		})
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer := NewTokenManager("secret-a", time.Hour)
	verifier := NewTokenManager("secret-b", time.Hour)

	token, err := issuer.Issue(&models.User{ID: "user-1"})
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if _, err := verifier.Verify(token); err == nil {
		t.Error("Verify() accepted a token signed with another secret")
	}
}
