package security_test

import (
	"testing"
	"time"

	"github.com/fieldserve/appointments/internal/security"
	"golang.org/x/crypto/bcrypt"
)

func TestTokenManager_GenerateAndValidate(t *testing.T) {
	manager := security.NewTokenManager("test-secret-key-with-32-chars!!", 8*time.Hour)

	token, expiresAt, err := manager.GenerateToken()
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	if token == "" {
		t.Error("token is empty")
	}
	if time.Until(expiresAt) <= 0 {
		t.Error("token already expired")
	}

	claims, err := manager.ValidateToken(token)
	if err != nil {
		t.Fatalf("failed to validate token: %v", err)
	}
	if claims.Subject != "technician" {
		t.Errorf("subject mismatch: got %q", claims.Subject)
	}
}

func TestTokenManager_RejectsTampered(t *testing.T) {
	manager := security.NewTokenManager("test-secret-key-with-32-chars!!", 8*time.Hour)
	other := security.NewTokenManager("completely-different-secret-key", 8*time.Hour)

	token, _, err := other.GenerateToken()
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	if _, err := manager.ValidateToken(token); err == nil {
		t.Error("expected validation to fail for token signed with another secret")
	}
}

func TestTokenManager_RandomSecretPerProcess(t *testing.T) {
	a := security.NewTokenManager("", time.Hour)
	b := security.NewTokenManager("", time.Hour)

	token, _, err := a.GenerateToken()
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	if _, err := b.ValidateToken(token); err == nil {
		t.Error("expected tokens not to transfer between random-secret managers")
	}
}

func TestCheckDashboardPassword(t *testing.T) {
	if !security.CheckDashboardPassword("admin123", "admin123", "") {
		t.Error("plain match should pass")
	}
	if security.CheckDashboardPassword("wrong", "admin123", "") {
		t.Error("plain mismatch should fail")
	}
	if security.CheckDashboardPassword("anything", "", "") {
		t.Error("no configured password should never pass")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	if !security.CheckDashboardPassword("s3cret", "", string(hash)) {
		t.Error("bcrypt match should pass")
	}
	if security.CheckDashboardPassword("nope", "ignored-when-hash-set", string(hash)) {
		t.Error("bcrypt mismatch should fail even with plain fallback present")
	}
}
