package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestAdminTokenRoundTrip(t *testing.T) {
	svc := NewTokenService("test-secret")

	token, err := svc.IssueAdminToken("admin-1", "owner@example.com")
	if err != nil {
		t.Fatal(err)
	}

	subject, err := svc.VerifyAdminToken(token)
	if err != nil {
		t.Fatalf("VerifyAdminToken: %v", err)
	}
	if subject != "admin-1" {
		t.Errorf("subject = %q, want %q", subject, "admin-1")
	}
}

func TestAdminTokenWrongSecret(t *testing.T) {
	token, err := NewTokenService("secret-a").IssueAdminToken("admin-1", "owner@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewTokenService("secret-b").VerifyAdminToken(token); err == nil {
		t.Fatal("token signed with another secret was accepted")
	}
}

func TestAdminTokenGarbage(t *testing.T) {
	svc := NewTokenService("test-secret")
	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := svc.VerifyAdminToken(token); err == nil {
			t.Errorf("VerifyAdminToken(%q) accepted", token)
		}
	}
}

func TestAdminTokenRequiresAdminClaim(t *testing.T) {
	secret := "test-secret"

	// A valid signature without the adm claim must be rejected.
	plain := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "someone",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	token, err := plain.SignedString([]byte(secret))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := NewTokenService(secret).VerifyAdminToken(token); err == nil {
		t.Fatal("token without admin claim was accepted")
	}
}

func TestAdminTokenExpired(t *testing.T) {
	secret := "test-secret"
	claims := adminClaims{
		Admin: true,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "admin-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewTokenService(secret).VerifyAdminToken(token); err == nil {
		t.Fatal("expired token was accepted")
	}
}
