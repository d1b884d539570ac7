package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret-key-at-least-32-bytes!"

func TestGenerateAccessToken_RoundTrip(t *testing.T) {
	token, err := GenerateAccessToken("admin", testSecret, 60)
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}

	claims, err := ParseToken(token, testSecret)
	if err != nil {
		t.Fatalf("ParseToken() error = %v", err)
	}

	if claims.Subject != "admin" {
		t.Errorf("Subject = %q, want %q", claims.Subject, "admin")
	}
	if claims.Role != RoleAdmin {
		t.Errorf("Role = %q, want %q", claims.Role, RoleAdmin)
	}
	if claims.ID == "" {
		t.Error("token ID should be populated")
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl < 59*time.Minute || ttl > 61*time.Minute {
		t.Errorf("token TTL = %v, want about an hour", ttl)
	}
}

func TestParseToken_Rejections(t *testing.T) {
	t.Run("wrong secret", func(t *testing.T) {
		token, err := GenerateAccessToken("admin", testSecret, 60)
		if err != nil {
			t.Fatalf("GenerateAccessToken() error = %v", err)
		}
		if _, err := ParseToken(token, "another-secret-also-32-bytes-long!"); !errors.Is(err, ErrTokenInvalid) {
			t.Errorf("ParseToken() error = %v, want ErrTokenInvalid", err)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		claims := Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "admin",
				IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			},
			Role: RoleAdmin,
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		if err != nil {
			t.Fatalf("signing: %v", err)
		}
		if _, err := ParseToken(token, testSecret); !errors.Is(err, ErrTokenInvalid) {
			t.Errorf("ParseToken() error = %v, want ErrTokenInvalid", err)
		}
	})

	t.Run("missing subject", func(t *testing.T) {
		claims := Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
			Role: RoleAdmin,
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		if err != nil {
			t.Fatalf("signing: %v", err)
		}
		if _, err := ParseToken(token, testSecret); !errors.Is(err, ErrTokenInvalid) {
			t.Errorf("ParseToken() error = %v, want ErrTokenInvalid", err)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		if _, err := ParseToken("not.a.jwt", testSecret); !errors.Is(err, ErrTokenInvalid) {
			t.Errorf("ParseToken() error = %v, want ErrTokenInvalid", err)
		}
	})
}

func TestTicketStore(t *testing.T) {
	t.Run("issue and redeem", func(t *testing.T) {
		store := NewTicketStore()

		value, err := store.Issue("admin")
		if err != nil {
			t.Fatalf("Issue() error = %v", err)
		}
		if len(value) != 64 || strings.ContainsAny(value, "$.") {
			t.Errorf("ticket %q should be 64 hex chars", value)
		}

		subject, err := store.Redeem(value)
		if err != nil {
			t.Fatalf("Redeem() error = %v", err)
		}
		if subject != "admin" {
			t.Errorf("subject = %q, want %q", subject, "admin")
		}
	})

	t.Run("single use", func(t *testing.T) {
		store := NewTicketStore()
		value, err := store.Issue("admin")
		if err != nil {
			t.Fatalf("Issue() error = %v", err)
		}

		if _, err := store.Redeem(value); err != nil {
			t.Fatalf("first Redeem() error = %v", err)
		}
		if _, err := store.Redeem(value); !errors.Is(err, ErrTicketInvalid) {
			t.Errorf("second Redeem() error = %v, want ErrTicketInvalid", err)
		}
	})

	t.Run("unknown ticket", func(t *testing.T) {
		store := NewTicketStore()
		if _, err := store.Redeem("never-issued"); !errors.Is(err, ErrTicketInvalid) {
			t.Errorf("Redeem() error = %v, want ErrTicketInvalid", err)
		}
	})
}
