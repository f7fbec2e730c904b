package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestNewAccessTokenClaims(t *testing.T) {
	tok, err := NewAccessToken("unit-secret", 42, "ana@vitta.fit", "funcionario", 8*time.Hour)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	parsed, err := jwt.Parse(tok.Token, func(tk *jwt.Token) (interface{}, error) {
		return []byte("unit-secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("issued token did not verify: %v", err)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if got := claims["sub"].(float64); uint64(got) != 42 {
		t.Fatalf("sub = %v, want 42", got)
	}
	if claims["email"] != "ana@vitta.fit" || claims["role"] != "funcionario" {
		t.Fatalf("unexpected claims: %v", claims)
	}
	if tok.Exp.Before(time.Now().Add(7 * time.Hour)) {
		t.Fatalf("expiry %v closer than requested TTL", tok.Exp)
	}
}

func TestRandomDigits(t *testing.T) {
	code, err := RandomDigits(6)
	if err != nil {
		t.Fatalf("RandomDigits: %v", err)
	}
	if len(code) != 6 {
		t.Fatalf("code length = %d, want 6", len(code))
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			t.Fatalf("code %q contains non-digit", code)
		}
	}
}

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3nh4-forte", 4)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !VerifyPassword(hash, "s3nh4-forte") {
		t.Fatalf("correct password rejected")
	}
	if VerifyPassword(hash, "errada") {
		t.Fatalf("wrong password accepted")
	}
}
