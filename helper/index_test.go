package helper

import (
	"testing"

	"laundry_manager/model"

	"github.com/golang-jwt/jwt/v5"
)

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Alice@Example.COM "); got != "alice@example.com" {
		t.Fatalf("got %q", got)
	}
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct{ in, want string }{
		{"(555) 123-4567", "5551234567"},
		{"+1 555 123 4567", "15551234567"},
		{"5551234567", "5551234567"},
	}
	for _, tt := range tests {
		if got := NormalizePhone(tt.in); got != tt.want {
			t.Errorf("NormalizePhone(%q): got %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestHashPasswordNotDoubleHashed(t *testing.T) {
	hash, err := HashPassword("secret123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !IsHashed(hash) {
		t.Fatalf("hash %q not recognized as bcrypt", hash)
	}

	again, err := HashPassword(hash)
	if err != nil {
		t.Fatalf("HashPassword on hash: %v", err)
	}
	if again != hash {
		t.Fatal("already-hashed password was hashed again")
	}

	if !CheckPasswordHash("secret123", hash) {
		t.Fatal("correct password rejected")
	}
	if CheckPasswordHash("wrong", hash) {
		t.Fatal("wrong password accepted")
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	tokenString, err := GenerateAccessToken(model.TokenClaim{UserId: 42, Role: "Staff"})
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	token, err := ParseToken(tokenString)
	if err != nil || !token.Valid {
		t.Fatalf("ParseToken: %v (valid=%v)", err, token != nil && token.Valid)
	}

	claims := token.Claims.(jwt.MapClaims)
	if uint(claims["userId"].(float64)) != 42 {
		t.Errorf("userId claim: got %v", claims["userId"])
	}
	if claims["role"] != "Staff" {
		t.Errorf("role claim: got %v", claims["role"])
	}
}

func TestParseTokenRejectsTampered(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	tokenString, err := GenerateAccessToken(model.TokenClaim{UserId: 1, Role: "Customer"})
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	t.Setenv("JWT_SECRET", "different-secret")
	if token, err := ParseToken(tokenString); err == nil && token.Valid {
		t.Fatal("token signed with another secret was accepted")
	}
}
