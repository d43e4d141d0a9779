package middleware

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestGenerateTokenClaims(t *testing.T) {
	tokenString, err := GenerateToken("u-123", "teknisi1", "Andi", "teknisi")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return jwtKey, nil
	})
	if err != nil {
		t.Fatalf("ParseWithClaims: %v", err)
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		t.Fatal("token did not parse into valid Claims")
	}

	if claims.UserID != "u-123" {
		t.Errorf("UserID = %q, expected u-123", claims.UserID)
	}
	if claims.Username != "teknisi1" {
		t.Errorf("Username = %q, expected teknisi1", claims.Username)
	}
	if claims.Role != "teknisi" {
		t.Errorf("Role = %q, expected teknisi", claims.Role)
	}
}

func TestTokenExpiresAfterSessionLifetime(t *testing.T) {
	if SessionLifetime != 6*time.Hour {
		t.Fatalf("SessionLifetime = %v, expected 6h", SessionLifetime)
	}

	tokenString, err := GenerateToken("u-123", "teknisi1", "Andi", "teknisi")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return jwtKey, nil
	})
	if err != nil {
		t.Fatalf("ParseWithClaims: %v", err)
	}
	claims := parsed.Claims.(*Claims)

	lifetime := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
	if lifetime != SessionLifetime {
		t.Errorf("token lifetime = %v, expected %v", lifetime, SessionLifetime)
	}

	// Expiry sits in the future relative to now, within a minute of slack.
	remaining := time.Until(claims.ExpiresAt.Time)
	if remaining < SessionLifetime-time.Minute || remaining > SessionLifetime {
		t.Errorf("remaining validity = %v, expected about %v", remaining, SessionLifetime)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	claims := Claims{
		UserID:   "u-123",
		Username: "teknisi1",
		Role:     "teknisi",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-SessionLifetime)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(jwtKey)
	if err != nil {
		t.Fatalf("SignedString: %v", err)
	}

	_, err = jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return jwtKey, nil
	})
	if err == nil {
		t.Error("expected parse of expired token to fail")
	}
}
