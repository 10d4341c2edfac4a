package utils

import (
	"time" // Time for token expiration

	"github.com/golang-jwt/jwt/v5" // JWT library
)

// Token audiences
const (
	AudienceUser  = "user"
	AudienceAdmin = "admin"
)

// JWT Claims
type Claims struct {
	UserID               uint   `json:"user_id"`  // Custom claim for the account ID
	Username             string `json:"username"` // Custom claim for the account name
	Audience             string `json:"aud_kind"` // user or admin token
	jwt.RegisteredClaims        // Standard JWT claims
}

// GenerateJWT creates a signed token for a user or admin account
func GenerateJWT(id uint, username, audience, secret string) (string, error) {
	claims := Claims{
		UserID:   id,
		Username: username,
		Audience: audience,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)), // Token expires in 24 hours
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims) // Create token with claims
	return token.SignedString([]byte(secret))                  // Sign the token with the secret
}

// ParseJWT parses and validates a JWT token string
func ParseJWT(tokenStr, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		return []byte(secret), nil // Secret key for validation
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil // Return claims if valid
	}
	return nil, jwt.ErrSignatureInvalid
}
