// Package auth holds the token and password primitives of the server:
// HS256 session tokens and bcrypt credential hashing.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tarek99samy/AuthBridge-backend/internal/common"
)

// Claims is the session token claim set: the registered claims plus the
// account's display name and email.
type Claims struct {
	jwt.RegisteredClaims
	Name  string `json:"name"`
	Email string `json:"email"`
}

// GenerateToken signs a session token for the given identity. A zero
// validityDuration produces a token without an expiry claim; it stays valid
// until the signing secret changes.
func GenerateToken(name, email string, secretKey []byte, validityDuration time.Duration) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
		Name:  name,
		Email: email,
	}
	if validityDuration > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(validityDuration))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken verifies the signature and expiry of a session token and
// returns its claims. Any verification failure yields ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, common.ErrInvalidToken
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
