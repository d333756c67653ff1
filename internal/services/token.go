package services

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"inkwell/internal/models"
)

// TokenService issues and parses the HS256 access tokens stored in the
// session registry.
type TokenService struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
}

// Claims is the decoded payload of an access token.
type Claims struct {
	UserID string
	Role   models.Role
}

// Create signs a new access token for the user.
func (t TokenService) Create(userID string, role models.Role) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"iss":  t.Issuer,
		"sub":  userID,
		"role": string(role),
		"iat":  now.Unix(),
		"exp":  now.Add(t.TTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.Secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies the token signature and expiry and returns its claims.
func (t TokenService) Parse(tokenStr string) (*Claims, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", token.Method.Alg())
		}
		return t.Secret, nil
	}, jwt.WithIssuer(t.Issuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	sub, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	if sub == "" {
		return nil, fmt.Errorf("parse token: missing subject")
	}
	return &Claims{UserID: sub, Role: models.Role(role)}, nil
}

// TTLUntilExpiry returns how long the token remains valid, used to align
// the session registry TTL with the token's exp claim. Falls back to the
// configured default when the claim cannot be read.
func (t TokenService) TTLUntilExpiry(tokenStr string) time.Duration {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return t.Secret, nil
	}, jwt.WithoutClaimsValidation())
	if err != nil {
		return t.TTL
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return t.TTL
	}

	remaining := time.Until(exp.Time)
	if remaining < 0 {
		return 0
	}
	return remaining
}
