package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims defines the JWT claims the identity provider embeds in dashboard tokens.
type Claims struct {
	UserID         string `json:"sub"`
	OrganizationID string `json:"org_id"`
	StaffID        string `json:"staff_id"`
	Role           Role   `json:"role"`
	jwt.RegisteredClaims
}

// Actor converts the claims into the request actor.
func (c *Claims) Actor() Actor {
	return Actor{
		UserID:         c.UserID,
		OrganizationID: c.OrganizationID,
		StaffID:        c.StaffID,
		Role:           c.Role,
	}
}

// JWTManager manages JWT access token creation and validation.
type JWTManager struct {
	secret []byte
	ttl    time.Duration
}

// NewJWTManager creates a new JWT manager.
func NewJWTManager(secret string, ttl time.Duration) *JWTManager {
	return &JWTManager{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// GenerateAccessToken creates a signed JWT for the given actor.
func (m *JWTManager) GenerateAccessToken(a Actor) (string, error) {
	now := time.Now().UTC()

	claims := &Claims{
		UserID:         a.UserID,
		OrganizationID: a.OrganizationID,
		StaffID:        a.StaffID,
		Role:           a.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   a.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign jwt: %w", err)
	}

	return signed, nil
}

// ParseAndValidate validates a JWT and returns the parsed claims.
func (m *JWTManager) ParseAndValidate(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		// Ensure token is signed using HS256
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %T", t.Method)
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse jwt: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid jwt token")
	}
	if claims.UserID == "" || claims.OrganizationID == "" || !claims.Role.Valid() {
		return nil, errors.New("jwt is missing organization claims")
	}

	return claims, nil
}
