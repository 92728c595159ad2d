package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims carried by a session token. UUID must match the user's current
// session value for the token to be accepted.
type Claims struct {
	Username string
	UUID     string
}

type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (i *TokenIssuer) TTL() time.Duration {
	return i.ttl
}

// NewToken signs an HS256 JWT with username, uuid, iat and exp claims.
func (i *TokenIssuer) NewToken(c Claims) (string, error) {
	now := i.now().UTC()
	claims := jwt.MapClaims{
		"username": c.Username,
		"uuid":     c.UUID,
		"iat":      now.Unix(),
		"exp":      now.Add(i.ttl).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ParseToken validates the signature and expiry of raw and returns its claims.
// Only HMAC-signed tokens are accepted.
func (i *TokenIssuer) ParseToken(raw string) (Claims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(i.now), jwt.WithIssuedAt())
	if err != nil || !tok.Valid {
		return Claims{}, ErrInvalidToken
	}

	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalidToken
	}
	username, _ := mc["username"].(string)
	id, _ := mc["uuid"].(string)
	if username == "" || id == "" {
		return Claims{}, ErrInvalidToken
	}
	return Claims{Username: username, UUID: id}, nil
}
