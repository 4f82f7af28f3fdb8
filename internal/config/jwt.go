package config

import (
	"crypto/rand"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid session token")

// SessionClaims bind the bearer of a token to one game session.
type SessionClaims struct {
	SessionID string `json:"session_id"`
	jwt.RegisteredClaims
}

type Tokens struct {
	secret        []byte
	signingMethod jwt.SigningMethod
	tokenLifetime time.Duration
}

func NewTokens(secret []byte, lifetime time.Duration) *Tokens {
	return &Tokens{
		secret:        secret,
		signingMethod: jwt.SigningMethodHS256,
		tokenLifetime: lifetime,
	}
}

func loadSecret(c JwtConfig) ([]byte, error) {
	if c.Secret != "" {
		return []byte(c.Secret), nil
	}
	if c.SecretPath == "" {
		return nil, nil
	}
	b, err := os.ReadFile(c.SecretPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read JWT secret: %w", err)
	}
	return []byte(strings.TrimSpace(string(b))), nil
}

// NewTokensFromConfig loads the signing secret. Outside production a missing
// secret is replaced by a random one, so tokens do not survive a restart.
func NewTokensFromConfig(c *Config) (*Tokens, error) {
	secret, err := loadSecret(c.Jwt)
	if err != nil {
		return nil, err
	}
	if len(secret) == 0 {
		if c.Production() {
			return nil, errors.New("no JWT secret configured")
		}
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, err
		}
	}
	return NewTokens(secret, c.Jwt.TokenLifetime.Duration), nil
}

func (t *Tokens) Sign(id uuid.UUID) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		SessionID: id.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if t.tokenLifetime > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(t.tokenLifetime))
	}
	return jwt.NewWithClaims(t.signingMethod, claims).SignedString(t.secret)
}

// Parse checks the token signature and returns the session it was issued
// for.
func (t *Tokens) Parse(tokenString string) (uuid.UUID, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&SessionClaims{},
		func(*jwt.Token) (interface{}, error) {
			return t.secret, nil
		},
		jwt.WithValidMethods([]string{t.signingMethod.Alg()}),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(*SessionClaims)
	if !ok {
		return uuid.Nil, fmt.Errorf("%w: malformed claims", ErrInvalidToken)
	}
	id, err := uuid.Parse(claims.SessionID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	return id, nil
}
