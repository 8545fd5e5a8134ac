// Package auth verifies the bearer tokens that identify a user for the
// favorites API.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mager/chordlegend/config"
	"go.uber.org/zap"
)

const bearerPrefix = "Bearer"

var (
	ErrDisabled     = errors.New("auth: no signing secret configured")
	ErrMissingToken = errors.New("auth: authorization required")
	ErrInvalidToken = errors.New("auth: invalid or expired token")
)

// Claims carries the user ID in the subject.
type Claims struct {
	jwt.RegisteredClaims
}

type Verifier struct {
	secret []byte
	now    func() time.Time
}

func New(secret string) *Verifier {
	return &Verifier{secret: []byte(secret), now: time.Now}
}

func ProvideVerifier(cfg config.Config, log *zap.SugaredLogger) *Verifier {
	if cfg.JWTSecret == "" {
		log.Warn("No JWT secret configured, favorites are disabled")
	}
	return New(cfg.JWTSecret)
}

var Options = ProvideVerifier

func (v *Verifier) Enabled() bool {
	return v != nil && len(v.secret) > 0
}

// Sign issues a token for userID that expires after ttl.
func (v *Verifier) Sign(userID string, ttl time.Duration) (string, error) {
	if !v.Enabled() {
		return "", ErrDisabled
	}
	now := v.now()
	claims := Claims{jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}

// Parse validates a token and returns its subject.
func (v *Verifier) Parse(tokenString string) (string, error) {
	if !v.Enabled() {
		return "", ErrDisabled
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithTimeFunc(v.now))
	if err != nil || !token.Valid {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return "", fmt.Errorf("%w: no subject", ErrInvalidToken)
	}
	return claims.Subject, nil
}

// UserID reads the bearer token of r.
func (v *Verifier) UserID(r *http.Request) (string, error) {
	if !v.Enabled() {
		return "", ErrDisabled
	}
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || scheme != bearerPrefix || strings.TrimSpace(token) == "" {
		return "", ErrMissingToken
	}
	return v.Parse(strings.TrimSpace(token))
}
