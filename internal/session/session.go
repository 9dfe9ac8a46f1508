// Package session holds the ledger authorization state of one run.
//
// A Session is a plain value. Every step that changes it returns the new
// value, so two runs never share or overwrite each other's token.
package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrUnauthenticated = errors.New("session: not authorized")
	ErrExpired         = errors.New("session: token expired")
	ErrRevoked         = errors.New("session: token revoked")
)

type State int

const (
	StateUnauthenticated State = iota
	StateAuthorized
	StateExpired
	StateRevoked
)

func (s State) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthorized:
		return "authorized"
	case StateExpired:
		return "expired"
	case StateRevoked:
		return "revoked"
	}

	return fmt.Sprintf("State(%d)", int(s))
}

type Session struct {
	token     string
	expiresAt time.Time // zero when the token carries no expiry
	revoked   bool
}

// New returns an unauthenticated session.
func New() Session {
	return Session{}
}

// Authorize returns a session holding token. Access tokens issued by the
// OAuth flow are JWTs and their exp claim is honoured; personal access tokens
// are opaque and never expire on our side.
func (s Session) Authorize(token string) (Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return New(), ErrUnauthenticated
	}

	out := Session{token: token}

	exp, err := expiry(token)
	if err != nil {
		return New(), fmt.Errorf("reading token expiry: %w", err)
	}

	out.expiresAt = exp

	return out, nil
}

// WithExpiry returns a copy expiring at t, for tokens whose lifetime is
// reported next to the token rather than inside it.
func (s Session) WithExpiry(t time.Time) Session {
	s.expiresAt = t
	return s
}

// Revoke ends the session. The token is forgotten.
func (s Session) Revoke() Session {
	return Session{revoked: true}
}

func (s Session) State(now time.Time) State {
	switch {
	case s.revoked:
		return StateRevoked
	case s.token == "":
		return StateUnauthenticated
	case !s.expiresAt.IsZero() && !now.Before(s.expiresAt):
		return StateExpired
	}

	return StateAuthorized
}

func (s Session) ExpiresAt() time.Time {
	return s.expiresAt
}

// Token returns the bearer token if the session is usable at now.
func (s Session) Token(now time.Time) (string, error) {
	switch s.State(now) {
	case StateRevoked:
		return "", ErrRevoked
	case StateUnauthenticated:
		return "", ErrUnauthenticated
	case StateExpired:
		return "", ErrExpired
	}

	return s.token, nil
}

// expiry reads exp from a JWT without verifying the signature; the ledger
// verifies it. Non-JWT tokens yield a zero time.
func expiry(token string) (time.Time, error) {
	if strings.Count(token, ".") != 2 {
		return time.Time{}, nil
	}

	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, err
	}

	if claims.ExpiresAt == nil {
		return time.Time{}, nil
	}

	return claims.ExpiresAt.Time, nil
}
