// Package auth holds the single admin credential record.
//
// There is exactly one token at a time. Login overwrites it, so every
// earlier token stops matching. The expiry is written next to the token but
// never read: tokens stay valid until the next login.
package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/siteboard/internal/domain"
	"github.com/MrSnakeDoc/siteboard/internal/kv"
)

const (
	KeyAdminToken       = "admin_token"
	KeyAdminTokenExpiry = "admin_token_expiry"
)

// Credentials checks admin logins and bearer tokens against the admin
// namespace of the store.
type Credentials struct {
	store    kv.Store
	username string
	password string
	ttl      time.Duration
	now      func() time.Time
	newToken func(now time.Time) string
}

// Option customizes Credentials.
type Option func(*Credentials)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Credentials) { c.now = now }
}

// WithTokenGenerator replaces the default uuid-based token generator.
func WithTokenGenerator(gen func(now time.Time) string) Option {
	return func(c *Credentials) { c.newToken = gen }
}

// NewCredentials creates the credential store for one admin account.
func NewCredentials(store kv.Store, username, password string, ttl time.Duration, opts ...Option) *Credentials {
	c := &Credentials{
		store:    store,
		username: username,
		password: password,
		ttl:      ttl,
		now:      time.Now,
		newToken: defaultToken,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func defaultToken(now time.Time) string {
	return uuid.NewString() + "-" + strconv.FormatInt(now.UnixMilli(), 10)
}

// Username returns the configured admin username, recorded as the reviewer
// of submissions.
func (c *Credentials) Username() string { return c.username }

// Login checks the username/password pair and, on success, issues a new
// token that replaces the previous one.
func (c *Credentials) Login(ctx context.Context, username, password string) (string, error) {
	if !equal(username, c.username) || !equal(password, c.password) {
		return "", domain.ErrInvalidCredentials
	}

	now := c.now()
	token := c.newToken(now)

	if err := c.store.Put(ctx, KeyAdminToken, []byte(token)); err != nil {
		return "", fmt.Errorf("failed to store admin token: %w", err)
	}
	expiry := strconv.FormatInt(now.Add(c.ttl).UnixMilli(), 10)
	if err := c.store.Put(ctx, KeyAdminTokenExpiry, []byte(expiry)); err != nil {
		return "", fmt.Errorf("failed to store admin token expiry: %w", err)
	}
	return token, nil
}

// Verify reports whether token equals the stored admin token. A missing
// stored token or an empty presented token never matches.
func (c *Credentials) Verify(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}
	stored, err := c.store.Get(ctx, KeyAdminToken)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read admin token: %w", err)
	}
	return equal(string(stored), token), nil
}

func equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
