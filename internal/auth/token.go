// Package auth is the login gate: it stores the session token the API
// client sends and obtains one from the hosted auth endpoint.
package auth

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/idilsaglam/todoapp/internal/config"
	"github.com/idilsaglam/todoapp/internal/store/jsonstore"
)

const (
	credFileName = "credentials.json"

	// EnvToken overrides the stored credentials.
	EnvToken = "TODOAPP_TOKEN"
)

// ErrNotLoggedIn is returned by Require when no token is available.
var ErrNotLoggedIn = errors.New("not logged in: set TODOAPP_TOKEN or run `todoapp auth login`")

type TokenInfo struct {
	Token     string     `json:"token"`
	Username  string     `json:"username,omitempty"`
	Source    string     `json:"source"`     // "env" | "file"
	CreatedAt time.Time  `json:"created_at"` // when we saved to file
	ExpiresAt *time.Time `json:"expires_at"` // optional (JWT or server-provided)
}

// Expired reports whether the token has a known expiry in the past.
func (ti *TokenInfo) Expired(now time.Time) bool {
	return ti.ExpiresAt != nil && now.After(*ti.ExpiresAt)
}

func credFilePath() (string, error) {
	dir, err := config.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, credFileName), nil
}

// GetToken returns the active token, or nil when not logged in.
func GetToken() (*TokenInfo, error) {
	// 1) env override
	env := strings.TrimSpace(os.Getenv(EnvToken))
	if env != "" {
		return &TokenInfo{Token: stripBearer(env), Source: "env"}, nil
	}

	// 2) file
	p, err := credFilePath()
	if err != nil {
		return nil, err
	}
	var ti TokenInfo
	found, err := jsonstore.Load(p, &ti)
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	if !found {
		return nil, nil
	}
	ti.Token = stripBearer(ti.Token)
	return &ti, nil
}

// SetToken stores token in the credentials file (0600).
func SetToken(token, username string, expires *time.Time) error {
	token = stripBearer(strings.TrimSpace(token))
	if token == "" {
		return fmt.Errorf("empty token")
	}
	if expires == nil {
		expires = jwtExpiry(token)
	}
	p, err := credFilePath()
	if err != nil {
		return err
	}
	ti := TokenInfo{
		Token:     token,
		Username:  username,
		Source:    "file",
		CreatedAt: time.Now(),
		ExpiresAt: expires,
	}
	return jsonstore.Save(p, ti, 0o600)
}

func DeleteToken() error {
	p, err := credFilePath()
	if err != nil {
		return err
	}
	return jsonstore.Remove(p)
}

// Require is the login gate: it returns a usable token or ErrNotLoggedIn.
func Require() (*TokenInfo, error) {
	ti, err := GetToken()
	if err != nil {
		return nil, err
	}
	if ti == nil || strings.TrimSpace(ti.Token) == "" {
		return nil, ErrNotLoggedIn
	}
	if ti.Expired(time.Now()) {
		return nil, fmt.Errorf("token expired at %s: %w", ti.ExpiresAt.UTC().Format(time.RFC3339), ErrNotLoggedIn)
	}
	return ti, nil
}

func stripBearer(s string) string {
	if strings.HasPrefix(strings.ToLower(s), "bearer ") {
		return strings.TrimSpace(s[7:])
	}
	return s
}

// JWTPayload decodes the (unverified) payload of a JWT. ok is false for
// opaque tokens.
func JWTPayload(token string) (payload string, ok bool) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return "", false
	}
	p := strings.TrimRight(parts[1], "=")
	dec, err := base64.RawURLEncoding.DecodeString(p)
	if err != nil {
		return "", false
	}
	return string(dec), true
}
