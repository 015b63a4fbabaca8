package auth

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/term"
)

// ErrInvalidCredentials is returned when the auth endpoint rejects a login.
var ErrInvalidCredentials = errors.New("invalid username or password")

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string     `json:"token"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	Error     string     `json:"error,omitempty"`
}

// Login exchanges a username and password for a session token at authURL.
func Login(ctx context.Context, hc *http.Client, authURL, username, password string) (string, *time.Time, error) {
	if hc == nil {
		hc = http.DefaultClient
	}
	body, err := json.Marshal(loginRequest{Username: username, Password: password})
	if err != nil {
		return "", nil, fmt.Errorf("marshal login: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, authURL, bytes.NewReader(body))
	if err != nil {
		return "", nil, fmt.Errorf("login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := hc.Do(req)
	if err != nil {
		return "", nil, fmt.Errorf("login: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusUnauthorized {
		return "", nil, ErrInvalidCredentials
	}
	var lr loginResponse
	if err := json.NewDecoder(io.LimitReader(res.Body, 1<<20)).Decode(&lr); err != nil {
		return "", nil, fmt.Errorf("login: status %d: decode response: %w", res.StatusCode, err)
	}
	if res.StatusCode != http.StatusOK {
		return "", nil, fmt.Errorf("login: status %d: %s", res.StatusCode, lr.Error)
	}
	if strings.TrimSpace(lr.Token) == "" {
		return "", nil, fmt.Errorf("login: server returned no token")
	}
	return lr.Token, lr.ExpiresAt, nil
}

// ReadPassword prompts on stderr and reads a password without echo when
// stdin is a terminal, or a plain line otherwise.
func ReadPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(b), nil
	}
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func jwtExpiry(token string) *time.Time {
	payload, ok := JWTPayload(token)
	if !ok {
		return nil
	}
	var claims struct {
		Exp int64 `json:"exp"`
	}
	if err := json.Unmarshal([]byte(payload), &claims); err != nil || claims.Exp == 0 {
		return nil
	}
	t := time.Unix(claims.Exp, 0)
	return &t
}
