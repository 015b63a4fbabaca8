package auth

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/todoapp/internal/config"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv(config.EnvHome, t.TempDir())
	t.Setenv(EnvToken, "")
}

func fakeJWT(claims string) string {
	enc := base64.RawURLEncoding.EncodeToString
	return enc([]byte(`{"alg":"none"}`)) + "." + enc([]byte(claims)) + ".sig"
}

func TestRequireWithoutToken(t *testing.T) {
	isolate(t)

	_, err := Require()
	require.ErrorIs(t, err, ErrNotLoggedIn)
}

func TestEnvTokenWins(t *testing.T) {
	isolate(t)
	require.NoError(t, SetToken("from-file", "alice", nil))
	t.Setenv(EnvToken, "Bearer from-env")

	ti, err := Require()
	require.NoError(t, err)
	require.Equal(t, "from-env", ti.Token)
	require.Equal(t, "env", ti.Source)
}

func TestSetGetDeleteToken(t *testing.T) {
	isolate(t)

	require.NoError(t, SetToken("  bearer abc  ", "alice", nil))
	ti, err := GetToken()
	require.NoError(t, err)
	require.Equal(t, "abc", ti.Token)
	require.Equal(t, "alice", ti.Username)
	require.Equal(t, "file", ti.Source)

	require.NoError(t, DeleteToken())
	ti, err = GetToken()
	require.NoError(t, err)
	require.Nil(t, ti)

	require.Error(t, SetToken("   ", "", nil))
}

func TestExpiredJWTFailsGate(t *testing.T) {
	isolate(t)
	past := time.Now().Add(-time.Hour).Unix()
	tok := fakeJWT(`{"sub":"alice","exp":` + jsonInt(past) + `}`)
	require.NoError(t, SetToken(tok, "", nil))

	_, err := Require()
	require.ErrorIs(t, err, ErrNotLoggedIn)
	require.ErrorContains(t, err, "expired")
}

func TestJWTPayload(t *testing.T) {
	p, ok := JWTPayload(fakeJWT(`{"sub":"bob"}`))
	require.True(t, ok)
	require.JSONEq(t, `{"sub":"bob"}`, p)

	_, ok = JWTPayload("opaque-token")
	require.False(t, ok)
}

func TestLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Username != "alice" || req.Password != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(loginResponse{Token: "tok-1"})
	}))
	defer srv.Close()

	tok, _, err := Login(context.Background(), srv.Client(), srv.URL, "alice", "secret")
	require.NoError(t, err)
	require.Equal(t, "tok-1", tok)

	_, _, err = Login(context.Background(), srv.Client(), srv.URL, "alice", "nope")
	require.True(t, errors.Is(err, ErrInvalidCredentials))
}

func jsonInt(n int64) string {
	b, _ := json.Marshal(n)
	return string(b)
}
