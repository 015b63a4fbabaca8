package cli

import (
	"io"
	"log"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/todoapp/internal/auth"
	"github.com/idilsaglam/todoapp/internal/config"
	"github.com/idilsaglam/todoapp/internal/devserver"
)

// backend starts a devserver with one user and points the CLI at it.
func backend(t *testing.T) (*devserver.Store, string) {
	t.Helper()
	t.Setenv(config.EnvHome, t.TempDir())
	t.Setenv(auth.EnvToken, "")

	store, err := devserver.OpenStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.AddUser("alice", "secret"))

	srv := httptest.NewServer(devserver.NewServer(store, devserver.Options{Logger: log.New(io.Discard, "", 0)}).Router())
	t.Cleanup(srv.Close)
	t.Setenv(config.EnvEndpoint, srv.URL+"/graphql")
	t.Setenv(config.EnvAuthURL, srv.URL+"/auth/login")

	token, _, err := store.Login("alice", "secret")
	require.NoError(t, err)
	return store, token
}

func TestExecuteUsageErrors(t *testing.T) {
	t.Setenv(config.EnvHome, t.TempDir())
	require.Equal(t, 2, Execute([]string{"add", "only-a-name"}))
	require.Equal(t, 2, Execute([]string{"sum", "1"}))
	require.Equal(t, 2, Execute([]string{"edit", "42"}))
}

func TestExecuteRequiresLogin(t *testing.T) {
	backend(t)
	require.Equal(t, 2, Execute([]string{"ls"}))
}

func TestExecuteTodoCommands(t *testing.T) {
	store, token := backend(t)
	t.Setenv(auth.EnvToken, token)

	require.Equal(t, 0, Execute([]string{"add", "Buy", "milk", "today"}))
	items, err := store.ListTodos()
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "Buy", items[0].Name)
	require.Equal(t, "milk today", items[0].Description)

	id := items[0].ID
	require.Equal(t, 0, Execute([]string{"edit", id, "--name", "Buy oat"}))
	items, err = store.ListTodos()
	require.NoError(t, err)
	require.Equal(t, "Buy oat", items[0].Name)
	require.Equal(t, "milk today", items[0].Description)

	require.Equal(t, 0, Execute([]string{"ls"}))
	require.Equal(t, 1, Execute([]string{"edit", "missing", "--name", "x"}))

	require.Equal(t, 0, Execute([]string{"rm", id}))
	items, err = store.ListTodos()
	require.NoError(t, err)
	require.Empty(t, items)

	// the remote rejects an unknown id, which surfaces as exit 1
	require.Equal(t, 1, Execute([]string{"rm", id}))
}

func TestExecuteSum(t *testing.T) {
	_, token := backend(t)
	t.Setenv(auth.EnvToken, token)
	require.Equal(t, 0, Execute([]string{"sum", "3", "4.5"}))
}

func TestExecuteRejectedToken(t *testing.T) {
	backend(t)
	t.Setenv(auth.EnvToken, "not-a-session")
	require.Equal(t, 1, Execute([]string{"ls"}))
}

func TestExecuteAuthLoginWithPastedToken(t *testing.T) {
	_, token := backend(t)

	require.Equal(t, 0, Execute([]string{"auth", "login", "--token", token}))
	ti, err := auth.GetToken()
	require.NoError(t, err)
	require.NotNil(t, ti)
	require.Equal(t, token, ti.Token)

	require.Equal(t, 0, Execute([]string{"ls"}))
	require.Equal(t, 0, Execute([]string{"auth", "logout"}))
	require.Equal(t, 2, Execute([]string{"ls"}))
}
