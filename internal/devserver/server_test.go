package devserver

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, opt Options) (*httptest.Server, *Store) {
	t.Helper()
	store := newTestStore(t)
	opt.Logger = log.New(io.Discard, "", 0)
	srv := httptest.NewServer(NewServer(store, opt).Router())
	t.Cleanup(srv.Close)
	return srv, store
}

func post(t *testing.T, url string, header http.Header, body any) (*http.Response, map[string]any) {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(b))
	require.NoError(t, err)
	for k, v := range header {
		req.Header[k] = v
	}
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(res.Body).Decode(&out))
	return res, out
}

func TestOperationName(t *testing.T) {
	require.Equal(t, "ListTodos", operationName(gqlRequest{Query: "\n query ListTodos {\n listTodos { items { id } } }"}))
	require.Equal(t, "Add", operationName(gqlRequest{Query: "mutation Add($a: Float) { add }"}))
	require.Equal(t, "X", operationName(gqlRequest{Query: "query Y { y }", OperationName: "X"}))
	require.Empty(t, operationName(gqlRequest{Query: "{ listTodos { items { id } } }"}))
}

func TestGraphQLRequiresAuth(t *testing.T) {
	srv, _ := newTestServer(t, Options{})

	res, out := post(t, srv.URL+"/graphql", nil, map[string]any{"query": "query ListTodos { listTodos { items { id } } }"})
	require.Equal(t, http.StatusUnauthorized, res.StatusCode)
	require.NotEmpty(t, out["errors"])
}

func TestLoginThenGraphQL(t *testing.T) {
	srv, store := newTestServer(t, Options{})
	require.NoError(t, store.AddUser("alice", "secret"))

	res, out := post(t, srv.URL+"/auth/login", nil, map[string]string{"username": "alice", "password": "nope"})
	require.Equal(t, http.StatusUnauthorized, res.StatusCode)

	res, out = post(t, srv.URL+"/auth/login", nil, map[string]string{"username": "alice", "password": "secret"})
	require.Equal(t, http.StatusOK, res.StatusCode)
	token, _ := out["token"].(string)
	require.NotEmpty(t, token)

	h := http.Header{"Authorization": {token}}
	res, out = post(t, srv.URL+"/graphql", h, map[string]any{
		"query":     "mutation Add($number1: Float, $number2: Float) { add(number1: $number1, number2: $number2) }",
		"variables": map[string]any{"number1": 3, "number2": 4},
	})
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, map[string]any{"add": 7.0}, out["data"])
}

func TestAPIKeyAccepted(t *testing.T) {
	srv, _ := newTestServer(t, Options{APIKey: "da2-test"})

	res, out := post(t, srv.URL+"/graphql", http.Header{"X-Api-Key": {"da2-test"}}, map[string]any{
		"query": "query ListTodos { listTodos { items { id } nextToken } }",
	})
	require.Equal(t, http.StatusOK, res.StatusCode)
	data := out["data"].(map[string]any)
	require.Equal(t, []any{}, data["listTodos"].(map[string]any)["items"])
}

func TestUnknownOperation(t *testing.T) {
	srv, _ := newTestServer(t, Options{NoAuth: true})

	_, out := post(t, srv.URL+"/graphql", nil, map[string]any{"query": "query Nope { nope }"})
	errs := out["errors"].([]any)
	require.Contains(t, errs[0].(map[string]any)["message"], "unknown operation")
}
