// Package devserver is a small local stand-in for the hosted Todo API and
// its auth endpoint, for development and tests.
package devserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/idilsaglam/todoapp/internal/api"
	"github.com/idilsaglam/todoapp/internal/model"
)

// Options tune the server.
type Options struct {
	// NoAuth accepts GraphQL requests without credentials.
	NoAuth bool
	// APIKey, when set, is accepted in the x-api-key header.
	APIKey string
	Logger *log.Logger
}

// Server serves /graphql, /auth/login and /health.
type Server struct {
	store *Store
	opt   Options
	log   *log.Logger
}

func NewServer(store *Store, opt Options) *Server {
	l := opt.Logger
	if l == nil {
		l = log.Default()
	}
	return &Server{store: store, opt: opt, log: l}
}

func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "OK")
	}).Methods(http.MethodGet)
	r.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/graphql", s.handleGraphQL).Methods(http.MethodPost)
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}
	token, expires, err := s.store.Login(req.Username, req.Password)
	if errors.Is(err, ErrInvalidCredentials) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": err.Error()})
		return
	}
	if err != nil {
		s.log.Printf("login %s: %v", req.Username, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	s.log.Printf("login %s ok", req.Username)
	writeJSON(w, http.StatusOK, map[string]any{"token": token, "expires_at": expires})
}

type gqlRequest struct {
	Query         string          `json:"query"`
	OperationName string          `json:"operationName"`
	Variables     json.RawMessage `json:"variables"`
}

type gqlError struct {
	ErrorType string `json:"errorType,omitempty"`
	Message   string `json:"message"`
}

type gqlResponse struct {
	Data   any        `json:"data"`
	Errors []gqlError `json:"errors,omitempty"`
}

var operationHeader = regexp.MustCompile(`^\s*(?:query|mutation)\s+([A-Za-z_][A-Za-z0-9_]*)`)

// operationName picks the operation from the request body, falling back to
// the name declared in the document.
func operationName(req gqlRequest) string {
	if req.OperationName != "" {
		return req.OperationName
	}
	if m := operationHeader.FindStringSubmatch(req.Query); m != nil {
		return m[1]
	}
	return ""
}

func (s *Server) authorized(r *http.Request) bool {
	if s.opt.NoAuth {
		return true
	}
	if s.opt.APIKey != "" && r.Header.Get("x-api-key") == s.opt.APIKey {
		return true
	}
	token := strings.TrimSpace(r.Header.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		token = strings.TrimSpace(token[7:])
	}
	if token == "" {
		return false
	}
	_, err := s.store.SessionUser(token)
	return err == nil
}

func (s *Server) handleGraphQL(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if !s.authorized(r) {
		writeJSON(w, http.StatusUnauthorized, gqlResponse{Errors: []gqlError{{
			ErrorType: "UnauthorizedException",
			Message:   "You are not authorized to make this call.",
		}}})
		return
	}
	var req gqlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, gqlResponse{Errors: []gqlError{{Message: "invalid request body"}}})
		return
	}
	op := operationName(req)
	data, err := s.execute(op, req.Variables)
	if err != nil {
		s.log.Printf("graphql %s failed after %v: %v", op, time.Since(start), err)
		writeJSON(w, http.StatusOK, gqlResponse{Errors: []gqlError{{Message: err.Error()}}})
		return
	}
	s.log.Printf("graphql %s ok in %v", op, time.Since(start))
	writeJSON(w, http.StatusOK, gqlResponse{Data: data})
}

type todoJSON struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	CreatedAt   *time.Time `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt"`
}

func toJSON(it model.Item) todoJSON {
	return todoJSON{ID: it.ID, Name: it.Name, Description: it.Description, CreatedAt: it.CreatedAt, UpdatedAt: it.UpdatedAt}
}

type todoInput struct {
	Input struct {
		ID          string  `json:"id"`
		Name        *string `json:"name"`
		Description *string `json:"description"`
	} `json:"input"`
}

func (in todoInput) item() model.Item {
	it := model.Item{ID: in.Input.ID}
	if in.Input.Name != nil {
		it.Name = *in.Input.Name
	}
	if in.Input.Description != nil {
		it.Description = *in.Input.Description
	}
	return it
}

func decodeVars(raw json.RawMessage, v any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("invalid variables: %w", err)
	}
	return nil
}

func (s *Server) execute(op string, vars json.RawMessage) (any, error) {
	switch op {
	case api.OpListTodos:
		items, err := s.store.ListTodos()
		if err != nil {
			return nil, err
		}
		out := make([]todoJSON, 0, len(items))
		for _, it := range items {
			out = append(out, toJSON(it))
		}
		return map[string]any{"listTodos": map[string]any{"items": out, "nextToken": nil}}, nil

	case api.OpCreateTodo:
		var in todoInput
		if err := decodeVars(vars, &in); err != nil {
			return nil, err
		}
		it, err := s.store.CreateTodo(in.item())
		if err != nil {
			return nil, err
		}
		return map[string]any{"createTodo": toJSON(it)}, nil

	case api.OpUpdateTodo:
		var in todoInput
		if err := decodeVars(vars, &in); err != nil {
			return nil, err
		}
		if in.Input.ID == "" {
			return nil, fmt.Errorf("input.id is required")
		}
		current, err := s.store.getTodo(in.Input.ID)
		if err != nil {
			return nil, err
		}
		// absent fields keep their stored value
		next := current
		if in.Input.Name != nil {
			next.Name = *in.Input.Name
		}
		if in.Input.Description != nil {
			next.Description = *in.Input.Description
		}
		it, err := s.store.UpdateTodo(next)
		if err != nil {
			return nil, err
		}
		return map[string]any{"updateTodo": toJSON(it)}, nil

	case api.OpDeleteTodo:
		var in todoInput
		if err := decodeVars(vars, &in); err != nil {
			return nil, err
		}
		it, err := s.store.DeleteTodo(in.Input.ID)
		if err != nil {
			return nil, err
		}
		return map[string]any{"deleteTodo": toJSON(it)}, nil

	case api.OpAdd:
		var in struct {
			Number1 *float64 `json:"number1"`
			Number2 *float64 `json:"number2"`
		}
		if err := decodeVars(vars, &in); err != nil {
			return nil, err
		}
		var sum float64
		if in.Number1 != nil {
			sum += *in.Number1
		}
		if in.Number2 != nil {
			sum += *in.Number2
		}
		return map[string]any{"add": sum}, nil
	}
	return nil, fmt.Errorf("unknown operation %q", op)
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
