// Package api talks to the remote Todo GraphQL service.
package api

import (
	"context"

	"github.com/idilsaglam/todoapp/internal/model"
)

// Remote is everything the app needs from the hosted API. Every call may
// fail; callers decide what to do with the error.
type Remote interface {
	ListTodos(ctx context.Context) ([]model.Item, error)
	CreateTodo(ctx context.Context, item model.Item) (model.Item, error)
	UpdateTodo(ctx context.Context, item model.Item) (model.Item, error)
	DeleteTodo(ctx context.Context, id string) (string, error)
	Add(ctx context.Context, number1, number2 float64) (float64, error)
}

// Auth modes understood by the client.
const (
	AuthUserPool = "user_pool"
	AuthAPIKey   = "api_key"
	AuthNone     = "none"
)

// Operation names, shared with the development server.
const (
	OpListTodos  = "ListTodos"
	OpCreateTodo = "CreateTodo"
	OpUpdateTodo = "UpdateTodo"
	OpDeleteTodo = "DeleteTodo"
	OpAdd        = "Add"
)
