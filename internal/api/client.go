package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/machinebox/graphql"

	"github.com/idilsaglam/todoapp/internal/model"
)

const defaultTimeout = 10 * time.Second

// Config is what a Client needs to reach the service.
type Config struct {
	Endpoint string
	AuthMode string // user_pool | api_key | none
	Token    string
	APIKey   string
	Timeout  time.Duration

	HTTPClient *http.Client
	Monitor    *Monitor
}

// Client is the GraphQL implementation of Remote.
type Client struct {
	gql     *graphql.Client
	cfg     Config
	monitor *Monitor
}

var _ Remote = (*Client)(nil)

// NewClient builds a client for cfg.Endpoint.
func NewClient(cfg Config) (*Client, error) {
	cfg.Endpoint = strings.TrimSpace(cfg.Endpoint)
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("api endpoint is empty")
	}
	switch cfg.AuthMode {
	case "":
		cfg.AuthMode = AuthUserPool
	case AuthUserPool, AuthAPIKey, AuthNone:
	default:
		return nil, fmt.Errorf("unknown auth mode %q", cfg.AuthMode)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	var opts []graphql.ClientOption
	if cfg.HTTPClient != nil {
		opts = append(opts, graphql.WithHTTPClient(cfg.HTTPClient))
	}
	mon := cfg.Monitor
	if mon == nil {
		mon = NewMonitor()
	}
	return &Client{
		gql:     graphql.NewClient(cfg.Endpoint, opts...),
		cfg:     cfg,
		monitor: mon,
	}, nil
}

// Monitor returns the latency monitor fed by this client.
func (c *Client) Monitor() *Monitor { return c.monitor }

type todoPayload struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	CreatedAt   *time.Time `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt"`
}

func (p todoPayload) item() model.Item {
	return model.Item{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

type createInput struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type updateInput struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type deleteInput struct {
	ID string `json:"id"`
}

func (c *Client) ListTodos(ctx context.Context) ([]model.Item, error) {
	var resp struct {
		ListTodos struct {
			Items     []todoPayload `json:"items"`
			NextToken *string       `json:"nextToken"`
		} `json:"listTodos"`
	}
	if err := c.run(ctx, OpListTodos, c.request(listTodosQuery), &resp); err != nil {
		return nil, err
	}
	items := make([]model.Item, 0, len(resp.ListTodos.Items))
	for _, p := range resp.ListTodos.Items {
		items = append(items, p.item())
	}
	return items, nil
}

func (c *Client) CreateTodo(ctx context.Context, item model.Item) (model.Item, error) {
	req := c.request(createTodoMutation)
	req.Var("input", createInput{ID: item.ID, Name: item.Name, Description: item.Description})
	var resp struct {
		CreateTodo todoPayload `json:"createTodo"`
	}
	if err := c.run(ctx, OpCreateTodo, req, &resp); err != nil {
		return model.Item{}, err
	}
	return resp.CreateTodo.item(), nil
}

func (c *Client) UpdateTodo(ctx context.Context, item model.Item) (model.Item, error) {
	if item.ID == "" {
		return model.Item{}, fmt.Errorf("%s: item has no id", OpUpdateTodo)
	}
	req := c.request(updateTodoMutation)
	req.Var("input", updateInput{ID: item.ID, Name: item.Name, Description: item.Description})
	var resp struct {
		UpdateTodo todoPayload `json:"updateTodo"`
	}
	if err := c.run(ctx, OpUpdateTodo, req, &resp); err != nil {
		return model.Item{}, err
	}
	return resp.UpdateTodo.item(), nil
}

func (c *Client) DeleteTodo(ctx context.Context, id string) (string, error) {
	if id == "" {
		return "", fmt.Errorf("%s: empty id", OpDeleteTodo)
	}
	req := c.request(deleteTodoMutation)
	req.Var("input", deleteInput{ID: id})
	var resp struct {
		DeleteTodo struct {
			ID string `json:"id"`
		} `json:"deleteTodo"`
	}
	if err := c.run(ctx, OpDeleteTodo, req, &resp); err != nil {
		return "", err
	}
	return resp.DeleteTodo.ID, nil
}

func (c *Client) Add(ctx context.Context, number1, number2 float64) (float64, error) {
	req := c.request(addMutation)
	req.Var("number1", number1)
	req.Var("number2", number2)
	var resp struct {
		Add *float64 `json:"add"`
	}
	if err := c.run(ctx, OpAdd, req, &resp); err != nil {
		return 0, err
	}
	if resp.Add == nil {
		return 0, fmt.Errorf("%s: empty result", OpAdd)
	}
	return *resp.Add, nil
}

// request builds a GraphQL request carrying the configured credentials.
func (c *Client) request(doc string) *graphql.Request {
	req := graphql.NewRequest(doc)
	switch c.cfg.AuthMode {
	case AuthUserPool:
		if c.cfg.Token != "" {
			req.Header.Set("Authorization", c.cfg.Token)
		}
	case AuthAPIKey:
		if c.cfg.APIKey != "" {
			req.Header.Set("x-api-key", c.cfg.APIKey)
		}
	}
	return req
}

func (c *Client) run(ctx context.Context, op string, req *graphql.Request, resp interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	start := time.Now()
	err := c.gql.Run(ctx, req, resp)
	c.monitor.Observe(op, time.Since(start), err)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
