package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/claude/repsheet/internal/api"
	"github.com/claude/repsheet/internal/models"
)

// DataSource abstracts the workout data behind the MCP tools. The only
// implementation talks to the remote workout API; the interface exists so
// tests can stub it.
type DataSource interface {
	ListWorkouts(ctx context.Context) ([]models.Workout, error)
	GetWorkout(ctx context.Context, id int) (*models.Workout, error)
	GetSelf(ctx context.Context) (*models.User, error)
}

// RemoteClient implements DataSource against the remote workout API using a
// fixed bearer token (the MCP process has no browser session).
type RemoteClient struct {
	api   *api.Client
	token string
}

// Compile-time check: RemoteClient satisfies DataSource.
var _ DataSource = (*RemoteClient)(nil)

// NewRemoteClient creates a RemoteClient. The token may be empty; the
// remote API then decides what anonymous callers may see.
func NewRemoteClient(client *api.Client, token string) *RemoteClient {
	return &RemoteClient{api: client, token: token}
}

func (c *RemoteClient) get(ctx context.Context, path string) ([]byte, error) {
	resp, err := c.api.Get(ctx, path, c.token)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, fmt.Errorf("mcp: %s returned %d: %s", path, resp.StatusCode, resp.Body)
	}
	return resp.Body, nil
}

func (c *RemoteClient) ListWorkouts(ctx context.Context) ([]models.Workout, error) {
	body, err := c.get(ctx, "/workouts")
	if err != nil {
		return nil, err
	}

	var env struct {
		Workouts []models.Workout `json:"workouts"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("mcp: decode workouts: %w", err)
	}
	return env.Workouts, nil
}

func (c *RemoteClient) GetWorkout(ctx context.Context, id int) (*models.Workout, error) {
	body, err := c.get(ctx, fmt.Sprintf("/workouts/%d", id))
	if err != nil {
		return nil, err
	}

	var env struct {
		Workout *models.Workout `json:"workout"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("mcp: decode workout: %w", err)
	}
	if env.Workout == nil {
		return nil, fmt.Errorf("mcp: workout %d missing from response", id)
	}
	return env.Workout, nil
}

func (c *RemoteClient) GetSelf(ctx context.Context) (*models.User, error) {
	body, err := c.get(ctx, "/users/self")
	if err != nil {
		return nil, err
	}

	var env struct {
		User *models.User `json:"user"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("mcp: decode user: %w", err)
	}
	if env.User == nil {
		return nil, fmt.Errorf("mcp: user missing from response")
	}
	return env.User, nil
}
