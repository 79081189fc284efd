// Package client talks to the workflow API from editor-side tooling. It
// converts editor graphs before sending them and after loading them.
package client

import (
	"context"
	"fmt"
	"net/url"
	"time"

	fclient "github.com/gofiber/fiber/v3/client"

	workflow "github.com/devHarshShah/swiftboard-frontend-sub001"
	"github.com/devHarshShah/swiftboard-frontend-sub001/internal/xjson"
)

// DefaultTimeout bounds every request unless overridden with WithTimeout.
const DefaultTimeout = 10 * time.Second

// APIError is returned for any non-2xx response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("workflow api: %d: %s", e.Status, e.Message)
}

// Client is a workflow API client.
type Client struct {
	cc *fclient.Client
}

// Option configures a Client.
type Option func(*fclient.Client)

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(cc *fclient.Client) { cc.SetTimeout(d) }
}

// New creates a Client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	cc := fclient.New().
		SetBaseURL(baseURL).
		SetTimeout(DefaultTimeout).
		SetJSONMarshal(xjson.Marshal).
		SetJSONUnmarshal(xjson.Unmarshal)
	for _, opt := range opts {
		opt(cc)
	}
	return &Client{cc: cc}
}

// SaveDraft stores g as a new draft workflow of the project.
func (c *Client) SaveDraft(ctx context.Context, projectID, name string, g *workflow.WorkflowGraph) (*workflow.PersistedWorkflow, error) {
	w, err := workflow.ToPersisted(g)
	if err != nil {
		return nil, err
	}
	w.ProjectID = projectID
	w.Name = name

	var out workflow.PersistedWorkflow
	if err := c.send(ctx, "POST", "/workflow/create", w, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update replaces the graph of a draft workflow.
func (c *Client) Update(ctx context.Context, id, name string, g *workflow.WorkflowGraph) (*workflow.PersistedWorkflow, error) {
	w, err := workflow.ToPersisted(g)
	if err != nil {
		return nil, err
	}
	w.ID = id
	w.Name = name

	var out workflow.PersistedWorkflow
	if err := c.send(ctx, "PUT", "/workflow/"+url.PathEscape(id), w, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Publish saves g under the project and publishes it. An empty id creates
// a new workflow.
func (c *Client) Publish(ctx context.Context, projectID, id, name string, g *workflow.WorkflowGraph) (*workflow.PersistedWorkflow, error) {
	w, err := workflow.ToPersisted(g)
	if err != nil {
		return nil, err
	}
	w.ID = id
	w.Name = name

	var out workflow.PersistedWorkflow
	if err := c.send(ctx, "POST", "/workflow/"+url.PathEscape(projectID)+"/publish", w, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Load fetches a workflow and rebuilds its editor graph.
func (c *Client) Load(ctx context.Context, id string) (*workflow.WorkflowGraph, *workflow.PersistedWorkflow, error) {
	var w workflow.PersistedWorkflow
	if err := c.send(ctx, "GET", "/workflow/"+url.PathEscape(id), nil, &w); err != nil {
		return nil, nil, err
	}
	g, err := workflow.FromPersisted(&w)
	if err != nil {
		return nil, nil, err
	}
	return g, &w, nil
}

func (c *Client) send(ctx context.Context, method, path string, body, out any) error {
	req := c.cc.R().SetContext(ctx)
	if body != nil {
		req.SetJSON(body)
	}

	var (
		resp *fclient.Response
		err  error
	)
	switch method {
	case "POST":
		resp, err = req.Post(path)
	case "PUT":
		resp, err = req.Put(path)
	default:
		resp, err = req.Get(path)
	}
	if err != nil {
		return fmt.Errorf("workflow api: %s %s: %w", method, path, err)
	}
	defer resp.Close()

	if status := resp.StatusCode(); status < 200 || status > 299 {
		apiErr := &APIError{Status: status}
		var msg struct {
			Message string `json:"message"`
		}
		if xjson.Unmarshal(resp.Body(), &msg) == nil {
			apiErr.Message = msg.Message
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := xjson.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("workflow api: decode %s: %w", path, err)
	}
	return nil
}
