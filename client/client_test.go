package client_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	workflow "github.com/devHarshShah/swiftboard-frontend-sub001"
	"github.com/devHarshShah/swiftboard-frontend-sub001/api"
	"github.com/devHarshShah/swiftboard-frontend-sub001/client"
	"github.com/devHarshShah/swiftboard-frontend-sub001/internal/mocks"
)

func newTestClient(t *testing.T) (*client.Client, *mocks.Store) {
	t.Helper()
	store := &mocks.Store{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := httptest.NewServer(adaptor.FiberApp(api.New(store, logger)))
	t.Cleanup(srv.Close)
	return client.New(srv.URL), store
}

func twoTasks() *workflow.WorkflowGraph {
	return &workflow.WorkflowGraph{
		Nodes: []workflow.EditorNode{
			{ID: "A", Type: workflow.NodeTypeTask, Data: workflow.NodeData{Label: "Build", Type: workflow.NodeTypeTask}},
			{ID: "B", Type: workflow.NodeTypeTask, Data: workflow.NodeData{Label: "Ship", Type: workflow.NodeTypeTask}},
		},
		Edges: []workflow.EditorEdge{{ID: "e1", Source: "A", Target: "B"}},
	}
}

func blockedByOf(n workflow.PersistedNode) []any {
	cfg, err := n.Data.Config.Object()
	if err != nil {
		return nil
	}
	list, _ := cfg[workflow.ConfigBlockedBy].([]any)
	return list
}

func TestSaveDraftSendsDerivedRelationships(t *testing.T) {
	c, store := newTestClient(t)
	store.On("CreateWorkflow", mock.Anything, mock.MatchedBy(func(w *workflow.PersistedWorkflow) bool {
		return w.ProjectID == "p1" && w.Name == "Release" &&
			len(w.Nodes) == 2 && len(blockedByOf(w.Nodes[1])) == 1
	})).Return(&workflow.PersistedWorkflow{ID: "wf1", ProjectID: "p1", Status: workflow.StatusDraft}, nil)

	w, err := c.SaveDraft(context.Background(), "p1", "Release", twoTasks())
	require.NoError(t, err)
	assert.Equal(t, "wf1", w.ID)
	store.AssertExpectations(t)
}

func TestSaveDraftRejectsLocally(t *testing.T) {
	c, store := newTestClient(t)
	g := twoTasks()
	g.Edges[0].Target = "ghost"

	_, err := c.SaveDraft(context.Background(), "p1", "Release", g)
	assert.True(t, errors.Is(err, workflow.ErrDanglingReference))
	store.AssertNotCalled(t, "CreateWorkflow", mock.Anything, mock.Anything)
}

func TestPublish(t *testing.T) {
	c, store := newTestClient(t)
	store.On("CreateWorkflow", mock.Anything, mock.Anything).Return(&workflow.PersistedWorkflow{ID: "wf1", ProjectID: "p1"}, nil)
	store.On("PublishWorkflow", mock.Anything, "wf1").
		Return(&workflow.PersistedWorkflow{ID: "wf1", ProjectID: "p1", Status: workflow.StatusPublished, Version: 1}, nil)

	w, err := c.Publish(context.Background(), "p1", "", "Release", twoTasks())
	require.NoError(t, err)
	assert.Equal(t, workflow.StatusPublished, w.Status)
}

func TestUpdateConflict(t *testing.T) {
	c, store := newTestClient(t)
	store.On("UpdateWorkflow", mock.Anything, mock.Anything).Return(nil, workflow.ErrWorkflowPublished)

	_, err := c.Update(context.Background(), "wf1", "Release", twoTasks())
	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 409, apiErr.Status)
	assert.Equal(t, workflow.ErrWorkflowPublished.Error(), apiErr.Message)
}

func TestLoad(t *testing.T) {
	c, store := newTestClient(t)
	store.On("GetWorkflow", mock.Anything, "wf1").Return(&workflow.PersistedWorkflow{
		ID: "wf1",
		Nodes: []workflow.PersistedNode{
			{ID: "A", Type: workflow.NodeTypeTask, Width: 300, Height: 80, Data: workflow.PersistedNodeData{
				Label: "Build", Type: workflow.NodeTypeTask, Config: workflow.RawPayload(`{"userIds":["u1"],"blockedBy":[],"blocking":[]}`),
			}},
			{ID: "B", Type: workflow.NodeTypeEnd, Data: workflow.PersistedNodeData{Label: "Done", Type: workflow.NodeTypeEnd}},
		},
		Edges: []workflow.PersistedEdge{
			{ID: "e1", Type: "default", Source: "A", Target: "B", Style: workflow.RawPayload(`{"stroke":"#000000","strokeWidth":3}`)},
		},
	}, nil)

	g, w, err := c.Load(context.Background(), "wf1")
	require.NoError(t, err)
	assert.Equal(t, "wf1", w.ID)
	require.Len(t, g.Nodes, 2)
	assert.Equal(t, []any{"u1"}, g.Nodes[0].Data.Config[workflow.ConfigUserIDs])
	require.NotNil(t, g.Nodes[0].Width)
	assert.Equal(t, 300.0, *g.Nodes[0].Width)
	assert.Nil(t, g.Nodes[1].Width)
	require.Len(t, g.Edges, 1)
	assert.Equal(t, &workflow.EdgeStyle{Stroke: "#000000", StrokeWidth: 3}, g.Edges[0].Style)
}

func TestLoadNotFound(t *testing.T) {
	c, store := newTestClient(t)
	store.On("GetWorkflow", mock.Anything, "missing").Return(nil, nil)

	_, _, err := c.Load(context.Background(), "missing")
	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 404, apiErr.Status)
}
