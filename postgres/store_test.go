package postgres_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	workflow "github.com/devHarshShah/swiftboard-frontend-sub001"
	"github.com/devHarshShah/swiftboard-frontend-sub001/postgres"
)

// newStore connects to DATABASE_URL and recreates the schema. Tests are
// skipped when no database is configured.
func newStore(t *testing.T) *postgres.PGStore {
	t.Helper()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL is not set")
	}

	ctx := context.Background()
	pool, err := postgres.Connect(ctx, dbURL, postgres.PoolOptions{MaxConns: 4})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	store := postgres.New(pool)
	require.NoError(t, store.DropSchema(ctx))
	require.NoError(t, store.CreateSchema(ctx))
	return store
}

func sampleWorkflow(t *testing.T, projectID string) *workflow.PersistedWorkflow {
	t.Helper()
	g := &workflow.WorkflowGraph{
		Nodes: []workflow.EditorNode{
			{ID: "start", Type: workflow.NodeTypeStart, Data: workflow.NodeData{Label: "Start"}},
			{ID: "design", Type: workflow.NodeTypeTask, Position: workflow.Position{X: 100, Y: 40},
				Data: workflow.NodeData{Label: "Design", Config: workflow.Config{"userIds": []any{"u1"}}}},
			{ID: "build", Type: workflow.NodeTypeTask, Position: workflow.Position{X: 300, Y: 40},
				Data: workflow.NodeData{Label: "Build"}},
		},
		Edges: []workflow.EditorEdge{
			{ID: "e1", Source: "start", Target: "design"},
			{ID: "e2", Source: "design", Target: "build", Animated: true},
		},
	}
	w, err := workflow.ToPersisted(g)
	require.NoError(t, err)
	w.ProjectID = projectID
	w.Name = "Release"
	return w
}

func TestCreateAndGetWorkflow(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	created, err := store.CreateWorkflow(ctx, sampleWorkflow(t, "p1"))
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, workflow.StatusDraft, created.Status)
	assert.Equal(t, 0, created.Version)

	loaded, err := store.GetWorkflow(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "p1", loaded.ProjectID)
	require.Len(t, loaded.Nodes, 3)
	require.Len(t, loaded.Edges, 2)
	assert.Equal(t, []string{"start", "design", "build"},
		[]string{loaded.Nodes[0].ID, loaded.Nodes[1].ID, loaded.Nodes[2].ID})

	g, err := workflow.FromPersisted(loaded)
	require.NoError(t, err)
	blocking := g.Nodes[1].Data.Config[workflow.ConfigBlocking].([]any)
	require.Len(t, blocking, 1)
	assert.Equal(t, "build", blocking[0].(map[string]any)["id"])
	assert.Equal(t, workflow.Position{X: 300, Y: 40}, g.Nodes[2].Position)
	assert.True(t, g.Edges[1].Animated)
}

func TestGetWorkflowNotFound(t *testing.T) {
	store := newStore(t)

	w, err := store.GetWorkflow(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, w)
}

func TestPublishFreezesWorkflow(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	created, err := store.CreateWorkflow(ctx, sampleWorkflow(t, "p1"))
	require.NoError(t, err)

	published, err := store.PublishWorkflow(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, workflow.StatusPublished, published.Status)
	assert.Equal(t, 1, published.Version)
	assert.NotNil(t, published.PublishedAt)

	_, err = store.PublishWorkflow(ctx, created.ID)
	assert.ErrorIs(t, err, workflow.ErrWorkflowPublished)

	_, err = store.UpdateWorkflow(ctx, sampleWorkflowWithID(t, created.ID))
	assert.ErrorIs(t, err, workflow.ErrWorkflowPublished)

	node, err := store.GetNode(ctx, created.ID, "build")
	require.NoError(t, err)
	node.Data.Label = "Ship"
	assert.ErrorIs(t, store.UpdateNode(ctx, created.ID, node), workflow.ErrWorkflowPublished)
}

func sampleWorkflowWithID(t *testing.T, id string) *workflow.PersistedWorkflow {
	w := sampleWorkflow(t, "")
	w.ID = id
	return w
}

func TestPublishRejectsBlockingCycle(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	w := sampleWorkflow(t, "p1")
	w.Edges = append(w.Edges, workflow.PersistedEdge{ID: "back", Source: "build", Target: "design"})
	created, err := store.CreateWorkflow(ctx, w)
	require.NoError(t, err)

	_, err = store.PublishWorkflow(ctx, created.ID)
	assert.ErrorIs(t, err, workflow.ErrBlockingCycle)
}

func TestUpdateWorkflowReplacesGraph(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	created, err := store.CreateWorkflow(ctx, sampleWorkflow(t, "p1"))
	require.NoError(t, err)

	update := sampleWorkflowWithID(t, created.ID)
	update.Nodes = update.Nodes[:2]
	update.Edges = update.Edges[:1]
	_, err = store.UpdateWorkflow(ctx, update)
	require.NoError(t, err)

	nodes, err := store.ListNodes(ctx, created.ID)
	require.NoError(t, err)
	assert.Len(t, nodes, 2)
	edges, err := store.ListEdges(ctx, created.ID)
	require.NoError(t, err)
	assert.Len(t, edges, 1)

	loaded, err := store.GetWorkflow(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "p1", loaded.ProjectID)

	_, err = store.UpdateWorkflow(ctx, sampleWorkflowWithID(t, "missing"))
	assert.ErrorIs(t, err, workflow.ErrWorkflowNotFound)
}

func TestCreateWorkflowRejectsMalformedConfig(t *testing.T) {
	store := newStore(t)

	w := sampleWorkflow(t, "p1")
	w.Nodes[0].Data.Config = workflow.RawPayload(`{not json`)
	_, err := store.CreateWorkflow(context.Background(), w)
	assert.ErrorIs(t, err, workflow.ErrMalformedPayload)
}

func TestNodeAndEdgeAccess(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	created, err := store.CreateWorkflow(ctx, sampleWorkflow(t, "p1"))
	require.NoError(t, err)

	node, err := store.GetNode(ctx, created.ID, "design")
	require.NoError(t, err)
	require.NotNil(t, node)
	node.Data.Config = workflow.ParsedPayload(map[string]any{"priority": "high"})
	require.NoError(t, store.UpdateNode(ctx, created.ID, node))

	node, err = store.GetNode(ctx, created.ID, "design")
	require.NoError(t, err)
	cfg, err := node.Data.Config.Object()
	require.NoError(t, err)
	assert.Equal(t, "high", cfg["priority"])

	renamed := *node
	renamed.Data.Label = "Renamed"
	assert.ErrorIs(t, store.UpdateNode(ctx, created.ID, &renamed), workflow.ErrInvalidGraph)

	retyped := *node
	retyped.Type = workflow.NodeTypeCondition
	retyped.Data.Type = workflow.NodeTypeCondition
	assert.ErrorIs(t, store.UpdateNode(ctx, created.ID, &retyped), workflow.ErrInvalidGraph)

	missing := &workflow.PersistedNode{ID: "ghost", Type: workflow.NodeTypeTask}
	assert.ErrorIs(t, store.UpdateNode(ctx, created.ID, missing), workflow.ErrNodeNotFound)

	e, err := store.GetEdge(ctx, created.ID, "e2")
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, "design", e.Source)

	e, err = store.GetEdge(ctx, created.ID, "nope")
	require.NoError(t, err)
	assert.Nil(t, e)
}

func TestListAndDeleteWorkflows(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	first, err := store.CreateWorkflow(ctx, sampleWorkflow(t, "p1"))
	require.NoError(t, err)
	_, err = store.CreateWorkflow(ctx, sampleWorkflow(t, "p2"))
	require.NoError(t, err)

	list, err := store.ListWorkflows(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, first.ID, list[0].ID)

	require.NoError(t, store.DeleteWorkflow(ctx, first.ID))
	list, err = store.ListWorkflows(ctx, "p1")
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, store.DeleteWorkflow(ctx, "missing"))
}
