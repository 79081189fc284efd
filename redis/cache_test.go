package redis

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	workflow "github.com/devHarshShah/swiftboard-frontend-sub001"
	"github.com/devHarshShah/swiftboard-frontend-sub001/internal/mocks"
)

func newTestCache(t *testing.T) (*Cache, *mocks.Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	store := &mocks.Store{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewCache(store, client, time.Minute, logger), store, mr
}

func storedWorkflow() *workflow.PersistedWorkflow {
	return &workflow.PersistedWorkflow{
		ID:        "wf1",
		ProjectID: "p1",
		Name:      "Release",
		Status:    workflow.StatusDraft,
		Nodes: []workflow.PersistedNode{
			{ID: "A", Type: workflow.NodeTypeTask, Width: 225, Height: 66, Data: workflow.PersistedNodeData{
				Label: "A", Type: workflow.NodeTypeTask, Config: workflow.RawPayload(`{"blocking":[],"blockedBy":[],"userIds":[]}`),
			}},
			{ID: "B", Type: workflow.NodeTypeEnd, Width: 225, Height: 66, Data: workflow.PersistedNodeData{
				Label: "B", Type: workflow.NodeTypeEnd, Config: workflow.RawPayload(`{}`),
			}},
		},
		Edges: []workflow.PersistedEdge{
			{ID: "e1", Type: "default", Source: "A", Target: "B", Style: workflow.RawPayload(`{"stroke":"#4f46e5","strokeWidth":2}`)},
		},
	}
}

func TestGetWorkflowReadThrough(t *testing.T) {
	cache, store, mr := newTestCache(t)
	ctx := context.Background()
	w := storedWorkflow()
	store.On("GetWorkflow", mock.Anything, "wf1").Return(w, nil).Once()

	first, err := cache.GetWorkflow(ctx, "wf1")
	require.NoError(t, err)
	assert.Equal(t, w, first)
	assert.True(t, mr.Exists(keyPrefix+"wf1"))
	assert.Equal(t, time.Minute, mr.TTL(keyPrefix+"wf1"))

	second, err := cache.GetWorkflow(ctx, "wf1")
	require.NoError(t, err)
	assert.Equal(t, w, second)

	store.AssertNumberOfCalls(t, "GetWorkflow", 1)
}

func TestGetWorkflowDoesNotCacheMisses(t *testing.T) {
	cache, store, mr := newTestCache(t)
	store.On("GetWorkflow", mock.Anything, "missing").Return(nil, nil)

	w, err := cache.GetWorkflow(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, w)
	assert.False(t, mr.Exists(keyPrefix+"missing"))
}

func TestGetWorkflowDropsUndecodableEntry(t *testing.T) {
	cache, store, mr := newTestCache(t)
	require.NoError(t, mr.Set(keyPrefix+"wf1", "not json"))
	store.On("GetWorkflow", mock.Anything, "wf1").Return(storedWorkflow(), nil).Once()

	w, err := cache.GetWorkflow(context.Background(), "wf1")
	require.NoError(t, err)
	assert.Equal(t, "wf1", w.ID)

	cached, err := mr.Get(keyPrefix + "wf1")
	require.NoError(t, err)
	assert.NotEqual(t, "not json", cached)
}

func TestGetWorkflowFallsBackWhenRedisIsDown(t *testing.T) {
	cache, store, mr := newTestCache(t)
	mr.Close()
	store.On("GetWorkflow", mock.Anything, "wf1").Return(storedWorkflow(), nil)

	w, err := cache.GetWorkflow(context.Background(), "wf1")
	require.NoError(t, err)
	assert.Equal(t, "wf1", w.ID)
}

func TestWritesInvalidate(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		setup func(store *mocks.Store)
		call  func(c *Cache) error
	}{
		{
			name: "create",
			setup: func(store *mocks.Store) {
				store.On("CreateWorkflow", mock.Anything, mock.Anything).Return(storedWorkflow(), nil)
			},
			call: func(c *Cache) error {
				_, err := c.CreateWorkflow(ctx, storedWorkflow())
				return err
			},
		},
		{
			name: "update",
			setup: func(store *mocks.Store) {
				store.On("UpdateWorkflow", mock.Anything, mock.Anything).Return(storedWorkflow(), nil)
			},
			call: func(c *Cache) error {
				_, err := c.UpdateWorkflow(ctx, storedWorkflow())
				return err
			},
		},
		{
			name: "publish",
			setup: func(store *mocks.Store) {
				store.On("PublishWorkflow", mock.Anything, "wf1").Return(storedWorkflow(), nil)
			},
			call: func(c *Cache) error {
				_, err := c.PublishWorkflow(ctx, "wf1")
				return err
			},
		},
		{
			name: "delete",
			setup: func(store *mocks.Store) {
				store.On("DeleteWorkflow", mock.Anything, "wf1").Return(nil)
			},
			call: func(c *Cache) error {
				return c.DeleteWorkflow(ctx, "wf1")
			},
		},
		{
			name: "update node",
			setup: func(store *mocks.Store) {
				store.On("UpdateNode", mock.Anything, "wf1", mock.Anything).Return(nil)
			},
			call: func(c *Cache) error {
				return c.UpdateNode(ctx, "wf1", &workflow.PersistedNode{ID: "A"})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache, store, mr := newTestCache(t)
			require.NoError(t, mr.Set(keyPrefix+"wf1", "{}"))
			tt.setup(store)

			require.NoError(t, tt.call(cache))
			assert.False(t, mr.Exists(keyPrefix+"wf1"))
			store.AssertExpectations(t)
		})
	}
}

func TestFailedWriteKeepsCache(t *testing.T) {
	cache, store, mr := newTestCache(t)
	require.NoError(t, mr.Set(keyPrefix+"wf1", "{}"))
	store.On("PublishWorkflow", mock.Anything, "wf1").Return(nil, workflow.ErrWorkflowPublished)

	_, err := cache.PublishWorkflow(context.Background(), "wf1")
	assert.True(t, errors.Is(err, workflow.ErrWorkflowPublished))
	assert.True(t, mr.Exists(keyPrefix+"wf1"))
}

func TestPassThroughReads(t *testing.T) {
	cache, store, _ := newTestCache(t)
	nodes := []workflow.PersistedNode{{ID: "A"}}
	store.On("ListNodes", mock.Anything, "wf1").Return(nodes, nil)

	got, err := cache.ListNodes(context.Background(), "wf1")
	require.NoError(t, err)
	assert.Equal(t, nodes, got)
}
