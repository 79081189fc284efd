// Package redis provides a read-through Redis cache in front of a
// workflow.Store.
package redis

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	workflow "github.com/devHarshShah/swiftboard-frontend-sub001"
	"github.com/devHarshShah/swiftboard-frontend-sub001/internal/xjson"
)

const keyPrefix = "swiftboard:workflow:"

// DefaultTTL is used when NewCache is given a non-positive TTL.
const DefaultTTL = 10 * time.Minute

// Cache decorates a Store: GetWorkflow is served from Redis when possible and
// every successful write drops the cached copy. Redis failures are logged
// and the call falls through to the Store.
type Cache struct {
	workflow.Store
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewCache wraps store with a cache held in client.
func NewCache(store workflow.Store, client *redis.Client, ttl time.Duration, logger *slog.Logger) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{
		Store:  store,
		client: client,
		ttl:    ttl,
		logger: logger.With("component", "workflow-cache"),
	}
}

func (c *Cache) key(workflowID string) string {
	return keyPrefix + workflowID
}

func (c *Cache) GetWorkflow(ctx context.Context, workflowID string) (*workflow.PersistedWorkflow, error) {
	data, err := c.client.Get(ctx, c.key(workflowID)).Bytes()
	switch {
	case err == nil:
		var w workflow.PersistedWorkflow
		decodeErr := xjson.Unmarshal(data, &w)
		if decodeErr == nil {
			return &w, nil
		}
		c.logger.Warn("dropping undecodable cache entry", "workflow_id", workflowID, "error", decodeErr)
		c.invalidate(ctx, workflowID)
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("cache read failed", "workflow_id", workflowID, "error", err)
	}

	w, err := c.Store.GetWorkflow(ctx, workflowID)
	if err != nil || w == nil {
		return w, err
	}
	c.set(ctx, w)
	return w, nil
}

func (c *Cache) CreateWorkflow(ctx context.Context, w *workflow.PersistedWorkflow) (*workflow.PersistedWorkflow, error) {
	created, err := c.Store.CreateWorkflow(ctx, w)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx, created.ID)
	return created, nil
}

func (c *Cache) UpdateWorkflow(ctx context.Context, w *workflow.PersistedWorkflow) (*workflow.PersistedWorkflow, error) {
	updated, err := c.Store.UpdateWorkflow(ctx, w)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx, updated.ID)
	return updated, nil
}

func (c *Cache) PublishWorkflow(ctx context.Context, workflowID string) (*workflow.PersistedWorkflow, error) {
	published, err := c.Store.PublishWorkflow(ctx, workflowID)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx, workflowID)
	return published, nil
}

func (c *Cache) DeleteWorkflow(ctx context.Context, workflowID string) error {
	err := c.Store.DeleteWorkflow(ctx, workflowID)
	c.invalidate(ctx, workflowID)
	return err
}

func (c *Cache) UpdateNode(ctx context.Context, workflowID string, node *workflow.PersistedNode) error {
	if err := c.Store.UpdateNode(ctx, workflowID, node); err != nil {
		return err
	}
	c.invalidate(ctx, workflowID)
	return nil
}

func (c *Cache) set(ctx context.Context, w *workflow.PersistedWorkflow) {
	data, err := xjson.Marshal(w)
	if err != nil {
		c.logger.Warn("failed to encode workflow for cache", "workflow_id", w.ID, "error", err)
		return
	}
	if err := c.client.Set(ctx, c.key(w.ID), data, c.ttl).Err(); err != nil {
		c.logger.Warn("cache write failed", "workflow_id", w.ID, "error", err)
	}
}

func (c *Cache) invalidate(ctx context.Context, workflowID string) {
	if err := c.client.Del(ctx, c.key(workflowID)).Err(); err != nil {
		c.logger.Warn("cache invalidation failed", "workflow_id", workflowID, "error", err)
	}
}

// Connect parses a redis:// URL and pings the server.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}
