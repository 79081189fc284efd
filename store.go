package workflow

import (
	"context"
	"errors"
)

var (
	ErrWorkflowNotFound  = errors.New("workflow: workflow not found")
	ErrWorkflowPublished = errors.New("workflow: workflow is published and cannot be changed")
	ErrNodeNotFound      = errors.New("workflow: node not found")
	ErrEdgeNotFound      = errors.New("workflow: edge not found")
)

// Store defines the contract for persisting and retrieving workflows.
// Lookups return nil, nil when the record does not exist.
type Store interface {
	// Schema
	CreateSchema(ctx context.Context) error
	DropSchema(ctx context.Context) error

	// Workflows
	CreateWorkflow(ctx context.Context, w *PersistedWorkflow) (*PersistedWorkflow, error)
	GetWorkflow(ctx context.Context, workflowID string) (*PersistedWorkflow, error)
	UpdateWorkflow(ctx context.Context, w *PersistedWorkflow) (*PersistedWorkflow, error)
	PublishWorkflow(ctx context.Context, workflowID string) (*PersistedWorkflow, error)
	DeleteWorkflow(ctx context.Context, workflowID string) error
	ListWorkflows(ctx context.Context, projectID string) ([]PersistedWorkflow, error)

	// Nodes
	GetNode(ctx context.Context, workflowID, nodeID string) (*PersistedNode, error)
	UpdateNode(ctx context.Context, workflowID string, node *PersistedNode) error
	ListNodes(ctx context.Context, workflowID string) ([]PersistedNode, error)

	// Edges
	GetEdge(ctx context.Context, workflowID, edgeID string) (*PersistedEdge, error)
	ListEdges(ctx context.Context, workflowID string) ([]PersistedEdge, error)
}
