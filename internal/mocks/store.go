// Package mocks holds testify mocks of the workflow interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	workflow "github.com/devHarshShah/swiftboard-frontend-sub001"
)

// Store is a mock implementation of workflow.Store.
type Store struct {
	mock.Mock
}

var _ workflow.Store = (*Store)(nil)

func (m *Store) CreateSchema(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *Store) DropSchema(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *Store) CreateWorkflow(ctx context.Context, w *workflow.PersistedWorkflow) (*workflow.PersistedWorkflow, error) {
	args := m.Called(ctx, w)
	return workflowArg(args, 0), args.Error(1)
}

func (m *Store) GetWorkflow(ctx context.Context, workflowID string) (*workflow.PersistedWorkflow, error) {
	args := m.Called(ctx, workflowID)
	return workflowArg(args, 0), args.Error(1)
}

func (m *Store) UpdateWorkflow(ctx context.Context, w *workflow.PersistedWorkflow) (*workflow.PersistedWorkflow, error) {
	args := m.Called(ctx, w)
	return workflowArg(args, 0), args.Error(1)
}

func (m *Store) PublishWorkflow(ctx context.Context, workflowID string) (*workflow.PersistedWorkflow, error) {
	args := m.Called(ctx, workflowID)
	return workflowArg(args, 0), args.Error(1)
}

func (m *Store) DeleteWorkflow(ctx context.Context, workflowID string) error {
	args := m.Called(ctx, workflowID)
	return args.Error(0)
}

func (m *Store) ListWorkflows(ctx context.Context, projectID string) ([]workflow.PersistedWorkflow, error) {
	args := m.Called(ctx, projectID)
	list, _ := args.Get(0).([]workflow.PersistedWorkflow)
	return list, args.Error(1)
}

func (m *Store) GetNode(ctx context.Context, workflowID, nodeID string) (*workflow.PersistedNode, error) {
	args := m.Called(ctx, workflowID, nodeID)
	n, _ := args.Get(0).(*workflow.PersistedNode)
	return n, args.Error(1)
}

func (m *Store) UpdateNode(ctx context.Context, workflowID string, node *workflow.PersistedNode) error {
	args := m.Called(ctx, workflowID, node)
	return args.Error(0)
}

func (m *Store) ListNodes(ctx context.Context, workflowID string) ([]workflow.PersistedNode, error) {
	args := m.Called(ctx, workflowID)
	list, _ := args.Get(0).([]workflow.PersistedNode)
	return list, args.Error(1)
}

func (m *Store) GetEdge(ctx context.Context, workflowID, edgeID string) (*workflow.PersistedEdge, error) {
	args := m.Called(ctx, workflowID, edgeID)
	e, _ := args.Get(0).(*workflow.PersistedEdge)
	return e, args.Error(1)
}

func (m *Store) ListEdges(ctx context.Context, workflowID string) ([]workflow.PersistedEdge, error) {
	args := m.Called(ctx, workflowID)
	list, _ := args.Get(0).([]workflow.PersistedEdge)
	return list, args.Error(1)
}

func workflowArg(args mock.Arguments, i int) *workflow.PersistedWorkflow {
	w, _ := args.Get(i).(*workflow.PersistedWorkflow)
	return w
}
