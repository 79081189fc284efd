package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	workflow "github.com/devHarshShah/swiftboard-frontend-sub001"
)

// querier is satisfied by both the pool and a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const workflowColumns = `id, project_id, name, status, version, created_at, updated_at, published_at`

// CreateWorkflow saves a workflow as a draft, replacing any draft stored
// under the same ID. Workflows, nodes and edges without IDs get UUIDs.
// Returns ErrWorkflowPublished if the ID belongs to a published workflow.
func (s *PGStore) CreateWorkflow(ctx context.Context, w *workflow.PersistedWorkflow) (*workflow.PersistedWorkflow, error) {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	assignIDs(w)
	if _, err := workflow.FromPersisted(w); err != nil {
		return nil, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("workflow: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `
		INSERT INTO workflows (id, project_id, name) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE
		    SET project_id = EXCLUDED.project_id, name = EXCLUDED.name, updated_at = NOW()
		    WHERE workflows.status = 'draft'
		RETURNING `+workflowColumns,
		w.ID, w.ProjectID, w.Name,
	)
	if err := scanHeader(row, w); err != nil {
		if isNoRows(err) {
			return nil, workflow.ErrWorkflowPublished
		}
		return nil, fmt.Errorf("workflow: upsert workflow: %w", err)
	}

	if err := writeGraph(ctx, tx, w); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("workflow: commit: %w", err)
	}
	return w, nil
}

// GetWorkflow retrieves a full workflow (header, nodes and edges) by its ID.
// Returns nil, nil if not found.
func (s *PGStore) GetWorkflow(ctx context.Context, workflowID string) (*workflow.PersistedWorkflow, error) {
	w := &workflow.PersistedWorkflow{}
	row := s.db.QueryRow(ctx, `SELECT `+workflowColumns+` FROM workflows WHERE id = $1`, workflowID)
	if err := scanHeader(row, w); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("workflow: get workflow: %w", err)
	}

	nodes, err := listNodes(ctx, s.db, workflowID)
	if err != nil {
		return nil, err
	}
	edges, err := listEdges(ctx, s.db, workflowID)
	if err != nil {
		return nil, err
	}
	w.Nodes, w.Edges = nodes, edges
	return w, nil
}

// UpdateWorkflow replaces the graph of an existing draft. Empty project ID
// and name keep their stored values.
// Returns ErrWorkflowNotFound or ErrWorkflowPublished.
func (s *PGStore) UpdateWorkflow(ctx context.Context, w *workflow.PersistedWorkflow) (*workflow.PersistedWorkflow, error) {
	assignIDs(w)
	if _, err := workflow.FromPersisted(w); err != nil {
		return nil, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("workflow: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := draftOnly(ctx, tx, w.ID); err != nil {
		return nil, err
	}

	row := tx.QueryRow(ctx, `
		UPDATE workflows
		SET project_id = COALESCE(NULLIF($2, ''), project_id),
		    name = COALESCE(NULLIF($3, ''), name),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING `+workflowColumns,
		w.ID, w.ProjectID, w.Name,
	)
	if err := scanHeader(row, w); err != nil {
		return nil, fmt.Errorf("workflow: update workflow: %w", err)
	}

	if err := writeGraph(ctx, tx, w); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("workflow: commit: %w", err)
	}
	return w, nil
}

// PublishWorkflow freezes a draft: it checks that task blocking edges are
// acyclic, bumps the version and stamps published_at.
// Returns ErrWorkflowNotFound, ErrWorkflowPublished or ErrBlockingCycle.
func (s *PGStore) PublishWorkflow(ctx context.Context, workflowID string) (*workflow.PersistedWorkflow, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("workflow: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := draftOnly(ctx, tx, workflowID); err != nil {
		return nil, err
	}

	w := &workflow.PersistedWorkflow{ID: workflowID}
	if w.Nodes, err = listNodes(ctx, tx, workflowID); err != nil {
		return nil, err
	}
	if w.Edges, err = listEdges(ctx, tx, workflowID); err != nil {
		return nil, err
	}
	if err := workflow.ValidateBlocking(w); err != nil {
		return nil, err
	}

	row := tx.QueryRow(ctx, `
		UPDATE workflows
		SET status = 'published', version = version + 1, published_at = NOW(), updated_at = NOW()
		WHERE id = $1
		RETURNING `+workflowColumns,
		workflowID,
	)
	if err := scanHeader(row, w); err != nil {
		return nil, fmt.Errorf("workflow: publish workflow: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("workflow: commit: %w", err)
	}
	return w, nil
}

// DeleteWorkflow removes a workflow with its nodes and edges.
// No error if the workflow doesn't exist.
func (s *PGStore) DeleteWorkflow(ctx context.Context, workflowID string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM workflows WHERE id = $1`, workflowID); err != nil {
		return fmt.Errorf("workflow: delete workflow: %w", err)
	}
	return nil
}

// ListWorkflows returns the headers (no nodes or edges) of a project's
// workflows, oldest first. Returns an empty slice (not nil) if none found.
func (s *PGStore) ListWorkflows(ctx context.Context, projectID string) ([]workflow.PersistedWorkflow, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+workflowColumns+` FROM workflows WHERE project_id = $1 ORDER BY created_at, id`, projectID)
	if err != nil {
		return nil, fmt.Errorf("workflow: list workflows: %w", err)
	}
	defer rows.Close()

	workflows := []workflow.PersistedWorkflow{}
	for rows.Next() {
		var w workflow.PersistedWorkflow
		if err := scanHeader(rows, &w); err != nil {
			return nil, fmt.Errorf("workflow: scan workflow: %w", err)
		}
		workflows = append(workflows, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("workflow: rows workflows: %w", err)
	}
	return workflows, nil
}

// scanHeader reads a row selected with workflowColumns into w.
func scanHeader(row scanner, w *workflow.PersistedWorkflow) error {
	var (
		status             string
		createdAt, updated time.Time
	)
	if err := row.Scan(&w.ID, &w.ProjectID, &w.Name, &status, &w.Version, &createdAt, &updated, &w.PublishedAt); err != nil {
		return err
	}
	w.Status = workflow.Status(status)
	w.CreatedAt = &createdAt
	w.UpdatedAt = &updated
	return nil
}

// writeGraph replaces the stored nodes and edges of w inside tx.
func writeGraph(ctx context.Context, tx pgx.Tx, w *workflow.PersistedWorkflow) error {
	// Edges go with their nodes through ON DELETE CASCADE.
	if _, err := tx.Exec(ctx, `DELETE FROM workflow_nodes WHERE workflow_id = $1`, w.ID); err != nil {
		return fmt.Errorf("workflow: delete nodes: %w", err)
	}

	for i, n := range w.Nodes {
		if err := insertNode(ctx, tx, w.ID, i, &n); err != nil {
			return err
		}
	}
	for i, e := range w.Edges {
		if err := insertEdge(ctx, tx, w.ID, i, &e); err != nil {
			return err
		}
	}
	return nil
}

// assignIDs fills in missing node and edge IDs.
func assignIDs(w *workflow.PersistedWorkflow) {
	for i := range w.Nodes {
		if w.Nodes[i].ID == "" {
			w.Nodes[i].ID = uuid.NewString()
		}
	}
	for i := range w.Edges {
		if w.Edges[i].ID == "" {
			w.Edges[i].ID = uuid.NewString()
		}
	}
}

// payloadText renders a payload for a JSONB column.
func payloadText(p workflow.Payload) (string, error) {
	text, err := p.Text()
	if err != nil {
		return "", err
	}
	if text == "" {
		return "{}", nil
	}
	return text, nil
}
