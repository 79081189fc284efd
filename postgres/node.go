package postgres

import (
	"context"
	"fmt"

	workflow "github.com/devHarshShah/swiftboard-frontend-sub001"
)

const nodeColumns = `id, type, position_x, position_y, width, height, selected, dragging, label, description, icon, config`

func insertNode(ctx context.Context, q querier, workflowID string, seq int, n *workflow.PersistedNode) error {
	config, err := payloadText(n.Data.Config)
	if err != nil {
		return &workflow.MalformedPayloadError{Element: "node", ID: n.ID, Field: "config", Err: err}
	}
	_, err = q.Exec(ctx, `
		INSERT INTO workflow_nodes (workflow_id, id, seq, type, position_x, position_y, width, height,
		                            selected, dragging, label, description, icon, config)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		workflowID, n.ID, seq, string(n.Type), n.PositionX, n.PositionY, n.Width, n.Height,
		n.Selected, n.Dragging, n.Data.Label, n.Data.Description, n.Data.Icon, config,
	)
	if err != nil {
		return fmt.Errorf("workflow: insert node %s: %w", n.ID, err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanNode(row scanner) (workflow.PersistedNode, error) {
	var (
		n      workflow.PersistedNode
		typ    string
		config string
	)
	err := row.Scan(&n.ID, &typ, &n.PositionX, &n.PositionY, &n.Width, &n.Height,
		&n.Selected, &n.Dragging, &n.Data.Label, &n.Data.Description, &n.Data.Icon, &config)
	if err != nil {
		return n, err
	}
	n.Type = workflow.NodeType(typ)
	n.Data.Type = n.Type
	n.PositionAbsoluteX, n.PositionAbsoluteY = n.PositionX, n.PositionY
	n.Data.Config = workflow.RawPayload(config)
	return n, nil
}

// GetNode fetches a single node of a workflow.
// Returns nil, nil if not found.
func (s *PGStore) GetNode(ctx context.Context, workflowID, nodeID string) (*workflow.PersistedNode, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+nodeColumns+` FROM workflow_nodes WHERE workflow_id = $1 AND id = $2`, workflowID, nodeID)
	n, err := scanNode(row)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("workflow: get node: %w", err)
	}
	return &n, nil
}

// UpdateNode overwrites a node of a draft workflow in place; its position in
// the node order is kept. Other tasks store this node's label and description
// in their blockedBy/blocking lists, so a task's type, label and description
// only change through a whole-graph save.
// Returns ErrNodeNotFound, ErrWorkflowNotFound, ErrWorkflowPublished or a
// *ValidationError.
func (s *PGStore) UpdateNode(ctx context.Context, workflowID string, node *workflow.PersistedNode) error {
	if !node.Type.Valid() {
		return &workflow.ValidationError{ID: node.ID, Reason: "unknown node type on node"}
	}
	if node.Data.Type != "" && node.Data.Type != node.Type {
		return &workflow.ValidationError{ID: node.ID, Reason: "data type differs from node type on node"}
	}
	if _, err := node.Data.Config.Object(); err != nil {
		return &workflow.MalformedPayloadError{Element: "node", ID: node.ID, Field: "config", Err: err}
	}
	config, err := payloadText(node.Data.Config)
	if err != nil {
		return &workflow.MalformedPayloadError{Element: "node", ID: node.ID, Field: "config", Err: err}
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("workflow: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := draftOnly(ctx, tx, workflowID); err != nil {
		return err
	}

	var typ, label, description string
	err = tx.QueryRow(ctx, `
		SELECT type, label, description FROM workflow_nodes
		WHERE workflow_id = $1 AND id = $2 FOR UPDATE`,
		workflowID, node.ID,
	).Scan(&typ, &label, &description)
	if err != nil {
		if isNoRows(err) {
			return workflow.ErrNodeNotFound
		}
		return fmt.Errorf("workflow: lock node: %w", err)
	}
	if stale(workflow.NodeType(typ), label, description, node) {
		return &workflow.ValidationError{ID: node.ID, Reason: "task type, label or description changed outside a graph save on node"}
	}

	ct, err := tx.Exec(ctx, `
		UPDATE workflow_nodes
		SET type = $3, position_x = $4, position_y = $5, width = $6, height = $7,
		    selected = $8, dragging = $9, label = $10, description = $11, icon = $12, config = $13
		WHERE workflow_id = $1 AND id = $2`,
		workflowID, node.ID, string(node.Type), node.PositionX, node.PositionY, node.Width, node.Height,
		node.Selected, node.Dragging, node.Data.Label, node.Data.Description, node.Data.Icon, config,
	)
	if err != nil {
		return fmt.Errorf("workflow: update node: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return workflow.ErrNodeNotFound
	}

	if _, err := tx.Exec(ctx, `UPDATE workflows SET updated_at = NOW() WHERE id = $1`, workflowID); err != nil {
		return fmt.Errorf("workflow: touch workflow: %w", err)
	}
	return tx.Commit(ctx)
}

// stale reports whether replacing a node stored with typ, label and
// description by n would leave derived task relationships out of date.
func stale(typ workflow.NodeType, label, description string, n *workflow.PersistedNode) bool {
	if typ != workflow.NodeTypeTask && n.Type != workflow.NodeTypeTask {
		return false
	}
	return typ != n.Type || label != n.Data.Label || description != n.Data.Description
}

// ListNodes returns all nodes of a workflow in editor order.
// Returns an empty slice (not nil) if none found.
func (s *PGStore) ListNodes(ctx context.Context, workflowID string) ([]workflow.PersistedNode, error) {
	return listNodes(ctx, s.db, workflowID)
}

func listNodes(ctx context.Context, q querier, workflowID string) ([]workflow.PersistedNode, error) {
	rows, err := q.Query(ctx,
		`SELECT `+nodeColumns+` FROM workflow_nodes WHERE workflow_id = $1 ORDER BY seq`, workflowID)
	if err != nil {
		return nil, fmt.Errorf("workflow: list nodes: %w", err)
	}
	defer rows.Close()

	nodes := []workflow.PersistedNode{}
	for rows.Next() {
		n, err := scanNode(rows)
		if err != nil {
			return nil, fmt.Errorf("workflow: scan node: %w", err)
		}
		nodes = append(nodes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("workflow: rows nodes: %w", err)
	}
	return nodes, nil
}

// draftOnly locks the workflow row and fails unless it is a draft.
func draftOnly(ctx context.Context, q querier, workflowID string) error {
	var status string
	err := q.QueryRow(ctx, `SELECT status FROM workflows WHERE id = $1 FOR UPDATE`, workflowID).Scan(&status)
	if err != nil {
		if isNoRows(err) {
			return workflow.ErrWorkflowNotFound
		}
		return fmt.Errorf("workflow: lock workflow: %w", err)
	}
	if workflow.Status(status) == workflow.StatusPublished {
		return workflow.ErrWorkflowPublished
	}
	return nil
}
