package postgres

import (
	"context"
	"fmt"

	workflow "github.com/devHarshShah/swiftboard-frontend-sub001"
)

const edgeColumns = `id, type, source, target, source_handle, target_handle, animated, style`

func insertEdge(ctx context.Context, q querier, workflowID string, seq int, e *workflow.PersistedEdge) error {
	style, err := payloadText(e.Style)
	if err != nil {
		return &workflow.MalformedPayloadError{Element: "edge", ID: e.ID, Field: "style", Err: err}
	}
	typ := e.Type
	if typ == "" {
		typ = workflow.DefaultEdgeType
	}
	_, err = q.Exec(ctx, `
		INSERT INTO workflow_edges (workflow_id, id, seq, type, source, target,
		                            source_handle, target_handle, animated, style)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		workflowID, e.ID, seq, typ, e.Source, e.Target, e.SourceHandle, e.TargetHandle, e.Animated, style,
	)
	if err != nil {
		return fmt.Errorf("workflow: insert edge %s: %w", e.ID, err)
	}
	return nil
}

func scanEdge(row scanner) (workflow.PersistedEdge, error) {
	var (
		e     workflow.PersistedEdge
		style string
	)
	err := row.Scan(&e.ID, &e.Type, &e.Source, &e.Target, &e.SourceHandle, &e.TargetHandle, &e.Animated, &style)
	if err != nil {
		return e, err
	}
	e.Style = workflow.RawPayload(style)
	return e, nil
}

// GetEdge fetches a single edge of a workflow.
// Returns nil, nil if not found.
func (s *PGStore) GetEdge(ctx context.Context, workflowID, edgeID string) (*workflow.PersistedEdge, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+edgeColumns+` FROM workflow_edges WHERE workflow_id = $1 AND id = $2`, workflowID, edgeID)
	e, err := scanEdge(row)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("workflow: get edge: %w", err)
	}
	return &e, nil
}

// ListEdges returns all edges of a workflow in editor order.
// Returns an empty slice (not nil) if none found.
func (s *PGStore) ListEdges(ctx context.Context, workflowID string) ([]workflow.PersistedEdge, error) {
	return listEdges(ctx, s.db, workflowID)
}

func listEdges(ctx context.Context, q querier, workflowID string) ([]workflow.PersistedEdge, error) {
	rows, err := q.Query(ctx,
		`SELECT `+edgeColumns+` FROM workflow_edges WHERE workflow_id = $1 ORDER BY seq`, workflowID)
	if err != nil {
		return nil, fmt.Errorf("workflow: list edges: %w", err)
	}
	defer rows.Close()

	edges := []workflow.PersistedEdge{}
	for rows.Next() {
		e, err := scanEdge(rows)
		if err != nil {
			return nil, fmt.Errorf("workflow: scan edge: %w", err)
		}
		edges = append(edges, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("workflow: rows edges: %w", err)
	}
	return edges, nil
}
