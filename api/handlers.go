package api

import (
	"github.com/gofiber/fiber/v3"

	workflow "github.com/devHarshShah/swiftboard-frontend-sub001"
)

// checkPersisted resolves the config and style payloads of an incoming
// workflow so malformed ones are rejected before they reach the store.
func checkPersisted(w *workflow.PersistedWorkflow) error {
	_, err := workflow.FromPersisted(w)
	recordTransform("from_persisted", err)
	return err
}

func (h *Handler) createWorkflow(c fiber.Ctx) error {
	var w workflow.PersistedWorkflow
	if err := c.Bind().JSON(&w); err != nil {
		return message(c, fiber.StatusBadRequest, "invalid body")
	}
	if err := checkPersisted(&w); err != nil {
		return h.fail(c, err)
	}

	created, err := h.store.CreateWorkflow(c.Context(), &w)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *Handler) transform(c fiber.Ctx) error {
	var g workflow.WorkflowGraph
	if err := c.Bind().JSON(&g); err != nil {
		return message(c, fiber.StatusBadRequest, "invalid body")
	}

	w, err := workflow.ToPersisted(&g)
	recordTransform("to_persisted", err)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(w)
}

// publishWorkflow saves the posted workflow under the project, creating it
// when it has no ID or is unknown, then publishes it.
func (h *Handler) publishWorkflow(c fiber.Ctx) error {
	var w workflow.PersistedWorkflow
	if err := c.Bind().JSON(&w); err != nil {
		return message(c, fiber.StatusBadRequest, "invalid body")
	}
	w.ProjectID = c.Params("projectId")
	if err := checkPersisted(&w); err != nil {
		return h.fail(c, err)
	}
	if err := workflow.ValidateBlocking(&w); err != nil {
		return h.fail(c, err)
	}

	ctx := c.Context()
	var existing *workflow.PersistedWorkflow
	if w.ID != "" {
		var err error
		if existing, err = h.store.GetWorkflow(ctx, w.ID); err != nil {
			return h.fail(c, err)
		}
	}
	if existing != nil && existing.ProjectID != "" && existing.ProjectID != w.ProjectID {
		return message(c, fiber.StatusConflict, "workflow belongs to another project")
	}

	var (
		saved *workflow.PersistedWorkflow
		err   error
	)
	if existing == nil {
		saved, err = h.store.CreateWorkflow(ctx, &w)
	} else {
		saved, err = h.store.UpdateWorkflow(ctx, &w)
	}
	if err != nil {
		return h.fail(c, err)
	}

	published, err := h.store.PublishWorkflow(ctx, saved.ID)
	if err != nil {
		return h.fail(c, err)
	}
	h.logger.Info("workflow published",
		"workflow_id", published.ID,
		"project_id", published.ProjectID,
		"version", published.Version)
	return c.JSON(published)
}

func (h *Handler) getWorkflow(c fiber.Ctx) error {
	w, err := h.store.GetWorkflow(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	if w == nil {
		return h.fail(c, workflow.ErrWorkflowNotFound)
	}
	return c.JSON(w)
}

func (h *Handler) getGraph(c fiber.Ctx) error {
	w, err := h.store.GetWorkflow(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	if w == nil {
		return h.fail(c, workflow.ErrWorkflowNotFound)
	}

	g, err := workflow.FromPersisted(w)
	recordTransform("from_persisted", err)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(g)
}

func (h *Handler) updateWorkflow(c fiber.Ctx) error {
	var w workflow.PersistedWorkflow
	if err := c.Bind().JSON(&w); err != nil {
		return message(c, fiber.StatusBadRequest, "invalid body")
	}
	w.ID = c.Params("id")
	if err := checkPersisted(&w); err != nil {
		return h.fail(c, err)
	}

	updated, err := h.store.UpdateWorkflow(c.Context(), &w)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(updated)
}

func (h *Handler) deleteWorkflow(c fiber.Ctx) error {
	if err := h.store.DeleteWorkflow(c.Context(), c.Params("id")); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) listWorkflows(c fiber.Ctx) error {
	list, err := h.store.ListWorkflows(c.Context(), c.Params("projectId"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(list)
}

func (h *Handler) listNodes(c fiber.Ctx) error {
	nodes, err := h.store.ListNodes(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(nodes)
}

func (h *Handler) getNode(c fiber.Ctx) error {
	n, err := h.store.GetNode(c.Context(), c.Params("id"), c.Params("nodeId"))
	if err != nil {
		return h.fail(c, err)
	}
	if n == nil {
		return h.fail(c, workflow.ErrNodeNotFound)
	}
	return c.JSON(n)
}

func (h *Handler) updateNode(c fiber.Ctx) error {
	var n workflow.PersistedNode
	if err := c.Bind().JSON(&n); err != nil {
		return message(c, fiber.StatusBadRequest, "invalid body")
	}
	n.ID = c.Params("nodeId")
	if _, err := n.Data.Config.Object(); err != nil {
		return h.fail(c, &workflow.MalformedPayloadError{Element: "node", ID: n.ID, Field: "config", Err: err})
	}

	if err := h.store.UpdateNode(c.Context(), c.Params("id"), &n); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) listEdges(c fiber.Ctx) error {
	edges, err := h.store.ListEdges(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(edges)
}

func (h *Handler) getEdge(c fiber.Ctx) error {
	e, err := h.store.GetEdge(c.Context(), c.Params("id"), c.Params("edgeId"))
	if err != nil {
		return h.fail(c, err)
	}
	if e == nil {
		return h.fail(c, workflow.ErrEdgeNotFound)
	}
	return c.JSON(e)
}
