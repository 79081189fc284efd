package main

import (
	"context"
	"fmt"
	"log"
	"os"

	workflow "github.com/devHarshShah/swiftboard-frontend-sub001"
	"github.com/devHarshShah/swiftboard-frontend-sub001/internal/xjson"
	"github.com/devHarshShah/swiftboard-frontend-sub001/postgres"
)

func main() {
	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	pool, err := postgres.Connect(ctx, dbURL, postgres.PoolOptions{})
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer pool.Close()

	var store workflow.Store = postgres.New(pool)

	if err := store.CreateSchema(ctx); err != nil {
		log.Fatalf("schema: %v", err)
	}
	fmt.Println("schema created")

	// ── Editor graph ──────────────────────────────────────────────────
	// start -> design -> build -> end, with review also blocking build.
	graph := &workflow.WorkflowGraph{
		Nodes: []workflow.EditorNode{
			{ID: "start", Type: workflow.NodeTypeStart, Position: workflow.Position{X: 0, Y: 0},
				Data: workflow.NodeData{Label: "Start", Config: workflow.Config{}}},
			{ID: "design", Type: workflow.NodeTypeTask, Position: workflow.Position{X: 0, Y: 120},
				Data: workflow.NodeData{Label: "Design", Description: "Mockups", Config: workflow.Config{"userIds": []any{"u-42"}}}},
			{ID: "review", Type: workflow.NodeTypeTask, Position: workflow.Position{X: 260, Y: 120},
				Data: workflow.NodeData{Label: "Review", Description: "Design review", Config: workflow.Config{}}},
			{ID: "build", Type: workflow.NodeTypeTask, Position: workflow.Position{X: 0, Y: 240},
				Data: workflow.NodeData{Label: "Build", Config: workflow.Config{"estimate": 5}}},
			{ID: "end", Type: workflow.NodeTypeEnd, Position: workflow.Position{X: 0, Y: 360},
				Data: workflow.NodeData{Label: "Done", Config: workflow.Config{}}},
		},
		Edges: []workflow.EditorEdge{
			{ID: "e1", Source: "start", Target: "design"},
			{ID: "e2", Source: "design", Target: "build", Animated: true},
			{ID: "e3", Source: "review", Target: "build", Style: &workflow.EdgeStyle{Stroke: "#16a34a"}},
			{ID: "e4", Source: "build", Target: "end"},
		},
	}

	// ── Save as draft ─────────────────────────────────────────────────
	persisted, err := workflow.ToPersisted(graph)
	if err != nil {
		log.Fatalf("to persisted: %v", err)
	}
	persisted.ProjectID = "demo-project"
	persisted.Name = "Feature release"

	draft, err := store.CreateWorkflow(ctx, persisted)
	if err != nil {
		log.Fatalf("create workflow: %v", err)
	}
	fmt.Printf("\ndraft saved: %s (status %s)\n", draft.ID, draft.Status)
	printJSON(draft.Nodes[3])

	// ── Publish ───────────────────────────────────────────────────────
	published, err := store.PublishWorkflow(ctx, draft.ID)
	if err != nil {
		log.Fatalf("publish: %v", err)
	}
	fmt.Printf("\npublished version %d\n", published.Version)

	// ── Load back into the editor ─────────────────────────────────────
	loaded, err := store.GetWorkflow(ctx, draft.ID)
	if err != nil {
		log.Fatalf("get workflow: %v", err)
	}
	restored, err := workflow.FromPersisted(loaded)
	if err != nil {
		log.Fatalf("from persisted: %v", err)
	}
	fmt.Println("\nbuild node as the editor sees it:")
	printJSON(restored.Nodes[3])

	// ── Cleanup ───────────────────────────────────────────────────────
	if err := store.DeleteWorkflow(ctx, draft.ID); err != nil {
		log.Fatalf("delete: %v", err)
	}
	fmt.Println("\nworkflow deleted")
}

func printJSON(v any) {
	out, _ := xjson.MarshalIndent(v, "", "  ")
	fmt.Println(string(out))
}
