// ABOUTME: Dashboard and GraphViz MCP handlers
// ABOUTME: Provides dashboard_stats and generate_graph tools for agents
package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/harperreed/buildcrm/viz"
	"github.com/jmoiron/sqlx"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type VizHandlers struct {
	db *sqlx.DB
}

func NewVizHandlers(database *sqlx.DB) *VizHandlers {
	return &VizHandlers{db: database}
}

type DashboardStatsInput struct{}

func (h *VizHandlers) DashboardStats(ctx context.Context, request *mcp.CallToolRequest, _ DashboardStatsInput) (*mcp.CallToolResult, viz.DashboardStats, error) {
	stats, err := viz.GenerateDashboardStats(ctx, h.db)
	if err != nil {
		return nil, viz.DashboardStats{}, fmt.Errorf("failed to generate dashboard stats: %w", err)
	}
	return nil, *stats, nil
}

type GenerateGraphInput struct {
	Type       string `json:"type" jsonschema:"Graph type: dependencies or customer"`
	CustomerID int64  `json:"customer_id,omitempty" jsonschema:"Customer ID (required for customer graph)"`
}

type GenerateGraphOutput struct {
	GraphType string `json:"graph_type"`
	DOTSource string `json:"dot_source"`
	NodeCount int    `json:"node_count"`
	EdgeCount int    `json:"edge_count"`
}

func (h *VizHandlers) GenerateGraph(ctx context.Context, request *mcp.CallToolRequest, input GenerateGraphInput) (*mcp.CallToolResult, GenerateGraphOutput, error) {
	var dot string
	var err error

	switch input.Type {
	case "dependencies", "deps":
		dot, err = viz.GenerateDependencyGraph(ctx)
	case "customer":
		if input.CustomerID <= 0 {
			return nil, GenerateGraphOutput{}, fmt.Errorf("customer_id required for customer graph")
		}
		dot, err = viz.NewGraphGenerator(h.db).GenerateCustomerGraph(ctx, input.CustomerID)
	case "":
		return nil, GenerateGraphOutput{}, fmt.Errorf("type is required")
	default:
		return nil, GenerateGraphOutput{}, fmt.Errorf("unknown graph type: %s", input.Type)
	}
	if err != nil {
		return nil, GenerateGraphOutput{}, fmt.Errorf("failed to generate graph: %w", err)
	}

	// Count nodes and edges for stats
	edgeCount := strings.Count(dot, "->")
	nodeCount := strings.Count(dot, "[label=") - edgeCount
	if nodeCount < 0 {
		nodeCount = 0
	}

	return nil, GenerateGraphOutput{
		GraphType: input.Type,
		DOTSource: dot,
		NodeCount: nodeCount,
		EdgeCount: edgeCount,
	}, nil
}
