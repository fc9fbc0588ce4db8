// ABOUTME: Customer and project MCP tool handlers
// ABOUTME: Implements delete_customer and delete_project with full cascade reports
package handlers

import (
	"context"
	"fmt"

	"github.com/harperreed/buildcrm/db"
	"github.com/harperreed/buildcrm/metrics"
	"github.com/jmoiron/sqlx"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type CustomerHandlers struct {
	db      *sqlx.DB
	metrics *metrics.Metrics
}

func NewCustomerHandlers(database *sqlx.DB, m *metrics.Metrics) *CustomerHandlers {
	return &CustomerHandlers{db: database, metrics: m}
}

type DeleteByIDInput struct {
	ID int64 `json:"id" jsonschema:"ID of the record to delete (required)"`
}

type DeletionOutput struct {
	Root    string           `json:"root"`
	RootID  int64            `json:"root_id"`
	Order   []string         `json:"order"`
	Deleted map[string]int64 `json:"deleted"`
	Total   int64            `json:"total"`
}

func (h *CustomerHandlers) DeleteCustomer(ctx context.Context, request *mcp.CallToolRequest, input DeleteByIDInput) (*mcp.CallToolResult, DeletionOutput, error) {
	if input.ID <= 0 {
		return nil, DeletionOutput{}, fmt.Errorf("id is required")
	}

	report, err := db.DeleteCustomer(ctx, h.db, input.ID)
	if err != nil {
		return nil, DeletionOutput{}, fmt.Errorf("failed to delete customer: %w", err)
	}
	h.metrics.CascadeDeleted(report.Deleted)

	return nil, reportToOutput(report), nil
}

func (h *CustomerHandlers) DeleteProject(ctx context.Context, request *mcp.CallToolRequest, input DeleteByIDInput) (*mcp.CallToolResult, DeletionOutput, error) {
	if input.ID <= 0 {
		return nil, DeletionOutput{}, fmt.Errorf("id is required")
	}

	report, err := db.DeleteProject(ctx, h.db, input.ID)
	if err != nil {
		return nil, DeletionOutput{}, fmt.Errorf("failed to delete project: %w", err)
	}
	h.metrics.CascadeDeleted(report.Deleted)

	return nil, reportToOutput(report), nil
}

func reportToOutput(report *db.DeletionReport) DeletionOutput {
	return DeletionOutput{
		Root:    report.Root,
		RootID:  report.RootID,
		Order:   report.Order,
		Deleted: report.Deleted,
		Total:   report.Total(),
	}
}
