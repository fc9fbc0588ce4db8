// ABOUTME: MCP resource handlers for exposing CRM data
// ABOUTME: Provides read-only JSON views of customers, leads, and the dashboard via crm:// URIs
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/harperreed/buildcrm/db"
	"github.com/harperreed/buildcrm/viz"
	"github.com/jmoiron/sqlx"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const resourceListLimit = 1000

type ResourceHandlers struct {
	db *sqlx.DB
}

func NewResourceHandlers(database *sqlx.DB) *ResourceHandlers {
	return &ResourceHandlers{db: database}
}

// ReadResource handles resource read requests
func (h *ResourceHandlers) ReadResource(ctx context.Context, request *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := request.Params.URI
	if !strings.HasPrefix(uri, "crm://") {
		return nil, fmt.Errorf("invalid URI scheme: expected crm://")
	}

	parts := strings.Split(strings.TrimPrefix(uri, "crm://"), "/")

	var payload interface{}
	var err error
	switch parts[0] {
	case "customers":
		if len(parts) == 1 {
			payload, err = db.ListCustomers(ctx, h.db, 0, resourceListLimit)
			break
		}
		id, perr := strconv.ParseInt(parts[1], 10, 64)
		if perr != nil {
			return nil, fmt.Errorf("invalid customer id: %s", parts[1])
		}
		payload, err = db.GetCustomerWithProjects(ctx, h.db, id)

	case "leads":
		payload, err = db.ListLeads(ctx, h.db, "", 0, resourceListLimit)

	case "dashboard":
		payload, err = viz.GenerateDashboardStats(ctx, h.db)

	default:
		return nil, fmt.Errorf("unknown resource: %s", parts[0])
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", uri, err)
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resource: %w", err)
	}

	return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{
		{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}}, nil
}
