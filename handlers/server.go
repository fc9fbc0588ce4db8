// ABOUTME: MCP server assembly
// ABOUTME: Registers every CRM tool and resource on a go-sdk server
package handlers

import (
	"github.com/harperreed/buildcrm/intake"
	"github.com/harperreed/buildcrm/logging"
	"github.com/harperreed/buildcrm/metrics"
	"github.com/harperreed/buildcrm/models"
	"github.com/jmoiron/sqlx"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Deps carries what the handlers need.
type Deps struct {
	DB      *sqlx.DB
	Log     *logging.Logger
	Metrics *metrics.Metrics
	Policy  models.TransitionPolicy
}

// NewServer builds an MCP server with all tools and resources registered.
func NewServer(version string, deps Deps) *mcp.Server {
	customerHandlers := NewCustomerHandlers(deps.DB, deps.Metrics)
	leadHandlers := NewLeadHandlers(deps.DB, deps.Policy, intake.NewService(deps.DB, deps.Log, deps.Metrics), deps.Metrics)
	vizHandlers := NewVizHandlers(deps.DB)
	resourceHandlers := NewResourceHandlers(deps.DB)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "buildcrm",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete_customer",
		Description: "Delete a customer together with its projects, interactions, notifications, vendor links, and converted leads",
	}, customerHandlers.DeleteCustomer)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete_project",
		Description: "Delete a project together with its interactions, notifications, and vendor links",
	}, customerHandlers.DeleteProject)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_lead_status",
		Description: "Change a lead's status, optionally updating notes and the next follow-up date",
	}, leadHandlers.UpdateLeadStatus)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "convert_lead",
		Description: "Convert a lead into a customer; converting twice returns the same customer",
	}, leadHandlers.ConvertLead)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "submit_lead",
		Description: "Record a new lead as if it came through the website contact form",
	}, leadHandlers.SubmitLead)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_leads",
		Description: "Search leads by name, email, or project type, or list them by status",
	}, leadHandlers.FindLeads)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "dashboard_stats",
		Description: "Lead, customer, and project counters",
	}, vizHandlers.DashboardStats)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_graph",
		Description: "Render a GraphViz DOT graph of table dependencies or of one customer's projects and vendors",
	}, vizHandlers.GenerateGraph)

	for _, r := range []*mcp.Resource{
		{URI: "crm://customers", Name: "customers", Description: "All customers", MIMEType: "application/json"},
		{URI: "crm://leads", Name: "leads", Description: "All leads, newest first", MIMEType: "application/json"},
		{URI: "crm://dashboard", Name: "dashboard", Description: "Dashboard counters", MIMEType: "application/json"},
	} {
		server.AddResource(r, resourceHandlers.ReadResource)
	}
	server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: "crm://customers/{id}",
		Name:        "customer",
		Description: "One customer with its projects",
		MIMEType:    "application/json",
	}, resourceHandlers.ReadResource)

	return server
}
