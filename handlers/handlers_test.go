// ABOUTME: Tests for the MCP tool handlers
// ABOUTME: Calls handler methods directly against a temp SQLite store
package handlers

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/harperreed/buildcrm/db"
	"github.com/harperreed/buildcrm/intake"
	"github.com/harperreed/buildcrm/logging"
	"github.com/harperreed/buildcrm/metrics"
	"github.com/harperreed/buildcrm/models"
	"github.com/jmoiron/sqlx"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	database, err := db.OpenDatabase(db.DriverSQLite, filepath.Join(t.TempDir(), "mcp.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func newLeadHandlers(database *sqlx.DB, policy models.TransitionPolicy) *LeadHandlers {
	m := metrics.New()
	return NewLeadHandlers(database, policy, intake.NewService(database, logging.Nop(), m), m)
}

func TestSubmitAndConvertLead(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()
	h := newLeadHandlers(database, models.PermissivePolicy{})

	_, submitted, err := h.SubmitLead(ctx, nil, SubmitLeadInput{Name: "Hal", Email: "hal@example.com", ProjectType: "Siding"})
	require.NoError(t, err)
	assert.Equal(t, "NEW", submitted.Status)
	assert.True(t, submitted.NotificationCreated)

	_, customer, err := h.ConvertLead(ctx, nil, ConvertLeadInput{ID: submitted.LeadID})
	require.NoError(t, err)
	assert.Equal(t, "Hal", customer.Name)
	assert.True(t, customer.IsActive)

	_, again, err := h.ConvertLead(ctx, nil, ConvertLeadInput{ID: submitted.LeadID})
	require.NoError(t, err)
	assert.Equal(t, customer.ID, again.ID)

	_, _, err = h.ConvertLead(ctx, nil, ConvertLeadInput{ID: 9999})
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestUpdateLeadStatusHandler(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()
	h := newLeadHandlers(database, models.StrictPolicy{})

	lead := &models.Lead{Name: "Ivy", Email: "ivy@example.com", Notes: "original"}
	require.NoError(t, db.CreateLead(ctx, database, lead))

	_, out, err := h.UpdateLeadStatus(ctx, nil, UpdateLeadStatusInput{ID: lead.ID, Status: "qualified", NextFollowUp: "2030-01-15"})
	require.NoError(t, err)
	assert.Equal(t, "QUALIFIED", out.Status)
	assert.Equal(t, "original", out.Notes)
	require.NotNil(t, out.NextFollowUp)
	assert.Equal(t, "2030-01-15T00:00:00Z", *out.NextFollowUp)
	assert.NotNil(t, out.LastContact)

	_, _, err = h.UpdateLeadStatus(ctx, nil, UpdateLeadStatusInput{ID: lead.ID, Status: "sometime"})
	assert.ErrorIs(t, err, models.ErrInvalidTransition)

	_, _, err = h.UpdateLeadStatus(ctx, nil, UpdateLeadStatusInput{ID: lead.ID, Status: "LOST", NextFollowUp: "soon"})
	assert.Error(t, err)

	_, _, err = h.UpdateLeadStatus(ctx, nil, UpdateLeadStatusInput{ID: lead.ID})
	assert.Error(t, err)
}

func TestFindLeadsHandler(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()
	h := newLeadHandlers(database, nil)

	require.NoError(t, db.CreateLead(ctx, database, &models.Lead{Name: "Jo", Email: "jo@example.com", ProjectType: "Fence"}))
	require.NoError(t, db.CreateLead(ctx, database, &models.Lead{Name: "Kim", Email: "kim@example.com", Status: models.LeadContacted}))

	_, byQuery, err := h.FindLeads(ctx, nil, FindLeadsInput{Query: "fence"})
	require.NoError(t, err)
	require.Len(t, byQuery.Leads, 1)
	assert.Equal(t, "Jo", byQuery.Leads[0].Name)

	_, byStatus, err := h.FindLeads(ctx, nil, FindLeadsInput{Status: "contacted"})
	require.NoError(t, err)
	require.Len(t, byStatus.Leads, 1)
	assert.Equal(t, "Kim", byStatus.Leads[0].Name)
}

func TestDeleteCustomerHandler(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()
	h := NewCustomerHandlers(database, metrics.New())

	customer := &models.Customer{Name: "Lou", Email: "lou@example.com", IsActive: true}
	require.NoError(t, db.CreateCustomer(ctx, database, customer))
	project := &models.Project{Name: "Shed", CustomerID: customer.ID}
	require.NoError(t, db.CreateProject(ctx, database, project))
	require.NoError(t, db.CreateInteraction(ctx, database, &models.Interaction{
		CustomerID: customer.ID, ProjectID: &project.ID, InteractionType: models.InteractionText,
	}))

	_, out, err := h.DeleteCustomer(ctx, nil, DeleteByIDInput{ID: customer.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(3), out.Total)
	assert.Equal(t, []string{"interactions", "projects", "customers"}, out.Order)

	_, _, err = h.DeleteCustomer(ctx, nil, DeleteByIDInput{ID: customer.ID})
	assert.ErrorIs(t, err, db.ErrNotFound)

	_, _, err = h.DeleteProject(ctx, nil, DeleteByIDInput{})
	assert.Error(t, err)
}

func TestDashboardStatsHandler(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()

	_, err := db.SeedSampleData(ctx, database)
	require.NoError(t, err)

	_, stats, err := NewVizHandlers(database).DashboardStats(ctx, nil, DashboardStatsInput{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Leads.Total)
	assert.Equal(t, int64(2), stats.Customers.Active)
	assert.Equal(t, int64(1), stats.Projects.Active)
}

func TestGenerateGraphHandler(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()
	h := NewVizHandlers(database)

	_, out, err := h.GenerateGraph(ctx, nil, GenerateGraphInput{Type: "dependencies"})
	require.NoError(t, err)
	assert.Contains(t, out.DOTSource, "vendor_projects")
	assert.Positive(t, out.EdgeCount)

	_, _, err = h.GenerateGraph(ctx, nil, GenerateGraphInput{Type: "customer"})
	assert.Error(t, err)

	_, _, err = h.GenerateGraph(ctx, nil, GenerateGraphInput{Type: "pipeline"})
	assert.Error(t, err)
}

func TestReadResource(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()

	_, err := db.SeedSampleData(ctx, database)
	require.NoError(t, err)
	h := NewResourceHandlers(database)

	result, err := h.ReadResource(ctx, &mcp.ReadResourceRequest{Params: &mcp.ReadResourceParams{URI: "crm://customers"}})
	require.NoError(t, err)
	require.Len(t, result.Contents, 1)

	var customers []models.Customer
	require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &customers))
	assert.Len(t, customers, 2)

	result, err = h.ReadResource(ctx, &mcp.ReadResourceRequest{Params: &mcp.ReadResourceParams{URI: "crm://customers/1"}})
	require.NoError(t, err)
	assert.Contains(t, result.Contents[0].Text, "Kitchen Remodel")

	_, err = h.ReadResource(ctx, &mcp.ReadResourceRequest{Params: &mcp.ReadResourceParams{URI: "crm://deals"}})
	assert.Error(t, err)

	_, err = h.ReadResource(ctx, &mcp.ReadResourceRequest{Params: &mcp.ReadResourceParams{URI: "http://customers"}})
	assert.Error(t, err)
}

func TestNewServerRegistersTools(t *testing.T) {
	database := setupTestDB(t)
	server := NewServer("test", Deps{DB: database, Log: logging.Nop(), Metrics: metrics.New(), Policy: models.PermissivePolicy{}})
	require.NotNil(t, server)
}
