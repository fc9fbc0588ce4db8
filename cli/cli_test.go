// ABOUTME: Tests for CLI commands
// ABOUTME: Runs commands against a temp SQLite store and inspects captured output
package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/harperreed/buildcrm/db"
	"github.com/harperreed/buildcrm/models"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestCLI(t *testing.T) (*sqlx.DB, *bytes.Buffer) {
	t.Helper()
	database, err := db.OpenDatabase(db.DriverSQLite, filepath.Join(t.TempDir(), "cli.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	var buf bytes.Buffer
	stdout = &buf
	t.Cleanup(func() { stdout = os.Stdout })
	return database, &buf
}

func TestAddAndListCustomers(t *testing.T) {
	database, out := setupTestCLI(t)
	ctx := context.Background()

	err := AddCustomerCommand(ctx, database, []string{"--name", "Ann Mason", "--email", "ann@example.com", "--phone", "555-0101"})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "✓ Customer created: Ann Mason (ID: 1)")

	out.Reset()
	require.NoError(t, ListCustomersCommand(ctx, database, nil))
	assert.Contains(t, out.String(), "ann@example.com")
	assert.Contains(t, out.String(), "Total: 1 customer(s)")
}

func TestAddCustomerRequiresFlags(t *testing.T) {
	database, _ := setupTestCLI(t)
	ctx := context.Background()

	assert.Error(t, AddCustomerCommand(ctx, database, []string{"--email", "x@example.com"}))
	assert.Error(t, AddCustomerCommand(ctx, database, []string{"--name", "X"}))
}

func TestDeleteCustomerCommandCascades(t *testing.T) {
	database, out := setupTestCLI(t)
	ctx := context.Background()

	require.NoError(t, AddCustomerCommand(ctx, database, []string{"--name", "Bo", "--email", "bo@example.com"}))
	require.NoError(t, AddProjectCommand(ctx, database, []string{"--name", "Shed", "--customer", "1", "--start", "2025-05-01"}))

	out.Reset()
	require.NoError(t, DeleteCustomerCommand(ctx, database, []string{"1"}))
	assert.Contains(t, out.String(), "✓ Customer 1 deleted")
	assert.Contains(t, out.String(), "2 row(s) removed")

	err := DeleteCustomerCommand(ctx, database, []string{"1"})
	assert.ErrorIs(t, err, db.ErrNotFound)

	assert.Error(t, DeleteCustomerCommand(ctx, database, []string{"abc"}))
	assert.Error(t, DeleteCustomerCommand(ctx, database, nil))
}

func TestDeleteProjectCommand(t *testing.T) {
	database, out := setupTestCLI(t)
	ctx := context.Background()

	require.NoError(t, AddCustomerCommand(ctx, database, []string{"--name", "Cy", "--email", "cy@example.com"}))
	require.NoError(t, AddProjectCommand(ctx, database, []string{"--name", "Fence", "--customer", "1", "--status", "in_progress"}))

	out.Reset()
	require.NoError(t, DeleteProjectCommand(ctx, database, []string{"1"}))
	assert.Contains(t, out.String(), "✓ Project 1 deleted")

	_, err := db.GetCustomer(ctx, database, 1)
	assert.NoError(t, err, "customer survives project deletion")
}

func TestLeadCommands(t *testing.T) {
	database, out := setupTestCLI(t)
	ctx := context.Background()

	require.NoError(t, AddLeadCommand(ctx, database, []string{"--name", "Dee", "--email", "dee@example.com", "--project-type", "Kitchen"}))

	out.Reset()
	require.NoError(t, LeadStatusCommand(ctx, database, models.PermissivePolicy{}, []string{"--follow-up", "2025-06-01", "1", "contacted"}))
	assert.Contains(t, out.String(), "✓ Lead 1 is now CONTACTED")
	assert.Contains(t, out.String(), "Next follow-up: 2025-06-01")

	out.Reset()
	require.NoError(t, ListLeadsCommand(ctx, database, []string{"--status", "CONTACTED"}))
	assert.Contains(t, out.String(), "Dee")
	assert.Contains(t, out.String(), "2025-06-01")

	out.Reset()
	require.NoError(t, ListLeadsCommand(ctx, database, []string{"--query", "kitch"}))
	assert.Contains(t, out.String(), "Total: 1 lead(s)")

	out.Reset()
	require.NoError(t, ConvertLeadCommand(ctx, database, []string{"1"}))
	assert.Contains(t, out.String(), "converted to customer Dee")

	err := LeadStatusCommand(ctx, database, models.StrictPolicy{}, []string{"1", "NEW"})
	assert.ErrorIs(t, err, models.ErrInvalidTransition)

	assert.Error(t, LeadStatusCommand(ctx, database, nil, []string{"1"}))
}

func TestCheckAndClear(t *testing.T) {
	database, out := setupTestCLI(t)
	ctx := context.Background()

	require.NoError(t, SeedCommand(ctx, database, nil))
	assert.Contains(t, out.String(), "✓ Sample data loaded")

	out.Reset()
	require.NoError(t, SeedCommand(ctx, database, nil))
	assert.Contains(t, out.String(), "skipping sample data")

	out.Reset()
	require.NoError(t, CheckCommand(ctx, database, nil))
	assert.Contains(t, out.String(), "No dangling references")

	assert.Error(t, ClearDBCommand(ctx, database, nil))

	out.Reset()
	require.NoError(t, ClearDBCommand(ctx, database, []string{"--yes"}))
	assert.Contains(t, out.String(), "✓ Database cleared")

	n, err := db.CountCustomers(ctx, database, false)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestVizCommands(t *testing.T) {
	database, out := setupTestCLI(t)
	ctx := context.Background()

	require.NoError(t, VizDashboardCommand(ctx, database, nil))
	assert.Contains(t, out.String(), "BUILDCRM DASHBOARD")

	out.Reset()
	require.NoError(t, VizGraphDepsCommand(ctx, nil))
	assert.True(t, strings.Contains(out.String(), "vendor_projects"), out.String())

	require.NoError(t, AddCustomerCommand(ctx, database, []string{"--name", "Eve", "--email", "eve@example.com"}))
	file := filepath.Join(t.TempDir(), "customer.dot")
	require.NoError(t, VizGraphCustomerCommand(ctx, database, []string{"--output", file, strconv.Itoa(1)}))

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Eve")

	assert.ErrorIs(t, VizGraphCustomerCommand(ctx, database, []string{"99"}), db.ErrNotFound)
}
