package db

import (
	"context"
	"fmt"
	"testing"

	"github.com/harperreed/buildcrm/models"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

type customerFixture struct {
	customer *models.Customer
	projects []*models.Project
	vendor   *models.Vendor
	lead     *models.Lead
}

// buildCustomerGraph creates a customer reached through lead conversion, with
// projects, interactions, notifications, and vendor links hanging off it.
func buildCustomerGraph(t *testing.T, db *sqlx.DB, tag string) *customerFixture {
	t.Helper()
	ctx := context.Background()

	lead := &models.Lead{Name: "Lead " + tag, Email: tag + "@example.com", Source: "Referral"}
	require.NoError(t, CreateLead(ctx, db, lead))
	customer, _, err := ConvertLeadToCustomer(ctx, db, lead.ID)
	require.NoError(t, err)

	vendor := &models.Vendor{Name: "Vendor " + tag, Email: "vendor-" + tag + "@example.com", IsActive: true}
	require.NoError(t, CreateVendor(ctx, db, vendor))

	fx := &customerFixture{customer: customer, vendor: vendor, lead: lead}
	for i := 0; i < 2; i++ {
		p := createTestProject(t, db, customer.ID, fmt.Sprintf("%s project %d", tag, i), models.ProjectInProgress)
		fx.projects = append(fx.projects, p)

		require.NoError(t, CreateInteraction(ctx, db, &models.Interaction{
			CustomerID: customer.ID, ProjectID: &p.ID, InteractionType: models.InteractionMeeting,
		}))
		require.NoError(t, CreateNotification(ctx, db, &models.Notification{
			ProjectID: &p.ID, Type: models.NotificationProjectMilestone, Title: "Milestone " + tag,
		}))
		require.NoError(t, LinkVendorProject(ctx, db, &models.VendorProject{
			VendorID: vendor.ID, ProjectID: p.ID, Role: "framing",
		}))
	}

	require.NoError(t, CreateInteraction(ctx, db, &models.Interaction{
		CustomerID: customer.ID, InteractionType: models.InteractionPhoneCall,
	}))
	require.NoError(t, CreateNotification(ctx, db, &models.Notification{
		CustomerID: &customer.ID, Type: models.NotificationFollowUp, Title: "Follow up " + tag,
	}))
	return fx
}

func tableCounts(t *testing.T, db *sqlx.DB) map[string]int64 {
	t.Helper()
	counts := map[string]int64{}
	for _, table := range Tables() {
		var n int64
		require.NoError(t, db.Get(&n, "SELECT COUNT(*) FROM "+table))
		counts[table] = n
	}
	return counts
}

func requireNoDangling(t *testing.T, db *sqlx.DB) {
	t.Helper()
	refs, err := DanglingReferences(context.Background(), db)
	require.NoError(t, err)
	require.Len(t, refs, len(Graph))
	for _, ref := range refs {
		assert.Zero(t, ref.Count, "dangling rows in %s.%s", ref.Edge.Table, ref.Edge.Column)
	}
}

func TestDeletionOrder(t *testing.T) {
	order, err := DeletionOrder([]string{"customers", "projects", "interactions", "notifications", "vendor_projects", "leads"})
	require.NoError(t, err)
	assert.Equal(t, []string{"interactions", "leads", "notifications", "vendor_projects", "projects", "customers"}, order)

	order, err = DeletionOrder([]string{"projects", "interactions", "notifications", "vendor_projects"})
	require.NoError(t, err)
	assert.Equal(t, []string{"interactions", "notifications", "vendor_projects", "projects"}, order)

	order, err = DeletionOrder(Tables())
	require.NoError(t, err)
	assert.Equal(t, []string{"interactions", "leads", "notifications", "vendor_projects", "projects", "customers", "vendors"}, order)
}

func TestDeleteCustomerCascades(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	target := buildCustomerGraph(t, db, "target")
	keep := buildCustomerGraph(t, db, "keep")
	before := tableCounts(t, db)

	report, err := DeleteCustomer(ctx, db, target.customer.ID)
	require.NoError(t, err)

	assert.Equal(t, "customers", report.Root)
	assert.Equal(t, target.customer.ID, report.RootID)
	assert.Equal(t, int64(1), report.Deleted["customers"])
	assert.Equal(t, int64(2), report.Deleted["projects"])
	assert.Equal(t, int64(3), report.Deleted["interactions"])
	assert.Equal(t, int64(3), report.Deleted["notifications"])
	assert.Equal(t, int64(2), report.Deleted["vendor_projects"])
	assert.Equal(t, int64(1), report.Deleted["leads"])
	assert.Equal(t, int64(12), report.Total())
	assert.Equal(t, "customers", report.Order[len(report.Order)-1])

	after := tableCounts(t, db)
	assert.Equal(t, before["customers"]-1, after["customers"])
	assert.Equal(t, before["vendors"], after["vendors"], "vendors are never cascaded")

	requireNoDangling(t, db)

	_, err = GetCustomer(ctx, db, target.customer.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = GetLead(ctx, db, target.lead.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	detail, err := GetCustomerWithProjects(ctx, db, keep.customer.ID)
	require.NoError(t, err)
	assert.Len(t, detail.Projects, 2)
	interactions, err := ListCustomerInteractions(ctx, db, keep.customer.ID, 0, 10)
	require.NoError(t, err)
	assert.Len(t, interactions, 3)
}

func TestDeleteCustomerNotFound(t *testing.T) {
	db := setupTestDB(t)
	buildCustomerGraph(t, db, "only")
	before := tableCounts(t, db)

	_, err := DeleteCustomer(context.Background(), db, 424242)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, before, tableCounts(t, db), "no writes on a missing customer")
}

func TestDeleteCustomerRollsBack(t *testing.T) {
	db := setupTestDB(t)
	fx := buildCustomerGraph(t, db, "guarded")

	_, err := db.Exec(`
		CREATE TRIGGER block_customer_delete BEFORE DELETE ON customers
		BEGIN
			SELECT RAISE(ABORT, 'customer delete blocked');
		END
	`)
	require.NoError(t, err)
	before := tableCounts(t, db)

	_, err = DeleteCustomer(context.Background(), db, fx.customer.ID)
	assert.ErrorIs(t, err, ErrIntegrity)
	assert.Equal(t, before, tableCounts(t, db), "partial cascade must be rolled back")
}

func TestDeleteProjectCascades(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	fx := buildCustomerGraph(t, db, "proj")
	gone := fx.projects[0]

	report, err := DeleteProject(ctx, db, gone.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), report.Deleted["projects"])
	assert.Equal(t, int64(1), report.Deleted["interactions"])
	assert.Equal(t, int64(1), report.Deleted["notifications"])
	assert.Equal(t, int64(1), report.Deleted["vendor_projects"])
	assert.NotContains(t, report.Deleted, "customers")

	_, err = GetCustomer(ctx, db, fx.customer.ID)
	require.NoError(t, err, "owning customer survives")
	requireNoDangling(t, db)

	_, err = DeleteProject(ctx, db, gone.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestConcurrentCustomerDeletes(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	var doomed, kept []*customerFixture
	for i := 0; i < 4; i++ {
		doomed = append(doomed, buildCustomerGraph(t, db, fmt.Sprintf("doomed%d", i)))
		kept = append(kept, buildCustomerGraph(t, db, fmt.Sprintf("kept%d", i)))
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, fx := range doomed {
		id := fx.customer.ID
		g.Go(func() error {
			_, err := DeleteCustomer(gctx, db, id)
			return err
		})
	}
	require.NoError(t, g.Wait())

	for _, fx := range kept {
		detail, err := GetCustomerWithProjects(ctx, db, fx.customer.ID)
		require.NoError(t, err)
		assert.Len(t, detail.Projects, 2)
	}
	n, err := CountCustomers(ctx, db, false)
	require.NoError(t, err)
	assert.Equal(t, int64(len(kept)), n)
	requireNoDangling(t, db)
}

func TestDanglingReferencesDetectsOrphans(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	// Single connection, so the pragma applies to the statements below
	_, err := db.Exec("PRAGMA foreign_keys = OFF")
	require.NoError(t, err)
	_, err = db.Exec("INSERT INTO projects (name, customer_id, created_at) VALUES ('Orphan', 777, CURRENT_TIMESTAMP)")
	require.NoError(t, err)
	_, err = db.Exec("PRAGMA foreign_keys = ON")
	require.NoError(t, err)

	refs, err := DanglingReferences(ctx, db)
	require.NoError(t, err)

	found := false
	for _, ref := range refs {
		if ref.Edge.Table == "projects" && ref.Edge.Column == "customer_id" {
			found = true
			assert.Equal(t, int64(1), ref.Count)
		} else {
			assert.Zero(t, ref.Count)
		}
	}
	assert.True(t, found)
}

func TestClearAll(t *testing.T) {
	db := setupTestDB(t)
	buildCustomerGraph(t, db, "a")
	buildCustomerGraph(t, db, "b")

	report, err := ClearAll(context.Background(), db)
	require.NoError(t, err)
	assert.Equal(t, int64(2), report.Deleted["vendors"])

	for table, n := range tableCounts(t, db) {
		assert.Zero(t, n, "%s should be empty", table)
	}
}
