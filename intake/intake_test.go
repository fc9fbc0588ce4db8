package intake

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/harperreed/buildcrm/db"
	"github.com/harperreed/buildcrm/logging"
	"github.com/harperreed/buildcrm/metrics"
	"github.com/harperreed/buildcrm/models"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	database, err := db.OpenDatabase(db.DriverSQLite, filepath.Join(t.TempDir(), "intake.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func TestSubmitWebsiteForm(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()
	svc := NewService(database, logging.Nop(), metrics.New())

	lead, err := svc.SubmitWebsiteForm(ctx, WebsiteForm{
		Name:        "Dana",
		Email:       "dana@example.com",
		Phone:       "555-2222",
		ProjectType: "Basement",
		Message:     "Need a finished basement",
	})
	require.NoError(t, err)
	assert.Equal(t, models.LeadNew, lead.Status)
	assert.Equal(t, DefaultSource, lead.Source)
	assert.Equal(t, "Need a finished basement", lead.Description)

	leads, err := db.ListLeads(ctx, database, "", 0, 10)
	require.NoError(t, err)
	require.Len(t, leads, 1)

	notifications, err := db.ListNotifications(ctx, database, false, 0, 10)
	require.NoError(t, err)
	require.Len(t, notifications, 1)

	n := notifications[0]
	assert.Equal(t, models.NotificationLead, n.Type)
	assert.Equal(t, "New Lead from Website Contact Form: Dana", n.Title)
	assert.Equal(t, "New contact form submission from Dana (dana@example.com)", n.Description)
	assert.False(t, n.IsRead)
	require.NotNil(t, n.DueDate)
	assert.WithinDuration(t, lead.CreatedAt.Add(24*time.Hour), *n.DueDate, time.Second)
}

func TestSubmitWebsiteFormCustomSource(t *testing.T) {
	database := setupTestDB(t)
	svc := NewService(database, nil, nil)

	lead, err := svc.SubmitWebsiteForm(context.Background(), WebsiteForm{
		Name: "Eli", Email: "eli@example.com", Source: "Home Show",
	})
	require.NoError(t, err)
	assert.Equal(t, "Home Show", lead.Source)

	notifications, err := db.ListNotifications(context.Background(), database, true, 0, 10)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, "New Lead from Home Show: Eli", notifications[0].Title)
}

func TestSubmitWebsiteFormRejectsDuplicate(t *testing.T) {
	database := setupTestDB(t)
	svc := NewService(database, nil, nil)
	ctx := context.Background()

	_, err := svc.SubmitWebsiteForm(ctx, WebsiteForm{Name: "Fay", Email: "fay@example.com"})
	require.NoError(t, err)

	_, err = svc.SubmitWebsiteForm(ctx, WebsiteForm{Name: "Fay again", Email: "fay@example.com"})
	assert.ErrorIs(t, err, db.ErrValidation)

	notifications, err := db.ListNotifications(ctx, database, false, 0, 10)
	require.NoError(t, err)
	assert.Len(t, notifications, 1, "no notification for a rejected lead")
}

func TestNotificationFailureKeepsLead(t *testing.T) {
	database := setupTestDB(t)
	m := metrics.New()
	svc := NewService(database, logging.Nop(), m)
	ctx := context.Background()

	_, err := database.Exec(`
		CREATE TRIGGER block_notifications BEFORE INSERT ON notifications
		BEGIN
			SELECT RAISE(ABORT, 'notifications offline');
		END
	`)
	require.NoError(t, err)

	lead, err := svc.SubmitWebsiteForm(ctx, WebsiteForm{Name: "Gus", Email: "gus@example.com"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotificationFailed))
	require.NotNil(t, lead)

	stored, err := db.GetLead(ctx, database, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, "Gus", stored.Name)

	expected := `
# HELP buildcrm_intake_notification_failures_total Intake notifications that could not be created after the lead was committed.
# TYPE buildcrm_intake_notification_failures_total counter
buildcrm_intake_notification_failures_total 1
`
	assert.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "buildcrm_intake_notification_failures_total"))
}
