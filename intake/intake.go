// ABOUTME: Public lead intake from the website contact form
// ABOUTME: Commits the lead first, then creates a follow-up notification on a best-effort basis
package intake

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/buildcrm/db"
	"github.com/harperreed/buildcrm/logging"
	"github.com/harperreed/buildcrm/metrics"
	"github.com/harperreed/buildcrm/models"
	"github.com/jmoiron/sqlx"
)

const (
	DefaultSource = "Website Contact Form"

	// FollowUpWindow is how long after arrival a new lead should be contacted.
	FollowUpWindow = 24 * time.Hour
)

// ErrNotificationFailed means the lead was stored but its notification was not.
var ErrNotificationFailed = errors.New("lead saved but notification failed")

// WebsiteForm is a contact-form submission.
type WebsiteForm struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	ProjectType string `json:"project_type"`
	Message     string `json:"message"`
	Source      string `json:"source"`
}

type Service struct {
	db      *sqlx.DB
	log     *logging.Logger
	metrics *metrics.Metrics
}

func NewService(database *sqlx.DB, log *logging.Logger, m *metrics.Metrics) *Service {
	if log == nil {
		log = logging.Nop()
	}
	return &Service{db: database, log: log, metrics: m}
}

// SubmitWebsiteForm stores the lead and schedules a follow-up notification.
// When only the notification fails, the committed lead is returned together
// with ErrNotificationFailed.
func (s *Service) SubmitWebsiteForm(ctx context.Context, form WebsiteForm) (*models.Lead, error) {
	source := strings.TrimSpace(form.Source)
	if source == "" {
		source = DefaultSource
	}

	lead := &models.Lead{
		Name:        form.Name,
		Email:       form.Email,
		Phone:       form.Phone,
		Address:     form.Address,
		Source:      source,
		ProjectType: form.ProjectType,
		Description: form.Message,
		Status:      models.LeadNew,
	}
	if err := db.CreateLead(ctx, s.db, lead); err != nil {
		return nil, err
	}
	s.metrics.LeadSubmitted(source)
	s.log.Info("lead received", "lead_id", lead.ID, "source", source)

	if err := s.notifyNewLead(ctx, lead); err != nil {
		s.metrics.NotificationFailed()
		s.log.Error("failed to create lead notification", "lead_id", lead.ID, "error", err)
		return lead, fmt.Errorf("%w: %w", ErrNotificationFailed, err)
	}
	return lead, nil
}

func (s *Service) notifyNewLead(ctx context.Context, lead *models.Lead) error {
	due := lead.CreatedAt.Add(FollowUpWindow)
	notification := &models.Notification{
		Type:        models.NotificationLead,
		Title:       fmt.Sprintf("New Lead from %s: %s", lead.Source, lead.Name),
		Description: fmt.Sprintf("New contact form submission from %s (%s)", lead.Name, lead.Email),
		DueDate:     &due,
	}
	return db.CreateNotification(ctx, s.db, notification)
}
