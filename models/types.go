// ABOUTME: Data models for CRM entities
// ABOUTME: Defines Customer, Project, Vendor, Interaction, Notification, and Lead structs
package models

import (
	"time"
)

type Customer struct {
	ID        int64      `db:"id" json:"id"`
	Name      string     `db:"name" json:"name"`
	Email     string     `db:"email" json:"email"`
	Phone     string     `db:"phone" json:"phone"`
	Address   string     `db:"address" json:"address"`
	IsActive  bool       `db:"is_active" json:"is_active"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}

// CustomerWithProjects is the customer detail view.
type CustomerWithProjects struct {
	Customer
	Projects []Project `json:"projects"`
}

type Project struct {
	ID          int64      `db:"id" json:"id"`
	Name        string     `db:"name" json:"name"`
	Description string     `db:"description" json:"description"`
	Status      string     `db:"status" json:"status"`
	StartDate   *time.Time `db:"start_date" json:"start_date,omitempty"`
	EndDate     *time.Time `db:"end_date" json:"end_date,omitempty"`
	Budget      *float64   `db:"budget" json:"budget,omitempty"`
	Revenue     float64    `db:"revenue" json:"revenue"`
	CustomerID  int64      `db:"customer_id" json:"customer_id"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}

type Vendor struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	ContactName string    `db:"contact_name" json:"contact_name,omitempty"`
	Email       string    `db:"email" json:"email"`
	Phone       string    `db:"phone" json:"phone"`
	Address     string    `db:"address" json:"address,omitempty"`
	Specialty   string    `db:"specialty" json:"specialty,omitempty"`
	IsActive    bool      `db:"is_active" json:"is_active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// VendorProject links a vendor to a project it works on.
type VendorProject struct {
	ID        int64      `db:"id" json:"id"`
	VendorID  int64      `db:"vendor_id" json:"vendor_id"`
	ProjectID int64      `db:"project_id" json:"project_id"`
	Role      string     `db:"role" json:"role,omitempty"`
	StartDate *time.Time `db:"start_date" json:"start_date,omitempty"`
	EndDate   *time.Time `db:"end_date" json:"end_date,omitempty"`
	Status    string     `db:"status" json:"status,omitempty"`
}

type Interaction struct {
	ID              int64     `db:"id" json:"id"`
	CustomerID      int64     `db:"customer_id" json:"customer_id"`
	ProjectID       *int64    `db:"project_id" json:"project_id,omitempty"`
	InteractionType string    `db:"interaction_type" json:"interaction_type"`
	Description     string    `db:"description" json:"description"`
	Notes           string    `db:"notes" json:"notes,omitempty"`
	Date            time.Time `db:"date" json:"date"`
	Duration        *float64  `db:"duration" json:"duration,omitempty"` // in minutes
}

type Notification struct {
	ID          int64      `db:"id" json:"id"`
	CustomerID  *int64     `db:"customer_id" json:"customer_id,omitempty"`
	ProjectID   *int64     `db:"project_id" json:"project_id,omitempty"`
	Type        string     `db:"type" json:"type"`
	Title       string     `db:"title" json:"title"`
	Description string     `db:"description" json:"description,omitempty"`
	IsRead      bool       `db:"is_read" json:"is_read"`
	DueDate     *time.Time `db:"due_date" json:"due_date,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}

type Lead struct {
	ID                    int64      `db:"id" json:"id"`
	Name                  string     `db:"name" json:"name"`
	Email                 string     `db:"email" json:"email"`
	Phone                 string     `db:"phone" json:"phone,omitempty"`
	Address               string     `db:"address" json:"address,omitempty"`
	Source                string     `db:"source" json:"source,omitempty"`
	ProjectType           string     `db:"project_type" json:"project_type,omitempty"`
	Description           string     `db:"description" json:"description,omitempty"`
	Status                LeadStatus `db:"status" json:"status"`
	CreatedAt             time.Time  `db:"created_at" json:"created_at"`
	ConvertedAt           *time.Time `db:"converted_at" json:"converted_at,omitempty"`
	ConvertedToCustomerID *int64     `db:"converted_to_customer_id" json:"converted_to_customer_id,omitempty"`
	Notes                 string     `db:"notes" json:"notes,omitempty"`
	LastContact           *time.Time `db:"last_contact" json:"last_contact,omitempty"`
	NextFollowUp          *time.Time `db:"next_follow_up" json:"next_follow_up,omitempty"`
	ExpectedValue         *float64   `db:"expected_value" json:"expected_value,omitempty"`
}

// IsConverted reports whether the lead already produced a customer.
func (l *Lead) IsConverted() bool {
	return l.ConvertedToCustomerID != nil
}

// Project status constants.
const (
	ProjectPending    = "pending"
	ProjectInProgress = "in_progress"
	ProjectOnHold     = "on_hold"
	ProjectCompleted  = "completed"
	ProjectCancelled  = "cancelled"
)

// InteractionType constants.
const (
	InteractionPhoneCall = "phone_call"
	InteractionEmail     = "email"
	InteractionMeeting   = "meeting"
	InteractionText      = "text"
	InteractionOther     = "other"
)

// NotificationType constants.
const (
	NotificationFollowUp         = "follow_up"
	NotificationProjectMilestone = "project_milestone"
	NotificationTaskReminder     = "task_reminder"
	NotificationLead             = "lead"
	NotificationCompletion       = "completion"
)

var projectStatuses = []string{ProjectPending, ProjectInProgress, ProjectOnHold, ProjectCompleted, ProjectCancelled}

var interactionTypes = []string{InteractionPhoneCall, InteractionEmail, InteractionMeeting, InteractionText, InteractionOther}

var notificationTypes = []string{NotificationFollowUp, NotificationProjectMilestone, NotificationTaskReminder, NotificationLead, NotificationCompletion}

func IsValidProjectStatus(s string) bool { return contains(projectStatuses, s) }

func IsValidInteractionType(s string) bool { return contains(interactionTypes, s) }

func IsValidNotificationType(s string) bool { return contains(notificationTypes, s) }

func contains(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}
