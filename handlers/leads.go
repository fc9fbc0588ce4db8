// ABOUTME: Lead MCP tool handlers
// ABOUTME: Implements update_lead_status, convert_lead, submit_lead, and find_leads tools
package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/harperreed/buildcrm/db"
	"github.com/harperreed/buildcrm/intake"
	"github.com/harperreed/buildcrm/metrics"
	"github.com/harperreed/buildcrm/models"
	"github.com/jmoiron/sqlx"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type LeadHandlers struct {
	db      *sqlx.DB
	policy  models.TransitionPolicy
	intake  *intake.Service
	metrics *metrics.Metrics
}

func NewLeadHandlers(database *sqlx.DB, policy models.TransitionPolicy, svc *intake.Service, m *metrics.Metrics) *LeadHandlers {
	return &LeadHandlers{db: database, policy: policy, intake: svc, metrics: m}
}

type LeadOutput struct {
	ID                    int64    `json:"id"`
	Name                  string   `json:"name"`
	Email                 string   `json:"email"`
	Phone                 string   `json:"phone,omitempty"`
	Source                string   `json:"source,omitempty"`
	ProjectType           string   `json:"project_type,omitempty"`
	Status                string   `json:"status"`
	Notes                 string   `json:"notes,omitempty"`
	CreatedAt             string   `json:"created_at"`
	LastContact           *string  `json:"last_contact,omitempty"`
	NextFollowUp          *string  `json:"next_follow_up,omitempty"`
	ConvertedToCustomerID *int64   `json:"converted_to_customer_id,omitempty"`
	ExpectedValue         *float64 `json:"expected_value,omitempty"`
}

type UpdateLeadStatusInput struct {
	ID           int64  `json:"id" jsonschema:"Lead ID (required)"`
	Status       string `json:"status" jsonschema:"New status, e.g. CONTACTED, QUALIFIED, LOST (required)"`
	Notes        string `json:"notes,omitempty" jsonschema:"Notes to store; empty keeps the existing notes"`
	NextFollowUp string `json:"next_follow_up,omitempty" jsonschema:"Next follow-up date (YYYY-MM-DD or RFC 3339)"`
}

func (h *LeadHandlers) UpdateLeadStatus(ctx context.Context, request *mcp.CallToolRequest, input UpdateLeadStatusInput) (*mcp.CallToolResult, LeadOutput, error) {
	if input.ID <= 0 {
		return nil, LeadOutput{}, fmt.Errorf("id is required")
	}
	if input.Status == "" {
		return nil, LeadOutput{}, fmt.Errorf("status is required")
	}

	followUp, err := models.ParseDate(input.NextFollowUp)
	if err != nil {
		return nil, LeadOutput{}, err
	}

	update := db.LeadStatusUpdate{
		Status:       models.ParseLeadStatus(input.Status),
		NextFollowUp: followUp,
	}
	if input.Notes != "" {
		update.Notes = &input.Notes
	}

	lead, err := db.UpdateLeadStatus(ctx, h.db, input.ID, update, h.policy)
	if err != nil {
		return nil, LeadOutput{}, fmt.Errorf("failed to update lead status: %w", err)
	}

	return nil, leadToOutput(lead), nil
}

type ConvertLeadInput struct {
	ID int64 `json:"id" jsonschema:"Lead ID to convert into a customer (required)"`
}

type CustomerOutput struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
}

func (h *LeadHandlers) ConvertLead(ctx context.Context, request *mcp.CallToolRequest, input ConvertLeadInput) (*mcp.CallToolResult, CustomerOutput, error) {
	if input.ID <= 0 {
		return nil, CustomerOutput{}, fmt.Errorf("id is required")
	}

	customer, created, err := db.ConvertLeadToCustomer(ctx, h.db, input.ID)
	if err != nil {
		return nil, CustomerOutput{}, fmt.Errorf("failed to convert lead: %w", err)
	}
	if created {
		h.metrics.LeadConverted()
	}

	return nil, CustomerOutput{
		ID:        customer.ID,
		Name:      customer.Name,
		Email:     customer.Email,
		Phone:     customer.Phone,
		Address:   customer.Address,
		IsActive:  customer.IsActive,
		CreatedAt: customer.CreatedAt.Format(time.RFC3339),
	}, nil
}

type SubmitLeadInput struct {
	Name        string `json:"name" jsonschema:"Lead name (required)"`
	Email       string `json:"email" jsonschema:"Lead email address (required)"`
	Phone       string `json:"phone,omitempty" jsonschema:"Phone number"`
	Address     string `json:"address,omitempty" jsonschema:"Street address"`
	ProjectType string `json:"project_type,omitempty" jsonschema:"Kind of work requested"`
	Message     string `json:"message,omitempty" jsonschema:"Free-form request from the lead"`
	Source      string `json:"source,omitempty" jsonschema:"Where the lead came from (default: Website Contact Form)"`
}

type SubmitLeadOutput struct {
	LeadID              int64  `json:"lead_id"`
	Status              string `json:"status"`
	NotificationCreated bool   `json:"notification_created"`
}

func (h *LeadHandlers) SubmitLead(ctx context.Context, request *mcp.CallToolRequest, input SubmitLeadInput) (*mcp.CallToolResult, SubmitLeadOutput, error) {
	lead, err := h.intake.SubmitWebsiteForm(ctx, intake.WebsiteForm{
		Name:        input.Name,
		Email:       input.Email,
		Phone:       input.Phone,
		Address:     input.Address,
		ProjectType: input.ProjectType,
		Message:     input.Message,
		Source:      input.Source,
	})
	if errors.Is(err, intake.ErrNotificationFailed) {
		return nil, SubmitLeadOutput{LeadID: lead.ID, Status: string(lead.Status)}, nil
	}
	if err != nil {
		return nil, SubmitLeadOutput{}, fmt.Errorf("failed to submit lead: %w", err)
	}

	return nil, SubmitLeadOutput{LeadID: lead.ID, Status: string(lead.Status), NotificationCreated: true}, nil
}

type FindLeadsInput struct {
	Query  string `json:"query,omitempty" jsonschema:"Search name, email, or project type"`
	Status string `json:"status,omitempty" jsonschema:"Filter by status (ignored when query is set)"`
	Limit  int    `json:"limit,omitempty" jsonschema:"Maximum number of results (default 10)"`
}

type FindLeadsOutput struct {
	Leads []LeadOutput `json:"leads"`
}

func (h *LeadHandlers) FindLeads(ctx context.Context, request *mcp.CallToolRequest, input FindLeadsInput) (*mcp.CallToolResult, FindLeadsOutput, error) {
	limit := input.Limit
	if limit == 0 {
		limit = 10
	}

	var leads []models.Lead
	var err error
	if input.Query != "" {
		leads, err = db.FindLeads(ctx, h.db, input.Query, limit)
	} else {
		leads, err = db.ListLeads(ctx, h.db, models.ParseLeadStatus(input.Status), 0, limit)
	}
	if err != nil {
		return nil, FindLeadsOutput{}, fmt.Errorf("failed to find leads: %w", err)
	}

	result := make([]LeadOutput, len(leads))
	for i := range leads {
		result[i] = leadToOutput(&leads[i])
	}
	return nil, FindLeadsOutput{Leads: result}, nil
}

func leadToOutput(lead *models.Lead) LeadOutput {
	out := LeadOutput{
		ID:                    lead.ID,
		Name:                  lead.Name,
		Email:                 lead.Email,
		Phone:                 lead.Phone,
		Source:                lead.Source,
		ProjectType:           lead.ProjectType,
		Status:                string(lead.Status),
		Notes:                 lead.Notes,
		CreatedAt:             lead.CreatedAt.Format(time.RFC3339),
		ConvertedToCustomerID: lead.ConvertedToCustomerID,
		ExpectedValue:         lead.ExpectedValue,
	}
	if lead.LastContact != nil {
		s := lead.LastContact.Format(time.RFC3339)
		out.LastContact = &s
	}
	if lead.NextFollowUp != nil {
		s := lead.NextFollowUp.Format(time.RFC3339)
		out.NextFollowUp = &s
	}
	return out
}
