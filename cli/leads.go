// ABOUTME: Lead CLI commands
// ABOUTME: Add, list, update status, and convert leads into customers
package cli

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/harperreed/buildcrm/db"
	"github.com/harperreed/buildcrm/models"
	"github.com/jmoiron/sqlx"
)

// AddLeadCommand adds a new lead
func AddLeadCommand(ctx context.Context, database *sqlx.DB, args []string) error {
	fs := flag.NewFlagSet("add-lead", flag.ContinueOnError)
	name := fs.String("name", "", "Lead name (required)")
	email := fs.String("email", "", "Email address (required)")
	phone := fs.String("phone", "", "Phone number")
	source := fs.String("source", "", "Where the lead came from")
	projectType := fs.String("project-type", "", "Kind of work requested")
	description := fs.String("description", "", "Description")
	value := fs.Float64("value", 0, "Expected value")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *name == "" {
		return fmt.Errorf("--name is required")
	}
	if *email == "" {
		return fmt.Errorf("--email is required")
	}

	lead := &models.Lead{
		Name:        *name,
		Email:       *email,
		Phone:       *phone,
		Source:      *source,
		ProjectType: *projectType,
		Description: *description,
	}
	if *value > 0 {
		lead.ExpectedValue = value
	}

	if err := db.CreateLead(ctx, database, lead); err != nil {
		return fmt.Errorf("failed to create lead: %w", err)
	}

	fmt.Fprintf(stdout, "✓ Lead created: %s (ID: %d)\n", lead.Name, lead.ID)
	return nil
}

// ListLeadsCommand lists leads, optionally filtered by status or a search term
func ListLeadsCommand(ctx context.Context, database *sqlx.DB, args []string) error {
	fs := flag.NewFlagSet("list-leads", flag.ContinueOnError)
	status := fs.String("status", "", "Filter by status")
	query := fs.String("query", "", "Search name, email, or project type")
	limit := fs.Int("limit", 50, "Maximum results")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var leads []models.Lead
	var err error
	if *query != "" {
		leads, err = db.FindLeads(ctx, database, *query, *limit)
	} else {
		leads, err = db.ListLeads(ctx, database, models.ParseLeadStatus(*status), 0, *limit)
	}
	if err != nil {
		return fmt.Errorf("failed to list leads: %w", err)
	}

	if len(leads) == 0 {
		fmt.Fprintln(stdout, "No leads found")
		return nil
	}

	w := newTable()
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tSTATUS\tPROJECT\tFOLLOW-UP")
	fmt.Fprintln(w, "--\t----\t-----\t------\t-------\t---------")
	for _, lead := range leads {
		followUp := "-"
		if lead.NextFollowUp != nil {
			followUp = lead.NextFollowUp.Format("2006-01-02")
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			lead.ID, lead.Name, lead.Email, lead.Status, dash(lead.ProjectType), followUp)
	}
	_ = w.Flush()

	fmt.Fprintf(stdout, "\nTotal: %d lead(s)\n", len(leads))
	return nil
}

// LeadStatusCommand changes a lead's status
// Usage: lead-status [flags] <id> <status>
func LeadStatusCommand(ctx context.Context, database *sqlx.DB, policy models.TransitionPolicy, args []string) error {
	fs := flag.NewFlagSet("lead-status", flag.ContinueOnError)
	notes := fs.String("notes", "", "Replace the lead's notes")
	followUp := fs.String("follow-up", "", "Next follow-up date (YYYY-MM-DD)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	id, err := parseID(fs.Args(), "lead")
	if err != nil {
		return err
	}
	if fs.NArg() < 2 {
		return fmt.Errorf("status is required")
	}

	next, err := models.ParseDate(*followUp)
	if err != nil {
		return err
	}

	update := db.LeadStatusUpdate{
		Status:       models.ParseLeadStatus(fs.Arg(1)),
		NextFollowUp: next,
	}
	if *notes != "" {
		update.Notes = notes
	}

	lead, err := db.UpdateLeadStatus(ctx, database, id, update, policy)
	if err != nil {
		return fmt.Errorf("failed to update lead status: %w", err)
	}

	fmt.Fprintf(stdout, "✓ Lead %d is now %s\n", lead.ID, lead.Status)
	if lead.NextFollowUp != nil {
		fmt.Fprintf(stdout, "  Next follow-up: %s\n", lead.NextFollowUp.Format(time.DateOnly))
	}
	return nil
}

// ConvertLeadCommand turns a lead into a customer
func ConvertLeadCommand(ctx context.Context, database *sqlx.DB, args []string) error {
	fs := flag.NewFlagSet("convert-lead", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	id, err := parseID(fs.Args(), "lead")
	if err != nil {
		return err
	}

	customer, created, err := db.ConvertLeadToCustomer(ctx, database, id)
	if err != nil {
		return fmt.Errorf("failed to convert lead: %w", err)
	}

	if !created {
		fmt.Fprintf(stdout, "Lead %d was already converted to customer %s (ID: %d)\n", id, customer.Name, customer.ID)
		return nil
	}
	fmt.Fprintf(stdout, "✓ Lead %d converted to customer %s (ID: %d)\n", id, customer.Name, customer.ID)
	return nil
}
