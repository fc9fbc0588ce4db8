// ABOUTME: Customer and project CLI commands
// ABOUTME: Deletes cascade through dependent records and print what was removed
package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/harperreed/buildcrm/db"
	"github.com/harperreed/buildcrm/models"
	"github.com/jmoiron/sqlx"
)

// AddCustomerCommand adds a new customer
func AddCustomerCommand(ctx context.Context, database *sqlx.DB, args []string) error {
	fs := flag.NewFlagSet("add-customer", flag.ContinueOnError)
	name := fs.String("name", "", "Customer name (required)")
	email := fs.String("email", "", "Email address (required)")
	phone := fs.String("phone", "", "Phone number")
	address := fs.String("address", "", "Street address")
	inactive := fs.Bool("inactive", false, "Mark the customer inactive")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *name == "" {
		return fmt.Errorf("--name is required")
	}
	if *email == "" {
		return fmt.Errorf("--email is required")
	}

	customer := &models.Customer{
		Name:     *name,
		Email:    *email,
		Phone:    *phone,
		Address:  *address,
		IsActive: !*inactive,
	}
	if err := db.CreateCustomer(ctx, database, customer); err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}

	fmt.Fprintf(stdout, "✓ Customer created: %s (ID: %d)\n", customer.Name, customer.ID)
	return nil
}

// ListCustomersCommand lists customers
func ListCustomersCommand(ctx context.Context, database *sqlx.DB, args []string) error {
	fs := flag.NewFlagSet("list-customers", flag.ContinueOnError)
	skip := fs.Int("skip", 0, "Records to skip")
	limit := fs.Int("limit", 50, "Maximum results")
	if err := fs.Parse(args); err != nil {
		return err
	}

	customers, err := db.ListCustomers(ctx, database, *skip, *limit)
	if err != nil {
		return fmt.Errorf("failed to list customers: %w", err)
	}

	if len(customers) == 0 {
		fmt.Fprintln(stdout, "No customers found")
		return nil
	}

	w := newTable()
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tPHONE\tACTIVE")
	fmt.Fprintln(w, "--\t----\t-----\t-----\t------")
	for _, c := range customers {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%t\n", c.ID, c.Name, c.Email, dash(c.Phone), c.IsActive)
	}
	_ = w.Flush()

	fmt.Fprintf(stdout, "\nTotal: %d customer(s)\n", len(customers))
	return nil
}

// DeleteCustomerCommand deletes a customer and everything that depends on it
func DeleteCustomerCommand(ctx context.Context, database *sqlx.DB, args []string) error {
	fs := flag.NewFlagSet("delete-customer", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	id, err := parseID(fs.Args(), "customer")
	if err != nil {
		return err
	}

	report, err := db.DeleteCustomer(ctx, database, id)
	if err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}

	fmt.Fprintf(stdout, "✓ Customer %d deleted\n", id)
	printReport(report)
	return nil
}

// AddProjectCommand adds a project for an existing customer
func AddProjectCommand(ctx context.Context, database *sqlx.DB, args []string) error {
	fs := flag.NewFlagSet("add-project", flag.ContinueOnError)
	name := fs.String("name", "", "Project name (required)")
	customerID := fs.Int64("customer", 0, "Customer ID (required)")
	description := fs.String("description", "", "Description")
	status := fs.String("status", models.ProjectPending, "Status (pending, in_progress, on_hold, completed, cancelled)")
	start := fs.String("start", "", "Start date (YYYY-MM-DD)")
	end := fs.String("end", "", "End date (YYYY-MM-DD)")
	budget := fs.Float64("budget", 0, "Budget")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *name == "" {
		return fmt.Errorf("--name is required")
	}
	if *customerID <= 0 {
		return fmt.Errorf("--customer is required")
	}

	startDate, err := models.ParseDate(*start)
	if err != nil {
		return err
	}
	endDate, err := models.ParseDate(*end)
	if err != nil {
		return err
	}

	project := &models.Project{
		Name:        *name,
		Description: *description,
		Status:      *status,
		StartDate:   startDate,
		EndDate:     endDate,
		CustomerID:  *customerID,
	}
	if *budget > 0 {
		project.Budget = budget
	}

	if err := db.CreateProject(ctx, database, project); err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	fmt.Fprintf(stdout, "✓ Project created: %s (ID: %d)\n", project.Name, project.ID)
	fmt.Fprintf(stdout, "  Status: %s\n", project.Status)
	return nil
}

// DeleteProjectCommand deletes a project with its interactions, notifications, and vendor links
func DeleteProjectCommand(ctx context.Context, database *sqlx.DB, args []string) error {
	fs := flag.NewFlagSet("delete-project", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	id, err := parseID(fs.Args(), "project")
	if err != nil {
		return err
	}

	report, err := db.DeleteProject(ctx, database, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	fmt.Fprintf(stdout, "✓ Project %d deleted\n", id)
	printReport(report)
	return nil
}

func printReport(report *db.DeletionReport) {
	for _, table := range report.Order {
		if n := report.Deleted[table]; n > 0 {
			fmt.Fprintf(stdout, "  %-16s %d\n", table, n)
		}
	}
	fmt.Fprintf(stdout, "  %d row(s) removed\n", report.Total())
}
