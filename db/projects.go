// ABOUTME: Project-related database operations
// ABOUTME: Projects always belong to an existing customer
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/harperreed/buildcrm/models"
	"github.com/jmoiron/sqlx"
)

const projectColumns = `id, name, description, status, start_date, end_date, budget, revenue, customer_id, created_at, updated_at`

// CreateProject inserts a project for an existing customer.
func CreateProject(ctx context.Context, q sqlx.ExtContext, project *models.Project) error {
	project.Name = strings.TrimSpace(project.Name)
	if project.Name == "" {
		return validationError("project name is required")
	}
	if project.Status == "" {
		project.Status = models.ProjectPending
	}
	if !models.IsValidProjectStatus(project.Status) {
		return validationError("invalid project status %q", project.Status)
	}

	ok, err := rowExists(ctx, q, "customers", project.CustomerID)
	if err != nil {
		return fmt.Errorf("failed to check customer: %w", err)
	}
	if !ok {
		return notFound("customer", project.CustomerID)
	}

	project.CreatedAt = now()
	project.UpdatedAt = nil

	id, err := insertReturningID(ctx, q, `
		INSERT INTO projects (name, description, status, start_date, end_date, budget, revenue, customer_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`, project.Name, project.Description, project.Status, project.StartDate, project.EndDate,
		project.Budget, project.Revenue, project.CustomerID, project.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	project.ID = id
	return nil
}

// GetProject retrieves a project by ID.
func GetProject(ctx context.Context, q sqlx.ExtContext, id int64) (*models.Project, error) {
	var project models.Project
	query := q.Rebind(`SELECT ` + projectColumns + ` FROM projects WHERE id = ?`)
	err := sqlx.GetContext(ctx, q, &project, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("project", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return &project, nil
}

// ListProjects returns a page of projects ordered by ID.
func ListProjects(ctx context.Context, q sqlx.ExtContext, skip, limit int) ([]models.Project, error) {
	skip, limit = pageDefaults(skip, limit)

	projects := []models.Project{}
	query := q.Rebind(`SELECT ` + projectColumns + ` FROM projects ORDER BY id LIMIT ? OFFSET ?`)
	if err := sqlx.SelectContext(ctx, q, &projects, query, limit, skip); err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// ListCustomerProjects returns a page of one customer's projects.
// NotFound when the customer does not exist.
func ListCustomerProjects(ctx context.Context, q sqlx.ExtContext, customerID int64, skip, limit int) ([]models.Project, error) {
	skip, limit = pageDefaults(skip, limit)

	ok, err := rowExists(ctx, q, "customers", customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to check customer: %w", err)
	}
	if !ok {
		return nil, notFound("customer", customerID)
	}

	projects := []models.Project{}
	query := q.Rebind(`SELECT ` + projectColumns + ` FROM projects WHERE customer_id = ? ORDER BY id LIMIT ? OFFSET ?`)
	if err := sqlx.SelectContext(ctx, q, &projects, query, customerID, limit, skip); err != nil {
		return nil, fmt.Errorf("failed to list customer projects: %w", err)
	}
	return projects, nil
}

func listProjectsByCustomer(ctx context.Context, q sqlx.ExtContext, customerID int64) ([]models.Project, error) {
	projects := []models.Project{}
	query := q.Rebind(`SELECT ` + projectColumns + ` FROM projects WHERE customer_id = ? ORDER BY id`)
	if err := sqlx.SelectContext(ctx, q, &projects, query, customerID); err != nil {
		return nil, fmt.Errorf("failed to list customer projects: %w", err)
	}
	return projects, nil
}
