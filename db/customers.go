// ABOUTME: Customer-related database operations
// ABOUTME: Handles customer creation, lookup, listing, and the projects detail view
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

const customerColumns = `id, name, email, phone, address, is_active, created_at, updated_at`

// CreateCustomer inserts a new customer and fills in its ID and timestamps.
func CreateCustomer(ctx context.Context, q sqlx.ExtContext, customer *models.Customer) error {
	customer.Name = strings.TrimSpace(customer.Name)
	customer.Email = strings.TrimSpace(customer.Email)
	if customer.Name == "" {
		return validationError("customer name is required")
	}
	if customer.Email == "" {
		return validationError("customer email is required")
	}

	customer.CreatedAt = now()
	customer.UpdatedAt = nil

	id, err := insertReturningID(ctx, q, `
		INSERT INTO customers (name, email, phone, address, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id
	`, customer.Name, customer.Email, customer.Phone, customer.Address, customer.IsActive, customer.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create customer: %w", classifyInsert("customer", err))
	}

	customer.ID = id
	return nil
}

// GetCustomer retrieves a customer by ID.
func GetCustomer(ctx context.Context, q sqlx.ExtContext, id int64) (*models.Customer, error) {
	var customer models.Customer
	query := q.Rebind(`SELECT ` + customerColumns + ` FROM customers WHERE id = ?`)
	err := sqlx.GetContext(ctx, q, &customer, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("customer", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return &customer, nil
}

// ListCustomers returns a page of customers ordered by ID.
func ListCustomers(ctx context.Context, q sqlx.ExtContext, skip, limit int) ([]models.Customer, error) {
	skip, limit = pageDefaults(skip, limit)

	customers := []models.Customer{}
	query := q.Rebind(`SELECT ` + customerColumns + ` FROM customers ORDER BY id LIMIT ? OFFSET ?`)
	if err := sqlx.SelectContext(ctx, q, &customers, query, limit, skip); err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return customers, nil
}

// GetCustomerWithProjects returns the customer along with every project it owns.
func GetCustomerWithProjects(ctx context.Context, q sqlx.ExtContext, id int64) (*models.CustomerWithProjects, error) {
	customer, err := GetCustomer(ctx, q, id)
	if err != nil {
		return nil, err
	}

	projects, err := listProjectsByCustomer(ctx, q, id)
	if err != nil {
		return nil, err
	}

	return &models.CustomerWithProjects{Customer: *customer, Projects: projects}, nil
}
