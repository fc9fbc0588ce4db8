// ABOUTME: Counting queries behind the dashboard
// ABOUTME: Every call rescans the tables, nothing is cached
package db

import (
	"context"
	"fmt"

	"github.com/harperreed/buildcrm/models"
	"github.com/jmoiron/sqlx"
)

// CountLeads counts leads, optionally only those with the given status.
func CountLeads(ctx context.Context, q sqlx.ExtContext, status models.LeadStatus) (int64, error) {
	query := `SELECT COUNT(*) FROM leads`
	args := []interface{}{}
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	return count(ctx, q, "leads", query, args...)
}

// CountCustomers counts customers, optionally only active ones.
func CountCustomers(ctx context.Context, q sqlx.ExtContext, activeOnly bool) (int64, error) {
	query := `SELECT COUNT(*) FROM customers`
	args := []interface{}{}
	if activeOnly {
		query += ` WHERE is_active = ?`
		args = append(args, true)
	}
	return count(ctx, q, "customers", query, args...)
}

// CountProjects counts projects, optionally only those with the given status.
func CountProjects(ctx context.Context, q sqlx.ExtContext, status string) (int64, error) {
	query := `SELECT COUNT(*) FROM projects`
	args := []interface{}{}
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	return count(ctx, q, "projects", query, args...)
}

func count(ctx context.Context, q sqlx.ExtContext, table, query string, args ...interface{}) (int64, error) {
	var n int64
	if err := sqlx.GetContext(ctx, q, &n, q.Rebind(query), args...); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return n, nil
}
