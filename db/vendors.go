// ABOUTME: Vendor-related database operations
// ABOUTME: Vendor CRUD plus linking vendors to projects
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

const vendorColumns = `id, name, contact_name, email, phone, address, specialty, is_active, created_at`

func CreateVendor(ctx context.Context, q sqlx.ExtContext, vendor *models.Vendor) error {
	vendor.Name = strings.TrimSpace(vendor.Name)
	vendor.Email = strings.TrimSpace(vendor.Email)
	if vendor.Name == "" {
		return validationError("vendor name is required")
	}
	if vendor.Email == "" {
		return validationError("vendor email is required")
	}

	vendor.CreatedAt = now()

	id, err := insertReturningID(ctx, q, `
		INSERT INTO vendors (name, contact_name, email, phone, address, specialty, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`, vendor.Name, vendor.ContactName, vendor.Email, vendor.Phone, vendor.Address,
		vendor.Specialty, vendor.IsActive, vendor.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create vendor: %w", classifyInsert("vendor", err))
	}

	vendor.ID = id
	return nil
}

func GetVendor(ctx context.Context, q sqlx.ExtContext, id int64) (*models.Vendor, error) {
	var vendor models.Vendor
	query := q.Rebind(`SELECT ` + vendorColumns + ` FROM vendors WHERE id = ?`)
	err := sqlx.GetContext(ctx, q, &vendor, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("vendor", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get vendor: %w", err)
	}
	return &vendor, nil
}

func ListVendors(ctx context.Context, q sqlx.ExtContext, skip, limit int) ([]models.Vendor, error) {
	skip, limit = pageDefaults(skip, limit)

	vendors := []models.Vendor{}
	query := q.Rebind(`SELECT ` + vendorColumns + ` FROM vendors ORDER BY id LIMIT ? OFFSET ?`)
	if err := sqlx.SelectContext(ctx, q, &vendors, query, limit, skip); err != nil {
		return nil, fmt.Errorf("failed to list vendors: %w", err)
	}
	return vendors, nil
}

// DeleteVendor removes a single vendor row. Vendors that still have project
// links are refused by the foreign key and surface as ErrIntegrity.
func DeleteVendor(ctx context.Context, q sqlx.ExtContext, id int64) error {
	res, err := q.ExecContext(ctx, q.Rebind(`DELETE FROM vendors WHERE id = ?`), id)
	if err != nil {
		return integrityError("delete vendor", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return notFound("vendor", id)
	}
	return nil
}

// LinkVendorProject attaches a vendor to a project. Both must exist.
func LinkVendorProject(ctx context.Context, q sqlx.ExtContext, link *models.VendorProject) error {
	for _, ref := range []struct {
		table  string
		entity string
		id     int64
	}{
		{"vendors", "vendor", link.VendorID},
		{"projects", "project", link.ProjectID},
	} {
		ok, err := rowExists(ctx, q, ref.table, ref.id)
		if err != nil {
			return fmt.Errorf("failed to check %s: %w", ref.entity, err)
		}
		if !ok {
			return notFound(ref.entity, ref.id)
		}
	}

	id, err := insertReturningID(ctx, q, `
		INSERT INTO vendor_projects (vendor_id, project_id, role, start_date, end_date, status)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id
	`, link.VendorID, link.ProjectID, link.Role, link.StartDate, link.EndDate, link.Status)
	if err != nil {
		return fmt.Errorf("failed to link vendor to project: %w", err)
	}

	link.ID = id
	return nil
}

// ListProjectVendors returns the vendor links of a project.
func ListProjectVendors(ctx context.Context, q sqlx.ExtContext, projectID int64) ([]models.VendorProject, error) {
	links := []models.VendorProject{}
	query := q.Rebind(`SELECT id, vendor_id, project_id, role, start_date, end_date, status FROM vendor_projects WHERE project_id = ? ORDER BY id`)
	if err := sqlx.SelectContext(ctx, q, &links, query, projectID); err != nil {
		return nil, fmt.Errorf("failed to list project vendors: %w", err)
	}
	return links, nil
}
