// ABOUTME: Lead lifecycle database operations
// ABOUTME: Lead CRUD, policy-checked status updates, and transactional conversion to customers
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/buildcrm/models"
	"github.com/jmoiron/sqlx"
)

const leadColumns = `id, name, email, phone, address, source, project_type, description, status,
	created_at, converted_at, converted_to_customer_id, notes, last_contact, next_follow_up, expected_value`

// LeadStatusUpdate carries a status change. Notes and NextFollowUp are only
// written when set.
type LeadStatusUpdate struct {
	Status       models.LeadStatus
	Notes        *string
	NextFollowUp *time.Time
}

// CreateLead inserts a lead. Status defaults to NEW.
func CreateLead(ctx context.Context, q sqlx.ExtContext, lead *models.Lead) error {
	lead.Name = strings.TrimSpace(lead.Name)
	lead.Email = strings.TrimSpace(lead.Email)
	if lead.Name == "" {
		return validationError("lead name is required")
	}
	if lead.Email == "" {
		return validationError("lead email is required")
	}
	if lead.Status == "" {
		lead.Status = models.LeadNew
	}

	lead.CreatedAt = now()
	lead.ConvertedAt = nil
	lead.ConvertedToCustomerID = nil

	id, err := insertReturningID(ctx, q, `
		INSERT INTO leads (name, email, phone, address, source, project_type, description, status,
			created_at, notes, last_contact, next_follow_up, expected_value)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`, lead.Name, lead.Email, lead.Phone, lead.Address, lead.Source, lead.ProjectType, lead.Description,
		lead.Status, lead.CreatedAt, lead.Notes, lead.LastContact, lead.NextFollowUp, lead.ExpectedValue)
	if err != nil {
		return fmt.Errorf("failed to create lead: %w", classifyInsert("lead", err))
	}

	lead.ID = id
	return nil
}

// GetLead retrieves a lead by ID.
func GetLead(ctx context.Context, q sqlx.ExtContext, id int64) (*models.Lead, error) {
	var lead models.Lead
	query := q.Rebind(`SELECT ` + leadColumns + ` FROM leads WHERE id = ?`)
	err := sqlx.GetContext(ctx, q, &lead, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("lead", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lead: %w", err)
	}
	return &lead, nil
}

// ListLeads returns a page of leads, newest first, optionally filtered by status.
func ListLeads(ctx context.Context, q sqlx.ExtContext, status models.LeadStatus, skip, limit int) ([]models.Lead, error) {
	skip, limit = pageDefaults(skip, limit)

	query := `SELECT ` + leadColumns + ` FROM leads`
	args := []interface{}{}
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	args = append(args, limit, skip)

	leads := []models.Lead{}
	if err := sqlx.SelectContext(ctx, q, &leads, q.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}
	return leads, nil
}

// FindLeads does a case-insensitive match on name, email, or project type.
func FindLeads(ctx context.Context, q sqlx.ExtContext, term string, limit int) ([]models.Lead, error) {
	_, limit = pageDefaults(0, limit)
	pattern := "%" + strings.ToLower(strings.TrimSpace(term)) + "%"

	leads := []models.Lead{}
	query := q.Rebind(`SELECT ` + leadColumns + ` FROM leads
		WHERE LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(project_type) LIKE ?
		ORDER BY created_at DESC, id DESC LIMIT ?`)
	if err := sqlx.SelectContext(ctx, q, &leads, query, pattern, pattern, pattern, limit); err != nil {
		return nil, fmt.Errorf("failed to find leads: %w", err)
	}
	return leads, nil
}

// DeleteLead removes a single lead.
func DeleteLead(ctx context.Context, q sqlx.ExtContext, id int64) error {
	res, err := q.ExecContext(ctx, q.Rebind(`DELETE FROM leads WHERE id = ?`), id)
	if err != nil {
		return integrityError("delete lead", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return notFound("lead", id)
	}
	return nil
}

// UpdateLeadStatus applies a status change allowed by policy and stamps last_contact.
func UpdateLeadStatus(ctx context.Context, db *sqlx.DB, id int64, update LeadStatusUpdate, policy models.TransitionPolicy) (*models.Lead, error) {
	if policy == nil {
		policy = models.PermissivePolicy{}
	}

	var updated *models.Lead
	err := WithTx(ctx, db, func(tx *sqlx.Tx) error {
		lead, err := GetLead(ctx, tx, id)
		if err != nil {
			return err
		}

		if err := policy.Allow(lead.Status, update.Status); err != nil {
			return err
		}

		lead.Status = update.Status
		if update.Notes != nil && *update.Notes != "" {
			lead.Notes = *update.Notes
		}
		if update.NextFollowUp != nil {
			lead.NextFollowUp = update.NextFollowUp
		}
		contacted := now()
		lead.LastContact = &contacted

		_, err = tx.ExecContext(ctx, tx.Rebind(`
			UPDATE leads SET status = ?, notes = ?, next_follow_up = ?, last_contact = ?
			WHERE id = ?
		`), lead.Status, lead.Notes, lead.NextFollowUp, lead.LastContact, lead.ID)
		if err != nil {
			return integrityError("update lead status", err)
		}

		updated = lead
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ConvertLeadToCustomer creates a customer from the lead and links them.
// created is false when the lead was already linked to a customer; that
// customer is returned and only the lead's status is restored to CONVERTED.
func ConvertLeadToCustomer(ctx context.Context, db *sqlx.DB, id int64) (customer *models.Customer, created bool, err error) {
	err = WithTx(ctx, db, func(tx *sqlx.Tx) error {
		lead, err := GetLead(ctx, tx, id)
		if err != nil {
			return err
		}

		if lead.IsConverted() {
			existing, err := GetCustomer(ctx, tx, *lead.ConvertedToCustomerID)
			if err != nil {
				return fmt.Errorf("failed to load converted customer: %w", err)
			}
			if lead.Status != models.LeadConverted {
				_, err = tx.ExecContext(ctx, tx.Rebind(`UPDATE leads SET status = ? WHERE id = ?`), models.LeadConverted, lead.ID)
				if err != nil {
					return integrityError("restore converted status", err)
				}
			}
			customer = existing
			return nil
		}

		fresh := &models.Customer{
			Name:     lead.Name,
			Email:    lead.Email,
			Phone:    lead.Phone,
			Address:  lead.Address,
			IsActive: true,
		}
		if err := CreateCustomer(ctx, tx, fresh); err != nil {
			// A clashing customer email fails the conversion as a whole.
			if errors.Is(err, ErrValidation) {
				return fmt.Errorf("%w: failed to create customer from lead: %v", ErrIntegrity, err)
			}
			return err
		}

		_, err = tx.ExecContext(ctx, tx.Rebind(`
			UPDATE leads SET status = ?, converted_at = ?, converted_to_customer_id = ?
			WHERE id = ?
		`), models.LeadConverted, fresh.CreatedAt, fresh.ID, lead.ID)
		if err != nil {
			return integrityError("link lead to customer", err)
		}

		customer = fresh
		created = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return customer, created, nil
}
