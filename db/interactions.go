// ABOUTME: Interaction logging database operations
// ABOUTME: Interactions belong to a customer and optionally to one of that customer's projects
package db

import (
	"context"
	"fmt"

	"github.com/harperreed/buildcrm/models"
	"github.com/jmoiron/sqlx"
)

const interactionColumns = `id, customer_id, project_id, interaction_type, description, notes, date, duration`

// CreateInteraction records a customer interaction. Date defaults to now.
func CreateInteraction(ctx context.Context, q sqlx.ExtContext, interaction *models.Interaction) error {
	if !models.IsValidInteractionType(interaction.InteractionType) {
		return validationError("invalid interaction type %q", interaction.InteractionType)
	}

	ok, err := rowExists(ctx, q, "customers", interaction.CustomerID)
	if err != nil {
		return fmt.Errorf("failed to check customer: %w", err)
	}
	if !ok {
		return notFound("customer", interaction.CustomerID)
	}

	if interaction.ProjectID != nil {
		project, err := GetProject(ctx, q, *interaction.ProjectID)
		if err != nil {
			return err
		}
		if project.CustomerID != interaction.CustomerID {
			return validationError("project %d does not belong to customer %d", project.ID, interaction.CustomerID)
		}
	}

	if interaction.Date.IsZero() {
		interaction.Date = now()
	}
	interaction.Date = interaction.Date.UTC()

	id, err := insertReturningID(ctx, q, `
		INSERT INTO interactions (customer_id, project_id, interaction_type, description, notes, date, duration)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`, interaction.CustomerID, interaction.ProjectID, interaction.InteractionType,
		interaction.Description, interaction.Notes, interaction.Date, interaction.Duration)
	if err != nil {
		return fmt.Errorf("failed to create interaction: %w", err)
	}

	interaction.ID = id
	return nil
}

// ListCustomerInteractions returns a customer's interactions, newest first.
func ListCustomerInteractions(ctx context.Context, q sqlx.ExtContext, customerID int64, skip, limit int) ([]models.Interaction, error) {
	skip, limit = pageDefaults(skip, limit)

	ok, err := rowExists(ctx, q, "customers", customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to check customer: %w", err)
	}
	if !ok {
		return nil, notFound("customer", customerID)
	}

	interactions := []models.Interaction{}
	query := q.Rebind(`SELECT ` + interactionColumns + ` FROM interactions WHERE customer_id = ? ORDER BY date DESC, id DESC LIMIT ? OFFSET ?`)
	if err := sqlx.SelectContext(ctx, q, &interactions, query, customerID, limit, skip); err != nil {
		return nil, fmt.Errorf("failed to list interactions: %w", err)
	}
	return interactions, nil
}
