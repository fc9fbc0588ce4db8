// ABOUTME: Sample data for a fresh store
// ABOUTME: Inserts a couple of customers, projects, and a lead only when the store is empty
package db

import (
	"context"
	"fmt"

	"github.com/harperreed/buildcrm/models"
	"github.com/jmoiron/sqlx"
)

// SeedSampleData fills an empty store with demo records. It reports whether
// anything was inserted.
func SeedSampleData(ctx context.Context, db *sqlx.DB) (bool, error) {
	existing, err := CountCustomers(ctx, db, false)
	if err != nil {
		return false, err
	}
	if existing > 0 {
		return false, nil
	}

	err = WithTx(ctx, db, func(tx *sqlx.Tx) error {
		john := &models.Customer{
			Name:     "John Smith",
			Email:    "john@example.com",
			Phone:    "555-0101",
			Address:  "123 Main St",
			IsActive: true,
		}
		jane := &models.Customer{
			Name:     "Jane Doe",
			Email:    "jane@example.com",
			Phone:    "555-0102",
			Address:  "456 Oak Ave",
			IsActive: true,
		}
		for _, c := range []*models.Customer{john, jane} {
			if err := CreateCustomer(ctx, tx, c); err != nil {
				return fmt.Errorf("failed to seed customer: %w", err)
			}
		}

		kitchenBudget := 25000.0
		deckBudget := 12000.0
		projects := []*models.Project{
			{
				Name:        "Kitchen Remodel",
				Description: "Full kitchen renovation",
				Status:      models.ProjectInProgress,
				Budget:      &kitchenBudget,
				CustomerID:  john.ID,
			},
			{
				Name:        "Deck Construction",
				Description: "New backyard deck",
				Status:      models.ProjectPending,
				Budget:      &deckBudget,
				CustomerID:  jane.ID,
			},
		}
		for _, p := range projects {
			if err := CreateProject(ctx, tx, p); err != nil {
				return fmt.Errorf("failed to seed project: %w", err)
			}
		}

		expected := 8000.0
		lead := &models.Lead{
			Name:          "Bob Wilson",
			Email:         "bob@example.com",
			Phone:         "555-0103",
			Source:        "Referral",
			ProjectType:   "Bathroom Remodel",
			Description:   "Wants a quote for a second bathroom",
			ExpectedValue: &expected,
		}
		if err := CreateLead(ctx, tx, lead); err != nil {
			return fmt.Errorf("failed to seed lead: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
