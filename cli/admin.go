// ABOUTME: Store maintenance CLI commands
// ABOUTME: Integrity check, full clear, and sample-data seeding
package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/harperreed/buildcrm/db"
	"github.com/jmoiron/sqlx"
)

// CheckCommand reports rows whose foreign keys point at missing parents
func CheckCommand(ctx context.Context, database *sqlx.DB, args []string) error {
	refs, err := db.DanglingReferences(ctx, database)
	if err != nil {
		return fmt.Errorf("failed to check references: %w", err)
	}

	var dangling []db.DanglingReference
	for _, ref := range refs {
		if ref.Count > 0 {
			dangling = append(dangling, ref)
		}
	}
	if len(dangling) == 0 {
		fmt.Fprintln(stdout, "✓ No dangling references")
		return nil
	}

	w := newTable()
	fmt.Fprintln(w, "TABLE\tCOLUMN\tREFERENCES\tROWS")
	for _, d := range dangling {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", d.Edge.Table, d.Edge.Column, d.Edge.References, d.Count)
	}
	_ = w.Flush()

	return fmt.Errorf("found dangling references in %d relationship(s)", len(dangling))
}

// ClearDBCommand deletes every record. Requires --yes.
func ClearDBCommand(ctx context.Context, database *sqlx.DB, args []string) error {
	fs := flag.NewFlagSet("clear-db", flag.ContinueOnError)
	yes := fs.Bool("yes", false, "Confirm deleting all data")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if !*yes {
		return fmt.Errorf("refusing to clear the database without --yes")
	}

	report, err := db.ClearAll(ctx, database)
	if err != nil {
		return fmt.Errorf("failed to clear database: %w", err)
	}

	fmt.Fprintln(stdout, "✓ Database cleared")
	printReport(report)
	return nil
}

// SeedCommand loads sample data into an empty store
func SeedCommand(ctx context.Context, database *sqlx.DB, args []string) error {
	seeded, err := db.SeedSampleData(ctx, database)
	if err != nil {
		return fmt.Errorf("failed to seed database: %w", err)
	}

	if !seeded {
		fmt.Fprintln(stdout, "Database already has customers; skipping sample data")
		return nil
	}
	fmt.Fprintln(stdout, "✓ Sample data loaded")
	return nil
}
