// ABOUTME: Migration utility for moving a SQLite store into Postgres
// ABOUTME: Provides dry-run and backup capabilities for a safe one-shot copy

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"time"

	"github.com/harperreed/buildcrm/config"
	"github.com/harperreed/buildcrm/db"
)

func main() {
	from := flag.String("from", config.DefaultDatabasePath(), "Path to the SQLite database to copy")
	to := flag.String("to", config.GetEnv("BUILDCRM_DATABASE_URL", ""), "Postgres URL to copy into (required)")
	dryRun := flag.Bool("dry-run", false, "Show what would happen without making changes")
	backup := flag.Bool("backup", true, "Create backup of the SQLite file before migration")
	flag.Parse()

	if *to == "" {
		log.Fatal("Error: -to flag is required")
	}

	if err := migrate(context.Background(), *from, *to, *dryRun, *backup); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	log.Println("Migration completed successfully")
}

func migrate(ctx context.Context, from, to string, dryRun, createBackup bool) error {
	if _, err := os.Stat(from); os.IsNotExist(err) {
		return fmt.Errorf("database file does not exist: %s", from)
	}

	if createBackup && !dryRun {
		backupPath := fmt.Sprintf("%s.backup.%s", from, time.Now().Format("20060102-150405"))
		log.Printf("Creating backup: %s", backupPath)

		input, err := os.ReadFile(from)
		if err != nil {
			return fmt.Errorf("failed to read database: %w", err)
		}

		if err := os.WriteFile(backupPath, input, 0644); err != nil {
			return fmt.Errorf("failed to create backup: %w", err)
		}
		log.Printf("Backup created successfully")
	}

	src, err := db.OpenDatabase(db.DriverSQLite, from)
	if err != nil {
		return fmt.Errorf("failed to open source: %w", err)
	}
	defer func() { _ = src.Close() }()

	counts, err := db.CountRows(ctx, src)
	if err != nil {
		return err
	}

	if dryRun {
		order, err := db.InsertOrder()
		if err != nil {
			return err
		}
		log.Printf("[DRY RUN] Would copy into Postgres in this order:")
		for _, table := range order {
			log.Printf("[DRY RUN] - %s: %d row(s)", table, counts[table])
		}
		return nil
	}

	dst, err := db.OpenDatabase(db.DriverPostgres, to)
	if err != nil {
		return fmt.Errorf("failed to open destination: %w", err)
	}
	defer func() { _ = dst.Close() }()

	copied, err := db.CopyAll(ctx, src, dst)
	if err != nil {
		return err
	}

	tables := make([]string, 0, len(copied))
	for table := range copied {
		tables = append(tables, table)
	}
	sort.Strings(tables)
	for _, table := range tables {
		log.Printf("Copied %s: %d row(s)", table, copied[table])
	}
	return nil
}
