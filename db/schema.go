// ABOUTME: Database schema definitions for SQLite and Postgres
// ABOUTME: Foreign keys are declared without ON DELETE CASCADE; cascade.go owns deletion order
package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS customers (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE,
	phone TEXT NOT NULL DEFAULT '',
	address TEXT NOT NULL DEFAULT '',
	is_active BOOLEAN NOT NULL DEFAULT 1,
	created_at DATETIME NOT NULL,
	updated_at DATETIME
);

CREATE INDEX IF NOT EXISTS idx_customers_name ON customers(name);

CREATE TABLE IF NOT EXISTS projects (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'pending',
	start_date DATE,
	end_date DATE,
	budget REAL,
	revenue REAL NOT NULL DEFAULT 0,
	customer_id INTEGER NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME,
	FOREIGN KEY (customer_id) REFERENCES customers(id)
);

CREATE INDEX IF NOT EXISTS idx_projects_customer_id ON projects(customer_id);
CREATE INDEX IF NOT EXISTS idx_projects_status ON projects(status);

CREATE TABLE IF NOT EXISTS vendors (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	contact_name TEXT NOT NULL DEFAULT '',
	email TEXT NOT NULL UNIQUE,
	phone TEXT NOT NULL DEFAULT '',
	address TEXT NOT NULL DEFAULT '',
	specialty TEXT NOT NULL DEFAULT '',
	is_active BOOLEAN NOT NULL DEFAULT 1,
	created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS vendor_projects (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	vendor_id INTEGER NOT NULL,
	project_id INTEGER NOT NULL,
	role TEXT NOT NULL DEFAULT '',
	start_date DATETIME,
	end_date DATETIME,
	status TEXT NOT NULL DEFAULT '',
	FOREIGN KEY (vendor_id) REFERENCES vendors(id),
	FOREIGN KEY (project_id) REFERENCES projects(id)
);

CREATE INDEX IF NOT EXISTS idx_vendor_projects_project_id ON vendor_projects(project_id);
CREATE INDEX IF NOT EXISTS idx_vendor_projects_vendor_id ON vendor_projects(vendor_id);

CREATE TABLE IF NOT EXISTS interactions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	customer_id INTEGER NOT NULL,
	project_id INTEGER,
	interaction_type TEXT NOT NULL CHECK(interaction_type IN ('phone_call', 'email', 'meeting', 'text', 'other')),
	description TEXT NOT NULL DEFAULT '',
	notes TEXT NOT NULL DEFAULT '',
	date DATETIME NOT NULL,
	duration REAL,
	FOREIGN KEY (customer_id) REFERENCES customers(id),
	FOREIGN KEY (project_id) REFERENCES projects(id)
);

CREATE INDEX IF NOT EXISTS idx_interactions_customer_id ON interactions(customer_id);
CREATE INDEX IF NOT EXISTS idx_interactions_project_id ON interactions(project_id);

CREATE TABLE IF NOT EXISTS notifications (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	customer_id INTEGER,
	project_id INTEGER,
	type TEXT NOT NULL CHECK(type IN ('follow_up', 'project_milestone', 'task_reminder', 'lead', 'completion')),
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	is_read BOOLEAN NOT NULL DEFAULT 0,
	due_date DATETIME,
	created_at DATETIME NOT NULL,
	FOREIGN KEY (customer_id) REFERENCES customers(id),
	FOREIGN KEY (project_id) REFERENCES projects(id)
);

CREATE INDEX IF NOT EXISTS idx_notifications_customer_id ON notifications(customer_id);
CREATE INDEX IF NOT EXISTS idx_notifications_project_id ON notifications(project_id);
CREATE INDEX IF NOT EXISTS idx_notifications_is_read ON notifications(is_read);

CREATE TABLE IF NOT EXISTS leads (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE,
	phone TEXT NOT NULL DEFAULT '',
	address TEXT NOT NULL DEFAULT '',
	source TEXT NOT NULL DEFAULT '',
	project_type TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'NEW',
	created_at DATETIME NOT NULL,
	converted_at DATETIME,
	converted_to_customer_id INTEGER,
	notes TEXT NOT NULL DEFAULT '',
	last_contact DATETIME,
	next_follow_up DATETIME,
	expected_value REAL,
	FOREIGN KEY (converted_to_customer_id) REFERENCES customers(id)
);

CREATE INDEX IF NOT EXISTS idx_leads_status ON leads(status);
CREATE INDEX IF NOT EXISTS idx_leads_converted_to_customer_id ON leads(converted_to_customer_id);
`

const postgresSchema = `
CREATE TABLE IF NOT EXISTS customers (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE,
	phone TEXT NOT NULL DEFAULT '',
	address TEXT NOT NULL DEFAULT '',
	is_active BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_customers_name ON customers(name);

CREATE TABLE IF NOT EXISTS projects (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'pending',
	start_date DATE,
	end_date DATE,
	budget DOUBLE PRECISION,
	revenue DOUBLE PRECISION NOT NULL DEFAULT 0,
	customer_id BIGINT NOT NULL REFERENCES customers(id),
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_projects_customer_id ON projects(customer_id);
CREATE INDEX IF NOT EXISTS idx_projects_status ON projects(status);

CREATE TABLE IF NOT EXISTS vendors (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	contact_name TEXT NOT NULL DEFAULT '',
	email TEXT NOT NULL UNIQUE,
	phone TEXT NOT NULL DEFAULT '',
	address TEXT NOT NULL DEFAULT '',
	specialty TEXT NOT NULL DEFAULT '',
	is_active BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS vendor_projects (
	id BIGSERIAL PRIMARY KEY,
	vendor_id BIGINT NOT NULL REFERENCES vendors(id),
	project_id BIGINT NOT NULL REFERENCES projects(id),
	role TEXT NOT NULL DEFAULT '',
	start_date TIMESTAMPTZ,
	end_date TIMESTAMPTZ,
	status TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_vendor_projects_project_id ON vendor_projects(project_id);
CREATE INDEX IF NOT EXISTS idx_vendor_projects_vendor_id ON vendor_projects(vendor_id);

CREATE TABLE IF NOT EXISTS interactions (
	id BIGSERIAL PRIMARY KEY,
	customer_id BIGINT NOT NULL REFERENCES customers(id),
	project_id BIGINT REFERENCES projects(id),
	interaction_type TEXT NOT NULL CHECK(interaction_type IN ('phone_call', 'email', 'meeting', 'text', 'other')),
	description TEXT NOT NULL DEFAULT '',
	notes TEXT NOT NULL DEFAULT '',
	date TIMESTAMPTZ NOT NULL,
	duration DOUBLE PRECISION
);

CREATE INDEX IF NOT EXISTS idx_interactions_customer_id ON interactions(customer_id);
CREATE INDEX IF NOT EXISTS idx_interactions_project_id ON interactions(project_id);

CREATE TABLE IF NOT EXISTS notifications (
	id BIGSERIAL PRIMARY KEY,
	customer_id BIGINT REFERENCES customers(id),
	project_id BIGINT REFERENCES projects(id),
	type TEXT NOT NULL CHECK(type IN ('follow_up', 'project_milestone', 'task_reminder', 'lead', 'completion')),
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	is_read BOOLEAN NOT NULL DEFAULT FALSE,
	due_date TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_notifications_customer_id ON notifications(customer_id);
CREATE INDEX IF NOT EXISTS idx_notifications_project_id ON notifications(project_id);
CREATE INDEX IF NOT EXISTS idx_notifications_is_read ON notifications(is_read);

CREATE TABLE IF NOT EXISTS leads (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE,
	phone TEXT NOT NULL DEFAULT '',
	address TEXT NOT NULL DEFAULT '',
	source TEXT NOT NULL DEFAULT '',
	project_type TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'NEW',
	created_at TIMESTAMPTZ NOT NULL,
	converted_at TIMESTAMPTZ,
	converted_to_customer_id BIGINT REFERENCES customers(id),
	notes TEXT NOT NULL DEFAULT '',
	last_contact TIMESTAMPTZ,
	next_follow_up TIMESTAMPTZ,
	expected_value DOUBLE PRECISION
);

CREATE INDEX IF NOT EXISTS idx_leads_status ON leads(status);
CREATE INDEX IF NOT EXISTS idx_leads_converted_to_customer_id ON leads(converted_to_customer_id);
`

// InitSchema creates all tables for the connection's dialect.
func InitSchema(ctx context.Context, db *sqlx.DB) error {
	schema := sqliteSchema
	if db.DriverName() == DriverPostgres {
		schema = postgresSchema
	}

	for _, stmt := range splitStatements(schema) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

func splitStatements(schema string) []string {
	var stmts []string
	for _, stmt := range strings.Split(schema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		stmts = append(stmts, stmt)
	}
	return stmts
}
