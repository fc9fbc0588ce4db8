// ABOUTME: Referential integrity engine for cascading deletes
// ABOUTME: Walks a static foreign-key graph, orders tables topologically, deletes in one transaction
package db

import (
	"context"
	"fmt"
	"sort"

	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("github.com/harperreed/buildcrm/db")

// Edge is a foreign key: Table.Column references References.id.
type Edge struct {
	Table      string
	Column     string
	References string
	Nullable   bool
}

// Graph lists every foreign key in the schema.
var Graph = []Edge{
	{Table: "projects", Column: "customer_id", References: "customers"},
	{Table: "interactions", Column: "customer_id", References: "customers"},
	{Table: "interactions", Column: "project_id", References: "projects", Nullable: true},
	{Table: "notifications", Column: "customer_id", References: "customers", Nullable: true},
	{Table: "notifications", Column: "project_id", References: "projects", Nullable: true},
	{Table: "vendor_projects", Column: "project_id", References: "projects"},
	{Table: "vendor_projects", Column: "vendor_id", References: "vendors"},
	{Table: "leads", Column: "converted_to_customer_id", References: "customers", Nullable: true},
}

// DeletionReport describes what a cascade removed.
type DeletionReport struct {
	Root    string           `json:"root"`
	RootID  int64            `json:"root_id"`
	Order   []string         `json:"order"`
	Deleted map[string]int64 `json:"deleted"`
}

// Total is the number of rows removed across all tables.
func (r *DeletionReport) Total() int64 {
	var total int64
	for _, n := range r.Deleted {
		total += n
	}
	return total
}

// Tables returns every table that appears in the graph, sorted.
func Tables() []string {
	seen := map[string]bool{}
	for _, e := range Graph {
		seen[e.Table] = true
		seen[e.References] = true
	}
	tables := make([]string, 0, len(seen))
	for t := range seen {
		tables = append(tables, t)
	}
	sort.Strings(tables)
	return tables
}

// DeletionOrder sorts tables so that every referencing table comes before the
// table it references. Ties are broken alphabetically.
func DeletionOrder(tables []string) ([]string, error) {
	inSet := map[string]bool{}
	for _, t := range tables {
		inSet[t] = true
	}

	// referencedBy[parent] = child tables in the set still pointing at parent
	referencedBy := map[string]map[string]bool{}
	for t := range inSet {
		referencedBy[t] = map[string]bool{}
	}
	for _, e := range Graph {
		if inSet[e.Table] && inSet[e.References] && e.Table != e.References {
			referencedBy[e.References][e.Table] = true
		}
	}

	var ready []string
	for t := range inSet {
		if len(referencedBy[t]) == 0 {
			ready = append(ready, t)
		}
	}
	sort.Strings(ready)

	order := make([]string, 0, len(inSet))
	for len(ready) > 0 {
		next := ready[0]
		ready = ready[1:]
		order = append(order, next)

		for parent, children := range referencedBy {
			if !children[next] {
				continue
			}
			delete(children, next)
			if len(children) == 0 {
				ready = append(ready, parent)
			}
		}
		sort.Strings(ready)
	}

	if len(order) != len(inSet) {
		return nil, fmt.Errorf("foreign key graph has a cycle")
	}
	return order, nil
}

// collectDependents walks the graph from the root row and returns the ids of
// every row that would be left dangling, grouped by table.
func collectDependents(ctx context.Context, tx *sqlx.Tx, root string, rootID int64) (map[string][]int64, error) {
	rows := map[string]map[int64]bool{root: {rootID: true}}

	type frontier struct {
		table string
		ids   []int64
	}
	queue := []frontier{{table: root, ids: []int64{rootID}}}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, e := range Graph {
			if e.References != current.table {
				continue
			}

			query, args, err := sqlx.In(fmt.Sprintf("SELECT id FROM %s WHERE %s IN (?)", e.Table, e.Column), current.ids)
			if err != nil {
				return nil, fmt.Errorf("failed to build dependent query: %w", err)
			}
			var ids []int64
			if err := tx.SelectContext(ctx, &ids, tx.Rebind(query), args...); err != nil {
				return nil, fmt.Errorf("failed to collect %s.%s: %w", e.Table, e.Column, err)
			}

			if rows[e.Table] == nil {
				rows[e.Table] = map[int64]bool{}
			}
			var fresh []int64
			for _, id := range ids {
				if !rows[e.Table][id] {
					rows[e.Table][id] = true
					fresh = append(fresh, id)
				}
			}
			if len(fresh) > 0 {
				queue = append(queue, frontier{table: e.Table, ids: fresh})
			}
		}
	}

	result := make(map[string][]int64, len(rows))
	for table, set := range rows {
		if len(set) == 0 {
			continue
		}
		ids := make([]int64, 0, len(set))
		for id := range set {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		result[table] = ids
	}
	return result, nil
}

func cascadeDelete(ctx context.Context, db *sqlx.DB, root, entity string, rootID int64) (*DeletionReport, error) {
	ctx, span := tracer.Start(ctx, "cascade.delete")
	defer span.End()
	span.SetAttributes(attribute.String("cascade.root", root), attribute.Int64("cascade.root_id", rootID))

	report := &DeletionReport{Root: root, RootID: rootID, Deleted: map[string]int64{}}

	err := WithTx(ctx, db, func(tx *sqlx.Tx) error {
		ok, err := rowExists(ctx, tx, root, rootID)
		if err != nil {
			return fmt.Errorf("failed to check %s: %w", entity, err)
		}
		if !ok {
			return notFound(entity, rootID)
		}

		dependents, err := collectDependents(ctx, tx, root, rootID)
		if err != nil {
			return integrityError("collect dependents", err)
		}

		tables := make([]string, 0, len(dependents))
		for t := range dependents {
			tables = append(tables, t)
		}
		order, err := DeletionOrder(tables)
		if err != nil {
			return integrityError("order deletes", err)
		}

		for _, table := range order {
			query, args, err := sqlx.In(fmt.Sprintf("DELETE FROM %s WHERE id IN (?)", table), dependents[table])
			if err != nil {
				return integrityError("build delete for "+table, err)
			}
			res, err := tx.ExecContext(ctx, tx.Rebind(query), args...)
			if err != nil {
				return integrityError("delete "+table, err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return integrityError("count deleted "+table, err)
			}
			report.Deleted[table] = n
		}
		report.Order = order
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int64("cascade.rows", report.Total()))
	return report, nil
}

// DeleteCustomer removes a customer together with its projects and every row
// that references either.
func DeleteCustomer(ctx context.Context, db *sqlx.DB, customerID int64) (*DeletionReport, error) {
	return cascadeDelete(ctx, db, "customers", "customer", customerID)
}

// DeleteProject removes a project with its vendor links, notifications, and interactions.
func DeleteProject(ctx context.Context, db *sqlx.DB, projectID int64) (*DeletionReport, error) {
	return cascadeDelete(ctx, db, "projects", "project", projectID)
}

// DanglingReference counts rows whose foreign key points at a missing parent.
type DanglingReference struct {
	Edge  Edge  `json:"edge"`
	Count int64 `json:"count"`
}

// DanglingReferences audits every edge in the graph.
func DanglingReferences(ctx context.Context, q sqlx.ExtContext) ([]DanglingReference, error) {
	results := make([]DanglingReference, 0, len(Graph))
	for _, e := range Graph {
		query := fmt.Sprintf(`
			SELECT COUNT(*) FROM %[1]s c
			WHERE c.%[2]s IS NOT NULL
			AND NOT EXISTS (SELECT 1 FROM %[3]s p WHERE p.id = c.%[2]s)
		`, e.Table, e.Column, e.References)

		var count int64
		if err := sqlx.GetContext(ctx, q, &count, query); err != nil {
			return nil, fmt.Errorf("failed to audit %s.%s: %w", e.Table, e.Column, err)
		}
		results = append(results, DanglingReference{Edge: e, Count: count})
	}
	return results, nil
}

// ClearAll empties every table in dependency order inside one transaction.
func ClearAll(ctx context.Context, db *sqlx.DB) (*DeletionReport, error) {
	order, err := DeletionOrder(Tables())
	if err != nil {
		return nil, err
	}

	report := &DeletionReport{Root: "*", Order: order, Deleted: map[string]int64{}}
	err = WithTx(ctx, db, func(tx *sqlx.Tx) error {
		for _, table := range order {
			res, err := tx.ExecContext(ctx, "DELETE FROM "+table)
			if err != nil {
				return integrityError("clear "+table, err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return integrityError("count cleared "+table, err)
			}
			report.Deleted[table] = n
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}
