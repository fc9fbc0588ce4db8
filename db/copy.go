// ABOUTME: Copies every CRM table from one store to another, keeping ids
// ABOUTME: Parents are inserted before children; Postgres sequences are advanced afterwards
package db

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
)

// InsertOrder is the reverse of the full deletion order: referenced tables first.
func InsertOrder() ([]string, error) {
	order, err := DeletionOrder(Tables())
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}
	return order, nil
}

// CountRows reports the row count of every table.
func CountRows(ctx context.Context, q sqlx.ExtContext) (map[string]int64, error) {
	counts := map[string]int64{}
	for _, table := range Tables() {
		var n int64
		if err := sqlx.GetContext(ctx, q, &n, "SELECT COUNT(*) FROM "+table); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", table, err)
		}
		counts[table] = n
	}
	return counts, nil
}

// CopyAll copies src into dst in one destination transaction. dst must be empty.
func CopyAll(ctx context.Context, src, dst *sqlx.DB) (map[string]int64, error) {
	existing, err := CountRows(ctx, dst)
	if err != nil {
		return nil, err
	}
	for table, n := range existing {
		if n > 0 {
			return nil, validationError("destination table %s already has %d row(s)", table, n)
		}
	}

	order, err := InsertOrder()
	if err != nil {
		return nil, err
	}

	copied := map[string]int64{}
	err = WithTx(ctx, dst, func(tx *sqlx.Tx) error {
		for _, table := range order {
			n, err := copyTable(ctx, src, tx, table)
			if err != nil {
				return integrityError("copy "+table, err)
			}
			copied[table] = n
		}
		if dst.DriverName() == DriverPostgres {
			for _, table := range order {
				query := fmt.Sprintf(`SELECT setval(pg_get_serial_sequence('%[1]s', 'id'), COALESCE(MAX(id), 1), MAX(id) IS NOT NULL) FROM %[1]s`, table)
				if _, err := tx.ExecContext(ctx, query); err != nil {
					return integrityError("advance sequence for "+table, err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return copied, nil
}

func copyTable(ctx context.Context, src *sqlx.DB, tx *sqlx.Tx, table string) (int64, error) {
	rows, err := src.QueryxContext(ctx, "SELECT * FROM "+table+" ORDER BY id")
	if err != nil {
		return 0, err
	}
	defer func() { _ = rows.Close() }()

	var copied int64
	for rows.Next() {
		record := map[string]interface{}{}
		if err := rows.MapScan(record); err != nil {
			return copied, err
		}

		columns := make([]string, 0, len(record))
		for column := range record {
			columns = append(columns, column)
		}
		sort.Strings(columns)

		args := make([]interface{}, len(columns))
		for i, column := range columns {
			value := record[column]
			// TEXT may come back as bytes from some drivers
			if b, ok := value.([]byte); ok {
				value = string(b)
			}
			args[i] = value
		}

		query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
			table, strings.Join(columns, ", "), strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", "))
		if _, err := tx.ExecContext(ctx, tx.Rebind(query), args...); err != nil {
			return copied, err
		}
		copied++
	}
	return copied, rows.Err()
}
