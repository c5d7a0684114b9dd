// SPDX-License-Identifier: Apache-2.0

package extract

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

const cursorName = "extract_cursor"

// chunk is one batch of rows fetched from the cursor, alongside the
// PostgreSQL type name of each column (used to tell JSON columns apart
// from plain text ones when encoding values).
type chunk struct {
	rows     [][]any
	colTypes []string
}

// streamChunks opens a read-only server-side cursor over the table's
// columns and invokes onChunk once per FETCH FORWARD batch, stopping when a
// batch returns fewer rows than chunkSize. database/sql / lib/pq has no
// named-cursor API of its own, so the cursor is driven directly with
// DECLARE/FETCH inside a single read-only transaction.
func streamChunks(ctx context.Context, db *sql.DB, schema, table string, columns []string, chunkSize int, onChunk func(chunk) error) error {
	tx, err := db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	quotedCols := make([]string, len(columns))
	for i, c := range columns {
		quotedCols[i] = pq.QuoteIdentifier(c)
	}

	declare := fmt.Sprintf("DECLARE %s CURSOR FOR SELECT %s FROM %s.%s",
		cursorName, joinComma(quotedCols), pq.QuoteIdentifier(schema), pq.QuoteIdentifier(table))
	if _, err := tx.ExecContext(ctx, declare); err != nil {
		return err
	}

	fetch := fmt.Sprintf("FETCH FORWARD %d FROM %s", chunkSize, cursorName)

	for {
		rows, err := tx.QueryContext(ctx, fetch)
		if err != nil {
			return err
		}

		colTypesMeta, err := rows.ColumnTypes()
		if err != nil {
			rows.Close()
			return err
		}
		colTypes := make([]string, len(colTypesMeta))
		for i, ct := range colTypesMeta {
			colTypes[i] = ct.DatabaseTypeName()
		}

		var batch [][]any
		for rows.Next() {
			values := make([]any, len(columns))
			dest := make([]any, len(columns))
			for i := range values {
				dest[i] = &values[i]
			}
			if err := rows.Scan(dest...); err != nil {
				rows.Close()
				return err
			}
			batch = append(batch, values)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return err
		}
		rows.Close()

		if len(batch) > 0 {
			if err := onChunk(chunk{rows: batch, colTypes: colTypes}); err != nil {
				return err
			}
		}

		if len(batch) < chunkSize {
			return nil
		}
	}
}

func joinComma(items []string) string {
	out := ""
	for i, s := range items {
		if i > 0 {
			out += ", "
		}
		out += s
	}
	return out
}
