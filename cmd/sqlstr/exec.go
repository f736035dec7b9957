package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	"github.com/goccy/go-json"
	_ "modernc.org/sqlite"

	"github.com/mitranim/sqlstr/internal/config"
	"github.com/mitranim/sqlstr/internal/logging"
)

// Runs the statements in one transaction. Query results are written to out
// as JSON objects, one per line.
func execute(ctx context.Context, cfg *config.Config, stmts []string, out io.Writer) (err error) {
	db, err := sql.Open("sqlite", cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to open database %s: %w", cfg.DB, err)
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	log := logging.With().Str("db", cfg.DB).Str("table", cfg.Table).Logger()
	enc := json.NewEncoder(out)

	for i, stmt := range stmts {
		if opQueries(cfg.Op) {
			count, err := queryRows(ctx, tx, stmt, enc)
			if err != nil {
				return fmt.Errorf("statement %d: %w", i, err)
			}
			log.Info().Int("statement", i).Int("rows", count).Msg("query executed")
			continue
		}

		res, err := tx.ExecContext(ctx, stmt)
		if err != nil {
			return fmt.Errorf("statement %d: failed to execute: %w", i, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("statement %d: failed to count affected rows: %w", i, err)
		}
		log.Info().Int("statement", i).Int64("rows_affected", affected).Msg("statement executed")
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func queryRows(ctx context.Context, tx *sql.Tx, stmt string, enc *json.Encoder) (int, error) {
	rows, err := tx.QueryContext(ctx, stmt)
	if err != nil {
		return 0, fmt.Errorf("failed to query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return 0, fmt.Errorf("failed to read columns: %w", err)
	}

	count := 0
	vals := make([]interface{}, len(cols))
	ptrs := make([]interface{}, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return count, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make(map[string]interface{}, len(cols))
		for i, col := range cols {
			if bytes, ok := vals[i].([]byte); ok {
				row[col] = string(bytes)
			} else {
				row[col] = vals[i]
			}
		}

		if err := enc.Encode(row); err != nil {
			return count, fmt.Errorf("failed to encode row: %w", err)
		}
		count++
	}

	if err := rows.Err(); err != nil {
		return count, fmt.Errorf("failed to iterate rows: %w", err)
	}
	return count, nil
}
