package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"

	"github.com/mitranim/sqlstr"
	"github.com/mitranim/sqlstr/internal/config"
	"github.com/mitranim/sqlstr/internal/logging"
)

var errWhereRequired = errors.New("a -where predicate is required")

func opReadsInput(op string) bool {
	return op == "insert" || op == "update" || op == "where"
}

func opQueries(op string) bool {
	return op == "select" || op == "where"
}

// Decodes a JSON object or an array of objects. Numbers stay json.Number so
// that large integers render exactly.
func readInput(path string, stdin io.Reader) ([]map[string]interface{}, error) {
	src := stdin
	if path != "-" {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open input: %w", err)
		}
		defer file.Close()
		src = file
	}

	dec := json.NewDecoder(src)
	dec.UseNumber()

	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode records: %w", err)
	}

	switch doc := doc.(type) {
	case map[string]interface{}:
		return []map[string]interface{}{doc}, nil

	case []interface{}:
		out := make([]map[string]interface{}, 0, len(doc))
		for i, val := range doc {
			rec, ok := val.(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("record %d: expected JSON object, got %T", i, val)
			}
			out = append(out, rec)
		}
		return out, nil

	default:
		return nil, fmt.Errorf("expected JSON object or array, got %T", doc)
	}
}

func render(cfg *config.Config, records []map[string]interface{}) ([]string, error) {
	col, val, hasWhere := config.SplitWhere(cfg.Where)

	switch cfg.Op {
	case "select":
		bui := sqlstr.New().Select(`*`).From(cfg.Table)
		if hasWhere {
			bui.Where(col, `=`, val)
		}
		return build(bui)

	case "delete":
		if !hasWhere {
			return nil, fmt.Errorf("delete: %w", errWhereRequired)
		}
		return build(sqlstr.Table(cfg.Table).Delete().Where(col, `=`, val))
	}

	if cfg.Op == "update" && !hasWhere {
		return nil, fmt.Errorf("update: %w", errWhereRequired)
	}

	out := make([]string, 0, len(records))

	for i, rec := range records {
		reportDropped(i, sqlstr.Map(rec))

		var bui *sqlstr.Builder
		switch cfg.Op {
		case "insert":
			bui = sqlstr.Table(cfg.Table)
			bui.Strict = cfg.Strict
			bui.Insert(sqlstr.Map(rec))

		case "update":
			bui = sqlstr.Table(cfg.Table)
			bui.Strict = cfg.Strict
			bui.Update(sqlstr.Map(rec)).Where(col, `=`, val)

		case "where":
			bui = sqlstr.New()
			bui.Strict = cfg.Strict
			bui.Select(`*`).From(cfg.Table).WhereAnd(sqlstr.Map(rec))

		default:
			return nil, fmt.Errorf("unknown operation %q", cfg.Op)
		}

		text, err := bui.Build()
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		out = append(out, text)
	}

	return out, nil
}

func build(bui *sqlstr.Builder) ([]string, error) {
	text, err := bui.Build()
	if err != nil {
		return nil, err
	}
	return []string{text}, nil
}

func reportDropped(index int, rec sqlstr.Record) {
	_, dropped := sqlstr.ExtractReport(rec)
	for _, val := range dropped {
		if val.Reason != sqlstr.DropUnsupported {
			continue
		}
		logging.Warn().
			Int("record", index).
			Str("field", val.Name).
			Str("type", val.Type).
			Msg("skipping field of unsupported type")
	}
}
