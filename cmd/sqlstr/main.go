// Command sqlstr renders JSON records into literal SQL statements.
//
// Usage:
//
//	sqlstr -op insert -table users -input records.json
//	sqlstr -op update -table users -input changes.json -where id=1
//	sqlstr -op where -table users -input filters.json -db app.sqlite
//	sqlstr -op select -table users -where name=John -db app.sqlite
//	sqlstr -op delete -table users -where id=1 -db app.sqlite
//
// The input is a JSON object or an array of objects; "-" reads stdin. Each
// record produces one statement for insert, update and where. The select
// and delete operations ignore the input and use -where alone. Update and
// delete require -where.
//
// Without -db, statements are printed one per line. With -db, they are
// executed on the given SQLite database file: modifications log the number
// of affected rows, and queries print every row as a JSON object.
//
// Settings may also come from a YAML file (-config or SQLSTR_CONFIG) and
// SQLSTR_* environment variables such as SQLSTR_TABLE. Flags win.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mitranim/sqlstr/internal/config"
	"github.com/mitranim/sqlstr/internal/logging"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		logging.Error().Err(err).Msg("sqlstr failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Timestamp: true})

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	var records []map[string]interface{}
	if opReadsInput(cfg.Op) {
		records, err = readInput(cfg.Input, stdin)
		if err != nil {
			return err
		}
	}

	stmts, err := render(cfg, records)
	if err != nil {
		return err
	}
	logging.Debug().Str("op", cfg.Op).Str("table", cfg.Table).Int("statements", len(stmts)).Msg("rendered statements")

	if cfg.DB == "" {
		for _, stmt := range stmts {
			if _, err := fmt.Fprintln(stdout, stmt); err != nil {
				return fmt.Errorf("failed to write statement: %w", err)
			}
		}
		return nil
	}

	return execute(ctx, cfg, stmts, stdout)
}

// Layers flags over the file and environment settings loaded by config.Load.
func loadConfig(args []string) (*config.Config, error) {
	def := config.Default()

	flags := flag.NewFlagSet("sqlstr", flag.ContinueOnError)
	path := flags.String("config", "", "YAML config file")
	op := flags.String("op", def.Op, "operation: insert, update, select, where, delete")
	table := flags.String("table", "", "target table")
	input := flags.String("input", def.Input, `JSON records file, "-" for stdin`)
	db := flags.String("db", "", "SQLite database file to execute statements on")
	where := flags.String("where", "", `"col=value" predicate for update, select and delete`)
	strict := flags.Bool("strict", false, "fail on record fields of unsupported types")
	timeout := flags.Duration("timeout", def.Timeout, "database session timeout")
	logLevel := flags.String("log-level", def.LogLevel, "log level")
	logFormat := flags.String("log-format", def.LogFormat, "log format: json or console")

	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	cfg, err := config.Load(*path)
	if err != nil {
		return nil, err
	}

	flags.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "op":
			cfg.Op = *op
		case "table":
			cfg.Table = *table
		case "input":
			cfg.Input = *input
		case "db":
			cfg.DB = *db
		case "where":
			cfg.Where = *where
		case "strict":
			cfg.Strict = *strict
		case "timeout":
			cfg.Timeout = *timeout
		case "log-level":
			cfg.LogLevel = *logLevel
		case "log-format":
			cfg.LogFormat = *logFormat
		}
	})

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
