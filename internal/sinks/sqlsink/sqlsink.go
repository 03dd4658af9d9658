// Package sqlsink writes customers to a SQL table through database/sql.
// MySQL, Postgres and SQLite are supported.
package sqlsink

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/laurel-etl/laurel/pkg/constants"
	"github.com/laurel-etl/laurel/pkg/customer"
	"github.com/laurel-etl/laurel/pkg/errors"
	"github.com/laurel-etl/laurel/pkg/fields"
	"github.com/laurel-etl/laurel/pkg/logging"
	"github.com/laurel-etl/laurel/pkg/sink"
)

// DefaultTable is the table customers are written to.
const DefaultTable = "customer"

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Config selects the driver, connection and table.
type Config struct {
	Driver sink.Driver
	// DSN is passed to the driver as-is.
	DSN   string
	Table string
}

// Sink replaces the contents of one table.
type Sink struct {
	db      *sql.DB
	driver  sink.Driver
	table   string
	dialect dialect
}

// Open connects and verifies the connection.
func Open(ctx context.Context, cfg Config) (*Sink, error) {
	d, ok := dialects[cfg.Driver]
	if !ok {
		return nil, errors.NewValidationError("sink_driver", cfg.Driver, "not a SQL driver")
	}
	table := cfg.Table
	if table == "" {
		table = DefaultTable
	}
	if !tableName.MatchString(table) {
		return nil, errors.NewValidationError("table", table, "must be a plain SQL identifier")
	}

	db, err := d.open(cfg.DSN)
	if err != nil {
		return nil, errors.WrapSink(cfg.Driver.String(), "connect", err)
	}
	if d.maxConns > 0 {
		db.SetMaxOpenConns(d.maxConns)
	}
	db.SetConnMaxLifetime(constants.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, constants.ConnectTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close() //nolint:errcheck
		return nil, errors.WrapSink(cfg.Driver.String(), "connect", err)
	}

	return &Sink{db: db, driver: cfg.Driver, table: table, dialect: d}, nil
}

// Driver returns the configured driver.
func (s *Sink) Driver() sink.Driver { return s.driver }

// Table returns the target table name.
func (s *Sink) Table() string { return s.table }

// ReplaceAll creates the table if needed, checks that an existing table has
// the customer columns, then deletes every row and inserts customers inside
// a single transaction.
func (s *Sink) ReplaceAll(ctx context.Context, customers []customer.Customer) (int, error) {
	logger := logging.FromContext(ctx)

	// MySQL commits implicitly on DDL, so the table is ensured outside the
	// transaction.
	if _, err := s.db.ExecContext(ctx, s.dialect.createTable(s.table)); err != nil {
		return 0, errors.WrapSink(s.driver.String(), "create", err)
	}
	if err := s.checkSchema(ctx); err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, errors.WrapSink(s.driver.String(), "begin", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	builder := squirrel.StatementBuilder.PlaceholderFormat(s.dialect.placeholder).RunWith(tx)

	res, err := builder.Delete(s.table).ExecContext(ctx)
	if err != nil {
		return 0, errors.WrapSink(s.driver.String(), "clear", err)
	}
	if cleared, err := res.RowsAffected(); err == nil {
		logger.Debug().Int64("rows", cleared).Str("table", s.table).Msg("Cleared previous customers")
	}

	rows := sink.AssignIDs(customers)
	for start := 0; start < len(rows); start += constants.InsertBatchSize {
		end := min(start+constants.InsertBatchSize, len(rows))
		insert := builder.Insert(s.table).Columns(columns()...)
		for i := start; i < end; i++ {
			insert = insert.Values(values(&rows[i])...)
		}
		if _, err := insert.ExecContext(ctx); err != nil {
			return 0, errors.WrapSink(s.driver.String(), "insert", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, errors.WrapSink(s.driver.String(), "commit", err)
	}
	return len(rows), nil
}

// Close closes the database handle.
func (s *Sink) Close() error {
	return s.db.Close()
}

// checkSchema compares the columns of the target table with the ones
// ReplaceAll writes. CREATE TABLE IF NOT EXISTS leaves an existing table as
// it is, so its layout is checked before any row is deleted.
func (s *Sink) checkSchema(ctx context.Context) error {
	query, args, err := squirrel.Select("*").From(s.table).Where("1 = 0").ToSql()
	if err != nil {
		return errors.WrapSink(s.driver.String(), "schema", err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return errors.WrapSink(s.driver.String(), "schema", err)
	}
	defer rows.Close() //nolint:errcheck

	types, err := rows.ColumnTypes()
	if err != nil {
		return errors.WrapSink(s.driver.String(), "schema", err)
	}
	have := make(map[string]string, len(types))
	for _, ct := range types {
		have[strings.ToLower(ct.Name())] = strings.ToUpper(ct.DatabaseTypeName())
	}

	var missing, extra []string
	want := make(map[string]bool, fields.Count+1)
	for _, col := range columns() {
		want[strings.ToLower(col)] = true
		if _, ok := have[strings.ToLower(col)]; !ok {
			missing = append(missing, col)
		}
	}
	for _, ct := range types {
		if !want[strings.ToLower(ct.Name())] {
			extra = append(extra, ct.Name())
		}
	}
	if len(missing) > 0 || len(extra) > 0 {
		return errors.NewSinkError(s.driver.String(), "schema", fmt.Errorf(
			"table %s does not match the customer layout (missing: [%s], unexpected: [%s])",
			s.table, strings.Join(missing, ", "), strings.Join(extra, ", ")))
	}
	if typ := have["id"]; typ != "" && !strings.Contains(typ, "CHAR") && !strings.Contains(typ, "TEXT") {
		return errors.NewSinkError(s.driver.String(), "schema", fmt.Errorf(
			"table %s has id column of type %s, want a text column for UUIDs", s.table, typ))
	}
	return nil
}

// columns returns the id column followed by the attribute columns.
func columns() []string {
	return append([]string{"id"}, fields.Names()...)
}

func values(c *customer.Customer) []any {
	vals := make([]any, 0, fields.Count+1)
	vals = append(vals, c.ID)
	for _, v := range c.Values() {
		vals = append(vals, v)
	}
	return vals
}

type dialect struct {
	placeholder squirrel.PlaceholderFormat
	textType    string
	longType    string
	maxConns    int
	open        func(dsn string) (*sql.DB, error)
}

var dialects = map[sink.Driver]dialect{
	sink.MySQL: {
		placeholder: squirrel.Question,
		textType:    "VARCHAR(255)",
		longType:    "LONGTEXT",
		maxConns:    constants.MaxOpenConns,
		open:        func(dsn string) (*sql.DB, error) { return sql.Open("mysql", dsn) },
	},
	sink.Postgres: {
		placeholder: squirrel.Dollar,
		textType:    "TEXT",
		longType:    "TEXT",
		maxConns:    constants.MaxOpenConns,
		open: func(dsn string) (*sql.DB, error) {
			connector, err := pq.NewConnector(dsn)
			if err != nil {
				return nil, err
			}
			return sql.OpenDB(connector), nil
		},
	},
	sink.SQLite: {
		placeholder: squirrel.Question,
		textType:    "TEXT",
		longType:    "TEXT",
		maxConns:    1,
		open:        func(dsn string) (*sql.DB, error) { return sql.Open("sqlite", dsn) },
	},
}

func (d dialect) createTable(table string) string {
	cols := make([]string, 0, fields.Count+1)
	cols = append(cols, "id VARCHAR(36) NOT NULL PRIMARY KEY")
	for _, f := range fields.All() {
		typ := d.textType
		if f == fields.Notes {
			typ = d.longType
		}
		cols = append(cols, fmt.Sprintf("%s %s NOT NULL", f.String(), typ))
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n  %s\n)", table, strings.Join(cols, ",\n  "))
}
