package sqlsink_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laurel-etl/laurel/internal/sinks/sqlsink"
	"github.com/laurel-etl/laurel/pkg/customer"
	"github.com/laurel-etl/laurel/pkg/errors"
	"github.com/laurel-etl/laurel/pkg/fields"
	"github.com/laurel-etl/laurel/pkg/sink"
)

// openSQLite opens a sink on a fresh database file along with a separate
// handle for reading back what it wrote.
func openSQLite(t *testing.T) (*sqlsink.Sink, *sql.DB) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "laurel.db")
	s, err := sqlsink.Open(context.Background(), sqlsink.Config{
		Driver: sink.SQLite,
		DSN:    sqlsink.SQLiteDSN(path),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, readHandle(t, path)
}

func readHandle(t *testing.T, path string) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", sqlsink.SQLiteDSN(path))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func sample(first, last, age string) customer.Customer {
	return customer.Normalize(fields.NewRecord(map[fields.Field]string{
		fields.FirstName: first,
		fields.LastName:  last,
		fields.Age:       age,
	}))
}

func count(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

func TestReplaceAllSQLite(t *testing.T) {
	ctx := context.Background()
	s, db := openSQLite(t)
	assert.Equal(t, sink.SQLite, s.Driver())
	assert.Equal(t, sqlsink.DefaultTable, s.Table())

	n, err := s.ReplaceAll(ctx, []customer.Customer{
		sample("John", "Doe", "30"),
		sample("Ann", "Lee", ""),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, count(t, db, s.Table()))

	var age, sex string
	require.NoError(t, db.QueryRow(
		"SELECT age, sex FROM customer WHERE firstName = ?", "Ann").Scan(&age, &sex))
	assert.Equal(t, fields.Unknown, age)
	assert.Equal(t, fields.Unknown, sex)

	// a second pass replaces rather than appends
	n, err = s.ReplaceAll(ctx, []customer.Customer{sample("Zed", "Moe", "50")})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, count(t, db, s.Table()))

	n, err = s.ReplaceAll(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Zero(t, count(t, db, s.Table()))
}

func TestReplaceAllLargeSet(t *testing.T) {
	s, db := openSQLite(t)
	rows := make([]customer.Customer, 1203)
	for i := range rows {
		rows[i] = sample("First", "Last", "1")
	}
	n, err := s.ReplaceAll(context.Background(), rows)
	require.NoError(t, err)
	assert.Equal(t, len(rows), n)
	assert.Equal(t, len(rows), count(t, db, s.Table()))
}

func TestOpenRejectsBadInput(t *testing.T) {
	ctx := context.Background()

	_, err := sqlsink.Open(ctx, sqlsink.Config{Driver: sink.MongoDB})
	assert.True(t, errors.IsValidationError(err))

	_, err = sqlsink.Open(ctx, sqlsink.Config{
		Driver: sink.SQLite,
		DSN:    sqlsink.SQLiteDSN(filepath.Join(t.TempDir(), "x.db")),
		Table:  "customer; DROP TABLE x",
	})
	assert.True(t, errors.IsValidationError(err))
}

func TestReplaceAllCancelled(t *testing.T) {
	s, _ := openSQLite(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.ReplaceAll(ctx, []customer.Customer{sample("a", "b", "1")})
	require.Error(t, err)
	assert.True(t, errors.IsSinkError(err))
}

func TestReplaceAllRejectsForeignTable(t *testing.T) {
	tests := []struct {
		name   string
		create string
		want   string
	}{
		{
			name:   "integer id",
			create: "CREATE TABLE people (id INTEGER PRIMARY KEY AUTOINCREMENT, " + textColumns() + ")",
			want:   "id column of type INTEGER",
		},
		{
			name:   "missing columns",
			create: "CREATE TABLE people (id VARCHAR(36) PRIMARY KEY, firstName TEXT, lastName TEXT)",
			want:   "missing: [age",
		},
		{
			name:   "unexpected column",
			create: "CREATE TABLE people (id VARCHAR(36) PRIMARY KEY, " + textColumns() + ", nickname TEXT NOT NULL)",
			want:   "unexpected: [nickname]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "laurel.db")
			db := readHandle(t, path)
			_, err := db.Exec(tt.create)
			require.NoError(t, err)
			_, err = db.Exec("INSERT INTO people (firstName, lastName) VALUES ('Old', 'Row')")
			require.NoError(t, err)

			s, err := sqlsink.Open(context.Background(), sqlsink.Config{
				Driver: sink.SQLite,
				DSN:    sqlsink.SQLiteDSN(path),
				Table:  "people",
			})
			require.NoError(t, err)
			t.Cleanup(func() { _ = s.Close() })

			_, err = s.ReplaceAll(context.Background(), []customer.Customer{sample("John", "Doe", "30")})
			require.Error(t, err)
			assert.True(t, errors.IsSinkError(err))
			assert.Contains(t, err.Error(), tt.want)

			// the existing rows are left alone
			assert.Equal(t, 1, count(t, db, "people"))
		})
	}
}

func TestReplaceAllAcceptsOwnTable(t *testing.T) {
	s, db := openSQLite(t)
	_, err := s.ReplaceAll(context.Background(), []customer.Customer{sample("John", "Doe", "30")})
	require.NoError(t, err)

	// a table created earlier by the sink passes the layout check
	_, err = s.ReplaceAll(context.Background(), []customer.Customer{sample("Ann", "Lee", "31")})
	require.NoError(t, err)
	assert.Equal(t, 1, count(t, db, s.Table()))
}

// textColumns declares every customer attribute as a nullable text column.
func textColumns() string {
	cols := make([]string, 0, fields.Count)
	for _, name := range fields.Names() {
		cols = append(cols, name+" TEXT")
	}
	return strings.Join(cols, ", ")
}

func TestDSN(t *testing.T) {
	conn := sqlsink.Conn{
		Host:     "localhost",
		Port:     3307,
		User:     "root",
		Password: "usbw",
		Database: "laurel_etl",
	}

	dsn := sqlsink.MySQLDSN(conn)
	assert.True(t, strings.HasPrefix(dsn, "root:usbw@tcp(localhost:3307)/laurel_etl?"), dsn)
	assert.Contains(t, dsn, "charset=utf8mb4")
	assert.Contains(t, dsn, "parseTime=true")

	conn.Port = 5432
	pg := sqlsink.PostgresDSN(conn)
	assert.Contains(t, pg, "host='localhost'")
	assert.Contains(t, pg, "port=5432")
	assert.Contains(t, pg, "dbname='laurel_etl'")
	assert.Contains(t, pg, "sslmode='disable'")
	assert.Contains(t, pg, "password='usbw'")

	conn.Password = "it's"
	assert.Contains(t, sqlsink.PostgresDSN(conn), `password='it\'s'`)

	assert.Equal(t,
		"file:/tmp/x.db?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)",
		sqlsink.SQLiteDSN("/tmp/x.db"))
}
