// Package constants provides shared constants used throughout the laurel
// codebase: timeouts, limits and file permissions.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// ConnectTimeout bounds connecting to and pinging a database sink
	ConnectTimeout = 10 * time.Second

	// ShutdownTimeout bounds closing sinks when the CLI exits
	ShutdownTimeout = 5 * time.Second

	// ConnMaxLifetime is how long a pooled SQL connection is reused
	ConnMaxLifetime = 10 * time.Minute

	// DefaultWatchDebounce batches the burst of events one file save produces
	DefaultWatchDebounce = 500 * time.Millisecond

	// SQLiteBusyTimeout is how long SQLite waits on a locked database, in milliseconds
	SQLiteBusyTimeout = 5000
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0o755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0o644
)

// Limit constants define various limits and capacities
const (
	// InsertBatchSize bounds the rows per INSERT statement. 500 rows of 20
	// columns stays under SQLite's 32766 and Postgres' 65535 bind limits.
	InsertBatchSize = 500

	// MaxOpenConns is the SQL connection pool size for networked databases
	MaxOpenConns = 5
)
