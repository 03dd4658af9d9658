// Package sinks opens the configured sink implementation.
package sinks

import (
	"context"

	"github.com/laurel-etl/laurel/internal/config"
	"github.com/laurel-etl/laurel/internal/sinks/filesink"
	"github.com/laurel-etl/laurel/internal/sinks/mongosink"
	"github.com/laurel-etl/laurel/internal/sinks/sqlsink"
	"github.com/laurel-etl/laurel/pkg/errors"
	"github.com/laurel-etl/laurel/pkg/logging"
	"github.com/laurel-etl/laurel/pkg/sink"
)

// Compile-time interface checks.
var (
	_ sink.Sink = (*sqlsink.Sink)(nil)
	_ sink.Sink = (*mongosink.Sink)(nil)
	_ sink.Sink = (*filesink.Sink)(nil)
	_ sink.Sink = (*sink.MemorySink)(nil)
)

// Open connects the sink selected by s.SinkDriver.
func Open(ctx context.Context, s *config.Settings) (sink.Sink, error) {
	driver := s.Driver()
	logging.FromContext(ctx).Debug().
		Str("driver", driver.String()).
		Str("host", s.DBHost).
		Int("port", s.Port()).
		Str("database", s.DBName).
		Msg("Opening sink")

	switch driver {
	case sink.MySQL, sink.Postgres, sink.SQLite:
		out, err := sqlsink.Open(ctx, sqlsink.Config{
			Driver: driver,
			DSN:    DSN(s),
			Table:  s.DBTable,
		})
		if err != nil {
			return nil, err
		}
		return out, nil
	case sink.MongoDB:
		out, err := mongosink.Open(ctx, mongosink.Config{
			URI:        mongosink.URI(s.DBHost, s.Port(), s.DBUser, s.DBPassword),
			Database:   s.DBName,
			Collection: s.DBTable,
		})
		if err != nil {
			return nil, err
		}
		return out, nil
	case sink.JSON, sink.YAML:
		out, err := filesink.New(driver, s.DBPath)
		if err != nil {
			return nil, err
		}
		return out, nil
	case sink.Memory:
		return sink.NewMemory(), nil
	default:
		return nil, errors.NewValidationError("sink_driver", s.SinkDriver, "unsupported sink driver")
	}
}

// DSN returns the database/sql connection string for the SQL drivers.
func DSN(s *config.Settings) string {
	conn := sqlsink.Conn{
		Host:     s.DBHost,
		Port:     s.Port(),
		User:     s.DBUser,
		Password: s.DBPassword,
		Database: s.DBName,
		SSLMode:  s.DBSSLMode,
	}
	switch s.Driver() {
	case sink.MySQL:
		return sqlsink.MySQLDSN(conn)
	case sink.Postgres:
		return sqlsink.PostgresDSN(conn)
	case sink.SQLite:
		return sqlsink.SQLiteDSN(s.DBPath)
	default:
		return ""
	}
}
