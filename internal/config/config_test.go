package config_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laurel-etl/laurel/internal/config"
	"github.com/laurel-etl/laurel/pkg/errors"
	"github.com/laurel-etl/laurel/pkg/sink"
	"github.com/laurel-etl/laurel/pkg/sources"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_PASSWORD", "usbw")

	s, err := config.Load(config.NewViper())
	require.NoError(t, err)

	assert.Equal(t, config.DefaultDataDir, s.DataDir)
	assert.Equal(t, sink.MySQL, s.Driver())
	assert.Equal(t, 3307, s.Port())
	assert.Equal(t, "root", s.DBUser)
	assert.Equal(t, "laurel_etl", s.DBName)
	assert.Equal(t, "usbw", s.DBPassword)
	assert.Equal(t, "customer", s.DBTable)
	assert.Equal(t, "unattached", s.NotesPolicy)
	assert.Equal(t, 500*time.Millisecond, s.WatchDebounce)

	paths := s.SourcePaths()
	assert.Equal(t, filepath.Join("data_cetm50", "user_data.csv"), paths[sources.CSVID])
	assert.Equal(t, filepath.Join("data_cetm50", "user_data.txt"), paths[sources.TextID])
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SINK_DRIVER", "postgres")
	t.Setenv("DB_NAME", "crm")
	t.Setenv("NOTES_POLICY", "drop")
	t.Setenv("WATCH_DEBOUNCE", "2s")
	t.Setenv("XML_FILE", "/srv/in/users.xml")

	s, err := config.Load(config.NewViper())
	require.NoError(t, err)

	assert.Equal(t, sink.Postgres, s.Driver())
	assert.Equal(t, 5432, s.Port())
	assert.Equal(t, "crm", s.DBName)
	assert.Equal(t, "drop", s.NotesPolicy)
	assert.Equal(t, 2*time.Second, s.WatchDebounce)

	paths := s.SourcePaths()
	assert.Equal(t, "/srv/in/users.xml", paths[sources.XMLID])
	assert.Equal(t, filepath.Join("data_cetm50", "user_data.json"), paths[sources.JSONID])
}

func TestExplicitPortWins(t *testing.T) {
	v := config.NewViper()
	v.Set("sink_driver", "mongodb")
	s, err := config.Load(v)
	require.NoError(t, err)
	assert.Equal(t, 27017, s.Port())

	v.Set("db_port", 27999)
	s, err = config.Load(v)
	require.NoError(t, err)
	assert.Equal(t, 27999, s.Port())
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  any
		want string
	}{
		{"unknown driver", "sink_driver", "oracle", "sink_driver"},
		{"unknown notes policy", "notes_policy", "attach", "notes_policy"},
		{"bad table", "db_table", "customer;drop", "db_table"},
		{"bad ssl mode", "db_ssl_mode", "maybe", "db_ssl_mode"},
		{"port range", "db_port", 70000, "db_port"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := config.NewViper()
			v.Set(tt.key, tt.val)
			_, err := config.Load(v)
			require.Error(t, err)
			var cerr *errors.ConfigError
			require.ErrorAs(t, err, &cerr)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestFileSinksNeedPath(t *testing.T) {
	for _, driver := range []string{"sqlite", "json", "yaml"} {
		v := config.NewViper()
		v.Set("sink_driver", driver)
		_, err := config.Load(v)
		require.Error(t, err, driver)

		v.Set("db_path", filepath.Join(t.TempDir(), "out"))
		_, err = config.Load(v)
		require.NoError(t, err, driver)
	}
}

func TestEmptyFileNameDisablesSource(t *testing.T) {
	v := config.NewViper()
	v.Set("txt_file", "")
	s, err := config.Load(v)
	require.NoError(t, err)
	assert.Empty(t, s.SourcePaths()[sources.TextID])
}

func TestMemorySinkNeedsNothing(t *testing.T) {
	v := config.NewViper()
	v.Set("sink_driver", "memory")
	v.Set("db_host", "")
	_, err := config.Load(v)
	require.NoError(t, err)
}
