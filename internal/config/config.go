// Package config loads and validates the settings for a reconciliation pass.
package config

import (
	"fmt"
	"path/filepath"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/laurel-etl/laurel/pkg/constants"
	"github.com/laurel-etl/laurel/pkg/errors"
	"github.com/laurel-etl/laurel/pkg/sink"
	"github.com/laurel-etl/laurel/pkg/sources"
)

// Default values.
const (
	DefaultDataDir       = "data_cetm50"
	DefaultDriver        = "mysql"
	DefaultHost          = "localhost"
	DefaultUser          = "root"
	DefaultDatabase      = "laurel_etl"
	DefaultTable         = "customer"
	DefaultNotesPolicy   = "unattached"
	DefaultWatchDebounce = constants.DefaultWatchDebounce
)

// PasswordEnv supplies the sink password.
const PasswordEnv = "DB_PASSWORD"

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Settings is everything a pass needs besides command-line flags.
type Settings struct {
	DataDir  string `mapstructure:"data_dir" validate:"required"`
	CSVFile  string `mapstructure:"csv_file"`
	JSONFile string `mapstructure:"json_file"`
	XMLFile  string `mapstructure:"xml_file"`
	TXTFile  string `mapstructure:"txt_file"`

	SinkDriver string `mapstructure:"sink_driver" validate:"required,oneof=mysql postgres sqlite mongodb json yaml memory"`
	DBHost     string `mapstructure:"db_host"`
	// DBPort of zero selects the driver's default port.
	DBPort     int    `mapstructure:"db_port" validate:"gte=0,lte=65535"`
	DBUser     string `mapstructure:"db_user"`
	DBPassword string `mapstructure:"db_password"`
	DBName     string `mapstructure:"db_name"`
	DBSSLMode  string `mapstructure:"db_ssl_mode" validate:"omitempty,oneof=disable require verify-ca verify-full"`
	DBPath     string `mapstructure:"db_path"`
	DBTable    string `mapstructure:"db_table" validate:"required,sql_identifier"`

	NotesPolicy   string        `mapstructure:"notes_policy" validate:"required,oneof=unattached drop"`
	WatchDebounce time.Duration `mapstructure:"watch_debounce" validate:"gte=0"`
	Schedule      string        `mapstructure:"schedule"`
}

func defaults() map[string]any {
	return map[string]any{
		"data_dir":       DefaultDataDir,
		"csv_file":       "user_data.csv",
		"json_file":      "user_data.json",
		"xml_file":       "user_data.xml",
		"txt_file":       "user_data.txt",
		"sink_driver":    DefaultDriver,
		"db_host":        DefaultHost,
		"db_port":        0,
		"db_user":        DefaultUser,
		"db_password":    "",
		"db_name":        DefaultDatabase,
		"db_ssl_mode":    "",
		"db_path":        "",
		"db_table":       DefaultTable,
		"notes_policy":   DefaultNotesPolicy,
		"watch_debounce": DefaultWatchDebounce,
		"schedule":       "",
	}
}

// Load unmarshals and validates the settings held by v.
func Load(v *viper.Viper) (*Settings, error) {
	s := &Settings{}
	if err := v.Unmarshal(s); err != nil {
		return nil, errors.NewConfigError("settings", "failed to decode", err)
	}
	if s.DBPassword == "" {
		s.DBPassword = GetString(v, PasswordEnv)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks struct tags plus the rules that span fields.
func (s *Settings) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("mapstructure")
	})
	if err := validate.RegisterValidation("sql_identifier", validateIdentifier); err != nil {
		return errors.NewConfigError("settings", "failed to register validators", err)
	}
	if err := validate.Struct(s); err != nil {
		return errors.NewConfigError("settings", describe(err), err)
	}

	driver := sink.Driver(s.SinkDriver)
	switch {
	case driver == sink.SQLite || driver == sink.JSON || driver == sink.YAML:
		if s.DBPath == "" {
			return errors.NewConfigError("settings", fmt.Sprintf("db_path is required for the %s sink", driver), nil)
		}
	case driver == sink.Memory:
	default:
		if s.DBHost == "" || s.DBName == "" {
			return errors.NewConfigError("settings", fmt.Sprintf("db_host and db_name are required for the %s sink", driver), nil)
		}
	}
	return nil
}

// Driver returns the configured sink driver.
func (s *Settings) Driver() sink.Driver {
	return sink.Driver(s.SinkDriver)
}

// Port returns DBPort, or the driver's default port when unset.
func (s *Settings) Port() int {
	if s.DBPort != 0 {
		return s.DBPort
	}
	return DefaultPort(s.Driver())
}

// DefaultPort returns the usual port for a networked driver.
func DefaultPort(d sink.Driver) int {
	switch d {
	case sink.MySQL:
		return 3307
	case sink.Postgres:
		return 5432
	case sink.MongoDB:
		return 27017
	default:
		return 0
	}
}

// SourcePaths resolves the input files against DataDir. Absolute names are
// kept; empty names disable that source.
func (s *Settings) SourcePaths() map[sources.ID]string {
	resolve := func(name string) string {
		if name == "" || filepath.IsAbs(name) {
			return name
		}
		return filepath.Join(s.DataDir, name)
	}
	return map[sources.ID]string{
		sources.CSVID:  resolve(s.CSVFile),
		sources.JSONID: resolve(s.JSONFile),
		sources.XMLID:  resolve(s.XMLFile),
		sources.TextID: resolve(s.TXTFile),
	}
}

func validateIdentifier(fl validator.FieldLevel) bool {
	return identifierPattern.MatchString(fl.Field().String())
}

// describe flattens validator errors into one line naming each key.
func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}
