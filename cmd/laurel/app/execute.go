package app

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/laurel-etl/laurel/pkg/logging"
)

// settingFlags are bound to the settings keys of the same name with "-"
// replaced by "_".
var settingFlags = []struct {
	name  string
	usage string
}{
	{"data-dir", "directory holding the input files"},
	{"csv-file", "tabular source file (relative to data-dir)"},
	{"json-file", "object source file (relative to data-dir)"},
	{"xml-file", "attribute-tree source file (relative to data-dir)"},
	{"txt-file", "free-text source file (relative to data-dir)"},
	{"sink-driver", "sink: mysql, postgres, sqlite, mongodb, json, yaml, memory"},
	{"db-host", "database host"},
	{"db-user", "database user"},
	{"db-name", "database name"},
	{"db-path", "sqlite database or export file"},
	{"db-table", "table or collection name"},
	{"notes-policy", "free-text lines: unattached or drop"},
}

// Execute runs the laurel CLI application with the given arguments.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "laurel",
		Short:   "Customer record reconciliation",
		Version: a.version,
		Long: `Laurel reads customer records from CSV, JSON, XML and free-text files,
merges the records that describe the same person, and replaces the
contents of a database table with the result.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.config.ConfigFile, "config", "", "config file (default is $HOME/.laurel.yaml)")
	flags.BoolVarP(&a.config.Verbose, "verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	flags.BoolVarP(&a.config.Quiet, "quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	flags.BoolVar(&a.config.NoColor, "no-color", false, "disable colored output")
	flags.StringVarP(&a.config.Format, "format", "o", "", "output format: table, wide, json, yaml")
	flags.StringVar(&a.config.LogLevel, "log-level", a.config.LogLevel, "log level: trace, debug, info, warn, error (overrides -v/-q)")
	flags.Int("db-port", 0, "database port (0 uses the driver default)")
	for _, f := range settingFlags {
		flags.String(f.name, "", f.usage)
	}
	a.bindSettingFlags(flags)

	rootCmd.SetVersionTemplate("laurel {{.Version}}\n")

	rootCmd.AddCommand(a.NewRunCommand())
	rootCmd.AddCommand(a.NewWatchCommand())
	rootCmd.AddCommand(a.NewScheduleCommand())
	rootCmd.AddCommand(a.NewProvenanceCommand())
	rootCmd.AddCommand(a.NewVersionCommand())

	return rootCmd
}

// bindSettingFlags lets explicitly set flags override env and config file.
func (a *App) bindSettingFlags(flags *pflag.FlagSet) {
	v := a.config.Viper()
	bind := func(name string) {
		key := flagKey(name)
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			panic("programming error: failed to bind flag " + name + ": " + err.Error())
		}
	}
	bind("db-port")
	for _, f := range settingFlags {
		bind(f.name)
	}
}

func flagKey(name string) string {
	return strings.ReplaceAll(name, "-", "_")
}

// setupCommand is called before any command runs.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	a.config.UpdateFromFlags(
		mustGetBool(cmd, "verbose"),
		mustGetBool(cmd, "quiet"),
		mustGetBool(cmd, "no-color"),
		mustGetString(cmd, "format"),
		mustGetString(cmd, "log-level"),
	)

	logger := NewLogger(a.config)
	a.logger = &logger
	cmd.SetContext(logging.WithLogger(cmd.Context(), a.logger))
	return nil
}

// ExitOnError is a helper that prints an error and exits with status 1.
func ExitOnError(err error) {
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

// mustGetBool retrieves a boolean flag value or panics if the flag doesn't exist.
func mustGetBool(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}

// mustGetString retrieves a string flag value or panics if the flag doesn't exist.
func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}
