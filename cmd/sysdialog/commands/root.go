// Package commands provides the CLI commands for sysdialog.
package commands

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/reglet-dev/sysdialog"
	"github.com/reglet-dev/sysdialog/domain/entities"
	"github.com/reglet-dev/sysdialog/infrastructure/parser"
	sdlog "github.com/reglet-dev/sysdialog/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// Version information set at build time
var Version = "0.1.0"

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	logLevel   string
	overrides  map[string]string
}

// app carries what subcommands share: flags and the filesystem.
type app struct {
	fs    afero.Fs
	flags globalFlags
}

// NewRootCmd builds the command tree over fs.
func NewRootCmd(fs afero.Fs) *cobra.Command {
	a := &app{fs: fs}

	rootCmd := &cobra.Command{
		Use:   "sysdialog",
		Short: "Deferred system-dialog coordination",
		Long: `sysdialog drives open/save file and folder requests through a
permission gate and a picker, answering both from the terminal.

Run 'sysdialog run' to start an interactive session.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&a.flags.configPath, "config", "c", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&a.flags.logLevel, "log-level", "", "Log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().StringToStringVar(&a.flags.overrides, "set", nil, "Override a config key (key=value, repeatable)")

	rootCmd.AddCommand(newRunCmd(a))
	rootCmd.AddCommand(newSchemaCmd())
	rootCmd.AddCommand(newResolveCmd(a))
	rootCmd.AddCommand(newGrantsCmd(a))
	return rootCmd
}

// Execute runs the root command on the OS filesystem.
func Execute() error {
	return NewRootCmd(afero.NewOsFs()).Execute()
}

// loadConfig reads the config file, applies --set and --log-level, and validates.
func (a *app) loadConfig() (entities.Config, error) {
	cfg := entities.DefaultConfig()
	if a.flags.configPath != "" {
		data, err := afero.ReadFile(a.fs, a.flags.configPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config: %w", err)
		}
		parsed, err := parser.NewYamlConfigParser().Parse(data)
		if err != nil {
			return cfg, err
		}
		cfg = *parsed
	}

	overrides := make(map[string]any, len(a.flags.overrides))
	for k, v := range a.flags.overrides {
		overrides[k] = overrideValue(v)
	}
	if a.flags.logLevel != "" {
		cfg.Log.Level = strings.ToLower(a.flags.logLevel)
	}
	if err := sysdialog.ApplyOverrides(&cfg, overrides); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// overrideValue keeps numbers numeric so they decode into int fields.
func overrideValue(v string) any {
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return v
}

// newLogger builds the logcat-style logger for cfg.
func newLogger(cmd *cobra.Command, cfg entities.Config) *slog.Logger {
	return slog.New(sdlog.NewHandler(cmd.ErrOrStderr(),
		sdlog.WithLevel(sdlog.ParseLevel(cfg.Log.Level)),
		sdlog.WithTag(cfg.Log.Tag),
	))
}
