// Package cli is the login-automation command line.
package cli

import (
	"context"
	"fmt"
	"io"

	"login_automation/domain/interfaces"
	"login_automation/infrastructure/browser"
	"login_automation/infrastructure/config"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X login_automation/presentation/cli.Version=..."
var Version = "dev"

// browserOpener starts the browser a command drives
type browserOpener func(ctx context.Context, cfg *config.Config, logger logrus.FieldLogger) (interfaces.Browser, error)

type globalOptions struct {
	configPath string
	envFiles   []string
	logLevel   string
	logFormat  string
}

// NewRootCommand returns the root command wired to the real browser backends
func NewRootCommand() *cobra.Command {
	return newRootCommand(browser.Open)
}

func newRootCommand(open browserOpener) *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "login-automation",
		Short: "Drive a browser through a login form",
		Long: `Drive a browser through a login form.

Settings come from built-in defaults, an optional YAML file (--config),
.env files, LOGIN_* environment variables and finally command line flags.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "path to a YAML config file")
	flags.StringSliceVar(&opts.envFiles, "env-file", []string{".env"}, "env files to load; missing files are skipped")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.StringVar(&opts.logFormat, "log-format", "", "log format (text, json)")

	cmd.AddCommand(
		newLoginCommand(opts, open),
		newSelectorsCommand(opts),
		newVersionCommand(),
	)
	return cmd
}

// load - reads the configuration and applies the global flags
func (o *globalOptions) load(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(o.configPath, o.envFiles...)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = o.logLevel
	}
	if cmd.Flags().Changed("log-format") {
		cfg.Log.Format = o.logFormat
	}
	return cfg, nil
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "login-automation %s\n", Version)
		},
	}
}

// newLogger - builds the logrus logger described by cfg
func newLogger(cfg config.LogConfig, out io.Writer) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(level)

	switch cfg.Format {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}
	return logger, nil
}
