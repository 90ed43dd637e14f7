package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"login_automation/application/login"
	"login_automation/infrastructure/config"
	"login_automation/infrastructure/security"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const (
	stepIdentifier = "identifier"
	stepSecret     = "secret"
	stepSubmit     = "submit"
)

var defaultSteps = []string{stepIdentifier, stepSecret, stepSubmit}

type loginOptions struct {
	backend  string
	url      string
	username string
	password string
	timeout  time.Duration
	headless bool
	steps    []string
}

func newLoginCommand(global *globalOptions, open browserOpener) *cobra.Command {
	opts := &loginOptions{}

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Open the login page and fill in the form",
		Long: `Open the login page and run the requested form steps in order.

Steps are "identifier", "secret" and "submit". They run exactly as listed:
nothing stops "submit" from running before the fields are filled in.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := global.load(cmd)
			if err != nil {
				return err
			}
			opts.apply(cmd, cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := validateSteps(opts.steps); err != nil {
				return err
			}

			logger, err := newLogger(cfg.Log, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			return runLogin(cmd, cfg, opts.steps, open, logger)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.backend, "backend", "", fmt.Sprintf("browser backend (%s)", strings.Join(config.Backends, ", ")))
	flags.StringVar(&opts.url, "url", "", "login page URL")
	flags.StringVarP(&opts.username, "username", "u", "", "identifier typed into the username field")
	flags.StringVarP(&opts.password, "password", "p", "", "secret typed into the password field")
	flags.DurationVar(&opts.timeout, "timeout", 0, "wait for each element up to this long; 0 looks elements up once")
	flags.BoolVar(&opts.headless, "headless", true, "run the browser without a window")
	flags.StringSliceVar(&opts.steps, "steps", defaultSteps, "form steps to run, in order")

	return cmd
}

// apply - flags given on the command line win over every other source
func (o *loginOptions) apply(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("backend") {
		cfg.Backend = o.backend
	}
	if flags.Changed("url") {
		cfg.URL = o.url
	}
	if flags.Changed("username") {
		cfg.Credentials.Username = o.username
	}
	if flags.Changed("password") {
		cfg.Credentials.Password = o.password
	}
	if flags.Changed("timeout") {
		cfg.WaitTimeout = o.timeout
	}
	if flags.Changed("headless") {
		cfg.Browser.Headless = o.headless
	}
}

func validateSteps(steps []string) error {
	if len(steps) == 0 {
		return fmt.Errorf("no steps given")
	}
	for _, step := range steps {
		switch step {
		case stepIdentifier, stepSecret, stepSubmit:
		default:
			return fmt.Errorf("unknown step %q (valid: %s)", step, strings.Join(defaultSteps, ", "))
		}
	}
	return nil
}

func runLogin(cmd *cobra.Command, cfg *config.Config, steps []string, open browserOpener, logger *logrus.Logger) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	form, err := cfg.LoginForm()
	if err != nil {
		return err
	}

	b, err := open(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize browser: %w", err)
	}
	defer func() {
		if err := b.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close browser")
		}
	}()

	if err := b.Navigate(ctx, cfg.URL); err != nil {
		return fmt.Errorf("failed to open %s: %w", cfg.URL, err)
	}

	action := login.NewLoginAction(b,
		login.WithLoginForm(form),
		login.WithCredentials(cfg.LoginCredentials()),
		login.WithWaitTimeout(cfg.WaitTimeout),
		login.WithLogger(logger),
		login.WithSecurityLayer(security.NewSecurityLayer(logger)),
	)

	for _, step := range steps {
		var err error
		switch step {
		case stepIdentifier:
			err = action.EnterIdentifier(ctx)
		case stepSecret:
			err = action.EnterSecret(ctx)
		case stepSubmit:
			err = action.Submit(ctx)
		}
		if err != nil {
			return fmt.Errorf("step %s failed: %w", step, err)
		}
	}

	url, err := b.CurrentURL(ctx)
	if err != nil {
		return fmt.Errorf("failed to read current URL: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Current URL: %s\n", url)
	return nil
}
