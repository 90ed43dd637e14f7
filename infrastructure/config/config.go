// Package config loads the login automation settings from defaults, a YAML
// file, .env files and LOGIN_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"login_automation/domain/entities"

	"github.com/joho/godotenv"
	"github.com/mstoykov/envconfig"
	"gopkg.in/yaml.v3"
)

// Backends understood by the browser factory
const (
	BackendSelenium   = "selenium"
	BackendPlaywright = "playwright"
	BackendRod        = "rod"
	BackendChromedp   = "chromedp"
)

// Backends lists every supported backend name
var Backends = []string{BackendSelenium, BackendPlaywright, BackendRod, BackendChromedp}

const (
	DefaultURL         = "https://opensource-demo.orangehrmlive.com/web/index.php/auth/login"
	DefaultWaitTimeout = 10 * time.Second
	DefaultDriverPort  = 9515
)

type Config struct {
	Backend     string            `yaml:"backend"`
	URL         string            `yaml:"url"`
	WaitTimeout time.Duration     `yaml:"wait_timeout"`
	Browser     BrowserConfig     `yaml:"browser"`
	Credentials CredentialsConfig `yaml:"credentials"`
	Selectors   SelectorsConfig   `yaml:"selectors"`
	Log         LogConfig         `yaml:"log"`
}

type BrowserConfig struct {
	Headless bool `yaml:"headless"`
	// DriverPath is the chromedriver executable for the selenium backend
	DriverPath string `yaml:"driver_path"`
	// BinaryPath is the Chrome/Chromium executable
	BinaryPath string `yaml:"binary_path"`
	Port       int    `yaml:"port"`
	// RemoteURL points the selenium backend at an existing WebDriver server
	RemoteURL string `yaml:"remote_url"`
}

type CredentialsConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type SelectorsConfig struct {
	Identifier string `yaml:"identifier"`
	Secret     string `yaml:"secret"`
	Submit     string `yaml:"submit"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// envOverrides is the flat LOGIN_* environment surface
type envOverrides struct {
	Backend     string        `envconfig:"LOGIN_BACKEND"`
	URL         string        `envconfig:"LOGIN_URL"`
	WaitTimeout time.Duration `envconfig:"LOGIN_WAIT_TIMEOUT"`
	Headless    bool          `envconfig:"LOGIN_HEADLESS"`
	DriverPath  string        `envconfig:"BROWSER_DRIVER_PATH"`
	BinaryPath  string        `envconfig:"CHROME_BINARY_PATH"`
	Port        int           `envconfig:"LOGIN_DRIVER_PORT"`
	RemoteURL   string        `envconfig:"LOGIN_REMOTE_URL"`
	Username    string        `envconfig:"LOGIN_USERNAME"`
	Password    string        `envconfig:"LOGIN_PASSWORD"`
	Identifier  string        `envconfig:"LOGIN_SELECTOR_IDENTIFIER"`
	Secret      string        `envconfig:"LOGIN_SELECTOR_SECRET"`
	Submit      string        `envconfig:"LOGIN_SELECTOR_SUBMIT"`
	LogLevel    string        `envconfig:"LOGIN_LOG_LEVEL"`
	LogFormat   string        `envconfig:"LOGIN_LOG_FORMAT"`
}

// Default returns the built-in configuration
func Default() *Config {
	form := entities.DefaultLoginForm()
	creds := entities.DefaultCredentials()

	return &Config{
		Backend:     BackendSelenium,
		URL:         DefaultURL,
		WaitTimeout: DefaultWaitTimeout,
		Browser: BrowserConfig{
			Headless: true,
			Port:     DefaultDriverPort,
		},
		Credentials: CredentialsConfig{
			Username: creds.Identifier,
			Password: creds.Secret,
		},
		Selectors: SelectorsConfig{
			Identifier: form.Identifier.Value,
			Secret:     form.Secret.Value,
			Submit:     form.Submit.Value,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load builds the configuration. path may be empty; envFiles that do not
// exist are skipped, like the optional .env file.
func Load(path string, envFiles ...string) (*Config, error) {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("failed to load env file %s: %w", f, err)
		}
	}

	return load(path, os.LookupEnv)
}

func load(path string, lookup func(string) (string, bool)) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(lookup); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv - overrides fields with the variables lookup knows about
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	env := envOverrides{
		Backend:     c.Backend,
		URL:         c.URL,
		WaitTimeout: c.WaitTimeout,
		Headless:    c.Browser.Headless,
		DriverPath:  c.Browser.DriverPath,
		BinaryPath:  c.Browser.BinaryPath,
		Port:        c.Browser.Port,
		RemoteURL:   c.Browser.RemoteURL,
		Username:    c.Credentials.Username,
		Password:    c.Credentials.Password,
		Identifier:  c.Selectors.Identifier,
		Secret:      c.Selectors.Secret,
		Submit:      c.Selectors.Submit,
		LogLevel:    c.Log.Level,
		LogFormat:   c.Log.Format,
	}

	if err := envconfig.Process("", &env, lookup); err != nil {
		return fmt.Errorf("failed to process environment: %w", err)
	}

	c.Backend = env.Backend
	c.URL = env.URL
	c.WaitTimeout = env.WaitTimeout
	c.Browser = BrowserConfig{
		Headless:   env.Headless,
		DriverPath: env.DriverPath,
		BinaryPath: env.BinaryPath,
		Port:       env.Port,
		RemoteURL:  env.RemoteURL,
	}
	c.Credentials = CredentialsConfig{Username: env.Username, Password: env.Password}
	c.Selectors = SelectorsConfig{Identifier: env.Identifier, Secret: env.Secret, Submit: env.Submit}
	c.Log = LogConfig{Level: env.LogLevel, Format: env.LogFormat}
	return nil
}

// Validate checks the configuration for values no backend can work with
func (c *Config) Validate() error {
	if !isBackend(c.Backend) {
		return fmt.Errorf("unknown backend %q (supported: %v)", c.Backend, Backends)
	}
	if c.WaitTimeout < 0 {
		return fmt.Errorf("wait_timeout must not be negative, got %s", c.WaitTimeout)
	}
	if c.Browser.Port < 0 || c.Browser.Port > 65535 {
		return fmt.Errorf("invalid driver port %d", c.Browser.Port)
	}
	if c.Backend == BackendSelenium && c.Browser.RemoteURL == "" && c.Browser.Port == 0 {
		return fmt.Errorf("driver port must be set when no remote_url is given")
	}
	if _, err := c.LoginForm(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	return nil
}

// LoginForm parses the configured selectors
func (c *Config) LoginForm() (entities.LoginForm, error) {
	var form entities.LoginForm
	var err error

	if form.Identifier, err = entities.ParseSelector(c.Selectors.Identifier); err != nil {
		return form, fmt.Errorf("identifier selector: %w", err)
	}
	if form.Secret, err = entities.ParseSelector(c.Selectors.Secret); err != nil {
		return form, fmt.Errorf("secret selector: %w", err)
	}
	if form.Submit, err = entities.ParseSelector(c.Selectors.Submit); err != nil {
		return form, fmt.Errorf("submit selector: %w", err)
	}
	return form, nil
}

// LoginCredentials returns the configured credentials
func (c *Config) LoginCredentials() entities.Credentials {
	return entities.Credentials{
		Identifier: c.Credentials.Username,
		Secret:     c.Credentials.Password,
	}
}

func isBackend(name string) bool {
	for _, b := range Backends {
		if b == name {
			return true
		}
	}
	return false
}
