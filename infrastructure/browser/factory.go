// Package browser implements interfaces.Browser on top of Selenium,
// Playwright, Rod and chromedp.
package browser

import (
	"context"
	"errors"
	"fmt"

	"login_automation/domain/entities"
	"login_automation/domain/interfaces"
	"login_automation/infrastructure/config"

	"github.com/sirupsen/logrus"
)

// Open starts a browser with the configured backend. The caller owns the
// returned browser and must Close it.
func Open(ctx context.Context, cfg *config.Config, logger logrus.FieldLogger) (interfaces.Browser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	log := logger.WithField("backend", cfg.Backend)
	log.Debug("Opening browser")

	var (
		b   interfaces.Browser
		err error
	)
	switch cfg.Backend {
	case config.BackendSelenium:
		b, err = asBrowser(NewSeleniumController(cfg.Browser, log))
	case config.BackendPlaywright:
		b, err = asBrowser(NewPlaywrightController(cfg.Browser, log))
	case config.BackendRod:
		b, err = asBrowser(NewRodController(cfg.Browser, log))
	case config.BackendChromedp:
		b, err = asBrowser(NewChromedpController(cfg.Browser, log))
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s browser: %w", cfg.Backend, err)
	}
	return b, nil
}

// asBrowser - keeps a nil controller from becoming a non-nil interface
func asBrowser[T interfaces.Browser](b T, err error) (interfaces.Browser, error) {
	if err != nil {
		return nil, err
	}
	return b, nil
}

// waitError - a wait that ran out of its own deadline, while the caller's
// context is still live, means the element never showed up
func waitError(parent context.Context, selector entities.Selector, err error) error {
	if errors.Is(err, context.DeadlineExceeded) && parent.Err() == nil {
		return entities.NewElementNotFoundError(selector, err)
	}
	return err
}
