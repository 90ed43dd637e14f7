package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"login_automation/domain/entities"
	"login_automation/domain/interfaces"
	"login_automation/infrastructure/config"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/sirupsen/logrus"
)

type RodController struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	logger   logrus.FieldLogger
}

// NewRodController - launches Chrome and connects to it over CDP with Rod
func NewRodController(cfg config.BrowserConfig, logger logrus.FieldLogger) (*RodController, error) {
	l := launcher.New().
		Headless(cfg.Headless).
		NoSandbox(true)
	if cfg.BinaryPath != "" {
		logger.Infof("Using Chrome binary at: %s", cfg.BinaryPath)
		l = l.Bin(cfg.BinaryPath)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		browser.Close()
		l.Cleanup()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	return &RodController{
		launcher: l,
		browser:  browser,
		page:     page,
		logger:   logger,
	}, nil
}

// Navigate - navigates to url and waits for the load event
func (r *RodController) Navigate(ctx context.Context, url string) error {
	r.logger.Infof("Navigating to: %s", url)

	page := r.page.Context(ctx)
	if err := page.Navigate(url); err != nil {
		return err
	}
	return page.WaitLoad()
}

// CurrentURL - returns the current page URL
func (r *RodController) CurrentURL(ctx context.Context) (string, error) {
	info, err := r.page.Context(ctx).Info()
	if err != nil {
		return "", err
	}
	return info.URL, nil
}

// FindElement - queries once; NotFoundSleeper stops Rod's default retrying
func (r *RodController) FindElement(ctx context.Context, selector entities.Selector) (interfaces.Element, error) {
	page := r.page.Context(ctx).Sleeper(rod.NotFoundSleeper)

	element, err := rodFind(page, selector)
	if err != nil {
		return nil, rodLookupError(selector, err)
	}
	// Interactions wait for the element to become actionable
	return &rodElement{element: element.Sleeper(rod.DefaultSleeper)}, nil
}

// WaitVisible - lets Rod retry the query until timeout, then waits for visibility
func (r *RodController) WaitVisible(ctx context.Context, selector entities.Selector, timeout time.Duration) error {
	page := r.page.Context(ctx).Timeout(timeout)
	defer page.CancelTimeout()

	element, err := rodFind(page, selector)
	if err != nil {
		return waitError(ctx, selector, rodLookupError(selector, err))
	}
	if err := element.WaitVisible(); err != nil {
		return waitError(ctx, selector, err)
	}
	return nil
}

// Close - closes the browser and removes the launcher's user data dir
func (r *RodController) Close() error {
	var err error
	if r.browser != nil {
		if closeErr := r.browser.Close(); closeErr != nil {
			err = fmt.Errorf("failed to close browser: %w", closeErr)
		}
		r.browser = nil
	}
	if r.launcher != nil {
		r.launcher.Cleanup()
		r.launcher = nil
	}
	return err
}

type rodElement struct {
	element *rod.Element
}

func (e *rodElement) SendKeys(ctx context.Context, text string) error {
	return e.element.Context(ctx).Input(text)
}

func (e *rodElement) Click(ctx context.Context) error {
	return e.element.Context(ctx).Click(proto.InputMouseButtonLeft, 1)
}

func rodFind(page *rod.Page, selector entities.Selector) (*rod.Element, error) {
	if selector.IsXPath() {
		return page.ElementX(selector.Value)
	}
	return page.Element(selector.Value)
}

func rodLookupError(selector entities.Selector, err error) error {
	var notFound *rod.ElementNotFoundError
	if errors.As(err, &notFound) {
		return entities.NewElementNotFoundError(selector, err)
	}
	return err
}

// Ensure RodController implements Browser interface
var _ interfaces.Browser = (*RodController)(nil)
