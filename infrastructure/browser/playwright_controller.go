package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"login_automation/domain/entities"
	"login_automation/domain/interfaces"
	"login_automation/infrastructure/config"

	"github.com/playwright-community/playwright-go"
	"github.com/sirupsen/logrus"
)

type PlaywrightController struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page
	logger  logrus.FieldLogger
}

// NewPlaywrightController - launches Chromium through Playwright
func NewPlaywrightController(cfg config.BrowserConfig, logger logrus.FieldLogger) (*PlaywrightController, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	launchOptions := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(cfg.Headless),
		Args: []string{
			"--disable-blink-features=AutomationControlled",
			"--disable-dev-shm-usage",
			"--no-sandbox",
		},
	}
	if cfg.BinaryPath != "" {
		logger.Infof("Using Chrome binary at: %s", cfg.BinaryPath)
		launchOptions.ExecutablePath = playwright.String(cfg.BinaryPath)
	}

	browser, err := pw.Chromium.Launch(launchOptions)
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browserContext, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  1280,
			Height: 720,
		},
		IgnoreHttpsErrors: playwright.Bool(true),
	})
	if err != nil {
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create context: %w", err)
	}

	page, err := browserContext.NewPage()
	if err != nil {
		browserContext.Close()
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	return &PlaywrightController{
		pw:      pw,
		browser: browser,
		context: browserContext,
		page:    page,
		logger:  logger,
	}, nil
}

func newPlaywrightController(page playwright.Page, logger logrus.FieldLogger) *PlaywrightController {
	return &PlaywrightController{page: page, logger: logger}
}

// Navigate - navigates to the specified URL and waits for the load event
func (p *PlaywrightController) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.logger.Infof("Navigating to: %s", url)

	_, err := p.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
	})
	return err
}

// CurrentURL - returns the current page URL
func (p *PlaywrightController) CurrentURL(ctx context.Context) (string, error) {
	return p.page.URL(), nil
}

// FindElement - resolves the selector once; an empty match is not found
func (p *PlaywrightController) FindElement(ctx context.Context, selector entities.Selector) (interfaces.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	locator := p.page.Locator(playwrightSelector(selector))
	count, err := locator.Count()
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, entities.NewElementNotFoundError(selector, fmt.Errorf("no element matches %s", playwrightSelector(selector)))
	}

	return &playwrightElement{locator: locator.First()}, nil
}

// WaitVisible - waits for the first match to become visible
func (p *PlaywrightController) WaitVisible(ctx context.Context, selector entities.Selector, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// Playwright treats a zero timeout as "wait forever"
	ms := timeout.Milliseconds()
	if ms < 1 {
		ms = 1
	}

	err := p.page.Locator(playwrightSelector(selector)).First().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(float64(ms)),
	})
	if err != nil {
		if errors.Is(err, playwright.ErrTimeout) {
			p.logger.Debugf("Element %s not visible after %s", selector, timeout)
			return entities.NewElementNotFoundError(selector, err)
		}
		return err
	}
	return nil
}

// Close - closes context, browser and the playwright driver
func (p *PlaywrightController) Close() error {
	var errs []error

	if p.context != nil {
		if err := p.context.Close(); err != nil && !isClosedError(err) {
			errs = append(errs, fmt.Errorf("failed to close context: %w", err))
		}
		p.context = nil
	}
	if p.browser != nil {
		if err := p.browser.Close(); err != nil && !isClosedError(err) {
			errs = append(errs, fmt.Errorf("failed to close browser: %w", err))
		}
		p.browser = nil
	}
	if p.pw != nil {
		if err := p.pw.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop playwright: %w", err))
		}
		p.pw = nil
	}

	return errors.Join(errs...)
}

type playwrightElement struct {
	locator playwright.Locator
}

func (e *playwrightElement) SendKeys(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return e.locator.PressSequentially(text)
}

func (e *playwrightElement) Click(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return e.locator.Click()
}

// playwrightSelector - Playwright understands the same "xpath=" / "css=" prefixes
func playwrightSelector(selector entities.Selector) string {
	return selector.String()
}

func isClosedError(err error) bool {
	if errors.Is(err, playwright.ErrTargetClosed) {
		return true
	}
	errStr := err.Error()
	return strings.Contains(errStr, "closed") || strings.Contains(errStr, "target closed")
}

// Ensure PlaywrightController implements Browser interface
var _ interfaces.Browser = (*PlaywrightController)(nil)
