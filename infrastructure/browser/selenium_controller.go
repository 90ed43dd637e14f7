package browser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"login_automation/domain/entities"
	"login_automation/domain/interfaces"
	"login_automation/infrastructure/config"

	"github.com/sirupsen/logrus"
	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"
)

type SeleniumController struct {
	wd      selenium.WebDriver
	service *selenium.Service
	logger  logrus.FieldLogger
}

// findChromeDriver - finds ChromeDriver executable path
func findChromeDriver(configured string) (string, error) {
	if configured != "" {
		if _, err := os.Stat(configured); err == nil {
			return configured, nil
		}
		return "", fmt.Errorf("chromedriver not found at configured path %s", configured)
	}

	commonPaths := []string{
		"/usr/local/bin/chromedriver",
		"/usr/bin/chromedriver",
		"/opt/homebrew/bin/chromedriver",
		filepath.Join(os.Getenv("HOME"), "bin", "chromedriver"),
	}

	for _, path := range commonPaths {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	if path, err := exec.LookPath("chromedriver"); err == nil {
		return path, nil
	}

	return "", fmt.Errorf("chromedriver not found. Please install it or set BROWSER_DRIVER_PATH environment variable")
}

// findChromeBinary - finds Chrome/Chromium browser executable path
func findChromeBinary(configured string) string {
	if configured != "" {
		if _, err := os.Stat(configured); err == nil {
			return configured
		}
	}

	chromePaths := []string{
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
		"/Applications/Chromium.app/Contents/MacOS/Chromium",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		`C:\Program Files\Google\Chrome\Application\chrome.exe`,
		`C:\Program Files (x86)\Google\Chrome\Application\chrome.exe`,
	}

	for _, path := range chromePaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	for _, name := range []string{"google-chrome", "chromium", "chromium-browser"} {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	return ""
}

// chromeArgs - command line flags shared by the chrome based backends
func chromeArgs(headless bool) []string {
	args := []string{
		"--disable-blink-features=AutomationControlled",
		"--disable-dev-shm-usage",
		"--no-sandbox",
	}
	if headless {
		args = append(args, "--headless=new", "--window-size=1280,720")
	}
	return args
}

// NewSeleniumController - creates a Selenium browser controller. It starts a
// local chromedriver unless cfg.RemoteURL names an existing WebDriver server.
func NewSeleniumController(cfg config.BrowserConfig, logger logrus.FieldLogger) (*SeleniumController, error) {
	var service *selenium.Service
	remoteURL := cfg.RemoteURL

	if remoteURL == "" {
		driverPath, err := findChromeDriver(cfg.DriverPath)
		if err != nil {
			return nil, fmt.Errorf("failed to find chromedriver: %w", err)
		}
		logger.Infof("Using ChromeDriver at: %s", driverPath)

		service, err = selenium.NewChromeDriverService(driverPath, cfg.Port)
		if err != nil {
			return nil, fmt.Errorf("failed to start chromedriver: %w", err)
		}
		remoteURL = fmt.Sprintf("http://localhost:%d/wd/hub", cfg.Port)
	} else {
		logger.Infof("Using remote WebDriver at: %s", remoteURL)
	}

	caps := selenium.Capabilities{
		"browserName": "chrome",
	}

	chromeCaps := chrome.Capabilities{
		Args: chromeArgs(cfg.Headless),
	}
	if chromeBinary := findChromeBinary(cfg.BinaryPath); chromeBinary != "" {
		logger.Infof("Using Chrome binary at: %s", chromeBinary)
		chromeCaps.Path = chromeBinary
	}

	caps.AddChrome(chromeCaps)

	wd, err := selenium.NewRemote(caps, remoteURL)
	if err != nil {
		if service != nil {
			service.Stop()
		}
		if strings.Contains(err.Error(), "cannot find Chrome binary") {
			return nil, fmt.Errorf("failed to create webdriver: Chrome browser not found. Please install Google Chrome or set CHROME_BINARY_PATH environment variable. Error: %w", err)
		}
		return nil, fmt.Errorf("failed to create webdriver: %w", err)
	}

	return newSeleniumController(wd, service, logger), nil
}

func newSeleniumController(wd selenium.WebDriver, service *selenium.Service, logger logrus.FieldLogger) *SeleniumController {
	return &SeleniumController{
		wd:      wd,
		service: service,
		logger:  logger,
	}
}

// Navigate - navigates browser to specified URL
func (s *SeleniumController) Navigate(ctx context.Context, url string) error {
	s.logger.Infof("Navigating to: %s", url)
	return s.wd.Get(url)
}

// CurrentURL - returns current page URL
func (s *SeleniumController) CurrentURL(ctx context.Context) (string, error) {
	return s.wd.CurrentURL()
}

// FindElement - looks the selector up once, without waiting
func (s *SeleniumController) FindElement(ctx context.Context, selector entities.Selector) (interfaces.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	element, err := s.wd.FindElement(seleniumBy(selector), selector.Value)
	if err != nil {
		if isNoSuchElement(err) {
			return nil, entities.NewElementNotFoundError(selector, err)
		}
		return nil, err
	}

	return &seleniumElement{element: element}, nil
}

// WaitVisible - polls until the element is present and displayed
func (s *SeleniumController) WaitVisible(ctx context.Context, selector entities.Selector, timeout time.Duration) error {
	by := seleniumBy(selector)

	var condErr, lastErr error
	err := s.wd.WaitWithTimeout(func(wd selenium.WebDriver) (bool, error) {
		if err := ctx.Err(); err != nil {
			condErr = err
			return false, err
		}

		element, err := wd.FindElement(by, selector.Value)
		if err != nil {
			if isNoSuchElement(err) {
				lastErr = err
				return false, nil
			}
			condErr = err
			return false, err
		}

		visible, err := element.IsDisplayed()
		if err != nil {
			if isStaleElement(err) {
				lastErr = err
				return false, nil
			}
			condErr = err
			return false, err
		}
		if !visible {
			lastErr = errors.New("element is not displayed")
		}
		return visible, nil
	}, timeout)

	if err == nil {
		return nil
	}
	if condErr != nil {
		return condErr
	}
	if lastErr == nil {
		lastErr = err
	}
	s.logger.Debugf("Element %s not visible after %s", selector, timeout)
	return entities.NewElementNotFoundError(selector, fmt.Errorf("not visible after %s: %w", timeout, lastErr))
}

// Close - closes browser and stops ChromeDriver service
func (s *SeleniumController) Close() error {
	var errs []error
	if s.wd != nil {
		if err := s.wd.Quit(); err != nil {
			errs = append(errs, fmt.Errorf("failed to quit webdriver: %w", err))
		}
		s.wd = nil
	}
	if s.service != nil {
		if err := s.service.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop chromedriver: %w", err))
		}
		s.service = nil
	}
	return errors.Join(errs...)
}

type seleniumElement struct {
	element selenium.WebElement
}

func (e *seleniumElement) SendKeys(ctx context.Context, text string) error {
	return e.element.SendKeys(text)
}

func (e *seleniumElement) Click(ctx context.Context) error {
	return e.element.Click()
}

func seleniumBy(selector entities.Selector) string {
	if selector.IsXPath() {
		return selenium.ByXPATH
	}
	return selenium.ByCSSSelector
}

func isNoSuchElement(err error) bool {
	return hasSeleniumError(err, "no such element")
}

func isStaleElement(err error) bool {
	return hasSeleniumError(err, "stale element reference")
}

// hasSeleniumError - matches the W3C error code, falling back to the message
// for legacy servers that do not return structured errors
func hasSeleniumError(err error, code string) bool {
	if err == nil {
		return false
	}
	var se *selenium.Error
	if errors.As(err, &se) {
		return se.Err == code
	}
	return strings.Contains(err.Error(), code)
}

// Ensure SeleniumController implements Browser interface
var _ interfaces.Browser = (*SeleniumController)(nil)
