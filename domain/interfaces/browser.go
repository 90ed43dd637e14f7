package interfaces

import (
	"context"
	"time"

	"login_automation/domain/entities"
)

// Session is the minimal capability set of an automated browser session
type Session interface {
	// FindElement locates one element in the current page without waiting.
	// It returns an *entities.ElementNotFoundError when nothing matches.
	FindElement(ctx context.Context, selector entities.Selector) (Element, error)

	// WaitVisible waits until the element is present and displayed, or the
	// timeout elapses, in which case it returns an *entities.ElementNotFoundError.
	WaitVisible(ctx context.Context, selector entities.Selector, timeout time.Duration) error
}

// Element is a handle to a located page element
type Element interface {
	// SendKeys types text into the element
	SendKeys(ctx context.Context, text string) error

	// Click performs a primary click on the element
	Click(ctx context.Context) error
}

// Browser is a Session owned by the caller, with navigation and teardown
type Browser interface {
	Session

	// Navigate navigates to a URL
	Navigate(ctx context.Context, url string) error

	// CurrentURL returns the current page URL
	CurrentURL(ctx context.Context) (string, error)

	// Close closes the browser
	Close() error
}
