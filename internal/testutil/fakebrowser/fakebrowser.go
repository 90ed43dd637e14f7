// Package fakebrowser provides an in-memory interfaces.Browser for tests.
package fakebrowser

import (
	"context"
	"errors"
	"sync"
	"time"

	"login_automation/domain/entities"
	"login_automation/domain/interfaces"
)

// ErrClosed is returned by every operation after Close
var ErrClosed = errors.New("fakebrowser: browser closed")

const pollInterval = 5 * time.Millisecond

// Element is a fake input or button on the fake page
type Element struct {
	Value   string
	Clicks  int
	Visible bool
	// OnClick runs after each click with the page lock released
	OnClick func(b *Browser)
	// SendKeysErr, when set, is returned by SendKeys instead of typing
	SendKeysErr error
}

// Browser is a single-page in-memory browser
type Browser struct {
	mu       sync.Mutex
	url      string
	elements map[entities.Selector]*Element
	closed   bool

	Lookups     []entities.Selector
	Waits       []entities.Selector
	Navigations []string
}

var _ interfaces.Browser = (*Browser)(nil)

// New returns an empty browser
func New() *Browser {
	return &Browser{elements: make(map[entities.Selector]*Element)}
}

// NewLoginPage returns a browser showing a login page that navigates to
// dashboardURL when the submit control is clicked
func NewLoginPage(form entities.LoginForm, dashboardURL string) *Browser {
	b := New()
	b.url = "about:login"
	b.Put(form.Identifier, &Element{Visible: true})
	b.Put(form.Secret, &Element{Visible: true})
	b.Put(form.Submit, &Element{Visible: true, OnClick: func(b *Browser) {
		b.SetURL(dashboardURL)
	}})
	return b
}

// Put adds or replaces the element matched by selector
func (b *Browser) Put(selector entities.Selector, el *Element) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.elements[selector] = el
}

// PutAfter adds the element after delay, like a page still loading
func (b *Browser) PutAfter(delay time.Duration, selector entities.Selector, el *Element) {
	time.AfterFunc(delay, func() { b.Put(selector, el) })
}

// Remove deletes the element matched by selector
func (b *Browser) Remove(selector entities.Selector) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.elements, selector)
}

// Get returns the element matched by selector, or nil
func (b *Browser) Get(selector entities.Selector) *Element {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.elements[selector]
}

// Value returns a copy of the element's typed value
func (b *Browser) Value(selector entities.Selector) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if el, ok := b.elements[selector]; ok {
		return el.Value
	}
	return ""
}

// SetURL changes the current URL
func (b *Browser) SetURL(url string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.url = url
}

func (b *Browser) FindElement(ctx context.Context, selector entities.Selector) (interfaces.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, ErrClosed
	}

	b.Lookups = append(b.Lookups, selector)
	if _, ok := b.elements[selector]; !ok {
		return nil, entities.NewElementNotFoundError(selector, errors.New("no such element"))
	}
	return &handle{browser: b, selector: selector}, nil
}

func (b *Browser) WaitVisible(ctx context.Context, selector entities.Selector, timeout time.Duration) error {
	b.mu.Lock()
	b.Waits = append(b.Waits, selector)
	b.mu.Unlock()

	deadline := time.Now().Add(timeout)
	for {
		b.mu.Lock()
		if b.closed {
			b.mu.Unlock()
			return ErrClosed
		}
		el, ok := b.elements[selector]
		visible := ok && el.Visible
		b.mu.Unlock()

		if visible {
			return nil
		}
		if !time.Now().Before(deadline) {
			return entities.NewElementNotFoundError(selector, context.DeadlineExceeded)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pollInterval):
		}
	}
}

func (b *Browser) Navigate(ctx context.Context, url string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrClosed
	}
	b.Navigations = append(b.Navigations, url)
	b.url = url
	return nil
}

func (b *Browser) CurrentURL(ctx context.Context) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return "", ErrClosed
	}
	return b.url, nil
}

func (b *Browser) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}

// Closed reports whether Close was called
func (b *Browser) Closed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

// handle resolves its element on every use, so a removed element goes stale
type handle struct {
	browser  *Browser
	selector entities.Selector
}

func (h *handle) element() (*Element, error) {
	el, ok := h.browser.elements[h.selector]
	if !ok {
		return nil, errors.New("stale element reference")
	}
	return el, nil
}

func (h *handle) SendKeys(ctx context.Context, text string) error {
	h.browser.mu.Lock()
	defer h.browser.mu.Unlock()

	el, err := h.element()
	if err != nil {
		return err
	}
	if el.SendKeysErr != nil {
		return el.SendKeysErr
	}
	el.Value += text
	return nil
}

func (h *handle) Click(ctx context.Context) error {
	h.browser.mu.Lock()
	el, err := h.element()
	if err != nil {
		h.browser.mu.Unlock()
		return err
	}
	el.Clicks++
	onClick := el.OnClick
	h.browser.mu.Unlock()

	if onClick != nil {
		onClick(h.browser)
	}
	return nil
}
