package browser

import (
	"context"
	"fmt"
	"time"

	"login_automation/domain/entities"
	"login_automation/domain/interfaces"
	"login_automation/infrastructure/config"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
	"github.com/sirupsen/logrus"
)

type ChromedpController struct {
	// ctx is the browser tab; every action runs in a child of it
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
	logger      logrus.FieldLogger
}

// NewChromedpController - starts Chrome through the chromedp exec allocator
func NewChromedpController(cfg config.BrowserConfig, logger logrus.FieldLogger) (*ChromedpController, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.NoSandbox,
		chromedp.WindowSize(1280, 720),
	)
	if chromeBinary := findChromeBinary(cfg.BinaryPath); chromeBinary != "" {
		logger.Infof("Using Chrome binary at: %s", chromeBinary)
		opts = append(opts, chromedp.ExecPath(chromeBinary))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	ctx, cancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(logger.Debugf))

	// The first Run starts the browser
	if err := chromedp.Run(ctx); err != nil {
		cancel()
		allocCancel()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	return &ChromedpController{
		ctx:         ctx,
		cancel:      cancel,
		allocCancel: allocCancel,
		logger:      logger,
	}, nil
}

// run - runs actions in the tab, aborted when ctx is done
func (c *ChromedpController) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancel(c.ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	err := chromedp.Run(runCtx, actions...)
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

// Navigate - navigates to url
func (c *ChromedpController) Navigate(ctx context.Context, url string) error {
	c.logger.Infof("Navigating to: %s", url)
	return c.run(ctx, chromedp.Navigate(url))
}

// CurrentURL - returns the current page URL
func (c *ChromedpController) CurrentURL(ctx context.Context) (string, error) {
	var url string
	if err := c.run(ctx, chromedp.Location(&url)); err != nil {
		return "", err
	}
	return url, nil
}

// FindElement - AtLeast(0) makes the query return at once, even when empty
func (c *ChromedpController) FindElement(ctx context.Context, selector entities.Selector) (interfaces.Element, error) {
	var nodes []*cdp.Node
	err := c.run(ctx, chromedp.Nodes(selector.Value, &nodes, chromedp.AtLeast(0), chromedpBy(selector)))
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, entities.NewElementNotFoundError(selector, fmt.Errorf("no node matches %q", selector.Value))
	}
	return &chromedpElement{controller: c, node: nodes[0]}, nil
}

// WaitVisible - waits for the selector to be visible within timeout
func (c *ChromedpController) WaitVisible(ctx context.Context, selector entities.Selector, timeout time.Duration) error {
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	err := c.run(waitCtx, chromedp.WaitVisible(selector.Value, chromedpBy(selector)))
	if err != nil {
		return waitError(ctx, selector, err)
	}
	return nil
}

// Close - closes the tab and the browser process
func (c *ChromedpController) Close() error {
	var err error
	if c.ctx != nil {
		if cancelErr := chromedp.Cancel(c.ctx); cancelErr != nil {
			err = fmt.Errorf("failed to close browser: %w", cancelErr)
		}
		c.cancel()
		c.allocCancel()
		c.ctx = nil
	}
	return err
}

type chromedpElement struct {
	controller *ChromedpController
	node       *cdp.Node
}

func (e *chromedpElement) SendKeys(ctx context.Context, text string) error {
	return e.controller.run(ctx, chromedp.SendKeys([]cdp.NodeID{e.node.NodeID}, text, chromedp.ByNodeID))
}

func (e *chromedpElement) Click(ctx context.Context) error {
	return e.controller.run(ctx, chromedp.MouseClickNode(e.node))
}

// chromedpBy - BySearch evaluates XPath, ByQuery is document.querySelector
func chromedpBy(selector entities.Selector) chromedp.QueryOption {
	if selector.IsXPath() {
		return chromedp.BySearch
	}
	return chromedp.ByQuery
}

// Ensure ChromedpController implements Browser interface
var _ interfaces.Browser = (*ChromedpController)(nil)
