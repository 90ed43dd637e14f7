package browser

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"login_automation/domain/entities"
	"login_automation/infrastructure/config"

	"github.com/go-rod/rod"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenUnknownBackend(t *testing.T) {
	logger, _ := test.NewNullLogger()
	cfg := config.Default()
	cfg.Backend = "lynx"

	_, err := Open(context.Background(), cfg, logger)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown backend")
}

func TestOpenCanceled(t *testing.T) {
	logger, _ := test.NewNullLogger()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Open(ctx, config.Default(), logger)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWaitError(t *testing.T) {
	sel := entities.XPath("//button")

	err := waitError(context.Background(), sel, fmt.Errorf("wait: %w", context.DeadlineExceeded))
	assert.True(t, entities.IsElementNotFound(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	parent, cancel := context.WithTimeout(context.Background(), 0)
	defer cancel()
	<-parent.Done()
	err = waitError(parent, sel, context.DeadlineExceeded)
	assert.False(t, entities.IsElementNotFound(err), "caller deadline is not a missing element")

	other := errors.New("websocket closed")
	assert.Same(t, other, waitError(context.Background(), sel, other))
}

func TestRodLookupError(t *testing.T) {
	sel := entities.CSS("#go")

	err := rodLookupError(sel, &rod.ElementNotFoundError{})
	assert.True(t, entities.IsElementNotFound(err))

	other := errors.New("eval failed")
	assert.Same(t, other, rodLookupError(sel, other))
}

func TestPlaywrightSelector(t *testing.T) {
	assert.Equal(t, "xpath=//input[@name='username']", playwrightSelector(entities.XPath("//input[@name='username']")))
	assert.Equal(t, "css=#login", playwrightSelector(entities.CSS("#login")))
}
