package login

import (
	"context"
	"errors"
	"testing"
	"time"

	"login_automation/domain/entities"
	"login_automation/infrastructure/security"
	"login_automation/internal/testutil/fakebrowser"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dashboardURL = "https://example.test/dashboard"

func TestLoginSequence(t *testing.T) {
	form := entities.DefaultLoginForm()
	b := fakebrowser.NewLoginPage(form, dashboardURL)
	ctx := context.Background()

	a := NewLoginAction(b)
	require.NoError(t, a.EnterIdentifier(ctx))
	require.NoError(t, a.EnterSecret(ctx))
	require.NoError(t, a.Submit(ctx))

	assert.Equal(t, "Admin", b.Value(form.Identifier))
	assert.Equal(t, "admin123", b.Value(form.Secret))
	assert.Equal(t, 1, b.Get(form.Submit).Clicks)

	url, err := b.CurrentURL(ctx)
	require.NoError(t, err)
	assert.Equal(t, dashboardURL, url)
}

func TestConfiguredCredentialsAndForm(t *testing.T) {
	form := entities.LoginForm{
		Identifier: entities.CSS("#email"),
		Secret:     entities.CSS("#pass"),
		Submit:     entities.CSS("#go"),
	}
	b := fakebrowser.NewLoginPage(form, dashboardURL)
	ctx := context.Background()

	a := NewLoginAction(b,
		WithLoginForm(form),
		WithCredentials(entities.Credentials{Identifier: "alice@example.test", Secret: "hunter2"}),
	)
	require.NoError(t, a.EnterIdentifier(ctx))
	require.NoError(t, a.EnterSecret(ctx))

	assert.Equal(t, "alice@example.test", b.Value(form.Identifier))
	assert.Equal(t, "hunter2", b.Value(form.Secret))
	assert.Equal(t, form, a.Form())
}

func TestMissingElementReturnsElementNotFound(t *testing.T) {
	form := entities.DefaultLoginForm()
	ctx := context.Background()

	ops := map[string]func(*LoginAction) error{
		"identifier": func(a *LoginAction) error { return a.EnterIdentifier(ctx) },
		"secret":     func(a *LoginAction) error { return a.EnterSecret(ctx) },
		"submit":     func(a *LoginAction) error { return a.Submit(ctx) },
	}

	for name, op := range ops {
		for _, timeout := range []time.Duration{0, 20 * time.Millisecond} {
			t.Run(name+"/"+timeout.String(), func(t *testing.T) {
				b := fakebrowser.New()
				a := NewLoginAction(b, WithWaitTimeout(timeout))

				err := op(a)
				require.Error(t, err)
				assert.True(t, entities.IsElementNotFound(err), "got %v", err)

				var nf *entities.ElementNotFoundError
				require.True(t, errors.As(err, &nf))
				assert.Contains(t, []entities.Selector{form.Identifier, form.Secret, form.Submit}, nf.Selector)
			})
		}
	}
}

func TestRepeatedCallsApplySameInteraction(t *testing.T) {
	form := entities.DefaultLoginForm()
	b := fakebrowser.NewLoginPage(form, dashboardURL)
	ctx := context.Background()
	a := NewLoginAction(b)

	require.NoError(t, a.EnterIdentifier(ctx))
	require.NoError(t, a.EnterIdentifier(ctx))
	// the fake field appends, like a real input receiving keystrokes
	assert.Equal(t, "AdminAdmin", b.Value(form.Identifier))
}

func TestConstructionPerformsNoIO(t *testing.T) {
	b := fakebrowser.New()
	a := NewLoginAction(b)
	require.NotNil(t, a)
	assert.Empty(t, b.Lookups)
	assert.Empty(t, b.Waits)
}

func TestSubmitBeforeTypingIsNotPrevented(t *testing.T) {
	form := entities.DefaultLoginForm()
	b := fakebrowser.NewLoginPage(form, dashboardURL)
	ctx := context.Background()

	a := NewLoginAction(b)
	require.NoError(t, a.Submit(ctx))
	assert.Equal(t, 1, b.Get(form.Submit).Clicks)
	assert.Empty(t, b.Value(form.Identifier))

	// after navigation the form is gone; typing now fails with ElementNotFound
	b.Remove(form.Identifier)
	err := NewLoginAction(b, WithWaitTimeout(0)).EnterIdentifier(ctx)
	assert.True(t, entities.IsElementNotFound(err))
}

func TestWaitsForLateElement(t *testing.T) {
	form := entities.DefaultLoginForm()
	b := fakebrowser.New()
	b.PutAfter(30*time.Millisecond, form.Identifier, &fakebrowser.Element{Visible: true})

	a := NewLoginAction(b, WithWaitTimeout(2*time.Second))
	require.NoError(t, a.EnterIdentifier(context.Background()))
	assert.Equal(t, "Admin", b.Value(form.Identifier))
	assert.Equal(t, []entities.Selector{form.Identifier}, b.Waits)
}

func TestZeroTimeoutSkipsWait(t *testing.T) {
	form := entities.DefaultLoginForm()
	b := fakebrowser.NewLoginPage(form, dashboardURL)

	a := NewLoginAction(b, WithWaitTimeout(0))
	require.NoError(t, a.EnterSecret(context.Background()))
	assert.Empty(t, b.Waits)
	assert.Equal(t, []entities.Selector{form.Secret}, b.Lookups)
}

func TestInvisibleElementTimesOut(t *testing.T) {
	form := entities.DefaultLoginForm()
	b := fakebrowser.New()
	b.Put(form.Submit, &fakebrowser.Element{Visible: false})

	start := time.Now()
	err := NewLoginAction(b, WithWaitTimeout(40*time.Millisecond)).Submit(context.Background())
	assert.True(t, entities.IsElementNotFound(err))
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
	assert.Zero(t, b.Get(form.Submit).Clicks)
}

func TestDriverErrorsPropagateUnchanged(t *testing.T) {
	form := entities.DefaultLoginForm()
	b := fakebrowser.NewLoginPage(form, dashboardURL)
	driverErr := errors.New("invalid element state")
	b.Get(form.Identifier).SendKeysErr = driverErr

	err := NewLoginAction(b).EnterIdentifier(context.Background())
	assert.Same(t, driverErr, err)
	assert.False(t, entities.IsElementNotFound(err))
}

func TestCanceledContext(t *testing.T) {
	b := fakebrowser.New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewLoginAction(b, WithWaitTimeout(time.Second)).EnterIdentifier(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSecretIsRedactedInLogs(t *testing.T) {
	form := entities.DefaultLoginForm()
	b := fakebrowser.NewLoginPage(form, dashboardURL)
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	a := NewLoginAction(b,
		WithLogger(logger),
		WithSecurityLayer(security.NewSecurityLayer(logger)),
	)
	ctx := context.Background()
	require.NoError(t, a.EnterIdentifier(ctx))
	require.NoError(t, a.EnterSecret(ctx))
	require.NoError(t, a.Submit(ctx))

	require.NotEmpty(t, hook.AllEntries())
	var sawIdentifier bool
	for _, entry := range hook.AllEntries() {
		assert.NotContains(t, entry.Message, "admin123")
		for _, v := range entry.Data {
			assert.NotEqual(t, "admin123", v)
			if v == "Admin" {
				sawIdentifier = true
			}
		}
	}
	assert.True(t, sawIdentifier, "identifier should be logged in clear text")
}

func TestDefaultSecurityRedactsEverything(t *testing.T) {
	form := entities.DefaultLoginForm()
	b := fakebrowser.NewLoginPage(form, dashboardURL)
	logger, hook := test.NewNullLogger()

	require.NoError(t, NewLoginAction(b, WithLogger(logger)).EnterIdentifier(context.Background()))

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "[REDACTED]", entry.Data["text"])
}
