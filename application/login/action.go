// Package login drives a login form through a browser session.
package login

import (
	"context"
	"io"
	"time"

	"login_automation/domain/entities"
	"login_automation/domain/interfaces"

	"github.com/sirupsen/logrus"
)

// DefaultWaitTimeout bounds the wait for an element before each interaction
const DefaultWaitTimeout = 10 * time.Second

// LoginAction performs the three login form interactions against a session.
// The operations are independent: the caller decides order and timing.
// A LoginAction is not safe for concurrent use on the same session.
type LoginAction struct {
	session     interfaces.Session
	form        entities.LoginForm
	credentials entities.Credentials
	waitTimeout time.Duration
	security    interfaces.SecurityLayer
	logger      logrus.FieldLogger
}

// Option configures a LoginAction
type Option func(*LoginAction)

// WithCredentials sets the identifier and secret to type
func WithCredentials(credentials entities.Credentials) Option {
	return func(a *LoginAction) {
		a.credentials = credentials
	}
}

// WithLoginForm sets the selectors of the form controls
func WithLoginForm(form entities.LoginForm) Option {
	return func(a *LoginAction) {
		a.form = form
	}
}

// WithWaitTimeout bounds the wait-for-visible step. Zero disables waiting:
// elements are then looked up once and must already be present.
func WithWaitTimeout(timeout time.Duration) Option {
	return func(a *LoginAction) {
		if timeout < 0 {
			timeout = 0
		}
		a.waitTimeout = timeout
	}
}

// WithSecurityLayer sets the layer used to redact typed text in logs
func WithSecurityLayer(security interfaces.SecurityLayer) Option {
	return func(a *LoginAction) {
		a.security = security
	}
}

// WithLogger sets the logger
func WithLogger(logger logrus.FieldLogger) Option {
	return func(a *LoginAction) {
		a.logger = logger
	}
}

// NewLoginAction - creates a login action bound to session. It performs no I/O.
func NewLoginAction(session interfaces.Session, opts ...Option) *LoginAction {
	a := &LoginAction{
		session:     session,
		form:        entities.DefaultLoginForm(),
		credentials: entities.DefaultCredentials(),
		waitTimeout: DefaultWaitTimeout,
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		a.logger = l
	}
	if a.security == nil {
		a.security = redactAll{}
	}

	return a
}

// Form returns the selectors the action targets
func (a *LoginAction) Form() entities.LoginForm {
	return a.form
}

// EnterIdentifier - types the identifier into the identifier field
func (a *LoginAction) EnterIdentifier(ctx context.Context) error {
	return a.perform(ctx, &entities.Action{
		Type:        entities.ActionEnterIdentifier,
		Selector:    a.form.Identifier,
		Text:        a.credentials.Identifier,
		Description: "enter identifier",
	})
}

// EnterSecret - types the secret into the secret field
func (a *LoginAction) EnterSecret(ctx context.Context) error {
	return a.perform(ctx, &entities.Action{
		Type:        entities.ActionEnterSecret,
		Selector:    a.form.Secret,
		Text:        a.credentials.Secret,
		Description: "enter secret",
	})
}

// Submit - clicks the submit control
func (a *LoginAction) Submit(ctx context.Context) error {
	return a.perform(ctx, &entities.Action{
		Type:        entities.ActionSubmit,
		Selector:    a.form.Submit,
		Description: "submit",
	})
}

// perform - waits for, locates and interacts with one element.
// Session errors are returned as they are.
func (a *LoginAction) perform(ctx context.Context, action *entities.Action) error {
	log := a.logger.WithFields(logrus.Fields{
		"action":   action.Type,
		"selector": action.Selector.String(),
	})
	if action.TypesText() {
		log = log.WithField("text", a.security.RedactText(action))
	}

	if a.waitTimeout > 0 {
		log.Debugf("Waiting up to %s for element", a.waitTimeout)
		if err := a.session.WaitVisible(ctx, action.Selector, a.waitTimeout); err != nil {
			log.WithError(err).Warn("Element did not become visible")
			return err
		}
	}

	element, err := a.session.FindElement(ctx, action.Selector)
	if err != nil {
		log.WithError(err).Warn("Element lookup failed")
		return err
	}

	switch action.Type {
	case entities.ActionEnterIdentifier, entities.ActionEnterSecret:
		err = element.SendKeys(ctx, action.Text)
	case entities.ActionSubmit:
		err = element.Click(ctx)
	}
	if err != nil {
		log.WithError(err).Warn("Interaction failed")
		return err
	}

	log.Info("Performed " + action.Description)
	return nil
}

// redactAll hides all typed text when no security layer is configured
type redactAll struct{}

func (redactAll) IsSensitiveAction(action *entities.Action) bool {
	return action != nil && action.TypesText()
}

func (redactAll) RedactText(action *entities.Action) string {
	if action == nil || !action.TypesText() {
		return ""
	}
	return "[REDACTED]"
}
