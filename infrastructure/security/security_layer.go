package security

import (
	"strings"

	"login_automation/domain/entities"
	"login_automation/domain/interfaces"

	"github.com/sirupsen/logrus"
)

const redacted = "[REDACTED]"

var sensitiveKeywords = []string{
	"password", "passwd", "pwd", "secret", "token",
	"otp", "totp", "pin", "passcode",
}

type SecurityLayer struct {
	logger logrus.FieldLogger
}

func NewSecurityLayer(logger logrus.FieldLogger) *SecurityLayer {
	return &SecurityLayer{
		logger: logger,
	}
}

func (s *SecurityLayer) IsSensitiveAction(action *entities.Action) bool {
	if action == nil || !action.TypesText() {
		return false
	}

	if action.Type == entities.ActionEnterSecret {
		return true
	}

	// Typing into a field that looks like a secret, whatever step targets it
	lowerSelector := strings.ToLower(action.Selector.Value)
	lowerDesc := strings.ToLower(action.Description)

	for _, keyword := range sensitiveKeywords {
		if strings.Contains(lowerSelector, keyword) || strings.Contains(lowerDesc, keyword) {
			s.logger.Debugf("Treating %s as sensitive: matched %q", action.Selector, keyword)
			return true
		}
	}

	return false
}

func (s *SecurityLayer) RedactText(action *entities.Action) string {
	if action == nil || !action.TypesText() {
		return ""
	}
	if s.IsSensitiveAction(action) {
		return redacted
	}
	return action.Text
}

// Ensure SecurityLayer implements SecurityLayer interface
var _ interfaces.SecurityLayer = (*SecurityLayer)(nil)
