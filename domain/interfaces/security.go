package interfaces

import "login_automation/domain/entities"

// SecurityLayer decides how action details may be exposed in logs
type SecurityLayer interface {
	// IsSensitiveAction checks if an action types sensitive text
	IsSensitiveAction(action *entities.Action) bool

	// RedactText returns the action text safe for logging
	RedactText(action *entities.Action) string
}
