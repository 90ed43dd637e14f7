package entities

// ActionType represents the type of interaction performed on the login form
type ActionType string

const (
	ActionEnterIdentifier ActionType = "enter_identifier"
	ActionEnterSecret     ActionType = "enter_secret"
	ActionSubmit          ActionType = "submit"
)

// Action represents a single interaction with one page element
type Action struct {
	Type        ActionType `json:"type"`
	Selector    Selector   `json:"selector"`
	Text        string     `json:"-"`
	Description string     `json:"description"`
}

// TypesText reports whether the action sends keystrokes
func (a *Action) TypesText() bool {
	return a.Type == ActionEnterIdentifier || a.Type == ActionEnterSecret
}
