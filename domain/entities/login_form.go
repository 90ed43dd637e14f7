package entities

// LoginForm holds the selectors of the three login form controls
type LoginForm struct {
	Identifier Selector `json:"identifier" yaml:"identifier"`
	Secret     Selector `json:"secret" yaml:"secret"`
	Submit     Selector `json:"submit" yaml:"submit"`
}

// DefaultLoginForm returns the selectors of the standard username/password form
func DefaultLoginForm() LoginForm {
	return LoginForm{
		Identifier: XPath("//input[@name='username']"),
		Secret:     XPath("//input[@name='password']"),
		Submit:     XPath("//button[@type='submit']"),
	}
}

// Credentials represents the identifier and secret typed into the form
type Credentials struct {
	Identifier string `json:"identifier"`
	Secret     string `json:"-"`
}

// DefaultCredentials returns the demo account credentials
func DefaultCredentials() Credentials {
	return Credentials{
		Identifier: "Admin",
		Secret:     "admin123",
	}
}
