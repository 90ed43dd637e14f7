package entities

import (
	"fmt"
	"strings"
)

// SelectorStrategy identifies how a selector expression is resolved against the page
type SelectorStrategy string

const (
	StrategyXPath SelectorStrategy = "xpath"
	StrategyCSS   SelectorStrategy = "css"
)

// Selector is an immutable locator expression for one page element
type Selector struct {
	Strategy SelectorStrategy `json:"strategy" yaml:"strategy"`
	Value    string           `json:"value" yaml:"value"`
}

// XPath builds an XPath selector
func XPath(expr string) Selector {
	return Selector{Strategy: StrategyXPath, Value: expr}
}

// CSS builds a CSS selector
func CSS(expr string) Selector {
	return Selector{Strategy: StrategyCSS, Value: expr}
}

// ParseSelector parses a selector expression.
// Explicit "xpath=" and "css=" prefixes win; otherwise expressions starting
// with "/" or "(" are XPath and everything else is CSS.
func ParseSelector(expr string) (Selector, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return Selector{}, fmt.Errorf("empty selector")
	}

	if rest, ok := strings.CutPrefix(expr, "xpath="); ok {
		if strings.TrimSpace(rest) == "" {
			return Selector{}, fmt.Errorf("empty xpath selector")
		}
		return XPath(rest), nil
	}
	if rest, ok := strings.CutPrefix(expr, "css="); ok {
		if strings.TrimSpace(rest) == "" {
			return Selector{}, fmt.Errorf("empty css selector")
		}
		return CSS(rest), nil
	}

	if strings.HasPrefix(expr, "/") || strings.HasPrefix(expr, "(") {
		return XPath(expr), nil
	}
	return CSS(expr), nil
}

// IsXPath reports whether the selector uses the XPath strategy
func (s Selector) IsXPath() bool {
	return s.Strategy == StrategyXPath
}

// String returns the selector in its prefixed form, e.g. "xpath=//input"
func (s Selector) String() string {
	return string(s.Strategy) + "=" + s.Value
}
