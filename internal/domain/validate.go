package domain

import (
	"net/url"
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidURL accepts any absolute URL: a scheme is mandatory, anything a
// generic URL parser accepts after it is allowed.
func ValidURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if u.Scheme == "" {
		return false
	}
	return u.Host != "" || u.Opaque != ""
}

// ValidEmail applies a basic mailbox shape check (local@domain.tld).
func ValidEmail(raw string) bool {
	return emailPattern.MatchString(raw)
}

// RequireFields returns a missing-field error for the first blank value, in
// the order given.
func RequireFields(fields ...Field) error {
	for _, f := range fields {
		if strings.TrimSpace(f.Value) == "" {
			return &ValidationError{Field: f.Name, Reason: ReasonMissingField}
		}
	}
	return nil
}

// Field is a named input value checked by RequireFields.
type Field struct {
	Name  string
	Value string
}
