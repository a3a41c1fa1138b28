// Package validate holds the form rules checked before any network call.
package validate

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	MinPasswordLength = 8
	MinUsernameLength = 2
)

// Result is the outcome of one rule. Message is empty when Valid.
type Result struct {
	Valid   bool
	Message string
}

var ok = Result{Valid: true}

func invalid(msg string) Result {
	return Result{Message: msg}
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func Email(email string) Result {
	if blank(email) {
		return invalid("Email is required.")
	}
	if !emailPattern.MatchString(email) {
		return invalid("Please enter a valid email address.")
	}
	return ok
}

func Password(password string) Result {
	if blank(password) {
		return invalid("Password is required.")
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return invalid("Password must be at least 8 characters long.")
	}
	return ok
}

func Username(username string) Result {
	if blank(username) {
		return invalid("Username is required.")
	}
	if utf8.RuneCountInString(username) < MinUsernameLength {
		return invalid("Username must be at least 2 characters long.")
	}
	return ok
}

// Identifier checks the login form's "email or username" field.
func Identifier(identifier string) Result {
	if blank(identifier) {
		return invalid("Email or username is required.")
	}
	return ok
}

// First returns the first failing result, or a valid one.
func First(results ...Result) Result {
	for _, r := range results {
		if !r.Valid {
			return r
		}
	}
	return ok
}
