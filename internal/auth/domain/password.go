package domain

import (
	"strings"
	"unicode/utf8"
)

const (
	MinPasswordLength = 8
	PasswordSymbols   = `@#$%^!&*()_+-=[]{};':"\|,.<>/?`
)

// Password rule messages, reported in this order.
const (
	RuleNotEmpty  = "password must not be empty"
	RuleMinLength = "password must be at least 8 characters long"
	RuleUppercase = "password must contain at least one uppercase letter"
	RuleDigit     = "password must contain at least one digit"
	RuleSymbol    = "password must contain at least one special character"
)

// PasswordViolations lists every rule pw breaks. A nil result means the
// password is acceptable.
func PasswordViolations(pw string) []string {
	if pw == "" {
		return []string{RuleNotEmpty}
	}

	var rules []string
	if utf8.RuneCountInString(pw) < MinPasswordLength {
		rules = append(rules, RuleMinLength)
	}
	if !strings.ContainsFunc(pw, func(r rune) bool { return r >= 'A' && r <= 'Z' }) {
		rules = append(rules, RuleUppercase)
	}
	if !strings.ContainsFunc(pw, func(r rune) bool { return r >= '0' && r <= '9' }) {
		rules = append(rules, RuleDigit)
	}
	if !strings.ContainsAny(pw, PasswordSymbols) {
		rules = append(rules, RuleSymbol)
	}
	return rules
}

// CheckPassword returns a KindWeakPassword error carrying every broken rule.
func CheckPassword(pw string) error {
	if rules := PasswordViolations(pw); len(rules) > 0 {
		return WeakPassword(rules)
	}
	return nil
}
