package contract

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Rule refines a decoded value.  It returns an empty string when the value
// is acceptable and a message otherwise.
type Rule[T any] func(T) string

// NotBlank rejects strings that are empty after trimming.
func NotBlank() Rule[string] {
	return func(s string) string {
		if strings.TrimSpace(s) == "" {
			return "Field may not be blank."
		}
		return ""
	}
}

// MaxLen bounds the length of a string in characters.
func MaxLen(n int) Rule[string] {
	return func(s string) string {
		if utf8.RuneCountInString(s) > n {
			return fmt.Sprintf("Longer than maximum length %d.", n)
		}
		return ""
	}
}

// Match requires s to match re, reporting msg otherwise.
func Match(re *regexp.Regexp, msg string) Rule[string] {
	return func(s string) string {
		if !re.MatchString(s) {
			return msg
		}
		return ""
	}
}

// OneOf requires s to be one of choices.
func OneOf(choices ...string) Rule[string] {
	msg := "Must be one of: " + strings.Join(choices, ", ") + "."
	return func(s string) string {
		for _, c := range choices {
			if s == c {
				return ""
			}
		}
		return msg
	}
}

// Min requires n to be at least lo.
func Min(lo int64) Rule[int64] {
	return func(n int64) string {
		if n < lo {
			return fmt.Sprintf("Must be greater than or equal to %d.", lo)
		}
		return ""
	}
}

// Email requires a bare address such as "name@example.com".
func Email() Rule[string] {
	return func(s string) string {
		addr, err := mail.ParseAddress(s)
		if err != nil || addr.Address != s || !strings.Contains(s[strings.LastIndex(s, "@")+1:], ".") {
			return "Not a valid email address."
		}
		return ""
	}
}
