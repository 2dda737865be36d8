package utils

import (
	"strings"
	"unicode/utf8"
)

// IsSeparator checks if a byte ends an alias while typing
func IsSeparator(b byte) bool {
	return b == ' ' || b == '\t' || b == ','
}

// LastToken returns the text after the last separator, which is the part a
// user is still typing.
func LastToken(s string) string {
	for i := len(s) - 1; i >= 0; i-- {
		if IsSeparator(s[i]) {
			return s[i+1:]
		}
	}
	return s
}

// IsPrintableASCII reports whether s only holds visible ASCII characters
func IsPrintableASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x21 || s[i] >= utf8.RuneSelf || s[i] == 0x7f {
			return false
		}
	}
	return true
}

// ClampLength cuts s to at most max bytes
func ClampLength(s string, max int) string {
	if max > 0 && len(s) > max {
		return s[:max]
	}
	return s
}

// HasPrefixFold checks if string has prefix case-insensitively
func HasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
