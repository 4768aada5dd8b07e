// Package inputval holds small, dependency-free input checks shared by
// handlers and services.
package inputval

import "strings"

// IsValidEmail reports whether s looks like a bare addr-spec
// ("local@domain"). Display-name forms, whitespace, and empty or dotted-edge
// labels are rejected. Single-label domains are allowed for dev setups.
func IsValidEmail(s string) bool {
	if s == "" || strings.ContainsAny(s, " \t\r\n<>") {
		return false
	}
	at := strings.LastIndex(s, "@")
	if at <= 0 || at == len(s)-1 {
		return false
	}
	return validDotted(s[:at]) && validDotted(s[at+1:]) && !strings.Contains(s[:at], "@")
}

func validDotted(part string) bool {
	if strings.HasPrefix(part, ".") || strings.HasSuffix(part, ".") {
		return false
	}
	return !strings.Contains(part, "..")
}
