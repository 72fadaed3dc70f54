// utils/validator.go - Input validation
package utils

import (
	"regexp"
	"strings"
)

// institutionalEmailRegex matches a local part of letters, digits, dots,
// underscores, or hyphens followed by the fixed institutional domain.
var institutionalEmailRegex = regexp.MustCompile(`(?i)^[a-zA-Z0-9._-]+@cetis131\.edu\.mx$`)

// ValidateInstitutionalEmail checks that the address belongs to the
// CETIS 131 domain.
func ValidateInstitutionalEmail(email string) bool {
	return institutionalEmailRegex.MatchString(email)
}

// SanitizeInput removes potentially harmful characters
func SanitizeInput(input string) string {
	// Remove leading/trailing spaces
	input = strings.TrimSpace(input)

	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	return input
}
