// utils/validation.go
package utils

import (
	"regexp"
	"strings"
)

var digitsRe = regexp.MustCompile(`\D+`)

// ValidatePhone checks if a phone number is in a valid international format
func ValidatePhone(phone string) bool {
	// Clean the phone number
	cleaned := strings.ReplaceAll(phone, " ", "")
	cleaned = strings.ReplaceAll(cleaned, "-", "")
	cleaned = strings.ReplaceAll(cleaned, "(", "")
	cleaned = strings.ReplaceAll(cleaned, ")", "")

	// Allows + prefix followed by 7-15 digits
	regex := `^\+?[1-9]\d{1,14}$`
	match, _ := regexp.MatchString(regex, cleaned)
	return match
}

// NormalizePhone strips everything but digits.
func NormalizePhone(phone string) string {
	return digitsRe.ReplaceAllString(phone, "")
}

// MakePortalKeyFromPhone derives a stable portal key from the phone's digits
// by rotating them around the midpoint. Empty phone yields an empty key.
func MakePortalKeyFromPhone(phone string) string {
	d := NormalizePhone(phone)
	if d == "" {
		return ""
	}
	mid := len(d) / 2
	return "pk_" + d[mid:] + d[:mid]
}
