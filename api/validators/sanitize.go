package validators

import "strings"

func SanitizeString(input string, maxLen int) string {
	trimmed := strings.TrimSpace(input)
	if maxLen > 0 && len([]rune(trimmed)) > maxLen {
		return string([]rune(trimmed)[:maxLen])
	}
	return trimmed
}

// SanitizeOptional trims an optional string and turns blanks into nil.
func SanitizeOptional(input *string, maxLen int) *string {
	if input == nil {
		return nil
	}
	clean := SanitizeString(*input, maxLen)
	if clean == "" {
		return nil
	}
	return &clean
}
