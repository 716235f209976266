package utils

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidateID validates an entity identifier
func ValidateID(fieldName, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%s cannot be empty", fieldName)
	}
	if len(id) > 255 {
		return fmt.Errorf("%s too long (max 255 characters)", fieldName)
	}
	return nil
}

// ValidateTenantID validates tenant ID
func ValidateTenantID(tenantID string) error {
	return ValidateID("tenant ID", tenantID)
}

// ValidateURL validates an absolute http(s) URL
func ValidateURL(fieldName, raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return fmt.Errorf("%s must be an absolute URL", fieldName)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%s must use http or https", fieldName)
	}
	return nil
}

// SanitizeString removes dangerous characters from user input
func SanitizeString(input string) string {
	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")
	// Trim whitespace
	input = strings.TrimSpace(input)
	return input
}

// ValidateLimit clamps a pagination limit to (0, maxLimit], using defaultLimit when unset
func ValidateLimit(limit, defaultLimit, maxLimit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}

// ValidateOffset validates pagination offset
func ValidateOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}

// ValidateRequired validates that a field is not empty
func ValidateRequired(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", fieldName)
	}
	return nil
}

// ValidateMaxLength validates maximum string length
func ValidateMaxLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%s exceeds maximum length of %d characters", fieldName, maxLength)
	}
	return nil
}

// ValidateNonNegative validates an optional numeric target
func ValidateNonNegative(fieldName string, value *int) error {
	if value != nil && *value < 0 {
		return fmt.Errorf("%s must be non-negative", fieldName)
	}
	return nil
}
