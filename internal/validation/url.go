package validation

import (
	"fmt"
	"net/url"
	"strings"
)

// MaxURLLength is the longest URL either validator accepts.
const MaxURLLength = 2048

// ValidateBaseURL checks the configured API base URL and returns it without
// a trailing slash. It must be absolute http or https with a host and must
// not carry a query or fragment; paths are appended to it.
func ValidateBaseURL(input string) (string, error) {
	parsed, err := parseHTTPURL(input)
	if err != nil {
		return "", fmt.Errorf("invalid API base URL: %w", err)
	}

	if parsed.RawQuery != "" || parsed.Fragment != "" {
		return "", fmt.Errorf("invalid API base URL: must not contain a query or fragment")
	}
	if parsed.User != nil {
		return "", fmt.Errorf("invalid API base URL: must not contain credentials")
	}

	return strings.TrimRight(parsed.String(), "/"), nil
}

// ParseShareURL parses an article link for sharing or opening. Anything
// that is not an absolute http or https URL with a host is rejected.
func ParseShareURL(input string) (*url.URL, error) {
	parsed, err := parseHTTPURL(input)
	if err != nil {
		return nil, fmt.Errorf("invalid article URL: %w", err)
	}
	return parsed, nil
}

func parseHTTPURL(input string) (*url.URL, error) {
	input = strings.TrimSpace(input)

	if input == "" {
		return nil, fmt.Errorf("URL cannot be empty")
	}
	if len(input) > MaxURLLength {
		return nil, fmt.Errorf("URL too long (max %d characters)", MaxURLLength)
	}

	for _, r := range input {
		if r < 0x20 || r == 0x7f {
			return nil, fmt.Errorf("URL contains control characters")
		}
	}
	if strings.ContainsAny(input, "<>\"`") {
		return nil, fmt.Errorf("URL contains invalid characters")
	}

	parsed, err := url.Parse(input)
	if err != nil {
		return nil, fmt.Errorf("invalid URL format: %w", err)
	}

	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "http" && scheme != "https" {
		return nil, fmt.Errorf("URL must use http or https protocol")
	}
	if parsed.Hostname() == "" {
		return nil, fmt.Errorf("URL must have a valid hostname")
	}

	return parsed, nil
}
