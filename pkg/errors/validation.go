package errors

import (
	"net/url"
	"strconv"
	"strings"
)

// ParsePartID parses a part primary key as received on the command line or
// in a URL path segment. Part ids are positive integers.
func ParsePartID(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, New(ErrCodeInvalidPartID, "part id cannot be empty")
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, New(ErrCodeInvalidPartID, "part id must be an integer: %q", raw)
	}
	if err := ValidatePartID(id); err != nil {
		return 0, err
	}
	return id, nil
}

// ValidatePartID rejects zero and negative part ids.
func ValidatePartID(id int) error {
	if id <= 0 {
		return New(ErrCodeInvalidPartID, "part id must be positive: %d", id)
	}
	return nil
}

// ValidateMaxDepth checks that depth is within [0, limit].
func ValidateMaxDepth(depth, limit int) error {
	if depth < 0 || depth > limit {
		return New(ErrCodeInvalidDepth, "max depth must be between 0 and %d, got %d", limit, depth)
	}
	return nil
}

// ValidateURL validates a host base URL.
// It must be absolute, use http or https, and carry no query or fragment.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidURL, "URL cannot be empty")
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return Wrap(ErrCodeInvalidURL, err, "malformed URL %q", rawURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return New(ErrCodeInvalidURL, "URL must use http or https scheme")
	}
	if u.Host == "" {
		return New(ErrCodeInvalidURL, "URL must include a host")
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return New(ErrCodeInvalidURL, "URL must not contain a query or fragment")
	}

	return nil
}
