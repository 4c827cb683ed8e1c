package utils

import (
	"fmt"
	"regexp"
	"strconv"
)

// ParseID converts a positive decimal identifier.
func ParseID(value string) (int64, error) {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: %w", value, err)
	}
	if id < 1 {
		return 0, fmt.Errorf("invalid id %q: must be positive", value)
	}
	return id, nil
}

var placeholder = regexp.MustCompile(`{(.*?)}`)

// ResolvePath replaces every {name} in template with params[name].
// Unknown placeholders are an error.
func ResolvePath(template string, params map[string]string) (string, error) {
	var missing string
	resolved := placeholder.ReplaceAllStringFunc(template, func(match string) string {
		key := match[1 : len(match)-1]
		value, ok := params[key]
		if !ok {
			if missing == "" {
				missing = key
			}
			return match
		}
		return value
	})

	if missing != "" {
		return "", fmt.Errorf("path %q: missing parameter %q", template, missing)
	}
	return resolved, nil
}
