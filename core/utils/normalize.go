package utils

import (
	"strconv"
	"strings"
)

// NormalizeItemKey canonicalizes an item identifier to its integer-string
// form. The catalog stores item numbers as strings (sometimes zero padded),
// the tracking system as numerics; both collapse to the same key here.
// Non-numeric identifiers are lowercased and trimmed instead.
func NormalizeItemKey(raw any) string {
	s := strings.TrimSpace(ToString(raw))
	if s == "" {
		return ""
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return strconv.FormatInt(n, 10)
	}
	return strings.ToLower(s)
}
