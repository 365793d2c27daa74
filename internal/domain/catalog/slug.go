package catalog

import (
	"fmt"
	"strings"
)

// Slugify normalizes a display name into a lowercase, hyphen-separated,
// ASCII-safe token. Runs of non-alphanumeric characters collapse into a
// single hyphen; leading and trailing hyphens are trimmed.
//
// Example:
//
//	Slugify("Electronics & Gadgets") // "electronics-gadgets"
func Slugify(name string) string {
	var b strings.Builder
	pendingHyphen := false
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r + ('a' - 'A'))
		default:
			pendingHyphen = true
		}
	}
	return b.String()
}

// AssignSlug derives a slug for name that is free according to exists.
// It returns the normalized base token when unused, otherwise probes
// base-1, base-2, ... and returns the smallest free variant. The result is
// deterministic for a given snapshot of existing slugs; the caller still
// owns the atomic reservation against the store.
func AssignSlug(name string, exists func(slug string) bool) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", ErrEmptyName
	}
	base := Slugify(name)
	if base == "" {
		return "", ErrUnusableName
	}
	if !exists(base) {
		return base, nil
	}
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s-%d", base, i)
		if !exists(candidate) {
			return candidate, nil
		}
	}
}
