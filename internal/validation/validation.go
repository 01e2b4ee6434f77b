package validation

import (
	"fmt"
	"strings"

	"github.com/awnkhoury1/awnzzbot/internal/errors"
)

const maxPlaylistNameLen = 100

// HasURLScheme reports whether input should be treated as a direct
// locator rather than a search query.
func HasURLScheme(input string) bool {
	return strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://")
}

// SanitizeInput strips null bytes and surrounding whitespace from user
// input.
func SanitizeInput(input string) string {
	input = strings.ReplaceAll(input, "\x00", "")
	return strings.TrimSpace(input)
}

// ValidatePlaylistName checks a playlist name before any side effect.
// Names are stored exactly as typed, so this only rejects what the
// storage layer cannot hold: empty and absurdly long names.
func ValidatePlaylistName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: playlist name cannot be empty", errors.ErrInvalidInput)
	}

	if len(name) > maxPlaylistNameLen {
		return fmt.Errorf("%w: playlist name too long (max %d characters)", errors.ErrInvalidInput, maxPlaylistNameLen)
	}

	return nil
}

// ValidateQuery checks a fetch query before handing it to the resolver
func ValidateQuery(query string) error {
	if SanitizeInput(query) == "" {
		return errors.ErrEmptyQuery
	}
	return nil
}
