package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestWrapUserError(t *testing.T) {
	base := fmt.Errorf("pg: broken pipe")
	err := WrapUserError(base, "Could not save '%s'.", "Chill")

	if !errors.Is(err, base) {
		t.Error("Expected wrapped error to unwrap to the cause")
	}
	if err.UserMessage() != "Could not save 'Chill'." {
		t.Errorf("UserMessage = %q", err.UserMessage())
	}
	if err.Error() != "pg: broken pipe" {
		t.Errorf("Error = %q, want the internal cause", err.Error())
	}
}

func TestGetUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "playlist exists",
			err:      fmt.Errorf("create: %w", ErrPlaylistExists),
			expected: "That playlist already exists.",
		},
		{
			name:     "duplicate entry",
			err:      ErrDuplicateEntry,
			expected: "That song is already in the playlist.",
		},
		{
			name:     "no results",
			err:      fmt.Errorf("%w for query", ErrNoResults),
			expected: "No results found for that query.",
		},
		{
			name:     "empty query",
			err:      ErrEmptyQuery,
			expected: "Please send a YouTube link or song name.",
		},
		{
			name:     "validation message passes through",
			err:      fmt.Errorf("%w: playlist name cannot be empty", ErrInvalidInput),
			expected: "invalid input: playlist name cannot be empty",
		},
		{
			name:     "resolve failure carries cause",
			err:      fmt.Errorf("%w: ERROR: Video unavailable", ErrResolveFailed),
			expected: "failed to fetch audio: ERROR: Video unavailable",
		},
		{
			name:     "storage fault hides internals",
			err:      fmt.Errorf("%w: insert row: broken pipe", ErrStorage),
			expected: "Something went wrong. Please try again later.",
		},
		{
			name:     "unknown error hides internals",
			err:      fmt.Errorf("nil pointer dereference"),
			expected: "Something went wrong. Please try again later.",
		},
		{
			name:     "user error takes precedence",
			err:      WrapUserError(ErrStorage, "Could not save your playlist."),
			expected: "Could not save your playlist.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetUserMessage(tt.err); got != tt.expected {
				t.Errorf("GetUserMessage = %q, want %q", got, tt.expected)
			}
		})
	}
}
