package errors

import (
	"errors"
	"fmt"
)

// Common error types for better error handling
var (
	// Playlist errors
	ErrPlaylistExists = errors.New("playlist already exists")
	ErrDuplicateEntry = errors.New("song already in playlist")

	// Resolution errors
	ErrResolveFailed = errors.New("failed to fetch audio")
	ErrEmptyQuery    = errors.New("empty query")
	ErrNoResults     = errors.New("no results found")

	// Validation errors
	ErrInvalidInput = errors.New("invalid input")

	// Storage errors
	ErrStorage = errors.New("storage failure")
)

// UserError wraps an error with a user-friendly message
type UserError struct {
	Err     error
	Message string
}

func (e *UserError) Error() string {
	return e.Err.Error()
}

func (e *UserError) Unwrap() error {
	return e.Err
}

func (e *UserError) UserMessage() string {
	return e.Message
}

// WrapUserError wraps an error with a formatted user-friendly message
func WrapUserError(err error, format string, args ...interface{}) *UserError {
	return &UserError{
		Err:     err,
		Message: fmt.Sprintf(format, args...),
	}
}

// GetUserMessage extracts a user-facing message from an error. Expected
// conditions get specific replies; anything unexpected maps to a generic
// failure so internals never leak into chat.
func GetUserMessage(err error) string {
	var userErr *UserError
	if errors.As(err, &userErr) {
		return userErr.UserMessage()
	}

	switch {
	case errors.Is(err, ErrPlaylistExists):
		return "That playlist already exists."
	case errors.Is(err, ErrDuplicateEntry):
		return "That song is already in the playlist."
	case errors.Is(err, ErrNoResults):
		return "No results found for that query."
	case errors.Is(err, ErrEmptyQuery):
		return "Please send a YouTube link or song name."
	case errors.Is(err, ErrInvalidInput):
		// validation messages are written for users
		return err.Error()
	case errors.Is(err, ErrResolveFailed):
		// carries the human-readable cause from the resolver
		return err.Error()
	default:
		return "Something went wrong. Please try again later."
	}
}
