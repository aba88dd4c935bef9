package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error types for common failure scenarios.
var (
	ErrPlaybackStart     = errors.New("cannot play this file")
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	ErrTrackNotFound     = errors.New("track not found")
	ErrNoTracks          = errors.New("no tracks in library")
	ErrPlaylistNotFound  = errors.New("playlist not found")
	ErrConfigNotFound    = errors.New("config file not found")
	ErrInvalidConfig     = errors.New("invalid configuration")
)

// VinylError wraps an error with a user-friendly suggestion.
type VinylError struct {
	Err        error
	Suggestion string
}

func (e *VinylError) Error() string {
	return e.Err.Error()
}

func (e *VinylError) Unwrap() error {
	return e.Err
}

// WithSuggestion wraps an error with a helpful suggestion.
func WithSuggestion(err error, suggestion string) error {
	return &VinylError{
		Err:        err,
		Suggestion: suggestion,
	}
}

// GetSuggestion returns a suggestion for the given error.
func GetSuggestion(err error) string {
	if err == nil {
		return ""
	}

	// Check if it's already a VinylError with suggestion
	var vinylErr *VinylError
	if errors.As(err, &vinylErr) && vinylErr.Suggestion != "" {
		return vinylErr.Suggestion
	}

	errStr := strings.ToLower(err.Error())

	// Playback errors
	if errors.Is(err, ErrPlaybackStart) || strings.Contains(errStr, "cannot play") ||
		strings.Contains(errStr, "decode") {
		return "The file may be corrupt or in an unsupported format"
	}

	if errors.Is(err, ErrUnsupportedFormat) || strings.Contains(errStr, "unsupported audio") {
		return "Supported formats: mp3, wav, flac, ogg"
	}

	// Library errors
	if errors.Is(err, ErrNoTracks) || strings.Contains(errStr, "no tracks") {
		return "Add audio files with 'vinyl play <file>...' or set library.music_dir in ~/.vinylrc"
	}

	if errors.Is(err, ErrTrackNotFound) || strings.Contains(errStr, "track not found") {
		return "The file may have been removed from the library"
	}

	if errors.Is(err, ErrPlaylistNotFound) {
		return "Create a playlist first with 'N' in the dashboard"
	}

	// File access errors
	if strings.Contains(errStr, "no such file") || strings.Contains(errStr, "permission denied") {
		return "Check that the file exists and is readable"
	}

	// Config errors
	if errors.Is(err, ErrConfigNotFound) || errors.Is(err, ErrInvalidConfig) ||
		strings.Contains(errStr, "config") {
		return "Check ~/.vinylrc or run 'vinyl config' to see the effective configuration"
	}

	return ""
}

// Format returns a formatted error message with suggestion if available.
func Format(err error) string {
	if err == nil {
		return ""
	}

	suggestion := GetSuggestion(err)
	if suggestion != "" {
		return fmt.Sprintf("Error: %s\n\nSuggestion: %s", err.Error(), suggestion)
	}

	return fmt.Sprintf("Error: %s", err.Error())
}

// PartialResult represents a result that may have partial failures.
type PartialResult[T any] struct {
	Data   T
	Errors []error
}

// HasErrors returns true if there were any errors.
func (p *PartialResult[T]) HasErrors() bool {
	return len(p.Errors) > 0
}

// AddError adds an error to the partial result.
func (p *PartialResult[T]) AddError(err error) {
	if err != nil {
		p.Errors = append(p.Errors, err)
	}
}

// ErrorSummary returns a summary of all errors.
func (p *PartialResult[T]) ErrorSummary() string {
	if len(p.Errors) == 0 {
		return ""
	}
	if len(p.Errors) == 1 {
		return p.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d errors occurred:\n", len(p.Errors)))
	for i, err := range p.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}
