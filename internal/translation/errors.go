package translation

import "errors"

// Common errors returned by translation providers
var (
	// ErrEmptyWord is returned when there is nothing to translate.
	ErrEmptyWord = errors.New("word cannot be empty")

	// ErrTranslationFailed is returned when translation fails for any general reason
	ErrTranslationFailed = errors.New("failed to translate word")

	// ErrInvalidResponse is returned when the provider response cannot be used
	ErrInvalidResponse = errors.New("invalid response from translation provider")

	// ErrContentBlocked is returned when the provider blocks the content due to safety filters
	ErrContentBlocked = errors.New("content blocked by translation provider safety filters")

	// ErrTransientFailure is returned for temporary errors that might resolve on retry
	ErrTransientFailure = errors.New("transient error during translation")

	// ErrInvalidConfig is returned when the provider configuration is invalid
	ErrInvalidConfig = errors.New("invalid translation provider configuration")
)
