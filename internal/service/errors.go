package service

import "errors"

var (
	// ErrEmptyWod is returned when an analysis request has neither text nor image
	ErrEmptyWod = errors.New("se necesita el texto del WOD o una imagen")
	// ErrNoMessages is returned for a chat without messages
	ErrNoMessages = errors.New("no hay mensajes")
	// ErrMissingAnalysis is returned when a comparison lacks one of its analyses
	ErrMissingAnalysis = errors.New("se necesitan ambos análisis")
	// ErrNotFound is returned when a record does not exist
	ErrNotFound = errors.New("not found")
	// ErrNoPreviousWod is returned when nothing was logged yesterday
	ErrNoPreviousWod = errors.New("no hay WOD registrado ayer")
	// ErrEmptyResponse is returned when the model replied without text
	ErrEmptyResponse = errors.New("empty response from model")
)

// ValidationError reports input that failed a range or presence check.
// Message is shown to the user as is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
