// Package speech talks to the OpenAI API for transcription, translation and
// model discovery.
package speech

import (
	"context"
	"errors"
	"fmt"
)

var ErrCredentialMissing = errors.New("no API key configured")

// APIError is a non-2xx response from the API.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error %d: %s", e.Status, e.Body)
}

// Auth reports whether the error means the credential is bad.
func (e *APIError) Auth() bool {
	return e.Status == 401 || e.Status == 403
}

// Quota reports whether the error is a rate or quota limit.
func (e *APIError) Quota() bool {
	return e.Status == 429
}

// Model is one entry from the models listing.
type Model struct {
	ID string `json:"id"`
}

// Service is the API surface the pipeline consumes.
type Service interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
	Translate(ctx context.Context, text, target, model string) (string, error)
	ListModels(ctx context.Context) ([]Model, error)
}
