package provider

import "fmt"

// NoCredentialError reports a generation attempt against a provider the user
// has not stored an active key for. The UI turns this into an "add your key
// in Settings" prompt, so the provider tag must be present.
type NoCredentialError struct {
	Provider Provider
}

func (e *NoCredentialError) Error() string {
	return fmt.Sprintf("no active API key for provider %s", e.Provider)
}

// GenerationError wraps an upstream provider failure. The provider's own
// message is preserved for display; retrying is the caller's decision.
type GenerationError struct {
	Provider Provider
	Err      error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s generation failed: %v", e.Provider, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }
