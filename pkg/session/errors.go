package session

import "errors"

var (
	// ErrAlreadyStarted indicates Start was called on an active session
	ErrAlreadyStarted = errors.New("session.already_started")

	// ErrTransportCommitted indicates response headers were sent before Start,
	// so the session cookie can no longer be attached
	ErrTransportCommitted = errors.New("session.transport_committed")

	// ErrProviderStart indicates the provider refused to start the session
	ErrProviderStart = errors.New("session.provider_start_failed")

	// ErrProviderDisabled indicates the provider has no backend to start against
	ErrProviderDisabled = errors.New("session.provider_disabled")

	// ErrSessionNotFound indicates no data is stored under the identifier
	ErrSessionNotFound = errors.New("session.not_found")

	// ErrInvalidSession indicates a record without an identifier or an undecodable payload
	ErrInvalidSession = errors.New("session.invalid")

	// ErrTokenGeneration indicates identifier generation failed
	ErrTokenGeneration = errors.New("session.token_generation_failed")
)
