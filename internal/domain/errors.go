package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for fetch operations
var (
	// ErrMalformedURL indicates a request could not be built from its components
	ErrMalformedURL = errors.New("malformed request URL")

	// ErrParamCollision indicates a caller parameter reuses the credential parameter name
	ErrParamCollision = errors.New("query parameter collides with credential parameter")

	// ErrTransport indicates the remote could not be reached
	ErrTransport = errors.New("transport failure")

	// ErrUnexpectedContentType indicates the response carried the wrong media type
	ErrUnexpectedContentType = errors.New("unexpected content type")

	// ErrEmptyResponse indicates the response had no body
	ErrEmptyResponse = errors.New("empty response body")

	// ErrDecode indicates the body was present but could not be decoded
	ErrDecode = errors.New("unable to decode response")

	// ErrExhausted indicates every metadata page has already been fetched
	ErrExhausted = errors.New("all pages fetched")
)

// ServerError is returned for responses with a status code of 300 or above
type ServerError struct {
	StatusCode int
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error: status %d", e.StatusCode)
}
