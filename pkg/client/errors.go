package client

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized means the session is gone and the user must sign in again.
	ErrUnauthorized = errors.New("client: unauthorized")
	ErrForbidden    = errors.New("client: access denied")
	// ErrPollExhausted is returned when a payment is still unconfirmed after the last attempt.
	ErrPollExhausted = errors.New("client: payment not confirmed in time")
)

// APIError is any other non-2xx answer, decoded from the server's error envelope.
type APIError struct {
	Status  int               `json:"status"`
	Code    string            `json:"errorCode"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error %d %s: %s", e.Status, e.Code, e.Message)
}
