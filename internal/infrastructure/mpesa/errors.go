package mpesa

import (
	"errors"
	"fmt"
)

var (
	ErrAuthFailed        = errors.New("mpesa auth failed")
	ErrMissingCheckoutID = errors.New("daraja returned no checkout request id")
	ErrDecode            = errors.New("unable to decode daraja response")
)

// RejectedError is a non-zero ResponseCode or a non-2xx reply from Daraja.
type RejectedError struct {
	Status  int
	Code    string
	Message string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("mpesa rejected request (status %d, code %s): %s", e.Status, e.Code, e.Message)
}
