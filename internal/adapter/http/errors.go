package http

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"loanpap/internal/domain/loan"
	"loanpap/internal/domain/repayment"
	"loanpap/internal/domain/user"
	ucAuth "loanpap/internal/usecase/auth"
	ucLoan "loanpap/internal/usecase/loan"
	ucRepayment "loanpap/internal/usecase/repayment"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ErrorResponse is the single error envelope of the API.
type ErrorResponse struct {
	Timestamp time.Time         `json:"timestamp"`
	Status    int               `json:"status"`
	ErrorCode string            `json:"errorCode"`
	Message   string            `json:"message"`
	Details   map[string]string `json:"details"`
}

type apiError struct {
	status  int
	code    string
	message string
	details []FieldError
}

func (e *apiError) Error() string { return e.message }

func badRequest(msg string) error {
	return &apiError{status: http.StatusBadRequest, code: "VALIDATION_FAILED", message: msg}
}

func validationFailed(err error) error {
	return &apiError{status: http.StatusBadRequest, code: "VALIDATION_FAILED", message: "Invalid input data", details: ToFieldErrors(err)}
}

var statusCodes = map[int]string{
	http.StatusBadRequest:         "BAD_REQUEST",
	http.StatusUnauthorized:       "UNAUTHORIZED",
	http.StatusForbidden:          "FORBIDDEN",
	http.StatusNotFound:           "NOT_FOUND",
	http.StatusMethodNotAllowed:   "METHOD_NOT_ALLOWED",
	http.StatusConflict:           "CONFLICT",
	http.StatusServiceUnavailable: "SERVICE_UNAVAILABLE",
}

func classify(err error) *apiError {
	var ae *apiError
	if errors.As(err, &ae) {
		return ae
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code, ok := statusCodes[he.Code]
		if !ok {
			code = "HTTP_ERROR"
		}
		return &apiError{status: he.Code, code: code, message: fmt.Sprint(he.Message)}
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		return validationFailed(ve).(*apiError)
	}

	switch {
	case errors.Is(err, user.ErrNotFound), errors.Is(err, loan.ErrNotFound), errors.Is(err, repayment.ErrNotFound):
		return &apiError{status: http.StatusNotFound, code: "NOT_FOUND", message: err.Error()}
	case errors.Is(err, user.ErrEmailTaken):
		return &apiError{status: http.StatusConflict, code: "USER_EXISTS", message: err.Error()}
	case errors.Is(err, user.ErrInvalidCredentials):
		return &apiError{status: http.StatusUnauthorized, code: "AUTH_FAILED", message: "Invalid email or password"}
	case errors.Is(err, user.ErrAccountLocked):
		return &apiError{status: http.StatusUnauthorized, code: "AUTH_FAILED", message: err.Error()}
	case errors.Is(err, ucAuth.ErrInvalidToken):
		return &apiError{status: http.StatusUnauthorized, code: "UNAUTHORIZED", message: err.Error()}
	case errors.Is(err, user.ErrForbidden):
		return &apiError{status: http.StatusForbidden, code: "FORBIDDEN", message: "You do not have permission to access this resource"}
	case errors.Is(err, ucLoan.ErrInvalidInput):
		return &apiError{status: http.StatusBadRequest, code: "VALIDATION_FAILED", message: err.Error()}
	case errors.Is(err, loan.ErrInvalidTransition), errors.Is(err, loan.ErrActiveLoanLimit),
		errors.Is(err, repayment.ErrAlreadyPaid), errors.Is(err, repayment.ErrCancelled),
		errors.Is(err, repayment.ErrPhoneMissing):
		return &apiError{status: http.StatusUnprocessableEntity, code: "LOAN_PROCESSING", message: err.Error()}
	case errors.Is(err, ucRepayment.ErrGatewayUnavailable):
		return &apiError{status: http.StatusServiceUnavailable, code: "PAYMENT_GATEWAY_UNAVAILABLE", message: err.Error()}
	case errors.Is(err, ucRepayment.ErrGatewayFailed):
		return &apiError{status: http.StatusBadGateway, code: "PAYMENT_GATEWAY_ERROR", message: "Failed to initiate M-Pesa payment"}
	}
	return &apiError{status: http.StatusInternalServerError, code: "INTERNAL_SERVER_ERROR", message: "An unexpected error occurred"}
}

// NewErrorHandler renders every error returned by a handler or middleware as an ErrorResponse.
func NewErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		ae := classify(err)
		if ae.status >= http.StatusInternalServerError {
			log.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
		}
		body := ErrorResponse{
			Timestamp: time.Now().UTC(),
			Status:    ae.status,
			ErrorCode: ae.code,
			Message:   ae.message,
			Details:   map[string]string{},
		}
		for _, fe := range ae.details {
			body.Details[fe.Field] = fe.Message
		}
		if c.Request().Method == http.MethodHead {
			err = c.NoContent(ae.status)
		} else {
			err = c.JSON(ae.status, body)
		}
		if err != nil {
			log.Warn("failed to write error response", zap.Error(err))
		}
	}
}
