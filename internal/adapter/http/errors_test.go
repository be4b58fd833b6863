package http

import (
	"encoding/json"
	"errors"
	"fmt"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"

	"loanpap/internal/domain/loan"
	"loanpap/internal/domain/repayment"
	"loanpap/internal/domain/user"
	ucAuth "loanpap/internal/usecase/auth"
	ucLoan "loanpap/internal/usecase/loan"
	ucRepayment "loanpap/internal/usecase/repayment"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{user.ErrNotFound, 404, "NOT_FOUND"},
		{fmt.Errorf("load: %w", loan.ErrNotFound), 404, "NOT_FOUND"},
		{repayment.ErrNotFound, 404, "NOT_FOUND"},
		{user.ErrEmailTaken, 409, "USER_EXISTS"},
		{user.ErrInvalidCredentials, 401, "AUTH_FAILED"},
		{user.ErrAccountLocked, 401, "AUTH_FAILED"},
		{ucAuth.ErrInvalidToken, 401, "UNAUTHORIZED"},
		{user.ErrForbidden, 403, "FORBIDDEN"},
		{fmt.Errorf("%w: bad", ucLoan.ErrInvalidInput), 400, "VALIDATION_FAILED"},
		{fmt.Errorf("%w: only PENDING", loan.ErrInvalidTransition), 422, "LOAN_PROCESSING"},
		{loan.ErrActiveLoanLimit, 422, "LOAN_PROCESSING"},
		{repayment.ErrAlreadyPaid, 422, "LOAN_PROCESSING"},
		{repayment.ErrCancelled, 422, "LOAN_PROCESSING"},
		{repayment.ErrPhoneMissing, 422, "LOAN_PROCESSING"},
		{ucRepayment.ErrGatewayUnavailable, 503, "PAYMENT_GATEWAY_UNAVAILABLE"},
		{fmt.Errorf("%w: %w", ucRepayment.ErrGatewayFailed, errors.New("timeout")), 502, "PAYMENT_GATEWAY_ERROR"},
		{echo.NewHTTPError(stdhttp.StatusConflict, "in progress"), 409, "CONFLICT"},
		{echo.NewHTTPError(stdhttp.StatusTeapot, "tea"), 418, "HTTP_ERROR"},
		{errors.New("db exploded"), 500, "INTERNAL_SERVER_ERROR"},
	}
	for _, tt := range tests {
		got := classify(tt.err)
		if got.status != tt.status || got.code != tt.code {
			t.Fatalf("classify(%v) = %d %s, want %d %s", tt.err, got.status, got.code, tt.status, tt.code)
		}
	}
}

func TestClassify_HidesInternalMessage(t *testing.T) {
	if got := classify(errors.New("dsn root:secret@tcp")); got.message != "An unexpected error occurred" {
		t.Fatalf("message leaked: %q", got.message)
	}
}

func TestErrorHandler_Envelope(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	e.HTTPErrorHandler = NewErrorHandler(zap.NewNop())
	e.POST("/x", func(c echo.Context) error {
		var req struct {
			Email string `json:"email" validate:"required,email"`
		}
		return bindValid(c, &req)
	})

	req := httptest.NewRequest(stdhttp.MethodPost, "/x", mustJSON(map[string]string{"email": "nope"}))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	var body ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if body.Status != 400 || body.ErrorCode != "VALIDATION_FAILED" || body.Timestamp.IsZero() {
		t.Fatalf("envelope = %+v", body)
	}
	if body.Details["email"] != "must be a valid email address" {
		t.Fatalf("details = %v", body.Details)
	}
}

func TestErrorHandler_UnknownRoute(t *testing.T) {
	e := newServer(Handlers{})
	rec, body := call(t, e, stdhttp.MethodGet, "/api/nowhere", "", nil)
	if rec.Code != stdhttp.StatusNotFound || body["errorCode"] != "NOT_FOUND" {
		t.Fatalf("got %d %v", rec.Code, body)
	}
}
