package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"loanpap/internal/adapter/middleware"
	"loanpap/internal/domain/loan"
	"loanpap/internal/domain/user"
	ucLoan "loanpap/internal/usecase/loan"

	"github.com/labstack/echo/v4"
)

const dateLayout = "2006-01-02"

// ---- helpers ----

func callerOf(c echo.Context) (user.Caller, error) {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		return user.Caller{}, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return caller, nil
}

// bindValid binds the JSON body into req and runs the echo validator over it.
func bindValid(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return badRequest("invalid body")
	}
	if err := c.Validate(req); err != nil {
		return validationFailed(err)
	}
	return nil
}

func queryInt(c echo.Context, name string, def int) (int, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, badRequest(name + " must be an integer")
	}
	return v, nil
}

// pageOf reads zero-based page and size query params.
func pageOf(c echo.Context) (loan.Page, error) {
	number, err := queryInt(c, "page", 0)
	if err != nil {
		return loan.Page{}, err
	}
	size, err := queryInt(c, "size", ucLoan.DefaultPageSize)
	if err != nil {
		return loan.Page{}, err
	}
	return ucLoan.NewPage(number, size), nil
}

func queryDate(c echo.Context, name string, def time.Time) (time.Time, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return def, nil
	}
	t, err := time.ParseInLocation(dateLayout, raw, time.UTC)
	if err != nil {
		return time.Time{}, badRequest(name + " must be formatted YYYY-MM-DD")
	}
	return t, nil
}

func containsFieldMsg(list []FieldError, field, substr string) bool {
	for _, e := range list {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}
