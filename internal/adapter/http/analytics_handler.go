package http

import (
	"net/http"
	"time"

	"loanpap/internal/usecase/analytics"

	"github.com/labstack/echo/v4"
)

type AnalyticsHandler struct{ uc *analytics.Usecase }

func NewAnalyticsHandler(uc *analytics.Usecase) *AnalyticsHandler { return &AnalyticsHandler{uc: uc} }

// dateRange reads startDate and endDate. Missing bounds stay zero and fall back to the last six months.
func dateRange(c echo.Context) (time.Time, time.Time, error) {
	start, err := queryDate(c, "startDate", time.Time{})
	if err != nil {
		return start, start, err
	}
	end, err := queryDate(c, "endDate", time.Time{})
	if err != nil {
		return start, end, err
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return start, end, badRequest("endDate must not be before startDate")
	}
	return start, end, nil
}

func (h *AnalyticsHandler) Dashboard(c echo.Context) error {
	start, end, err := dateRange(c)
	if err != nil {
		return err
	}
	d, err := h.uc.Dashboard(c.Request().Context(), start, end)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d)
}

func (h *AnalyticsHandler) Overview(c echo.Context) error {
	o, err := h.uc.Overview(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, o)
}

func (h *AnalyticsHandler) MonthlyTrend(c echo.Context) error {
	start, end, err := dateRange(c)
	if err != nil {
		return err
	}
	t, err := h.uc.MonthlyTrend(c.Request().Context(), start, end)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, t)
}

func (h *AnalyticsHandler) StatusDistribution(c echo.Context) error {
	d, err := h.uc.StatusDistribution(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d)
}

func (h *AnalyticsHandler) PurposeDistribution(c echo.Context) error {
	d, err := h.uc.PurposeDistribution(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d)
}
