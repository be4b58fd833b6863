package http

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"
)

// Check probes one backing service.
type Check func(ctx context.Context) error

type Handler struct {
	service string
	checks  map[string]Check
}

// NewHandler builds the health handler. Each named check is run on every probe.
func NewHandler(service string, checks map[string]Check) *Handler {
	return &Handler{service: service, checks: checks}
}

type healthResponse struct {
	Status     string            `json:"status"`
	Service    string            `json:"service"`
	Time       string            `json:"time"`
	Components map[string]string `json:"components,omitempty"`
}

// Health answers 200 while every check passes and 503 with status DOWN otherwise.
func (h *Handler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	resp := healthResponse{Status: "UP", Service: h.service, Time: time.Now().UTC().Format(time.RFC3339Nano)}
	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)
	if len(names) > 0 {
		resp.Components = make(map[string]string, len(names))
	}
	code := http.StatusOK
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			resp.Components[name] = "DOWN"
			resp.Status = "DOWN"
			code = http.StatusServiceUnavailable
			continue
		}
		resp.Components[name] = "UP"
	}
	return c.JSON(code, resp)
}
