package http

import (
	"net/http"

	"loanpap/internal/usecase/admin"

	"github.com/labstack/echo/v4"
)

type AdminHandler struct{ uc *admin.Usecase }

func NewAdminHandler(uc *admin.Usecase) *AdminHandler { return &AdminHandler{uc: uc} }

func (h *AdminHandler) Stats(c echo.Context) error {
	s, err := h.uc.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, s)
}

func (h *AdminHandler) Users(c echo.Context) error {
	users, err := h.uc.Users(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

func (h *AdminHandler) User(c echo.Context) error {
	d, err := h.uc.User(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d)
}

func (h *AdminHandler) Lock(c echo.Context) error {
	caller, err := callerOf(c)
	if err != nil {
		return err
	}
	if err := h.uc.Lock(c.Request().Context(), caller, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "User account locked"})
}

func (h *AdminHandler) Unlock(c echo.Context) error {
	caller, err := callerOf(c)
	if err != nil {
		return err
	}
	if err := h.uc.Unlock(c.Request().Context(), caller, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "User account unlocked"})
}
