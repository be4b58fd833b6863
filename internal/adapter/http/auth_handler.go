package http

import (
	"net/http"
	"time"

	"loanpap/internal/adapter/middleware"
	"loanpap/internal/domain/user"
	"loanpap/internal/usecase/auth"

	"github.com/labstack/echo/v4"
)

type AuthHandler struct{ uc *auth.Usecase }

func NewAuthHandler(uc *auth.Usecase) *AuthHandler { return &AuthHandler{uc: uc} }

type loginReq struct {
	Email    string `json:"email" validate:"required,email,max=100"`
	Password string `json:"password" validate:"required,min=6,max=100"`
}

type registerReq struct {
	Name           string   `json:"name" validate:"required,min=2,max=100"`
	Email          string   `json:"email" validate:"required,email,max=100"`
	Password       string   `json:"password" validate:"required,min=6,max=100"`
	Phone          string   `json:"phone" validate:"required,phone"`
	Address        string   `json:"address" validate:"omitempty,min=5,max=200"`
	City           string   `json:"city" validate:"omitempty,min=2,max=100"`
	State          string   `json:"state" validate:"omitempty,min=2,max=50"`
	ZipCode        string   `json:"zipCode" validate:"omitempty,zip"`
	DateOfBirth    string   `json:"dateOfBirth" validate:"omitempty,datetime=2006-01-02"`
	AnnualIncome   *float64 `json:"annualIncome" validate:"omitempty,gte=0"`
	EmploymentType string   `json:"employmentType" validate:"omitempty,employment"`
	MonthlyDebt    *float64 `json:"monthlyDebt" validate:"omitempty,gte=0"`
}

func (r registerReq) input() (auth.RegisterInput, error) {
	in := auth.RegisterInput{
		Name:           r.Name,
		Email:          r.Email,
		Password:       r.Password,
		Phone:          r.Phone,
		Address:        r.Address,
		City:           r.City,
		State:          r.State,
		ZipCode:        r.ZipCode,
		AnnualIncome:   r.AnnualIncome,
		EmploymentType: r.EmploymentType,
		MonthlyDebt:    r.MonthlyDebt,
	}
	if r.DateOfBirth != "" {
		dob, err := time.ParseInLocation(dateLayout, r.DateOfBirth, time.UTC)
		if err != nil {
			return in, badRequest("dateOfBirth must be formatted YYYY-MM-DD")
		}
		if !dob.Before(time.Now().UTC()) {
			return in, &apiError{status: http.StatusBadRequest, code: "VALIDATION_FAILED", message: "Invalid input data",
				details: []FieldError{{Field: "dateOfBirth", Message: "must be in the past"}}}
		}
		in.DateOfBirth = &dob
	}
	return in, nil
}

type refreshReq struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := bindValid(c, &req); err != nil {
		return err
	}
	in, err := req.input()
	if err != nil {
		return err
	}
	resp, err := h.uc.Register(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, resp)
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := bindValid(c, &req); err != nil {
		return err
	}
	resp, err := h.uc.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := bindValid(c, &req); err != nil {
		return err
	}
	resp, err := h.uc.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

// Logout is stateless: clients drop their tokens.
func (h *AuthHandler) Logout(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"message": "Logged out"})
}

func (h *AuthHandler) Me(c echo.Context) error {
	caller, err := callerOf(c)
	if err != nil {
		return err
	}
	profile, err := h.uc.Me(c.Request().Context(), caller.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

// RegisterAdmin is open until the first admin exists.
func (h *AuthHandler) RegisterAdmin(c echo.Context) error {
	var req registerReq
	if err := bindValid(c, &req); err != nil {
		return err
	}
	in, err := req.input()
	if err != nil {
		return err
	}
	var caller *user.Caller
	if cl, ok := middleware.CallerFrom(c); ok {
		caller = &cl
	}
	resp, err := h.uc.RegisterAdmin(c.Request().Context(), in, caller)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, resp)
}
