package http

import (
	"net/http"

	"loanpap/internal/usecase/loan"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type LoanHandler struct{ uc *loan.Usecase }

func NewLoanHandler(uc *loan.Usecase) *LoanHandler { return &LoanHandler{uc: uc} }

// quoteReq accepts both the old "term" and the current "termMonths" field.
type quoteReq struct {
	Amount     float64 `json:"amount" validate:"required,gt=0,lte=100000,dec2"`
	TermMonths int     `json:"termMonths" validate:"omitempty,gte=1,lte=360"`
	Term       int     `json:"term" validate:"omitempty,gte=1,lte=360"`
}

type createLoanReq struct {
	Amount     float64 `json:"amount" validate:"required,dec2,gte=1000,lte=100000"`
	TermMonths int     `json:"termMonths" validate:"required,gte=12,lte=84"`
	Purpose    string  `json:"purpose" validate:"required,loanpurpose"`
}

type approveReq struct {
	Notes string `json:"notes" validate:"max=1000"`
}

type rejectReq struct {
	Reason string `json:"reason" validate:"max=1000"`
}

func (h *LoanHandler) Quote(c echo.Context) error {
	var req quoteReq
	if err := bindValid(c, &req); err != nil {
		return err
	}
	term := req.TermMonths
	if term == 0 {
		term = req.Term
	}
	if term == 0 {
		return &apiError{status: http.StatusBadRequest, code: "VALIDATION_FAILED", message: "Invalid input data",
			details: []FieldError{{Field: "termMonths", Message: "is required"}}}
	}
	userID := ""
	if caller, err := callerOf(c); err == nil {
		userID = caller.UserID
	}
	dto, err := h.uc.Quote(c.Request().Context(), userID, req.Amount, term)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) CreateLoan(c echo.Context) error {
	caller, err := callerOf(c)
	if err != nil {
		return err
	}
	var req createLoanReq
	if err := bindValid(c, &req); err != nil {
		return err
	}
	dto, err := h.uc.Apply(c.Request().Context(), caller, loan.CreateLoanInput{
		Amount:     decimal.NewFromFloat(req.Amount),
		TermMonths: req.TermMonths,
		Purpose:    req.Purpose,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *LoanHandler) GetLoan(c echo.Context) error {
	caller, err := callerOf(c)
	if err != nil {
		return err
	}
	dto, err := h.uc.Get(c.Request().Context(), caller, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) ListLoans(c echo.Context) error {
	caller, err := callerOf(c)
	if err != nil {
		return err
	}
	page, err := pageOf(c)
	if err != nil {
		return err
	}
	res, err := h.uc.List(c.Request().Context(), caller, page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

func (h *LoanHandler) ListByStatus(c echo.Context) error {
	caller, err := callerOf(c)
	if err != nil {
		return err
	}
	page, err := pageOf(c)
	if err != nil {
		return err
	}
	res, err := h.uc.ListByStatus(c.Request().Context(), caller, c.Param("status"), page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

func (h *LoanHandler) Repayments(c echo.Context) error {
	caller, err := callerOf(c)
	if err != nil {
		return err
	}
	rows, err := h.uc.Repayments(c.Request().Context(), caller, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *LoanHandler) Summary(c echo.Context) error {
	caller, err := callerOf(c)
	if err != nil {
		return err
	}
	s, err := h.uc.Summary(c.Request().Context(), caller.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, s)
}

func (h *LoanHandler) Approve(c echo.Context) error {
	caller, err := callerOf(c)
	if err != nil {
		return err
	}
	var req approveReq
	if err := bindValid(c, &req); err != nil {
		return err
	}
	dto, err := h.uc.Approve(c.Request().Context(), caller, c.Param("id"), req.Notes)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) Reject(c echo.Context) error {
	caller, err := callerOf(c)
	if err != nil {
		return err
	}
	var req rejectReq
	if err := bindValid(c, &req); err != nil {
		return err
	}
	dto, err := h.uc.Reject(c.Request().Context(), caller, c.Param("id"), req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) Disburse(c echo.Context) error {
	caller, err := callerOf(c)
	if err != nil {
		return err
	}
	dto, err := h.uc.Disburse(c.Request().Context(), caller, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto)
}
