package http

import (
	"net/http"

	"loanpap/internal/infrastructure/mpesa"
	"loanpap/internal/usecase/repayment"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type RepaymentHandler struct {
	uc  *repayment.Usecase
	log *zap.Logger
}

func NewRepaymentHandler(uc *repayment.Usecase, log *zap.Logger) *RepaymentHandler {
	return &RepaymentHandler{uc: uc, log: log}
}

type payReq struct {
	PaymentMethod string `json:"paymentMethod" validate:"omitempty,max=16"`
}

func (h *RepaymentHandler) Pay(c echo.Context) error {
	caller, err := callerOf(c)
	if err != nil {
		return err
	}
	var req payReq
	if err := bindValid(c, &req); err != nil {
		return err
	}
	dto, err := h.uc.Pay(c.Request().Context(), caller, c.Param("id"), req.PaymentMethod)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *RepaymentHandler) Status(c echo.Context) error {
	caller, err := callerOf(c)
	if err != nil {
		return err
	}
	dto, err := h.uc.Status(c.Request().Context(), caller, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto)
}

// MpesaCallback always acknowledges Daraja. Processing failures are logged,
// since Daraja does not act on an error reply.
func (h *RepaymentHandler) MpesaCallback(c echo.Context) error {
	var cb mpesa.Callback
	if err := c.Bind(&cb); err != nil {
		h.log.Warn("malformed mpesa callback", zap.Error(err))
		return c.JSON(http.StatusOK, mpesaAck)
	}
	res := repayment.MpesaResult{
		CheckoutID: cb.CheckoutRequestID(),
		ResultCode: cb.ResultCode(),
		ResultDesc: cb.ResultDesc(),
		Receipt:    cb.ReceiptNumber(),
	}
	if res.CheckoutID == "" {
		h.log.Warn("mpesa callback without checkout id")
		return c.JSON(http.StatusOK, mpesaAck)
	}
	if err := h.uc.CompleteMpesa(c.Request().Context(), res); err != nil {
		h.log.Error("mpesa callback processing failed", zap.String("checkout_id", res.CheckoutID), zap.Error(err))
	}
	return c.JSON(http.StatusOK, mpesaAck)
}

var mpesaAck = map[string]any{"ResultCode": 0, "ResultDesc": "Accepted"}
