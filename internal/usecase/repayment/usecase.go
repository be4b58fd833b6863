package repayment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"loanpap/internal/domain/audit"
	"loanpap/internal/domain/loan"
	"loanpap/internal/domain/repayment"
	"loanpap/internal/domain/uow"
	"loanpap/internal/domain/user"
	"loanpap/internal/infrastructure/notify"

	"go.uber.org/zap"
)

var (
	ErrGatewayUnavailable = errors.New("mobile money gateway is not configured")
	ErrGatewayFailed      = errors.New("mpesa communication error")
)

type Usecase struct {
	repayments repayment.Repository
	loans      loan.Repository
	users      user.Repository
	tx         uow.UnitOfWork
	gateway    Gateway
	notifier   notify.Notifier
	log        *zap.Logger
	now        func() time.Time
}

// NewUsecase wires the repayment flows. A nil gateway disables MPESA payments.
func NewUsecase(r repayment.Repository, l loan.Repository, u user.Repository, tx uow.UnitOfWork, gw Gateway, n notify.Notifier, log *zap.Logger) *Usecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{repayments: r, loans: l, users: u, tx: tx, gateway: gw, notifier: n, log: log, now: time.Now}
}

// owned loads an installment and its loan, enforcing that borrowers only touch their own.
func (u *Usecase) owned(ctx context.Context, caller user.Caller, repaymentID string) (*repayment.Repayment, *loan.Loan, error) {
	rep, err := u.repayments.GetByRepaymentID(ctx, repaymentID)
	if err != nil {
		return nil, nil, err
	}
	l, err := u.loans.GetByLoanID(ctx, rep.LoanID)
	if err != nil {
		return nil, nil, err
	}
	if !caller.IsStaff() && l.UserID != caller.UserID {
		return nil, nil, user.ErrForbidden
	}
	return rep, l, nil
}

// Pay settles an installment. MPESA only starts a push and leaves the
// installment PENDING until the callback arrives. Other methods settle now.
func (u *Usecase) Pay(ctx context.Context, caller user.Caller, repaymentID, method string) (*StatusDTO, error) {
	method = strings.ToUpper(strings.TrimSpace(method))
	if method == "" {
		method = repayment.MethodWallet
	}
	rep, l, err := u.owned(ctx, caller, repaymentID)
	if err != nil {
		return nil, err
	}
	if err := rep.Payable(); err != nil {
		return nil, err
	}
	if method == repayment.MethodMpesa {
		return u.startMpesa(ctx, rep, l)
	}

	var paid *repayment.Repayment
	err = u.tx.WithinLoanTx(ctx, l.LoanID, func(r uow.Repos, locked *loan.Loan) error {
		cur, err := r.Repayments.GetByRepaymentIDForUpdate(ctx, repaymentID)
		if err != nil {
			return err
		}
		if err := u.settle(ctx, r, locked, cur, method, "", caller.UserID); err != nil {
			return err
		}
		paid = cur
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.notifier.RepaymentConfirmed(ctx, l.UserID, paid)
	out := toStatusDTO(paid)
	out.Message = "Payment recorded"
	return out, nil
}

func (u *Usecase) startMpesa(ctx context.Context, rep *repayment.Repayment, l *loan.Loan) (*StatusDTO, error) {
	if u.gateway == nil {
		return nil, ErrGatewayUnavailable
	}
	owner, err := u.users.GetByUserID(ctx, l.UserID)
	if err != nil {
		return nil, err
	}
	phone, err := NormalizePhone(owner.Phone)
	if err != nil {
		return nil, err
	}
	checkoutID, err := u.gateway.STKPush(ctx, phone, rep.Amount, rep.RepaymentID)
	if err != nil {
		u.log.Error("stk push failed", zap.String("repayment_id", rep.RepaymentID), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrGatewayFailed, err)
	}

	var pending *repayment.Repayment
	err = u.tx.WithinTx(ctx, func(r uow.Repos) error {
		cur, err := r.Repayments.GetByRepaymentIDForUpdate(ctx, rep.RepaymentID)
		if err != nil {
			return err
		}
		if err := cur.Payable(); err != nil {
			return err
		}
		cur.MpesaCheckoutID = checkoutID
		pending = cur
		return r.Repayments.Save(ctx, cur)
	})
	if err != nil {
		return nil, err
	}
	u.log.Info("mpesa push initiated", zap.String("repayment_id", rep.RepaymentID), zap.String("checkout_id", checkoutID))
	out := toStatusDTO(pending)
	out.Message = "STK push sent, confirm the payment on your phone"
	return out, nil
}

// settle marks the installment paid and advances the loan. Runs inside a transaction.
func (u *Usecase) settle(ctx context.Context, r uow.Repos, l *loan.Loan, rep *repayment.Repayment, method, txID, actor string) error {
	now := u.now().UTC()
	if err := rep.MarkPaid(method, txID, now); err != nil {
		return err
	}
	if err := r.Repayments.Save(ctx, rep); err != nil {
		return err
	}
	unpaid, err := r.Repayments.CountUnpaid(ctx, l.LoanID)
	if err != nil {
		return err
	}
	if err := l.RecordPayment(rep.Amount, unpaid == 0, now); err != nil {
		return fmt.Errorf("%w: loan %s is %s", err, l.LoanID, l.Status)
	}
	if err := r.Loans.Save(ctx, l); err != nil {
		return err
	}
	return r.Audit.Create(ctx, &audit.Entry{
		Action:     audit.ActionRepayment,
		EntityType: audit.EntityRepayment,
		EntityID:   rep.RepaymentID,
		UserID:     actor,
		Details:    fmt.Sprintf("Installment %d paid via %s: %s", rep.InstallmentNumber, method, rep.Amount.StringFixed(2)),
	})
}

// CompleteMpesa applies a Daraja callback. Failed results are logged and
// ignored, and a repeated callback for a paid installment changes nothing.
func (u *Usecase) CompleteMpesa(ctx context.Context, res MpesaResult) error {
	if res.ResultCode != 0 {
		u.log.Warn("mpesa payment not completed",
			zap.String("checkout_id", res.CheckoutID),
			zap.Int("result_code", res.ResultCode),
			zap.String("result_desc", res.ResultDesc))
		return nil
	}
	rep, err := u.repayments.GetByCheckoutID(ctx, res.CheckoutID)
	if err != nil {
		return err
	}

	var (
		paid  *repayment.Repayment
		owner string
	)
	err = u.tx.WithinLoanTx(ctx, rep.LoanID, func(r uow.Repos, l *loan.Loan) error {
		cur, err := r.Repayments.GetByCheckoutID(ctx, res.CheckoutID)
		if err != nil {
			return err
		}
		if cur.Status == repayment.StatusCancelled {
			u.log.Warn("mpesa payment for cancelled installment",
				zap.String("repayment_id", cur.RepaymentID), zap.String("receipt", res.Receipt))
			return nil
		}
		if cur.Status == repayment.StatusPaid {
			return nil
		}
		if err := u.settle(ctx, r, l, cur, repayment.MethodMpesa, res.Receipt, l.UserID); err != nil {
			return err
		}
		paid, owner = cur, l.UserID
		return nil
	})
	if err != nil {
		return err
	}
	if paid == nil {
		u.log.Info("duplicate mpesa callback ignored", zap.String("checkout_id", res.CheckoutID))
		return nil
	}
	u.notifier.RepaymentConfirmed(ctx, owner, paid)
	u.log.Info("mpesa payment confirmed", zap.String("repayment_id", paid.RepaymentID), zap.String("receipt", res.Receipt))
	return nil
}

func (u *Usecase) Status(ctx context.Context, caller user.Caller, repaymentID string) (*StatusDTO, error) {
	rep, _, err := u.owned(ctx, caller, repaymentID)
	if err != nil {
		return nil, err
	}
	return toStatusDTO(rep), nil
}

// MarkOverdue flags PENDING installments due before today and notifies borrowers.
// Each row is flipped with a conditional update, so an installment paid after
// the listing keeps its payment.
func (u *Usecase) MarkOverdue(ctx context.Context, now time.Time) (int, error) {
	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	due, err := u.repayments.ListByStatusDueBefore(ctx, repayment.StatusPending, today)
	if err != nil {
		return 0, err
	}
	owners := map[string]string{}
	marked := 0
	for i := range due {
		rep := &due[i]
		flipped, err := u.repayments.MarkOverdue(ctx, rep.RepaymentID)
		if err != nil {
			return marked, err
		}
		if !flipped {
			continue
		}
		rep.Status = repayment.StatusOverdue
		marked++

		owner, ok := owners[rep.LoanID]
		if !ok {
			if l, err := u.loans.GetByLoanID(ctx, rep.LoanID); err == nil {
				owner = l.UserID
			}
			owners[rep.LoanID] = owner
		}
		u.notifier.RepaymentOverdue(ctx, owner, rep, now)
	}
	if marked > 0 {
		u.log.Info("overdue installments marked", zap.Int("count", marked))
	}
	return marked, nil
}
