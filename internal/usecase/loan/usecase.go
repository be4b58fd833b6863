package loan

import (
	"context"
	"errors"
	"fmt"
	"time"

	"loanpap/internal/domain/audit"
	"loanpap/internal/domain/credit"
	"loanpap/internal/domain/loan"
	"loanpap/internal/domain/pricing"
	"loanpap/internal/domain/repayment"
	"loanpap/internal/domain/uow"
	"loanpap/internal/domain/user"
	"loanpap/internal/infrastructure/notify"
	"loanpap/pkg/id"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var ErrInvalidInput = errors.New("invalid input")

type Usecase struct {
	loans      loan.Repository
	repayments repayment.Repository
	users      user.Repository
	tx         uow.UnitOfWork
	notifier   notify.Notifier
	log        *zap.Logger
	now        func() time.Time
}

func NewUsecase(l loan.Repository, r repayment.Repository, u user.Repository, tx uow.UnitOfWork, n notify.Notifier, log *zap.Logger) *Usecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{loans: l, repayments: r, users: u, tx: tx, notifier: n, log: log, now: time.Now}
}

// Quote prices a prospective loan with the borrower's stored score. It writes nothing.
func (u *Usecase) Quote(ctx context.Context, userID string, amount float64, term int) (*QuoteDTO, error) {
	if !(amount > 0) || term <= 0 {
		return nil, fmt.Errorf("%w: amount and term must be positive", ErrInvalidInput)
	}
	if amount > MaxAmount {
		return nil, fmt.Errorf("%w: amount must not exceed %d", ErrInvalidInput, MaxAmount)
	}
	score := 0
	if userID != "" {
		usr, err := u.users.GetByUserID(ctx, userID)
		if err != nil {
			return nil, err
		}
		score = usr.Score()
	}
	q := pricing.EstimatorPolicy.Estimate(amount, term, score)
	return &QuoteDTO{
		Quote:             q,
		CreditCategory:    credit.CategoryOf(q.CreditScore),
		Eligible:          credit.Eligible(q.CreditScore, decimal.NewFromFloat(amount)),
		MaxEligibleAmount: credit.MaxAmount(q.CreditScore),
		Message:           credit.ReviewHint(q.CreditScore),
	}, nil
}

func validateApplication(in CreateLoanInput) error {
	if in.Amount.LessThan(decimal.NewFromInt(MinAmount)) || in.Amount.GreaterThan(decimal.NewFromInt(MaxAmount)) {
		return fmt.Errorf("%w: amount must be between %d and %d", ErrInvalidInput, MinAmount, MaxAmount)
	}
	if in.TermMonths < MinTerm || in.TermMonths > MaxTerm {
		return fmt.Errorf("%w: term must be between %d and %d months", ErrInvalidInput, MinTerm, MaxTerm)
	}
	if !loan.ValidPurpose(in.Purpose) {
		return fmt.Errorf("%w: unknown purpose %q", ErrInvalidInput, in.Purpose)
	}
	return nil
}

// Apply submits a PENDING application priced by the servicing policy.
func (u *Usecase) Apply(ctx context.Context, caller user.Caller, in CreateLoanInput) (*LoanDTO, error) {
	if err := validateApplication(in); err != nil {
		return nil, err
	}
	now := u.now().UTC()
	var (
		l    *loan.Loan
		name string
	)
	err := u.tx.WithinTx(ctx, func(r uow.Repos) error {
		usr, err := r.Users.GetByUserID(ctx, caller.UserID)
		if err != nil {
			return err
		}
		active, err := r.Loans.CountActiveByUser(ctx, usr.UserID)
		if err != nil {
			return err
		}
		if active >= loan.MaxActiveLoans {
			return loan.ErrActiveLoanLimit
		}

		score := usr.Score()
		if usr.CreditScore == nil {
			score = credit.Score(usr.CreditProfile(), now)
		}
		rate := decimal.NewFromFloat(pricing.ServicingPolicy.Rate(score, in.TermMonths))
		l = &loan.Loan{
			LoanID:         id.NewID32(),
			UserID:         usr.UserID,
			Amount:         in.Amount.Round(2),
			TermMonths:     in.TermMonths,
			Purpose:        loan.Purpose(in.Purpose),
			Status:         loan.StatusPending,
			InterestRate:   rate,
			MonthlyPayment: pricing.AmortizeDecimal(in.Amount, rate, in.TermMonths),
			TotalRepaid:    decimal.Zero,
			CreditScore:    &score,
			AppliedDate:    now,
		}
		if err := r.Loans.Create(ctx, l); err != nil {
			return err
		}
		name = usr.Name
		return r.Audit.Create(ctx, &audit.Entry{
			Action:     audit.ActionLoanApply,
			EntityType: audit.EntityLoan,
			EntityID:   l.LoanID,
			UserID:     usr.UserID,
			Details:    fmt.Sprintf("Applied for %s over %d months", l.Amount.StringFixed(2), l.TermMonths),
		})
	})
	if err != nil {
		return nil, err
	}
	u.notifier.LoanApplied(ctx, l)
	u.log.Info("loan application submitted", zap.String("loan_id", l.LoanID), zap.String("user_id", l.UserID))
	return &LoanDTO{Loan: l, UserName: name, Repayments: []repayment.Repayment{}}, nil
}

// Get returns a loan with its schedule. Borrowers may only read their own loans.
func (u *Usecase) Get(ctx context.Context, caller user.Caller, loanID string) (*LoanDTO, error) {
	l, err := u.loans.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if !caller.IsStaff() && l.UserID != caller.UserID {
		return nil, user.ErrForbidden
	}
	return u.toDTO(ctx, l)
}

func (u *Usecase) toDTO(ctx context.Context, l *loan.Loan) (*LoanDTO, error) {
	reps, err := u.repayments.ListByLoan(ctx, l.LoanID)
	if err != nil {
		return nil, err
	}
	if reps == nil {
		reps = []repayment.Repayment{}
	}
	dto := &LoanDTO{Loan: l, Repayments: reps}
	if owner, err := u.users.GetByUserID(ctx, l.UserID); err == nil {
		dto.UserName = owner.Name
	}
	return dto, nil
}

// List pages the caller's loans. Staff see every loan.
func (u *Usecase) List(ctx context.Context, caller user.Caller, p loan.Page) (*PageResult[LoanDTO], error) {
	var (
		rows  []loan.Loan
		total int64
		err   error
	)
	if caller.IsStaff() {
		rows, total, err = u.loans.PageAll(ctx, p)
	} else {
		rows, total, err = u.loans.PageByUser(ctx, caller.UserID, p)
	}
	if err != nil {
		return nil, err
	}
	return u.page(ctx, rows, p, total)
}

func (u *Usecase) ListByStatus(ctx context.Context, caller user.Caller, raw string, p loan.Page) (*PageResult[LoanDTO], error) {
	if !caller.IsStaff() {
		return nil, user.ErrForbidden
	}
	status, ok := loan.ParseStatus(raw)
	if !ok {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, raw)
	}
	rows, total, err := u.loans.PageByStatus(ctx, status, p)
	if err != nil {
		return nil, err
	}
	return u.page(ctx, rows, p, total)
}

func (u *Usecase) page(ctx context.Context, rows []loan.Loan, p loan.Page, total int64) (*PageResult[LoanDTO], error) {
	ids := make([]string, 0, len(rows))
	for _, l := range rows {
		ids = append(ids, l.LoanID)
	}
	byLoan := map[string][]repayment.Repayment{}
	if len(ids) > 0 {
		reps, err := u.repayments.ListByLoans(ctx, ids)
		if err != nil {
			return nil, err
		}
		for _, r := range reps {
			byLoan[r.LoanID] = append(byLoan[r.LoanID], r)
		}
	}
	out := make([]LoanDTO, 0, len(rows))
	for i := range rows {
		reps := byLoan[rows[i].LoanID]
		if reps == nil {
			reps = []repayment.Repayment{}
		}
		out = append(out, LoanDTO{Loan: &rows[i], Repayments: reps})
	}
	return newPageResult(out, p, total), nil
}

func (u *Usecase) Repayments(ctx context.Context, caller user.Caller, loanID string) ([]repayment.Repayment, error) {
	dto, err := u.Get(ctx, caller, loanID)
	if err != nil {
		return nil, err
	}
	return dto.Repayments, nil
}

// Summary aggregates the borrower's active loans.
func (u *Usecase) Summary(ctx context.Context, userID string) (*Summary, error) {
	loans, err := u.loans.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	s := &Summary{TotalBorrowed: decimal.Zero, TotalRepaid: decimal.Zero, MonthlyPayment: decimal.Zero}
	var active []string
	for _, l := range loans {
		if !l.Status.Active() {
			continue
		}
		s.TotalBorrowed = s.TotalBorrowed.Add(l.Amount)
		s.TotalRepaid = s.TotalRepaid.Add(l.TotalRepaid)
		s.MonthlyPayment = s.MonthlyPayment.Add(l.MonthlyPayment)
		s.ActiveLoans++
		active = append(active, l.LoanID)
	}
	s.AvailableCredit = decimal.Max(decimal.Zero, decimal.NewFromInt(CreditLimit).Sub(s.TotalBorrowed))

	if len(active) > 0 {
		reps, err := u.repayments.ListByLoans(ctx, active)
		if err != nil {
			return nil, err
		}
		horizon := u.now().UTC().AddDate(0, 0, 30)
		for _, r := range reps {
			if r.Status == repayment.StatusPending && !r.DueDate.After(horizon) {
				s.PendingDue++
			}
		}
	}
	return s, nil
}

// Approve moves a PENDING loan to APPROVED and lays out its installments.
func (u *Usecase) Approve(ctx context.Context, caller user.Caller, loanID, notes string) (*LoanDTO, error) {
	if !caller.IsStaff() {
		return nil, user.ErrForbidden
	}
	now := u.now().UTC()
	var (
		approved *loan.Loan
		schedule []repayment.Repayment
	)
	err := u.tx.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *loan.Loan) error {
		if err := l.Approve(caller.UserID, now); err != nil {
			return fmt.Errorf("%w: only PENDING loans can be approved", err)
		}
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		schedule = repayment.Build(l.LoanID, l.TermMonths, l.MonthlyPayment, now, id.NewID32)
		if err := r.Repayments.CreateBatch(ctx, schedule); err != nil {
			return err
		}
		approved = l
		details := "Loan approved"
		if notes != "" {
			details += ": " + notes
		}
		return r.Audit.Create(ctx, &audit.Entry{
			Action:     audit.ActionLoanApprove,
			EntityType: audit.EntityLoan,
			EntityID:   l.LoanID,
			UserID:     caller.UserID,
			Details:    details,
		})
	})
	if err != nil {
		return nil, err
	}
	u.notifier.LoanApproved(ctx, approved)
	u.log.Info("loan approved", zap.String("loan_id", loanID), zap.String("reviewer", caller.UserID), zap.Int("installments", len(schedule)))
	return &LoanDTO{Loan: approved, Repayments: schedule}, nil
}

func (u *Usecase) Reject(ctx context.Context, caller user.Caller, loanID, reason string) (*LoanDTO, error) {
	if !caller.IsStaff() {
		return nil, user.ErrForbidden
	}
	now := u.now().UTC()
	var rejected *loan.Loan
	err := u.tx.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *loan.Loan) error {
		if err := l.Reject(caller.UserID, reason, now); err != nil {
			return fmt.Errorf("%w: only PENDING loans can be rejected", err)
		}
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		rejected = l
		return r.Audit.Create(ctx, &audit.Entry{
			Action:     audit.ActionLoanReject,
			EntityType: audit.EntityLoan,
			EntityID:   l.LoanID,
			UserID:     caller.UserID,
			Details:    "Loan rejected: " + reason,
		})
	})
	if err != nil {
		return nil, err
	}
	u.notifier.LoanRejected(ctx, rejected)
	u.log.Info("loan rejected", zap.String("loan_id", loanID), zap.String("reviewer", caller.UserID))
	return &LoanDTO{Loan: rejected, Repayments: []repayment.Repayment{}}, nil
}

// Disburse releases an APPROVED loan and re-dates its schedule from today.
func (u *Usecase) Disburse(ctx context.Context, caller user.Caller, loanID string) (*LoanDTO, error) {
	if !caller.IsStaff() {
		return nil, user.ErrForbidden
	}
	now := u.now().UTC()
	var (
		disbursed *loan.Loan
		schedule  []repayment.Repayment
	)
	err := u.tx.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *loan.Loan) error {
		if err := l.Disburse(now); err != nil {
			return fmt.Errorf("%w: only approved loans can be disbursed", err)
		}
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		reps, err := r.Repayments.ListByLoan(ctx, l.LoanID)
		if err != nil {
			return err
		}
		for i := range reps {
			reps[i].DueDate = pricing.AddMonths(now, i+1)
			if err := r.Repayments.Save(ctx, &reps[i]); err != nil {
				return err
			}
		}
		disbursed, schedule = l, reps
		return r.Audit.Create(ctx, &audit.Entry{
			Action:     audit.ActionLoanDisburse,
			EntityType: audit.EntityLoan,
			EntityID:   l.LoanID,
			UserID:     caller.UserID,
			Details:    "Loan disbursed: " + l.Amount.StringFixed(2),
		})
	})
	if err != nil {
		return nil, err
	}
	if schedule == nil {
		schedule = []repayment.Repayment{}
	}
	u.notifier.LoanDisbursed(ctx, disbursed)
	u.log.Info("loan disbursed", zap.String("loan_id", loanID))
	return &LoanDTO{Loan: disbursed, Repayments: schedule}, nil
}
