package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"loanpap/internal/domain/audit"
	"loanpap/internal/domain/credit"
	"loanpap/internal/domain/uow"
	"loanpap/internal/domain/user"
	"loanpap/internal/infrastructure/notify"
	"loanpap/internal/usecase/loan"
	"loanpap/pkg/id"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// LoanSummaries supplies the borrower summary shown on the profile page.
type LoanSummaries interface {
	Summary(ctx context.Context, userID string) (*loan.Summary, error)
}

type Usecase struct {
	users    user.Repository
	audit    audit.Repository
	tx       uow.UnitOfWork
	tokens   *TokenService
	notifier notify.Notifier
	loans    LoanSummaries
	log      *zap.Logger
	now      func() time.Time
}

func NewUsecase(users user.Repository, a audit.Repository, tx uow.UnitOfWork, tokens *TokenService,
	n notify.Notifier, loans LoanSummaries, log *zap.Logger) *Usecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{users: users, audit: a, tx: tx, tokens: tokens, notifier: n, loans: loans, log: log, now: time.Now}
}

func (u *Usecase) Register(ctx context.Context, in RegisterInput) (*AuthResponse, error) {
	nu, err := u.create(ctx, in, user.RoleUser, "User self-registered", "")
	if err != nil {
		return nil, err
	}
	u.notifier.Welcome(ctx, nu)
	u.log.Info("user registered", zap.String("user_id", nu.UserID), zap.Intp("credit_score", nu.CreditScore))
	return u.respond(nu, "Registration successful")
}

// RegisterAdmin is open while no admin exists. After that only an admin may
// create another.
func (u *Usecase) RegisterAdmin(ctx context.Context, in RegisterInput, caller *user.Caller) (*AuthResponse, error) {
	admins, err := u.users.CountByRole(ctx, user.RoleAdmin)
	if err != nil {
		return nil, err
	}
	actor := "SYSTEM"
	if admins > 0 {
		if caller == nil || !caller.IsAdmin() {
			return nil, user.ErrForbidden
		}
		actor = caller.UserID
	}
	nu, err := u.create(ctx, in, user.RoleAdmin, "New Admin account provisioned", actor)
	if err != nil {
		return nil, err
	}
	u.log.Info("admin registered", zap.String("user_id", nu.UserID), zap.String("by", actor))
	return u.respond(nu, "Admin registered successfully")
}

// create persists the account and its audit entry in one transaction.
// An empty actor means the new user acted on their own behalf.
func (u *Usecase) create(ctx context.Context, in RegisterInput, role user.Role, details, actor string) (*user.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	now := u.now().UTC()
	zero := 0
	debt := in.MonthlyDebt
	if debt == nil {
		d := 0.0
		debt = &d
	}
	nu := &user.User{
		UserID:             id.NewID32(),
		Name:               strings.TrimSpace(in.Name),
		Email:              email,
		PasswordHash:       string(hash),
		Phone:              in.Phone,
		Role:               role,
		Address:            in.Address,
		City:               in.City,
		State:              in.State,
		ZipCode:            in.ZipCode,
		DateOfBirth:        in.DateOfBirth,
		AnnualIncome:       in.AnnualIncome,
		EmploymentType:     in.EmploymentType,
		MonthlyDebt:        debt,
		ExistingLoansCount: &zero,
		Enabled:            true,
		AccountNonLocked:   true,
		CreatedAt:          now,
	}
	score := credit.AdminScore
	action := audit.ActionAdminCreate
	if role != user.RoleAdmin {
		score = credit.Score(nu.CreditProfile(), now)
		action = audit.ActionRegister
	}
	nu.CreditScore = &score
	if actor == "" {
		actor = nu.UserID
	}

	err = u.tx.WithinTx(ctx, func(r uow.Repos) error {
		taken, err := r.Users.ExistsByEmail(ctx, email)
		if err != nil {
			return err
		}
		if taken {
			return user.ErrEmailTaken
		}
		if err := r.Users.Create(ctx, nu); err != nil {
			return err
		}
		return r.Audit.Create(ctx, &audit.Entry{
			Action:     action,
			EntityType: audit.EntityUser,
			EntityID:   nu.UserID,
			UserID:     actor,
			Details:    details,
			IPAddress:  "0.0.0.0",
		})
	})
	if err != nil {
		return nil, err
	}
	return nu, nil
}

func (u *Usecase) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	found, err := u.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, user.ErrNotFound) {
		return nil, user.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(found.PasswordHash), []byte(password)) != nil {
		return nil, user.ErrInvalidCredentials
	}
	if !found.AccountNonLocked || !found.Enabled {
		return nil, user.ErrAccountLocked
	}
	u.log.Info("user logged in", zap.String("user_id", found.UserID), zap.String("role", string(found.Role)))
	return u.respond(found, "Login successful")
}

// Refresh issues a new access token. The refresh token itself is returned unchanged.
func (u *Usecase) Refresh(ctx context.Context, refreshToken string) (*RefreshResponse, error) {
	email, err := u.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return nil, err
	}
	found, err := u.users.GetByEmail(ctx, email)
	if errors.Is(err, user.ErrNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}
	if !found.AccountNonLocked || !found.Enabled {
		return nil, user.ErrAccountLocked
	}
	access, err := u.tokens.GenerateAccess(found)
	if err != nil {
		return nil, err
	}
	return &RefreshResponse{Token: access, RefreshToken: refreshToken, Type: "Bearer"}, nil
}

// Me returns the caller's profile, loan summary and last 10 activities.
func (u *Usecase) Me(ctx context.Context, userID string) (*Profile, error) {
	found, err := u.users.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	summary, err := u.loans.Summary(ctx, userID)
	if err != nil {
		return nil, err
	}
	entries, err := u.audit.ListByUser(ctx, userID, 10)
	if err != nil {
		return nil, err
	}
	return &Profile{
		User:             found,
		CreditCategory:   string(credit.CategoryOf(found.Score())),
		LoanSummary:      summary,
		RecentActivities: toActivities(entries),
	}, nil
}

func (u *Usecase) respond(usr *user.User, msg string) (*AuthResponse, error) {
	access, err := u.tokens.GenerateAccess(usr)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := u.tokens.GenerateRefresh(usr.Email)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}
	return &AuthResponse{
		Success:      true,
		Token:        access,
		RefreshToken: refresh,
		UserID:       usr.UserID,
		Email:        usr.Email,
		Name:         usr.Name,
		Role:         string(usr.Role),
		ExpiresIn:    u.tokens.AccessTTL().Milliseconds(),
		TokenType:    "Bearer",
		Phone:        usr.Phone,
		CreditScore:  usr.CreditScore,
		IsAdmin:      usr.Role == user.RoleAdmin,
		Message:      msg,
	}, nil
}
