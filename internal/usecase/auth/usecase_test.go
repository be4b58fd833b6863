package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"loanpap/internal/domain/audit"
	"loanpap/internal/domain/credit"
	"loanpap/internal/domain/uow"
	"loanpap/internal/domain/user"
	"loanpap/internal/testutil/auditmock"
	"loanpap/internal/testutil/notifymock"
	"loanpap/internal/testutil/uowmock"
	"loanpap/internal/testutil/usermock"
	"loanpap/internal/usecase/loan"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

var fixedNow = time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)

type fakeSummaries struct{ err error }

func (f fakeSummaries) Summary(context.Context, string) (*loan.Summary, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &loan.Summary{TotalBorrowed: decimal.NewFromInt(5000), ActiveLoans: 1}, nil
}

type fixture struct {
	users  *usermock.Repo
	audit  *auditmock.Repo
	notify *notifymock.Notifier
	tokens *TokenService
	uc     *Usecase

	stored map[string]*user.User
}

func newFixture() *fixture {
	f := &fixture{
		users:  &usermock.Repo{},
		audit:  &auditmock.Repo{},
		notify: notifymock.New(),
		tokens: newTestTokens(fixedNow),
		stored: map[string]*user.User{},
	}
	f.users.ExistsByEmailFn = func(_ context.Context, email string) (bool, error) {
		_, ok := f.stored[email]
		return ok, nil
	}
	f.users.CreateFn = func(_ context.Context, u *user.User) error {
		f.stored[u.Email] = u
		return nil
	}
	f.users.GetByEmailFn = func(_ context.Context, email string) (*user.User, error) {
		if u, ok := f.stored[email]; ok {
			return u, nil
		}
		return nil, user.ErrNotFound
	}
	f.users.GetByUserIDFn = func(_ context.Context, id string) (*user.User, error) {
		for _, u := range f.stored {
			if u.UserID == id {
				return u, nil
			}
		}
		return nil, user.ErrNotFound
	}
	f.users.CountByRoleFn = func(_ context.Context, role user.Role) (int64, error) {
		var n int64
		for _, u := range f.stored {
			if u.Role == role {
				n++
			}
		}
		return n, nil
	}
	tx := uowmock.Passthrough(uow.Repos{Users: f.users, Audit: f.audit})
	f.uc = NewUsecase(f.users, f.audit, tx, f.tokens, f.notify, fakeSummaries{}, nil)
	f.uc.now = func() time.Time { return fixedNow }
	return f
}

func f64(v float64) *float64 { return &v }

func janeInput() RegisterInput {
	return RegisterInput{
		Name:           " Jane Doe ",
		Email:          "Jane@Example.com",
		Password:       "s3cret-pass",
		Phone:          "0712345678",
		AnnualIncome:   f64(60000),
		EmploymentType: "Full-time",
		MonthlyDebt:    f64(500),
	}
}

func TestRegister_Success(t *testing.T) {
	f := newFixture()
	resp, err := f.uc.Register(context.Background(), janeInput())
	if err != nil {
		t.Fatalf("Register err: %v", err)
	}
	stored := f.stored["jane@example.com"]
	if stored == nil {
		t.Fatal("email must be stored lowercased")
	}
	if stored.Name != "Jane Doe" || stored.Role != user.RoleUser || !stored.Enabled || !stored.AccountNonLocked {
		t.Fatalf("stored = %+v", stored)
	}
	if bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("s3cret-pass")) != nil {
		t.Fatal("password not hashed with bcrypt")
	}
	// 650 + 30 income + 40 full-time + 50 dti + 10 no loans
	if stored.CreditScore == nil || *stored.CreditScore != 780 {
		t.Fatalf("credit score = %v", stored.CreditScore)
	}
	if !resp.Success || resp.Token == "" || resp.RefreshToken == "" || resp.TokenType != "Bearer" || resp.IsAdmin {
		t.Fatalf("resp = %+v", resp)
	}
	if resp.ExpiresIn != (15 * time.Minute).Milliseconds() {
		t.Fatalf("expiresIn = %d", resp.ExpiresIn)
	}
	if got := f.audit.Actions(); len(got) != 1 || got[0] != audit.ActionRegister {
		t.Fatalf("audit = %v", got)
	}
	if f.notify.Count("welcome") != 1 {
		t.Fatal("welcome notification not sent")
	}
	caller, err := f.tokens.ParseAccess(resp.Token)
	if err != nil || caller.UserID != stored.UserID {
		t.Fatalf("token caller = %+v, %v", caller, err)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	f := newFixture()
	if _, err := f.uc.Register(context.Background(), janeInput()); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	in := janeInput()
	in.Email = "JANE@example.COM"
	if _, err := f.uc.Register(context.Background(), in); !errors.Is(err, user.ErrEmailTaken) {
		t.Fatalf("want ErrEmailTaken, got %v", err)
	}
	if f.notify.Count("welcome") != 1 {
		t.Fatal("no welcome for a rejected registration")
	}
}

func TestLogin(t *testing.T) {
	f := newFixture()
	if _, err := f.uc.Register(context.Background(), janeInput()); err != nil {
		t.Fatalf("Register: %v", err)
	}

	resp, err := f.uc.Login(context.Background(), " jane@example.com", "s3cret-pass")
	if err != nil {
		t.Fatalf("Login err: %v", err)
	}
	if resp.Email != "jane@example.com" || resp.Role != "USER" {
		t.Fatalf("resp = %+v", resp)
	}

	if _, err := f.uc.Login(context.Background(), "jane@example.com", "wrong"); !errors.Is(err, user.ErrInvalidCredentials) {
		t.Fatalf("bad password: want ErrInvalidCredentials, got %v", err)
	}
	if _, err := f.uc.Login(context.Background(), "nobody@example.com", "s3cret-pass"); !errors.Is(err, user.ErrInvalidCredentials) {
		t.Fatalf("unknown email: want ErrInvalidCredentials, got %v", err)
	}

	f.stored["jane@example.com"].AccountNonLocked = false
	if _, err := f.uc.Login(context.Background(), "jane@example.com", "s3cret-pass"); !errors.Is(err, user.ErrAccountLocked) {
		t.Fatalf("locked: want ErrAccountLocked, got %v", err)
	}
}

func TestRefresh(t *testing.T) {
	f := newFixture()
	reg, err := f.uc.Register(context.Background(), janeInput())
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	resp, err := f.uc.Refresh(context.Background(), reg.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh err: %v", err)
	}
	if resp.RefreshToken != reg.RefreshToken || resp.Type != "Bearer" || resp.Token == "" {
		t.Fatalf("resp = %+v", resp)
	}
	if _, err := f.uc.Refresh(context.Background(), reg.Token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("access token as refresh: want ErrInvalidToken, got %v", err)
	}

	delete(f.stored, "jane@example.com")
	if _, err := f.uc.Refresh(context.Background(), reg.RefreshToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("deleted user: want ErrInvalidToken, got %v", err)
	}
}

func TestRegisterAdmin_BootstrapThenGuarded(t *testing.T) {
	f := newFixture()
	in := janeInput()
	in.Email = "root@example.com"
	first, err := f.uc.RegisterAdmin(context.Background(), in, nil)
	if err != nil {
		t.Fatalf("bootstrap admin: %v", err)
	}
	if !first.IsAdmin || first.CreditScore == nil || *first.CreditScore != credit.AdminScore {
		t.Fatalf("first admin = %+v", first)
	}
	if got := f.audit.Entries[0]; got.Action != audit.ActionAdminCreate || got.UserID != "SYSTEM" {
		t.Fatalf("audit = %+v", got)
	}

	in.Email = "second@example.com"
	if _, err := f.uc.RegisterAdmin(context.Background(), in, nil); !errors.Is(err, user.ErrForbidden) {
		t.Fatalf("anonymous: want ErrForbidden, got %v", err)
	}
	borrower := &user.Caller{UserID: "b1", Role: user.RoleUser}
	if _, err := f.uc.RegisterAdmin(context.Background(), in, borrower); !errors.Is(err, user.ErrForbidden) {
		t.Fatalf("non-admin: want ErrForbidden, got %v", err)
	}

	admin := &user.Caller{UserID: first.UserID, Role: user.RoleAdmin}
	if _, err := f.uc.RegisterAdmin(context.Background(), in, admin); err != nil {
		t.Fatalf("admin creating admin: %v", err)
	}
	if got := f.audit.Entries[len(f.audit.Entries)-1]; got.UserID != first.UserID {
		t.Fatalf("actor = %q, want %q", got.UserID, first.UserID)
	}
}

func TestMe(t *testing.T) {
	f := newFixture()
	reg, err := f.uc.Register(context.Background(), janeInput())
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	f.audit.ListByUserFn = func(_ context.Context, id string, limit int) ([]audit.Entry, error) {
		if id != reg.UserID || limit != 10 {
			t.Fatalf("ListByUser(%q, %d)", id, limit)
		}
		return []audit.Entry{{ID: 1, Action: audit.ActionRegister, EntityType: audit.EntityUser}}, nil
	}

	p, err := f.uc.Me(context.Background(), reg.UserID)
	if err != nil {
		t.Fatalf("Me err: %v", err)
	}
	if p.User.UserID != reg.UserID || p.CreditCategory != string(credit.Excellent) {
		t.Fatalf("profile = %+v", p)
	}
	if p.LoanSummary == nil || p.LoanSummary.ActiveLoans != 1 || len(p.RecentActivities) != 1 {
		t.Fatalf("profile = %+v", p)
	}

	if _, err := f.uc.Me(context.Background(), "ffffffffffffffffffffffffffffffff"); !errors.Is(err, user.ErrNotFound) {
		t.Fatalf("unknown user: want ErrNotFound, got %v", err)
	}
}
