package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	httpadp "loanpap/internal/adapter/http"
	"loanpap/internal/adapter/middleware"
	"loanpap/internal/adapter/repository/mysql"
	"loanpap/internal/config"
	"loanpap/internal/infrastructure/cache"
	"loanpap/internal/infrastructure/db"
	"loanpap/internal/infrastructure/logger"
	"loanpap/internal/infrastructure/mpesa"
	"loanpap/internal/infrastructure/notify"
	"loanpap/internal/usecase/admin"
	"loanpap/internal/usecase/analytics"
	"loanpap/internal/usecase/auth"
	"loanpap/internal/usecase/loan"
	"loanpap/internal/usecase/repayment"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	zl, err := logger.New(cfg.LogLevel, "loanpap-api")
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	gdb, err := db.OpenGorm(cfg.MySQLDSN(), zl)
	if err != nil {
		zl.Fatal("mysql connect", zap.Error(err))
	}
	if err := db.Migrate(gdb); err != nil {
		zl.Fatal("mysql migrate", zap.Error(err))
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		zl.Fatal("redis connect", zap.Error(err))
	}
	defer rdb.Close()

	users := mysql.NewUserRepository(gdb)
	loans := mysql.NewLoanRepository(gdb)
	repayments := mysql.NewRepaymentRepository(gdb)
	audits := mysql.NewAuditRepository(gdb)
	tx := mysql.NewGormUoW(gdb)
	notifier := notify.NewAuditNotifier(audits, zl)

	// a typed nil would defeat the usecase's nil check
	var gateway repayment.Gateway
	if cfg.MpesaEnabled() {
		gateway = mpesa.NewClient(mpesa.Config{
			BaseURL:        cfg.MpesaBaseURL,
			ConsumerKey:    cfg.MpesaConsumerKey,
			ConsumerSecret: cfg.MpesaConsumerSecret,
			ShortCode:      cfg.MpesaShortCode,
			PassKey:        cfg.MpesaPassKey,
			CallbackURL:    cfg.MpesaCallbackURL,
		}, cache.NewTokenStore(rdb, "mpesa:"), zl)
	} else {
		zl.Warn("mpesa credentials not set, MPESA payments disabled")
	}

	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.JWTExpiration, cfg.JWTRefreshDuration)
	loanUC := loan.NewUsecase(loans, repayments, users, tx, notifier, zl)
	authUC := auth.NewUsecase(users, audits, tx, tokens, notifier, loanUC, zl)
	repaymentUC := repayment.NewUsecase(repayments, loans, users, tx, gateway, notifier, zl)
	adminUC := admin.NewUsecase(users, loans, repayments, tx, notifier, zl)
	analyticsUC := analytics.NewUsecase(loans)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.HTTPErrorHandler = httpadp.NewErrorHandler(zl)
	e.Use(
		echomw.Recover(),
		echomw.RequestID(),
		middleware.RequestLogger(zl),
		echomw.CORSWithConfig(echomw.CORSConfig{
			AllowOrigins:     cfg.CORSOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowHeaders:     []string{echo.HeaderAuthorization, echo.HeaderContentType, middleware.HeaderIdempotencyKey},
			AllowCredentials: true,
		}),
	)

	idem := middleware.Idempotency(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second, zl)
	httpadp.RegisterRoutes(e, httpadp.Handlers{
		Health: httpadp.NewHandler("loanpap-api", map[string]httpadp.Check{
			"db": func(ctx context.Context) error {
				sqlDB, err := gdb.DB()
				if err != nil {
					return err
				}
				return sqlDB.PingContext(ctx)
			},
			"redis": func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		}),
		Auth:       httpadp.NewAuthHandler(authUC),
		Loans:      httpadp.NewLoanHandler(loanUC),
		Repayments: httpadp.NewRepaymentHandler(repaymentUC, zl),
		Admin:      httpadp.NewAdminHandler(adminUC),
		Analytics:  httpadp.NewAnalyticsHandler(analyticsUC),
	}, tokens, idem)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go sweepOverdue(ctx, repaymentUC, cfg.OverdueSweep, zl)

	go func() {
		addr := ":" + cfg.AppPort
		zl.Info("listening", zap.String("addr", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		zl.Error("shutdown", zap.Error(err))
	}
}

// sweepOverdue marks late installments on a fixed interval until ctx ends.
func sweepOverdue(ctx context.Context, uc *repayment.Usecase, every time.Duration, log *zap.Logger) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if _, err := uc.MarkOverdue(ctx, now); err != nil {
				log.Error("overdue sweep", zap.Error(err))
			}
		}
	}
}
