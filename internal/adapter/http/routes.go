package http

import (
	"loanpap/internal/adapter/middleware"
	"loanpap/internal/domain/user"

	"github.com/labstack/echo/v4"
)

type Handlers struct {
	Health     *Handler
	Auth       *AuthHandler
	Loans      *LoanHandler
	Repayments *RepaymentHandler
	Admin      *AdminHandler
	Analytics  *AnalyticsHandler
}

// RegisterRoutes mounts the /api surface. idem may be nil when no redis is configured.
func RegisterRoutes(e *echo.Echo, h Handlers, tokens middleware.TokenParser, idem echo.MiddlewareFunc) {
	if idem == nil {
		idem = func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	jwt := middleware.JWT(tokens)
	staff := middleware.RequireRoles(user.RoleAdmin, user.RoleLoanOfficer)
	adminOnly := middleware.RequireRoles(user.RoleAdmin)

	e.GET("/health", h.Health.Health)
	api := e.Group("/api")
	api.GET("/health", h.Health.Health)

	auth := api.Group("/auth")
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.Refresh)
	auth.POST("/logout", h.Auth.Logout)

	api.GET("/users/me", h.Auth.Me, jwt)

	loans := api.Group("/loans", jwt)
	loans.POST("/quote", h.Loans.Quote)
	loans.POST("", h.Loans.CreateLoan, idem)
	loans.POST("/apply", h.Loans.CreateLoan, idem)
	loans.GET("", h.Loans.ListLoans)
	loans.GET("/my-loans", h.Loans.ListLoans)
	loans.GET("/summary", h.Loans.Summary)
	loans.GET("/status/:status", h.Loans.ListByStatus, staff)
	loans.GET("/:id", h.Loans.GetLoan)
	loans.GET("/:id/repayments", h.Loans.Repayments)
	loans.PUT("/:id/approve", h.Loans.Approve, staff)
	loans.PUT("/:id/reject", h.Loans.Reject, staff)
	loans.PUT("/:id/disburse", h.Loans.Disburse, staff)

	repayments := api.Group("/repayments")
	repayments.POST("/mpesa-callback", h.Repayments.MpesaCallback)
	repayments.POST("/:id/pay", h.Repayments.Pay, jwt, idem)
	repayments.GET("/:id", h.Repayments.Status, jwt)

	admin := api.Group("/admin")
	admin.POST("/register", h.Auth.RegisterAdmin, middleware.OptionalJWT(tokens))
	admin.GET("/dashboard/stats", h.Admin.Stats, jwt, adminOnly)
	admin.GET("/users", h.Admin.Users, jwt, adminOnly)
	admin.GET("/users/:id", h.Admin.User, jwt, adminOnly)
	admin.PUT("/users/:id/lock", h.Admin.Lock, jwt, adminOnly)
	admin.PUT("/users/:id/unlock", h.Admin.Unlock, jwt, adminOnly)

	analytics := api.Group("/analytics", jwt, staff)
	analytics.GET("/dashboard", h.Analytics.Dashboard)
	analytics.GET("/overview", h.Analytics.Overview)
	analytics.GET("/monthly-trend", h.Analytics.MonthlyTrend)
	analytics.GET("/status-distribution", h.Analytics.StatusDistribution)
	analytics.GET("/purpose-distribution", h.Analytics.PurposeDistribution)
}
