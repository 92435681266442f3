package routes

import (
	"time"

	"studyhall/api/handler"
	"studyhall/api/middleware"
	"studyhall/internal/entity"
	"studyhall/internal/permission"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

type Router struct {
	Echo           *echo.Echo
	Auth           *handler.AuthHandler
	MFA            *handler.MFAHandler
	Classroom      *handler.ClassroomHandler
	AuthMiddleware middleware.AuthMiddleware
	AuthRate       *middleware.RateLimiter
	LoginRate      *middleware.RateLimiter
}

func NewRouter(
	e *echo.Echo,
	auth *handler.AuthHandler,
	mfa *handler.MFAHandler,
	classroom *handler.ClassroomHandler,
	authMiddleware middleware.AuthMiddleware,
) *Router {
	return &Router{
		Echo:           e,
		Auth:           auth,
		MFA:            mfa,
		Classroom:      classroom,
		AuthMiddleware: authMiddleware,
		AuthRate:       middleware.NewRateLimiter(rate.Limit(5), 10, 5*time.Minute),
		LoginRate:      middleware.NewRateLimiter(rate.Limit(2), 4, 10*time.Minute),
	}
}

func (r *Router) RegisterRoutes() {
	e := r.Echo
	requireAuth := r.AuthMiddleware.RequireAuth
	requireActive := middleware.RequireStatus(entity.StatusActive)

	e.GET("/auth/anonymous", r.Auth.AnonymousToken, r.AuthRate.Middleware())
	e.POST("/auth/register", r.Auth.Register, r.AuthRate.Middleware())
	e.POST("/auth/verify-email", r.Auth.VerifyEmail, r.AuthRate.Middleware())
	e.POST("/auth/verify-email/resend", r.Auth.ResendVerificationEmail, r.AuthRate.Middleware())
	e.POST("/auth/onboarding", r.Auth.Onboarding, r.AuthRate.Middleware())
	e.POST("/auth/oauth/entry", r.Auth.OAuthEntry, r.LoginRate.Middleware())
	e.POST("/auth/oauth/onboarding", r.Auth.OAuthOnboarding, r.AuthRate.Middleware())
	e.POST("/auth/login", r.Auth.Login, r.LoginRate.Middleware())
	e.POST("/auth/refresh", r.Auth.Refresh, r.AuthRate.Middleware())
	e.POST("/auth/logout", r.Auth.Logout)
	e.POST("/auth/logout-all", r.Auth.LogoutAll, requireAuth, requireActive)

	e.GET("/me", r.Auth.Me, requireAuth)

	e.POST("/mfa/setup", r.MFA.Setup, requireAuth, requireActive)
	e.POST("/mfa/enable", r.MFA.Enable, requireAuth, requireActive)
	e.POST("/mfa/verify", r.MFA.Verify, requireAuth, requireActive)
	e.POST("/mfa/recovery", r.MFA.ValidateRecoveryCode, requireAuth, requireActive)
	e.POST("/mfa/disable", r.MFA.Disable, requireAuth, requireActive)
	e.GET("/mfa/status", r.MFA.Status, requireAuth, requireActive)

	e.POST("/classrooms", r.Classroom.Create, requireAuth, requireActive)
	e.GET("/classrooms/:id/permissions/check", r.Classroom.CheckPermission, requireAuth, requireActive)
	e.PATCH("/classrooms/:id", r.Classroom.Rename, requireAuth, requireActive,
		middleware.RequirePermission(r.Classroom.Classrooms, permission.UpdateClassroom))
}
