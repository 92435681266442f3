package main

import (
	"net/http"
	"os"
	"time"

	"studyhall/api/handler"
	apiMiddleware "studyhall/api/middleware"
	"studyhall/api/routes"
	"studyhall/config"
	"studyhall/internal/repository"
	"studyhall/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

func main() {
	db := config.ConnectDB()
	validate := validator.New()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	secret := []byte(os.Getenv("JWT_SECRET"))
	issuer := os.Getenv("JWT_ISSUER")
	if len(secret) == 0 {
		logger.Fatal("JWT_SECRET is required")
	}

	tokens := service.NewTokenService(secret, issuer, service.RealClock{})

	userRepo := repository.NewUserRepository(db)
	codeRepo := repository.NewVerificationCodeRepository(db)
	refreshRepo := repository.NewRefreshTokenRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	mfaRepo := repository.NewMFAFactorRepository(db)
	classroomRepo := repository.NewClassroomRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	membershipRepo := repository.NewMembershipRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	passwordHasher := service.BcryptPasswordHasher{}
	codeSender := service.NewResendCodeSender(os.Getenv("RESEND_API_KEY"), os.Getenv("EMAIL_FROM"))

	accountService := service.NewAccountService(
		userRepo,
		codeRepo,
		refreshRepo,
		profileRepo,
		auditRepo,
		codeSender,
		passwordHasher,
		tokens,
		service.RealClock{},
		service.Config{
			AccessTokenTTL:       15 * time.Minute,
			AnonymousTokenTTL:    24 * time.Hour,
			RegistrationTokenTTL: time.Hour,
			RefreshTokenTTL:      30 * 24 * time.Hour,
			VerificationCodeTTL:  180 * time.Second,
			ResendCooldown:       60 * time.Second,
		},
	)
	mfaService := service.NewMFAService(
		mfaRepo,
		userRepo,
		accountService,
		service.NewTOTPProvider(os.Getenv("MFA_ISSUER")),
		passwordHasher,
	)
	classroomService := service.NewClassroomService(classroomRepo, roleRepo, membershipRepo, auditRepo)

	authHandler := handler.NewAuthHandler(accountService, validate)
	mfaHandler := handler.NewMFAHandler(mfaService, validate)
	classroomHandler := handler.NewClassroomHandler(classroomService, validate)

	app := echo.New()
	app.HideBanner = true
	app.HidePort = true
	app.Use(echoMiddleware.Recover())
	app.Use(echoMiddleware.RequestLoggerWithConfig(echoMiddleware.RequestLoggerConfig{
		LogStatus:   true,
		LogMethod:   true,
		LogURI:      true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echoMiddleware.RequestLoggerValues) error {
			entry := logger.WithFields(logrus.Fields{
				"status": v.Status,
				"method": v.Method,
				"uri":    v.URI,
				"ip":     v.RemoteIP,
			})
			if v.Error != nil {
				entry.WithError(v.Error).Error("request")
				return nil
			}
			entry.Info("request")
			return nil
		},
	}))

	authMiddleware := apiMiddleware.AuthMiddleware{Tokens: tokens}
	router := routes.NewRouter(app, authHandler, mfaHandler, classroomHandler, authMiddleware)
	router.RegisterRoutes()

	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	server := &http.Server{
		Addr:              addr,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.WithField("addr", addr).Info("server started")
	if err := app.StartServer(server); err != nil {
		logger.WithError(err).Fatal("server stopped")
	}
}
