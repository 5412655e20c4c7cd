package main

import (
	"net/http"
	"os"
	"time"

	"storehub/api/handler"
	apiMiddleware "storehub/api/middleware"
	"storehub/api/routes"
	"storehub/config"
	"storehub/internal/repository"
	"storehub/internal/service"
	"storehub/internal/utils"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

func main() {
	db := config.ConnectionDb()
	redisClient := config.ConnectionRedis()
	validate := validator.New()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	if err := config.Migrate(db); err != nil {
		logger.WithError(err).Fatal("migrate failed")
	}

	accessSecret := []byte(os.Getenv("JWT_SECRET"))
	issuer := os.Getenv("JWT_ISSUER")
	if len(accessSecret) == 0 {
		logger.Fatal("JWT_SECRET is required")
	}

	accessManager := utils.JWTManager{
		Secret:         accessSecret,
		Issuer:         issuer,
		AccessTokenTTL: 15 * time.Minute,
	}

	challengeSecret := os.Getenv("CHALLENGE_JWT_SECRET")
	if challengeSecret == "" {
		challengeSecret = os.Getenv("JWT_SECRET")
	}
	challengeIssuer := service.ChallengeTokenIssuerJWT{
		Secret: []byte(challengeSecret),
		Issuer: issuer,
		TTL:    10 * time.Minute,
	}

	recoveryCipher, err := service.NewRecoveryCodeCipher(os.Getenv("RECOVERY_CODE_KEY"))
	if err != nil {
		logger.WithError(err).Fatal("RECOVERY_CODE_KEY is invalid")
	}

	userRepo := repository.NewUserRepository(db)
	principalRepo := repository.NewPrincipalRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	oneTimeCodeRepo := repository.NewOneTimeCodeRepository(db)
	securityRepo := repository.NewSecurityLogRepository(db)
	storeRepo := repository.NewStoreRepository(db)
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	passwordHasher := service.BcryptPasswordHasher{}
	emailSender := service.NewResendEmailSender(os.Getenv("RESEND_API_KEY"), os.Getenv("MAIL_FROM"))
	smsSender := service.NewHTTPSMSSender(os.Getenv("SMS_GATEWAY_URL"), os.Getenv("SMS_GATEWAY_TOKEN"), os.Getenv("SMS_SENDER"))
	totpProvider := service.NewTOTP(os.Getenv("TOTP_ISSUER"))

	authService := service.NewAuthService(
		userRepo,
		principalRepo,
		sessionRepo,
		oneTimeCodeRepo,
		securityRepo,
		service.NewRedisChallengeStore(redisClient),
		challengeIssuer,
		emailSender,
		smsSender,
		passwordHasher,
		&accessManager,
		totpProvider,
		recoveryCipher,
		logger,
		service.RealClock{},
		service.AuthConfig{
			RefreshTokenTTL:    7 * 24 * time.Hour,
			RememberRefreshTTL: 90 * 24 * time.Hour,
			ChallengeTTL:       10 * time.Minute,
			OTPTTL:             10 * time.Minute,
		},
	)
	orderService := service.NewOrderService(orderRepo, productRepo)
	adminService := service.NewAdminService(userRepo, principalRepo, storeRepo, passwordHasher)

	authHandler := handler.NewAuthHandler(authService, validate)
	authHandler.CookieDomain = os.Getenv("COOKIE_DOMAIN")
	authHandler.SecureCookies = os.Getenv("COOKIE_SECURE") != "false"

	challengeHandler := handler.NewChallengeHandler(authHandler, authService, validate)
	storeHandler := handler.NewStoreHandler(storeRepo, validate)
	productHandler := handler.NewProductHandler(productRepo, validate)
	orderHandler := handler.NewOrderHandler(orderService, validate)
	adminHandler := handler.NewAdminHandler(adminService, validate)

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

	authMiddleware := apiMiddleware.AuthMiddleware{JWT: &accessManager}
	router := routes.NewRouter(
		app,
		authHandler,
		challengeHandler,
		storeHandler,
		productHandler,
		orderHandler,
		adminHandler,
		authMiddleware,
	)
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
