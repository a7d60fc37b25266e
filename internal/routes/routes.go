package routes

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/door2fy/onboarding-portal/internal/config"
	"github.com/door2fy/onboarding-portal/internal/door2fy"
	"github.com/door2fy/onboarding-portal/internal/middleware"
	"github.com/door2fy/onboarding-portal/internal/session"
	"github.com/door2fy/onboarding-portal/internal/statuscache"
	"github.com/door2fy/onboarding-portal/internal/web"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all portal routes.
func Setup(app *fiber.App, d Deps) error {
	// Middlewares
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))

	// Session store: Postgres when configured, memory otherwise.
	var sessions session.Repository
	if d.DB != nil {
		sessions = session.NewPostgresRepository(d.DB)
	} else {
		sessions = session.NewMemoryRepository()
	}
	app.Use(middleware.LoadSession(sessions))

	RegisterHealthRoutes(app, d)

	client := door2fy.NewClient(d.Cfg.APIBaseURL)
	cache := statuscache.New(d.Cache, d.Cfg.StatusCacheTTL, d.Logger)
	handler := web.NewHandler(client, sessions, cache, d.Logger, web.Config{
		AppName:      d.Cfg.AppName,
		DashboardURL: d.Cfg.DashboardURL,
		SessionTTL:   d.Cfg.SessionTTL,
		CookieSecure: d.Cfg.CookieSecure,
	})

	app.Static("/static", "./static")

	// Landing page
	app.Get("/", handler.Landing)

	// Auth
	app.Get("/onboarding/auth", handler.AuthScreen)
	app.Post("/onboarding/auth/otp", middleware.OTPSendRateLimit(d.Cache, d.Cfg.OTPSendPerMin), handler.SendOTP)
	app.Get("/onboarding/auth/verify", handler.VerifyScreen)
	app.Post("/onboarding/auth/verify", handler.VerifyOTP)
	app.Post("/signout", handler.SignOut)

	// Onboarding pipeline
	app.Get("/onboarding", handler.Dispatch)
	app.Get("/onboarding/profile", handler.ProfileScreen)
	app.Post("/onboarding/profile", handler.SubmitProfile)
	app.Get("/onboarding/kyc", handler.KYCScreen)
	app.Post("/onboarding/kyc", handler.SubmitKYC)
	app.Get("/onboarding/bank", handler.BankScreen)
	app.Post("/onboarding/bank", handler.SubmitBank)
	app.Get("/onboarding/status", handler.StatusScreen)
	app.Post("/onboarding/resubmit", handler.Resubmit)

	// Polled by the status page
	app.Get("/api/status", handler.APIStatus)

	return nil
}
