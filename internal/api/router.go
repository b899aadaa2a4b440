package api

import (
	"net/http"

	"github.com/careops/platform/internal/api/handler"
	customMiddleware "github.com/careops/platform/internal/api/middleware"
	"github.com/careops/platform/internal/automation"
	"github.com/careops/platform/internal/comms"
	"github.com/careops/platform/internal/config"
	"github.com/careops/platform/internal/repository/postgres"
	"github.com/careops/platform/internal/repository/redis"
	"github.com/careops/platform/internal/security"
	"github.com/careops/platform/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
)

// NewRouter creates and configures the HTTP router
func NewRouter(cfg *config.Config, db *postgres.DB, redisClient *redis.Client) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize security components
	jwtManager := security.NewJWTManager(
		cfg.Auth.JWTSecret,
		cfg.Auth.AccessTokenTTL,
		cfg.Auth.RefreshTokenTTL,
	)

	// Initialize repositories
	userRepo := postgres.NewUserRepository(db)
	workspaceRepo := postgres.NewWorkspaceRepository(db)
	serviceRepo := postgres.NewServiceRepository(db)
	bookingRepo := postgres.NewBookingRepository(db)
	contactRepo := postgres.NewContactRepository(db)
	conversationRepo := postgres.NewConversationRepository(db)
	messageRepo := postgres.NewMessageRepository(db)
	formRepo := postgres.NewFormRepository(db)
	submissionRepo := postgres.NewFormSubmissionRepository(db)
	resourceRepo := postgres.NewResourceRepository(db)
	alertRepo := postgres.NewAlertRepository(db)

	// Initialize rate limiter and stats cache
	rateLimiter := redis.NewRateLimiter(
		redisClient,
		cfg.RateLimit.RequestsPerMinute,
		cfg.RateLimit.Burst,
	)
	statsCache := redis.NewStatsCache(redisClient)

	// Outbound messaging gateway
	if cfg.Providers.Resend.APIKey == "" {
		log.Warn().Msg("no platform Resend key configured, email depends on workspace credentials")
	}
	if cfg.Providers.Twilio.AccountSID == "" {
		log.Warn().Msg("no platform Twilio account configured, SMS depends on workspace credentials")
	}
	gateway := comms.NewGateway(
		comms.NewResendProvider(),
		comms.NewTwilioProvider(),
		cfg.Providers,
		conversationRepo,
		messageRepo,
		log.Logger,
	)

	// Automation dispatcher
	dispatcher := automation.NewDispatcher(
		gateway,
		workspaceRepo,
		formRepo,
		alertRepo,
		cfg.Server.PublicBaseURL,
		log.Logger,
	)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtManager)
	workspaceService := service.NewWorkspaceService(workspaceRepo)
	catalogService := service.NewCatalogService(serviceRepo, workspaceRepo)
	bookingService := service.NewBookingService(serviceRepo, bookingRepo, contactRepo, dispatcher, log.Logger)
	inboxService := service.NewInboxService(workspaceRepo, contactRepo, conversationRepo, messageRepo, gateway, dispatcher, log.Logger)
	formService := service.NewFormService(formRepo, submissionRepo, contactRepo, bookingRepo, workspaceRepo, conversationRepo, messageRepo, dispatcher, log.Logger)
	inventoryService := service.NewInventoryService(resourceRepo, workspaceRepo, dispatcher)
	alertService := service.NewAlertService(alertRepo)
	dashboardService := service.NewDashboardService(bookingRepo, contactRepo, conversationRepo, statsCache, log.Logger)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	workspaceHandler := handler.NewWorkspaceHandler(workspaceService)
	catalogHandler := handler.NewCatalogHandler(catalogService)
	bookingHandler := handler.NewBookingHandler(bookingService, catalogService)
	inboxHandler := handler.NewInboxHandler(inboxService)
	formHandler := handler.NewFormHandler(formService)
	inventoryHandler := handler.NewInventoryHandler(inventoryService)
	alertHandler := handler.NewAlertHandler(alertService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)
	publicHandler := handler.NewPublicHandler(catalogService, bookingService, formService)
	webhookHandler := handler.NewWebhookHandler(formService, inboxService)

	// Auth middleware
	authMiddleware := customMiddleware.NewAuthMiddleware(jwtManager)
	workspaceMiddleware := customMiddleware.NewWorkspaceMiddleware(workspaceService)
	rateLimitMiddleware := customMiddleware.NewRateLimitMiddleware(rateLimiter)

	r.Route("/api/v1", func(r chi.Router) {
		// Health check
		r.Get("/health", handler.HealthCheck)
		r.Get("/ready", handler.ReadyCheck(db))

		// Auth routes (public)
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)
		})

		// Public booking page routes
		r.Route("/public", func(r chi.Router) {
			r.Use(rateLimitMiddleware.LimitByIP)

			r.Get("/workspaces/{slug}/services", publicHandler.Services)
			r.Post("/workspaces/{slug}/contact", publicHandler.ContactForm)
			r.Get("/services/{serviceID}/availability", publicHandler.Availability)
			r.Post("/services/{serviceID}/bookings", publicHandler.CreateBooking)
			r.Post("/forms/intake", publicHandler.SubmitIntake)
		})

		// Webhook routes
		r.Route("/webhooks", func(r chi.Router) {
			r.Use(rateLimitMiddleware.LimitByIP)

			r.Post("/forms", webhookHandler.ExternalForm)
			r.Post("/messages/{token}", webhookHandler.InboundMessage)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Route("/workspaces", func(r chi.Router) {
				r.Get("/", workspaceHandler.List)
				r.Post("/", workspaceHandler.Create)

				r.Route("/{workspaceID}", func(r chi.Router) {
					r.Use(workspaceMiddleware.Require)
					r.Use(rateLimitMiddleware.LimitByUser)

					r.Get("/", workspaceHandler.Get)
					r.Patch("/", workspaceHandler.Update)
					r.Post("/launch", workspaceHandler.Launch)
					r.Post("/staff", workspaceHandler.AddStaff)

					r.Get("/dashboard", dashboardHandler.Summary)

					r.Route("/services", func(r chi.Router) {
						r.Get("/", catalogHandler.List)
						r.Post("/", catalogHandler.Create)
						r.Get("/{serviceID}", catalogHandler.Get)
						r.Patch("/{serviceID}", catalogHandler.Update)
						r.Get("/{serviceID}/availability", bookingHandler.Availability)
					})

					r.Route("/bookings", func(r chi.Router) {
						r.Get("/", bookingHandler.List)
						r.Post("/", bookingHandler.Create)
						r.Get("/{bookingID}", bookingHandler.Get)
						r.Patch("/{bookingID}/status", bookingHandler.UpdateStatus)
						r.Delete("/{bookingID}", bookingHandler.Cancel)
					})

					r.Route("/conversations", func(r chi.Router) {
						r.Get("/", inboxHandler.List)
						r.Get("/{conversationID}", inboxHandler.Thread)
						r.Post("/{conversationID}/messages", inboxHandler.Reply)
					})

					r.Route("/forms", func(r chi.Router) {
						r.Get("/", formHandler.List)
						r.Post("/", formHandler.Create)
						r.Get("/{formID}", formHandler.Get)
						r.Patch("/{formID}", formHandler.Update)
						r.Get("/{formID}/submissions", formHandler.Submissions)
					})

					r.Route("/resources", func(r chi.Router) {
						r.Get("/", inventoryHandler.List)
						r.Post("/", inventoryHandler.Create)
						r.Get("/{resourceID}", inventoryHandler.Get)
						r.Patch("/{resourceID}", inventoryHandler.Update)
						r.Post("/{resourceID}/adjust", inventoryHandler.AdjustStock)
						r.Delete("/{resourceID}", inventoryHandler.Delete)
					})

					r.Route("/alerts", func(r chi.Router) {
						r.Get("/", alertHandler.List)
						r.Post("/{alertID}/read", alertHandler.MarkRead)
					})
				})
			})
		})
	})

	return r
}
