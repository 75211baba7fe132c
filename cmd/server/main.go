package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/velocity-h/peoplepulse/internal/ai"
	"github.com/velocity-h/peoplepulse/internal/config"
	"github.com/velocity-h/peoplepulse/internal/handler"
	"github.com/velocity-h/peoplepulse/internal/mail"
	"github.com/velocity-h/peoplepulse/internal/repository"
	"github.com/velocity-h/peoplepulse/internal/service"
	"github.com/velocity-h/peoplepulse/internal/storage"
)

func main() {
	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	migrate := flag.Bool("migrate", false, "apply the database schema and exit")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file loaded")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := sqlx.Connect("pgx", cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	slog.Info("database connected")

	if *migrate {
		if err := repository.Migrate(context.Background(), db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		slog.Info("schema applied")
		return nil
	}

	resumeStore, err := storage.NewResumeStore(storage.Config{
		Endpoint:   cfg.MinioEndpoint,
		AccessKey:  cfg.MinioAccessKey,
		SecretKey:  cfg.MinioSecretKey,
		Bucket:     cfg.MinioBucket,
		UseSSL:     cfg.MinioUseSSL,
		PublicBase: cfg.ResumePublicBase,
	})
	if err != nil {
		return fmt.Errorf("init resume store: %w", err)
	}

	aiClient := ai.NewClient(cfg.AIBaseURL, cfg.AITimeout)
	mailer := mail.NewMailer(cfg.ResendAPIKey, cfg.EmailFrom, cfg.FrontendURL)

	hrRepo := repository.NewHRRepository(db)
	jobRepo := repository.NewJobRepository(db)
	applicantRepo := repository.NewApplicantRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)

	authSvc := service.NewAuthService(hrRepo, service.AuthConfig{
		JWTSecret:          cfg.JWTSecret,
		GoogleClientID:     cfg.GoogleClientID,
		GoogleClientSecret: cfg.GoogleClientSecret,
		FrontendURL:        cfg.FrontendURL,
	})
	jobSvc := service.NewJobService(jobRepo, aiClient)
	applicantSvc := service.NewApplicantService(applicantRepo, jobRepo, resumeStore, aiClient, mailer)
	scheduleSvc := service.NewScheduleService(scheduleRepo)

	authHandler := handler.NewAuthHandler(authSvc, cfg.Production())
	jobHandler := handler.NewJobHandler(jobSvc)
	applicantHandler := handler.NewApplicantHandler(applicantSvc)
	scheduleHandler := handler.NewScheduleHandler(scheduleSvc)

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewAppValidator()
	e.HTTPErrorHandler = handler.HTTPErrorHandler

	e.Use(middleware.RequestID())
	e.Use(handler.RequestLogger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderAccept, echo.HeaderAuthorization, echo.HeaderContentType},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	e.GET("/health", func(c echo.Context) error {
		return handler.JSON(c, http.StatusOK, map[string]any{
			"status": "ok",
			"ai":     aiClient.Healthy(c.Request().Context()),
		})
	})

	api := e.Group("/api/v1")

	auth := api.Group("/auth")
	auth.POST("/signup", authHandler.Signup)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/me", authHandler.Me)
	auth.GET("/google", authHandler.GoogleRedirect)
	auth.GET("/google/callback", authHandler.GoogleCallback)

	// Public candidate-facing routes.
	api.GET("/jobs/public", jobHandler.ListPublic)
	api.POST("/applicants", applicantHandler.Submit)

	// Protected HR routes.
	hr := api.Group("", handler.JWTAuth(authSvc))
	hr.GET("/jobs", jobHandler.List)
	hr.POST("/jobs", jobHandler.Create)
	hr.PUT("/jobs/:id", jobHandler.Update)
	hr.DELETE("/jobs/:id", jobHandler.Delete)
	hr.PATCH("/jobs/:id/active", jobHandler.SetActive)
	hr.GET("/jobs/:id/applicants", applicantHandler.ListByJob)
	hr.GET("/applicants/:id", applicantHandler.Get)
	hr.PATCH("/applicants/:id/status", applicantHandler.UpdateStatus)
	hr.GET("/schedules", scheduleHandler.List)
	hr.POST("/schedules", scheduleHandler.Create)
	hr.PATCH("/schedules/:id", scheduleHandler.Update)
	hr.DELETE("/schedules/:id", scheduleHandler.Delete)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 2*cfg.AITimeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "port", cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutdown signal received", "signal", sig)
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}
