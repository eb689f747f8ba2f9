package main

import (
	"context"
	crypto_rand "crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/carevault/carevault/internal/config"
	"github.com/carevault/carevault/internal/domain/account"
	"github.com/carevault/carevault/internal/domain/assist"
	"github.com/carevault/carevault/internal/domain/disclosure"
	"github.com/carevault/carevault/internal/domain/emergencytoken"
	"github.com/carevault/carevault/internal/domain/familymember"
	"github.com/carevault/carevault/internal/domain/medicalinfo"
	"github.com/carevault/carevault/internal/domain/report"
	"github.com/carevault/carevault/internal/platform/ai"
	"github.com/carevault/carevault/internal/platform/auth"
	"github.com/carevault/carevault/internal/platform/cache"
	"github.com/carevault/carevault/internal/platform/db"
	"github.com/carevault/carevault/internal/platform/middleware"
	"github.com/carevault/carevault/internal/platform/phi"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "carevault-server",
		Short: "CareVault personal health record API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(genkeyCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func genkeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "genkey",
		Short: "Generate a random encryption key for ENCRYPTION_KEY",
		RunE: func(cmd *cobra.Command, args []string) error {
			key := make([]byte, 32)
			if _, err := crypto_rand.Read(key); err != nil {
				return err
			}
			fmt.Println(hex.EncodeToString(key))
			return nil
		},
	}
}

func runServer() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Cache: Redis if configured, in-process otherwise.
	var store cache.Store
	if cfg.RedisURL != "" {
		redisStore, err := cache.NewRedisStore(ctx, cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redisStore.Close()
		store = redisStore
		logger.Info().Msg("connected to redis")
	} else {
		memStore := cache.NewMemoryStore()
		memStore.StartCleanup(ctx, 5*time.Minute)
		store = memStore
	}

	// PHI field encryption is optional in development, required in production.
	var encryptor *phi.Encryptor
	if cfg.EncryptionKey != "" {
		encryptor, err = phi.NewEncryptorFromHex(cfg.EncryptionKey)
		if err != nil {
			logger.Fatal().Err(err).Msg("invalid ENCRYPTION_KEY")
		}
		logger.Info().Msg("field-level encryption enabled")
	} else {
		logger.Warn().Msg("ENCRYPTION_KEY not set; sensitive fields are stored in plaintext")
	}

	aiClient := ai.NewGeminiClient(cfg.AIBaseURL, cfg.AIAPIKey)

	jwtCfg := auth.JWTConfig{
		Issuer:     cfg.JWTIssuer,
		SigningKey: []byte(cfg.JWTSecret),
	}

	// Repositories and services.
	accountRepo := account.NewRepoPG(pool)
	medicalRepo := medicalinfo.NewRepoPG(pool)
	familyRepo := familymember.NewRepoPG(pool)
	reportRepo := report.NewRepoPG(pool)
	tokenRepo := emergencytoken.NewRepoPG(pool)

	medicalSvc := medicalinfo.NewService(medicalRepo, encryptor)
	familySvc := familymember.NewService(familyRepo)
	reportSvc := report.NewService(reportRepo, aiClient)
	tokenSvc := emergencytoken.NewService(tokenRepo, store)
	accountSvc := account.NewService(accountRepo, jwtCfg, pool,
		medicalRepo, familyRepo, reportRepo, tokenRepo)
	disclosureSvc := disclosure.NewService(tokenSvc, accountSvc, medicalSvc, reportSvc,
		store, time.Duration(cfg.DisclosureTTLSec)*time.Second)
	assistSvc := assist.NewService(aiClient)

	// Echo server.
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SanitizeWithLogger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.BodyLimit("1M", "15M"))
	e.Use(middleware.RequestTimeout(30 * time.Second))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))
	e.Use(middleware.Audit(logger))

	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}

	// Public routes: registration, login and QR disclosure.
	public := e.Group("")
	public.Use(middleware.RateLimit(rateLimitCfg))

	// Authenticated API.
	apiV1 := e.Group("/api/v1")
	apiV1.Use(middleware.RateLimit(rateLimitCfg))
	if cfg.IsDev() && cfg.JWTSecret == "" {
		apiV1.Use(auth.DevAuthMiddleware(jwtCfg))
	} else {
		apiV1.Use(auth.JWTMiddleware(jwtCfg))
	}
	apiV1.Use(middleware.ETagMiddleware(middleware.CacheConfig{
		MaxAge:             0,
		Private:            true,
		NoStore:            true,
		VaryHeaders:        []string{"Accept", "Authorization"},
		ETagEnabled:        true,
		ConditionalEnabled: true,
		ExcludePaths:       []string{"/api/v1/chat"},
	}))

	account.NewHandler(accountSvc).RegisterRoutes(public, apiV1)
	medicalinfo.NewHandler(medicalSvc).RegisterRoutes(apiV1)
	familymember.NewHandler(familySvc).RegisterRoutes(apiV1)
	report.NewHandler(reportSvc).RegisterRoutes(apiV1)
	emergencytoken.NewHandler(tokenSvc, cfg.PublicBaseURL).RegisterRoutes(apiV1)
	assist.NewHandler(assistSvc).RegisterRoutes(apiV1)

	// The QR image is a pure function of the token, safe to cache at the
	// edge and in-process. The JSON profile is cached inside the service
	// so rotation can evict it; no response cache on top.
	qrHandler := disclosure.NewHandler(disclosureSvc, cfg.PublicBaseURL)
	public.GET("/qr/:token", qrHandler.Get)
	public.GET("/qr/:token/image", qrHandler.Image, middleware.ResponseCacheMiddleware(store, 5*time.Minute))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})
	e.GET("/health/db", db.HealthHandler(pool))

	// Start and wait for shutdown.
	errCh := make(chan error, 1)
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("env", cfg.Env).Msg("server starting")
		if cfg.TLSEnabled {
			errCh <- e.StartTLS(addr, cfg.TLSCertFile, cfg.TLSKeyFile)
			return
		}
		errCh <- e.Start(addr)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
	case sig := <-sigCh:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			return err
		}
	}

	return nil
}
