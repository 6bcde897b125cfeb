package main

import (
	"context"
	"encoding/json"
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

	"github.com/resculens/resculens/internal/config"
	"github.com/resculens/resculens/internal/domain/dispatch"
	"github.com/resculens/resculens/internal/domain/incident"
	"github.com/resculens/resculens/internal/domain/pipeline"
	"github.com/resculens/resculens/internal/domain/symptom"
	"github.com/resculens/resculens/internal/platform/auth"
	"github.com/resculens/resculens/internal/platform/db"
	"github.com/resculens/resculens/internal/platform/middleware"
	"github.com/resculens/resculens/internal/platform/webhook"
	"github.com/resculens/resculens/internal/simulation"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "resculens-server",
		Short: "Emergency triage and dispatch allocation server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(simulateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the triage API server",
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
			fmt.Println("---------- ---------------------------------------- ---------- --------------------")
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

func simulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Replay simulated emergency calls through the pipeline",
		RunE: func(cmd *cobra.Command, args []string) error {
			cases, _ := cmd.Flags().GetInt("cases")
			seed, _ := cmd.Flags().GetInt64("seed")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
			hospitals, err := loadHospitals(cfg)
			if err != nil {
				return err
			}

			// Simulation always runs against the in-memory ledger; it is a
			// replay tool, not a load generator for the database.
			catalog := symptom.DefaultCatalog()
			incidents := incident.NewService(incident.NewMemoryRepo())
			pool := dispatch.NewPool(hospitals, dispatch.DefaultSeverityCapabilities())
			pipe := pipeline.New(symptom.NewKeywordExtractor(catalog), catalog, incidents, pool, logger)

			runner := simulation.NewRunner(pipe, pool, seed)
			report, err := runner.Run(context.Background(), cases)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		},
	}
	cmd.Flags().Int("cases", 10, "Number of simulated calls")
	cmd.Flags().Int64("seed", time.Now().UnixNano(), "Random seed")
	return cmd
}

func loadHospitals(cfg *config.Config) ([]*dispatch.Hospital, error) {
	if cfg.HospitalsFile == "" {
		return dispatch.DefaultHospitals(), nil
	}
	return dispatch.LoadHospitals(cfg.HospitalsFile)
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	// Incident storage: postgres when DATABASE_URL is set, in-memory otherwise.
	ctx := context.Background()
	var incidentRepo incident.Repository
	if cfg.DatabaseURL != "" {
		pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer pool.Close()
		incidentRepo = incident.NewPgRepo(pool)
		logger.Info().Msg("connected to database")
	} else {
		incidentRepo = incident.NewMemoryRepo()
		logger.Warn().Msg("DATABASE_URL not set; incidents are kept in memory")
	}

	// Hospital pool
	hospitals, err := loadHospitals(cfg)
	if err != nil {
		logger.Fatal().Err(err).Str("file", cfg.HospitalsFile).Msg("failed to load hospitals")
	}
	hospitalPool := dispatch.NewPool(hospitals, dispatch.DefaultSeverityCapabilities())
	logger.Info().Int("hospitals", len(hospitals)).Msg("hospital pool ready")

	// Services
	catalog := symptom.DefaultCatalog()
	incidents := incident.NewService(incidentRepo)
	pipe := pipeline.New(symptom.NewKeywordExtractor(catalog), catalog, incidents, hospitalPool, logger)

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})

	// Authenticated API routes
	apiV1 := e.Group("/api/v1")
	if cfg.ResolvedAuthMode() == "development" {
		apiV1.Use(auth.DevAuthMiddleware())
	} else {
		apiV1.Use(auth.JWTMiddleware(auth.JWTConfig{
			Issuer:     cfg.AuthIssuer,
			SigningKey: []byte(cfg.JWTSecret),
		}))
	}
	pipeline.NewHandler(pipe).RegisterRoutes(apiV1)
	incident.NewHandler(incidents).RegisterRoutes(apiV1)
	dispatch.NewHandler(hospitalPool).RegisterRoutes(apiV1)

	// Telephony callbacks authenticate at the gateway, not with user tokens.
	webhook.NewHandler(pipe, logger).RegisterRoutes(e.Group(""))

	// Start server with graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("server starting")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("forced shutdown")
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}
