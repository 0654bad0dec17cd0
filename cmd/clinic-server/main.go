package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/clinic/clinic/internal/config"
	"github.com/clinic/clinic/internal/domain/appointment"
	"github.com/clinic/clinic/internal/domain/dashboard"
	"github.com/clinic/clinic/internal/domain/followup"
	"github.com/clinic/clinic/internal/domain/organization"
	"github.com/clinic/clinic/internal/domain/patient"
	"github.com/clinic/clinic/internal/platform/auth"
	"github.com/clinic/clinic/internal/platform/db"
	"github.com/clinic/clinic/internal/platform/middleware"
)

const tokenIssuer = "clinic-server"

func main() {
	rootCmd := &cobra.Command{
		Use:   "clinic-server",
		Short: "Clinic management API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(tenantCmd())

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

	// migrate up
	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, _ := cmd.Flags().GetString("schema")
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if dir == "" {
				dir = cfg.SharedMigrationsDir
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			fmt.Printf("Running migrations on schema: %s\n", schema)

			count, err := migrator.Up(ctx, schema)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("schema", "shared", "Target schema for migrations")
	upCmd.Flags().String("dir", "", "Path to migrations directory (default SHARED_MIGRATIONS_DIR)")
	cmd.AddCommand(upCmd)

	// migrate status
	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, _ := cmd.Flags().GetString("schema")
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if dir == "" {
				dir = cfg.SharedMigrationsDir
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx, schema)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("Migration status for schema: %s\n", schema)
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
	statusCmd.Flags().String("schema", "shared", "Target schema for migrations")
	statusCmd.Flags().String("dir", "", "Path to migrations directory (default SHARED_MIGRATIONS_DIR)")
	cmd.AddCommand(statusCmd)

	return cmd
}

func tenantCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tenant",
		Short: "Manage tenants",
	}

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create an organization and its tenant schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			code, _ := cmd.Flags().GetString("code")
			if name == "" || code == "" {
				return fmt.Errorf("--name and --code are required")
			}

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

			logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
			svc := organization.NewService(
				organization.NewRepo(pool),
				organization.PGTransactor{Pool: pool},
				organization.SchemaProvisioner{Pool: pool, MigrationsDir: cfg.TenantMigrationsDir},
				auth.NewTokenIssuer(tokenIssuer, []byte(cfg.JWTSecret), cfg.TokenTTL()),
				nil,
				logger,
			)

			fmt.Printf("Creating organization %q with code %s\n", name, code)
			company, err := svc.CreateCompany(ctx, name, code)
			if err != nil {
				return err
			}
			fmt.Printf("Organization created. Staff join with code %s (schema %s).\n",
				company.Code, db.SchemaName(db.TenantID(company.Code)))
			return nil
		},
	}
	createCmd.Flags().String("name", "", "Organization name")
	createCmd.Flags().String("code", "", "Organization invite code, e.g. CLINIC001")

	cmd.AddCommand(createCmd)
	return cmd
}

func newLogger(cfg *config.Config) zerolog.Logger {
	if cfg != nil && cfg.IsDev() {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}

func runServer() error {
	cfg, err := config.Load()
	if err != nil {
		logger := newLogger(nil)
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	logger := newLogger(cfg)
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	// Database
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// The shared schema holds organizations and users.
	applied, err := db.NewMigrator(pool, cfg.SharedMigrationsDir).Up(ctx, "shared")
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate shared schema")
	}
	if applied > 0 {
		logger.Info().Int("count", applied).Msg("applied shared migrations")
	}

	e, cleanup := newServer(cfg, pool, logger)
	defer cleanup()

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}

// newServer builds the echo instance with middleware and every route. The
// returned func releases background resources.
func newServer(cfg *config.Config, pool *pgxpool.Pool, logger zerolog.Logger) (*echo.Echo, func()) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = middleware.ErrorHandler(logger)

	revocations := auth.NewTokenRevocationStore(cfg.TokenTTL(), time.Minute)
	tokens := auth.NewTokenIssuer(tokenIssuer, []byte(cfg.JWTSecret), cfg.TokenTTL())

	// Global middleware
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:  cfg.CORSOrigins,
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders:  []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders: []string{"Authorization", "X-Request-ID"},
	}))
	e.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	e.Use(middleware.BodyLimit("1MB"))
	e.Use(middleware.RateLimit(middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}))
	e.Use(middleware.RequestTimeout(middleware.TimeoutConfig{
		Timeout: cfg.RequestTimeout,
		Skipper: func(c echo.Context) bool { return c.Path() == "/health/db" },
	}))

	// Auth and tenant resolution
	e.Use(auth.JWTMiddleware(auth.JWTConfig{
		Issuer:      tokenIssuer,
		SigningKey:  []byte(cfg.JWTSecret),
		Revocations: revocations,
		Skipper:     auth.AuthSkipper,
	}))
	e.Use(db.TenantMiddleware(pool, auth.AuthSkipper))

	// Audit middleware
	e.Use(middleware.Audit(logger, nil))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/health/db", db.HealthHandler(pool))

	api := e.Group("/api")

	orgSvc := organization.NewService(
		organization.NewRepo(pool),
		organization.PGTransactor{Pool: pool},
		organization.SchemaProvisioner{Pool: pool, MigrationsDir: cfg.TenantMigrationsDir},
		tokens,
		revocations,
		logger,
	)
	organization.NewHandler(orgSvc).RegisterRoutes(api)

	patientSvc := patient.NewService(patient.NewRepo(pool), patient.NewNoteRepo(pool))
	patient.NewHandler(patientSvc).RegisterRoutes(api)

	apptSvc := appointment.NewService(appointment.NewRepo(pool), patientSvc)
	appointment.NewHandler(apptSvc).RegisterRoutes(api)

	followUpSvc := followup.NewService(followup.NewRepo(pool), patientSvc)
	followup.NewHandler(followUpSvc).RegisterRoutes(api)

	dashboardSvc := dashboard.NewService(patientSvc, apptSvc, followUpSvc)
	dashboard.NewHandler(dashboardSvc).RegisterRoutes(api)

	logger.Info().
		Str("env", cfg.Env).
		Float64("rate_limit_rps", cfg.RateLimitRPS).
		Int("routes", len(e.Routes())).
		Msg("routes registered")

	return e, revocations.Close
}
