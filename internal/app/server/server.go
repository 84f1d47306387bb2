package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"hrms/internal/domain/attendance"
	"hrms/internal/domain/audit"
	"hrms/internal/domain/auth"
	"hrms/internal/domain/core"
	"hrms/internal/domain/leave"
	"hrms/internal/domain/notifications"
	"hrms/internal/domain/payroll"
	"hrms/internal/domain/payroll/pdf"
	"hrms/internal/platform/config"
	"hrms/internal/platform/crypto"
	"hrms/internal/platform/db"
	"hrms/internal/platform/email"
	"hrms/internal/platform/events"
	"hrms/internal/platform/lock"
	"hrms/internal/platform/metrics"
	attendancehandler "hrms/internal/transport/http/handlers/attendance"
	audithandler "hrms/internal/transport/http/handlers/audit"
	authhandler "hrms/internal/transport/http/handlers/auth"
	corehandler "hrms/internal/transport/http/handlers/core"
	leavehandler "hrms/internal/transport/http/handlers/leave"
	notificationshandler "hrms/internal/transport/http/handlers/notifications"
	payrollhandler "hrms/internal/transport/http/handlers/payroll"
)

const shutdownTimeout = 15 * time.Second

type App struct {
	Config  config.Config
	DB      *pgxpool.Pool
	Router  http.Handler
	closers []io.Closer
}

// Run starts the API and blocks until SIGINT or SIGTERM.
func Run() error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	logger := NewLogger(cfg, os.Stdout)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer app.Close()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		slog.Info("hrms server listening", "addr", cfg.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	slog.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// New connects every backing service and builds the router.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}
	app := &App{Config: cfg, DB: pool}

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
			app.Close()
			return nil, fmt.Errorf("migrations: %w", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			app.Close()
			return nil, fmt.Errorf("seed: %w", err)
		}
	}

	sealer, err := crypto.New(cfg.DataEncryptionKey)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("encryption key: %w", err)
	}

	locker, err := app.newLocker(ctx)
	if err != nil {
		app.Close()
		return nil, err
	}
	publisher := app.newPublisher()
	collector := metrics.New()

	employees := core.NewService(core.NewStore(pool), sealer)
	notifier := notifications.New(notifications.NewStore(pool), email.New(cfg), cfg.EmailFrom)
	auditor := audit.New(pool)
	payrollSvc := payroll.NewService(payroll.NewStore(pool), payroll.Options{
		DedupeUnpaidDays: cfg.DedupeUnpaidDays,
		RawLeaveWeekdays: cfg.RawLeaveWeekdays,
		Renderer:         pdf.New(cfg.PayslipDir),
		Notifier:         payroll.NewPayslipNotifier(notifier, publisher),
		Locker:           locker,
		LockTTL:          cfg.PayrollLockTTL,
		Metrics:          collector,
	})

	app.Router = NewRouter(RouterDeps{
		Config:  cfg,
		Logger:  logger,
		Ready:   pool,
		Metrics: collector,
		Handlers: Handlers{
			Auth:          authhandler.NewHandler(auth.NewService(auth.NewStore(pool), cfg.JWTSecret, cfg.JWTTTL)),
			Core:          corehandler.NewHandler(employees),
			Leave:         leavehandler.NewHandler(leave.NewService(leave.NewStore(pool)), employees),
			Attendance:    attendancehandler.NewHandler(attendance.NewService(attendance.NewStore(pool)), employees),
			Payroll:       payrollhandler.NewHandler(payrollSvc, auditor, cfg.PayslipDir),
			Notifications: notificationshandler.NewHandler(notifier),
			Audit:         audithandler.NewHandler(auditor),
		},
	})
	return app, nil
}

// newLocker returns a Redis-backed period lock when REDIS_ADDR is set.
func (a *App) newLocker(ctx context.Context) (lock.Locker, error) {
	if a.Config.RedisAddr == "" {
		slog.Info("redis not configured, payroll finalize relies on the period unique index")
		return lock.Noop{}, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     a.Config.RedisAddr,
		Password: a.Config.RedisPassword,
		DB:       a.Config.RedisDB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	a.closers = append(a.closers, client)
	return lock.NewRedis(client, "hrms:"), nil
}

func (a *App) newPublisher() events.Publisher {
	if len(a.Config.KafkaBrokers) == 0 {
		return events.NewNoop()
	}
	writer := events.NewWriter(a.Config.KafkaBrokers)
	a.closers = append(a.closers, writer)
	return events.NewKafkaPublisher(writer, a.Config.KafkaPayslipTopic)
}

func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			slog.Warn("close failed", "err", err)
		}
	}
	a.closers = nil
	if a.DB != nil {
		a.DB.Close()
	}
}
