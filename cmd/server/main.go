// Command server runs the storefront account-deletion service.
//
// All backing dependencies are optional: without DATABASE_URL, REDIS_URL,
// SMTP_HOST, CHAT_GATEWAY_URL or KAFKA_BROKERS the process runs entirely
// in memory with codes logged instead of delivered, which is the
// development mode.
package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"

	"github.com/BikashBaishnab/horibol-website-sub000/internal/account/executor"
	accounthandler "github.com/BikashBaishnab/horibol-website-sub000/internal/account/handler"
	"github.com/BikashBaishnab/horibol-website-sub000/internal/account/metrics"
	"github.com/BikashBaishnab/horibol-website-sub000/internal/account/models"
	"github.com/BikashBaishnab/horibol-website-sub000/internal/account/service"
	"github.com/BikashBaishnab/horibol-website-sub000/internal/account/store"
	"github.com/BikashBaishnab/horibol-website-sub000/internal/admin"
	"github.com/BikashBaishnab/horibol-website-sub000/internal/audit"
	httptransport "github.com/BikashBaishnab/horibol-website-sub000/internal/http"
	"github.com/BikashBaishnab/horibol-website-sub000/internal/identity"
	"github.com/BikashBaishnab/horibol-website-sub000/internal/jwttoken"
	"github.com/BikashBaishnab/horibol-website-sub000/internal/notify"
	"github.com/BikashBaishnab/horibol-website-sub000/internal/platform/config"
	"github.com/BikashBaishnab/horibol-website-sub000/internal/platform/database"
	"github.com/BikashBaishnab/horibol-website-sub000/internal/platform/httpserver"
	"github.com/BikashBaishnab/horibol-website-sub000/internal/platform/logger"
	platformredis "github.com/BikashBaishnab/horibol-website-sub000/internal/platform/redis"
	"github.com/BikashBaishnab/horibol-website-sub000/internal/ratelimit"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var checkers []httptransport.Checker

	// Request and audit storage.
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		log.Error("postgres connection failed", "error", err)
		os.Exit(1)
	}
	var (
		requestStore store.Store
		auditStore   audit.Store
	)
	if db != nil {
		defer db.Close()
		if err := applySchemas(ctx, db); err != nil {
			log.Error("schema migration failed", "error", err)
			os.Exit(1)
		}
		requestStore = store.NewPostgres(db)
		auditStore = audit.NewPostgres(db)
		checkers = append(checkers, dbChecker{db})
	} else {
		log.Warn("DATABASE_URL not set, using in-memory stores")
		requestStore = store.NewMemoryStore()
		auditStore = audit.NewMemoryStore()
	}

	// Identity directory.
	pool, err := identity.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("identity directory connection failed", "error", err)
		os.Exit(1)
	}
	var directory identity.Directory
	if pool != nil {
		defer pool.Close()
		directory = identity.NewPostgresDirectory(pool)
	} else {
		directory = identity.NewMemoryDirectory()
	}

	// Rate limiting.
	redisClient, err := platformredis.New(cfg.RedisURL)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	var limitStore ratelimit.Store
	if redisClient != nil {
		defer redisClient.Close()
		limitStore = ratelimit.NewRedisStore(redisClient.Client)
		checkers = append(checkers, namedChecker{"redis", redisClient.Health})
	} else {
		log.Warn("REDIS_URL not set, rate limits are per-process")
		limitStore = ratelimit.NewMemoryStore()
	}
	limiter := ratelimit.New(limitStore, ratelimit.Config{
		IssuesPerWindow:   cfg.IssuesPerWindow,
		AttemptsPerWindow: cfg.AttemptsPerWindow,
		Window:            cfg.LimitWindow,
	})

	// Code delivery.
	var senders []notify.Sender
	if cfg.SMTP.Host != "" {
		senders = append(senders, notify.NewEmailSender(cfg.SMTP))
	} else {
		log.Warn("SMTP_HOST not set, email codes will be logged")
		senders = append(senders, notify.NewLogSender(models.ChannelEmail, log))
	}
	if cfg.Chat.GatewayURL != "" {
		senders = append(senders, notify.NewChatSender(cfg.Chat))
	} else {
		log.Warn("CHAT_GATEWAY_URL not set, chat codes will be logged")
		senders = append(senders, notify.NewLogSender(models.ChannelChat, log))
	}
	notifier := notify.NewNotifier(senders...)

	// Audit trail, optionally mirrored to Kafka.
	auditOpts := []audit.Option{}
	if len(cfg.Kafka.Brokers) > 0 {
		stream, err := audit.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.AuditTopic, log)
		if err != nil {
			log.Error("kafka producer setup failed", "error", err)
			os.Exit(1)
		}
		defer stream.Close()
		auditOpts = append(auditOpts, audit.WithStream(stream))
	}
	auditPub := audit.NewPublisher(auditStore, log, auditOpts...)

	tracer := otel.Tracer("storefront-account")
	svc := service.New(
		requestStore,
		directory,
		notifier,
		executor.New(directory, log, tracer),
		auditPub,
		log,
		service.WithLimiter(limiter),
		service.WithMetrics(metrics.New()),
		service.WithTracer(tracer),
		service.WithOTPTTL(cfg.OTPTTL),
		service.WithCountryCode(cfg.CountryCode),
	)

	tokens, err := jwttoken.New(cfg.JWTSigningKey)
	if err != nil {
		log.Error("jwt setup failed", "error", err)
		os.Exit(1)
	}

	router := httptransport.NewRouter(
		checkers,
		accounthandler.New(svc, log),
		admin.New(svc, auditPub, tokens, log),
	)
	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting storefront account service", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
	log.Info("shutdown complete")
}

func applySchemas(ctx context.Context, db *sql.DB) error {
	for _, schema := range []string{store.Schema, audit.Schema} {
		if _, err := db.ExecContext(ctx, schema); err != nil {
			return err
		}
	}
	return nil
}

type dbChecker struct{ db *sql.DB }

func (c dbChecker) Name() string                     { return "postgres" }
func (c dbChecker) Health(ctx context.Context) error { return c.db.PingContext(ctx) }

type namedChecker struct {
	name  string
	check func(ctx context.Context) error
}

func (c namedChecker) Name() string                     { return c.name }
func (c namedChecker) Health(ctx context.Context) error { return c.check(ctx) }
