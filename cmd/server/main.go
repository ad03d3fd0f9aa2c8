package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"

	"github.com/lcflow/accesskit/modules/access"
	"github.com/lcflow/accesskit/pkg/audit"
	"github.com/lcflow/accesskit/pkg/config"
	"github.com/lcflow/accesskit/pkg/email"
	"github.com/lcflow/accesskit/pkg/httpserver"
	"github.com/lcflow/accesskit/pkg/logger"
	"github.com/lcflow/accesskit/pkg/mongo"
	"github.com/lcflow/accesskit/pkg/pg"
	"github.com/lcflow/accesskit/pkg/requestid"
	"github.com/lcflow/accesskit/svc/assignment"
	"github.com/lcflow/accesskit/svc/onboarding"
	"github.com/lcflow/accesskit/svc/role"
)

const serviceName = "accesskit"

var version = "0.1.0"

// appConfig composes the environment configuration of every wired component.
// Nested structs are parsed by their own env tags.
type appConfig struct {
	Env       string `env:"APP_ENV" envDefault:"development"`
	RulesPath string `env:"ACCESS_RULES_PATH"`

	// AuditStore selects where audit events land: "memory" or "postgres".
	AuditStore string `env:"AUDIT_STORE" envDefault:"memory"`

	HTTP  httpserver.Config
	Mongo mongo.Config
	Email email.Config
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		slog.Error("server exited", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var cfg appConfig
	if err := config.Load(&cfg); err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logOpts := []logger.Option{logger.WithContextExtractors(requestid.LogExtractor())}
	if cfg.Env == "production" {
		logOpts = append(logOpts, logger.WithProduction(serviceName))
	} else {
		logOpts = append(logOpts, logger.WithDevelopment(serviceName))
	}
	log := logger.New(logOpts...)
	logger.SetAsDefault(log)

	log.InfoContext(ctx, "starting access server", "version", version, "env", cfg.Env)

	db, err := mongo.NewDatabase(ctx, cfg.Mongo)
	if err != nil {
		return fmt.Errorf("connect mongo: %w", err)
	}
	defer func() {
		if err := db.Client().Disconnect(context.Background()); err != nil {
			log.ErrorContext(ctx, "failed to disconnect mongo client", logger.Error(err))
		}
	}()

	readiness := []func(context.Context) error{mongo.Healthcheck(db.Client())}

	roleStorage, err := role.NewMongoStorage(ctx, db)
	if err != nil {
		return fmt.Errorf("role storage: %w", err)
	}
	assignmentStorage, err := assignment.NewMongoStorage(ctx, db)
	if err != nil {
		return fmt.Errorf("assignment storage: %w", err)
	}
	journeyStorage, err := onboarding.NewMongoStorage(ctx, db)
	if err != nil {
		return fmt.Errorf("onboarding storage: %w", err)
	}

	rules := role.DefaultRules()
	if cfg.RulesPath != "" {
		rules, err = role.LoadRules(cfg.RulesPath)
		if err != nil {
			return fmt.Errorf("load assignment rules: %w", err)
		}
		log.InfoContext(ctx, "assignment rules loaded", "path", cfg.RulesPath)
	}

	var auditStore audit.Storage
	switch cfg.AuditStore {
	case "postgres":
		var pgCfg pg.Config
		if err := config.Load(&pgCfg); err != nil {
			return fmt.Errorf("load postgres configuration: %w", err)
		}
		pool, err := pg.Connect(ctx, pgCfg)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer pool.Close()
		if err := pg.Migrate(ctx, pool, audit.Migrations(), pgCfg, log); err != nil {
			return fmt.Errorf("migrate audit schema: %w", err)
		}
		auditStore = audit.NewPGStorage(pool)
		readiness = append(readiness, pool.Ping)
	case "memory":
		auditStore = audit.NewMemoryStorage()
		log.WarnContext(ctx, "audit events are stored in memory and lost on restart")
	default:
		return fmt.Errorf("unknown audit store %q", cfg.AuditStore)
	}

	recorder := audit.NewRecorder(auditStore,
		audit.WithActorIDExtractor(access.ActorFromContext),
		audit.WithRequestIDExtractor(func(ctx context.Context) (string, bool) {
			id := requestid.FromContext(ctx)
			return id, id != ""
		}),
	)

	var sender email.Sender
	if cfg.Email.PostmarkServerToken != "" {
		sender, err = email.NewPostmarkSender(cfg.Email)
		if err != nil {
			return fmt.Errorf("configure postmark: %w", err)
		}
	} else {
		sender = email.NewDevSender(log)
		log.WarnContext(ctx, "no postmark token set, welcome emails go to the log")
	}

	// Two views over the same role collection: the ledger resolves role
	// definitions without the deletion guard, the mounted service carries it.
	roleReader := role.NewService(roleStorage,
		role.WithRules(rules),
		role.WithLogger(log))
	ledger := assignment.NewService(assignmentStorage, roleReader,
		assignment.WithRules(rules),
		assignment.WithLogger(log),
		assignment.WithAuditRecorder(recorder))
	roles := role.NewService(roleStorage,
		role.WithRules(rules),
		role.WithLogger(log),
		role.WithAuditRecorder(recorder),
		role.WithAssignmentCounter(ledger))
	journeys := onboarding.NewService(journeyStorage, roles, ledger,
		onboarding.WithLogger(log),
		onboarding.WithAuditRecorder(recorder),
		onboarding.WithEmailSender(sender))

	r := chi.NewRouter()
	r.Get("/healthz", httpserver.HealthCheckHandler(ctx, log))
	r.Get("/readyz", httpserver.HealthCheckHandler(ctx, log, readiness...))
	r.Mount("/access", access.Router(access.RouterOptions{
		Roles:       access.NewRoleService(roles, log),
		Assignments: access.NewAssignmentService(ledger, log),
		Onboarding:  access.NewOnboardingService(journeys, log),
		Bootstrap:   access.NewBootstrapService(roles, log),
	}))

	srv := httpserver.NewFromConfig(cfg.HTTP,
		httpserver.WithLogger(log),
		httpserver.WithStartHook(func(l *slog.Logger) {
			l.Info("access server listening", "addr", cfg.HTTP.Addr)
		}),
		httpserver.WithStopHook(func(l *slog.Logger) {
			l.Info("access server stopped")
		}),
	)
	return srv.Run(ctx, r)
}
