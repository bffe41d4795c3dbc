package main

import (
	"context"
	"encoding/json"
	"expvar"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/jcpaschoal/agendex/api/cmd/build/all"
	"github.com/jcpaschoal/agendex/app/sdk/auth"
	"github.com/jcpaschoal/agendex/app/sdk/mux"
	"github.com/jcpaschoal/agendex/business/domain/notifybus"
	"github.com/jcpaschoal/agendex/business/domain/reminderbus"
	"github.com/jcpaschoal/agendex/business/domain/reservationbus"
	"github.com/jcpaschoal/agendex/business/domain/reservationbus/stores/reservationdb"
	"github.com/jcpaschoal/agendex/business/domain/servicebus"
	"github.com/jcpaschoal/agendex/business/domain/servicebus/stores/servicecache"
	"github.com/jcpaschoal/agendex/business/domain/servicebus/stores/servicedb"
	"github.com/jcpaschoal/agendex/business/domain/tenantbus"
	"github.com/jcpaschoal/agendex/business/domain/tenantbus/stores/tenantcache"
	"github.com/jcpaschoal/agendex/business/domain/tenantbus/stores/tenantdb"
	"github.com/jcpaschoal/agendex/business/domain/workerbus"
	"github.com/jcpaschoal/agendex/business/domain/workerbus/stores/workercache"
	"github.com/jcpaschoal/agendex/business/domain/workerbus/stores/workerdb"
	"github.com/jcpaschoal/agendex/business/sdk/sqldb"
	"github.com/jcpaschoal/agendex/foundation/keystore"
	"github.com/jcpaschoal/agendex/foundation/logger"
	"github.com/jcpaschoal/agendex/foundation/mailer"
	"github.com/jcpaschoal/agendex/foundation/otel"
	"github.com/kelseyhightower/envconfig"
	"github.com/robfig/cron/v3"
)

var build = "develop"

type Config struct {
	Version struct {
		Build string `json:"build"`
		Desc  string `json:"desc"`
	} `json:"version"`

	Web struct {
		ReadTimeout        time.Duration `envconfig:"WEB_READ_TIMEOUT" default:"5s"`
		WriteTimeout       time.Duration `envconfig:"WEB_WRITE_TIMEOUT" default:"10s"`
		IdleTimeout        time.Duration `envconfig:"WEB_IDLE_TIMEOUT" default:"120s"`
		ShutdownTimeout    time.Duration `envconfig:"WEB_SHUTDOWN_TIMEOUT" default:"20s"`
		APIHost            string        `envconfig:"WEB_API_HOST" default:"0.0.0.0:3000"`
		CORSAllowedOrigins []string      `envconfig:"WEB_CORS_ALLOWED_ORIGINS" default:"*"`
	}
	DB struct {
		User         string `envconfig:"DB_USER" default:"postgres"`
		Password     string `envconfig:"DB_PASSWORD" default:"postgres"`
		Host         string `envconfig:"DB_HOST" default:"localhost"`
		Name         string `envconfig:"DB_NAME" default:"agendex"`
		MaxIdleConns int    `envconfig:"DB_MAX_IDLE_CONNS" default:"0"`
		MaxOpenConns int    `envconfig:"DB_MAX_OPEN_CONNS" default:"0"`
		DisableTLS   bool   `envconfig:"DB_DISABLE_TLS" default:"true"`
	}
	Auth struct {
		KeysFolder string `envconfig:"AUTH_KEYS_FOLDER" default:"zarf/keys"`
		Issuer     string `envconfig:"AUTH_ISSUER" default:"https://auth.agendex.dev/"`
	}
	SMTP struct {
		Host     string `envconfig:"SMTP_HOST" default:"localhost"`
		Port     int    `envconfig:"SMTP_PORT" default:"587"`
		User     string `envconfig:"SMTP_USER" default:""`
		Password string `envconfig:"SMTP_PASSWORD" default:""`
	}
	Cache struct {
		TTL time.Duration `envconfig:"CACHE_TTL" default:"5m"`
	}
	Sweep struct {
		Schedule string `envconfig:"SWEEP_SCHEDULE" default:"0 * * * *"`
	}
	Tempo struct {
		Host        string  `envconfig:"TEMPO_HOST" default:"tempo:4317"`
		ServiceName string  `envconfig:"TEMPO_SERVICE_NAME" default:"AGENDEX"`
		Probability float64 `envconfig:"TEMPO_PROBABILITY" default:"0.05"`
		Enabled     bool    `envconfig:"TEMPO_ENABLED" default:"true"`
	}
}

func main() {
	var log *logger.Logger

	events := logger.Events{
		Error: func(ctx context.Context, r logger.Record) {
			log.Info(ctx, "******* SEND ALERT *******")
		},
	}

	log = logger.NewWithEvents(os.Stdout, logger.LevelInfo, "AGENDEX", otel.GetTraceID, events)

	// -------------------------------------------------------------------------

	ctx := context.Background()

	if err := run(ctx, log); err != nil {
		log.Error(ctx, "startup", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, log *logger.Logger) error {

	// -------------------------------------------------------------------------
	// GOMAXPROCS

	log.Info(ctx, "startup", "GOMAXPROCS", runtime.GOMAXPROCS(0))

	// -------------------------------------------------------------------------
	// Configuration

	var cfg Config

	cfg.Version.Build = build
	cfg.Version.Desc = "AGENDEX"

	if err := envconfig.Process("", &cfg); err != nil {
		return fmt.Errorf("processing config: %w", err)
	}

	log.Info(ctx, "startup", "version", cfg.Version)
	log.Info(ctx, "startup", "config", sanitizeConfig(cfg))

	// -------------------------------------------------------------------------
	// App Starting

	log.Info(ctx, "starting service", "version", cfg.Version.Build)
	defer log.Info(ctx, "shutdown complete")

	log.BuildInfo(ctx)

	expvar.NewString("build").Set(cfg.Version.Build)

	// -------------------------------------------------------------------------
	// Database Support

	log.Info(ctx, "startup", "status", "initializing database support", "hostport", cfg.DB.Host)

	db, err := sqldb.Open(sqldb.Config{
		User:         cfg.DB.User,
		Password:     cfg.DB.Password,
		Host:         cfg.DB.Host,
		Name:         cfg.DB.Name,
		MaxIdleConns: cfg.DB.MaxIdleConns,
		MaxOpenConns: cfg.DB.MaxOpenConns,
		DisableTLS:   cfg.DB.DisableTLS,
	})
	if err != nil {
		return fmt.Errorf("connecting to db: %w", err)
	}

	defer db.Close()

	// -------------------------------------------------------------------------
	// Business Support

	log.Info(ctx, "startup", "status", "initializing business support")

	tenantBus := tenantbus.NewCore(log, tenantcache.NewStore(log, tenantdb.NewStore(log, db), cfg.Cache.TTL))
	workerBus := workerbus.NewCore(log, workercache.NewStore(log, workerdb.NewStore(log, db), cfg.Cache.TTL))
	serviceBus := servicebus.NewCore(log, servicecache.NewStore(log, servicedb.NewStore(log, db), cfg.Cache.TTL))
	reservationBus := reservationbus.NewCore(log, tenantBus, workerBus, serviceBus, reservationdb.NewStore(log, db))

	smtp, err := mailer.New(mailer.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		User:     cfg.SMTP.User,
		Password: cfg.SMTP.Password,
	})
	if err != nil {
		return fmt.Errorf("constructing mailer: %w", err)
	}

	notify, err := notifybus.NewRouter(log, smtp)
	if err != nil {
		return fmt.Errorf("constructing notify router: %w", err)
	}

	reminderBus := reminderbus.NewCore(log, tenantBus, workerBus, serviceBus, reservationBus, notify)

	// -------------------------------------------------------------------------
	// Auth Support

	log.Info(ctx, "startup", "status", "initializing authentication support")

	ks := keystore.New()

	if _, err := ks.LoadByFileSystem(os.DirFS(cfg.Auth.KeysFolder)); err != nil {
		return fmt.Errorf("loading keys: %w", err)
	}

	authClient := auth.New(auth.Config{
		Log:       log,
		TenantBus: tenantBus,
		KeyLookup: ks,
		Issuer:    cfg.Auth.Issuer,
	})

	// -------------------------------------------------------------------------
	// Start Tracing Support

	log.Info(ctx, "startup", "status", "initializing tracing support")

	traceProvider, teardown, err := otel.InitTracing(log, otel.Config{
		ServiceName: cfg.Tempo.ServiceName,
		Host:        cfg.Tempo.Host,
		ExcludedRoutes: map[string]struct{}{
			"/v1/liveness":  {},
			"/v1/readiness": {},
		},
		Probability: cfg.Tempo.Probability,
		Enabled:     cfg.Tempo.Enabled,
	})
	if err != nil {
		return fmt.Errorf("starting tracing: %w", err)
	}

	defer teardown(context.Background())

	tracer := traceProvider.Tracer(cfg.Tempo.ServiceName)

	// -------------------------------------------------------------------------
	// Reminder Sweep Scheduler

	log.Info(ctx, "startup", "status", "initializing reminder scheduler", "schedule", cfg.Sweep.Schedule)

	sched := cron.New()
	if _, err := sched.AddFunc(cfg.Sweep.Schedule, func() {
		report, err := reminderBus.Sweep(ctx, time.Now())
		if err != nil {
			log.Error(ctx, "scheduled sweep", "err", err)
			return
		}
		log.Info(ctx, "scheduled sweep", "total", report.Total, "succeeded", report.Succeeded, "failed", report.Failed)
	}); err != nil {
		return fmt.Errorf("scheduling sweep: %w", err)
	}

	sched.Start()
	defer func() {
		stopCtx := sched.Stop()
		<-stopCtx.Done()
	}()

	// -------------------------------------------------------------------------
	// Start API Service

	log.Info(ctx, "startup", "status", "initializing V1 API support")

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	cfgMux := mux.Config{
		Build:  cfg.Version.Build,
		Log:    log,
		DB:     db,
		Tracer: tracer,
		BusConfig: mux.BusConfig{
			TenantBus:      tenantBus,
			WorkerBus:      workerBus,
			ServiceBus:     serviceBus,
			ReservationBus: reservationBus,
			ReminderBus:    reminderBus,
			Notify:         notify,
		},
		AuthConfig: mux.AuthConfig{
			Auth: authClient,
		},
	}

	webAPI := mux.WebAPI(cfgMux,
		all.Routes(),
		mux.WithCORS(cfg.Web.CORSAllowedOrigins),
	)

	api := http.Server{
		Addr:         cfg.Web.APIHost,
		Handler:      webAPI,
		ReadTimeout:  cfg.Web.ReadTimeout,
		WriteTimeout: cfg.Web.WriteTimeout,
		IdleTimeout:  cfg.Web.IdleTimeout,
		ErrorLog:     logger.NewStdLogger(log, logger.LevelError),
	}

	serverErrors := make(chan error, 1)

	go func() {
		log.Info(ctx, "startup", "status", "api router started", "host", api.Addr)
		serverErrors <- api.ListenAndServe()
	}()

	// -------------------------------------------------------------------------
	// Shutdown

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		log.Info(ctx, "shutdown", "status", "shutdown started", "signal", sig)
		defer log.Info(ctx, "shutdown", "status", "shutdown complete", "signal", sig)

		ctx, cancel := context.WithTimeout(ctx, cfg.Web.ShutdownTimeout)
		defer cancel()

		if err := api.Shutdown(ctx); err != nil {
			api.Close()
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	return nil
}

func sanitizeConfig(cfg Config) string {
	cfg.DB.Password = "[MASKED]"
	cfg.SMTP.Password = "[MASKED]"

	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Sprintf("%+v", cfg)
	}
	return string(data)
}
