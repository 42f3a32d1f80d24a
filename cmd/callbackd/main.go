package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/callbackd/pkg/callback"
	"github.com/dmitrymomot/callbackd/pkg/config"
	"github.com/dmitrymomot/callbackd/pkg/credstore"
	"github.com/dmitrymomot/callbackd/pkg/email"
	"github.com/dmitrymomot/callbackd/pkg/environment"
	"github.com/dmitrymomot/callbackd/pkg/exchange"
	"github.com/dmitrymomot/callbackd/pkg/httpserver"
	"github.com/dmitrymomot/callbackd/pkg/logger"
	"github.com/dmitrymomot/callbackd/pkg/mongo"
	"github.com/dmitrymomot/callbackd/pkg/notify"
	"github.com/dmitrymomot/callbackd/pkg/redis"
	"github.com/dmitrymomot/callbackd/pkg/requestid"
	"github.com/dmitrymomot/callbackd/pkg/state"
)

type appConfig struct {
	Env      environment.Environment `env:"APP_ENV" envDefault:"development"`
	Port     string                  `env:"PORT"`
	LogLevel string                  `env:"LOG_LEVEL" envDefault:"info"`
}

type stateConfig struct {
	Collection string `env:"STATES_COLLECTION,required"`
}

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var (
		appCfg      appConfig
		httpCfg     httpserver.Config
		mongoCfg    mongo.Config
		redisCfg    redis.Config
		stateCfg    stateConfig
		callbackCfg callback.Config
		exchangeCfg exchange.Config
		notifyCfg   notify.Config
		emailCfg    email.Config
	)
	config.MustLoad(&appCfg)
	config.MustLoad(&httpCfg)
	config.MustLoad(&mongoCfg)
	config.MustLoad(&redisCfg)
	config.MustLoad(&stateCfg)
	config.MustLoad(&callbackCfg)
	config.MustLoad(&exchangeCfg)
	config.MustLoad(&notifyCfg)
	config.MustLoad(&emailCfg)

	// PORT is the platform convention; it wins over HTTP_ADDR when set.
	if appCfg.Port != "" {
		httpCfg.Addr = ":" + appCfg.Port
	}

	log := newLogger(appCfg)

	db, err := mongo.NewWithDatabase(ctx, mongoCfg)
	if err != nil {
		return fmt.Errorf("connect mongo: %w", err)
	}
	defer func() { _ = db.Client().Disconnect(context.Background()) }()

	redisClient, err := redis.Connect(ctx, redisCfg)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer func() { _ = redisClient.Close() }()

	stateStore := state.NewMongoStore(db, stateCfg.Collection)
	issuer := state.NewIssuer(stateStore)
	exchanger := exchange.New(exchangeCfg)
	creds := credstore.NewRedisStore(redisClient)

	sender, err := newSender(appCfg, emailCfg)
	if err != nil {
		return fmt.Errorf("configure email sender: %w", err)
	}
	reporter := notify.NewReporter(sender, notifyCfg, log)

	svc := callback.NewService(stateStore, issuer, exchanger, creds, reporter, callbackCfg,
		callback.WithLogger(log),
	)
	handler := callback.NewHandler(svc, creds, callbackCfg, log)

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(requestid.Middleware)
	r.Use(middleware.Recoverer)

	r.Get("/", handler.Status)
	r.Get("/callback", handler.Callback)
	r.Get("/tokens", handler.Tokens)
	r.Get("/healthz", httpserver.HealthCheckHandler(log,
		mongo.Healthcheck(db.Client()),
		redis.Healthcheck(redisClient),
	))

	log.InfoContext(ctx, "starting callback receiver",
		logger.Component("main"),
		slog.String("addr", httpCfg.Addr),
		slog.String("env", string(appCfg.Env)),
	)

	return httpserver.NewFromConfig(httpCfg).Run(ctx, r)
}

func newLogger(cfg appConfig) *slog.Logger {
	format := logger.FormatText
	if environment.IsProduction(cfg.Env) {
		format = logger.FormatJSON
	}
	return logger.New(
		logger.WithLevel(parseLevel(cfg.LogLevel)),
		logger.WithFormat(format),
		logger.WithAttr(slog.String("app", "callbackd")),
		logger.WithContextExtractors(requestid.LoggerExtractor()),
	)
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// newSender picks real delivery in production and file output otherwise,
// so local runs never need Postmark credentials.
func newSender(appCfg appConfig, emailCfg email.Config) (email.EmailSender, error) {
	if environment.IsProduction(appCfg.Env) {
		return email.NewPostmarkClient(emailCfg)
	}
	return email.NewDevSender(emailCfg.DevOutputDir), nil
}
