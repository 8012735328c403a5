// Command gateway runs the auth API gateway.
//
// It connects to MongoDB first and opens the HTTP listener only once the
// connection is up. SIGINT or SIGTERM shut the server down gracefully and
// close the connection before exit. Any startup failure exits with status 1.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/dmitrymomot/authgate/modules/account"
	"github.com/dmitrymomot/authgate/modules/gateway"
	"github.com/dmitrymomot/authgate/pkg/clientip"
	"github.com/dmitrymomot/authgate/pkg/config"
	"github.com/dmitrymomot/authgate/pkg/email"
	"github.com/dmitrymomot/authgate/pkg/environment"
	"github.com/dmitrymomot/authgate/pkg/errorsink"
	"github.com/dmitrymomot/authgate/pkg/fallback"
	"github.com/dmitrymomot/authgate/pkg/httpserver"
	"github.com/dmitrymomot/authgate/pkg/jwt"
	"github.com/dmitrymomot/authgate/pkg/lifecycle"
	"github.com/dmitrymomot/authgate/pkg/logger"
	"github.com/dmitrymomot/authgate/pkg/metrics"
	"github.com/dmitrymomot/authgate/pkg/mongo"
	"github.com/dmitrymomot/authgate/pkg/ratelimiter"
	"github.com/dmitrymomot/authgate/pkg/redis"
	"github.com/dmitrymomot/authgate/pkg/requestid"
)

func main() {
	if err := run(context.Background()); err != nil {
		slog.Error("gateway exited", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var cfg gateway.Config
	if err := config.Load(&cfg); err != nil {
		return err
	}

	env := cfg.Environment()
	log := logger.New(
		logger.WithEnvironment(env, cfg.ServiceName),
		logger.WithContextExtractors(
			requestid.LoggerExtractor(),
			clientip.LoggerExtractor(),
			environment.LoggerExtractor(),
		),
	)
	logger.SetAsDefault(log)

	var (
		mongoCfg  mongo.Config
		serverCfg httpserver.Config
		jwtCfg    jwt.Config
		emailCfg  email.Config
		limitCfg  ratelimiter.Config
		redisCfg  redis.Config
	)
	if err := errors.Join(
		config.Load(&mongoCfg),
		config.Load(&serverCfg),
		config.Load(&jwtCfg),
		config.Load(&emailCfg),
		config.Load(&limitCfg),
		config.Load(&redisCfg),
	); err != nil {
		return err
	}

	collector := metrics.New()
	manager := mongo.New(mongoCfg,
		mongo.WithObserver(collector),
		mongo.WithLogger(log),
	)

	tokens, err := jwt.New(jwtCfg)
	if err != nil {
		return err
	}
	mailer, err := email.New(emailCfg)
	if err != nil {
		return err
	}

	users := account.NewMongoStorage(manager)
	accounts := account.NewService(users, tokens,
		account.WithMailer(mailer),
		account.WithLogger(log),
	)

	probes := []func(context.Context) error{mongo.Healthcheck(manager)}

	var store ratelimiter.Store
	if redisCfg.Enabled() {
		client, err := redis.Connect(ctx, redisCfg)
		if err != nil {
			return err
		}
		defer client.Close()
		store = ratelimiter.NewRedisStore(client)
		probes = append(probes, redis.Healthcheck(client))
	} else {
		mem := ratelimiter.NewMemoryStore()
		defer mem.Close()
		store = mem
	}
	limiter, err := ratelimiter.NewBucket(store, limitCfg)
	if err != nil {
		return err
	}

	sink := errorsink.New(errorsink.NewFileWriter(cfg.ErrorLogPath),
		errorsink.WithLogger(log),
		errorsink.WithErrorHook(collector.HandlerError),
	)

	fb, strategy := fallback.New(fallback.Config{
		Production: env.IsProduction(),
		StaticDir:  cfg.StaticDir,
		Version:    cfg.Version,
		Endpoints:  gateway.Endpoints,
	})
	log.InfoContext(ctx, "fallback selected",
		slog.String("strategy", string(strategy)),
		logger.Component("gateway"),
	)

	router := gateway.Router(gateway.RouterOptions{
		Config:      cfg,
		Connection:  manager,
		Auth:        account.NewHandler(accounts, tokens, sink),
		Fallback:    fb,
		AuthLimiter: limiter,
		Sink:        sink,
		Metrics:     collector,
		Logger:      log,
		Probes:      probes,
		Started:     time.Now(),
	})

	var lc *lifecycle.Manager
	server := httpserver.NewFromConfig(serverCfg,
		httpserver.WithLogger(log),
		httpserver.WithStartHook(func(ctx context.Context, addr string) {
			lc.MarkListening(ctx, addr)
			ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			if err := users.EnsureIndexes(ctx); err != nil {
				log.WarnContext(ctx, "users index not ensured",
					logger.Error(err),
					logger.Component("account"),
				)
			}
		}),
	)
	lc = lifecycle.New(manager, server, lifecycle.WithLogger(log))

	return lc.Run(ctx, router)
}
