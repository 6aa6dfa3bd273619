package main

import (
	"context"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/domainmart/api/internal/chat"
	"github.com/domainmart/api/internal/config"
	api "github.com/domainmart/api/internal/http"
	"github.com/domainmart/api/internal/log"
	"github.com/domainmart/api/internal/metrics"
	"github.com/domainmart/api/internal/oauth"
	"github.com/domainmart/api/internal/queue"
	"github.com/domainmart/api/internal/repo"
)

// @title Domainmart API
// @version 0.1.0
// @description Marketplace for expired and premium domains.
// @schemes http https
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()

	logger, err := log.Init(cfg.Env == "production")
	if err != nil {
		stdlog.Fatalf("log init: %v", err)
	}
	defer log.Sync()

	metrics.MustRegister()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, err := repo.NewMongo(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Fatal("mongo connect", zap.Error(err))
	}
	defer store.Close(context.Background())

	if err := store.EnsureIndexes(ctx); err != nil {
		logger.Fatal("ensure indexes", zap.Error(err))
	}

	rds := repo.NewRedis(cfg.RedisAddr)
	defer rds.Close()

	var pub queue.Publisher = queue.NewNoop()
	if cfg.RabbitURL != "" {
		pub, err = queue.NewRabbit(cfg.RabbitURL, cfg.RabbitExchange)
		if err != nil {
			logger.Fatal("rabbit publisher", zap.Error(err))
		}
	}
	defer pub.Close()

	var google *oauth.GoogleOAuth
	if cfg.GoogleClientID != "" {
		google = oauth.NewGoogle(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURI, cfg.OAuthStateSecret)
	}

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	// auto-responder: consumes customer chat messages off the queue and
	// writes the delayed canned reply back through the store
	if cfg.RabbitURL != "" {
		cons, err := queue.NewConsumer(cfg.RabbitURL, cfg.RabbitExchange, cfg.ChatReplyQueue, queue.KeyChatMessage)
		if err != nil {
			logger.Fatal("rabbit consumer", zap.Error(err))
		}
		defer cons.Close()

		responder := chat.NewResponder(store, time.Duration(cfg.ChatReplyDelay)*time.Millisecond)
		go func() {
			if err := cons.Consume(workerCtx, 2, responder.Handle); err != nil {
				logger.Error("chat responder stopped", zap.Error(err))
			}
		}()
	}

	h := api.NewHandler(store, cfg.JWTSecret, cfg.TokenTTLDays, rds, cfg.RateLimitPerMin, pub, cfg.RabbitExchange, google)
	r := api.NewRouter(h)

	srvErr := make(chan error, 1)
	go func() { srvErr <- r.Run(":" + cfg.Port) }()

	logger.Info("domainmart api listening", zap.String("port", cfg.Port))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		logger.Info("shutting down", zap.String("signal", s.String()))
	case err := <-srvErr:
		logger.Error("server error", zap.Error(err))
	}
}
