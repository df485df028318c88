package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rentradar/internal/app/credits"
	"rentradar/internal/app/events"
	"rentradar/internal/app/payments"
	"rentradar/internal/app/profile"
	"rentradar/internal/app/scan"
	authsvc "rentradar/internal/app/services/auth"
	"rentradar/internal/app/session"
	domainauth "rentradar/internal/domain/auth"
	"rentradar/internal/domain/quota"
	domainuser "rentradar/internal/domain/user"
	"rentradar/internal/infra/ai/gemini"
	"rentradar/internal/infra/broker/kafka"
	"rentradar/internal/infra/config"
	mongodb "rentradar/internal/infra/db/mongo"
	ginserver "rentradar/internal/infra/http/gin"
	"rentradar/internal/infra/obs"
	"rentradar/internal/infra/payments/mercadopago"
	"rentradar/internal/infra/search/google"
	"rentradar/internal/infra/security"
	"rentradar/internal/infra/storage/memory"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration invalid", "error", err)
		os.Exit(1)
	}
	logger := obs.NewLogger(cfg.Env)

	stores, closeStores, err := buildStores(ctx, cfg, logger)
	if err != nil {
		logger.Error("storage init failed", "error", err, "mode", cfg.StorageMode)
		os.Exit(1)
	}
	defer closeStores()

	publisher, closePublisher := buildPublisher(cfg, logger)
	defer closePublisher()

	app := buildApplication(cfg, stores, publisher, logger)
	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{
		Ready: stores.ready,
	}, app)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "storage", cfg.StorageMode, "structurer", cfg.Structurer)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

// stores bundles the persistence ports so memory and mongo wiring stay
// symmetric.
type stores struct {
	users    domainuser.Repository
	sessions domainauth.SessionStore
	cache    scan.Cache
	quota    quota.Store
	profile  profile.Store
	ledger   payments.Ledger
	ready    func() error
}

func buildStores(ctx context.Context, cfg config.Config, logger *slog.Logger) (stores, func(), error) {
	if cfg.StorageMode == "mongo" {
		client, err := mongodb.New(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return stores{}, nil, err
		}
		logger.Info("mongo connected", "database", cfg.MongoDB)
		s := stores{
			users:    mongodb.NewUserRepository(client.DB),
			sessions: mongodb.NewSessionStore(client.DB),
			cache:    mongodb.NewCacheRepository(client.DB),
			quota:    mongodb.NewQuotaStore(client.DB),
			profile:  mongodb.NewProfileRepository(client.DB),
			ledger:   mongodb.NewPaymentLedger(client.DB),
			ready: func() error {
				pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				return client.Ping(pingCtx)
			},
		}
		closeFn := func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := client.Close(closeCtx); err != nil {
				logger.Error("mongo disconnect failed", "error", err)
			}
		}
		return s, closeFn, nil
	}

	logger.Info("using in-memory storage")
	return stores{
		users:    memory.NewUserRepository(),
		sessions: memory.NewSessionStore(),
		cache:    memory.NewSearchCache(),
		quota:    memory.NewQuotaStore(),
		profile:  memory.NewProfileStore(),
		ledger:   memory.NewPaymentLedger(),
		ready:    func() error { return nil },
	}, func() {}, nil
}

func buildPublisher(cfg config.Config, logger *slog.Logger) (events.Publisher, func()) {
	if len(cfg.KafkaBrokers) == 0 {
		return events.Nop{}, func() {}
	}
	producer, err := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopicPrefix, nil, logger)
	if err != nil {
		logger.Warn("kafka unavailable, events disabled", "error", err)
		return events.Nop{}, func() {}
	}
	logger.Info("kafka producer connected", "brokers", cfg.KafkaBrokers)
	return producer, func() {
		if err := producer.Close(); err != nil {
			logger.Error("kafka close failed", "error", err)
		}
	}
}

func buildApplication(cfg config.Config, s stores, publisher events.Publisher, logger *slog.Logger) ginserver.Handlers {
	var structurer scan.Structurer
	if cfg.Structurer == "gemini" {
		structurer = &gemini.Client{Key: cfg.GeminiKey, Logger: logger}
	} else {
		structurer = &scan.Formatter{}
	}

	var provider scan.SearchProvider
	if cfg.GoogleSearchKey != "" && cfg.GoogleSearchEngineID != "" {
		provider = &google.Client{
			Key:      cfg.GoogleSearchKey,
			EngineID: cfg.GoogleSearchEngineID,
			Logger:   logger,
		}
	}

	scanSvc := &scan.Service{
		Provider:   provider,
		Structurer: structurer,
		Cache:      s.cache,
		TTL:        cfg.CacheTTL,
		Events:     publisher,
		Logger:     logger,
	}
	sessionSvc := &session.Service{
		Scanner: scanSvc,
		Quota:   s.quota,
		Users:   s.users,
		Logger:  logger,
	}
	creditsSvc := &credits.Service{Users: s.users, Logger: logger}

	var gateway payments.Gateway
	if cfg.MercadoPagoToken != "" {
		gateway = &mercadopago.Client{AccessToken: cfg.MercadoPagoToken, Logger: logger}
	}
	paymentsSvc := &payments.Service{
		Gateway: gateway,
		Ledger:  s.ledger,
		Credits: creditsSvc,
		BaseURL: cfg.BaseURL,
		Events:  publisher,
		Logger:  logger,
	}

	profileSvc := &profile.Service{Store: s.profile, Users: s.users, Logger: logger}
	authService := &authsvc.Service{
		Users:      s.users,
		Sessions:   s.sessions,
		Passwords:  security.BcryptHasher{},
		Tokens:     security.RandomTokenGenerator{},
		SessionTTL: cfg.SessionTTL,
		Logger:     logger,
	}

	return ginserver.Handlers{
		Scan:           ginserver.ScanHandler{Service: scanSvc, Logger: logger},
		Session:        ginserver.SessionHandler{Service: sessionSvc, Profile: profileSvc, Logger: logger},
		Payment:        ginserver.PaymentHandler{Service: paymentsSvc, Logger: logger},
		Auth:           ginserver.AuthHandler{Service: authService, Logger: logger},
		Me:             ginserver.MeHandler{Profile: profileSvc, CreditsService: creditsSvc, Logger: logger},
		AuthMiddleware: ginserver.AuthMiddleware{Service: authService, Logger: logger}.Handle,
	}
}
