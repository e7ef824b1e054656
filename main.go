package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/AyishaBeevi/ab-backend/internal/account"
	"github.com/AyishaBeevi/ab-backend/internal/audit"
	"github.com/AyishaBeevi/ab-backend/internal/config"
	"github.com/AyishaBeevi/ab-backend/internal/contact"
	"github.com/AyishaBeevi/ab-backend/internal/database"
	"github.com/AyishaBeevi/ab-backend/internal/enquiry"
	"github.com/AyishaBeevi/ab-backend/internal/favorites"
	"github.com/AyishaBeevi/ab-backend/internal/handlers"
	"github.com/AyishaBeevi/ab-backend/internal/listing"
	"github.com/AyishaBeevi/ab-backend/internal/mail"
	"github.com/AyishaBeevi/ab-backend/internal/middleware"
	"github.com/AyishaBeevi/ab-backend/internal/storage"
	"github.com/AyishaBeevi/ab-backend/internal/store"
	"github.com/AyishaBeevi/ab-backend/internal/token"
)

func main() {
	cfg, cfgErr := config.Load()

	logger := newLogger(cfg)
	defer logger.Sync()

	if cfgErr != nil {
		logger.Fatal("invalid configuration", zap.Error(cfgErr))
	}

	ctx := context.Background()
	client, err := database.Connect(ctx, cfg.MongoURI)
	if err != nil {
		logger.Fatal("mongo connect failed", zap.Error(err))
	}
	defer client.Disconnect(context.Background())

	db := client.Database(cfg.DBName)
	logger.Info("mongo connected", zap.String("db", db.Name()))

	if err := database.EnsureAll(db, logger); err != nil {
		logger.Warn("index setup incomplete", zap.Error(err))
	}

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb, err = database.ConnectRedis(ctx, cfg.RedisURL)
		if err != nil {
			logger.Warn("redis unavailable, rate limiting disabled", zap.Error(err))
			rdb = nil
		} else {
			defer rdb.Close()
		}
	}

	uploader, err := newUploader(cfg)
	if err != nil {
		logger.Fatal("uploader setup failed", zap.Error(err))
	}

	users := store.NewUsers(db)
	props := store.NewProperties(db)
	issuer := token.NewIssuer(cfg.JWTSecret, cfg.AccessTokenTTL)
	recorder := audit.NewRecorder(store.NewAuditLogs(db), users, logger)
	mailer := mail.New(cfg.Mail)
	if !cfg.Mail.Enabled() {
		logger.Info("mail disabled, enquiry notifications will be skipped")
	}

	deps := handlers.Deps{
		Listings:  listing.NewService(props, users, uploader, recorder, logger),
		Favorites: favorites.NewLedger(users, props),
		Enquiries: enquiry.NewService(store.NewEnquiries(db), props, users, mailer, cfg.FrontendURL, logger),
		Contacts:  contact.NewService(store.NewContacts(db)),
		Accounts:  account.NewService(users, issuer, recorder, logger),
		Audit:     recorder,
		Verifier:  issuer,
		Users:     users,
		Redis:     rdb,
		Log:       logger,
	}

	if cfg.IsDev() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger(logger))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimit(rdb, middleware.APILimit, logger))

	r.Static("/uploads", cfg.UploadDir)
	r.GET("/health", handlers.Health(client, logger))

	handlers.Mount(r, deps)
	handlers.Mount(r.Group("/api"), deps)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
	}
	logger.Info("server exited")
}

func newLogger(cfg config.Config) *zap.Logger {
	build := zap.NewProduction
	if cfg.IsDev() {
		build = zap.NewDevelopment
	}
	logger, err := build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func newUploader(cfg config.Config) (storage.Uploader, error) {
	if cfg.S3.Enabled() {
		s3, err := storage.NewS3Uploader(cfg.S3)
		if err != nil {
			return nil, err
		}
		return s3, nil
	}
	return storage.NewDiskUploader(cfg.UploadDir, cfg.PublicBaseURL), nil
}
