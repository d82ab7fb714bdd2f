package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/shop-api/auth"
	"github.com/junaidrashid-git/shop-api/config"
	orderControllers "github.com/junaidrashid-git/shop-api/controllers/order"
	"github.com/junaidrashid-git/shop-api/database"
	"github.com/junaidrashid-git/shop-api/logger"
	"github.com/junaidrashid-git/shop-api/middleware"
	"github.com/junaidrashid-git/shop-api/routes"
	"github.com/junaidrashid-git/shop-api/services"
	"github.com/junaidrashid-git/shop-api/uploads"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zlog, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zlog.Sync()

	zlog.Info("starting application", zap.String("env", cfg.Env), zap.String("port", cfg.Port))

	db, err := database.Open(cfg.Database)
	if err != nil {
		zlog.Fatal("failed to connect database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		zlog.Fatal("AutoMigrate failed", zap.Error(err))
	}

	if cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	tokens := auth.NewTokenIssuer(cfg.JWT)
	store := uploads.NewStore(cfg.Uploads.Dir)
	hub := orderControllers.NewHub(zlog)

	r := gin.New()
	r.MaxMultipartMemory = 32 << 20
	r.Use(middleware.RequestID, middleware.RequestLogger(zlog), middleware.Recovery(zlog))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-API-KEY", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Serve uploaded images
	r.Static(uploads.PublicPrefix, cfg.Uploads.Dir)

	routes.SetupRoutes(r, routes.Deps{
		Auth:        services.NewAuthService(db, tokens, zlog),
		Catalog:     services.NewCatalogService(db, store, zlog),
		Carts:       services.NewCartService(db, zlog),
		Orders:      services.NewOrderService(db, cfg.StrictOrderStatus, zlog),
		Tokens:      tokens,
		Images:      store,
		Hub:         hub,
		AdminAPIKey: cfg.AdminAPIKey,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Uploads.BackupDir != "" {
		backup := &uploads.Backup{
			SrcDir:    cfg.Uploads.Dir,
			BackupDir: cfg.Uploads.BackupDir,
			Retention: cfg.Uploads.BackupRetention,
			Hour:      cfg.Uploads.BackupHour,
			Log:       zlog,
		}
		go backup.Run(ctx)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		zlog.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zlog.Info("shutting down")
	hub.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("graceful shutdown failed", zap.Error(err))
	}
}
