package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "libra-backend/docs"
	"libra-backend/internal/catalog/books"
	"libra-backend/internal/catalog/users"
	"libra-backend/internal/circulation"
	"libra-backend/internal/platform/auth"
	"libra-backend/internal/platform/db"
	"libra-backend/internal/reports"
)

// @title        Libra backend API
// @version      1.0
// @description  Library-management backend: users, books, borrow records and reports.
// @BasePath     /
func main() {
	cfg, err := db.LoadConfig("config/config.yaml")
	if err != nil {
		logrus.WithError(err).Fatal("failed to load config")
	}

	if cfg.Mode != "dev" && cfg.Mode != "release" {
		logrus.Fatalf("config mode must be dev or release, got %q", cfg.Mode)
	}
	logrus.WithField("mode", cfg.Mode).Info("starting")

	conn, err := db.Connect(cfg.DB)
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to DB")
	}
	defer conn.Close()
	logrus.WithField("dbname", cfg.DB.DBName).Info("connected to DB")

	// Logout revocation: in-process unless redis is configured.
	var revoker auth.Revoker = auth.NewMemoryRevoker()
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			cancel()
			logrus.WithError(err).Fatal("failed to connect to redis")
		}
		cancel()
		revoker = auth.NewRedisRevoker(rdb)
		logrus.WithField("addr", cfg.Redis.Addr).Info("using redis revocation list")
	}

	secret := []byte(cfg.Auth.Secret)
	ttl := time.Duration(cfg.Auth.TokenTTLMinutes) * time.Minute

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	_ = r.SetTrustedProxies(nil)

	if cfg.Mode == "dev" {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     []string{"http://localhost:3000"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowCredentials: true,
		}))
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	public := r.Group("")
	private := r.Group("", auth.RequireAuth(secret, revoker))

	auth.RegisterRoutes(public, private, auth.NewService(conn, secret, ttl, revoker))
	users.RegisterRoutes(private, users.NewService(conn))
	books.RegisterRoutes(private, books.NewService(conn))
	circulation.RegisterRoutes(private, circulation.NewService(conn))
	reports.RegisterRoutes(public, private, reports.NewService(conn))

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: r,
	}

	go func() {
		var err error
		if cfg.Certificate.Cert != "" && cfg.Certificate.Key != "" {
			logrus.WithField("addr", cfg.Addr).Info("listening (TLS)")
			err = srv.ListenAndServeTLS(cfg.Certificate.Cert, cfg.Certificate.Key)
		} else {
			logrus.WithField("addr", cfg.Addr).Info("listening")
			err = srv.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	logrus.Info("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.WithError(err).Fatal("shutdown failed")
	}
}
