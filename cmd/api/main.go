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
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"schoolboard/internal/api"
	"schoolboard/internal/attendance"
	"schoolboard/internal/auth"
	"schoolboard/internal/cache"
	"schoolboard/internal/config"
	"schoolboard/internal/events"
	"schoolboard/internal/fees"
	"schoolboard/internal/httpmiddleware"
	"schoolboard/internal/logger"
	"schoolboard/internal/results"
	"schoolboard/internal/store"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := runHTTP(cfg); err != nil {
		log.Fatal().Err(err).Msg("http server failed")
	}
}

type stores struct {
	attendance attendance.Store
	fees       fees.Store
	results    results.Store
}

func runHTTP(cfg config.App) error {
	ctx := context.Background()
	deps := api.Deps{
		Bus:             events.NewBus(),
		StreamHeartbeat: cfg.StreamHeartbeat,
		StreamBuffer:    cfg.StreamBuffer,
	}

	var st stores
	switch cfg.StoreBackend {
	case "memory":
		log.Warn().Msg("using in-memory stores, data is lost on restart")
		st = stores{attendance.NewMemoryStore(), fees.NewMemoryStore(), results.NewMemoryStore()}
	default:
		db, err := store.NewDB(ctx, cfg.DatabaseURL)
		if db == nil {
			return err
		}
		if err != nil {
			log.Warn().Err(err).Msg("db not reachable yet")
		}
		defer db.Close()
		deps.DB = db
		st = stores{attendance.NewRepository(db.Client), fees.NewRepository(db.Client), results.NewRepository(db.Client)}
	}

	var summaries cache.Cache = cache.NewMemory(cfg.CacheTTL)
	if rdb := store.NewRedis(cfg.RedisAddr); rdb != nil {
		defer rdb.Close()
		deps.Redis = rdb
		summaries = cache.NewRedis(rdb.Client, "attendance:summary", cfg.CacheTTL)
	} else if cfg.StoreBackend != "memory" {
		// A process-local cache would serve stale totals when other
		// instances write to the same database.
		summaries = cache.Nop{}
	}

	deps.Attendance = attendance.NewService(st.attendance, deps.Bus, summaries)
	deps.Fees = fees.NewService(st.fees)
	deps.Results = results.NewService(st.results)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpmiddleware.RequestLog(logger.With("http"), "/healthz", "/metrics"))
	r.Use(httpmiddleware.Metrics())
	r.Use(cors.New(corsConfig(cfg.AllowedOrigins)))
	r.Use(securityHeaders())
	r.Use(httpmiddleware.NewTokenBucket(cfg.RateLimitPerMin, cfg.RateLimitPerMin, api.StreamPath).GinMiddleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	api.NewHandler(deps).Register(r, auth.Bearer(cfg.AuthEnabled, cfg.JWTSigningKey, cfg.JWTIssuer))

	// No WriteTimeout: the attendance stream stays open until the client leaves.
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Str("store", cfg.StoreBackend).Bool("auth", cfg.AuthEnabled).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-quit:
	}
	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		// Open streams keep Shutdown waiting until the deadline.
		log.Warn().Err(err).Msg("forced shutdown")
		_ = srv.Close()
	}

	log.Info().Msg("server exited")
	return nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cfg
}

// Security headers middleware
func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		if gin.Mode() == gin.ReleaseMode {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		c.Next()
	}
}
