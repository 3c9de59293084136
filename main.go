package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/profilku/profilku/handlers"
	"github.com/profilku/profilku/internal/auth"
	"github.com/profilku/profilku/internal/authstate"
	"github.com/profilku/profilku/internal/config"
	"github.com/profilku/profilku/internal/profiles"
	"github.com/profilku/profilku/internal/sessions"
	"github.com/profilku/profilku/internal/storage"
	"github.com/profilku/profilku/pkg/logger"
	"github.com/profilku/profilku/pkg/metrics"
	"github.com/profilku/profilku/pkg/middleware"
	"github.com/profilku/profilku/web"
)

var startTime = time.Now()

func main() {
	// initialize logging (can be controlled with LOG_LEVEL env: debug|info|warn|error|fatal)
	logger.Init(os.Getenv("LOG_LEVEL"))
	logger.Debugf("startup: LOG_LEVEL=%s", logger.LevelString())

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.SetFormat(cfg.Server.Environment)
	logger.Infof("config loaded: supabase=%s profiles=%s redis=%v minio=%v", cfg.Supabase.URL, cfg.Profiles.Source, cfg.Redis.Host != "", cfg.MinIO.Endpoint != "")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), middleware.RequestID())

	corsCfg := cors.DefaultConfig()
	if origins := cfg.CORS.Origins(); len(origins) > 0 {
		corsCfg.AllowOrigins = origins
		corsCfg.AllowCredentials = true
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AddAllowHeaders(middleware.RequestIDHeader)
	r.Use(cors.New(corsCfg))

	r.Use(middleware.SessionCookie(cfg.Session.CookieName, cfg.Session.Secure, cfg.Session.TTL))

	// Redis backs the session mirror, flash messages, revocations and the shared
	// rate limiter. Without it everything is kept in process memory.
	var rdb *redis.Client
	if cfg.Redis.Host != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warnf("redis %s:%s not reachable yet: %v", cfg.Redis.Host, cfg.Redis.Port, err)
		} else {
			logger.Infof("connected to redis %s:%s", cfg.Redis.Host, cfg.Redis.Port)
		}
		defer rdb.Close()
	}

	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && rdb != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(rdb, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	var (
		sessionsSvc *sessions.Service
		flash       sessions.FlashStore
	)
	if rdb != nil {
		sessionsSvc = sessions.NewService(sessions.NewRedisRepository(rdb, "sid:"), cfg.Session.TTL)
		flash = sessions.NewRedisFlashStore(rdb)
	} else {
		logger.Warnf("REDIS_HOST not set: sessions live in memory and are lost on restart")
		sessionsSvc = sessions.NewService(sessions.NewMemoryRepository(), cfg.Session.TTL)
		flash = sessions.NewMemoryFlashStore()
	}

	authAPI := auth.NewClient(cfg.Supabase.URL, cfg.Supabase.AnonKey, nil)
	var verifier auth.Verifier
	switch {
	case cfg.Supabase.JWTSecret != "":
		verifier = auth.NewSecretVerifier(cfg.Supabase.JWTSecret)
		logger.Infof("access tokens verified with the project JWT secret")
	case cfg.Supabase.UseJWKS:
		verifier = auth.NewJWKSVerifier(ctx, cfg.Supabase.URL)
		logger.Infof("access tokens verified against the project JWKS")
	default:
		verifier = auth.NewRemoteVerifier(authAPI)
		logger.Infof("access tokens verified by the auth service")
	}

	factory := &authstate.Factory{
		Hub:         authstate.NewHub(),
		API:         authAPI,
		Store:       sessionsSvc,
		Verifier:    verifier,
		Revocations: sessions.NewRevocations(rdb),
	}

	profileSvc, err := profiles.Open(ctx, cfg)
	if err != nil {
		logger.Fatalf("failed to open profile source %q: %v", cfg.Profiles.Source, err)
	}
	defer profileSvc.Close()

	var avatars handlers.AvatarResolver
	if cfg.MinIO.Endpoint != "" {
		res, err := storage.NewAvatarResolver(cfg.MinIO)
		if err != nil {
			logger.Warnf("avatar storage disabled: %v", err)
		} else {
			avatars = res
		}
	}

	tmpl, err := web.Templates()
	if err != nil {
		logger.Fatalf("failed to parse templates: %v", err)
	}
	r.SetHTMLTemplate(tmpl)

	pages := handlers.NewPageHandler(
		func(ctx context.Context, sid string) handlers.AuthClient { return factory.ForSession(ctx, sid) },
		profileSvc, avatars, flash, cfg.Server.SettleTimeout,
	)
	pages.Register(r)
	handlers.RegisterSwagger(r)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	// readiness: the session store and the profile source must answer
	r.GET("/ready", func(c *gin.Context) {
		pingCtx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		deps := map[string]bool{
			"sessions": sessionsSvc.Ping(pingCtx) == nil,
			"profiles": profileSvc.Ping(pingCtx) == nil,
		}
		ready := true
		for _, ok := range deps {
			ready = ready && ok
		}
		status, label := http.StatusOK, "ready"
		if !ready {
			status, label = http.StatusServiceUnavailable, "not_ready"
		}
		c.JSON(status, gin.H{"status": label, "deps": deps, "uptime": time.Since(startTime).String()})
	})

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logger.Infof("starting profilku on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Infof("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("graceful shutdown: %v", err)
	}
}
