package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/Sanjay-M1512/interview-scheduler-management/internal/gateway"
	"github.com/Sanjay-M1512/interview-scheduler-management/internal/guard"
	"github.com/Sanjay-M1512/interview-scheduler-management/internal/handlers"
	"github.com/Sanjay-M1512/interview-scheduler-management/internal/metrics"
	"github.com/Sanjay-M1512/interview-scheduler-management/internal/routers"
	"github.com/Sanjay-M1512/interview-scheduler-management/internal/session"
	"github.com/Sanjay-M1512/interview-scheduler-management/internal/web"
)

func sessionTTL(logger *zap.Logger) time.Duration {
	raw := os.Getenv("SESSION_TTL")
	if raw == "" {
		return session.DefaultTTL
	}
	ttl, err := time.ParseDuration(raw)
	if err != nil || ttl <= 0 {
		logger.Warn("invalid SESSION_TTL, using default", zap.String("value", raw))
		return session.DefaultTTL
	}
	return ttl
}

// newSessionStore prefers Redis so sessions survive restarts; without
// REDIS_ADDR it falls back to the in-memory store with a cron sweep for
// expired entries.
func newSessionStore(logger *zap.Logger, ttl time.Duration) (session.Store, func()) {
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     redisAddr,
			Password: os.Getenv("REDIS_PASSWORD"),
		})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			logger.Fatal("failed to connect to redis", zap.String("addr", redisAddr), zap.Error(err))
		}
		logger.Info("using redis session store", zap.String("addr", redisAddr))
		return session.NewRedisStore(rdb, ttl), func() { rdb.Close() }
	}

	logger.Info("REDIS_ADDR not set, using in-memory session store")
	store := session.NewMemoryStore(ttl)
	sweeper := cron.New()
	sweeper.AddFunc("@every 10m", func() {
		if removed := store.Sweep(); removed > 0 {
			logger.Info("swept expired sessions", zap.Int("removed", removed))
		}
	})
	sweeper.Start()
	return store, func() { <-sweeper.Stop().Done() }
}

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	backendOrigin := os.Getenv("BACKEND_ORIGIN")
	if backendOrigin == "" {
		backendOrigin = "http://localhost:8081"
	}

	ttl := sessionTTL(logger)
	store, closeStore := newSessionStore(logger, ttl)
	defer closeStore()

	renderer, err := web.NewRenderer()
	if err != nil {
		logger.Fatal("failed to parse templates", zap.Error(err))
	}

	api := gateway.New(backendOrigin)
	g := guard.New(store, logger)

	router := chi.NewRouter()

	// cors middleware
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
	}))

	router.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer, middleware.Timeout(60*time.Second))
	router.Use(metrics.Middleware)

	routers.Register(router, g, routers.Handlers{
		Auth:        handlers.NewAuthHandler(api, store, g, renderer, logger),
		Candidate:   handlers.NewCandidateHandler(api, g, renderer, logger),
		Interviewer: handlers.NewInterviewerHandler(api, g, renderer, logger),
		Profile:     handlers.NewProfileHandler(api, g, renderer, logger),
		API:         handlers.NewAPIHandler(store, logger),
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	serverAddr := ":" + port

	// HTTP server with timeouts
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Scheduler front-end starting",
			zap.String("addr", serverAddr),
			zap.String("backend", backendOrigin))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// wait for interrupt signal to gracefully shutdown the server
	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)
	<-shutdownChan

	logger.Info("Scheduler front-end shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("Scheduler front-end exited")
}
