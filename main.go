package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/projectziio/ziio-ai/handlers"
	"github.com/projectziio/ziio-ai/internal/analysis/handler"
	"github.com/projectziio/ziio-ai/internal/analysis/service"
	"github.com/projectziio/ziio-ai/internal/assist"
	"github.com/projectziio/ziio-ai/internal/cache"
	"github.com/projectziio/ziio-ai/internal/config"
	"github.com/projectziio/ziio-ai/internal/database"
	"github.com/projectziio/ziio-ai/internal/llm"
	"github.com/projectziio/ziio-ai/internal/storage"
	"github.com/projectziio/ziio-ai/pkg/logger"
	"github.com/projectziio/ziio-ai/pkg/metrics"
	"github.com/projectziio/ziio-ai/pkg/middleware"
)

var startTime = time.Now()

func main() {
	// initialize logging (can be controlled with LOG_LEVEL env: debug|info|warn|error|fatal)
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Init(cfg.Log.Level)
	if cfg.Log.File != "" {
		logger.SetFile(cfg.Log.File)
	}
	logger.Infof("config loaded: mongo=%v redis=%v minio=%v", cfg.MongoDB.URI != "", cfg.Redis.Host != "", cfg.Storage.Endpoint != "")

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	// ClientIP (and so the rate limiter key) honours forwarding headers only from these
	if err := r.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		logger.Fatalf("invalid TRUSTED_PROXIES: %v", err)
	}

	// Lightweight CORS middleware: the browser client calls the API directly.
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, "+middleware.RequestIDHeader)
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length, "+handlers.ModelHeader+", "+middleware.RequestIDHeader)
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	})
	r.Use(middleware.RequestID(), middleware.AccessLog(), gin.Recovery())

	ctx := context.Background()

	// Redis backs the analysis cache and, optionally, the rate limiter
	var rdb *redis.Client
	if addr := cfg.Redis.Addr(); addr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s): %v", addr, err)
			_ = rdb.Close()
			rdb = nil
		} else {
			logger.Infof("connected to Redis: %s", addr)
			defer rdb.Close()
		}
	}

	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && rdb != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(rdb, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	// saved analyses live in MongoDB when configured, in memory otherwise
	history := service.NewMemoryHistory()
	var pingMongo handlers.Check
	if cfg.MongoDB.URI != "" {
		client, err := database.ConnectWithRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, 5, time.Second, logger.Warnf)
		if err != nil {
			logger.Warnf("using in-memory analysis history: %v", err)
		} else {
			defer func() { _ = client.Disconnect(context.Background()) }()
			col := client.Database(cfg.MongoDB.Database).Collection("file_analyses")
			h, err := service.NewMongoHistory(ctx, col)
			if err != nil {
				logger.Warnf("mongo history unavailable, using memory: %v", err)
			} else {
				history = h
				pingMongo = func(ctx context.Context) error { return client.Ping(ctx, nil) }
			}
		}
	}

	// page images go to MinIO; without it /api/uploads answers 503
	var uploader *storage.PageUploader
	var pingMinIO handlers.Check
	if cfg.Storage.Endpoint != "" {
		st, err := storage.NewMinIOStorage(ctx, cfg.Storage)
		if err != nil {
			logger.Warnf("object storage unavailable: %v", err)
		} else {
			uploader = storage.NewPageUploader(st, cfg.Storage.PresignTTL, cfg.Storage.MaxUpload)
			pingMinIO = st.Ping
		}
	}

	gw := llm.NewClient(llm.ConfigFrom(cfg.LLM))
	models := llm.ModelsFromConfig(cfg.LLM)

	opts := service.Options{CacheTTL: cfg.Cache.AnalysisTTL, PageConcurrency: cfg.LLM.PageConcurrency}
	if rdb != nil {
		opts.Cache = cache.NewRedisCache(rdb, "analysis:")
	}
	analyzer := service.NewAnalyzer(gw, models, opts)

	api := r.Group("/api")
	handlers.NewAnalyzeHandler(analyzer).Register(api)
	handlers.NewAssistHandler(assist.New(gw, models), cfg.LLM.PageConcurrency).Register(api)
	handlers.NewUploadHandler(uploader, cfg.Storage.MaxUpload).Register(api)
	handler.RegisterFileAnalysisRoutes(r, history)

	optional := map[string]handlers.Check{}
	if rdb != nil {
		optional["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	if pingMinIO != nil {
		optional["storage"] = pingMinIO
	}
	required := map[string]handlers.Check{}
	if pingMongo != nil {
		required["mongo"] = pingMongo
	}
	handlers.RegisterHealth(r, startTime, required, optional)
	handlers.RegisterSwagger(r)

	// Expose Prometheus metrics
	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	srv := &http.Server{
		Addr:              cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}
	go func() {
		logger.Infof("starting ziio-ai on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	logger.Infof("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("graceful shutdown failed: %v", err)
	}
}
