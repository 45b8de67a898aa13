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

	"github.com/getsentry/sentry-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/qa-forum/config"
	"github.com/d60-Lab/qa-forum/internal/api/handler"
	"github.com/d60-Lab/qa-forum/internal/api/router"
	"github.com/d60-Lab/qa-forum/internal/cache"
	"github.com/d60-Lab/qa-forum/internal/notify"
	"github.com/d60-Lab/qa-forum/internal/ratelimit"
	"github.com/d60-Lab/qa-forum/internal/repository"
	"github.com/d60-Lab/qa-forum/internal/service"
	"github.com/d60-Lab/qa-forum/pkg/database"
	"github.com/d60-Lab/qa-forum/pkg/logger"
	"github.com/d60-Lab/qa-forum/pkg/tracing"
)

// @title QA Forum API
// @version 1.0
// @description 问答社区：点赞、采纳答案、用户排名与排行榜
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Development); err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx := context.Background()

	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing)
	if err != nil {
		logger.Fatal("init tracing", zap.Error(err))
	}

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.Sentry.DSN, Environment: cfg.Sentry.Environment}); err != nil {
			logger.Warn("sentry init failed", zap.Error(err))
		}
		defer sentry.Flush(2 * time.Second)
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Fatal("init database", zap.Error(err))
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		// 缓存与限流降级，不阻止启动
		logger.Warn("redis unavailable", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
	}
	jsonCache := cache.New(rdb)

	// 推送：未配置 Centrifugo 时不推送
	var notifier notify.Notifier = notify.Nop{}
	stopDispatcher := func(context.Context) error { return nil }
	if cfg.Centrifugo.Host != "" {
		dispatcher := notify.NewDispatcher(
			notify.NewCentrifugo(cfg.Centrifugo.Host, cfg.Centrifugo.APIKey, cfg.Centrifugo.Timeout),
			cfg.Centrifugo.QueueSize, cfg.Centrifugo.RPS, cfg.Centrifugo.Timeout,
		)
		stop := dispatcher.Start(cfg.Centrifugo.Workers)
		stopDispatcher = func(ctx context.Context) error {
			err := stop(ctx)
			st := dispatcher.Stats()
			logger.Info("notify dispatcher stopped",
				zap.Int64("delivered", st.Delivered),
				zap.Int64("failed", st.Failed),
				zap.Int64("dropped", st.Dropped),
				zap.Int("queued", st.Queued),
				zap.Duration("avg_latency", st.AvgLatency),
			)
			return err
		}
		notifier = dispatcher
	}

	leaderboard := service.NewLeaderboard(repository.NewUserRepository(db), jsonCache, service.LeaderboardOptions{
		TTL:                cfg.Leaderboard.TTL,
		MaxLimit:           cfg.Leaderboard.MaxLimit,
		InvalidateOnRecalc: cfg.Leaderboard.InvalidateOnRecalc,
	})
	authService := service.NewAuthService(db, cfg.JWT.Secret, cfg.JWT.Expire)

	if err := handler.RegisterValidators(); err != nil {
		logger.Fatal("register validators", zap.Error(err))
	}
	h := handler.NewHandler(handler.Options{
		LikeService:     service.NewLikeService(db, notifier),
		AnswerService:   service.NewAnswerService(db, notifier, leaderboard),
		QuestionService: service.NewQuestionService(db, jsonCache),
		RankService:     service.NewRankService(db, leaderboard),
		AuthService:     authService,
		Leaderboard:     leaderboard,
		Tokens:          notify.NewTokenIssuer(cfg.Centrifugo.Secret, cfg.Centrifugo.TokenExpire),
		DefaultLimit:    cfg.Leaderboard.DefaultLimit,
	})

	opts := router.Options{Mode: cfg.Server.Mode, Sentry: cfg.Sentry.DSN != ""}
	if cfg.Tracing.Enabled {
		opts.TracingService = cfg.Tracing.ServiceName
	}
	if cfg.Burst.Enabled {
		opts.Burst = ratelimit.NewBurst(rdb, cfg.Burst.Limits)
	}
	engine := router.Setup(h, authService, opts)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	if err := stopDispatcher(shutdownCtx); err != nil {
		logger.Warn("dispatcher stop", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Warn("tracing shutdown", zap.Error(err))
	}
}
