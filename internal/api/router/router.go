package router

import (
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	_ "github.com/d60-Lab/qa-forum/docs"
	"github.com/d60-Lab/qa-forum/internal/api/handler"
	"github.com/d60-Lab/qa-forum/internal/api/middleware"
	"github.com/d60-Lab/qa-forum/internal/ratelimit"
)

type Options struct {
	Mode string
	// 非空时挂 otelgin
	TracingService string
	Sentry         bool
	// nil 表示不限流
	Burst *ratelimit.Burst
}

// Setup 注册中间件与 /api/v1 路由
func Setup(h *handler.Handler, auth middleware.TokenParser, opts Options) *gin.Engine {
	if opts.Mode != "" {
		gin.SetMode(opts.Mode)
	}
	r := gin.New()
	r.Use(middleware.Recovery())
	if opts.TracingService != "" {
		r.Use(otelgin.Middleware(opts.TracingService))
	}
	if opts.Sentry {
		r.Use(sentrygin.New(sentrygin.Options{Repanic: true, Timeout: 2 * time.Second}))
	}
	r.Use(middleware.RequestLogger())
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	r.GET("/healthz", h.Healthz)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	burst := func(scope string) gin.HandlerFunc {
		if opts.Burst == nil {
			return func(c *gin.Context) { c.Next() }
		}
		return opts.Burst.Middleware(scope)
	}
	requireAuth := middleware.RequireAuth(auth)

	v1 := r.Group("/api/v1")
	{
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/signup", burst("signup"), h.Signup)
			authGroup.POST("/login", h.Login)
		}

		questions := v1.Group("/questions")
		{
			questions.GET("", h.ListQuestions)
			questions.GET("/:id", h.GetQuestion)
			questions.POST("", requireAuth, burst("question"), h.CreateQuestion)
			questions.POST("/:id/answers", requireAuth, burst("answer"), h.CreateAnswer)
		}

		v1.POST("/likes", requireAuth, h.Like)
		v1.POST("/answers/:id/correct", requireAuth, h.MarkCorrect)

		v1.GET("/leaderboard", h.Leaderboard)
		v1.POST("/leaderboard/recalculate", requireAuth, h.RecalculateRanks)

		v1.GET("/tags/popular", h.PopularTags)
		v1.GET("/realtime/token", requireAuth, h.RealtimeToken)
	}
	return r
}
