package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/d60-Lab/qa-forum/internal/model"
	"github.com/d60-Lab/qa-forum/internal/notify"
	"github.com/d60-Lab/qa-forum/internal/service"
	"github.com/d60-Lab/qa-forum/pkg/response"
)

// Handler 聚合所有 HTTP 接口依赖
type Handler struct {
	likeService     service.LikeService
	answerService   service.AnswerService
	questionService service.QuestionService
	rankService     service.RankService
	authService     service.AuthService
	leaderboard     *service.Leaderboard
	tokens          *notify.TokenIssuer

	defaultLimit int
}

type Options struct {
	LikeService     service.LikeService
	AnswerService   service.AnswerService
	QuestionService service.QuestionService
	RankService     service.RankService
	AuthService     service.AuthService
	Leaderboard     *service.Leaderboard
	Tokens          *notify.TokenIssuer
	// 排行榜未指定 limit 时的条数
	DefaultLimit int
}

func NewHandler(opts Options) *Handler {
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = 10
	}
	return &Handler{
		likeService:     opts.LikeService,
		answerService:   opts.AnswerService,
		questionService: opts.QuestionService,
		rankService:     opts.RankService,
		authService:     opts.AuthService,
		leaderboard:     opts.Leaderboard,
		tokens:          opts.Tokens,
		defaultLimit:    opts.DefaultLimit,
	}
}

// RegisterValidators 注册自定义校验标签，需在路由初始化前调用
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected validator engine")
	}
	return v.RegisterValidation("target_kind", func(fl validator.FieldLevel) bool {
		return model.TargetKind(fl.Field().String()).Valid()
	})
}

// statusOf 业务错误到 HTTP 状态码
func statusOf(err error) int {
	switch {
	case errors.Is(err, service.ErrSelfLike), errors.Is(err, service.ErrInvalidTarget):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrForbidden), errors.Is(err, service.ErrSelfMark):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrUsernameTaken):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// fail 写统一错误响应；500 走 InternalError 记录日志
func fail(c *gin.Context, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		response.InternalError(c, err)
		return
	}
	response.Error(c, status, err.Error())
}

// Healthz 存活检查
func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
