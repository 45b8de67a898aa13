package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/qa-forum/internal/api/middleware"
	"github.com/d60-Lab/qa-forum/internal/notify"
	"github.com/d60-Lab/qa-forum/pkg/response"
)

type signupRequest struct {
	Username string `json:"username" binding:"required,min=3,max=64,alphanum"`
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Signup 注册
// @Summary 注册账号
// @Tags 账号
// @Accept json
// @Produce json
// @Param request body signupRequest true "注册信息"
// @Success 201 {object} response.Response{data=model.UserSummary}
// @Failure 409 {object} response.Response
// @Router /api/v1/auth/signup [post]
func (h *Handler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	user, err := h.authService.Signup(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, user.Summary())
}

// Login 登录
// @Summary 登录获取 token
// @Tags 账号
// @Accept json
// @Produce json
// @Param request body loginRequest true "登录信息"
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Failure 401 {object} response.Response
// @Router /api/v1/auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	token, user, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"token": token, "user": user.Summary()})
}

// RealtimeToken Centrifugo 连接/订阅令牌
// @Summary 获取实时推送令牌
// @Tags 实时
// @Produce json
// @Security BearerAuth
// @Param channel query string false "订阅频道（question_<id> / likes_<id>）"
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Router /api/v1/realtime/token [get]
func (h *Handler) RealtimeToken(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	conn, err := h.tokens.ConnectionToken(userID)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	data := gin.H{"token": conn}

	if channel := c.Query("channel"); channel != "" {
		if !strings.HasPrefix(channel, notify.QuestionChannel("")) && !strings.HasPrefix(channel, notify.LikesChannel("")) {
			response.BadRequest(c, "unknown channel")
			return
		}
		sub, err := h.tokens.SubscriptionToken(userID, channel)
		if err != nil {
			response.InternalError(c, err)
			return
		}
		data["channel"] = channel
		data["subscription_token"] = sub
	}
	response.Success(c, data)
}
