package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/qa-forum/internal/api/middleware"
	"github.com/d60-Lab/qa-forum/internal/model"
	"github.com/d60-Lab/qa-forum/pkg/response"
)

type likeRequest struct {
	Kind     string `json:"kind" binding:"required,target_kind" example:"answer"`
	TargetID string `json:"target_id" binding:"required" example:"6f1c2a7e-8d1b-4d7a-9d8e-2f0a1b3c4d5e"`
	// 指针区分 false 与缺省
	IsLike *bool `json:"is_like" binding:"required" example:"true"`
}

// Like 点赞 / 取消点赞
// @Summary 点赞或取消点赞问题/回答
// @Tags 评分
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body likeRequest true "点赞信息"
// @Success 200 {object} response.Result
// @Failure 400 {object} response.Result
// @Failure 404 {object} response.Result
// @Router /api/v1/likes [post]
func (h *Handler) Like(c *gin.Context) {
	var req likeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ResultFail(c, http.StatusBadRequest, err.Error())
		return
	}
	rating, err := h.likeService.ToggleLike(c.Request.Context(), middleware.CurrentUserID(c),
		model.TargetKind(req.Kind), req.TargetID, *req.IsLike)
	if err != nil {
		status := statusOf(err)
		if status == http.StatusInternalServerError {
			response.InternalError(c, err)
			return
		}
		response.ResultFail(c, status, err.Error())
		return
	}
	response.ResultOK(c, &rating)
}

// MarkCorrect 采纳答案
// @Summary 问题作者采纳答案
// @Tags 评分
// @Produce json
// @Security BearerAuth
// @Param id path string true "回答ID"
// @Success 200 {object} response.Result
// @Failure 403 {object} response.Result
// @Failure 404 {object} response.Result
// @Router /api/v1/answers/{id}/correct [post]
func (h *Handler) MarkCorrect(c *gin.Context) {
	err := h.answerService.MarkCorrect(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		status := statusOf(err)
		if status == http.StatusInternalServerError {
			response.InternalError(c, err)
			return
		}
		response.ResultFail(c, status, err.Error())
		return
	}
	response.ResultOK(c, nil)
}

// Leaderboard 排行榜
// @Summary 查询用户排行榜（缓存）
// @Tags 排行榜
// @Produce json
// @Param limit query int false "条数" default(10)
// @Success 200 {object} response.Response{data=[]model.LeaderboardEntry}
// @Failure 400 {object} response.Response
// @Router /api/v1/leaderboard [get]
func (h *Handler) Leaderboard(c *gin.Context) {
	limit := h.defaultLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			response.BadRequest(c, "limit must be an integer")
			return
		}
		limit = n
	}
	entries, err := h.leaderboard.GetTopUsers(c.Request.Context(), limit)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, entries)
}

// RecalculateRanks 重新计算排名
// @Summary 全量重算用户排名
// @Tags 排行榜
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /api/v1/leaderboard/recalculate [post]
func (h *Handler) RecalculateRanks(c *gin.Context) {
	if err := h.rankService.RecalculateRanks(c.Request.Context()); err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, nil)
}
