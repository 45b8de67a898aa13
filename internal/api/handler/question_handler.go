package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/qa-forum/internal/api/middleware"
	"github.com/d60-Lab/qa-forum/internal/repository"
	"github.com/d60-Lab/qa-forum/pkg/response"
)

type createQuestionRequest struct {
	Title    string   `json:"title" binding:"required,max=255" example:"How do I cancel a context?"`
	Detailed string   `json:"detailed" binding:"required"`
	Tags     []string `json:"tags" binding:"max=10,dive,required,max=64"`
}

type createAnswerRequest struct {
	Text string `json:"text" binding:"required"`
}

// CreateQuestion 提问
// @Summary 创建问题
// @Tags 问答
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body createQuestionRequest true "问题"
// @Success 201 {object} response.Response{data=model.Question}
// @Failure 400 {object} response.Response
// @Failure 429 {object} response.Response
// @Router /api/v1/questions [post]
func (h *Handler) CreateQuestion(c *gin.Context) {
	var req createQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	q, err := h.questionService.CreateQuestion(c.Request.Context(), middleware.CurrentUserID(c), req.Title, req.Detailed, req.Tags)
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, q)
}

// ListQuestions 问题列表
// @Summary 问题列表（new / hot，可按标签过滤）
// @Tags 问答
// @Produce json
// @Param sort query string false "排序" Enums(new, hot) default(new)
// @Param tag query string false "标签"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=service.QuestionPage}
// @Router /api/v1/questions [get]
func (h *Handler) ListQuestions(c *gin.Context) {
	sort := repository.QuestionSort(c.DefaultQuery("sort", string(repository.SortNew)))
	if sort != repository.SortHot {
		sort = repository.SortNew
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if pageSize > 100 {
		pageSize = 100
	}
	result, err := h.questionService.ListQuestions(c.Request.Context(), sort, c.Query("tag"), page, pageSize)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, result)
}

// GetQuestion 问题详情
// @Summary 问题详情（采纳答案置顶）
// @Tags 问答
// @Produce json
// @Param id path string true "问题ID"
// @Param sort query string false "回答排序" Enums(best, new) default(best)
// @Success 200 {object} response.Response{data=service.QuestionDetail}
// @Failure 404 {object} response.Response
// @Router /api/v1/questions/{id} [get]
func (h *Handler) GetQuestion(c *gin.Context) {
	sort := repository.AnswerSort(c.DefaultQuery("sort", string(repository.AnswerSortBest)))
	if sort != repository.AnswerSortNew {
		sort = repository.AnswerSortBest
	}
	detail, err := h.questionService.GetQuestion(c.Request.Context(), c.Param("id"), sort)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, detail)
}

// CreateAnswer 回答问题
// @Summary 创建回答
// @Tags 问答
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "问题ID"
// @Param request body createAnswerRequest true "回答"
// @Success 201 {object} response.Response{data=model.Answer}
// @Failure 404 {object} response.Response
// @Failure 429 {object} response.Response
// @Router /api/v1/questions/{id}/answers [post]
func (h *Handler) CreateAnswer(c *gin.Context) {
	var req createAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	answer, err := h.answerService.CreateAnswer(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), req.Text)
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, answer)
}

// PopularTags 热门标签
// @Summary 热门标签（缓存 7 天）
// @Tags 问答
// @Produce json
// @Success 200 {object} response.Response{data=[]model.PopularTag}
// @Router /api/v1/tags/popular [get]
func (h *Handler) PopularTags(c *gin.Context) {
	tags, err := h.questionService.PopularTags(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, tags)
}
