package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/qa-forum/pkg/logger"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Code: 0, Message: "success", Data: data})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{Code: 0, Message: "created", Data: data})
}

func Error(c *gin.Context, status int, message string) {
	c.JSON(status, Response{Code: status, Message: message})
}

func BadRequest(c *gin.Context, message string) { Error(c, http.StatusBadRequest, message) }

func Unauthorized(c *gin.Context, message string) { Error(c, http.StatusUnauthorized, message) }

func Forbidden(c *gin.Context, message string) { Error(c, http.StatusForbidden, message) }

func NotFound(c *gin.Context, message string) { Error(c, http.StatusNotFound, message) }

func TooManyRequests(c *gin.Context, message string) { Error(c, http.StatusTooManyRequests, message) }

// InternalError 记录错误并返回 500，不把内部细节透出给客户端
func InternalError(c *gin.Context, err error) {
	logger.Error("internal error", zap.String("path", c.FullPath()), zap.Error(err))
	Error(c, http.StatusInternalServerError, "internal server error")
}

// Result 点赞/采纳接口使用的扁平结构：{success, rating} / {success:false, error}
type Result struct {
	Success bool   `json:"success"`
	Rating  *int   `json:"rating,omitempty"`
	Error   string `json:"error,omitempty"`
}

func ResultOK(c *gin.Context, rating *int) {
	c.JSON(http.StatusOK, Result{Success: true, Rating: rating})
}

func ResultFail(c *gin.Context, status int, message string) {
	c.JSON(status, Result{Success: false, Error: message})
}
