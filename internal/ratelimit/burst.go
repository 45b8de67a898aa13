package ratelimit

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/qa-forum/pkg/logger"
	"github.com/d60-Lab/qa-forum/pkg/response"
)

var periodSeconds = map[string]time.Duration{
	"minute": time.Minute,
	"hour":   time.Hour,
	"day":    24 * time.Hour,
}

// Burst 按客户端 IP 的固定窗口提交计数（每个周期一个计数器）
type Burst struct {
	client *redis.Client
	limits map[string]int
}

// NewBurst ignores periods other than minute/hour/day.
func NewBurst(client *redis.Client, limits map[string]int) *Burst {
	clean := make(map[string]int, len(limits))
	for period, limit := range limits {
		if _, ok := periodSeconds[period]; ok && limit > 0 {
			clean[period] = limit
		}
	}
	return &Burst{client: client, limits: clean}
}

func key(scope, client, period string) string {
	return fmt.Sprintf("burst:%s:%s:%s", scope, client, period)
}

// Exceeded 返回已达上限的周期
func (b *Burst) Exceeded(ctx context.Context, scope, client string) ([]string, error) {
	var exceeded []string
	for period, limit := range b.limits {
		n, err := b.client.Get(ctx, key(scope, client, period)).Int()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return nil, err
		}
		if n >= limit {
			exceeded = append(exceeded, period)
		}
	}
	sort.Strings(exceeded)
	return exceeded, nil
}

// Increment 计数 +1；首次计数时设置窗口过期
func (b *Burst) Increment(ctx context.Context, scope, client string) error {
	for period := range b.limits {
		k := key(scope, client, period)
		n, err := b.client.Incr(ctx, k).Result()
		if err != nil {
			return err
		}
		if n == 1 {
			if err := b.client.Expire(ctx, k, periodSeconds[period]).Err(); err != nil {
				return err
			}
		}
	}
	return nil
}

// Middleware 对 POST 请求做频率检查；只有状态码在 countCodes 中的响应才计数
func (b *Burst) Middleware(scope string, countCodes ...int) gin.HandlerFunc {
	if len(countCodes) == 0 {
		countCodes = []int{http.StatusCreated, http.StatusAccepted}
	}
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost || len(b.limits) == 0 {
			c.Next()
			return
		}
		ip := ClientIP(c.Request)
		ctx := c.Request.Context()

		exceeded, err := b.Exceeded(ctx, scope, ip)
		if err != nil {
			// 计数存储不可用时放行
			logger.Warn("burst check failed", zap.String("scope", scope), zap.Error(err))
		} else if len(exceeded) > 0 {
			response.TooManyRequests(c, "too many submissions, try again later")
			c.Abort()
			return
		}

		c.Next()

		status := c.Writer.Status()
		for _, code := range countCodes {
			if status == code {
				if err := b.Increment(ctx, scope, ip); err != nil {
					logger.Warn("burst increment failed", zap.String("scope", scope), zap.Error(err))
				}
				return
			}
		}
	}
}

// ClientIP 依次取 X-Real-IP、X-Forwarded-For 第一个地址、RemoteAddr
func ClientIP(r *http.Request) string {
	ip := strings.TrimSpace(r.Header.Get("X-Real-IP"))
	if ip == "" {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			ip = strings.TrimSpace(strings.Split(xff, ",")[0])
		}
	}
	if ip == "" {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}
		ip = host
	}
	return ip
}
