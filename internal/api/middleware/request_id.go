package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/huming2207/Teammates-SEPT/pkg/logger"
)

const (
	requestIDKey = "request_id"
	loggerKey    = "logger"
)

// requestIDMaxLen 限制外部传入的 Request-ID 最大长度，防止日志注入
const requestIDMaxLen = 64

// RequestID 请求追踪 ID 中间件
// 从请求头 X-Request-ID 读取，若不存在则自动生成 UUID；
// 同时注入带 request_id 字段的请求级 logger
func RequestID(base *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader("X-Request-ID")
		if rid == "" || len(rid) > requestIDMaxLen {
			rid = uuid.New().String()
		}

		c.Set(requestIDKey, rid)
		c.Set(loggerKey, logger.WithRequestID(base, rid))
		c.Header("X-Request-ID", rid)

		c.Next()
	}
}

// GetLogger 取请求级 logger；未经过 RequestID 中间件时返回 fallback
func GetLogger(c *gin.Context, fallback *zap.Logger) *zap.Logger {
	if v, ok := c.Get(loggerKey); ok {
		if l, ok := v.(*zap.Logger); ok {
			return l
		}
	}
	return fallback
}
