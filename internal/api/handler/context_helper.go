package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/huming2207/Teammates-SEPT/internal/api/middleware"
	"github.com/huming2207/Teammates-SEPT/pkg/response"
)

// MustGetGoogleID 从 Gin 上下文中安全提取当前账号的 google_id。
// 如果 JWT 中间件未正确注入，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetGoogleID(c *gin.Context) (string, bool) {
	v, exists := c.Get(middleware.ContextGoogleID)
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// tokenRemainingTTL 当前 Token 的剩余有效期；缺失时返回 0
func tokenRemainingTTL(c *gin.Context) time.Duration {
	v, exists := c.Get(middleware.ContextTokenExp)
	if !exists {
		return 0
	}
	exp, ok := v.(time.Time)
	if !ok {
		return 0
	}
	return time.Until(exp)
}
