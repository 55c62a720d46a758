package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/huming2207/Teammates-SEPT/internal/api/middleware"
	"github.com/huming2207/Teammates-SEPT/pkg/redis"
	"github.com/huming2207/Teammates-SEPT/pkg/response"
)

// AuthHandler 认证模块 HTTP 处理器
// Token 由外部身份服务签发，本服务只负责注销（写入吊销名单）
type AuthHandler struct {
	rdb    *redis.Client
	logger *zap.Logger
}

// NewAuthHandler 创建 AuthHandler
func NewAuthHandler(rdb *redis.Client, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{rdb: rdb, logger: logger}
}

// Logout 注销当前 Token
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if _, ok := MustGetGoogleID(c); !ok {
		return
	}

	jti := c.GetString(middleware.ContextJTI)
	if h.rdb == nil || jti == "" {
		middleware.GetLogger(c, h.logger).Warn("Redis 不可用，Token 未加入吊销名单")
		response.OK(c, nil)
		return
	}

	if err := h.rdb.BlacklistToken(c.Request.Context(), jti, tokenRemainingTTL(c)); err != nil {
		middleware.GetLogger(c, h.logger).Error("写入 Token 吊销名单失败", zap.String("jti", jti), zap.Error(err))
		response.InternalError(c)
		return
	}

	response.OK(c, nil)
}
