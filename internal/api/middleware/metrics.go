package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/huming2207/Teammates-SEPT/internal/metrics"
)

// Metrics 请求计数与耗时中间件；路由维度使用注册路径，避免路径参数导致标签爆炸
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
