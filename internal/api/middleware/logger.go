package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// 探活与指标抓取频率高，只在 debug 级别记录
var quietPaths = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

// Logger 请求日志中间件（基于 Zap 结构化日志）
// 命中路由时记录路由模板，课程相关请求额外记录 course_id
func Logger(base *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		statusCode := c.Writer.Status()

		fields := []zap.Field{
			zap.Int("status", statusCode),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.String("ip", c.ClientIP()),
			zap.Duration("latency", latency),
		}
		if route := c.FullPath(); route != "" {
			fields = append(fields, zap.String("route", route))
		}
		if courseID := c.Param("id"); courseID != "" {
			fields = append(fields, zap.String("course_id", courseID))
		}
		if gid := c.GetString(ContextGoogleID); gid != "" {
			fields = append(fields, zap.String("google_id", gid))
		}

		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.ByType(gin.ErrorTypePrivate).String()))
		}

		l := GetLogger(c, base)
		switch {
		case statusCode >= 500:
			l.Error("请求处理失败", fields...)
		case statusCode >= 400:
			l.Warn("客户端错误", fields...)
		case quietPaths[path]:
			l.Debug("请求完成", fields...)
		default:
			l.Info("请求完成", fields...)
		}
	}
}
