package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/huming2207/Teammates-SEPT/config"
	"github.com/huming2207/Teammates-SEPT/internal/api/handler"
	"github.com/huming2207/Teammates-SEPT/internal/api/middleware"
	"github.com/huming2207/Teammates-SEPT/internal/metrics"
	"github.com/huming2207/Teammates-SEPT/pkg/jwt"
	"github.com/huming2207/Teammates-SEPT/pkg/redis"
)

// HealthChecker 健康检查依赖（数据库）
type HealthChecker func() error

// Setup 初始化并返回 Gin 路由引擎
// rdb 为 nil 时限流与 Token 吊销均降级；m 为 nil 时 /metrics 返回 404
func Setup(
	cfg *config.Config,
	h *handler.Handler,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	m *metrics.Metrics,
	health HealthChecker,
	logger *zap.Logger,
) *gin.Engine {
	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Metrics(m))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	// ── 健康检查与指标 ──
	r.GET("/health", func(c *gin.Context) {
		if health != nil {
			if err := health(); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(m.Handler()))

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	v1.Use(middleware.JWTAuth(jwtMgr, rdb, logger))
	{
		v1.POST("/auth/logout", h.Auth.Logout)

		// 课程模块（教师）
		courses := v1.Group("/courses")
		courses.Use(middleware.RoleAuth(jwt.RoleInstructor, jwt.RoleAdmin))
		{
			courses.POST("", h.Course.CreateCourse)
			courses.GET("", h.Course.ListCourses)
			courses.GET("/summary", h.Course.ListCourseSummaries)
			courses.GET("/:id", h.Course.GetCourse)
			courses.GET("/:id/sections", h.Course.GetSections)
			courses.GET("/:id/teams", h.Course.GetTeams)
			courses.GET("/:id/section-names", h.Course.GetSectionNames)
			courses.PUT("/:id", h.Course.UpdateCourse)
			courses.DELETE("/:id", h.Course.DeleteCourse)

			// 导出按账号限流
			courses.GET("/:id/export",
				middleware.RateLimit(rdb, cfg.Export.RateLimit, cfg.Export.RateLimitWindow, logger),
				h.Export.ExportStudentList,
			)
		}

		// 学生视角
		v1.GET("/students/me/courses", h.Student.ListMyCourses)
	}

	return r
}
