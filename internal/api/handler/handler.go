package handler

import (
	"go.uber.org/zap"

	"github.com/huming2207/Teammates-SEPT/internal/service"
	"github.com/huming2207/Teammates-SEPT/pkg/redis"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth    *AuthHandler
	Course  *CourseHandler
	Export  *ExportHandler
	Student *StudentHandler
}

// NewHandler 创建 Handler 聚合；rdb 可为 nil
func NewHandler(svc *service.Service, rdb *redis.Client, logger *zap.Logger) *Handler {
	return &Handler{
		Auth:    NewAuthHandler(rdb, logger),
		Course:  NewCourseHandler(svc.Course, svc.CourseSummary),
		Export:  NewExportHandler(svc.Course, svc.Export),
		Student: NewStudentHandler(svc.CourseSummary),
	}
}
