package service

import (
	"go.uber.org/zap"

	"github.com/huming2207/Teammates-SEPT/config"
	"github.com/huming2207/Teammates-SEPT/internal/metrics"
	"github.com/huming2207/Teammates-SEPT/internal/repository"
)

// Service 所有 Service 的聚合入口
type Service struct {
	CourseSummary CourseSummaryService
	Course        CourseService
	Export        ExportService
}

// NewService 创建 Service 聚合；m 为 nil 时不上报指标
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Service {
	summary := NewCourseSummaryService(repo, m, logger)
	return &Service{
		CourseSummary: summary,
		Course:        NewCourseService(&cfg.Course, repo, logger),
		Export:        NewExportService(&cfg.Export, repo, summary, logger),
	}
}
