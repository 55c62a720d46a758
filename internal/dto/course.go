package dto

// ── 课程模块 DTO ──

// CreateCourseRequest 创建课程请求
// 字段内容由 validation 包统一校验并返回全部错误信息，这里只拦截超长输入
type CreateCourseRequest struct {
	ID       string `json:"id"        binding:"max=255"`
	Name     string `json:"name"      binding:"max=255"`
	TimeZone string `json:"time_zone" binding:"max=255"`
}

// UpdateCourseRequest 更新课程请求（course_id 取自路径）
type UpdateCourseRequest struct {
	Name     string `json:"name"      binding:"max=255"`
	TimeZone string `json:"time_zone" binding:"max=255"`
}

// ListCoursesQuery 课程列表查询参数
type ListCoursesQuery struct {
	OmitArchived bool `form:"omit_archived"`
}

// ExportQuery 名册导出查询参数
type ExportQuery struct {
	Format string `form:"format" binding:"omitempty,oneof=csv pdf xlsx json"`
}

// GetFormat 获取导出格式（默认 csv）
func (q *ExportQuery) GetFormat() string {
	if q.Format == "" {
		return "csv"
	}
	return q.Format
}
