package dto

import "github.com/huming2207/Teammates-SEPT/internal/roster"

// ── 课程模块响应 ──

// CourseResponse 课程基本信息
type CourseResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	TimeZone  string `json:"time_zone"`
	IsSample  bool   `json:"is_sample"`
	Version   int    `json:"version"`
	CreatedAt string `json:"created_at"`
}

// FeedbackSessionResponse 反馈会话简要信息
type FeedbackSessionResponse struct {
	Name      string `json:"name"`
	TimeZone  string `json:"time_zone"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// CourseDetailsResponse 课程 + 名册 + 统计
type CourseDetailsResponse struct {
	Course           CourseResponse            `json:"course"`
	Stats            roster.Stats              `json:"stats"`
	Sections         []roster.Section          `json:"sections"`
	FeedbackSessions []FeedbackSessionResponse `json:"feedback_sessions"`
	IsArchived       bool                      `json:"is_archived"`
}

// CourseSummaryResponse 不含名册的课程摘要
type CourseSummaryResponse struct {
	Course           CourseResponse            `json:"course"`
	FeedbackSessions []FeedbackSessionResponse `json:"feedback_sessions"`
	IsArchived       bool                      `json:"is_archived"`
}

// SectionNamesResponse 分组名列表
type SectionNamesResponse struct {
	SectionNames         []string `json:"section_names"`
	HasIndicatedSections bool     `json:"has_indicated_sections"`
}
