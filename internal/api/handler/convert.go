package handler

import (
	"sort"
	"time"

	"github.com/huming2207/Teammates-SEPT/internal/dto"
	"github.com/huming2207/Teammates-SEPT/internal/model"
	"github.com/huming2207/Teammates-SEPT/internal/roster"
	"github.com/huming2207/Teammates-SEPT/internal/service"
	"github.com/huming2207/Teammates-SEPT/internal/validation"
)

// ── 模型 → 响应 DTO ──

func toCourseResponse(course *model.Course) dto.CourseResponse {
	return dto.CourseResponse{
		ID:        course.CourseID,
		Name:      course.Name,
		TimeZone:  course.TimeZone,
		IsSample:  validation.IsSampleCourseID(course.CourseID),
		Version:   course.Version,
		CreatedAt: formatTime(course.CreatedAt),
	}
}

func toFeedbackSessionResponses(sessions []model.FeedbackSession) []dto.FeedbackSessionResponse {
	out := make([]dto.FeedbackSessionResponse, 0, len(sessions))
	for i := range sessions {
		out = append(out, dto.FeedbackSessionResponse{
			Name:      sessions[i].SessionName,
			TimeZone:  sessions[i].TimeZone,
			StartTime: formatTime(sessions[i].StartTime),
			EndTime:   formatTime(sessions[i].EndTime),
		})
	}
	return out
}

func toCourseDetailsResponse(bundle *service.CourseDetailsBundle, archived bool) dto.CourseDetailsResponse {
	sections := bundle.Sections
	if sections == nil {
		sections = []roster.Section{}
	}
	return dto.CourseDetailsResponse{
		Course:           toCourseResponse(bundle.Course),
		Stats:            bundle.Stats,
		Sections:         sections,
		FeedbackSessions: toFeedbackSessionResponses(bundle.FeedbackSessions),
		IsArchived:       archived,
	}
}

func toCourseSummaryResponse(bundle *service.CourseSummaryBundle, archived bool) dto.CourseSummaryResponse {
	return dto.CourseSummaryResponse{
		Course:           toCourseResponse(bundle.Course),
		FeedbackSessions: toFeedbackSessionResponses(bundle.FeedbackSessions),
		IsArchived:       archived,
	}
}

// sortedKeys 按课程ID排序，保证列表响应顺序稳定
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
