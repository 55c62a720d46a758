package service

import (
	"github.com/huming2207/Teammates-SEPT/internal/model"
	"github.com/huming2207/Teammates-SEPT/internal/roster"
)

// CourseDetailsBundle 课程 + 划分后的名册与统计；每次请求重新构建，不持久化
type CourseDetailsBundle struct {
	Course           *model.Course
	Sections         []roster.Section
	Stats            roster.Stats
	FeedbackSessions []model.FeedbackSession
}

// CourseSummaryBundle 不含名册的课程摘要，用于列表视图
type CourseSummaryBundle struct {
	Course           *model.Course
	FeedbackSessions []model.FeedbackSession
}

// toRosterStudents 将持久化的学生记录转换为划分算法的输入
// section_name 为空时归入默认分组
func toRosterStudents(students []model.Student) []roster.Student {
	out := make([]roster.Student, 0, len(students))
	for i := range students {
		section := students[i].SectionName
		if section == "" {
			section = roster.DefaultSection
		}
		out = append(out, roster.Student{
			CourseID: students[i].CourseID,
			Email:    students[i].Email,
			Name:     students[i].Name,
			LastName: students[i].LastName,
			Section:  section,
			Team:     students[i].TeamName,
			GoogleID: students[i].GoogleID,
			Comments: students[i].Comments,
		})
	}
	return out
}
