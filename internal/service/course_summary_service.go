package service

import (
	"context"
	"errors"
	"sort"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/huming2207/Teammates-SEPT/internal/metrics"
	"github.com/huming2207/Teammates-SEPT/internal/model"
	"github.com/huming2207/Teammates-SEPT/internal/repository"
	"github.com/huming2207/Teammates-SEPT/internal/roster"
)

// CourseSummaryService 课程摘要查询接口
//
// 设计说明：
//   - 含统计的摘要会读取学生名册并做一次划分；不含统计的摘要只读课程本身
//   - 批量接口遇到教师记录引用已删除课程时只记录日志与指标，结果中省略该课程
//   - 所有结果均为请求级的临时结构，不做缓存
type CourseSummaryService interface {
	GetCourseSummary(ctx context.Context, courseID string) (*CourseDetailsBundle, error)
	GetCourseSummaryWithoutStats(ctx context.Context, courseID string) (*CourseSummaryBundle, error)
	// GetCourseSummaryWithFeedbackSessions 不含统计的摘要并附带课程下的反馈会话
	GetCourseSummaryWithFeedbackSessions(ctx context.Context, instructor *model.Instructor) (*CourseSummaryBundle, error)

	GetCourseSummariesForInstructors(ctx context.Context, instructors []model.Instructor) (map[string]*CourseDetailsBundle, error)
	GetCourseSummariesWithoutStatsForInstructors(ctx context.Context, instructors []model.Instructor) (map[string]*CourseSummaryBundle, error)
	// GetCourseSummariesForAccount 账号名下没有任何教师记录时返回 ErrInstructorNotFound
	GetCourseSummariesForAccount(ctx context.Context, googleID string, omitArchived bool) (map[string]*CourseDetailsBundle, error)
	GetCourseSummariesWithoutStatsForAccount(ctx context.Context, googleID string, omitArchived bool) (map[string]*CourseSummaryBundle, error)

	GetSectionsWithoutStats(ctx context.Context, courseID string) ([]roster.Section, error)
	GetTeams(ctx context.Context, courseID string) ([]roster.Team, error)
	GetSectionNames(ctx context.Context, courseID string) ([]string, error)
	HasIndicatedSections(ctx context.Context, courseID string) (bool, error)

	GetCoursesForStudentAccount(ctx context.Context, googleID string) ([]model.Course, error)
	GetCourseDetailsListForStudent(ctx context.Context, googleID string) ([]*CourseDetailsBundle, error)
	GetCoursesForInstructor(ctx context.Context, googleID string, omitArchived bool) ([]model.Course, error)
	// GetInstructorsForAccount 账号名下全部教师记录（含已归档），以课程ID为键
	GetInstructorsForAccount(ctx context.Context, googleID string) (map[string]*model.Instructor, error)
}

type courseSummaryService struct {
	repo    *repository.Repository
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewCourseSummaryService 创建 CourseSummaryService 实例；m 可为 nil
func NewCourseSummaryService(repo *repository.Repository, m *metrics.Metrics, logger *zap.Logger) CourseSummaryService {
	return &courseSummaryService{repo: repo, metrics: m, logger: logger}
}

// ────────────────────── 单个课程 ──────────────────────

func (s *courseSummaryService) GetCourseSummary(ctx context.Context, courseID string) (*CourseDetailsBundle, error) {
	course, err := s.getCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	return s.buildDetails(ctx, course)
}

func (s *courseSummaryService) GetCourseSummaryWithoutStats(ctx context.Context, courseID string) (*CourseSummaryBundle, error) {
	course, err := s.getCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	return &CourseSummaryBundle{Course: course}, nil
}

func (s *courseSummaryService) GetCourseSummaryWithFeedbackSessions(ctx context.Context, instructor *model.Instructor) (*CourseSummaryBundle, error) {
	bundle, err := s.GetCourseSummaryWithoutStats(ctx, instructor.CourseID)
	if err != nil {
		return nil, err
	}

	sessions, err := s.repo.FeedbackSession.ListByCourse(ctx, instructor.CourseID)
	if err != nil {
		s.logger.Error("查询反馈会话失败", zap.String("course_id", instructor.CourseID), zap.Error(err))
		return nil, err
	}
	bundle.FeedbackSessions = sessions
	return bundle, nil
}

// ────────────────────── 批量（教师视角） ──────────────────────

func (s *courseSummaryService) GetCourseSummariesForInstructors(ctx context.Context, instructors []model.Instructor) (map[string]*CourseDetailsBundle, error) {
	courses, err := s.coursesForInstructors(ctx, instructors)
	if err != nil {
		return nil, err
	}

	result := make(map[string]*CourseDetailsBundle, len(courses))
	for i := range courses {
		bundle, err := s.buildDetails(ctx, &courses[i])
		if err != nil {
			return nil, err
		}
		result[courses[i].CourseID] = bundle
	}
	return result, nil
}

func (s *courseSummaryService) GetCourseSummariesWithoutStatsForInstructors(ctx context.Context, instructors []model.Instructor) (map[string]*CourseSummaryBundle, error) {
	courses, err := s.coursesForInstructors(ctx, instructors)
	if err != nil {
		return nil, err
	}

	result := make(map[string]*CourseSummaryBundle, len(courses))
	for i := range courses {
		result[courses[i].CourseID] = &CourseSummaryBundle{Course: &courses[i]}
	}
	return result, nil
}

func (s *courseSummaryService) GetCourseSummariesForAccount(ctx context.Context, googleID string, omitArchived bool) (map[string]*CourseDetailsBundle, error) {
	instructors, err := s.instructorsForAccount(ctx, googleID, omitArchived)
	if err != nil {
		return nil, err
	}
	return s.GetCourseSummariesForInstructors(ctx, instructors)
}

func (s *courseSummaryService) GetCourseSummariesWithoutStatsForAccount(ctx context.Context, googleID string, omitArchived bool) (map[string]*CourseSummaryBundle, error) {
	instructors, err := s.repo.Instructor.ListByGoogleID(ctx, googleID, omitArchived)
	if err != nil {
		s.logger.Error("查询教师记录失败", zap.String("google_id", googleID), zap.Error(err))
		return nil, err
	}
	return s.GetCourseSummariesWithoutStatsForInstructors(ctx, instructors)
}

func (s *courseSummaryService) GetCoursesForInstructor(ctx context.Context, googleID string, omitArchived bool) ([]model.Course, error) {
	instructors, err := s.repo.Instructor.ListByGoogleID(ctx, googleID, omitArchived)
	if err != nil {
		s.logger.Error("查询教师记录失败", zap.String("google_id", googleID), zap.Error(err))
		return nil, err
	}
	return s.coursesForInstructors(ctx, instructors)
}

func (s *courseSummaryService) GetInstructorsForAccount(ctx context.Context, googleID string) (map[string]*model.Instructor, error) {
	instructors, err := s.repo.Instructor.ListByGoogleID(ctx, googleID, false)
	if err != nil {
		s.logger.Error("查询教师记录失败", zap.String("google_id", googleID), zap.Error(err))
		return nil, err
	}

	byCourse := make(map[string]*model.Instructor, len(instructors))
	for i := range instructors {
		byCourse[instructors[i].CourseID] = &instructors[i]
	}
	return byCourse, nil
}

// ────────────────────── 名册视图 ──────────────────────

func (s *courseSummaryService) GetSectionsWithoutStats(ctx context.Context, courseID string) ([]roster.Section, error) {
	students, err := s.rosterOf(ctx, courseID)
	if err != nil {
		return nil, err
	}
	roster.SortBySectionThenTeam(students)
	return roster.PartitionWithoutStats(students), nil
}

func (s *courseSummaryService) GetTeams(ctx context.Context, courseID string) ([]roster.Team, error) {
	students, err := s.rosterOf(ctx, courseID)
	if err != nil {
		return nil, err
	}
	roster.SortByTeam(students)
	return roster.GroupTeams(students), nil
}

func (s *courseSummaryService) GetSectionNames(ctx context.Context, courseID string) ([]string, error) {
	students, err := s.rosterOf(ctx, courseID)
	if err != nil {
		return nil, err
	}
	return roster.SectionNames(students), nil
}

func (s *courseSummaryService) HasIndicatedSections(ctx context.Context, courseID string) (bool, error) {
	students, err := s.rosterOf(ctx, courseID)
	if err != nil {
		return false, err
	}
	return roster.HasIndicatedSections(students), nil
}

// ────────────────────── 学生视角 ──────────────────────

func (s *courseSummaryService) GetCoursesForStudentAccount(ctx context.Context, googleID string) ([]model.Course, error) {
	students, err := s.repo.Student.ListByGoogleID(ctx, googleID)
	if err != nil {
		s.logger.Error("查询学生记录失败", zap.String("google_id", googleID), zap.Error(err))
		return nil, err
	}
	if len(students) == 0 {
		return nil, ErrStudentNotFound
	}

	ids := make([]string, 0, len(students))
	for i := range students {
		ids = append(ids, students[i].CourseID)
	}

	courses, err := s.repo.Course.ListByIDs(ctx, ids)
	if err != nil {
		s.logger.Error("批量查询课程失败", zap.Strings("course_ids", ids), zap.Error(err))
		return nil, err
	}
	return courses, nil
}

// GetCourseDetailsListForStudent 学生所在的全部课程（按课程ID排序）及各课程的反馈会话
func (s *courseSummaryService) GetCourseDetailsListForStudent(ctx context.Context, googleID string) ([]*CourseDetailsBundle, error) {
	courses, err := s.GetCoursesForStudentAccount(ctx, googleID)
	if err != nil {
		return nil, err
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].CourseID < courses[j].CourseID })

	result := make([]*CourseDetailsBundle, 0, len(courses))
	for i := range courses {
		course := &courses[i]

		if _, err := s.repo.Student.GetByCourseAndGoogleID(ctx, course.CourseID, googleID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				ids := make([]string, 0, len(courses))
				for _, c := range courses {
					ids = append(ids, c.CourseID)
				}
				s.logger.Error("学生记录缺失：课程列表与学生记录不一致",
					zap.String("google_id", googleID),
					zap.String("course_id", course.CourseID),
					zap.Strings("all_course_ids", ids),
				)
				s.metrics.RecordInconsistency(metrics.KindStudentWithoutRecord, 1)
				return nil, ErrInconsistentState
			}
			s.logger.Error("查询学生记录失败", zap.String("course_id", course.CourseID), zap.Error(err))
			return nil, err
		}

		sessions, err := s.repo.FeedbackSession.ListByCourse(ctx, course.CourseID)
		if err != nil {
			s.logger.Error("查询反馈会话失败", zap.String("course_id", course.CourseID), zap.Error(err))
			return nil, err
		}

		result = append(result, &CourseDetailsBundle{
			Course:           course,
			Sections:         []roster.Section{},
			FeedbackSessions: sessions,
		})
	}
	return result, nil
}

// ── 内部辅助方法 ──

func (s *courseSummaryService) getCourse(ctx context.Context, courseID string) (*model.Course, error) {
	course, err := s.repo.Course.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("查询课程失败", zap.String("course_id", courseID), zap.Error(err))
		return nil, err
	}
	return course, nil
}

// buildDetails 读取名册，按 (section, team) 排序后划分
func (s *courseSummaryService) buildDetails(ctx context.Context, course *model.Course) (*CourseDetailsBundle, error) {
	students, err := s.repo.Student.ListByCourse(ctx, course.CourseID)
	if err != nil {
		s.logger.Error("查询学生名册失败", zap.String("course_id", course.CourseID), zap.Error(err))
		return nil, err
	}

	entries := toRosterStudents(students)
	roster.SortBySectionThenTeam(entries)
	sections, stats := roster.Partition(entries)

	return &CourseDetailsBundle{
		Course:   course,
		Sections: sections,
		Stats:    stats,
	}, nil
}

// rosterOf 校验课程存在后返回未排序的名册
func (s *courseSummaryService) rosterOf(ctx context.Context, courseID string) ([]roster.Student, error) {
	if _, err := s.getCourse(ctx, courseID); err != nil {
		return nil, err
	}

	students, err := s.repo.Student.ListByCourse(ctx, courseID)
	if err != nil {
		s.logger.Error("查询学生名册失败", zap.String("course_id", courseID), zap.Error(err))
		return nil, err
	}
	return toRosterStudents(students), nil
}

func (s *courseSummaryService) instructorsForAccount(ctx context.Context, googleID string, omitArchived bool) ([]model.Instructor, error) {
	all, err := s.repo.Instructor.ListByGoogleID(ctx, googleID, false)
	if err != nil {
		s.logger.Error("查询教师记录失败", zap.String("google_id", googleID), zap.Error(err))
		return nil, err
	}
	if len(all) == 0 {
		return nil, ErrInstructorNotFound
	}
	if !omitArchived {
		return all, nil
	}

	active := make([]model.Instructor, 0, len(all))
	for i := range all {
		if !all[i].IsArchived {
			active = append(active, all[i])
		}
	}
	return active, nil
}

// coursesForInstructors 按教师记录批量查询课程
// 查不到的课程视为不一致：记录日志与指标后从结果中省略，不中断批量
func (s *courseSummaryService) coursesForInstructors(ctx context.Context, instructors []model.Instructor) ([]model.Course, error) {
	seen := make(map[string]bool, len(instructors))
	ids := make([]string, 0, len(instructors))
	for i := range instructors {
		id := instructors[i].CourseID
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	courses, err := s.repo.Course.ListByIDs(ctx, ids)
	if err != nil {
		s.logger.Error("批量查询课程失败", zap.Strings("course_ids", ids), zap.Error(err))
		return nil, err
	}

	if len(courses) < len(ids) {
		found := make(map[string]bool, len(courses))
		for i := range courses {
			found[courses[i].CourseID] = true
		}
		missing := make([]string, 0, len(ids)-len(courses))
		for _, id := range ids {
			if !found[id] {
				missing = append(missing, id)
			}
		}
		s.logger.Error("课程已删除但教师记录仍然存在", zap.Strings("course_ids", missing))
		s.metrics.RecordInconsistency(metrics.KindInstructorWithoutCourse, len(missing))
	}

	return courses, nil
}
