package service

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/huming2207/Teammates-SEPT/internal/model"
	"github.com/huming2207/Teammates-SEPT/internal/repository"
	pkgerrors "github.com/huming2207/Teammates-SEPT/pkg/errors"
)

// ── Mock CourseRepository ──

type mockCourseRepo struct {
	courses map[string]*model.Course

	createErr   error
	deleteErr   error
	deleteCalls int
}

func newMockCourseRepo() *mockCourseRepo {
	return &mockCourseRepo{courses: make(map[string]*model.Course)}
}

func (m *mockCourseRepo) Create(_ context.Context, course *model.Course) error {
	if m.createErr != nil {
		return m.createErr
	}
	if _, ok := m.courses[course.CourseID]; ok {
		return gorm.ErrDuplicatedKey
	}
	if course.Version == 0 {
		course.Version = 1
	}
	c := *course
	m.courses[course.CourseID] = &c
	return nil
}

func (m *mockCourseRepo) GetByID(_ context.Context, id string) (*model.Course, error) {
	if c, ok := m.courses[id]; ok {
		out := *c
		return &out, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCourseRepo) ListByIDs(_ context.Context, ids []string) ([]model.Course, error) {
	result := []model.Course{}
	seen := make(map[string]bool)
	for _, id := range ids {
		if c, ok := m.courses[id]; ok && !seen[id] {
			seen[id] = true
			result = append(result, *c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CourseID < result[j].CourseID })
	return result, nil
}

func (m *mockCourseRepo) Update(_ context.Context, course *model.Course) error {
	stored, ok := m.courses[course.CourseID]
	if !ok || stored.Version != course.Version {
		return pkgerrors.ErrOptimisticLock
	}
	course.Version++
	c := *course
	m.courses[course.CourseID] = &c
	return nil
}

func (m *mockCourseRepo) Delete(_ context.Context, id string) error {
	m.deleteCalls++
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.courses, id)
	return nil
}

// ── Mock AccountRepository ──

type mockAccountRepo struct {
	accounts map[string]*model.Account
}

func newMockAccountRepo() *mockAccountRepo {
	return &mockAccountRepo{accounts: map[string]*model.Account{
		"inst.google": {GoogleID: "inst.google", Name: "Ins Tructor", Email: "inst@example.com", IsInstructor: true},
		"stud.google": {GoogleID: "stud.google", Name: "Stu Dent", Email: "stud@example.com"},
	}}
}

func (m *mockAccountRepo) GetByGoogleID(_ context.Context, googleID string) (*model.Account, error) {
	if a, ok := m.accounts[googleID]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock InstructorRepository ──

type mockInstructorRepo struct {
	instructors []*model.Instructor
	createErr   error
}

func newMockInstructorRepo() *mockInstructorRepo {
	return &mockInstructorRepo{}
}

func (m *mockInstructorRepo) Create(_ context.Context, instructor *model.Instructor) error {
	if m.createErr != nil {
		return m.createErr
	}
	for _, i := range m.instructors {
		if i.CourseID == instructor.CourseID && i.Email == instructor.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	if instructor.InstructorID == "" {
		instructor.InstructorID = uuid.NewString()
	}
	m.instructors = append(m.instructors, instructor)
	return nil
}

func (m *mockInstructorRepo) GetByCourseAndGoogleID(_ context.Context, courseID, googleID string) (*model.Instructor, error) {
	for _, i := range m.instructors {
		if i.CourseID == courseID && i.GoogleID != nil && *i.GoogleID == googleID {
			return i, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockInstructorRepo) ListByGoogleID(_ context.Context, googleID string, omitArchived bool) ([]model.Instructor, error) {
	var result []model.Instructor
	for _, i := range m.instructors {
		if i.GoogleID == nil || *i.GoogleID != googleID {
			continue
		}
		if omitArchived && i.IsArchived {
			continue
		}
		result = append(result, *i)
	}
	return result, nil
}

func (m *mockInstructorRepo) ListByCourse(_ context.Context, courseID string) ([]model.Instructor, error) {
	var result []model.Instructor
	for _, i := range m.instructors {
		if i.CourseID == courseID {
			result = append(result, *i)
		}
	}
	return result, nil
}

func (m *mockInstructorRepo) DeleteByCourse(_ context.Context, courseID string) error {
	kept := m.instructors[:0]
	for _, i := range m.instructors {
		if i.CourseID != courseID {
			kept = append(kept, i)
		}
	}
	m.instructors = kept
	return nil
}

// ── Mock StudentRepository ──

type mockStudentRepo struct {
	students []*model.Student
}

func newMockStudentRepo() *mockStudentRepo {
	return &mockStudentRepo{}
}

func (m *mockStudentRepo) Create(_ context.Context, student *model.Student) error {
	for _, s := range m.students {
		if s.CourseID == student.CourseID && s.Email == student.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	if student.StudentID == "" {
		student.StudentID = uuid.NewString()
	}
	m.students = append(m.students, student)
	return nil
}

func (m *mockStudentRepo) ListByCourse(_ context.Context, courseID string) ([]model.Student, error) {
	var result []model.Student
	for _, s := range m.students {
		if s.CourseID == courseID {
			result = append(result, *s)
		}
	}
	return result, nil
}

func (m *mockStudentRepo) ListByGoogleID(_ context.Context, googleID string) ([]model.Student, error) {
	var result []model.Student
	for _, s := range m.students {
		if s.GoogleID == googleID {
			result = append(result, *s)
		}
	}
	return result, nil
}

func (m *mockStudentRepo) GetByCourseAndGoogleID(_ context.Context, courseID, googleID string) (*model.Student, error) {
	for _, s := range m.students {
		if s.CourseID == courseID && s.GoogleID == googleID {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) DeleteByCourse(_ context.Context, courseID string) error {
	kept := m.students[:0]
	for _, s := range m.students {
		if s.CourseID != courseID {
			kept = append(kept, s)
		}
	}
	m.students = kept
	return nil
}

// ── Mock FeedbackSessionRepository ──

type mockFeedbackSessionRepo struct {
	sessions []*model.FeedbackSession

	updateTimeZoneErr   error
	updateTimeZoneCalls []string // 每次调用记录 courseID
	deleteCascadeCalls  int
}

func newMockFeedbackSessionRepo() *mockFeedbackSessionRepo {
	return &mockFeedbackSessionRepo{}
}

func (m *mockFeedbackSessionRepo) Create(_ context.Context, session *model.FeedbackSession) error {
	m.sessions = append(m.sessions, session)
	return nil
}

func (m *mockFeedbackSessionRepo) ListByCourse(_ context.Context, courseID string) ([]model.FeedbackSession, error) {
	var result []model.FeedbackSession
	for _, s := range m.sessions {
		if s.CourseID == courseID {
			result = append(result, *s)
		}
	}
	return result, nil
}

func (m *mockFeedbackSessionRepo) UpdateTimeZoneForCourse(_ context.Context, courseID, timeZone string) error {
	m.updateTimeZoneCalls = append(m.updateTimeZoneCalls, courseID)
	if m.updateTimeZoneErr != nil {
		return m.updateTimeZoneErr
	}
	for _, s := range m.sessions {
		if s.CourseID == courseID {
			s.TimeZone = timeZone
		}
	}
	return nil
}

func (m *mockFeedbackSessionRepo) DeleteByCourseCascade(_ context.Context, courseID string) error {
	m.deleteCascadeCalls++
	kept := m.sessions[:0]
	for _, s := range m.sessions {
		if s.CourseID != courseID {
			kept = append(kept, s)
		}
	}
	m.sessions = kept
	return nil
}

// ── 测试用 Repository 聚合 ──

type mockRepos struct {
	course     *mockCourseRepo
	account    *mockAccountRepo
	instructor *mockInstructorRepo
	student    *mockStudentRepo
	session    *mockFeedbackSessionRepo
}

// newMockRepository 以结构体字面量构造，不持有 *gorm.DB，因此不支持事务
func newMockRepository() (*repository.Repository, *mockRepos) {
	m := &mockRepos{
		course:     newMockCourseRepo(),
		account:    newMockAccountRepo(),
		instructor: newMockInstructorRepo(),
		student:    newMockStudentRepo(),
		session:    newMockFeedbackSessionRepo(),
	}
	repo := &repository.Repository{
		Course:          m.course,
		Account:         m.account,
		Instructor:      m.instructor,
		Student:         m.student,
		FeedbackSession: m.session,
	}
	return repo, m
}

// ── 测试数据构造 ──

func (m *mockRepos) addCourse(id, name, tz string) {
	m.course.courses[id] = &model.Course{
		CourseID:       id,
		Name:           name,
		TimeZone:       tz,
		VersionedModel: model.VersionedModel{Version: 1},
	}
}

func (m *mockRepos) addInstructor(courseID, googleID string, archived bool) {
	gid := googleID
	m.instructor.instructors = append(m.instructor.instructors, &model.Instructor{
		InstructorID: uuid.NewString(),
		CourseID:     courseID,
		GoogleID:     &gid,
		Name:         "Instructor " + googleID,
		Email:        googleID + "@example.com",
		Role:         model.InstructorRoleCoowner,
		IsArchived:   archived,
	})
}

func (m *mockRepos) addStudent(courseID, section, team, name, googleID string) {
	m.student.students = append(m.student.students, &model.Student{
		StudentID:   uuid.NewString(),
		CourseID:    courseID,
		Email:       name + "@example.com",
		Name:        name,
		SectionName: section,
		TeamName:    team,
		GoogleID:    googleID,
	})
}

func (m *mockRepos) addSession(courseID, name, tz string) {
	m.session.sessions = append(m.session.sessions, &model.FeedbackSession{
		CourseID:     courseID,
		SessionName:  name,
		CreatorEmail: "inst@example.com",
		TimeZone:     tz,
	})
}
