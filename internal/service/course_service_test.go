package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/huming2207/Teammates-SEPT/config"
	"github.com/huming2207/Teammates-SEPT/internal/model"
)

// ── 测试辅助 ──

func setupTestCourseService() (CourseService, *mockRepos) {
	repo, mocks := newMockRepository()
	svc := NewCourseService(&config.CourseConfig{TransactionalCreate: true}, repo, zap.NewNop())
	return svc, mocks
}

// ── CreateCourse 测试 ──

func TestCourseService_CreateCourse_DefaultTimeZone(t *testing.T) {
	repo, _ := newMockRepository()
	svc := NewCourseService(&config.CourseConfig{DefaultTimeZone: "Asia/Singapore"}, repo, zap.NewNop())

	course, err := svc.CreateCourse(context.Background(), "CS2103", "SE", "  ")
	if err != nil {
		t.Fatalf("未填写时区应使用默认时区: %v", err)
	}
	if course.TimeZone != "Asia/Singapore" {
		t.Errorf("期望 TimeZone=Asia/Singapore，实际=%s", course.TimeZone)
	}
}

func TestCourseService_CreateCourse_Success(t *testing.T) {
	svc, mocks := setupTestCourseService()

	course, err := svc.CreateCourse(context.Background(), " CS2103 ", "Software Engineering", "Asia/Singapore")
	if err != nil {
		t.Fatalf("CreateCourse 应成功: %v", err)
	}
	if course.CourseID != "CS2103" {
		t.Errorf("期望 CourseID=CS2103，实际=%s", course.CourseID)
	}
	if course.TimeZone != "Asia/Singapore" {
		t.Errorf("期望 TimeZone=Asia/Singapore，实际=%s", course.TimeZone)
	}
	if _, ok := mocks.course.courses["CS2103"]; !ok {
		t.Error("课程应已写入存储")
	}
}

func TestCourseService_CreateCourse_InvalidFields(t *testing.T) {
	svc, mocks := setupTestCourseService()

	_, err := svc.CreateCourse(context.Background(), "bad id!", "", "Mars/Olympus")
	if !errors.Is(err, ErrInvalidCourseFields) {
		t.Fatalf("期望 ErrInvalidCourseFields，实际: %v", err)
	}

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("期望 *ValidationError，实际: %T", err)
	}
	if len(verr.Messages) != 3 {
		t.Errorf("期望 3 条错误信息（ID、名称、时区），实际=%d: %v", len(verr.Messages), verr.Messages)
	}
	if len(mocks.course.courses) != 0 {
		t.Error("校验失败时不应写入任何课程")
	}
}

func TestCourseService_CreateCourse_AlreadyExists(t *testing.T) {
	svc, mocks := setupTestCourseService()
	mocks.addCourse("CS2103", "Old", "UTC")

	_, err := svc.CreateCourse(context.Background(), "CS2103", "Software Engineering", "UTC")
	if !errors.Is(err, ErrCourseAlreadyExists) {
		t.Errorf("期望 ErrCourseAlreadyExists，实际: %v", err)
	}
	if mocks.course.courses["CS2103"].Name != "Old" {
		t.Error("已存在的课程不应被覆盖")
	}
}

// ── CreateCourseAndInstructor 测试 ──

func TestCourseService_CreateCourseAndInstructor_Success(t *testing.T) {
	svc, mocks := setupTestCourseService()

	course, err := svc.CreateCourseAndInstructor(context.Background(), "inst.google", "CS2103", "Software Engineering", "UTC")
	if err != nil {
		t.Fatalf("CreateCourseAndInstructor 应成功: %v", err)
	}
	if course.CourseID != "CS2103" {
		t.Errorf("期望 CourseID=CS2103，实际=%s", course.CourseID)
	}

	instructors, _ := mocks.instructor.ListByCourse(context.Background(), "CS2103")
	if len(instructors) != 1 {
		t.Fatalf("期望 1 名教师，实际=%d", len(instructors))
	}
	ins := instructors[0]
	if ins.Role != model.InstructorRoleCoowner {
		t.Errorf("期望 Role=Co-owner，实际=%s", ins.Role)
	}
	if ins.Email != "inst@example.com" || ins.Name != "Ins Tructor" {
		t.Errorf("教师姓名与邮箱应取自账号，实际 name=%s email=%s", ins.Name, ins.Email)
	}
	if ins.GoogleID == nil || *ins.GoogleID != "inst.google" {
		t.Error("教师应绑定创建者账号")
	}
	if v, _ := ins.Privileges["canmodifycourse"].(bool); !v {
		t.Error("Co-owner 应拥有 canmodifycourse 权限")
	}
}

func TestCourseService_CreateCourseAndInstructor_AccountNotFound(t *testing.T) {
	svc, mocks := setupTestCourseService()

	_, err := svc.CreateCourseAndInstructor(context.Background(), "ghost", "CS2103", "SE", "UTC")
	if !errors.Is(err, ErrAccountNotFound) {
		t.Errorf("期望 ErrAccountNotFound，实际: %v", err)
	}
	if len(mocks.course.courses) != 0 {
		t.Error("不应创建课程")
	}
}

func TestCourseService_CreateCourseAndInstructor_NotInstructor(t *testing.T) {
	svc, mocks := setupTestCourseService()

	_, err := svc.CreateCourseAndInstructor(context.Background(), "stud.google", "CS2103", "SE", "UTC")
	if !errors.Is(err, ErrNotInstructor) {
		t.Errorf("期望 ErrNotInstructor，实际: %v", err)
	}
	if len(mocks.course.courses) != 0 {
		t.Error("不应创建课程")
	}
}

func TestCourseService_CreateCourseAndInstructor_CourseExists(t *testing.T) {
	svc, mocks := setupTestCourseService()
	mocks.addCourse("CS2103", "Old", "UTC")

	_, err := svc.CreateCourseAndInstructor(context.Background(), "inst.google", "CS2103", "SE", "UTC")
	if !errors.Is(err, ErrCourseAlreadyExists) {
		t.Errorf("期望 ErrCourseAlreadyExists，实际: %v", err)
	}
	if errors.Is(err, ErrFatalInternal) {
		t.Error("课程ID冲突不属于内部错误")
	}
	if mocks.course.deleteCalls != 0 {
		t.Error("课程ID冲突时不应删除已有课程")
	}
	if len(mocks.instructor.instructors) != 0 {
		t.Error("不应创建教师记录")
	}
}

// 教师创建失败：补偿删除课程，并返回 ErrFatalInternal
func TestCourseService_CreateCourseAndInstructor_InstructorFails_RollsBack(t *testing.T) {
	svc, mocks := setupTestCourseService()
	mocks.instructor.createErr = gorm.ErrDuplicatedKey

	_, err := svc.CreateCourseAndInstructor(context.Background(), "inst.google", "CS2103", "SE", "UTC")
	if !errors.Is(err, ErrFatalInternal) {
		t.Fatalf("期望 ErrFatalInternal，实际: %v", err)
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Error("应保留原始错误")
	}
	if errors.Is(err, ErrCourseAlreadyExists) {
		t.Error("教师冲突不应被当作课程ID冲突")
	}
	if mocks.course.deleteCalls != 1 {
		t.Errorf("期望补偿删除 1 次，实际=%d", mocks.course.deleteCalls)
	}

	if _, err := svc.GetCourse(context.Background(), "CS2103"); !errors.Is(err, ErrCourseNotFound) {
		t.Errorf("回滚后课程应不存在，实际: %v", err)
	}
}

func TestCourseService_CreateCourseAndInstructor_RollbackFails(t *testing.T) {
	svc, mocks := setupTestCourseService()
	rollbackErr := errors.New("存储不可用")
	mocks.instructor.createErr = gorm.ErrInvalidData
	mocks.course.deleteErr = rollbackErr

	_, err := svc.CreateCourseAndInstructor(context.Background(), "inst.google", "CS2103", "SE", "UTC")
	if !errors.Is(err, ErrFatalInternal) {
		t.Fatalf("期望 ErrFatalInternal，实际: %v", err)
	}
	if !errors.Is(err, rollbackErr) {
		t.Error("应同时携带回滚失败的原因")
	}
}

func TestCourseService_CreateCourseAndInstructor_InvalidFields(t *testing.T) {
	svc, mocks := setupTestCourseService()

	_, err := svc.CreateCourseAndInstructor(context.Background(), "inst.google", "", "SE", "Not/AZone")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("期望 *ValidationError，实际: %v", err)
	}
	if len(verr.Messages) != 2 {
		t.Errorf("期望 2 条错误信息，实际=%d: %v", len(verr.Messages), verr.Messages)
	}
	if len(mocks.course.courses) != 0 || len(mocks.instructor.instructors) != 0 {
		t.Error("校验失败时不应有任何写入")
	}
}

// ── UpdateCourse 测试 ──

func TestCourseService_UpdateCourse_NameOnly_NoPropagation(t *testing.T) {
	svc, mocks := setupTestCourseService()
	mocks.addCourse("CS2103", "Old Name", "Asia/Singapore")
	mocks.addSession("CS2103", "Session 1", "Asia/Singapore")

	course, err := svc.UpdateCourse(context.Background(), "CS2103", "New Name", "Asia/Singapore")
	if err != nil {
		t.Fatalf("UpdateCourse 应成功: %v", err)
	}
	if course.Name != "New Name" {
		t.Errorf("期望 Name=New Name，实际=%s", course.Name)
	}
	if course.Version != 2 {
		t.Errorf("期望 Version=2，实际=%d", course.Version)
	}
	if n := len(mocks.session.updateTimeZoneCalls); n != 0 {
		t.Errorf("时区未变化时不应同步会话时区，实际调用 %d 次", n)
	}
}

func TestCourseService_UpdateCourse_TimeZoneChanged_PropagatesOnce(t *testing.T) {
	svc, mocks := setupTestCourseService()
	mocks.addCourse("CS2103", "SE", "Asia/Singapore")
	mocks.addSession("CS2103", "Session 1", "Asia/Singapore")
	mocks.addSession("CS2103", "Session 2", "Asia/Singapore")
	mocks.addSession("CS2103", "Session 3", "Asia/Singapore")

	_, err := svc.UpdateCourse(context.Background(), "CS2103", "SE", "Europe/London")
	if err != nil {
		t.Fatalf("UpdateCourse 应成功: %v", err)
	}
	if n := len(mocks.session.updateTimeZoneCalls); n != 1 {
		t.Fatalf("期望按课程同步 1 次，实际=%d", n)
	}
	for _, s := range mocks.session.sessions {
		if s.TimeZone != "Europe/London" {
			t.Errorf("会话 %s 时区未同步，实际=%s", s.SessionName, s.TimeZone)
		}
	}
	if mocks.course.courses["CS2103"].TimeZone != "Europe/London" {
		t.Error("课程时区应已更新")
	}
}

func TestCourseService_UpdateCourse_PropagationFailureIgnored(t *testing.T) {
	svc, mocks := setupTestCourseService()
	mocks.addCourse("CS2103", "SE", "UTC")
	mocks.session.updateTimeZoneErr = errors.New("会话存储不可用")

	course, err := svc.UpdateCourse(context.Background(), "CS2103", "SE", "Asia/Tokyo")
	if err != nil {
		t.Fatalf("时区同步失败不应使更新失败: %v", err)
	}
	if course.TimeZone != "Asia/Tokyo" {
		t.Errorf("期望 TimeZone=Asia/Tokyo，实际=%s", course.TimeZone)
	}
	if len(mocks.session.updateTimeZoneCalls) != 1 {
		t.Error("时区变化时必须尝试同步")
	}
}

func TestCourseService_UpdateCourse_NotFound(t *testing.T) {
	svc, _ := setupTestCourseService()

	_, err := svc.UpdateCourse(context.Background(), "CS9999", "SE", "UTC")
	if !errors.Is(err, ErrCourseNotFound) {
		t.Errorf("期望 ErrCourseNotFound，实际: %v", err)
	}
}

func TestCourseService_UpdateCourse_InvalidFields(t *testing.T) {
	svc, mocks := setupTestCourseService()
	mocks.addCourse("CS2103", "SE", "UTC")

	_, err := svc.UpdateCourse(context.Background(), "CS2103", "", "UTC")
	if !errors.Is(err, ErrInvalidCourseFields) {
		t.Errorf("期望 ErrInvalidCourseFields，实际: %v", err)
	}
	if mocks.course.courses["CS2103"].Name != "SE" {
		t.Error("校验失败时不应修改课程")
	}
}

func TestCourseService_UpdateCourse_ConcurrentUpdate(t *testing.T) {
	svc, mocks := setupTestCourseService()
	mocks.addCourse("CS2103", "SE", "UTC")

	// 模拟读取之后被其他请求修改：存储中的版本号领先
	mockCourse := &conflictingCourseRepo{mockCourseRepo: mocks.course}
	repo, _ := newMockRepository()
	repo.Course = mockCourse
	svc = NewCourseService(nil, repo, zap.NewNop())

	_, err := svc.UpdateCourse(context.Background(), "CS2103", "New", "UTC")
	if !errors.Is(err, ErrCourseConcurrentUpdate) {
		t.Errorf("期望 ErrCourseConcurrentUpdate，实际: %v", err)
	}
}

// conflictingCourseRepo 在 GetByID 之后推进存储中的版本号
type conflictingCourseRepo struct {
	*mockCourseRepo
}

func (r *conflictingCourseRepo) GetByID(ctx context.Context, id string) (*model.Course, error) {
	c, err := r.mockCourseRepo.GetByID(ctx, id)
	if err == nil {
		r.courses[id].Version++
	}
	return c, err
}

// ── DeleteCourseCascade 测试 ──

func TestCourseService_DeleteCourseCascade_Success(t *testing.T) {
	svc, mocks := setupTestCourseService()
	mocks.addCourse("CS2103", "SE", "UTC")
	mocks.addCourse("CS1010", "Intro", "UTC")
	mocks.addInstructor("CS2103", "inst.google", false)
	mocks.addInstructor("CS1010", "inst.google", false)
	mocks.addStudent("CS2103", "S1", "T1", "alice", "")
	mocks.addStudent("CS1010", "S1", "T1", "bob", "")
	mocks.addSession("CS2103", "Session 1", "UTC")
	mocks.addSession("CS1010", "Session 1", "UTC")

	if err := svc.DeleteCourseCascade(context.Background(), "CS2103"); err != nil {
		t.Fatalf("DeleteCourseCascade 应成功: %v", err)
	}

	if _, ok := mocks.course.courses["CS2103"]; ok {
		t.Error("课程应已删除")
	}
	if s, _ := mocks.student.ListByCourse(context.Background(), "CS2103"); len(s) != 0 {
		t.Error("学生应已删除")
	}
	if i, _ := mocks.instructor.ListByCourse(context.Background(), "CS2103"); len(i) != 0 {
		t.Error("教师应已删除")
	}
	if fs, _ := mocks.session.ListByCourse(context.Background(), "CS2103"); len(fs) != 0 {
		t.Error("反馈会话应已删除")
	}

	// 其他课程不受影响
	if _, ok := mocks.course.courses["CS1010"]; !ok {
		t.Error("其他课程不应被删除")
	}
	if s, _ := mocks.student.ListByCourse(context.Background(), "CS1010"); len(s) != 1 {
		t.Error("其他课程的学生不应被删除")
	}
	if fs, _ := mocks.session.ListByCourse(context.Background(), "CS1010"); len(fs) != 1 {
		t.Error("其他课程的会话不应被删除")
	}
}

func TestCourseService_DeleteCourseCascade_NonExistent(t *testing.T) {
	svc, mocks := setupTestCourseService()
	mocks.addCourse("CS1010", "Intro", "UTC")
	mocks.addStudent("CS1010", "S1", "T1", "bob", "")

	if err := svc.DeleteCourseCascade(context.Background(), "CS9999"); err != nil {
		t.Fatalf("删除不存在的课程应无错误: %v", err)
	}
	if len(mocks.course.courses) != 1 || len(mocks.student.students) != 1 {
		t.Error("删除不存在的课程不应产生任何可见变化")
	}
}

// ── 查询测试 ──

func TestCourseService_IsCoursePresent(t *testing.T) {
	svc, mocks := setupTestCourseService()
	mocks.addCourse("CS2103", "SE", "UTC")

	ok, err := svc.IsCoursePresent(context.Background(), "CS2103")
	if err != nil || !ok {
		t.Errorf("期望课程存在，实际 ok=%v err=%v", ok, err)
	}
	ok, err = svc.IsCoursePresent(context.Background(), "CS9999")
	if err != nil || ok {
		t.Errorf("期望课程不存在且无错误，实际 ok=%v err=%v", ok, err)
	}

	if err := svc.VerifyCourseIsPresent(context.Background(), "CS9999"); !errors.Is(err, ErrCourseNotFound) {
		t.Errorf("期望 ErrCourseNotFound，实际: %v", err)
	}
}

func TestCourseService_IsSampleCourse(t *testing.T) {
	svc, _ := setupTestCourseService()

	if !svc.IsSampleCourse("alice.tmms-demo") {
		t.Error("alice.tmms-demo 应为示例课程")
	}
	if !svc.IsSampleCourse("alice.tmms-demo3") {
		t.Error("alice.tmms-demo3 应为示例课程")
	}
	if svc.IsSampleCourse("CS2103") {
		t.Error("CS2103 不应为示例课程")
	}
}

func TestCourseService_GetArchivedCourseIDs(t *testing.T) {
	svc, _ := setupTestCourseService()

	courses := []model.Course{{CourseID: "A"}, {CourseID: "B"}, {CourseID: "C"}, {CourseID: "D"}}
	instructors := map[string]*model.Instructor{
		"A": {CourseID: "A", IsArchived: true},
		"B": {CourseID: "B", IsArchived: false},
		"C": {CourseID: "C", IsArchived: true},
		// D 缺失映射：跳过
	}

	got := svc.GetArchivedCourseIDs(courses, instructors)
	if len(got) != 2 || got[0] != "A" || got[1] != "C" {
		t.Errorf("期望 [A C]，实际=%v", got)
	}

	if got := svc.GetArchivedCourseIDs(nil, nil); len(got) != 0 {
		t.Errorf("空输入应返回空列表，实际=%v", got)
	}
}

func TestCourseService_VerifyInstructorAccess(t *testing.T) {
	svc, mocks := setupTestCourseService()
	mocks.addCourse("CS2103", "SE", "UTC")
	mocks.addInstructor("CS2103", "inst.google", false)

	instructor, err := svc.VerifyInstructorAccess(context.Background(), "CS2103", "inst.google")
	if err != nil {
		t.Fatalf("课程教师应通过校验: %v", err)
	}
	if instructor.CourseID != "CS2103" {
		t.Errorf("期望教师记录属于 CS2103，实际=%s", instructor.CourseID)
	}

	if _, err := svc.VerifyInstructorAccess(context.Background(), "CS2103", "stud.google"); !errors.Is(err, ErrNotInstructor) {
		t.Errorf("非课程教师期望 ErrNotInstructor，实际: %v", err)
	}
	if _, err := svc.VerifyInstructorAccess(context.Background(), "NOPE", "inst.google"); !errors.Is(err, ErrCourseNotFound) {
		t.Errorf("课程不存在期望 ErrCourseNotFound，实际: %v", err)
	}
}
