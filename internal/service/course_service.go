package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/huming2207/Teammates-SEPT/config"
	"github.com/huming2207/Teammates-SEPT/internal/model"
	"github.com/huming2207/Teammates-SEPT/internal/repository"
	"github.com/huming2207/Teammates-SEPT/internal/validation"
	pkgerrors "github.com/huming2207/Teammates-SEPT/pkg/errors"
)

// CourseService 课程生命周期接口
type CourseService interface {
	// CreateCourse 校验失败返回 *ValidationError，不做任何写入
	CreateCourse(ctx context.Context, id, name, timeZone string) (*model.Course, error)
	// CreateCourseAndInstructor 创建课程并为创建者生成 Co-owner 教师记录；两者要么都存在，要么都不存在
	CreateCourseAndInstructor(ctx context.Context, googleID, id, name, timeZone string) (*model.Course, error)
	UpdateCourse(ctx context.Context, id, name, timeZone string) (*model.Course, error)
	// DeleteCourseCascade 幂等：课程不存在时直接返回 nil
	DeleteCourseCascade(ctx context.Context, id string) error

	GetCourse(ctx context.Context, id string) (*model.Course, error)
	IsCoursePresent(ctx context.Context, id string) (bool, error)
	VerifyCourseIsPresent(ctx context.Context, id string) error
	// VerifyInstructorAccess 课程不存在返回 ErrCourseNotFound，调用者不是该课程教师返回 ErrNotInstructor
	VerifyInstructorAccess(ctx context.Context, courseID, googleID string) (*model.Instructor, error)
	IsSampleCourse(id string) bool
	// GetArchivedCourseIDs instructorsByCourse 以课程ID为键，值为当前账号在该课程的教师记录
	GetArchivedCourseIDs(courses []model.Course, instructorsByCourse map[string]*model.Instructor) []string
}

type courseService struct {
	repo            *repository.Repository
	transactional   bool
	defaultTimeZone string
	logger          *zap.Logger
}

// NewCourseService 创建 CourseService 实例；cfg 为 nil 时使用事务创建与 UTC 默认时区
func NewCourseService(cfg *config.CourseConfig, repo *repository.Repository, logger *zap.Logger) CourseService {
	svc := &courseService{
		repo:            repo,
		transactional:   true,
		defaultTimeZone: validation.DefaultTimeZone,
		logger:          logger,
	}
	if cfg != nil {
		svc.transactional = cfg.TransactionalCreate
		if cfg.DefaultTimeZone != "" {
			svc.defaultTimeZone = cfg.DefaultTimeZone
		}
	}
	return svc
}

// ────────────────────── Create ──────────────────────

func (s *courseService) CreateCourse(ctx context.Context, id, name, timeZone string) (*model.Course, error) {
	course, err := newValidatedCourse(id, name, s.timeZoneOrDefault(timeZone))
	if err != nil {
		return nil, err
	}

	if err := s.createCourse(ctx, s.repo, course); err != nil {
		return nil, err
	}
	return course, nil
}

// ═══════════════════════════════════════════════════════════
// CreateCourseAndInstructor：课程与所有者教师的原子创建
// ═══════════════════════════════════════════════════════════
//
// 设计说明：
//   - 存储支持事务时，两次写入在同一事务内完成，教师创建失败整体回滚
//   - 不支持事务时走补偿路径：先建课程，教师创建失败则删除刚建的课程
//   - 两条路径中教师创建失败都属于不应出现的内部错误，返回 ErrFatalInternal
//   - 课程ID冲突属于正常业务错误，返回 ErrCourseAlreadyExists

func (s *courseService) CreateCourseAndInstructor(ctx context.Context, googleID, id, name, timeZone string) (*model.Course, error) {
	account, err := s.repo.Account.GetByGoogleID(ctx, googleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		s.logger.Error("查询账号失败", zap.String("google_id", googleID), zap.Error(err))
		return nil, err
	}
	if !account.IsInstructor {
		return nil, ErrNotInstructor
	}

	course, err := newValidatedCourse(id, name, s.timeZoneOrDefault(timeZone))
	if err != nil {
		return nil, err
	}
	instructor := newCoownerInstructor(account, course.CourseID)

	if s.transactional && s.repo.SupportsTx() {
		err = s.createInTx(ctx, course, instructor)
	} else {
		err = s.createWithCompensation(ctx, course, instructor)
	}
	if err != nil {
		return nil, err
	}
	return course, nil
}

func (s *courseService) createInTx(ctx context.Context, course *model.Course, instructor *model.Instructor) error {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error("开启事务失败", zap.Error(err))
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	txRepo := s.repo.WithTx(tx)

	if err := s.createCourse(ctx, txRepo, course); err != nil {
		tx.Rollback()
		return err
	}

	if err := txRepo.Instructor.Create(ctx, instructor); err != nil {
		tx.Rollback()
		s.logger.Error("创建课程所有者失败，事务回滚",
			zap.String("course_id", course.CourseID),
			zap.String("email", instructor.Email),
			zap.Error(err),
		)
		return errors.Join(ErrFatalInternal, err)
	}

	if err := tx.Commit().Error; err != nil {
		s.logger.Error("提交事务失败", zap.String("course_id", course.CourseID), zap.Error(err))
		return err
	}
	return nil
}

// createWithCompensation 无事务时的补偿路径；返回成功时课程与教师记录必然都已存在
func (s *courseService) createWithCompensation(ctx context.Context, course *model.Course, instructor *model.Instructor) error {
	if err := s.createCourse(ctx, s.repo, course); err != nil {
		return err
	}

	createErr := s.repo.Instructor.Create(ctx, instructor)
	if createErr == nil {
		return nil
	}

	if err := s.repo.Course.Delete(ctx, course.CourseID); err != nil {
		s.logger.Error("创建课程所有者失败且课程回滚失败，需人工清理",
			zap.String("course_id", course.CourseID),
			zap.NamedError("create_error", createErr),
			zap.NamedError("rollback_error", err),
		)
		return errors.Join(ErrFatalInternal, createErr, err)
	}

	s.logger.Error("创建课程所有者失败，已删除新建课程",
		zap.String("course_id", course.CourseID),
		zap.String("email", instructor.Email),
		zap.Error(createErr),
	)
	return errors.Join(ErrFatalInternal, createErr)
}

// ────────────────────── Update ──────────────────────

func (s *courseService) UpdateCourse(ctx context.Context, id, name, timeZone string) (*model.Course, error) {
	updated, err := newValidatedCourse(id, name, timeZone)
	if err != nil {
		return nil, err
	}

	course, err := s.GetCourse(ctx, updated.CourseID)
	if err != nil {
		return nil, err
	}

	oldTimeZone := course.TimeZone
	course.Name = updated.Name
	course.TimeZone = updated.TimeZone

	if err := s.repo.Course.Update(ctx, course); err != nil {
		if errors.Is(err, pkgerrors.ErrOptimisticLock) {
			return nil, ErrCourseConcurrentUpdate
		}
		s.logger.Error("更新课程失败", zap.String("course_id", course.CourseID), zap.Error(err))
		return nil, err
	}

	// 时区变化时同步到课程下全部反馈会话；同步失败不影响课程本身的更新
	if course.TimeZone != oldTimeZone {
		if err := s.repo.FeedbackSession.UpdateTimeZoneForCourse(ctx, course.CourseID, course.TimeZone); err != nil {
			s.logger.Error("同步反馈会话时区失败",
				zap.String("course_id", course.CourseID),
				zap.String("time_zone", course.TimeZone),
				zap.Error(err),
			)
		}
	}

	return course, nil
}

// ────────────────────── Delete ──────────────────────

func (s *courseService) DeleteCourseCascade(ctx context.Context, id string) error {
	cascade := func(r *repository.Repository) error {
		if err := r.Student.DeleteByCourse(ctx, id); err != nil {
			return err
		}
		if err := r.Instructor.DeleteByCourse(ctx, id); err != nil {
			return err
		}
		if err := r.FeedbackSession.DeleteByCourseCascade(ctx, id); err != nil {
			return err
		}
		return r.Course.Delete(ctx, id)
	}

	var err error
	if s.repo.SupportsTx() {
		err = s.repo.Transaction(ctx, cascade)
	} else {
		err = cascade(s.repo)
	}
	if err != nil {
		s.logger.Error("级联删除课程失败", zap.String("course_id", id), zap.Error(err))
		return err
	}

	s.logger.Info("课程已删除", zap.String("course_id", id))
	return nil
}

// ────────────────────── Query ──────────────────────

func (s *courseService) GetCourse(ctx context.Context, id string) (*model.Course, error) {
	course, err := s.repo.Course.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("查询课程失败", zap.String("course_id", id), zap.Error(err))
		return nil, err
	}
	return course, nil
}

func (s *courseService) IsCoursePresent(ctx context.Context, id string) (bool, error) {
	_, err := s.GetCourse(ctx, id)
	if errors.Is(err, ErrCourseNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (s *courseService) VerifyCourseIsPresent(ctx context.Context, id string) error {
	_, err := s.GetCourse(ctx, id)
	return err
}

func (s *courseService) VerifyInstructorAccess(ctx context.Context, courseID, googleID string) (*model.Instructor, error) {
	if err := s.VerifyCourseIsPresent(ctx, courseID); err != nil {
		return nil, err
	}

	instructor, err := s.repo.Instructor.GetByCourseAndGoogleID(ctx, courseID, googleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotInstructor
		}
		s.logger.Error("查询教师记录失败",
			zap.String("course_id", courseID),
			zap.String("google_id", googleID),
			zap.Error(err),
		)
		return nil, err
	}
	return instructor, nil
}

func (s *courseService) IsSampleCourse(id string) bool {
	return validation.IsSampleCourseID(id)
}

// GetArchivedCourseIDs 教师记录被归档的课程视为已归档
// 映射中缺失的课程属于调用方错误，此处跳过
func (s *courseService) GetArchivedCourseIDs(courses []model.Course, instructorsByCourse map[string]*model.Instructor) []string {
	archived := make([]string, 0)
	for i := range courses {
		instructor := instructorsByCourse[courses[i].CourseID]
		if instructor == nil {
			continue
		}
		if instructor.IsArchived {
			archived = append(archived, courses[i].CourseID)
		}
	}
	return archived
}

// ── 内部辅助方法 ──

// createCourse 主键冲突映射为 ErrCourseAlreadyExists
func (s *courseService) createCourse(ctx context.Context, repo *repository.Repository, course *model.Course) error {
	if err := repo.Course.Create(ctx, course); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrCourseAlreadyExists
		}
		s.logger.Error("创建课程失败", zap.String("course_id", course.CourseID), zap.Error(err))
		return err
	}
	return nil
}

// timeZoneOrDefault 仅用于创建：未填写时区时使用配置的默认时区
func (s *courseService) timeZoneOrDefault(timeZone string) string {
	if strings.TrimSpace(timeZone) == "" {
		return s.defaultTimeZone
	}
	return timeZone
}

// newValidatedCourse 去除首尾空白后校验全部字段
func newValidatedCourse(id, name, timeZone string) (*model.Course, error) {
	id = strings.TrimSpace(id)
	name = strings.TrimSpace(name)

	loc, messages := validation.ValidateCourseFields(id, name, strings.TrimSpace(timeZone))
	if len(messages) > 0 {
		return nil, &ValidationError{Messages: messages}
	}

	return &model.Course{
		CourseID:       id,
		Name:           name,
		TimeZone:       loc.String(),
		VersionedModel: model.VersionedModel{Version: 1},
	}, nil
}

func newCoownerInstructor(account *model.Account, courseID string) *model.Instructor {
	googleID := account.GoogleID
	return &model.Instructor{
		InstructorID:          uuid.NewString(),
		CourseID:              courseID,
		GoogleID:              &googleID,
		Name:                  account.Name,
		Email:                 account.Email,
		Role:                  model.InstructorRoleCoowner,
		DisplayName:           "Instructor",
		IsDisplayedToStudents: true,
		Privileges:            model.CoownerPrivileges(),
	}
}
