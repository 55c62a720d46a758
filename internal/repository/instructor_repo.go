package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/huming2207/Teammates-SEPT/internal/model"
)

// InstructorRepository 课程教师数据访问接口
type InstructorRepository interface {
	// Create (course_id, email) 冲突时返回 gorm.ErrDuplicatedKey
	Create(ctx context.Context, instructor *model.Instructor) error
	GetByCourseAndGoogleID(ctx context.Context, courseID, googleID string) (*model.Instructor, error)
	// ListByGoogleID omitArchived 为 true 时排除已归档的课程
	ListByGoogleID(ctx context.Context, googleID string, omitArchived bool) ([]model.Instructor, error)
	ListByCourse(ctx context.Context, courseID string) ([]model.Instructor, error)
	DeleteByCourse(ctx context.Context, courseID string) error
}

type instructorRepo struct {
	db *gorm.DB
}

// NewInstructorRepo 创建 InstructorRepository 实例
func NewInstructorRepo(db *gorm.DB) InstructorRepository {
	return &instructorRepo{db: db}
}

func (r *instructorRepo) Create(ctx context.Context, instructor *model.Instructor) error {
	return r.db.WithContext(ctx).Create(instructor).Error
}

func (r *instructorRepo) GetByCourseAndGoogleID(ctx context.Context, courseID, googleID string) (*model.Instructor, error) {
	var instructor model.Instructor
	err := r.db.WithContext(ctx).
		Where("course_id = ? AND google_id = ?", courseID, googleID).
		First(&instructor).Error
	if err != nil {
		return nil, err
	}
	return &instructor, nil
}

func (r *instructorRepo) ListByGoogleID(ctx context.Context, googleID string, omitArchived bool) ([]model.Instructor, error) {
	var instructors []model.Instructor
	query := r.db.WithContext(ctx).Where("google_id = ?", googleID)
	if omitArchived {
		query = query.Where("is_archived = ?", false)
	}
	err := query.Order("course_id ASC").Find(&instructors).Error
	return instructors, err
}

func (r *instructorRepo) ListByCourse(ctx context.Context, courseID string) ([]model.Instructor, error) {
	var instructors []model.Instructor
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("name ASC").
		Find(&instructors).Error
	return instructors, err
}

func (r *instructorRepo) DeleteByCourse(ctx context.Context, courseID string) error {
	return r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Delete(&model.Instructor{}).Error
}
