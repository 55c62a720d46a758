package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/huming2207/Teammates-SEPT/internal/model"
)

// StudentRepository 学生名册数据访问接口
type StudentRepository interface {
	Create(ctx context.Context, student *model.Student) error
	// ListByCourse 不保证顺序，划分前由调用方排序
	ListByCourse(ctx context.Context, courseID string) ([]model.Student, error)
	ListByGoogleID(ctx context.Context, googleID string) ([]model.Student, error)
	GetByCourseAndGoogleID(ctx context.Context, courseID, googleID string) (*model.Student, error)
	DeleteByCourse(ctx context.Context, courseID string) error
}

type studentRepo struct {
	db *gorm.DB
}

// NewStudentRepo 创建 StudentRepository 实例
func NewStudentRepo(db *gorm.DB) StudentRepository {
	return &studentRepo{db: db}
}

func (r *studentRepo) Create(ctx context.Context, student *model.Student) error {
	return r.db.WithContext(ctx).Create(student).Error
}

func (r *studentRepo) ListByCourse(ctx context.Context, courseID string) ([]model.Student, error) {
	var students []model.Student
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Find(&students).Error
	return students, err
}

func (r *studentRepo) ListByGoogleID(ctx context.Context, googleID string) ([]model.Student, error) {
	var students []model.Student
	err := r.db.WithContext(ctx).
		Where("google_id = ?", googleID).
		Find(&students).Error
	return students, err
}

func (r *studentRepo) GetByCourseAndGoogleID(ctx context.Context, courseID, googleID string) (*model.Student, error) {
	var student model.Student
	err := r.db.WithContext(ctx).
		Where("course_id = ? AND google_id = ?", courseID, googleID).
		First(&student).Error
	if err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *studentRepo) DeleteByCourse(ctx context.Context, courseID string) error {
	return r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Delete(&model.Student{}).Error
}
