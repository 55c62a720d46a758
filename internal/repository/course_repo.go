package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/huming2207/Teammates-SEPT/internal/model"
	pkgerrors "github.com/huming2207/Teammates-SEPT/pkg/errors"
)

// CourseRepository 课程数据访问接口
type CourseRepository interface {
	// Create 主键冲突时返回 gorm.ErrDuplicatedKey
	Create(ctx context.Context, course *model.Course) error
	GetByID(ctx context.Context, id string) (*model.Course, error)
	// ListByIDs 批量查询；不存在的 ID 直接忽略，结果按 course_id 排序
	ListByIDs(ctx context.Context, ids []string) ([]model.Course, error)
	// Update 基于 version 的乐观锁更新名称与时区
	Update(ctx context.Context, course *model.Course) error
	// Delete 幂等删除；记录不存在时不返回错误
	Delete(ctx context.Context, id string) error
}

// courseRepo CourseRepository 的 GORM 实现
type courseRepo struct {
	db *gorm.DB
}

// NewCourseRepo 创建 CourseRepository 实例
func NewCourseRepo(db *gorm.DB) CourseRepository {
	return &courseRepo{db: db}
}

func (r *courseRepo) Create(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

func (r *courseRepo) GetByID(ctx context.Context, id string) (*model.Course, error) {
	var course model.Course
	err := r.db.WithContext(ctx).
		Where("course_id = ?", id).
		First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepo) ListByIDs(ctx context.Context, ids []string) ([]model.Course, error) {
	if len(ids) == 0 {
		return []model.Course{}, nil
	}
	var courses []model.Course
	err := r.db.WithContext(ctx).
		Where("course_id IN ?", ids).
		Order("course_id ASC").
		Find(&courses).Error
	return courses, err
}

func (r *courseRepo) Update(ctx context.Context, course *model.Course) error {
	oldVersion := course.Version
	result := r.db.WithContext(ctx).
		Model(&model.Course{}).
		Where("course_id = ? AND version = ?", course.CourseID, oldVersion).
		Updates(map[string]interface{}{
			"name":       course.Name,
			"time_zone":  course.TimeZone,
			"updated_at": gorm.Expr("NOW()"),
			"version":    oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	course.Version = oldVersion + 1
	return nil
}

func (r *courseRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("course_id = ?", id).
		Delete(&model.Course{}).Error
}
