package repository

import (
	"context"

	"gorm.io/gorm"

	pkgerrors "github.com/huming2207/Teammates-SEPT/pkg/errors"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Course          CourseRepository
	Account         AccountRepository
	Instructor      InstructorRepository
	Student         StudentRepository
	FeedbackSession FeedbackSessionRepository

	// db 为 nil 时（如测试中直接以结构体字面量构造）不支持事务
	db *gorm.DB
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Course:          NewCourseRepo(db),
		Account:         NewAccountRepo(db),
		Instructor:      NewInstructorRepo(db),
		Student:         NewStudentRepo(db),
		FeedbackSession: NewFeedbackSessionRepo(db),
		db:              db,
	}
}

// SupportsTx 是否支持跨实体事务
func (r *Repository) SupportsTx() bool {
	return r.db != nil
}

// BeginTx 手动开启事务，调用方负责 Commit / Rollback
func (r *Repository) BeginTx(ctx context.Context) (*gorm.DB, error) {
	if r.db == nil {
		return nil, pkgerrors.ErrTxUnsupported
	}
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	return tx, nil
}

// WithTx 返回绑定到指定事务的 Repository 副本
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return NewRepository(tx)
}

// Transaction 在单个数据库事务中执行 fn；fn 返回错误或 panic 时整体回滚
func (r *Repository) Transaction(ctx context.Context, fn func(txRepo *Repository) error) error {
	if r.db == nil {
		return pkgerrors.ErrTxUnsupported
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(r.WithTx(tx))
	})
}
