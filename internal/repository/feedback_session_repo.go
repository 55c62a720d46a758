package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/huming2207/Teammates-SEPT/internal/model"
)

// FeedbackSessionRepository 反馈会话数据访问接口
type FeedbackSessionRepository interface {
	Create(ctx context.Context, session *model.FeedbackSession) error
	ListByCourse(ctx context.Context, courseID string) ([]model.FeedbackSession, error)
	// UpdateTimeZoneForCourse 一次性更新课程下所有会话的时区
	UpdateTimeZoneForCourse(ctx context.Context, courseID, timeZone string) error
	// DeleteByCourseCascade 删除课程下所有会话及其答复
	DeleteByCourseCascade(ctx context.Context, courseID string) error
}

type feedbackSessionRepo struct {
	db *gorm.DB
}

// NewFeedbackSessionRepo 创建 FeedbackSessionRepository 实例
func NewFeedbackSessionRepo(db *gorm.DB) FeedbackSessionRepository {
	return &feedbackSessionRepo{db: db}
}

func (r *feedbackSessionRepo) Create(ctx context.Context, session *model.FeedbackSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *feedbackSessionRepo) ListByCourse(ctx context.Context, courseID string) ([]model.FeedbackSession, error) {
	var sessions []model.FeedbackSession
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("start_time ASC, session_name ASC").
		Find(&sessions).Error
	return sessions, err
}

func (r *feedbackSessionRepo) UpdateTimeZoneForCourse(ctx context.Context, courseID, timeZone string) error {
	return r.db.WithContext(ctx).
		Model(&model.FeedbackSession{}).
		Where("course_id = ?", courseID).
		Updates(map[string]interface{}{
			"time_zone":  timeZone,
			"updated_at": gorm.Expr("NOW()"),
		}).Error
}

func (r *feedbackSessionRepo) DeleteByCourseCascade(ctx context.Context, courseID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("course_id = ?", courseID).Delete(&model.FeedbackResponse{}).Error; err != nil {
			return err
		}
		return tx.Where("course_id = ?", courseID).Delete(&model.FeedbackSession{}).Error
	})
}
