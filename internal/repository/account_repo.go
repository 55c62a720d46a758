package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/huming2207/Teammates-SEPT/internal/model"
)

// AccountRepository 账号数据访问接口（只读）
type AccountRepository interface {
	GetByGoogleID(ctx context.Context, googleID string) (*model.Account, error)
}

type accountRepo struct {
	db *gorm.DB
}

// NewAccountRepo 创建 AccountRepository 实例
func NewAccountRepo(db *gorm.DB) AccountRepository {
	return &accountRepo{db: db}
}

func (r *accountRepo) GetByGoogleID(ctx context.Context, googleID string) (*model.Account, error) {
	var account model.Account
	err := r.db.WithContext(ctx).
		Where("google_id = ?", googleID).
		First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}
