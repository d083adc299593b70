package repository

import (
	"context"

	"gorm.io/gorm"

	"nd_motors_backend/internal/model"
)

// ActivityRepository 操作记录仓储接口（只追加）
type ActivityRepository interface {
	Create(ctx context.Context, activity *model.Activity) error
	RecentByDealer(ctx context.Context, dealerID int64, limit int) ([]model.Activity, error)
}

type activityRepository struct {
	db *gorm.DB
}

// NewActivityRepository 创建操作记录仓储
func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Create(ctx context.Context, activity *model.Activity) error {
	return r.db.WithContext(ctx).Create(activity).Error
}

// RecentByDealer 最近记录，时间倒序
func (r *activityRepository) RecentByDealer(ctx context.Context, dealerID int64, limit int) ([]model.Activity, error) {
	var activities []model.Activity
	err := r.db.WithContext(ctx).
		Where("dealer_id = ?", dealerID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&activities).Error
	return activities, err
}
