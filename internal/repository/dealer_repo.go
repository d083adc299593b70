package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"nd_motors_backend/internal/model"
)

// ==================== DealerRepository 经销商仓库 ====================

// DealerRepository 经销商仓库接口
type DealerRepository interface {
	Create(ctx context.Context, dealer *model.Dealer) error
	GetByID(ctx context.Context, id int64) (*model.Dealer, error)
	GetByEmail(ctx context.Context, email string) (*model.Dealer, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, dealer *model.Dealer) error
	UpdatePassword(ctx context.Context, id int64, hashedPassword string) error
}

// ==================== 实现 ====================

type dealerRepository struct {
	db *gorm.DB
}

// NewDealerRepository 创建经销商仓库
func NewDealerRepository(db *gorm.DB) DealerRepository {
	return &dealerRepository{db: db}
}

// Create 创建经销商
func (r *dealerRepository) Create(ctx context.Context, dealer *model.Dealer) error {
	return r.db.WithContext(ctx).Create(dealer).Error
}

// GetByID 根据 ID 获取经销商
func (r *dealerRepository) GetByID(ctx context.Context, id int64) (*model.Dealer, error) {
	var dealer model.Dealer
	err := r.db.WithContext(ctx).First(&dealer, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &dealer, err
}

// GetByEmail 根据邮箱获取经销商
func (r *dealerRepository) GetByEmail(ctx context.Context, email string) (*model.Dealer, error) {
	var dealer model.Dealer
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&dealer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &dealer, err
}

// ExistsByEmail 检查邮箱是否已注册
func (r *dealerRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Dealer{}).
		Where("email = ?", email).
		Count(&count).Error
	return count > 0, err
}

// Update 更新经销商
func (r *dealerRepository) Update(ctx context.Context, dealer *model.Dealer) error {
	return r.db.WithContext(ctx).Save(dealer).Error
}

// UpdatePassword 更新密码哈希
func (r *dealerRepository) UpdatePassword(ctx context.Context, id int64, hashedPassword string) error {
	return r.db.WithContext(ctx).
		Model(&model.Dealer{}).
		Where("id = ?", id).
		Update("password", hashedPassword).Error
}
