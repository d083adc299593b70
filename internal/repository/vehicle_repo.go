package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"nd_motors_backend/internal/model"
)

// ==================== 仓储接口 ====================

// VehicleRepository 车辆仓储接口
type VehicleRepository interface {
	Create(ctx context.Context, vehicle *model.Vehicle) error
	GetByID(ctx context.Context, id int64) (*model.Vehicle, error)
	// GetByIDForDealer 按归属经销商查询；归属不符与不存在同样返回 nil
	GetByIDForDealer(ctx context.Context, id, dealerID int64) (*model.Vehicle, error)
	Update(ctx context.Context, vehicle *model.Vehicle) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter VehicleFilter) ([]model.Vehicle, int64, error)
}

// VehicleImageRepository 车辆图片仓储接口
type VehicleImageRepository interface {
	CreateBatch(ctx context.Context, images []model.VehicleImage) error
	// GetByID 按图片 ID + 车辆 ID 双重限定查询
	GetByID(ctx context.Context, id, vehicleID int64) (*model.VehicleImage, error)
	GetByVehicleID(ctx context.Context, vehicleID int64) ([]model.VehicleImage, error)
	CountByVehicleID(ctx context.Context, vehicleID int64) (int64, error)
	Delete(ctx context.Context, id int64) error
	DeleteByVehicleID(ctx context.Context, vehicleID int64) error
	// ListPaths 返回所有图片行的存储路径，供孤儿文件清理任务使用
	ListPaths(ctx context.Context) ([]string, error)
}

// ==================== 过滤条件 ====================

// VehicleFilter 车辆检索条件
// 不同字段之间为 AND 关系，Search 在 title/make/model/description 内为 OR
type VehicleFilter struct {
	Status       string // 默认 active
	Search       string
	Make         string
	Model        string
	FuelType     string
	Transmission string
	Condition    string
	MinPrice     *float64
	MaxPrice     *float64
	MinYear      *int
	MaxYear      *int
	Page         int
	PageSize     int
}

// ==================== Vehicle 仓储实现 ====================

type vehicleRepository struct {
	db *gorm.DB
}

// NewVehicleRepository 创建车辆仓储
func NewVehicleRepository(db *gorm.DB) VehicleRepository {
	return &vehicleRepository{db: db}
}

func (r *vehicleRepository) Create(ctx context.Context, vehicle *model.Vehicle) error {
	return r.db.WithContext(ctx).Create(vehicle).Error
}

func (r *vehicleRepository) GetByID(ctx context.Context, id int64) (*model.Vehicle, error) {
	var vehicle model.Vehicle
	err := r.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_num ASC")
		}).
		First(&vehicle, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &vehicle, err
}

func (r *vehicleRepository) GetByIDForDealer(ctx context.Context, id, dealerID int64) (*model.Vehicle, error) {
	var vehicle model.Vehicle
	err := r.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_num ASC")
		}).
		Where("id = ? AND dealer_id = ?", id, dealerID).
		First(&vehicle).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &vehicle, err
}

func (r *vehicleRepository) Update(ctx context.Context, vehicle *model.Vehicle) error {
	// Save 全量落库；Images 由图片仓储单独维护
	return r.db.WithContext(ctx).Omit("Images").Save(vehicle).Error
}

func (r *vehicleRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.Vehicle{}, id).Error
}

// List 条件检索 + 分页
func (r *vehicleRepository) List(ctx context.Context, filter VehicleFilter) ([]model.Vehicle, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Vehicle{})

	// 状态过滤，缺省只看在售
	status := filter.Status
	if status == "" {
		status = string(model.VehicleStatusActive)
	}
	query = query.Where("status = ?", status)

	// 关键词：标题/品牌/型号/描述 任一命中
	if filter.Search != "" {
		keyword := "%" + filter.Search + "%"
		query = query.Where(
			"title LIKE ? OR make LIKE ? OR model LIKE ? OR description LIKE ?",
			keyword, keyword, keyword, keyword,
		)
	}

	// 精确匹配
	if filter.Make != "" {
		query = query.Where("make = ?", filter.Make)
	}
	if filter.Model != "" {
		query = query.Where("model = ?", filter.Model)
	}
	if filter.FuelType != "" {
		query = query.Where("fuel_type = ?", filter.FuelType)
	}
	if filter.Transmission != "" {
		query = query.Where("transmission = ?", filter.Transmission)
	}
	if filter.Condition != "" {
		query = query.Where("`condition` = ?", filter.Condition)
	}

	// 区间匹配（闭区间）
	if filter.MinPrice != nil {
		query = query.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("price <= ?", *filter.MaxPrice)
	}
	if filter.MinYear != nil {
		query = query.Where("year >= ?", *filter.MinYear)
	}
	if filter.MaxYear != nil {
		query = query.Where("year <= ?", *filter.MaxYear)
	}

	// 统计总数（主表计数，图片不会放大结果）
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// 分页，1 起始
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 10
	}
	offset := (filter.Page - 1) * filter.PageSize

	var vehicles []model.Vehicle
	err := query.
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_num ASC")
		}).
		Order("created_at DESC").
		Offset(offset).
		Limit(filter.PageSize).
		Find(&vehicles).Error

	return vehicles, total, err
}

// ==================== VehicleImage 仓储实现 ====================

type vehicleImageRepository struct {
	db *gorm.DB
}

// NewVehicleImageRepository 创建车辆图片仓储
func NewVehicleImageRepository(db *gorm.DB) VehicleImageRepository {
	return &vehicleImageRepository{db: db}
}

func (r *vehicleImageRepository) CreateBatch(ctx context.Context, images []model.VehicleImage) error {
	if len(images) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&images).Error
}

func (r *vehicleImageRepository) GetByID(ctx context.Context, id, vehicleID int64) (*model.VehicleImage, error) {
	var image model.VehicleImage
	err := r.db.WithContext(ctx).
		Where("id = ? AND vehicle_id = ?", id, vehicleID).
		First(&image).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &image, err
}

func (r *vehicleImageRepository) GetByVehicleID(ctx context.Context, vehicleID int64) ([]model.VehicleImage, error) {
	var images []model.VehicleImage
	err := r.db.WithContext(ctx).
		Where("vehicle_id = ?", vehicleID).
		Order("order_num ASC").
		Find(&images).Error
	return images, err
}

func (r *vehicleImageRepository) CountByVehicleID(ctx context.Context, vehicleID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.VehicleImage{}).
		Where("vehicle_id = ?", vehicleID).
		Count(&count).Error
	return count, err
}

func (r *vehicleImageRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.VehicleImage{}, id).Error
}

func (r *vehicleImageRepository) DeleteByVehicleID(ctx context.Context, vehicleID int64) error {
	return r.db.WithContext(ctx).
		Where("vehicle_id = ?", vehicleID).
		Delete(&model.VehicleImage{}).Error
}

func (r *vehicleImageRepository) ListPaths(ctx context.Context) ([]string, error) {
	var paths []string
	err := r.db.WithContext(ctx).
		Model(&model.VehicleImage{}).
		Pluck("image_url", &paths).Error
	return paths, err
}

// ==================== 事务支持 ====================

// CatalogUnitOfWork 车辆目录工作单元（车辆 + 图片同事务落库）
type CatalogUnitOfWork struct {
	db       *gorm.DB
	Vehicles VehicleRepository
	Images   VehicleImageRepository
}

// NewCatalogUnitOfWork 创建工作单元
func NewCatalogUnitOfWork(db *gorm.DB) *CatalogUnitOfWork {
	return &CatalogUnitOfWork{
		db:       db,
		Vehicles: NewVehicleRepository(db),
		Images:   NewVehicleImageRepository(db),
	}
}

// Transaction 执行事务
func (u *CatalogUnitOfWork) Transaction(ctx context.Context, fn func(uow *CatalogUnitOfWork) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txUow := &CatalogUnitOfWork{
			db:       tx,
			Vehicles: NewVehicleRepository(tx),
			Images:   NewVehicleImageRepository(tx),
		}
		return fn(txUow)
	})
}
