package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"nd_motors_backend/internal/api/dto"
	"nd_motors_backend/internal/model"
	"nd_motors_backend/internal/repository"
)

// ==================== VehicleService 车辆目录 ====================

var ErrVehicleNotFound = errors.New("vehicle not found")

// VehicleService 车辆目录服务
type VehicleService struct {
	uow         *repository.CatalogUnitOfWork
	vehicleRepo repository.VehicleRepository
	imageSvc    *ImageService
	activitySvc *ActivityService
	baseURL     string
	log         *logrus.Logger
}

// NewVehicleService 创建车辆目录服务
func NewVehicleService(
	uow *repository.CatalogUnitOfWork,
	vehicleRepo repository.VehicleRepository,
	imageSvc *ImageService,
	activitySvc *ActivityService,
	baseURL string,
	log *logrus.Logger,
) *VehicleService {
	return &VehicleService{
		uow:         uow,
		vehicleRepo: vehicleRepo,
		imageSvc:    imageSvc,
		activitySvc: activitySvc,
		baseURL:     strings.TrimRight(baseURL, "/"),
		log:         log,
	}
}

// Create 新建车辆
// 车辆行与图片行在同一事务内落库；文件先落盘，事务失败后尽力回收。
// 首批图片的第一张为主图。操作记录为旁路写入，失败不影响结果。
func (s *VehicleService) Create(ctx context.Context, dealerID int64, req *dto.VehicleCreateRequest, files []UploadedFile) (*model.Vehicle, error) {
	vehicle := &model.Vehicle{
		DealerID:     dealerID,
		Title:        req.Title,
		Make:         req.Make,
		Model:        req.Model,
		Year:         req.Year,
		Price:        req.Price,
		Description:  req.Description,
		Mileage:      req.Mileage,
		FuelType:     req.FuelType,
		Transmission: req.Transmission,
		BodyStyle:    req.BodyStyle,
		Color:        req.Color,
		EngineSize:   req.EngineSize,
		Power:        req.Power,
		Features:     marshalFeatures(req.Features),
		Condition:    req.Condition,
		Status:       model.VehicleStatusActive, // 新建一律在售
		Featured:     req.Featured,
	}

	var stored []model.VehicleImage
	err := s.uow.Transaction(ctx, func(uow *repository.CatalogUnitOfWork) error {
		if err := uow.Vehicles.Create(ctx, vehicle); err != nil {
			return err
		}

		if len(files) > 0 {
			images, err := s.imageSvc.StoreFiles(ctx, vehicle.ID, files, 0, true)
			if err != nil {
				return err
			}
			stored = images
			if err := uow.Images.CreateBatch(ctx, images); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		// 事务已回滚，把落盘文件也收回去
		s.imageSvc.CleanupFiles(ctx, stored)
		return nil, err
	}

	s.activitySvc.Record(ctx, dealerID, "vehicle",
		fmt.Sprintf("Added new vehicle: %s %s %d", vehicle.Make, vehicle.Model, vehicle.Year))

	return s.GetByID(ctx, vehicle.ID)
}

// List 公开检索
func (s *VehicleService) List(ctx context.Context, filter repository.VehicleFilter) (*dto.VehicleListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 10
	}

	vehicles, total, err := s.vehicleRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	for i := range vehicles {
		s.resolveImageURLs(&vehicles[i])
	}

	totalPages := int((total + int64(filter.PageSize) - 1) / int64(filter.PageSize))

	return &dto.VehicleListResponse{
		Vehicles:    vehicles,
		Total:       total,
		TotalPages:  totalPages,
		CurrentPage: filter.Page,
	}, nil
}

// GetByID 详情（含图片，URL 已解析为绝对地址）
func (s *VehicleService) GetByID(ctx context.Context, id int64) (*model.Vehicle, error) {
	vehicle, err := s.vehicleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if vehicle == nil {
		return nil, ErrVehicleNotFound
	}

	s.resolveImageURLs(vehicle)
	return vehicle, nil
}

// Update 更新车辆
// 只有归属经销商可更新；归属不符与不存在同样返回 ErrVehicleNotFound，
// 不向调用方暴露车辆是否真实存在。新图片只追加，不替换已有图片。
func (s *VehicleService) Update(ctx context.Context, id, dealerID int64, req *dto.VehicleUpdateRequest, files []UploadedFile) (*model.Vehicle, error) {
	vehicle, err := s.vehicleRepo.GetByIDForDealer(ctx, id, dealerID)
	if err != nil {
		return nil, err
	}
	if vehicle == nil {
		return nil, ErrVehicleNotFound
	}

	applyVehicleUpdates(vehicle, req)

	existing := len(vehicle.Images)
	var stored []model.VehicleImage
	err = s.uow.Transaction(ctx, func(uow *repository.CatalogUnitOfWork) error {
		if err := uow.Vehicles.Update(ctx, vehicle); err != nil {
			return err
		}

		if len(files) > 0 {
			// 追加批次不重置主图；相册为空时首图补位主图
			images, err := s.imageSvc.StoreFiles(ctx, vehicle.ID, files, existing, existing == 0)
			if err != nil {
				return err
			}
			stored = images
			if err := uow.Images.CreateBatch(ctx, images); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.imageSvc.CleanupFiles(ctx, stored)
		return nil, err
	}

	s.activitySvc.Record(ctx, dealerID, "vehicle",
		fmt.Sprintf("Updated vehicle: %s %s %d", vehicle.Make, vehicle.Model, vehicle.Year))

	return s.GetByID(ctx, vehicle.ID)
}

// Delete 删除车辆，级联删除图片行
// 先尽力清理后备文件：单个文件删不掉只记日志，不阻断行删除。
func (s *VehicleService) Delete(ctx context.Context, id, dealerID int64) error {
	vehicle, err := s.vehicleRepo.GetByIDForDealer(ctx, id, dealerID)
	if err != nil {
		return err
	}
	if vehicle == nil {
		return ErrVehicleNotFound
	}

	s.imageSvc.CleanupFiles(ctx, vehicle.Images)

	return s.uow.Transaction(ctx, func(uow *repository.CatalogUnitOfWork) error {
		if err := uow.Images.DeleteByVehicleID(ctx, vehicle.ID); err != nil {
			return err
		}
		return uow.Vehicles.Delete(ctx, vehicle.ID)
	})
}

// AddImages 为车辆追加图片（PUT /vehicles/:id/images）
func (s *VehicleService) AddImages(ctx context.Context, id, dealerID int64, files []UploadedFile) (*model.Vehicle, error) {
	vehicle, err := s.vehicleRepo.GetByIDForDealer(ctx, id, dealerID)
	if err != nil {
		return nil, err
	}
	if vehicle == nil {
		return nil, ErrVehicleNotFound
	}

	if _, err := s.imageSvc.AddBatch(ctx, vehicle.ID, files); err != nil {
		return nil, err
	}

	return s.GetByID(ctx, vehicle.ID)
}

// RemoveImage 删除车辆单张图片
func (s *VehicleService) RemoveImage(ctx context.Context, vehicleID, imageID, dealerID int64) error {
	return s.imageSvc.Remove(ctx, vehicleID, imageID, dealerID)
}

// ==================== 辅助方法 ====================

// resolveImageURLs 相对路径拼接成绝对 URL；对象存储返回的绝对地址原样保留
func (s *VehicleService) resolveImageURLs(vehicle *model.Vehicle) {
	for i := range vehicle.Images {
		url := vehicle.Images[i].ImageURL
		if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
			vehicle.Images[i].ImageURL = s.baseURL + url
		}
	}
}

// applyVehicleUpdates 非 nil 字段覆盖到模型
func applyVehicleUpdates(vehicle *model.Vehicle, req *dto.VehicleUpdateRequest) {
	if req.Title != nil {
		vehicle.Title = *req.Title
	}
	if req.Make != nil {
		vehicle.Make = *req.Make
	}
	if req.Model != nil {
		vehicle.Model = *req.Model
	}
	if req.Year != nil {
		vehicle.Year = *req.Year
	}
	if req.Price != nil {
		vehicle.Price = *req.Price
	}
	if req.Description != nil {
		vehicle.Description = *req.Description
	}
	if req.Mileage != nil {
		vehicle.Mileage = *req.Mileage
	}
	if req.FuelType != nil {
		vehicle.FuelType = *req.FuelType
	}
	if req.Transmission != nil {
		vehicle.Transmission = *req.Transmission
	}
	if req.BodyStyle != nil {
		vehicle.BodyStyle = *req.BodyStyle
	}
	if req.Color != nil {
		vehicle.Color = *req.Color
	}
	if req.EngineSize != nil {
		vehicle.EngineSize = *req.EngineSize
	}
	if req.Power != nil {
		vehicle.Power = *req.Power
	}
	if req.Features != nil {
		vehicle.Features = marshalFeatures(req.Features)
	}
	if req.Condition != nil {
		vehicle.Condition = *req.Condition
	}
	if req.Status != nil {
		vehicle.Status = model.VehicleStatus(*req.Status)
	}
	if req.Featured != nil {
		vehicle.Featured = *req.Featured
	}
}

func marshalFeatures(features []string) datatypes.JSON {
	if features == nil {
		features = []string{}
	}
	data, _ := json.Marshal(features)
	return datatypes.JSON(data)
}
