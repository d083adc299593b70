package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"nd_motors_backend/internal/model"
	"nd_motors_backend/internal/repository"
)

// ==================== ImageService 图片生命周期 ====================

var ErrImageNotFound = errors.New("image not found")

// UploadedFile 已读入内存的上传文件
type UploadedFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ImageService 车辆图片服务
type ImageService struct {
	imageRepo   repository.VehicleImageRepository
	vehicleRepo repository.VehicleRepository
	storage     StorageProvider
	log         *logrus.Logger
}

// NewImageService 创建图片服务
func NewImageService(
	imageRepo repository.VehicleImageRepository,
	vehicleRepo repository.VehicleRepository,
	storage StorageProvider,
	log *logrus.Logger,
) *ImageService {
	return &ImageService{
		imageRepo:   imageRepo,
		vehicleRepo: vehicleRepo,
		storage:     storage,
		log:         log,
	}
}

// StoreFiles 将上传文件写入存储并构造图片行（不落库，落库由调用方在事务内完成）
// 上传顺序即 order 顺序，从 startOrder 起连续编号；
// firstIsMain 只作用于第一个文件。中途失败会清掉本批已写入的文件。
func (s *ImageService) StoreFiles(ctx context.Context, vehicleID int64, files []UploadedFile, startOrder int, firstIsMain bool) ([]model.VehicleImage, error) {
	images := make([]model.VehicleImage, 0, len(files))

	for i, file := range files {
		contentType := file.ContentType
		if contentType == "" {
			contentType = http.DetectContentType(file.Data)
		}

		stored, err := s.storage.Save(ctx, file.Data, imageKey(vehicleID, file.Filename), contentType)
		if err != nil {
			s.CleanupFiles(ctx, images)
			return nil, fmt.Errorf("store image %q failed: %w", file.Filename, err)
		}

		images = append(images, model.VehicleImage{
			VehicleID: vehicleID,
			ImageURL:  stored.Path,
			StorageID: stored.StorageID,
			IsMain:    firstIsMain && i == 0,
			Order:     startOrder + i,
		})
	}

	return images, nil
}

// AddBatch 为已有车辆追加图片
// 主图唯一性在写入时保证：仅当相册为空时，本批首图才标记为主图。
func (s *ImageService) AddBatch(ctx context.Context, vehicleID int64, files []UploadedFile) ([]model.VehicleImage, error) {
	count, err := s.imageRepo.CountByVehicleID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}

	images, err := s.StoreFiles(ctx, vehicleID, files, int(count), count == 0)
	if err != nil {
		return nil, err
	}

	if err := s.imageRepo.CreateBatch(ctx, images); err != nil {
		s.CleanupFiles(ctx, images)
		return nil, err
	}

	return images, nil
}

// Remove 删除单张图片
// 归属校验分两步：先取图片行，再比对父车辆的 dealer_id；
// 归属不符与图片不存在对外同样返回 ErrImageNotFound。
func (s *ImageService) Remove(ctx context.Context, vehicleID, imageID, dealerID int64) error {
	image, err := s.imageRepo.GetByID(ctx, imageID, vehicleID)
	if err != nil {
		return err
	}
	if image == nil {
		return ErrImageNotFound
	}

	vehicle, err := s.vehicleRepo.GetByID(ctx, vehicleID)
	if err != nil {
		return err
	}
	if vehicle == nil || vehicle.DealerID != dealerID {
		return ErrImageNotFound
	}

	// 文件删除尽力而为，失败只记日志，不阻断行删除
	if err := s.storage.Delete(ctx, image.ImageURL, image.StorageID); err != nil {
		s.log.WithError(err).WithField("image_id", image.ID).Warn("failed to delete image file")
	}

	return s.imageRepo.Delete(ctx, image.ID)
}

// CleanupFiles 尽力删除一批图片的后备文件，任何失败都只记日志
func (s *ImageService) CleanupFiles(ctx context.Context, images []model.VehicleImage) {
	for i := range images {
		if err := s.storage.Delete(ctx, images[i].ImageURL, images[i].StorageID); err != nil {
			s.log.WithError(err).WithField("path", images[i].ImageURL).Warn("failed to delete image file")
		}
	}
}

// imageKey 车辆维度的存储路径，文件名用 uuid 防止覆盖
func imageKey(vehicleID int64, filename string) string {
	ext := filepath.Ext(filename)
	if ext == "" {
		ext = ".jpg"
	}
	return fmt.Sprintf("vehicles/%d/%s%s", vehicleID, uuid.New().String(), ext)
}
