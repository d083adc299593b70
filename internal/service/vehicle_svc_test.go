package service

import (
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"nd_motors_backend/internal/api/dto"
	"nd_motors_backend/internal/model"
	"nd_motors_backend/internal/repository"
)

// ==================== 测试辅助 ====================

func setupSvcTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}

	if err := db.AutoMigrate(&model.Dealer{}, &model.Vehicle{}, &model.VehicleImage{}, &model.Activity{}); err != nil {
		t.Fatalf("自动建表失败: %v", err)
	}
	return db
}

func newSilentLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// newCatalogServices 组装一套接在同一个 sqlite 上的目录服务
func newCatalogServices(t *testing.T, db *gorm.DB, storage StorageProvider) (*VehicleService, *ImageService) {
	log := newSilentLogger()
	vehicleRepo := repository.NewVehicleRepository(db)
	imageRepo := repository.NewVehicleImageRepository(db)
	activitySvc := NewActivityService(repository.NewActivityRepository(db), log)
	imageSvc := NewImageService(imageRepo, vehicleRepo, storage, log)
	vehicleSvc := NewVehicleService(
		repository.NewCatalogUnitOfWork(db), vehicleRepo,
		imageSvc, activitySvc,
		"http://localhost:8080", log,
	)
	return vehicleSvc, imageSvc
}

func newCreateRequest(title string) *dto.VehicleCreateRequest {
	return &dto.VehicleCreateRequest{
		Title:        title,
		Make:         "Toyota",
		Model:        "Corolla",
		Year:         2020,
		Price:        15000,
		Description:  "Well maintained",
		Mileage:      42000,
		FuelType:     "Petrol",
		Transmission: "Manual",
		BodyStyle:    "Sedan",
		Color:        "White",
		Features:     []string{"ABS", "Airbags"},
		Condition:    "Used",
	}
}

func testUploads(names ...string) []UploadedFile {
	files := make([]UploadedFile, 0, len(names))
	for _, name := range names {
		files = append(files, UploadedFile{
			Filename:    name,
			ContentType: "image/jpeg",
			Data:        []byte("fake-image-bytes-" + name),
		})
	}
	return files
}

// ==================== 单元测试 ====================

func TestVehicleService_CreateWithImages(t *testing.T) {
	db := setupSvcTestDB(t)
	storage := newFakeStorage()
	svc, _ := newCatalogServices(t, db, storage)
	ctx := context.Background()

	vehicle, err := svc.Create(ctx, 1, newCreateRequest("Family Car"), testUploads("a.jpg", "b.jpg", "c.jpg"))
	if err != nil {
		t.Fatalf("创建车辆失败: %v", err)
	}

	if vehicle.Status != model.VehicleStatusActive {
		t.Errorf("status = %s, want active", vehicle.Status)
	}
	if len(vehicle.Images) != 3 {
		t.Fatalf("图片数量 = %d, want 3", len(vehicle.Images))
	}
	for i, img := range vehicle.Images {
		if img.Order != i {
			t.Errorf("images[%d].Order = %d, want %d", i, img.Order, i)
		}
		wantMain := i == 0
		if img.IsMain != wantMain {
			t.Errorf("images[%d].IsMain = %v, want %v", i, img.IsMain, wantMain)
		}
	}

	// 操作记录已旁路写入
	var activities []model.Activity
	db.Find(&activities)
	if len(activities) != 1 {
		t.Errorf("操作记录数量 = %d, want 1", len(activities))
	}
}

func TestVehicleService_CreateRollsBackOnImageFailure(t *testing.T) {
	db := setupSvcTestDB(t)
	storage := newFakeStorage()
	storage.failSaveAfter = 1 // 第二张图落盘失败
	svc, _ := newCatalogServices(t, db, storage)
	ctx := context.Background()

	_, err := svc.Create(ctx, 1, newCreateRequest("Doomed Car"), testUploads("a.jpg", "b.jpg"))
	if err == nil {
		t.Fatalf("创建应该失败")
	}

	// 车辆行已回滚
	var count int64
	db.Model(&model.Vehicle{}).Count(&count)
	if count != 0 {
		t.Errorf("车辆行数 = %d, want 0", count)
	}

	// 已落盘的文件被回收
	if len(storage.saved) != 0 {
		t.Errorf("残留文件数 = %d, want 0", len(storage.saved))
	}
}

func TestVehicleService_UpdateAppendsImages(t *testing.T) {
	db := setupSvcTestDB(t)
	storage := newFakeStorage()
	svc, _ := newCatalogServices(t, db, storage)
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, newCreateRequest("Gallery Car"), testUploads("a.jpg", "b.jpg"))
	if err != nil {
		t.Fatalf("创建车辆失败: %v", err)
	}

	newPrice := 12000.0
	updated, err := svc.Update(ctx, created.ID, 1, &dto.VehicleUpdateRequest{Price: &newPrice}, testUploads("c.jpg"))
	if err != nil {
		t.Fatalf("更新失败: %v", err)
	}

	if updated.Price != 12000 {
		t.Errorf("price = %v, want 12000", updated.Price)
	}
	if len(updated.Images) != 3 {
		t.Fatalf("图片数量 = %d, want 3", len(updated.Images))
	}
	// 追加的图片排在末尾且不是主图
	last := updated.Images[2]
	if last.Order != 2 || last.IsMain {
		t.Errorf("追加图片 order = %d isMain = %v, want 2 false", last.Order, last.IsMain)
	}
}

func TestVehicleService_UpdateOwnershipHidden(t *testing.T) {
	db := setupSvcTestDB(t)
	svc, _ := newCatalogServices(t, db, newFakeStorage())
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, newCreateRequest("Private Car"), nil)
	if err != nil {
		t.Fatalf("创建车辆失败: %v", err)
	}

	// 其他经销商更新与查询不存在的车辆一样返回 ErrVehicleNotFound
	title := "Hijacked"
	_, err = svc.Update(ctx, created.ID, 2, &dto.VehicleUpdateRequest{Title: &title}, nil)
	if err != ErrVehicleNotFound {
		t.Errorf("err = %v, want ErrVehicleNotFound", err)
	}

	if err := svc.Delete(ctx, created.ID, 2); err != ErrVehicleNotFound {
		t.Errorf("delete err = %v, want ErrVehicleNotFound", err)
	}
}

func TestVehicleService_DeleteCascades(t *testing.T) {
	db := setupSvcTestDB(t)
	storage := newFakeStorage()
	storage.failDelete = true // 文件删除失败不阻断
	svc, _ := newCatalogServices(t, db, storage)
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, newCreateRequest("Short-lived Car"), testUploads("a.jpg", "b.jpg"))
	if err != nil {
		t.Fatalf("创建车辆失败: %v", err)
	}

	if err := svc.Delete(ctx, created.ID, 1); err != nil {
		t.Fatalf("删除失败: %v", err)
	}

	var vehicleCount, imageCount int64
	db.Model(&model.Vehicle{}).Count(&vehicleCount)
	db.Model(&model.VehicleImage{}).Count(&imageCount)
	if vehicleCount != 0 || imageCount != 0 {
		t.Errorf("vehicleCount = %d imageCount = %d, want 0 0", vehicleCount, imageCount)
	}

	// 两个文件都尝试过删除
	if storage.deleteCalls != 2 {
		t.Errorf("deleteCalls = %d, want 2", storage.deleteCalls)
	}
}

func TestVehicleService_ListPaginationMeta(t *testing.T) {
	db := setupSvcTestDB(t)
	svc, _ := newCatalogServices(t, db, newFakeStorage())
	ctx := context.Background()

	for i := 0; i < 23; i++ {
		if _, err := svc.Create(ctx, 1, newCreateRequest("Car"), nil); err != nil {
			t.Fatalf("创建车辆失败: %v", err)
		}
	}

	resp, err := svc.List(ctx, repository.VehicleFilter{Page: 3, PageSize: 10})
	if err != nil {
		t.Fatalf("检索失败: %v", err)
	}
	if resp.Total != 23 {
		t.Errorf("total = %d, want 23", resp.Total)
	}
	if resp.TotalPages != 3 {
		t.Errorf("totalPages = %d, want 3", resp.TotalPages)
	}
	if resp.CurrentPage != 3 {
		t.Errorf("currentPage = %d, want 3", resp.CurrentPage)
	}
	if len(resp.Vehicles) != 3 {
		t.Errorf("尾页条数 = %d, want 3", len(resp.Vehicles))
	}
}

func TestVehicleService_ResolvesImageURLs(t *testing.T) {
	db := setupSvcTestDB(t)
	svc, _ := newCatalogServices(t, db, newFakeStorage())
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, newCreateRequest("Pictured Car"), testUploads("a.jpg"))
	if err != nil {
		t.Fatalf("创建车辆失败: %v", err)
	}

	got, err := svc.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	url := got.Images[0].ImageURL
	if len(url) == 0 || url[0] == '/' {
		t.Errorf("imageUrl = %s, want 绝对地址", url)
	}
}
