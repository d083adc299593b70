package service

import (
	"context"
	"errors"
	"testing"

	"nd_motors_backend/internal/model"
)

// ==================== 假存储 ====================

// fakeStorage 内存存储，记录保存/删除调用供断言
type fakeStorage struct {
	saved       map[string][]byte
	saveCalls   int
	deleteCalls int

	// 第 N 次保存后开始失败；-1 表示不失败
	failSaveAfter int
	failDelete    bool
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{
		saved:         make(map[string][]byte),
		failSaveAfter: -1,
	}
}

func (f *fakeStorage) Save(ctx context.Context, data []byte, key string, contentType string) (*StoredFile, error) {
	if f.failSaveAfter >= 0 && f.saveCalls >= f.failSaveAfter {
		return nil, errors.New("storage full")
	}
	f.saveCalls++
	path := "/uploads/" + key
	f.saved[path] = data
	return &StoredFile{Path: path}, nil
}

func (f *fakeStorage) Delete(ctx context.Context, path string, storageID string) error {
	f.deleteCalls++
	if f.failDelete {
		return errors.New("delete denied")
	}
	delete(f.saved, path)
	return nil
}

// ==================== 单元测试 ====================

func TestImageService_AddBatchPromotesMainOnEmptyGallery(t *testing.T) {
	db := setupSvcTestDB(t)
	storage := newFakeStorage()
	svc, imageSvc := newCatalogServices(t, db, storage)
	ctx := context.Background()

	vehicle, err := svc.Create(ctx, 1, newCreateRequest("Empty Gallery"), nil)
	if err != nil {
		t.Fatalf("创建车辆失败: %v", err)
	}

	// 相册为空，首张补位主图
	images, err := imageSvc.AddBatch(ctx, vehicle.ID, testUploads("a.jpg", "b.jpg"))
	if err != nil {
		t.Fatalf("追加图片失败: %v", err)
	}
	if !images[0].IsMain || images[1].IsMain {
		t.Errorf("isMain = [%v %v], want [true false]", images[0].IsMain, images[1].IsMain)
	}

	// 相册非空，追加批次不再产生主图
	more, err := imageSvc.AddBatch(ctx, vehicle.ID, testUploads("c.jpg"))
	if err != nil {
		t.Fatalf("追加图片失败: %v", err)
	}
	if more[0].IsMain {
		t.Errorf("追加批次不应产生主图")
	}
	if more[0].Order != 2 {
		t.Errorf("order = %d, want 2", more[0].Order)
	}
}

func TestImageService_RemoveOwnershipHidden(t *testing.T) {
	db := setupSvcTestDB(t)
	svc, imageSvc := newCatalogServices(t, db, newFakeStorage())
	ctx := context.Background()

	vehicle, err := svc.Create(ctx, 1, newCreateRequest("Protected Car"), testUploads("a.jpg"))
	if err != nil {
		t.Fatalf("创建车辆失败: %v", err)
	}
	imageID := vehicle.Images[0].ID

	// 其他经销商删除与图片不存在一样返回 ErrImageNotFound
	if err := imageSvc.Remove(ctx, vehicle.ID, imageID, 2); err != ErrImageNotFound {
		t.Errorf("err = %v, want ErrImageNotFound", err)
	}

	// 图片挂在别的车辆 ID 下也查不到
	if err := imageSvc.Remove(ctx, vehicle.ID+1, imageID, 1); err != ErrImageNotFound {
		t.Errorf("err = %v, want ErrImageNotFound", err)
	}

	// 归属方删除成功
	if err := imageSvc.Remove(ctx, vehicle.ID, imageID, 1); err != nil {
		t.Fatalf("删除失败: %v", err)
	}

	var count int64
	db.Model(&model.VehicleImage{}).Count(&count)
	if count != 0 {
		t.Errorf("图片行数 = %d, want 0", count)
	}
}

func TestImageService_RemoveSurvivesFileDeleteFailure(t *testing.T) {
	db := setupSvcTestDB(t)
	storage := newFakeStorage()
	svc, imageSvc := newCatalogServices(t, db, storage)
	ctx := context.Background()

	vehicle, err := svc.Create(ctx, 1, newCreateRequest("Sticky Files"), testUploads("a.jpg"))
	if err != nil {
		t.Fatalf("创建车辆失败: %v", err)
	}

	storage.failDelete = true
	if err := imageSvc.Remove(ctx, vehicle.ID, vehicle.Images[0].ID, 1); err != nil {
		t.Fatalf("文件删除失败不应阻断行删除: %v", err)
	}

	var count int64
	db.Model(&model.VehicleImage{}).Count(&count)
	if count != 0 {
		t.Errorf("图片行数 = %d, want 0", count)
	}
}

func TestImageService_StoreFilesCleansUpOnPartialFailure(t *testing.T) {
	db := setupSvcTestDB(t)
	storage := newFakeStorage()
	storage.failSaveAfter = 2
	_, imageSvc := newCatalogServices(t, db, storage)
	ctx := context.Background()

	_, err := imageSvc.StoreFiles(ctx, 1, testUploads("a.jpg", "b.jpg", "c.jpg"), 0, true)
	if err == nil {
		t.Fatalf("保存应该失败")
	}
	if len(storage.saved) != 0 {
		t.Errorf("残留文件数 = %d, want 0", len(storage.saved))
	}
}

// 确保假存储满足接口
var _ StorageProvider = (*fakeStorage)(nil)
