package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocalStorage_SaveAndDelete(t *testing.T) {
	dir := t.TempDir()
	storage, err := NewLocalStorage(&StorageConfig{UploadDir: dir})
	assert.NoError(t, err)

	ctx := context.Background()
	stored, err := storage.Save(ctx, []byte("fake-image"), "vehicles/1/photo.jpg", "image/jpeg")
	assert.NoError(t, err)
	assert.Equal(t, "/uploads/vehicles/1/photo.jpg", stored.Path)
	assert.Empty(t, stored.StorageID)

	// 文件确实落在上传目录下
	data, err := os.ReadFile(filepath.Join(dir, "vehicles", "1", "photo.jpg"))
	assert.NoError(t, err)
	assert.Equal(t, "fake-image", string(data))

	// 删除后文件消失
	assert.NoError(t, storage.Delete(ctx, stored.Path, ""))
	_, err = os.Stat(filepath.Join(dir, "vehicles", "1", "photo.jpg"))
	assert.True(t, os.IsNotExist(err))
}

func TestLocalStorage_DeleteRejectsForeignPath(t *testing.T) {
	storage, err := NewLocalStorage(&StorageConfig{UploadDir: t.TempDir()})
	assert.NoError(t, err)

	// 非 /uploads/ 前缀的路径（如 S3 绝对地址）不归本地存储管
	err = storage.Delete(context.Background(), "https://bucket.s3.amazonaws.com/x.jpg", "")
	assert.Error(t, err)
}

func TestNewStorageProvider(t *testing.T) {
	// 缺省走本地存储
	provider, err := NewStorageProvider(&StorageConfig{UploadDir: t.TempDir()})
	assert.NoError(t, err)
	assert.IsType(t, &LocalStorage{}, provider)

	_, err = NewStorageProvider(&StorageConfig{Provider: "ftp"})
	assert.Error(t, err)
}
