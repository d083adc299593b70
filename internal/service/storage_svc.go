package service

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ==================== 接口定义 ====================

// StoredFile 落盘结果
// Path 为入库的相对路径（本地）或公开 URL（对象存储）
// StorageID 为对象存储侧的 key，本地存储为空
type StoredFile struct {
	Path      string
	StorageID string
}

// StorageProvider 存储提供者接口
type StorageProvider interface {
	// Save 按 key 保存文件内容
	Save(ctx context.Context, data []byte, key string, contentType string) (*StoredFile, error)

	// Delete 删除文件
	Delete(ctx context.Context, path string, storageID string) error
}

// ==================== 配置 ====================

type StorageConfig struct {
	Provider  string // "local" | "s3"
	UploadDir string // 本地上传目录
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
	CDNDomain string // CDN 域名（可选）
	BasePath  string // key 前缀
}

// ==================== 工厂方法 ====================

func NewStorageProvider(cfg *StorageConfig) (StorageProvider, error) {
	switch cfg.Provider {
	case "local", "":
		return NewLocalStorage(cfg)
	case "s3":
		return NewS3Storage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage provider: %s", cfg.Provider)
	}
}

// ==================== 本地存储（默认） ====================

// LocalStorage 本地磁盘存储，文件通过 /uploads 静态路由对外
type LocalStorage struct {
	uploadDir string
}

func NewLocalStorage(cfg *StorageConfig) (*LocalStorage, error) {
	uploadDir := cfg.UploadDir
	if uploadDir == "" {
		uploadDir = "./uploads"
	}
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir failed: %w", err)
	}
	return &LocalStorage{uploadDir: uploadDir}, nil
}

func (s *LocalStorage) Save(ctx context.Context, data []byte, key string, contentType string) (*StoredFile, error) {
	fullPath := filepath.Join(s.uploadDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return nil, fmt.Errorf("create image dir failed: %w", err)
	}
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return nil, fmt.Errorf("write image file failed: %w", err)
	}

	return &StoredFile{Path: "/uploads/" + key}, nil
}

func (s *LocalStorage) Delete(ctx context.Context, path string, storageID string) error {
	key := strings.TrimPrefix(path, "/uploads/")
	if key == "" || key == path {
		return fmt.Errorf("unrecognized local storage path: %s", path)
	}
	return os.Remove(filepath.Join(s.uploadDir, filepath.FromSlash(key)))
}

// ==================== S3 实现 ====================

type S3Storage struct {
	client    *s3.Client
	bucket    string
	region    string
	cdnDomain string
	basePath  string
}

func NewS3Storage(cfg *StorageConfig) (*S3Storage, error) {
	awsCfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config failed: %w", err)
	}

	return &S3Storage{
		client:    s3.NewFromConfig(awsCfg),
		bucket:    cfg.Bucket,
		region:    cfg.Region,
		cdnDomain: cfg.CDNDomain,
		basePath:  cfg.BasePath,
	}, nil
}

func (s *S3Storage) Save(ctx context.Context, data []byte, key string, contentType string) (*StoredFile, error) {
	fullKey := key
	if s.basePath != "" {
		fullKey = s.basePath + "/" + key
	}

	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(fullKey),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return nil, fmt.Errorf("upload to s3 failed: %w", err)
	}

	return &StoredFile{
		Path:      s.publicURL(fullKey),
		StorageID: fullKey,
	}, nil
}

func (s *S3Storage) Delete(ctx context.Context, path string, storageID string) error {
	if storageID == "" {
		return fmt.Errorf("missing storage id for %s", path)
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(storageID),
	})
	return err
}

func (s *S3Storage) publicURL(key string) string {
	if s.cdnDomain != "" {
		return fmt.Sprintf("https://%s/%s", s.cdnDomain, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}
