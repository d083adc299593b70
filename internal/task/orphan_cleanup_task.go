package task

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"nd_motors_backend/internal/repository"
)

// OrphanCleanupTask 孤儿图片清理任务
// 事务失败或进程中途退出可能在上传目录留下没有数据库行的文件，
// 定时扫描上传目录，删除数据库里查不到且已存在超过宽限期的文件。
type OrphanCleanupTask struct {
	imageRepo repository.VehicleImageRepository
	uploadDir string
	cron      *cron.Cron
	log       *logrus.Logger

	// 宽限期：太新的文件可能属于尚未提交的事务，跳过
	gracePeriod time.Duration
}

func NewOrphanCleanupTask(imageRepo repository.VehicleImageRepository, uploadDir string, log *logrus.Logger) *OrphanCleanupTask {
	return &OrphanCleanupTask{
		imageRepo:   imageRepo,
		uploadDir:   uploadDir,
		cron:        cron.New(cron.WithSeconds()),
		log:         log,
		gracePeriod: time.Hour,
	}
}

// Start 启动定时任务，每小时整点扫描一次
func (t *OrphanCleanupTask) Start() {
	_, err := t.cron.AddFunc("0 0 * * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		t.sweep(ctx)
	})
	if err != nil {
		t.log.WithError(err).Fatal("无法启动孤儿图片清理任务")
	}

	t.cron.Start()
	t.log.Info("孤儿图片清理任务已启动 (每小时扫描一次)")
}

// Stop 停止定时任务
func (t *OrphanCleanupTask) Stop() {
	t.cron.Stop()
}

// sweep 单轮扫描
func (t *OrphanCleanupTask) sweep(ctx context.Context) {
	paths, err := t.imageRepo.ListPaths(ctx)
	if err != nil {
		t.log.WithError(err).Error("孤儿清理：查询图片路径失败")
		return
	}

	// 入库路径形如 /uploads/vehicles/1/xxx.jpg，对象存储的绝对 URL 不在本地目录，跳过
	known := make(map[string]bool, len(paths))
	for _, p := range paths {
		if key := strings.TrimPrefix(p, "/uploads/"); key != p {
			known[filepath.FromSlash(key)] = true
		}
	}

	var removed int
	cutoff := time.Now().Add(-t.gracePeriod)

	err = filepath.WalkDir(t.uploadDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}

		rel, err := filepath.Rel(t.uploadDir, path)
		if err != nil || known[rel] {
			return nil
		}

		info, err := d.Info()
		if err != nil || info.ModTime().After(cutoff) {
			return nil
		}

		if err := os.Remove(path); err != nil {
			t.log.WithError(err).WithField("path", path).Warn("孤儿清理：删除文件失败")
			return nil
		}
		removed++
		return nil
	})
	if err != nil {
		t.log.WithError(err).Error("孤儿清理：扫描上传目录失败")
		return
	}

	if removed > 0 {
		t.log.WithField("removed", removed).Info("孤儿清理完成")
	}
}
