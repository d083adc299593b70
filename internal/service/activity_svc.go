package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"nd_motors_backend/internal/model"
	"nd_motors_backend/internal/repository"
)

// ==================== ActivityService 操作记录 ====================

// 最近记录条数上限
const recentActivityLimit = 10

// ActivityService 经销商操作记录服务
type ActivityService struct {
	activityRepo repository.ActivityRepository
	log          *logrus.Logger
}

// NewActivityService 创建操作记录服务
func NewActivityService(activityRepo repository.ActivityRepository, log *logrus.Logger) *ActivityService {
	return &ActivityService{activityRepo: activityRepo, log: log}
}

// Record 旁路追加一条记录
// 任何失败都只记日志，绝不反向影响触发它的业务操作。
func (s *ActivityService) Record(ctx context.Context, dealerID int64, activityType, description string) {
	activity := &model.Activity{
		DealerID:    dealerID,
		Type:        activityType,
		Description: description,
	}

	if err := s.activityRepo.Create(ctx, activity); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"dealer_id": dealerID,
			"type":      activityType,
		}).Warn("failed to record activity")
	}
}

// Recent 最近 10 条，新的在前
func (s *ActivityService) Recent(ctx context.Context, dealerID int64) ([]model.Activity, error) {
	return s.activityRepo.RecentByDealer(ctx, dealerID, recentActivityLimit)
}
