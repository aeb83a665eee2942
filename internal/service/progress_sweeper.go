package service

import (
	"context"
	"lms_backend/internal/repository"
	"lms_backend/pkg/logger"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ProgressSweeper 定期删除指向已移除课程内容的完成记录
type ProgressSweeper struct {
	EnrollmentRepo *repository.EnrollmentRepository
	cron           *cron.Cron
}

func NewProgressSweeper(enrollmentRepo *repository.EnrollmentRepository) *ProgressSweeper {
	return &ProgressSweeper{EnrollmentRepo: enrollmentRepo}
}

// Sweep 返回删除的记录数
func (s *ProgressSweeper) Sweep(ctx context.Context) (int64, error) {
	stale, err := s.EnrollmentRepo.FindStaleCompletions(ctx)
	if err != nil {
		return 0, err
	}
	if len(stale) == 0 {
		return 0, nil
	}
	return s.EnrollmentRepo.DeleteCompletions(ctx, stale)
}

// Start 按 cron 表达式调度，表达式为空时不启动
func (s *ProgressSweeper) Start(schedule string) error {
	if schedule == "" {
		return nil
	}
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		removed, err := s.Sweep(context.Background())
		if err != nil {
			logger.For("jobs").Error("Progress sweep failed", zap.Error(err))
			return
		}
		logger.For("jobs").Info("Progress sweep finished", zap.Int64("removed", removed))
	})
	if err != nil {
		return err
	}
	s.cron = c
	c.Start()
	return nil
}

func (s *ProgressSweeper) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}
