package task

import (
	"context"
	"fmt"
	"sync"
	"time"

	"classifieds_app_v1_202610/internal/repository"
	"classifieds_app_v1_202610/pkg/logger"
	"classifieds_app_v1_202610/pkg/metrics"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ReviewTask 自动审核
// 待审核超过 After 的广告被标记为已发布，模拟人工审核
type ReviewTask struct {
	listings  repository.ListingRepository
	cron      *cron.Cron
	spec      string
	after     time.Duration
	batchSize int
	now       func() time.Time
	log       *zap.SugaredLogger

	mu      sync.Mutex
	running bool
}

// ReviewTaskConfig 审核任务配置
type ReviewTaskConfig struct {
	Spec      string        // cron 表达式，如 "@every 1m"
	After     time.Duration // 待审核多久后自动通过
	BatchSize int
}

func NewReviewTask(listings repository.ListingRepository, cfg ReviewTaskConfig, log *zap.Logger) *ReviewTask {
	if cfg.Spec == "" {
		cfg.Spec = "@every 1m"
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	return &ReviewTask{
		listings:  listings,
		cron:      cron.New(),
		spec:      cfg.Spec,
		after:     cfg.After,
		batchSize: cfg.BatchSize,
		now:       time.Now,
		log:       logger.OrNop(log).Sugar(),
	}
}

// Start 启动定时任务
func (t *ReviewTask) Start() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		return nil
	}

	_, err := t.cron.AddFunc(t.spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if _, err := t.RunOnce(ctx); err != nil {
			t.log.Errorf("[ReviewTask] 自动审核失败: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("无法启动审核定时任务: %w", err)
	}

	t.cron.Start()
	t.running = true
	t.log.Infof("[ReviewTask] 自动审核任务已启动 (%s，待审核超过 %s 自动通过)", t.spec, t.after)
	return nil
}

// Stop 停止并等待正在执行的任务
func (t *ReviewTask) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running {
		return
	}
	<-t.cron.Stop().Done()
	t.running = false
	t.log.Info("[ReviewTask] 自动审核任务已停止")
}

// RunOnce 审核一批，返回通过的条数
func (t *ReviewTask) RunOnce(ctx context.Context) (int64, error) {
	now := t.now()
	pending, err := t.listings.ListPendingOlderThan(ctx, now.Add(-t.after), t.batchSize)
	if err != nil {
		metrics.RecordReview(0, err)
		return 0, err
	}
	if len(pending) == 0 {
		metrics.RecordReview(0, nil)
		return 0, nil
	}

	ids := make([]int64, 0, len(pending))
	for _, l := range pending {
		ids = append(ids, l.ID)
	}

	reviewed, err := t.listings.MarkReviewed(ctx, ids, now)
	metrics.RecordReview(reviewed, err)
	if err != nil {
		return 0, err
	}

	t.log.Infof("[ReviewTask] 本轮通过 %d 条广告: %v", reviewed, ids)
	return reviewed, nil
}
