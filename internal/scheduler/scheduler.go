package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Chandan72/ai-news-agent/internal/curator"
	"github.com/Chandan72/ai-news-agent/internal/storage"
	"github.com/robfig/cron/v3"
)

// Scheduler 用 cron 驱动每日一轮策展，以及可选的历史数据清理。
// 定时触发与手动触发走同一个 Curator，重入护栏在 Curator 内部
type Scheduler struct {
	cron    *cron.Cron
	curator *curator.Curator
}

// New 创建调度器：每天在 loc 时区的 hour:minute 跑一轮策展；
// retentionDays > 0 时额外挂一个每日清理任务，store 用于执行清理
func New(cur *curator.Curator, store *storage.Store, hour, minute int, loc *time.Location, retentionDays int) (*Scheduler, error) {
	c := cron.New(cron.WithLocation(loc))

	s := &Scheduler{cron: c, curator: cur}

	spec := fmt.Sprintf("%d %d * * *", minute, hour)
	if _, err := c.AddFunc(spec, s.runOnce); err != nil {
		return nil, fmt.Errorf("add curation cron %q: %w", spec, err)
	}
	log.Printf("scheduler: daily curation at %02d:%02d (%s)", hour, minute, loc)

	if retentionDays > 0 {
		if _, err := c.AddFunc("30 3 * * *", func() {
			n, err := store.DeleteOlderThan(retentionDays)
			if err != nil {
				log.Printf("retention sweep error: %v", err)
				return
			}
			log.Printf("retention sweep: deleted %d articles older than %d days", n, retentionDays)
		}); err != nil {
			return nil, fmt.Errorf("add retention cron: %w", err)
		}
	}

	return s, nil
}

// Start 启动定时器；runOnStart 为真时延迟几秒跑首轮，避免和进程启动期的请求抢资源
func (s *Scheduler) Start(runOnStart bool) {
	s.cron.Start()
	if runOnStart {
		const startupDelay = 5 * time.Second
		time.AfterFunc(startupDelay, func() {
			go s.runOnce()
		})
	}
}

// Stop 停止后续触发，不打断已经在跑的一轮
func (s *Scheduler) Stop() {
	s.cron.Stop()
}

func (s *Scheduler) runOnce() {
	s.curator.Run(context.Background())
}
