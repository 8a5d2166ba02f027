package cron

import (
	"ShareLens/internal/job"
	log "log/slog"

	"github.com/robfig/cron/v3"
)

const defaultReconcileSpec = "0 */5 * * * *"

type Manager struct {
	engine        *cron.Cron
	reconcileSpec string
	reconcileJob  *job.RollupReconcileJob
}

func NewCronManager(reconcileSpec string, reconcileJob *job.RollupReconcileJob) *Manager {
	if reconcileSpec == "" {
		reconcileSpec = defaultReconcileSpec
	}
	return &Manager{
		engine:        cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		reconcileSpec: reconcileSpec,
		reconcileJob:  reconcileJob,
	}
}

// RegisterJobs 注册定时任务
func (s *Manager) RegisterJobs() error {
	if _, err := s.engine.AddJob(s.reconcileSpec, s.reconcileJob); err != nil {
		return err
	}
	return nil
}

func (s *Manager) Start() {
	log.Info("Cron 定时任务引擎启动")
	s.engine.Start()
}

// Stop 停止调度并等待运行中的任务结束
func (s *Manager) Stop() {
	log.Info("Cron 定时任务引擎停止")
	<-s.engine.Stop().Done()
}
