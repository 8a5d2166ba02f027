package cron

import (
	"fmt"
	log "log/slog"
)

// InitCron 注册汇总补偿任务并启动调度
func InitCron(mgr *Manager) error {
	if err := mgr.RegisterJobs(); err != nil {
		return fmt.Errorf("register rollup reconcile job %q: %w", mgr.reconcileSpec, err)
	}
	mgr.Start()
	log.Info("Cron jobs scheduled", "rollup_reconcile", mgr.reconcileSpec, "entries", len(mgr.engine.Entries()))
	return nil
}
