package job

import (
	"ShareLens/internal/pkg/consts"
	"ShareLens/internal/pkg/logger"
	"ShareLens/internal/pkg/redis"
	"ShareLens/internal/service"
	"context"
	log "log/slog"
	"time"

	"github.com/coder/quartz"
	"github.com/google/uuid"
)

const reconcileLockTTL = 10 * time.Minute

// RollupReconcileJob 补偿重算失败的汇总，并重建今天与昨天的全部平台
type RollupReconcileJob struct {
	rollupSvc service.RollupService
	clock     quartz.Clock
}

func NewRollupReconcileJob(rollupSvc service.RollupService, clock quartz.Clock) *RollupReconcileJob {
	return &RollupReconcileJob{
		rollupSvc: rollupSvc,
		clock:     clock,
	}
}

func (s *RollupReconcileJob) Run() {
	ctx := logger.NewTraceContext(context.Background(), "job-rollup")

	lockValue := uuid.NewString()
	locked, err := redis.TryLock(ctx, consts.RollupReconcileLock, lockValue, reconcileLockTTL, 1)
	if err != nil {
		log.ErrorContext(ctx, "acquire rollup reconcile lock error", "err", err)
		return
	}
	if !locked {
		log.InfoContext(ctx, "rollup reconcile already running, skip")
		return
	}
	defer redis.UnLock(ctx, consts.RollupReconcileLock, lockValue)

	repaired, failed := s.drainDirty(ctx)

	today := s.clock.Now().UTC()
	rebuilt := 0
	for _, day := range []time.Time{today.AddDate(0, 0, -1), today} {
		platforms, err := s.rollupSvc.Rebuild(ctx, day)
		if err != nil {
			log.ErrorContext(ctx, "rebuild rollup error", "date", day.Format(consts.DateLayout), "err", err)
			continue
		}
		rebuilt += len(platforms)
	}

	log.InfoContext(ctx, "rollup reconcile finished",
		"repaired", repaired,
		"failed", failed,
		"rebuilt", rebuilt)
}

// drainDirty 处理补偿集合，失败的成员放回集合等待下一轮
func (s *RollupReconcileJob) drainDirty(ctx context.Context) (int, int) {
	processingKey := consts.ShareRollupDirtyKey + ":processing"
	renamed, err := redis.Rename(ctx, consts.ShareRollupDirtyKey, processingKey)
	if err != nil {
		log.ErrorContext(ctx, "rename rollup dirty set error", "err", err)
		return 0, 0
	}
	if !renamed {
		return 0, 0
	}

	members, err := redis.GetSet(ctx, processingKey)
	if err != nil {
		log.ErrorContext(ctx, "get rollup dirty set error", "err", err)
		return 0, 0
	}

	repaired := 0
	retry := make([]string, 0)
	for _, member := range members {
		date, platform, err := service.ParseDirtyMember(member)
		if err != nil {
			log.WarnContext(ctx, "drop malformed dirty member", "member", member, "err", err)
			continue
		}
		if err = s.rollupSvc.Recompute(ctx, date, platform); err != nil {
			log.ErrorContext(ctx, "recompute rollup error", "member", member, "err", err)
			retry = append(retry, member)
			continue
		}
		repaired++
	}

	if err = redis.AddToSet(ctx, consts.ShareRollupDirtyKey, retry...); err != nil {
		log.ErrorContext(ctx, "requeue rollup dirty members error", "err", err)
	}
	if err = redis.DeleteKey(ctx, processingKey); err != nil {
		log.ErrorContext(ctx, "delete rollup processing set error", "err", err)
	}
	return repaired, len(retry)
}
