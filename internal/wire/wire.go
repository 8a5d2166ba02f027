package wire

import (
	"ShareLens/internal/api"
	"ShareLens/internal/api/config"
	"ShareLens/internal/api/handler"
	"ShareLens/internal/job"
	"ShareLens/internal/pkg/cache"
	"ShareLens/internal/pkg/content"
	"ShareLens/internal/pkg/cron"
	"ShareLens/internal/pkg/fixture"
	"ShareLens/internal/pkg/kafka"
	"ShareLens/internal/pkg/ratelimit"
	"ShareLens/internal/pkg/redis"
	"ShareLens/internal/pkg/security"
	"ShareLens/internal/repository"
	"ShareLens/internal/service"
	log "log/slog"
	"time"

	"github.com/coder/quartz"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router       *gin.Engine
	DB           *gorm.DB
	KafkaManager *kafka.ConsumerManager
	CronMgr      *cron.Manager
}

func BuildApplication(db *gorm.DB, cfg *config.Config) (*ApplicationContainer, error) {
	clock := quartz.NewReal()

	eventRepo := repository.NewShareEventRepo(db)
	statRepo := repository.NewDailyStatRepo(db)

	resolver := newResolver(cfg.Content)
	limiter := ratelimit.NewRedisLimiter(redis.Rdb, time.Duration(cfg.RateLimit.Window)*time.Second, cfg.RateLimit.Ceiling)
	queryCache := cache.NewQueryCache(newCacheStore(cfg.Cache))

	demo, err := fixture.New(clock)
	if err != nil {
		return nil, err
	}

	rollupSvc := service.NewRollupService(eventRepo, statRepo)
	shareSvc := service.NewShareService(eventRepo, rollupSvc, limiter, resolver, clock, service.ShareOptions{
		ContentCheckTimeout: time.Duration(cfg.Ingest.ContentCheckTimeout) * time.Millisecond,
		SiteWideContentID:   cfg.Ingest.SiteWideContentID,
		AnonymizeIP:         cfg.Ingest.AnonymizeIP,
	})
	analyticsSvc := service.NewAnalyticsService(
		service.NewStoreSource(eventRepo, statRepo),
		resolver,
		demo,
		demo,
		queryCache,
		clock,
		service.AnalyticsOptions{
			SchemaTTL:         time.Duration(cfg.Cache.SchemaTTL) * time.Second,
			ResultTTL:         time.Duration(cfg.Cache.ResultTTL) * time.Second,
			SiteWideContentID: cfg.Ingest.SiteWideContentID,
		},
	)

	handlers := &api.HandlersGroup{
		ShareHandler:     handler.NewShareHandler(shareSvc),
		AnalyticsHandler: handler.NewAnalyticsHandler(analyticsSvc, rollupSvc, clock),
	}

	router := api.SetupRouter(handlers, api.RouterOptions{
		TrustedProxies: cfg.Server.TrustedProxies,
		Policy:         newPolicy(cfg.Access),
		ExposeMetrics:  cfg.Metrics.Enable,
	})

	var kafkaMgr *kafka.ConsumerManager
	if cfg.Kafka.Enable {
		kafkaMgr, err = kafka.NewConsumerManager(cfg, shareSvc)
		if err != nil {
			return nil, err
		}
	}

	cronMgr := cron.NewCronManager(cfg.Cron.RollupReconcile, job.NewRollupReconcileJob(rollupSvc, clock))

	return &ApplicationContainer{
		Router:       router,
		DB:           db,
		KafkaManager: kafkaMgr,
		CronMgr:      cronMgr,
	}, nil
}

func newResolver(cfg config.ContentConfig) content.Resolver {
	if cfg.BaseURL == "" {
		log.Warn("content.base_url not set, content ids are only checked locally")
		return content.NewStaticResolver()
	}
	return content.NewHTTPResolver(cfg.BaseURL, time.Duration(cfg.Timeout)*time.Millisecond, cfg.Token)
}

func newCacheStore(cfg config.CacheConfig) cache.Store {
	if cfg.Driver == "memory" {
		return cache.NewMemoryStore(cfg.MaxItems)
	}
	return cache.NewRedisStore(redis.Rdb)
}

func newPolicy(cfg config.AccessConfig) security.AccessPolicy {
	if cfg.JWTSecret == "" {
		return security.StaticPolicy{Allow: cfg.DefaultElevated}
	}
	return security.NewTierPolicy(cfg.JWTSecret, cfg.ElevatedTiers, cfg.DefaultElevated)
}
