package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Cfg 全局可访问的配置实例
var Cfg *Config

// LoadConfig 从文件加载配置并填充到 Cfg，环境变量 SHARE_* 优先
func LoadConfig() error {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")

	v.SetEnvPrefix("share")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	Cfg = &cfg

	return nil
}

// Default 仅包含默认值的配置，测试与本地运行使用
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return &cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.trusted_proxies", []string{"127.0.0.1", "::1"})
	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.max_idle", 10)
	v.SetDefault("database.max_open", 50)
	v.SetDefault("database.max_lifetime", 30)
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("redis.pool_size", 20)
	v.SetDefault("log.level", "info")
	v.SetDefault("rate_limit.window", 60)
	v.SetDefault("rate_limit.ceiling", 10)
	v.SetDefault("cache.driver", "redis")
	v.SetDefault("cache.schema_ttl", 3600)
	v.SetDefault("cache.result_ttl", 300)
	v.SetDefault("cache.max_items", 1024)
	v.SetDefault("ingest.content_check_timeout", 500)
	v.SetDefault("ingest.site_wide_content_id", 0)
	v.SetDefault("ingest.anonymize_ip", true)
	v.SetDefault("content.timeout", 500)
	v.SetDefault("access.elevated_tiers", []string{"pro", "agency"})
	v.SetDefault("kafka.client_id", "sharelens")
	v.SetDefault("kafka.consumer.initial_offset", "newest")
	v.SetDefault("kafka.consumer.session_timeout", 10)
	v.SetDefault("kafka.consumer.heartbeat_interval", 3)
	v.SetDefault("kafka.consumer.rebalance_timeout", 60)
	v.SetDefault("kafka.consumer.max_processing_time", 5)
	v.SetDefault("kafka_share_consumer.topic", "share-events")
	v.SetDefault("kafka_share_consumer.group_id", "share-analytics")
	v.SetDefault("cron.rollup_reconcile", "0 */5 * * * *")
	v.SetDefault("metrics.enable", true)
}
