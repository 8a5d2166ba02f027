package config

// Config 配置主体
type Config struct {
	Server             ServerConfig       `mapstructure:"server"`
	DB                 DBConfig           `mapstructure:"database"`
	Redis              RedisConfig        `mapstructure:"redis"`
	Log                LogConfig          `mapstructure:"log"`
	Logstash           LogstashConfig     `mapstructure:"logstash"`
	RateLimit          RateLimitConfig    `mapstructure:"rate_limit"`
	Cache              CacheConfig        `mapstructure:"cache"`
	Ingest             IngestConfig       `mapstructure:"ingest"`
	Content            ContentConfig      `mapstructure:"content"`
	Access             AccessConfig       `mapstructure:"access"`
	Kafka              KafkaConfig        `mapstructure:"kafka"`
	KafkaShareConsumer KafkaShareConsumer `mapstructure:"kafka_share_consumer"`
	Cron               CronConfig         `mapstructure:"cron"`
	Metrics            MetricsConfig      `mapstructure:"metrics"`
}

// ServerConfig Server配置
type ServerConfig struct {
	Port           int      `mapstructure:"port"`
	TrustedProxies []string `mapstructure:"trusted_proxies"`
}

// DBConfig 数据库配置
type DBConfig struct {
	Driver      string `mapstructure:"driver"` // mysql | sqlite
	DSN         string `mapstructure:"dsn"`
	MaxIdle     int    `mapstructure:"max_idle"`
	MaxOpen     int    `mapstructure:"max_open"`
	MaxLifetime int    `mapstructure:"max_lifetime"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// LogstashConfig 远程日志
type LogstashConfig struct {
	Address string `mapstructure:"address"`
	Index   string `mapstructure:"index"`
	Token   string `mapstructure:"token"`
}

// RateLimitConfig 分享接口限流，窗口单位秒
type RateLimitConfig struct {
	Window  int `mapstructure:"window"`
	Ceiling int `mapstructure:"ceiling"`
}

// CacheConfig 查询缓存，TTL 单位秒
type CacheConfig struct {
	Driver    string `mapstructure:"driver"`
	SchemaTTL int    `mapstructure:"schema_ttl"`
	ResultTTL int    `mapstructure:"result_ttl"`
	MaxItems  int    `mapstructure:"max_items"`
}

// IngestConfig 分享写入
type IngestConfig struct {
	ContentCheckTimeout int    `mapstructure:"content_check_timeout"` // 毫秒
	SiteWideContentID   uint64 `mapstructure:"site_wide_content_id"`
	AnonymizeIP         bool   `mapstructure:"anonymize_ip"`
}

// ContentConfig 内容服务
type ContentConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Timeout int    `mapstructure:"timeout"` // 毫秒
	Token   string `mapstructure:"token"`
}

// AccessConfig 真实数据访问策略
type AccessConfig struct {
	DefaultElevated bool     `mapstructure:"default_elevated"`
	JWTSecret       string   `mapstructure:"jwt_secret"`
	ElevatedTiers   []string `mapstructure:"elevated_tiers"`
}

type KafkaConfig struct {
	Enable   bool           `mapstructure:"enable"`
	ClientID string         `mapstructure:"client_id"`
	Brokers  []string       `mapstructure:"brokers"`
	Sasl     SaslConfig     `mapstructure:"sasl"`
	Consumer ConsumerConfig `mapstructure:"consumer"`
}

type SaslConfig struct {
	Enable   bool   `mapstructure:"enable"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type ConsumerConfig struct {
	SessionTimeout    int `mapstructure:"session_timeout"`
	HeartbeatInterval int `mapstructure:"heartbeat_interval"`
	RebalanceTimeout  int `mapstructure:"rebalance_timeout"`
	MaxProcessingTime int `mapstructure:"max_processing_time"`
	// InitialOffset 无已提交位点时从何处开始：newest 或 oldest
	InitialOffset string `mapstructure:"initial_offset"`
}

type KafkaShareConsumer struct {
	Topic   string `mapstructure:"topic"`
	GroupID string `mapstructure:"group_id"`
}

// CronConfig 定时任务
type CronConfig struct {
	RollupReconcile string `mapstructure:"rollup_reconcile"`
}

type MetricsConfig struct {
	Enable bool `mapstructure:"enable"`
}
