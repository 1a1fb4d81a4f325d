package config

import (
	"os"
	"strconv"
	"time"
)

// Config はアプリケーション設定を表す
type Config struct {
	App          AppConfig
	Server       ServerConfig
	Auth         AuthConfig
	RateLimit    RateLimitConfig
	Summary      SummaryConfig
	Notification NotificationConfig
	Metrics      MetricsConfig
	Worker       WorkerConfig
	Redis        RedisConfig
}

// AppConfig は実行環境とログ設定
type AppConfig struct {
	Env      string
	LogLevel string
}

// ServerConfig はサーバー設定
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// AuthConfig は管理者認証の設定
type AuthConfig struct {
	AdminToken string
}

// RateLimitConfig はレート制限の設定（TTL あたり Max リクエスト）
type RateLimitConfig struct {
	TTL time.Duration
	Max int
}

// SummaryConfig は要約生成とストリーミングの設定
type SummaryConfig struct {
	ChunkDelayMin time.Duration
	ChunkDelayMax time.Duration
	Timezone      string
}

// NotificationConfig は通知の設定
type NotificationConfig struct {
	Delay time.Duration
}

// MetricsConfig は /metrics の Basic 認証設定
type MetricsConfig struct {
	User     string
	Password string
}

// WorkerConfig はバックグラウンドワーカーの設定
type WorkerConfig struct {
	StatsInterval time.Duration
}

// RedisConfig は要約キャッシュを共有する Redis の設定
// Host が空なら要約キャッシュはプロセス内に持つ
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Load は環境変数から設定を読み込む
func Load() *Config {
	return &Config{
		App: AppConfig{
			Env:      getEnv("APP_ENV", "development"),
			LogLevel: getEnv("LOG_LEVEL", ""),
		},
		Server: ServerConfig{
			Port:            getEnv("PORT", "3000"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Auth: AuthConfig{
			AdminToken: getEnv("ADMIN_TOKEN", "admin-token-123"),
		},
		RateLimit: RateLimitConfig{
			TTL: time.Duration(getIntEnv("RATE_LIMIT_TTL", 60000)) * time.Millisecond,
			Max: getIntEnv("RATE_LIMIT_MAX", 100),
		},
		Summary: SummaryConfig{
			ChunkDelayMin: getDurationEnv("SUMMARY_CHUNK_DELAY_MIN", 50*time.Millisecond),
			ChunkDelayMax: getDurationEnv("SUMMARY_CHUNK_DELAY_MAX", 100*time.Millisecond),
			Timezone:      getEnv("SUMMARY_TIMEZONE", "UTC"),
		},
		Notification: NotificationConfig{
			Delay: getDurationEnv("NOTIFICATION_DELAY", 10*time.Millisecond),
		},
		Metrics: MetricsConfig{
			User:     getEnv("METRICS_USER", ""),
			Password: getEnv("METRICS_PASSWORD", ""),
		},
		Worker: WorkerConfig{
			StatsInterval: getDurationEnv("EVENT_STATS_INTERVAL", 30*time.Second),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", ""),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
	}
}

// Addr はサーバーの待ち受けアドレスを返す
func (c *ServerConfig) Addr() string {
	return ":" + c.Port
}

// IsProduction は本番環境かを返す
func (c *AppConfig) IsProduction() bool {
	return c.Env == "production"
}

// Location は要約の表示タイムゾーンを返す（不正な値は UTC）
func (c *SummaryConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Addr はRedis接続アドレスを返す
func (c *RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

// IsEnabled は Redis を使うかを返す
func (c *RedisConfig) IsEnabled() bool {
	return c.Host != ""
}

// IsEnabled は認証が有効かどうかを返す
func (c *MetricsConfig) IsEnabled() bool {
	return c.User != "" && c.Password != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
