package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/sanosuguru/go-event-summary-service/internal/config"
)

// Connect はRedisクライアントを作成し、接続を確認してから返す
// 接続できない場合はクライアントを閉じてエラーを返す
func Connect(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("Redis接続に失敗しました (%s): %w", cfg.Addr(), err)
	}
	return client, nil
}
