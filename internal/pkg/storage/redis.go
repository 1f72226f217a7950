package storage

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"homework-agent/pkg/config"
)

var RDB *redis.Client

// InitRedis 建立 redis 连接，仅在会话存储选择 redis 后端时调用
func InitRedis() error {
	if RDB != nil {
		return nil
	}
	conf := config.GetStoreConf()
	RDB = redis.NewClient(&redis.Options{
		Addr:     conf.RedisAddr,
		Password: conf.RedisPass,
		DB:       conf.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := RDB.Ping(ctx).Err(); err != nil {
		log.Errorf("redis connect fail: %s", err.Error())
		RDB = nil
		return err
	}
	log.Info("redis connection success")
	return nil
}
