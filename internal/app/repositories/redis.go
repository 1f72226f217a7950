package repositories

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"homework-agent/internal/app/models"
	"homework-agent/internal/pkg/storage"
	"homework-agent/pkg/config"
)

// RedisSessionStore 基于 redis 的会话存储，供多端共享历史记录。
// 每个模式维护一个按 Timestamp 打分的有序集合做最近排序与淘汰，
// 会话快照为独立 key 存 JSON。写入在分布式锁内完成，
// 保证去重加淘汰对并发客户端是原子的。
type RedisSessionStore struct {
	rdb         *redis.Client
	rs          *redsync.Redsync
	maxSessions int
}

func NewRedisSessionStore(conf config.Store) (*RedisSessionStore, error) {
	if err := storage.InitRedis(); err != nil {
		return nil, err
	}
	maxSessions := conf.MaxSessions
	if maxSessions <= 0 {
		maxSessions = MaxSessions
	}
	return newRedisSessionStore(storage.RDB, maxSessions), nil
}

func newRedisSessionStore(rdb *redis.Client, maxSessions int) *RedisSessionStore {
	return &RedisSessionStore{
		rdb:         rdb,
		rs:          redsync.New(goredis.NewPool(rdb)),
		maxSessions: maxSessions,
	}
}

func indexKey(mode models.Mode) string {
	return "sessions:" + string(mode) + ":index"
}

func sessionKey(mode models.Mode, sessionID string) string {
	return "sessions:" + string(mode) + ":" + sessionID
}

func (s *RedisSessionStore) List(ctx context.Context, mode models.Mode) ([]models.ChatSession, error) {
	ids, err := s.rdb.ZRevRange(ctx, indexKey(mode), 0, -1).Result()
	if err != nil {
		log.Warnf("读取会话索引失败，按空列表处理: %v", err)
		return nil, nil
	}
	sessions := make([]models.ChatSession, 0, len(ids))
	for _, id := range ids {
		data, err := s.rdb.Get(ctx, sessionKey(mode, id)).Bytes()
		if err != nil {
			if !errors.Is(err, redis.Nil) {
				log.Warnf("读取会话 %s 失败，跳过: %v", id, err)
			}
			continue
		}
		var sess models.ChatSession
		if err := json.Unmarshal(data, &sess); err != nil {
			log.Warnf("会话 %s 解析失败，跳过: %v", id, err)
			continue
		}
		sessions = append(sessions, sess)
	}
	return sessions, nil
}

func (s *RedisSessionStore) Upsert(ctx context.Context, sess *models.ChatSession) error {
	mutex := s.rs.NewMutex("lock:" + indexKey(sess.Mode))
	if err := mutex.LockContext(ctx); err != nil {
		return err
	}
	defer mutex.UnlockContext(ctx)

	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, sessionKey(sess.Mode, sess.SessionID), data, 0).Err(); err != nil {
		return err
	}
	if err := s.rdb.ZAdd(ctx, indexKey(sess.Mode), redis.Z{
		Score:  float64(sess.Timestamp),
		Member: sess.SessionID,
	}).Err(); err != nil {
		return err
	}
	return s.evict(ctx, sess.Mode)
}

// evict 将超出上限的最旧会话移出索引并删除快照
func (s *RedisSessionStore) evict(ctx context.Context, mode models.Mode) error {
	total, err := s.rdb.ZCard(ctx, indexKey(mode)).Result()
	if err != nil {
		return err
	}
	if total <= int64(s.maxSessions) {
		return nil
	}
	stale, err := s.rdb.ZRange(ctx, indexKey(mode), 0, total-int64(s.maxSessions)-1).Result()
	if err != nil {
		return err
	}
	for _, id := range stale {
		if err := s.rdb.Del(ctx, sessionKey(mode, id)).Err(); err != nil {
			return err
		}
	}
	return s.rdb.ZRemRangeByRank(ctx, indexKey(mode), 0, total-int64(s.maxSessions)-1).Err()
}

func (s *RedisSessionStore) Delete(ctx context.Context, mode models.Mode, sessionID string) error {
	removed, err := s.rdb.ZRem(ctx, indexKey(mode), sessionID).Result()
	if err != nil {
		return err
	}
	if removed == 0 {
		return ErrSessionNotFound
	}
	return s.rdb.Del(ctx, sessionKey(mode, sessionID)).Err()
}
