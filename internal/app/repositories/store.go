// Package repositories 提供会话历史的持久化。
// 三种实现共用同一契约：按模式隔离、按时间倒序、最多保留 50 条。
package repositories

import (
	"context"
	"errors"
	"sort"

	"homework-agent/internal/app/models"
	"homework-agent/pkg/config"
)

// MaxSessions 单一模式下保留的最大会话数，超出时淘汰最旧的
const MaxSessions = 50

var ErrSessionNotFound = errors.New("会话不存在")

// SessionStore 会话历史仓库。List 返回按 Timestamp 降序的列表；
// Upsert 以 SessionID 去重并触发上限淘汰。
type SessionStore interface {
	List(ctx context.Context, mode models.Mode) ([]models.ChatSession, error)
	Upsert(ctx context.Context, sess *models.ChatSession) error
	Delete(ctx context.Context, mode models.Mode, sessionID string) error
}

// NewSessionStore 按配置选择存储后端。
// remote 后端依赖已认证的 HTTP 客户端，由调用方直接构造。
func NewSessionStore(conf config.Store) (SessionStore, error) {
	switch conf.Backend {
	case "redis":
		return NewRedisSessionStore(conf)
	case "local", "":
		return NewLocalSessionStore(conf)
	default:
		return nil, errors.New("未知的存储后端: " + conf.Backend)
	}
}

// applyUpsert 在内存列表上做去重插入与上限淘汰，本地与 redis 实现共用
func applyUpsert(sessions []models.ChatSession, sess *models.ChatSession, maxSessions int) []models.ChatSession {
	out := make([]models.ChatSession, 0, len(sessions)+1)
	out = append(out, *sess)
	for i := range sessions {
		if sessions[i].SessionID != sess.SessionID {
			out = append(out, sessions[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp > out[j].Timestamp
	})
	if maxSessions > 0 && len(out) > maxSessions {
		out = out[:maxSessions]
	}
	return out
}
