package repositories

import (
	"context"

	"homework-agent/internal/app/models"
	"homework-agent/internal/app/transport"
)

// RemoteSessionStore 登录态下由后端保存会话，客户端只做转发。
// 上限淘汰由服务端执行，这里不重复。
type RemoteSessionStore struct {
	client *transport.Client
}

func NewRemoteSessionStore(client *transport.Client) *RemoteSessionStore {
	return &RemoteSessionStore{client: client}
}

func (s *RemoteSessionStore) List(ctx context.Context, mode models.Mode) ([]models.ChatSession, error) {
	return s.client.ListSessions(ctx, mode)
}

func (s *RemoteSessionStore) Upsert(ctx context.Context, sess *models.ChatSession) error {
	return s.client.SaveSession(ctx, sess)
}

func (s *RemoteSessionStore) Delete(ctx context.Context, _ models.Mode, sessionID string) error {
	return s.client.DeleteSession(ctx, sessionID)
}
