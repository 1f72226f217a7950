package repositories

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	log "github.com/sirupsen/logrus"

	"homework-agent/internal/app/models"
	"homework-agent/pkg/config"
)

// LocalSessionStore 本地 JSON 文件存储，每个模式一个文件。
// 文件损坏或缺失时退化为空列表，不阻断使用。
type LocalSessionStore struct {
	dir         string
	maxSessions int
	mu          sync.Mutex
}

func NewLocalSessionStore(conf config.Store) (*LocalSessionStore, error) {
	dir := conf.Dir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(home, ".homework-agent")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	maxSessions := conf.MaxSessions
	if maxSessions <= 0 {
		maxSessions = MaxSessions
	}
	return &LocalSessionStore{dir: dir, maxSessions: maxSessions}, nil
}

func (s *LocalSessionStore) filePath(mode models.Mode) string {
	return filepath.Join(s.dir, "sessions_"+string(mode)+".json")
}

func (s *LocalSessionStore) load(mode models.Mode) []models.ChatSession {
	data, err := os.ReadFile(s.filePath(mode))
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warnf("读取会话文件失败，按空列表处理: %v", err)
		}
		return nil
	}
	var sessions []models.ChatSession
	if err := json.Unmarshal(data, &sessions); err != nil {
		log.Warnf("会话文件解析失败，按空列表处理: %v", err)
		return nil
	}
	return sessions
}

func (s *LocalSessionStore) save(mode models.Mode, sessions []models.ChatSession) error {
	data, err := json.MarshalIndent(sessions, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.filePath(mode) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.filePath(mode))
}

func (s *LocalSessionStore) List(_ context.Context, mode models.Mode) ([]models.ChatSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(mode), nil
}

func (s *LocalSessionStore) Upsert(_ context.Context, sess *models.ChatSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sessions := applyUpsert(s.load(sess.Mode), sess, s.maxSessions)
	return s.save(sess.Mode, sessions)
}

func (s *LocalSessionStore) Delete(_ context.Context, mode models.Mode, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sessions := s.load(mode)
	out := sessions[:0]
	found := false
	for i := range sessions {
		if sessions[i].SessionID == sessionID {
			found = true
			continue
		}
		out = append(out, sessions[i])
	}
	if !found {
		return ErrSessionNotFound
	}
	return s.save(mode, out)
}
