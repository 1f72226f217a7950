package services

import (
	"os"
	"path/filepath"
	"sync"

	log "github.com/sirupsen/logrus"

	"homework-agent/internal/app/repositories"
	"homework-agent/internal/app/transport"
	"homework-agent/pkg/config"
)

var initOnce sync.Once

var (
	Client  *transport.Client
	Store   repositories.SessionStore
	Chat    *ChatService
	Solve   *SolveService
	Sheet   *SheetService
	Mistake *MistakeService
	Auth    *AuthService
)

// Init 按配置组装各服务单例
func Init() error {
	var initErr error
	initOnce.Do(func() {
		Client = transport.NewClient(config.GetBackendConf())

		conf := config.GetStoreConf()
		if conf.Backend == "remote" {
			Store = repositories.NewRemoteSessionStore(Client)
		} else {
			store, err := repositories.NewSessionStore(conf)
			if err != nil {
				initErr = err
				return
			}
			Store = store
		}

		dir := conf.Dir
		if dir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				initErr = err
				return
			}
			dir = filepath.Join(home, ".homework-agent")
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			initErr = err
			return
		}

		Auth = NewAuthService(Client, dir)
		Chat = NewChatService(Client, Store)
		Solve = NewSolveService(Client)
		Sheet = NewSheetService(Client, Store)
		Mistake = NewMistakeService(Client)
		log.Debug("services initialized")
	})
	return initErr
}
