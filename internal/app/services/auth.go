package services

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"

	"homework-agent/internal/app/models"
	"homework-agent/internal/app/transport"
)

// AuthService 账号登录注册，令牌持久化到本地文件，
// 下次启动自动带上；收到 401 时清除。
type AuthService struct {
	client    *transport.Client
	tokenPath string
}

func NewAuthService(client *transport.Client, dir string) *AuthService {
	s := &AuthService{
		client:    client,
		tokenPath: filepath.Join(dir, "token"),
	}
	client.OnUnauthorized(s.clearToken)
	if token := s.loadToken(); token != "" {
		client.SetToken(token)
	}
	return s
}

// Login 登录并保存令牌
func (s *AuthService) Login(ctx context.Context, account, password string) (*models.AuthResponse, error) {
	resp, err := s.client.Login(ctx, models.LoginRequest{Account: account, Password: password})
	if err != nil {
		return nil, err
	}
	s.saveToken(resp.AccessToken)
	return resp, nil
}

// Register 注册新账号，成功即视为已登录
func (s *AuthService) Register(ctx context.Context, account, password, name string) (*models.AuthResponse, error) {
	resp, err := s.client.Register(ctx, models.RegisterRequest{Account: account, Password: password, Name: name})
	if err != nil {
		return nil, err
	}
	s.saveToken(resp.AccessToken)
	return resp, nil
}

// Logout 注销并清除本地令牌
func (s *AuthService) Logout() {
	s.client.ClearToken()
	s.clearToken()
}

func (s *AuthService) loadToken() string {
	data, err := os.ReadFile(s.tokenPath)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func (s *AuthService) saveToken(token string) {
	if token == "" {
		return
	}
	if err := os.WriteFile(s.tokenPath, []byte(token), 0o600); err != nil {
		log.Warnf("令牌保存失败: %v", err)
	}
}

func (s *AuthService) clearToken() {
	if err := os.Remove(s.tokenPath); err != nil && !os.IsNotExist(err) {
		log.Warnf("令牌清除失败: %v", err)
	}
}
