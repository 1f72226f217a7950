package models

// LoginRequest /auth/login 请求体
type LoginRequest struct {
	Account  string `json:"account" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest /auth/register 请求体
type RegisterRequest struct {
	Account  string `json:"account" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name,omitempty"`
}

// UserInfo 登录成功后返回的用户信息
type UserInfo struct {
	UserID  string `json:"user_id"`
	Account string `json:"account"`
	Name    string `json:"name,omitempty"`
}

// AuthResponse /auth/login 与 /auth/register 的响应体
type AuthResponse struct {
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type,omitempty"`
	UserInfo    UserInfo `json:"user_info"`
}
