package transport

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized 后端返回 401，本地令牌已失效，需要重新登录
	ErrUnauthorized = errors.New("登录已过期，请重新登录")
	// ErrSessionExpired 后端返回 404，服务端会话已丢失（如服务重启）
	ErrSessionExpired = errors.New("会话不存在或已过期")
)

// APIError 后端以非 2xx 返回的业务错误，detail 来自响应体
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("backend returned %d", e.StatusCode)
	}
	return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Detail)
}

// DecodeError 响应体不属于任何已知形态
type DecodeError struct {
	Endpoint string
	Body     string
}

func (e *DecodeError) Error() string {
	body := e.Body
	if len(body) > 120 {
		body = body[:120] + "..."
	}
	return fmt.Sprintf("unrecognized response shape from %s: %q", e.Endpoint, body)
}
