package render

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/imroc/req/v3"
)

// ErrTypesetterUnavailable 排版引擎未配置或尚未就绪；
// 调用方应跳过排版并保留原始公式文本，而不是让整条消息渲染失败。
var ErrTypesetterUnavailable = errors.New("math typesetter unavailable")

// Typesetter 公式排版能力。只对新产生的公式片段排版，
// 不允许对整个文档做全量重排。
type Typesetter interface {
	Typeset(ctx context.Context, fragments []string) ([]string, error)
}

// NoopTypesetter 无排版引擎时的降级实现
type NoopTypesetter struct{}

func (NoopTypesetter) Typeset(_ context.Context, _ []string) ([]string, error) {
	return nil, ErrTypesetterUnavailable
}

// HTTPTypesetter 调用外部排版服务（MathJax/KaTeX 服务端渲染）
type HTTPTypesetter struct {
	client *req.Client
}

// NewHTTPTypesetter baseURL 指向排版服务根地址，POST /typeset
func NewHTTPTypesetter(baseURL string, timeout time.Duration) *HTTPTypesetter {
	return &HTTPTypesetter{
		client: req.C().
			SetBaseURL(baseURL).
			SetTimeout(timeout),
	}
}

type typesetRequest struct {
	Fragments []string `json:"fragments"`
}

type typesetResponse struct {
	HTML []string `json:"html"`
}

func (t *HTTPTypesetter) Typeset(ctx context.Context, fragments []string) ([]string, error) {
	if len(fragments) == 0 {
		return nil, nil
	}
	var result typesetResponse
	resp, err := t.client.R().
		SetContext(ctx).
		SetBody(typesetRequest{Fragments: fragments}).
		SetSuccessResult(&result).
		Post("/typeset")
	if err != nil {
		return nil, fmt.Errorf("typeset request: %w", err)
	}
	if !resp.IsSuccessState() {
		return nil, fmt.Errorf("typeset service returned %d", resp.StatusCode)
	}
	if len(result.HTML) != len(fragments) {
		return nil, fmt.Errorf("typeset service returned %d fragments, want %d", len(result.HTML), len(fragments))
	}
	return result.HTML, nil
}
