// Package transport 封装对作业辅导后端的全部 HTTP 调用。
// 后端自身（OCR、大模型、PDF 渲染）不在本仓库范围内。
package transport

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/imroc/req/v3"
	log "github.com/sirupsen/logrus"

	"homework-agent/internal/app/models"
	"homework-agent/pkg/config"
	"homework-agent/pkg/util"
)

// Client 作业辅导后端的 HTTP 客户端。
// 带 token 时自动附加 Bearer 认证；401 会清除本地 token 并回调通知。
type Client struct {
	http *req.Client

	mu    sync.RWMutex
	token string

	// onUnauthorized 在收到 401 时调用，由上层决定如何回到登录态
	onUnauthorized func()

	generateTimeout time.Duration
	exportTimeout   time.Duration
}

func NewClient(conf config.Backend) *Client {
	c := &Client{
		http: req.C().
			SetBaseURL(conf.BaseURL).
			SetTimeout(time.Duration(conf.TimeoutSeconds) * time.Second).
			SetUserAgent("homework-agent"),
		token:           conf.Token,
		generateTimeout: time.Duration(conf.GenerateTimeoutSeconds) * time.Second,
		exportTimeout:   time.Duration(conf.ExportTimeoutSeconds) * time.Second,
	}
	if config.GetRunMode() == "dev" {
		c.http.EnableDumpEachRequest()
	}
	return c
}

// SetToken 登录成功后注入访问令牌
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// ClearToken 注销或令牌失效时清除
func (c *Client) ClearToken() {
	c.SetToken("")
}

// OnUnauthorized 注册 401 回调
func (c *Client) OnUnauthorized(fn func()) {
	c.onUnauthorized = fn
}

func (c *Client) request(ctx context.Context) *req.Request {
	r := c.http.R().SetContext(ctx)
	c.mu.RLock()
	if c.token != "" {
		r.SetBearerAuthToken(c.token)
	}
	c.mu.RUnlock()
	return r
}

type errorBody struct {
	Detail string `json:"detail"`
	Error  string `json:"error"`
}

func (b errorBody) message() string {
	if b.Detail != "" {
		return b.Detail
	}
	return b.Error
}

// checkStatus 将非 2xx 响应映射为类型化错误。
// 404 在这里只是普通的资源不存在，按 APIError 透传。
func (c *Client) checkStatus(resp *req.Response, errBody *errorBody) error {
	if resp.IsSuccessState() {
		return nil
	}
	if resp.StatusCode == http.StatusUnauthorized {
		c.ClearToken()
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return ErrUnauthorized
	}
	return &APIError{StatusCode: resp.StatusCode, Detail: errBody.message()}
}

// checkSessionStatus 会话类接口（/chat 与会话存取）的 404 表示服务端
// 会话已丢失，映射为 ErrSessionExpired 供上层重建会话。
func (c *Client) checkSessionStatus(resp *req.Response, errBody *errorBody) error {
	if !resp.IsSuccessState() && resp.StatusCode == http.StatusNotFound {
		if msg := errBody.message(); msg != "" {
			return fmt.Errorf("%w: %s", ErrSessionExpired, msg)
		}
		return ErrSessionExpired
	}
	return c.checkStatus(resp, errBody)
}

// Chat 发送一轮对话请求。截断续答的循环由上层 chat 服务驱动，
// 这里只做单次请求与响应解码。
// 图片在本地以 data URL 形态流转，后端只收纯 base64，出站前剥掉前缀。
func (c *Client) Chat(ctx context.Context, body models.ChatRequest) (*models.ChatResponse, error) {
	body.ImageBase64 = util.StripDataURLPrefix(body.ImageBase64)

	var result models.ChatResponse
	var errBody errorBody
	resp, err := c.request(ctx).
		SetBody(body).
		SetSuccessResult(&result).
		SetErrorResult(&errBody).
		Post("/chat")
	if err != nil {
		return nil, fmt.Errorf("chat request: %w", err)
	}
	if err := c.checkSessionStatus(resp, &errBody); err != nil {
		return nil, err
	}
	return &result, nil
}

// Solve 单次解题：multipart 上传图片，返回解答文本
func (c *Client) Solve(ctx context.Context, filename string, image []byte) (string, error) {
	return c.solveLike(ctx, "/solve", filename, image)
}

// Review 单次批改：与 Solve 同构，上传含答案的图片
func (c *Client) Review(ctx context.Context, filename string, image []byte) (string, error) {
	return c.solveLike(ctx, "/review", filename, image)
}

func (c *Client) solveLike(ctx context.Context, endpoint, filename string, image []byte) (string, error) {
	var errBody errorBody
	resp, err := c.request(ctx).
		SetFileBytes("file", filename, image).
		SetErrorResult(&errBody).
		Post(endpoint)
	if err != nil {
		return "", fmt.Errorf("%s request: %w", endpoint, err)
	}
	if err := c.checkStatus(resp, &errBody); err != nil {
		return "", err
	}
	return decodeSolveBody(endpoint, resp.Bytes())
}

// ProcessSheet 整页拆题，返回各题目单元的子图
func (c *Client) ProcessSheet(ctx context.Context, body models.SheetRequest) (*models.SheetResponse, error) {
	body.ImageBase64 = util.StripDataURLPrefix(body.ImageBase64)

	var result models.SheetResponse
	var errBody errorBody
	resp, err := c.request(ctx).
		SetBody(body).
		SetSuccessResult(&result).
		SetErrorResult(&errBody).
		Post("/process_sheet")
	if err != nil {
		return nil, fmt.Errorf("process_sheet request: %w", err)
	}
	if err := c.checkStatus(resp, &errBody); err != nil {
		return nil, err
	}
	return &result, nil
}

// GenerateQuestions 基于错题出题。后端耗时以分钟计，
// 使用独立的长超时而非客户端默认值。
func (c *Client) GenerateQuestions(ctx context.Context, body models.GenerateQuestionsRequest) (*models.GenerateQuestionsResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.generateTimeout)
	defer cancel()

	var result models.GenerateQuestionsResponse
	var errBody errorBody
	resp, err := c.request(ctx).
		SetBody(body).
		SetSuccessResult(&result).
		SetErrorResult(&errBody).
		Post("/questions/generate")
	if err != nil {
		return nil, fmt.Errorf("questions/generate request: %w", err)
	}
	if err := c.checkStatus(resp, &errBody); err != nil {
		return nil, err
	}
	return &result, nil
}

// ExportPDF 导出练习卷 PDF 到本地文件
func (c *Client) ExportPDF(ctx context.Context, body models.ExportPDFRequest, outputPath string) error {
	ctx, cancel := context.WithTimeout(ctx, c.exportTimeout)
	defer cancel()

	resp, err := c.request(ctx).
		SetBody(body).
		SetOutputFile(outputPath).
		Post("/export/pdf")
	if err != nil {
		return fmt.Errorf("export/pdf request: %w", err)
	}
	if !resp.IsSuccessState() {
		return &APIError{StatusCode: resp.StatusCode}
	}
	log.Infof("pdf exported to %s", outputPath)
	return nil
}

// Login 账号登录，成功后令牌自动用于后续请求
func (c *Client) Login(ctx context.Context, body models.LoginRequest) (*models.AuthResponse, error) {
	return c.auth(ctx, "/auth/login", body)
}

// Register 注册新账号
func (c *Client) Register(ctx context.Context, body models.RegisterRequest) (*models.AuthResponse, error) {
	return c.auth(ctx, "/auth/register", body)
}

func (c *Client) auth(ctx context.Context, endpoint string, body interface{}) (*models.AuthResponse, error) {
	var result models.AuthResponse
	var errBody errorBody
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetSuccessResult(&result).
		SetErrorResult(&errBody).
		Post(endpoint)
	if err != nil {
		return nil, fmt.Errorf("%s request: %w", endpoint, err)
	}
	if !resp.IsSuccessState() {
		return nil, &APIError{StatusCode: resp.StatusCode, Detail: errBody.message()}
	}
	if result.AccessToken != "" {
		c.SetToken(result.AccessToken)
	}
	return &result, nil
}

// ListMistakes 错题列表，支持学科/年级筛选
func (c *Client) ListMistakes(ctx context.Context, filter models.MistakeFilter) (*models.MistakeList, error) {
	r := c.request(ctx)
	if filter.Subject != "" {
		r.SetQueryParam("subject", filter.Subject)
	}
	if filter.Grade != "" {
		r.SetQueryParam("grade", filter.Grade)
	}
	if filter.Limit > 0 {
		r.SetQueryParam("limit", strconv.Itoa(filter.Limit))
	}
	if filter.Offset > 0 {
		r.SetQueryParam("offset", strconv.Itoa(filter.Offset))
	}

	var result models.MistakeList
	var errBody errorBody
	resp, err := r.SetSuccessResult(&result).SetErrorResult(&errBody).Get("/mistakes/")
	if err != nil {
		return nil, fmt.Errorf("mistakes list request: %w", err)
	}
	if err := c.checkStatus(resp, &errBody); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteMistake 删除一条错题
func (c *Client) DeleteMistake(ctx context.Context, id string) error {
	var errBody errorBody
	resp, err := c.request(ctx).SetErrorResult(&errBody).Delete("/mistakes/" + id)
	if err != nil {
		return fmt.Errorf("mistake delete request: %w", err)
	}
	return c.checkStatus(resp, &errBody)
}

// MistakeStats 错题统计摘要
func (c *Client) MistakeStats(ctx context.Context) (*models.MistakeStats, error) {
	var result models.MistakeStats
	var errBody errorBody
	resp, err := c.request(ctx).
		SetSuccessResult(&result).
		SetErrorResult(&errBody).
		Get("/mistakes/stats/summary")
	if err != nil {
		return nil, fmt.Errorf("mistake stats request: %w", err)
	}
	if err := c.checkStatus(resp, &errBody); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListQuestions 已生成的练习题列表
func (c *Client) ListQuestions(ctx context.Context) (*models.QuestionList, error) {
	var result models.QuestionList
	var errBody errorBody
	resp, err := c.request(ctx).
		SetSuccessResult(&result).
		SetErrorResult(&errBody).
		Get("/questions/")
	if err != nil {
		return nil, fmt.Errorf("questions list request: %w", err)
	}
	if err := c.checkStatus(resp, &errBody); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteQuestion 删除一道练习题
func (c *Client) DeleteQuestion(ctx context.Context, id string) error {
	var errBody errorBody
	resp, err := c.request(ctx).SetErrorResult(&errBody).Delete("/questions/" + id)
	if err != nil {
		return fmt.Errorf("question delete request: %w", err)
	}
	return c.checkStatus(resp, &errBody)
}

// ListSessions 登录态下的远端会话列表
func (c *Client) ListSessions(ctx context.Context, mode models.Mode) ([]models.ChatSession, error) {
	var result struct {
		Sessions []models.ChatSession `json:"sessions"`
	}
	var errBody errorBody
	resp, err := c.request(ctx).
		SetQueryParam("mode", string(mode)).
		SetSuccessResult(&result).
		SetErrorResult(&errBody).
		Get("/api/db/sessions")
	if err != nil {
		return nil, fmt.Errorf("sessions list request: %w", err)
	}
	if err := c.checkSessionStatus(resp, &errBody); err != nil {
		return nil, err
	}
	return result.Sessions, nil
}

// SaveSession 远端保存会话快照
func (c *Client) SaveSession(ctx context.Context, sess *models.ChatSession) error {
	var errBody errorBody
	resp, err := c.request(ctx).
		SetBody(sess).
		SetErrorResult(&errBody).
		Post("/api/db/sessions")
	if err != nil {
		return fmt.Errorf("session save request: %w", err)
	}
	return c.checkSessionStatus(resp, &errBody)
}

// DeleteSession 远端删除会话
func (c *Client) DeleteSession(ctx context.Context, sessionID string) error {
	var errBody errorBody
	resp, err := c.request(ctx).
		SetErrorResult(&errBody).
		Delete("/api/db/sessions/" + sessionID)
	if err != nil {
		return fmt.Errorf("session delete request: %w", err)
	}
	return c.checkSessionStatus(resp, &errBody)
}
