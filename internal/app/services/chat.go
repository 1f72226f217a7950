// Package services 实现会话、解题、错题本等核心业务逻辑。
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"homework-agent/internal/app/models"
	"homework-agent/internal/app/repositories"
	"homework-agent/internal/app/transport"
	"homework-agent/pkg/util"
)

// TurnState 一轮问答的状态。任一时刻至多一轮在途，
// 在途期间拒绝新的发送请求。
type TurnState int

const (
	TurnIdle TurnState = iota
	TurnAwaitingFirstChunk
	TurnAwaitingContinuation
	TurnComplete
	TurnFailed
)

// ErrTurnInFlight 上一轮尚未结束时再次发送
var ErrTurnInFlight = errors.New("上一条消息尚未回答完成，请稍候")

// 后端在回答文本中嵌入的错题检测标记，展示前剥除
var mistakeSentinels = []string{"[MISTAKE_DETECTED]", "[CORRECT]"}

// ChatService 驱动一个会话的完整生命周期：
// 首轮带图提问、追问、截断续答、错题提示与历史落盘。
type ChatService struct {
	client *transport.Client
	store  repositories.SessionStore

	mu      sync.Mutex
	session *models.ChatSession
	state   TurnState
}

func NewChatService(client *transport.Client, store repositories.SessionStore) *ChatService {
	return &ChatService{
		client: client,
		store:  store,
		state:  TurnIdle,
	}
}

// Session 返回当前会话快照，无会话时为 nil
func (s *ChatService) Session() *models.ChatSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// State 当前轮次状态
func (s *ChatService) State() TurnState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Resume 加载一个历史会话继续追问
func (s *ChatService) Resume(sess *models.ChatSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = sess
	s.state = TurnIdle
}

// Start 开启新会话并发送首轮消息。imageDataURL 为题目图片的
// data-URL，首轮随请求上传，续答与追问不再携带。
func (s *ChatService) Start(ctx context.Context, mode models.Mode, solveType models.SolveType, specificQuestion, imageDataURL string) (*models.ChatSession, error) {
	prompt, err := BuildInitialPrompt(mode, solveType, specificQuestion)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.inFlight() {
		s.mu.Unlock()
		return nil, ErrTurnInFlight
	}
	sess := models.NewChatSession(mode)
	sess.ImageSrc = imageDataURL
	s.session = sess
	s.state = TurnAwaitingFirstChunk
	s.mu.Unlock()

	if err := s.runTurn(ctx, prompt, imageDataURL, true); err != nil {
		return nil, err
	}
	return s.Session(), nil
}

// Send 在已有会话中追问
func (s *ChatService) Send(ctx context.Context, prompt string) (*models.ChatSession, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, errors.New("消息内容不能为空")
	}

	s.mu.Lock()
	if s.session == nil {
		s.mu.Unlock()
		return nil, errors.New("当前没有会话，请先上传题目")
	}
	if s.inFlight() {
		s.mu.Unlock()
		return nil, ErrTurnInFlight
	}
	// 追问先乐观上屏，失败时回滚
	s.session.Messages = append(s.session.Messages, models.Message{
		Role:    models.RoleUser,
		Content: prompt,
	})
	s.state = TurnAwaitingFirstChunk
	s.mu.Unlock()

	if err := s.runTurn(ctx, prompt, "", false); err != nil {
		return nil, err
	}
	return s.Session(), nil
}

func (s *ChatService) inFlight() bool {
	return s.state == TurnAwaitingFirstChunk || s.state == TurnAwaitingContinuation
}

// runTurn 执行一轮问答：发送首个请求，被截断时循环发送固定的
// 续答提示语，把各片段拼进同一条 assistant 消息，直到后端给出
// 完整标记。任一请求失败整轮视为失败并回滚。
func (s *ChatService) runTurn(ctx context.Context, prompt, imageDataURL string, firstTurn bool) error {
	req := models.ChatRequest{
		SessionID:   s.sessionID(),
		Prompt:      prompt,
		ImageBase64: imageDataURL,
	}

	var answer strings.Builder
	var last *models.ChatResponse
	for {
		resp, err := s.client.Chat(ctx, req)
		if err != nil {
			return s.failTurn(err, firstTurn)
		}
		if resp.Error != "" {
			return s.failTurn(fmt.Errorf("后端返回错误: %s", resp.Error), firstTurn)
		}
		log.Debugf("chat response: %s", util.GetJson(resp))
		s.adoptIdentity(resp)
		answer.WriteString(resp.Response)
		last = resp

		if !resp.IsTruncated {
			break
		}

		log.Debugf("回答被截断，发送续答提示（会话 %s）", resp.SessionID)
		s.setState(TurnAwaitingContinuation)
		req = models.ChatRequest{
			SessionID: resp.SessionID,
			Prompt:    models.ContinuePrompt,
		}
	}

	content := stripSentinels(answer.String())
	if last.MistakeSaved && len(last.KnowledgePoints) > 0 {
		content += mistakeNotice(last.KnowledgePoints)
	}

	s.mu.Lock()
	if firstTurn {
		// 首轮成功后才上屏用户消息，保证失败时界面保持空白
		s.session.Messages = []models.Message{
			{Role: models.RoleUser, Content: prompt},
			{Role: models.RoleAssistant, Content: content},
		}
	} else {
		s.session.Messages = append(s.session.Messages, models.Message{
			Role:    models.RoleAssistant,
			Content: content,
		})
	}
	s.session.Timestamp = time.Now().UnixMilli()
	s.state = TurnComplete
	snapshot := *s.session
	s.mu.Unlock()

	if err := s.store.Upsert(ctx, &snapshot); err != nil {
		// 落盘失败不影响本轮结果
		log.Warnf("会话保存失败: %v", err)
	}
	return nil
}

// failTurn 回滚本轮改动。会话过期时额外清空本地状态，
// 让上层回到上传题目的入口。
func (s *ChatService) failTurn(err error, firstTurn bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = TurnFailed

	if errors.Is(err, transport.ErrSessionExpired) {
		s.session.SessionID = ""
		s.session.Title = models.DefaultTitle
		s.session.Messages = nil
		return err
	}

	if firstTurn {
		s.session.Messages = nil
	} else if n := len(s.session.Messages); n > 0 {
		s.session.Messages = s.session.Messages[:n-1]
	}
	return err
}

// adoptIdentity 采用后端签发的会话标识与标题
func (s *ChatService) adoptIdentity(resp *models.ChatResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if resp.SessionID != "" {
		s.session.SessionID = resp.SessionID
	}
	if resp.Title != "" && resp.Title != models.DefaultTitle {
		s.session.Title = resp.Title
	}
}

func (s *ChatService) sessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return ""
	}
	return s.session.SessionID
}

func (s *ChatService) setState(state TurnState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

func stripSentinels(text string) string {
	for _, sentinel := range mistakeSentinels {
		text = strings.ReplaceAll(text, sentinel, "")
	}
	return strings.TrimSpace(text)
}

// mistakeNotice 错题入库后附加在回答末尾的提示块
func mistakeNotice(knowledgePoints []string) string {
	return "\n\n---\n\n✅ **此题已自动保存到错题本**\n\n📌 **知识点标签**：" +
		strings.Join(knowledgePoints, "、") +
		"\n\n💡 前往\"智能错题本\"模块可查看和管理错题，或基于错题生成练习试卷。"
}
