// Package stubserver 是一个内置的模拟后端，用 gin 实现作业辅导
// 后端的全部接口。开发调试时通过 agent stub 启动，集成测试直接
// 挂在 httptest 上使用。回答内容是写死的样例，不接任何模型。
package stubserver

import (
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"homework-agent/internal/app/models"
)

var setupOnce sync.Once
var defaultServer *Server

// SetUp 返回进程级单例，供 agent stub 命令使用
func SetUp() *Server {
	setupOnce.Do(func() {
		defaultServer = New()
	})
	return defaultServer
}

// Server 模拟后端。字段在启动前设置，用于注入测试场景。
type Server struct {
	g *gin.Engine

	// ChunkSize 大于零时按该长度切分回答并逐段返回 is_truncated，
	// 用于验证续答循环。零表示一次性返回。
	ChunkSize int

	mu        sync.Mutex
	sessions  map[string]*sessionState
	stored    map[models.Mode][]models.ChatSession
	mistakes  []models.Mistake
	questions []models.Question
	users     map[string]string
	tokens    map[string]string
}

// sessionState 会话的服务端状态，pending 保存尚未发出的续答片段
type sessionState struct {
	title           string
	pending         []string
	mistakeSaved    bool
	knowledgePoints []string
}

func New() *Server {
	gin.SetMode(gin.TestMode)
	s := &Server{
		g:         gin.New(),
		sessions:  make(map[string]*sessionState),
		stored:    make(map[models.Mode][]models.ChatSession),
		users:     make(map[string]string),
		tokens:    make(map[string]string),
		mistakes:  sampleMistakes(),
		questions: sampleQuestions(),
	}
	s.g.Use(gin.Recovery())
	s.routes()
	return s
}

func (s *Server) routes() {
	s.g.POST("/chat", s.handleChat)
	s.g.POST("/solve", s.handleSolve)
	s.g.POST("/review", s.handleReview)
	s.g.POST("/process_sheet", s.handleProcessSheet)

	s.g.POST("/auth/login", s.handleLogin)
	s.g.POST("/auth/register", s.handleRegister)

	db := s.g.Group("/api/db", s.requireAuth)
	{
		db.GET("/sessions", s.handleListSessions)
		db.POST("/sessions", s.handleSaveSession)
		db.DELETE("/sessions/:id", s.handleDeleteSession)
	}

	s.g.GET("/mistakes/", s.handleListMistakes)
	s.g.DELETE("/mistakes/:id", s.handleDeleteMistake)
	s.g.GET("/mistakes/stats/summary", s.handleMistakeStats)

	s.g.GET("/questions/", s.handleListQuestions)
	s.g.DELETE("/questions/:id", s.handleDeleteQuestion)
	s.g.POST("/questions/generate", s.handleGenerateQuestions)
	s.g.POST("/export/pdf", s.handleExportPDF)
}

// Engine 暴露给 httptest 与 Run 使用
func (s *Server) Engine() *gin.Engine {
	return s.g
}

// Run 以独立进程方式启动模拟后端
func (s *Server) Run(addr string) error {
	return s.g.Run(addr)
}

// fail 按 FastAPI 的错误格式返回 {"detail": "..."}
func fail(c *gin.Context, status int, detail string) {
	c.JSON(status, gin.H{"detail": detail})
}

func (s *Server) requireAuth(c *gin.Context) {
	token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	s.mu.Lock()
	_, ok := s.tokens[token]
	s.mu.Unlock()
	if token == "" || !ok {
		fail(c, http.StatusUnauthorized, "未登录或登录已过期")
		c.Abort()
		return
	}
	c.Next()
}

func (s *Server) handleLogin(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "参数错误")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	password, ok := s.users[req.Account]
	if !ok || password != req.Password {
		fail(c, http.StatusUnauthorized, "账号或密码错误")
		return
	}
	token := uuid.NewString()
	s.tokens[token] = req.Account
	c.JSON(http.StatusOK, models.AuthResponse{
		AccessToken: token,
		TokenType:   "bearer",
		UserInfo:    models.UserInfo{UserID: req.Account, Account: req.Account},
	})
}

func (s *Server) handleRegister(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "参数错误")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[req.Account]; exists {
		fail(c, http.StatusConflict, "账号已存在")
		return
	}
	s.users[req.Account] = req.Password
	token := uuid.NewString()
	s.tokens[token] = req.Account
	c.JSON(http.StatusOK, models.AuthResponse{
		AccessToken: token,
		TokenType:   "bearer",
		UserInfo:    models.UserInfo{UserID: req.Account, Account: req.Account, Name: req.Name},
	})
}

func (s *Server) handleListSessions(c *gin.Context) {
	mode := models.Mode(c.Query("mode"))
	s.mu.Lock()
	sessions := append([]models.ChatSession(nil), s.stored[mode]...)
	s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

func (s *Server) handleSaveSession(c *gin.Context) {
	var sess models.ChatSession
	if err := c.ShouldBindJSON(&sess); err != nil {
		fail(c, http.StatusBadRequest, "参数错误")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.stored[sess.Mode]
	out := []models.ChatSession{sess}
	for _, old := range list {
		if old.SessionID != sess.SessionID {
			out = append(out, old)
		}
	}
	s.stored[sess.Mode] = out
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleDeleteSession(c *gin.Context) {
	id := c.Param("id")
	s.mu.Lock()
	defer s.mu.Unlock()
	for mode, list := range s.stored {
		out := list[:0]
		for _, sess := range list {
			if sess.SessionID != id {
				out = append(out, sess)
			}
		}
		s.stored[mode] = out
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
