package stubserver

import (
	"encoding/base64"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"homework-agent/internal/app/models"
)

// 写死的样例回答，按提示语关键词粗略分流
const (
	sampleSolution = "### 解题过程\n\n设未知数为 $x$，由题意得 $2x + 3 = 11$。\n\n移项得 $2x = 8$，所以 $x = 4$。\n\n**答：** $x = 4$。"
	sampleReview   = "[MISTAKE_DETECTED]这道题的答案有误。正确解法：\n\n原式 $= 3 \\times 4 = 12$，而不是 15。\n\n建议复习乘法分配律。"
	sampleFollowUp = "好的，补充说明一下：移项的依据是等式两边同时加上或减去同一个数，等式仍然成立。"
)

func (s *Server) handleChat(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "参数错误")
		return
	}
	// 真后端直接对 image_base_64 做 base64 解码，带 data-URL 前缀会失败
	if !validBase64(req.ImageBase64) {
		fail(c, http.StatusBadRequest, "图片编码无效")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// 续答：取出会话里挂起的下一个片段
	if req.SessionID != "" {
		state, ok := s.sessions[req.SessionID]
		if !ok {
			fail(c, http.StatusNotFound, "会话不存在或已过期")
			return
		}
		if req.Prompt == models.ContinuePrompt && len(state.pending) > 0 {
			chunk := state.pending[0]
			state.pending = state.pending[1:]
			resp := models.ChatResponse{
				SessionID:   req.SessionID,
				Title:       state.title,
				Response:    chunk,
				IsTruncated: len(state.pending) > 0,
			}
			// 错题标记只随最后一个片段下发
			if !resp.IsTruncated && state.mistakeSaved {
				resp.MistakeSaved = true
				resp.KnowledgePoints = state.knowledgePoints
			}
			c.JSON(http.StatusOK, resp)
			return
		}
		// 追问
		c.JSON(http.StatusOK, models.ChatResponse{
			SessionID: req.SessionID,
			Title:     state.title,
			Response:  sampleFollowUp,
		})
		return
	}

	// 首轮：签发会话并生成标题
	sessionID := uuid.NewString()
	answer := sampleSolution
	mistakeSaved := false
	var knowledgePoints []string
	if strings.Contains(req.Prompt, "批改") {
		answer = sampleReview
		mistakeSaved = true
		knowledgePoints = []string{"乘法分配律", "有理数运算"}
	}

	title := firstLine(req.Prompt)
	state := &sessionState{
		title:           title,
		mistakeSaved:    mistakeSaved,
		knowledgePoints: knowledgePoints,
	}
	chunks := splitChunks(answer, s.ChunkSize)
	state.pending = chunks[1:]
	s.sessions[sessionID] = state

	resp := models.ChatResponse{
		SessionID:   sessionID,
		Title:       title,
		Response:    chunks[0],
		IsTruncated: len(state.pending) > 0,
	}
	if mistakeSaved && !resp.IsTruncated {
		resp.MistakeSaved = true
		resp.KnowledgePoints = knowledgePoints
	}
	c.JSON(http.StatusOK, resp)
}

// validBase64 校验图片字段是纯 base64；空串表示本轮不带图
func validBase64(s string) bool {
	if s == "" {
		return true
	}
	_, err := base64.StdEncoding.DecodeString(s)
	return err == nil
}

// splitChunks 按 size 切分文本模拟截断，size 为零时不切分
func splitChunks(text string, size int) []string {
	if size <= 0 || len(text) <= size {
		return []string{text}
	}
	var chunks []string
	runes := []rune(text)
	for len(runes) > 0 {
		n := size
		if n > len(runes) {
			n = len(runes)
		}
		chunks = append(chunks, string(runes[:n]))
		runes = runes[n:]
	}
	return chunks
}

func firstLine(prompt string) string {
	line := prompt
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	runes := []rune(line)
	if len(runes) > 12 {
		return string(runes[:12])
	}
	return line
}

func (s *Server) handleSolve(c *gin.Context) {
	s.solveLike(c, gin.H{"solution": sampleSolution})
}

func (s *Server) handleReview(c *gin.Context) {
	s.solveLike(c, gin.H{"review": sampleReview})
}

func (s *Server) solveLike(c *gin.Context, body gin.H) {
	if _, err := c.FormFile("file"); err != nil {
		fail(c, http.StatusBadRequest, "缺少图片文件")
		return
	}
	c.JSON(http.StatusOK, body)
}

func (s *Server) handleProcessSheet(c *gin.Context) {
	var req models.SheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "参数错误")
		return
	}
	if req.Prompt == "" {
		fail(c, http.StatusBadRequest, "缺少提示语")
		return
	}
	if req.ImageBase64 == "" {
		fail(c, http.StatusBadRequest, "缺少图片数据")
		return
	}
	if !validBase64(req.ImageBase64) {
		fail(c, http.StatusBadRequest, "图片编码无效")
		return
	}
	// 固定拆成两题，子图直接复用原图
	questions := []models.SheetQuestion{
		{ID: uuid.NewString(), ImageBase64: req.ImageBase64},
		{ID: uuid.NewString(), ImageBase64: req.ImageBase64},
	}
	c.JSON(http.StatusOK, models.SheetResponse{
		Questions:  questions,
		TotalCount: len(questions),
	})
}

func (s *Server) handleListMistakes(c *gin.Context) {
	subject := c.Query("subject")
	grade := c.Query("grade")

	s.mu.Lock()
	defer s.mu.Unlock()
	var items []models.Mistake
	for _, m := range s.mistakes {
		if subject != "" && m.Subject != subject {
			continue
		}
		if grade != "" && m.Grade != grade {
			continue
		}
		items = append(items, m)
	}
	c.JSON(http.StatusOK, models.MistakeList{Items: items, Total: len(items)})
}

func (s *Server) handleDeleteMistake(c *gin.Context) {
	id := c.Param("id")
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, m := range s.mistakes {
		if m.ID == id {
			s.mistakes = append(s.mistakes[:i], s.mistakes[i+1:]...)
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
			return
		}
	}
	fail(c, http.StatusNotFound, "错题不存在")
}

func (s *Server) handleMistakeStats(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	bySubject := make(map[string]int)
	byKnowledge := make(map[string]int)
	for _, m := range s.mistakes {
		bySubject[m.Subject]++
		for _, kp := range m.KnowledgePoints {
			byKnowledge[kp]++
		}
	}
	c.JSON(http.StatusOK, models.MistakeStats{
		TotalMistakes:  len(s.mistakes),
		TotalQuestions: len(s.questions),
		BySubject:      bySubject,
		ByKnowledgePnt: byKnowledge,
	})
}

func (s *Server) handleListQuestions(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, models.QuestionList{Items: s.questions, Total: len(s.questions)})
}

func (s *Server) handleDeleteQuestion(c *gin.Context) {
	id := c.Param("id")
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, q := range s.questions {
		if q.ID == id {
			s.questions = append(s.questions[:i], s.questions[i+1:]...)
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
			return
		}
	}
	fail(c, http.StatusNotFound, "练习题不存在")
}

func (s *Server) handleGenerateQuestions(c *gin.Context) {
	var req models.GenerateQuestionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "参数错误")
		return
	}
	if len(req.MistakeIDs) == 0 {
		fail(c, http.StatusBadRequest, "mistake_ids 不能为空")
		return
	}
	count := req.Count
	if count <= 0 {
		count = 3
	}
	now := time.Now().Format(time.RFC3339)
	s.mu.Lock()
	defer s.mu.Unlock()
	var generated []models.Question
	for i := 0; i < count; i++ {
		q := models.Question{
			ID:              uuid.NewString(),
			Content:         "已知 $2x + 3 = 11$，求 $x$ 的值。",
			Answer:          "$x = 4$",
			Explanation:     "移项得 $2x = 8$，两边同除以 2。",
			KnowledgePoints: []string{"一元一次方程"},
			Difficulty:      req.Difficulty,
			CreatedAt:       now,
		}
		generated = append(generated, q)
		s.questions = append(s.questions, q)
	}
	c.JSON(http.StatusOK, models.GenerateQuestionsResponse{Questions: generated})
}

func (s *Server) handleExportPDF(c *gin.Context) {
	var req models.ExportPDFRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "参数错误")
		return
	}
	if len(req.QuestionIDs) == 0 {
		fail(c, http.StatusBadRequest, "question_ids 不能为空")
		return
	}
	// 返回最小合法 PDF 头，内容不重要
	c.Data(http.StatusOK, "application/pdf", []byte("%PDF-1.4\n%%EOF\n"))
}

func sampleMistakes() []models.Mistake {
	now := time.Now().Format(time.RFC3339)
	return []models.Mistake{
		{
			ID:              "m-1",
			QuestionText:    "计算 3 × (4 + 1)",
			WrongAnswer:     "15 写成了 13",
			AIAnalysis:      "乘法分配律使用错误。",
			Subject:         "数学",
			Grade:           "七年级",
			KnowledgePoints: []string{"乘法分配律"},
			CreatedAt:       now,
		},
		{
			ID:              "m-2",
			QuestionText:    "解方程 2x + 3 = 11",
			WrongAnswer:     "x = 7",
			AIAnalysis:      "移项时符号处理错误。",
			Subject:         "数学",
			Grade:           "七年级",
			KnowledgePoints: []string{"一元一次方程"},
			CreatedAt:       now,
		},
	}
}

func sampleQuestions() []models.Question {
	return []models.Question{
		{
			ID:              "q-1",
			Content:         "解方程 $3x - 5 = 7$。",
			Answer:          "$x = 4$",
			Explanation:     "移项得 $3x = 12$。",
			KnowledgePoints: []string{"一元一次方程"},
			Difficulty:      "easy",
			CreatedAt:       time.Now().Format(time.RFC3339),
		},
	}
}
