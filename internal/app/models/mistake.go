package models

// Mistake 错题本中的一条错题记录，由后端在批改时自动写入
type Mistake struct {
	ID              string   `json:"id"`
	ImageBase64     string   `json:"image_base64"`
	QuestionText    string   `json:"question_text"`
	WrongAnswer     string   `json:"wrong_answer"`
	AIAnalysis      string   `json:"ai_analysis"`
	Subject         string   `json:"subject"`
	Grade           string   `json:"grade"`
	KnowledgePoints []string `json:"knowledge_points"`
	CreatedAt       string   `json:"created_at"`
	ReviewedCount   int      `json:"reviewed_count"`
}

// Question AI 基于错题生成的练习题
type Question struct {
	ID              string   `json:"id"`
	Content         string   `json:"content"`
	Answer          string   `json:"answer"`
	Explanation     string   `json:"explanation"`
	KnowledgePoints []string `json:"knowledge_points"`
	Difficulty      string   `json:"difficulty"`
	CreatedAt       string   `json:"created_at"`
}

// MistakeFilter 错题列表的筛选条件
type MistakeFilter struct {
	Subject string
	Grade   string
	Limit   int
	Offset  int
}

// MistakeList /mistakes/ 响应体
type MistakeList struct {
	Items []Mistake `json:"items"`
	Total int       `json:"total"`
}

// QuestionList /questions/ 响应体
type QuestionList struct {
	Items []Question `json:"items"`
	Total int        `json:"total"`
}

// MistakeStats /mistakes/stats/summary 响应体
type MistakeStats struct {
	TotalMistakes   int            `json:"total_mistakes"`
	TotalQuestions  int            `json:"total_questions"`
	BySubject       map[string]int `json:"by_subject"`
	ByKnowledgePnt  map[string]int `json:"by_knowledge_point"`
	RecentlyAdded   int            `json:"recently_added"`
	ReviewedPercent float64        `json:"reviewed_percent"`
}

// GenerateQuestionsRequest /questions/generate 请求体。
// 出题由后端的大模型完成，耗时以分钟计，调用方需配长超时。
type GenerateQuestionsRequest struct {
	MistakeIDs     []string `json:"mistake_ids"`
	Count          int      `json:"count"`
	Difficulty     string   `json:"difficulty"`
	AllowWebSearch bool     `json:"allow_web_search"`
}

// GenerateQuestionsResponse /questions/generate 响应体
type GenerateQuestionsResponse struct {
	Questions []Question `json:"questions"`
}

// ExportPDFRequest /export/pdf 请求体，响应为 PDF 字节流
type ExportPDFRequest struct {
	QuestionIDs    []string `json:"question_ids"`
	Title          string   `json:"title"`
	IncludeAnswers bool     `json:"include_answers"`
}
