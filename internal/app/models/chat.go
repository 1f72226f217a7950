package models

// Mode 使用模式：解题或批改
type Mode string

const (
	ModeSolve  Mode = "solve"  // AI 解题
	ModeReview Mode = "review" // AI 批改作业
)

// SolveType 题目范围：单题 / 整张图片 / 指定题目
type SolveType string

const (
	SolveTypeSingle   SolveType = "single"
	SolveTypeFull     SolveType = "full"
	SolveTypeSpecific SolveType = "specific"
)

// DefaultTitle 后端未命名会话前的占位标题
const DefaultTitle = "新对话"

// ContinuePrompt 截断续答时发送的固定提示语
const ContinuePrompt = "请接着你刚才说的继续。"

// Role 消息发送方
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message 会话中的一条消息，追加后不可变；
// 唯一例外是被截断的 assistant 回答，续答片段在定稿前拼入同一条消息。
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ChatSession 一次拍照提问对应的完整会话状态
type ChatSession struct {
	// SessionID 由后端在首条消息后签发，签发前为空；签发后以后端为准
	SessionID string    `json:"session_id"`
	Title     string    `json:"title"`
	Mode      Mode      `json:"mode"`
	ImageSrc  string    `json:"image_src,omitempty"` // 题目原图的 data-URL，仅用于回显
	Messages  []Message `json:"messages"`
	Timestamp int64     `json:"timestamp"` // 最后一次写入的毫秒时间戳
}

// NewChatSession 创建尚未与后端绑定的本地会话
func NewChatSession(mode Mode) *ChatSession {
	return &ChatSession{
		Title: DefaultTitle,
		Mode:  mode,
	}
}

// ChatRequest /chat 请求体
type ChatRequest struct {
	SessionID   string `json:"session_id,omitempty"`
	Prompt      string `json:"prompt" binding:"required"`
	ImageBase64 string `json:"image_base_64,omitempty"`
}

// ChatResponse /chat 响应体
type ChatResponse struct {
	SessionID       string   `json:"session_id"`
	Title           string   `json:"title,omitempty"`
	Response        string   `json:"response"`
	IsTruncated     bool     `json:"is_truncated"`
	Error           string   `json:"error,omitempty"`
	MistakeSaved    bool     `json:"mistake_saved,omitempty"`
	KnowledgePoints []string `json:"knowledge_points,omitempty"`
}

// SheetRequest /process_sheet 请求体：整页拆题
type SheetRequest struct {
	Prompt      string `json:"prompt"`
	ImageBase64 string `json:"image_base_64"`
}

// SheetQuestion 拆分出的单个题目单元
type SheetQuestion struct {
	ID          string `json:"id"`
	ImageBase64 string `json:"image_base_64"`
}

// SheetResponse /process_sheet 响应体
type SheetResponse struct {
	Questions  []SheetQuestion `json:"questions"`
	TotalCount int             `json:"total_count"`
}
