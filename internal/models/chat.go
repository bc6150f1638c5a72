package models

// Widget 消息渲染方式标签
type Widget string

const (
	WidgetPlain      Widget = "plain"      // 纯文本
	WidgetMarkdown   Widget = "markdown"   // Markdown 渲染
	WidgetStockChart Widget = "stockChart" // 股票预测图表
)

// 消息角色常量
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// MarkdownPayload Markdown 消息载荷
type MarkdownPayload struct {
	Message string `json:"message"`
}

// StockChartPayload 股票图表消息载荷
type StockChartPayload struct {
	StockSymbol    string           `json:"stockSymbol"`
	Years          int              `json:"years"`
	PredictionData *StockPrediction `json:"predictionData"`
}

// ChatMessage 聊天消息
// Widget 为空时按纯文本渲染；Markdown 与 StockChart 载荷最多只有一个非空
type ChatMessage struct {
	ID         string             `json:"id"`
	Role       string             `json:"role"`
	Text       string             `json:"text"`
	Widget     Widget             `json:"widget,omitempty"`
	Markdown   *MarkdownPayload   `json:"markdown,omitempty"`
	StockChart *StockChartPayload `json:"stockChart,omitempty"`
	Pending    bool               `json:"pending,omitempty"` // 占位消息标记，请求完成后被原地替换
	Timestamp  int64              `json:"timestamp"`
}

// ConversationSnapshot 会话状态快照（推送给前端渲染层）
type ConversationSnapshot struct {
	Messages []ChatMessage  `json:"messages"`
	UserData map[string]any `json:"userData"`
}

// HistoryEntry 对话历史条目（OpenAI 消息格式，用于落库）
type HistoryEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
