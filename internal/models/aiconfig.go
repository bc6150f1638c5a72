package models

// AI 服务提供商常量
const (
	AIProviderBackend = "backend" // 走后端 HTTP 协作方（/chat /explain /llm3）
	AIProviderOpenAI  = "openai"  // OpenAI 兼容 API 直连
	AIProviderGemini  = "gemini"  // Google Gemini 直连
)

// AIConfig AI 服务配置
type AIConfig struct {
	Provider  string `json:"provider"`
	APIKey    string `json:"apiKey,omitempty"`
	BaseURL   string `json:"baseUrl,omitempty"`
	ModelName string `json:"modelName,omitempty"`
}

// AppConfig 应用配置（持久化到用户配置目录）
type AppConfig struct {
	// 协作方服务地址
	AdvisoryBaseURL   string `json:"advisoryBaseUrl"`   // 建议/解释/符号提取后端
	PredictionBaseURL string `json:"predictionBaseUrl"` // 股票预测服务
	AccountBaseURL    string `json:"accountBaseUrl"`    // 认证/画像/历史后端

	// AI 直连配置（Provider 为 openai/gemini 时生效）
	AI AIConfig `json:"ai"`

	// 本地缓存的用户画像
	Profile *UserProfile `json:"profile,omitempty"`
}

// DefaultAppConfig 默认应用配置（与原型部署的本地端口一致）
func DefaultAppConfig() AppConfig {
	return AppConfig{
		AdvisoryBaseURL:   "http://127.0.0.1:8000",
		PredictionBaseURL: "http://127.0.0.1:8000",
		AccountBaseURL:    "http://127.0.0.1:8000",
		AI:                AIConfig{Provider: AIProviderBackend},
	}
}
