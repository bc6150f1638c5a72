package advisor

import (
	"context"
	"fmt"

	"github.com/run-bigpig/pensionpal/internal/models"
)

// NewClient 根据应用配置创建对应的协作方客户端
// Provider 为空时回落到后端 HTTP 协作方
func NewClient(ctx context.Context, config models.AppConfig) (Client, error) {
	switch config.AI.Provider {
	case models.AIProviderOpenAI:
		return NewOpenAIClient(config.AI), nil
	case models.AIProviderGemini:
		return NewGeminiClient(ctx, config.AI)
	case models.AIProviderBackend, "":
		return NewBackendClient(config.AdvisoryBaseURL), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, config.AI.Provider)
	}
}
