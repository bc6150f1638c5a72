package advisor

import (
	"context"
	"fmt"

	"github.com/run-bigpig/pensionpal/internal/intent"
	"github.com/run-bigpig/pensionpal/internal/logger"
	"github.com/run-bigpig/pensionpal/internal/models"

	go_openai "github.com/sashabaranov/go-openai"
)

var openaiLog = logger.New("advisor:openai")

// OpenAIClient OpenAI 兼容 API 直连实现
// 原型后端经 OpenRouter 调 DeepSeek/Mistral，均走该协议
type OpenAIClient struct {
	client    *go_openai.Client
	modelName string
}

// NewOpenAIClient 创建 OpenAI 兼容客户端
func NewOpenAIClient(config models.AIConfig) *OpenAIClient {
	cfg := go_openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		cfg.BaseURL = config.BaseURL
	}
	return &OpenAIClient{
		client:    go_openai.NewClientWithConfig(cfg),
		modelName: config.ModelName,
	}
}

// Advise 建议查询
func (c *OpenAIClient) Advise(ctx context.Context, message string, userData map[string]any) (string, error) {
	system := fmt.Sprintf("%s\n\nUser Profile:\n%s", advisoryPrompt, formatUserData(userData))
	return c.complete(ctx, system, message)
}

// Explain 解释查询
func (c *OpenAIClient) Explain(ctx context.Context, message string, userData map[string]any) (string, error) {
	system := fmt.Sprintf("%s\n\nUser Profile:\n%s", teachingPrompt, formatUserData(userData))
	return c.complete(ctx, system, message)
}

// ExtractStockSymbol 结构化代码提取
func (c *OpenAIClient) ExtractStockSymbol(ctx context.Context, text string) (string, error) {
	reply, err := c.complete(ctx, extractionSystemPrompt, text)
	if err != nil {
		return "", err
	}
	return intent.NormalizeSymbol(reply), nil
}

// complete 执行一次对话补全
func (c *OpenAIClient) complete(ctx context.Context, system, user string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, go_openai.ChatCompletionRequest{
		Model: c.modelName,
		Messages: []go_openai.ChatCompletionMessage{
			{Role: go_openai.ChatMessageRoleSystem, Content: system},
			{Role: go_openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		openaiLog.Warn("chat completion 失败: %v", err)
		return "", err
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", ErrEmptyReply
	}
	return resp.Choices[0].Message.Content, nil
}
