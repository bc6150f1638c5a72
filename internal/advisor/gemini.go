package advisor

import (
	"context"
	"fmt"

	"github.com/run-bigpig/pensionpal/internal/intent"
	"github.com/run-bigpig/pensionpal/internal/logger"
	"github.com/run-bigpig/pensionpal/internal/models"

	"google.golang.org/genai"
)

var geminiLog = logger.New("advisor:gemini")

// GeminiClient Google Gemini 直连实现
type GeminiClient struct {
	client    *genai.Client
	modelName string
}

// NewGeminiClient 创建 Gemini 客户端
func NewGeminiClient(ctx context.Context, config models.AIConfig) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("创建 Gemini 客户端失败: %w", err)
	}
	return &GeminiClient{
		client:    client,
		modelName: config.ModelName,
	}, nil
}

// Advise 建议查询
func (c *GeminiClient) Advise(ctx context.Context, message string, userData map[string]any) (string, error) {
	system := fmt.Sprintf("%s\n\nUser Profile:\n%s", advisoryPrompt, formatUserData(userData))
	return c.generate(ctx, system, message)
}

// Explain 解释查询
func (c *GeminiClient) Explain(ctx context.Context, message string, userData map[string]any) (string, error) {
	system := fmt.Sprintf("%s\n\nUser Profile:\n%s", teachingPrompt, formatUserData(userData))
	return c.generate(ctx, system, message)
}

// ExtractStockSymbol 结构化代码提取
func (c *GeminiClient) ExtractStockSymbol(ctx context.Context, text string) (string, error) {
	reply, err := c.generate(ctx, extractionSystemPrompt, text)
	if err != nil {
		return "", err
	}
	return intent.NormalizeSymbol(reply), nil
}

// generate 执行一次内容生成
func (c *GeminiClient) generate(ctx context.Context, system, user string) (string, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.modelName, genai.Text(user), config)
	if err != nil {
		geminiLog.Warn("generate content 失败: %v", err)
		return "", err
	}

	text := resp.Text()
	if text == "" {
		return "", ErrEmptyReply
	}
	return text, nil
}
