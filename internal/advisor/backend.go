package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/run-bigpig/pensionpal/internal/intent"
	"github.com/run-bigpig/pensionpal/internal/logger"
)

var backendLog = logger.New("advisor:backend")

// chatRequest 后端协作方请求体
type chatRequest struct {
	Message  string         `json:"message"`
	UserData map[string]any `json:"userData"`
}

// chatResponse 后端协作方响应体
type chatResponse struct {
	Reply string `json:"reply"`
}

// BackendClient 走后端 HTTP 协作方的实现
// 契约：POST /chat /explain /llm3，{message, userData} -> {reply}
type BackendClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewBackendClient 创建后端协作方客户端
func NewBackendClient(baseURL string) *BackendClient {
	return &BackendClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Advise 建议查询（/chat）
func (c *BackendClient) Advise(ctx context.Context, message string, userData map[string]any) (string, error) {
	return c.post(ctx, "/chat", message, userData)
}

// Explain 解释查询（/explain）
func (c *BackendClient) Explain(ctx context.Context, message string, userData map[string]any) (string, error) {
	return c.post(ctx, "/explain", message, userData)
}

// ExtractStockSymbol 结构化代码提取（/llm3），回复为单个代码或 NONE
func (c *BackendClient) ExtractStockSymbol(ctx context.Context, text string) (string, error) {
	reply, err := c.post(ctx, "/llm3", text, nil)
	if err != nil {
		return "", err
	}
	return intent.NormalizeSymbol(reply), nil
}

// post 发送一次协作方调用
func (c *BackendClient) post(ctx context.Context, path, message string, userData map[string]any) (string, error) {
	if userData == nil {
		userData = map[string]any{}
	}
	body, err := json.Marshal(chatRequest{Message: message, UserData: userData})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		backendLog.Warn("%s 请求失败: %v", path, err)
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("协作方 %s 返回状态码 %d", path, resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("协作方 %s 响应解析失败: %w", path, err)
	}
	if parsed.Reply == "" {
		return "", ErrEmptyReply
	}
	return parsed.Reply, nil
}
