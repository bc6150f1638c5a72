package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/run-bigpig/pensionpal/internal/logger"
	"github.com/run-bigpig/pensionpal/internal/models"
)

var accountLog = logger.New("Account")

// ErrAuthFailed 认证失败
var ErrAuthFailed = errors.New("用户名或密码不正确")

// authRequest 认证请求体
type authRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// authResponse 认证响应体
type authResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Token   string `json:"token,omitempty"`
}

// historyRequest 历史落库请求体
type historyRequest struct {
	Context []models.HistoryEntry `json:"context"`
}

// AccountService 认证/画像/历史后端客户端
type AccountService struct {
	baseURL    string
	httpClient *http.Client
}

// NewAccountService 创建账户服务客户端
func NewAccountService(baseURL string) *AccountService {
	return &AccountService{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Signup 注册新用户
func (s *AccountService) Signup(ctx context.Context, username, password string) error {
	return s.auth(ctx, "/signup", username, password)
}

// Login 登录
func (s *AccountService) Login(ctx context.Context, username, password string) error {
	return s.auth(ctx, "/login", username, password)
}

// auth 执行一次认证调用
func (s *AccountService) auth(ctx context.Context, path, username, password string) error {
	var parsed authResponse
	if err := s.postJSON(ctx, path, authRequest{Username: username, Password: password}, &parsed); err != nil {
		return err
	}
	if !parsed.Success {
		accountLog.Warn("%s 被拒绝: %s", path, parsed.Message)
		return ErrAuthFailed
	}
	return nil
}

// GetProfile 拉取用户画像
func (s *AccountService) GetProfile(ctx context.Context, username string) (*models.UserProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		s.baseURL+"/profile/"+url.PathEscape(username), nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("画像服务返回状态码 %d", resp.StatusCode)
	}

	var profile models.UserProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("画像响应解析失败: %w", err)
	}
	return &profile, nil
}

// SaveProfile 保存用户画像
func (s *AccountService) SaveProfile(ctx context.Context, username string, profile models.UserProfile) error {
	return s.postJSON(ctx, "/profile/"+url.PathEscape(username), profile, nil)
}

// GetChatHistory 拉取历史对话
func (s *AccountService) GetChatHistory(ctx context.Context, username string) ([]models.HistoryEntry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		s.baseURL+"/api/chat-history/"+url.PathEscape(username), nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("历史服务返回状态码 %d", resp.StatusCode)
	}

	var parsed struct {
		Context []models.HistoryEntry `json:"context"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("历史响应解析失败: %w", err)
	}
	return parsed.Context, nil
}

// StoreHistory 落库会话历史（页面退出时由外围调用）
func (s *AccountService) StoreHistory(ctx context.Context, username string, entries []models.HistoryEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return s.postJSON(ctx, "/api/store-history/"+url.PathEscape(username), historyRequest{Context: entries}, nil)
}

// postJSON 发送 JSON POST，out 非空时解析响应
func (s *AccountService) postJSON(ctx context.Context, path string, in any, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("账户服务 %s 返回状态码 %d", path, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
