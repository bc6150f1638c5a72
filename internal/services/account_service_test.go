package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/run-bigpig/pensionpal/internal/models"
)

// TestLoginSuccess 登录成功
func TestLoginSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/login" {
			t.Errorf("登录路径不符: %s", r.URL.Path)
		}
		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		if req.Username != "alice" {
			t.Errorf("用户名不符: %s", req.Username)
		}
		json.NewEncoder(w).Encode(map[string]any{"success": true})
	}))
	defer server.Close()

	service := NewAccountService(server.URL)
	if err := service.Login(context.Background(), "alice", "secret"); err != nil {
		t.Fatalf("登录失败: %v", err)
	}
}

// TestLoginRejected 认证被拒返回 ErrAuthFailed
func TestLoginRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "bad credentials"})
	}))
	defer server.Close()

	service := NewAccountService(server.URL)
	err := service.Login(context.Background(), "alice", "wrong")
	if !errors.Is(err, ErrAuthFailed) {
		t.Errorf("应返回 ErrAuthFailed，实际 %v", err)
	}
}

// TestGetProfileNotFound 画像不存在返回 nil 而非错误
func TestGetProfileNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	service := NewAccountService(server.URL)
	profile, err := service.GetProfile(context.Background(), "alice")
	if err != nil {
		t.Fatalf("404 不应作为错误返回: %v", err)
	}
	if profile != nil {
		t.Errorf("画像应为 nil，实际 %+v", profile)
	}
}

// TestGetChatHistory 历史对话解析
func TestGetChatHistory(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat-history/alice" {
			t.Errorf("历史路径不符: %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"context": []map[string]string{
				{"role": "user", "content": "hello"},
				{"role": "assistant", "content": "hi there"},
			},
		})
	}))
	defer server.Close()

	service := NewAccountService(server.URL)
	entries, err := service.GetChatHistory(context.Background(), "alice")
	if err != nil {
		t.Fatalf("历史拉取失败: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("历史条数应为 2，实际 %d", len(entries))
	}
	if entries[0].Role != "user" || entries[0].Content != "hello" {
		t.Errorf("首条历史不符: %+v", entries[0])
	}
}

// TestStoreHistory 历史落库请求体携带 context 字段
func TestStoreHistory(t *testing.T) {
	var received struct {
		Context []models.HistoryEntry `json:"context"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/store-history/alice" {
			t.Errorf("落库路径不符: %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&received)
		w.Write([]byte("{}"))
	}))
	defer server.Close()

	service := NewAccountService(server.URL)
	entries := []models.HistoryEntry{
		{Role: "user", Content: "hello"},
	}
	if err := service.StoreHistory(context.Background(), "alice", entries); err != nil {
		t.Fatalf("历史落库失败: %v", err)
	}
	if len(received.Context) != 1 || received.Context[0].Content != "hello" {
		t.Errorf("落库请求体不符: %+v", received)
	}
}

// TestStoreHistoryEmpty 空历史不发起请求
func TestStoreHistoryEmpty(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	service := NewAccountService(server.URL)
	if err := service.StoreHistory(context.Background(), "alice", nil); err != nil {
		t.Fatalf("空历史落库不应失败: %v", err)
	}
	if called {
		t.Error("空历史不应发起请求")
	}
}
