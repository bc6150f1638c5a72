// Package chat 实现会话核心：消息路由、意图分发与会话状态维护。
package chat

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/run-bigpig/pensionpal/internal/models"
)

// Store 会话状态存储
// 消息日志只追加；唯一的原地写入是占位消息按关联 ID 的替换。
// userData 只做合并，从不整体替换
type Store struct {
	mu       sync.RWMutex
	messages []models.ChatMessage
	userData map[string]any
}

// NewStore 创建会话状态存储，initialData 为调用方提供的初始画像快照
func NewStore(initialData map[string]any) *Store {
	data := make(map[string]any, len(initialData))
	for k, v := range initialData {
		data[k] = v
	}
	return &Store{
		userData: data,
	}
}

// NewMessage 构造一条带 ID 和时间戳的消息
func NewMessage(role, text string) models.ChatMessage {
	return models.ChatMessage{
		ID:        uuid.NewString(),
		Role:      role,
		Text:      text,
		Timestamp: time.Now().UnixMilli(),
	}
}

// Append 追加一条消息
func (s *Store) Append(msg models.ChatMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
}

// ReplaceByID 按关联 ID 原地替换消息，保留原 ID
// 找不到目标时返回 false 且不做任何修改
func (s *Store) ReplaceByID(id string, msg models.ChatMessage) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := len(s.messages) - 1; i >= 0; i-- {
		if s.messages[i].ID == id {
			msg.ID = id
			s.messages[i] = msg
			return true
		}
	}
	return false
}

// MergeUserData 将提取到的字段合并进用户画像，同键后写覆盖
func (s *Store) MergeUserData(partial map[string]any) {
	if len(partial) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range partial {
		s.userData[k] = v
	}
}

// SnapshotUserData 返回用户画像的浅拷贝
func (s *Store) SnapshotUserData() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := make(map[string]any, len(s.userData))
	for k, v := range s.userData {
		snapshot[k] = v
	}
	return snapshot
}

// Snapshot 返回整个会话状态的拷贝（供渲染层读取）
func (s *Store) Snapshot() models.ConversationSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	messages := make([]models.ChatMessage, len(s.messages))
	copy(messages, s.messages)

	userData := make(map[string]any, len(s.userData))
	for k, v := range s.userData {
		userData[k] = v
	}
	return models.ConversationSnapshot{Messages: messages, UserData: userData}
}

// MessageCount 当前消息数
func (s *Store) MessageCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

// PendingCount 当前占位消息数
func (s *Store) PendingCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, m := range s.messages {
		if m.Pending {
			count++
		}
	}
	return count
}

// History 导出 OpenAI 消息格式的对话历史（用于会话结束时落库）
// 占位消息与图表消息不入历史
func (s *Store) History() []models.HistoryEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]models.HistoryEntry, 0, len(s.messages))
	for _, m := range s.messages {
		if m.Pending || m.Widget == models.WidgetStockChart {
			continue
		}
		content := m.Text
		if m.Widget == models.WidgetMarkdown && m.Markdown != nil {
			content = m.Markdown.Message
		}
		if content == "" {
			continue
		}
		entries = append(entries, models.HistoryEntry{Role: m.Role, Content: content})
	}
	return entries
}
