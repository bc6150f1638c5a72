package chat

import (
	"context"
	"sync"

	"github.com/run-bigpig/pensionpal/internal/advisor"
	"github.com/run-bigpig/pensionpal/internal/logger"
	"github.com/run-bigpig/pensionpal/internal/models"
)

var serviceLog = logger.New("Chat")

// EventChatUpdate 会话状态变更事件名
const EventChatUpdate = "chat:update"

// initialGreeting 会话开场白
const initialGreeting = "Hello! 👋 I can provide risk predictions or explain results. What would you like?"

// utteranceQueueSize 排队话语上限，超出时丢弃并告警
const utteranceQueueSize = 16

// Emitter 状态事件发射函数（由应用层接入 wails runtime.EventsEmit）
type Emitter func(event string, data any)

// HistorySaver 会话历史落库协作方
type HistorySaver interface {
	StoreHistory(ctx context.Context, username string, entries []models.HistoryEntry) error
}

// Service 会话服务（消息路由入口）
// 每个会话一个工作协程按提交顺序串行消费话语队列，
// 占位替换按关联 ID 寻址，两重保障消除跨请求乱序覆盖
type Service struct {
	username   string
	stateStore *Store
	dispatcher *Dispatcher

	queue    chan string
	stopChan chan struct{}
	wg       sync.WaitGroup

	mu      sync.Mutex
	emitter Emitter
	saver   HistorySaver
	running bool
}

// NewService 创建会话服务
// initialData 为调用方提供的初始画像快照；会话以一条开场白消息起始
func NewService(username string, client advisor.Client, predictor Predictor, initialData map[string]any) *Service {
	stateStore := NewStore(initialData)
	stateStore.Append(NewMessage(models.RoleAssistant, initialGreeting))

	s := &Service{
		username:   username,
		stateStore: stateStore,
		dispatcher: NewDispatcher(stateStore, client, predictor),
		queue:      make(chan string, utteranceQueueSize),
		stopChan:   make(chan struct{}),
	}
	s.dispatcher.SetOnUpdate(s.emitState)
	return s
}

// SetEmitter 设置状态事件发射器
func (s *Service) SetEmitter(emitter Emitter) {
	s.mu.Lock()
	s.emitter = emitter
	s.mu.Unlock()
}

// SetHistorySaver 设置会话历史落库协作方
func (s *Service) SetHistorySaver(saver HistorySaver) {
	s.mu.Lock()
	s.saver = saver
	s.mu.Unlock()
}

// Dispatcher 返回底层分发器（测试用）
func (s *Service) Dispatcher() *Dispatcher {
	return s.dispatcher
}

// Start 启动会话工作协程
func (s *Service) Start(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	s.wg.Add(1)
	go s.worker(ctx)
}

// worker 话语消费循环，单协程保证处理顺序与提交顺序一致
func (s *Service) worker(ctx context.Context) {
	defer s.wg.Done()
	for {
		select {
		case <-s.stopChan:
			return
		case <-ctx.Done():
			return
		case utterance := <-s.queue:
			s.handleSafely(ctx, utterance)
		}
	}
}

// handleSafely 处理一条话语，捕获 panic 避免拖垮会话
func (s *Service) handleSafely(ctx context.Context, utterance string) {
	defer func() {
		if r := recover(); r != nil {
			serviceLog.Error("panic recovered: %v", r)
		}
	}()
	s.dispatcher.HandleUtterance(ctx, utterance)
}

// Dispatch 提交一条用户话语，即发即忘
// 所有结果通过会话状态变更观察；队列满时丢弃并告警
func (s *Service) Dispatch(utterance string) {
	if utterance == "" {
		return
	}
	select {
	case s.queue <- utterance:
	default:
		serviceLog.Warn("话语队列已满，丢弃: %q", utterance)
	}
}

// GetState 返回会话状态快照
func (s *Service) GetState() models.ConversationSnapshot {
	return s.stateStore.Snapshot()
}

// emitState 推送最新会话状态到渲染层
func (s *Service) emitState() {
	s.mu.Lock()
	emitter := s.emitter
	s.mu.Unlock()

	if emitter != nil {
		emitter(EventChatUpdate, s.stateStore.Snapshot())
	}
}

// Close 结束会话：停止工作协程并按需落库对话历史
// 会话状态随之废弃，除落库外无持久化保证
func (s *Service) Close(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	saver := s.saver
	s.mu.Unlock()

	close(s.stopChan)
	s.wg.Wait()

	if saver == nil {
		return nil
	}
	if err := saver.StoreHistory(ctx, s.username, s.stateStore.History()); err != nil {
		serviceLog.Warn("会话历史落库失败: %v", err)
		return err
	}
	serviceLog.Info("会话历史已保存, user=%s", s.username)
	return nil
}
