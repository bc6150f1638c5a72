package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/run-bigpig/pensionpal/internal/advisor"
	"github.com/run-bigpig/pensionpal/internal/chat"
	"github.com/run-bigpig/pensionpal/internal/logger"
	"github.com/run-bigpig/pensionpal/internal/models"
	"github.com/run-bigpig/pensionpal/internal/services"
	"github.com/run-bigpig/pensionpal/internal/services/news"

	"github.com/wailsapp/wails/v2/pkg/runtime"
)

var appLog = logger.New("App")

// App 应用主结构，聚合各服务并暴露给前端绑定
type App struct {
	ctx context.Context

	configService     *services.ConfigService
	accountService    *services.AccountService
	dashboardService  *services.DashboardService
	predictionService *services.PredictionService
	newsService       *news.Service
	pusher            *services.NewsPusher

	// 当前登录用户与活动会话
	username    string
	chatService *chat.Service
}

// NewApp 创建应用实例
func NewApp() *App {
	configService := services.NewConfigService()
	config := configService.Get()

	newsService, err := news.NewService()
	if err != nil {
		appLog.Warn("头条服务初始化失败: %v", err)
	}

	dashboardService := services.NewDashboardService(config.PredictionBaseURL)

	return &App{
		configService:     configService,
		accountService:    services.NewAccountService(config.AccountBaseURL),
		dashboardService:  dashboardService,
		predictionService: services.NewPredictionService(config.PredictionBaseURL),
		newsService:       newsService,
		pusher:            services.NewNewsPusher(newsService, dashboardService, configService),
	}
}

// startup 应用启动回调
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
	a.pusher.Start(ctx)
	appLog.Info("应用已启动")
}

// shutdown 应用退出回调
func (a *App) shutdown(ctx context.Context) {
	a.pusher.Stop()
	if a.chatService != nil {
		_ = a.chatService.Close(ctx)
	}
	appLog.Info("应用已退出")
}

// Signup 注册新用户
func (a *App) Signup(username, password string) error {
	if err := a.accountService.Signup(a.ctx, username, password); err != nil {
		return err
	}
	a.username = username
	return nil
}

// Login 登录并拉取远端画像到本地配置
func (a *App) Login(username, password string) error {
	if err := a.accountService.Login(a.ctx, username, password); err != nil {
		return err
	}
	a.username = username

	profile, err := a.accountService.GetProfile(a.ctx, username)
	if err != nil {
		appLog.Warn("画像拉取失败: %v", err)
		return nil
	}
	if profile != nil {
		if err := a.configService.SetProfile(profile); err != nil {
			appLog.Warn("画像本地缓存失败: %v", err)
		}
	}
	return nil
}

// GetProfile 返回本地缓存的用户画像，可能为 nil
func (a *App) GetProfile() *models.UserProfile {
	return a.configService.Profile()
}

// SaveProfile 保存画像（本地 + 远端）并刷新仪表盘
func (a *App) SaveProfile(profile models.UserProfile) error {
	if err := a.configService.SetProfile(&profile); err != nil {
		return err
	}
	if a.username != "" {
		if err := a.accountService.SaveProfile(a.ctx, a.username, profile); err != nil {
			appLog.Warn("画像远端保存失败: %v", err)
		}
	}
	go a.pusher.PushDashboardFor(profile)
	return nil
}

// GetDashboardMetrics 拉取退休金预测仪表盘指标
func (a *App) GetDashboardMetrics() (*services.DashboardMetrics, error) {
	profile := a.configService.Profile()
	if profile == nil {
		return nil, errors.New("请先完善用户画像")
	}
	return a.dashboardService.GetMetrics(a.ctx, *profile)
}

// GetNewsSources 获取支持的头条来源列表
func (a *App) GetNewsSources() []news.SourceInfo {
	if a.newsService == nil {
		return nil
	}
	return a.newsService.GetSources()
}

// GetHeadlines 获取单个来源的头条
func (a *App) GetHeadlines(source string) news.HeadlineResult {
	if a.newsService == nil {
		return news.HeadlineResult{Source: source, Error: "头条服务不可用"}
	}
	return a.newsService.GetHeadlines(source)
}

// GetAllHeadlines 并发获取所有来源的头条
func (a *App) GetAllHeadlines() []news.HeadlineResult {
	if a.newsService == nil {
		return nil
	}
	return a.newsService.GetAllHeadlines()
}

// GetConfig 返回当前应用配置
func (a *App) GetConfig() models.AppConfig {
	return a.configService.Get()
}

// UpdateConfig 更新应用配置
func (a *App) UpdateConfig(config models.AppConfig) error {
	return a.configService.Update(config)
}

// StartChat 开启新会话
// 活动会话存在时先关闭旧会话再开启新会话
func (a *App) StartChat() error {
	if a.chatService != nil {
		_ = a.chatService.Close(a.ctx)
		a.chatService = nil
	}

	config := a.configService.Get()
	client, err := advisor.NewClient(a.ctx, config)
	if err != nil {
		return fmt.Errorf("顾问客户端初始化失败: %w", err)
	}

	// 以本地画像为会话初始用户数据
	var initialData map[string]any
	if profile := a.configService.Profile(); profile != nil {
		initialData = profile.ToMap()
	}

	svc := chat.NewService(a.username, client, a.predictionService, initialData)
	svc.SetEmitter(func(event string, data any) {
		runtime.EventsEmit(a.ctx, event, data)
	})
	svc.SetHistorySaver(a.accountService)
	svc.Start(a.ctx)

	a.chatService = svc
	return nil
}

// SendChatMessage 提交一条用户话语，结果通过 chat:update 事件推送
func (a *App) SendChatMessage(utterance string) error {
	if a.chatService == nil {
		return errors.New("会话未开启")
	}
	a.chatService.Dispatch(utterance)
	return nil
}

// GetChatState 返回当前会话状态快照
func (a *App) GetChatState() (models.ConversationSnapshot, error) {
	if a.chatService == nil {
		return models.ConversationSnapshot{}, errors.New("会话未开启")
	}
	return a.chatService.GetState(), nil
}

// EndChat 结束当前会话并落库历史
func (a *App) EndChat() error {
	if a.chatService == nil {
		return nil
	}
	err := a.chatService.Close(a.ctx)
	a.chatService = nil
	return err
}

// GetChatHistory 拉取当前用户的历史对话
func (a *App) GetChatHistory() ([]models.HistoryEntry, error) {
	if a.username == "" {
		return nil, errors.New("未登录")
	}
	return a.accountService.GetChatHistory(a.ctx, a.username)
}
