package services

import (
	"context"
	"sync"
	"time"

	"github.com/run-bigpig/pensionpal/internal/logger"
	"github.com/run-bigpig/pensionpal/internal/models"
	"github.com/run-bigpig/pensionpal/internal/services/news"

	"github.com/wailsapp/wails/v2/pkg/runtime"
)

var pusherLog = logger.New("pusher")

// 事件名称常量
const (
	EventNewsUpdate      = "news:update"
	EventDashboardUpdate = "dashboard:update"
)

// safeCall 安全调用，捕获 panic 避免崩溃
func safeCall(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			pusherLog.Error("panic recovered: %v", r)
		}
	}()
	fn()
}

// NewsPusher 头条与仪表盘数据推送服务
type NewsPusher struct {
	ctx              context.Context
	newsService      *news.Service
	dashboardService *DashboardService
	configService    *ConfigService

	// 头条缓存（用于检测更新）
	lastTopHeadline string
	mu              sync.Mutex

	// 控制
	stopChan chan struct{}
	running  bool
}

// NewNewsPusher 创建推送服务
func NewNewsPusher(newsService *news.Service, dashboardService *DashboardService, configService *ConfigService) *NewsPusher {
	return &NewsPusher{
		newsService:      newsService,
		dashboardService: dashboardService,
		configService:    configService,
		stopChan:         make(chan struct{}),
	}
}

// Start 启动推送服务
func (p *NewsPusher) Start(ctx context.Context) {
	p.ctx = ctx
	p.running = true
	go p.pushLoop()
}

// Stop 停止推送服务
func (p *NewsPusher) Stop() {
	if p.running {
		close(p.stopChan)
		p.running = false
	}
}

// pushLoop 数据推送循环
func (p *NewsPusher) pushLoop() {
	newsTicker := time.NewTicker(5 * time.Minute)       // 头条
	dashboardTicker := time.NewTicker(10 * time.Minute) // 仪表盘指标

	defer newsTicker.Stop()
	defer dashboardTicker.Stop()

	// 立即推送一次
	safeCall(p.pushHeadlines)
	safeCall(p.pushDashboard)

	for {
		select {
		case <-p.stopChan:
			return
		case <-newsTicker.C:
			safeCall(p.pushHeadlines)
		case <-dashboardTicker.C:
			safeCall(p.pushDashboard)
		}
	}
}

// pushHeadlines 推送财经头条
func (p *NewsPusher) pushHeadlines() {
	if p.newsService == nil {
		return
	}

	results := p.newsService.GetAllHeadlines()

	// 检查头条是否有更新（避免重复推送）
	var top string
	for _, r := range results {
		if len(r.Items) > 0 {
			top = r.Items[0].Title
			break
		}
	}

	p.mu.Lock()
	if top != "" && top == p.lastTopHeadline {
		p.mu.Unlock()
		return
	}
	p.lastTopHeadline = top
	p.mu.Unlock()

	runtime.EventsEmit(p.ctx, EventNewsUpdate, results)
}

// pushDashboard 推送仪表盘指标
func (p *NewsPusher) pushDashboard() {
	if p.dashboardService == nil || p.configService == nil {
		return
	}

	profile := p.configService.Profile()
	if profile == nil {
		return
	}

	metrics, err := p.dashboardService.GetMetrics(p.ctx, *profile)
	if err != nil {
		pusherLog.Warn("仪表盘指标获取失败: %v", err)
		return
	}

	runtime.EventsEmit(p.ctx, EventDashboardUpdate, metrics)
}

// PushDashboardFor 用指定画像立即推送一次仪表盘指标
func (p *NewsPusher) PushDashboardFor(profile models.UserProfile) {
	if p.dashboardService == nil {
		return
	}
	metrics, err := p.dashboardService.GetMetrics(p.ctx, profile)
	if err != nil {
		pusherLog.Warn("仪表盘指标获取失败: %v", err)
		return
	}
	runtime.EventsEmit(p.ctx, EventDashboardUpdate, metrics)
}
