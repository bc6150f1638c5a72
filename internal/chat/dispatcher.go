package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/run-bigpig/pensionpal/internal/advisor"
	"github.com/run-bigpig/pensionpal/internal/intent"
	"github.com/run-bigpig/pensionpal/internal/logger"
	"github.com/run-bigpig/pensionpal/internal/models"
)

var dispatchLog = logger.New("Dispatcher")

// DefaultChartDelay 图表跟进调用前的固定视觉延迟
const DefaultChartDelay = 800 * time.Millisecond

// 用户可见的静态文案
const (
	textAnalyzing      = "🔍 Analyzing..."
	textProfileUpdated = "✅ User info updated."
	textGreeting       = "👋 Hello! How can I assist you?"
	textFarewell       = "👋 Goodbye! It was nice chatting with you. Feel free to ask me whatever you want!"
	textApology        = "Sorry, I'm having trouble connecting to my backend. Please try again later."
)

// shortCircuitPhrases 画像展示短路短语
// 整条话语（去空白、转小写）恰好等于其一时，分发器不做任何动作：
// 画像数据由独立协作方带外渲染
var shortCircuitPhrases = map[string]bool{
	"profile":         true,
	"show my data":    true,
	"show my profile": true,
}

// Predictor 股票预测协作方
type Predictor interface {
	Predict(ctx context.Context, symbol string, years int) (*models.StockPrediction, error)
}

// Dispatcher 动作分发器
// 对单条话语执行固定顺序的处理流水线：画像提取 → 合并 → 意图分支 →
// 远程调用与占位替换 → 回复文本二次提取 → 可选的股票预测跟进。
// 副作用仅限于 Store 修改与协作方调用
type Dispatcher struct {
	store      *Store
	client     advisor.Client
	predictor  Predictor
	chartDelay time.Duration
	onUpdate   func()
}

// NewDispatcher 创建动作分发器
func NewDispatcher(store *Store, client advisor.Client, predictor Predictor) *Dispatcher {
	return &Dispatcher{
		store:      store,
		client:     client,
		predictor:  predictor,
		chartDelay: DefaultChartDelay,
	}
}

// SetChartDelay 设置图表跟进前的视觉延迟（测试中置 0）
func (d *Dispatcher) SetChartDelay(delay time.Duration) {
	d.chartDelay = delay
}

// SetOnUpdate 设置状态变更回调，每次 Store 修改后触发
func (d *Dispatcher) SetOnUpdate(fn func()) {
	d.onUpdate = fn
}

// notify 通知渲染层状态已变更
func (d *Dispatcher) notify() {
	if d.onUpdate != nil {
		d.onUpdate()
	}
}

// HandleUtterance 处理一条用户话语，错误全部转化为用户可见消息，永不上抛
func (d *Dispatcher) HandleUtterance(ctx context.Context, utterance string) {
	d.store.Append(NewMessage(models.RoleUser, utterance))
	d.notify()

	// 短路短语：画像展示由带外协作方处理，此处不做任何动作
	if shortCircuitPhrases[strings.ToLower(strings.TrimSpace(utterance))] {
		dispatchLog.Debug("短路短语命中，跳过分发: %q", utterance)
		return
	}

	detected := intent.Classify(utterance)
	dispatchLog.Info("意图: %s", detected)

	// 问候/道别走纯静态回复，不触发任何远程调用（画像提取也跳过）
	switch detected {
	case intent.IntentHello:
		d.store.Append(NewMessage(models.RoleAssistant, textGreeting))
		d.notify()
		return
	case intent.IntentGoodbye:
		d.store.Append(NewMessage(models.RoleAssistant, textFarewell))
		d.notify()
		return
	}

	// 尽力而为的画像字段提取，失败静默吞掉，不阻塞意图分发
	d.extractProfileFields(ctx, utterance)

	if detected == intent.IntentExplain {
		d.runAdvisoryAction(ctx, utterance, d.client.Explain)
		return
	}
	// risk/predict/invest/help/general 统一走建议动作
	d.runAdvisoryAction(ctx, utterance, d.client.Advise)
}

// extractProfileFields 经解释协作方做结构化画像提取并合并结果
// 提取是增强手段而非必要步骤：调用失败或返回非 JSON 时状态保持不变
func (d *Dispatcher) extractProfileFields(ctx context.Context, utterance string) {
	prompt := fmt.Sprintf("Extract all user profile information as JSON from: %q. If nothing relevant, return an empty JSON object.", utterance)

	reply, err := d.client.Explain(ctx, prompt, d.store.SnapshotUserData())
	if err != nil {
		dispatchLog.Debug("画像提取调用失败: %v", err)
		return
	}

	fields := parseJSONObject(reply)
	if len(fields) == 0 {
		return
	}

	d.store.MergeUserData(fields)
	d.store.Append(NewMessage(models.RoleAssistant, textProfileUpdated))
	d.notify()
	dispatchLog.Info("画像合并 %d 个字段", len(fields))
}

// parseJSONObject 宽松解析 LLM 返回的 JSON 对象
// 兼容 Markdown 代码围栏；解析失败返回 nil
func parseJSONObject(reply string) map[string]any {
	text := strings.TrimSpace(reply)
	if start := strings.Index(text, "{"); start >= 0 {
		if end := strings.LastIndex(text, "}"); end > start {
			text = text[start : end+1]
		}
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(text), &fields); err != nil {
		return nil
	}
	return fields
}

// advisoryCall 建议/解释协作方调用签名
type advisoryCall func(ctx context.Context, message string, userData map[string]any) (string, error)

// runAdvisoryAction 执行建议/解释动作
// 先追加占位消息，调用完成后按关联 ID 原地替换为 Markdown 回复或致歉文案；
// 随后对回复文本做二次代码提取，命中则触发股票预测跟进
func (d *Dispatcher) runAdvisoryAction(ctx context.Context, utterance string, call advisoryCall) {
	placeholder := NewMessage(models.RoleAssistant, textAnalyzing)
	placeholder.Pending = true
	d.store.Append(placeholder)
	d.notify()

	reply, err := call(ctx, utterance, d.store.SnapshotUserData())
	if err != nil {
		dispatchLog.Warn("协作方调用失败: %v", err)
		d.store.ReplaceByID(placeholder.ID, NewMessage(models.RoleAssistant, textApology))
		d.notify()
		return
	}

	answer := NewMessage(models.RoleAssistant, "")
	answer.Widget = models.WidgetMarkdown
	answer.Markdown = &models.MarkdownPayload{Message: reply}
	d.store.ReplaceByID(placeholder.ID, answer)
	d.notify()

	// 二次实体提取作用于回复文本而非原话语：
	// 用户意图可能只在生成的建议里间接带出股票代码
	if symbol := d.extractReplySymbol(ctx, reply); symbol != "" {
		d.runStockFollowUp(ctx, symbol, intent.ExtractYears(reply))
	}
}

// extractReplySymbol 从回复文本中提取股票代码
// 协作方的结构化提取结果为准：成功返回空串表示判定无代码，本地结果随之作废；
// 仅在调用失败时回落本地词典/模式提取
func (d *Dispatcher) extractReplySymbol(ctx context.Context, reply string) string {
	local := intent.ExtractSymbol(reply)
	if !intent.IsValidSymbol(local) {
		local = ""
	}

	refined, err := d.client.ExtractStockSymbol(ctx, reply)
	if err != nil {
		dispatchLog.Debug("结构化代码提取失败，回落本地结果: %v", err)
		return local
	}
	return refined
}

// runStockFollowUp 股票预测跟进
// 固定视觉延迟后追加占位消息，替换为图表组件消息或错误文案
func (d *Dispatcher) runStockFollowUp(ctx context.Context, symbol string, years int) {
	if d.predictor == nil {
		return
	}

	if d.chartDelay > 0 {
		select {
		case <-ctx.Done():
			return
		case <-time.After(d.chartDelay):
		}
	}

	placeholder := NewMessage(models.RoleAssistant, fmt.Sprintf("📈 Fetching %d-year forecast for %s...", years, symbol))
	placeholder.Pending = true
	d.store.Append(placeholder)
	d.notify()

	prediction, err := d.predictor.Predict(ctx, symbol, years)
	if err != nil {
		dispatchLog.Warn("股票预测调用失败: %v", err)
		d.store.ReplaceByID(placeholder.ID, NewMessage(models.RoleAssistant, textApology))
		d.notify()
		return
	}

	// 服务端上报的业务错误（如无效代码）给出指名错误文案，不渲染图表
	if prediction.IsError() {
		detail := prediction.Message
		if detail == "" {
			detail = prediction.Error
		}
		text := fmt.Sprintf("⚠️ Could not generate a forecast for %s: %s", symbol, detail)
		d.store.ReplaceByID(placeholder.ID, NewMessage(models.RoleAssistant, text))
		d.notify()
		return
	}

	chart := NewMessage(models.RoleAssistant, "")
	chart.Widget = models.WidgetStockChart
	chart.StockChart = &models.StockChartPayload{
		StockSymbol:    symbol,
		Years:          years,
		PredictionData: prediction,
	}
	d.store.ReplaceByID(placeholder.ID, chart)
	d.notify()
}
