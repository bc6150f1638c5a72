package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/run-bigpig/pensionpal/internal/models"
)

// fakeAdvisor 可编程的顾问协作方
type fakeAdvisor struct {
	adviseReply  string
	adviseErr    error
	explainReply string
	explainErr   error
	symbolReply  string
	symbolErr    error

	adviseCalls  int
	explainCalls int
	symbolCalls  int
}

func (f *fakeAdvisor) Advise(ctx context.Context, message string, userData map[string]any) (string, error) {
	f.adviseCalls++
	return f.adviseReply, f.adviseErr
}

func (f *fakeAdvisor) Explain(ctx context.Context, message string, userData map[string]any) (string, error) {
	f.explainCalls++
	return f.explainReply, f.explainErr
}

func (f *fakeAdvisor) ExtractStockSymbol(ctx context.Context, text string) (string, error) {
	f.symbolCalls++
	return f.symbolReply, f.symbolErr
}

// fakePredictor 可编程的预测协作方
type fakePredictor struct {
	prediction *models.StockPrediction
	err        error

	calls      int
	lastSymbol string
	lastYears  int
}

func (f *fakePredictor) Predict(ctx context.Context, symbol string, years int) (*models.StockPrediction, error) {
	f.calls++
	f.lastSymbol = symbol
	f.lastYears = years
	return f.prediction, f.err
}

// newTestDispatcher 构造零延迟的测试分发器
func newTestDispatcher(client *fakeAdvisor, predictor *fakePredictor) (*Dispatcher, *Store) {
	store := NewStore(nil)
	var d *Dispatcher
	if predictor == nil {
		d = NewDispatcher(store, client, nil)
	} else {
		d = NewDispatcher(store, client, predictor)
	}
	d.SetChartDelay(0)
	return d, store
}

// TestHandleUtteranceHello 问候走纯静态回复，不触发任何远程调用
func TestHandleUtteranceHello(t *testing.T) {
	client := &fakeAdvisor{}
	d, store := newTestDispatcher(client, nil)

	d.HandleUtterance(context.Background(), "hello")

	if store.MessageCount() != 2 {
		t.Fatalf("消息数应为 2（用户+问候），实际 %d", store.MessageCount())
	}
	if client.adviseCalls != 0 || client.explainCalls != 0 || client.symbolCalls != 0 {
		t.Errorf("问候不应触发远程调用: advise=%d explain=%d symbol=%d",
			client.adviseCalls, client.explainCalls, client.symbolCalls)
	}

	last := store.Snapshot().Messages[1]
	if !strings.Contains(last.Text, "Hello") {
		t.Errorf("问候回复文案不符: %q", last.Text)
	}
}

// TestHandleUtteranceGoodbye 道别走纯静态回复
func TestHandleUtteranceGoodbye(t *testing.T) {
	client := &fakeAdvisor{}
	d, store := newTestDispatcher(client, nil)

	d.HandleUtterance(context.Background(), "goodbye")

	if store.MessageCount() != 2 {
		t.Fatalf("消息数应为 2，实际 %d", store.MessageCount())
	}
	if client.adviseCalls != 0 || client.explainCalls != 0 {
		t.Error("道别不应触发远程调用")
	}
}

// TestHandleUtteranceShortCircuit 短路短语不做任何动作
func TestHandleUtteranceShortCircuit(t *testing.T) {
	client := &fakeAdvisor{}
	d, store := newTestDispatcher(client, nil)

	for _, phrase := range []string{"profile", "show my data", "  Show My Profile  "} {
		d.HandleUtterance(context.Background(), phrase)
	}

	// 只追加用户消息本身
	if store.MessageCount() != 3 {
		t.Errorf("短路短语只应追加用户消息，实际消息数 %d", store.MessageCount())
	}
	if client.adviseCalls != 0 || client.explainCalls != 0 {
		t.Error("短路短语不应触发远程调用")
	}
}

// TestHandleUtteranceAdvisory 建议流水线：占位替换为 Markdown 回复
func TestHandleUtteranceAdvisory(t *testing.T) {
	client := &fakeAdvisor{
		adviseReply:  "Diversify your holdings across asset classes.",
		explainReply: "{}",
	}
	d, store := newTestDispatcher(client, nil)

	d.HandleUtterance(context.Background(), "what should I do with my money")

	if client.adviseCalls != 1 {
		t.Errorf("建议协作方应被调用 1 次，实际 %d", client.adviseCalls)
	}
	if store.PendingCount() != 0 {
		t.Errorf("处理完成后不应残留占位消息，实际 %d", store.PendingCount())
	}

	messages := store.Snapshot().Messages
	last := messages[len(messages)-1]
	if last.Widget != models.WidgetMarkdown || last.Markdown == nil {
		t.Fatalf("回复应为 Markdown 组件消息: %+v", last)
	}
	if last.Markdown.Message != client.adviseReply {
		t.Errorf("回复内容不符: %q", last.Markdown.Message)
	}
}

// TestHandleUtteranceExplain explain 意图走解释协作方
func TestHandleUtteranceExplain(t *testing.T) {
	client := &fakeAdvisor{
		explainReply: "The projection is based on historical volatility.",
	}
	d, _ := newTestDispatcher(client, nil)

	d.HandleUtterance(context.Background(), "explain the last result")

	// 画像提取 + 解释动作各一次
	if client.explainCalls != 2 {
		t.Errorf("解释协作方应被调用 2 次（提取+解释），实际 %d", client.explainCalls)
	}
	if client.adviseCalls != 0 {
		t.Errorf("explain 意图不应调用建议协作方，实际 %d", client.adviseCalls)
	}
}

// TestHandleUtteranceProfileExtraction 画像字段提取并合并
func TestHandleUtteranceProfileExtraction(t *testing.T) {
	client := &fakeAdvisor{
		adviseReply:  "Noted.",
		explainReply: "```json\n{\"age\": 34, \"risk_tolerance\": \"high\"}\n```",
	}
	d, store := newTestDispatcher(client, nil)

	d.HandleUtterance(context.Background(), "I am 34 and comfortable with big swings")

	data := store.SnapshotUserData()
	if data["age"] != float64(34) {
		t.Errorf("age 应合并为 34，实际 %v", data["age"])
	}
	if data["risk_tolerance"] != "high" {
		t.Errorf("risk_tolerance 应合并为 high，实际 %v", data["risk_tolerance"])
	}

	// 应出现画像更新确认消息
	found := false
	for _, m := range store.Snapshot().Messages {
		if strings.Contains(m.Text, "User info updated") {
			found = true
			break
		}
	}
	if !found {
		t.Error("画像合并后应追加确认消息")
	}
}

// TestHandleUtteranceAdvisorDown 协作方失败时占位替换为致歉文案
func TestHandleUtteranceAdvisorDown(t *testing.T) {
	client := &fakeAdvisor{
		adviseErr:  errors.New("connection refused"),
		explainErr: errors.New("connection refused"),
	}
	d, store := newTestDispatcher(client, nil)

	d.HandleUtterance(context.Background(), "any investment tips")

	if store.PendingCount() != 0 {
		t.Errorf("失败后不应残留占位消息，实际 %d", store.PendingCount())
	}

	messages := store.Snapshot().Messages
	last := messages[len(messages)-1]
	if !strings.Contains(last.Text, "trouble connecting") {
		t.Errorf("失败应替换为致歉文案，实际 %q", last.Text)
	}
}

// TestStockFollowUp 回复命中股票代码时触发预测跟进并渲染图表
func TestStockFollowUp(t *testing.T) {
	client := &fakeAdvisor{
		adviseReply:  "AAPL looks resilient over the next 3 years.",
		explainReply: "{}",
		symbolReply:  "AAPL",
	}
	predictor := &fakePredictor{
		prediction: &models.StockPrediction{
			FutureDates:       []string{"2027-01-01"},
			FuturePredictions: []float64{215.4},
		},
	}
	d, store := newTestDispatcher(client, predictor)

	d.HandleUtterance(context.Background(), "should I invest in apple")

	if predictor.calls != 1 {
		t.Fatalf("预测协作方应被调用 1 次，实际 %d", predictor.calls)
	}
	if predictor.lastSymbol != "AAPL" {
		t.Errorf("预测代码应为 AAPL，实际 %s", predictor.lastSymbol)
	}
	if predictor.lastYears != 3 {
		t.Errorf("预测年限应从回复文本提取为 3，实际 %d", predictor.lastYears)
	}

	messages := store.Snapshot().Messages
	last := messages[len(messages)-1]
	if last.Widget != models.WidgetStockChart || last.StockChart == nil {
		t.Fatalf("跟进结果应为图表组件消息: %+v", last)
	}
	if last.StockChart.StockSymbol != "AAPL" || last.StockChart.Years != 3 {
		t.Errorf("图表载荷不符: %+v", last.StockChart)
	}
	if store.PendingCount() != 0 {
		t.Errorf("跟进完成后不应残留占位消息，实际 %d", store.PendingCount())
	}
}

// TestStockFollowUpBusinessError 服务端业务错误给出指名错误文案，不渲染图表
func TestStockFollowUpBusinessError(t *testing.T) {
	client := &fakeAdvisor{
		adviseReply:  "Have a look at TSLA.",
		explainReply: "{}",
		symbolReply:  "TSLA",
	}
	predictor := &fakePredictor{
		prediction: &models.StockPrediction{
			Error:   "invalid_symbol",
			Message: "No data available for this symbol",
		},
	}
	d, store := newTestDispatcher(client, predictor)

	d.HandleUtterance(context.Background(), "any stocks to watch")

	// 回复未带年限，应回落缺省值
	if predictor.lastYears != 2 {
		t.Errorf("预测年限应回落缺省值 2，实际 %d", predictor.lastYears)
	}

	messages := store.Snapshot().Messages
	last := messages[len(messages)-1]
	if last.Widget == models.WidgetStockChart {
		t.Error("业务错误不应渲染图表")
	}
	if !strings.Contains(last.Text, "TSLA") {
		t.Errorf("错误文案应指名代码，实际 %q", last.Text)
	}
	if !strings.Contains(last.Text, "No data available") {
		t.Errorf("错误文案应携带服务端说明，实际 %q", last.Text)
	}
}

// TestExtractReplySymbolFallback 协作方提取失败时回落本地结果
func TestExtractReplySymbolFallback(t *testing.T) {
	client := &fakeAdvisor{
		symbolErr: errors.New("llm3 unavailable"),
	}
	d, _ := newTestDispatcher(client, nil)

	got := d.extractReplySymbol(context.Background(), "consider NVDA for growth")
	if got != "NVDA" {
		t.Errorf("协作方失败应回落本地提取结果 NVDA，实际 %q", got)
	}
}

// TestExtractReplySymbolRefinedWins 协作方的结构化提取结果优先
func TestExtractReplySymbolRefinedWins(t *testing.T) {
	client := &fakeAdvisor{
		symbolReply: "MSFT",
	}
	d, _ := newTestDispatcher(client, nil)

	got := d.extractReplySymbol(context.Background(), "consider NVDA for growth")
	if got != "MSFT" {
		t.Errorf("协作方结果应优先，实际 %q", got)
	}
}

// TestExtractReplySymbolNoneVerdict 协作方成功判定无代码时本地误报作废
func TestExtractReplySymbolNoneVerdict(t *testing.T) {
	client := &fakeAdvisor{
		symbolReply: "",
	}
	d, _ := newTestDispatcher(client, nil)

	// 裸大写模式会误报 AUD，协作方的空判定应让其作废
	got := d.extractReplySymbol(context.Background(), "Keep some AUD cash on hand.")
	if got != "" {
		t.Errorf("协作方判定无代码时应返回空串，实际 %q", got)
	}
}

// TestNoFollowUpOnNoneVerdict 协作方判定无代码时不触发预测跟进
func TestNoFollowUpOnNoneVerdict(t *testing.T) {
	client := &fakeAdvisor{
		adviseReply:  "Diversify into AUD cash and broad ASX index funds.",
		explainReply: "{}",
		symbolReply:  "",
	}
	predictor := &fakePredictor{
		prediction: &models.StockPrediction{},
	}
	d, store := newTestDispatcher(client, predictor)

	d.HandleUtterance(context.Background(), "how should I allocate my money")

	if predictor.calls != 0 {
		t.Errorf("预测协作方不应被调用，实际 %d 次 (symbol=%q)", predictor.calls, predictor.lastSymbol)
	}
	for _, m := range store.Snapshot().Messages {
		if m.Widget == models.WidgetStockChart {
			t.Error("不应出现图表消息")
		}
	}
}

// TestParseJSONObject 宽松 JSON 解析
func TestParseJSONObject(t *testing.T) {
	cases := []struct {
		name  string
		reply string
		keys  int
	}{
		{"纯对象", `{"age": 30}`, 1},
		{"代码围栏", "```json\n{\"age\": 30, \"country\": \"AU\"}\n```", 2},
		{"空对象", "{}", 0},
		{"非JSON", "I could not find anything.", 0},
		{"前后杂文", "Sure! Here it is: {\"age\": 30} Hope that helps.", 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fields := parseJSONObject(tc.reply)
			if len(fields) != tc.keys {
				t.Errorf("parseJSONObject(%q) 字段数 %d，期望 %d", tc.reply, len(fields), tc.keys)
			}
		})
	}
}
