package intent

import (
	"encoding/json"

	appembed "github.com/run-bigpig/pensionpal/internal/embed"
)

// Intent 用户话语的意图分类
type Intent string

const (
	IntentRisk    Intent = "risk"
	IntentPredict Intent = "predict"
	IntentInvest  Intent = "invest"
	IntentExplain Intent = "explain"
	IntentHelp    Intent = "help"
	IntentHello   Intent = "hello"
	IntentGoodbye Intent = "goodbye"
	IntentGeneral Intent = "general"
)

// intentCategory 意图类别及其关键词列表
type intentCategory struct {
	intent   Intent
	keywords []string
}

// intentCategories 关键词字典
// 切片顺序即匹配优先级，多个类别命中时取最先者，不按匹配质量排序
var intentCategories = []intentCategory{
	{IntentRisk, []string{"risk", "risky", "danger", "threat", "unsafe", "hazard", "peril"}},
	{IntentPredict, []string{"predict", "prediction", "forecast", "estimate", "anticipate", "foresee"}},
	{IntentInvest, []string{"invest", "investment", "investing", "money", "finance", "portfolio", "stocks"}},
	{IntentExplain, []string{"explain", "explanation", "why", "how", "clarify", "describe", "elaborate"}},
	{IntentHelp, []string{"help", "assist", "support", "guide", "aid", "advice"}},
	{IntentHello, []string{"hello", "hi", "hey", "greetings", "hola", "bonjour", "good morning", "good evening", "good afternoon"}},
	{IntentGoodbye, []string{"bye", "goodbye", "farewell", "see you", "toodles", "exit", "good night", "later"}},
}

// companyTicker 公司名到股票代码的映射项
type companyTicker struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// companyTickers 公司名字典，从嵌入数据加载
// 迭代顺序固定且有意义：首个命中的映射生效
var companyTickers = loadCompanyTickers()

// loadCompanyTickers 解析嵌入的公司名数据
func loadCompanyTickers() []companyTicker {
	var tickers []companyTicker
	if err := json.Unmarshal(appembed.CompanyTickersJSON, &tickers); err != nil {
		panic("内嵌公司名数据解析失败: " + err.Error())
	}
	return tickers
}

// invalidSymbols 股票代码黑名单（LLM 提取结果常见的伪代码）
var invalidSymbols = map[string]bool{
	"NONE": true, "NIL": true, "NULL": true, "EMPTY": true,
	"NO": true, "YES": true, "THE": true, "AND": true, "OR": true,
}
