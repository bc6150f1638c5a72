package intent

import (
	"regexp"
	"strconv"
	"strings"
)

// DefaultYears 预测年限缺省值
const DefaultYears = 2

// 年限下上界，超出范围回落到缺省值
const (
	minYears = 1
	maxYears = 10
)

var (
	dollarSymbolPattern = regexp.MustCompile(`\$([A-Z]{2,5})\b`)
	bareSymbolPattern   = regexp.MustCompile(`\b([A-Z]{2,5})\b`)

	// yearPatterns 年限提取模式，按序尝试，首个命中者生效
	yearPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(\d+)\s*years?`),
		regexp.MustCompile(`(?i)(\d+)\s*yr`),
		regexp.MustCompile(`(?i)next\s*(\d+)`),
		regexp.MustCompile(`(?i)for\s*(\d+)`),
	}
)

// ExtractSymbol 从文本中提取股票代码
// 提取顺序：公司名字典（大小写不敏感子串，字典序固定）→ $前缀代码 → 裸大写串
// 无命中返回空串。歧义（如与英文单词撞形的代码）是已接受的误报风险
func ExtractSymbol(text string) string {
	lower := strings.ToLower(text)
	for _, ct := range companyTickers {
		if strings.Contains(lower, ct.Name) {
			return ct.Symbol
		}
	}

	if m := dollarSymbolPattern.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	if m := bareSymbolPattern.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

// ExtractYears 从文本中提取预测年限
// 首个命中的模式生效；数值越界或无命中时返回 DefaultYears
func ExtractYears(text string) int {
	for _, pattern := range yearPatterns {
		m := pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		years, err := strconv.Atoi(m[1])
		if err != nil || years < minYears || years > maxYears {
			return DefaultYears
		}
		return years
	}
	return DefaultYears
}

// IsValidSymbol 校验股票代码候选：2-5 个大写字母且不在黑名单中
func IsValidSymbol(symbol string) bool {
	if len(symbol) < 2 || len(symbol) > 5 {
		return false
	}
	for _, r := range symbol {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return !invalidSymbols[symbol]
}

// NormalizeSymbol 规整 LLM 提取的代码：去 $ 前缀、去空白、转大写
// 校验失败返回空串
func NormalizeSymbol(raw string) string {
	symbol := strings.ToUpper(strings.TrimSpace(raw))
	symbol = strings.TrimPrefix(symbol, "$")
	if symbol == "" || !IsValidSymbol(symbol) {
		return ""
	}
	return symbol
}
