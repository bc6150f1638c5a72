package intent

import (
	"testing"
)

// TestExtractSymbol 测试股票代码提取
func TestExtractSymbol(t *testing.T) {
	cases := []struct {
		name string
		text string
		want string
	}{
		{"公司名命中", "I want to buy tesla shares", "TSLA"},
		{"公司名大小写不敏感", "What about Apple?", "AAPL"},
		{"公司名别名", "is facebook a good buy", "META"},
		{"美元前缀代码", "thoughts on $NVDA please", "NVDA"},
		{"裸大写代码", "forecast for MSFT next year", "MSFT"},
		{"无命中", "tell me about my pension", ""},
		{"空文本", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ExtractSymbol(tc.text)
			if got != tc.want {
				t.Errorf("ExtractSymbol(%q) = %q, 期望 %q", tc.text, got, tc.want)
			}
		})
	}
}

// TestExtractSymbolCompanyFirst 公司名字典优先于模式匹配
func TestExtractSymbolCompanyFirst(t *testing.T) {
	// 文本同时含公司名和裸代码时，公司名字典先生效
	got := ExtractSymbol("compare NFLX with google")
	if got != "GOOGL" {
		t.Errorf("公司名字典应优先于裸代码，实际 %q", got)
	}
}

// TestExtractYears 测试预测年限提取
func TestExtractYears(t *testing.T) {
	cases := []struct {
		name string
		text string
		want int
	}{
		{"years 形式", "predict apple for 5 years", 5},
		{"单数 year", "over 1 year please", 1},
		{"yr 缩写", "3 yr horizon", 3},
		{"next 形式", "next 4", 4},
		{"越界回落", "predict for 15 years", DefaultYears},
		{"零越界回落", "0 years", DefaultYears},
		{"无命中回落", "just a forecast", DefaultYears},
		{"空文本回落", "", DefaultYears},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ExtractYears(tc.text)
			if got != tc.want {
				t.Errorf("ExtractYears(%q) = %d, 期望 %d", tc.text, got, tc.want)
			}
		})
	}
}

// TestIsValidSymbol 测试代码校验
func TestIsValidSymbol(t *testing.T) {
	valid := []string{"AAPL", "MSFT", "GOOGL", "FB"}
	for _, s := range valid {
		if !IsValidSymbol(s) {
			t.Errorf("%q 应为有效代码", s)
		}
	}

	invalid := []string{"", "A", "TOOLONG", "aapl", "AA1L", "NONE", "NULL", "THE"}
	for _, s := range invalid {
		if IsValidSymbol(s) {
			t.Errorf("%q 应为无效代码", s)
		}
	}
}

// TestNormalizeSymbol 测试 LLM 提取结果的规整
func TestNormalizeSymbol(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"AAPL", "AAPL"},
		{" $tsla ", "TSLA"},
		{"$MSFT", "MSFT"},
		{"none", ""},
		{"NONE", ""},
		{"", ""},
		{"not a symbol", ""},
	}

	for _, tc := range cases {
		if got := NormalizeSymbol(tc.raw); got != tc.want {
			t.Errorf("NormalizeSymbol(%q) = %q, 期望 %q", tc.raw, got, tc.want)
		}
	}
}

// TestCompanyTickersLoaded 内嵌公司名数据应成功加载且顺序固定
func TestCompanyTickersLoaded(t *testing.T) {
	if len(companyTickers) == 0 {
		t.Fatal("内嵌公司名数据为空")
	}
	if companyTickers[0].Name != "apple" || companyTickers[0].Symbol != "AAPL" {
		t.Errorf("首个映射应为 apple->AAPL，实际 %s->%s", companyTickers[0].Name, companyTickers[0].Symbol)
	}
	t.Logf("加载了 %d 条公司名映射", len(companyTickers))
}
