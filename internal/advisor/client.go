// Package advisor 封装建议/解释/股票代码提取三类远程协作方调用。
// 所有实现只做请求编排，不承载任何领域计算。
package advisor

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// 错误定义
var (
	ErrEmptyReply          = errors.New("协作方返回了空回复")
	ErrUnsupportedProvider = errors.New("不支持的 AI 服务提供商")
)

// Client 顾问协作方客户端接口
type Client interface {
	// Advise 建议查询：携带用户画像请求理财建议
	Advise(ctx context.Context, message string, userData map[string]any) (string, error)
	// Explain 解释查询：概念讲解，也被复用于结构化字段提取（提示词工程）
	Explain(ctx context.Context, message string, userData map[string]any) (string, error)
	// ExtractStockSymbol 从文本中提取股票代码，无代码时返回空串
	ExtractStockSymbol(ctx context.Context, text string) (string, error)
}

// formatUserData 将用户画像格式化为 "k: v" 行，键按字典序保证稳定输出
func formatUserData(userData map[string]any) string {
	if len(userData) == 0 {
		return "(not provided)"
	}
	keys := make([]string, 0, len(userData))
	for k := range userData {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s: %v\n", k, userData[k])
	}
	return strings.TrimRight(b.String(), "\n")
}
