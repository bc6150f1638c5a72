// Package news 聚合财经头条，供仪表盘侧栏展示。
package news

import "time"

// Headline 头条条目
type Headline struct {
	ID     string `json:"id"`     // 唯一标识
	Title  string `json:"title"`  // 标题
	URL    string `json:"url"`    // 链接
	Rank   int    `json:"rank"`   // 排名
	Source string `json:"source"` // 来源标识
}

// HeadlineResult 头条获取结果
type HeadlineResult struct {
	Source    string     `json:"source"`     // 来源标识
	SourceCN  string     `json:"source_cn"`  // 来源中文名
	Items     []Headline `json:"items"`      // 头条列表
	UpdatedAt time.Time  `json:"updated_at"` // 更新时间
	FromCache bool       `json:"from_cache"` // 是否来自缓存
	Error     string     `json:"error"`      // 错误信息
}

// SourceInfo 来源信息
type SourceInfo struct {
	ID      string // 来源标识
	Name    string // 来源中文名
	HomeURL string // 来源首页
}

// 支持的来源列表
var SupportedSources = []SourceInfo{
	{ID: "yahoo", Name: "雅虎财经", HomeURL: "https://finance.yahoo.com"},
	{ID: "sina", Name: "新浪财经", HomeURL: "https://finance.sina.com.cn"},
}

// Fetcher 头条数据获取接口
type Fetcher interface {
	// Fetch 获取头条数据
	Fetch() ([]Headline, error)
	// Source 返回来源标识
	Source() string
	// SourceCN 返回来源中文名
	SourceCN() string
}
