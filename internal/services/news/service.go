package news

import (
	"sync"
	"time"

	"github.com/run-bigpig/pensionpal/internal/pkg/paths"
)

// Service 财经头条聚合服务
type Service struct {
	fetchers map[string]Fetcher
	cache    *FileCache
}

// NewService 创建头条聚合服务
func NewService() (*Service, error) {
	cacheDir := paths.EnsureCacheDir("news")

	// 创建文件缓存，TTL 5分钟
	cache, err := NewFileCache(cacheDir, 5*time.Minute)
	if err != nil {
		return nil, err
	}

	// 注册所有 fetcher
	fetchers := map[string]Fetcher{
		"yahoo": NewYahooFetcher(),
		"sina":  NewSinaFetcher(),
	}

	return &Service{
		fetchers: fetchers,
		cache:    cache,
	}, nil
}

// GetSources 获取支持的来源列表
func (s *Service) GetSources() []SourceInfo {
	return SupportedSources
}

// GetHeadlines 获取单个来源的头条数据
func (s *Service) GetHeadlines(source string) HeadlineResult {
	fetcher, ok := s.fetchers[source]
	if !ok {
		return HeadlineResult{
			Source: source,
			Error:  "不支持的来源",
		}
	}

	// 先检查缓存
	if items, ok := s.cache.Get(source); ok {
		return HeadlineResult{
			Source:    source,
			SourceCN:  fetcher.SourceCN(),
			Items:     items,
			UpdatedAt: time.Now(),
			FromCache: true,
		}
	}

	// 从网络获取
	items, err := fetcher.Fetch()
	if err != nil {
		return HeadlineResult{
			Source:   source,
			SourceCN: fetcher.SourceCN(),
			Error:    err.Error(),
		}
	}

	// 写入缓存
	_ = s.cache.Set(source, items)

	return HeadlineResult{
		Source:    source,
		SourceCN:  fetcher.SourceCN(),
		Items:     items,
		UpdatedAt: time.Now(),
		FromCache: false,
	}
}

// GetAllHeadlines 并发获取所有来源的头条数据
func (s *Service) GetAllHeadlines() []HeadlineResult {
	sources := make([]string, 0, len(s.fetchers))
	for src := range s.fetchers {
		sources = append(sources, src)
	}

	var wg sync.WaitGroup
	results := make([]HeadlineResult, len(sources))

	for i, source := range sources {
		wg.Add(1)
		go func(idx int, src string) {
			defer wg.Done()
			results[idx] = s.GetHeadlines(src)
		}(i, source)
	}

	wg.Wait()
	return results
}
