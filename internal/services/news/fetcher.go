package news

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"
)

const fetchUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// maxHeadlines 单来源保留的最大条数
const maxHeadlines = 20

// httpGet 发起带 UA 的 GET 请求
func httpGet(url string) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", fetchUserAgent)

	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("请求失败，状态码 %d", resp.StatusCode)
	}
	return resp, nil
}

// YahooFetcher 雅虎财经头条
type YahooFetcher struct{}

// NewYahooFetcher 创建雅虎财经 fetcher
func NewYahooFetcher() *YahooFetcher {
	return &YahooFetcher{}
}

func (f *YahooFetcher) Source() string   { return "yahoo" }
func (f *YahooFetcher) SourceCN() string { return "雅虎财经" }

// Fetch 抓取雅虎财经首页头条
func (f *YahooFetcher) Fetch() ([]Headline, error) {
	resp, err := httpGet("https://finance.yahoo.com/news/")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, err
	}
	return ParseYahooDocument(doc), nil
}

// ParseYahooDocument 从雅虎财经新闻页文档中提取头条
func ParseYahooDocument(doc *goquery.Document) []Headline {
	items := make([]Headline, 0, maxHeadlines)
	doc.Find("h3 a").Each(func(i int, sel *goquery.Selection) {
		if len(items) >= maxHeadlines {
			return
		}
		title := strings.TrimSpace(sel.Text())
		href, _ := sel.Attr("href")
		if title == "" || href == "" {
			return
		}
		if strings.HasPrefix(href, "/") {
			href = "https://finance.yahoo.com" + href
		}
		items = append(items, Headline{
			ID:     fmt.Sprintf("yahoo-%d", len(items)+1),
			Title:  title,
			URL:    href,
			Rank:   len(items) + 1,
			Source: "yahoo",
		})
	})
	return items
}

// SinaFetcher 新浪财经头条
// 页面为 GBK 编码，需要先转码再解析
type SinaFetcher struct{}

// NewSinaFetcher 创建新浪财经 fetcher
func NewSinaFetcher() *SinaFetcher {
	return &SinaFetcher{}
}

func (f *SinaFetcher) Source() string   { return "sina" }
func (f *SinaFetcher) SourceCN() string { return "新浪财经" }

// Fetch 抓取新浪财经要闻
func (f *SinaFetcher) Fetch() ([]Headline, error) {
	resp, err := httpGet("https://finance.sina.com.cn/stock/")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(DecodeGBK(resp.Body))
	if err != nil {
		return nil, err
	}
	return ParseSinaDocument(doc), nil
}

// DecodeGBK 将 GBK 字节流转为 UTF-8
func DecodeGBK(r io.Reader) io.Reader {
	return transform.NewReader(r, simplifiedchinese.GBK.NewDecoder())
}

// ParseSinaDocument 从新浪财经页面文档中提取头条
func ParseSinaDocument(doc *goquery.Document) []Headline {
	items := make([]Headline, 0, maxHeadlines)
	seen := make(map[string]bool)
	doc.Find(".news-list a, .m-hdline a, h2 a, h3 a").Each(func(i int, sel *goquery.Selection) {
		if len(items) >= maxHeadlines {
			return
		}
		title := strings.TrimSpace(sel.Text())
		href, _ := sel.Attr("href")
		if title == "" || href == "" || !strings.HasPrefix(href, "http") {
			return
		}
		if seen[href] {
			return
		}
		seen[href] = true
		items = append(items, Headline{
			ID:     fmt.Sprintf("sina-%d", len(items)+1),
			Title:  title,
			URL:    href,
			Rank:   len(items) + 1,
			Source: "sina",
		})
	})
	return items
}
