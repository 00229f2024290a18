package collector

import "time"

// Source 描述一个 RSS 订阅源，启动时固定，运行期间不变
type Source struct {
	Name    string // 展示名，例如 "Economic Times"
	Key     string // 入库用的短标识，例如 "economictimes"
	FeedURL string
}

// DefaultSources 默认的印度财经新闻源列表
func DefaultSources() []Source {
	return []Source{
		{
			Name:    "Economic Times",
			Key:     "economictimes",
			FeedURL: "https://economictimes.indiatimes.com/rssfeedsdefault.cms",
		},
		{
			Name:    "Business Standard",
			Key:     "businessstandard",
			FeedURL: "https://www.business-standard.com/rss/latest.rss",
		},
		{
			Name:    "Mint",
			Key:     "mint",
			FeedURL: "https://www.livemint.com/rss/news",
		},
	}
}

// Candidate 一条候选文章，在一轮采集内短暂存活；
// 被时间窗过滤掉或入库去重跳过后即丢弃
type Candidate struct {
	Title       string
	URL         string
	Summary     string // 已去除 HTML 标签，可能为空
	PublishedAt *time.Time
	Source      string // Source.Key
	Extra       map[string]any
}
