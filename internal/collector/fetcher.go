package collector

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"
)

const (
	fetchTimeout     = 30 * time.Second
	maxFeedBytes     = 5 << 20 // 5MB，防止异常 feed 撑爆内存
	fetcherUserAgent = "ai-news-agent/1.0 (+https://github.com/Chandan72/ai-news-agent)"
)

// FetchResult 单个源的抓取结果：Body 与 Err 互斥；
// 单源失败只影响自己，不中断整批
type FetchResult struct {
	Source Source
	Body   string
	Err    error
}

// FetchAll 并发抓取全部源的原始 feed 文档，全部源完成（成功或失败）后返回。
// 每个请求独立 30s 超时，最慢也不会超过单请求超时时间。
func FetchAll(ctx context.Context, sources []Source) []FetchResult {
	client := &http.Client{Timeout: fetchTimeout}

	results := make([]FetchResult, len(sources))
	var wg sync.WaitGroup
	for i, src := range sources {
		wg.Add(1)
		go func(i int, src Source) {
			defer wg.Done()
			body, err := fetchFeed(ctx, client, src.FeedURL)
			if err != nil {
				log.Printf("fetch %s error: %v", src.Key, err)
			}
			results[i] = FetchResult{Source: src, Body: body, Err: err}
		}(i, src)
	}
	wg.Wait()

	return results
}

func fetchFeed(ctx context.Context, client *http.Client, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("User-Agent", fetcherUserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("get feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		return "", fmt.Errorf("read feed body: %w", err)
	}
	return string(body), nil
}
