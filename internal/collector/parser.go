package collector

import (
	"log"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
)

// ParseFeed 把一份原始 feed 文档解析成候选文章列表。
// 解析失败（空文档、非 feed 内容）只记日志并返回空列表，绝不向上抛错中断整轮；
// 单条 item 缺少可解析的发布时间时 PublishedAt 置 nil，交给时间窗过滤处理。
func ParseFeed(body string, src Source) []Candidate {
	if strings.TrimSpace(body) == "" {
		return nil
	}

	fp := gofeed.NewParser()
	feed, err := fp.ParseString(body)
	if err != nil {
		log.Printf("parse %s error: %v", src.Key, err)
		return nil
	}

	out := make([]Candidate, 0, len(feed.Items))
	for _, item := range feed.Items {
		title := strings.TrimSpace(item.Title)
		link := strings.TrimSpace(item.Link)
		if title == "" || link == "" {
			continue
		}

		extra := map[string]any{
			"feed_title": feed.Title,
		}
		if item.GUID != "" {
			extra["guid"] = item.GUID
		}
		if len(item.Categories) > 0 {
			extra["categories"] = item.Categories
		}

		out = append(out, Candidate{
			Title:       title,
			URL:         link,
			Summary:     StripHTML(item.Description),
			PublishedAt: item.PublishedParsed,
			Source:      src.Key,
			Extra:       extra,
		})
	}
	return out
}

// StripHTML 去掉 description 里的 HTML 标签，只留可读文本；
// 解析失败时退化为原样去空白，保证不丢数据
func StripHTML(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	return collapseSpaces(doc.Text())
}

// collapseSpaces 把连续空白（含换行）压成单个空格
func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
