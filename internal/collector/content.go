package collector

import (
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
)

const (
	contentMaxArticles = 20   // 每轮最多回源抓取的文章数，避免拖慢整轮
	contentMaxRunes    = 2000 // 正文快照截断长度
	contentTimeout     = 10 * time.Second
)

// EnrichContent 访问文章原文页面，提取正文文本快照写入 Extra["content"]。
// 尽力而为：单篇失败只跳过该篇；页面结构千差万别，这里只取正文段落拼接。
func EnrichContent(cands []Candidate) {
	n := len(cands)
	if n > contentMaxArticles {
		n = contentMaxArticles
	}
	for i := 0; i < n; i++ {
		c := &cands[i]
		text, err := fetchArticleText(c.URL)
		if err != nil {
			log.Printf("content: fetch %s error: %v", c.URL, err)
			continue
		}
		if text == "" {
			continue
		}
		if c.Extra == nil {
			c.Extra = map[string]any{}
		}
		c.Extra["content"] = truncateRunes(text, contentMaxRunes)
	}
}

func fetchArticleText(pageURL string) (string, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return "", err
	}

	c := colly.NewCollector(
		colly.AllowedDomains(u.Host),
		colly.UserAgent(fetcherUserAgent),
	)
	c.SetRequestTimeout(contentTimeout)

	var sb strings.Builder
	c.OnHTML("article, div[class*='article'], div[class*='story'], body", func(e *colly.HTMLElement) {
		if sb.Len() > 0 {
			return
		}
		e.DOM.Find("p").Each(func(_ int, s *goquery.Selection) {
			t := strings.TrimSpace(s.Text())
			// 太短的段落多半是导航/版权文案，跳过
			if len(t) < 40 {
				return
			}
			if sb.Len() > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(t)
		})
	})

	if err := c.Visit(pageURL); err != nil {
		return "", err
	}
	return collapseSpaces(sb.String()), nil
}

func truncateRunes(s string, limit int) string {
	rs := []rune(s)
	if len(rs) <= limit {
		return s
	}
	return string(rs[:limit]) + "…"
}
