package curator

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	"github.com/Chandan72/ai-news-agent/internal/classifier"
	"github.com/Chandan72/ai-news-agent/internal/collector"
	"github.com/Chandan72/ai-news-agent/internal/storage"
	"gorm.io/datatypes"
)

// ArticleStore 策展流程对存储层的最小依赖
type ArticleStore interface {
	InsertArticles(items []storage.Article) int
	SetMeta(key, value string) error
}

// Classifier 策展流程对分类器的最小依赖；实现要求永不失败
type Classifier interface {
	Classify(ctx context.Context, title, summary string) classifier.Result
}

// Result 一轮策展的汇总：Fetched 为过滤后进入分类的候选数，
// Inserted 为实际新入库条数；Skipped 表示本次触发因已有任务在跑而被拒绝
type Result struct {
	Fetched  int  `json:"fetched"`
	Inserted int  `json:"inserted"`
	Skipped  bool `json:"skipped"`
}

// Curator 串起 抓取 → 解析 → 时间窗过滤 → 分类 → 去重入库 → 记录水位 的单轮流程。
// running 是唯一的重入护栏：同一时刻只允许一轮在跑，并发触发直接返回 Skipped
type Curator struct {
	store        ArticleStore
	classifier   Classifier
	sources      []collector.Source
	windowHours  int
	fetchContent bool

	running atomic.Bool
}

func New(store ArticleStore, cls Classifier, sources []collector.Source, windowHours int, fetchContent bool) *Curator {
	if windowHours <= 0 {
		windowHours = 24
	}
	return &Curator{
		store:        store,
		classifier:   cls,
		sources:      sources,
		windowHours:  windowHours,
		fetchContent: fetchContent,
	}
}

// Run 执行一轮策展。内部各步骤的失败都在各自层面吸收降级，
// 这里只会返回缩水的结果（例如 fetched=0），不会向外抛错
func (c *Curator) Run(ctx context.Context) Result {
	if !c.running.CompareAndSwap(false, true) {
		log.Println("curation already in progress, skip this trigger")
		return Result{Skipped: true}
	}
	defer c.running.Store(false)

	start := time.Now().UTC()
	log.Println("curation: start...")

	// 抓取 + 解析 + 时间窗过滤；now 在本轮开始取一次，整轮共用
	results := collector.FetchAll(ctx, c.sources)
	var candidates []collector.Candidate
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		parsed := collector.ParseFeed(r.Body, r.Source)
		recent := collector.FilterRecent(parsed, start, c.windowHours)
		log.Printf("curation: %s parsed=%d recent=%d", r.Source.Key, len(parsed), len(recent))
		candidates = append(candidates, recent...)
	}

	// 同一轮内按 URL 先去一次重，减少无谓的分类调用；跨轮去重靠存储层唯一键
	candidates = dedupeByURL(candidates)

	if c.fetchContent {
		collector.EnrichContent(candidates)
	}

	// 逐篇分类并组装入库记录；分类器约定永不失败
	batch := make([]storage.Article, 0, len(candidates))
	for _, cand := range candidates {
		res := c.classifier.Classify(ctx, cand.Title, cand.Summary)
		ind := res.Industry
		conf := res.Confidence
		batch = append(batch, storage.Article{
			Title:       cand.Title,
			URL:         cand.URL,
			Summary:     cand.Summary,
			PublishedAt: cand.PublishedAt,
			Source:      cand.Source,
			Industry:    &ind,
			Confidence:  &conf,
			Extra:       datatypes.JSONMap(cand.Extra),
		})
	}

	inserted := c.store.InsertArticles(batch)

	if err := c.store.SetMeta(storage.MetaLastUpdated, start.Format(time.RFC3339)); err != nil {
		log.Printf("curation: record watermark error: %v", err)
	}

	log.Printf("curation: done in %s, fetched=%d inserted=%d",
		time.Since(start).Round(time.Millisecond), len(candidates), inserted)
	return Result{Fetched: len(candidates), Inserted: inserted}
}

func dedupeByURL(cands []collector.Candidate) []collector.Candidate {
	seen := make(map[string]struct{}, len(cands))
	out := make([]collector.Candidate, 0, len(cands))
	for _, c := range cands {
		if _, ok := seen[c.URL]; ok {
			continue
		}
		seen[c.URL] = struct{}{}
		out = append(out, c)
	}
	return out
}
