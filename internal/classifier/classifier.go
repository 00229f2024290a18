package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/Chandan72/ai-news-agent/internal/industry"
)

// Result 一次分类的结果，Industry 必然属于闭集 ∪ {Uncategorized}，
// Confidence 必然落在 [0,1]
type Result struct {
	Industry   string
	Confidence float64
}

// Provider 抽象大模型补全客户端，便于替换厂商与 Mock
type Provider interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

const (
	defaultConfidence  = 0.5
	fallbackConfidence = 0.3
)

// Adapter 把外部分类服务包装成永不失败的分类器：
// 调用失败、输出解析失败、provider 未配置时一律走本地关键词兜底
type Adapter struct {
	provider Provider
}

// NewAdapter 创建分类适配器；provider 传 nil 表示未配置外部服务，只用兜底
func NewAdapter(provider Provider) *Adapter {
	return &Adapter{provider: provider}
}

// Classify 对一篇文章做行业分类，只会返回合法的 (industry, confidence)，不会报错
func (a *Adapter) Classify(ctx context.Context, title, summary string) Result {
	if a.provider == nil {
		return classifyByKeywords(title, summary)
	}

	raw, err := a.provider.Complete(ctx, systemPrompt, buildUserPrompt(title, summary))
	if err != nil {
		log.Printf("classify: provider error, fallback to keywords: %v", err)
		return classifyByKeywords(title, summary)
	}

	res, err := parseResponse(raw)
	if err != nil {
		log.Printf("classify: parse response error, fallback to keywords: %v", err)
		return classifyByKeywords(title, summary)
	}
	return res
}

const systemPrompt = "You are an expert industry analyst. Classify Indian business news articles into exactly one industry from the provided list. " +
	"Return strict JSON with keys 'industry' and 'confidence' (0.0-1.0). If uncertain, pick the closest and lower confidence."

func buildUserPrompt(title, summary string) string {
	var sb strings.Builder
	sb.WriteString("Classify the following article into ONE of these industries:\n")
	for _, name := range industry.All() {
		sb.WriteString("- ")
		sb.WriteString(name)
		sb.WriteByte('\n')
	}
	sb.WriteString("\nArticle Title: ")
	sb.WriteString(title)
	sb.WriteString("\nSummary: ")
	if summary == "" {
		sb.WriteString("N/A")
	} else {
		sb.WriteString(summary)
	}
	sb.WriteString("\n\nRespond with JSON: {\"industry\": <string>, \"confidence\": <0..1 float>}")
	return sb.String()
}

// parseResponse 从模型输出里取最外层花括号之间的 JSON 对象并规范化。
// 行业名大小写不敏感地对齐闭集，对不上归 Uncategorized；
// confidence 缺失或不可解析时取 0.5，并截断到 [0,1]。
func parseResponse(raw string) (Result, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end <= start {
		return Result{}, fmt.Errorf("no JSON object in response: %q", raw)
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(raw[start:end+1]), &payload); err != nil {
		return Result{}, fmt.Errorf("unmarshal response: %w", err)
	}

	name, _ := payload["industry"].(string)

	confidence := defaultConfidence
	switch v := payload["confidence"].(type) {
	case float64:
		confidence = v
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			confidence = f
		}
	}
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}

	return Result{
		Industry:   industry.Normalize(name),
		Confidence: confidence,
	}, nil
}
