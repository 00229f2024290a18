package classifier

import (
	"strings"

	"github.com/Chandan72/ai-news-agent/internal/industry"
)

// keywordGroup 一组关键词对应一个行业，按固定顺序做首次命中
type keywordGroup struct {
	keywords []string
	industry string
}

// keywordGroups 本地兜底的关键词表；顺序即优先级，不可随意调整
var keywordGroups = []keywordGroup{
	{[]string{"cement", "concrete"}, "Cement"},
	{[]string{"pharma", "drug", "vaccine"}, "Pharmaceutical"},
	{[]string{"steel", "aluminium", "metal"}, "Aluminium"},
	{[]string{"telecom", "5g", "4g"}, "Telecommunications"},
	{[]string{"auto", "car", "vehicle"}, "Automobiles"},
	{[]string{"bank", "nbfc", "lending"}, "NBFC"},
}

// classifyByKeywords 纯本地的关键词分类，不依赖任何外部服务，永不失败。
// 对标题和摘要的小写拼接做子串匹配，按 keywordGroups 的顺序取第一个命中的行业，
// 全部未命中则 Uncategorized；置信度固定 0.3。
func classifyByKeywords(title, summary string) Result {
	text := strings.ToLower(title + " " + summary)

	for _, g := range keywordGroups {
		for _, kw := range g.keywords {
			if strings.Contains(text, kw) {
				return Result{Industry: g.industry, Confidence: fallbackConfidence}
			}
		}
	}
	return Result{Industry: industry.Uncategorized, Confidence: fallbackConfidence}
}
