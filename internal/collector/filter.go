package collector

import "time"

// WithinWindow 判断候选文章是否落在召回窗口内。
// now 由调用方在一轮开始时取一次，整轮共用；
// 没有发布时间的文章一律拒绝；边界策略为闭区间（恰好等于 now-window 时保留）。
// 无时区的时间按 UTC 处理（time.Time 比较本身基于绝对时刻，这里统一转 UTC 防止歧义）。
func WithinWindow(c Candidate, now time.Time, windowHours int) bool {
	if c.PublishedAt == nil {
		return false
	}
	window := time.Duration(windowHours) * time.Hour
	age := now.UTC().Sub(c.PublishedAt.UTC())
	return age <= window
}

// FilterRecent 按召回窗口过滤候选文章
func FilterRecent(cands []Candidate, now time.Time, windowHours int) []Candidate {
	out := make([]Candidate, 0, len(cands))
	for _, c := range cands {
		if WithinWindow(c, now, windowHours) {
			out = append(out, c)
		}
	}
	return out
}
