package industry

import "strings"

// Uncategorized 兜底行业标签：无法归类或分类结果不在闭集内时使用
const Uncategorized = "Uncategorized"

// industries 固定的 32 个行业分类。
// 标签字符串对 API 消费方是契约的一部分，禁止改动拼写；
// 分类 prompt、存储校验、统计接口都引用这一份列表，避免多处维护产生漂移。
var industries = []string{
	"Building Materials Sector",
	"Media & Entertainment",
	"Paper and Pulp Manufacturing",
	"Consumer Electronics",
	"Construction/Infrastructure",
	"Battery Manufacturing",
	"Mining and Minerals",
	"Ship Building",
	"Cement",
	"Pharmaceutical",
	"MSW Management",
	"NBFC",
	"Healthcare",
	"Aluminium",
	"Paint",
	"Telecommunications",
	"Oil and Gas",
	"Renewable Energy",
	"Explosives",
	"Financial Services",
	"Automobiles",
	"Textiles",
	"Travel and Tourism",
	"Auto Ancillaries",
	"Recruitment and Human Resources Services",
	"Power/Transmission & Equipment",
	"Real Estate & Construction Software",
	"Electronic Manufacturing Services",
	"Fast Moving Consumer Goods",
	"Contract Development and Manufacturing Organisation",
	"Fashion & Apparels",
	"Aviation",
}

// byLower 大小写不敏感的查找表，init 时从 industries 构建
var byLower = func() map[string]string {
	m := make(map[string]string, len(industries))
	for _, name := range industries {
		m[strings.ToLower(name)] = name
	}
	return m
}()

// All 返回闭集内全部行业标签（不含 Uncategorized），固定顺序
func All() []string {
	out := make([]string, len(industries))
	copy(out, industries)
	return out
}

// IsMember 判断标签是否属于闭集（含 Uncategorized）
func IsMember(name string) bool {
	if name == Uncategorized {
		return true
	}
	_, ok := byLower[strings.ToLower(name)]
	return ok
}

// Normalize 把外部返回的行业字符串规范为闭集内的标准写法；
// 去掉首尾空白后做大小写不敏感匹配，匹配不上则归为 Uncategorized
func Normalize(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return Uncategorized
	}
	if canonical, ok := byLower[strings.ToLower(name)]; ok {
		return canonical
	}
	return Uncategorized
}
