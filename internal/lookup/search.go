// Package lookup 在规范化文档上提供不区分声调的单位查询
package lookup

import (
	"sort"
	"strings"

	"github.com/RecoveryAshes/unitcrawl/internal/models"
)

// DefaultLimit 默认返回条数
const DefaultLimit = 10

// Query 查询条件
type Query struct {
	Text     string // 匹配新名称、原单位和省份
	Sizes    []int  // 1 表示未合并, k>=2 表示由k个单位合并
	Province string // 省份过滤, 不区分声调
	Limit    int    // <=0 时使用 DefaultLimit
}

// Match 一条查询结果
type Match struct {
	Unit      models.Unit
	Relevance int // 2 新名称匹配, 1 原单位匹配, 0 仅省份匹配或无查询文本
}

type entry struct {
	unit     models.Unit
	name     string
	old      []string
	province string
}

// Index 查询索引
type Index struct {
	entries []entry
}

// NewIndex 由规范化文档建立索引
func NewIndex(doc *models.OutputDocument) *Index {
	idx := &Index{entries: make([]entry, 0, len(doc.Units))}
	for _, u := range doc.Units {
		e := entry{
			unit:     u,
			name:     Fold(u.NewName),
			province: Fold(u.Province),
			old:      make([]string, 0, len(u.OldUnits)),
		}
		for _, o := range u.OldUnits {
			e.old = append(e.old, Fold(o))
		}
		idx.entries = append(idx.entries, e)
	}
	return idx
}

// Len 索引中的单位数
func (idx *Index) Len() int {
	return len(idx.entries)
}

// Size 单位的合并规模, 未合并单位为1
func Size(u models.Unit) int {
	if u.IsUnchanged {
		return 1
	}
	return len(u.OldUnits)
}

// Search 执行查询
// 结果按相关度降序排列, 相关度相同时保持文档顺序
func (idx *Index) Search(q Query) []Match {
	text := Fold(q.Text)
	province := Fold(q.Province)
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	matches := make([]Match, 0)
	for _, e := range idx.entries {
		if province != "" && !strings.Contains(e.province, province) {
			continue
		}
		if len(q.Sizes) > 0 && !containsInt(q.Sizes, Size(e.unit)) {
			continue
		}
		relevance, ok := e.relevance(text)
		if !ok {
			continue
		}
		matches = append(matches, Match{Unit: e.unit, Relevance: relevance})
	}

	sort.SliceStable(matches, func(a, b int) bool {
		return matches[a].Relevance > matches[b].Relevance
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

func (e entry) relevance(text string) (int, bool) {
	if text == "" {
		return 0, true
	}
	if strings.Contains(e.name, text) {
		return 2, true
	}
	for _, o := range e.old {
		if strings.Contains(o, text) {
			return 1, true
		}
	}
	if strings.Contains(e.province, text) {
		return 0, true
	}
	return 0, false
}

func containsInt(values []int, v int) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
