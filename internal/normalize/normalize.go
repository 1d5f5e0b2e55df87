// Package normalize 将爬取的扁平记录转换为按省分组并带统计信息的文档
package normalize

import (
	"sort"
	"strings"

	"github.com/RecoveryAshes/unitcrawl/internal/models"
)

// UnchangedSentinel 表示单位未参与合并的原文
const UnchangedSentinel = "Không sáp nhập"

// Classify 将一条记录转换为单位
// 原文去除首尾空白后等于 UnchangedSentinel 时视为未合并, 否则按逗号拆分并去除空白段
func Classify(rec models.Record) models.Unit {
	unit := models.Unit{
		NewName:  rec.NewUnitName,
		OldUnits: []string{},
		Province: rec.Region,
	}
	text := strings.TrimSpace(rec.SourceUnitsText)
	if text == UnchangedSentinel {
		unit.IsUnchanged = true
		return unit
	}
	for _, part := range strings.Split(text, ",") {
		if part = strings.TrimSpace(part); part != "" {
			unit.OldUnits = append(unit.OldUnits, part)
		}
	}
	return unit
}

// Normalize 生成规范化文档, 不修改输入
// 省份按首次出现顺序分组, 再按单位总数降序稳定排序
func Normalize(records []models.Record, metadata models.Metadata) *models.OutputDocument {
	doc := &models.OutputDocument{
		Metadata:  metadata,
		Provinces: []models.Province{},
		Units:     make([]models.Unit, 0, len(records)),
	}

	index := make(map[string]int)
	for _, rec := range records {
		unit := Classify(rec)
		i, ok := index[unit.Province]
		if !ok {
			i = len(doc.Provinces)
			index[unit.Province] = i
			doc.Provinces = append(doc.Provinces, models.Province{
				ID:    unit.Province,
				Name:  unit.Province,
				Units: []models.Unit{},
			})
		}

		p := &doc.Provinces[i]
		p.Units = append(p.Units, unit)
		p.TotalUnits++
		if unit.IsUnchanged {
			p.UnchangedUnits++
		} else {
			p.MergedUnits++
		}
		doc.Units = append(doc.Units, unit)
	}

	distribution := make(map[int]int)
	stats := models.Statistics{
		TotalUnits:         len(doc.Units),
		TotalProvinces:     len(doc.Provinces),
		MergerDistribution: distribution,
	}
	for _, unit := range doc.Units {
		if unit.IsUnchanged {
			stats.TotalUnchanged++
			continue
		}
		stats.TotalMerged++
		distribution[len(unit.OldUnits)]++
	}
	doc.Statistics = stats

	sort.SliceStable(doc.Provinces, func(a, b int) bool {
		return doc.Provinces[a].TotalUnits > doc.Provinces[b].TotalUnits
	})
	return doc
}
