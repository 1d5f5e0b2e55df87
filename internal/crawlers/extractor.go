package crawlers

import (
	"context"
	"strings"

	"github.com/RecoveryAshes/unitcrawl/internal/models"
	"github.com/RecoveryAshes/unitcrawl/internal/utils"
)

// probeRowLimit 探测嵌入块时检查的行数
const probeRowLimit = 5

// Extractor 从当前活动上下文的表格中提取记录
type Extractor struct {
	r Renderer
}

// NewExtractor 创建提取器
func NewExtractor(r Renderer) *Extractor {
	return &Extractor{r: r}
}

// Extract 读取第一个表格的所有数据行
// 没有表格或没有数据行时返回空切片
func (e *Extractor) Extract(ctx context.Context) []models.Record {
	records := make([]models.Record, 0)
	if ctx.Err() != nil {
		return records
	}

	rows, err := firstTableRows(e.r)
	if err != nil {
		utils.Warnf("读取表格失败: %v", err)
		return records
	}

	for i, row := range rows {
		cells, ok, err := dataCells(row)
		if err != nil {
			utils.Debugf("跳过第%d行: %v", i+1, err)
			continue
		}
		if !ok || strings.HasPrefix(cells[0], HeaderSentinel) {
			continue
		}
		records = append(records, models.Record{
			Region:          cells[0],
			NewUnitName:     cells[1],
			SourceUnitsText: cells[2],
		})
	}
	return records
}

// firstTableRows 返回当前上下文第一个表格的所有行, 没有表格时返回nil
func firstTableRows(r Renderer) ([]Element, error) {
	tables, err := r.FindAll("table")
	if err != nil {
		return nil, err
	}
	if len(tables) == 0 {
		return nil, nil
	}
	return tables[0].FindAll("tr")
}

// dataCells 读取行的前三个单元格
// 单元格少于3个或任一为空白时ok为false
func dataCells(row Element) ([3]string, bool, error) {
	var cells [3]string
	tds, err := row.FindAll("td")
	if err != nil {
		return cells, false, err
	}
	if len(tds) < 3 {
		return cells, false, nil
	}
	for i := 0; i < 3; i++ {
		text, err := tds[i].Text()
		if err != nil {
			return cells, false, err
		}
		cells[i] = strings.TrimSpace(text)
		if cells[i] == "" {
			return cells, false, nil
		}
	}
	return cells, true, nil
}
