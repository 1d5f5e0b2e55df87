package models

// CSVHeader 原始数据集CSV的固定表头
var CSVHeader = []string{"Tỉnh", "Phường, xã mới", "Phường, xã trước sáp nhập"}

// Record 表格中的一行数据
type Record struct {
	Region          string `json:"province"`          // 省/直辖市
	NewUnitName     string `json:"new_name"`          // 新行政单位名称
	SourceUnitsText string `json:"source_units_text"` // 合并前单位(逗号分隔)或未合并标记
}

// Row 转换为CSV行
func (r Record) Row() []string {
	return []string{r.Region, r.NewUnitName, r.SourceUnitsText}
}

// RecordFromRow 从CSV行构造记录, 行必须至少包含3列
func RecordFromRow(row []string) (Record, bool) {
	if len(row) < 3 {
		return Record{}, false
	}
	return Record{Region: row[0], NewUnitName: row[1], SourceUnitsText: row[2]}, true
}
