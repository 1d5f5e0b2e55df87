package models

import (
	"bytes"
	"encoding/json"
)

// Unit 规范化后的行政单位
type Unit struct {
	NewName     string   `json:"new_name"`
	OldUnits    []string `json:"old_units"` // 永不为nil
	IsUnchanged bool     `json:"is_unchanged"`
	Province    string   `json:"province"`
}

// MergedFrom 返回合并来源数量, 未合并单位为0
func (u Unit) MergedFrom() int {
	if u.IsUnchanged {
		return 0
	}
	return len(u.OldUnits)
}

// Province 省级分组
type Province struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Units          []Unit `json:"units"`
	TotalUnits     int    `json:"total_units"`
	MergedUnits    int    `json:"merged_units"`
	UnchangedUnits int    `json:"unchanged_units"`
}

// Statistics 全局统计
type Statistics struct {
	TotalUnits         int         `json:"total_units"`
	TotalProvinces     int         `json:"total_provinces"`
	TotalMerged        int         `json:"total_merged"`
	TotalUnchanged     int         `json:"total_unchanged"`
	MergerDistribution map[int]int `json:"merger_distribution"`
}

// Metadata 文档元数据
type Metadata struct {
	Source      string `json:"source"`
	URL         string `json:"url"`
	LastUpdated string `json:"last_updated"`
}

// OutputDocument 规范化输出文档
type OutputDocument struct {
	Metadata   Metadata   `json:"metadata"`
	Statistics Statistics `json:"statistics"`
	Provinces  []Province `json:"provinces"`
	Units      []Unit     `json:"units"`
}

// ToJSON 序列化为JSON
// 两空格缩进, 不转义HTML, 非ASCII字符原样输出
func (d *OutputDocument) ToJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FromJSON 从JSON反序列化
func (d *OutputDocument) FromJSON(data []byte) error {
	return json.Unmarshal(data, d)
}
