package dataset

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/RecoveryAshes/unitcrawl/internal/models"
)

// WriteDocument 写出规范化文档
func WriteDocument(path string, doc *models.OutputDocument) error {
	data, err := doc.ToJSON()
	if err != nil {
		return fmt.Errorf("序列化文档失败: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("写入文档失败: %w", err)
	}
	return nil
}

// ReadDocument 读取规范化文档
func ReadDocument(path string) (*models.OutputDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取文档失败: %w", err)
	}
	doc := &models.OutputDocument{}
	if err := doc.FromJSON(data); err != nil {
		return nil, fmt.Errorf("解析文档失败 [%s]: %w", path, err)
	}
	return doc, nil
}
