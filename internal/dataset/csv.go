// Package dataset 读写原始记录CSV和规范化JSON文档
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/RecoveryAshes/unitcrawl/internal/models"
)

// ErrBadHeader CSV表头与约定不一致
var ErrBadHeader = errors.New("CSV表头不匹配")

// WriteCSV 将全部记录写入path
// 先写临时文件再重命名, 中断时不会留下半个文件
func WriteCSV(path string, records []models.Record) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("创建临时文件失败: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := EncodeCSV(tmp, records); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("关闭临时文件失败: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("替换CSV文件失败: %w", err)
	}
	return nil
}

// EncodeCSV 写出表头和记录
func EncodeCSV(w io.Writer, records []models.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(models.CSVHeader); err != nil {
		return fmt.Errorf("写入CSV表头失败: %w", err)
	}
	for _, r := range records {
		if err := cw.Write(r.Row()); err != nil {
			return fmt.Errorf("写入CSV记录失败: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("写入CSV失败: %w", err)
	}
	return nil
}

// ReadCSV 读取path中的记录
func ReadCSV(path string) ([]models.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("打开CSV失败: %w", err)
	}
	defer f.Close()
	return DecodeCSV(f)
}

// DecodeCSV 解析CSV, 第一行必须是约定表头
// 少于3列的行被跳过
func DecodeCSV(r io.Reader) ([]models.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: 文件为空", ErrBadHeader)
	}
	if err != nil {
		return nil, fmt.Errorf("读取CSV表头失败: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	if !slices.Equal(header, models.CSVHeader) {
		return nil, fmt.Errorf("%w: %q", ErrBadHeader, header)
	}

	records := make([]models.Record, 0)
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("读取CSV记录失败: %w", err)
		}
		if rec, ok := models.RecordFromRow(row); ok {
			records = append(records, rec)
		}
	}
	return records, nil
}
