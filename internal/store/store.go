// Package store 将规范化文档导出为SQLite数据库
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/RecoveryAshes/unitcrawl/internal/models"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var Schema string

// Open 打开SQLite数据库, 必要时创建父目录
func Open(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("创建数据库目录失败: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("打开数据库失败: %w", err)
	}
	return db, nil
}

// Export 在一个事务内重建表结构并写入文档
// provinces.rank 为文档中的排序位置, 从1开始
func Export(ctx context.Context, db *sql.DB, doc *models.OutputDocument) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("开启事务失败: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("创建表结构失败: %w", err)
	}

	meta := [][2]string{
		{"source", doc.Metadata.Source},
		{"url", doc.Metadata.URL},
		{"last_updated", doc.Metadata.LastUpdated},
	}
	for _, kv := range meta {
		if _, err := tx.ExecContext(ctx, `INSERT INTO metadata (key, value) VALUES (?, ?)`, kv[0], kv[1]); err != nil {
			return fmt.Errorf("写入元数据失败: %w", err)
		}
	}

	unitID := 0
	for rank, p := range doc.Provinces {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO provinces (id, name, rank, total_units, merged_units, unchanged_units) VALUES (?, ?, ?, ?, ?, ?)`,
			p.ID, p.Name, rank+1, p.TotalUnits, p.MergedUnits, p.UnchangedUnits)
		if err != nil {
			return fmt.Errorf("写入省份失败 [%s]: %w", p.Name, err)
		}

		for _, u := range p.Units {
			unitID++
			_, err := tx.ExecContext(ctx,
				`INSERT INTO units (id, province_id, new_name, is_unchanged, merged_from) VALUES (?, ?, ?, ?, ?)`,
				unitID, p.ID, u.NewName, u.IsUnchanged, u.MergedFrom())
			if err != nil {
				return fmt.Errorf("写入单位失败 [%s]: %w", u.NewName, err)
			}
			for pos, old := range u.OldUnits {
				_, err := tx.ExecContext(ctx,
					`INSERT INTO old_units (unit_id, position, name) VALUES (?, ?, ?)`,
					unitID, pos, old)
				if err != nil {
					return fmt.Errorf("写入原单位失败 [%s]: %w", old, err)
				}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("提交事务失败: %w", err)
	}
	return nil
}

// ExportFile 打开path并导出文档
func ExportFile(ctx context.Context, path string, doc *models.OutputDocument) error {
	db, err := Open(path)
	if err != nil {
		return err
	}
	defer db.Close()
	return Export(ctx, db, doc)
}
