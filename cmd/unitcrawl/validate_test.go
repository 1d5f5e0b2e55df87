package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/RecoveryAshes/unitcrawl/internal/core"
	"github.com/RecoveryAshes/unitcrawl/internal/models"
)

func validCrawlConfig() models.CrawlConfig {
	return models.CrawlConfig{
		URL:           core.DefaultURL,
		OutputCSV:     "data/out.csv",
		MaxRetries:    5,
		MaxPages:      350,
		MaxEmptyPages: 5,
		MinProbeRows:  1,
		SettleMode:    models.SettlePoll,
		PageDelay:     2 * time.Second,
	}
}

func TestValidateCrawlFlags(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "page_0001.html")
	if err := os.WriteFile(file, []byte("<html></html>"), 0644); err != nil {
		t.Fatalf("写入文件失败: %v", err)
	}

	tests := []struct {
		name        string
		modify      func(c *models.CrawlConfig)
		replay      string
		expectError bool
	}{
		{"默认配置", func(c *models.CrawlConfig) {}, "", false},
		{"回放目录", func(c *models.CrawlConfig) {}, dir, false},
		{"回放目录不存在", func(c *models.CrawlConfig) {}, filepath.Join(dir, "missing"), true},
		{"回放路径是文件", func(c *models.CrawlConfig) {}, file, true},
		{"回放目录与快照目录相同", func(c *models.CrawlConfig) { c.SnapshotDir = dir }, dir, true},
		{"无效URL", func(c *models.CrawlConfig) { c.URL = "ftp://example.com" }, "", true},
		{"页数为0", func(c *models.CrawlConfig) { c.MaxPages = 0 }, "", true},
		{"无效等待模式", func(c *models.CrawlConfig) { c.SettleMode = "spin" }, "", true},
		{"负数间隔", func(c *models.CrawlConfig) { c.PageDelay = -time.Second }, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validCrawlConfig()
			tt.modify(&cfg)
			err := ValidateCrawlFlags(&cfg, tt.replay)
			if (err != nil) != tt.expectError {
				t.Errorf("期望错误=%v, 实际错误=%v", tt.expectError, err)
			}
		})
	}
}

func TestValidateSearchFlags(t *testing.T) {
	tests := []struct {
		name        string
		sizes       []int
		limit       int
		expectError bool
	}{
		{"无过滤", nil, 10, false},
		{"多个规模", []int{1, 2, 3}, 10, false},
		{"规模为0", []int{0}, 10, true},
		{"条数为0", nil, 0, true},
		{"条数过大", nil, 10000, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSearchFlags(tt.sizes, tt.limit)
			if (err != nil) != tt.expectError {
				t.Errorf("期望错误=%v, 实际错误=%v", tt.expectError, err)
			}
		})
	}
}

func TestDocumentMetadata(t *testing.T) {
	appConfig = &core.Config{Crawl: models.CrawlConfig{URL: core.DefaultURL}}
	input := filepath.Join(t.TempDir(), "in.csv")
	if err := os.WriteFile(input, []byte("x"), 0644); err != nil {
		t.Fatalf("写入文件失败: %v", err)
	}
	mtime := time.Date(2025, 7, 1, 12, 0, 0, 0, time.Local)
	if err := os.Chtimes(input, mtime, mtime); err != nil {
		t.Fatalf("修改时间失败: %v", err)
	}

	t.Run("取文件修改日期", func(t *testing.T) {
		meta, err := documentMetadata(models.NormalizeConfig{Input: input, Source: core.DefaultSource})
		if err != nil {
			t.Fatalf("期望无错误, 实际错误=%v", err)
		}
		if meta.LastUpdated != "2025-07-01" {
			t.Errorf("期望 2025-07-01, 实际 %s", meta.LastUpdated)
		}
		if meta.URL != core.DefaultURL || meta.Source != core.DefaultSource {
			t.Errorf("元数据不正确: %+v", meta)
		}
	})

	t.Run("配置优先", func(t *testing.T) {
		meta, err := documentMetadata(models.NormalizeConfig{Input: input, LastUpdated: "2025-06-30"})
		if err != nil {
			t.Fatalf("期望无错误, 实际错误=%v", err)
		}
		if meta.LastUpdated != "2025-06-30" {
			t.Errorf("期望 2025-06-30, 实际 %s", meta.LastUpdated)
		}
	})
}
