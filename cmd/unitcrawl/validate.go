package main

import (
	"fmt"
	"os"

	"github.com/RecoveryAshes/unitcrawl/internal/models"
)

// ValidateURL 验证URL格式
func ValidateURL(urlStr string) error {
	if err := models.ValidateURL(urlStr); err != nil {
		return fmt.Errorf("无效的目标URL: %w", err)
	}
	return nil
}

// ValidateCrawlFlags 验证合并命令行参数后的爬取配置
func ValidateCrawlFlags(cfg *models.CrawlConfig, replayDir string) error {
	if replayDir != "" {
		info, err := os.Stat(replayDir)
		if err != nil {
			return fmt.Errorf("回放目录不可用: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("回放路径不是目录: %s", replayDir)
		}
		if replayDir == cfg.SnapshotDir {
			return fmt.Errorf("回放目录不能同时作为快照目录: %s", replayDir)
		}
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("爬取参数无效: %w", err)
	}
	return nil
}

// ValidateSearchFlags 验证查询参数
func ValidateSearchFlags(sizes []int, limit int) error {
	for _, size := range sizes {
		if size < 1 {
			return fmt.Errorf("合并规模必须大于0,当前值: %d", size)
		}
	}
	if limit < 1 || limit > 5000 {
		return fmt.Errorf("返回条数必须在1-5000之间,当前值: %d", limit)
	}
	return nil
}
