package models

import (
	"fmt"
	"time"
)

const (
	// SettlePoll 轮询等待条件满足, 以设定时长为上限
	SettlePoll = "poll"
	// SettleSleep 固定等待设定时长
	SettleSleep = "sleep"
)

// CrawlConfig 爬取配置
type CrawlConfig struct {
	URL            string        `mapstructure:"url" json:"url"`
	OutputCSV      string        `mapstructure:"output_csv" json:"output_csv"`
	ReportsDir     string        `mapstructure:"reports_dir" json:"reports_dir"`
	MaxRetries     int           `mapstructure:"max_retries" json:"max_retries"`         // 加载与翻页的最大尝试次数 (默认:5)
	MaxPages       int           `mapstructure:"max_pages" json:"max_pages"`             // 最大页数 (默认:350)
	MaxEmptyPages  int           `mapstructure:"max_empty_pages" json:"max_empty_pages"` // 连续空页上限 (默认:5)
	MinProbeRows   int           `mapstructure:"min_probe_rows" json:"min_probe_rows"`   // 嵌入块探测所需有效行数 (默认:1)
	PageLoadSettle time.Duration `mapstructure:"page_load_settle" json:"page_load_settle"`
	FrameSettle    time.Duration `mapstructure:"frame_settle" json:"frame_settle"`
	ClickSettle    time.Duration `mapstructure:"click_settle" json:"click_settle"`
	PageDelay      time.Duration `mapstructure:"page_delay" json:"page_delay"`     // 翻页间隔
	RetryDelay     time.Duration `mapstructure:"retry_delay" json:"retry_delay"`   // 翻页重试间隔
	BackoffBase    time.Duration `mapstructure:"backoff_base" json:"backoff_base"` // 加载重试的指数退避基数
	PollInterval   time.Duration `mapstructure:"poll_interval" json:"poll_interval"`
	NavTimeout     time.Duration `mapstructure:"nav_timeout" json:"nav_timeout"`
	SettleMode     string        `mapstructure:"settle_mode" json:"settle_mode"` // poll 或 sleep
	Preflight      bool          `mapstructure:"preflight" json:"preflight"`
	SnapshotDir    string        `mapstructure:"snapshot_dir" json:"snapshot_dir"`
	Progress       bool          `mapstructure:"progress" json:"progress"`
}

// Validate 验证配置
func (c *CrawlConfig) Validate() error {
	if err := ValidateURL(c.URL); err != nil {
		return err
	}
	if c.OutputCSV == "" {
		return fmt.Errorf("输出CSV路径不能为空")
	}
	if c.MaxRetries < 1 || c.MaxRetries > 50 {
		return fmt.Errorf("最大重试次数必须在1-50之间")
	}
	if c.MaxPages < 1 {
		return fmt.Errorf("最大页数必须大于0")
	}
	if c.MaxEmptyPages < 1 {
		return fmt.Errorf("连续空页上限必须大于0")
	}
	if c.MinProbeRows < 1 || c.MinProbeRows > 5 {
		return fmt.Errorf("探测有效行数必须在1-5之间")
	}
	if c.SettleMode != SettlePoll && c.SettleMode != SettleSleep {
		return fmt.Errorf("无效的等待模式: %s (可选 poll, sleep)", c.SettleMode)
	}
	for name, d := range map[string]time.Duration{
		"page_load_settle": c.PageLoadSettle,
		"frame_settle":     c.FrameSettle,
		"click_settle":     c.ClickSettle,
		"page_delay":       c.PageDelay,
		"retry_delay":      c.RetryDelay,
		"backoff_base":     c.BackoffBase,
		"poll_interval":    c.PollInterval,
		"nav_timeout":      c.NavTimeout,
	} {
		if d < 0 {
			return fmt.Errorf("%s 不能为负数", name)
		}
	}
	return nil
}

// BrowserConfig 浏览器配置
type BrowserConfig struct {
	Bin             string            `mapstructure:"bin" json:"bin"` // 为空时自动查找或下载
	Headless        bool              `mapstructure:"headless" json:"headless"`
	WindowWidth     int               `mapstructure:"window_width" json:"window_width"`
	WindowHeight    int               `mapstructure:"window_height" json:"window_height"`
	UserAgent       string            `mapstructure:"user_agent" json:"user_agent"`
	Headers         map[string]string `mapstructure:"headers" json:"-"`
	MinFreeMemoryMB int               `mapstructure:"min_free_memory_mb" json:"min_free_memory_mb"`
}

// NormalizeConfig 规范化配置
type NormalizeConfig struct {
	Input       string `mapstructure:"input"`
	Output      string `mapstructure:"output"`
	Source      string `mapstructure:"source"`
	LastUpdated string `mapstructure:"last_updated"` // 为空时取输入文件修改日期
}
