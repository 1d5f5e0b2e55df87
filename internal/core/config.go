package core

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/RecoveryAshes/unitcrawl/internal/config"
	"github.com/RecoveryAshes/unitcrawl/internal/models"
	"github.com/RecoveryAshes/unitcrawl/internal/utils"
	"github.com/spf13/viper"
)

const (
	// DefaultURL 行政单位查询文章
	DefaultURL = "https://vnexpress.net/tra-cuu-3-321-phuong-xa-tren-ca-nuoc-sau-sap-xep-4903454.html"
	// DefaultSource 规范化文档的来源说明
	DefaultSource = "VnExpress - Tra cứu 3.321 phường, xã trên cả nước sau sắp xếp"
	// DefaultUserAgent 默认User-Agent
	DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"
)

// Config 应用程序配置
type Config struct {
	Crawl     models.CrawlConfig     `mapstructure:"crawl"`
	Browser   models.BrowserConfig   `mapstructure:"browser"`
	Normalize models.NormalizeConfig `mapstructure:"normalize"`
	Export    ExportConfig           `mapstructure:"export"`
	Logging   LoggingConfig          `mapstructure:"logging"`
}

// ExportConfig 导出配置
type ExportConfig struct {
	SQLite string `mapstructure:"sqlite"`
}

// LoggingConfig 日志配置
type LoggingConfig struct {
	Level    string         `mapstructure:"level"`
	LogDir   string         `mapstructure:"log_dir"`
	Rotation RotationConfig `mapstructure:"rotation"`
}

// RotationConfig 日志轮转配置
type RotationConfig struct {
	MaxSize    int  `mapstructure:"max_size"`
	MaxBackups int  `mapstructure:"max_backups"`
	MaxAge     int  `mapstructure:"max_age"`
	Compress   bool `mapstructure:"compress"`
}

// LoadConfig 加载配置文件, 配置文件不存在时使用默认值
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		if err := config.ValidateFileSize(configPath); err != nil {
			return nil, err
		}
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".unitcrawl"))
		}
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, &models.ConfigError{FilePath: configPath, Cause: err}
		}
	} else {
		utils.Debugf("使用配置文件: %s", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}
	return &cfg, nil
}

// setDefaults 设置默认配置值
func setDefaults(v *viper.Viper) {
	v.SetDefault("crawl.url", DefaultURL)
	v.SetDefault("crawl.output_csv", "data/phuong_xa_sap_nhap.csv")
	v.SetDefault("crawl.reports_dir", "reports")
	v.SetDefault("crawl.max_retries", 5)
	v.SetDefault("crawl.max_pages", 350)
	v.SetDefault("crawl.max_empty_pages", 5)
	v.SetDefault("crawl.min_probe_rows", 1)
	v.SetDefault("crawl.page_load_settle", 15*time.Second)
	v.SetDefault("crawl.frame_settle", 5*time.Second)
	v.SetDefault("crawl.click_settle", 3*time.Second)
	v.SetDefault("crawl.page_delay", 2*time.Second)
	v.SetDefault("crawl.retry_delay", time.Second)
	v.SetDefault("crawl.backoff_base", time.Second)
	v.SetDefault("crawl.poll_interval", 500*time.Millisecond)
	v.SetDefault("crawl.nav_timeout", 120*time.Second)
	v.SetDefault("crawl.settle_mode", models.SettlePoll)
	v.SetDefault("crawl.preflight", true)
	v.SetDefault("crawl.snapshot_dir", "")
	v.SetDefault("crawl.progress", true)

	v.SetDefault("browser.bin", "")
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.window_width", 1920)
	v.SetDefault("browser.window_height", 1080)
	v.SetDefault("browser.user_agent", DefaultUserAgent)
	v.SetDefault("browser.headers", map[string]string{})
	v.SetDefault("browser.min_free_memory_mb", 512)

	v.SetDefault("normalize.input", "data/phuong_xa_sap_nhap.csv")
	v.SetDefault("normalize.output", "data/phuong_xa_sap_nhap.json")
	v.SetDefault("normalize.source", DefaultSource)
	v.SetDefault("normalize.last_updated", "")

	v.SetDefault("export.sqlite", "data/phuong_xa_sap_nhap.db")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.log_dir", "logs")
	v.SetDefault("logging.rotation.max_size", 10)
	v.SetDefault("logging.rotation.max_backups", 3)
	v.SetDefault("logging.rotation.max_age", 28)
	v.SetDefault("logging.rotation.compress", true)
}

// LogConfig 转换为日志系统配置
func (c *Config) LogConfig() utils.LogConfig {
	return utils.LogConfig{
		Level:      c.Logging.Level,
		LogDir:     c.Logging.LogDir,
		MaxSize:    c.Logging.Rotation.MaxSize,
		MaxBackups: c.Logging.Rotation.MaxBackups,
		MaxAge:     c.Logging.Rotation.MaxAge,
		Compress:   c.Logging.Rotation.Compress,
	}
}
