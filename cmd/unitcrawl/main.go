package main

import (
	"fmt"
	"io"
	"os"

	"github.com/RecoveryAshes/unitcrawl/internal/core"
	"github.com/RecoveryAshes/unitcrawl/internal/utils"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

// 全局参数
var (
	configFile     string
	verbose        bool
	logLevel       string
	headers        []string // 自定义HTTP请求头
	validateConfig bool     // 验证配置文件

	appConfig *core.Config
)

var rootCmd = &cobra.Command{
	Use:   "unitcrawl",
	Short: "越南行政单位合并数据爬取与整理工具",
	Long: `unitcrawl - 爬取VnExpress文章中Flourish表格的行政单位合并数据

  • crawl      逐页爬取表格, 每页保存CSV
  • normalize  将CSV整理为按省分组并带统计信息的JSON
  • search     不区分声调查询单位
  • export     导出为SQLite数据库
  • inspect    静态预检文章中的嵌入块

示例:
  unitcrawl crawl
  unitcrawl crawl -H "Accept-Language: vi-VN" --snapshot-dir snapshots
  unitcrawl crawl --replay snapshots -o data/replay.csv
  unitcrawl normalize --report data/report.md
  unitcrawl search "ba dinh" --size 3

版本: ` + Version + `
构建时间: ` + BuildTime,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config, err := core.LoadConfig(configFile)
		if err != nil {
			return fmt.Errorf("加载配置失败: %w", err)
		}
		appConfig = config

		logConfig := config.LogConfig()
		if logLevel != "" {
			logConfig.Level = logLevel
		}
		if verbose {
			logConfig.Level = "debug"
		}
		if err := utils.InitLogger(logConfig); err != nil {
			return fmt.Errorf("初始化日志系统失败: %w", err)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if !validateConfig {
			return cmd.Help()
		}

		utils.Info("🔍 验证配置...")
		if err := appConfig.Crawl.Validate(); err != nil {
			return fmt.Errorf("爬取配置无效: %w", err)
		}
		hm, err := newHeaderManager()
		if err != nil {
			return err
		}
		if err := hm.Validate(); err != nil {
			return fmt.Errorf("头部验证失败: %w", err)
		}

		safeHeaders := hm.GetSafeHeaders()
		utils.Info("✅ 配置验证通过!")
		t := newTable(os.Stdout)
		t.AppendHeader(table.Row{"Header", "Value"})
		for name, value := range safeHeaders {
			t.AppendRow(table.Row{name, value})
		}
		t.SortBy([]table.SortBy{{Name: "Header", Mode: table.Asc}})
		t.Render()
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "显示版本信息",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("unitcrawl %s\n", Version)
		fmt.Printf("构建时间: %s\n", BuildTime)
	},
}

// newHeaderManager 按 默认 < 配置 < 命令行 合并请求头
func newHeaderManager() (*core.HeaderManager, error) {
	hm, err := core.NewHeaderManager(appConfig.Browser.UserAgent, appConfig.Browser.Headers, headers)
	if err != nil {
		return nil, fmt.Errorf("创建HTTP头部管理器失败: %w", err)
	}
	return hm, nil
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	return t
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "配置文件路径")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "详细输出模式")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "日志级别 (trace|debug|info|warn|error)")
	rootCmd.PersistentFlags().StringSliceVarP(&headers, "header", "H", []string{}, "自定义HTTP头部,格式: 'Name: Value',可多次指定")
	rootCmd.Flags().BoolVar(&validateConfig, "validate-config", false, "验证配置文件和请求头")

	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}
