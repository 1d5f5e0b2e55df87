package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/RecoveryAshes/unitcrawl/internal/core"
	"github.com/RecoveryAshes/unitcrawl/internal/crawlers"
	"github.com/RecoveryAshes/unitcrawl/internal/models"
	"github.com/RecoveryAshes/unitcrawl/internal/utils"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// crawl 参数
var (
	crawlURL      string
	crawlOutput   string
	replayDir     string
	snapshotDir   string
	maxPages      int
	headful       bool
	settleMode    string
	skipPreflight bool
)

var crawlCmd = &cobra.Command{
	Use:   "crawl",
	Short: "逐页爬取行政单位表格并保存为CSV",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := appConfig.Crawl
		if cmd.Flags().Changed("url") {
			cfg.URL = crawlURL
		}
		if cmd.Flags().Changed("output") {
			cfg.OutputCSV = crawlOutput
		}
		if cmd.Flags().Changed("snapshot-dir") {
			cfg.SnapshotDir = snapshotDir
		}
		if cmd.Flags().Changed("max-pages") {
			cfg.MaxPages = maxPages
		}
		if cmd.Flags().Changed("settle-mode") {
			cfg.SettleMode = settleMode
		}
		if skipPreflight {
			cfg.Preflight = false
		}
		if err := ValidateCrawlFlags(&cfg, replayDir); err != nil {
			return err
		}

		hm, err := newHeaderManager()
		if err != nil {
			return err
		}
		if err := hm.Validate(); err != nil {
			return fmt.Errorf("头部验证失败: %w", err)
		}
		utils.Debugf("请求头: %v", hm.GetSafeHeaders())

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if cfg.Preflight && replayDir == "" {
			runPreflight(ctx, hm, cfg)
		}

		crawler := core.NewCrawler(&cfg, rendererFactory(&cfg, hm))
		if cfg.Progress {
			crawler.SetProgressOutput(os.Stderr)
		}
		result := crawler.Run(ctx)

		if path, err := utils.NewReporter(cfg.ReportsDir).GenerateCrawlReport(result); err != nil {
			utils.Warnf("生成爬取报告失败: %v", err)
		} else {
			utils.Infof("爬取报告: %s", path)
		}

		logPath := appConfig.LogConfig().MainLogPath()
		printCrawlSummary(result, logPath)
		if !result.Succeeded() {
			return fmt.Errorf("未提取到任何数据 (停止原因: %s), 详见日志 %s", result.StopReason, logPath)
		}
		return nil
	},
}

// rendererFactory 回放模式使用快照, 否则启动Chrome
func rendererFactory(cfg *models.CrawlConfig, hm *core.HeaderManager) core.RendererFactory {
	if replayDir != "" {
		return func(context.Context) (crawlers.Renderer, error) {
			utils.Infof("回放快照目录: %s", replayDir)
			return crawlers.LoadSnapshotDir(replayDir)
		}
	}

	browser := appConfig.Browser
	if headful {
		browser.Headless = false
	}
	return func(ctx context.Context) (crawlers.Renderer, error) {
		return crawlers.NewRodRenderer(ctx, crawlers.RodRendererOptions{
			Browser:    browser,
			Headers:    hm.GetMergedHeaders(),
			NavTimeout: cfg.NavTimeout,
		})
	}
}

// runPreflight 静态检查只输出警告, 不影响爬取
func runPreflight(ctx context.Context, hm *core.HeaderManager, cfg models.CrawlConfig) {
	report, err := crawlers.NewStaticInspector(hm.GetHTTPHeaders(), cfg.NavTimeout).Inspect(ctx, cfg.URL)
	if err != nil {
		utils.Warnf("静态预检失败: %v", err)
		return
	}
	if len(report.Embeds) == 0 {
		utils.Warnf("静态HTML中没有 %s 嵌入块, 可能由脚本插入", crawlers.EmbedSelector)
		return
	}
	utils.Infof("静态预检: 发现 %d 个嵌入块", len(report.Embeds))
}

func printCrawlSummary(result *models.CrawlResult, logPath string) {
	t := newTable(os.Stdout)
	t.SetTitle("📊 爬取统计")
	t.AppendRows([]table.Row{
		{"运行ID", result.RunID},
		{"停止原因", result.StopReason},
		{"页数", result.Pages},
		{"记录数", result.Rows},
		{"耗时", fmt.Sprintf("%.1f秒", result.Duration)},
	})
	if result.Succeeded() {
		t.AppendRow(table.Row{"CSV", result.OutputCSV})
	}
	if result.Error != "" {
		t.AppendRow(table.Row{"错误", result.Error})
	}
	t.AppendRow(table.Row{"日志", logPath})
	t.Render()
}

func init() {
	crawlCmd.Flags().StringVarP(&crawlURL, "url", "u", "", "文章URL (默认取配置)")
	crawlCmd.Flags().StringVarP(&crawlOutput, "output", "o", "", "输出CSV路径")
	crawlCmd.Flags().StringVar(&replayDir, "replay", "", "回放快照目录, 不启动浏览器")
	crawlCmd.Flags().StringVar(&snapshotDir, "snapshot-dir", "", "保存每页iframe HTML的目录")
	crawlCmd.Flags().IntVar(&maxPages, "max-pages", 350, "最大页数")
	crawlCmd.Flags().BoolVar(&headful, "headful", false, "显示浏览器窗口")
	crawlCmd.Flags().StringVar(&settleMode, "settle-mode", models.SettlePoll, "等待模式 (poll|sleep)")
	crawlCmd.Flags().BoolVar(&skipPreflight, "no-preflight", false, "跳过静态预检")

	rootCmd.AddCommand(crawlCmd)
}
