package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/RecoveryAshes/unitcrawl/internal/dataset"
	"github.com/RecoveryAshes/unitcrawl/internal/models"
	"github.com/RecoveryAshes/unitcrawl/internal/normalize"
	"github.com/RecoveryAshes/unitcrawl/internal/report"
	"github.com/RecoveryAshes/unitcrawl/internal/utils"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// normalize 参数
var (
	normalizeInput  string
	normalizeOutput string
	normalizeReport string
	lastUpdated     string
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize",
	Short: "将CSV整理为按省分组的JSON文档",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := appConfig.Normalize
		if normalizeInput != "" {
			cfg.Input = normalizeInput
		}
		if normalizeOutput != "" {
			cfg.Output = normalizeOutput
		}
		if lastUpdated != "" {
			cfg.LastUpdated = lastUpdated
		}

		records, err := dataset.ReadCSV(cfg.Input)
		if err != nil {
			return err
		}
		utils.Infof("读取 %d 条记录: %s", len(records), cfg.Input)

		meta, err := documentMetadata(cfg)
		if err != nil {
			return err
		}
		doc := normalize.Normalize(records, meta)
		if err := dataset.WriteDocument(cfg.Output, doc); err != nil {
			return err
		}
		utils.Infof("已写入 %s", cfg.Output)

		if normalizeReport != "" {
			if err := writeMarkdownReport(normalizeReport, doc); err != nil {
				return err
			}
			utils.Infof("Markdown报告: %s", normalizeReport)
		}

		printStatistics(doc)
		return nil
	},
}

// documentMetadata 未配置更新日期时取输入文件的修改日期
func documentMetadata(cfg models.NormalizeConfig) (models.Metadata, error) {
	meta := models.Metadata{
		Source:      cfg.Source,
		URL:         appConfig.Crawl.URL,
		LastUpdated: cfg.LastUpdated,
	}
	if meta.LastUpdated == "" {
		info, err := os.Stat(cfg.Input)
		if err != nil {
			return meta, fmt.Errorf("读取输入文件信息失败: %w", err)
		}
		meta.LastUpdated = info.ModTime().Format("2006-01-02")
	}
	return meta, nil
}

func writeMarkdownReport(path string, doc *models.OutputDocument) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("创建报告目录失败: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("创建报告文件失败: %w", err)
	}
	defer f.Close()
	if err := report.WriteMarkdown(f, doc); err != nil {
		return fmt.Errorf("生成Markdown报告失败: %w", err)
	}
	return nil
}

func printStatistics(doc *models.OutputDocument) {
	stats := doc.Statistics
	t := newTable(os.Stdout)
	t.SetTitle("📊 整理统计")
	t.AppendRows([]table.Row{
		{"单位总数", stats.TotalUnits},
		{"省份数", stats.TotalProvinces},
		{"合并单位", stats.TotalMerged},
		{"未合并单位", stats.TotalUnchanged},
	})
	t.Render()
}

func init() {
	normalizeCmd.Flags().StringVarP(&normalizeInput, "input", "i", "", "输入CSV路径 (默认取配置)")
	normalizeCmd.Flags().StringVarP(&normalizeOutput, "output", "o", "", "输出JSON路径 (默认取配置)")
	normalizeCmd.Flags().StringVar(&normalizeReport, "report", "", "同时生成Markdown报告")
	normalizeCmd.Flags().StringVar(&lastUpdated, "last-updated", "", "文档更新日期 (YYYY-MM-DD)")

	rootCmd.AddCommand(normalizeCmd)
}
