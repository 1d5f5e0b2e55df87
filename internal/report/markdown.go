// Package report 生成规范化结果的Markdown报告
package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/RecoveryAshes/unitcrawl/internal/models"
	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
)

// TopProvinces 报告中列出的省份数量
const TopProvinces = 10

// WriteMarkdown 输出汇总表、单位最多的省份和合并规模分布图
func WriteMarkdown(w io.Writer, doc *models.OutputDocument) error {
	md := markdown.NewMarkdown(w)
	stats := doc.Statistics

	md.H1("行政单位合并统计")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"项目", "值"},
		Rows: [][]string{
			{"来源", doc.Metadata.Source},
			{"URL", doc.Metadata.URL},
			{"更新日期", doc.Metadata.LastUpdated},
			{"单位总数", strconv.Itoa(stats.TotalUnits)},
			{"省份数", strconv.Itoa(stats.TotalProvinces)},
			{"合并单位", strconv.Itoa(stats.TotalMerged)},
			{"未合并单位", strconv.Itoa(stats.TotalUnchanged)},
		},
	})
	md.PlainText("")

	writeProvinces(md, doc.Provinces)
	writeDistribution(md, stats)

	return md.Build()
}

func writeProvinces(md *markdown.Markdown, provinces []models.Province) {
	md.H2(fmt.Sprintf("单位最多的省份 (前%d)", TopProvinces))
	md.PlainText("")
	if len(provinces) == 0 {
		md.PlainText("没有数据。")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, TopProvinces)
	for i, p := range provinces {
		if i == TopProvinces {
			break
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			p.Name,
			strconv.Itoa(p.TotalUnits),
			strconv.Itoa(p.MergedUnits),
			strconv.Itoa(p.UnchangedUnits),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"#", "省份", "单位", "合并", "未合并"},
		Rows:   rows,
	})
	md.PlainText("")
}

func writeDistribution(md *markdown.Markdown, stats models.Statistics) {
	md.H2("合并规模分布")
	md.PlainText("")
	if len(stats.MergerDistribution) == 0 {
		md.Note("没有合并单位。")
		md.PlainText("")
		return
	}

	sizes := make([]int, 0, len(stats.MergerDistribution))
	for size := range stats.MergerDistribution {
		sizes = append(sizes, size)
	}
	sort.Ints(sizes)

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("合并来源数量"),
		piechart.WithShowData(true),
	)
	rows := make([][]string, 0, len(sizes))
	for _, size := range sizes {
		count := stats.MergerDistribution[size]
		label := fmt.Sprintf("%d个来源", size)
		chart.LabelAndIntValue(label, uint64(count))
		rows = append(rows, []string{label, strconv.Itoa(count)})
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"来源数量", "单位数"},
		Rows:   rows,
	})
	md.PlainText("")
}
