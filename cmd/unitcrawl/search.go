package main

import (
	"os"
	"strings"

	"github.com/RecoveryAshes/unitcrawl/internal/dataset"
	"github.com/RecoveryAshes/unitcrawl/internal/lookup"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// search 参数
var (
	searchInput    string
	searchSizes    []int
	searchProvince string
	searchLimit    int
)

var searchCmd = &cobra.Command{
	Use:   "search [关键词]",
	Short: "在整理后的JSON中查询单位 (不区分声调)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ValidateSearchFlags(searchSizes, searchLimit); err != nil {
			return err
		}
		input := searchInput
		if input == "" {
			input = appConfig.Normalize.Output
		}

		doc, err := dataset.ReadDocument(input)
		if err != nil {
			return err
		}
		matches := lookup.NewIndex(doc).Search(lookup.Query{
			Text:     strings.Join(args, " "),
			Sizes:    searchSizes,
			Province: searchProvince,
			Limit:    searchLimit,
		})

		t := newTable(os.Stdout)
		t.AppendHeader(table.Row{"#", "Tỉnh", "Phường, xã mới", "Trước sáp nhập"})
		for i, m := range matches {
			old := strings.Join(m.Unit.OldUnits, ", ")
			if m.Unit.IsUnchanged {
				old = "-"
			}
			t.AppendRow(table.Row{i + 1, m.Unit.Province, m.Unit.NewName, old})
		}
		t.SetCaption("%d 条结果", len(matches))
		t.Render()
		return nil
	},
}

func init() {
	searchCmd.Flags().StringVarP(&searchInput, "input", "i", "", "JSON文档路径 (默认取配置)")
	searchCmd.Flags().IntSliceVar(&searchSizes, "size", nil, "合并规模过滤, 1表示未合并, 可多次指定")
	searchCmd.Flags().StringVar(&searchProvince, "province", "", "省份过滤")
	searchCmd.Flags().IntVar(&searchLimit, "limit", lookup.DefaultLimit, "最多返回条数")

	rootCmd.AddCommand(searchCmd)
}
