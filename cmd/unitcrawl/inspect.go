package main

import (
	"os"

	"github.com/RecoveryAshes/unitcrawl/internal/crawlers"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [url]",
	Short: "静态抓取文章并列出Flourish嵌入块",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target := appConfig.Crawl.URL
		if len(args) == 1 {
			target = args[0]
		}
		if err := ValidateURL(target); err != nil {
			return err
		}
		hm, err := newHeaderManager()
		if err != nil {
			return err
		}

		report, err := crawlers.NewStaticInspector(hm.GetHTTPHeaders(), appConfig.Crawl.NavTimeout).Inspect(cmd.Context(), target)
		if err != nil {
			return err
		}

		t := newTable(os.Stdout)
		t.SetTitle("%s", report.Title)
		t.AppendHeader(table.Row{"#", "data-src", "iframe"})
		for _, e := range report.Embeds {
			t.AppendRow(table.Row{e.Index, e.DataSrc, e.HasIframe})
		}
		t.SetCaption("HTTP %d, %d 字节, %d 个嵌入块", report.StatusCode, report.BodySize, len(report.Embeds))
		t.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
