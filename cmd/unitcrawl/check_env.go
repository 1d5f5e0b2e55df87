package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/RecoveryAshes/unitcrawl/internal/crawlers"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var checkEnvCmd = &cobra.Command{
	Use:   "check-env",
	Short: "检查运行环境 (Chrome、内存)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		allOK := true
		t := newTable(os.Stdout)
		t.SetTitle("环境检查")
		t.AppendRow(table.Row{"✅", "Go版本", runtime.Version()})
		t.AppendRow(table.Row{"✅", "操作系统", runtime.GOOS + "/" + runtime.GOARCH})

		switch bin := appConfig.Browser.Bin; {
		case bin != "":
			if _, err := os.Stat(bin); err != nil {
				t.AppendRow(table.Row{"❌", "Chrome", "配置的路径不存在: " + bin})
				allOK = false
			} else {
				t.AppendRow(table.Row{"✅", "Chrome", bin})
			}
		default:
			if path, found := launcher.LookPath(); found {
				t.AppendRow(table.Row{"✅", "Chrome", path})
			} else {
				t.AppendRow(table.Row{"⚠️", "Chrome", "未找到, 首次爬取时将自动下载"})
			}
		}

		status, err := crawlers.GetMemoryStatus()
		switch {
		case err != nil:
			t.AppendRow(table.Row{"⚠️", "内存", err.Error()})
		case int(status.AvailableMB) < appConfig.Browser.MinFreeMemoryMB:
			t.AppendRow(table.Row{"❌", "内存", fmt.Sprintf("可用 %dMB, 低于要求的 %dMB", status.AvailableMB, appConfig.Browser.MinFreeMemoryMB)})
			allOK = false
		default:
			t.AppendRow(table.Row{"✅", "内存", fmt.Sprintf("可用 %dMB / 共 %dMB", status.AvailableMB, status.TotalMB)})
		}
		t.Render()

		if !allOK {
			return fmt.Errorf("环境检查未通过")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkEnvCmd)
}
