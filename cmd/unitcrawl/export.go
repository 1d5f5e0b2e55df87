package main

import (
	"github.com/RecoveryAshes/unitcrawl/internal/dataset"
	"github.com/RecoveryAshes/unitcrawl/internal/store"
	"github.com/RecoveryAshes/unitcrawl/internal/utils"
	"github.com/spf13/cobra"
)

// export 参数
var (
	exportInput  string
	exportSQLite string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "将整理后的JSON导出为SQLite数据库",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		input := exportInput
		if input == "" {
			input = appConfig.Normalize.Output
		}
		path := exportSQLite
		if path == "" {
			path = appConfig.Export.SQLite
		}

		doc, err := dataset.ReadDocument(input)
		if err != nil {
			return err
		}
		if err := store.ExportFile(cmd.Context(), path, doc); err != nil {
			return err
		}
		utils.Infof("已导出 %d 个省份, %d 个单位到 %s", len(doc.Provinces), len(doc.Units), path)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportInput, "input", "i", "", "JSON文档路径 (默认取配置)")
	exportCmd.Flags().StringVar(&exportSQLite, "sqlite", "", "SQLite数据库路径 (默认取配置)")

	rootCmd.AddCommand(exportCmd)
}
