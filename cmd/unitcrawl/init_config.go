package main

import (
	"fmt"

	"github.com/RecoveryAshes/unitcrawl/internal/config"
	"github.com/spf13/cobra"
)

var (
	initConfigPath  string
	initConfigForce bool
)

var initConfigCmd = &cobra.Command{
	Use:   "init-config",
	Short: "生成配置文件模板",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		written, err := config.WriteTemplate(initConfigPath, initConfigForce)
		if err != nil {
			return err
		}
		if !written {
			fmt.Printf("配置文件已存在: %s (使用 --force 覆盖)\n", initConfigPath)
			return nil
		}
		fmt.Printf("✅ 已生成配置文件: %s\n", initConfigPath)
		return nil
	},
}

func init() {
	initConfigCmd.Flags().StringVarP(&initConfigPath, "output", "o", config.DefaultConfigFile, "配置文件路径")
	initConfigCmd.Flags().BoolVar(&initConfigForce, "force", false, "覆盖已存在的文件")

	rootCmd.AddCommand(initConfigCmd)
}
