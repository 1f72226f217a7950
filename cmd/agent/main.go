// agent 是作业辅导后端的命令行客户端：拍照解题、批改作业、
// 多轮追问、错题本与练习卷管理。
package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"homework-agent/internal/app/services"
	"homework-agent/pkg/config"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:           "agent",
	Short:         "拍照搜题与作业批改的命令行客户端",
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Init(cfgFile); err != nil {
			return err
		}
		if config.GetRunMode() == "dev" {
			log.SetLevel(log.DebugLevel)
		}
		// stub 命令不依赖后端客户端
		if cmd.Name() == "stub" {
			return nil
		}
		return services.Init()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "配置文件路径")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
