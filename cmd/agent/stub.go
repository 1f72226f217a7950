package main

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"homework-agent/internal/pkg/stubserver"
)

var stubAddr string

var stubCmd = &cobra.Command{
	Use:   "stub",
	Short: "启动内置的模拟后端，便于离线调试",
	RunE: func(cmd *cobra.Command, args []string) error {
		log.Infof("模拟后端监听 %s", stubAddr)
		return stubserver.SetUp().Run(stubAddr)
	},
}

func init() {
	rootCmd.AddCommand(stubCmd)
	stubCmd.Flags().StringVar(&stubAddr, "addr", "127.0.0.1:8000", "监听地址")
}
