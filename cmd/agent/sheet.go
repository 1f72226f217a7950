package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"homework-agent/internal/app/models"
	"homework-agent/internal/app/services"
)

var sheetMode string

var sheetCmd = &cobra.Command{
	Use:   "sheet <图片路径>",
	Short: "整页拆题并逐题并发解答",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		mode := models.Mode(sheetMode)
		resp, err := services.Sheet.Process(ctx, mode, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("共识别出 %d 道题目，开始解答……\n", resp.TotalCount)

		results := services.Sheet.SolveAll(ctx, mode, resp.Questions)
		for i, r := range results {
			fmt.Printf("\n===== 第 %d 题 =====\n", i+1)
			if r.Err != nil {
				fmt.Printf("解答失败: %v\n", r.Err)
				continue
			}
			printLastAnswer(r.Session)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sheetCmd)
	sheetCmd.Flags().StringVarP(&sheetMode, "mode", "m", "solve", "模式：solve 解题 / review 批改")
}
