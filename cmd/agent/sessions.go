package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"homework-agent/internal/app/models"
	"homework-agent/internal/app/services"
)

var sessionsMode string

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "管理本地保存的会话历史",
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "按时间倒序列出会话",
	RunE: func(cmd *cobra.Command, args []string) error {
		sessions, err := services.Store.List(cmd.Context(), models.Mode(sessionsMode))
		if err != nil {
			return err
		}
		if len(sessions) == 0 {
			fmt.Println("暂无会话记录")
			return nil
		}
		for _, sess := range sessions {
			ts := time.UnixMilli(sess.Timestamp).Format("2006-01-02 15:04")
			fmt.Printf("%s  %s  %s（%d 条消息）\n", sess.SessionID, ts, sess.Title, len(sess.Messages))
		}
		return nil
	},
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete <会话 id>",
	Short: "删除一条会话记录",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := services.Store.Delete(cmd.Context(), models.Mode(sessionsMode), args[0]); err != nil {
			return err
		}
		fmt.Println("已删除")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsDeleteCmd)
	sessionsCmd.PersistentFlags().StringVarP(&sessionsMode, "mode", "m", "solve", "模式：solve / review")
}
