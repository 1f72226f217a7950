package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"homework-agent/internal/app/models"
	"homework-agent/internal/app/services"
)

var (
	mistakeSubject string
	mistakeGrade   string
)

var mistakesCmd = &cobra.Command{
	Use:   "mistakes",
	Short: "智能错题本",
}

var mistakesListCmd = &cobra.Command{
	Use:   "list",
	Short: "列出错题，支持学科与年级筛选",
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := services.Mistake.List(cmd.Context(), models.MistakeFilter{
			Subject: mistakeSubject,
			Grade:   mistakeGrade,
		})
		if err != nil {
			return err
		}
		if list.Total == 0 {
			fmt.Println("错题本是空的")
			return nil
		}
		for _, m := range list.Items {
			fmt.Printf("%s  [%s/%s]  %s\n", m.ID, m.Subject, m.Grade, m.QuestionText)
			if len(m.KnowledgePoints) > 0 {
				fmt.Printf("    知识点：%s\n", strings.Join(m.KnowledgePoints, "、"))
			}
		}
		return nil
	},
}

var mistakesDeleteCmd = &cobra.Command{
	Use:   "delete <错题 id>",
	Short: "删除一条错题",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := services.Mistake.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println("已删除")
		return nil
	},
}

var mistakesStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "错题统计摘要",
	RunE: func(cmd *cobra.Command, args []string) error {
		stats, err := services.Mistake.Stats(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("错题总数：%d，练习题总数：%d\n", stats.TotalMistakes, stats.TotalQuestions)
		for subject, n := range stats.BySubject {
			fmt.Printf("  %s：%d\n", subject, n)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mistakesCmd)
	mistakesCmd.AddCommand(mistakesListCmd)
	mistakesCmd.AddCommand(mistakesDeleteCmd)
	mistakesCmd.AddCommand(mistakesStatsCmd)
	mistakesListCmd.Flags().StringVar(&mistakeSubject, "subject", "", "学科")
	mistakesListCmd.Flags().StringVar(&mistakeGrade, "grade", "", "年级")
}
