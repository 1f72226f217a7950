package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"homework-agent/internal/app/models"
	"homework-agent/internal/app/services"
)

var (
	generateCount      int
	generateDifficulty string
	generateWebSearch  bool
	exportTitle        string
	exportAnswers      bool
	exportOut          string
)

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "基于错题的练习题",
}

var questionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "列出已生成的练习题",
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := services.Mistake.Questions(cmd.Context())
		if err != nil {
			return err
		}
		if list.Total == 0 {
			fmt.Println("还没有生成过练习题")
			return nil
		}
		for _, q := range list.Items {
			fmt.Printf("%s  [%s]  %s\n", q.ID, q.Difficulty, q.Content)
		}
		return nil
	},
}

var questionsGenerateCmd = &cobra.Command{
	Use:   "generate <错题 id>...",
	Short: "基于选中的错题生成练习题（耗时较长）",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("正在生成练习题，可能需要几分钟……")
		resp, err := services.Mistake.Generate(cmd.Context(), models.GenerateQuestionsRequest{
			MistakeIDs:     args,
			Count:          generateCount,
			Difficulty:     generateDifficulty,
			AllowWebSearch: generateWebSearch,
		})
		if err != nil {
			return err
		}
		fmt.Printf("生成了 %d 道练习题：\n", len(resp.Questions))
		for _, q := range resp.Questions {
			fmt.Printf("  %s  %s\n", q.ID, q.Content)
		}
		return nil
	},
}

var questionsDeleteCmd = &cobra.Command{
	Use:   "delete <练习题 id>",
	Short: "删除一道练习题",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := services.Mistake.DeleteQuestion(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println("已删除")
		return nil
	},
}

var questionsExportCmd = &cobra.Command{
	Use:   "export <练习题 id>...",
	Short: "把练习题导出为 PDF 试卷",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		err := services.Mistake.ExportPDF(cmd.Context(), models.ExportPDFRequest{
			QuestionIDs:    args,
			Title:          exportTitle,
			IncludeAnswers: exportAnswers,
		}, exportOut)
		if err != nil {
			return err
		}
		fmt.Printf("试卷已导出到 %s\n", exportOut)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(questionsCmd)
	questionsCmd.AddCommand(questionsListCmd)
	questionsCmd.AddCommand(questionsGenerateCmd)
	questionsCmd.AddCommand(questionsDeleteCmd)
	questionsCmd.AddCommand(questionsExportCmd)

	questionsGenerateCmd.Flags().IntVar(&generateCount, "count", 3, "生成题目数量")
	questionsGenerateCmd.Flags().StringVar(&generateDifficulty, "difficulty", "medium", "难度：easy / medium / hard")
	questionsGenerateCmd.Flags().BoolVar(&generateWebSearch, "web-search", false, "允许联网检索相似题")

	questionsExportCmd.Flags().StringVar(&exportTitle, "title", "练习试卷", "试卷标题")
	questionsExportCmd.Flags().BoolVar(&exportAnswers, "answers", false, "附带答案与解析")
	questionsExportCmd.Flags().StringVar(&exportOut, "out", "paper.pdf", "输出文件路径")
}
