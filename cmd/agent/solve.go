package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"homework-agent/internal/app/render"
	"homework-agent/internal/app/services"
	"homework-agent/pkg/config"
)

var solveHTMLOut string

var solveCmd = &cobra.Command{
	Use:   "solve <图片路径>",
	Short: "一次性解题，不建立会话",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		answer, err := services.Solve.Solve(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printAnswer(cmd, answer)
	},
}

var reviewCmd = &cobra.Command{
	Use:   "review <图片路径>",
	Short: "一次性批改，不建立会话",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		answer, err := services.Solve.Review(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printAnswer(cmd, answer)
	},
}

func init() {
	rootCmd.AddCommand(solveCmd)
	rootCmd.AddCommand(reviewCmd)
	solveCmd.Flags().StringVar(&solveHTMLOut, "html-out", "", "把回答渲染成 HTML 写入该文件")
	reviewCmd.Flags().StringVar(&solveHTMLOut, "html-out", "", "把回答渲染成 HTML 写入该文件")
}

// printAnswer 终端输出原始 markdown，按需另存渲染后的 HTML
func printAnswer(cmd *cobra.Command, answer string) error {
	fmt.Println(answer)
	if solveHTMLOut == "" {
		return nil
	}
	html := render.NewPipeline(newTypesetter()).Render(cmd.Context(), answer)
	return os.WriteFile(solveHTMLOut, []byte(html), 0o644)
}

func newTypesetter() render.Typesetter {
	conf := config.GetRenderConf()
	if conf.TypesetURL == "" {
		return nil
	}
	return render.NewHTTPTypesetter(conf.TypesetURL, time.Duration(conf.TypesetTimeoutSeconds)*time.Second)
}
