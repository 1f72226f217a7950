package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"homework-agent/internal/app/imaging"
	"homework-agent/internal/app/models"
	"homework-agent/internal/app/render"
	"homework-agent/internal/app/services"
	"homework-agent/internal/app/transport"
)

var (
	chatMode     string
	chatType     string
	chatQuestion string
	chatCrop     string
	chatDisplay  string
	chatHTMLOut  string
)

var chatCmd = &cobra.Command{
	Use:   "chat <图片路径>",
	Short: "上传题目图片开启多轮问答",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd.Context(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().StringVarP(&chatMode, "mode", "m", "solve", "模式：solve 解题 / review 批改")
	chatCmd.Flags().StringVarP(&chatType, "type", "t", "single", "范围：single 单题 / full 整页 / specific 指定题目")
	chatCmd.Flags().StringVarP(&chatQuestion, "question", "q", "", "指定题目的描述（--type specific 时必填）")
	chatCmd.Flags().StringVar(&chatCrop, "crop", "", "裁剪框 x,y,w,h（界面坐标）")
	chatCmd.Flags().StringVar(&chatDisplay, "display", "", "图片的显示尺寸 w,h，配合 --crop 换算到原始像素")
	chatCmd.Flags().StringVar(&chatHTMLOut, "html-out", "", "每轮把最新回答渲染成 HTML 写入该文件")
}

func runChat(ctx context.Context, imagePath string) error {
	imageDataURL, err := prepareImage(imagePath, chatCrop, chatDisplay)
	if err != nil {
		return err
	}

	chat := services.Chat
	sess, err := chat.Start(ctx, models.Mode(chatMode), models.SolveType(chatType), chatQuestion, imageDataURL)
	if err != nil {
		return err
	}
	printLastAnswer(sess)
	writeAnswerHTML(ctx, sess)

	// 追问循环，空行或 /quit 退出
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 64*1024), 64*1024)
	for {
		fmt.Print("\n你: ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line == "/quit" {
			return nil
		}

		sess, err = chat.Send(ctx, line)
		if err != nil {
			if errors.Is(err, transport.ErrSessionExpired) {
				fmt.Println("会话已过期，即将返回……")
				time.Sleep(3 * time.Second)
				return nil
			}
			fmt.Fprintf(os.Stderr, "发送失败: %v\n", err)
			continue
		}
		printLastAnswer(sess)
		writeAnswerHTML(ctx, sess)
	}
}

// writeAnswerHTML 把最新一条回答经渲染管线写成 HTML 文件
func writeAnswerHTML(ctx context.Context, sess *models.ChatSession) {
	if chatHTMLOut == "" || sess == nil || len(sess.Messages) == 0 {
		return
	}
	last := sess.Messages[len(sess.Messages)-1]
	html := render.NewPipeline(newTypesetter()).Render(ctx, last.Content)
	if err := os.WriteFile(chatHTMLOut, []byte(html), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "HTML 写入失败: %v\n", err)
	}
}

// prepareImage 读取并预检图片，按需裁剪，输出上传用的 data-URL
func prepareImage(imagePath, cropSpec, displaySpec string) (string, error) {
	capture, err := imaging.Load(imagePath)
	if err != nil {
		return "", err
	}
	if cropSpec == "" {
		return capture.DataURL(), nil
	}

	var sel imaging.CropRect
	if _, err := fmt.Sscanf(cropSpec, "%f,%f,%f,%f", &sel.X, &sel.Y, &sel.W, &sel.H); err != nil {
		return "", fmt.Errorf("裁剪框格式错误，应为 x,y,w,h: %w", err)
	}
	display := imaging.DisplaySize{
		W: float64(capture.NaturalWidth),
		H: float64(capture.NaturalHeight),
	}
	if displaySpec != "" {
		if _, err := fmt.Sscanf(displaySpec, "%f,%f", &display.W, &display.H); err != nil {
			return "", fmt.Errorf("显示尺寸格式错误，应为 w,h: %w", err)
		}
	}
	result, err := capture.Crop(sel, display)
	if err != nil {
		return "", err
	}
	return result.DataURL, nil
}

func printLastAnswer(sess *models.ChatSession) {
	if sess == nil || len(sess.Messages) == 0 {
		return
	}
	last := sess.Messages[len(sess.Messages)-1]
	fmt.Printf("\n[%s] %s\n\n%s\n", sess.Title, time.Now().Format("15:04"), last.Content)
}
