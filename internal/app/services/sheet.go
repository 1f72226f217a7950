package services

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"

	"homework-agent/internal/app/imaging"
	"homework-agent/internal/app/models"
	"homework-agent/internal/app/repositories"
	"homework-agent/internal/app/transport"
	"homework-agent/pkg/util"
)

// 整页并发解答的最大并行度，避免打爆后端
const sheetConcurrency = 3

// SheetResult 单个题目单元的解答结果
type SheetResult struct {
	QuestionID string
	Session    *models.ChatSession
	Err        error
}

// SheetService 整页拆题并逐题开独立会话解答。
// 各题互不影响，单题失败不中断其余题目。
type SheetService struct {
	client *transport.Client
	store  repositories.SessionStore
}

func NewSheetService(client *transport.Client, store repositories.SessionStore) *SheetService {
	return &SheetService{client: client, store: store}
}

// Process 上传整页图片，由后端切分出各题目单元。
// 后端要求带上整页模式的起始 prompt，按当前模式生成。
func (s *SheetService) Process(ctx context.Context, mode models.Mode, imagePath string) (*models.SheetResponse, error) {
	capture, err := imaging.Load(imagePath)
	if err != nil {
		return nil, err
	}
	prompt, err := BuildInitialPrompt(mode, models.SolveTypeFull, "")
	if err != nil {
		return nil, err
	}
	resp, err := s.client.ProcessSheet(ctx, models.SheetRequest{
		Prompt:      prompt,
		ImageBase64: capture.DataURL(),
	})
	if err != nil {
		return nil, err
	}
	// 后端偶尔不回单元 id，用子图内容的摘要补一个稳定 id
	for i := range resp.Questions {
		if resp.Questions[i].ID == "" {
			resp.Questions[i].ID = util.MD5Hex([]byte(resp.Questions[i].ImageBase64))
		}
	}
	return resp, nil
}

// SolveAll 对拆分出的每个题目单元各开一个会话并发解答
func (s *SheetService) SolveAll(ctx context.Context, mode models.Mode, questions []models.SheetQuestion) []SheetResult {
	results := make([]SheetResult, len(questions))
	sem := make(chan struct{}, sheetConcurrency)
	var wg sync.WaitGroup

	for i := range questions {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			q := questions[i]
			// 后端返回的子图是纯 base64，补成 data-URL 再走会话流程
			imageDataURL := q.ImageBase64
			if !util.IsDataURL(imageDataURL) {
				imageDataURL = "data:image/png;base64," + imageDataURL
			}

			chat := NewChatService(s.client, s.store)
			sess, err := chat.Start(ctx, mode, models.SolveTypeSingle, "", imageDataURL)
			if err != nil {
				log.Warnf("题目 %s 解答失败: %v", q.ID, err)
			}
			results[i] = SheetResult{QuestionID: q.ID, Session: sess, Err: err}
		}(i)
	}
	wg.Wait()
	return results
}
