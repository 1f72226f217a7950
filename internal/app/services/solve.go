package services

import (
	"context"

	"homework-agent/internal/app/imaging"
	"homework-agent/internal/app/transport"
)

// SolveService 单次解题与批改，不建立会话
type SolveService struct {
	client *transport.Client
}

func NewSolveService(client *transport.Client) *SolveService {
	return &SolveService{client: client}
}

// Solve 上传题目图片获取一次性解答
func (s *SolveService) Solve(ctx context.Context, imagePath string) (string, error) {
	capture, err := imaging.Load(imagePath)
	if err != nil {
		return "", err
	}
	return s.client.Solve(ctx, capture.FileName(), capture.Data)
}

// Review 上传含答案的图片获取一次性批改
func (s *SolveService) Review(ctx context.Context, imagePath string) (string, error) {
	capture, err := imaging.Load(imagePath)
	if err != nil {
		return "", err
	}
	return s.client.Review(ctx, capture.FileName(), capture.Data)
}
