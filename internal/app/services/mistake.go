package services

import (
	"context"
	"errors"

	"homework-agent/internal/app/models"
	"homework-agent/internal/app/transport"
)

// MistakeService 错题本与练习题管理
type MistakeService struct {
	client *transport.Client
}

func NewMistakeService(client *transport.Client) *MistakeService {
	return &MistakeService{client: client}
}

// List 按学科与年级筛选错题
func (s *MistakeService) List(ctx context.Context, filter models.MistakeFilter) (*models.MistakeList, error) {
	return s.client.ListMistakes(ctx, filter)
}

// Delete 删除一条错题
func (s *MistakeService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return errors.New("错题 id 不能为空")
	}
	return s.client.DeleteMistake(ctx, id)
}

// Stats 错题统计摘要（按学科、知识点分布）
func (s *MistakeService) Stats(ctx context.Context) (*models.MistakeStats, error) {
	return s.client.MistakeStats(ctx)
}

// Generate 基于选中的错题生成练习题
func (s *MistakeService) Generate(ctx context.Context, req models.GenerateQuestionsRequest) (*models.GenerateQuestionsResponse, error) {
	if len(req.MistakeIDs) == 0 {
		return nil, errors.New("请先选择要练习的错题")
	}
	return s.client.GenerateQuestions(ctx, req)
}

// Questions 已生成的练习题列表
func (s *MistakeService) Questions(ctx context.Context) (*models.QuestionList, error) {
	return s.client.ListQuestions(ctx)
}

// DeleteQuestion 删除一道练习题
func (s *MistakeService) DeleteQuestion(ctx context.Context, id string) error {
	if id == "" {
		return errors.New("练习题 id 不能为空")
	}
	return s.client.DeleteQuestion(ctx, id)
}

// ExportPDF 将练习题导出为 PDF 试卷
func (s *MistakeService) ExportPDF(ctx context.Context, req models.ExportPDFRequest, outputPath string) error {
	if len(req.QuestionIDs) == 0 {
		return errors.New("请先选择要导出的题目")
	}
	return s.client.ExportPDF(ctx, req, outputPath)
}
