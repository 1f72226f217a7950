package services

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homework-agent/internal/app/models"
	"homework-agent/internal/app/transport"
	"homework-agent/internal/pkg/stubserver"
	"homework-agent/pkg/config"
)

func newMistakeService(t *testing.T) *MistakeService {
	t.Helper()
	srv := httptest.NewServer(stubserver.New().Engine())
	t.Cleanup(srv.Close)
	client := transport.NewClient(config.Backend{
		BaseURL:                srv.URL,
		TimeoutSeconds:         5,
		GenerateTimeoutSeconds: 5,
		ExportTimeoutSeconds:   5,
	})
	return NewMistakeService(client)
}

func TestMistakeListAndFilter(t *testing.T) {
	svc := newMistakeService(t)
	ctx := context.Background()

	all, err := svc.List(ctx, models.MistakeFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, all.Total)

	filtered, err := svc.List(ctx, models.MistakeFilter{Subject: "数学", Grade: "七年级"})
	require.NoError(t, err)
	assert.Equal(t, 2, filtered.Total)

	empty, err := svc.List(ctx, models.MistakeFilter{Subject: "英语"})
	require.NoError(t, err)
	assert.Zero(t, empty.Total)
}

func TestMistakeDelete(t *testing.T) {
	svc := newMistakeService(t)
	ctx := context.Background()

	require.NoError(t, svc.Delete(ctx, "m-1"))

	list, err := svc.List(ctx, models.MistakeFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, list.Total)

	assert.Error(t, svc.Delete(ctx, "m-1"))
	assert.Error(t, svc.Delete(ctx, ""))
}

func TestMistakeStats(t *testing.T) {
	svc := newMistakeService(t)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalMistakes)
	assert.Equal(t, 2, stats.BySubject["数学"])
	assert.Equal(t, 1, stats.ByKnowledgePnt["一元一次方程"])
}

func TestGenerateQuestions(t *testing.T) {
	svc := newMistakeService(t)
	ctx := context.Background()

	resp, err := svc.Generate(ctx, models.GenerateQuestionsRequest{
		MistakeIDs: []string{"m-1", "m-2"},
		Count:      2,
		Difficulty: "easy",
	})
	require.NoError(t, err)
	require.Len(t, resp.Questions, 2)
	for _, q := range resp.Questions {
		assert.NotEmpty(t, q.ID)
		assert.Equal(t, "easy", q.Difficulty)
	}

	// 生成的题目进入练习题列表
	list, err := svc.Questions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, list.Total)

	_, err = svc.Generate(ctx, models.GenerateQuestionsRequest{})
	assert.Error(t, err)
}

func TestExportPDFWritesFile(t *testing.T) {
	svc := newMistakeService(t)
	out := filepath.Join(t.TempDir(), "paper.pdf")

	err := svc.ExportPDF(context.Background(), models.ExportPDFRequest{
		QuestionIDs: []string{"q-1"},
		Title:       "练习试卷",
	}, out)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, len(data) > 0)
	assert.Contains(t, string(data), "%PDF")
}

func TestExportPDFRequiresQuestions(t *testing.T) {
	svc := newMistakeService(t)
	err := svc.ExportPDF(context.Background(), models.ExportPDFRequest{}, "out.pdf")
	assert.Error(t, err)
}
