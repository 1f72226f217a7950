package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homework-agent/internal/app/models"
	"homework-agent/internal/app/repositories"
	"homework-agent/internal/app/transport"
	"homework-agent/internal/pkg/stubserver"
	"homework-agent/pkg/config"
)

func writeTestImage(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 400, 400))
	for y := 0; y < 400; y++ {
		for x := 0; x < 400; x++ {
			img.Set(x, y, color.Gray{Y: uint8((x + y) % 256)})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	path := filepath.Join(t.TempDir(), "sheet.png")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func newSheetService(t *testing.T) (*SheetService, repositories.SessionStore) {
	t.Helper()
	srv := httptest.NewServer(stubserver.New().Engine())
	t.Cleanup(srv.Close)

	client := transport.NewClient(config.Backend{BaseURL: srv.URL, TimeoutSeconds: 5})
	store, err := repositories.NewLocalSessionStore(config.Store{Dir: t.TempDir()})
	require.NoError(t, err)
	return NewSheetService(client, store), store
}

func TestSheetProcessAndSolveAll(t *testing.T) {
	sheet, store := newSheetService(t)
	ctx := context.Background()

	resp, err := sheet.Process(ctx, models.ModeSolve, writeTestImage(t))
	require.NoError(t, err)
	require.Len(t, resp.Questions, 2)
	for _, q := range resp.Questions {
		assert.NotEmpty(t, q.ID)
	}

	results := sheet.SolveAll(ctx, models.ModeSolve, resp.Questions)
	require.Len(t, results, 2)

	sessionIDs := make(map[string]bool)
	for _, r := range results {
		require.NoError(t, r.Err)
		require.NotNil(t, r.Session)
		require.Len(t, r.Session.Messages, 2)
		sessionIDs[r.Session.SessionID] = true
	}
	// 每道题各自独立的会话
	assert.Len(t, sessionIDs, 2)

	saved, err := store.List(ctx, models.ModeSolve)
	require.NoError(t, err)
	assert.Len(t, saved, 2)
}

func TestSheetProcessRejectsBadImage(t *testing.T) {
	sheet, _ := newSheetService(t)

	path := filepath.Join(t.TempDir(), "not-image.txt")
	require.NoError(t, os.WriteFile(path, []byte("plain text"), 0o644))

	_, err := sheet.Process(context.Background(), models.ModeSolve, path)
	assert.Error(t, err)
}

// 整页拆题请求必须带当前模式的整页起始提示语，图片只发纯 base64
func TestSheetProcessSendsModePromptAndBareImage(t *testing.T) {
	var captured models.SheetRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		_ = json.NewEncoder(w).Encode(models.SheetResponse{
			Questions:  []models.SheetQuestion{{ID: "q-1", ImageBase64: captured.ImageBase64}},
			TotalCount: 1,
		})
	}))
	t.Cleanup(srv.Close)

	client := transport.NewClient(config.Backend{BaseURL: srv.URL, TimeoutSeconds: 5})
	store, err := repositories.NewLocalSessionStore(config.Store{Dir: t.TempDir()})
	require.NoError(t, err)
	sheet := NewSheetService(client, store)

	_, err = sheet.Process(context.Background(), models.ModeReview, writeTestImage(t))
	require.NoError(t, err)

	wantPrompt, err := BuildInitialPrompt(models.ModeReview, models.SolveTypeFull, "")
	require.NoError(t, err)
	assert.Equal(t, wantPrompt, captured.Prompt)

	assert.NotEmpty(t, captured.ImageBase64)
	assert.False(t, strings.HasPrefix(captured.ImageBase64, "data:"))
	_, decodeErr := base64.StdEncoding.DecodeString(captured.ImageBase64)
	assert.NoError(t, decodeErr)
}
