package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestFromBytesPreflight(t *testing.T) {
	t.Run("accepts normal image", func(t *testing.T) {
		capture, err := FromBytes(encodePNG(t, 400, 320))
		require.NoError(t, err)
		assert.Equal(t, 400, capture.NaturalWidth)
		assert.Equal(t, 320, capture.NaturalHeight)
		assert.Equal(t, "image/png", capture.MIMEType)
	})

	t.Run("rejects too small", func(t *testing.T) {
		_, err := FromBytes(encodePNG(t, 200, 400))
		assert.ErrorIs(t, err, ErrImageTooSmall)
	})

	t.Run("rejects oversized payload", func(t *testing.T) {
		_, err := FromBytes(make([]byte, maxUploadBytes+1))
		assert.ErrorIs(t, err, ErrImageTooLarge)
	})

	t.Run("rejects non image", func(t *testing.T) {
		_, err := FromBytes([]byte("not an image at all"))
		assert.Error(t, err)
	})
}

func TestCropScalesDisplayCoordinates(t *testing.T) {
	// 原图 800x600，界面显示 400x300，缩放比为 2
	capture, err := FromBytes(encodePNG(t, 800, 600))
	require.NoError(t, err)

	result, err := capture.Crop(
		CropRect{X: 10, Y: 20, W: 100, H: 50},
		DisplaySize{W: 400, H: 300},
	)
	require.NoError(t, err)
	assert.Equal(t, 200, result.Width)
	assert.Equal(t, 100, result.Height)

	decoded, _, err := image.Decode(bytes.NewReader(result.PNG))
	require.NoError(t, err)
	assert.Equal(t, 200, decoded.Bounds().Dx())
	assert.Equal(t, 100, decoded.Bounds().Dy())
}

func TestCropFloorsFractionalDimensions(t *testing.T) {
	capture, err := FromBytes(encodePNG(t, 500, 500))
	require.NoError(t, err)

	// 缩放比 500/333，100*1.5015 = 150.15 -> 150
	result, err := capture.Crop(
		CropRect{X: 0, Y: 0, W: 100, H: 100},
		DisplaySize{W: 333, H: 333},
	)
	require.NoError(t, err)
	assert.Equal(t, 150, result.Width)
	assert.Equal(t, 150, result.Height)
}

func TestCropRejectsEmptySelection(t *testing.T) {
	capture, err := FromBytes(encodePNG(t, 400, 400))
	require.NoError(t, err)

	for _, sel := range []CropRect{
		{X: 10, Y: 10, W: 0, H: 50},
		{X: 10, Y: 10, W: 50, H: 0},
		{},
	} {
		_, err := capture.Crop(sel, DisplaySize{W: 400, H: 400})
		assert.ErrorIs(t, err, ErrNoCropSelected)
	}
}

func TestCropResultDataURL(t *testing.T) {
	capture, err := FromBytes(encodePNG(t, 400, 400))
	require.NoError(t, err)

	result, err := capture.Crop(CropRect{W: 100, H: 100}, DisplaySize{W: 400, H: 400})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(result.DataURL, "data:image/png;base64,"))
}

func TestCaptureFileName(t *testing.T) {
	capture, err := FromBytes(encodePNG(t, 400, 400))
	require.NoError(t, err)
	assert.Equal(t, "upload.png", capture.FileName())
}
