package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"math"

	"golang.org/x/image/draw"

	"homework-agent/pkg/util"
)

// Crop 按界面坐标裁剪出原始分辨率的区域。
// 界面坐标先按 naturalWidth/displayWidth、naturalHeight/displayHeight
// 缩放到原始像素，输出尺寸为 floor(w*scaleX) x floor(h*scaleY)。
func (c *Capture) Crop(sel CropRect, display DisplaySize) (*CropResult, error) {
	if sel.W <= 0 || sel.H <= 0 {
		return nil, ErrNoCropSelected
	}
	if display.W <= 0 || display.H <= 0 {
		return nil, fmt.Errorf("invalid display size %gx%g", display.W, display.H)
	}

	src, _, err := image.Decode(bytes.NewReader(c.Data))
	if err != nil {
		return nil, fmt.Errorf("decode image for crop: %w", err)
	}

	scaleX := float64(c.NaturalWidth) / display.W
	scaleY := float64(c.NaturalHeight) / display.H

	outW := int(math.Floor(sel.W * scaleX))
	outH := int(math.Floor(sel.H * scaleY))
	if outW <= 0 || outH <= 0 {
		return nil, ErrNoCropSelected
	}

	srcX := int(math.Floor(sel.X * scaleX))
	srcY := int(math.Floor(sel.Y * scaleY))

	bounds := src.Bounds()
	srcRect := image.Rect(srcX, srcY, srcX+outW, srcY+outH).
		Add(bounds.Min).
		Intersect(bounds)
	if srcRect.Empty() {
		return nil, ErrNoCropSelected
	}

	dst := image.NewRGBA(image.Rect(0, 0, outW, outH))
	draw.Copy(dst, image.Point{}, src, srcRect, draw.Src, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("encode cropped png: %w", err)
	}

	return &CropResult{
		PNG:     buf.Bytes(),
		DataURL: util.EncodeDataURL(previewMIMEType, buf.Bytes()),
		Width:   outW,
		Height:  outH,
	}, nil
}
