// Package imaging 将用户选择的题目图片转换为可传输、可回显的形态：
// 读取文件生成预览 data-URL，可选地按界面坐标裁剪出 PNG。
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"os"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"homework-agent/pkg/util"
)

var (
	// ErrNoCropSelected 裁剪框宽或高为零，未发起任何网络调用
	ErrNoCropSelected = errors.New("请先在图片上拖动以选择一个裁剪区域")
	// ErrImageTooSmall 图片低于可识别的最小分辨率
	ErrImageTooSmall = errors.New("图片尺寸过小，建议至少 300x300 像素")
	// ErrImageTooLarge 图片超过上传上限
	ErrImageTooLarge = errors.New("图片文件过大，超过 10MB")
)

const (
	minNaturalSide  = 300
	maxUploadBytes  = 10 * 1024 * 1024
	previewMIMEType = "image/png"
)

// Capture 一张已通过预检的题目图片
type Capture struct {
	Data          []byte
	MIMEType      string
	NaturalWidth  int
	NaturalHeight int
}

// CropRect 界面坐标系下的裁剪框
type CropRect struct {
	X, Y, W, H float64
}

// DisplaySize 图片在界面上的显示尺寸，用于换算到原始像素
type DisplaySize struct {
	W, H float64
}

// CropResult 裁剪输出：PNG 字节与用于回显的 data-URL
type CropResult struct {
	PNG     []byte
	DataURL string
	Width   int
	Height  int
}

// Load 读取图片文件并做上传前预检（分辨率下限、体积上限）
func Load(path string) (*Capture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read image file: %w", err)
	}
	return FromBytes(data)
}

// FromBytes 对内存中的图片做同样的预检
func FromBytes(data []byte) (*Capture, error) {
	if len(data) > maxUploadBytes {
		return nil, ErrImageTooLarge
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	if cfg.Width < minNaturalSide || cfg.Height < minNaturalSide {
		return nil, ErrImageTooSmall
	}
	return &Capture{
		Data:          data,
		MIMEType:      "image/" + format,
		NaturalWidth:  cfg.Width,
		NaturalHeight: cfg.Height,
	}, nil
}

// DataURL 原图的预览 data-URL
func (c *Capture) DataURL() string {
	return util.EncodeDataURL(c.MIMEType, c.Data)
}

// FileName 上传表单里使用的文件名，扩展名取自图片格式
func (c *Capture) FileName() string {
	ext := strings.TrimPrefix(c.MIMEType, "image/")
	if ext == "" {
		ext = "png"
	}
	return "upload." + ext
}
