package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripDataURLPrefix(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"data:image/png;base64,aGVsbG8=", "aGVsbG8="},
		{"data:image/jpeg;base64,QUJD", "QUJD"},
		// 已是纯 base64 时原样返回
		{"aGVsbG8=", "aGVsbG8="},
		{"", ""},
		// 非 data-URL 但含逗号的内容不能被截断
		{"a,b", "a,b"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, StripDataURLPrefix(c.in), "input %q", c.in)
	}
}

func TestDataURLRoundTrip(t *testing.T) {
	raw := []byte{0x89, 'P', 'N', 'G'}
	dataURL := EncodeDataURL("image/png", raw)
	assert.True(t, IsDataURL(dataURL))

	mimeType, decoded, err := DecodeDataURL(dataURL)
	require.NoError(t, err)
	assert.Equal(t, "image/png", mimeType)
	assert.Equal(t, raw, decoded)

	_, _, err = DecodeDataURL("aGVsbG8=")
	assert.Error(t, err)
}

func TestTemplateFillerFill(t *testing.T) {
	filler := NewTemplateFiller()

	got := filler.Fill("请只解答：{{question}}", "{{question}}", "第 3 题")
	assert.Equal(t, "请只解答：第 3 题", got)

	// 多组占位符成对替换，落单的最后一项忽略
	got = filler.Fill("{{a}}-{{b}}", "{{a}}", "1", "{{b}}", "2", "{{c}}")
	assert.Equal(t, "1-2", got)

	assert.Equal(t, "无占位符", filler.Fill("无占位符"))
}
