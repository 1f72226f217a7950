// Package render 把后端返回的 Markdown+LaTeX 文本转成 HTML。
// 输入默认可信（只接受本系统后端的输出），不做净化；
// 在不可信环境中复用本包时必须另加消毒。
package render

import (
	"context"
	"html"
	"strings"

	"github.com/russross/blackfriday/v2"
	log "github.com/sirupsen/logrus"
)

// Pipeline Markdown 渲染与公式排版的组合管线
type Pipeline struct {
	ts Typesetter
}

func NewPipeline(ts Typesetter) *Pipeline {
	if ts == nil {
		ts = NoopTypesetter{}
	}
	return &Pipeline{ts: ts}
}

// Render 渲染单条消息。公式片段先从正文抽出，避开 Markdown 的
// 强调/转义规则，渲染完成后只对这些新片段做排版。
// 任何一步失败都降级为纯文本换行展示，不向上抛错。
func (p *Pipeline) Render(ctx context.Context, markdown string) string {
	normalized := NormalizeLaTeX(markdown)
	plain, segments := splitMath(normalized)

	htmlBody, ok := p.markdownToHTML(plain)
	if !ok {
		return plainFallback(normalized)
	}

	rendered := p.typesetSegments(ctx, segments)
	for i, seg := range rendered {
		htmlBody = strings.Replace(htmlBody, mathToken(i), seg, 1)
	}
	return htmlBody
}

// markdownToHTML 渲染 Markdown；blackfriday 对畸形输入的 panic
// 在此兜住，按消息粒度降级而不是让整个界面失败。
func (p *Pipeline) markdownToHTML(text string) (out string, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("markdown render panic: %v", r)
			out, ok = "", false
		}
	}()
	rendered := blackfriday.Run([]byte(text),
		blackfriday.WithExtensions(blackfriday.CommonExtensions|blackfriday.HardLineBreak))
	return string(rendered), true
}

// typesetSegments 对公式片段做排版；引擎不可用时保留原始定界符文本
func (p *Pipeline) typesetSegments(ctx context.Context, segments []string) []string {
	if len(segments) == 0 {
		return nil
	}
	rendered, err := p.ts.Typeset(ctx, segments)
	if err != nil {
		if err == ErrTypesetterUnavailable {
			log.Debug("typesetter unavailable, keeping raw LaTeX")
		} else {
			log.Warnf("typeset failed, keeping raw LaTeX: %v", err)
		}
		escaped := make([]string, len(segments))
		for i, seg := range segments {
			escaped[i] = `<span class="math">` + html.EscapeString(seg) + `</span>`
		}
		return escaped
	}
	return rendered
}

func plainFallback(text string) string {
	return strings.ReplaceAll(html.EscapeString(text), "\n", "<br/>")
}
