package render

import (
	"regexp"
	"strconv"
	"strings"
)

// 后端回答里偶发的模板化开场白和标题，展示前统一剥掉
var boilerplate = []string{
	"### 解题详情：",
	"### 题目解答",
	"### 解题步骤",
	"好的，同学，我们一起来看这个问题。",
	"好的，同学，我们一起来解决这个问题。",
}

var (
	displayMathRe = regexp.MustCompile(`\\\[([\s\S]*?)\\\]`)
	inlineMathRe  = regexp.MustCompile(`\\\(([\s\S]*?)\\\)`)
	mathSegmentRe = regexp.MustCompile(`\$\$[\s\S]*?\$\$|\$[^$\n]+?\$`)
)

// NormalizeLaTeX 把后端回答中的各种公式定界符统一为 $ / $$，
// 并剥掉模板化的开场白，保证 Markdown 渲染不破坏公式。
func NormalizeLaTeX(text string) string {
	out := text
	for _, b := range boilerplate {
		out = strings.ReplaceAll(out, b, "")
	}
	out = displayMathRe.ReplaceAllString(out, "$$$$${1}$$$$")
	out = inlineMathRe.ReplaceAllString(out, "$$${1}$$")
	return strings.TrimSpace(out)
}

// splitMath 抽出全部公式片段，原文位置用占位符替换。
// 返回替换后的文本与按序排列的公式片段。
func splitMath(text string) (string, []string) {
	var segments []string
	replaced := mathSegmentRe.ReplaceAllStringFunc(text, func(seg string) string {
		segments = append(segments, seg)
		return mathToken(len(segments) - 1)
	})
	return replaced, segments
}

func mathToken(i int) string {
	return "\x00MATH" + strconv.Itoa(i) + "\x00"
}
