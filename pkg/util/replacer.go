package util

import "strings"

// TemplateFiller 提示语模板的占位符填充接口
type TemplateFiller interface {
	// Fill 按 (占位符, 值) 成对替换模板中的占位符
	Fill(template string, pairs ...string) string
}

// simpleTemplateFiller 基于 strings.ReplaceAll 的默认实现
type simpleTemplateFiller struct{}

// NewTemplateFiller 创建默认的模板填充器
func NewTemplateFiller() TemplateFiller {
	return simpleTemplateFiller{}
}

// Fill 逐对替换；pairs 数量为奇数时忽略最后一个
func (simpleTemplateFiller) Fill(template string, pairs ...string) string {
	for i := 0; i+1 < len(pairs); i += 2 {
		template = strings.ReplaceAll(template, pairs[i], pairs[i+1])
	}
	return template
}
