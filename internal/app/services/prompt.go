package services

import (
	"errors"
	"strings"

	"homework-agent/internal/app/models"
	"homework-agent/pkg/util"
)

// ErrEmptySpecificQuestion 指定题目模式下未填写题目信息
var ErrEmptySpecificQuestion = errors.New("请输入你要指定的题目信息。")

// 首轮提示语。指定题目模式使用模板，发送前替换占位符。
const (
	promptSolveSingle  = "请认真审题并详细解答，写出完整的解题过程和思路。"
	promptSolveFull    = "请逐题解答，每道题都要写出详细的解题步骤和思路。"
	promptReviewSingle = "请认真批改这道题目，指出答案中的对错，如果答案错误就给出正确解法，回答正确就不用多说。"
	promptReviewFull   = "请逐题批改，对每道题的答案指出答案中的对错，如果答案错误就给出正确解法，回答正确就不用多说。"

	promptSolveSpecificTpl  = "请只解答以下指定的题目，写出详细步骤：{{question}}"
	promptReviewSpecificTpl = "请只批改以下指定的题目，指出答案中的对错，如果答案错误就给出正确解法，回答正确就不用多说：{{question}}"
)

var promptFiller util.TemplateFiller = util.NewTemplateFiller()

// BuildInitialPrompt 按模式与题目范围合成首轮提示语
func BuildInitialPrompt(mode models.Mode, solveType models.SolveType, specificQuestion string) (string, error) {
	if solveType == models.SolveTypeSpecific {
		question := strings.TrimSpace(specificQuestion)
		if question == "" {
			return "", ErrEmptySpecificQuestion
		}
		tpl := promptSolveSpecificTpl
		if mode == models.ModeReview {
			tpl = promptReviewSpecificTpl
		}
		return promptFiller.Fill(tpl, "{{question}}", question), nil
	}

	switch mode {
	case models.ModeReview:
		if solveType == models.SolveTypeFull {
			return promptReviewFull, nil
		}
		return promptReviewSingle, nil
	default:
		if solveType == models.SolveTypeFull {
			return promptSolveFull, nil
		}
		return promptSolveSingle, nil
	}
}
