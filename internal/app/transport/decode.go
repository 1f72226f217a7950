package transport

import (
	"encoding/json"
	"strings"
)

// solveEnvelope /solve 与 /review 的对象形态
type solveEnvelope struct {
	Solution string `json:"solution"`
	Review   string `json:"review"`
}

// decodeSolveBody 早期后端直接返回字符串，后期返回 {solution} 或
// {review}。此处显式判别，未知形态一律报解码错误，不做 typeof 式猜测。
func decodeSolveBody(endpoint string, body []byte) (string, error) {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return "", &DecodeError{Endpoint: endpoint, Body: trimmed}
	}

	switch trimmed[0] {
	case '{':
		var env solveEnvelope
		if err := json.Unmarshal(body, &env); err != nil {
			return "", &DecodeError{Endpoint: endpoint, Body: trimmed}
		}
		if env.Solution != "" {
			return env.Solution, nil
		}
		if env.Review != "" {
			return env.Review, nil
		}
		return "", &DecodeError{Endpoint: endpoint, Body: trimmed}
	case '"':
		var s string
		if err := json.Unmarshal(body, &s); err != nil || s == "" {
			return "", &DecodeError{Endpoint: endpoint, Body: trimmed}
		}
		return s, nil
	default:
		return "", &DecodeError{Endpoint: endpoint, Body: trimmed}
	}
}
