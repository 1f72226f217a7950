package config

var renderConf Render

// Render 渲染管线配置。TypesetURL 为空时跳过公式排版。
type Render struct {
	TypesetURL            string `mapstructure:"typesetUrl"`
	TypesetTimeoutSeconds int    `mapstructure:"typesetTimeoutSeconds"`
}

func GetRenderConf() Render {
	return renderConf
}
