package config

var backendConf Backend

// Backend 后端服务地址与各类调用超时。
// 出题与导出由后端大模型/PDF 渲染完成，耗时远超普通请求，单独配置。
type Backend struct {
	BaseURL                string `mapstructure:"baseUrl"`
	Token                  string `mapstructure:"token"`
	TimeoutSeconds         int    `mapstructure:"timeoutSeconds"`
	GenerateTimeoutSeconds int    `mapstructure:"generateTimeoutSeconds"`
	ExportTimeoutSeconds   int    `mapstructure:"exportTimeoutSeconds"`
}

func GetBackendConf() Backend {
	return backendConf
}
