package config

var storeConf Store

// Store 会话存储配置。backend 取 local / redis / remote。
type Store struct {
	Backend     string `mapstructure:"backend"`
	Dir         string `mapstructure:"dir"`
	MaxSessions int    `mapstructure:"maxSessions"`
	RedisAddr   string `mapstructure:"redisAddr"`
	RedisDB     int    `mapstructure:"redisDb"`
	RedisPass   string `mapstructure:"redisPassword"`
}

func GetStoreConf() Store {
	return storeConf
}
