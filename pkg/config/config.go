package config

import (
	"fmt"
	"sync"

	"github.com/spf13/viper"
)

var loadOnce sync.Once

var runMode string

// Init 加载配置文件并填充各分项配置。
// path 为空时按默认位置查找 config.yaml。
func Init(path string) error {
	var err error
	loadOnce.Do(func() {
		v := viper.New()
		if path != "" {
			v.SetConfigFile(path)
		} else {
			v.SetConfigName("config")
			v.SetConfigType("yaml")
			v.AddConfigPath(".")
			v.AddConfigPath("./configs")
			v.AddConfigPath("$HOME/.homework-agent")
		}
		v.SetEnvPrefix("AGENT")
		v.AutomaticEnv()

		setDefaults(v)

		if readErr := v.ReadInConfig(); readErr != nil {
			// 配置文件可缺省，全部走默认值；显式指定路径时缺失仍然报错
			if _, notFound := readErr.(viper.ConfigFileNotFoundError); !notFound || path != "" {
				err = fmt.Errorf("read config: %w", readErr)
				return
			}
		}

		runMode = v.GetString("runMode")

		if err = v.UnmarshalKey("backend", &backendConf); err != nil {
			err = fmt.Errorf("unmarshal backend config: %w", err)
			return
		}
		if err = v.UnmarshalKey("store", &storeConf); err != nil {
			err = fmt.Errorf("unmarshal store config: %w", err)
			return
		}
		if err = v.UnmarshalKey("render", &renderConf); err != nil {
			err = fmt.Errorf("unmarshal render config: %w", err)
			return
		}
	})
	return err
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("runMode", "dev")
	v.SetDefault("backend.baseUrl", "http://127.0.0.1:8000")
	v.SetDefault("backend.timeoutSeconds", 120)
	v.SetDefault("backend.generateTimeoutSeconds", 300)
	v.SetDefault("backend.exportTimeoutSeconds", 30)
	v.SetDefault("store.backend", "local")
	// dir 缺省时在运行期落到 $HOME/.homework-agent
	v.SetDefault("store.dir", "")
	v.SetDefault("store.maxSessions", 50)
	v.SetDefault("store.redisAddr", "127.0.0.1:6379")
	v.SetDefault("render.typesetTimeoutSeconds", 10)
}

func GetRunMode() string {
	return runMode
}
