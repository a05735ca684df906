package config

import (
	"fmt"
	"os"
)

// 永続化の選び方
const (
	StoreDriverFile     = "file"
	StoreDriverPostgres = "postgres"
)

// Configはアプリ全体の設定
type Config struct {
	Port string // サーバーポート（8080）

	StoreDriver string // file / postgres
	StorePath   string // fileドライバのJSONファイルパス

	JWTSecret string // JWT署名シークレット

	GoEnv    string // dev/prod
	LogLevel string // debug/info/warn/error
}

// Loadは環境変数
func Load() (Config, error) {
	cfg := Config{
		Port:        getenv("PORT", "8080"),
		StoreDriver: getenv("STORE_DRIVER", StoreDriverFile),
		StorePath:   getenv("STORE_PATH", "data/store.json"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		GoEnv:       getenv("GO_ENV", "dev"),
		LogLevel:    getenv("LOG_LEVEL", "info"),
	}

	//必須チェック
	if cfg.JWTSecret == "" {
		if cfg.GoEnv != "dev" {
			return Config{}, fmt.Errorf("JWT_SECRET is required")
		}
		cfg.JWTSecret = "dev_secret_change_me"
	}

	switch cfg.StoreDriver {
	case StoreDriverFile, StoreDriverPostgres:
	default:
		return Config{}, fmt.Errorf("STORE_DRIVER must be %q or %q", StoreDriverFile, StoreDriverPostgres)
	}

	return cfg, nil
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}
