package config

import (
	"os"
	"strings"
	"time"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName string
	HTTPPort    string
	PostgresDSN string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	WechatAppID     string
	WechatMchID     string
	WechatAPIKey    string
	WechatNotifyURL string
	WechatClientIP  string

	EnableStageSweeper bool
	SweepInterval      time.Duration
	SweepMinAge        time.Duration
}

func Load() (Config, error) {
	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "votegala"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	return Config{
		ServiceName: service,
		HTTPPort:    port,
		PostgresDSN: os.Getenv("POSTGRES_DSN"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       0,

		WechatAppID:     os.Getenv("WECHAT_APP_ID"),
		WechatMchID:     os.Getenv("WECHAT_MCH_ID"),
		WechatAPIKey:    os.Getenv("WECHAT_API_KEY"),
		WechatNotifyURL: os.Getenv("WECHAT_NOTIFY_URL"),
		WechatClientIP:  os.Getenv("WECHAT_CLIENT_IP"),

		EnableStageSweeper: envBool("ENABLE_STAGE_SWEEPER", true),
		SweepInterval:      envDuration("SWEEP_INTERVAL", time.Minute),
		SweepMinAge:        envDuration("SWEEP_MIN_AGE", 5*time.Minute),
	}, nil
}

func envBool(key string, fallback bool) bool {
	value := strings.TrimSpace(strings.ToLower(os.Getenv(key)))
	switch value {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func envDuration(key string, fallback time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}
