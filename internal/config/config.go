package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

type Config struct {
	AppPort string

	PostgresDSN string
	RedisAddr   string

	// LLM 分类服务：provider 可选 openai / compat（OpenAI 兼容端点）/ 空（仅用本地关键词兜底）
	LLMProvider string
	LLMAPIKey   string
	LLMModel    string
	LLMBaseURL  string

	// 每天定时执行的时间点（调度时区内的本地时间）
	ScheduleHour   int
	ScheduleMinute int
	Timezone       string

	// 启动后是否立即跑一轮采集
	RunOnStart bool

	// 召回窗口（小时），超出窗口或没有发布时间的文章直接丢弃
	WindowHours int

	// 保留天数，0 表示不清理历史数据
	RetentionDays int

	// 是否抓取文章正文快照（colly 访问原文页面）
	FetchContent bool

	FrontendOrigin string
}

func Load() *Config {
	cfg := &Config{
		AppPort:     getEnv("APP_PORT", "8000"),
		PostgresDSN: getEnv("POSTGRES_DSN", "host=localhost user=newsagent password=newsagent dbname=newsagent port=5432 sslmode=disable TimeZone=UTC"),
		RedisAddr:   getEnv("REDIS_ADDR", "localhost:6379"),

		LLMProvider: getEnv("LLM_PROVIDER", "openai"),
		LLMAPIKey:   getEnv("OPENAI_API_KEY", ""),
		LLMModel:    getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		LLMBaseURL:  getEnv("LLM_BASE_URL", ""),

		ScheduleHour:   getEnvInt("SCHEDULER_HOUR", 10),
		ScheduleMinute: getEnvInt("SCHEDULER_MINUTE", 0),
		Timezone:       getEnv("TIMEZONE", "Asia/Kolkata"),

		RunOnStart:    getEnvBool("RUN_ON_START", false),
		WindowHours:   getEnvInt("WINDOW_HOURS", 24),
		RetentionDays: getEnvInt("RETENTION_DAYS", 0),
		FetchContent:  getEnvBool("FETCH_CONTENT", false),

		FrontendOrigin: getEnv("FRONTEND_ORIGIN", "*"),
	}

	log.Printf("config loaded: port=%s schedule=%02d:%02d tz=%s window=%dh provider=%s",
		cfg.AppPort, cfg.ScheduleHour, cfg.ScheduleMinute, cfg.Timezone, cfg.WindowHours, cfg.LLMProvider)
	return cfg
}

// Location 解析调度时区，解析失败回退 UTC
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.Printf("warn: load timezone %q failed: %v, fallback to UTC", c.Timezone, err)
		return time.UTC
	}
	return loc
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("warn: env %s=%q is not an integer, use default %d", key, v, def)
		return def
	}
	return n
}

func getEnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("warn: env %s=%q is not a bool, use default %v", key, v, def)
		return def
	}
	return b
}
