package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jengzang/hiking-duration-go/internal/analysis"
	"github.com/joho/godotenv"
)

// Config 应用配置
type Config struct {
	Port    string
	GinMode string

	LogLevel  string
	LogFormat string // json or text

	MetricsEnabled bool

	NATSURL           string // empty disables event publishing
	NATSSubjectPrefix string

	RateLimitRequests int
	RateLimitWindow   time.Duration
	MaxUploadBytes    int64

	Defaults Defaults
}

// Defaults are the speed assumptions applied when a caller leaves them out
type Defaults struct {
	PosVertSpeed  float64 // m/h
	NegVertSpeed  float64 // m/h
	HorizSpeed    float64 // km/h
	MarginPercent float64 // %
}

// Margin returns the default margin as a fraction
func (d Defaults) Margin() float64 {
	return d.MarginPercent / 100
}

// DefaultSpeeds returns the built-in defaults
func DefaultSpeeds() Defaults {
	return Defaults{
		PosVertSpeed:  analysis.DefaultPosVertSpeed,
		NegVertSpeed:  analysis.DefaultNegVertSpeed,
		HorizSpeed:    analysis.DefaultHorizSpeed,
		MarginPercent: analysis.DefaultMarginPercent,
	}
}

// Load 加载配置（.env 可选，已有环境变量优先）
func Load() (*Config, error) {
	// .env 文件可选
	_ = godotenv.Load()

	cfg := &Config{
		Port:              getEnv("PORT", ":8080"),
		GinMode:           getEnv("GIN_MODE", "debug"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogFormat:         strings.ToLower(getEnv("LOG_FORMAT", "json")),
		NATSURL:           os.Getenv("NATS_URL"),
		NATSSubjectPrefix: getEnv("NATS_SUBJECT_PREFIX", "hiking.estimates"),
	}

	// 端口允许只写数字
	if !strings.Contains(cfg.Port, ":") {
		cfg.Port = ":" + cfg.Port
	}

	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		return nil, fmt.Errorf("invalid GIN_MODE: %q", cfg.GinMode)
	}

	var err error
	if cfg.MetricsEnabled, err = getEnvBool("METRICS_ENABLED", true); err != nil {
		return nil, err
	}

	if cfg.RateLimitRequests, err = getEnvInt("RATE_LIMIT_REQUESTS", 60); err != nil {
		return nil, err
	}
	windowSec, err := getEnvInt("RATE_LIMIT_WINDOW_SEC", 60)
	if err != nil {
		return nil, err
	}
	if windowSec <= 0 {
		return nil, fmt.Errorf("invalid RATE_LIMIT_WINDOW_SEC: %d", windowSec)
	}
	cfg.RateLimitWindow = time.Duration(windowSec) * time.Second

	uploadMB, err := getEnvInt("MAX_UPLOAD_MB", 20)
	if err != nil {
		return nil, err
	}
	if uploadMB <= 0 {
		return nil, fmt.Errorf("invalid MAX_UPLOAD_MB: %d", uploadMB)
	}
	cfg.MaxUploadBytes = int64(uploadMB) << 20

	// 默认速度
	d := DefaultSpeeds()
	if d.PosVertSpeed, err = getEnvFloat("DEFAULT_POS_VERT_SPEED", d.PosVertSpeed); err != nil {
		return nil, err
	}
	if d.NegVertSpeed, err = getEnvFloat("DEFAULT_NEG_VERT_SPEED", d.NegVertSpeed); err != nil {
		return nil, err
	}
	if d.HorizSpeed, err = getEnvFloat("DEFAULT_HORIZ_SPEED", d.HorizSpeed); err != nil {
		return nil, err
	}
	if d.MarginPercent, err = getEnvFloat("DEFAULT_MARGIN_PERCENT", d.MarginPercent); err != nil {
		return nil, err
	}
	if d.PosVertSpeed <= 0 || d.NegVertSpeed <= 0 || d.HorizSpeed <= 0 {
		return nil, fmt.Errorf("default speeds must be positive")
	}
	if d.MarginPercent < 0 {
		return nil, fmt.Errorf("invalid DEFAULT_MARGIN_PERCENT: %v", d.MarginPercent)
	}
	cfg.Defaults = d

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return n, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return f, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return defaultValue, nil
	}
	switch strings.ToLower(v) {
	case "1", "true", "t", "yes", "y", "on":
		return true, nil
	case "0", "false", "f", "no", "n", "off":
		return false, nil
	}
	return false, fmt.Errorf("invalid %s: %q", key, v)
}
