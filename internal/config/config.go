package config

import (
	"time"

	"github.com/maxviazov/shop-admin-console/internal/logger"
)

type Config struct {
	App      AppConfig           `mapstructure:"app"`
	Logger   logger.LoggerConfig `mapstructure:"logger"`
	API      APIConfig           `mapstructure:"api"`
	ListView ListViewConfig      `mapstructure:"list_view"`
	Metrics  MetricsConfig       `mapstructure:"metrics"`
}

// AppConfig describes the console process itself.
type AppConfig struct {
	Name string `mapstructure:"name" validate:"required"`
	Env  string `mapstructure:"env" validate:"oneof=dev test staging prod"`
	Port int    `mapstructure:"port" validate:"min=1,max=65535"`
}

// APIConfig points at the admin REST backend.
type APIConfig struct {
	BaseURL    string        `mapstructure:"base_url" validate:"required,url"`
	Timeout    time.Duration `mapstructure:"timeout" validate:"gt=0"`
	MaxRetries int           `mapstructure:"max_retries" validate:"min=0,max=5"`
	RetryDelay time.Duration `mapstructure:"retry_delay" validate:"gte=0"`
	HealthPath string        `mapstructure:"health_path"`
	UserAgent  string        `mapstructure:"user_agent"`
}

// ListViewConfig tunes every list screen controller.
type ListViewConfig struct {
	DebounceDelay   time.Duration `mapstructure:"debounce_delay" validate:"gt=0"`
	RetryDelay      time.Duration `mapstructure:"retry_delay" validate:"gt=0"`
	FetchTimeout    time.Duration `mapstructure:"fetch_timeout" validate:"gt=0"`
	DefaultPageSize int           `mapstructure:"default_page_size" validate:"min=1"`
	MaxPageSize     int           `mapstructure:"max_page_size" validate:"gtefield=DefaultPageSize"`
	NoticeBuffer    int           `mapstructure:"notice_buffer" validate:"min=1"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}
