package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "shop-admin-console")
	v.SetDefault("app.env", "prod")
	v.SetDefault("app.port", 8080)

	v.SetDefault("api.timeout", "15s")
	v.SetDefault("api.max_retries", 0)
	v.SetDefault("api.retry_delay", "500ms")
	v.SetDefault("api.health_path", "/actuator/health")
	v.SetDefault("api.user_agent", "shop-admin-console")

	v.SetDefault("list_view.debounce_delay", "500ms")
	v.SetDefault("list_view.retry_delay", "3s")
	v.SetDefault("list_view.fetch_timeout", "20s")
	v.SetDefault("list_view.default_page_size", 10)
	v.SetDefault("list_view.max_page_size", 100)
	v.SetDefault("list_view.notice_buffer", 100)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}

// Load reads the YAML file at path, lets APP_* env vars override it (APP_API_BASE_URL
// overrides api.base_url) and validates the result.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()
	setDefaults(v)
	// AutomaticEnv only sees keys viper already knows about
	_ = v.BindEnv("api.base_url")

	var config Config
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config file not found: %w", err)
	}
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := validate(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

func validate(cfg *Config) error {
	v := validator.New()
	// logger config is validated by logger.New after its own defaults are applied
	err := v.StructExcept(cfg, "Logger")
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
		}
		return fmt.Errorf("invalid config: %s", strings.Join(fields, ", "))
	}
	return fmt.Errorf("invalid config: %w", err)
}
