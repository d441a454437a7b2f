package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

type LoggerConfig struct {
	Level              string                 `json:"level,omitempty" mapstructure:"level" validate:"oneof=trace debug info warn error"`
	Format             string                 `json:"format,omitempty" mapstructure:"format" validate:"oneof=json console"`
	OutputTarget       string                 `json:"outputTarget,omitempty" mapstructure:"output_target" validate:"oneof=stdout stderr"`
	TimeField          string                 `json:"timeField,omitempty" mapstructure:"time_field"`
	TimeFormat         string                 `json:"timeFormat,omitempty" mapstructure:"time_format" validate:"oneof=rfc3339 rfc3339nano unix unix_ms"`
	ServiceName        string                 `json:"serviceName,omitempty" mapstructure:"service_name"`
	ServiceVersion     string                 `json:"serviceVersion,omitempty" mapstructure:"service_version"`
	Env                string                 `json:"env,omitempty" mapstructure:"env" validate:"oneof=dev test staging prod"`
	DebugFile          string                 `json:"debugFile,omitempty" mapstructure:"debug_file"`
	WithCaller         bool                   `json:"withCaller,omitempty" mapstructure:"with_caller"`
	Stacktrace         bool                   `json:"stacktrace,omitempty" mapstructure:"stacktrace"`
	StacktraceMinLevel string                 `json:"stacktraceMinLevel,omitempty" mapstructure:"stacktrace_min_level" validate:"oneof=debug info warn error fatal panic"`
	Fields             map[string]interface{} `json:"fields,omitempty" mapstructure:"fields"`
}

// timeFormats maps config names to zerolog layouts.
var timeFormats = map[string]string{
	"rfc3339":     "2006-01-02T15:04:05Z07:00",
	"rfc3339nano": "2006-01-02T15:04:05.999999999Z07:00",
	"unix":        zerolog.TimeFormatUnix,
	"unix_ms":     zerolog.TimeFormatUnixMs,
}

func New(logg *LoggerConfig) (logger zerolog.Logger, err error) {
	logg.setDefaults()

	v := validator.New()
	if err = v.Struct(logg); err != nil {
		return logger, fmt.Errorf("logger config validation error: %w", err)
	}

	level, err := zerolog.ParseLevel(logg.Level)
	if err != nil {
		return logger, err
	}

	zerolog.TimestampFieldName = logg.TimeField
	zerolog.TimeFieldFormat = timeFormats[logg.TimeFormat]

	logger = zerolog.New(logg.writer()).
		With().
		Timestamp().
		Str("service", logg.ServiceName).
		Str("version", logg.ServiceVersion).
		Str("env", logg.Env).
		Logger()

	if logg.WithCaller {
		logger = logger.With().Caller().Logger()
	}
	if logg.Stacktrace {
		logger = logger.With().Stack().Logger()
	}
	if len(logg.Fields) > 0 {
		logger = logger.With().Fields(logg.Fields).Logger()
	}

	// global level gates every logger derived from this one
	zerolog.SetGlobalLevel(level)

	return logger, nil
}

func (c *LoggerConfig) target() io.Writer {
	if c.OutputTarget == "stderr" {
		return os.Stderr
	}
	return os.Stdout
}

// writer picks the sink: JSON for machines, console for humans, and in dev+debug
// a copy of everything into the debug file.
func (c *LoggerConfig) writer() io.Writer {
	if c.Format == "json" {
		return c.target()
	}
	console := zerolog.ConsoleWriter{Out: c.target(), TimeFormat: timeFormats[c.TimeFormat]}
	if c.Env != "dev" || c.Level != "debug" || c.DebugFile == "" {
		return console
	}
	// a missing log directory must not take the process down
	if err := os.MkdirAll(filepath.Dir(c.DebugFile), 0o755); err != nil {
		return console
	}
	file, err := os.OpenFile(c.DebugFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return console
	}
	return zerolog.MultiLevelWriter(console, file)
}

func (c *LoggerConfig) setDefaults() {
	if c.Env == "" {
		c.Env = "prod"
	}

	if c.Level == "" {
		if c.Env == "dev" {
			c.Level = "debug"
		} else {
			c.Level = "info"
		}
	}

	if c.Format == "" {
		if c.Env == "dev" {
			c.Format = "console"
		} else {
			c.Format = "json"
		}
	}

	if c.OutputTarget == "" {
		c.OutputTarget = "stdout"
	}

	if c.TimeField == "" {
		c.TimeField = "ts"
	}
	if c.TimeFormat == "" {
		c.TimeFormat = "rfc3339nano"
	}

	if c.Env == "dev" && c.DebugFile == "" {
		c.DebugFile = "logs/debug.log"
	}

	if !c.WithCaller && c.Env == "dev" {
		c.WithCaller = true
	}
	if !c.Stacktrace && c.Env != "dev" {
		c.Stacktrace = true
	}
	if c.StacktraceMinLevel == "" {
		c.StacktraceMinLevel = "error"
	}

	if c.ServiceName == "" {
		c.ServiceName = "shop-admin-console"
	}
	if c.ServiceVersion == "" {
		c.ServiceVersion = "0.1.0"
	}

	if c.Fields == nil {
		c.Fields = make(map[string]interface{})
	}
}
