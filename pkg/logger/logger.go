package logger

import (
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	// Logger 全局日志实例，默认丢弃所有输出
	Logger = zerolog.Nop()
)

// LogLevel 日志级别
type LogLevel string

const (
	DebugLevel LogLevel = "debug"
	InfoLevel  LogLevel = "info"
	WarnLevel  LogLevel = "warn"
	ErrorLevel LogLevel = "error"
)

// Config 日志配置
// stdout 留给 inventory 文档，所以 Output 默认是 stderr
type Config struct {
	Level      LogLevel
	Output     io.Writer
	TimeFormat string
	Pretty     bool
	// RunID 标识一次调用，为空时自动生成
	RunID string
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		Level:      WarnLevel,
		Output:     os.Stderr,
		TimeFormat: time.RFC3339,
		Pretty:     true,
	}
}

// Init 初始化日志系统
func Init(cfg *Config) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}
	if cfg.TimeFormat != "" {
		zerolog.TimeFieldFormat = cfg.TimeFormat
	}
	if cfg.RunID == "" {
		cfg.RunID = uuid.New().String()
	}

	output := cfg.Output
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{
			Out:        cfg.Output,
			TimeFormat: "15:04:05",
			NoColor:    true,
		}
	}

	zerolog.SetGlobalLevel(parseLogLevel(cfg.Level))

	Logger = zerolog.New(output).With().Timestamp().Str("run", cfg.RunID).Logger()
	log.Logger = Logger
}

// parseLogLevel 解析日志级别
func parseLogLevel(level LogLevel) zerolog.Level {
	switch level {
	case DebugLevel:
		return zerolog.DebugLevel
	case InfoLevel:
		return zerolog.InfoLevel
	case WarnLevel:
		return zerolog.WarnLevel
	case ErrorLevel:
		return zerolog.ErrorLevel
	default:
		return zerolog.WarnLevel
	}
}

// Debugf 格式化调试日志
func Debugf(format string, args ...interface{}) {
	Logger.Debug().Msgf(format, args...)
}

// Infof 格式化信息日志
func Infof(format string, args ...interface{}) {
	Logger.Info().Msgf(format, args...)
}

// Warnf 格式化警告日志
func Warnf(format string, args ...interface{}) {
	Logger.Warn().Msgf(format, args...)
}
