// Package logging 基于 zerolog 提供进程级日志配置。
//
// 库代码（recall / recommend 等）接收 zerolog.Logger 参数，缺省为 zerolog.Nop()；
// 只有 cmd 入口调用 Init 配置全局输出。
package logging

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Config 日志配置。
type Config struct {
	// Level: trace / debug / info / warn / error，默认 info
	Level string `yaml:"level"`

	// Format: json / console，默认 console
	Format string `yaml:"format"`

	// Output 默认 os.Stderr
	Output io.Writer `yaml:"-"`
}

var (
	mu     sync.RWMutex
	logger = zerolog.Nop()
)

// Init 按配置初始化全局 Logger，可重复调用。
func Init(cfg Config) zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()
	logger = New(cfg)
	return logger
}

// New 按配置构建 Logger，不影响全局实例。
func New(cfg Config) zerolog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if !strings.EqualFold(cfg.Format, "json") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	return zerolog.New(out).Level(ParseLevel(cfg.Level)).With().Timestamp().Logger()
}

// Logger 返回全局 Logger；未 Init 时为 Nop。
func Logger() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// ParseLevel 解析日志级别，无法识别时回退到 info。
func ParseLevel(level string) zerolog.Level {
	if level == "" {
		return zerolog.InfoLevel
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
