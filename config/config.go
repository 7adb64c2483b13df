// Package config 加载 tourkit 的 YAML 配置，并维护 Pipeline Node 的注册表。
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rushteam/tourkit/core"
	"github.com/rushteam/tourkit/feature"
	"github.com/rushteam/tourkit/logging"
	"github.com/rushteam/tourkit/pipeline"
	"github.com/rushteam/tourkit/recall"
	"github.com/rushteam/tourkit/similarity"
)

// 环境变量覆盖
const (
	EnvDataPath  = "TOURKIT_DATA"
	EnvRedisAddr = "TOURKIT_REDIS_ADDR"
	EnvLogLevel  = "TOURKIT_LOG_LEVEL"
)

// 缓存后端
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Config 是 tourkit 的完整配置。
//
//	dataset:
//	  path: data/tourism_with_id.csv
//	collaborative:
//	  neighbors: 10
//	  metric: cosine
//	cache:
//	  backend: redis
//	  redis: { addr: 127.0.0.1:6379 }
//	pipeline:
//	  nodes:
//	    - type: rerank.diversity
//	      config: { label_key: city, max_per_group: 2 }
type Config struct {
	Dataset       DatasetConfig       `yaml:"dataset"`
	Collaborative CollaborativeConfig `yaml:"collaborative"`
	Content       ContentConfig       `yaml:"content"`
	Cache         CacheConfig         `yaml:"cache"`
	Filters       FiltersConfig       `yaml:"filters"`
	Pipeline      pipeline.Config     `yaml:"pipeline"`
	Log           logging.Config      `yaml:"log"`
}

type DatasetConfig struct {
	Path      string `yaml:"path"`
	Delimiter string `yaml:"delimiter"` // 默认 ","
}

type CollaborativeConfig struct {
	Neighbors int     `yaml:"neighbors"`
	Epsilon   float64 `yaml:"epsilon"`
	Metric    string  `yaml:"metric"` // cosine / pearson
}

type ContentConfig struct {
	Metric string `yaml:"metric"`
	Scaler string `yaml:"scaler"` // zscore / minmax
}

type CacheConfig struct {
	Backend string      `yaml:"backend"` // none / memory / redis
	TTL     int         `yaml:"ttl"`     // 秒
	Prefix  string      `yaml:"prefix"`
	Redis   RedisConfig `yaml:"redis"`
}

type RedisConfig struct {
	Addr string `yaml:"addr"`
	DB   int    `yaml:"db"`
}

// FiltersConfig 是始终生效的过滤器，在 pipeline 之前执行。
type FiltersConfig struct {
	// Blacklist 全局屏蔽的景点 ID
	Blacklist []string `yaml:"blacklist"`

	// UserBlockPrefix 非空时从缓存 Store 读取 {prefix}:{user_id} 的屏蔽列表
	UserBlockPrefix string `yaml:"user_block_prefix"`
}

// Default 返回默认配置。
func Default() *Config {
	return &Config{
		Dataset: DatasetConfig{Delimiter: ","},
		Collaborative: CollaborativeConfig{
			Neighbors: recall.DefaultNeighbors,
			Epsilon:   recall.DefaultEpsilon,
			Metric:    similarity.MetricCosine,
		},
		Content: ContentConfig{Metric: similarity.MetricCosine, Scaler: feature.ScalerZScore},
		Cache: CacheConfig{
			Backend: CacheMemory,
			Prefix:  "tourkit",
		},
		Pipeline: pipeline.Config{Name: "default"},
		Log:      logging.Config{Level: "info", Format: "console"},
	}
}

// Load 读取 YAML 文件，未给出的字段保持默认值；path 为空时只用默认值。
// 之后应用环境变量覆盖并校验。
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, core.Errorf(core.ModuleConfig, core.ErrorCodeNotFound, "read %s: %v", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, core.Errorf(core.ModuleConfig, core.ErrorCodeInvalidInput, "parse %s: %v", path, err)
		}
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv 用环境变量覆盖配置。
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvDataPath); v != "" {
		c.Dataset.Path = v
	}
	if v := os.Getenv(EnvRedisAddr); v != "" {
		c.Cache.Redis.Addr = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
}

// Validate 校验配置。
func (c *Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return core.Errorf(core.ModuleConfig, core.ErrorCodeInvalidInput, format, args...)
	}
	if c.Collaborative.Neighbors < 1 {
		return invalid("collaborative.neighbors must be >= 1, got %d", c.Collaborative.Neighbors)
	}
	if c.Collaborative.Epsilon <= 0 {
		return invalid("collaborative.epsilon must be > 0, got %g", c.Collaborative.Epsilon)
	}
	for name, m := range map[string]string{
		"collaborative.metric": c.Collaborative.Metric,
		"content.metric":       c.Content.Metric,
	} {
		if m != similarity.MetricCosine && m != similarity.MetricPearson {
			return invalid("%s: unknown metric %q", name, m)
		}
	}
	switch c.Content.Scaler {
	case feature.ScalerZScore, feature.ScalerMinMax:
	default:
		return invalid("content.scaler: unknown scaler %q", c.Content.Scaler)
	}
	if len(c.Dataset.Delimiter) > 1 {
		return invalid("dataset.delimiter must be a single character, got %q", c.Dataset.Delimiter)
	}
	switch c.Cache.Backend {
	case CacheNone, CacheMemory:
	case CacheRedis:
		if c.Cache.Redis.Addr == "" {
			return invalid("cache.redis.addr is required for redis backend")
		}
	default:
		return invalid("cache.backend: unknown backend %q", c.Cache.Backend)
	}
	if c.Filters.UserBlockPrefix != "" && c.Cache.Backend == CacheNone {
		return invalid("filters.user_block_prefix requires a cache backend")
	}
	if err := ValidatePipelineConfig(&c.Pipeline); err != nil {
		return invalid("pipeline: %v", err)
	}
	return nil
}
