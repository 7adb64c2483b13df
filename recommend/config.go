package recommend

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/rushteam/tourkit/config"
	_ "github.com/rushteam/tourkit/config/builders"
	"github.com/rushteam/tourkit/core"
	"github.com/rushteam/tourkit/dataset"
	"github.com/rushteam/tourkit/filter"
	"github.com/rushteam/tourkit/recall"
	"github.com/rushteam/tourkit/store"
)

// NewFromConfig 按配置加载数据集、创建缓存后端并组装处理链。
// 调用方负责 Close。
func NewFromConfig(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*Service, error) {
	if cfg.Dataset.Path == "" {
		return nil, core.Errorf(core.ModuleConfig, core.ErrorCodeInvalidInput,
			"dataset.path is required (or set %s)", config.EnvDataPath)
	}

	loadOpts := []dataset.LoadOption{dataset.WithLogger(logger)}
	if d := []rune(cfg.Dataset.Delimiter); len(d) == 1 {
		loadOpts = append(loadOpts, dataset.WithDelimiter(d[0]))
	}
	ds, err := dataset.Load(cfg.Dataset.Path, loadOpts...)
	if err != nil {
		return nil, err
	}

	p, err := cfg.Pipeline.BuildPipeline(config.DefaultFactory())
	if err != nil {
		return nil, core.Errorf(core.ModuleConfig, core.ErrorCodeInvalidInput, "pipeline: %v", err)
	}

	backend, err := openStore(ctx, cfg.Cache)
	if err != nil {
		return nil, err
	}

	opts := []Option{
		WithNeighbors(cfg.Collaborative.Neighbors),
		WithEpsilon(cfg.Collaborative.Epsilon),
		WithMetrics(cfg.Collaborative.Metric, cfg.Content.Metric),
		WithContentScaler(cfg.Content.Scaler),
		WithPipeline(p),
		WithLogger(logger),
	}
	if len(cfg.Filters.Blacklist) > 0 {
		ids := make([]string, len(cfg.Filters.Blacklist))
		for i, id := range cfg.Filters.Blacklist {
			ids[i] = dataset.NormalizeID(id)
		}
		opts = append(opts, WithFilters(filter.NewBlacklistFilter(ids, nil, "")))
	}
	if backend != nil {
		// memory 后端的相似度矩阵只留在进程内，不再序列化一份进 MemoryStore
		simStore := backend
		if cfg.Cache.Backend == config.CacheMemory {
			simStore = nil
		}
		opts = append(opts,
			WithCache(recall.NewSimilarityCache(simStore, cfg.Cache.Prefix, cfg.Cache.TTL, logger)),
			withCloser(backend.Close),
		)
		if cfg.Filters.UserBlockPrefix != "" {
			opts = append(opts, WithFilters(filter.NewUserBlockFilter(filter.NewStoreAdapter(backend), cfg.Filters.UserBlockPrefix)))
		}
	}

	logger.Info().
		Str("dataset", cfg.Dataset.Path).
		Str("cache", cfg.Cache.Backend).
		Int("pipeline_nodes", len(p.Nodes)).
		Msg("recommend service ready")

	return New(ds, opts...), nil
}

func openStore(ctx context.Context, cfg config.CacheConfig) (core.Store, error) {
	switch cfg.Backend {
	case config.CacheMemory:
		return store.NewMemoryStore(), nil
	case config.CacheRedis:
		rs, err := store.NewRedisStore(ctx, cfg.Redis.Addr, cfg.Redis.DB)
		if err != nil {
			return nil, err
		}
		return rs, nil
	default:
		return nil, nil
	}
}
