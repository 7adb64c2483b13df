package recall

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
	"gonum.org/v1/gonum/mat"

	"github.com/rushteam/tourkit/core"
)

// SimilarityCache 缓存相似度矩阵，key 为 {Prefix}:{kind}:{version}。
//
// 进程内按 kind 保留最新 version 的解码矩阵，命中时不做任何拷贝。
// Store 非空时额外序列化写入（如 Redis），供其他进程或重启后复用；
// Store 为空时只用进程内缓存。
// version 取数据集内容哈希，数据集变化后自然换 key，旧 version 被替换。
// 同一 key 的并发计算由 singleflight 合并为一次。
// 返回的矩阵被多个请求共享，调用方只读。
type SimilarityCache struct {
	Store  core.Store
	Prefix string
	TTL    int // 秒，<= 0 表示不过期；只作用于 Store

	Logger zerolog.Logger

	group singleflight.Group

	mu    sync.RWMutex
	local map[string]cachedMatrix // kind -> 最新 version
}

type cachedMatrix struct {
	version string
	m       *mat.Dense
}

// NewSimilarityCache 创建缓存，prefix 为空时使用 "tourkit"，s 可为 nil。
func NewSimilarityCache(s core.Store, prefix string, ttl int, logger zerolog.Logger) *SimilarityCache {
	if prefix == "" {
		prefix = "tourkit"
	}
	return &SimilarityCache{
		Store:  s,
		Prefix: prefix,
		TTL:    ttl,
		Logger: logger,
	}
}

// Key 返回缓存 key。
func (c *SimilarityCache) Key(kind, version string) string {
	return c.Prefix + ":" + kind + ":" + version
}

// Get 读取缓存，未命中时调用 compute 计算并回写。
// Store 读写失败只记录日志，不影响返回计算结果。
func (c *SimilarityCache) Get(
	ctx context.Context,
	kind, version string,
	compute func() (*mat.Dense, error),
) (*mat.Dense, error) {
	if c == nil {
		return compute()
	}
	if m, ok := c.lookup(kind, version); ok {
		return m, nil
	}

	key := c.Key(kind, version)
	v, err, shared := c.group.Do(key, func() (any, error) {
		if m, ok := c.lookup(kind, version); ok {
			return m, nil
		}
		if m, ok := c.load(ctx, key); ok {
			c.remember(kind, version, m)
			return m, nil
		}
		m, err := compute()
		if err != nil {
			return nil, err
		}
		c.remember(kind, version, m)
		c.save(ctx, key, m)
		return m, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		c.Logger.Debug().Str("key", key).Msg("similarity computation shared")
	}
	return v.(*mat.Dense), nil
}

func (c *SimilarityCache) lookup(kind, version string) (*mat.Dense, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.local[kind]
	if !ok || e.version != version {
		return nil, false
	}
	return e.m, true
}

func (c *SimilarityCache) remember(kind, version string, m *mat.Dense) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.local == nil {
		c.local = make(map[string]cachedMatrix)
	}
	c.local[kind] = cachedMatrix{version: version, m: m}
}

func (c *SimilarityCache) load(ctx context.Context, key string) (*mat.Dense, bool) {
	if c.Store == nil {
		return nil, false
	}
	data, err := c.Store.Get(ctx, key)
	if err != nil {
		if !core.IsStoreNotFound(err) {
			c.Logger.Warn().Err(err).Str("key", key).Str("store", c.Store.Name()).Msg("similarity cache read failed")
		}
		return nil, false
	}

	var m mat.Dense
	if err := m.UnmarshalBinary(data); err != nil {
		c.Logger.Warn().Err(err).Str("key", key).Msg("similarity cache entry corrupt")
		return nil, false
	}
	c.Logger.Debug().Str("key", key).Msg("similarity cache hit")
	return &m, true
}

func (c *SimilarityCache) save(ctx context.Context, key string, m *mat.Dense) {
	if c.Store == nil {
		return
	}
	data, err := m.MarshalBinary()
	if err != nil {
		c.Logger.Warn().Err(err).Str("key", key).Msg("similarity marshal failed")
		return
	}
	if err := c.Store.Set(ctx, key, data, c.TTL); err != nil {
		c.Logger.Warn().Err(err).Str("key", key).Str("store", c.Store.Name()).Msg("similarity cache write failed")
	}
}
