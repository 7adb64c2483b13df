package filter

import (
	"context"

	"github.com/rushteam/tourkit/core"
)

// BlacklistFilter 过滤掉黑名单中的景点。
type BlacklistFilter struct {
	// ItemIDs 是内存中的黑名单景点 ID
	ItemIDs []string

	// Store 用于从存储中读取黑名单（可选）
	Store BlacklistStore

	// Key 是 Store 中的黑名单 key（可选）
	Key string

	set map[string]struct{}
}

// BlacklistStore 是黑名单存储接口。
type BlacklistStore interface {
	GetBlacklist(ctx context.Context, key string) ([]string, error)
}

// NewBlacklistFilter 创建一个黑名单过滤器，store 可以为 nil。
func NewBlacklistFilter(itemIDs []string, store BlacklistStore, key string) *BlacklistFilter {
	set := make(map[string]struct{}, len(itemIDs))
	for _, id := range itemIDs {
		set[id] = struct{}{}
	}
	return &BlacklistFilter{
		ItemIDs: itemIDs,
		Store:   store,
		Key:     key,
		set:     set,
	}
}

func (f *BlacklistFilter) Name() string {
	return "filter.blacklist"
}

func (f *BlacklistFilter) ShouldFilter(
	ctx context.Context,
	_ *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}

	if f.set != nil {
		if _, ok := f.set[item.ID]; ok {
			return true, nil
		}
	} else {
		for _, id := range f.ItemIDs {
			if item.ID == id {
				return true, nil
			}
		}
	}

	if f.Store == nil || f.Key == "" {
		return false, nil
	}
	ids, err := f.Store.GetBlacklist(ctx, f.Key)
	if err != nil {
		if core.IsStoreNotFound(err) {
			return false, nil
		}
		return false, err
	}
	for _, id := range ids {
		if item.ID == id {
			return true, nil
		}
	}
	return false, nil
}
