package filter

import (
	"context"

	"github.com/rushteam/tourkit/core"
)

// UserBlockFilter 过滤掉用户屏蔽的景点，key 为 {KeyPrefix}:{UserID}。
// 屏蔽列表每个请求只读取一次，结果记在 rctx 上。
type UserBlockFilter struct {
	Store     UserBlockStore
	KeyPrefix string
}

// UserBlockStore 是用户屏蔽列表存储接口。
type UserBlockStore interface {
	GetUserBlocks(ctx context.Context, userID string, keyPrefix string) ([]string, error)
}

func NewUserBlockFilter(store UserBlockStore, keyPrefix string) *UserBlockFilter {
	return &UserBlockFilter{
		Store:     store,
		KeyPrefix: keyPrefix,
	}
}

func (f *UserBlockFilter) Name() string {
	return "filter.user_block"
}

func (f *UserBlockFilter) ShouldFilter(
	ctx context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if f.Store == nil || rctx == nil || rctx.UserID == "" || item == nil {
		return false, nil
	}
	v, err := rctx.Memo(f.Name()+":"+f.KeyPrefix, func() (any, error) {
		list, err := f.Store.GetUserBlocks(ctx, rctx.UserID, f.KeyPrefix)
		if err != nil {
			if core.IsStoreNotFound(err) {
				return map[string]struct{}{}, nil
			}
			return nil, err
		}
		set := make(map[string]struct{}, len(list))
		for _, id := range list {
			set[id] = struct{}{}
		}
		return set, nil
	})
	if err != nil {
		return false, err
	}
	_, blocked := v.(map[string]struct{})[item.ID]
	return blocked, nil
}
