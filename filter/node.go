package filter

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/rushteam/tourkit/core"
	"github.com/rushteam/tourkit/pipeline"
)

// FilterNode 组合多个过滤器，任何一个过滤器返回 true，该景点就会被移除。
// 保留的景点维持输入顺序。
type FilterNode struct {
	Filters []Filter

	// Strict 为 true 时过滤器出错即中止；否则记录后保留该景点
	Strict bool

	Logger zerolog.Logger
}

func (n *FilterNode) Name() string {
	return "filter.node"
}

func (n *FilterNode) Kind() pipeline.Kind {
	return pipeline.KindFilter
}

func (n *FilterNode) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(n.Filters) == 0 || len(items) == 0 {
		return items, nil
	}

	out := make([]*core.Item, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		removed, err := n.check(ctx, rctx, item)
		if err != nil {
			return nil, err
		}
		if !removed {
			out = append(out, item)
		}
	}
	return out, nil
}

func (n *FilterNode) check(ctx context.Context, rctx *core.RecommendContext, item *core.Item) (bool, error) {
	for _, f := range n.Filters {
		ok, err := f.ShouldFilter(ctx, rctx, item)
		if err != nil {
			if n.Strict {
				return false, err
			}
			n.Logger.Warn().Err(err).
				Str("filter", f.Name()).
				Str("attraction_id", item.ID).
				Msg("filter failed, item kept")
			continue
		}
		if ok {
			n.Logger.Debug().
				Str("filter", f.Name()).
				Str("attraction_id", item.ID).
				Msg("item filtered")
			return true, nil
		}
	}
	return false, nil
}
