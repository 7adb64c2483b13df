package rerank

import (
	"context"
	"fmt"

	"github.com/rushteam/tourkit/core"
	"github.com/rushteam/tourkit/pipeline"
)

// Diversity 按分组限制数量：同一 LabelKey 值最多保留 MaxPerGroup 个，保持原有顺序。
// 分组来源优先级：
// - label[LabelKey].Value
// - meta[LabelKey]
// 取不到分组的景点总是保留。
type Diversity struct {
	LabelKey    string // 默认 "city"
	MaxPerGroup int    // 默认 1
}

func (n *Diversity) Name() string {
	return "rerank.diversity"
}

func (n *Diversity) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *Diversity) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	key := n.LabelKey
	if key == "" {
		key = "city"
	}
	limit := n.MaxPerGroup
	if limit <= 0 {
		limit = 1
	}

	counts := make(map[string]int, 32)
	out := make([]*core.Item, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		group := groupOf(it, key)
		if group == "" {
			out = append(out, it)
			continue
		}
		if counts[group] >= limit {
			continue
		}
		counts[group]++
		out = append(out, it)
	}
	return out, nil
}

func groupOf(it *core.Item, key string) string {
	if v := it.LabelValue(key); v != "" {
		return v
	}
	if it.Meta == nil {
		return ""
	}
	switch v := it.Meta[key].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
