package pipeline

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/rushteam/tourkit/core"
)

// Pipeline 把一次推荐拆成可组合的 Node 链：召回 → 过滤 → 重排。
type Pipeline struct {
	Name   string
	Nodes  []Node
	Logger zerolog.Logger
}

// Run 依次执行 Node，任一 Node 出错即中止。
func (p *Pipeline) Run(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	cur := items
	for _, node := range p.Nodes {
		in := len(cur)
		next, err := node.Process(ctx, rctx, cur)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", node.Name(), err)
		}
		p.Logger.Debug().
			Str("pipeline", p.Name).
			Str("node", node.Name()).
			Str("kind", string(node.Kind())).
			Int("in", in).
			Int("out", len(next)).
			Msg("node done")
		cur = next
	}
	return cur, nil
}

// With 返回在末尾追加 nodes 的新 Pipeline，原 Pipeline 不变。
func (p *Pipeline) With(nodes ...Node) *Pipeline {
	all := make([]Node, 0, len(p.Nodes)+len(nodes))
	all = append(all, p.Nodes...)
	all = append(all, nodes...)
	return &Pipeline{Name: p.Name, Nodes: all, Logger: p.Logger}
}
