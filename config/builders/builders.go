// Package builders 在 init 中向 config 注册内置 Node 的构建器。
package builders

import (
	"fmt"
	"time"

	"github.com/rushteam/tourkit/config"
	"github.com/rushteam/tourkit/filter"
	"github.com/rushteam/tourkit/model"
	"github.com/rushteam/tourkit/pipeline"
	"github.com/rushteam/tourkit/pkg/conv"
	"github.com/rushteam/tourkit/rank"
	"github.com/rushteam/tourkit/rerank"
)

func init() {
	config.Register("filter.expr", BuildExprFilterNode)
	config.Register("filter.blacklist", BuildBlacklistNode)
	config.Register("rank.rating", BuildRatingNode)
	config.Register("rerank.diversity", BuildDiversityNode)
	config.Register("rerank.topn", BuildTopNNode)
}

// BuildExprFilterNode: { expr: "item.score > 0.5", strict: false }
func BuildExprFilterNode(cfg map[string]any) (pipeline.Node, error) {
	expr := conv.ConfigGet(cfg, "expr", "")
	if expr == "" {
		return nil, fmt.Errorf("expr is required")
	}
	f, err := filter.NewExprFilter(expr)
	if err != nil {
		return nil, err
	}
	return &filter.FilterNode{
		Filters: []filter.Filter{f},
		Strict:  conv.ConfigGet(cfg, "strict", false),
	}, nil
}

// BuildBlacklistNode: { ids: ["12", "40"] }
func BuildBlacklistNode(cfg map[string]any) (pipeline.Node, error) {
	ids := conv.SliceAnyToString(cfg["ids"])
	return &filter.FilterNode{
		Filters: []filter.Filter{filter.NewBlacklistFilter(ids, nil, "")},
	}, nil
}

// BuildDiversityNode: { label_key: city, max_per_group: 2 }
func BuildDiversityNode(cfg map[string]any) (pipeline.Node, error) {
	return &rerank.Diversity{
		LabelKey:    conv.ConfigGet(cfg, "label_key", "city"),
		MaxPerGroup: int(conv.ConfigGetInt64(cfg, "max_per_group", 1)),
	}, nil
}

// BuildTopNNode: { n: 10 }
func BuildTopNNode(cfg map[string]any) (pipeline.Node, error) {
	return &rerank.TopNNode{N: int(conv.ConfigGetInt64(cfg, "n", 0))}, nil
}

// BuildRatingNode:
//
//	{ model_path: rating.json, replace: true }
//	{ endpoint: "http://rating-svc/predict", name: rating_rpc, timeout_ms: 500 }
func BuildRatingNode(cfg map[string]any) (pipeline.Node, error) {
	path := conv.ConfigGet(cfg, "model_path", "")
	endpoint := conv.ConfigGet(cfg, "endpoint", "")

	var m model.RatingPredictor
	switch {
	case path != "" && endpoint != "":
		return nil, fmt.Errorf("model_path and endpoint are mutually exclusive")
	case path != "":
		lr, err := model.LoadLinearRating(path)
		if err != nil {
			return nil, err
		}
		m = lr
	case endpoint != "":
		timeout := time.Duration(conv.ConfigGetInt64(cfg, "timeout_ms", 0)) * time.Millisecond
		m = model.NewRPCModel(conv.ConfigGet(cfg, "name", "rating_rpc"), endpoint, timeout)
	default:
		return nil, fmt.Errorf("model_path or endpoint is required")
	}
	return &rank.RatingNode{Model: m, Replace: conv.ConfigGet(cfg, "replace", false)}, nil
}
