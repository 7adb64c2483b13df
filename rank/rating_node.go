// Package rank 用预训练的评分预测器对召回结果重新打分。
package rank

import (
	"context"
	"sort"

	"github.com/rushteam/tourkit/core"
	"github.com/rushteam/tourkit/model"
	"github.com/rushteam/tourkit/pipeline"
	"github.com/rushteam/tourkit/pkg/conv"
	"github.com/rushteam/tourkit/pkg/utils"
)

// MetaPredictedRating 是写入 item.Meta 的预测评分 key。
const MetaPredictedRating = "predicted_rating"

// RatingNode 用 RatingPredictor 对每个景点预测评分。
// 特征取 item.Meta 中的数值项，外加召回分数 "recall_score"。
// - 写入 meta：predicted_rating
// - 写入 labels：rank_model
// - Replace 为 true 时用预测值替换 Score，并按分数降序、ID 升序重排
type RatingNode struct {
	Model   model.RatingPredictor
	Replace bool
}

func (n *RatingNode) Name() string        { return "rank.rating" }
func (n *RatingNode) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *RatingNode) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if n.Model == nil || len(items) == 0 {
		return items, nil
	}

	ratings, err := n.predict(items)
	if err != nil {
		return nil, err
	}
	for i, it := range items {
		if it == nil {
			continue
		}
		rating := ratings[i]
		if it.Meta == nil {
			it.Meta = make(map[string]any)
		}
		it.Meta[MetaPredictedRating] = rating
		it.PutLabel("rank_model", utils.Label{Value: n.Model.Name(), Source: "rank"})
		if n.Replace {
			it.Score = rating
		}
	}

	if n.Replace {
		sort.SliceStable(items, func(i, j int) bool {
			if items[i] == nil {
				return false
			}
			if items[j] == nil {
				return true
			}
			if items[i].Score != items[j].Score {
				return items[i].Score > items[j].Score
			}
			return items[i].ID < items[j].ID
		})
	}
	return items, nil
}

// batchPredictor 由支持一次请求批量预测的模型实现（如 RPCModel）。
type batchPredictor interface {
	PredictBatch(featuresList []map[string]float64) ([]float64, error)
}

// predict 返回与 items 等长的预测值，nil item 对应位置为 0。
func (n *RatingNode) predict(items []*core.Item) ([]float64, error) {
	ratings := make([]float64, len(items))
	bp, batch := n.Model.(batchPredictor)
	if !batch {
		for i, it := range items {
			if it == nil {
				continue
			}
			r, err := n.Model.PredictRating(Features(it))
			if err != nil {
				return nil, err
			}
			ratings[i] = r
		}
		return ratings, nil
	}

	idx := make([]int, 0, len(items))
	list := make([]map[string]float64, 0, len(items))
	for i, it := range items {
		if it != nil {
			idx = append(idx, i)
			list = append(list, Features(it))
		}
	}
	scores, err := bp.PredictBatch(list)
	if err != nil {
		return nil, err
	}
	for k, i := range idx {
		ratings[i] = scores[k]
	}
	return ratings, nil
}

// Features 提取 item 的数值特征。
func Features(it *core.Item) map[string]float64 {
	out := make(map[string]float64, len(it.Meta)+1)
	for k, v := range it.Meta {
		if f, ok := conv.ToFloat64(v); ok {
			out[k] = f
		}
	}
	out["recall_score"] = it.Score
	return out
}
