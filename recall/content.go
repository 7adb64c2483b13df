package recall

import (
	"context"
	"sort"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mat"

	"github.com/rushteam/tourkit/core"
	"github.com/rushteam/tourkit/dataset"
	"github.com/rushteam/tourkit/feature"
	"github.com/rushteam/tourkit/matrix"
	"github.com/rushteam/tourkit/pkg/utils"
	"github.com/rushteam/tourkit/similarity"
)

// ContentBased 是基于内容的召回源（Content-Based Recommendation）。
//
// 核心思想："喜欢这个景点的用户，也可能喜欢属性相近的景点"
//
// 景点特征为 {AttractionTypeId, CityId, CountryId}，按列缩放（默认 z-score）后求景点间余弦相似度。
// 以用户评分最高的景点为锚点（同分取用户记录中最先出现的），
// 排除用户评过的全部景点后按相似度降序取 TopN。
type ContentBased struct {
	Store *dataset.Store

	// Metric 相似度度量：cosine / pearson
	Metric string

	// Scaler 特征缩放方式：zscore（默认）/ minmax
	Scaler string

	// Cache 景点相似度矩阵缓存（可选）
	Cache *SimilarityCache

	Logger zerolog.Logger
}

func (r *ContentBased) Name() string {
	return "recall.content"
}

func (r *ContentBased) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Store == nil || rctx == nil || rctx.UserID == "" {
		return nil, nil
	}

	history := r.Store.ForUser(rctx.UserID)
	if len(history) == 0 {
		return nil, nil
	}

	table := matrix.BuildFeatureTable(r.Store)
	metric := r.Metric
	if metric == "" {
		metric = similarity.MetricCosine
	}
	kind := "item_sim:" + metric
	if r.Scaler != "" && r.Scaler != feature.ScalerZScore {
		kind = "item_sim:" + r.Scaler + ":" + metric
	}
	sim, err := r.Cache.Get(ctx, kind, r.Store.Version(), func() (*mat.Dense, error) {
		z, err := table.Scaled(r.Scaler)
		if err != nil {
			return nil, err
		}
		return similarity.Compute(metric, z)
	})
	if err != nil {
		return nil, err
	}

	anchor := AnchorAttraction(history)
	anchorIdx, ok := table.Index(anchor)
	if !ok {
		// 锚点必然来自同一 Store，走到这里说明缓存与数据集不一致
		return nil, core.Errorf(core.ModuleRecommend, core.ErrorCodeInternalError, "anchor %s not in feature table", anchor)
	}

	rated := make(map[string]struct{}, len(history))
	for _, in := range history {
		rated[in.AttractionID] = struct{}{}
	}

	type scoredItem struct {
		row   int
		score float64
	}
	attractions := table.Attractions()
	simRow := similarity.Row(sim, anchorIdx)
	scored := make([]scoredItem, 0, len(attractions))
	for i, id := range attractions {
		if _, ok := rated[id]; ok {
			continue
		}
		scored = append(scored, scoredItem{row: i, score: simRow[i]})
	}

	// 行下标即按景点 ID 字典序，稳定排序保证平分时 ID 升序
	sort.SliceStable(scored, func(a, b int) bool {
		return scored[a].score > scored[b].score
	})
	scored = truncate(scored, rctx.TopN)

	r.Logger.Debug().
		Str("request_id", rctx.RequestID).
		Str("user_id", rctx.UserID).
		Str("anchor", anchor).
		Int("candidates", len(scored)).
		Msg("content recall")

	out := make([]*core.Item, 0, len(scored))
	for _, s := range scored {
		it := core.NewItem(attractions[s.row])
		it.Score = s.score
		it.PutLabel("recall_source", utils.Label{Value: "content", Source: "recall"})
		it.PutLabel("recall_metric", utils.Label{Value: metric, Source: "recall"})
		it.PutLabel("content_anchor", utils.Label{Value: anchor, Source: "recall"})
		annotate(it, r.Store)
		out = append(out, it)
	}
	return out, nil
}

// AnchorAttraction 返回评分最高的景点；同分时取最先出现的。history 为空时返回空串。
func AnchorAttraction(history []dataset.Interaction) string {
	best := -1
	for i, in := range history {
		if best < 0 || in.Rating > history[best].Rating {
			best = i
		}
	}
	if best < 0 {
		return ""
	}
	return history[best].AttractionID
}

var _ Source = (*ContentBased)(nil)
