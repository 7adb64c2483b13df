package recall

import (
	"context"
	"sort"
	"strconv"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mat"

	"github.com/rushteam/tourkit/core"
	"github.com/rushteam/tourkit/dataset"
	"github.com/rushteam/tourkit/matrix"
	"github.com/rushteam/tourkit/pkg/utils"
	"github.com/rushteam/tourkit/similarity"
)

// 协同过滤默认参数
const (
	DefaultNeighbors = 10
	DefaultEpsilon   = 1e-9
)

// UserCF 是基于用户的协同过滤召回源（User-based Collaborative Filtering）。
//
// 核心思想："兴趣相似的用户，喜欢相似的景点"
//
// 算法流程：
//  1. 构建用户 × 景点评分矩阵（缺失记 0）
//  2. 计算用户-用户相似度（默认 cosine）
//  3. 取与目标用户最相似的 K 个邻居（相似度降序，平分按用户 ID 升序）
//  4. 对每个景点：score = Σ r(n, i)·sim(n) / (Σ sim(n) + ε)
//     负相关邻居（pearson 下可能出现）不参与打分，分数始终落在评分区间内
//  5. 只保留目标用户未评分的景点，按分数降序（平分按景点 ID 升序）取 TopN
//
// 未知用户返回空结果而不是错误。
type UserCF struct {
	Store *dataset.Store

	// Neighbors 参与打分的相似用户数，默认 10；其他用户不足时全部使用
	Neighbors int

	// Epsilon 分母平滑项，避免邻居相似度之和为 0 时除零，默认 1e-9
	Epsilon float64

	// Metric 相似度度量：cosine / pearson
	Metric string

	// Cache 用户相似度矩阵缓存（可选）
	Cache *SimilarityCache

	Logger zerolog.Logger
}

func (r *UserCF) Name() string {
	return "recall.u2i"
}

func (r *UserCF) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Store == nil || rctx == nil || rctx.UserID == "" {
		return nil, nil
	}

	rm := matrix.BuildRatingMatrix(r.Store)
	target, ok := rm.UserIndex(rctx.UserID)
	if !ok {
		return nil, nil
	}

	metric := r.Metric
	if metric == "" {
		metric = similarity.MetricCosine
	}
	sim, err := r.Cache.Get(ctx, "user_sim:"+metric, r.Store.Version(), func() (*mat.Dense, error) {
		return similarity.Compute(metric, rm.Values())
	})
	if err != nil {
		return nil, err
	}
	simRow := similarity.Row(sim, target)

	// 邻居：行下标即按用户 ID 字典序，平分时下标小者优先
	users, items := rm.Dims()
	neighbors := make([]int, 0, users-1)
	for u := 0; u < users; u++ {
		if u != target {
			neighbors = append(neighbors, u)
		}
	}
	sort.SliceStable(neighbors, func(a, b int) bool {
		return simRow[neighbors[a]] > simRow[neighbors[b]]
	})

	k := r.Neighbors
	if k <= 0 {
		k = DefaultNeighbors
	}
	neighbors = truncate(neighbors, k)
	for len(neighbors) > 0 && simRow[neighbors[len(neighbors)-1]] < 0 {
		neighbors = neighbors[:len(neighbors)-1]
	}

	eps := r.Epsilon
	if eps <= 0 {
		eps = DefaultEpsilon
	}
	var simSum float64
	for _, n := range neighbors {
		simSum += simRow[n]
	}

	type scoredItem struct {
		col   int
		score float64
	}
	scored := make([]scoredItem, 0, items)
	for j := 0; j < items; j++ {
		if rm.Rated(target, j) {
			continue
		}
		var weighted float64
		for _, n := range neighbors {
			weighted += rm.At(n, j) * simRow[n]
		}
		scored = append(scored, scoredItem{col: j, score: weighted / (simSum + eps)})
	}

	// 列下标即按景点 ID 字典序，稳定排序保证平分时 ID 升序
	sort.SliceStable(scored, func(a, b int) bool {
		return scored[a].score > scored[b].score
	})
	scored = truncate(scored, rctx.TopN)

	r.Logger.Debug().
		Str("request_id", rctx.RequestID).
		Str("user_id", rctx.UserID).
		Int("neighbors", len(neighbors)).
		Int("candidates", len(scored)).
		Msg("user cf recall")

	attractions := rm.Attractions()
	out := make([]*core.Item, 0, len(scored))
	for _, s := range scored {
		it := core.NewItem(attractions[s.col])
		it.Score = s.score
		it.PutLabel("recall_source", utils.Label{Value: "u2i", Source: "recall"})
		it.PutLabel("cf_metric", utils.Label{Value: metric, Source: "recall"})
		it.PutLabel("cf_neighbors", utils.Label{Value: strconv.Itoa(len(neighbors)), Source: "recall"})
		annotate(it, r.Store)
		out = append(out, it)
	}
	return out, nil
}

var _ Source = (*UserCF)(nil)
