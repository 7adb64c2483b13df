// Package recommend 是景点推荐的门面：按策略选择召回源，串联过滤与重排，返回带名次的结果。
package recommend

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rushteam/tourkit/core"
	"github.com/rushteam/tourkit/dataset"
	"github.com/rushteam/tourkit/filter"
	"github.com/rushteam/tourkit/pipeline"
	"github.com/rushteam/tourkit/pkg/utils"
	"github.com/rushteam/tourkit/recall"
	"github.com/rushteam/tourkit/rerank"
)

// Service 持有只读数据集与两个召回源，可并发调用。
type Service struct {
	store   *dataset.Store
	sources map[Strategy]recall.Source

	// 召回之后、TopN 截断之前执行
	filters  []filter.Filter
	pipeline *pipeline.Pipeline

	logger  zerolog.Logger
	closers []func() error
}

// Option 配置 Service。
type Option func(*options)

type options struct {
	neighbors int
	epsilon   float64
	cfMetric  string
	cbMetric  string
	cbScaler  string
	cache     *recall.SimilarityCache
	filters   []filter.Filter
	pipeline  *pipeline.Pipeline
	logger    zerolog.Logger
	closers   []func() error
}

// WithNeighbors 设置协同过滤邻居数。
func WithNeighbors(k int) Option { return func(o *options) { o.neighbors = k } }

// WithEpsilon 设置协同过滤分母平滑项。
func WithEpsilon(eps float64) Option { return func(o *options) { o.epsilon = eps } }

// WithMetrics 设置协同过滤与内容推荐的相似度度量。
func WithMetrics(collaborative, content string) Option {
	return func(o *options) {
		o.cfMetric = collaborative
		o.cbMetric = content
	}
}

// WithContentScaler 设置内容推荐的特征缩放方式（zscore / minmax）。
func WithContentScaler(scaler string) Option { return func(o *options) { o.cbScaler = scaler } }

// WithCache 设置相似度矩阵缓存。
func WithCache(c *recall.SimilarityCache) Option { return func(o *options) { o.cache = c } }

// WithFilters 追加始终生效的过滤器。
func WithFilters(fs ...filter.Filter) Option {
	return func(o *options) { o.filters = append(o.filters, fs...) }
}

// WithPipeline 设置召回后的处理链（过滤 / 重排）。
func WithPipeline(p *pipeline.Pipeline) Option { return func(o *options) { o.pipeline = p } }

// WithLogger 设置日志。
func WithLogger(l zerolog.Logger) Option { return func(o *options) { o.logger = l } }

func withCloser(fn func() error) Option {
	return func(o *options) { o.closers = append(o.closers, fn) }
}

// New 基于已加载的数据集构建 Service。
func New(store *dataset.Store, opts ...Option) *Service {
	o := options{
		neighbors: recall.DefaultNeighbors,
		epsilon:   recall.DefaultEpsilon,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	logger := o.logger.With().Str("component", "recommend").Logger()

	// 复制一份，调用方传入的 Pipeline 不被修改
	p := &pipeline.Pipeline{Name: "default"}
	if o.pipeline != nil {
		p = o.pipeline.With()
	}
	p.Logger = logger

	return &Service{
		store: store,
		sources: map[Strategy]recall.Source{
			StrategyCollaborative: &recall.UserCF{
				Store:     store,
				Neighbors: o.neighbors,
				Epsilon:   o.epsilon,
				Metric:    o.cfMetric,
				Cache:     o.cache,
				Logger:    logger,
			},
			StrategyContent: &recall.ContentBased{
				Store:  store,
				Metric: o.cbMetric,
				Scaler: o.cbScaler,
				Cache:  o.cache,
				Logger: logger,
			},
		},
		filters:  o.filters,
		pipeline: p,
		logger:   logger,
		closers:  o.closers,
	}
}

// Store 返回数据集。
func (s *Service) Store() *dataset.Store { return s.store }

// Users 返回数据集中的全部用户（排序）。
func (s *Service) Users() []string { return s.store.Users() }

// Close 释放缓存后端等资源。
func (s *Service) Close() error {
	var first error
	for _, fn := range s.closers {
		if err := fn(); err != nil && first == nil {
			first = err
		}
	}
	s.closers = nil
	return first
}

// Recommend 为用户生成推荐。
//
// 策略无效、TopN < 1、过滤表达式无法编译时返回 INVALID_INPUT 错误；
// 未知用户、没有未评分景点、候选全部被过滤时返回空结果并在 Reason 中说明。
func (s *Service) Recommend(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()

	strategy, err := ParseStrategy(req.Strategy)
	if err != nil {
		return nil, err
	}
	if req.TopN < 1 {
		return nil, core.Errorf(core.ModuleRecommend, core.ErrorCodeInvalidInput, "top_n must be >= 1, got %d", req.TopN)
	}
	userID := dataset.NormalizeID(req.UserID)

	var exprFilter *filter.ExprFilter
	if req.Filter != "" {
		if exprFilter, err = filter.NewExprFilter(req.Filter); err != nil {
			return nil, err
		}
	}

	res := &Result{
		RequestID: uuid.NewString(),
		Strategy:  strategy,
		UserID:    userID,
		Items:     []Recommendation{},
	}
	log := s.logger.With().
		Str("request_id", res.RequestID).
		Str("strategy", string(strategy)).
		Str("user_id", userID).
		Logger()

	defer func() {
		log.Info().
			Int("count", len(res.Items)).
			Str("reason", string(res.Reason)).
			Dur("latency", time.Since(start)).
			Msg("recommend")
	}()

	if !s.store.HasUser(userID) {
		res.Reason = ReasonUnknownUser
		return res, nil
	}

	rctx := &core.RecommendContext{
		RequestID: res.RequestID,
		UserID:    userID,
		Params:    req.Params,
	}
	rctx.PutLabel("strategy", utils.Label{Value: string(strategy), Source: "request"})

	// 全量召回，过滤后再截断，避免过滤导致结果不足 TopN
	candidates, err := s.sources[strategy].Recall(ctx, rctx)
	if err != nil {
		log.Error().Err(err).Msg("recall failed")
		return nil, err
	}
	if len(candidates) == 0 {
		res.Reason = ReasonNoUnseenItems
		return res, nil
	}

	filters := s.filters
	if exprFilter != nil {
		filters = append(append([]filter.Filter(nil), s.filters...), exprFilter)
	}
	post := s.pipeline
	if len(filters) > 0 {
		post = (&pipeline.Pipeline{Name: s.pipeline.Name, Logger: s.pipeline.Logger}).
			With(&filter.FilterNode{Filters: filters, Logger: log}).
			With(s.pipeline.Nodes...)
	}
	items, err := post.With(&rerank.TopNNode{N: req.TopN}).Run(ctx, rctx, candidates)
	if err != nil {
		log.Error().Err(err).Msg("pipeline failed")
		return nil, err
	}
	if len(items) == 0 {
		res.Reason = ReasonFiltered
		return res, nil
	}

	for i, it := range items {
		res.Items = append(res.Items, Recommendation{
			AttractionID: it.ID,
			Score:        it.Score,
			Rank:         i + 1,
			Labels:       labelValues(it),
		})
	}
	return res, nil
}

func labelValues(it *core.Item) map[string]string {
	if len(it.Labels) == 0 {
		return nil
	}
	out := make(map[string]string, len(it.Labels))
	for k, v := range it.Labels {
		out[k] = v.Value
	}
	return out
}
