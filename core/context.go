package core

import "github.com/rushteam/tourkit/pkg/utils"

// RecommendContext 承载一次推荐请求的用户与参数，贯穿召回和 Pipeline。
type RecommendContext struct {
	// RequestID 用于日志关联
	RequestID string

	UserID string

	// TopN 召回源最多返回的物品数；<= 0 表示不截断
	TopN int

	// Labels 是请求级标签，例如 strategy
	Labels map[string]utils.Label

	// Params 请求级参数，对 DSL 表达式可见（rctx.params）
	Params map[string]any

	memo map[string]memoEntry
}

type memoEntry struct {
	value any
	err   error
}

// Memo 返回本次请求内 key 对应的值，首次访问时调用 load 并记住结果（包括错误）。
// 非并发安全，Pipeline 中的 Node 串行执行。
func (rctx *RecommendContext) Memo(key string, load func() (any, error)) (any, error) {
	if e, ok := rctx.memo[key]; ok {
		return e.value, e.err
	}
	v, err := load()
	if rctx.memo == nil {
		rctx.memo = make(map[string]memoEntry)
	}
	rctx.memo[key] = memoEntry{value: v, err: err}
	return v, err
}

// PutLabel 写入请求级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// GetLabel 获取请求级 Label。
func (rctx *RecommendContext) GetLabel(key string) (utils.Label, bool) {
	if rctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}
