// Package tourkit 是景点推荐工具包。
//
// 设计要点：
// - 两种策略：基于用户的协同过滤（recall.UserCF）与基于景点属性的内容推荐（recall.ContentBased）
// - Pipeline-first: 召回之后的过滤、重排、截断通过 Node 串联，可由 YAML 配置
// - Labels-first: 召回来源、景点属性以 label 透传，供 CEL 过滤表达式与多样性重排使用
// - 数据集加载后只读，相似度矩阵按数据集版本缓存到 core.Store（内存或 Redis）
package tourkit

import (
	"github.com/rushteam/tourkit/dataset"
	"github.com/rushteam/tourkit/pipeline"
	"github.com/rushteam/tourkit/recommend"
)

// 轻量 facade：便于直接 import "tourkit" 使用核心抽象。
type (
	Service        = recommend.Service
	Request        = recommend.Request
	Result         = recommend.Result
	Recommendation = recommend.Recommendation
	Strategy       = recommend.Strategy
	Pipeline       = pipeline.Pipeline
	Node           = pipeline.Node
)

const (
	StrategyCollaborative = recommend.StrategyCollaborative
	StrategyContent       = recommend.StrategyContent
)

// Open 加载 CSV 数据集并构建默认 Service。
func Open(path string, opts ...recommend.Option) (*Service, error) {
	ds, err := dataset.Load(path)
	if err != nil {
		return nil, err
	}
	return recommend.New(ds, opts...), nil
}
