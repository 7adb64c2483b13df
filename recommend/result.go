package recommend

import (
	"strings"

	"github.com/rushteam/tourkit/core"
)

// Strategy 推荐策略。
type Strategy string

const (
	StrategyCollaborative Strategy = "collaborative"
	StrategyContent       Strategy = "content"
)

// ParseStrategy 解析策略名，大小写不敏感，支持别名 cf / content_based / contentBased。
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "collaborative", "cf", "usercf", "user_cf":
		return StrategyCollaborative, nil
	case "content", "content_based", "contentbased":
		return StrategyContent, nil
	default:
		return "", core.Errorf(core.ModuleRecommend, core.ErrorCodeInvalidInput,
			"unknown strategy %q (supported: collaborative, content)", s)
	}
}

// Reason 说明结果为空的原因。
type Reason string

const (
	ReasonNone          Reason = ""
	ReasonUnknownUser   Reason = "unknown_user"    // 数据集中没有该用户
	ReasonNoUnseenItems Reason = "no_unseen_items" // 用户已评过所有可推荐的景点
	ReasonFiltered      Reason = "filtered"        // 候选全部被过滤
)

// EmptyMessage 是空结果的展示文案。
const EmptyMessage = "no recommendations available"

// Request 是一次推荐请求。
type Request struct {
	UserID   string
	Strategy string
	TopN     int

	// Filter 可选的 CEL 过滤表达式，例如 item.score > 3.0
	Filter string

	// Params 对过滤表达式可见（rctx.params）
	Params map[string]any
}

// Recommendation 是一条推荐结果，Rank 从 1 开始。
type Recommendation struct {
	AttractionID string            `json:"attraction_id"`
	Score        float64           `json:"score"`
	Rank         int               `json:"rank"`
	Labels       map[string]string `json:"labels,omitempty"`
}

// Result 是一次推荐的结果。
type Result struct {
	RequestID string           `json:"request_id"`
	Strategy  Strategy         `json:"strategy"`
	UserID    string           `json:"user_id"`
	Items     []Recommendation `json:"items"`
	Reason    Reason           `json:"reason,omitempty"`
}

// Empty 是否没有推荐结果。
func (r *Result) Empty() bool {
	return r == nil || len(r.Items) == 0
}

// Message 空结果时返回 EmptyMessage，否则返回空串。
func (r *Result) Message() string {
	if r.Empty() {
		return EmptyMessage
	}
	return ""
}

// IDs 返回按名次排列的景点 ID。
func (r *Result) IDs() []string {
	if r == nil {
		return nil
	}
	ids := make([]string, len(r.Items))
	for i, it := range r.Items {
		ids[i] = it.AttractionID
	}
	return ids
}
