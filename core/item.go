package core

import "github.com/rushteam/tourkit/pkg/utils"

// Item 是推荐结果的统一承载结构：景点 ID、分数、标签。
// Score 的含义由召回源决定（协同过滤为预测评分，内容推荐为相似度）。
type Item struct {
	ID     string
	Score  float64
	Meta   map[string]any
	Labels map[string]utils.Label
}

func NewItem(id string) *Item {
	return &Item{
		ID:     id,
		Meta:   make(map[string]any),
		Labels: make(map[string]utils.Label),
	}
}

// PutLabel 写入 Label；同名 key 按 utils.MergeLabel 累积。
func (it *Item) PutLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}

// LabelValue 返回 Label 的值，不存在时返回空串。
func (it *Item) LabelValue(key string) string {
	return it.Labels[key].Value
}
