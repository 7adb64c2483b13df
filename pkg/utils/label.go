package utils

// Label 是推荐结果上可解释、可透传的标签。
// Value 与 Source 的语义由产出方定义，这里只规定合并规则。
type Label struct {
	Value  string `json:"value"`
	Source string `json:"source"` // recall / filter / rerank / recommend
}

// MergeLabel 合并同名 Label：Value 以 '|' 累积，Source 以 ',' 累积。
// 任一侧为空值时直接取另一侧。
func MergeLabel(existing Label, incoming Label) Label {
	if existing.Value == "" {
		return incoming
	}
	if incoming.Value == "" {
		return existing
	}

	merged := Label{Value: existing.Value + "|" + incoming.Value}
	switch {
	case existing.Source == "":
		merged.Source = incoming.Source
	case incoming.Source == "" || incoming.Source == existing.Source:
		merged.Source = existing.Source
	default:
		merged.Source = existing.Source + "," + incoming.Source
	}
	return merged
}
