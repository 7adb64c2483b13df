package recall

import (
	"context"
	"strconv"

	"github.com/rushteam/tourkit/core"
	"github.com/rushteam/tourkit/dataset"
	"github.com/rushteam/tourkit/pkg/utils"
)

// Source 表示一个召回源（协同过滤 / 内容推荐）。
// 返回的 items 已按分数降序排列，长度不超过 rctx.TopN（TopN <= 0 时不截断）。
type Source interface {
	Name() string
	Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error)
}

// truncate 按 TopN 截断，n <= 0 时不截断。
func truncate[T any](s []T, n int) []T {
	if n > 0 && len(s) > n {
		return s[:n]
	}
	return s
}

// annotate 把景点属性写入 Meta 和 Label，供过滤表达式和多样性重排使用。
func annotate(it *core.Item, s *dataset.Store) {
	in, ok := s.Attraction(it.ID)
	if !ok {
		return
	}
	it.Meta["attraction_type_id"] = in.AttractionTypeID
	it.Meta["city_id"] = in.CityID
	it.Meta["country_id"] = in.CountryID
	it.PutLabel("attraction_type", utils.Label{Value: strconv.Itoa(in.AttractionTypeID), Source: "dataset"})
	it.PutLabel("city", utils.Label{Value: strconv.Itoa(in.CityID), Source: "dataset"})
	it.PutLabel("country", utils.Label{Value: strconv.Itoa(in.CountryID), Source: "dataset"})
}
