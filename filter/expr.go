package filter

import (
	"context"

	"github.com/rushteam/tourkit/core"
	"github.com/rushteam/tourkit/pkg/dsl"
)

// ExprFilter 保留表达式为 true 的景点，其余移除。
//
//	item.score > 0.5
//	label.city == "3" && item.meta.attraction_type_id != 2
type ExprFilter struct {
	prg *dsl.Program
}

// NewExprFilter 编译表达式，语法错误直接返回。
func NewExprFilter(expr string) (*ExprFilter, error) {
	prg, err := dsl.Compile(expr)
	if err != nil {
		return nil, core.Errorf(core.ModuleRecommend, core.ErrorCodeInvalidInput, "filter expression %q: %v", expr, err)
	}
	return &ExprFilter{prg: prg}, nil
}

func (f *ExprFilter) Name() string {
	return "filter.expr"
}

// Expr 返回原始表达式。
func (f *ExprFilter) Expr() string {
	return f.prg.String()
}

func (f *ExprFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	keep, err := f.prg.Eval(item, rctx)
	if err != nil {
		return false, err
	}
	return !keep, nil
}
