package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/tourkit/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvErr  error
	celEnvOnce sync.Once
)

func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = cel.NewEnv(
			cel.Variable("item", cel.DynType),
			cel.Variable("label", cel.DynType),
			cel.Variable("rctx", cel.DynType),
		)
	})
	return celEnv, celEnvErr
}

// Program 是编译后的 Label DSL 表达式，可并发复用。
//
// 表达式语法（CEL 标准语法）：
//   - 数值：item.score > 0.7
//   - 标签：label.city == "12" / label.recall_source == "u2i"
//   - 元数据：item.meta.attraction_type_id in [1, 3]
//   - 请求：rctx.user_id == "u1" / rctx.params.min_score < item.score
//   - 存在性："city" in label
type Program struct {
	expr string
	prg  cel.Program
}

// Compile 编译表达式。空表达式恒为 true。
func Compile(expr string) (*Program, error) {
	if expr == "" {
		return &Program{}, nil
	}
	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile error: %w", issues.Err())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %w", err)
	}
	return &Program{expr: expr, prg: prg}, nil
}

// String 返回原始表达式。
func (p *Program) String() string { return p.expr }

// Eval 对单个 item 求值。
func (p *Program) Eval(item *core.Item, rctx *core.RecommendContext) (bool, error) {
	if p == nil || p.prg == nil {
		return true, nil
	}
	out, _, err := p.prg.Eval(buildInput(item, rctx))
	if err != nil {
		// 访问不存在的 key 会报错，需先用 in 判断
		return false, fmt.Errorf("eval error: %w", err)
	}
	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}
	return result, nil
}

// Eval 是绑定到单个 item 的解释器，每次 Evaluate 都会重新编译。
// 批量求值请用 Compile + Program.Eval。
type Eval struct {
	item *core.Item
	rctx *core.RecommendContext
}

func NewEval(item *core.Item, rctx *core.RecommendContext) *Eval {
	return &Eval{item: item, rctx: rctx}
}

// Evaluate 解析并执行表达式，返回布尔结果。
func (e *Eval) Evaluate(expr string) (bool, error) {
	p, err := Compile(expr)
	if err != nil {
		return false, err
	}
	return p.Eval(e.item, e.rctx)
}

func buildInput(it *core.Item, rctx *core.RecommendContext) map[string]any {
	labels := make(map[string]any)
	labelValues := make(map[string]any)
	item := map[string]any{
		"id":     "",
		"score":  0.0,
		"meta":   map[string]any{},
		"labels": labels,
	}
	if it != nil {
		for k, v := range it.Labels {
			labels[k] = map[string]any{
				"value":  v.Value,
				"source": v.Source,
			}
			labelValues[k] = v.Value
		}
		item["id"] = it.ID
		item["score"] = it.Score
		if it.Meta != nil {
			item["meta"] = it.Meta
		}
	}

	ctx := map[string]any{
		"user_id":    "",
		"request_id": "",
		"params":     map[string]any{},
	}
	if rctx != nil {
		ctx["user_id"] = rctx.UserID
		ctx["request_id"] = rctx.RequestID
		if rctx.Params != nil {
			ctx["params"] = rctx.Params
		}
	}

	return map[string]any{
		"item":  item,
		"label": labelValues,
		"rctx":  ctx,
	}
}
