package filter

import (
	"context"
	"errors"
	"testing"

	"github.com/rushteam/tourkit/core"
	"github.com/rushteam/tourkit/pkg/utils"
	"github.com/rushteam/tourkit/store"
)

func items(scores map[string]float64, order ...string) []*core.Item {
	out := make([]*core.Item, 0, len(order))
	for _, id := range order {
		it := core.NewItem(id)
		it.Score = scores[id]
		it.PutLabel("city", utils.Label{Value: "c" + id, Source: "dataset"})
		out = append(out, it)
	}
	return out
}

func ids(in []*core.Item) []string {
	out := make([]string, len(in))
	for i, it := range in {
		out[i] = it.ID
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestExprFilter(t *testing.T) {
	f, err := NewExprFilter("item.score >= 2.0")
	if err != nil {
		t.Fatal(err)
	}
	node := &FilterNode{Filters: []Filter{f}}
	in := items(map[string]float64{"a": 3, "b": 1, "c": 2}, "a", "b", "c")
	out, err := node.Process(context.Background(), &core.RecommendContext{}, in)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := ids(out), []string{"a", "c"}; !equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestExprFilterCompileError(t *testing.T) {
	_, err := NewExprFilter("item.score >>")
	if !core.IsInvalidInput(err) {
		t.Fatalf("err = %v, want INVALID_INPUT", err)
	}
}

type brokenFilter struct{}

func (brokenFilter) Name() string { return "broken" }
func (brokenFilter) ShouldFilter(context.Context, *core.RecommendContext, *core.Item) (bool, error) {
	return false, errors.New("boom")
}

func TestFilterNodeErrors(t *testing.T) {
	in := items(nil, "a", "b")

	lenient := &FilterNode{Filters: []Filter{brokenFilter{}}}
	out, err := lenient.Process(context.Background(), nil, in)
	if err != nil || len(out) != 2 {
		t.Fatalf("lenient: out=%v err=%v", ids(out), err)
	}

	strict := &FilterNode{Filters: []Filter{brokenFilter{}}, Strict: true}
	if _, err := strict.Process(context.Background(), nil, in); err == nil {
		t.Fatal("strict: expected error")
	}
}

func TestBlacklistFilter(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	defer mem.Close()
	adapter := NewStoreAdapter(mem)
	if err := adapter.PutList(ctx, "blacklist", []string{"c"}); err != nil {
		t.Fatal(err)
	}

	node := &FilterNode{Filters: []Filter{NewBlacklistFilter([]string{"a"}, adapter, "blacklist")}}
	out, err := node.Process(ctx, nil, items(nil, "a", "b", "c"))
	if err != nil {
		t.Fatal(err)
	}
	if got, want := ids(out), []string{"b"}; !equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestBlacklistMissingKey(t *testing.T) {
	mem := store.NewMemoryStore()
	defer mem.Close()
	f := NewBlacklistFilter(nil, NewStoreAdapter(mem), "absent")
	removed, err := f.ShouldFilter(context.Background(), nil, core.NewItem("a"))
	if err != nil || removed {
		t.Fatalf("removed=%v err=%v", removed, err)
	}
}

func TestUserBlockFilter(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	defer mem.Close()
	adapter := NewStoreAdapter(mem)
	if err := adapter.PutList(ctx, "blocks:u1", []string{"b"}); err != nil {
		t.Fatal(err)
	}
	node := &FilterNode{Filters: []Filter{NewUserBlockFilter(adapter, "blocks")}}

	out, _ := node.Process(ctx, &core.RecommendContext{UserID: "u1"}, items(nil, "a", "b"))
	if got, want := ids(out), []string{"a"}; !equal(got, want) {
		t.Errorf("u1: got %v, want %v", got, want)
	}
	out, _ = node.Process(ctx, &core.RecommendContext{UserID: "u2"}, items(nil, "a", "b"))
	if got, want := ids(out), []string{"a", "b"}; !equal(got, want) {
		t.Errorf("u2: got %v, want %v", got, want)
	}
}

type countingBlocks struct {
	calls int
	ids   []string
	err   error
}

func (s *countingBlocks) GetUserBlocks(context.Context, string, string) ([]string, error) {
	s.calls++
	return s.ids, s.err
}

func TestUserBlockFilter_ReadsOncePerRequest(t *testing.T) {
	ctx := context.Background()
	src := &countingBlocks{ids: []string{"b", "d"}}
	node := &FilterNode{Filters: []Filter{NewUserBlockFilter(src, "blocks")}}

	out, err := node.Process(ctx, &core.RecommendContext{UserID: "u1"}, items(nil, "a", "b", "c", "d"))
	if err != nil {
		t.Fatal(err)
	}
	if got, want := ids(out), []string{"a", "c"}; !equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if src.calls != 1 {
		t.Errorf("block list read %d times, want 1", src.calls)
	}

	// 新请求重新读取
	if _, err := node.Process(ctx, &core.RecommendContext{UserID: "u1"}, items(nil, "a")); err != nil {
		t.Fatal(err)
	}
	if src.calls != 2 {
		t.Errorf("block list read %d times over two requests, want 2", src.calls)
	}
}

func TestUserBlockFilter_StoreErrorReadOnce(t *testing.T) {
	src := &countingBlocks{err: errors.New("redis down")}
	node := &FilterNode{Filters: []Filter{NewUserBlockFilter(src, "blocks")}, Strict: true}

	if _, err := node.Process(context.Background(), &core.RecommendContext{UserID: "u1"}, items(nil, "a", "b")); err == nil {
		t.Fatal("Process() error = nil, want store error in strict mode")
	}
	lenient := &FilterNode{Filters: []Filter{NewUserBlockFilter(src, "blocks")}}
	src.calls = 0
	out, err := lenient.Process(context.Background(), &core.RecommendContext{UserID: "u1"}, items(nil, "a", "b", "c"))
	if err != nil || len(out) != 3 {
		t.Fatalf("lenient Process() = %v, %v; want all items kept", ids(out), err)
	}
	if src.calls != 1 {
		t.Errorf("failing store read %d times, want 1", src.calls)
	}
}
