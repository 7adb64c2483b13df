package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rushteam/tourkit/core"
)

type dropFirst struct{}

func (dropFirst) Name() string { return "drop_first" }
func (dropFirst) Kind() Kind   { return KindFilter }
func (dropFirst) Process(_ context.Context, _ *core.RecommendContext, items []*core.Item) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}
	return items[1:], nil
}

type failing struct{}

func (failing) Name() string { return "failing" }
func (failing) Kind() Kind   { return KindReRank }
func (failing) Process(context.Context, *core.RecommendContext, []*core.Item) ([]*core.Item, error) {
	return nil, errors.New("boom")
}

func items(ids ...string) []*core.Item {
	out := make([]*core.Item, len(ids))
	for i, id := range ids {
		out[i] = core.NewItem(id)
	}
	return out
}

func TestRun(t *testing.T) {
	p := &Pipeline{Name: "t", Nodes: []Node{dropFirst{}, dropFirst{}}}
	out, err := p.Run(context.Background(), nil, items("a", "b", "c"))
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 || out[0].ID != "c" {
		t.Errorf("out = %v", out)
	}

	empty := &Pipeline{}
	out, _ = empty.Run(context.Background(), nil, items("a"))
	if len(out) != 1 {
		t.Errorf("empty pipeline changed items: %v", out)
	}
}

func TestRunError(t *testing.T) {
	p := &Pipeline{Nodes: []Node{dropFirst{}, failing{}}}
	if _, err := p.Run(context.Background(), nil, items("a", "b")); err == nil {
		t.Fatal("expected error")
	}
}

func TestWith(t *testing.T) {
	base := &Pipeline{Name: "base", Nodes: []Node{dropFirst{}}}
	ext := base.With(dropFirst{})
	if len(base.Nodes) != 1 || len(ext.Nodes) != 2 || ext.Name != "base" {
		t.Errorf("base=%d ext=%d", len(base.Nodes), len(ext.Nodes))
	}
}

func TestConfigBuild(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	body := `
pipeline:
  name: demo
  nodes:
    - type: drop
    - type: drop
      config: { unused: 1 }
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFromYAML(path)
	if err != nil {
		t.Fatal(err)
	}

	f := NewNodeFactory()
	var seen []map[string]any
	f.Register("drop", func(c map[string]any) (Node, error) {
		seen = append(seen, c)
		return dropFirst{}, nil
	})
	p, err := cfg.BuildPipeline(f)
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "demo" || len(p.Nodes) != 2 {
		t.Fatalf("pipeline %q with %d nodes", p.Name, len(p.Nodes))
	}
	if seen[0] == nil || seen[1]["unused"] != 1 {
		t.Errorf("configs = %v", seen)
	}

	cfg.Nodes = append(cfg.Nodes, NodeConfig{Type: "missing"})
	if _, err := cfg.BuildPipeline(f); err == nil {
		t.Error("expected unknown type error")
	}
	if got := f.Types(); len(got) != 1 || got[0] != "drop" {
		t.Errorf("Types = %v", got)
	}
}
