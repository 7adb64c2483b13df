package config

import (
	"fmt"
	"sort"
	"sync"

	"github.com/rushteam/tourkit/pipeline"
)

// NodeBuilder 按 YAML 中 node 的 config 段构建 pipeline.Node。
type NodeBuilder = pipeline.NodeBuilder

// nodeTypes 是进程级的 node 类型表，由 config/builders 在 init 中填充。
// 入口需要 import _ "github.com/rushteam/tourkit/config/builders"。
var nodeTypes = &typeTable{builders: make(map[string]NodeBuilder)}

type typeTable struct {
	mu       sync.RWMutex
	builders map[string]NodeBuilder
}

func (t *typeTable) add(name string, b NodeBuilder) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, dup := t.builders[name]; dup {
		panic("config: node type registered twice: " + name)
	}
	t.builders[name] = b
}

func (t *typeTable) has(name string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.builders[name]
	return ok
}

func (t *typeTable) names() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]string, 0, len(t.builders))
	for name := range t.builders {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Register 登记一种 node 类型。同名重复登记会 panic。
func Register(typeName string, builder NodeBuilder) {
	if typeName == "" || builder == nil {
		panic("config: Register needs a type name and a builder")
	}
	nodeTypes.add(typeName, builder)
}

// SupportedTypes 返回已登记的 node 类型（排序）。
func SupportedTypes() []string { return nodeTypes.names() }

// DefaultFactory 返回包含全部已登记类型的 NodeFactory 快照。
func DefaultFactory() *pipeline.NodeFactory {
	nodeTypes.mu.RLock()
	defer nodeTypes.mu.RUnlock()
	f := pipeline.NewNodeFactory()
	for name, b := range nodeTypes.builders {
		f.Register(name, b)
	}
	return f
}

// ValidatePipelineConfig 在构建之前检查每个 node 都写了已知类型。
func ValidatePipelineConfig(cfg *pipeline.Config) error {
	if cfg == nil {
		return nil
	}
	for i, nc := range cfg.Nodes {
		switch {
		case nc.Type == "":
			return fmt.Errorf("node #%d: empty type", i)
		case !nodeTypes.has(nc.Type):
			return fmt.Errorf("node #%d: unsupported type %q (supported: %v)", i, nc.Type, SupportedTypes())
		}
	}
	return nil
}
