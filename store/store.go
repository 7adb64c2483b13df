// Package store 提供 core.Store 的实现：MemoryStore 与 RedisStore。
//
// 接口定义在 core 包，此包只包含实现。
//
//	var s core.Store = store.NewMemoryStore()
package store

import "github.com/rushteam/tourkit/core"

// ErrNotFound 是 core.ErrStoreNotFound 的别名，便于实现内部使用。
var ErrNotFound = core.ErrStoreNotFound
