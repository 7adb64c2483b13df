package core

import (
	"errors"
	"fmt"
)

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message）
//   - 支持错误检查函数（IsXXX），可穿透 fmt.Errorf("%w") 包装
//
// 使用场景：
//   - 数据集加载：DATA_ERROR
//   - 类别编码：UNKNOWN_CATEGORY
//   - Store：NOT_FOUND
//   - 请求参数：INVALID_INPUT
type DomainError struct {
	Code    string // 错误代码（如 "DATA_ERROR", "NOT_FOUND"）
	Message string // 错误消息
	Module  string // 模块名称（如 "dataset", "store", "encoder"）
}

func (e *DomainError) Error() string {
	return e.Message
}

// Is 让 errors.Is 按 Module + Code 比较，忽略 Message。
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Module == t.Module && e.Code == t.Code
}

// IsDomainError 检查错误链中是否有 DomainError
func IsDomainError(err error) bool {
	return GetDomainError(err) != nil
}

// GetDomainError 获取错误链中的 DomainError，如果没有则返回 nil
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// NewDomainError 创建新的领域错误
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// Errorf 按格式化消息创建领域错误。
func Errorf(module, code, format string, args ...any) *DomainError {
	return NewDomainError(module, code, module+": "+fmt.Sprintf(format, args...))
}

// 错误代码常量
const (
	ErrorCodeNotFound        = "NOT_FOUND"        // 资源不存在
	ErrorCodeNotSupported    = "NOT_SUPPORTED"    // 操作不支持
	ErrorCodeUnavailable     = "UNAVAILABLE"      // 服务不可用
	ErrorCodeInvalidInput    = "INVALID_INPUT"    // 输入无效
	ErrorCodeInternalError   = "INTERNAL_ERROR"   // 内部错误
	ErrorCodeDataError       = "DATA_ERROR"       // 数据集缺列或清洗后为空
	ErrorCodeUnknownCategory = "UNKNOWN_CATEGORY" // 编码器词表中不存在的类别
)

// 模块名称常量
const (
	ModuleDataset    = "dataset"
	ModuleSimilarity = "similarity"
	ModuleStore      = "store"
	ModuleEncoder    = "encoder"
	ModuleModel      = "model"
	ModuleRecommend  = "recommend"
	ModuleConfig     = "config"
)

func hasCode(err error, code string) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == code
	}
	return false
}

// IsNotFound 检查错误是否为 NOT_FOUND
func IsNotFound(err error) bool { return hasCode(err, ErrorCodeNotFound) }

// IsNotSupported 检查错误是否为 NOT_SUPPORTED
func IsNotSupported(err error) bool { return hasCode(err, ErrorCodeNotSupported) }

// IsInvalidInput 检查错误是否为 INVALID_INPUT
func IsInvalidInput(err error) bool { return hasCode(err, ErrorCodeInvalidInput) }

// IsDataError 检查错误是否为 DATA_ERROR
func IsDataError(err error) bool { return hasCode(err, ErrorCodeDataError) }

// IsUnknownCategory 检查错误是否为 UNKNOWN_CATEGORY
func IsUnknownCategory(err error) bool { return hasCode(err, ErrorCodeUnknownCategory) }
