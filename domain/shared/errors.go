/*
Package shared - 领域层共享错误定义

设计原则:
1. 领域层定义哨兵错误(sentinel errors)，用于 errors.Is() 类型安全判断
2. DomainError 在创建时捕获堆栈，但延迟格式化（按需打印）
3. 领域错误不包含传输层概念（状态码、退出码等）

堆栈捕获策略:
- 捕获时机：错误创建时（构造函数内）
- 格式化时机：日志打印时（Stack() 方法）
*/
package shared

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// ============================================================================
// 哨兵错误 (Sentinel Errors)
// ============================================================================

var (
	// ErrNotFound 资源未找到
	ErrNotFound = errors.New("not found")

	// ErrConflict 资源冲突（如唯一约束冲突）
	ErrConflict = errors.New("conflict")

	// ErrConcurrentModification 乐观锁版本不匹配，属于 ErrConflict，可重试
	ErrConcurrentModification = errors.New("concurrent modification")

	// ErrInvalidInput 无效输入（不变量校验失败）
	ErrInvalidInput = errors.New("invalid input")

	// ErrHandlerFailed 至少一个事件处理器返回了错误
	ErrHandlerFailed = errors.New("event handler failed")

	// ErrDispatchFailed 状态已提交，但提交后的事件分发失败
	ErrDispatchFailed = errors.New("event dispatch failed after commit")
)

// ============================================================================
// 领域错误结构体 (Domain Error)
// ============================================================================

// DomainError 领域错误 - 携带业务上下文和堆栈的结构化错误
// Unwrap 同时返回具体哨兵错误和分类哨兵错误（如 ErrInvalidInput），
// 因此 errors.Is(err, customer.ErrInvalidName) 与 errors.Is(err, ErrInvalidInput) 均成立
type DomainError struct {
	// Err 具体哨兵错误
	Err error

	// Kind 分类哨兵错误（ErrInvalidInput / ErrNotFound / ErrConflict），可为空
	Kind error

	// Entity 发生错误的实体名称（如 "order", "customer"）
	Entity string

	// Field 可选：发生错误的字段名（用于校验错误）
	Field string

	// Message 人类可读的错误描述
	Message string

	stack []uintptr
}

// Error 实现 error 接口
func (e *DomainError) Error() string {
	return e.Message
}

// Unwrap 实现多错误链
func (e *DomainError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	if e.Kind != nil && e.Kind != e.Err {
		errs = append(errs, e.Kind)
	}
	return errs
}

// Stack 按需格式化堆栈
func (e *DomainError) Stack() []string {
	return FormatStack(e.stack)
}

// ============================================================================
// 堆栈捕获辅助函数
// ============================================================================

// CaptureStack 捕获当前调用栈（导出供子领域包使用）
// skip: 跳过的帧数（通常为 3：Callers, CaptureStack, NewXxxError）
func CaptureStack(skip int) []uintptr {
	var pcs [32]uintptr
	n := runtime.Callers(skip, pcs[:])
	return pcs[:n]
}

// FormatStack 格式化堆栈帧为字符串切片
// 过滤 runtime 内部帧，最多返回 10 帧
func FormatStack(stack []uintptr) []string {
	if len(stack) == 0 {
		return nil
	}

	frames := runtime.CallersFrames(stack)
	var result []string
	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "runtime/") {
			result = append(result, fmt.Sprintf("%s:%d %s", frame.File, frame.Line, frame.Function))
		}
		if !more || len(result) >= 10 {
			break
		}
	}
	return result
}

// ============================================================================
// 领域错误构造函数
// ============================================================================

// NewValidationError 创建"校验失败"领域错误
// sentinel 为具体的哨兵错误，Message 取自 sentinel
func NewValidationError(entity, field string, sentinel error) error {
	return &DomainError{
		Err:     sentinel,
		Kind:    ErrInvalidInput,
		Entity:  entity,
		Field:   field,
		Message: sentinel.Error(),
		stack:   CaptureStack(3),
	}
}

// NewNotFoundError 创建"未找到"领域错误
func NewNotFoundError(entity, id string) error {
	return &DomainError{
		Err:     ErrNotFound,
		Kind:    ErrNotFound,
		Entity:  entity,
		Message: entity + " not found: " + id,
		stack:   CaptureStack(3),
	}
}

// NewConflictError 创建"冲突"领域错误
func NewConflictError(entity, message string) error {
	return &DomainError{
		Err:     ErrConflict,
		Kind:    ErrConflict,
		Entity:  entity,
		Message: message,
		stack:   CaptureStack(3),
	}
}

// NewConcurrentModificationError 创建"乐观锁冲突"领域错误
// 同时匹配 ErrConcurrentModification 与 ErrConflict
func NewConcurrentModificationError(entity, id string) error {
	return &DomainError{
		Err:     ErrConcurrentModification,
		Kind:    ErrConflict,
		Entity:  entity,
		Message: entity + " " + id + " was modified by another transaction, please retry",
		stack:   CaptureStack(3),
	}
}

// ============================================================================
// Stacker 接口
// ============================================================================

// Stacker 可提供堆栈的错误接口
type Stacker interface {
	Stack() []string
}

// StackOf 沿错误链查找第一个 Stacker 并返回其堆栈
func StackOf(err error) []string {
	var stacker Stacker
	if errors.As(err, &stacker) {
		return stacker.Stack()
	}
	return nil
}
