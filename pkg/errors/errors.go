package errors

import (
	"errors"
	"fmt"

	"ddd-shop/domain/shared"
)

// ErrorCode 错误码
type ErrorCode string

const (
	// 通用错误码
	CodeInternal   ErrorCode = "INTERNAL_ERROR"
	CodeBadRequest ErrorCode = "BAD_REQUEST"
	CodeNotFound   ErrorCode = "NOT_FOUND"
	CodeConflict   ErrorCode = "CONFLICT"
	CodeValidation ErrorCode = "VALIDATION_ERROR"

	// 事件分发错误码
	CodeDispatchFailed ErrorCode = "DISPATCH_FAILED"
)

// CLI 退出码
const (
	ExitOK         = 0
	ExitInternal   = 1
	ExitUsage      = 2
	ExitValidation = 3
	ExitNotFound   = 4
	ExitConflict   = 5
	ExitDispatch   = 6
)

// AppError 应用错误
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// ExitCode 返回对应的进程退出码
func (e *AppError) ExitCode() int {
	switch e.Code {
	case CodeBadRequest:
		return ExitUsage
	case CodeValidation:
		return ExitValidation
	case CodeNotFound:
		return ExitNotFound
	case CodeConflict:
		return ExitConflict
	case CodeDispatchFailed:
		return ExitDispatch
	default:
		return ExitInternal
	}
}

// New 创建新错误
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装错误
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// BadRequest 命令行参数错误
func BadRequest(message string) *AppError {
	return New(CodeBadRequest, message)
}

// Is 检查是否为特定错误码
func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// MapDomainError 将领域错误映射为应用错误
// 按哨兵错误分类（errors.Is），不依赖错误文本
func MapDomainError(err error) *AppError {
	if err == nil {
		return nil
	}

	// 已经是 AppError
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, shared.ErrDispatchFailed):
		return Wrap(err, CodeDispatchFailed, "changes saved but event handlers failed")
	case errors.Is(err, shared.ErrInvalidInput):
		return Wrap(err, CodeValidation, err.Error())
	case errors.Is(err, shared.ErrNotFound):
		return Wrap(err, CodeNotFound, err.Error())
	case errors.Is(err, shared.ErrConflict):
		return Wrap(err, CodeConflict, err.Error())
	default:
		return Wrap(err, CodeInternal, err.Error())
	}
}

// ExitCodeOf 任意错误对应的退出码，nil 为 0
func ExitCodeOf(err error) int {
	if err == nil {
		return ExitOK
	}
	return MapDomainError(err).ExitCode()
}
