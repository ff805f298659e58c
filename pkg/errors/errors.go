package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType 定义错误类型
type ErrorType int

const (
	// ErrMissingVariable 必需的环境变量未设置
	ErrMissingVariable ErrorType = iota
	// ErrInvalidVariable 环境变量的值无法解析
	ErrInvalidVariable
	// ErrParse 解析错误（role profile 文件、env 文件等）
	ErrParse
)

// String 返回错误类型名称
func (t ErrorType) String() string {
	switch t {
	case ErrMissingVariable:
		return "missing variable"
	case ErrInvalidVariable:
		return "invalid variable"
	case ErrParse:
		return "parse error"
	default:
		return "unknown"
	}
}

// ConfigurationError 统一的配置错误类型
type ConfigurationError struct {
	Type        ErrorType // 错误类型
	Variable    string    // 相关的环境变量（如果适用）
	Description string    // 变量应包含的内容
	Message     string    // 错误消息
	Cause       error     // 原始错误
}

func (e *ConfigurationError) Error() string {
	return e.Message
}

func (e *ConfigurationError) Unwrap() error {
	return e.Cause
}

// NewMissingVariableError 创建缺少变量错误
func NewMissingVariableError(name, description string) *ConfigurationError {
	return &ConfigurationError{
		Type:        ErrMissingVariable,
		Variable:    name,
		Description: description,
		Message:     fmt.Sprintf("required environment variable %s is not set: %s", name, description),
	}
}

// NewInvalidVariableError 创建变量值无效错误
func NewInvalidVariableError(name, value string, cause error) *ConfigurationError {
	return &ConfigurationError{
		Type:     ErrInvalidVariable,
		Variable: name,
		Message:  fmt.Sprintf("environment variable %s has invalid value %q: %v", name, value, cause),
		Cause:    cause,
	}
}

// NewParseError 创建解析错误
func NewParseError(filePath string, cause error) *ConfigurationError {
	return &ConfigurationError{
		Type:    ErrParse,
		Message: fmt.Sprintf("Failed to parse %s: %v", filePath, cause),
		Cause:   cause,
	}
}

// AsConfigurationError 从错误链中取出 ConfigurationError
func AsConfigurationError(err error) (*ConfigurationError, bool) {
	var ce *ConfigurationError
	if stderrors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
