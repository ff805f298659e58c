package logger

import (
	"fmt"
	"io"
	"os"
)

// AnsibleLogger Ansible 风格的诊断输出
// inventory 插件会把脚本的 stderr 原样展示给用户
type AnsibleLogger struct {
	out   io.Writer
	quiet bool
}

// NewAnsibleLogger 创建 Ansible 风格的日志记录器
func NewAnsibleLogger(out io.Writer, quiet bool) *AnsibleLogger {
	if out == nil {
		out = os.Stderr
	}
	return &AnsibleLogger{
		out:   out,
		quiet: quiet,
	}
}

// Warning 打印警告信息
func (a *AnsibleLogger) Warning(msg string) {
	if a.quiet {
		return
	}
	fmt.Fprintf(a.out, "[WARNING]: %s\n", msg)
}

// Error 打印错误信息
func (a *AnsibleLogger) Error(msg string) {
	fmt.Fprintf(a.out, "[ERROR]: %s\n", msg)
}
