// Package environment 提供只读的环境变量快照。
// 快照可以来自进程环境、注入的 map 或 dotenv 文件，构建 inventory 时不会修改进程环境。
package environment

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"

	"github.com/jimyag/nd-inventory/pkg/errors"
)

// 环境变量名不包含该分隔符，所以每个变量都是 koanf 的顶层 key
const delim = "\x00"

// Lookup 按名称查找变量
type Lookup interface {
	Lookup(name string) (string, bool)
}

// Snapshot 是某一时刻的环境变量快照
type Snapshot struct {
	k *koanf.Koanf
}

// FromMap 从注入的 map 创建快照
func FromMap(vars map[string]string) *Snapshot {
	k := koanf.New(delim)
	// confmap 的 Read 不会返回错误
	_ = k.Load(confmap.Provider(toAny(vars), delim), nil)
	return &Snapshot{k: k}
}

// Load 读取 dotenv 文件，再用进程环境覆盖
// 与 shell 的习惯一致：显式 export 的变量优先于文件中的值
func Load(envFiles ...string) (*Snapshot, error) {
	k := koanf.New(delim)

	for _, path := range envFiles {
		vars, err := godotenv.Read(path)
		if err != nil {
			return nil, errors.NewParseError(path, err)
		}
		if err := k.Load(confmap.Provider(toAny(vars), delim), nil); err != nil {
			return nil, fmt.Errorf("failed to load env file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", delim, func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("failed to load process environment: %w", err)
	}

	return &Snapshot{k: k}, nil
}

// Lookup 查找变量，存在时（包括空字符串）返回 true
func (s *Snapshot) Lookup(name string) (string, bool) {
	if !s.k.Exists(name) {
		return "", false
	}
	return s.k.String(name), true
}

// Len 返回变量个数
func (s *Snapshot) Len() int {
	return len(s.k.Keys())
}

func toAny(vars map[string]string) map[string]interface{} {
	out := make(map[string]interface{}, len(vars))
	for k, v := range vars {
		out[k] = v
	}
	return out
}
