package inventory

import (
	"fmt"
	"strconv"

	"github.com/jimyag/nd-inventory/pkg/environment"
	"github.com/jimyag/nd-inventory/pkg/errors"
)

// Variable 描述一个从环境中读取的变量
type Variable struct {
	Name        string   // 环境变量名
	Default     string   // 默认值
	HasDefault  bool     // 是否有默认值
	Required    bool     // 未设置时是否报错
	Bool        bool     // 输出时解析为 bool
	Description string   // 变量应包含的内容
	Keys        []string // 写入 all.vars 的 key
}

// Required 创建必需变量
func Required(name, description string, keys ...string) Variable {
	return Variable{
		Name:        name,
		Required:    true,
		Description: description,
		Keys:        keys,
	}
}

// Optional 创建带默认值的可选变量
func Optional(name, def, description string, keys ...string) Variable {
	return Variable{
		Name:        name,
		Default:     def,
		HasDefault:  true,
		Description: description,
		Keys:        keys,
	}
}

// OptionalBool 创建带默认值的可选 bool 变量
func OptionalBool(name string, def bool, description string, keys ...string) Variable {
	v := Optional(name, strconv.FormatBool(def), description, keys...)
	v.Bool = true
	return v
}

// Resolve 解析变量的字符串值
// 顺序：环境中存在（即使为空）> 默认值 > 必需则报错 > 空字符串
// 必需变量设置为空字符串视为无效
func (v Variable) Resolve(src environment.Lookup) (string, error) {
	if value, ok := src.Lookup(v.Name); ok {
		if v.Required && value == "" {
			return "", errors.NewInvalidVariableError(v.Name, value, fmt.Errorf("must not be empty"))
		}
		return value, nil
	}
	if v.HasDefault {
		return v.Default, nil
	}
	if v.Required {
		return "", errors.NewMissingVariableError(v.Name, v.Description)
	}
	return "", nil
}

// Value 解析变量并转换为输出类型（string 或 bool）
func (v Variable) Value(src environment.Lookup) (interface{}, error) {
	raw, err := v.Resolve(src)
	if err != nil {
		return nil, err
	}
	if !v.Bool {
		return raw, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, errors.NewInvalidVariableError(v.Name, raw, err)
	}
	return b, nil
}
