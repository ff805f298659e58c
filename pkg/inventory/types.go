package inventory

import (
	"encoding/json"
	"sort"
)

// MetaKey 文档中保存 hostvars 的保留 key
const MetaKey = "_meta"

// Host 表示一个主机
type Host struct {
	Name string                 // 主机地址
	Vars map[string]interface{} // 主机变量，本 inventory 中总是为空
}

// Group 表示一个主机组
// 字段按 key 的字母序声明，保证 JSON 输出的 key 有序
type Group struct {
	Children []string               `json:"children,omitempty" yaml:"children,omitempty"`
	Hosts    []string               `json:"hosts,omitempty" yaml:"hosts,omitempty"`
	Vars     map[string]interface{} `json:"vars,omitempty" yaml:"vars,omitempty"`
}

// Meta 对应文档中的 _meta
type Meta struct {
	Hostvars map[string]map[string]interface{} `json:"hostvars" yaml:"hostvars"`
}

// Document 表示完整的动态 inventory 文档
type Document struct {
	Groups map[string]*Group
	Meta   Meta
}

// NewDocument 创建一个空文档
func NewDocument() *Document {
	return &Document{
		Groups: make(map[string]*Group),
		Meta: Meta{
			Hostvars: make(map[string]map[string]interface{}),
		},
	}
}

// AddGroup 添加组，已存在时覆盖
func (d *Document) AddGroup(name string, g *Group) {
	d.Groups[name] = g
}

// GroupNames 返回所有组名（已排序）
func (d *Document) GroupNames() []string {
	names := make([]string, 0, len(d.Groups))
	for name := range d.Groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AllVars 返回 all 组的变量
func (d *Document) AllVars() map[string]interface{} {
	if g, ok := d.Groups["all"]; ok && g.Vars != nil {
		return g.Vars
	}
	return map[string]interface{}{}
}

// MarshalJSON 输出 ansible 动态 inventory 的顶层结构
// encoding/json 对 map 的 key 排序，所以输出是稳定的
func (d *Document) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(d.Groups)+1)
	for name, g := range d.Groups {
		out[name] = g
	}
	hostvars := d.Meta.Hostvars
	if hostvars == nil {
		hostvars = map[string]map[string]interface{}{}
	}
	out[MetaKey] = Meta{Hostvars: hostvars}
	return json.Marshal(out)
}
