package inventory

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/jimyag/nd-inventory/pkg/errors"
)

// DefaultProfileName 未匹配的 role 使用的 profile 名称
const DefaultProfileName = "default"

// RoleProfile 描述某个 role 下每个 slot 由哪台交换机担任
type RoleProfile struct {
	Name        string
	Description string
	Slots       map[Slot]SwitchRole // 未列出的 slot 使用 ND_SWITCH_n_IP4
}

// Validate 检查 profile 只引用已知的 slot 和交换机角色
func (p *RoleProfile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("role profile has no name")
	}
	for slot, role := range p.Slots {
		if !IsSlot(string(slot)) {
			return fmt.Errorf("role profile %s: unknown slot %q", p.Name, slot)
		}
		if !IsSwitchRole(string(role)) {
			return fmt.Errorf("role profile %s: unknown switch role %q for %s", p.Name, role, slot)
		}
	}
	return nil
}

// ProfileTable 是 role -> profile 的查找表
type ProfileTable struct {
	profiles map[string]*RoleProfile
	fallback *RoleProfile
}

// NewProfileTable 创建只有 fallback profile 的查找表
func NewProfileTable(fallback *RoleProfile) *ProfileTable {
	return &ProfileTable{
		profiles: make(map[string]*RoleProfile),
		fallback: fallback,
	}
}

// DefaultProfiles 返回内置的 role profile
func DefaultProfiles() *ProfileTable {
	t := NewProfileTable(&RoleProfile{
		Name:        DefaultProfileName,
		Description: "leaf_1, spine_1, bgw_1 and bgw_2 in slots 1-4",
		Slots: map[Slot]SwitchRole{
			Switch1: Leaf1,
			Switch2: Spine1,
			Switch3: BGW1,
			Switch4: BGW2,
		},
	})

	builtin := []*RoleProfile{
		{
			// switch_1 支持 VRF，switch_2 支持 VRF LITE 扩展
			Name:        "dcnm_vrf",
			Description: "vrf capable switch_1, vrf-lite capable switch_2",
			Slots: map[Slot]SwitchRole{
				Switch1: BGW1,
				Switch2: Spine1,
			},
		},
		{
			// switch_3 支持 VRF 但不支持 VRF LITE
			Name:        "vrf_lite",
			Description: "spines in switch_1/switch_2, bgw_1 in switch_3",
			Slots: map[Slot]SwitchRole{
				Switch1: Spine1,
				Switch2: Spine2,
				Switch3: BGW1,
			},
		},
		{
			Name:        "scale",
			Description: "all slots from ND_SWITCH_n_IP4",
			Slots:       map[Slot]SwitchRole{},
		},
		{
			Name:        "dcnm_network",
			Description: "leaf_1 and leaf_2 in switch_1/switch_2",
			Slots: map[Slot]SwitchRole{
				Switch1: Leaf1,
				Switch2: Leaf2,
			},
		},
	}
	for _, p := range builtin {
		t.profiles[p.Name] = p
	}
	return t
}

// Register 添加或替换一个 profile
func (t *ProfileTable) Register(p *RoleProfile) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.Name == DefaultProfileName {
		t.fallback = p
		return nil
	}
	t.profiles[p.Name] = p
	return nil
}

// Lookup 精确匹配 role，未匹配时返回 fallback profile 和 false
func (t *ProfileTable) Lookup(role string) (*RoleProfile, bool) {
	if p, ok := t.profiles[role]; ok {
		return p, true
	}
	return t.fallback, false
}

// Names 返回已注册的 role 名称（已排序，不含 fallback）
func (t *ProfileTable) Names() []string {
	names := make([]string, 0, len(t.profiles))
	for name := range t.profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// profileFile 是 role profile 扩展文件的格式
//
//	roles:
//	  dcnm_links:
//	    description: two leafs
//	    slots:
//	      switch_1: leaf_1
//	      switch_2: leaf_2
type profileFile struct {
	Roles map[string]profileEntry `yaml:"roles"`
}

type profileEntry struct {
	Description string            `yaml:"description"`
	Slots       map[string]string `yaml:"slots"`
}

// LoadFile 从 YAML 文件加载额外的 profile
func (t *ProfileTable) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read role profiles: %w", err)
	}
	if err := t.Load(bytes.NewReader(data)); err != nil {
		return errors.NewParseError(path, err)
	}
	return nil
}

// Load 从 YAML 加载额外的 profile，同名 profile 会被替换
func (t *ProfileTable) Load(r io.Reader) error {
	var pf profileFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&pf); err != nil && err != io.EOF {
		return err
	}

	// 排序保证出错时报告的 profile 是确定的
	names := make([]string, 0, len(pf.Roles))
	for name := range pf.Roles {
		names = append(names, name)
	}
	sort.Strings(names)

	// 全部校验通过后才注册，出错时 profile 表保持不变
	loaded := make([]*RoleProfile, 0, len(names))
	for _, name := range names {
		entry := pf.Roles[name]
		p := &RoleProfile{
			Name:        name,
			Description: entry.Description,
			Slots:       make(map[Slot]SwitchRole, len(entry.Slots)),
		}
		for slot, role := range entry.Slots {
			p.Slots[Slot(slot)] = SwitchRole(role)
		}
		if err := p.Validate(); err != nil {
			return err
		}
		loaded = append(loaded, p)
	}

	for _, p := range loaded {
		if err := t.Register(p); err != nil {
			return err
		}
	}
	return nil
}
