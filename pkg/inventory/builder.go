package inventory

import (
	"fmt"
	"sort"

	"github.com/jimyag/nd-inventory/pkg/environment"
	"github.com/jimyag/nd-inventory/pkg/logger"
)

// Warner 接收面向用户的警告
type Warner interface {
	Warning(msg string)
}

// Builder 从环境快照构建 inventory 文档
// Builder 只持有不可变的 profile 表，可以在多个 goroutine 间共享
type Builder struct {
	profiles *ProfileTable
	warner   Warner
}

// NewBuilder 创建 Builder，profiles 为 nil 时使用内置 profile
func NewBuilder(profiles *ProfileTable) *Builder {
	if profiles == nil {
		profiles = DefaultProfiles()
	}
	return &Builder{profiles: profiles}
}

// WithWarner 设置警告的输出，未设置时写入日志
func (b *Builder) WithWarner(w Warner) *Builder {
	b.warner = w
	return b
}

func (b *Builder) warn(format string, args ...interface{}) {
	if b.warner == nil {
		logger.Warnf(format, args...)
		return
	}
	b.warner.Warning(fmt.Sprintf(format, args...))
}

// Build 解析变量并组装文档
// 任何必需变量缺失都会直接返回错误，不会产生部分文档
func (b *Builder) Build(src environment.Lookup) (*Document, error) {
	vars := make(map[string]interface{})

	// 1. 连接变量，先于任何组的组装
	ndIP4, err := varNDIP4.Resolve(src)
	if err != nil {
		return nil, err
	}
	if err := resolveInto(vars, src, connectionVars...); err != nil {
		return nil, err
	}

	// 2. role/testcase
	role, err := varRole.Resolve(src)
	if err != nil {
		return nil, err
	}
	if err := resolveInto(vars, src, varRole, varTestcase); err != nil {
		return nil, err
	}
	profile, matched := b.profiles.Lookup(role)
	if !matched {
		b.warn("role %q has no profile, using %s profile", role, profile.Name)
	}
	logger.Infof("role %s uses profile %s", role, profile.Name)

	// 3. fabric、接口、VRF
	if err := resolveInto(vars, src, namingVars...); err != nil {
		return nil, err
	}

	// 4. 交换机角色和 slot
	switches := make(map[SwitchRole]string, len(switchRoles))
	for _, s := range switchRoles {
		addr, err := s.variable.Resolve(src)
		if err != nil {
			return nil, err
		}
		switches[s.role] = addr
		setKeys(vars, addr, s.variable.Keys...)
	}

	assigned := make(map[Slot]string, len(slots))
	for _, s := range slots {
		var addr string
		if r, ok := profile.Slots[s.slot]; ok {
			addr = switches[r]
			logger.Debugf("%s <- %s (%s)", s.slot, r, addr)
		} else {
			addr, err = s.placeholder.Resolve(src)
			if err != nil {
				return nil, err
			}
			logger.Debugf("%s <- %s (%s)", s.slot, s.placeholder.Name, addr)
		}
		assigned[s.slot] = addr
		setKeys(vars, addr, slotKeys(s.slot)...)
	}

	// 5. 静态拓扑
	doc := assemble(ndIP4, vars, switches, assigned)

	if err := NewManager(doc).Validate(); err != nil {
		return nil, fmt.Errorf("inconsistent inventory topology: %w", err)
	}
	return doc, nil
}

// resolveInto 解析变量并写入 all.vars
func resolveInto(vars map[string]interface{}, src environment.Lookup, variables ...Variable) error {
	for _, v := range variables {
		value, err := v.Value(src)
		if err != nil {
			return err
		}
		setKeys(vars, value, v.Keys...)
	}
	return nil
}

func setKeys(vars map[string]interface{}, value interface{}, keys ...string) {
	for _, key := range keys {
		vars[key] = value
	}
}

// assemble 组装固定拓扑
func assemble(ndIP4 string, vars map[string]interface{}, switches map[SwitchRole]string, assigned map[Slot]string) *Document {
	doc := NewDocument()

	doc.AddGroup("all", &Group{
		Children: []string{"dcnm", "ndfc", "nxos", "ungrouped"},
		Vars:     vars,
	})
	doc.AddGroup("ungrouped", &Group{})

	// dcnm 和 ndfc 是同一个控制器的两个名称
	for _, name := range []string{"dcnm", "ndfc"} {
		doc.AddGroup(name, &Group{
			Hosts: []string{ndIP4},
			Vars: map[string]interface{}{
				"ansible_connection": "ansible.netcommon.httpapi",
				"ansible_network_os": "cisco.dcnm.dcnm",
			},
		})
	}

	var children []string
	addSwitch := func(name, addr string) {
		for _, alias := range aliases(name) {
			doc.AddGroup(alias, &Group{Hosts: []string{addr}})
			children = append(children, alias)
		}
	}
	for _, s := range switchRoles {
		addSwitch(string(s.role), switches[s.role])
	}
	for _, s := range slots {
		addSwitch(string(s.slot), assigned[s.slot])
	}
	sort.Strings(children)

	doc.AddGroup("nxos", &Group{
		Children: children,
		Vars: map[string]interface{}{
			"ansible_become":        true,
			"ansible_become_method": "enable",
			"ansible_connection":    "ansible.netcommon.network_cli",
			"ansible_network_os":    "cisco.nxos.nxos",
		},
	})

	return doc
}
