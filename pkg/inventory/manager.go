package inventory

import (
	"fmt"
	"slices"
	"sort"
)

// Manager 在生成的文档上提供主机和组的查询
type Manager struct {
	inventory *Document
}

// NewManager 创建一个新的 Manager
func NewManager(doc *Document) *Manager {
	return &Manager{inventory: doc}
}

// GetGroup 获取组
func (m *Manager) GetGroup(name string) (*Group, error) {
	group, exists := m.inventory.Groups[name]
	if !exists {
		return nil, fmt.Errorf("group not found: %s", name)
	}
	return group, nil
}

// GetHosts 获取组中的所有主机（包括子组）
func (m *Manager) GetHosts(pattern string) ([]string, error) {
	group, err := m.GetGroup(pattern)
	if err != nil {
		return nil, err
	}

	hosts := m.collectGroupHosts(group)
	if len(hosts) == 0 {
		return nil, fmt.Errorf("no hosts matched pattern: %s", pattern)
	}
	return hosts, nil
}

// GetHost 获取单个主机，主机必须出现在某个组的 hosts 中
func (m *Manager) GetHost(name string) (*Host, error) {
	found := false
	for _, g := range m.inventory.Groups {
		if slices.Contains(g.Hosts, name) {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("host not found: %s", name)
	}

	vars := m.inventory.Meta.Hostvars[name]
	if vars == nil {
		vars = map[string]interface{}{}
	}
	return &Host{Name: name, Vars: vars}, nil
}

// Validate 检查拓扑闭包和别名一致性
//   - children 中出现的每个组都必须是顶层组
//   - leaf_1 和 leaf1 这样的别名组必须有相同的主机列表
func (m *Manager) Validate() error {
	for _, name := range m.inventory.GroupNames() {
		group := m.inventory.Groups[name]
		for _, child := range group.Children {
			if _, exists := m.inventory.Groups[child]; !exists {
				return fmt.Errorf("group %s has undefined child group %s", name, child)
			}
		}

		short := ShortName(name)
		if short == name {
			continue
		}
		alias, exists := m.inventory.Groups[short]
		if !exists {
			continue
		}
		if !slices.Equal(group.Hosts, alias.Hosts) {
			return fmt.Errorf("alias groups %s and %s have different hosts: %v != %v",
				name, short, group.Hosts, alias.Hosts)
		}
	}
	return nil
}

// collectGroupHosts 递归收集组中的所有主机
func (m *Manager) collectGroupHosts(group *Group) []string {
	hostnames := make([]string, 0)
	seen := make(map[string]bool)
	visited := make(map[*Group]bool)

	var collect func(*Group)
	collect = func(g *Group) {
		if visited[g] {
			return
		}
		visited[g] = true

		// 添加直接主机
		for _, hostname := range g.Hosts {
			if !seen[hostname] {
				hostnames = append(hostnames, hostname)
				seen[hostname] = true
			}
		}

		// 递归处理子组
		for _, childName := range g.Children {
			if child, exists := m.inventory.Groups[childName]; exists {
				collect(child)
			}
		}
	}

	collect(group)
	sort.Strings(hostnames)
	return hostnames
}
