package output

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/jimyag/nd-inventory/pkg/inventory"
)

// Format 输出格式
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatINI  Format = "ini"
)

// ParseFormat 解析输出格式名称
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatJSON, FormatYAML, FormatINI:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (want json, yaml or ini)", s)
	}
}

// Write 按指定格式输出整个文档
func Write(w io.Writer, doc *inventory.Document, format Format) error {
	switch format {
	case FormatJSON, "":
		return WriteJSON(w, doc)
	case FormatYAML:
		return WriteYAML(w, doc)
	case FormatINI:
		return WriteINI(w, doc)
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

// WriteJSON 输出 ansible 动态 inventory JSON（4 空格缩进，key 已排序）
func WriteJSON(w io.Writer, doc *inventory.Document) error {
	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal inventory: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// WriteHost 输出 --host 的结果
// 所有主机变量都在 _meta.hostvars 中，所以这里只有已知主机的（空）变量
func WriteHost(w io.Writer, doc *inventory.Document, name string) error {
	host, err := inventory.NewManager(doc).GetHost(name)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(host.Vars, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal host vars: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// WriteYAML 输出 ansible YAML inventory 格式
// 组挂在父组的 children 下，主机是 host -> vars 的映射
func WriteYAML(w io.Writer, doc *inventory.Document) error {
	reached := make(map[string]bool)
	root := yamlGroup(doc, "all", reached, nil)

	// 不能从 all 到达的组直接挂在 all 下
	var orphans []string
	for _, name := range doc.GroupNames() {
		if !reached[name] {
			orphans = append(orphans, name)
		}
	}
	if len(orphans) > 0 {
		children, _ := root["children"].(map[string]interface{})
		if children == nil {
			children = make(map[string]interface{})
			root["children"] = children
		}
		for _, name := range orphans {
			children[name] = yamlGroup(doc, name, reached, nil)
		}
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(map[string]interface{}{"all": root}); err != nil {
		return fmt.Errorf("failed to marshal inventory: %w", err)
	}
	return enc.Close()
}

func yamlGroup(doc *inventory.Document, name string, reached map[string]bool, path []string) map[string]interface{} {
	node := make(map[string]interface{})
	reached[name] = true

	g, ok := doc.Groups[name]
	if !ok {
		return node
	}

	if len(g.Hosts) > 0 {
		hosts := make(map[string]interface{}, len(g.Hosts))
		for _, h := range g.Hosts {
			hosts[h] = nil
		}
		node["hosts"] = hosts
	}
	if len(g.Vars) > 0 {
		node["vars"] = g.Vars
	}
	if len(g.Children) > 0 {
		path = append(path, name)
		children := make(map[string]interface{}, len(g.Children))
		for _, child := range g.Children {
			if contains(path, child) {
				continue
			}
			children[child] = yamlGroup(doc, child, reached, path)
		}
		node["children"] = children
	}
	return node
}

// WriteINI 输出 ansible INI inventory 格式
func WriteINI(w io.Writer, doc *inventory.Document) error {
	var b strings.Builder

	for _, name := range doc.GroupNames() {
		g := doc.Groups[name]

		if len(g.Hosts) > 0 || (len(g.Children) == 0 && len(g.Vars) == 0) {
			fmt.Fprintf(&b, "[%s]\n", name)
			for _, h := range g.Hosts {
				fmt.Fprintln(&b, h)
			}
			b.WriteString("\n")
		}

		if len(g.Children) > 0 {
			fmt.Fprintf(&b, "[%s:children]\n", name)
			for _, child := range g.Children {
				fmt.Fprintln(&b, child)
			}
			b.WriteString("\n")
		}

		if len(g.Vars) > 0 {
			fmt.Fprintf(&b, "[%s:vars]\n", name)
			keys := make([]string, 0, len(g.Vars))
			for k := range g.Vars {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(&b, "%s=%s\n", k, iniValue(g.Vars[k]))
			}
			b.WriteString("\n")
		}
	}

	_, err := io.WriteString(w, strings.TrimSuffix(b.String(), "\n"))
	return err
}

// iniValue 按 ansible 解析 INI 变量的规则格式化值
// 字符串总是加引号，否则空格、# 和 ; 会被截断
func iniValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return strconv.Quote(val)
	case bool:
		if val {
			return "True"
		}
		return "False"
	default:
		return fmt.Sprint(val)
	}
}

// WriteHosts 输出组中（包括子组）的所有主机，每行一个
func WriteHosts(w io.Writer, doc *inventory.Document, group string) error {
	hosts, err := inventory.NewManager(doc).GetHosts(group)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, strings.Join(hosts, "\n")+"\n")
	return err
}

// WriteGraph 输出与 ansible-inventory --graph 相同的树形结构
func WriteGraph(w io.Writer, doc *inventory.Document, group string) error {
	if _, ok := doc.Groups[group]; !ok {
		return fmt.Errorf("group not found: %s", group)
	}

	var b strings.Builder
	var walk func(name string, depth int, path []string)
	walk = func(name string, depth int, path []string) {
		b.WriteString(graphName("@"+name+":", depth))
		g := doc.Groups[name]
		if g == nil || contains(path, name) {
			return
		}
		path = append(path, name)

		children := append([]string(nil), g.Children...)
		sort.Strings(children)
		for _, child := range children {
			walk(child, depth+1, path)
		}

		hosts := append([]string(nil), g.Hosts...)
		sort.Strings(hosts)
		for _, h := range hosts {
			b.WriteString(graphName(h, depth+1))
		}
	}
	walk(group, 0, nil)

	_, err := io.WriteString(w, b.String())
	return err
}

func graphName(name string, depth int) string {
	if depth > 0 {
		name = strings.Repeat("  |", depth) + "--" + name
	}
	return name + "\n"
}

// WriteVariables 输出所有支持的环境变量
func WriteVariables(w io.Writer, vars []inventory.Variable) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "VARIABLE\tREQUIRED\tDEFAULT\tDESCRIPTION")
	for _, v := range vars {
		def := v.Default
		if !v.HasDefault {
			def = "-"
		}
		fmt.Fprintf(tw, "%s\t%v\t%s\t%s\n", v.Name, v.Required, def, v.Description)
	}
	return tw.Flush()
}

// contains 检查切片是否包含元素
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
