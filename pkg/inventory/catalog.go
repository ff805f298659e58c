package inventory

import "strings"

// SwitchRole 交换机在 fabric 中的角色，例如 bgw_1、spine_2
type SwitchRole string

const (
	BGW1   SwitchRole = "bgw_1"
	BGW2   SwitchRole = "bgw_2"
	Leaf1  SwitchRole = "leaf_1"
	Leaf2  SwitchRole = "leaf_2"
	Leaf3  SwitchRole = "leaf_3"
	Leaf4  SwitchRole = "leaf_4"
	Spine1 SwitchRole = "spine_1"
	Spine2 SwitchRole = "spine_2"
)

// Slot 测试用例引用的逻辑交换机位置，例如 switch_1
type Slot string

const (
	Switch1 Slot = "switch_1"
	Switch2 Slot = "switch_2"
	Switch3 Slot = "switch_3"
	Switch4 Slot = "switch_4"
)

// 连接变量，在组装任何组之前解析
var (
	varNDIP4 = Required("ND_IP4",
		"Controller IPv4 address")
	varNDPassword = Required("ND_PASSWORD",
		"Controller password",
		"ansible_password")
	varNXOSPassword = Required("NXOS_PASSWORD",
		"Switch password",
		"nxos_password", "switch_password")
	varNDUsername = Optional("ND_USERNAME", "admin",
		"Controller username",
		"ansible_user")
	varNXOSUsername = Optional("NXOS_USERNAME", "admin",
		"Switch username",
		"nxos_username", "switch_username")
	varNDDomain = Optional("ND_DOMAIN", "local",
		"Controller login domain",
		"ansible_httpapi_login_domain")
	varUseSSL = OptionalBool("ND_HTTPAPI_USE_SSL", true,
		"Use HTTPS towards the controller",
		"ansible_httpapi_use_ssl")
	varValidateCerts = OptionalBool("ND_HTTPAPI_VALIDATE_CERTS", false,
		"Validate the controller certificate",
		"ansible_httpapi_validate_certs")
	varPython = Optional("ND_PYTHON_INTERPRETER", "python",
		"Python interpreter used by Ansible on the control node",
		"ansible_python_interpreter")
)

var connectionVars = []Variable{
	varNDIP4,
	varNDPassword,
	varNXOSPassword,
	varNDUsername,
	varNXOSUsername,
	varNDDomain,
	varUseSSL,
	varValidateCerts,
	varPython,
}

// role/testcase 选择器
var (
	varRole = Optional("ND_ROLE", "dcnm_vrf",
		"The role to run",
		"role")
	varTestcase = Optional("ND_TESTCASE", "query",
		"The testcase to run",
		"testcase")
)

// fabric、接口和 VRF 名称，和角色无关，每次都读取
var namingVars = []Variable{
	Optional("ND_FABRIC_1", "fabric-1", "VXLAN/EVPN fabric name", "fabric_1", "test_fabric"),
	Optional("ND_FABRIC_2", "fabric-2", "Second fabric name", "fabric_2"),
	Optional("ND_FABRIC_3", "fabric-3", "Third fabric name", "fabric_3"),

	Optional("ND_INTERFACE_1a", "Ethernet1/1", "1st interface on switch_1", "interface_1a"),
	Optional("ND_INTERFACE_1b", "Ethernet1/2", "2nd interface on switch_1", "interface_1b"),
	Optional("ND_INTERFACE_1c", "Ethernet1/3", "3rd interface on switch_1", "interface_1c"),
	Optional("ND_INTERFACE_1d", "Ethernet1/4", "4th interface on switch_1", "interface_1d"),
	Optional("ND_INTERFACE_2a", "Ethernet1/1", "1st interface on switch_2", "interface_2a"),
	Optional("ND_INTERFACE_2b", "Ethernet1/2", "2nd interface on switch_2", "interface_2b"),
	Optional("ND_INTERFACE_2c", "Ethernet1/3", "3rd interface on switch_2", "interface_2c"),
	Optional("ND_INTERFACE_2d", "Ethernet1/4", "4th interface on switch_2", "interface_2d"),
	Optional("ND_INTERFACE_3a", "Ethernet1/3", "1st interface on switch_3", "interface_3a"),

	Optional("ND_VRF_1", "vrf-1", "First VRF name", "vrf_1"),
	Optional("ND_VRF_2", "vrf-2", "Second VRF name", "vrf_2"),
}

type switchSpec struct {
	role     SwitchRole
	variable Variable
}

// 基础交换机集合
var switchRoles = []switchSpec{
	{BGW1, Optional("ND_BGW_1_IP4", "172.22.150.112", "Border gateway 1 IPv4 address", aliases(string(BGW1))...)},
	{BGW2, Optional("ND_BGW_2_IP4", "172.22.150.113", "Border gateway 2 IPv4 address", aliases(string(BGW2))...)},
	{Leaf1, Optional("ND_LEAF_1_IP4", "172.22.150.103", "Leaf 1 IPv4 address", aliases(string(Leaf1))...)},
	{Leaf2, Optional("ND_LEAF_2_IP4", "172.22.150.104", "Leaf 2 IPv4 address", aliases(string(Leaf2))...)},
	{Leaf3, Optional("ND_LEAF_3_IP4", "172.22.150.105", "Leaf 3 IPv4 address", aliases(string(Leaf3))...)},
	{Leaf4, Optional("ND_LEAF_4_IP4", "172.22.150.109", "Leaf 4 IPv4 address", aliases(string(Leaf4))...)},
	{Spine1, Optional("ND_SPINE_1_IP4", "172.22.150.112", "Spine 1 IPv4 address", aliases(string(Spine1))...)},
	{Spine2, Optional("ND_SPINE_2_IP4", "172.22.150.113", "Spine 2 IPv4 address", aliases(string(Spine2))...)},
}

type slotSpec struct {
	slot        Slot
	placeholder Variable
}

// 当 role profile 没有指定某个 slot 时，使用对应的占位变量
// all.vars 的 key 由 slotKeys 决定，所以这里不带 Keys
var slots = []slotSpec{
	{Switch1, Optional("ND_SWITCH_1_IP4", "172.22.150.112", "switch_1 IPv4 address when the role does not assign it")},
	{Switch2, Optional("ND_SWITCH_2_IP4", "172.22.150.113", "switch_2 IPv4 address when the role does not assign it")},
	{Switch3, Optional("ND_SWITCH_3_IP4", "172.22.150.103", "switch_3 IPv4 address when the role does not assign it")},
	{Switch4, Optional("ND_SWITCH_4_IP4", "172.22.150.104", "switch_4 IPv4 address when the role does not assign it")},
}

// Variables 返回所有已声明的变量（按解析顺序）
func Variables() []Variable {
	vars := make([]Variable, 0, 64)
	vars = append(vars, connectionVars...)
	vars = append(vars, varRole, varTestcase)
	vars = append(vars, namingVars...)
	for _, s := range switchRoles {
		vars = append(vars, s.variable)
	}
	for _, s := range slots {
		vars = append(vars, s.placeholder)
	}
	return vars
}

// IsSwitchRole 判断名称是否为已知交换机角色
func IsSwitchRole(name string) bool {
	for _, s := range switchRoles {
		if string(s.role) == name {
			return true
		}
	}
	return false
}

// IsSlot 判断名称是否为已知 slot
func IsSlot(name string) bool {
	for _, s := range slots {
		if string(s.slot) == name {
			return true
		}
	}
	return false
}

// ShortName 返回组名的短格式：leaf_1 -> leaf1
func ShortName(name string) string {
	return strings.ReplaceAll(name, "_", "")
}

// aliases 返回同一个交换机在两种命名约定下的名称
func aliases(name string) []string {
	return []string{ShortName(name), name}
}

// slotKeys 返回某个 slot 在 all.vars 中的 key
// switch_1 和 switch_2 另有 ansible_switchN 的旧名称
func slotKeys(slot Slot) []string {
	keys := aliases(string(slot))
	switch slot {
	case Switch1, Switch2:
		keys = append(keys, "ansible_"+ShortName(string(slot)))
	}
	return keys
}
