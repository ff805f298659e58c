package inventory

import (
	"encoding/json"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jimyag/nd-inventory/pkg/environment"
	"github.com/jimyag/nd-inventory/pkg/errors"
)

func baseEnv() map[string]string {
	return map[string]string{
		"ND_DOMAIN":     "local",
		"ND_IP4":        "10.1.1.1",
		"ND_PASSWORD":   "x",
		"NXOS_PASSWORD": "y",
		"ND_ROLE":       "dcnm_vrf",
		"ND_TESTCASE":   "query",
	}
}

// switchEnv 给每台交换机一个不同的地址，便于区分 slot 的来源
func switchEnv() map[string]string {
	env := baseEnv()
	env["ND_BGW_1_IP4"] = "10.0.0.1"
	env["ND_BGW_2_IP4"] = "10.0.0.2"
	env["ND_LEAF_1_IP4"] = "10.0.1.1"
	env["ND_LEAF_2_IP4"] = "10.0.1.2"
	env["ND_LEAF_3_IP4"] = "10.0.1.3"
	env["ND_LEAF_4_IP4"] = "10.0.1.4"
	env["ND_SPINE_1_IP4"] = "10.0.2.1"
	env["ND_SPINE_2_IP4"] = "10.0.2.2"
	env["ND_SWITCH_1_IP4"] = "10.0.3.1"
	env["ND_SWITCH_2_IP4"] = "10.0.3.2"
	env["ND_SWITCH_3_IP4"] = "10.0.3.3"
	env["ND_SWITCH_4_IP4"] = "10.0.3.4"
	return env
}

func build(t *testing.T, env map[string]string) *Document {
	t.Helper()
	doc, err := NewBuilder(nil).Build(environment.FromMap(env))
	require.NoError(t, err)
	return doc
}

func TestBuildExample(t *testing.T) {
	doc := build(t, baseEnv())
	vars := doc.AllVars()

	assert.Equal(t, "172.22.150.112", vars["switch_1"], "switch_1 is the default border gateway")
	assert.Equal(t, "172.22.150.112", vars["switch_2"], "switch_2 is the default first spine")
	assert.Equal(t, "local", vars["ansible_httpapi_login_domain"])
	assert.Equal(t, []string{"172.22.150.112"}, doc.Groups["switch_1"].Hosts)
	assert.Equal(t, []string{"10.1.1.1"}, doc.Groups["dcnm"].Hosts)
	assert.Equal(t, []string{"10.1.1.1"}, doc.Groups["ndfc"].Hosts)
	assert.Equal(t, "x", vars["ansible_password"])
	assert.Equal(t, "y", vars["nxos_password"])
	assert.Equal(t, "y", vars["switch_password"])
	assert.Equal(t, "query", vars["testcase"])
	assert.Empty(t, doc.Meta.Hostvars)
}

func TestBuildRoleProfiles(t *testing.T) {
	tests := []struct {
		name string
		role string
		want map[string]string
	}{
		{
			name: "dcnm_vrf",
			role: "dcnm_vrf",
			want: map[string]string{"switch_1": "10.0.0.1", "switch_2": "10.0.2.1", "switch_3": "10.0.3.3", "switch_4": "10.0.3.4"},
		},
		{
			name: "vrf_lite swaps in spines",
			role: "vrf_lite",
			want: map[string]string{"switch_1": "10.0.2.1", "switch_2": "10.0.2.2", "switch_3": "10.0.0.1", "switch_4": "10.0.3.4"},
		},
		{
			name: "scale uses placeholders",
			role: "scale",
			want: map[string]string{"switch_1": "10.0.3.1", "switch_2": "10.0.3.2", "switch_3": "10.0.3.3", "switch_4": "10.0.3.4"},
		},
		{
			name: "dcnm_network uses leafs",
			role: "dcnm_network",
			want: map[string]string{"switch_1": "10.0.1.1", "switch_2": "10.0.1.2", "switch_3": "10.0.3.3", "switch_4": "10.0.3.4"},
		},
		{
			name: "unknown role falls back to default",
			role: "dcnm_links",
			want: map[string]string{"switch_1": "10.0.1.1", "switch_2": "10.0.2.1", "switch_3": "10.0.0.1", "switch_4": "10.0.0.2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := switchEnv()
			env["ND_ROLE"] = tt.role
			doc := build(t, env)
			vars := doc.AllVars()

			assert.Equal(t, tt.role, vars["role"])
			for slot, addr := range tt.want {
				assert.Equal(t, addr, vars[slot], "all.vars[%s]", slot)
				assert.Equal(t, addr, vars[ShortName(slot)], "all.vars[%s]", ShortName(slot))
				assert.Equal(t, []string{addr}, doc.Groups[slot].Hosts, "group %s", slot)
				assert.Equal(t, []string{addr}, doc.Groups[ShortName(slot)].Hosts, "group %s", ShortName(slot))
			}
			assert.Equal(t, tt.want["switch_1"], vars["ansible_switch1"])
			assert.Equal(t, tt.want["switch_2"], vars["ansible_switch2"])
		})
	}
}

func TestBuildMissingRequired(t *testing.T) {
	for _, v := range Variables() {
		if !v.Required {
			continue
		}
		t.Run(v.Name, func(t *testing.T) {
			env := baseEnv()
			delete(env, v.Name)

			doc, err := NewBuilder(nil).Build(environment.FromMap(env))
			require.Error(t, err)
			assert.Nil(t, doc)

			ce, ok := errors.AsConfigurationError(err)
			require.True(t, ok)
			assert.Equal(t, errors.ErrMissingVariable, ce.Type)
			assert.Equal(t, v.Name, ce.Variable)
			assert.Contains(t, err.Error(), v.Name)
			assert.Contains(t, err.Error(), v.Description)
		})
	}
}

func TestBuildOptionalDefaults(t *testing.T) {
	env := map[string]string{
		"ND_IP4":        "10.1.1.1",
		"ND_PASSWORD":   "x",
		"NXOS_PASSWORD": "y",
	}
	doc := build(t, env)
	vars := doc.AllVars()

	for _, v := range Variables() {
		if v.Required || len(v.Keys) == 0 {
			continue
		}
		var want interface{} = v.Default
		if v.Bool {
			b, err := strconv.ParseBool(v.Default)
			require.NoError(t, err)
			want = b
		}
		for _, key := range v.Keys {
			assert.Equal(t, want, vars[key], "%s -> all.vars[%s]", v.Name, key)
		}
	}
}

func TestBuildPlaceholderDefaults(t *testing.T) {
	env := baseEnv()
	env["ND_ROLE"] = "scale"
	vars := build(t, env).AllVars()

	for _, s := range slots {
		assert.Equal(t, s.placeholder.Default, vars[string(s.slot)], string(s.slot))
	}
}

func TestBuildEmptyValueIsNotDefaulted(t *testing.T) {
	env := baseEnv()
	env["ND_USERNAME"] = ""
	vars := build(t, env).AllVars()

	assert.Equal(t, "", vars["ansible_user"])
}

type recordingWarner struct {
	msgs []string
}

func (r *recordingWarner) Warning(msg string) {
	r.msgs = append(r.msgs, msg)
}

func TestBuildUnknownRoleWarning(t *testing.T) {
	tests := []struct {
		name string
		role string
		want []string
	}{
		{name: "known role", role: "dcnm_vrf"},
		{name: "unknown role", role: "dcnm_links", want: []string{`role "dcnm_links" has no profile, using default profile`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := baseEnv()
			env["ND_ROLE"] = tt.role

			w := &recordingWarner{}
			_, err := NewBuilder(nil).WithWarner(w).Build(environment.FromMap(env))
			require.NoError(t, err)
			assert.Equal(t, tt.want, w.msgs)
		})
	}
}

func TestBuildEmptyRequiredRejected(t *testing.T) {
	for _, name := range []string{"ND_IP4", "ND_PASSWORD", "NXOS_PASSWORD"} {
		t.Run(name, func(t *testing.T) {
			env := baseEnv()
			env[name] = ""

			doc, err := NewBuilder(nil).Build(environment.FromMap(env))
			require.Error(t, err)
			assert.Nil(t, doc)

			ce, ok := errors.AsConfigurationError(err)
			require.True(t, ok)
			assert.Equal(t, errors.ErrInvalidVariable, ce.Type)
			assert.Equal(t, name, ce.Variable)
		})
	}
}

func TestBuildBoolVariables(t *testing.T) {
	env := baseEnv()
	env["ND_HTTPAPI_VALIDATE_CERTS"] = "True"
	vars := build(t, env).AllVars()
	assert.Equal(t, true, vars["ansible_httpapi_validate_certs"])
	assert.Equal(t, true, vars["ansible_httpapi_use_ssl"])

	env["ND_HTTPAPI_USE_SSL"] = "sometimes"
	_, err := NewBuilder(nil).Build(environment.FromMap(env))
	require.Error(t, err)
	ce, ok := errors.AsConfigurationError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrInvalidVariable, ce.Type)
	assert.Equal(t, "ND_HTTPAPI_USE_SSL", ce.Variable)
}

func TestBuildIdempotent(t *testing.T) {
	env := switchEnv()
	first, err := json.Marshal(build(t, env))
	require.NoError(t, err)
	second, err := json.Marshal(build(t, env))
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func TestBuildTopology(t *testing.T) {
	doc := build(t, switchEnv())

	// 闭包：children 中的每个组都是顶层组
	for name, g := range doc.Groups {
		for _, child := range g.Children {
			assert.Contains(t, doc.Groups, child, "child %s of %s", child, name)
		}
	}

	// 别名一致
	pairs := 0
	for name, g := range doc.Groups {
		short := ShortName(name)
		if short == name {
			continue
		}
		alias, ok := doc.Groups[short]
		require.True(t, ok, "missing short alias %s for %s", short, name)
		assert.Equal(t, g.Hosts, alias.Hosts, "%s vs %s", name, short)
		pairs++
	}
	assert.Equal(t, len(switchRoles)+len(slots), pairs)

	nxos := doc.Groups["nxos"]
	assert.Len(t, nxos.Children, 2*(len(switchRoles)+len(slots)))
	assert.Equal(t, true, nxos.Vars["ansible_become"])
	assert.Equal(t, []string{"dcnm", "ndfc", "nxos", "ungrouped"}, doc.Groups["all"].Children)
}
