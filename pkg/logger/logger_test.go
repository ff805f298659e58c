package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitWritesRunID(t *testing.T) {
	var buf bytes.Buffer
	Init(&Config{Level: DebugLevel, Output: &buf, RunID: "run-1"})
	t.Cleanup(func() { Init(&Config{Level: WarnLevel, Output: &bytes.Buffer{}}) })

	Debugf("resolved %d variables", 3)

	assert.Contains(t, buf.String(), `"run":"run-1"`)
	assert.Contains(t, buf.String(), "resolved 3 variables")
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	Init(&Config{Level: WarnLevel, Output: &buf})
	t.Cleanup(func() { Init(&Config{Level: WarnLevel, Output: &bytes.Buffer{}}) })

	Infof("hidden")
	Warnf("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestAnsibleLogger(t *testing.T) {
	tests := []struct {
		name  string
		quiet bool
		want  string
	}{
		{name: "warning and error", quiet: false, want: "[WARNING]: unknown role\n[ERROR]: boom\n"},
		{name: "quiet drops warnings", quiet: true, want: "[ERROR]: boom\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			a := NewAnsibleLogger(&buf, tt.quiet)
			a.Warning("unknown role")
			a.Error("boom")
			assert.Equal(t, tt.want, buf.String())
		})
	}
}
