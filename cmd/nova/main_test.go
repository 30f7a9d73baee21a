package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/nova/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "nova version "))
}

func TestValidateCommand(t *testing.T) {
	out, err := run(t, "validate")
	require.NoError(t, err)
	assert.Equal(t, "built-in steps: 6 steps, 19 options, ok\n", out)

	bad := filepath.Join(t.TempDir(), "steps.yaml")
	content := strings.Replace(string(registry.DefaultContent()), "go: ask_skills", "go: nowhere", 1)
	require.NoError(t, os.WriteFile(bad, []byte(content), 0o644))

	_, err = run(t, "validate", bad)
	assert.Error(t, err)
}

func TestGraphCommand(t *testing.T) {
	t.Chdir(t.TempDir())
	out, err := run(t, "graph")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "graph TD\n"))
	assert.Contains(t, out, `intro -- "Next" --> engagement`)
}
