package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScript(t *testing.T, src string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "script.lox")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestRunExitCodes(t *testing.T) {
	cases := []struct {
		args   []string
		expect int
	}{
		{[]string{writeScript(t, "var a = 1;")}, 0},
		{[]string{writeScript(t, "print 1 +;")}, exitCompile},
		{[]string{writeScript(t, "var a = a;")}, exitCompile},
		{[]string{writeScript(t, "nil();")}, exitRuntime},
		{[]string{filepath.Join(t.TempDir(), "missing.lox")}, exitIO},
		{[]string{"a.lox", "b.lox"}, exitUsage},
		{[]string{"-config", filepath.Join(t.TempDir(), "missing.yaml"), "a.lox"}, exitUsage},
		{[]string{"-nope"}, exitUsage},
	}

	for _, c := range cases {
		assert.Equal(t, c.expect, run(c.args), c.args)
	}
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, exitCode(nil))
}
