package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qtermdebug/circuit"
	"qtermdebug/lindblad"
	"qtermdebug/pauli"
)

const bellQASM = `OPENQASM 2.0;
include "qelib1.inc";

qreg q[2];
sx q[0];
cx q[0], q[1];
`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCompareIdentical(t *testing.T) {
	path := writeFile(t, "bell.qasm", bellQASM)
	out, err := execute(t, "compare", "--qasm", path, "-o", "ZZ",
		"--source1", "ideal_sim", "--source2", "ideal_sim", "--fom", "difference")
	require.NoError(t, err)
	assert.Equal(t, "binding 0: ZZ=0\n", out)
}

func TestCompareRejectsUnknownInput(t *testing.T) {
	path := writeFile(t, "bell.qasm", bellQASM)

	_, err := execute(t, "compare", "--qasm", path, "-o", "ZZ", "--fom", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown figure of merit")

	_, err = execute(t, "compare", "--qasm", path, "-o", "ZZ", "--source1", "hardware")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid source")
}

func TestClifford(t *testing.T) {
	path := writeFile(t, "rz.qasm", "OPENQASM 2.0;\ninclude \"qelib1.inc\";\n\nqreg q[1];\nrz(0.4) q[0];\n")
	out, err := execute(t, "clifford", "--qasm", path)
	require.NoError(t, err)
	assert.Contains(t, out, "OPENQASM 2.0;")
	assert.NotContains(t, out, "0.4")
	assert.Contains(t, out, "rz(0) q[0];")
}

func TestRender(t *testing.T) {
	c := circuit.New(2)
	c.AddGate("CX", 1, 0, 0)
	errs, err := lindblad.NewErrors(pauli.MustParseList("XI", "IZ", "ZZ"), []float64{0.01, 0.02, 0.03}, nil)
	require.NoError(t, err)
	layer, err := lindblad.NewLayerNoise(c, []int{0, 1}, errs)
	require.NoError(t, err)
	result, err := lindblad.NewResult([]lindblad.LayerNoise{layer}, nil)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "noise.yaml")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, result.Encode(f, lindblad.FormatYAML))
	require.NoError(t, f.Close())

	out, err := execute(t, "render", "--result", path, "--kind", "bar1q", "--renderer", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "qubit: 0")

	_, err = execute(t, "render", "--result", path, "--kind", "pie")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown figure kind")

	_, err = execute(t, "render", "--result", path, "--layer", "3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}
