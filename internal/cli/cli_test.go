package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/theapemachine/pqm"
)

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	root := NewRootCmd()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)

	err := root.Execute()
	return buf.String(), err
}

func TestRootCommand(t *testing.T) {
	t.Run("version", func(t *testing.T) {
		out, err := executeCommand(t, "--version")
		require.NoError(t, err)
		assert.Equal(t, "pqm version "+GetVersion()+"\n", out)
	})

	t.Run("subcommands", func(t *testing.T) {
		root := NewRootCmd()
		names := make([]string, 0)
		for _, cmd := range root.Commands() {
			names = append(names, cmd.Name())
		}
		assert.Subset(t, names, []string{"distribution", "circuit", "experiment"})
	})
}

func TestDistributionCommand(t *testing.T) {
	t.Run("single control qubit", func(t *testing.T) {
		out, err := executeCommand(t, "distribution", "--query", "00", "--patterns", "00,01")
		require.NoError(t, err)

		lines := strings.Split(strings.TrimSpace(out), "\n")
		require.Len(t, lines, 3)
		assert.Equal(t, "l\tP(l)", lines[0])
		assert.Equal(t, "0\t0.750000", lines[1])
		assert.Equal(t, "1\t0.250000", lines[2])
	})

	t.Run("several control qubits", func(t *testing.T) {
		out, err := executeCommand(t, "distribution", "--query", "1", "--patterns", "1", "--control", "3")
		require.NoError(t, err)
		assert.Contains(t, out, "0\t1.000000")
		assert.Contains(t, out, "3\t0.000000")
	})

	t.Run("invalid query", func(t *testing.T) {
		_, err := executeCommand(t, "distribution", "--query", "0x", "--patterns", "00")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "query")
	})

	t.Run("missing patterns", func(t *testing.T) {
		_, err := executeCommand(t, "distribution", "--query", "00")
		require.Error(t, err)
	})
}

func TestCircuitCommand(t *testing.T) {
	t.Run("qasm", func(t *testing.T) {
		out, err := executeCommand(t, "circuit", "--query", "01", "--patterns", "00,01")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(out, "OPENQASM 2.0;"))
		assert.Contains(t, out, "h memory[1];")
		assert.Contains(t, out, "measure ancilla[0] -> c0[0];")
	})

	t.Run("amplitude initializer needs a dump", func(t *testing.T) {
		_, err := executeCommand(t, "circuit", "--query", "01", "--patterns", "00,01,11", "--init", "amplitude")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "use --dump")

		out, err := executeCommand(t, "circuit", "--query", "01", "--patterns", "00,01,11", "--init", "amplitude", "--dump")
		require.NoError(t, err)
		assert.Contains(t, out, "initialize")
	})

	t.Run("unknown init method", func(t *testing.T) {
		_, err := executeCommand(t, "circuit", "--query", "01", "--patterns", "00", "--init", "qram")
		require.Error(t, err)
	})
}

func TestExperimentCommand(t *testing.T) {
	out, err := executeCommand(t, "experiment", "--memory-size", "1", "--shots", "256", "--seed", "3")
	require.NoError(t, err)

	assert.Contains(t, out, "backend")
	assert.Contains(t, out, "statevector_simulator")
	assert.Contains(t, out, "MSE oracle vs statevector_simulator")
	assert.Contains(t, out, "0+1\t")
}

func TestLoadConfig(t *testing.T) {
	writeConfig := func(t *testing.T, body string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "pqm.yaml")
		require.NoError(t, os.WriteFile(path, []byte(body), 0644))
		return path
	}

	load := func(t *testing.T, args ...string) (*pqm.Config, error) {
		t.Helper()
		cmd, _, err := NewRootCmd().Find([]string{"experiment"})
		require.NoError(t, err)
		require.NoError(t, cmd.ParseFlags(args))
		return loadConfig(cmd)
	}

	t.Run("defaults", func(t *testing.T) {
		cfg, err := load(t)
		require.NoError(t, err)

		defaults := pqm.NewConfig()
		assert.Equal(t, defaults.MemorySize, cfg.MemorySize)
		assert.Equal(t, defaults.Shots, cfg.Shots)
		assert.Equal(t, defaults.Init, cfg.Init)
		assert.Equal(t, defaults.JobTimeout, cfg.JobTimeout)
		assert.Equal(t, defaults.RetryBackoff, cfg.RetryBackoff)
		assert.Empty(t, cfg.Inputs)
	})

	t.Run("file, environment and flags", func(t *testing.T) {
		path := writeConfig(t, `
memory_size: 3
control_size: 2
shots: 128
init: amplitude
inputs: [0, 5]
job_timeout: 5s
`)
		t.Setenv("PQM_SEED", "42")

		cfg, err := load(t, "--config", path, "--shots", "64")
		require.NoError(t, err)

		assert.Equal(t, 3, cfg.MemorySize)
		assert.Equal(t, 2, cfg.ControlSize)
		assert.Equal(t, 64, cfg.Shots)
		assert.Equal(t, pqm.InitAmplitude, cfg.Init)
		assert.Equal(t, []int{0, 5}, cfg.Inputs)
		assert.Equal(t, 5*time.Second, cfg.JobTimeout)
		assert.Equal(t, int64(42), cfg.Seed)
	})

	t.Run("invalid values", func(t *testing.T) {
		path := writeConfig(t, "shots: 0\n")

		_, err := load(t, "--config", path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid config")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := load(t, "--config", filepath.Join(t.TempDir(), "absent.yaml"))
		require.Error(t, err)
	})
}
