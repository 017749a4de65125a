package e2e

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bsp-config/tests/testutil"
)

func TestResolveCommandE2E(t *testing.T) {
	root := testutil.RepoRoot(t)
	outDir := t.TempDir()

	cmd := exec.Command("go", "run", "./cmd/bsp-config", "resolve",
		"--tree", "fixtures/tree.yaml",
		"--override", "fixtures/overrides/board.config",
		"--output", outDir,
		"--log-level", "error",
	)
	cmd.Dir = root
	cmd.Env = append(os.Environ(), "GO111MODULE=on")
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))

	require.FileExists(t, filepath.Join(outDir, "reg_impl_data.c"))
	require.FileExists(t, filepath.Join(outDir, "reg_impl_defines.h"))
	require.FileExists(t, filepath.Join(outDir, "nucleus_gen_cfg.h"))
	require.FileExists(t, filepath.Join(outDir, "config.resolved.yaml"))
}

// buildBinary compiles the command once per test so exit codes reach the
// caller unchanged. "go run" collapses every failure to status 1.
func buildBinary(t *testing.T, root string) string {
	t.Helper()
	bin := filepath.Join(t.TempDir(), "bsp-config")
	cmd := exec.Command("go", "build", "-o", bin, "./cmd/bsp-config")
	cmd.Dir = root
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))
	return bin
}

func TestValidateCommandExitCodesE2E(t *testing.T) {
	root := testutil.RepoRoot(t)
	bin := buildBinary(t, root)
	tests := []struct {
		name     string
		override string
		code     int
		stderr   string
	}{
		{
			name:     "resolution errors",
			override: "fixtures/overrides/invalid.config",
			code:     3,
			stderr:   "config error: cannot disable mandatory component nu.os.kernel",
		},
		{
			name:     "unmet requirement",
			override: "fixtures/overrides/no-ethernet.config",
			code:     4,
			stderr:   "requirement not met: nu.os.net requires nu.drivers.ethernet",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := exec.Command(bin, "validate",
				"--tree", "fixtures/tree.yaml",
				"--override", tt.override,
				"--log-level", "error",
			)
			cmd.Dir = root
			var stderr strings.Builder
			cmd.Stderr = &stderr
			err := cmd.Run()
			var exitErr *exec.ExitError
			require.ErrorAs(t, err, &exitErr)
			assert.Equal(t, tt.code, exitErr.ExitCode())
			assert.Contains(t, stderr.String(), tt.stderr)
		})
	}
}
