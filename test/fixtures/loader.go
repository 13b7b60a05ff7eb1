package fixtures

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

// Compiler output fixtures.
const (
	SolcOutput = "solc-output.json" // Counter, Ownable and an empty IOwnable
	BuildInfo  = "build-info.json"  // Hardhat build-info with Greeter
	Failed     = "failed.json"      // parser error, no contracts
)

// fixturesDir returns the absolute path to the fixtures directory.
func fixturesDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Dir(file)
}

// Path returns the absolute path of a compiler output fixture.
func Path(name string) string {
	return filepath.Join(fixturesDir(), "compiler", name)
}

// Load reads a compiler output fixture.
func Load(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(Path(name))
	require.NoError(t, err, "failed to load compiler fixture: %s", name)
	return data
}

// Copy writes a fixture into dir (under its own name) and returns the new
// path, for tests that rewrite it.
func Copy(t *testing.T, name, dir string) string {
	t.Helper()
	dst := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(dst, Load(t, name), 0o600))
	return dst
}
