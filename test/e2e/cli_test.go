package e2e_test

import (
	"encoding/json"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/Mohsinsiddi/dappos/test/fixtures"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const deployed = "0x5FbDB2315678afecb367f032d93F642f64180aa3"

var binaryPath string

func TestMain(m *testing.M) {
	// Build the binary before all E2E tests.
	tmp, err := os.MkdirTemp("", "dappos-e2e-test")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(tmp)

	binaryPath = filepath.Join(tmp, "dappos")
	// Build from the module root (two levels up from test/e2e/).
	moduleRoot, err := filepath.Abs(filepath.Join("..", ".."))
	if err != nil {
		panic(err)
	}
	cmd := exec.Command("go", "build", "-o", binaryPath, ".")
	cmd.Dir = moduleRoot
	if out, err := cmd.CombinedOutput(); err != nil {
		panic("build failed: " + string(out))
	}

	os.Exit(m.Run())
}

func runCLI(t *testing.T, configDir string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(binaryPath, args...)
	cmd.Env = append(os.Environ(), "DAPPOS_CONFIG_DIR="+configDir)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

// offlineConfig keeps everything inside dir: a sqlite store and a keyring file.
func offlineConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	cfg := map[string]any{
		"builder_url":      "https://builder.example",
		"best_effort_save": true,
		"keyring_file":     true,
		"store":            map[string]any{"backend": "sqlite"},
	}
	data, err := json.Marshal(cfg)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), data, 0o600))
	return dir
}

var builderURL = regexp.MustCompile(`https://builder\.example/DappBuilder\?\S+`)

func TestVersionFlag(t *testing.T) {
	out, err := runCLI(t, t.TempDir(), "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "dappos")
	assert.Contains(t, out, "0.1.0")
}

func TestHelpCommand(t *testing.T) {
	out, err := runCLI(t, t.TempDir(), "--help")
	require.NoError(t, err)
	for _, sub := range []string{"plugin", "create", "contracts", "id", "config", "init"} {
		assert.Contains(t, out, sub)
	}
	assert.Contains(t, out, "--config")
}

func TestContractsTable(t *testing.T) {
	out, err := runCLI(t, t.TempDir(), "contracts", "--artifact", fixtures.Path(fixtures.SolcOutput))
	require.NoError(t, err, out)
	assert.Contains(t, out, "Counter")
	assert.Contains(t, out, "Ownable")
	assert.Contains(t, out, "IOwnable")
}

func TestContractsJSON(t *testing.T) {
	dir := t.TempDir()
	cmd := exec.Command(binaryPath, "contracts", "--json", "--artifact", fixtures.Path(fixtures.BuildInfo))
	cmd.Env = append(os.Environ(), "DAPPOS_CONFIG_DIR="+dir)
	out, err := cmd.Output()
	require.NoError(t, err)

	var m map[string]struct {
		ABI []json.RawMessage `json:"abi"`
	}
	require.NoError(t, json.Unmarshal(out, &m))
	require.Contains(t, m, "Greeter")
	assert.Len(t, m["Greeter"].ABI, 2)
}

func TestContractsFailedCompilation(t *testing.T) {
	out, err := runCLI(t, t.TempDir(), "contracts", "--artifact", fixtures.Path(fixtures.Failed))
	require.Error(t, err)
	assert.Contains(t, out, "Expected ';'")
	assert.Contains(t, out, "no contracts found")
}

func TestConfigBuilderURLPersists(t *testing.T) {
	dir := t.TempDir()
	_, err := runCLI(t, dir, "config", "set-builder-url", "http://localhost:3000/")
	require.NoError(t, err)

	out, err := runCLI(t, dir, "config", "list")
	require.NoError(t, err)
	assert.Contains(t, out, `"builder_url": "http://localhost:3000"`)
}

func TestConfigSetStore(t *testing.T) {
	dir := t.TempDir()
	_, err := runCLI(t, dir, "config", "set-store", "sqlite", "--path", filepath.Join(dir, "x.db"))
	require.NoError(t, err)

	out, err := runCLI(t, dir, "config", "list")
	require.NoError(t, err)
	assert.Contains(t, out, `"backend": "sqlite"`)
	assert.Contains(t, out, "x.db")

	out, err = runCLI(t, dir, "config", "set-store", "mongodb")
	require.Error(t, err)
	assert.Contains(t, out, "unknown store backend")
}

func TestCreateEndToEnd(t *testing.T) {
	dir := offlineConfig(t)

	out, err := runCLI(t, dir, "create", "--no-browser",
		"--artifact", fixtures.Path(fixtures.SolcOutput),
		"--name", "My Counter",
		"--address", deployed,
		"--contract", "Counter", "--contract", "Ownable",
	)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Dapp created")
	assert.Contains(t, out, "/remixUsers/")

	link := builderURL.FindString(out)
	require.NotEmpty(t, link, out)
	u, err := url.Parse(link)
	require.NoError(t, err)
	userID := u.Query().Get("uniqueId")
	assert.NotEmpty(t, userID)
	assert.NotEmpty(t, u.Query().Get("dappId"))

	_, err = os.Stat(filepath.Join(dir, "dapps.db"))
	assert.NoError(t, err, "sqlite store written")

	// The identifier is reused by later runs.
	idOut, err := runCLI(t, dir, "id")
	require.NoError(t, err)
	assert.Equal(t, userID, strings.TrimSpace(idOut))
}

func TestCreateFreshDappIDs(t *testing.T) {
	dir := offlineConfig(t)
	args := []string{"create", "--no-browser", "--artifact", fixtures.Path(fixtures.BuildInfo), "--address", deployed}

	first, err := runCLI(t, dir, args...)
	require.NoError(t, err, first)
	second, err := runCLI(t, dir, args...)
	require.NoError(t, err, second)

	u1, err := url.Parse(builderURL.FindString(first))
	require.NoError(t, err)
	u2, err := url.Parse(builderURL.FindString(second))
	require.NoError(t, err)
	assert.Equal(t, u1.Query().Get("uniqueId"), u2.Query().Get("uniqueId"))
	assert.NotEqual(t, u1.Query().Get("dappId"), u2.Query().Get("dappId"))
}

func TestCreateValidation(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"bad address", []string{"--address", "0x1234"}, "Please enter a valid contract address"},
		{"blank name", []string{"--address", deployed, "--name", "   "}, "Please enter a name for your dapp"},
		{"slash", []string{"--address", deployed, "--name", "a/b"}, `cannot contain "/"`},
		{"unknown contract", []string{"--address", deployed, "--contract", "Ghost"}, "not in the latest compilation"},
		{"only empty abi", []string{"--address", deployed, "--contract", "IOwnable"}, "Please select at least one contract"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := offlineConfig(t)
			args := append([]string{"create", "--no-browser", "--artifact", fixtures.Path(fixtures.SolcOutput)}, tt.args...)
			out, err := runCLI(t, dir, args...)
			require.Error(t, err)
			assert.Contains(t, out, tt.want)
			assert.NotContains(t, out, "DappBuilder?")

			// Nothing was written and no identifier was created.
			idOut, err := runCLI(t, dir, "id")
			require.NoError(t, err)
			assert.Contains(t, idOut, "No identifier yet")
		})
	}
}

func TestIDCreate(t *testing.T) {
	dir := offlineConfig(t)
	out, err := runCLI(t, dir, "id", "--create")
	require.NoError(t, err)
	id := strings.TrimSpace(out)
	assert.Regexp(t, `^[0-9a-f-]{36}$`, id)

	again, err := runCLI(t, dir, "id")
	require.NoError(t, err)
	assert.Equal(t, id, strings.TrimSpace(again))
}
