package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raulfermoselle/ai-shopping-copilot-sub007/internal/config"
)

// writeFile is a test helper that creates a temporary file with the given content.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	err := os.WriteFile(path, []byte(content), 0644)
	require.NoError(t, err)
	return path
}

// ---------------------------------------------------------------------------
// LoadFile tests
// ---------------------------------------------------------------------------

func TestLoadFileBasicKeyValue(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config", "BRIDGE_URL=http://127.0.0.1:9000\nMAX_ORDERS=5\n")

	m, err := config.LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:9000", m["BRIDGE_URL"])
	assert.Equal(t, "5", m["MAX_ORDERS"])
}

func TestLoadFileSkipsCommentsAndEmptyLines(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config", "# comment\n\nMAX_ORDERS=4\n\n# trailing\n")

	m, err := config.LoadFile(path)
	require.NoError(t, err)

	assert.Len(t, m, 1)
	assert.Equal(t, "4", m["MAX_ORDERS"])
}

func TestLoadFileTrimsWhitespace(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config", "  STATE_BACKEND  =  sqlite  \n")

	m, err := config.LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", m["STATE_BACKEND"])
}

func TestLoadFileSkipsUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config", "MAX_ORDERS=4\nBOGUS=stuff\nPATH=/evil\n")

	m, err := config.LoadFile(path)
	require.NoError(t, err)

	assert.Len(t, m, 1)
	assert.NotContains(t, m, "BOGUS")
	assert.NotContains(t, m, "PATH")
}

func TestLoadFileMissing(t *testing.T) {
	_, err := config.LoadFile(filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}

// ---------------------------------------------------------------------------
// Precedence tests
// ---------------------------------------------------------------------------

func TestPrecedenceDefaultsOnly(t *testing.T) {
	cfg, err := config.LoadWithPrecedence("", "", "", nil)
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:8917", cfg.BridgeURL)
	assert.Equal(t, 3, cfg.MaxOrders)
	assert.Equal(t, config.BackendFile, cfg.StateBackend)
	assert.Equal(t, config.AdvisorHeuristic, cfg.SubstituteAdvisor)
}

func TestPrecedenceProjectOverridesGlobal(t *testing.T) {
	dir := t.TempDir()
	global := writeFile(t, dir, "global", "MAX_ORDERS=5\nPORT_TIMEOUT=60\n")
	project := writeFile(t, dir, "project", "MAX_ORDERS=7\n")

	cfg, err := config.LoadWithPrecedence(global, project, "", nil)
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.MaxOrders, "project file wins over global")
	assert.Equal(t, 60, cfg.PortTimeout, "untouched keys carry through")
}

func TestPrecedenceCLIOverridesEverything(t *testing.T) {
	dir := t.TempDir()
	explicit := writeFile(t, dir, "explicit", "MAX_ORDERS=7\nSTATE_BACKEND=sqlite\n")

	cfg, err := config.LoadWithPrecedence("", "", explicit, map[string]string{"MAX_ORDERS": "2"})
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.MaxOrders)
	assert.Equal(t, config.BackendSQLite, cfg.StateBackend)
}

func TestPrecedenceMissingGlobalIgnored(t *testing.T) {
	cfg, err := config.LoadWithPrecedence(filepath.Join(t.TempDir(), "absent"), "", "", nil)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.MaxOrders)
}

func TestPrecedenceMissingExplicitFails(t *testing.T) {
	_, err := config.LoadWithPrecedence("", "", filepath.Join(t.TempDir(), "absent"), nil)
	assert.Error(t, err)
}

// ---------------------------------------------------------------------------
// ApplyMapToConfig tests
// ---------------------------------------------------------------------------

func TestApplyMapIgnoresBadNumbers(t *testing.T) {
	cfg := config.NewDefaultConfig()
	config.ApplyMapToConfig(cfg, map[string]string{
		"MAX_ORDERS":          "not-a-number",
		"PRICE_TOLERANCE_PCT": "abc",
	})

	assert.Equal(t, 3, cfg.MaxOrders)
	assert.Equal(t, 20.0, cfg.PriceTolerancePct)
}

func TestApplyMapParsesBooleans(t *testing.T) {
	cfg := config.NewDefaultConfig()

	config.ApplyMapToConfig(cfg, map[string]string{"VERBOSE": "yes"})
	assert.True(t, cfg.Verbose)

	config.ApplyMapToConfig(cfg, map[string]string{"VERBOSE": "nope"})
	assert.False(t, cfg.Verbose)
}
