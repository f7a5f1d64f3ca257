package config_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raulfermoselle/ai-shopping-copilot-sub007/internal/config"
	"github.com/raulfermoselle/ai-shopping-copilot-sub007/internal/slots"
)

func TestLoadPreferencesEmptyPath(t *testing.T) {
	prefs, err := config.LoadPreferences("")
	require.NoError(t, err)
	assert.Equal(t, slots.Preferences{}, prefs)
}

func TestLoadPreferencesFull(t *testing.T) {
	yaml := `preferred_days: [tuesday, thursday]
window_start: "18:00"
window_end: "21:00"
max_fee: 5.0
weights:
  day: 0.5
  time: 0.3
  fee: 0.2
`
	path := writeFile(t, t.TempDir(), "prefs.yaml", yaml)

	prefs, err := config.LoadPreferences(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"tuesday", "thursday"}, prefs.PreferredDays)
	assert.Equal(t, "18:00", prefs.WindowStart)
	assert.Equal(t, "21:00", prefs.WindowEnd)
	assert.Equal(t, 5.0, prefs.MaxFee)
	assert.Equal(t, slots.Weights{Day: 0.5, Time: 0.3, Fee: 0.2}, prefs.Weights)
}

func TestLoadPreferencesPartial(t *testing.T) {
	path := writeFile(t, t.TempDir(), "prefs.yaml", "preferred_days: [saturday]\n")

	prefs, err := config.LoadPreferences(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"saturday"}, prefs.PreferredDays)
	assert.Empty(t, prefs.WindowStart)
	assert.Zero(t, prefs.MaxFee)
}

func TestLoadPreferencesMissingFile(t *testing.T) {
	_, err := config.LoadPreferences(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadPreferencesMalformedYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "prefs.yaml", "preferred_days: [unclosed\n")

	_, err := config.LoadPreferences(path)
	assert.Error(t, err)
}
