package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// whitelistSet is a precomputed lookup table for whitelist membership.
var whitelistSet map[string]bool

func init() {
	whitelistSet = make(map[string]bool, len(WhitelistedVars))
	for _, v := range WhitelistedVars {
		whitelistSet[v] = true
	}
}

// LoadFile parses a KEY=VALUE config file at the given path.
//
// Empty lines and lines starting with # are skipped, as are lines without
// an = sign. Whitespace is trimmed from keys and values; keys outside
// WhitelistedVars are silently ignored.
func LoadFile(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config file: %w", err)
	}
	defer f.Close()

	result := make(map[string]string)
	scanner := bufio.NewScanner(f)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		idx := strings.Index(line, "=")
		if idx < 0 {
			continue
		}
		key := strings.TrimSpace(line[:idx])
		value := strings.TrimSpace(line[idx+1:])
		if !whitelistSet[key] {
			continue
		}
		result[key] = value
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return result, nil
}

// LoadWithPrecedence assembles a Config by merging sources in order of
// increasing priority:
//
//  1. Built-in defaults
//  2. Global config file (globalPath)
//  3. Project config file (projectPath)
//  4. Explicit config file (explicitPath)
//  5. CLI overrides (cliOverrides map)
//
// Empty paths are skipped. A missing global or project file is not an
// error; an explicit file must exist.
func LoadWithPrecedence(globalPath, projectPath, explicitPath string, cliOverrides map[string]string) (*Config, error) {
	cfg := NewDefaultConfig()

	if globalPath != "" {
		m, err := LoadFile(globalPath)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("global config: %w", err)
			}
		} else {
			ApplyMapToConfig(cfg, m)
		}
	}

	if projectPath != "" {
		m, err := LoadFile(projectPath)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("project config: %w", err)
			}
		} else {
			ApplyMapToConfig(cfg, m)
		}
	}

	if explicitPath != "" {
		m, err := LoadFile(explicitPath)
		if err != nil {
			return nil, fmt.Errorf("explicit config: %w", err)
		}
		ApplyMapToConfig(cfg, m)
	}

	if len(cliOverrides) > 0 {
		ApplyMapToConfig(cfg, cliOverrides)
	}

	return cfg, nil
}

// ApplyMapToConfig sets fields on cfg from the key-value pairs in m. Keys
// use the WhitelistedVars naming convention. Unknown keys and numeric
// values that fail to parse are silently ignored (the previous value is
// preserved).
func ApplyMapToConfig(cfg *Config, m map[string]string) {
	for key, value := range m {
		switch key {
		case "BRIDGE_URL":
			cfg.BridgeURL = value
		case "EXPECTED_HOST":
			cfg.ExpectedHost = value
		case "MAX_ORDERS":
			if v, err := strconv.Atoi(value); err == nil {
				cfg.MaxOrders = v
			}
		case "PORT_TIMEOUT":
			if v, err := strconv.Atoi(value); err == nil {
				cfg.PortTimeout = v
			}
		case "PHASE_TIMEOUT":
			if v, err := strconv.Atoi(value); err == nil {
				cfg.PhaseTimeout = v
			}
		case "PRICE_TOLERANCE_PCT":
			if v, err := strconv.ParseFloat(value, 64); err == nil {
				cfg.PriceTolerancePct = v
			}
		case "RESUME_BASE_DELAY":
			if v, err := strconv.Atoi(value); err == nil {
				cfg.ResumeBaseDelay = v
			}
		case "STATE_DIR":
			cfg.StateDir = value
		case "STATE_BACKEND":
			cfg.StateBackend = value
		case "PREFERENCES_FILE":
			cfg.PreferencesFile = value
		case "SUBSTITUTE_ADVISOR":
			cfg.SubstituteAdvisor = value
		case "NOTIFY_WEBHOOK":
			cfg.NotifyWebhook = value
		case "NOTIFY_CHANNEL":
			cfg.NotifyChannel = value
		case "NOTIFY_CHAT_ID":
			cfg.NotifyChatID = value
		case "VERBOSE":
			cfg.Verbose = parseBool(value)
		}
	}
}

// parseBool interprets common boolean representations. "true", "1", "yes"
// (case-insensitive) return true; everything else returns false.
func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes":
		return true
	default:
		return false
	}
}
