// Package config defines the cart-copilot configuration model and default
// values.
//
// Configuration is assembled from multiple sources with a strict precedence
// chain: built-in defaults < global config file < project config file <
// explicit config file < CLI flag overrides. Slot preferences live in a
// separate YAML file referenced by PreferencesFile.
package config

// WhitelistedVars lists every configuration variable name that may appear in
// config files. Variables not in this list are silently ignored during
// loading.
var WhitelistedVars = [15]string{
	"BRIDGE_URL",
	"EXPECTED_HOST",
	"MAX_ORDERS",
	"PORT_TIMEOUT",
	"PHASE_TIMEOUT",
	"PRICE_TOLERANCE_PCT",
	"RESUME_BASE_DELAY",
	"STATE_DIR",
	"STATE_BACKEND",
	"PREFERENCES_FILE",
	"SUBSTITUTE_ADVISOR",
	"NOTIFY_WEBHOOK",
	"NOTIFY_CHANNEL",
	"NOTIFY_CHAT_ID",
	"VERBOSE",
}

// State backends selectable via STATE_BACKEND.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Substitute advisors selectable via SUBSTITUTE_ADVISOR.
const (
	AdvisorHeuristic = "heuristic"
	AdvisorLLM       = "llm"
	AdvisorNone      = "none"
)

// Config holds every configuration field for the cart-copilot CLI.
type Config struct {
	// Bridge endpoint and site verification.
	BridgeURL    string
	ExpectedHost string

	// Run limits.
	MaxOrders int

	// Timeouts, in seconds.
	PortTimeout  int
	PhaseTimeout int

	// Review heuristics. The 20% default is a carried-over constant, not a
	// derived value.
	PriceTolerancePct float64

	// Auto-resume backoff base delay, in seconds.
	ResumeBaseDelay int

	// Persistence.
	StateDir     string
	StateBackend string

	// Slot preferences file (YAML).
	PreferencesFile string

	// Substitution advisor selection.
	SubstituteAdvisor string

	// Notification settings.
	NotifyWebhook string
	NotifyChannel string
	NotifyChatID  string

	// Runtime flags.
	Verbose bool

	// CLI-only flags (never loaded from config files).
	ConfigFile string
	TabID      int
	OrderID    string
	Resume     bool
	AutoResume bool
	Status     bool
	Cancel     bool
	Approve    bool
	Clean      bool
	StartAt    string
}

// NewDefaultConfig returns a Config populated with all built-in defaults.
func NewDefaultConfig() *Config {
	return &Config{
		BridgeURL:         "http://127.0.0.1:8917",
		MaxOrders:         3,
		PortTimeout:       30,
		PhaseTimeout:      180,
		PriceTolerancePct: 20,
		ResumeBaseDelay:   5,
		StateDir:          ".cart-copilot",
		StateBackend:      BackendFile,
		SubstituteAdvisor: AdvisorHeuristic,
	}
}
