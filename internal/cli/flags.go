// Package cli provides flag binding and validation for the cart-copilot CLI.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/raulfermoselle/ai-shopping-copilot-sub007/internal/config"
)

// BindFlags registers all CLI flags on the given cobra command. The flags
// directly modify fields in the provided config pointer. Call ValidateFlags
// after parsing to check flag combinations.
func BindFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()

	// Bridge & Site
	flags.StringVar(&cfg.BridgeURL, "bridge-url", cfg.BridgeURL, "Extension bridge RPC endpoint")
	flags.StringVar(&cfg.ExpectedHost, "expected-host", "", "Host the target tab must be on (empty disables the check)")
	flags.IntVar(&cfg.TabID, "tab", 0, "Browser tab ID to drive (default: active tab)")

	// Run Limits & Timeouts
	flags.IntVar(&cfg.MaxOrders, "max-orders", cfg.MaxOrders, "Number of recent orders to reorder")
	flags.StringVar(&cfg.OrderID, "order", "", "Reorder a single order by ID instead of the recent history")
	flags.IntVar(&cfg.PortTimeout, "port-timeout", cfg.PortTimeout, "Seconds per bridge call")
	flags.IntVar(&cfg.PhaseTimeout, "phase-timeout", cfg.PhaseTimeout, "Seconds per phase")
	flags.Float64Var(&cfg.PriceTolerancePct, "price-tolerance", cfg.PriceTolerancePct, "Price drift percent that flags the review pack")

	// Persistence
	flags.StringVar(&cfg.StateDir, "state-dir", cfg.StateDir, "Directory for run state and the review pack")
	flags.StringVar(&cfg.StateBackend, "state-backend", cfg.StateBackend, "State backend: file or sqlite")

	// Preferences & Substitution
	flags.StringVar(&cfg.PreferencesFile, "preferences", "", "YAML file with delivery-slot preferences")
	flags.StringVar(&cfg.SubstituteAdvisor, "advisor", cfg.SubstituteAdvisor, "Substitute advisor: heuristic, llm or none")

	// Config
	flags.StringVar(&cfg.ConfigFile, "config", "", "Path to additional config file")

	// Feature Toggles
	flags.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Verbose logging")

	// Scheduling
	flags.StringVar(&cfg.StartAt, "start-at", "", "Schedule start time (ISO 8601, HH:MM, YYYY-MM-DD HH:MM)")
	// Alias --at for --start-at
	flags.StringVar(&cfg.StartAt, "at", "", "Alias for --start-at")

	// Notifications
	flags.StringVar(&cfg.NotifyWebhook, "notify-webhook", "", "Webhook URL for milestone notifications")
	flags.StringVar(&cfg.NotifyChannel, "notify-channel", "", "Notification channel")
	flags.StringVar(&cfg.NotifyChatID, "notify-chat-id", "", "Recipient chat ID")

	// Run Management
	flags.BoolVar(&cfg.Resume, "resume", false, "Resume the paused run")
	flags.BoolVar(&cfg.AutoResume, "auto-resume", false, "Retry a paused run with backoff while the guard allows (implies --resume)")
	flags.BoolVar(&cfg.Status, "status", false, "Show run status and exit")
	flags.BoolVar(&cfg.Approve, "approve", false, "Approve the review pack and complete the run")
	flags.BoolVar(&cfg.Cancel, "cancel", false, "Cancel the active run and exit")
	flags.BoolVar(&cfg.Clean, "clean", false, "Delete persisted state and start fresh")
}

// ValidateFlags checks for invalid flag combinations after parsing.
// Must be called after cmd.Execute() or cmd.ParseFlags().
func ValidateFlags(cmd *cobra.Command, cfg *config.Config) error {
	// At most one one-shot operation
	ops := 0
	for _, set := range []bool{cfg.Status, cfg.Cancel, cfg.Approve} {
		if set {
			ops++
		}
	}
	if ops > 1 {
		return fmt.Errorf("--status, --cancel and --approve are mutually exclusive")
	}

	// --auto-resume implies --resume
	if cfg.AutoResume {
		cfg.Resume = true
	}

	// --config must exist if provided
	if cfg.ConfigFile != "" {
		if _, err := os.Stat(cfg.ConfigFile); err != nil {
			return fmt.Errorf("--config: %w", err)
		}
	}

	// --preferences must exist if provided on the command line
	if cmd.Flags().Changed("preferences") && cfg.PreferencesFile != "" {
		if _, err := os.Stat(cfg.PreferencesFile); err != nil {
			return fmt.Errorf("--preferences: %w", err)
		}
	}

	switch cfg.StateBackend {
	case config.BackendFile, config.BackendSQLite:
	default:
		return fmt.Errorf("--state-backend must be 'file' or 'sqlite', got: %s", cfg.StateBackend)
	}

	switch cfg.SubstituteAdvisor {
	case config.AdvisorHeuristic, config.AdvisorLLM, config.AdvisorNone:
	default:
		return fmt.Errorf("--advisor must be 'heuristic', 'llm' or 'none', got: %s", cfg.SubstituteAdvisor)
	}

	if cfg.MaxOrders <= 0 {
		return fmt.Errorf("--max-orders must be positive, got: %d", cfg.MaxOrders)
	}

	return nil
}
