package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/raulfermoselle/ai-shopping-copilot-sub007/internal/banner"
	"github.com/raulfermoselle/ai-shopping-copilot-sub007/internal/bridge"
	"github.com/raulfermoselle/ai-shopping-copilot-sub007/internal/browser"
	"github.com/raulfermoselle/ai-shopping-copilot-sub007/internal/cli"
	"github.com/raulfermoselle/ai-shopping-copilot-sub007/internal/config"
	"github.com/raulfermoselle/ai-shopping-copilot-sub007/internal/exitcode"
	"github.com/raulfermoselle/ai-shopping-copilot-sub007/internal/extraction"
	"github.com/raulfermoselle/ai-shopping-copilot-sub007/internal/logging"
	"github.com/raulfermoselle/ai-shopping-copilot-sub007/internal/notification"
	"github.com/raulfermoselle/ai-shopping-copilot-sub007/internal/orchestrator"
	"github.com/raulfermoselle/ai-shopping-copilot-sub007/internal/runstate"
	"github.com/raulfermoselle/ai-shopping-copilot-sub007/internal/schedule"
	sighandler "github.com/raulfermoselle/ai-shopping-copilot-sub007/internal/signal"
	"github.com/raulfermoselle/ai-shopping-copilot-sub007/internal/store"
	"github.com/raulfermoselle/ai-shopping-copilot-sub007/internal/substitute"
)

// version vars injected via ldflags at build time
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cfg := config.NewDefaultConfig()

	rootCmd := &cobra.Command{
		Use:     "cart-copilot",
		Short:   "Grocery reorder assistant",
		Long:    "cart-copilot rebuilds a grocery cart from recent orders, proposes substitutes and ranks delivery slots, then stops for human review.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Validate flags after parsing
			if err := cli.ValidateFlags(cmd, cfg); err != nil {
				return err
			}
			return runCopilot(cmd, cfg)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Bind all CLI flags to the config
	cli.BindFlags(rootCmd, cfg)

	// Set custom help template
	cli.SetCustomHelp(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitcode.Error)
	}
}

// buildCLIOverrides creates a map of CLI flag overrides from the config.
// Uses cmd.Flags().Changed() to only include flags explicitly set by the user,
// ensuring config file values are not accidentally overridden by default values.
func buildCLIOverrides(cmd *cobra.Command, cfg *config.Config) map[string]string {
	overrides := make(map[string]string)

	// String flags: only include if explicitly set via CLI
	stringFlags := map[string]struct {
		key string
		val string
	}{
		"bridge-url":     {"BRIDGE_URL", cfg.BridgeURL},
		"expected-host":  {"EXPECTED_HOST", cfg.ExpectedHost},
		"state-dir":      {"STATE_DIR", cfg.StateDir},
		"state-backend":  {"STATE_BACKEND", cfg.StateBackend},
		"preferences":    {"PREFERENCES_FILE", cfg.PreferencesFile},
		"advisor":        {"SUBSTITUTE_ADVISOR", cfg.SubstituteAdvisor},
		"notify-webhook": {"NOTIFY_WEBHOOK", cfg.NotifyWebhook},
		"notify-channel": {"NOTIFY_CHANNEL", cfg.NotifyChannel},
		"notify-chat-id": {"NOTIFY_CHAT_ID", cfg.NotifyChatID},
	}
	for flag, mapping := range stringFlags {
		if cmd.Flags().Changed(flag) {
			overrides[mapping.key] = mapping.val
		}
	}

	// Int flags
	intFlags := map[string]struct {
		key string
		val int
	}{
		"max-orders":    {"MAX_ORDERS", cfg.MaxOrders},
		"port-timeout":  {"PORT_TIMEOUT", cfg.PortTimeout},
		"phase-timeout": {"PHASE_TIMEOUT", cfg.PhaseTimeout},
	}
	for flag, mapping := range intFlags {
		if cmd.Flags().Changed(flag) {
			overrides[mapping.key] = strconv.Itoa(mapping.val)
		}
	}

	if cmd.Flags().Changed("price-tolerance") {
		overrides["PRICE_TOLERANCE_PCT"] = strconv.FormatFloat(cfg.PriceTolerancePct, 'f', -1, 64)
	}
	if cmd.Flags().Changed("verbose") {
		overrides["VERBOSE"] = strconv.FormatBool(cfg.Verbose)
	}

	return overrides
}

func runCopilot(cmd *cobra.Command, cfg *config.Config) error {
	// Load config with full precedence chain. CLI flags are already bound to
	// cfg; Changed() detection keeps defaults from shadowing file values.
	cliOverrides := buildCLIOverrides(cmd, cfg)

	finalCfg, err := config.LoadWithPrecedence("", "", cfg.ConfigFile, cliOverrides)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Merge CLI-only flags (not in config files)
	finalCfg.ConfigFile = cfg.ConfigFile
	finalCfg.TabID = cfg.TabID
	finalCfg.Resume = cfg.Resume
	finalCfg.AutoResume = cfg.AutoResume
	finalCfg.Status = cfg.Status
	finalCfg.Cancel = cfg.Cancel
	finalCfg.Approve = cfg.Approve
	finalCfg.Clean = cfg.Clean
	finalCfg.StartAt = cfg.StartAt
	cfg = finalCfg

	logging.SetVerbose(cfg.Verbose)

	st, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	if cfg.Clean {
		if err := st.Clear(); err != nil {
			return fmt.Errorf("clear state: %w", err)
		}
		logging.Success("State cleared")
	}

	client := bridge.New(cfg.BridgeURL)
	messenger := extraction.NewBridge(client)
	tabs := browser.NewBridge(client)

	orch := orchestrator.New(cfg, st, messenger, tabs)
	orch.Advisor = buildAdvisor(cfg, client)
	orch.Prefs, err = config.LoadPreferences(cfg.PreferencesFile)
	if err != nil {
		return fmt.Errorf("load preferences: %w", err)
	}
	if cfg.NotifyWebhook != "" {
		orch.Notifier = &notification.Sender{
			Webhook: cfg.NotifyWebhook,
			Channel: cfg.NotifyChannel,
			ChatID:  cfg.NotifyChatID,
		}
	}

	// One-shot operations work on the persisted state without re-entering
	// any phase.
	switch {
	case cfg.Status:
		if _, err := orch.LoadPersisted(); err != nil {
			return err
		}
		banner.PrintStatusBanner(orch.State())
		os.Exit(exitcode.Success)
	case cfg.Cancel:
		if _, err := orch.LoadPersisted(); err != nil {
			return err
		}
		orch.CancelRun()
		logging.Success("Run cancelled")
		os.Exit(exitcode.Success)
	case cfg.Approve:
		if _, err := orch.LoadPersisted(); err != nil {
			return err
		}
		if err := orch.ApproveCart(); err != nil {
			if errors.Is(err, orchestrator.ErrNotInReview) {
				logging.Error("No review pack awaiting approval")
				os.Exit(exitcode.Error)
			}
			return err
		}
		os.Exit(exitcode.Success)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	interrupted := false
	sighandler.SetupHandler(ctx, cancel, func() {
		interrupted = true
		logging.Warn("Interrupted — state saved, resume with --resume")
	})

	// Optional scheduled start
	if cfg.StartAt != "" {
		target, err := schedule.Parse(cfg.StartAt)
		if err != nil {
			return fmt.Errorf("--start-at: %w", err)
		}
		logging.Info(fmt.Sprintf("Waiting until %s to start", target.Format("2006-01-02 15:04")))
		if err := schedule.WaitUntil(ctx, target); err != nil {
			os.Exit(exitcode.Interrupted)
		}
	}

	// Pick up whatever a previous process left behind. A run that was
	// in flight when the process died re-enters its current phase here.
	if err := orch.Recover(ctx); err != nil {
		return err
	}

	if cfg.Resume {
		exitWith(resume(ctx, orch, cfg), orch, interrupted)
	}

	// Fresh run.
	switch orch.State().Status {
	case runstate.StatusIdle, runstate.StatusComplete:
	case runstate.StatusReview:
		logging.Warn("A run is awaiting review; use --status, --approve or --cancel")
		os.Exit(exitcode.ReviewPending)
	default:
		if orch.State().Status == runstate.StatusPaused {
			logging.Warn("A paused run exists; use --resume, --status or --cancel")
			os.Exit(exitcode.ReviewPending)
		}
	}

	tabID := cfg.TabID
	if tabID == 0 {
		info, err := tabs.ActiveTab(ctx)
		if err != nil {
			return fmt.Errorf("detect active tab: %w", err)
		}
		tabID = info.ID
		logging.Debug(fmt.Sprintf("Using active tab %d (%s)", tabID, info.URL))
	}

	banner.PrintStartupBanner(tabID, cfg.StateBackend, cfg.MaxOrders)

	if err := orch.StartRun(ctx, tabID, cfg.OrderID); err != nil {
		return err
	}
	exitWith(nil, orch, interrupted)
	return nil // unreachable
}

// resume drives a single resume or the auto-resume backoff loop.
func resume(ctx context.Context, orch *orchestrator.Orchestrator, cfg *config.Config) error {
	if orch.State().Status != runstate.StatusPaused {
		return fmt.Errorf("no paused run to resume (status: %s)", orch.State().Status)
	}

	if cfg.AutoResume {
		return orchestrator.AutoResume(ctx, orch, orchestrator.ResumeConfig{
			BaseDelay: cfg.ResumeBaseDelay,
			OnRetry: func(attempt, delay int) {
				logging.Info(fmt.Sprintf("Retry %d in %s", attempt+1, logging.FormatDuration(delay)))
			},
		})
	}
	return orch.ResumeRun(ctx)
}

// exitWith maps the final run state to an exit code and terminates.
func exitWith(opErr error, orch *orchestrator.Orchestrator, interrupted bool) {
	if opErr != nil {
		logging.Error(opErr.Error())
	}

	st := orch.State()

	if interrupted {
		banner.PrintInterruptedBanner(st)
		os.Exit(exitcode.Interrupted)
	}

	switch st.Status {
	case runstate.StatusReview:
		if pack, found, err := orch.Store.LoadReviewPack(); err == nil && found {
			banner.PrintReviewBanner(pack)
		}
		os.Exit(exitcode.ReviewPending)
	case runstate.StatusPaused:
		banner.PrintErrorBanner(st)
		if st.Error != nil {
			switch {
			case st.Error.Code == runstate.ErrorAuth:
				os.Exit(exitcode.AuthRequired)
			case st.Error.Code == runstate.ErrorExtraction:
				os.Exit(exitcode.ExtractionFailed)
			case !runstate.CanRetry(st):
				os.Exit(exitcode.MaxErrors)
			}
		}
		os.Exit(exitcode.ReviewPending)
	case runstate.StatusComplete, runstate.StatusIdle:
		os.Exit(exitcode.Success)
	}
	os.Exit(exitcode.Error)
}

// buildAdvisor wires the substitution advisor selected by configuration.
// The llm advisor falls back to the heuristic when the bridge has no ranking
// support.
func buildAdvisor(cfg *config.Config, client *bridge.Client) substitute.Advisor {
	switch cfg.SubstituteAdvisor {
	case config.AdvisorNone:
		return nil
	case config.AdvisorLLM:
		return &substitute.Fallback{
			Primary:   &substitute.BridgeAdvisor{Client: client},
			Secondary: &substitute.Heuristic{PriceTolerancePct: cfg.PriceTolerancePct},
		}
	default:
		return &substitute.Heuristic{PriceTolerancePct: cfg.PriceTolerancePct}
	}
}

// openStore builds the configured state backend. The returned closer is a
// no-op for the file backend.
func openStore(cfg *config.Config) (store.StateStore, func(), error) {
	switch cfg.StateBackend {
	case config.BackendSQLite:
		if err := os.MkdirAll(cfg.StateDir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("create state dir: %w", err)
		}
		s, err := store.OpenSQLite(filepath.Join(cfg.StateDir, "state.db"))
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite state: %w", err)
		}
		return s, func() { _ = s.Close() }, nil
	default:
		s, err := store.NewFileStore(cfg.StateDir)
		if err != nil {
			return nil, nil, fmt.Errorf("open state dir: %w", err)
		}
		return s, func() {}, nil
	}
}
