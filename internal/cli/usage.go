// Package cli provides help text and usage formatting for the cart-copilot CLI.
package cli

import (
	"github.com/spf13/cobra"
)

const helpTemplate = `cart-copilot - Grocery reorder assistant

USAGE
  cart-copilot [flags]

FLAGS
  Bridge & Site:
    --bridge-url <url>           Extension bridge RPC endpoint (default: http://127.0.0.1:8917)
    --expected-host <host>       Host the target tab must be on (empty disables the check)
    --tab <id>                   Browser tab ID to drive (default: active tab)

  Run Limits & Timeouts:
    --max-orders <int>           Number of recent orders to reorder (default: 3)
    --order <id>                 Reorder a single order by ID instead of the recent history
    --port-timeout <int>         Seconds per bridge call (default: 30)
    --phase-timeout <int>        Seconds per phase (default: 180)
    --price-tolerance <pct>      Price drift percent that flags the review pack (default: 20)

  Persistence:
    --state-dir <path>           Directory for run state and the review pack (default: .cart-copilot)
    --state-backend <backend>    file or sqlite (default: file)

  Preferences & Substitution:
    --preferences <path>         YAML file with delivery-slot preferences
    --advisor <advisor>          heuristic, llm or none (default: heuristic)

  Scheduling:
    --start-at <time>            Schedule start time (ISO 8601, HH:MM, YYYY-MM-DD HH:MM)
    --at <time>                  Alias for --start-at

  Notifications:
    --notify-webhook <url>       Webhook URL for milestone notifications
    --notify-channel <channel>   Notification channel
    --notify-chat-id <id>        Recipient chat ID

  Run Management:
    --resume                     Resume the paused run
    --auto-resume                Retry a paused run with backoff (implies --resume)
    --status                     Show run status and exit
    --approve                    Approve the review pack and complete the run
    --cancel                     Cancel the active run and exit
    --clean                      Delete persisted state and start fresh

  Other:
    --config <path>              Path to additional config file
    -v, --verbose                Verbose logging
    -h, --help                   Show this help text
    --version                    Show version, commit, build date

EXIT CODES
  0   Success              Run completed or review pack approved
  1   Error                Invalid arguments, file not found, misconfiguration
  2   AuthRequired         Session not authenticated; log in and resume
  3   ExtractionFailed     Site layout changed; selectors no longer match
  4   MaxErrors            Consecutive-error threshold exceeded
  5   ReviewPending        Run paused or review pack awaiting approval
  130 Interrupted          SIGINT or SIGTERM received

EXAMPLES
  # Rebuild the cart from the last 3 orders in the active tab
  cart-copilot

  # Reorder from the last 5 orders with slot preferences
  cart-copilot --max-orders 5 --preferences prefs.yaml

  # Rebuild the cart from one specific order
  cart-copilot --order 2026-01-15-0042

  # Resume a paused run
  cart-copilot --resume

  # Keep retrying a network-flaky run with backoff
  cart-copilot --auto-resume

  # Inspect the persisted run
  cart-copilot --status

  # Sign off on the rebuilt cart
  cart-copilot --approve

For more information, see: https://github.com/raulfermoselle/ai-shopping-copilot-sub007
`

// SetCustomHelp configures the cobra command to use our custom help template.
func SetCustomHelp(cmd *cobra.Command) {
	cmd.SetHelpTemplate(helpTemplate)
}
