// Package banner provides colored banner display functions for the
// cart-copilot CLI: startup, run status, review summary and interruption.
package banner

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/raulfermoselle/ai-shopping-copilot-sub007/internal/review"
	"github.com/raulfermoselle/ai-shopping-copilot-sub007/internal/runstate"
)

var (
	headerColor  = color.New(color.FgCyan, color.Bold).SprintFunc()
	successColor = color.New(color.FgGreen, color.Bold).SprintFunc()
	errorColor   = color.New(color.FgRed, color.Bold).SprintFunc()
	warnColor    = color.New(color.FgYellow, color.Bold).SprintFunc()
)

const separator = "═══════════════════════════════════════════════════"

// PrintStartupBanner displays the startup banner with run info.
func PrintStartupBanner(tabID int, backend string, maxOrders int) {
	sep := headerColor(separator)
	fmt.Println(sep)
	fmt.Println(headerColor("  cart-copilot - Grocery Reorder Assistant"))
	fmt.Println(sep)
	fmt.Printf("  Tab:        %d\n", tabID)
	fmt.Printf("  Orders:     last %d\n", maxOrders)
	fmt.Printf("  State:      %s\n", backend)
	fmt.Println(sep)
}

// PrintStatusBanner displays the persisted run state for --status.
func PrintStatusBanner(s runstate.RunState) {
	sep := headerColor(separator)
	fmt.Println(sep)
	fmt.Println(headerColor("  cart-copilot - Run Status"))
	fmt.Println(sep)
	if s.RunID == "" {
		fmt.Println("  No active run.")
		fmt.Println(sep)
		return
	}
	fmt.Printf("  Run:        %s\n", s.RunID)
	fmt.Printf("  Status:     %s\n", s.Status)
	if s.Status == runstate.StatusRunning || s.Status == runstate.StatusPaused {
		fmt.Printf("  Phase:      %s\n", s.Phase)
		if s.Step != "" {
			fmt.Printf("  Step:       %s\n", s.Step)
		}
	}
	fmt.Printf("  Orders:     %d/%d loaded\n", s.Progress.OrdersLoaded, s.Progress.OrdersTotal)
	if s.Progress.UnavailableItems > 0 {
		fmt.Printf("  Missing:    %d item(s) unavailable\n", s.Progress.UnavailableItems)
	}
	if s.Progress.SlotsFound > 0 {
		fmt.Printf("  Slots:      %d found\n", s.Progress.SlotsFound)
	}
	if s.Error != nil {
		fmt.Printf("  Error:      [%s] %s (recoverable: %v, count: %d)\n",
			s.Error.Code, s.Error.Message, s.Error.Recoverable, s.ErrorCount)
	}
	fmt.Printf("  Started:    %s\n", s.StartedAt)
	fmt.Printf("  Updated:    %s\n", s.LastUpdated)
	fmt.Println(sep)
}

// PrintReviewBanner summarizes the finalized review pack.
func PrintReviewBanner(p *review.Pack) {
	sep := successColor(separator)
	fmt.Println(sep)
	fmt.Println(successColor("  ✓ Cart ready for review"))
	fmt.Println(sep)
	fmt.Printf("  Added:        %d\n", p.Diff.Summary.AddedCount)
	fmt.Printf("  Removed:      %d\n", p.Diff.Summary.RemovedCount)
	fmt.Printf("  Unavailable:  %d\n", p.Diff.Summary.UnavailableCount)
	fmt.Printf("  Price diff:   %+.2f€\n", p.Diff.Summary.PriceDifference)
	fmt.Printf("  Substitutes:  %d proposed\n", len(p.Substitutions))
	if len(p.Recommendations.Top) > 0 {
		fmt.Println("  Top slots:")
		for _, s := range p.Recommendations.Top {
			fee := "free"
			if !s.IsFree && s.Fee > 0 {
				fee = fmt.Sprintf("%.2f€", s.Fee)
			}
			fmt.Printf("    - %s %s-%s (%s, score %.0f)\n", s.Date, s.TimeStart, s.TimeEnd, fee, s.Score)
		}
	} else {
		fmt.Println("  Top slots:    none available")
	}
	if p.Confidence.RequiresUserAttention {
		fmt.Println(warnColor("  ⚠ Needs a close look:"))
		for _, note := range p.Confidence.Notes {
			fmt.Printf("    - %s\n", note)
		}
	}
	fmt.Println(sep)
	fmt.Println("  Approve with: cart-copilot --approve")
	fmt.Println(sep)
}

// PrintInterruptedBanner displays the interruption banner with resume hint.
func PrintInterruptedBanner(s runstate.RunState) {
	sep := warnColor(separator)
	fmt.Println(sep)
	fmt.Println(warnColor("  ⚠ Run interrupted"))
	fmt.Printf("  Phase:      %s\n", s.Phase)
	if s.Step != "" {
		fmt.Printf("  Step:       %s\n", s.Step)
	}
	fmt.Println("  State saved. Resume with: cart-copilot --resume")
	fmt.Println(sep)
}

// PrintErrorBanner displays the paused-on-error banner.
func PrintErrorBanner(s runstate.RunState) {
	sep := errorColor(separator)
	fmt.Println(sep)
	fmt.Println(errorColor("  ✗ Run paused on error"))
	if s.Error != nil {
		fmt.Printf("  Error:      [%s] %s\n", s.Error.Code, s.Error.Message)
		if s.Error.Recoverable && runstate.CanRetry(s) {
			fmt.Println("  Recoverable. Resume with: cart-copilot --resume")
		} else {
			fmt.Println("  Not recoverable. Cancel with: cart-copilot --cancel")
		}
	}
	fmt.Println(sep)
}
