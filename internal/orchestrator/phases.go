package orchestrator

import (
	"fmt"
	"sort"

	"context"

	"github.com/raulfermoselle/ai-shopping-copilot-sub007/internal/cartdiff"
	"github.com/raulfermoselle/ai-shopping-copilot-sub007/internal/extraction"
	"github.com/raulfermoselle/ai-shopping-copilot-sub007/internal/logging"
	"github.com/raulfermoselle/ai-shopping-copilot-sub007/internal/review"
	"github.com/raulfermoselle/ai-shopping-copilot-sub007/internal/runstate"
	"github.com/raulfermoselle/ai-shopping-copilot-sub007/internal/slots"
	"github.com/raulfermoselle/ai-shopping-copilot-sub007/internal/substitute"
)

// phaseInitialize verifies the target surface and the session before any
// cart mutation is attempted.
func (o *Orchestrator) phaseInitialize(ctx context.Context) error {
	logging.Phase("Initializing run")

	if o.Config.ExpectedHost != "" {
		pctx, cancel := o.portCtx(ctx)
		err := o.Tabs.VerifySite(pctx, o.state.TabID, o.Config.ExpectedHost)
		cancel()
		if err != nil {
			return fmt.Errorf("verify site: %w", err)
		}
	}

	o.dispatch(runstate.StepUpdate{Step: "check-login", At: now()})

	pctx, cancel := o.portCtx(ctx)
	login, err := o.Messenger.CheckLogin(pctx)
	cancel()
	if err != nil {
		return fmt.Errorf("check login: %w", err)
	}
	if !login.LoggedIn {
		return extraction.ErrNotLoggedIn
	}

	logging.Debug(fmt.Sprintf("Session authenticated as %s", login.Account))
	return nil
}

// runOrders returns the orders the run rebuilds from, oldest first. In
// single-order mode the list is exactly the requested order; the detail
// extraction validates it exists.
func (o *Orchestrator) runOrders(ctx context.Context) ([]extraction.OrderSummary, error) {
	if o.state.OrderID != "" {
		return []extraction.OrderSummary{{OrderID: o.state.OrderID}}, nil
	}

	pctx, cancel := o.portCtx(ctx)
	orders, err := o.Messenger.ExtractOrderHistory(pctx, o.Config.MaxOrders)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("extract order history: %w", err)
	}

	// Oldest first: later orders win on overlapping items when merging.
	sort.SliceStable(orders, func(i, j int) bool {
		if orders[i].Date != orders[j].Date {
			return orders[i].Date < orders[j].Date
		}
		return orders[i].OrderID < orders[j].OrderID
	})
	return orders, nil
}

// phaseCart reconstructs the cart from the most recent orders and computes
// the diff against their concatenated lines. The whole phase is idempotent:
// the first reorder replaces the cart, so re-running after a failure never
// piles up duplicates.
func (o *Orchestrator) phaseCart(ctx context.Context) error {
	if o.state.OrderID != "" {
		logging.Phase(fmt.Sprintf("Rebuilding cart from order %s", o.state.OrderID))
	} else {
		logging.Phase("Rebuilding cart from order history")
	}
	o.dispatch(runstate.StepUpdate{Step: runstate.FirstStep(runstate.PhaseCart), At: now()})

	orders, err := o.runOrders(ctx)
	if err != nil {
		return err
	}

	o.run.Orders = orders
	o.run.OriginalLines = nil
	o.run.OriginalTotal = 0

	progress := o.state.Progress
	progress.OrdersTotal = len(orders)
	progress.OrdersLoaded = 0
	o.dispatch(runstate.ProgressUpdate{Progress: progress, At: now()})

	for i, order := range orders {
		pctx, cancel := o.portCtx(ctx)
		lines, err := o.Messenger.ExtractOrderDetail(pctx, order.OrderID)
		cancel()
		if err != nil {
			return fmt.Errorf("extract order %s: %w", order.OrderID, err)
		}
		o.run.OriginalLines = append(o.run.OriginalLines, lines...)
		for _, line := range lines {
			o.run.OriginalTotal += float64(line.Quantity) * line.UnitPrice
		}

		mode := extraction.ModeMerge
		if i == 0 {
			mode = extraction.ModeReplace
		}
		pctx, cancel = o.portCtx(ctx)
		result, err := o.Messenger.Reorder(pctx, order.OrderID, mode)
		cancel()
		if err != nil {
			return fmt.Errorf("reorder %s (%s): %w", order.OrderID, mode, err)
		}
		logging.Step(fmt.Sprintf("Reordered %s (%s): %d added, %d merged",
			order.OrderID, result.Mode, result.ItemsAdded, result.ItemsMerged))

		// Reordering navigates the tab; the next extraction must not race
		// the page load.
		pctx, cancel = o.portCtx(ctx)
		err = o.Tabs.WaitForNavigation(pctx, o.state.TabID)
		cancel()
		if err != nil {
			return fmt.Errorf("wait for navigation after reorder %s: %w", order.OrderID, err)
		}

		o.dispatch(runstate.StepUpdate{Step: fmt.Sprintf("reorder %d/%d", i+1, len(orders)), At: now()})
		progress = o.state.Progress
		progress.OrdersLoaded = i + 1
		o.dispatch(runstate.ProgressUpdate{Progress: progress, At: now()})
	}

	o.dispatch(runstate.StepUpdate{Step: "scan-cart", At: now()})
	if err := o.rebuildCartView(ctx); err != nil {
		return err
	}

	progress = o.state.Progress
	progress.ItemsTotal = len(o.run.OriginalLines)
	progress.ItemsProcessed = len(o.run.OriginalLines)
	progress.UnavailableItems = o.run.Diff.Summary.UnavailableCount
	o.dispatch(runstate.ProgressUpdate{Progress: progress, At: now()})

	logging.Info(fmt.Sprintf("Cart diff: %d added, %d removed, %d unavailable, %.2f€ difference",
		o.run.Diff.Summary.AddedCount, o.run.Diff.Summary.RemovedCount,
		o.run.Diff.Summary.UnavailableCount, o.run.Diff.Summary.PriceDifference))
	return nil
}

// rebuildCartView snapshots the live cart and recomputes the diff. It is
// also used on resume/recovery to rehydrate the transient context without
// repeating the reorders.
func (o *Orchestrator) rebuildCartView(ctx context.Context) error {
	if len(o.run.OriginalLines) == 0 {
		orders, err := o.runOrders(ctx)
		if err != nil {
			return err
		}
		o.run.Orders = orders
		for _, order := range orders {
			pctx, cancel := o.portCtx(ctx)
			lines, err := o.Messenger.ExtractOrderDetail(pctx, order.OrderID)
			cancel()
			if err != nil {
				return fmt.Errorf("extract order %s: %w", order.OrderID, err)
			}
			o.run.OriginalLines = append(o.run.OriginalLines, lines...)
			for _, line := range lines {
				o.run.OriginalTotal += float64(line.Quantity) * line.UnitPrice
			}
		}
	}

	pctx, cancel := o.portCtx(ctx)
	items, err := o.Messenger.ScanCart(pctx)
	cancel()
	if err != nil {
		return fmt.Errorf("scan cart: %w", err)
	}

	o.run.Cart = items
	if o.run.Cart == nil {
		o.run.Cart = []cartdiff.CartItem{}
	}
	o.run.Diff = cartdiff.ComputeDiff(o.run.OriginalLines, items)
	return nil
}

// phaseSubstitution consults the advisor for each item that went
// unavailable. The advisor is advisory only: when it is missing or fails,
// the phase degrades to an empty proposal list instead of failing the run.
func (o *Orchestrator) phaseSubstitution(ctx context.Context) error {
	logging.Phase("Proposing substitutes for unavailable items")
	return o.collectSubstitutes(ctx)
}

// collectSubstitutes fills the proposal list from the advisor. It is also
// used on resume/recovery past the substitution phase, where the proposals
// were lost with the rest of the transient context.
func (o *Orchestrator) collectSubstitutes(ctx context.Context) error {
	unavailable := o.run.Diff.NowUnavailable
	o.run.Proposals = nil

	if len(unavailable) == 0 {
		logging.Info("No unavailable items, skipping substitution")
		return nil
	}
	if o.Advisor == nil {
		logging.Info("No substitution advisor configured, skipping")
		return nil
	}

	pctx, cancel := o.portCtx(ctx)
	proposals, err := o.Advisor.Suggest(pctx, unavailable, o.run.Cart)
	cancel()
	if err != nil {
		logging.Warn(fmt.Sprintf("Substitution advisor unavailable: %v", err))
		return nil
	}
	substitute.SortByConfidence(proposals)
	o.run.Proposals = proposals

	progress := o.state.Progress
	progress.SubstitutesProposed = len(proposals)
	o.dispatch(runstate.ProgressUpdate{Progress: progress, At: now()})

	logging.Info(fmt.Sprintf("Proposed %d substitute(s) for %d unavailable item(s)", len(proposals), len(unavailable)))
	return nil
}

// phaseSlots extracts the offered delivery slots and ranks them against the
// user preferences.
func (o *Orchestrator) phaseSlots(ctx context.Context) error {
	logging.Phase("Scoring delivery slots")
	return o.collectSlots(ctx)
}

func (o *Orchestrator) collectSlots(ctx context.Context) error {
	pctx, cancel := o.portCtx(ctx)
	raw, err := o.Messenger.ExtractSlots(pctx)
	cancel()
	if err != nil {
		return fmt.Errorf("extract slots: %w", err)
	}

	o.run.Scored = slots.ScoreSlots(raw, o.Prefs)
	o.run.Recommendations = slots.RecommendSlots(o.run.Scored)

	progress := o.state.Progress
	progress.SlotsFound = len(raw)
	o.dispatch(runstate.ProgressUpdate{Progress: progress, At: now()})

	logging.Info(fmt.Sprintf("Scored %d slot(s)", len(raw)))
	return nil
}

// phaseFinalize assembles the review pack and persists it beside the run
// state. Completing this phase is what moves the run into review.
func (o *Orchestrator) phaseFinalize(ctx context.Context) error {
	logging.Phase("Assembling review pack")

	thresholds := review.Thresholds{PriceTolerancePct: o.Config.PriceTolerancePct}
	pack := &review.Pack{
		RunID:           o.run.RunID,
		GeneratedAt:     now(),
		Diff:            o.run.Diff,
		Substitutions:   o.run.Proposals,
		Slots:           o.run.Scored,
		Recommendations: o.run.Recommendations,
		Confidence:      review.ComputeConfidence(o.run.Diff, o.run.Proposals, o.run.Scored, o.run.OriginalTotal, thresholds),
	}

	// Clearing the step marks the pack as assembled (the PackReady guard).
	o.dispatch(runstate.StepUpdate{Step: "", At: now()})

	if err := o.Store.SaveReviewPack(pack); err != nil {
		return fmt.Errorf("persist review pack: %w", err)
	}
	return nil
}
