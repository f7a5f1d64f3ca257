package orchestrator_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raulfermoselle/ai-shopping-copilot-sub007/internal/browser"
	"github.com/raulfermoselle/ai-shopping-copilot-sub007/internal/cartdiff"
	"github.com/raulfermoselle/ai-shopping-copilot-sub007/internal/config"
	"github.com/raulfermoselle/ai-shopping-copilot-sub007/internal/extraction"
	"github.com/raulfermoselle/ai-shopping-copilot-sub007/internal/orchestrator"
	"github.com/raulfermoselle/ai-shopping-copilot-sub007/internal/runstate"
	"github.com/raulfermoselle/ai-shopping-copilot-sub007/internal/slots"
	"github.com/raulfermoselle/ai-shopping-copilot-sub007/internal/store"
	"github.com/raulfermoselle/ai-shopping-copilot-sub007/internal/substitute"
)

// fakeMessenger scripts the extraction port. Zero value: logged in, no
// orders, empty cart, no slots.
type fakeMessenger struct {
	loggedIn    bool
	loginErr    error
	orders      []extraction.OrderSummary
	details     map[string][]cartdiff.OrderLine
	detailErr   error
	cart        []cartdiff.CartItem
	scanErr     error
	slots       []slots.DeliverySlot
	slotsErr    error
	reorderErr  error
	reorders    []reorderCall
	historyErrs []error // consumed one per call, nil entries succeed
	historyCall int
}

type reorderCall struct {
	OrderID string
	Mode    extraction.ReorderMode
}

func (f *fakeMessenger) CheckLogin(ctx context.Context) (extraction.LoginStatus, error) {
	if f.loginErr != nil {
		return extraction.LoginStatus{}, f.loginErr
	}
	return extraction.LoginStatus{LoggedIn: f.loggedIn, Account: "test@example.com"}, nil
}

func (f *fakeMessenger) ExtractOrderHistory(ctx context.Context, limit int) ([]extraction.OrderSummary, error) {
	call := f.historyCall
	f.historyCall++
	if call < len(f.historyErrs) && f.historyErrs[call] != nil {
		return nil, f.historyErrs[call]
	}
	if limit < len(f.orders) {
		return f.orders[:limit], nil
	}
	return f.orders, nil
}

func (f *fakeMessenger) ExtractOrderDetail(ctx context.Context, orderID string) ([]cartdiff.OrderLine, error) {
	if f.detailErr != nil {
		return nil, f.detailErr
	}
	return f.details[orderID], nil
}

func (f *fakeMessenger) Reorder(ctx context.Context, orderID string, mode extraction.ReorderMode) (extraction.ReorderResult, error) {
	if f.reorderErr != nil {
		return extraction.ReorderResult{}, f.reorderErr
	}
	f.reorders = append(f.reorders, reorderCall{OrderID: orderID, Mode: mode})
	return extraction.ReorderResult{OrderID: orderID, Mode: mode, ItemsAdded: len(f.details[orderID])}, nil
}

func (f *fakeMessenger) ScanCart(ctx context.Context) ([]cartdiff.CartItem, error) {
	if f.scanErr != nil {
		return nil, f.scanErr
	}
	return f.cart, nil
}

func (f *fakeMessenger) ExtractSlots(ctx context.Context) ([]slots.DeliverySlot, error) {
	if f.slotsErr != nil {
		return nil, f.slotsErr
	}
	return f.slots, nil
}

// fakeTabs is a no-op browser-control port that counts navigation waits.
type fakeTabs struct {
	verifyErr error
	navErr    error
	navWaits  int
}

func (f *fakeTabs) ActiveTab(ctx context.Context) (browser.TabInfo, error) {
	return browser.TabInfo{ID: 42, URL: "https://groceries.example/cart"}, nil
}

func (f *fakeTabs) VerifySite(ctx context.Context, tabID int, host string) error {
	return f.verifyErr
}

func (f *fakeTabs) WaitForNavigation(ctx context.Context, tabID int) error {
	f.navWaits++
	return f.navErr
}

// happyMessenger scripts a three-order history with one item gone
// unavailable in the live cart.
func happyMessenger() *fakeMessenger {
	return &fakeMessenger{
		loggedIn: true,
		orders: []extraction.OrderSummary{
			{OrderID: "ord-3", Date: "2026-01-15", ItemCount: 1, Total: 2.50},
			{OrderID: "ord-1", Date: "2026-01-05", ItemCount: 1, Total: 0.89},
			{OrderID: "ord-2", Date: "2026-01-10", ItemCount: 1, Total: 1.10},
		},
		details: map[string][]cartdiff.OrderLine{
			"ord-1": {{ProductID: "milk", Name: "Whole Milk 1L", Quantity: 1, UnitPrice: 0.89}},
			"ord-2": {{ProductID: "bread", Name: "Rye Bread", Quantity: 1, UnitPrice: 1.10}},
			"ord-3": {{ProductID: "eggs", Name: "Free Range Eggs", Quantity: 1, UnitPrice: 2.50}},
		},
		cart: []cartdiff.CartItem{
			{ProductID: "milk", Name: "Whole Milk 1L", Quantity: 1, UnitPrice: 0.89, Availability: cartdiff.Available},
			{ProductID: "bread", Name: "Rye Bread", Quantity: 0, UnitPrice: 1.10, Availability: cartdiff.OutOfStock},
			{ProductID: "eggs", Name: "Free Range Eggs", Quantity: 1, UnitPrice: 2.50, Availability: cartdiff.Available},
		},
		slots: []slots.DeliverySlot{
			{ID: "s1", Date: "2026-01-20", DayOfWeek: "tuesday", TimeStart: "18:00", TimeEnd: "20:00", IsFree: true, Available: true},
			{ID: "s2", Date: "2026-01-21", DayOfWeek: "wednesday", TimeStart: "08:00", TimeEnd: "10:00", Fee: 4, Available: true},
		},
	}
}

func newTestOrchestrator(t *testing.T, m extraction.Messenger) *orchestrator.Orchestrator {
	t.Helper()
	cfg := config.NewDefaultConfig()
	cfg.StateDir = t.TempDir()

	st, err := store.NewFileStore(cfg.StateDir)
	require.NoError(t, err)

	o := orchestrator.New(cfg, st, m, &fakeTabs{})
	o.Advisor = &substitute.Heuristic{}
	return o
}

// ---------------------------------------------------------------------------
// Happy path
// ---------------------------------------------------------------------------

func TestRunEndsInReview(t *testing.T) {
	m := happyMessenger()
	o := newTestOrchestrator(t, m)

	require.NoError(t, o.StartRun(context.Background(), 42, ""))

	st := o.State()
	assert.Equal(t, runstate.StatusReview, st.Status)
	assert.Empty(t, st.Step)
	assert.Equal(t, 0, st.ErrorCount)
	assert.Equal(t, 3, st.Progress.OrdersLoaded)
	assert.Equal(t, 1, st.Progress.UnavailableItems)
	assert.Equal(t, 2, st.Progress.SlotsFound)

	pack, found, err := o.Store.LoadReviewPack()
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, st.RunID, pack.RunID)
	assert.Equal(t, 1, pack.Diff.Summary.UnavailableCount)
	assert.NotEmpty(t, pack.Slots)
	assert.True(t, pack.Confidence.RequiresUserAttention, "an unavailable item needs a look")
}

func TestReordersOldestFirstReplaceThenMerge(t *testing.T) {
	m := happyMessenger()
	o := newTestOrchestrator(t, m)

	require.NoError(t, o.StartRun(context.Background(), 42, ""))

	require.Len(t, m.reorders, 3)
	assert.Equal(t, "ord-1", m.reorders[0].OrderID, "oldest order goes first")
	assert.Equal(t, extraction.ModeReplace, m.reorders[0].Mode, "first reorder replaces the cart for idempotency")
	assert.Equal(t, "ord-2", m.reorders[1].OrderID)
	assert.Equal(t, extraction.ModeMerge, m.reorders[1].Mode)
	assert.Equal(t, "ord-3", m.reorders[2].OrderID)
	assert.Equal(t, extraction.ModeMerge, m.reorders[2].Mode)
}

func TestSingleOrderRunReordersOnlyThatOrder(t *testing.T) {
	m := happyMessenger()
	o := newTestOrchestrator(t, m)

	require.NoError(t, o.StartRun(context.Background(), 42, "ord-2"))

	st := o.State()
	assert.Equal(t, runstate.StatusReview, st.Status)
	assert.Equal(t, 1, st.Progress.OrdersTotal)
	assert.Equal(t, 1, st.Progress.OrdersLoaded)

	require.Len(t, m.reorders, 1)
	assert.Equal(t, "ord-2", m.reorders[0].OrderID)
	assert.Equal(t, extraction.ModeReplace, m.reorders[0].Mode)
	assert.Equal(t, 0, m.historyCall, "single-order mode does not scan the history")

	pack, found, err := o.Store.LoadReviewPack()
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 1, pack.Diff.Summary.UnavailableCount, "the rye bread is gone in the live cart")
}

func TestStartRunAfterApproveBeginsNewRun(t *testing.T) {
	m := happyMessenger()
	o := newTestOrchestrator(t, m)

	require.NoError(t, o.StartRun(context.Background(), 42, ""))
	require.Equal(t, runstate.StatusReview, o.State().Status)
	require.NoError(t, o.ApproveCart())
	require.Equal(t, runstate.StatusComplete, o.State().Status)
	firstRun := o.State().RunID

	require.NoError(t, o.StartRun(context.Background(), 42, ""))

	st := o.State()
	assert.Equal(t, runstate.StatusReview, st.Status)
	assert.NotEqual(t, firstRun, st.RunID, "the completed run is superseded, not resumed")
}

func TestReorderWaitsForNavigation(t *testing.T) {
	m := happyMessenger()
	o := newTestOrchestrator(t, m)
	tabs := &fakeTabs{}
	o.Tabs = tabs

	require.NoError(t, o.StartRun(context.Background(), 42, ""))

	require.Equal(t, runstate.StatusReview, o.State().Status)
	assert.Equal(t, 3, tabs.navWaits, "one navigation wait per reorder")
}

func TestNavigationTimeoutPausesRun(t *testing.T) {
	m := happyMessenger()
	o := newTestOrchestrator(t, m)
	o.Tabs = &fakeTabs{navErr: fmt.Errorf("tab load: %w", context.DeadlineExceeded)}

	require.NoError(t, o.StartRun(context.Background(), 42, ""))

	st := o.State()
	assert.Equal(t, runstate.StatusPaused, st.Status)
	assert.Equal(t, runstate.PhaseCart, st.Phase)
	require.NotNil(t, st.Error)
	assert.Equal(t, runstate.ErrorNetwork, st.Error.Code)
}

func TestStartRunRejectedWhileActive(t *testing.T) {
	m := happyMessenger()
	o := newTestOrchestrator(t, m)

	require.NoError(t, o.StartRun(context.Background(), 42, ""))
	require.Equal(t, runstate.StatusReview, o.State().Status)

	err := o.StartRun(context.Background(), 42, "")
	assert.ErrorIs(t, err, orchestrator.ErrRunActive)
}

// ---------------------------------------------------------------------------
// Failures
// ---------------------------------------------------------------------------

func TestAuthFailurePausesNonRecoverable(t *testing.T) {
	m := happyMessenger()
	m.loggedIn = false
	o := newTestOrchestrator(t, m)

	require.NoError(t, o.StartRun(context.Background(), 42, ""))

	st := o.State()
	assert.Equal(t, runstate.StatusPaused, st.Status)
	assert.Equal(t, runstate.PhaseInitializing, st.Phase)
	require.NotNil(t, st.Error)
	assert.Equal(t, runstate.ErrorAuth, st.Error.Code)
	assert.False(t, st.Error.Recoverable)
	assert.False(t, runstate.CanRetry(st))

	err := o.ResumeRun(context.Background())
	assert.ErrorIs(t, err, orchestrator.ErrCannotResume)
}

func TestNetworkFailurePausesThenResumes(t *testing.T) {
	m := happyMessenger()
	m.historyErrs = []error{fmt.Errorf("history: %w", context.DeadlineExceeded)}
	o := newTestOrchestrator(t, m)

	require.NoError(t, o.StartRun(context.Background(), 42, ""))

	st := o.State()
	require.Equal(t, runstate.StatusPaused, st.Status)
	require.NotNil(t, st.Error)
	assert.Equal(t, runstate.ErrorNetwork, st.Error.Code)
	assert.True(t, st.Error.Recoverable)
	assert.Equal(t, 1, st.ErrorCount)
	assert.Equal(t, runstate.PhaseCart, st.Phase, "run resumes in the failed phase")

	require.NoError(t, o.ResumeRun(context.Background()))

	st = o.State()
	assert.Equal(t, runstate.StatusReview, st.Status)
	assert.Equal(t, 0, st.ErrorCount, "phase completion resets the counter")
}

func TestErrorStatePersisted(t *testing.T) {
	m := happyMessenger()
	m.loggedIn = false
	o := newTestOrchestrator(t, m)

	require.NoError(t, o.StartRun(context.Background(), 42, ""))

	persisted, found, err := o.Store.LoadState()
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, runstate.StatusPaused, persisted.Status)
	require.NotNil(t, persisted.Error)
	assert.Equal(t, runstate.ErrorAuth, persisted.Error.Code)
}

// ---------------------------------------------------------------------------
// Cancel / approve
// ---------------------------------------------------------------------------

func TestCancelResetsToIdle(t *testing.T) {
	m := happyMessenger()
	o := newTestOrchestrator(t, m)

	require.NoError(t, o.StartRun(context.Background(), 42, ""))
	require.Equal(t, runstate.StatusReview, o.State().Status)

	o.CancelRun()

	st := o.State()
	assert.Equal(t, runstate.StatusIdle, st.Status)
	assert.Empty(t, st.RunID)
	assert.Nil(t, o.Run())
}

func TestApproveCompletesOnlyFromReview(t *testing.T) {
	m := happyMessenger()
	o := newTestOrchestrator(t, m)

	assert.ErrorIs(t, o.ApproveCart(), orchestrator.ErrNotInReview)

	require.NoError(t, o.StartRun(context.Background(), 42, ""))
	require.Equal(t, runstate.StatusReview, o.State().Status)

	require.NoError(t, o.ApproveCart())
	assert.Equal(t, runstate.StatusComplete, o.State().Status)
}

// ---------------------------------------------------------------------------
// Recovery
// ---------------------------------------------------------------------------

func TestRecoverResumesMidRunWithoutRestart(t *testing.T) {
	m := happyMessenger()
	o := newTestOrchestrator(t, m)

	// Simulate a process that died while the cart phase was in flight.
	crashed := runstate.Reduce(runstate.NewIdleState(), runstate.StartRun{RunID: "run-x", TabID: 42, At: "2026-01-15T10:00:00Z"})
	crashed = runstate.Reduce(crashed, runstate.PhaseComplete{Phase: runstate.PhaseInitializing, At: "2026-01-15T10:00:01Z"})
	require.Equal(t, runstate.PhaseCart, crashed.Phase)
	require.NoError(t, o.Store.SaveState(crashed))

	require.NoError(t, o.Recover(context.Background()))

	st := o.State()
	assert.False(t, st.RecoveryNeeded)
	assert.Equal(t, "run-x", st.RunID, "recovery keeps the run, it does not restart it")
	assert.Equal(t, runstate.StatusReview, st.Status, "re-entered the cart phase and ran to review")
}

func TestRecoverIntoFinalizingReproposesSubstitutes(t *testing.T) {
	m := happyMessenger()
	m.cart = append(m.cart, cartdiff.CartItem{
		ProductID: "bread-2", Name: "Rye Bread Sliced", Quantity: 1, UnitPrice: 1.20,
		Availability: cartdiff.Available,
	})
	o := newTestOrchestrator(t, m)

	// Simulate a process that died after the slots phase completed.
	crashed := runstate.Reduce(runstate.NewIdleState(), runstate.StartRun{RunID: "run-x", TabID: 42, At: "2026-01-15T10:00:00Z"})
	for _, phase := range []runstate.Phase{
		runstate.PhaseInitializing, runstate.PhaseCart, runstate.PhaseSubstitution, runstate.PhaseSlots,
	} {
		crashed = runstate.Reduce(crashed, runstate.PhaseComplete{Phase: phase, At: "2026-01-15T10:00:01Z"})
	}
	require.Equal(t, runstate.PhaseFinalizing, crashed.Phase)
	require.NoError(t, o.Store.SaveState(crashed))

	require.NoError(t, o.Recover(context.Background()))
	require.Equal(t, runstate.StatusReview, o.State().Status)

	pack, found, err := o.Store.LoadReviewPack()
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, pack.Substitutions, 1, "substitutes are re-proposed after the crash")
	assert.Equal(t, "bread", pack.Substitutions[0].For.ProductID)
	assert.Equal(t, "bread-2", pack.Substitutions[0].Candidate.ProductID)
}

func TestRecoverNoopWithoutPersistedRun(t *testing.T) {
	m := happyMessenger()
	o := newTestOrchestrator(t, m)

	require.NoError(t, o.Recover(context.Background()))
	assert.Equal(t, runstate.StatusIdle, o.State().Status)
}

func TestRecoverLeavesPausedRunPaused(t *testing.T) {
	m := happyMessenger()
	o := newTestOrchestrator(t, m)

	paused := runstate.Reduce(runstate.NewIdleState(), runstate.StartRun{RunID: "run-x", TabID: 42, At: "2026-01-15T10:00:00Z"})
	paused = runstate.Reduce(paused, runstate.ErrorOccurred{
		Err: runstate.RunError{Code: runstate.ErrorNetwork, Message: "timeout", Recoverable: true},
		At:  "2026-01-15T10:00:02Z",
	})
	require.NoError(t, o.Store.SaveState(paused))

	require.NoError(t, o.Recover(context.Background()))
	assert.Equal(t, runstate.StatusPaused, o.State().Status, "a paused run waits for an explicit resume")
}

// ---------------------------------------------------------------------------
// Substitution degradation
// ---------------------------------------------------------------------------

type failingAdvisor struct{}

func (failingAdvisor) Suggest(ctx context.Context, unavailable, candidates []cartdiff.CartItem) ([]substitute.Proposal, error) {
	return nil, fmt.Errorf("ranking backend offline")
}

func TestAdvisorFailureDoesNotFailRun(t *testing.T) {
	m := happyMessenger()
	o := newTestOrchestrator(t, m)
	o.Advisor = failingAdvisor{}

	require.NoError(t, o.StartRun(context.Background(), 42, ""))

	st := o.State()
	assert.Equal(t, runstate.StatusReview, st.Status)
	assert.Equal(t, 0, st.Progress.SubstitutesProposed)
}

func TestNilAdvisorSkipsSubstitution(t *testing.T) {
	m := happyMessenger()
	o := newTestOrchestrator(t, m)
	o.Advisor = nil

	require.NoError(t, o.StartRun(context.Background(), 42, ""))
	assert.Equal(t, runstate.StatusReview, o.State().Status)
}
