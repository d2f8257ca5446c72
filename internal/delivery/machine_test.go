package delivery

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/zarpadomueble-ops/storefront-gateway/pkg/errors"
	"github.com/zarpadomueble-ops/storefront-gateway/pkg/storeapi"
)

const testDebounce = 10 * time.Millisecond

type quoteResult struct {
	quote *storeapi.Quote
	err   error
}

type quoteCall struct {
	req   storeapi.QuoteRequest
	reply chan quoteResult
}

// blockingQuoter parks every request until the test releases it, so tests
// control both concurrency and resolution order.
type blockingQuoter struct {
	calls chan *quoteCall
}

func newBlockingQuoter() *blockingQuoter {
	return &blockingQuoter{calls: make(chan *quoteCall, 16)}
}

func (q *blockingQuoter) DeliveryQuote(_ context.Context, req storeapi.QuoteRequest) (*storeapi.Quote, error) {
	call := &quoteCall{req: req, reply: make(chan quoteResult, 1)}
	q.calls <- call
	result := <-call.reply
	return result.quote, result.err
}

func (q *blockingQuoter) next(t *testing.T) *quoteCall {
	t.Helper()
	select {
	case call := <-q.calls:
		return call
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a quote request")
		return nil
	}
}

func (q *blockingQuoter) assertNoCall(t *testing.T, within time.Duration) {
	t.Helper()
	select {
	case call := <-q.calls:
		t.Fatalf("unexpected quote request for CP %s", call.req.PostalCode)
	case <-time.After(within):
	}
}

// countingQuoter answers immediately and remembers every request.
type countingQuoter struct {
	mu       sync.Mutex
	requests []storeapi.QuoteRequest
	quote    storeapi.Quote
}

func (q *countingQuoter) DeliveryQuote(_ context.Context, req storeapi.QuoteRequest) (*storeapi.Quote, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.requests = append(q.requests, req)
	quote := q.quote
	return &quote, nil
}

func (q *countingQuoter) count() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.requests)
}

func newTestMachine(t *testing.T, quoter Quoter) *Machine {
	t.Helper()
	machine, err := NewMachine(MachineParams{
		Quoter:               quoter,
		Debounce:             testDebounce,
		InstallationBaseCost: 200000,
	})
	require.NoError(t, err)
	t.Cleanup(machine.Close)
	return machine
}

func waitReady(t *testing.T, m *Machine) State {
	t.Helper()
	require.Eventually(t, func() bool {
		s := m.Snapshot()
		return !s.ShippingLoading && (s.ShippingReady || s.ShippingError != "")
	}, 2*time.Second, 2*time.Millisecond)
	return m.Snapshot()
}

func TestQuoteLifecycle(t *testing.T) {
	quoter := &countingQuoter{quote: storeapi.Quote{
		ShippingCost:          18000,
		ShippingLabel:         "Envío a Moreno",
		InstallationAvailable: true,
	}}
	machine := newTestMachine(t, quoter)
	ctx := context.Background()

	machine.Dispatch(ctx, CartChanged{
		Items:     []storeapi.QuoteItem{{ID: 1, Quantity: 2, UnitPrice: 10000}},
		Signature: "1:2",
	})
	machine.Dispatch(ctx, SetPostalCode{Raw: "1712"})

	state := waitReady(t, machine)
	assert.True(t, state.ShippingReady)
	assert.Equal(t, "Envío a Moreno", state.ShippingLabel)
	assert.EqualValues(t, 18000, state.ShippingCost)
	assert.True(t, state.InstallationAvailable)
	assert.Empty(t, state.ShippingError)

	require.Equal(t, 1, quoter.count())
	req := quoter.requests[0]
	assert.Equal(t, "1712", req.PostalCode)
	require.Len(t, req.Items, 1)
	assert.Equal(t, 1, req.Items[0].ID)
}

func TestDebounceCoalescesKeystrokes(t *testing.T) {
	quoter := &countingQuoter{quote: storeapi.Quote{ShippingCost: 9000}}
	machine := newTestMachine(t, quoter)
	ctx := context.Background()

	// Five rapid edits: partial values cancel, complete values re-arm.
	for _, keystroke := range []string{"1", "17", "171", "1712", "1713"} {
		machine.Dispatch(ctx, SetPostalCode{Raw: keystroke})
	}

	state := waitReady(t, machine)
	assert.True(t, state.ShippingReady)

	// Give a second request time to surface if one were armed.
	time.Sleep(4 * testDebounce)
	require.Equal(t, 1, quoter.count())
	assert.Equal(t, "1713", quoter.requests[0].PostalCode, "only the final value is quoted")
}

func TestStaleResponsesAreDropped(t *testing.T) {
	quoter := newBlockingQuoter()
	machine := newTestMachine(t, quoter)
	ctx := context.Background()

	machine.Dispatch(ctx, SetPostalCode{Raw: "1000"})
	first := quoter.next(t)
	machine.Dispatch(ctx, SetPostalCode{Raw: "1001"})
	second := quoter.next(t)
	machine.Dispatch(ctx, SetPostalCode{Raw: "1002"})
	third := quoter.next(t)

	// Resolve out of order: 3, then 1, then 2.
	third.reply <- quoteResult{quote: &storeapi.Quote{ShippingCost: 3000}}
	state := waitReady(t, machine)
	require.True(t, state.ShippingReady)
	require.EqualValues(t, 3000, state.ShippingCost)

	first.reply <- quoteResult{quote: &storeapi.Quote{ShippingCost: 1000}}
	second.reply <- quoteResult{err: apperrors.New(apperrors.CodeUpstream, "CP inválido")}

	// Neither stale payload may land.
	assert.Never(t, func() bool {
		s := machine.Snapshot()
		return s.ShippingCost != 3000 || s.ShippingError != "" || !s.ShippingReady
	}, 100*time.Millisecond, 5*time.Millisecond)
	assert.Equal(t, "1002", machine.Snapshot().PostalCode)
}

func TestSupersededResponseKeepsLoading(t *testing.T) {
	quoter := newBlockingQuoter()
	machine := newTestMachine(t, quoter)
	ctx := context.Background()

	machine.Dispatch(ctx, SetPostalCode{Raw: "1000"})
	first := quoter.next(t)
	machine.Dispatch(ctx, SetPostalCode{Raw: "1001"})
	second := quoter.next(t)

	require.True(t, machine.Snapshot().ShippingLoading)

	first.reply <- quoteResult{quote: &storeapi.Quote{ShippingCost: 1000}}
	assert.Never(t, func() bool {
		return !machine.Snapshot().ShippingLoading
	}, 100*time.Millisecond, 5*time.Millisecond, "stale response must not clear the loading flag")

	second.reply <- quoteResult{quote: &storeapi.Quote{ShippingCost: 2000}}
	state := waitReady(t, machine)
	assert.False(t, state.ShippingLoading)
	assert.EqualValues(t, 2000, state.ShippingCost)
}

func TestUpstreamErrorMessageSurfaces(t *testing.T) {
	quoter := newBlockingQuoter()
	machine := newTestMachine(t, quoter)
	ctx := context.Background()

	machine.Dispatch(ctx, SetPostalCode{Raw: "9999"})
	call := quoter.next(t)
	backendCopy := "No realizamos envíos a ese código postal por el momento."
	call.reply <- quoteResult{err: apperrors.New(apperrors.CodeUpstream, backendCopy).
		WithDetails(backendCopy)}

	state := waitReady(t, machine)
	assert.False(t, state.ShippingReady)
	assert.Equal(t, backendCopy, state.ShippingError)
}

func TestRejectionWithoutBackendCopyUsesUnsupportedMessage(t *testing.T) {
	quoter := newBlockingQuoter()
	machine, err := NewMachine(MachineParams{
		Quoter:                       quoter,
		Debounce:                     testDebounce,
		UnsupportedPostalCodeMessage: "No podemos calcular el envío automáticamente para tu CP.",
	})
	require.NoError(t, err)
	t.Cleanup(machine.Close)

	machine.Dispatch(context.Background(), SetPostalCode{Raw: "9400"})
	quoter.next(t).reply <- quoteResult{err: apperrors.New(apperrors.CodeUpstream,
		"quote request failed with status 422")}

	state := waitReady(t, machine)
	assert.Equal(t, "No podemos calcular el envío automáticamente para tu CP.", state.ShippingError)
}

func TestTimeoutUsesGenericMessage(t *testing.T) {
	quoter := newBlockingQuoter()
	machine := newTestMachine(t, quoter)
	ctx := context.Background()

	machine.Dispatch(ctx, SetPostalCode{Raw: "1712"})
	call := quoter.next(t)
	call.reply <- quoteResult{err: apperrors.New(apperrors.CodeTimeout, "context deadline exceeded")}

	state := waitReady(t, machine)
	assert.Equal(t, QuoteFailureMessage, state.ShippingError)
}

func TestQuoteRetriesAfterFailure(t *testing.T) {
	quoter := newBlockingQuoter()
	machine := newTestMachine(t, quoter)
	ctx := context.Background()

	machine.Dispatch(ctx, SetPostalCode{Raw: "9999"})
	quoter.next(t).reply <- quoteResult{err: apperrors.New(apperrors.CodeUpstream, "zona sin cobertura")}
	waitReady(t, machine)

	machine.Dispatch(ctx, SetPostalCode{Raw: "1712"})
	quoter.next(t).reply <- quoteResult{quote: &storeapi.Quote{ShippingCost: 15000}}

	state := waitReady(t, machine)
	assert.True(t, state.ShippingReady)
	assert.Empty(t, state.ShippingError)
}

func TestSwitchToPickupCancelsPendingQuote(t *testing.T) {
	quoter := newBlockingQuoter()
	machine := newTestMachine(t, quoter)
	ctx := context.Background()

	machine.Dispatch(ctx, SetPostalCode{Raw: "1712"})
	machine.Dispatch(ctx, SetMethod{Method: MethodPickup})

	quoter.assertNoCall(t, 4*testDebounce)
	assert.False(t, machine.Snapshot().ShippingLoading)
}

func TestQuoteOverridesInstallationBaseCost(t *testing.T) {
	quoter := &countingQuoter{quote: storeapi.Quote{
		ShippingCost:          12000,
		InstallationAvailable: true,
		InstallationBaseCost:  250000,
	}}
	machine := newTestMachine(t, quoter)
	ctx := context.Background()

	machine.Dispatch(ctx, SetPostalCode{Raw: "1712"})
	waitReady(t, machine)

	assert.EqualValues(t, 250000, machine.InstallationBaseCost())
}

func TestEmptyLabelGetsDefault(t *testing.T) {
	quoter := &countingQuoter{quote: storeapi.Quote{ShippingCost: 12000}}
	machine := newTestMachine(t, quoter)

	machine.Dispatch(context.Background(), SetPostalCode{Raw: "1712"})
	state := waitReady(t, machine)
	assert.Equal(t, DefaultShippingLabel, state.ShippingLabel)
}

func TestReenteringFailedPostalCodeRetries(t *testing.T) {
	quoter := newBlockingQuoter()
	machine := newTestMachine(t, quoter)
	ctx := context.Background()

	machine.Dispatch(ctx, SetPostalCode{Raw: "1712"})
	first := quoter.next(t)
	first.reply <- quoteResult{err: apperrors.Wrap(apperrors.CodeUpstream, context.DeadlineExceeded, "quote failed")}

	state := waitReady(t, machine)
	require.Equal(t, QuoteFailureMessage, state.ShippingError)

	// Typing the same CP again is the retry gesture and must fire a
	// fresh request instead of dying on the unchanged-value no-op.
	machine.Dispatch(ctx, SetPostalCode{Raw: "1712"})
	retry := quoter.next(t)
	require.Equal(t, "1712", retry.req.PostalCode)
	retry.reply <- quoteResult{quote: &storeapi.Quote{ShippingCost: 18000}}

	state = waitReady(t, machine)
	assert.True(t, state.ShippingReady)
	assert.Empty(t, state.ShippingError)
	assert.EqualValues(t, 18000, state.ShippingCost)
}

func TestQuoteForSupersededPostalCodeNeverLands(t *testing.T) {
	quoter := newBlockingQuoter()
	machine, err := NewMachine(MachineParams{
		Quoter:   quoter,
		Debounce: 150 * time.Millisecond,
	})
	require.NoError(t, err)
	t.Cleanup(machine.Close)
	ctx := context.Background()

	machine.Dispatch(ctx, SetPostalCode{Raw: "1712"})
	stale := quoter.next(t)

	// The CP changes while the first request is still in flight. Its
	// response now prices the wrong destination and must be dropped even
	// though the replacement request has not fired yet.
	machine.Dispatch(ctx, SetPostalCode{Raw: "1800"})
	stale.reply <- quoteResult{quote: &storeapi.Quote{ShippingCost: 9999}}

	assert.Never(t, func() bool {
		s := machine.Snapshot()
		return s.ShippingReady || s.ShippingCost == 9999
	}, 80*time.Millisecond, 5*time.Millisecond)

	replacement := quoter.next(t)
	require.Equal(t, "1800", replacement.req.PostalCode)
	replacement.reply <- quoteResult{quote: &storeapi.Quote{ShippingCost: 21000}}

	state := waitReady(t, machine)
	assert.Equal(t, "1800", state.PostalCode)
	assert.EqualValues(t, 21000, state.ShippingCost)
}
