package delivery

import (
	"context"
	"fmt"
	"sync"
	"time"

	apperrors "github.com/zarpadomueble-ops/storefront-gateway/pkg/errors"
	"github.com/zarpadomueble-ops/storefront-gateway/pkg/logger"
	"github.com/zarpadomueble-ops/storefront-gateway/pkg/metrics"
	"github.com/zarpadomueble-ops/storefront-gateway/pkg/money"
	"github.com/zarpadomueble-ops/storefront-gateway/pkg/storeapi"
)

// QuoteFailureMessage is shown when the upstream call fails without a
// usable error message.
const QuoteFailureMessage = "No pudimos calcular el envío en este momento. Intentá nuevamente."

// DefaultShippingLabel is used when the upstream quote omits a label.
const DefaultShippingLabel = "Envío a domicilio"

// Quoter issues delivery quotes against the store backend.
type Quoter interface {
	DeliveryQuote(ctx context.Context, req storeapi.QuoteRequest) (*storeapi.Quote, error)
}

// MachineParams wires one checkout state machine.
type MachineParams struct {
	Quoter               Quoter
	Rules                Rules
	Debounce             time.Duration
	InstallationBaseCost money.Cents
	// UnsupportedPostalCodeMessage is shown when the backend rejects a
	// quote without explaining why.
	UnsupportedPostalCodeMessage string
	Logger                       *logger.Logger
	Metrics                      *metrics.QuoteMetrics
}

// Machine owns one session's delivery state. Edits arrive through
// Dispatch; quote requests run debounced in the background and resolve
// against a monotonic sequence so a slow response can never overwrite a
// newer one.
type Machine struct {
	mu    sync.Mutex
	state State
	items []storeapi.QuoteItem

	seq   uint64
	timer *time.Timer

	quoter               Quoter
	rules                Rules
	debounce             time.Duration
	installationBaseCost money.Cents
	unsupportedCPMessage string

	logger  *logger.Logger
	metrics *metrics.QuoteMetrics
}

// NewMachine builds a machine with the checkout-mount defaults.
func NewMachine(params MachineParams) (*Machine, error) {
	if params.Quoter == nil {
		return nil, fmt.Errorf("quoter required")
	}
	if params.Debounce <= 0 {
		return nil, fmt.Errorf("debounce must be positive, got %s", params.Debounce)
	}
	rules := params.Rules
	if len(rules.AcceptedPaymentMethods) == 0 {
		rules = DefaultRules()
	}
	unsupported := params.UnsupportedPostalCodeMessage
	if unsupported == "" {
		unsupported = QuoteFailureMessage
	}
	return &Machine{
		state:                NewState(),
		quoter:               params.Quoter,
		rules:                rules,
		debounce:             params.Debounce,
		installationBaseCost: params.InstallationBaseCost,
		unsupportedCPMessage: unsupported,
		logger:               params.Logger,
		metrics:              params.Metrics,
	}, nil
}

// Dispatch applies one event and arms or cancels the quote timer as the
// transition demands. It returns the state right after the transition;
// async quote resolution may move it again later.
func (m *Machine) Dispatch(ctx context.Context, event Event) State {
	m.mu.Lock()
	if cart, ok := event.(CartChanged); ok {
		m.items = append([]storeapi.QuoteItem(nil), cart.Items...)
	}
	next, effect := Apply(m.state, event, m.rules)
	m.state = next
	snapshot := m.state

	switch effect {
	case EffectScheduleQuote:
		m.armTimerLocked(ctx)
	case EffectCancelQuote:
		m.stopTimerLocked()
	}
	m.mu.Unlock()
	return snapshot
}

// Snapshot returns a copy of the current state.
func (m *Machine) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Rules exposes the payment rules the machine was built with.
func (m *Machine) Rules() Rules {
	return m.rules
}

// InstallationBaseCost is the installation price in effect. Quotes may
// override the configured default.
func (m *Machine) InstallationBaseCost() money.Cents {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.installationBaseCost
}

// Close drops any pending quote timer.
func (m *Machine) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopTimerLocked()
}

func (m *Machine) stopTimerLocked() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}

func (m *Machine) armTimerLocked(ctx context.Context) {
	m.stopTimerLocked()
	// The request must outlive the triggering HTTP request.
	detached := context.WithoutCancel(ctx)
	m.timer = time.AfterFunc(m.debounce, func() {
		m.fireQuote(detached)
	})
}

// fireQuote issues the quote that survived the debounce window. Each fire
// bumps the sequence; a response only lands if its sequence is still the
// newest when it comes back.
func (m *Machine) fireQuote(ctx context.Context) {
	m.mu.Lock()
	if m.state.Method != MethodShipping || !m.state.HasCompletePostalCode() {
		m.mu.Unlock()
		return
	}
	m.seq++
	seq := m.seq
	req := storeapi.QuoteRequest{
		PostalCode: m.state.PostalCode,
		Items:      append([]storeapi.QuoteItem(nil), m.items...),
	}
	key := QuoteKey(m.state.PostalCode, m.state.CartSignature)
	m.state.ShippingLoading = true
	m.state.ShippingError = ""
	m.state.ShippingReady = false
	m.state.InstallationSelected = false
	m.mu.Unlock()

	start := time.Now()
	quote, err := m.quoter.DeliveryQuote(ctx, req)
	m.metrics.ObserveLatency(time.Since(start))

	m.mu.Lock()
	defer m.mu.Unlock()

	// A response only lands when it is both the newest fired request and
	// still priced for the live postal code and cart. The key check covers
	// the window between a state reset and the next timer fire, when the
	// in-flight request still holds the highest sequence.
	if seq != m.seq || key != QuoteKey(m.state.PostalCode, m.state.CartSignature) {
		m.metrics.IncSuperseded()
		return
	}

	if err != nil {
		m.resolveFailureLocked(ctx, req.PostalCode, err)
		return
	}
	m.resolveSuccessLocked(ctx, key, quote)
}

func (m *Machine) resolveSuccessLocked(ctx context.Context, key string, quote *storeapi.Quote) {
	m.state.ShippingLoading = false
	m.state.ShippingCost = money.NonNegative(quote.ShippingCost)
	m.state.ShippingLabel = quote.ShippingLabel
	if m.state.ShippingLabel == "" {
		m.state.ShippingLabel = DefaultShippingLabel
	}
	m.state.ShippingReady = true
	m.state.ShippingError = ""
	m.state.InstallationAvailable = quote.InstallationAvailable
	m.state.lastQuotedKey = key
	if quote.InstallationBaseCost > 0 {
		m.installationBaseCost = quote.InstallationBaseCost
	}
	m.metrics.IncIssued("ok")
	if m.logger != nil {
		m.logger.Debug(ctx, fmt.Sprintf("shipping quote ready: %s (CP %s)",
			money.FormatARS(m.state.ShippingCost), m.state.PostalCode))
	}
}

func (m *Machine) resolveFailureLocked(ctx context.Context, postalCode string, err error) {
	m.state.ShippingLoading = false
	m.state.ShippingCost = 0
	m.state.ShippingLabel = ""
	m.state.ShippingReady = false
	m.state.InstallationAvailable = false
	m.state.lastQuotedKey = ""

	message := QuoteFailureMessage
	reason := "transport"
	if typed := apperrors.As(err); typed != nil {
		switch {
		case typed.Code() == apperrors.CodeTimeout:
			reason = "timeout"
		case typed.Code() == apperrors.CodeUpstream && typed.Unwrap() == nil:
			// HTTP-level rejection: show the backend's own copy when it
			// sent one, otherwise the unsupported-CP message.
			reason = "upstream"
			message = m.unsupportedCPMessage
			if backendMessage, ok := typed.Details().(string); ok && backendMessage != "" {
				message = backendMessage
			}
		}
	}
	m.state.ShippingError = message

	m.metrics.IncIssued("error")
	m.metrics.IncFailed(reason)
	if m.logger != nil {
		m.logger.Warn(ctx, fmt.Sprintf("shipping quote failed for CP %s: %v", postalCode, err))
	}
}
