package checkout

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/zarpadomueble-ops/storefront-gateway/internal/cart"
	"github.com/zarpadomueble-ops/storefront-gateway/internal/delivery"
	apperrors "github.com/zarpadomueble-ops/storefront-gateway/pkg/errors"
	"github.com/zarpadomueble-ops/storefront-gateway/pkg/logger"
	"github.com/zarpadomueble-ops/storefront-gateway/pkg/storeapi"
)

// PreferenceCreator starts a payment flow and returns the redirect URL.
type PreferenceCreator interface {
	CreatePreference(ctx context.Context, req storeapi.CheckoutRequest) (string, error)
}

// Service drives the confirm step: gate on delivery readiness, build the
// payload and hand it to the payment backend.
type Service struct {
	carts      cart.Service
	shipping   ShippingRepository
	validate   *validator.Validate
	preference PreferenceCreator
	logger     *logger.Logger
}

func NewService(carts cart.Service, shipping ShippingRepository, preference PreferenceCreator, logg *logger.Logger) (*Service, error) {
	if carts == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if shipping == nil {
		return nil, fmt.Errorf("shipping repository required")
	}
	if preference == nil {
		return nil, fmt.Errorf("preference creator required")
	}
	return &Service{
		carts:      carts,
		shipping:   shipping,
		validate:   NewShippingValidator(),
		preference: preference,
		logger:     logg,
	}, nil
}

// SaveShippingData validates and persists the buyer's address step. The
// returned copy is normalized; its postal code seeds the delivery state.
func (s *Service) SaveShippingData(ctx context.Context, sessionID string, data ShippingData) (ShippingData, error) {
	normalized, err := ValidateShippingData(s.validate, data)
	if err != nil {
		return normalized, err
	}
	if err := s.shipping.Save(ctx, sessionID, normalized); err != nil {
		return normalized, err
	}
	return normalized, nil
}

// ShippingData returns the saved step, or nil when the buyer has not
// completed it yet.
func (s *Service) ShippingData(ctx context.Context, sessionID string) (*ShippingData, error) {
	return s.shipping.Load(ctx, sessionID)
}

// Confirm runs the full gate-and-submit sequence. A blocked gate comes
// back as a state-conflict error carrying the storefront reason; a
// submission failure leaves all session state untouched so the buyer can
// retry.
func (s *Service) Confirm(ctx context.Context, sessionID string, machine *delivery.Machine) (string, error) {
	lines, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return "", err
	}

	state := machine.Snapshot()
	if readiness := delivery.EvaluateReadiness(state, len(lines) == 0); !readiness.OK {
		return "", apperrors.New(apperrors.CodeStateConflict, readiness.Reason)
	}

	stored, err := s.shipping.Load(ctx, sessionID)
	if err != nil {
		return "", err
	}
	var shipping ShippingData
	if stored != nil {
		shipping = *stored
	} else if state.Method == delivery.MethodShipping {
		return "", apperrors.New(apperrors.CodeStateConflict,
			"Completá tus datos de envío antes de confirmar.")
	}

	payload := BuildPayload(lines, shipping, state)
	initPoint, err := s.preference.CreatePreference(ctx, payload)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn(ctx, fmt.Sprintf("payment preference failed: %v", err))
		}
		return "", err
	}

	if s.logger != nil {
		s.logger.Info(ctx, fmt.Sprintf("payment preference created for %d line(s), method %s",
			len(payload.Items), payload.PaymentMethod))
	}
	return initPoint, nil
}
