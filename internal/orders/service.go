package orders

import (
	"context"
	"fmt"
	"strings"

	"github.com/zarpadomueble-ops/storefront-gateway/internal/delivery"
	"github.com/zarpadomueble-ops/storefront-gateway/internal/storeconfig"
	apperrors "github.com/zarpadomueble-ops/storefront-gateway/pkg/errors"
	"github.com/zarpadomueble-ops/storefront-gateway/pkg/logger"
	"github.com/zarpadomueble-ops/storefront-gateway/pkg/storeapi"
)

// NotFoundMessage matches the storefront's lookup-failure copy.
const NotFoundMessage = "No encontramos ese pedido."

// Lookuper is the slice of the store client this service needs.
type Lookuper interface {
	OrderStatus(ctx context.Context, ref string) (*storeapi.OrderStatus, error)
}

// Service resolves order references to their status view.
type Service struct {
	client Lookuper
	logger *logger.Logger
}

func NewService(client Lookuper, logg *logger.Logger) (*Service, error) {
	if client == nil {
		return nil, fmt.Errorf("order lookup client required")
	}
	return &Service{client: client, logger: logg}, nil
}

// NormalizeRef trims and uppercases the reference the buyer typed or that
// arrived in a payment redirect.
func NormalizeRef(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// Status fetches the order view. Empty references are a validation error;
// unknown ones surface the storefront copy as a not-found error.
func (s *Service) Status(ctx context.Context, rawRef string) (*storeapi.OrderStatus, error) {
	ref := NormalizeRef(rawRef)
	if ref == "" {
		return nil, apperrors.New(apperrors.CodeValidation, "Ingresá un número de pedido.")
	}

	status, err := s.client.OrderStatus(ctx, ref)
	if err != nil {
		if typed := apperrors.As(err); typed != nil && typed.Code() == apperrors.CodeNotFound {
			return nil, apperrors.New(apperrors.CodeNotFound, NotFoundMessage)
		}
		return nil, err
	}

	fillLabels(status)
	return status, nil
}

// fillLabels backfills human-readable labels the backend may omit.
func fillLabels(status *storeapi.OrderStatus) {
	if status.FulfillmentLabel == "" {
		status.FulfillmentLabel = status.FulfillmentStatus
	}
	if status.PaymentMethodLabel == "" {
		method := delivery.PaymentMethod(strings.ToLower(strings.TrimSpace(status.PaymentMethod)))
		if label, ok := storeconfig.PaymentMethodLabels[method]; ok {
			status.PaymentMethodLabel = label
		} else {
			status.PaymentMethodLabel = status.PaymentMethod
		}
	}
	for i := range status.Timeline {
		if status.Timeline[i].Label == "" {
			status.Timeline[i].Label = status.Timeline[i].Status
		}
	}
}
