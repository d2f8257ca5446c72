package controllers

import (
	"context"
	"net/http"

	"github.com/zarpadomueble-ops/storefront-gateway/api/middleware"
	"github.com/zarpadomueble-ops/storefront-gateway/api/responses"
	"github.com/zarpadomueble-ops/storefront-gateway/api/validators"
	"github.com/zarpadomueble-ops/storefront-gateway/internal/cart"
	checkoutsvc "github.com/zarpadomueble-ops/storefront-gateway/internal/checkout"
	"github.com/zarpadomueble-ops/storefront-gateway/internal/delivery"
	"github.com/zarpadomueble-ops/storefront-gateway/internal/session"
	"github.com/zarpadomueble-ops/storefront-gateway/internal/storeconfig"
	"github.com/zarpadomueble-ops/storefront-gateway/pkg/logger"
	"github.com/zarpadomueble-ops/storefront-gateway/pkg/money"
)

type paymentMethodOption struct {
	Value delivery.PaymentMethod `json:"value"`
	Label string                 `json:"label"`
}

type checkoutOptions struct {
	PaymentMethods            []paymentMethodOption `json:"paymentMethods"`
	InstallationBaseCost      money.Cents           `json:"installationBaseCost"`
	InstallationComplexNotice string                `json:"installationComplexNotice"`
	InstallationZoneLabel     string                `json:"installationZoneLabel"`
	FactoryPickupAddress      string                `json:"factoryPickupAddress"`
	FactoryPickupNote         string                `json:"factoryPickupNote"`
}

// checkoutView is everything the checkout screen renders: the live
// delivery state, the derived totals, the confirm gate and the static
// copy around them.
type checkoutView struct {
	Cart      cartView           `json:"cart"`
	Delivery  delivery.State     `json:"delivery"`
	Breakdown delivery.Breakdown `json:"breakdown"`
	Readiness delivery.Readiness `json:"readiness"`
	Options   checkoutOptions    `json:"options"`
}

func buildCheckoutView(lines []cart.Line, machine *delivery.Machine, settings storeconfig.Settings) checkoutView {
	state := machine.Snapshot()
	installationBase := machine.InstallationBaseCost()

	methods := make([]paymentMethodOption, 0, len(settings.Store.AcceptedPaymentMethods))
	for _, method := range settings.Store.AcceptedPaymentMethods {
		label, ok := storeconfig.PaymentMethodLabels[method]
		if !ok {
			label = string(method)
		}
		methods = append(methods, paymentMethodOption{Value: method, Label: label})
	}

	return checkoutView{
		Cart:      newCartView(lines),
		Delivery:  state,
		Breakdown: delivery.ComputeBreakdown(state, cart.Subtotal(lines), installationBase),
		Readiness: delivery.EvaluateReadiness(state, len(lines) == 0),
		Options: checkoutOptions{
			PaymentMethods:            methods,
			InstallationBaseCost:      installationBase,
			InstallationComplexNotice: settings.Delivery.InstallationComplexNotice,
			InstallationZoneLabel:     settings.Delivery.InstallationZoneLabel,
			FactoryPickupAddress:      settings.Delivery.FactoryPickupAddress,
			FactoryPickupNote:         settings.Delivery.FactoryPickupNote,
		},
	}
}

func sessionCheckout(ctx context.Context, carts cart.Service, machines *session.Machines) ([]cart.Line, *delivery.Machine, error) {
	sessionID := middleware.SessionID(ctx)
	lines, err := carts.Get(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	machine, err := machines.Get(sessionID)
	if err != nil {
		return nil, nil, err
	}
	return lines, machine, nil
}

func CheckoutGet(carts cart.Service, machines *session.Machines, settings *storeconfig.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		lines, machine, err := sessionCheckout(ctx, carts, machines)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, buildCheckoutView(lines, machine, settings.Settings()))
	}
}

// CheckoutDispatch applies one checkout interaction and returns the view
// right after the transition. Quote resolution is asynchronous; clients
// poll or re-fetch to observe it settle.
func CheckoutDispatch(carts cart.Service, machines *session.Machines, settings *storeconfig.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var wire delivery.WireEvent
		if err := validators.DecodeJSONBody(r, &wire); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		event, err := delivery.ParseWireEvent(wire)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		lines, machine, err := sessionCheckout(ctx, carts, machines)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		machine.Dispatch(ctx, event)
		responses.WriteSuccess(w, buildCheckoutView(lines, machine, settings.Settings()))
	}
}

func CheckoutShippingDataGet(svc *checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		data, err := svc.ShippingData(ctx, middleware.SessionID(ctx))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if data == nil {
			responses.WriteSuccess(w, nil)
			return
		}
		responses.WriteSuccess(w, data)
	}
}

// CheckoutShippingDataPut saves the address step and seeds the delivery
// postal code, mirroring how the storefront's datos-envio page pre-filled
// the quote input.
func CheckoutShippingDataPut(svc *checkoutsvc.Service, machines *session.Machines, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		sessionID := middleware.SessionID(ctx)

		var data checkoutsvc.ShippingData
		if err := validators.DecodeJSON(r, &data); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		saved, err := svc.SaveShippingData(ctx, sessionID, data)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if machine, machineErr := machines.Get(sessionID); machineErr == nil {
			machine.Dispatch(ctx, delivery.SetPostalCode{Raw: saved.PostalCode})
			machine.Dispatch(ctx, delivery.SetBuyerEmail{Email: saved.Email})
		}

		responses.WriteSuccess(w, saved)
	}
}

type confirmResponse struct {
	InitPoint string `json:"init_point"`
}

func CheckoutConfirm(svc *checkoutsvc.Service, machines *session.Machines, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		sessionID := middleware.SessionID(ctx)

		machine, err := machines.Get(sessionID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		initPoint, err := svc.Confirm(ctx, sessionID, machine)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, confirmResponse{InitPoint: initPoint})
	}
}
