package controllers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/zarpadomueble-ops/storefront-gateway/api/middleware"
	"github.com/zarpadomueble-ops/storefront-gateway/api/responses"
	"github.com/zarpadomueble-ops/storefront-gateway/api/validators"
	"github.com/zarpadomueble-ops/storefront-gateway/internal/cart"
	"github.com/zarpadomueble-ops/storefront-gateway/internal/delivery"
	"github.com/zarpadomueble-ops/storefront-gateway/internal/session"
	pkgerrors "github.com/zarpadomueble-ops/storefront-gateway/pkg/errors"
	"github.com/zarpadomueble-ops/storefront-gateway/pkg/logger"
	"github.com/zarpadomueble-ops/storefront-gateway/pkg/money"
	"github.com/zarpadomueble-ops/storefront-gateway/pkg/storeapi"
)

type cartView struct {
	Items     []cart.Line `json:"items"`
	Signature string      `json:"signature"`
	Subtotal  money.Cents `json:"subtotal"`
	Units     int         `json:"units"`
}

func newCartView(lines []cart.Line) cartView {
	units := 0
	for _, line := range lines {
		units += line.Quantity
	}
	if lines == nil {
		lines = []cart.Line{}
	}
	return cartView{
		Items:     lines,
		Signature: cart.Signature(lines),
		Subtotal:  cart.Subtotal(lines),
		Units:     units,
	}
}

// syncDeliveryState reconciles the session's delivery machine with the
// cart after every mutation, the server-side version of the storefront
// re-running its quote check on cart updates.
func syncDeliveryState(ctx context.Context, machines *session.Machines, lines []cart.Line) {
	machine, err := machines.Get(middleware.SessionID(ctx))
	if err != nil {
		return
	}
	items := make([]storeapi.QuoteItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, storeapi.QuoteItem{
			ID:        line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}
	machine.Dispatch(ctx, delivery.CartChanged{Items: items, Signature: cart.Signature(lines)})
}

func CartGet(carts cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		lines, err := carts.Get(ctx, middleware.SessionID(ctx))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartView(lines))
	}
}

type cartAddRequest struct {
	ProductID int `json:"productId" validate:"required,gt=0"`
}

func CartAdd(carts cart.Service, machines *session.Machines, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req cartAddRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		lines, err := carts.Add(ctx, middleware.SessionID(ctx), req.ProductID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		syncDeliveryState(ctx, machines, lines)
		responses.WriteSuccess(w, newCartView(lines))
	}
}

func CartRemove(carts cart.Service, machines *session.Machines, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		productID, err := parseProductID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		lines, err := carts.Remove(ctx, middleware.SessionID(ctx), productID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		syncDeliveryState(ctx, machines, lines)
		responses.WriteSuccess(w, newCartView(lines))
	}
}

type cartAdjustRequest struct {
	Delta int `json:"delta" validate:"required"`
}

func CartAdjust(carts cart.Service, machines *session.Machines, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		productID, err := parseProductID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var req cartAdjustRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		lines, err := carts.AdjustQuantity(ctx, middleware.SessionID(ctx), productID, req.Delta)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		syncDeliveryState(ctx, machines, lines)
		responses.WriteSuccess(w, newCartView(lines))
	}
}

func parseProductID(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "productId")
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "invalid product id").
			WithDetails(map[string]string{"productId": raw})
	}
	return id, nil
}
