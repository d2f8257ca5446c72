package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/zarpadomueble-ops/storefront-gateway/internal/orders"
	pkgerrors "github.com/zarpadomueble-ops/storefront-gateway/pkg/errors"
	"github.com/zarpadomueble-ops/storefront-gateway/pkg/storeapi"
)

type stubOrderLookup struct {
	status *storeapi.OrderStatus
	err    error
}

func (s stubOrderLookup) OrderStatus(context.Context, string) (*storeapi.OrderStatus, error) {
	return s.status, s.err
}

func newOrdersService(t *testing.T, lookup orders.Lookuper) *orders.Service {
	t.Helper()
	svc, err := orders.NewService(lookup, nil)
	if err != nil {
		t.Fatalf("build orders service: %v", err)
	}
	return svc
}

func TestOrderStatusSuccess(t *testing.T) {
	svc := newOrdersService(t, stubOrderLookup{status: &storeapi.OrderStatus{
		OrderRef:          "ZM-1042",
		FulfillmentStatus: "en_produccion",
		PaymentMethod:     "mercadopago",
		PaymentStatus:     "approved",
	}})
	handler := OrderStatus(svc, nil)

	req := sessionRequest(http.MethodGet, "/api/orders/zm-1042", "")
	req = withURLParam(req, "ref", "zm-1042")

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data storeapi.OrderStatus `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.PaymentMethodLabel != "Mercado Pago" {
		t.Fatalf("expected payment label backfilled got %q", envelope.Data.PaymentMethodLabel)
	}
}

func TestOrderStatusNotFound(t *testing.T) {
	svc := newOrdersService(t, stubOrderLookup{err: pkgerrors.New(pkgerrors.CodeNotFound, "missing")})
	handler := OrderStatus(svc, nil)

	req := sessionRequest(http.MethodGet, "/api/orders/ZM-9999", "")
	req = withURLParam(req, "ref", "ZM-9999")

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), orders.NotFoundMessage) {
		t.Fatalf("expected storefront copy in %s", resp.Body.String())
	}
}

func TestOrderStatusEmptyRef(t *testing.T) {
	svc := newOrdersService(t, stubOrderLookup{})
	handler := OrderStatus(svc, nil)

	req := sessionRequest(http.MethodGet, "/api/orders/%20", "")
	req = withURLParam(req, "ref", "  ")

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for blank ref got %d", resp.Code)
	}
}
