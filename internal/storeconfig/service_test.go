package storeconfig

import (
	"context"
	"errors"
	"testing"

	"github.com/zarpadomueble-ops/storefront-gateway/internal/delivery"
	"github.com/zarpadomueble-ops/storefront-gateway/pkg/storeapi"
)

type fakeFetcher struct {
	store      *storeapi.StoreConfig
	storeErr   error
	options    *storeapi.DeliveryOptions
	optionsErr error
}

func (f *fakeFetcher) StoreConfig(context.Context) (*storeapi.StoreConfig, error) {
	return f.store, f.storeErr
}

func (f *fakeFetcher) DeliveryOptions(context.Context) (*storeapi.DeliveryOptions, error) {
	return f.options, f.optionsErr
}

func TestDefaultsSurviveUpstreamOutage(t *testing.T) {
	svc, err := NewService(&fakeFetcher{
		storeErr:   errors.New("connection refused"),
		optionsErr: errors.New("connection refused"),
	}, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	svc.Refresh(context.Background())
	got := svc.Settings()
	want := Defaults()

	if got.Delivery.InstallationBaseCost != want.Delivery.InstallationBaseCost {
		t.Fatalf("installation base cost = %d, want %d",
			got.Delivery.InstallationBaseCost, want.Delivery.InstallationBaseCost)
	}
	if len(got.Store.AcceptedPaymentMethods) != 3 {
		t.Fatalf("expected default payment methods, got %v", got.Store.AcceptedPaymentMethods)
	}
	if got.Delivery.FactoryPickupAddress != "Salto 850, Francisco Álvarez, Moreno, Buenos Aires" {
		t.Fatalf("unexpected pickup address %q", got.Delivery.FactoryPickupAddress)
	}
}

func TestRefreshMergesFieldByField(t *testing.T) {
	svc, _ := NewService(&fakeFetcher{
		store: &storeapi.StoreConfig{
			AcceptedPaymentMethods: []string{" MercadoPago ", "bank_transfer", ""},
			WarrantyMonths:         24,
		},
		options: &storeapi.DeliveryOptions{
			InstallationBaseCost: 250000,
		},
	}, nil)

	svc.Refresh(context.Background())
	got := svc.Settings()

	if len(got.Store.AcceptedPaymentMethods) != 2 {
		t.Fatalf("blank entries should drop, got %v", got.Store.AcceptedPaymentMethods)
	}
	if got.Store.AcceptedPaymentMethods[0] != delivery.PaymentMercadoPago {
		t.Fatalf("methods should lowercase and trim, got %q", got.Store.AcceptedPaymentMethods[0])
	}
	if got.Store.WarrantyMonths != 24 {
		t.Fatalf("warranty = %d, want 24", got.Store.WarrantyMonths)
	}
	// Unset upstream fields keep their defaults.
	if got.Store.StockMessage != Defaults().Store.StockMessage {
		t.Fatalf("stock message should default, got %q", got.Store.StockMessage)
	}
	if got.Delivery.InstallationBaseCost != 250000 {
		t.Fatalf("installation base = %d, want 250000", got.Delivery.InstallationBaseCost)
	}
	if got.Delivery.UnsupportedPostalCodeMessage != Defaults().Delivery.UnsupportedPostalCodeMessage {
		t.Fatal("unsupported-CP copy should default")
	}
}

func TestEmptyAcceptedMethodsFallBack(t *testing.T) {
	svc, _ := NewService(&fakeFetcher{
		store: &storeapi.StoreConfig{AcceptedPaymentMethods: []string{"  ", ""}},
	}, nil)
	svc.Refresh(context.Background())

	if len(svc.Settings().Store.AcceptedPaymentMethods) != 3 {
		t.Fatalf("all-blank list should fall back to defaults, got %v",
			svc.Settings().Store.AcceptedPaymentMethods)
	}
}
