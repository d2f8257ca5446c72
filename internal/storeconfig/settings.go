package storeconfig

import (
	"strings"

	"github.com/zarpadomueble-ops/storefront-gateway/internal/delivery"
	"github.com/zarpadomueble-ops/storefront-gateway/pkg/money"
	"github.com/zarpadomueble-ops/storefront-gateway/pkg/storeapi"
)

// StoreSettings is the storefront messaging block plus the payment offer.
type StoreSettings struct {
	AcceptedPaymentMethods []delivery.PaymentMethod `json:"acceptedPaymentMethods"`
	StockMessage           string                   `json:"stockMessage"`
	MadeToOrderMessage     string                   `json:"madeToOrderMessage"`
	WarrantyMonths         int                      `json:"warrantyMonths"`
	Coverage               string                   `json:"coverage"`
}

// DeliverySettings is the static delivery copy and pricing the checkout
// shows before any quote runs.
type DeliverySettings struct {
	InstallationBaseCost         money.Cents `json:"installationBaseCost"`
	InstallationComplexNotice    string      `json:"installationComplexNotice"`
	UnsupportedPostalCodeMessage string      `json:"unsupportedPostalCodeMessage"`
	FactoryPickupAddress         string      `json:"factoryPickupAddress"`
	FactoryPickupNote            string      `json:"factoryPickupNote"`
	InstallationZoneLabel        string      `json:"installationZoneLabel"`
}

// Settings is everything the gateway needs from the store backend at
// startup. Missing upstream data falls back to these defaults field by
// field, so a partial response still produces a complete Settings.
type Settings struct {
	Store    StoreSettings    `json:"store"`
	Delivery DeliverySettings `json:"delivery"`
}

// PaymentMethodLabels maps payment methods to their storefront copy.
var PaymentMethodLabels = map[delivery.PaymentMethod]string{
	delivery.PaymentMercadoPago:  "Mercado Pago",
	delivery.PaymentBankTransfer: "Transferencia bancaria",
	delivery.PaymentCashPickup:   "Efectivo en retiro",
}

// Defaults mirrors the storefront's embedded configuration.
func Defaults() Settings {
	return Settings{
		Store: StoreSettings{
			AcceptedPaymentMethods: []delivery.PaymentMethod{
				delivery.PaymentMercadoPago,
				delivery.PaymentBankTransfer,
				delivery.PaymentCashPickup,
			},
			StockMessage:       "En stock - Envío en 48/72 hs",
			MadeToOrderMessage: "Fabricación bajo pedido - Entrega estimada: 10 a 20 días hábiles",
			WarrantyMonths:     12,
			Coverage:           "AMBA + interior del país + retiro en taller",
		},
		Delivery: DeliverySettings{
			InstallationBaseCost:         200000,
			InstallationComplexNotice:    "Instalaciones complejas se cotizan aparte.",
			UnsupportedPostalCodeMessage: "No podemos calcular el envío automáticamente para tu CP. Contactanos para cotización.",
			FactoryPickupAddress:         "Salto 850, Francisco Álvarez, Moreno, Buenos Aires",
			FactoryPickupNote:            "Retiro sin costo. El cliente debe venir con su flete propio. Se entrega el mueble en fábrica.",
			InstallationZoneLabel:        "Buenos Aires (zonas seleccionadas)",
		},
	}
}

// Rules derives the payment rules the delivery reducer consumes.
func (s Settings) Rules() delivery.Rules {
	return delivery.Rules{AcceptedPaymentMethods: s.Store.AcceptedPaymentMethods}
}

func mergeStore(base StoreSettings, upstream *storeapi.StoreConfig) StoreSettings {
	if upstream == nil {
		return base
	}
	if methods := normalizeMethods(upstream.AcceptedPaymentMethods); len(methods) > 0 {
		base.AcceptedPaymentMethods = methods
	}
	if msg := strings.TrimSpace(upstream.StockMessage); msg != "" {
		base.StockMessage = msg
	}
	if msg := strings.TrimSpace(upstream.MadeToOrderMessage); msg != "" {
		base.MadeToOrderMessage = msg
	}
	if upstream.WarrantyMonths > 0 {
		base.WarrantyMonths = upstream.WarrantyMonths
	}
	if coverage := strings.TrimSpace(upstream.Coverage); coverage != "" {
		base.Coverage = coverage
	}
	return base
}

func mergeDelivery(base DeliverySettings, upstream *storeapi.DeliveryOptions) DeliverySettings {
	if upstream == nil {
		return base
	}
	if upstream.InstallationBaseCost > 0 {
		base.InstallationBaseCost = upstream.InstallationBaseCost
	}
	if notice := strings.TrimSpace(upstream.InstallationComplexNotice); notice != "" {
		base.InstallationComplexNotice = notice
	}
	if msg := strings.TrimSpace(upstream.UnsupportedPostalCodeMsg); msg != "" {
		base.UnsupportedPostalCodeMessage = msg
	}
	if address := strings.TrimSpace(upstream.FactoryPickup.Address); address != "" {
		base.FactoryPickupAddress = address
	}
	if note := strings.TrimSpace(upstream.FactoryPickup.Note); note != "" {
		base.FactoryPickupNote = note
	}
	if label := strings.TrimSpace(upstream.InstallationZonesLabel); label != "" {
		base.InstallationZoneLabel = label
	}
	return base
}

// normalizeMethods lowercases and trims; blanks drop, unknown methods stay
// (they simply never match a selection).
func normalizeMethods(raw []string) []delivery.PaymentMethod {
	out := make([]delivery.PaymentMethod, 0, len(raw))
	for _, entry := range raw {
		method := strings.ToLower(strings.TrimSpace(entry))
		if method == "" {
			continue
		}
		out = append(out, delivery.PaymentMethod(method))
	}
	return out
}
