package storeapi

import "github.com/zarpadomueble-ops/storefront-gateway/pkg/money"

// Product is a catalog entry as published by GET /api/store/catalog.
type Product struct {
	ID               int         `json:"id"`
	Name             string      `json:"name"`
	Price            money.Cents `json:"price"`
	Image            string      `json:"image"`
	Category         string      `json:"category"`
	Stock            int         `json:"stock"`
	FulfillmentModel string      `json:"fulfillmentModel"`
	WeightKg         float64     `json:"weightKg,omitempty"`
	VolumeM3         float64     `json:"volumeM3,omitempty"`
}

type catalogResponse struct {
	Products []Product `json:"products"`
}

// QuoteItem mirrors a cart line in the delivery-quote request body.
type QuoteItem struct {
	ID        int         `json:"id"`
	Quantity  int         `json:"quantity"`
	UnitPrice money.Cents `json:"unit_price"`
}

// QuoteRequest is the POST /api/delivery/quote body.
type QuoteRequest struct {
	PostalCode string      `json:"postalCode"`
	Items      []QuoteItem `json:"items"`
}

// Quote is a successful delivery-quote payload.
type Quote struct {
	ShippingCost              money.Cents `json:"shippingCost"`
	ShippingLabel             string      `json:"shippingLabel"`
	InstallationAvailable     bool        `json:"installationAvailable"`
	InstallationBaseCost      money.Cents `json:"installationBaseCost,omitempty"`
	InstallationComplexNotice string      `json:"installationComplexNotice,omitempty"`
}

// DeliveryOptions seeds static delivery config, fetched once at startup.
type DeliveryOptions struct {
	InstallationBaseCost      money.Cents   `json:"installationBaseCost"`
	InstallationComplexNotice string        `json:"installationComplexNotice"`
	UnsupportedPostalCodeMsg  string        `json:"unsupportedPostalCodeMessage"`
	FactoryPickup             FactoryPickup `json:"factoryPickup"`
	InstallationZonesLabel    string        `json:"installationZonesLabel"`
}

type FactoryPickup struct {
	Address string `json:"address"`
	Note    string `json:"note"`
}

// StoreConfig carries accepted payment methods plus storefront messaging.
type StoreConfig struct {
	AcceptedPaymentMethods []string `json:"acceptedPaymentMethods"`
	StockMessage           string   `json:"stockMessage"`
	MadeToOrderMessage     string   `json:"madeToOrderMessage"`
	WarrantyMonths         int      `json:"warrantyMonths"`
	Coverage               string   `json:"coverage"`
}

type storeConfigResponse struct {
	OK     bool         `json:"ok"`
	Tienda *StoreConfig `json:"tienda"`
}

// CheckoutRequest is the POST /api/mp/create-preference body. The
// buyer email is repeated in three places for backend compatibility.
type CheckoutRequest struct {
	Items         []QuoteItem     `json:"items"`
	PaymentMethod string          `json:"paymentMethod"`
	BuyerEmail    string          `json:"buyerEmail"`
	Email         string          `json:"email"`
	Payer         Payer           `json:"payer"`
	Delivery      DeliveryPayload `json:"delivery"`
	Customer      Customer        `json:"customer"`
}

type Payer struct {
	Email string `json:"email"`
}

type DeliveryPayload struct {
	Method                string  `json:"method"`
	PostalCode            *string `json:"postalCode"`
	InstallationRequested bool    `json:"installationRequested"`
}

type Customer struct {
	FullName     string `json:"fullName"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	Street       string `json:"street"`
	StreetNumber string `json:"streetNumber"`
	City         string `json:"city"`
	Province     string `json:"province"`
	Zip          string `json:"zip"`
}

type preferenceResponse struct {
	OK        *bool  `json:"ok,omitempty"`
	InitPoint string `json:"init_point"`
	Error     string `json:"error,omitempty"`
}

// OrderStatus is the order-lookup view returned by GET /api/orders/{ref}.
type OrderStatus struct {
	OrderRef           string          `json:"orderRef"`
	OrderID            string          `json:"orderId,omitempty"`
	FulfillmentStatus  string          `json:"fulfillmentStatus"`
	FulfillmentLabel   string          `json:"fulfillmentLabel,omitempty"`
	PaymentMethod      string          `json:"paymentMethod"`
	PaymentMethodLabel string          `json:"paymentMethodLabel,omitempty"`
	PaymentStatus      string          `json:"paymentStatus"`
	Totals             OrderTotals     `json:"totals"`
	EstimatedLeadTime  string          `json:"estimatedLeadTime,omitempty"`
	TrackingURL        string          `json:"trackingUrl,omitempty"`
	Timeline           []TimelineEntry `json:"timeline,omitempty"`
}

type OrderTotals struct {
	Subtotal     money.Cents `json:"subtotal"`
	Shipping     money.Cents `json:"shipping"`
	Installation money.Cents `json:"installation"`
	Total        money.Cents `json:"total"`
}

type TimelineEntry struct {
	Status string `json:"status"`
	Label  string `json:"label,omitempty"`
	At     string `json:"at,omitempty"`
	Note   string `json:"note,omitempty"`
}

type upstreamError struct {
	Error string `json:"error"`
}
