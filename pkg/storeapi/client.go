package storeapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/zarpadomueble-ops/storefront-gateway/pkg/config"
	pkgerrors "github.com/zarpadomueble-ops/storefront-gateway/pkg/errors"
	"github.com/zarpadomueble-ops/storefront-gateway/pkg/logger"
)

const maxResponseBytes = 1 << 20

var errBaseURLRequired = errors.New("store api base url is required")

// Client consumes the store REST backend: catalog, delivery quoting,
// store config, payment-preference creation, and order status.
type Client struct {
	httpClient        *http.Client
	baseURL           string
	fetchTimeout      time.Duration
	quoteTimeout      time.Duration
	preferenceTimeout time.Duration
	logger            *logger.Logger
}

// NewClient validates the upstream config and builds the API client.
func NewClient(cfg config.UpstreamConfig, logg *logger.Logger) (*Client, error) {
	baseURL := cfg.NormalizedBaseURL()
	if baseURL == "" {
		return nil, errBaseURLRequired
	}
	return &Client{
		httpClient:        &http.Client{},
		baseURL:           baseURL,
		fetchTimeout:      cfg.FetchTimeout,
		quoteTimeout:      cfg.QuoteTimeout,
		preferenceTimeout: cfg.PreferenceTimeout,
		logger:            logg,
	}, nil
}

// Catalog fetches the published product list.
func (c *Client) Catalog(ctx context.Context) ([]Product, error) {
	var payload catalogResponse
	if err := c.getJSON(ctx, "/api/store/catalog", c.fetchTimeout, &payload); err != nil {
		return nil, err
	}
	return payload.Products, nil
}

// DeliveryQuote requests a shipping cost for a postal code and cart snapshot.
// A non-2xx response surfaces the backend's error string as an upstream error.
func (c *Client) DeliveryQuote(ctx context.Context, req QuoteRequest) (*Quote, error) {
	ctx, cancel := context.WithTimeout(ctx, c.quoteTimeout)
	defer cancel()

	resp, err := c.do(ctx, http.MethodPost, "/api/delivery/quote", req)
	if err != nil {
		return nil, c.mapTransportError(err, "delivery quote")
	}
	defer drainAndClose(resp.Body)

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "reading quote response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var upstream upstreamError
		_ = json.Unmarshal(body, &upstream)
		backendMessage := strings.TrimSpace(upstream.Error)
		message := backendMessage
		if message == "" {
			message = fmt.Sprintf("quote request failed with status %d", resp.StatusCode)
		}
		appErr := pkgerrors.New(pkgerrors.CodeUpstream, message)
		if backendMessage != "" {
			// The backend's error copy is buyer-facing (e.g. unsupported
			// postal codes); details carry it to the state machine.
			appErr = appErr.WithDetails(backendMessage)
		}
		return nil, appErr
	}

	var quote Quote
	if err := json.Unmarshal(body, &quote); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "malformed quote payload")
	}
	if quote.ShippingCost < 0 {
		quote.ShippingCost = 0
	}
	return &quote, nil
}

// DeliveryOptions fetches the static delivery configuration.
func (c *Client) DeliveryOptions(ctx context.Context) (*DeliveryOptions, error) {
	var payload DeliveryOptions
	if err := c.getJSON(ctx, "/api/delivery/options", c.fetchTimeout, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// StoreConfig fetches accepted payment methods and storefront messaging.
func (c *Client) StoreConfig(ctx context.Context) (*StoreConfig, error) {
	var payload storeConfigResponse
	if err := c.getJSON(ctx, "/api/store/config", c.fetchTimeout, &payload); err != nil {
		return nil, err
	}
	if !payload.OK || payload.Tienda == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUpstream, "store config payload incomplete")
	}
	return payload.Tienda, nil
}

// CreatePreference submits the checkout payload and returns the payment
// redirect URL handed back by the Mercado Pago integration.
func (c *Client) CreatePreference(ctx context.Context, req CheckoutRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.preferenceTimeout)
	defer cancel()

	resp, err := c.do(ctx, http.MethodPost, "/api/mp/create-preference", req)
	if err != nil {
		return "", c.mapTransportError(err, "create preference")
	}
	defer drainAndClose(resp.Body)

	var payload preferenceResponse
	if decodeErr := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&payload); decodeErr != nil {
		payload = preferenceResponse{}
	}

	failed := resp.StatusCode < 200 || resp.StatusCode >= 300
	if payload.OK != nil && !*payload.OK {
		failed = true
	}
	if failed {
		message := strings.TrimSpace(payload.Error)
		if message == "" {
			message = "payment preference could not be created"
		}
		return "", pkgerrors.New(pkgerrors.CodeUpstream, message)
	}

	initPoint := strings.TrimSpace(payload.InitPoint)
	if initPoint == "" {
		return "", pkgerrors.New(pkgerrors.CodeUpstream, "missing init_point in preference response")
	}
	return initPoint, nil
}

// OrderStatus looks up an order by its public reference.
func (c *Client) OrderStatus(ctx context.Context, orderRef string) (*OrderStatus, error) {
	ref := strings.TrimSpace(orderRef)
	if ref == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order reference is required")
	}

	ctx, cancel := context.WithTimeout(ctx, c.fetchTimeout)
	defer cancel()

	resp, err := c.do(ctx, http.MethodGet, "/api/orders/"+url.PathEscape(ref), nil)
	if err != nil {
		return nil, c.mapTransportError(err, "order status")
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode == http.StatusNotFound {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, pkgerrors.New(pkgerrors.CodeUpstream, fmt.Sprintf("order lookup failed with status %d", resp.StatusCode))
	}

	var status OrderStatus
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&status); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "malformed order payload")
	}
	if status.OrderRef == "" {
		status.OrderRef = ref
	}
	return &status, nil
}

func (c *Client) getJSON(ctx context.Context, path string, timeout time.Duration, dest any) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return c.mapTransportError(err, path)
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return pkgerrors.New(pkgerrors.CodeUpstream, fmt.Sprintf("%s failed with status %d", path, resp.StatusCode))
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "decoding "+path)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding %s body: %w", path, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.httpClient.Do(req)
}

func (c *Client) mapTransportError(err error, operation string) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return pkgerrors.Wrap(pkgerrors.CodeTimeout, err, operation+" timed out")
	}
	return pkgerrors.Wrap(pkgerrors.CodeUpstream, err, operation+" failed")
}

func drainAndClose(body io.ReadCloser) {
	io.Copy(io.Discard, body)
	body.Close()
}
