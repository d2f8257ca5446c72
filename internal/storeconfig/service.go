package storeconfig

import (
	"context"
	"fmt"
	"sync"

	"github.com/zarpadomueble-ops/storefront-gateway/pkg/logger"
	"github.com/zarpadomueble-ops/storefront-gateway/pkg/storeapi"
)

// Fetcher is the slice of the store client this service needs.
type Fetcher interface {
	StoreConfig(ctx context.Context) (*storeapi.StoreConfig, error)
	DeliveryOptions(ctx context.Context) (*storeapi.DeliveryOptions, error)
}

// Service loads store configuration once and serves the merged snapshot.
// Upstream failures are logged and swallowed; the storefront must come up
// with its embedded defaults even when the backend is down.
type Service struct {
	fetcher Fetcher
	logger  *logger.Logger

	mu       sync.RWMutex
	settings Settings
}

func NewService(fetcher Fetcher, logg *logger.Logger) (*Service, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("store config fetcher required")
	}
	return &Service{
		fetcher:  fetcher,
		logger:   logg,
		settings: Defaults(),
	}, nil
}

// Refresh pulls both config documents and merges them over the defaults.
// Each document fails independently.
func (s *Service) Refresh(ctx context.Context) {
	merged := Defaults()

	store, err := s.fetcher.StoreConfig(ctx)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn(ctx, fmt.Sprintf("store config unavailable, keeping defaults: %v", err))
		}
	} else {
		merged.Store = mergeStore(merged.Store, store)
	}

	options, err := s.fetcher.DeliveryOptions(ctx)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn(ctx, fmt.Sprintf("delivery options unavailable, keeping defaults: %v", err))
		}
	} else {
		merged.Delivery = mergeDelivery(merged.Delivery, options)
	}

	s.mu.Lock()
	s.settings = merged
	s.mu.Unlock()
}

// Settings returns the current snapshot.
func (s *Service) Settings() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}
