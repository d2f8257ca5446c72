package cart

import (
	"context"
	"fmt"

	"github.com/zarpadomueble-ops/storefront-gateway/pkg/logger"
)

// Service exposes the cart mutations the checkout flow relies on. Every
// mutation re-sanitizes against the current catalog and persists the result,
// so persisted state can never drift from what the catalog would accept.
type Service interface {
	Get(ctx context.Context, sessionID string) ([]Line, error)
	Add(ctx context.Context, sessionID string, productID int) ([]Line, error)
	Remove(ctx context.Context, sessionID string, productID int) ([]Line, error)
	AdjustQuantity(ctx context.Context, sessionID string, productID, delta int) ([]Line, error)
}

type service struct {
	repo    Repository
	catalog Catalog
	logger  *logger.Logger
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo Repository, catalog Catalog, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("catalog required")
	}
	return &service{repo: repo, catalog: catalog, logger: logg}, nil
}

func (s *service) Get(ctx context.Context, sessionID string) ([]Line, error) {
	stored, err := s.repo.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	sanitized := Sanitize(stored, s.catalog)
	if len(sanitized) != len(stored) {
		if err := s.repo.Save(ctx, sessionID, sanitized); err != nil {
			return nil, err
		}
	}
	return sanitized, nil
}

// Add appends a new line with quantity 1 or bumps an existing line, capped
// at MaxUnitsPerProduct. Unknown product ids are a silent no-op, matching
// the storefront behavior.
func (s *service) Add(ctx context.Context, sessionID string, productID int) ([]Line, error) {
	lines, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	product, ok := s.catalog.Lookup(productID)
	if !ok {
		return lines, nil
	}

	found := false
	for i := range lines {
		if lines[i].ProductID == productID {
			if lines[i].Quantity < MaxUnitsPerProduct {
				lines[i].Quantity++
			}
			found = true
			break
		}
	}
	if !found {
		lines = append(lines, Line{
			ProductID: productID,
			Name:      product.Name,
			UnitPrice: product.Price,
			Quantity:  1,
		})
	}

	return s.persist(ctx, sessionID, lines)
}

func (s *service) Remove(ctx context.Context, sessionID string, productID int) ([]Line, error) {
	lines, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	out := lines[:0]
	for _, line := range lines {
		if line.ProductID != productID {
			out = append(out, line)
		}
	}
	return s.persist(ctx, sessionID, out)
}

// AdjustQuantity adds delta to the line's quantity. Zero or below removes
// the line; above MaxUnitsPerProduct clamps. Missing lines are a no-op.
func (s *service) AdjustQuantity(ctx context.Context, sessionID string, productID, delta int) ([]Line, error) {
	lines, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	for i := range lines {
		if lines[i].ProductID != productID {
			continue
		}
		quantity := lines[i].Quantity + delta
		switch {
		case quantity <= 0:
			lines = append(lines[:i], lines[i+1:]...)
		case quantity > MaxUnitsPerProduct:
			lines[i].Quantity = MaxUnitsPerProduct
		default:
			lines[i].Quantity = quantity
		}
		return s.persist(ctx, sessionID, lines)
	}
	return lines, nil
}

func (s *service) persist(ctx context.Context, sessionID string, lines []Line) ([]Line, error) {
	sanitized := Sanitize(lines, s.catalog)
	if err := s.repo.Save(ctx, sessionID, sanitized); err != nil {
		return nil, err
	}
	return sanitized, nil
}
