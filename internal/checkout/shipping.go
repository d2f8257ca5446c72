package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/zarpadomueble-ops/storefront-gateway/internal/delivery"
	apperrors "github.com/zarpadomueble-ops/storefront-gateway/pkg/errors"
	"github.com/zarpadomueble-ops/storefront-gateway/pkg/redis"
)

// ShippingData is the buyer contact and address block collected before
// confirmation.
type ShippingData struct {
	FullName    string `json:"fullName" validate:"required,min=2"`
	Email       string `json:"email" validate:"required,contact_email"`
	Phone       string `json:"phone" validate:"required,phone_ar"`
	AddressLine string `json:"addressLine" validate:"required,min=4"`
	City        string `json:"city" validate:"required"`
	Province    string `json:"province" validate:"required"`
	PostalCode  string `json:"postalCode" validate:"required,len=4,numeric"`
}

var (
	phonePattern = regexp.MustCompile(`^[0-9+()\-\s]{6,40}$`)
	emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
)

// shippingFieldMessages is the storefront copy per invalid field.
var shippingFieldMessages = map[string]string{
	"FullName":    "Ingresá tu nombre completo.",
	"Email":       "Ingresá un email válido.",
	"Phone":       "Ingresá un teléfono válido.",
	"AddressLine": "Ingresá calle y número.",
	"City":        "Ingresá la ciudad.",
	"Province":    "Ingresá la provincia.",
	"PostalCode":  "Ingresá un código postal válido de 4 dígitos.",
}

// NewShippingValidator registers the storefront's custom formats.
func NewShippingValidator() *validator.Validate {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterValidation("phone_ar", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	validate.RegisterValidation("contact_email", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	return validate
}

// Normalize trims every field, lowercases the email and strips the postal
// code to digits.
func (d ShippingData) Normalize() ShippingData {
	return ShippingData{
		FullName:    strings.TrimSpace(d.FullName),
		Email:       strings.ToLower(strings.TrimSpace(d.Email)),
		Phone:       strings.TrimSpace(d.Phone),
		AddressLine: strings.TrimSpace(d.AddressLine),
		City:        strings.TrimSpace(d.City),
		Province:    strings.TrimSpace(d.Province),
		PostalCode:  delivery.NormalizePostalCode(d.PostalCode),
	}
}

// ValidateShippingData normalizes and validates, returning the normalized
// copy or a validation error whose details map field names to storefront
// messages.
func ValidateShippingData(validate *validator.Validate, data ShippingData) (ShippingData, error) {
	normalized := data.Normalize()
	err := validate.Struct(normalized)
	if err == nil {
		return normalized, nil
	}

	fieldErrors := map[string]string{}
	if invalid, ok := err.(validator.ValidationErrors); ok {
		for _, fieldErr := range invalid {
			message, known := shippingFieldMessages[fieldErr.StructField()]
			if !known {
				message = "Revisá este campo."
			}
			jsonField := strings.ToLower(fieldErr.StructField()[:1]) + fieldErr.StructField()[1:]
			fieldErrors[jsonField] = message
		}
	}
	return normalized, apperrors.New(apperrors.CodeValidation, "datos de envío incompletos").
		WithDetails(fieldErrors)
}

// ShippingRepository persists the shipping-data step per session.
type ShippingRepository interface {
	Load(ctx context.Context, sessionID string) (*ShippingData, error)
	Save(ctx context.Context, sessionID string, data ShippingData) error
}

// RedisShippingRepository is the server-side stand-in for the
// sessionStorage entry the storefront kept between checkout steps.
type RedisShippingRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisShippingRepository(client *redis.Client, ttl time.Duration) (*RedisShippingRepository, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	return &RedisShippingRepository{client: client, ttl: ttl}, nil
}

func (r *RedisShippingRepository) Load(ctx context.Context, sessionID string) (*ShippingData, error) {
	raw, err := r.client.Get(ctx, r.client.ShippingDataKey(sessionID))
	if err != nil {
		if redis.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("loading shipping data: %w", err)
	}

	var data ShippingData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, nil
	}
	return &data, nil
}

func (r *RedisShippingRepository) Save(ctx context.Context, sessionID string, data ShippingData) error {
	encoded, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encoding shipping data: %w", err)
	}
	if err := r.client.Set(ctx, r.client.ShippingDataKey(sessionID), string(encoded), r.ttl); err != nil {
		return fmt.Errorf("saving shipping data: %w", err)
	}
	return nil
}

// MemoryShippingRepository keeps shipping data in process.
type MemoryShippingRepository struct {
	mu   sync.Mutex
	data map[string]ShippingData
}

func NewMemoryShippingRepository() *MemoryShippingRepository {
	return &MemoryShippingRepository{data: make(map[string]ShippingData)}
}

func (m *MemoryShippingRepository) Load(_ context.Context, sessionID string) (*ShippingData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.data[sessionID]
	if !ok {
		return nil, nil
	}
	return &stored, nil
}

func (m *MemoryShippingRepository) Save(_ context.Context, sessionID string, data ShippingData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[sessionID] = data
	return nil
}
