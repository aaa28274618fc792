package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Guizzs26/go-order-guard/internal/events"
	"github.com/Guizzs26/go-order-guard/internal/models"
	"github.com/Guizzs26/go-order-guard/internal/validation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sentinel errors the API layer maps to response codes
var (
	ErrUserInvalid           = errors.New("user does not exist")
	ErrValidationUnavailable = errors.New("user validation temporarily unavailable")
)

// Validator decides whether a user may anchor a new order
type Validator interface {
	Validate(ctx context.Context, userID string) validation.Result
}

// OrderRepository defines the contract for order persistence
type OrderRepository interface {
	Insert(ctx context.Context, o models.Order) error
	GetByID(ctx context.Context, id string) (models.Order, error)
	Cancel(ctx context.Context, id string) (models.Order, error)
}

// Publisher emits domain events best-effort after a commit
type Publisher interface {
	Emit(ctx context.Context, routingKey string, payload any)
}

// OrderService orchestrates validation, persistence and event emission for orders
type OrderService struct {
	repo      OrderRepository
	validator Validator
	publisher Publisher
	logger    *slog.Logger
}

func NewOrderService(r OrderRepository, v Validator, p Publisher, l *slog.Logger) *OrderService {
	return &OrderService{
		repo:      r,
		validator: v,
		publisher: p,
		logger:    l,
	}
}

// CreateOrder validates the foreign user, commits the order, then emits
// order.created. The event is a side channel: a failed publish never undoes
// or fails an already-committed order
func (s *OrderService) CreateOrder(ctx context.Context, userID string, amount decimal.Decimal) (models.Order, error) {
	l := s.logger.With("user_id", userID)

	switch result := s.validator.Validate(ctx, userID); result {
	case validation.Invalid:
		l.Info("Order rejected: user definitively absent")
		return models.Order{}, ErrUserInvalid
	case validation.Unavailable:
		l.Warn("Order rejected: user validation unavailable")
		return models.Order{}, ErrValidationUnavailable
	}

	order := models.Order{
		ID:        uuid.NewString(),
		UserID:    userID,
		Amount:    amount,
		Status:    models.OrderStatusCreated,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Insert(ctx, order); err != nil {
		return models.Order{}, fmt.Errorf("order persistence failed: %w", err)
	}

	s.publisher.Emit(ctx, events.OrderCreated, order)

	l.Info("Order created", "order_id", order.ID, "amount", order.Amount)
	return order, nil
}

// CancelOrder performs the one-way created -> cancelled transition
func (s *OrderService) CancelOrder(ctx context.Context, id string) (models.Order, error) {
	order, err := s.repo.Cancel(ctx, id)
	if err != nil {
		return models.Order{}, err
	}

	s.publisher.Emit(ctx, events.OrderCancelled, order)

	s.logger.Info("Order cancelled", "order_id", order.ID)
	return order, nil
}

func (s *OrderService) GetOrder(ctx context.Context, id string) (models.Order, error) {
	return s.repo.GetByID(ctx, id)
}
