package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	ordertypes "github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/domains/orders/application/types"
	"github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/domains/orders/domain"
	"github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/domains/orders/ports"
)

// Service orchestrates order use cases. Every mutation reads the order,
// applies the domain change in memory and writes it back with one
// version-checked update.
type Service struct {
	repo        ports.Repository
	idempotency ports.IdempotencyStore
	actors      ports.ActorDirectory
	now         func() time.Time
	newID       func() string
}

type Option func(*Service)

// WithClock overrides the time source for deterministic testing.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = func() time.Time { return domain.Timestamp(now()) }
		}
	}
}

// WithIDGenerator overrides how order and item identifiers are minted.
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// WithIdempotencyStore enables replay-safe order creation.
func WithIdempotencyStore(store ports.IdempotencyStore) Option {
	return func(s *Service) {
		s.idempotency = store
	}
}

// WithActorDirectory requires acting users to be known, active staff.
func WithActorDirectory(directory ports.ActorDirectory) Option {
	return func(s *Service) {
		s.actors = directory
	}
}

func NewService(repo ports.Repository, opts ...Option) *Service {
	s := &Service{
		repo:  repo,
		now:   func() time.Time { return domain.Timestamp(time.Now()) },
		newID: func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// CreateOrder records a new Unfulfilled order. With an idempotency key, a
// retried submission returns the order created by the first attempt.
func (s *Service) CreateOrder(ctx context.Context, input ordertypes.CreateOrderInput) (*domain.Order, error) {
	actor, err := s.resolveActor(ctx, input.Actor)
	if err != nil {
		return nil, err
	}
	orderID := s.newID()
	key := strings.TrimSpace(input.IdempotencyKey)
	if key != "" && s.idempotency != nil {
		replayed, claimedID, err := s.claimIdempotencyKey(ctx, key, orderID, input)
		if err != nil || replayed != nil {
			return replayed, err
		}
		orderID = claimedID
	}

	items := make([]domain.Item, 0, len(input.Items))
	for _, item := range input.Items {
		items = append(items, domain.Item{
			ID:        s.newID(),
			ProductID: item.ProductID,
			SKU:       strings.TrimSpace(item.SKU),
			Name:      item.Name,
			Size:      item.Size,
			Color:     item.Color,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	customer := domain.Customer{
		FirstName: input.Customer.FirstName,
		LastName:  input.Customer.LastName,
		Email:     strings.TrimSpace(input.Customer.Email),
		Phone:     input.Customer.Phone,
	}
	order, err := domain.NewOrder(orderID, input.StoreID, customer, domain.ShippingMethod(input.ShippingMethod), items, input.SalesTax, input.Shipping, actor, s.now())
	if err != nil {
		return nil, mapError(err)
	}
	order.Note = input.Note
	created, err := s.repo.Create(ctx, order)
	if err != nil {
		if key != "" && errors.Is(err, ports.ErrAlreadyExists) {
			return s.repo.GetByID(ctx, order.StoreID, order.ID)
		}
		return nil, mapError(err)
	}
	return created, nil
}

// claimIdempotencyKey binds key to orderID. When the key was already used for
// the same payload it returns the stored order, or the id to recreate it under
// if the earlier attempt never persisted it.
func (s *Service) claimIdempotencyKey(ctx context.Context, key, orderID string, input ordertypes.CreateOrderInput) (*domain.Order, string, error) {
	hash, err := FingerprintCreateOrder(input)
	if err != nil {
		return nil, "", err
	}
	storeID := strings.TrimSpace(input.StoreID)
	record, err := s.idempotency.Save(ctx, ports.IdempotencyRecord{
		Key:         key,
		RequestHash: hash,
		StoreID:     storeID,
		OrderID:     orderID,
	})
	if err != nil {
		return nil, "", err
	}
	if record == nil || record.OrderID == orderID {
		return nil, orderID, nil
	}
	// Same request seen before: the first attempt's order id wins.
	existing, getErr := s.repo.GetByID(ctx, record.StoreID, record.OrderID)
	if getErr == nil {
		return existing, "", nil
	}
	if !errors.Is(getErr, ports.ErrNotFound) {
		return nil, "", getErr
	}
	return nil, record.OrderID, nil
}

func (s *Service) GetOrder(ctx context.Context, input ordertypes.OrderIdentifier) (*domain.Order, error) {
	if err := validateIdentifier(input.StoreID, input.OrderID); err != nil {
		return nil, err
	}
	order, err := s.repo.GetByID(ctx, input.StoreID, input.OrderID)
	if err != nil {
		return nil, mapError(err)
	}
	return order, nil
}

// ListStoreOrders returns a store's orders, optionally narrowed to some aggregate statuses.
func (s *Service) ListStoreOrders(ctx context.Context, input ordertypes.ListStoreOrdersInput) ([]*domain.Order, error) {
	if strings.TrimSpace(input.StoreID) == "" {
		return nil, mapError(domain.ErrMissingStoreID)
	}
	if input.Limit < 0 || input.Offset < 0 {
		return nil, fmt.Errorf("%w: limit and offset must not be negative", ErrInvalidInput)
	}
	statuses := make([]domain.OrderStatus, 0, len(input.Statuses))
	for _, raw := range input.Statuses {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		status, err := domain.ParseOrderStatus(strings.TrimSpace(raw))
		if err != nil {
			return nil, mapError(err)
		}
		statuses = append(statuses, status)
	}
	orders, err := s.repo.ListByStore(ctx, input.StoreID, ports.ListFilter{
		Statuses: statuses,
		Limit:    input.Limit,
		Offset:   input.Offset,
	})
	if err != nil {
		return nil, mapError(err)
	}
	return orders, nil
}

// StatusSummary counts a store's orders per aggregate status.
func (s *Service) StatusSummary(ctx context.Context, storeID string) (*ordertypes.StatusSummary, error) {
	if strings.TrimSpace(storeID) == "" {
		return nil, mapError(domain.ErrMissingStoreID)
	}
	orders, err := s.repo.ListByStore(ctx, storeID, ports.ListFilter{})
	if err != nil {
		return nil, mapError(err)
	}
	return ordertypes.NewStatusSummary(storeID, orders), nil
}

// UpdateItemStatus moves one item to the requested status, or one step
// forward when no status is given, and reconciles the order status.
func (s *Service) UpdateItemStatus(ctx context.Context, input ordertypes.UpdateItemStatusInput) (*domain.Order, error) {
	actor, err := s.resolveActor(ctx, input.Actor)
	if err != nil {
		return nil, err
	}
	var target *domain.ItemStatus
	if input.Target != nil && strings.TrimSpace(*input.Target) != "" {
		parsed, err := domain.ParseItemStatus(strings.TrimSpace(*input.Target))
		if err != nil {
			return nil, mapError(err)
		}
		target = &parsed
	}
	order, err := s.load(ctx, input.StoreID, input.OrderID, input.ExpectedVersion)
	if err != nil {
		return nil, err
	}
	if _, err := order.SetItemStatus(input.ItemID, target, actor, s.now()); err != nil {
		return nil, mapError(err)
	}
	return s.save(ctx, order)
}

// FulfillOrder marks every Unfulfilled item Fulfilled. An order with nothing
// to fulfil is returned without a write.
func (s *Service) FulfillOrder(ctx context.Context, input ordertypes.FulfillOrderInput) (*domain.Order, error) {
	actor, err := s.resolveActor(ctx, input.Actor)
	if err != nil {
		return nil, err
	}
	order, err := s.load(ctx, input.StoreID, input.OrderID, input.ExpectedVersion)
	if err != nil {
		return nil, err
	}
	if order.FulfillPending(actor, s.now()) == 0 {
		return order, nil
	}
	return s.save(ctx, order)
}

// CancelOrder cancels every item that has not shipped and refunds the order in full.
func (s *Service) CancelOrder(ctx context.Context, input ordertypes.CancelOrderInput) (*domain.Order, error) {
	actor, err := s.resolveActor(ctx, input.Actor)
	if err != nil {
		return nil, err
	}
	order, err := s.load(ctx, input.StoreID, input.OrderID, input.ExpectedVersion)
	if err != nil {
		return nil, err
	}
	if err := order.Cancel(actor, strings.TrimSpace(input.Reason), s.now()); err != nil {
		return nil, mapError(err)
	}
	return s.save(ctx, order)
}

// ShipOrder ships the Fulfilled items of one order.
func (s *Service) ShipOrder(ctx context.Context, input ordertypes.ShipOrderInput) (*ordertypes.ShipOrderResult, error) {
	actor, err := s.resolveActor(ctx, input.Actor)
	if err != nil {
		return nil, err
	}
	order, err := s.load(ctx, input.StoreID, input.OrderID, nil)
	if err != nil {
		return nil, err
	}
	return s.ship(ctx, order, actor)
}

// TriggerShipment ships every Fulfilled item across the store's orders. A
// failure on one order does not stop the run; failures are returned joined
// together with the partial result.
func (s *Service) TriggerShipment(ctx context.Context, input ordertypes.TriggerShipmentInput) (*ordertypes.ShipmentResult, error) {
	if strings.TrimSpace(input.StoreID) == "" {
		return nil, mapError(domain.ErrMissingStoreID)
	}
	actor, err := s.resolveActor(ctx, input.Actor)
	if err != nil {
		return nil, err
	}
	orders, err := s.repo.ListByStore(ctx, input.StoreID, ports.ListFilter{})
	if err != nil {
		return nil, mapError(err)
	}
	result := &ordertypes.ShipmentResult{StoreID: input.StoreID}
	var errs []error
	for _, order := range orders {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		shipped, err := s.ship(ctx, order, actor)
		if err != nil {
			result.Fail(order.ID)
			errs = append(errs, fmt.Errorf("order %s: %w", order.ID, err))
			continue
		}
		result.Add(order.ID, shipped.ItemsShipped)
	}
	return result, errors.Join(errs...)
}

func (s *Service) ship(ctx context.Context, order *domain.Order, actor string) (*ordertypes.ShipOrderResult, error) {
	moved := order.Ship(actor, s.now())
	if moved == 0 {
		return &ordertypes.ShipOrderResult{Order: order}, nil
	}
	saved, err := s.save(ctx, order)
	if err != nil {
		return nil, err
	}
	return &ordertypes.ShipOrderResult{Order: saved, ItemsShipped: moved}, nil
}

func (s *Service) load(ctx context.Context, storeID, orderID string, expectedVersion *int64) (*domain.Order, error) {
	if err := validateIdentifier(storeID, orderID); err != nil {
		return nil, err
	}
	order, err := s.repo.GetByID(ctx, storeID, orderID)
	if err != nil {
		return nil, mapError(err)
	}
	if expectedVersion != nil && *expectedVersion != order.Version {
		return nil, fmt.Errorf("%w: expected version %d, found %d", ports.ErrVersionConflict, *expectedVersion, order.Version)
	}
	return order, nil
}

func (s *Service) save(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	saved, err := s.repo.Update(ctx, order)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

func (s *Service) resolveActor(ctx context.Context, actor string) (string, error) {
	actor = strings.TrimSpace(actor)
	if actor == "" {
		return "", fmt.Errorf("%w: acting user is required", ErrInvalidInput)
	}
	if s.actors == nil {
		return actor, nil
	}
	resolved, err := s.actors.ResolveActor(ctx, actor)
	if err != nil {
		return "", mapError(err)
	}
	return resolved, nil
}

func validateIdentifier(storeID, orderID string) error {
	if strings.TrimSpace(storeID) == "" {
		return mapError(domain.ErrMissingStoreID)
	}
	if strings.TrimSpace(orderID) == "" {
		return fmt.Errorf("%w: order id is required", ErrInvalidInput)
	}
	return nil
}

var _ ports.Service = (*Service)(nil)
