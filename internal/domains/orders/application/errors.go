package application

import (
	"errors"
	"fmt"

	"github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/domains/orders/domain"
	"github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/domains/orders/ports"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid order input")
	// ErrInvalidActor signals the acting user may not change orders.
	ErrInvalidActor = errors.New("invalid acting user")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrMissingStoreID) ||
		errors.Is(err, domain.ErrNoItems) ||
		errors.Is(err, domain.ErrInvalidQuantity) ||
		errors.Is(err, domain.ErrInvalidPrice) ||
		errors.Is(err, domain.ErrMissingSKU) ||
		errors.Is(err, domain.ErrInvalidShipping) ||
		errors.Is(err, domain.ErrInvalidCustomerEmail) ||
		errors.Is(err, domain.ErrInvalidAmount) ||
		errors.Is(err, domain.ErrInvalidItemStatus) ||
		errors.Is(err, domain.ErrInvalidOrderStatus) ||
		errors.Is(err, domain.ErrStatusNotAdvanceable) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if errors.Is(err, ports.ErrUnknownActor) || errors.Is(err, ports.ErrInactiveActor) {
		return fmt.Errorf("%w: %w", ErrInvalidActor, err)
	}
	return err
}
