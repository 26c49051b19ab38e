package application

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	ordertypes "github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/domains/orders/application/types"
)

type normalizedCreateOrderInput struct {
	StoreID        string             `json:"storeId"`
	Customer       normalizedCustomer `json:"customer"`
	ShippingMethod string             `json:"shippingMethod"`
	Items          []normalizedItem   `json:"items"`
	SalesTax       string             `json:"salesTax"`
	Shipping       string             `json:"shipping"`
	Note           string             `json:"note"`
}

type normalizedCustomer struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

type normalizedItem struct {
	ProductID string `json:"productId"`
	SKU       string `json:"sku"`
	Name      string `json:"name"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unitPrice"`
}

// FingerprintCreateOrder builds a deterministic hash of the create-order payload (excluding the idempotency key
// and the acting user).
func FingerprintCreateOrder(input ordertypes.CreateOrderInput) (string, error) {
	payload, err := json.Marshal(normalizeCreateOrderInput(input))
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}

func normalizeCreateOrderInput(input ordertypes.CreateOrderInput) normalizedCreateOrderInput {
	items := make([]normalizedItem, 0, len(input.Items))
	for _, item := range input.Items {
		items = append(items, normalizedItem{
			ProductID: item.ProductID,
			SKU:       strings.TrimSpace(item.SKU),
			Name:      item.Name,
			Size:      item.Size,
			Color:     item.Color,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice.String(),
		})
	}
	return normalizedCreateOrderInput{
		StoreID: strings.TrimSpace(input.StoreID),
		Customer: normalizedCustomer{
			FirstName: input.Customer.FirstName,
			LastName:  input.Customer.LastName,
			Email:     strings.ToLower(strings.TrimSpace(input.Customer.Email)),
			Phone:     input.Customer.Phone,
		},
		ShippingMethod: input.ShippingMethod,
		Items:          items,
		SalesTax:       input.SalesTax.String(),
		Shipping:       input.Shipping.String(),
		Note:           input.Note,
	}
}
