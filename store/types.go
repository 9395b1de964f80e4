// Package store holds order types annotated for the deriver.
package store

import (
	"time"
)

//go:generate go run deriver/cmd/deriver gen .

// Product represents an individual item available for sale.
// Prices are kept in cents to avoid floating-point errors.
//
//derive:use Default(new)
type Product struct {
	ID   int64  `json:"id"`
	SKU  string `json:"sku"`
	Name string `json:"name"`
	//derive:use Default("1")
	Inventory  int       `json:"inventory_count"`
	PriceCents int64     `json:"price_cents"`
	CreatedAt  time.Time `json:"created_at"`
}

// Customer represents the user placing orders.
//
//derive:use Default
type Customer struct {
	ID       int64   `json:"id"`
	Email    string  `json:"email"`
	Address  *string `json:"address"`
	IsActive bool    `derive:"Default(\"true\")" json:"is_active"`
}

// Order represents a transaction made by a customer.
//
//derive:use Default, DerefMut
type Order struct {
	ID         int64       `json:"id"`
	CustomerID int64       `json:"customer_id"`
	Status     OrderStatus `json:"status"` //derive:use Default("StatusPending")
	Items      []OrderItem `derive:"DerefMut" json:"items"`
	OrderedAt  time.Time   `json:"ordered_at"`
}

// OrderItem is not annotated and is skipped by the deriver.
type OrderItem struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
}

// Payment holds exactly one payment method.
//
//derive:kind union
//derive:use Default
type Payment struct {
	//derive:use Default
	Card     *CardPayment
	Transfer *BankTransfer
}

// CardPayment is a card charge.
type CardPayment struct {
	Last4 string
}

// BankTransfer is a wire transfer.
type BankTransfer struct {
	IBAN string
}

// Tracked wraps an order with audit data.
//
//derive:use Deref, DerefMut
type Tracked struct {
	*Order
	UpdatedAt time.Time
}

// OrderStatus is a custom type for type-safe status handling.
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusPaid      OrderStatus = "PAID"
	StatusShipped   OrderStatus = "SHIPPED"
	StatusCancelled OrderStatus = "CANCELLED"
)
