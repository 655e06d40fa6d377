package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// PaymentMethodStripe labels payments captured through Stripe.
const PaymentMethodStripe = "stripe-payment"

// OrderStatus is the workflow state of an order.
type OrderStatus string

const (
	OrderStatusNew              OrderStatus = "new"
	OrderStatusCreated          OrderStatus = "created"
	OrderStatusChargeCreditCard OrderStatus = "charge_credit_card"
	OrderStatusPaymentConfirmed OrderStatus = "payment_confirmed"
)

var statusLabels = map[OrderStatus]string{
	OrderStatusNew:              "New order without content",
	OrderStatusCreated:          "Order freshly created",
	OrderStatusChargeCreditCard: "Paid by Credit Card",
	OrderStatusPaymentConfirmed: "Payment confirmed",
}

// Label is the human readable name of a status.
func (s OrderStatus) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

// Order is the record created from a cart during checkout.
type Order struct {
	ID        int64             `gorm:"primaryKey;autoIncrement" json:"id"`
	Number    string            `gorm:"size:32;uniqueIndex;not null" json:"number"`
	UserID    uuid.UUID         `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	Status    OrderStatus       `gorm:"size:50;not null;index" json:"status"`
	Currency  string            `gorm:"size:3;not null" json:"currency"`
	Subtotal  decimal.Decimal   `gorm:"type:decimal(20,4);not null;default:0" json:"subtotal"`
	Total     decimal.Decimal   `gorm:"type:decimal(20,4);not null;default:0" json:"total"`
	Extra     datatypes.JSONMap `gorm:"column:extra" json:"extra,omitempty"`
	CreatedAt time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	Items    []OrderItem    `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	Payments []OrderPayment `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"payments"`
}

// TableName specifies the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// orderNumberAlphabet leaves out characters that are easy to misread (0/O, 1/I)
const orderNumberAlphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"

// NewOrderNumber builds a human readable order number such as 20261019-K7Q2MZ9D.
func NewOrderNumber(now time.Time) string {
	suffix := gonanoid.MustGenerate(orderNumberAlphabet, 8)
	return fmt.Sprintf("%s-%s", now.UTC().Format("20060102"), suffix)
}

// PopulateFromCart snapshots the cart items and totals into the order.
func (o *Order) PopulateFromCart(cart *Cart) {
	o.Currency = cart.Total().Currency
	o.Items = make([]OrderItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		o.Items = append(o.Items, OrderItem{
			ProductCode: item.ProductCode,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			LineTotal:   item.LineTotal(),
		})
	}
	total := cart.Total()
	o.Subtotal = total.Amount
	o.Total = total.Amount
	if len(cart.Extra) > 0 {
		o.Extra = datatypes.JSONMap{}
		for k, v := range cart.Extra {
			o.Extra[k] = v
		}
	}
}

// AmountPaid sums the payments recorded in the order currency.
func (o *Order) AmountPaid() decimal.Decimal {
	paid := decimal.Zero
	for _, p := range o.Payments {
		if strings.EqualFold(p.Currency, o.Currency) {
			paid = paid.Add(p.Amount)
		}
	}
	return paid
}

func (o *Order) IsFullyPaid() bool {
	return o.AmountPaid().GreaterThanOrEqual(o.Total)
}

// OrderItem is the snapshot of a cart line at purchase time.
type OrderItem struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID     int64           `gorm:"not null;index" json:"order_id"`
	ProductCode string          `gorm:"size:100;not null" json:"product_code"`
	ProductName string          `gorm:"size:255" json:"product_name"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"unit_price"`
	LineTotal   decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"line_total"`
}

// TableName specifies the table name for GORM
func (OrderItem) TableName() string {
	return "order_items"
}

// OrderPayment records money received for an order.
type OrderPayment struct {
	ID            int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID       int64           `gorm:"not null;index" json:"order_id"`
	Amount        decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"amount"`
	Currency      string          `gorm:"size:3;not null" json:"currency"`
	TransactionID string          `gorm:"size:255;not null;index" json:"transaction_id"`
	PaymentMethod string          `gorm:"size:50;not null" json:"payment_method"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for GORM
func (OrderPayment) TableName() string {
	return "order_payments"
}
