package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wekeepgrowing/shop-stripe/internal/domain/money"
	"gorm.io/datatypes"
)

// StripeTokenKey is the payment_method key holding the tokenized card.
const StripeTokenKey = "stripe_token"

// Cart holds the items a user is about to buy.
type Cart struct {
	ID            int64             `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID        *uuid.UUID        `gorm:"column:user_id;type:uuid;uniqueIndex" json:"user_id,omitempty"`
	Currency      string            `gorm:"size:3;not null;default:'USD'" json:"currency"`
	PaymentMethod datatypes.JSONMap `gorm:"column:payment_method" json:"payment_method"`
	Extra         datatypes.JSONMap `gorm:"column:extra" json:"extra"`
	CreatedAt     time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	User  *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Items []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
}

// TableName specifies the table name for GORM
func (Cart) TableName() string {
	return "carts"
}

// Total sums the line totals in the cart currency.
func (c *Cart) Total() money.Money {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.LineTotal())
	}
	return money.New(total, c.Currency)
}

// StripeToken returns the stored card token, if any.
func (c *Cart) StripeToken() (string, bool) {
	if c.PaymentMethod == nil {
		return "", false
	}
	token, ok := c.PaymentMethod[StripeTokenKey].(string)
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

func (c *Cart) SetStripeToken(token string) {
	if c.PaymentMethod == nil {
		c.PaymentMethod = datatypes.JSONMap{}
	}
	c.PaymentMethod[StripeTokenKey] = token
}

// Empty drops items and checkout state once the cart was turned into an order.
func (c *Cart) Empty() {
	c.Items = nil
	c.PaymentMethod = datatypes.JSONMap{}
	c.Extra = datatypes.JSONMap{}
}

// CartItem is a single product line of a cart.
type CartItem struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	CartID      int64           `gorm:"not null;index" json:"cart_id"`
	ProductCode string          `gorm:"size:100;not null" json:"product_code"`
	ProductName string          `gorm:"size:255" json:"product_name"`
	Quantity    int             `gorm:"not null;default:1" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"unit_price"`
}

// TableName specifies the table name for GORM
func (CartItem) TableName() string {
	return "cart_items"
}

func (i CartItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
