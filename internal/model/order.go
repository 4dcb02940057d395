package model

import "github.com/shopspring/decimal"

// OrderStatus has no enforced transition graph.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

// OrderStatuses lists every valid status.
var OrderStatuses = []OrderStatus{
	OrderPending,
	OrderProcessing,
	OrderShipped,
	OrderDelivered,
	OrderCancelled,
}

// Valid reports whether s is one of OrderStatuses.
func (s OrderStatus) Valid() bool {
	for _, v := range OrderStatuses {
		if s == v {
			return true
		}
	}
	return false
}

type OrderItem struct {
	ID       int     `json:"id,omitempty"`
	Name     string  `json:"name" validate:"required"`
	Quantity int     `json:"quantity" validate:"gte=1"`
	Price    float64 `json:"price" validate:"gt=0"`
	GST      float64 `json:"gst" validate:"gte=0"`
}

// Total is quantity * price * (1 + gst/100).
func (i OrderItem) Total() decimal.Decimal {
	base := decimal.NewFromFloat(i.Price).Mul(decimal.NewFromInt(int64(i.Quantity)))
	tax := base.Mul(decimal.NewFromFloat(i.GST)).Div(decimal.NewFromInt(100))
	return base.Add(tax)
}

type Order struct {
	ID              int         `json:"id"`
	OrderNumber     string      `json:"orderNumber"`
	CustomerName    string      `json:"customerName" validate:"required"`
	CustomerPhone   string      `json:"customerPhone" validate:"required"`
	CustomerEmail   string      `json:"customerEmail,omitempty" validate:"omitempty,email"`
	CustomerAddress string      `json:"customerAddress,omitempty"`
	Items           []OrderItem `json:"items" validate:"required,min=1,dive"`
	Status          OrderStatus `json:"status"`
	OrderDate       string      `json:"orderDate"`
	DeliveryDate    string      `json:"deliveryDate,omitempty"`
	PaymentMethod   string      `json:"paymentMethod,omitempty"`
	Notes           string      `json:"notes,omitempty"`
}

// Total sums the item totals.
func (o Order) Total() decimal.Decimal {
	sum := decimal.Zero
	for _, it := range o.Items {
		sum = sum.Add(it.Total())
	}
	return sum
}

// OrderPatch is a partial order. Nil fields are left untouched by Apply.
type OrderPatch struct {
	CustomerName    *string      `json:"customerName,omitempty" validate:"omitempty,min=1"`
	CustomerPhone   *string      `json:"customerPhone,omitempty" validate:"omitempty,min=1"`
	CustomerEmail   *string      `json:"customerEmail,omitempty" validate:"omitempty,email"`
	CustomerAddress *string      `json:"customerAddress,omitempty"`
	Items           *[]OrderItem `json:"items,omitempty" validate:"omitempty,min=1,dive"`
	Status          *OrderStatus `json:"status,omitempty" validate:"omitempty,oneof=pending processing shipped delivered cancelled"`
	DeliveryDate    *string      `json:"deliveryDate,omitempty"`
	PaymentMethod   *string      `json:"paymentMethod,omitempty"`
	Notes           *string      `json:"notes,omitempty"`
}

// Apply merges the non-nil fields of the patch into o.
func (op OrderPatch) Apply(o *Order) {
	if op.CustomerName != nil {
		o.CustomerName = *op.CustomerName
	}
	if op.CustomerPhone != nil {
		o.CustomerPhone = *op.CustomerPhone
	}
	if op.CustomerEmail != nil {
		o.CustomerEmail = *op.CustomerEmail
	}
	if op.CustomerAddress != nil {
		o.CustomerAddress = *op.CustomerAddress
	}
	if op.Items != nil {
		o.Items = append([]OrderItem(nil), (*op.Items)...)
	}
	if op.Status != nil {
		o.Status = *op.Status
	}
	if op.DeliveryDate != nil {
		o.DeliveryDate = *op.DeliveryDate
	}
	if op.PaymentMethod != nil {
		o.PaymentMethod = *op.PaymentMethod
	}
	if op.Notes != nil {
		o.Notes = *op.Notes
	}
}
