package model

import "github.com/shopspring/decimal"

// ProductStatus is the Active/Inactive flag of a product. Any status may be
// set to any other.
type ProductStatus string

const (
	StatusActive   ProductStatus = "Active"
	StatusInactive ProductStatus = "Inactive"
)

// DefaultMinStock applies when a product carries no minStock.
const DefaultMinStock = 10

// Product is an inventory item.
type Product struct {
	ID        int           `json:"id"`
	Name      string        `json:"name" validate:"required"`
	Category  string        `json:"category" validate:"required"`
	Price     float64       `json:"price" validate:"gte=0"`
	Stock     int           `json:"stock" validate:"gte=0"`
	Status    ProductStatus `json:"status" validate:"omitempty,oneof=Active Inactive"`
	GST       float64       `json:"gst" validate:"gte=0"`
	HSN       string        `json:"hsn,omitempty" validate:"omitempty,hsn"`
	MinStock  *int          `json:"minStock,omitempty" validate:"omitempty,gte=0"`
	Supplier  string        `json:"supplier,omitempty"`
	Location  string        `json:"location"`
	CreatedAt string        `json:"createdAt"`
}

// EffectiveMinStock returns minStock, or DefaultMinStock when it is absent.
func (p Product) EffectiveMinStock() int {
	if p.MinStock == nil {
		return DefaultMinStock
	}
	return *p.MinStock
}

// IsLowStock reports stock <= minStock.
func (p Product) IsLowStock() bool {
	return p.Stock <= p.EffectiveMinStock()
}

// GSTAmount is price * gst / 100.
func (p Product) GSTAmount() decimal.Decimal {
	return decimal.NewFromFloat(p.Price).
		Mul(decimal.NewFromFloat(p.GST)).
		Div(decimal.NewFromInt(100))
}

// TotalPrice is price plus GSTAmount.
func (p Product) TotalPrice() decimal.Decimal {
	return decimal.NewFromFloat(p.Price).Add(p.GSTAmount())
}

// StockValue is price * stock.
func (p Product) StockValue() decimal.Decimal {
	return decimal.NewFromFloat(p.Price).Mul(decimal.NewFromInt(int64(p.Stock)))
}

// ProductPatch is a partial product. Nil fields are left untouched by Apply.
type ProductPatch struct {
	Name     *string        `json:"name,omitempty" validate:"omitempty,min=1"`
	Category *string        `json:"category,omitempty" validate:"omitempty,min=1"`
	Price    *float64       `json:"price,omitempty" validate:"omitempty,gte=0"`
	Stock    *int           `json:"stock,omitempty" validate:"omitempty,gte=0"`
	Status   *ProductStatus `json:"status,omitempty" validate:"omitempty,oneof=Active Inactive"`
	GST      *float64       `json:"gst,omitempty" validate:"omitempty,gte=0"`
	HSN      *string        `json:"hsn,omitempty" validate:"omitempty,hsn"`
	MinStock *int           `json:"minStock,omitempty" validate:"omitempty,gte=0"`
	Supplier *string        `json:"supplier,omitempty"`
	Location *string        `json:"location,omitempty"`
}

// Apply merges the non-nil fields of the patch into p.
func (pp ProductPatch) Apply(p *Product) {
	if pp.Name != nil {
		p.Name = *pp.Name
	}
	if pp.Category != nil {
		p.Category = *pp.Category
	}
	if pp.Price != nil {
		p.Price = *pp.Price
	}
	if pp.Stock != nil {
		p.Stock = *pp.Stock
	}
	if pp.Status != nil {
		p.Status = *pp.Status
	}
	if pp.GST != nil {
		p.GST = *pp.GST
	}
	if pp.HSN != nil {
		p.HSN = *pp.HSN
	}
	if pp.MinStock != nil {
		v := *pp.MinStock
		p.MinStock = &v
	}
	if pp.Supplier != nil {
		p.Supplier = *pp.Supplier
	}
	if pp.Location != nil {
		p.Location = *pp.Location
	}
}

// ProductView is a product with its derived values, as served over HTTP.
type ProductView struct {
	Product
	GSTAmount  float64 `json:"gstAmount"`
	TotalPrice float64 `json:"totalPrice"`
	IsLowStock bool    `json:"isLowStock"`
}

// NewProductView computes the derived values of p.
func NewProductView(p Product) ProductView {
	return ProductView{
		Product:    p,
		GSTAmount:  p.GSTAmount().InexactFloat64(),
		TotalPrice: p.TotalPrice().InexactFloat64(),
		IsLowStock: p.IsLowStock(),
	}
}
