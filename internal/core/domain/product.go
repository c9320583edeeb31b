package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry referenced by cart and order lines.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	Category    string    `json:"category,omitempty"`
	Images      []string  `json:"images,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// LineTotal returns price × quantity rounded to cents.
func (p *Product) LineTotal(quantity int) float64 {
	return decimal.NewFromFloat(p.Price).
		Mul(decimal.NewFromInt(int64(quantity))).
		Round(2).
		InexactFloat64()
}

// ProductPatch lists the mutable product fields. Nil fields are left untouched.
type ProductPatch struct {
	Name        *string
	Description *string
	Price       *float64
	Stock       *int
	Category    *string
	Images      []string
}
