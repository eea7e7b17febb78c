package model

import "github.com/shopspring/decimal"

func init() {
	// The commerce API exchanges prices and totals as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// Product is a catalog item. A null Price marks a priceless product that
// cannot be bought.
type Product struct {
	ID          string              `json:"id" yaml:"id"`
	Title       string              `json:"title" yaml:"title"`
	Description string              `json:"description" yaml:"description"`
	Image       string              `json:"image" yaml:"image"`
	Category    string              `json:"category" yaml:"category"`
	Price       decimal.NullDecimal `json:"price" yaml:"-"`
}

// Priceless reports whether the product has no price.
func (p Product) Priceless() bool {
	return !p.Price.Valid
}

// PriceOrZero returns the price, or zero for priceless products.
func (p Product) PriceOrZero() decimal.Decimal {
	if !p.Price.Valid {
		return decimal.Zero
	}
	return p.Price.Decimal
}

// Price builds a valid NullDecimal from an integer amount.
func Price(amount int64) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.NewFromInt(amount))
}

// ProductList is the response of the catalog endpoint.
type ProductList struct {
	Total int       `json:"total"`
	Items []Product `json:"items"`
}

// SumPrices adds the prices of products, counting priceless ones as zero.
func SumPrices(products []Product) decimal.Decimal {
	total := decimal.Zero
	for _, p := range products {
		total = total.Add(p.PriceOrZero())
	}
	return total
}
