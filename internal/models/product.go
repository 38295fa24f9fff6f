package models

import (
	"fmt"
	"strings"
)

// Product is a catalog entry as returned by the catalog API.
// Values are never mutated after decoding.
type Product struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Price       int      `json:"price"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
	Category    Category `json:"category"`
}

// Category is embedded in every Product.
type Category struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

// PrimaryImage returns the first image URL, or "" when the product has none.
func (p Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// ShareText is the text offered when the user shares a product.
func (p Product) ShareText() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Check out this product: %s\n\n", p.Title))
	sb.WriteString(fmt.Sprintf("Category: %s\n", p.Category.Name))
	sb.WriteString(fmt.Sprintf("Description: %s\n", p.Description))
	sb.WriteString(fmt.Sprintf("Price: %d $", p.Price))
	return sb.String()
}

// FilterParameters is a transient price/category query.
// A nil field is omitted from the request; a pointer to "" is sent as an
// explicit empty value, which the catalog treats as a reset.
type FilterParameters struct {
	Price      *string `json:"price,omitempty"`
	PriceMin   *string `json:"price_min,omitempty"`
	PriceMax   *string `json:"price_max,omitempty"`
	CategoryID *string `json:"categoryId,omitempty"`
}

// ResetFilters returns parameters with every field present and empty.
func ResetFilters() FilterParameters {
	empty := func() *string { s := ""; return &s }
	return FilterParameters{
		Price:      empty(),
		PriceMin:   empty(),
		PriceMax:   empty(),
		CategoryID: empty(),
	}
}

// IsUnfiltered reports whether every field is absent.
func (f FilterParameters) IsUnfiltered() bool {
	return f.Price == nil && f.PriceMin == nil && f.PriceMax == nil && f.CategoryID == nil
}

// CartItem is one line item of the shopping cart.
type CartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}
