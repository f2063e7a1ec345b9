package cart

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is the snapshot of a store product kept on a line item.
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Thumbnail   string          `json:"thumbnail_url,omitempty"`
	RetailPrice decimal.Decimal `json:"retail_price"`
}

// Variant is the selected sync variant, when the product has one.
type Variant struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	RetailPrice decimal.Decimal `json:"retail_price"`
	Image       string          `json:"image,omitempty"`
}

// LineItem is one cart entry. Identity is (product id, variant id or
// absent); quantity is always at least 1.
type LineItem struct {
	Product  Product   `json:"product"`
	Variant  *Variant  `json:"variant,omitempty"`
	Quantity int       `json:"quantity"`
	AddedAt  time.Time `json:"added_at"`
}

// UnitPrice prefers the variant's retail price, then the product's.
func (li LineItem) UnitPrice() decimal.Decimal {
	if li.Variant != nil && li.Variant.RetailPrice.IsPositive() {
		return li.Variant.RetailPrice
	}
	return li.Product.RetailPrice
}

func (li LineItem) variantID() int64 {
	if li.Variant == nil {
		return 0
	}
	return li.Variant.ID
}

func (li LineItem) matches(productID, variantID int64) bool {
	return li.Product.ID == productID && li.variantID() == variantID
}

// Cart is the mutable line-item collection. Open tracks the UI panel
// visibility flag, raised whenever an item is added.
type Cart struct {
	Items []LineItem `json:"items"`
	Open  bool       `json:"open"`
}

// Add merges the quantity into an existing line with the same identity,
// or appends a new line stamped with the current time. Non-positive
// quantities count as 1.
func (c *Cart) Add(product Product, quantity int, variant *Variant) {
	if quantity < 1 {
		quantity = 1
	}

	var variantID int64
	if variant != nil {
		variantID = variant.ID
	}

	for i := range c.Items {
		if c.Items[i].matches(product.ID, variantID) {
			c.Items[i].Quantity += quantity
			c.Open = true
			return
		}
	}

	c.Items = append(c.Items, LineItem{
		Product:  product,
		Variant:  variant,
		Quantity: quantity,
		AddedAt:  time.Now().UTC(),
	})
	c.Open = true
}

// Remove deletes the matching line item. Missing items are a no-op.
func (c *Cart) Remove(productID, variantID int64) {
	kept := c.Items[:0]
	for _, item := range c.Items {
		if !item.matches(productID, variantID) {
			kept = append(kept, item)
		}
	}
	c.Items = kept
}

// UpdateQuantity replaces the quantity in place; zero or negative
// quantities remove the item so a non-positive line never survives.
func (c *Cart) UpdateQuantity(productID, variantID int64, quantity int) {
	if quantity <= 0 {
		c.Remove(productID, variantID)
		return
	}
	for i := range c.Items {
		if c.Items[i].matches(productID, variantID) {
			c.Items[i].Quantity = quantity
			return
		}
	}
}

// Clear empties the collection.
func (c *Cart) Clear() {
	c.Items = nil
}

// IsEmpty reports whether the cart has no line items.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Total sums unit price times quantity across line items.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.UnitPrice().Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// Count sums quantities across line items.
func (c *Cart) Count() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}
