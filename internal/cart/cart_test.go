package cart

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestAddMergesMatchingLineItems(t *testing.T) {
	t.Parallel()

	c := &Cart{}
	product := Product{ID: 42, Name: "Podcast Tee"}
	variant := &Variant{ID: 7, Name: "Black / L", RetailPrice: price("19.99")}

	c.Add(product, 2, variant)
	c.Add(product, 3, variant)

	if len(c.Items) != 1 {
		t.Fatalf("expected one merged line item, got %d", len(c.Items))
	}
	if c.Items[0].Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", c.Items[0].Quantity)
	}
	if !c.Open {
		t.Fatal("adding must raise the cart-open flag")
	}
}

func TestAddDistinguishesVariants(t *testing.T) {
	t.Parallel()

	c := &Cart{}
	product := Product{ID: 42, Name: "Podcast Tee"}

	c.Add(product, 1, &Variant{ID: 7, RetailPrice: price("19.99")})
	c.Add(product, 1, &Variant{ID: 8, RetailPrice: price("21.99")})
	c.Add(product, 1, nil)

	if len(c.Items) != 3 {
		t.Fatalf("expected three distinct lines, got %d", len(c.Items))
	}
}

func TestAddNonPositiveQuantityDefaultsToOne(t *testing.T) {
	t.Parallel()

	c := &Cart{}
	c.Add(Product{ID: 1}, 0, nil)
	if c.Items[0].Quantity != 1 {
		t.Fatalf("expected quantity 1, got %d", c.Items[0].Quantity)
	}
}

func TestUpdateQuantityRemovesNonPositive(t *testing.T) {
	t.Parallel()

	c := &Cart{}
	c.Add(Product{ID: 42}, 2, &Variant{ID: 7, RetailPrice: price("19.99")})

	c.UpdateQuantity(42, 7, 0)
	if !c.IsEmpty() {
		t.Fatal("quantity 0 must remove the line item")
	}

	c.Add(Product{ID: 42}, 2, &Variant{ID: 7, RetailPrice: price("19.99")})
	c.UpdateQuantity(42, 7, -5)
	if !c.IsEmpty() {
		t.Fatal("negative quantity must remove the line item")
	}
}

func TestUpdateQuantityReplacesInPlace(t *testing.T) {
	t.Parallel()

	c := &Cart{}
	c.Add(Product{ID: 42}, 2, &Variant{ID: 7, RetailPrice: price("19.99")})
	c.UpdateQuantity(42, 7, 9)

	if c.Items[0].Quantity != 9 {
		t.Fatalf("expected quantity 9, got %d", c.Items[0].Quantity)
	}
}

func TestRemoveIsNoopWhenAbsent(t *testing.T) {
	t.Parallel()

	c := &Cart{}
	c.Add(Product{ID: 42}, 1, nil)
	c.Remove(99, 0)

	if len(c.Items) != 1 {
		t.Fatal("removing an absent item must not touch others")
	}
}

func TestTotalPrefersVariantPrice(t *testing.T) {
	t.Parallel()

	c := &Cart{}
	c.Add(Product{ID: 1, RetailPrice: price("10.00")}, 2, &Variant{ID: 5, RetailPrice: price("19.99")})
	c.Add(Product{ID: 2, RetailPrice: price("12.50")}, 3, nil)
	c.Add(Product{ID: 3}, 4, nil) // no price anywhere counts as zero

	want := price("19.99").Mul(decimal.NewFromInt(2)).Add(price("12.50").Mul(decimal.NewFromInt(3)))
	if !c.Total().Equal(want) {
		t.Fatalf("expected total %s, got %s", want, c.Total())
	}
}

func TestCountSumsQuantities(t *testing.T) {
	t.Parallel()

	c := &Cart{}
	c.Add(Product{ID: 1}, 2, nil)
	c.Add(Product{ID: 2}, 3, nil)

	if c.Count() != 5 {
		t.Fatalf("expected count 5, got %d", c.Count())
	}
}

func TestCartSerializationRoundTrip(t *testing.T) {
	t.Parallel()

	c := &Cart{}
	c.Add(Product{ID: 42, Name: "Podcast Tee", RetailPrice: price("24.00")}, 2, &Variant{ID: 7, Name: "Black / L", RetailPrice: price("19.99")})
	c.Add(Product{ID: 43, Name: "Sticker Pack", RetailPrice: price("4.50")}, 1, nil)

	encoded, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var restored Cart
	if err := json.Unmarshal(encoded, &restored); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if len(restored.Items) != len(c.Items) {
		t.Fatalf("expected %d items, got %d", len(c.Items), len(restored.Items))
	}
	for i, item := range restored.Items {
		if item.Product.ID != c.Items[i].Product.ID {
			t.Fatalf("item %d product id mismatch", i)
		}
		if item.Quantity != c.Items[i].Quantity {
			t.Fatalf("item %d quantity mismatch", i)
		}
	}
	if !restored.Total().Equal(c.Total()) {
		t.Fatalf("total changed across round trip: %s vs %s", restored.Total(), c.Total())
	}
}
