package domain

import "strings"

// Variant is one (size, color) combination of a product, tracked in the cart
// with its own quantity. Price and display fields are denormalized so the
// cart renders without a catalog round-trip.
type Variant struct {
	Quantity   int    `bson:"quantity" json:"quantity"`
	Size       string `bson:"size" json:"size"`
	Color      string `bson:"color" json:"color"`
	PriceCents int64  `bson:"priceCents" json:"priceCents"`
	Name       string `bson:"name" json:"name"`
	Image      string `bson:"image" json:"image"`
}

// Cart maps product ID -> variant key -> variant. A variant with quantity <= 0
// is never persisted; a product with no variants left is removed entirely.
type Cart map[string]map[string]Variant

// Line is the flattened form used for display and checkout submission.
type Line struct {
	ProductID string `json:"productId"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Quantity  int    `json:"quantity"`
}

func VariantKey(size, color string) string {
	return size + "-" + color
}

// SplitVariantKey splits on the first hyphen only: sizes never contain
// hyphens, free-text hex colors may.
func SplitVariantKey(key string) (size, color string) {
	size, color, _ = strings.Cut(key, "-")
	return size, color
}

// Set replaces the quantity for a variant, enforcing the removal invariants.
func (c Cart) Set(productID string, v Variant) {
	key := VariantKey(v.Size, v.Color)
	if v.Quantity <= 0 {
		delete(c[productID], key)
		if len(c[productID]) == 0 {
			delete(c, productID)
		}
		return
	}
	if c[productID] == nil {
		c[productID] = map[string]Variant{}
	}
	c[productID][key] = v
}

// Add increments an existing variant's quantity, or inserts it.
func (c Cart) Add(productID string, v Variant) {
	key := VariantKey(v.Size, v.Color)
	if existing, ok := c[productID][key]; ok {
		v.Quantity += existing.Quantity
	}
	c.Set(productID, v)
}

// Merge combines a server cart with a client-local guest cart on login.
// The server wins per variant key; client-only entries are adopted.
func Merge(server, client Cart) Cart {
	merged := Cart{}
	for productID, variants := range client {
		for _, v := range variants {
			merged.Set(productID, v)
		}
	}
	for productID, variants := range server {
		for _, v := range variants {
			merged.Set(productID, v)
		}
	}
	return merged
}

// Prune drops entries whose product is no longer in the catalog and returns
// the removed product IDs so the caller can notify the user.
func (c Cart) Prune(catalog map[string]bool) []string {
	var removed []string
	for productID := range c {
		if !catalog[productID] {
			delete(c, productID)
			removed = append(removed, productID)
		}
	}
	return removed
}

// Normalize re-applies the persistence invariants to a cart received from
// outside (a guest cart from local storage, a stale document).
func (c Cart) Normalize() {
	for productID, variants := range c {
		for key, v := range variants {
			if v.Quantity <= 0 {
				delete(variants, key)
			}
		}
		if len(variants) == 0 {
			delete(c, productID)
		}
	}
}

func (c Cart) SubtotalCents() int64 {
	var total int64
	for _, variants := range c {
		for _, v := range variants {
			total += v.PriceCents * int64(v.Quantity)
		}
	}
	return total
}

func (c Cart) Lines() []Line {
	var lines []Line
	for productID, variants := range c {
		for key, v := range variants {
			size, color := SplitVariantKey(key)
			lines = append(lines, Line{
				ProductID: productID,
				Size:      size,
				Color:     color,
				Quantity:  v.Quantity,
			})
		}
	}
	return lines
}

func (c Cart) IsEmpty() bool {
	return len(c) == 0
}
