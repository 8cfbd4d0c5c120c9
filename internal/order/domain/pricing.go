package domain

import "github.com/shopspring/decimal"

// Quote is the priced breakdown of a checkout:
// total = subtotal + shipping + platform - subtotal*(discount/100),
// clamped so the user is never shown a negative total.
type Quote struct {
	SubtotalCents    int64  `json:"subtotalCents"`
	ShippingFeeCents int64  `json:"shippingFeeCents"`
	PlatformFeeCents int64  `json:"platformFeeCents"`
	DiscountPercent  int    `json:"discountPercent,omitempty"`
	DiscountCents    int64  `json:"discountCents,omitempty"`
	CouponCode       string `json:"couponCode,omitempty"`
	TotalCents       int64  `json:"totalCents"`
}

// ComputeQuote prices a cart subtotal. The percentage discount applies to the
// subtotal only, not to the fees, and is rounded half-up to whole cents.
func ComputeQuote(subtotalCents, shippingCents, platformCents int64, discountPercent int) Quote {
	discount := decimal.NewFromInt(subtotalCents).
		Mul(decimal.NewFromInt(int64(discountPercent))).
		Div(decimal.NewFromInt(100)).
		Round(0).
		IntPart()

	total := subtotalCents + shippingCents + platformCents - discount
	if total < 0 {
		total = 0
	}
	return Quote{
		SubtotalCents:    subtotalCents,
		ShippingFeeCents: shippingCents,
		PlatformFeeCents: platformCents,
		DiscountPercent:  discountPercent,
		DiscountCents:    discount,
		TotalCents:       total,
	}
}
