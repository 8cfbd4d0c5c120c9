package domain

import (
	"crypto/rand"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	cartdomain "github.com/trendora/backend/internal/cart/domain"
)

type Status string

const (
	StatusPlaced     Status = "Order Placed"
	StatusProcessing Status = "Processing"
	StatusShipped    Status = "Shipped"
	StatusDelivered  Status = "Delivered"
	StatusCancelled  Status = "Cancelled"
	// StatusDeleted is a sentinel: setting it hard-deletes the order document
	// instead of transitioning state.
	StatusDeleted Status = "Deleted"
)

var statusRank = map[Status]int{
	StatusPlaced:     0,
	StatusProcessing: 1,
	StatusShipped:    2,
	StatusDelivered:  3,
}

func (s Status) Valid() bool {
	if s == StatusCancelled || s == StatusDeleted {
		return true
	}
	_, ok := statusRank[s]
	return ok
}

// CanTransition reports whether an admin may move an order from one status to
// another. The chain only moves forward; Cancelled is reachable from any
// non-terminal state; Deleted is handled by the caller as a hard delete.
func CanTransition(from, to Status) bool {
	if to == StatusDeleted {
		return true
	}
	if from == StatusDelivered || from == StatusCancelled {
		return false
	}
	if to == StatusCancelled {
		return true
	}
	fromRank, okFrom := statusRank[from]
	toRank, okTo := statusRank[to]
	return okFrom && okTo && toRank > fromRank
}

type PaymentMethod string

const (
	MethodCOD    PaymentMethod = "COD"
	MethodOnline PaymentMethod = "Online"
)

type Item struct {
	ProductID  string `bson:"productId" json:"productId"`
	Name       string `bson:"name" json:"name"`
	Size       string `bson:"size" json:"size"`
	Color      string `bson:"color" json:"color"`
	Quantity   int    `bson:"quantity" json:"quantity"`
	PriceCents int64  `bson:"priceCents" json:"priceCents"`
	Image      string `bson:"image" json:"image"`
}

type Address struct {
	Name    string `bson:"name" json:"name"`
	Street  string `bson:"street" json:"street"`
	City    string `bson:"city" json:"city"`
	State   string `bson:"state" json:"state"`
	Zip     string `bson:"zip" json:"zip"`
	Country string `bson:"country" json:"country"`
	Phone   string `bson:"phone" json:"phone"`
}

// Order is an immutable snapshot taken at checkout; only the status fields
// change afterwards, and only through admin transitions.
type Order struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Ref              string             `bson:"ref" json:"ref"`
	UserID           string             `bson:"userId" json:"userId"`
	Items            []Item             `bson:"items" json:"items"`
	Address          Address            `bson:"address" json:"address"`
	AmountCents      int64              `bson:"amountCents" json:"amountCents"`
	ShippingFeeCents int64              `bson:"shippingFeeCents" json:"shippingFeeCents"`
	PlatformFeeCents int64              `bson:"platformFeeCents" json:"platformFeeCents"`
	DiscountPercent  int                `bson:"discountPercent,omitempty" json:"discountPercent,omitempty"`
	CouponCode       string             `bson:"couponCode,omitempty" json:"couponCode,omitempty"`
	PaidCents        int64              `bson:"paidCents" json:"paidCents"`
	DueCents         int64              `bson:"dueCents" json:"dueCents"`
	Status           Status             `bson:"status" json:"status"`
	PaymentMethod    PaymentMethod      `bson:"paymentMethod" json:"paymentMethod"`
	PaymentCaptured  bool               `bson:"paymentCaptured" json:"paymentCaptured"`
	RefundDue        bool               `bson:"refundDue" json:"refundDue"`
	GatewayOrderID   string             `bson:"gatewayOrderId,omitempty" json:"gatewayOrderId,omitempty"`
	PlacedAt         time.Time          `bson:"placedAt" json:"placedAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ItemsFromCart copies, not references, the cart contents into an order
// snapshot.
func ItemsFromCart(cart cartdomain.Cart) []Item {
	var items []Item
	for productID, variants := range cart {
		for _, v := range variants {
			items = append(items, Item{
				ProductID:  productID,
				Name:       v.Name,
				Size:       v.Size,
				Color:      v.Color,
				Quantity:   v.Quantity,
				PriceCents: v.PriceCents,
				Image:      v.Image,
			})
		}
	}
	return items
}

const refCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewRef generates the human-facing six-character order identifier,
// independent of the database's own identifier.
func NewRef() string {
	buf := make([]byte, 6)
	_, _ = rand.Read(buf)
	for i, b := range buf {
		buf[i] = refCharset[int(b)%len(refCharset)]
	}
	return string(buf)
}
