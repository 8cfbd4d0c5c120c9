package domain

import "errors"

// MinCarouselImages is the floor the storefront carousel may never drop
// below; a delete that would leave fewer images is rejected.
const MinCarouselImages = 4

var (
	ErrCarouselMinimum = errors.New("carousel cannot drop below the minimum image count")
	ErrImageNotFound   = errors.New("image not found in carousel")
)

// Config is the single configuration record for the platform: the flat
// per-order surcharges and the storefront carousel, stored under one
// well-defined document key.
type Config struct {
	PlatformFeeCents int64    `bson:"platformFeeCents" json:"platformFeeCents"`
	ShippingFeeCents int64    `bson:"shippingFeeCents" json:"shippingFeeCents"`
	CarouselImages   []string `bson:"carouselImages" json:"carouselImages"`
}

// RemoveCarouselImage drops one image URL, enforcing the minimum: with
// exactly MinCarouselImages remaining the delete is rejected, with one more
// it succeeds.
func (c *Config) RemoveCarouselImage(url string) error {
	if len(c.CarouselImages) <= MinCarouselImages {
		return ErrCarouselMinimum
	}
	for i, img := range c.CarouselImages {
		if img == url {
			c.CarouselImages = append(c.CarouselImages[:i], c.CarouselImages[i+1:]...)
			return nil
		}
	}
	return ErrImageNotFound
}
