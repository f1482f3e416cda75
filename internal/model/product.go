package model

import (
	"time"

	"github.com/google/uuid"
)

// ProductStatus is the moderation state of a product.
type ProductStatus string

const (
	// StatusPending is the initial state of every submitted product.
	StatusPending ProductStatus = "pending"
	// StatusApproved marks a product visible in the public feed.
	StatusApproved ProductStatus = "approved"
	// StatusRejected is destructive: the record is deleted on transition,
	// so this status never persists on a stored row.
	StatusRejected ProductStatus = "rejected"
)

// Valid reports whether s is one of the known moderation states.
func (s ProductStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Image is one stored product photo. PublicID identifies the backing
// object in the media store.
type Image struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}

// Product represents a submitted deal with its moderation state and
// engagement counters.
type Product struct {
	ID           uuid.UUID
	Status       ProductStatus
	DealURL      string
	Title        string
	Description  string
	Category     string
	Store        string
	SalePrice    float64
	ListPrice    float64
	Images       []Image
	CreatedBy    uuid.UUID
	LikeCount    int
	DislikeCount int
	ViewCount    int
	UpdatedAt    time.Time
	CreatedAt    time.Time
}

// InitMeta initializes the product metadata including ID, timestamps and
// the default moderation state.
func (p *Product) InitMeta() {
	p.ID = uuid.New()
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.Status == "" {
		p.Status = StatusPending
	}
}
