package product

import (
	"strings"
	"time"

	"github.com/commerce/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ReviewStatus represents the moderation state of a product review
type ReviewStatus string

const (
	ReviewStatusPending  ReviewStatus = "PENDING"
	ReviewStatusApproved ReviewStatus = "APPROVED"
	ReviewStatusRejected ReviewStatus = "REJECTED"
)

// Review is a customer review attached to a product. Reviews start pending
// and must be moderated before they count toward the product rating.
type Review struct {
	shared.BaseEntity
	ProductID  uuid.UUID    `gorm:"type:uuid;not null;index"`
	CustomerID uuid.UUID    `gorm:"type:uuid;not null"`
	Rating     int          `gorm:"not null"`
	Comment    string       `gorm:"size:2000"`
	Status     ReviewStatus `gorm:"size:16;not null;default:'PENDING'"`
}

// TableName returns the table name for GORM
func (Review) TableName() string {
	return "product_reviews"
}

// NewReview creates a pending review
func NewReview(productID, customerID uuid.UUID, rating int, comment string) (*Review, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if rating < 1 || rating > 5 {
		return nil, shared.NewDomainError("INVALID_RATING", "Rating must be between 1 and 5")
	}

	return &Review{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  productID,
		CustomerID: customerID,
		Rating:     rating,
		Comment:    strings.TrimSpace(comment),
		Status:     ReviewStatusPending,
	}, nil
}

// Approve marks a pending review as approved
func (r *Review) Approve() error {
	if r.Status != ReviewStatusPending {
		return shared.NewDomainError("INVALID_REVIEW_STATE", "Only pending reviews can be approved")
	}
	r.Status = ReviewStatusApproved
	r.UpdatedAt = time.Now()
	return nil
}

// Reject marks a pending review as rejected
func (r *Review) Reject() error {
	if r.Status != ReviewStatusPending {
		return shared.NewDomainError("INVALID_REVIEW_STATE", "Only pending reviews can be rejected")
	}
	r.Status = ReviewStatusRejected
	r.UpdatedAt = time.Now()
	return nil
}
