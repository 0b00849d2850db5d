package crm

import (
	"time"

	"github.com/agency/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Evaluation is a customer's rating of the agency's work
type Evaluation struct {
	shared.BaseAggregateRoot
	CustomerID        uuid.UUID
	OrderID           *uuid.UUID
	Rating            int
	Comment           string
	ReviewRequestedAt *time.Time
}

// NewEvaluation creates a new evaluation with a 1..5 rating
func NewEvaluation(customerID uuid.UUID, orderID *uuid.UUID, rating int, comment string) (*Evaluation, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if rating < 1 || rating > 5 {
		return nil, shared.NewDomainError("INVALID_RATING", "Rating must be between 1 and 5")
	}
	e := &Evaluation{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CustomerID:        customerID,
		OrderID:           orderID,
		Rating:            rating,
		Comment:           comment,
	}
	e.AddDomainEvent(NewEvaluationSubmittedEvent(e))
	return e, nil
}

// MarkReviewRequested stamps when the review request was sent
func (e *Evaluation) MarkReviewRequested(at time.Time) {
	e.ReviewRequestedAt = &at
	e.Touch()
}

// IsPositive reports whether the rating is good enough to ask for a public review
func (e *Evaluation) IsPositive() bool {
	return e.Rating >= 4
}

// RatingSummary aggregates ratings
type RatingSummary struct {
	Count   int64         `json:"count"`
	Average float64       `json:"average"`
	ByStars map[int]int64 `json:"by_stars"`
}
