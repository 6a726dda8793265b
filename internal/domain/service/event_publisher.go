package service

import (
	"context"
	"time"
)

// LoanEventReason classifies what caused a device availability change.
type LoanEventReason string

const (
	// ReasonReserved means a loan was created and one unit was reserved.
	ReasonReserved LoanEventReason = "RESERVED"
	// ReasonReturned means a loan was returned and one unit became available.
	ReasonReturned LoanEventReason = "RETURNED"
)

// LoanUpdateEvent describes a change in a catalogue item's availability
// caused by a loan transition.
type LoanUpdateEvent struct {
	CatalogueItemID string          `json:"catalogueItemId"`
	Delta           int             `json:"delta"`          // -1 reserve, +1 return
	AvailableUnits  *int            `json:"availableUnits"` // Hint only; nil when the caller cannot tell.
	Reason          LoanEventReason `json:"reason"`
	OccurredAt      time.Time       `json:"occurredAt"`
}

// LoanEventPublisher defines the interface for publishing loan update events
// to interested collaborators. Delivery is best effort: the use-case layer
// logs failures and moves on, so implementations must not be load-bearing.
type LoanEventPublisher interface {
	// PublishLoanUpdated publishes an event when a device's availability changes.
	PublishLoanUpdated(ctx context.Context, event *LoanUpdateEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
