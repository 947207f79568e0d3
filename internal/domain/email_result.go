package domain

import (
	"context"
	"time"
)

//go:generate mockgen -destination mocks/mock_email_result_repository.go -package mocks github.com/dispatchd/dispatchd/internal/domain EmailResultRepository

// ResultStatusOpen is the status recorded when the open pixel is hit.
// Every other status comes verbatim from the provider notification
// (Delivery, Bounce, Complaint, ...).
const ResultStatusOpen = "Open"

// EmailResult is an append-only event observed about a request. Results
// are never mutated or deleted; duplicates from provider redeliveries are
// expected and kept.
type EmailResult struct {
	ID        int64     `json:"id"`
	RequestID int64     `json:"request_id"`
	Status    string    `json:"status"`
	Raw       string    `json:"raw,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// EmailResultRepository defines data access for email results.
type EmailResultRepository interface {
	// Create appends a result row and fills in ID and CreatedAt.
	Create(ctx context.Context, result *EmailResult) error

	// CountsByTopic returns, per result status, the number of distinct
	// requests of the topic that produced that result.
	CountsByTopic(ctx context.Context, topicID string) (map[string]int, error)
}
