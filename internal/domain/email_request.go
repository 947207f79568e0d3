package domain

import (
	"context"
	"time"
)

//go:generate mockgen -destination mocks/mock_email_request_repository.go -package mocks github.com/dispatchd/dispatchd/internal/domain EmailRequestRepository

// EmailStatus is the lifecycle state of an EmailRequest. The numeric
// values are persisted as-is and must not be reordered.
type EmailStatus int

const (
	EmailStatusCreated   EmailStatus = 0
	EmailStatusProcessed EmailStatus = 1
	EmailStatusSent      EmailStatus = 2
	EmailStatusFailed    EmailStatus = 3
	EmailStatusStopped   EmailStatus = 4
)

// Label returns the human-readable name used as a key in topic aggregations.
func (s EmailStatus) Label() string {
	switch s {
	case EmailStatusCreated:
		return "Created"
	case EmailStatusProcessed:
		return "Processed"
	case EmailStatusSent:
		return "Sent"
	case EmailStatusFailed:
		return "Failed"
	case EmailStatusStopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}

// ScheduledAtLayout is the wall-clock format accepted for scheduled sends.
// The value is interpreted in the server's local timezone and converted to
// UTC at persist time. This mirrors the behaviour clients already depend on.
const ScheduledAtLayout = "2006-01-02 15:04:05"

// EmailRequest is the durable record of one intended send to one recipient.
type EmailRequest struct {
	ID          int64       `json:"id"`
	TopicID     string      `json:"topic_id"`
	Email       string      `json:"email"`
	Subject     string      `json:"subject"`
	Content     string      `json:"content"`
	ScheduledAt time.Time   `json:"scheduled_at"`
	Status      EmailStatus `json:"status"`
	Error       string      `json:"error,omitempty"`
	MessageID   string      `json:"message_id,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// NormalizeScheduledAt resolves the optional wall-clock string of a batch
// into the UTC instant that is persisted. A nil or empty value means "now":
// such requests are dispatched immediately. Anything else must match
// ScheduledAtLayout, parsed in local time.
func NormalizeScheduledAt(scheduledAt *string, now time.Time) (time.Time, error) {
	if scheduledAt == nil || *scheduledAt == "" {
		return now.UTC().Truncate(time.Second), nil
	}

	local, err := time.ParseInLocation(ScheduledAtLayout, *scheduledAt, time.Local)
	if err != nil {
		return time.Time{}, NewValidationError("invalid scheduled_at, expected format " + ScheduledAtLayout)
	}
	return local.UTC().Truncate(time.Second), nil
}

// EmailRequestRepository defines data access for email requests.
type EmailRequestRepository interface {
	// Create persists a new request and fills in ID, CreatedAt and UpdatedAt.
	Create(ctx context.Context, request *EmailRequest) error

	// ClaimDue atomically transitions up to limit due Created rows to
	// Processed and returns them. A row returned here is owned by the
	// caller; a second scheduler instance cannot claim it again.
	ClaimDue(ctx context.Context, limit int) ([]*EmailRequest, error)

	// UpdateDelivery records the terminal outcome of a send attempt:
	// status, message_id and error, refreshing updated_at.
	UpdateDelivery(ctx context.Context, request *EmailRequest) error

	// GetRequestIDByMessageID resolves the provider-assigned message id
	// back to the owning request row.
	GetRequestIDByMessageID(ctx context.Context, messageID string) (int64, error)

	// CountsByTopic returns request counts per status label for a topic.
	CountsByTopic(ctx context.Context, topicID string) (map[string]int, error)

	// StopTopic transitions all Created rows of a topic to Stopped. Rows
	// already claimed by the scheduler are left untouched.
	StopTopic(ctx context.Context, topicID string) error

	// SentCount counts requests sent within the last hours.
	SentCount(ctx context.Context, hours int) (int, error)
}
