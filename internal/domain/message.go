package domain

import "fmt"

// Message is one entry of a batch creation request. It fans out into one
// EmailRequest per recipient address.
type Message struct {
	TopicID string   `json:"topic_id,omitempty"`
	Emails  []string `json:"emails"`
	Subject string   `json:"subject"`
	Content string   `json:"content"`
}

// CreateMessagesRequest is the batch command accepted by POST /v1/messages.
// ScheduledAt is an optional wall-clock string (ScheduledAtLayout, local
// time); nil or empty means immediate dispatch.
type CreateMessagesRequest struct {
	Messages    []Message `json:"messages"`
	ScheduledAt *string   `json:"scheduled_at,omitempty"`
}

// Immediate reports whether the batch bypasses the scheduler. Both a
// missing scheduled_at and an explicit empty string mean "send now".
func (r *CreateMessagesRequest) Immediate() bool {
	return r.ScheduledAt == nil || *r.ScheduledAt == ""
}

// Validate checks the batch shape before anything is persisted. Only
// structural problems fail the batch; recipient addresses and subjects
// are persisted as submitted and vetted at send time, so batches that
// used to go through keep going through.
func (r *CreateMessagesRequest) Validate() error {
	if len(r.Messages) == 0 {
		return NewValidationError("messages is required")
	}

	for i, msg := range r.Messages {
		if len(msg.Emails) == 0 {
			return NewValidationError(fmt.Sprintf("messages[%d].emails is required", i))
		}
	}

	return nil
}
