package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMessagesRequest_Validate(t *testing.T) {
	valid := CreateMessagesRequest{
		Messages: []Message{
			{TopicID: "welcome", Emails: []string{"a@example.com", "b@example.com"}, Subject: "hi", Content: "<p>hi</p>"},
		},
	}

	t.Run("valid batch", func(t *testing.T) {
		require.NoError(t, valid.Validate())
	})

	t.Run("empty messages", func(t *testing.T) {
		req := CreateMessagesRequest{}
		err := req.Validate()
		require.Error(t, err)
		assert.True(t, IsValidationError(err))
	})

	t.Run("message without recipients", func(t *testing.T) {
		req := CreateMessagesRequest{Messages: []Message{{Subject: "s", Content: "c"}}}
		err := req.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "emails is required")
	})

	t.Run("empty subject is accepted", func(t *testing.T) {
		req := CreateMessagesRequest{Messages: []Message{{Emails: []string{"a@example.com"}, Content: "c"}}}
		assert.NoError(t, req.Validate())
	})

	t.Run("questionable address is accepted and vetted at send time", func(t *testing.T) {
		req := CreateMessagesRequest{Messages: []Message{{Emails: []string{"not-an-email"}, Subject: "s", Content: "c"}}}
		assert.NoError(t, req.Validate())
	})
}

func TestCreateMessagesRequest_Immediate(t *testing.T) {
	empty := ""
	future := "2099-12-31 23:59:59"

	assert.True(t, (&CreateMessagesRequest{}).Immediate())
	assert.True(t, (&CreateMessagesRequest{ScheduledAt: &empty}).Immediate())
	assert.False(t, (&CreateMessagesRequest{ScheduledAt: &future}).Immediate())
}
