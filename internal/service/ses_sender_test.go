package service

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/ses"
	"github.com/dispatchd/dispatchd/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSESClient struct {
	input  *ses.SendEmailInput
	output *ses.SendEmailOutput
	err    error
}

func (f *fakeSESClient) SendEmailWithContext(_ aws.Context, input *ses.SendEmailInput, _ ...interface{}) (*ses.SendEmailOutput, error) {
	f.input = input
	return f.output, f.err
}

func newTestSESSender(t *testing.T, client *fakeSESClient) *SESMailSender {
	sender := NewSESMailSender("ap-northeast-2", logger.NewTestLogger(t))
	sender.sessionFactory = func(region string) (*session.Session, error) {
		assert.Equal(t, "ap-northeast-2", region)
		return &session.Session{}, nil
	}
	sender.clientFactory = func(_ *session.Session) sesClient {
		return client
	}
	return sender
}

func TestSESMailSender_Send(t *testing.T) {
	ctx := context.Background()

	t.Run("returns provider message id", func(t *testing.T) {
		client := &fakeSESClient{
			output: &ses.SendEmailOutput{MessageId: aws.String("0102018b-test-id")},
		}
		sender := newTestSESSender(t, client)

		messageID, err := sender.Send(ctx, "noreply@example.com", "user@example.com", "Hello", "<p>Hi</p>")
		require.NoError(t, err)
		assert.Equal(t, "0102018b-test-id", messageID)

		require.NotNil(t, client.input)
		assert.Equal(t, "noreply@example.com", aws.StringValue(client.input.Source))
		require.Len(t, client.input.Destination.ToAddresses, 1)
		assert.Equal(t, "user@example.com", aws.StringValue(client.input.Destination.ToAddresses[0]))
		assert.Equal(t, "Hello", aws.StringValue(client.input.Message.Subject.Data))
		assert.Equal(t, "<p>Hi</p>", aws.StringValue(client.input.Message.Body.Html.Data))
		assert.Equal(t, "UTF-8", aws.StringValue(client.input.Message.Body.Html.Charset))
	})

	t.Run("returns error on send failure", func(t *testing.T) {
		client := &fakeSESClient{err: errors.New("daily quota exceeded")}
		sender := newTestSESSender(t, client)

		_, err := sender.Send(ctx, "noreply@example.com", "user@example.com", "Hello", "<p>Hi</p>")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "daily quota exceeded")
	})

	t.Run("returns error when response lacks message id", func(t *testing.T) {
		client := &fakeSESClient{output: &ses.SendEmailOutput{}}
		sender := newTestSESSender(t, client)

		_, err := sender.Send(ctx, "noreply@example.com", "user@example.com", "Hello", "<p>Hi</p>")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing message id")
	})

	t.Run("returns error on session failure", func(t *testing.T) {
		sender := NewSESMailSender("ap-northeast-2", logger.NewTestLogger(t))
		sender.sessionFactory = func(string) (*session.Session, error) {
			return nil, errors.New("no credentials")
		}

		_, err := sender.Send(ctx, "noreply@example.com", "user@example.com", "Hello", "<p>Hi</p>")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create AWS session")
	})
}
