package service

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/ses"
	"github.com/dispatchd/dispatchd/internal/domain"
	"github.com/dispatchd/dispatchd/pkg/logger"
)

// sesClient is the slice of the SES API the sender uses.
type sesClient interface {
	SendEmailWithContext(ctx aws.Context, input *ses.SendEmailInput, opts ...interface{}) (*ses.SendEmailOutput, error)
}

// sesAPIAdapter narrows *ses.SES to sesClient.
type sesAPIAdapter struct {
	api *ses.SES
}

func (a *sesAPIAdapter) SendEmailWithContext(ctx aws.Context, input *ses.SendEmailInput, _ ...interface{}) (*ses.SendEmailOutput, error) {
	return a.api.SendEmailWithContext(ctx, input)
}

// SESMailSender sends through Amazon SES. Credentials come from the
// default AWS chain (env vars, shared config, instance role).
type SESMailSender struct {
	region string
	logger logger.Logger

	// Factory methods for testability
	sessionFactory func(region string) (*session.Session, error)
	clientFactory  func(sess *session.Session) sesClient
}

// NewSESMailSender creates a new SES-backed mail sender
func NewSESMailSender(region string, logger logger.Logger) *SESMailSender {
	return &SESMailSender{
		region: region,
		logger: logger,
		sessionFactory: func(region string) (*session.Session, error) {
			return session.NewSession(&aws.Config{Region: aws.String(region)})
		},
		clientFactory: func(sess *session.Session) sesClient {
			return &sesAPIAdapter{api: ses.New(sess)}
		},
	}
}

var _ domain.MailSender = (*SESMailSender)(nil)

// Send delivers one HTML email and returns the SES message id.
func (s *SESMailSender) Send(ctx context.Context, from, to, subject, htmlBody string) (string, error) {
	sess, err := s.sessionFactory(s.region)
	if err != nil {
		s.logger.Error(fmt.Sprintf("Failed to create AWS session: %v", err))
		return "", fmt.Errorf("failed to create AWS session: %w", err)
	}

	client := s.clientFactory(sess)

	input := &ses.SendEmailInput{
		Destination: &ses.Destination{
			ToAddresses: []*string{aws.String(to)},
		},
		Message: &ses.Message{
			Body: &ses.Body{
				Html: &ses.Content{
					Charset: aws.String("UTF-8"),
					Data:    aws.String(htmlBody),
				},
			},
			Subject: &ses.Content{
				Charset: aws.String("UTF-8"),
				Data:    aws.String(subject),
			},
		},
		Source: aws.String(from),
	}

	out, err := client.SendEmailWithContext(ctx, input)
	if err != nil {
		if aerr, ok := err.(awserr.Error); ok {
			return "", fmt.Errorf("SES error: %s", aerr.Error())
		}
		return "", fmt.Errorf("failed to send email: %w", err)
	}

	if out.MessageId == nil {
		return "", fmt.Errorf("SES response missing message id")
	}

	return *out.MessageId, nil
}
