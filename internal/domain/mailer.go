package domain

import "context"

//go:generate mockgen -destination mocks/mock_mail_sender.go -package mocks github.com/dispatchd/dispatchd/internal/domain MailSender

// MailSender abstracts the external email provider. Send returns the
// provider-assigned message id on success; that id is what asynchronous
// provider callbacks are later correlated against.
type MailSender interface {
	Send(ctx context.Context, from, to, subject, htmlBody string) (string, error)
}
