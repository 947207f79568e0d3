package service

import (
	"context"
	"fmt"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/dispatchd/dispatchd/internal/domain"
	"github.com/dispatchd/dispatchd/pkg/logger"
)

// Sender drains the send queue at a fixed rate and dispatches each
// request through the mail provider. One request leaves the gate per
// tick; the provider call itself runs in its own goroutine so a slow
// response never stalls the gate.
type Sender struct {
	mailer       domain.MailSender
	logger       logger.Logger
	sendQueue    <-chan *domain.EmailRequest
	outcomes     chan<- *domain.EmailRequest
	from         string
	serverURL    string
	maxPerSecond int
}

// NewSender creates a new Sender
func NewSender(
	mailer domain.MailSender,
	logger logger.Logger,
	sendQueue <-chan *domain.EmailRequest,
	outcomes chan<- *domain.EmailRequest,
	from string,
	serverURL string,
	maxPerSecond int,
) *Sender {
	return &Sender{
		mailer:       mailer,
		logger:       logger,
		sendQueue:    sendQueue,
		outcomes:     outcomes,
		from:         from,
		serverURL:    serverURL,
		maxPerSecond: maxPerSecond,
	}
}

// Run loops until ctx is cancelled. The ticker spaces dispatches evenly
// across the second rather than bursting; ticks that fire while no
// request is waiting are simply lost, they do not accumulate credit.
func (s *Sender) Run(ctx context.Context) {
	interval := time.Second / time.Duration(s.maxPerSecond)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.WithField("max_per_second", s.maxPerSecond).Info("Sender started")

	for {
		select {
		case <-ticker.C:
		case <-ctx.Done():
			s.logger.Info("Sender stopped")
			return
		}

		var request *domain.EmailRequest
		select {
		case request = <-s.sendQueue:
		case <-ctx.Done():
			s.logger.Info("Sender stopped")
			return
		}

		go s.dispatch(ctx, request)
	}
}

// dispatch sends one email and reports the outcome. The tracking pixel
// is appended at send time so the stored content stays as submitted.
// Recipient addresses are checked here rather than at ingest: a bad
// address fails its own request instead of the whole batch.
func (s *Sender) dispatch(ctx context.Context, request *domain.EmailRequest) {
	if !govalidator.IsEmail(request.Email) {
		request.Status = domain.EmailStatusFailed
		request.Error = "Failed to send email: invalid recipient address"
		s.logger.WithFields(map[string]interface{}{
			"request_id": request.ID,
			"email":      request.Email,
		}).Error("Invalid recipient address")
		s.report(ctx, request)
		return
	}

	body := request.Content + s.trackingPixel(request.ID)

	messageID, err := s.mailer.Send(ctx, s.from, request.Email, request.Subject, body)
	if err != nil {
		request.Status = domain.EmailStatusFailed
		request.Error = fmt.Sprintf("Failed to send email: %v", err)
		s.logger.WithFields(map[string]interface{}{
			"request_id": request.ID,
			"error":      err.Error(),
		}).Error("Failed to send email")
	} else {
		request.Status = domain.EmailStatusSent
		request.MessageID = messageID
	}

	s.report(ctx, request)
}

func (s *Sender) report(ctx context.Context, request *domain.EmailRequest) {
	select {
	case s.outcomes <- request:
	case <-ctx.Done():
	}
}

func (s *Sender) trackingPixel(requestID int64) string {
	return fmt.Sprintf(`<img src="%s/v1/events/open?request_id=%d">`, s.serverURL, requestID)
}
