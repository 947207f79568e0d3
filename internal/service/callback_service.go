package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dispatchd/dispatchd/internal/domain"
	"github.com/dispatchd/dispatchd/pkg/logger"
	"github.com/tidwall/gjson"
)

// CallbackService ingests provider notification-bus callbacks and turns
// SES delivery notifications into result rows.
type CallbackService struct {
	requestRepo domain.EmailRequestRepository
	resultRepo  domain.EmailResultRepository
	logger      logger.Logger
}

// NewCallbackService creates a new CallbackService
func NewCallbackService(requestRepo domain.EmailRequestRepository, resultRepo domain.EmailResultRepository, logger logger.Logger) *CallbackService {
	return &CallbackService{
		requestRepo: requestRepo,
		resultRepo:  resultRepo,
		logger:      logger,
	}
}

// ProcessCallback classifies one SNS envelope and records a result when
// it carries an SES notification for a request we sent.
//
// The envelope shapes are discriminated structurally, not by the header:
// a SubscribeURL field marks a subscription handshake, a Message plus
// MessageId pair marks a notification, anything else is reported as
// unrecognized. Subscription confirmation is deliberately left to an
// operator; the URL is logged, never fetched.
func (s *CallbackService) ProcessCallback(ctx context.Context, body []byte) (*domain.CallbackResult, error) {
	if !gjson.ValidBytes(body) {
		return nil, domain.NewValidationError("failed to parse callback envelope")
	}

	envelope := gjson.ParseBytes(body)

	if subscribeURL := envelope.Get("SubscribeURL"); subscribeURL.Exists() {
		s.logger.WithField("subscribe_url", subscribeURL.String()).Info("Received subscription confirmation request")
		return &domain.CallbackResult{
			Outcome:      domain.CallbackSubscription,
			SubscribeURL: subscribeURL.String(),
		}, nil
	}

	if envelope.Get("Message").Exists() && envelope.Get("MessageId").Exists() {
		return s.processNotification(ctx, envelope.Get("Message").String())
	}

	s.logger.Warn("Received callback with unrecognized shape")
	return &domain.CallbackResult{Outcome: domain.CallbackOther}, nil
}

func (s *CallbackService) processNotification(ctx context.Context, inner string) (*domain.CallbackResult, error) {
	var notification domain.SESNotification
	if err := json.Unmarshal([]byte(inner), &notification); err != nil || notification.NotificationType == "" {
		// The bus can carry payloads from other publishers. Not ours, not an error.
		s.logger.Debug("Inner message is not an SES notification")
		return &domain.CallbackResult{Outcome: domain.CallbackNonSES}, nil
	}

	providerID := gjson.Get(inner, "mail.messageId")
	if !providerID.Exists() || providerID.String() == "" {
		return nil, domain.ErrProviderMessageIDMissing
	}

	requestID, err := s.requestRepo.GetRequestIDByMessageID(ctx, providerID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to correlate notification: %w", err)
	}

	result := &domain.EmailResult{
		RequestID: requestID,
		Status:    notification.NotificationType,
		Raw:       inner,
	}
	if err := s.resultRepo.Create(ctx, result); err != nil {
		return nil, fmt.Errorf("failed to record result: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"request_id": requestID,
		"status":     notification.NotificationType,
	}).Info("Recorded delivery notification")

	return &domain.CallbackResult{Outcome: domain.CallbackRecorded, Result: result}, nil
}
