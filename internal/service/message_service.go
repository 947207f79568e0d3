package service

import (
	"context"
	"fmt"
	"time"

	"github.com/dispatchd/dispatchd/internal/domain"
	"github.com/dispatchd/dispatchd/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// createConcurrency bounds parallel inserts for one batch so a large
// fan-out cannot exhaust the connection pool.
const createConcurrency = 100

// MessageService turns batch commands into persisted email requests and
// hands immediate ones straight to the send queue.
type MessageService struct {
	repo      domain.EmailRequestRepository
	logger    logger.Logger
	sendQueue chan<- *domain.EmailRequest
}

// NewMessageService creates a new MessageService
func NewMessageService(repo domain.EmailRequestRepository, logger logger.Logger, sendQueue chan<- *domain.EmailRequest) *MessageService {
	return &MessageService{
		repo:      repo,
		logger:    logger,
		sendQueue: sendQueue,
	}
}

// CreateMessages validates and persists a batch, one request per
// recipient, and returns how many requests were created. Validation and
// scheduled_at parsing happen before any row is written: a bad batch
// leaves no partial state behind. Immediate requests are enqueued for
// dispatch after persisting; scheduled ones wait for the scheduler.
func (s *MessageService) CreateMessages(ctx context.Context, req *domain.CreateMessagesRequest) (int, error) {
	if err := req.Validate(); err != nil {
		return 0, err
	}

	scheduledAt, err := domain.NormalizeScheduledAt(req.ScheduledAt, time.Now())
	if err != nil {
		return 0, err
	}

	immediate := req.Immediate()
	status := domain.EmailStatusCreated
	if immediate {
		// Skip the scheduler entirely: the request is already claimed.
		status = domain.EmailStatusProcessed
	}

	var requests []*domain.EmailRequest
	for _, msg := range req.Messages {
		for _, email := range msg.Emails {
			requests = append(requests, &domain.EmailRequest{
				TopicID:     msg.TopicID,
				Email:       email,
				Subject:     msg.Subject,
				Content:     msg.Content,
				ScheduledAt: scheduledAt,
				Status:      status,
			})
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(createConcurrency)
	for _, request := range requests {
		request := request
		g.Go(func() error {
			return s.repo.Create(gctx, request)
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.WithField("error", err.Error()).Error("Failed to persist message batch")
		return 0, fmt.Errorf("failed to persist message batch: %w", err)
	}

	if immediate {
		for _, request := range requests {
			select {
			case s.sendQueue <- request:
			case <-ctx.Done():
				return len(requests), ctx.Err()
			}
		}
	}

	return len(requests), nil
}
