package service

import (
	"context"
	"time"

	"github.com/dispatchd/dispatchd/internal/domain"
	"github.com/dispatchd/dispatchd/pkg/logger"
)

// Scheduler periodically claims due scheduled requests and feeds them to
// the send queue. Claiming flips rows to Processed in the same statement
// that selects them, so running several instances is safe.
type Scheduler struct {
	repo         domain.EmailRequestRepository
	logger       logger.Logger
	sendQueue    chan<- *domain.EmailRequest
	batchSize    int
	pollInterval time.Duration
}

// NewScheduler creates a new Scheduler
func NewScheduler(repo domain.EmailRequestRepository, logger logger.Logger, sendQueue chan<- *domain.EmailRequest, batchSize int, pollInterval time.Duration) *Scheduler {
	return &Scheduler{
		repo:         repo,
		logger:       logger,
		sendQueue:    sendQueue,
		batchSize:    batchSize,
		pollInterval: pollInterval,
	}
}

// Run loops until ctx is cancelled. Claimed rows are pushed onto the
// send queue with backpressure: when the queue is full the scheduler
// blocks instead of claiming more rows it cannot deliver.
func (s *Scheduler) Run(ctx context.Context) {
	s.logger.WithField("batch_size", s.batchSize).Info("Scheduler started")

	for {
		claimed, err := s.RunOnce(ctx)
		if err != nil {
			if ctx.Err() != nil {
				s.logger.Info("Scheduler stopped")
				return
			}
			s.logger.WithField("error", err.Error()).Error("Failed to claim scheduled requests")
		} else if claimed > 0 {
			s.logger.WithField("claimed", claimed).Debug("Enqueued scheduled requests")
			// A backlog drains claim after claim; only an empty claim waits
			// for the next poll.
			continue
		}

		select {
		case <-time.After(s.pollInterval):
		case <-ctx.Done():
			s.logger.Info("Scheduler stopped")
			return
		}
	}
}

// RunOnce claims one batch of due requests and enqueues them. It returns
// how many rows were handed to the send queue.
func (s *Scheduler) RunOnce(ctx context.Context) (int, error) {
	requests, err := s.repo.ClaimDue(ctx, s.batchSize)
	if err != nil {
		return 0, err
	}

	for i, request := range requests {
		select {
		case s.sendQueue <- request:
		case <-ctx.Done():
			return i, ctx.Err()
		}
	}

	return len(requests), nil
}
