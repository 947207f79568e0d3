package service

import (
	"context"

	"github.com/dispatchd/dispatchd/internal/domain"
	"github.com/dispatchd/dispatchd/pkg/logger"
)

// PostSendWriter is the single consumer of the outcome queue. It writes
// terminal delivery states back to the database. A failed write is
// logged and dropped: outcomes are advisory and must never wedge the
// send pipeline behind a database hiccup.
type PostSendWriter struct {
	repo     domain.EmailRequestRepository
	logger   logger.Logger
	outcomes <-chan *domain.EmailRequest
}

// NewPostSendWriter creates a new PostSendWriter
func NewPostSendWriter(repo domain.EmailRequestRepository, logger logger.Logger, outcomes <-chan *domain.EmailRequest) *PostSendWriter {
	return &PostSendWriter{
		repo:     repo,
		logger:   logger,
		outcomes: outcomes,
	}
}

// Run loops until ctx is cancelled.
func (w *PostSendWriter) Run(ctx context.Context) {
	w.logger.Info("Post-send writer started")

	for {
		select {
		case request := <-w.outcomes:
			w.record(ctx, request)
		case <-ctx.Done():
			w.logger.Info("Post-send writer stopped")
			return
		}
	}
}

func (w *PostSendWriter) record(ctx context.Context, request *domain.EmailRequest) {
	if err := w.repo.UpdateDelivery(ctx, request); err != nil {
		w.logger.WithFields(map[string]interface{}{
			"request_id": request.ID,
			"status":     request.Status.Label(),
			"error":      err.Error(),
		}).Error("Failed to record delivery outcome")
	}
}
