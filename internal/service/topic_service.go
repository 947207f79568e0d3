package service

import (
	"context"

	"github.com/dispatchd/dispatchd/internal/domain"
	"github.com/dispatchd/dispatchd/pkg/logger"
)

// DefaultSentCountHours is the window used when a sent-count query gives
// no explicit hours.
const DefaultSentCountHours = 24

// TopicStats aggregates request and result counts for one topic.
type TopicStats struct {
	RequestCounts map[string]int `json:"request_counts"`
	ResultCounts  map[string]int `json:"result_counts"`
}

// TopicService answers aggregate questions about topics and stops
// pending sends.
type TopicService struct {
	requestRepo domain.EmailRequestRepository
	resultRepo  domain.EmailResultRepository
	logger      logger.Logger
}

// NewTopicService creates a new TopicService
func NewTopicService(requestRepo domain.EmailRequestRepository, resultRepo domain.EmailResultRepository, logger logger.Logger) *TopicService {
	return &TopicService{
		requestRepo: requestRepo,
		resultRepo:  resultRepo,
		logger:      logger,
	}
}

// RetrieveTopic returns request counts per lifecycle status and result
// counts per notification status for one topic. An unknown topic is not
// an error; both maps come back empty.
func (s *TopicService) RetrieveTopic(ctx context.Context, topicID string) (*TopicStats, error) {
	if topicID == "" {
		return nil, domain.NewValidationError("topic id is required")
	}

	requestCounts, err := s.requestRepo.CountsByTopic(ctx, topicID)
	if err != nil {
		return nil, err
	}

	resultCounts, err := s.resultRepo.CountsByTopic(ctx, topicID)
	if err != nil {
		return nil, err
	}

	return &TopicStats{
		RequestCounts: requestCounts,
		ResultCounts:  resultCounts,
	}, nil
}

// StopTopic cancels the not-yet-claimed requests of a topic. Requests
// already in flight are unaffected.
func (s *TopicService) StopTopic(ctx context.Context, topicID string) error {
	if topicID == "" {
		return domain.NewValidationError("topic id is required")
	}

	if err := s.requestRepo.StopTopic(ctx, topicID); err != nil {
		return err
	}

	s.logger.WithField("topic_id", topicID).Info("Stopped topic")
	return nil
}

// SentCount counts emails sent in the last hours. Zero or negative
// hours falls back to DefaultSentCountHours.
func (s *TopicService) SentCount(ctx context.Context, hours int) (int, error) {
	if hours <= 0 {
		hours = DefaultSentCountHours
	}
	return s.requestRepo.SentCount(ctx, hours)
}
