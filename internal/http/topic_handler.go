package http

import (
	"context"
	"net/http"

	"github.com/dispatchd/dispatchd/internal/domain"
	"github.com/dispatchd/dispatchd/internal/http/middleware"
	"github.com/dispatchd/dispatchd/internal/service"
	"github.com/dispatchd/dispatchd/pkg/logger"
)

// TopicServiceInterface is the slice of the topic service the handler uses
type TopicServiceInterface interface {
	RetrieveTopic(ctx context.Context, topicID string) (*service.TopicStats, error)
	StopTopic(ctx context.Context, topicID string) error
}

// TopicHandler handles topic aggregation and cancellation
type TopicHandler struct {
	service TopicServiceInterface
	auth    *middleware.AuthConfig
	logger  logger.Logger
}

// NewTopicHandler creates a new topic handler
func NewTopicHandler(service TopicServiceInterface, auth *middleware.AuthConfig, logger logger.Logger) *TopicHandler {
	return &TopicHandler{
		service: service,
		auth:    auth,
		logger:  logger,
	}
}

// RegisterRoutes registers the topic routes
func (h *TopicHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle("GET /v1/topics/{topic_id}", h.auth.RequireAuth(http.HandlerFunc(h.handleGet)))
	mux.Handle("DELETE /v1/topics/{topic_id}", h.auth.RequireAuth(http.HandlerFunc(h.handleStop)))
}

func (h *TopicHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.RetrieveTopic(r.Context(), r.PathValue("topic_id"))
	if err != nil {
		if domain.IsValidationError(err) {
			WriteJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.WithField("error", err.Error()).Error("Failed to retrieve topic")
		WriteJSONError(w, "Failed to retrieve topic", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

func (h *TopicHandler) handleStop(w http.ResponseWriter, r *http.Request) {
	topicID := r.PathValue("topic_id")
	if err := h.service.StopTopic(r.Context(), topicID); err != nil {
		if domain.IsValidationError(err) {
			WriteJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.WithField("error", err.Error()).Error("Failed to stop topic")
		WriteJSONError(w, "Failed to stop topic", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Topic " + topicID + " stopped",
	})
}
