package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/dispatchd/dispatchd/internal/domain"
	"github.com/dispatchd/dispatchd/internal/http/middleware"
	"github.com/dispatchd/dispatchd/pkg/logger"
)

// MessageServiceInterface is the slice of the message service the handler uses
type MessageServiceInterface interface {
	CreateMessages(ctx context.Context, req *domain.CreateMessagesRequest) (int, error)
}

// MessageHandler handles message batch submission
type MessageHandler struct {
	service MessageServiceInterface
	auth    *middleware.AuthConfig
	logger  logger.Logger
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(service MessageServiceInterface, auth *middleware.AuthConfig, logger logger.Logger) *MessageHandler {
	return &MessageHandler{
		service: service,
		auth:    auth,
		logger:  logger,
	}
}

// RegisterRoutes registers the message routes
func (h *MessageHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle("POST /v1/messages", h.auth.RequireAuth(http.HandlerFunc(h.handleCreate)))
}

func (h *MessageHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateMessagesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	start := time.Now()
	count, err := h.service.CreateMessages(r.Context(), &req)
	if err != nil {
		if domain.IsValidationError(err) {
			WriteJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.WithField("error", err.Error()).Error("Failed to create messages")
		WriteJSONError(w, "Failed to create messages", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": fmt.Sprintf("Processed in %v", time.Since(start)),
		"count":   count,
	})
}
