package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/dispatchd/dispatchd/internal/domain"
	"github.com/dispatchd/dispatchd/internal/http/middleware"
	"github.com/dispatchd/dispatchd/pkg/logger"
)

// trackingPixelPNG is a 1x1 transparent PNG served by the open endpoint.
var trackingPixelPNG = []byte{
	0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x00, 0x00, 0x0D,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1F, 0x15, 0xC4, 0x89, 0x00, 0x00, 0x00,
	0x0A, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9C, 0x63, 0x00, 0x00, 0x00, 0x02,
	0x00, 0x01, 0xE2, 0x26, 0x05, 0x9B, 0x00, 0x00, 0x00, 0x00, 0x49, 0x45,
	0x4E, 0x44, 0xAE, 0x42, 0x60, 0x82,
}

// CallbackServiceInterface is the slice of the callback service the handler uses
type CallbackServiceInterface interface {
	ProcessCallback(ctx context.Context, body []byte) (*domain.CallbackResult, error)
}

// SentCounter answers sent-count queries
type SentCounter interface {
	SentCount(ctx context.Context, hours int) (int, error)
}

// EventHandler handles open tracking, sent counts and provider callbacks
type EventHandler struct {
	callbacks  CallbackServiceInterface
	counter    SentCounter
	resultRepo domain.EmailResultRepository
	auth       *middleware.AuthConfig
	logger     logger.Logger
}

// NewEventHandler creates a new event handler
func NewEventHandler(
	callbacks CallbackServiceInterface,
	counter SentCounter,
	resultRepo domain.EmailResultRepository,
	auth *middleware.AuthConfig,
	logger logger.Logger,
) *EventHandler {
	return &EventHandler{
		callbacks:  callbacks,
		counter:    counter,
		resultRepo: resultRepo,
		auth:       auth,
		logger:     logger,
	}
}

// RegisterRoutes registers the event routes. The open pixel and the
// provider callback are unauthenticated: recipients' mail clients and
// the notification bus cannot carry our bearer tokens.
func (h *EventHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /v1/events/open", h.handleOpen)
	mux.Handle("GET /v1/events/counts/sent", h.auth.RequireAuth(http.HandlerFunc(h.handleSentCount)))
	mux.HandleFunc("POST /v1/events/results", h.handleResults)
}

// handleOpen records an open event and serves the pixel. The pixel is
// always returned with 200: a broken tracking row must never break image
// rendering inside the recipient's mail client.
func (h *EventHandler) handleOpen(w http.ResponseWriter, r *http.Request) {
	if requestID, err := strconv.ParseInt(r.URL.Query().Get("request_id"), 10, 64); err == nil {
		result := &domain.EmailResult{
			RequestID: requestID,
			Status:    domain.ResultStatusOpen,
		}
		if err := h.resultRepo.Create(r.Context(), result); err != nil {
			h.logger.WithFields(map[string]interface{}{
				"request_id": requestID,
				"error":      err.Error(),
			}).Error("Failed to record open event")
		}
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(trackingPixelPNG)
}

func (h *EventHandler) handleSentCount(w http.ResponseWriter, r *http.Request) {
	hours := 0
	if raw := r.URL.Query().Get("hours"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			WriteJSONError(w, "Invalid hours parameter", http.StatusBadRequest)
			return
		}
		hours = parsed
	}

	count, err := h.counter.SentCount(r.Context(), hours)
	if err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to count sent emails")
		WriteJSONError(w, "Failed to count sent emails", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"count": count})
}

func (h *EventHandler) handleResults(w http.ResponseWriter, r *http.Request) {
	messageType := r.Header.Get(domain.SNSMessageTypeHeader)
	if messageType != domain.SNSTypeNotification && messageType != domain.SNSTypeSubscriptionConfirmation {
		WriteJSONError(w, "Unsupported message type", http.StatusBadRequest)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, domain.CallbackMaxBodySize))
	if err != nil {
		WriteJSONError(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	result, err := h.callbacks.ProcessCallback(r.Context(), body)
	if err != nil {
		if errors.Is(err, domain.ErrProviderMessageIDMissing) || domain.IsValidationError(err) {
			WriteJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.WithField("error", err.Error()).Error("Failed to process provider callback")
		WriteJSONError(w, "Failed to process callback", http.StatusInternalServerError)
		return
	}

	switch result.Outcome {
	case domain.CallbackRecorded:
		writeJSON(w, http.StatusOK, map[string]string{"message": "OK"})
	case domain.CallbackSubscription:
		writeJSON(w, http.StatusOK, map[string]string{"message": "Subscription confirmation received"})
	case domain.CallbackNonSES:
		writeJSON(w, http.StatusOK, map[string]string{"message": "Non-SES notification received"})
	default:
		writeJSON(w, http.StatusOK, map[string]string{"message": "Other message type received"})
	}
}
