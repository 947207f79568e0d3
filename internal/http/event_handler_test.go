package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dispatchd/dispatchd/internal/domain"
	"github.com/dispatchd/dispatchd/internal/domain/mocks"
	"github.com/dispatchd/dispatchd/pkg/logger"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCallbackService struct {
	result *domain.CallbackResult
	err    error
	body   []byte
}

func (s *stubCallbackService) ProcessCallback(_ context.Context, body []byte) (*domain.CallbackResult, error) {
	s.body = body
	return s.result, s.err
}

type stubSentCounter struct {
	count int
	err   error
	hours int
}

func (s *stubSentCounter) SentCount(_ context.Context, hours int) (int, error) {
	s.hours = hours
	return s.count, s.err
}

func newEventMux(t *testing.T, callbacks CallbackServiceInterface, counter SentCounter, resultRepo domain.EmailResultRepository) *http.ServeMux {
	t.Helper()
	mux := http.NewServeMux()
	NewEventHandler(callbacks, counter, resultRepo, testAuth(), logger.NewTestLogger(t)).RegisterRoutes(mux)
	return mux
}

func TestEventHandler_Open(t *testing.T) {
	t.Run("records open and serves pixel", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		resultRepo := mocks.NewMockEmailResultRepository(ctrl)
		resultRepo.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, r *domain.EmailResult) error {
				assert.Equal(t, int64(42), r.RequestID)
				assert.Equal(t, domain.ResultStatusOpen, r.Status)
				assert.Empty(t, r.Raw)
				return nil
			})

		mux := newEventMux(t, &stubCallbackService{}, &stubSentCounter{}, resultRepo)

		req := httptest.NewRequest(http.MethodGet, "/v1/events/open?request_id=42", nil)
		rec := httptest.NewRecorder()

		mux.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
		assert.Equal(t, trackingPixelPNG, rec.Body.Bytes())
		assert.Len(t, rec.Body.Bytes(), 67)
	})

	t.Run("serves pixel without row when id is missing", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// No Create expectation: a row must not be written.
		resultRepo := mocks.NewMockEmailResultRepository(ctrl)
		mux := newEventMux(t, &stubCallbackService{}, &stubSentCounter{}, resultRepo)

		req := httptest.NewRequest(http.MethodGet, "/v1/events/open", nil)
		rec := httptest.NewRecorder()

		mux.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, trackingPixelPNG, rec.Body.Bytes())
	})

	t.Run("serves pixel without row when id is not numeric", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		resultRepo := mocks.NewMockEmailResultRepository(ctrl)
		mux := newEventMux(t, &stubCallbackService{}, &stubSentCounter{}, resultRepo)

		req := httptest.NewRequest(http.MethodGet, "/v1/events/open?request_id=abc", nil)
		rec := httptest.NewRecorder()

		mux.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, trackingPixelPNG, rec.Body.Bytes())
	})

	t.Run("swallows store errors", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		resultRepo := mocks.NewMockEmailResultRepository(ctrl)
		resultRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("db down"))

		mux := newEventMux(t, &stubCallbackService{}, &stubSentCounter{}, resultRepo)

		req := httptest.NewRequest(http.MethodGet, "/v1/events/open?request_id=42", nil)
		rec := httptest.NewRecorder()

		mux.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, trackingPixelPNG, rec.Body.Bytes())
	})
}

func TestEventHandler_SentCount(t *testing.T) {
	t.Run("returns count for explicit window", func(t *testing.T) {
		counter := &stubSentCounter{count: 12}
		mux := newEventMux(t, &stubCallbackService{}, counter, nil)

		req := httptest.NewRequest(http.MethodGet, "/v1/events/counts/sent?hours=48", nil)
		req.Header.Set("Authorization", testBearerToken(t))
		rec := httptest.NewRecorder()

		mux.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 48, counter.hours)
		assert.Contains(t, rec.Body.String(), `"count":12`)
	})

	t.Run("missing hours defaults downstream", func(t *testing.T) {
		counter := &stubSentCounter{count: 3}
		mux := newEventMux(t, &stubCallbackService{}, counter, nil)

		req := httptest.NewRequest(http.MethodGet, "/v1/events/counts/sent", nil)
		req.Header.Set("Authorization", testBearerToken(t))
		rec := httptest.NewRecorder()

		mux.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Zero(t, counter.hours)
	})

	t.Run("rejects non-numeric hours", func(t *testing.T) {
		mux := newEventMux(t, &stubCallbackService{}, &stubSentCounter{}, nil)

		req := httptest.NewRequest(http.MethodGet, "/v1/events/counts/sent?hours=abc", nil)
		req.Header.Set("Authorization", testBearerToken(t))
		rec := httptest.NewRecorder()

		mux.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("requires auth", func(t *testing.T) {
		mux := newEventMux(t, &stubCallbackService{}, &stubSentCounter{}, nil)

		req := httptest.NewRequest(http.MethodGet, "/v1/events/counts/sent", nil)
		rec := httptest.NewRecorder()

		mux.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestEventHandler_Results(t *testing.T) {
	notification := func() *http.Request {
		body := `{"Type":"Notification","MessageId":"env-1","Message":"{}"}`
		req := httptest.NewRequest(http.MethodPost, "/v1/events/results", strings.NewReader(body))
		req.Header.Set(domain.SNSMessageTypeHeader, domain.SNSTypeNotification)
		return req
	}

	t.Run("recorded outcome returns OK", func(t *testing.T) {
		callbacks := &stubCallbackService{result: &domain.CallbackResult{Outcome: domain.CallbackRecorded}}
		mux := newEventMux(t, callbacks, &stubSentCounter{}, nil)

		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, notification())

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "OK")
		require.NotEmpty(t, callbacks.body)
	})

	t.Run("subscription outcome returns 200", func(t *testing.T) {
		callbacks := &stubCallbackService{result: &domain.CallbackResult{
			Outcome:      domain.CallbackSubscription,
			SubscribeURL: "https://sns.example.com/confirm",
		}}
		mux := newEventMux(t, callbacks, &stubSentCounter{}, nil)

		body := `{"Type":"SubscriptionConfirmation","SubscribeURL":"https://sns.example.com/confirm"}`
		req := httptest.NewRequest(http.MethodPost, "/v1/events/results", strings.NewReader(body))
		req.Header.Set(domain.SNSMessageTypeHeader, domain.SNSTypeSubscriptionConfirmation)
		rec := httptest.NewRecorder()

		mux.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Subscription confirmation received")
	})

	t.Run("non-SES outcome returns 200", func(t *testing.T) {
		callbacks := &stubCallbackService{result: &domain.CallbackResult{Outcome: domain.CallbackNonSES}}
		mux := newEventMux(t, callbacks, &stubSentCounter{}, nil)

		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, notification())

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Non-SES notification received")
	})

	t.Run("other outcome returns 200", func(t *testing.T) {
		callbacks := &stubCallbackService{result: &domain.CallbackResult{Outcome: domain.CallbackOther}}
		mux := newEventMux(t, callbacks, &stubSentCounter{}, nil)

		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, notification())

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Other message type received")
	})

	t.Run("rejects missing message type header", func(t *testing.T) {
		mux := newEventMux(t, &stubCallbackService{}, &stubSentCounter{}, nil)

		req := httptest.NewRequest(http.MethodPost, "/v1/events/results", strings.NewReader(`{}`))
		rec := httptest.NewRecorder()

		mux.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects unknown message type header", func(t *testing.T) {
		mux := newEventMux(t, &stubCallbackService{}, &stubSentCounter{}, nil)

		req := httptest.NewRequest(http.MethodPost, "/v1/events/results", strings.NewReader(`{}`))
		req.Header.Set(domain.SNSMessageTypeHeader, "UnsubscribeConfirmation")
		rec := httptest.NewRecorder()

		mux.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed envelope returns 400", func(t *testing.T) {
		callbacks := &stubCallbackService{err: domain.NewValidationError("failed to parse callback envelope")}
		mux := newEventMux(t, callbacks, &stubSentCounter{}, nil)

		req := httptest.NewRequest(http.MethodPost, "/v1/events/results", strings.NewReader(`{broken`))
		req.Header.Set(domain.SNSMessageTypeHeader, domain.SNSTypeNotification)
		rec := httptest.NewRecorder()

		mux.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "failed to parse callback envelope")
	})

	t.Run("missing provider message id returns 400", func(t *testing.T) {
		callbacks := &stubCallbackService{err: domain.ErrProviderMessageIDMissing}
		mux := newEventMux(t, callbacks, &stubSentCounter{}, nil)

		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, notification())

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("correlation miss returns 500", func(t *testing.T) {
		callbacks := &stubCallbackService{err: &domain.ErrNotFound{Entity: "email request", ID: "ses-unknown"}}
		mux := newEventMux(t, callbacks, &stubSentCounter{}, nil)

		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, notification())

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("rejects oversized body", func(t *testing.T) {
		mux := newEventMux(t, &stubCallbackService{}, &stubSentCounter{}, nil)

		big := strings.Repeat("a", domain.CallbackMaxBodySize+1)
		req := httptest.NewRequest(http.MethodPost, "/v1/events/results", strings.NewReader(big))
		req.Header.Set(domain.SNSMessageTypeHeader, domain.SNSTypeNotification)
		rec := httptest.NewRecorder()

		mux.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
