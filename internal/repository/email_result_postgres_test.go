package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dispatchd/dispatchd/internal/domain"
	"github.com/dispatchd/dispatchd/internal/repository/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmailResultRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("successfully creates result", func(t *testing.T) {
		db, mock, cleanup := testutil.SetupMockDB(t)
		defer cleanup()

		repo := NewEmailResultRepository(db)

		result := &domain.EmailResult{
			RequestID: 42,
			Status:    "Delivery",
			Raw:       `{"notificationType":"Delivery"}`,
		}

		mock.ExpectQuery(`INSERT INTO email_results`).
			WithArgs(int64(42), "Delivery", result.Raw, sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))

		err := repo.Create(ctx, result)
		require.NoError(t, err)
		assert.Equal(t, int64(3), result.ID)
		assert.False(t, result.CreatedAt.IsZero())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("stores open event without raw payload", func(t *testing.T) {
		db, mock, cleanup := testutil.SetupMockDB(t)
		defer cleanup()

		repo := NewEmailResultRepository(db)

		result := &domain.EmailResult{
			RequestID: 42,
			Status:    domain.ResultStatusOpen,
		}

		mock.ExpectQuery(`INSERT INTO email_results`).
			WithArgs(int64(42), domain.ResultStatusOpen, nil, sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(4)))

		err := repo.Create(ctx, result)
		assert.NoError(t, err)
	})

	t.Run("returns error on insert failure", func(t *testing.T) {
		db, mock, cleanup := testutil.SetupMockDB(t)
		defer cleanup()

		repo := NewEmailResultRepository(db)

		mock.ExpectQuery(`INSERT INTO email_results`).
			WillReturnError(errors.New("foreign key violation"))

		err := repo.Create(ctx, &domain.EmailResult{RequestID: 999, Status: "Bounce"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to insert email result")
	})
}

func TestEmailResultRepository_CountsByTopic(t *testing.T) {
	ctx := context.Background()

	t.Run("counts distinct requests per status", func(t *testing.T) {
		db, mock, cleanup := testutil.SetupMockDB(t)
		defer cleanup()

		repo := NewEmailResultRepository(db)

		mock.ExpectQuery(`SELECT er.status, COUNT\(DISTINCT er.request_id\)`).
			WithArgs("topic-a").
			WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).
				AddRow("Delivery", 9).
				AddRow("Open", 4).
				AddRow("Bounce", 1))

		counts, err := repo.CountsByTopic(ctx, "topic-a")
		require.NoError(t, err)
		assert.Equal(t, map[string]int{"Delivery": 9, "Open": 4, "Bounce": 1}, counts)
	})

	t.Run("returns empty map when topic has no results", func(t *testing.T) {
		db, mock, cleanup := testutil.SetupMockDB(t)
		defer cleanup()

		repo := NewEmailResultRepository(db)

		mock.ExpectQuery(`SELECT er.status, COUNT\(DISTINCT er.request_id\)`).
			WithArgs("topic-empty").
			WillReturnRows(sqlmock.NewRows([]string{"status", "count"}))

		counts, err := repo.CountsByTopic(ctx, "topic-empty")
		require.NoError(t, err)
		assert.Empty(t, counts)
	})

	t.Run("returns error on query failure", func(t *testing.T) {
		db, mock, cleanup := testutil.SetupMockDB(t)
		defer cleanup()

		repo := NewEmailResultRepository(db)

		mock.ExpectQuery(`SELECT er.status, COUNT\(DISTINCT er.request_id\)`).
			WillReturnError(errors.New("relation does not exist"))

		_, err := repo.CountsByTopic(ctx, "topic-a")
		assert.Error(t, err)
	})
}
