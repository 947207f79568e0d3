package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/dispatchd/dispatchd/internal/domain"
)

// psql is a Squirrel StatementBuilder configured for PostgreSQL
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// emailRequestRepository implements domain.EmailRequestRepository
type emailRequestRepository struct {
	db *sql.DB
}

// NewEmailRequestRepository creates a new EmailRequestRepository
func NewEmailRequestRepository(db *sql.DB) domain.EmailRequestRepository {
	return &emailRequestRepository{db: db}
}

// Create persists a new request and fills in ID, CreatedAt and UpdatedAt.
func (r *emailRequestRepository) Create(ctx context.Context, request *domain.EmailRequest) error {
	now := time.Now().UTC()
	request.CreatedAt = now
	request.UpdatedAt = now

	query, args, err := psql.
		Insert("email_requests").
		Columns("topic_id", "email", "subject", "content", "scheduled_at", "status", "created_at", "updated_at").
		Values(
			request.TopicID,
			request.Email,
			request.Subject,
			request.Content,
			request.ScheduledAt,
			request.Status,
			request.CreatedAt,
			request.UpdatedAt,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert query: %w", err)
	}

	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&request.ID); err != nil {
		return fmt.Errorf("failed to insert email request: %w", err)
	}

	return nil
}

// ClaimDue atomically transitions up to limit due Created rows to Processed
// and returns them. The inner SELECT uses FOR UPDATE SKIP LOCKED so a
// second scheduler instance skips rows already being claimed instead of
// blocking on them or double-sending.
func (r *emailRequestRepository) ClaimDue(ctx context.Context, limit int) ([]*domain.EmailRequest, error) {
	query := `
		UPDATE email_requests
		SET status = $1, updated_at = NOW()
		WHERE id IN (
			SELECT id FROM email_requests
			WHERE status = $2 AND scheduled_at <= NOW()
			ORDER BY scheduled_at ASC
			LIMIT $3
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, topic_id, email, subject, content, scheduled_at, status,
		          COALESCE(error, ''), COALESCE(message_id, ''), created_at, updated_at
	`

	rows, err := r.db.QueryContext(ctx, query, domain.EmailStatusProcessed, domain.EmailStatusCreated, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to claim due email requests: %w", err)
	}
	defer rows.Close()

	var requests []*domain.EmailRequest
	for rows.Next() {
		request, err := scanEmailRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return requests, nil
}

// UpdateDelivery records the terminal outcome of a send attempt.
func (r *emailRequestRepository) UpdateDelivery(ctx context.Context, request *domain.EmailRequest) error {
	query, args, err := psql.
		Update("email_requests").
		Set("status", request.Status).
		Set("message_id", nullableString(request.MessageID)).
		Set("error", nullableString(request.Error)).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": request.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update email request: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return &domain.ErrNotFound{Entity: "email request", ID: strconv.FormatInt(request.ID, 10)}
	}

	return nil
}

// GetRequestIDByMessageID resolves the provider-assigned message id back
// to the owning request row.
func (r *emailRequestRepository) GetRequestIDByMessageID(ctx context.Context, messageID string) (int64, error) {
	query, args, err := psql.
		Select("id").
		From("email_requests").
		Where(sq.Eq{"message_id": messageID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build select query: %w", err)
	}

	var id int64
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, &domain.ErrNotFound{Entity: "email request", ID: messageID}
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get request by message id: %w", err)
	}

	return id, nil
}

// CountsByTopic returns request counts per status label for a topic.
func (r *emailRequestRepository) CountsByTopic(ctx context.Context, topicID string) (map[string]int, error) {
	query, args, err := psql.
		Select("status", "COUNT(*)").
		From("email_requests").
		Where(sq.Eq{"topic_id": topicID}).
		GroupBy("status").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build count query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to count requests by topic: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status domain.EmailStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan count row: %w", err)
		}
		counts[status.Label()] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return counts, nil
}

// StopTopic transitions all Created rows of a topic to Stopped. Rows
// already claimed by the scheduler stay on their way out.
func (r *emailRequestRepository) StopTopic(ctx context.Context, topicID string) error {
	query, args, err := psql.
		Update("email_requests").
		Set("status", domain.EmailStatusStopped).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"topic_id": topicID, "status": domain.EmailStatusCreated}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build stop query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to stop topic: %w", err)
	}

	return nil
}

// SentCount counts requests sent within the last hours.
func (r *emailRequestRepository) SentCount(ctx context.Context, hours int) (int, error) {
	query := `
		SELECT COUNT(*) FROM email_requests
		WHERE status = $1 AND created_at >= NOW() - ($2 || ' hours')::INTERVAL
	`

	var count int
	err := r.db.QueryRowContext(ctx, query, domain.EmailStatusSent, hours).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count sent requests: %w", err)
	}

	return count, nil
}

// scanner abstracts *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanEmailRequest(s scanner) (*domain.EmailRequest, error) {
	var request domain.EmailRequest
	err := s.Scan(
		&request.ID,
		&request.TopicID,
		&request.Email,
		&request.Subject,
		&request.Content,
		&request.ScheduledAt,
		&request.Status,
		&request.Error,
		&request.MessageID,
		&request.CreatedAt,
		&request.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan email request: %w", err)
	}
	return &request, nil
}

// nullableString maps empty strings to NULL so partial indexes and
// COALESCE reads behave.
func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
