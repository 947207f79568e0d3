package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dispatchd/dispatchd/internal/domain"
)

// emailResultRepository implements domain.EmailResultRepository
type emailResultRepository struct {
	db *sql.DB
}

// NewEmailResultRepository creates a new EmailResultRepository
func NewEmailResultRepository(db *sql.DB) domain.EmailResultRepository {
	return &emailResultRepository{db: db}
}

// Create appends a result row and fills in ID and CreatedAt.
func (r *emailResultRepository) Create(ctx context.Context, result *domain.EmailResult) error {
	result.CreatedAt = time.Now().UTC()

	query, args, err := psql.
		Insert("email_results").
		Columns("request_id", "status", "raw", "created_at").
		Values(result.RequestID, result.Status, nullableString(result.Raw), result.CreatedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert query: %w", err)
	}

	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&result.ID); err != nil {
		return fmt.Errorf("failed to insert email result: %w", err)
	}

	return nil
}

// CountsByTopic returns, per result status, the number of distinct
// requests of the topic that produced that result. Distinct because the
// provider may redeliver a notification and a recipient may open an
// email more than once.
func (r *emailResultRepository) CountsByTopic(ctx context.Context, topicID string) (map[string]int, error) {
	query := `
		SELECT er.status, COUNT(DISTINCT er.request_id)
		FROM email_results er
		JOIN email_requests req ON req.id = er.request_id
		WHERE req.topic_id = $1
		GROUP BY er.status
	`

	rows, err := r.db.QueryContext(ctx, query, topicID)
	if err != nil {
		return nil, fmt.Errorf("failed to count results by topic: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan count row: %w", err)
		}
		counts[status] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return counts, nil
}
