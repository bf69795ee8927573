package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/petanque-voyages/booking-system/models"
)

type VisitorRepository interface {
	Create(ctx context.Context, visitor *models.Visitor) error
	List(ctx context.Context, limit, offset int) ([]*models.Visitor, error)
	CountSince(ctx context.Context, days int) (int, error)
}

type postgresVisitorRepository struct {
	db *sql.DB
}

func NewPostgresVisitorRepository(db *sql.DB) VisitorRepository {
	return &postgresVisitorRepository{db: db}
}

func (r *postgresVisitorRepository) Create(ctx context.Context, visitor *models.Visitor) error {
	query := `
		INSERT INTO visitors (session_id, path, lang, user_agent, remote_addr)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, query,
		visitor.SessionID, visitor.Path, visitor.Lang, visitor.UserAgent, visitor.RemoteAddr,
	).Scan(&visitor.ID, &visitor.CreatedAt)
}

func (r *postgresVisitorRepository) List(ctx context.Context, limit, offset int) ([]*models.Visitor, error) {
	query := `
		SELECT id, session_id, path, lang, user_agent, remote_addr, created_at
		FROM visitors
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query visitors: %w", err)
	}
	defer rows.Close()

	visitors := make([]*models.Visitor, 0)
	for rows.Next() {
		var v models.Visitor
		if scanErr := rows.Scan(&v.ID, &v.SessionID, &v.Path, &v.Lang, &v.UserAgent, &v.RemoteAddr, &v.CreatedAt); scanErr != nil {
			return nil, scanErr
		}
		visitors = append(visitors, &v)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return visitors, nil
}

func (r *postgresVisitorRepository) CountSince(ctx context.Context, days int) (int, error) {
	query := `SELECT COUNT(*) FROM visitors WHERE created_at > NOW() - ($1 || ' days')::interval`
	var count int
	if err := r.db.QueryRowContext(ctx, query, days).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
