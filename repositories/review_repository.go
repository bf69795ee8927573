package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/petanque-voyages/booking-system/models"
)

var ErrReviewNotFound = errors.New("review not found")

type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	GetByID(ctx context.Context, id int) (*models.Review, error)
	List(ctx context.Context, publishedOnly bool) ([]*models.Review, error)
	SetPublished(ctx context.Context, id int, published bool) error
	Delete(ctx context.Context, id int) error
}

type postgresReviewRepository struct {
	db *sql.DB
}

func NewPostgresReviewRepository(db *sql.DB) ReviewRepository {
	return &postgresReviewRepository{db: db}
}

func (r *postgresReviewRepository) Create(ctx context.Context, review *models.Review) error {
	query := `
		INSERT INTO reviews (author_name, rating, body, published)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, query,
		review.AuthorName, review.Rating, review.Body, review.Published,
	).Scan(&review.ID, &review.CreatedAt)
}

func (r *postgresReviewRepository) scanReview(rowScanner interface{ Scan(...interface{}) error }) (*models.Review, error) {
	var rev models.Review
	err := rowScanner.Scan(&rev.ID, &rev.AuthorName, &rev.Rating, &rev.Body, &rev.Published, &rev.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return &rev, nil
}

func (r *postgresReviewRepository) GetByID(ctx context.Context, id int) (*models.Review, error) {
	query := `SELECT id, author_name, rating, body, published, created_at FROM reviews WHERE id = $1`
	return r.scanReview(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresReviewRepository) List(ctx context.Context, publishedOnly bool) ([]*models.Review, error) {
	query := `SELECT id, author_name, rating, body, published, created_at FROM reviews`
	if publishedOnly {
		query += ` WHERE published = TRUE`
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query reviews: %w", err)
	}
	defer rows.Close()

	reviews := make([]*models.Review, 0)
	for rows.Next() {
		rev, scanErr := r.scanReview(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		reviews = append(reviews, rev)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *postgresReviewRepository) SetPublished(ctx context.Context, id int, published bool) error {
	query := `UPDATE reviews SET published = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, published, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrReviewNotFound)
}

func (r *postgresReviewRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM reviews WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrReviewNotFound)
}
