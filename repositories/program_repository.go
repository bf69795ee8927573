package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/petanque-voyages/booking-system/models"
)

var ErrProgramNotFound = errors.New("program not found")

type ProgramRepository interface {
	Create(ctx context.Context, program *models.Program) error
	GetByID(ctx context.Context, id int) (*models.Program, error)
	List(ctx context.Context, publishedOnly bool) ([]*models.Program, error)
	Update(ctx context.Context, program *models.Program) error
	UpdateImageKey(ctx context.Context, id int, imageKey *string) error
	Delete(ctx context.Context, id int) error
}

type postgresProgramRepository struct {
	db *sql.DB
}

func NewPostgresProgramRepository(db *sql.DB) ProgramRepository {
	return &postgresProgramRepository{db: db}
}

const programColumns = `id, title, summary, description, price_cents, days, position, published, image_key, created_at`

func (r *postgresProgramRepository) Create(ctx context.Context, program *models.Program) error {
	query := `
		INSERT INTO programs (title, summary, description, price_cents, days, position, published, image_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, query,
		program.Title, program.Summary, program.Description, program.PriceCents,
		program.Days, program.Position, program.Published, program.ImageKey,
	).Scan(&program.ID, &program.CreatedAt)
}

func (r *postgresProgramRepository) scanProgram(rowScanner interface{ Scan(...interface{}) error }) (*models.Program, error) {
	var p models.Program
	err := rowScanner.Scan(
		&p.ID, &p.Title, &p.Summary, &p.Description, &p.PriceCents,
		&p.Days, &p.Position, &p.Published, &p.ImageKey, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *postgresProgramRepository) GetByID(ctx context.Context, id int) (*models.Program, error) {
	query := `SELECT ` + programColumns + ` FROM programs WHERE id = $1`
	return r.scanProgram(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresProgramRepository) List(ctx context.Context, publishedOnly bool) ([]*models.Program, error) {
	query := `SELECT ` + programColumns + ` FROM programs`
	if publishedOnly {
		query += ` WHERE published = TRUE`
	}
	query += ` ORDER BY position ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query programs: %w", err)
	}
	defer rows.Close()

	programs := make([]*models.Program, 0)
	for rows.Next() {
		p, scanErr := r.scanProgram(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		programs = append(programs, p)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return programs, nil
}

func (r *postgresProgramRepository) Update(ctx context.Context, program *models.Program) error {
	query := `
		UPDATE programs
		SET title = $1, summary = $2, description = $3, price_cents = $4,
		    days = $5, position = $6, published = $7
		WHERE id = $8`
	result, err := r.db.ExecContext(ctx, query,
		program.Title, program.Summary, program.Description, program.PriceCents,
		program.Days, program.Position, program.Published, program.ID,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrProgramNotFound)
}

func (r *postgresProgramRepository) UpdateImageKey(ctx context.Context, id int, imageKey *string) error {
	query := `UPDATE programs SET image_key = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, imageKey, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrProgramNotFound)
}

func (r *postgresProgramRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM programs WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrProgramNotFound)
}
