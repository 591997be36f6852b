package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/umputun/feedsync/pkg/domain"
)

// CategoryRepository handles user category operations
type CategoryRepository struct {
	db *sqlx.DB
}

type categorySQL struct {
	ID        int64     `db:"id"`
	UserID    string    `db:"user_id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(database *sqlx.DB) *CategoryRepository {
	return &CategoryRepository{db: database}
}

// ResolveCategory returns the user's category with the given name, creating it if missing.
// Safe for concurrent callers, all of them get the same row.
func (r *CategoryRepository) ResolveCategory(ctx context.Context, userID, name string) (*domain.Category, error) {
	var row categorySQL
	err := inTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO categories (user_id, name) VALUES (?, ?)
			ON CONFLICT(user_id, name) DO NOTHING`, userID, name); err != nil {
			return fmt.Errorf("insert category: %w", err)
		}
		return tx.GetContext(ctx, &row, `SELECT id, user_id, name, created_at FROM categories
			WHERE user_id = ? AND name = ?`, userID, name)
	})
	if err != nil {
		return nil, fmt.Errorf("resolve category %q: %w", name, err)
	}
	return row.toDomain(), nil
}

// GetCategory returns the category by id, domain.ErrNotFound if missing
func (r *CategoryRepository) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	var row categorySQL
	err := r.db.GetContext(ctx, &row, `SELECT id, user_id, name, created_at FROM categories WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get category %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get category %d: %w", id, err)
	}
	return row.toDomain(), nil
}

// GetCategories returns all categories of the user ordered by name
func (r *CategoryRepository) GetCategories(ctx context.Context, userID string) ([]domain.Category, error) {
	var rows []categorySQL
	err := r.db.SelectContext(ctx, &rows, `SELECT id, user_id, name, created_at FROM categories
		WHERE user_id = ? ORDER BY name`, userID)
	if err != nil {
		return nil, fmt.Errorf("get categories: %w", err)
	}
	res := make([]domain.Category, 0, len(rows))
	for i := range rows {
		res = append(res, *rows[i].toDomain())
	}
	return res, nil
}

func (c *categorySQL) toDomain() *domain.Category {
	return &domain.Category{ID: c.ID, UserID: c.UserID, Name: c.Name, CreatedAt: c.CreatedAt}
}
